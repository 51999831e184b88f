package game

import (
	"math"
	"testing"
)

func TestWagerInputUnparseable(t *testing.T) {
	e := NewEconomy(1000)
	if got := e.SetWager(ParseWager("abc")); got != MinWager {
		t.Errorf("wager for %q = %v, want %v", "abc", got, MinWager)
	}
}

func TestParseWager(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"abc":       0,
		"2":         2,
		" 3.5 ":     3.5,
		"12abc":     12,
		".25":       0.25,
		"-4":        -4,
		"1e2":       100,
		"1e999":     math.Inf(1),
		"-1e999":    math.Inf(-1),
		"Infinity":  math.Inf(1),
		"-Infinity": math.Inf(-1),
		"1e-999":    0,
		"NaN":       0,
		"Inf":       0,
	}
	for in, want := range cases {
		if got := ParseWager(in); got != want {
			t.Errorf("ParseWager(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestParseCount(t *testing.T) {
	cases := map[string]int{
		"": 0, "abc": 0, "5": 5, "3.7": 3, " 12 ": 12, "-2": -2, "7balls": 7,
		"99999999999999999999":  math.MaxInt,
		"-99999999999999999999": math.MinInt,
	}
	for in, want := range cases {
		if got := ParseCount(in); got != want {
			t.Errorf("ParseCount(%q)=%d, want %d", in, got, want)
		}
	}
}

func TestWagerClamp(t *testing.T) {
	e := NewEconomy(1000)
	if got := e.SetWager(600); got != 500 {
		t.Errorf("wager above half the score: got %v, want 500", got)
	}
	if got := e.SetWager(-3); got != MinWager {
		t.Errorf("negative wager: got %v, want %v", got, MinWager)
	}
	if got := e.SetWager(math.NaN()); got != MinWager {
		t.Errorf("NaN wager: got %v, want %v", got, MinWager)
	}
}

func TestCountClampedToAffordable(t *testing.T) {
	e := NewEconomy(3)
	e.SetWager(1)
	if e.MaxAffordable != 3 {
		t.Fatalf("max affordable=%d, want 3", e.MaxAffordable)
	}

	n, warn := e.SetCount(1000)
	if n != 3 {
		t.Errorf("count=%d, want 3", n)
	}
	if warn == nil || warn.Code != WarnCountClamped {
		t.Errorf("expected a %s warning, got %+v", WarnCountClamped, warn)
	}
	if err := e.CanDrop(); err != nil {
		t.Errorf("clamped count should still drop: %v", err)
	}

	n, warn = e.SetCount(ParseCount("99999999999999999999"))
	if n != 3 || warn == nil || warn.Code != WarnCountClamped {
		t.Errorf("oversized count input: got %d warn=%+v", n, warn)
	}
	if n, _ = e.SetCount(ParseCount("-99999999999999999999")); n != 0 {
		t.Errorf("oversized negative count: got %d, want 0", n)
	}

	n, warn = e.SetCount(2)
	if n != 2 || warn != nil {
		t.Errorf("affordable count: got %d warn=%+v", n, warn)
	}
	if n, _ = e.SetCount(-4); n != 0 {
		t.Errorf("negative count: got %d, want 0", n)
	}
	if err := e.CanDrop(); err != ErrEmptyDrop {
		t.Errorf("zero count: got %v, want %v", err, ErrEmptyDrop)
	}
}

func TestOverflowingWagerClampsToBound(t *testing.T) {
	e := NewEconomy(1000)
	if got := e.SetWager(ParseWager("1e999")); got != 500 {
		t.Errorf("wager 1e999: got %v, want 500", got)
	}
	if got := e.SetWager(ParseWager("Infinity")); got != 500 {
		t.Errorf("wager Infinity: got %v, want 500", got)
	}
	if got := e.SetWager(ParseWager("-Infinity")); got != MinWager {
		t.Errorf("wager -Infinity: got %v, want %v", got, MinWager)
	}
}

func TestFractionalScoreDropsMaxAffordable(t *testing.T) {
	cases := []struct {
		score, wager float64
		want         int
	}{
		{0.35, 0.01, 35},
		{0.41, 0.01, 41},
		{0.63, 0.07, 9},
	}
	for _, c := range cases {
		e := NewEconomy(c.score)
		e.SetWager(c.wager)
		n, warn := e.SetCount(1000)
		if n != c.want || warn == nil {
			t.Errorf("score=%v wager=%v: count=%d warn=%+v, want %d with warning", c.score, c.wager, n, warn, c.want)
			continue
		}
		if err := e.CanDrop(); err != nil {
			t.Errorf("score=%v wager=%v: clamped count rejected: %v", c.score, c.wager, err)
			continue
		}
		e.Charge(e.DropCost())
		if e.Score < 0 {
			t.Errorf("score=%v wager=%v: score went negative after charge: %v", c.score, c.wager, e.Score)
		}
	}
}

func TestEconomyInvariants(t *testing.T) {
	scores := []float64{0, 0.01, 1, 3.7, 1000}
	wagers := []float64{-5, 0, 0.005, 1, 2.5, 1e9, math.NaN()}
	counts := []int{-3, 0, 1, 5, 1000000}

	for _, score := range scores {
		for _, wager := range wagers {
			for _, count := range counts {
				e := NewEconomy(score)
				e.SetWager(wager)
				e.SetCount(count)

				if e.Score < 0 {
					t.Errorf("score %v went negative", e.Score)
				}
				if e.Wager < MinWager || e.Wager > math.Max(MinWager, e.Score/2) {
					t.Errorf("score=%v wager in=%v: wager %v outside [%v, %v]", score, wager, e.Wager, MinWager, e.Score/2)
				}
				if e.Count < 0 || float64(e.Count) > math.Floor(e.Score/e.Wager) {
					t.Errorf("score=%v wager=%v: count %d exceeds floor(score/wager)", score, e.Wager, e.Count)
				}
			}
		}
	}
}

func TestPendingCommitsOnlyOnCommit(t *testing.T) {
	e := NewEconomy(100)
	e.Charge(10)
	e.Accrue(25)
	e.Accrue(math.Inf(1))
	if e.Score != 90 {
		t.Errorf("score=%v before commit, want 90", e.Score)
	}
	if e.Pending != 25 {
		t.Errorf("pending=%v, want 25", e.Pending)
	}
	if got := e.Commit(); got != 25 {
		t.Errorf("committed %v, want 25", got)
	}
	if e.Score != 115 || e.Pending != 0 {
		t.Errorf("after commit score=%v pending=%v, want 115 and 0", e.Score, e.Pending)
	}
}

func TestAffordableFollowsScore(t *testing.T) {
	e := NewEconomy(10)
	e.SetWager(2)
	e.SetCount(5)
	e.Charge(6)
	if e.MaxAffordable != 2 || e.Count != 2 {
		t.Errorf("after charge max=%d count=%d, want 2 and 2", e.MaxAffordable, e.Count)
	}
	if err := e.CanDrop(); err != nil {
		t.Errorf("CanDrop: %v", err)
	}
}

func TestCanDropRejectsUnaffordableCount(t *testing.T) {
	e := NewEconomy(5)
	e.SetWager(1)
	e.Count = 6
	if err := e.CanDrop(); err != ErrInsufficientScore {
		t.Errorf("count above max affordable: got %v, want %v", err, ErrInsufficientScore)
	}
}
