package stats

import (
	"math"
	"testing"

	"github.com/playmatatu/plinko/internal/game"
)

func TestRunAccountsForEveryBall(t *testing.T) {
	rep, err := Run(Options{Balls: 60, BatchSize: 25, Wager: 2, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if got := rep.Landed + rep.Misses + rep.Anomalies; got != 60 {
		t.Fatalf("landed+misses+anomalies = %d, want 60", got)
	}
	if rep.Wagered != 120 {
		t.Errorf("wagered = %v, want 120", rep.Wagered)
	}
	if len(rep.Slots) != 11 {
		t.Fatalf("slots = %d", len(rep.Slots))
	}

	hits, returned, share := 0, 0.0, 0.0
	for _, s := range rep.Slots {
		hits += s.Hits
		returned += s.Returned
		share += s.WidthShare
	}
	if hits != rep.Landed {
		t.Errorf("slot hits %d != landed %d", hits, rep.Landed)
	}
	if math.Abs(returned-rep.Returned) > 1e-9 {
		t.Errorf("slot returns %v != total %v", returned, rep.Returned)
	}
	if math.Abs(share-1) > 1e-9 {
		t.Errorf("width shares sum to %v", share)
	}
	if rep.Wagered > 0 && math.Abs(rep.RTP-rep.Returned/rep.Wagered) > 1e-12 {
		t.Errorf("rtp = %v", rep.RTP)
	}
	if rep.Bounces == 0 {
		t.Error("expected peg collisions")
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	a, err := Run(Options{Balls: 30, Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(Options{Balls: 30, Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	if a.Returned != b.Returned || a.Frames != b.Frames {
		t.Fatalf("same seed diverged: %v/%d vs %v/%d", a.Returned, a.Frames, b.Returned, b.Frames)
	}
}

func TestRunRejectsInvalidBoard(t *testing.T) {
	if _, err := Run(Options{Board: game.Board{PegRows: 3, Multipliers: []float64{1}}}); err == nil {
		t.Fatal("expected invalid board error")
	}
}
