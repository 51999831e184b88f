package game

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyDrop         = errors.New("ball count is zero")
	ErrInsufficientScore = errors.New("score does not cover the drop")
)

// Warning is a non-fatal notice for the player, e.g. a clamped ball count.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const WarnCountClamped = "count_clamped"

// Economy is the wager and score bookkeeping of one player.
//
// Pending holds winnings of balls that already landed in the current batch;
// it is only folded into Score by Commit, once nothing is left in flight.
type Economy struct {
	Score         float64 `json:"score"`
	Wager         float64 `json:"wager"`
	Count         int     `json:"count"`
	MaxAffordable int     `json:"max_affordable"`
	Pending       float64 `json:"pending"`
}

// NewEconomy starts with a wager of 1 and a single ball, like a fresh table.
func NewEconomy(score float64) *Economy {
	e := &Economy{Score: sanitizeScore(score), Wager: 1, Count: 1}
	e.SetWager(1)
	return e
}

func sanitizeScore(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// SetWager clamps v to [MinWager, Score/2]. When the score is below twice the
// minimum wager the lower bound wins.
func (e *Economy) SetWager(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	e.Wager = math.Max(MinWager, math.Min(v, e.Score/2))
	e.refreshAffordable()
	return e.Wager
}

// SetCount clamps n to [0, MaxAffordable]. Asking for more than is affordable
// is not an error: the count is truncated and a Warning is returned.
func (e *Economy) SetCount(n int) (int, *Warning) {
	var warn *Warning
	if n > e.MaxAffordable {
		n = e.MaxAffordable
		warn = &Warning{
			Code:    WarnCountClamped,
			Message: "You cannot afford that many balls! Adjusting to max affordable.",
		}
	}
	if n < 0 {
		n = 0
	}
	e.Count = n
	return e.Count, warn
}

// refreshAffordable recomputes MaxAffordable and pulls Count down to it.
func (e *Economy) refreshAffordable() {
	max := math.Floor(e.Score / e.Wager)
	if !isFinite(max) || max < 0 {
		max = 0
	}
	e.MaxAffordable = int(max)
	if e.Count > e.MaxAffordable {
		e.Count = e.MaxAffordable
	}
}

// DropCost is the upfront price of a batch at the current settings.
func (e *Economy) DropCost() float64 {
	return e.Wager * float64(e.Count)
}

// CanDrop reports whether a batch at the current settings may start.
func (e *Economy) CanDrop() error {
	if e.Count <= 0 {
		return ErrEmptyDrop
	}
	// Count is compared against the floored quotient rather than the float
	// product wager*count, which can exceed a score it evenly divides.
	if e.Count > e.MaxAffordable {
		return ErrInsufficientScore
	}
	return nil
}

// Charge deducts a batch cost from the score.
func (e *Economy) Charge(cost float64) {
	e.adjustScore(-cost)
}

// Refund returns stake for balls that were never released.
func (e *Economy) Refund(amount float64) {
	e.adjustScore(amount)
}

// Accrue adds a landed ball's payout to the pending accumulator.
func (e *Economy) Accrue(payout float64) {
	if isFinite(payout) && payout > 0 {
		e.Pending += payout
	}
}

// Commit folds pending into score and resets the accumulator. It returns the
// committed amount.
func (e *Economy) Commit() float64 {
	amount := e.Pending
	e.Pending = 0
	if amount > 0 {
		e.adjustScore(amount)
	}
	return amount
}

func (e *Economy) adjustScore(delta float64) {
	e.Score = sanitizeScore(e.Score + delta)
	e.refreshAffordable()
}

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseWager reads the leading number of a free-text wager field. Anything
// unparseable reads as 0, which SetWager then lifts to MinWager. Overflow and
// "Infinity" read as ±Inf so SetWager clamps them to the nearest bound.
func ParseWager(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// ParseCount reads the leading integer of a free-text count field, 0 if none.
// Integers too large for int saturate so SetCount still clamps and warns.
func ParseCount(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if errors.Is(err, strconv.ErrRange) {
		if m[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return v
}
