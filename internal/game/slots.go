package game

import "math"

// SlotBand is one scoring band at the bottom of the field.
type SlotBand struct {
	Index      int     `json:"index"`
	Multiplier float64 `json:"multiplier"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
}

// Contains reports whether x falls in [Left, Left+Width).
func (s SlotBand) Contains(x float64) bool {
	return x >= s.Left && x < s.Left+s.Width
}

// Tier classifies a landing for sound and screen effects.
type Tier int

const (
	TierNone Tier = iota
	TierBig
	TierJackpot
)

func (t Tier) String() string {
	switch t {
	case TierBig:
		return "big"
	case TierJackpot:
		return "jackpot"
	default:
		return "none"
	}
}

// TierFor returns the effect tier of a multiplier.
func TierFor(multiplier float64) Tier {
	switch {
	case multiplier >= JackpotTierMultiplier:
		return TierJackpot
	case multiplier >= BigTierMultiplier:
		return TierBig
	default:
		return TierNone
	}
}

// SlotWeight is the relative catch width of a slot: rarer, higher multipliers
// get narrower bands.
func SlotWeight(multiplier float64) float64 {
	return math.Pow(1/multiplier, SlotWeightExponent)
}

// SlotBands partitions SlotShrinkFactor of the game width between the
// multipliers in proportion to their weights, centered in the field.
func SlotBands(g Geometry, multipliers []float64) []SlotBand {
	totalWeight := 0.0
	for _, m := range multipliers {
		totalWeight += SlotWeight(m)
	}

	usable := g.GameWidth * SlotShrinkFactor
	x := g.Left + (g.GameWidth-usable)/2
	top := g.SlotLineY()

	bands := make([]SlotBand, len(multipliers))
	for i, m := range multipliers {
		w := SlotWeight(m) / totalWeight * usable
		bands[i] = SlotBand{
			Index:      i,
			Multiplier: m,
			Left:       x,
			Width:      w,
			Top:        top,
			Height:     g.SlotHeight,
		}
		x += w
	}
	return bands
}

// FindSlot scans left to right for the band containing x. A miss (x outside
// every band) is reported as ok == false and must not be clamped into a slot.
func FindSlot(bands []SlotBand, x float64) (SlotBand, bool) {
	for _, b := range bands {
		if b.Contains(x) {
			return b, true
		}
	}
	return SlotBand{}, false
}

// Payout is the amount a ball staked at wager wins in a slot.
func Payout(multiplier, wager float64) float64 {
	return multiplier * wager
}
