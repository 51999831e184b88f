package game

import (
	"math"
	"testing"
)

func TestSlotWeightOrdering(t *testing.T) {
	order := []float64{100, 10, 2.5, 1, 0.5, 0.25}
	for i := 1; i < len(order); i++ {
		if !(SlotWeight(order[i-1]) < SlotWeight(order[i])) {
			t.Errorf("weight(%v)=%.6f should be < weight(%v)=%.6f",
				order[i-1], SlotWeight(order[i-1]), order[i], SlotWeight(order[i]))
		}
	}
}

func TestSlotBandsFitShrunkWidth(t *testing.T) {
	board := DefaultBoard()
	for _, sz := range [][2]float64{{800, 600}, {1920, 1080}, {375, 667}} {
		g := ComputeGeometry(board, sz[0], sz[1])
		bands := SlotBands(g, board.Multipliers)
		if len(bands) != len(board.Multipliers) {
			t.Fatalf("got %d bands, want %d", len(bands), len(board.Multipliers))
		}

		total := 0.0
		for i, b := range bands {
			total += b.Width
			if i > 0 && math.Abs(bands[i-1].Left+bands[i-1].Width-b.Left) > 1e-9 {
				t.Errorf("band %d does not start where band %d ends", i, i-1)
			}
		}
		if total > g.GameWidth*SlotShrinkFactor+1e-9 {
			t.Errorf("viewport %vx%v: total width %.6f > %.6f", sz[0], sz[1], total, g.GameWidth*SlotShrinkFactor)
		}

		first, last := bands[0], bands[len(bands)-1]
		leftGap := first.Left - g.Left
		rightGap := g.Left + g.GameWidth - (last.Left + last.Width)
		if math.Abs(leftGap-rightGap) > 1e-6 {
			t.Errorf("bands not centered: left gap %.6f right gap %.6f", leftGap, rightGap)
		}
	}
}

func TestSlotBandsSymmetricAndCenterWidest(t *testing.T) {
	board := DefaultBoard()
	g := ComputeGeometry(board, 800, 600)
	bands := SlotBands(g, board.Multipliers)
	n := len(bands)
	for i := 0; i < n/2; i++ {
		if math.Abs(bands[i].Width-bands[n-1-i].Width) > 1e-9 {
			t.Errorf("band %d width %.6f != band %d width %.6f", i, bands[i].Width, n-1-i, bands[n-1-i].Width)
		}
	}
	center := bands[n/2]
	for _, b := range bands {
		if b.Width > center.Width {
			t.Errorf("band %d (x%v) is wider than the center band", b.Index, b.Multiplier)
		}
	}
}

func TestFindSlot(t *testing.T) {
	board := DefaultBoard()
	g := ComputeGeometry(board, 800, 600)
	bands := SlotBands(g, board.Multipliers)

	for _, b := range bands {
		got, ok := FindSlot(bands, b.Left+b.Width/2)
		if !ok || got.Index != b.Index {
			t.Errorf("center of band %d resolved to %d (ok=%v)", b.Index, got.Index, ok)
		}
		got, ok = FindSlot(bands, b.Left)
		if !ok || got.Index != b.Index {
			t.Errorf("left edge of band %d resolved to %d (ok=%v)", b.Index, got.Index, ok)
		}
	}

	t.Run("miss left of bands", func(t *testing.T) {
		if _, ok := FindSlot(bands, bands[0].Left-0.001); ok {
			t.Error("x left of every band should miss")
		}
	})
	t.Run("miss at right edge", func(t *testing.T) {
		last := bands[len(bands)-1]
		if _, ok := FindSlot(bands, last.Left+last.Width); ok {
			t.Error("right edge is exclusive and should miss")
		}
	})
}

func TestTierFor(t *testing.T) {
	cases := map[float64]Tier{100: TierJackpot, 10: TierBig, 2.5: TierNone, 0.25: TierNone}
	for m, want := range cases {
		if got := TierFor(m); got != want {
			t.Errorf("TierFor(%v)=%v, want %v", m, got, want)
		}
	}
}
