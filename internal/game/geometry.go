package game

import "math"

// Geometry is a consistent snapshot of every derived layout scalar for one
// viewport size. All of it comes from a single scale value; never mix fields
// from two snapshots.
type Geometry struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	PegRows        int     `json:"peg_rows"`
	PegColumns     int     `json:"peg_columns"`
	WidthFactor    float64 `json:"width_factor"`
	Scale          float64 `json:"scale"`
	PegRadius      float64 `json:"peg_radius"`
	BallRadius     float64 `json:"ball_radius"`
	SlotHeight     float64 `json:"slot_height"`
	GameWidth      float64 `json:"game_width"`
	GameHeight     float64 `json:"game_height"`
	Left           float64 `json:"left"`
	Top            float64 `json:"top"`
	WallWidth      float64 `json:"wall_width"`
	WallMargin     float64 `json:"wall_margin"`
}

// ComputeGeometry derives the layout for a viewport. Degenerate viewports
// (non-finite or smaller than MinViewport) are clamped so that Scale is
// always positive.
func ComputeGeometry(b Board, width, height float64) Geometry {
	width = clampViewport(width)
	height = clampViewport(height)

	cols := b.PegColumns()
	margin := math.Min(width, height) * MarginRatio
	availableWidth := width - 2*margin
	availableHeight := height - 2*margin
	scale := math.Min(availableWidth/float64(cols), availableHeight/float64(b.PegRows+2))

	pegRadius := scale / PegRadiusDiv
	gameWidth := float64(cols) * scale * b.WidthFactor
	gameHeight := float64(b.PegRows+2) * scale

	return Geometry{
		ViewportWidth:  width,
		ViewportHeight: height,
		PegRows:        b.PegRows,
		PegColumns:     cols,
		WidthFactor:    b.WidthFactor,
		Scale:          scale,
		PegRadius:      pegRadius,
		BallRadius:     pegRadius * BallPegRatio,
		SlotHeight:     scale * SlotHeightMul,
		GameWidth:      gameWidth,
		GameHeight:     gameHeight,
		Left:           (width - gameWidth) / 2,
		Top:            (height - gameHeight) / 2,
		WallWidth:      WallWidth,
		WallMargin:     WallMargin,
	}
}

func clampViewport(v float64) float64 {
	if !isFinite(v) || v < MinViewport {
		return MinViewport
	}
	return v
}

// SlotLineY is the height at which a falling ball is scored.
func (g Geometry) SlotLineY() float64 {
	return g.Top + float64(g.PegRows+1)*g.Scale
}

// Gravity is the per-frame vertical acceleration.
func (g Geometry) Gravity() float64 {
	return GravityPerFrame * g.Scale
}

// ContactDistance is the center distance at which a ball touches a peg.
func (g Geometry) ContactDistance() float64 {
	return g.BallRadius + g.PegRadius
}

// WallBounds returns the range a ball center may occupy horizontally.
func (g Geometry) WallBounds() (min, max float64) {
	min = g.Left + g.WallMargin + g.BallRadius
	max = g.Left + g.GameWidth - g.WallWidth - g.WallMargin - g.BallRadius
	return min, max
}

// DropPoint is where new balls enter the field.
func (g Geometry) DropPoint() Vec2 {
	return Vec2{X: g.Left + g.GameWidth/2, Y: g.Top}
}
