package game

// Peg is a static collision point of the triangular lattice. Row r holds r+1
// pegs, so pegs are never stored; they are derived from the geometry.
type Peg struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Position Vec2 `json:"position"`
}

// PegPosition returns the center of the peg at (row, col), col in [0, row].
func PegPosition(g Geometry, row, col int) Vec2 {
	unit := g.Scale * g.WidthFactor
	return Vec2{
		X: g.Left + float64(g.PegColumns-row)*g.Scale/2*g.WidthFactor + float64(col)*unit,
		Y: g.Top + float64(row+1)*g.Scale,
	}
}

// PegCount is the number of pegs in a lattice of the given rows.
func PegCount(rows int) int {
	return rows * (rows + 1) / 2
}

// Pegs enumerates the lattice in row-major order (the collision order).
func Pegs(g Geometry) []Peg {
	pegs := make([]Peg, 0, PegCount(g.PegRows))
	for row := 0; row < g.PegRows; row++ {
		for col := 0; col <= row; col++ {
			pegs = append(pegs, Peg{Row: row, Col: col, Position: PegPosition(g, row, col)})
		}
	}
	return pegs
}
