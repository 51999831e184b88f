package game

import (
	"math"
	"testing"
)

func TestGeometryScalePositive(t *testing.T) {
	board := DefaultBoard()
	sizes := [][2]float64{
		{64, 64}, {320, 480}, {800, 600}, {1920, 1080}, {600, 1600}, {4000, 300},
	}
	for _, sz := range sizes {
		g := ComputeGeometry(board, sz[0], sz[1])
		if !(g.Scale > 0) {
			t.Errorf("viewport %vx%v: scale=%v, want > 0", sz[0], sz[1], g.Scale)
		}
		if g.BallRadius != g.PegRadius*1.5 {
			t.Errorf("viewport %vx%v: ball radius %v is not 1.5x peg radius %v", sz[0], sz[1], g.BallRadius, g.PegRadius)
		}
		if g.GameHeight > sz[1] {
			t.Errorf("viewport %vx%v: game height %v exceeds viewport", sz[0], sz[1], g.GameHeight)
		}
	}
}

func TestGeometryDegenerateViewport(t *testing.T) {
	board := DefaultBoard()
	for _, sz := range [][2]float64{{0, 0}, {-100, 50}, {math.NaN(), 600}, {math.Inf(1), 600}} {
		g := ComputeGeometry(board, sz[0], sz[1])
		if !(g.Scale > 0) || !isFinite(g.Scale) {
			t.Errorf("viewport %vx%v: scale=%v, want finite and > 0", sz[0], sz[1], g.Scale)
		}
		if !isFinite(g.Left) || !isFinite(g.Top) {
			t.Errorf("viewport %vx%v: non-finite offsets left=%v top=%v", sz[0], sz[1], g.Left, g.Top)
		}
	}
}

func TestPegLatticeInsidePlayField(t *testing.T) {
	board := DefaultBoard()
	for _, sz := range [][2]float64{{800, 600}, {1280, 720}, {390, 844}} {
		g := ComputeGeometry(board, sz[0], sz[1])
		pegs := Pegs(g)
		if len(pegs) != PegCount(board.PegRows) {
			t.Fatalf("got %d pegs, want %d", len(pegs), PegCount(board.PegRows))
		}
		for _, p := range pegs {
			if p.Position.X < g.Left || p.Position.X > g.Left+g.GameWidth {
				t.Errorf("peg (%d,%d) x=%.2f outside [%.2f, %.2f]", p.Row, p.Col, p.Position.X, g.Left, g.Left+g.GameWidth)
			}
			if p.Position.Y < g.Top || p.Position.Y > g.Top+g.GameHeight {
				t.Errorf("peg (%d,%d) y=%.2f outside [%.2f, %.2f]", p.Row, p.Col, p.Position.Y, g.Top, g.Top+g.GameHeight)
			}
		}
	}
}

func TestPegOrderIsRowMajor(t *testing.T) {
	g := ComputeGeometry(DefaultBoard(), 800, 600)
	pegs := Pegs(g)
	i := 0
	for row := 0; row < g.PegRows; row++ {
		for col := 0; col <= row; col++ {
			if pegs[i].Row != row || pegs[i].Col != col {
				t.Fatalf("peg %d is (%d,%d), want (%d,%d)", i, pegs[i].Row, pegs[i].Col, row, col)
			}
			i++
		}
	}
}

func TestGeometryIdempotent(t *testing.T) {
	board := DefaultBoard()
	a := ComputeGeometry(board, 1024, 768)
	b := ComputeGeometry(board, 1024, 768)
	if a != b {
		t.Errorf("recompute differs:\n%+v\n%+v", a, b)
	}
}

func TestDropPointAboveTopPeg(t *testing.T) {
	g := ComputeGeometry(DefaultBoard(), 800, 600)
	top := PegPosition(g, 0, 0)
	if math.Abs(g.DropPoint().X-top.X) > 1e-9 {
		t.Errorf("drop x=%.6f, top peg x=%.6f", g.DropPoint().X, top.X)
	}
	if g.DropPoint().Y >= top.Y {
		t.Errorf("drop y=%.2f should be above top peg y=%.2f", g.DropPoint().Y, top.Y)
	}
}
