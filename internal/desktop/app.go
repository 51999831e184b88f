// Package desktop is the Ebiten host for the plinko core: it renders the
// table, maps keys to wager and drop input, plays tier cues and keeps the
// score between runs.
package desktop

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/playmatatu/plinko/internal/game"
)

const (
	frameMs        = 1000.0 / 60
	noticeFrames   = 120
	closeStepLimit = 100000
)

var (
	colorBackground = color.RGBA{R: 18, G: 20, B: 38, A: 255}
	colorPeg        = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	colorBall       = color.RGBA{R: 255, G: 80, B: 90, A: 255}
	colorWall       = color.RGBA{R: 70, G: 76, B: 110, A: 255}
	colorSlotLow    = color.RGBA{R: 60, G: 120, B: 200, A: 255}
	colorSlotBig    = color.RGBA{R: 240, G: 170, B: 40, A: 255}
	colorSlotTop    = color.RGBA{R: 220, G: 50, B: 200, A: 255}
	colorSlotEdge   = color.RGBA{R: 10, G: 10, B: 20, A: 255}
)

// App implements ebiten.Game around one Simulation.
type App struct {
	sim    *game.Simulation
	saves  *SaveStore
	sounds *Sounds
	save   Save

	width, height int
	notice        string
	noticeLeft    int
	lastWin       string
}

// NewApp builds the table. A saved score, wager and count take precedence
// over startingScore.
func NewApp(board game.Board, startingScore float64, seed uint64, saves *SaveStore, sounds *Sounds) (*App, error) {
	saved, ok, err := saves.Load()
	if err != nil {
		log.Printf("[DESKTOP] %v (starting fresh)", err)
	}
	if !ok {
		saved = Save{Score: startingScore, Wager: 1, Count: 1}
	}

	sim, err := game.NewSimulation(game.Options{
		Board:  board,
		Width:  800,
		Height: 600,
		Score:  saved.Score,
		Seed:   seed,
	})
	if err != nil {
		return nil, err
	}
	sim.SetWager(saved.Wager)
	sim.SetCount(saved.Count)

	return &App{sim: sim, saves: saves, sounds: sounds, save: saved, width: 800, height: 600}, nil
}

// Update applies input, steps the simulation once and reacts to its events.
func (a *App) Update() error {
	for _, act := range pressedActions() {
		a.apply(act)
	}
	a.tick()
	return nil
}

func (a *App) tick() {
	a.sim.Step(frameMs)
	for _, ev := range a.sim.DrainEvents() {
		a.handle(ev)
	}
	if a.noticeLeft > 0 {
		a.noticeLeft--
		if a.noticeLeft == 0 {
			a.notice = ""
		}
	}
}

func (a *App) apply(act action) {
	econ := a.sim.Economy()
	switch act {
	case actDrop:
		if _, err := a.sim.Drop(); err != nil {
			a.flash(err.Error())
			return
		}
		a.save.Drops++
	case actCancel:
		if n, refund := a.sim.CancelDrop(); n > 0 {
			a.flash(fmt.Sprintf("Cancelled %d balls, refunded %.2f", n, refund))
		}
	case actWagerUp:
		a.sim.SetWager(econ.Wager * 2)
	case actWagerDown:
		a.sim.SetWager(econ.Wager / 2)
	case actCountUp:
		a.setCount(econ.Count + 1)
	case actCountDown:
		a.setCount(econ.Count - 1)
	case actCountMax:
		a.setCount(econ.MaxAffordable)
	}
}

func (a *App) setCount(n int) {
	if _, warn := a.sim.SetCount(n); warn != nil {
		a.flash(warn.Message)
	}
}

func (a *App) flash(msg string) {
	a.notice = msg
	a.noticeLeft = noticeFrames
}

func (a *App) handle(ev game.Event) {
	switch ev.Type {
	case game.EventLanding:
		tier := game.TierFor(ev.Multiplier)
		a.sounds.Play(tier)
		if tier != game.TierNone {
			a.lastWin = fmt.Sprintf("%gx for %.2f", ev.Multiplier, ev.Payout)
		}
		if ev.Payout > a.save.BestWin {
			a.save.BestWin = ev.Payout
		}
	case game.EventSlotMiss, game.EventAnomaly:
		a.flash("A ball was lost")
	case game.EventSettled:
		a.persist()
	}
}

func (a *App) persist() {
	econ := a.sim.Economy()
	a.save.Score = econ.Score
	a.save.Wager = econ.Wager
	a.save.Count = econ.Count
	if err := a.saves.Store(a.save); err != nil {
		log.Printf("[DESKTOP] %v", err)
	}
}

// Close refunds queued balls, lets falling balls land and saves.
func (a *App) Close() {
	a.sim.CancelDrop()
	a.sim.RunUntilIdle(frameMs, closeStepLimit)
	a.sim.DrainEvents()
	a.persist()
}

// Layout follows the window size; the simulation picks it up next step.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.sim.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// wallXs returns the left edge of each wall rect. Walls sit WallMargin in from
// the play area and the ball clamp lines up with their outer faces.
func wallXs(g game.Geometry) (left, right float64) {
	return g.Left + g.WallMargin, g.Left + g.GameWidth - g.WallWidth - g.WallMargin
}

// Draw renders walls, pegs, slots, balls and sparks, offset by screen shake.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	snap := a.sim.Snapshot()
	g := snap.Geometry
	dx, dy := float32(snap.Shake.OffsetX), float32(snap.Shake.OffsetY)

	leftWall, rightWall := wallXs(g)
	wallTop := float32(g.Top)
	wallH := float32(g.SlotLineY() - g.Top)
	vector.DrawFilledRect(screen, float32(leftWall)+dx, wallTop+dy, float32(g.WallWidth), wallH, colorWall, false)
	vector.DrawFilledRect(screen, float32(rightWall)+dx, wallTop+dy, float32(g.WallWidth), wallH, colorWall, false)

	for _, p := range game.Pegs(g) {
		vector.DrawFilledCircle(screen, float32(p.Position.X)+dx, float32(p.Position.Y)+dy, float32(g.PegRadius), colorPeg, true)
	}

	for _, s := range snap.Slots {
		x, y := float32(s.Left)+dx, float32(s.Top)+dy
		vector.DrawFilledRect(screen, x, y, float32(s.Width), float32(s.Height), slotColor(s.Multiplier), false)
		vector.StrokeRect(screen, x, y, float32(s.Width), float32(s.Height), 1, colorSlotEdge, false)
		label := fmt.Sprintf("%g", s.Multiplier)
		ebitenutil.DebugPrintAt(screen, label, int(x+float32(s.Width)/2)-len(label)*3, int(y+float32(s.Height)/2)-8)
	}

	for _, b := range snap.Balls {
		vector.DrawFilledCircle(screen, float32(b.X)+dx, float32(b.Y)+dy, float32(b.Radius), colorBall, true)
	}

	for _, p := range snap.Particles {
		c := color.RGBA{R: 255, G: 215, B: 0, A: uint8(math.Max(0, math.Min(1, p.Alpha)) * 255)}
		vector.DrawFilledCircle(screen, float32(p.X)+dx, float32(p.Y)+dy, float32(p.Size)/4, c, true)
	}

	e := snap.Economy
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score %.2f   Wager %.2f   Balls %d/%d   Pending %.2f", e.Score, e.Wager, e.Count, e.MaxAffordable, e.Pending), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s   queued %d   falling %d", snap.Status, snap.QueuedBalls, len(snap.Balls)), 10, 26)
	if a.lastWin != "" {
		ebitenutil.DebugPrintAt(screen, "Last win: "+a.lastWin, 10, 42)
	}
	if a.notice != "" {
		ebitenutil.DebugPrintAt(screen, a.notice, 10, 58)
	}
	ebitenutil.DebugPrintAt(screen, helpText, 10, a.height-20)
}

func slotColor(multiplier float64) color.Color {
	switch game.TierFor(multiplier) {
	case game.TierJackpot:
		return colorSlotTop
	case game.TierBig:
		return colorSlotBig
	default:
		return colorSlotLow
	}
}
