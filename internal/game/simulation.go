package game

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"
)

// Status is the phase of the drop/settle cycle.
type Status string

const (
	StatusIdle     Status = "IDLE"     // nothing queued, nothing in flight
	StatusDropping Status = "DROPPING" // a batch is still releasing balls
	StatusSettling Status = "SETTLING" // all balls released, some still falling
)

// Ball is a falling ball. It lives from its spawn until the step in which it
// crosses the slot line.
type Ball struct {
	ID       int     `json:"id"`
	BatchID  int     `json:"batch_id"`
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Wager    float64 `json:"wager"`
}

type spawnOrder struct {
	batchID   int
	remaining int
	wager     float64
}

// DropReceipt describes an accepted batch. The whole cost is charged before
// the first ball is released.
type DropReceipt struct {
	BatchID int     `json:"batch_id"`
	Count   int     `json:"count"`
	Wager   float64 `json:"wager"`
	Cost    float64 `json:"cost"`
	Score   float64 `json:"score"`
}

// Options configures a new Simulation. Zero values fall back to defaults.
type Options struct {
	Board  Board
	Width  float64
	Height float64
	Score  float64
	Seed   uint64
	Rand   Rand // physics jitter; seeded PCG when nil
	FXRand Rand // particles and shake; derived from Seed when nil
}

// Simulation owns every piece of mutable game state for one table. It is not
// safe for concurrent use: one driver (a frame loop) calls Step and applies
// input between steps.
type Simulation struct {
	board Board
	geom  Geometry
	bands []SlotBand

	balls     []*Ball
	econ      *Economy
	queue     []spawnOrder
	spawnMs   float64
	inFlight  bool
	resize    *[2]float64
	rng       Rand
	fx        Rand
	shake     shaker
	particles []Particle
	events    []Event

	frame       uint64
	nextBallID  int
	nextBatchID int
	collisions  int
}

// NewSimulation builds a table for the given board and viewport.
func NewSimulation(opts Options) (*Simulation, error) {
	board := opts.Board
	if board.PegRows == 0 && len(board.Multipliers) == 0 {
		board = DefaultBoard()
	}
	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}
	board = board.clone()

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(opts.Seed, 0x9e3779b97f4a7c15))
	}
	fx := opts.FXRand
	if fx == nil {
		fx = rand.New(rand.NewPCG(opts.Seed, 0xbf58476d1ce4e5b9))
	}

	s := &Simulation{
		board: board,
		econ:  NewEconomy(opts.Score),
		rng:   rng,
		fx:    fx,
	}
	s.applyGeometry(opts.Width, opts.Height)
	return s, nil
}

func (s *Simulation) applyGeometry(w, h float64) {
	s.geom = ComputeGeometry(s.board, w, h)
	s.bands = SlotBands(s.geom, s.board.Multipliers)
}

// Resize records a new viewport. It takes effect at the start of the next
// step so a step never mixes two geometries.
func (s *Simulation) Resize(width, height float64) {
	s.resize = &[2]float64{width, height}
}

// Drop charges a batch at the current wager and count and queues its balls.
func (s *Simulation) Drop() (DropReceipt, error) {
	if err := s.econ.CanDrop(); err != nil {
		return DropReceipt{}, err
	}

	count := s.econ.Count
	wager := s.econ.Wager
	cost := s.econ.DropCost()
	s.econ.Charge(cost)

	s.nextBatchID++
	s.queue = append(s.queue, spawnOrder{batchID: s.nextBatchID, remaining: count, wager: wager})
	s.inFlight = true

	return DropReceipt{
		BatchID: s.nextBatchID,
		Count:   count,
		Wager:   wager,
		Cost:    cost,
		Score:   s.econ.Score,
	}, nil
}

// CancelDrop stops every queued spawn and refunds its stake. Balls already on
// the field keep falling. It returns the number of balls cancelled and the
// refunded amount.
func (s *Simulation) CancelDrop() (int, float64) {
	cancelled := 0
	refund := 0.0
	for _, o := range s.queue {
		cancelled += o.remaining
		refund += float64(o.remaining) * o.wager
	}
	s.queue = nil
	s.spawnMs = 0
	if refund > 0 {
		s.econ.Refund(refund)
	}
	return cancelled, refund
}

// Step advances the table by one frame. dtMillis only drives the spawn
// cadence; ball physics moves a fixed amount per step.
func (s *Simulation) Step(dtMillis float64) {
	s.frame++

	if s.resize != nil {
		s.applyGeometry(s.resize[0], s.resize[1])
		s.resize = nil
	}

	s.releaseSpawns(dtMillis)

	landed := 0
	for i, b := range s.balls {
		if s.advance(b) {
			s.balls[i] = nil
			landed++
		}
	}
	if landed > 0 {
		kept := s.balls[:0]
		for _, b := range s.balls {
			if b != nil {
				kept = append(kept, b)
			}
		}
		for i := len(kept); i < len(s.balls); i++ {
			s.balls[i] = nil
		}
		s.balls = kept
	}

	s.stepEffects()

	if s.inFlight && len(s.balls) == 0 && len(s.queue) == 0 {
		s.inFlight = false
		committed := s.econ.Commit()
		s.emit(Event{Type: EventSettled, Committed: committed, Score: s.econ.Score})
	}
}

func (s *Simulation) releaseSpawns(dtMillis float64) {
	if len(s.queue) == 0 {
		s.spawnMs = 0
		return
	}
	if isFinite(dtMillis) && dtMillis > 0 {
		s.spawnMs += dtMillis
	}
	for s.spawnMs >= DropIntervalMs && len(s.queue) > 0 {
		s.spawnMs -= DropIntervalMs
		o := &s.queue[0]
		s.spawn(o.batchID, o.wager)
		o.remaining--
		if o.remaining <= 0 {
			s.queue = s.queue[1:]
		}
	}
	if len(s.queue) == 0 {
		s.spawnMs = 0
	}
}

func (s *Simulation) spawn(batchID int, wager float64) {
	s.nextBallID++
	b := &Ball{
		ID:       s.nextBallID,
		BatchID:  batchID,
		Position: s.geom.DropPoint(),
		Wager:    wager,
	}
	s.balls = append(s.balls, b)
	s.emit(Event{Type: EventSpawned, BallID: b.ID, BatchID: batchID, X: b.Position.X, Y: b.Position.Y, SlotIndex: -1, Wager: wager})
}

// advance runs one integration step for a ball and reports whether it left
// the field. The order gravity, pegs, horizontal move, walls, slot line is
// part of the observable trajectory.
func (s *Simulation) advance(b *Ball) bool {
	g := s.geom

	b.Position.Y += b.Velocity.Y
	b.Velocity.Y += g.Gravity()

	s.collisions += len(resolvePegs(b, g, s.rng))

	b.Position.X += b.Velocity.X

	min, max := g.WallBounds()
	if b.Position.X < min || b.Position.X > max {
		b.Velocity.X *= WallRestitution
		b.Position.X = math.Max(min, math.Min(max, b.Position.X))
	}

	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		log.Printf("[PLINKO] discarding ball %d (batch %d) with non-finite state pos=%v vel=%v", b.ID, b.BatchID, b.Position, b.Velocity)
		s.emit(Event{Type: EventAnomaly, BallID: b.ID, BatchID: b.BatchID, SlotIndex: -1, Wager: b.Wager})
		return true
	}

	if b.Position.Y > g.SlotLineY() {
		s.land(b)
		return true
	}
	return false
}

func (s *Simulation) land(b *Ball) {
	band, ok := FindSlot(s.bands, b.Position.X)
	if !ok {
		log.Printf("[PLINKO] ball %d (batch %d) missed every slot at x=%.4f; no payout", b.ID, b.BatchID, b.Position.X)
		s.emit(Event{Type: EventSlotMiss, BallID: b.ID, BatchID: b.BatchID, X: b.Position.X, Y: b.Position.Y, SlotIndex: -1, Wager: b.Wager})
		return
	}

	payout := Payout(band.Multiplier, b.Wager)
	s.econ.Accrue(payout)

	tier := TierFor(band.Multiplier)
	if tier != TierNone {
		s.burst(b.Position.X, b.Position.Y)
	}
	if tier == TierJackpot {
		s.shake.start(ShakeFrames)
	}

	s.emit(Event{
		Type:       EventLanding,
		BallID:     b.ID,
		BatchID:    b.BatchID,
		X:          b.Position.X,
		Y:          b.Position.Y,
		SlotIndex:  band.Index,
		Multiplier: band.Multiplier,
		Wager:      b.Wager,
		Payout:     payout,
		Tier:       tier.String(),
	})
}

func (s *Simulation) burst(x, y float64) {
	for i := 0; i < ParticlesPerBurst; i++ {
		s.particles = append(s.particles, newParticle(x, y, s.fx))
	}
}

func (s *Simulation) stepEffects() {
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.update()
		if p.alive() {
			alive = append(alive, p)
		}
	}
	s.particles = alive
	s.shake.step(s.fx)
}

func (s *Simulation) emit(e Event) {
	e.Frame = s.frame
	s.events = append(s.events, e)
}

// DrainEvents returns and clears the events emitted since the last call.
func (s *Simulation) DrainEvents() []Event {
	ev := s.events
	s.events = nil
	return ev
}

// Status reports the current phase.
func (s *Simulation) Status() Status {
	switch {
	case len(s.queue) > 0:
		return StatusDropping
	case len(s.balls) > 0:
		return StatusSettling
	default:
		return StatusIdle
	}
}

// SetWager applies a numeric wager, clamped.
func (s *Simulation) SetWager(v float64) float64 {
	return s.econ.SetWager(v)
}

// SetWagerInput applies a free-text wager, clamped.
func (s *Simulation) SetWagerInput(text string) float64 {
	return s.econ.SetWager(ParseWager(text))
}

// SetCount applies a ball count, clamped, with a warning when truncated.
func (s *Simulation) SetCount(n int) (int, *Warning) {
	return s.econ.SetCount(n)
}

// SetCountInput applies a free-text ball count.
func (s *Simulation) SetCountInput(text string) (int, *Warning) {
	return s.econ.SetCount(ParseCount(text))
}

// Economy returns a copy of the wager and score state.
func (s *Simulation) Economy() Economy {
	return *s.econ
}

// Geometry returns the geometry the last step ran with.
func (s *Simulation) Geometry() Geometry {
	return s.geom
}

// Board returns the board definition.
func (s *Simulation) Board() Board {
	return s.board.clone()
}

// Slots returns the current slot partition.
func (s *Simulation) Slots() []SlotBand {
	return append([]SlotBand(nil), s.bands...)
}

// ActiveBalls is the number of balls on the field.
func (s *Simulation) ActiveBalls() int {
	return len(s.balls)
}

// QueuedBalls is the number of balls paid for but not yet released.
func (s *Simulation) QueuedBalls() int {
	n := 0
	for _, o := range s.queue {
		n += o.remaining
	}
	return n
}

// Animating reports whether anything on the table still moves: queued or
// falling balls, live particles, or an unfinished shake.
func (s *Simulation) Animating() bool {
	return len(s.queue) > 0 || len(s.balls) > 0 || len(s.particles) > 0 || s.shake.state().Active
}

func (s *Simulation) queuedByBatch() map[int]int {
	out := make(map[int]int, len(s.queue))
	for _, o := range s.queue {
		out[o.batchID] += o.remaining
	}
	return out
}

// Frame is the number of steps taken.
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// Collisions is the total number of peg contacts resolved.
func (s *Simulation) Collisions() int {
	return s.collisions
}

// RunUntilIdle steps until nothing is queued or falling, or maxSteps is hit.
// It returns the number of steps taken.
func (s *Simulation) RunUntilIdle(dtMillis float64, maxSteps int) int {
	steps := 0
	for steps < maxSteps && (s.inFlight || s.Status() != StatusIdle) {
		s.Step(dtMillis)
		steps++
	}
	return steps
}
