// Package stats drives the plinko core headlessly to measure how a board
// actually pays out.
package stats

import (
	"fmt"
	"log"

	"github.com/playmatatu/plinko/internal/game"
)

const (
	frameMs        = 1000.0 / 60
	batchStepLimit = 1_000_000
)

// Options configures a run. Zero values fall back to 10000 balls in batches
// of 100 at a wager of 1 on an 800x600 viewport.
type Options struct {
	Board     game.Board
	Balls     int
	BatchSize int
	Wager     float64
	Seed      uint64
	Width     float64
	Height    float64
}

func (o *Options) defaults() {
	if o.Balls <= 0 {
		o.Balls = 10000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.Wager <= 0 {
		o.Wager = 1
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
}

// SlotStat is the observed outcome for one slot.
type SlotStat struct {
	Index      int     `json:"index"`
	Multiplier float64 `json:"multiplier"`
	Hits       int     `json:"hits"`
	HitRate    float64 `json:"hit_rate"`
	WidthShare float64 `json:"width_share"`
	Returned   float64 `json:"returned"`
}

// Report summarizes a run.
type Report struct {
	Balls     int        `json:"balls"`
	Landed    int        `json:"landed"`
	Misses    int        `json:"misses"`
	Anomalies int        `json:"anomalies"`
	Wagered   float64    `json:"wagered"`
	Returned  float64    `json:"returned"`
	RTP       float64    `json:"rtp"`
	Frames    uint64     `json:"frames"`
	Bounces   int        `json:"bounces"`
	Slots     []SlotStat `json:"slots"`
}

// Run drops opts.Balls balls through one simulation and tallies every landing.
func Run(opts Options) (Report, error) {
	opts.defaults()

	sim, err := game.NewSimulation(game.Options{
		Board:  opts.Board,
		Width:  opts.Width,
		Height: opts.Height,
		Score:  2 * float64(opts.Balls) * opts.Wager,
		Seed:   opts.Seed,
	})
	if err != nil {
		return Report{}, err
	}
	sim.SetWager(opts.Wager)

	board := sim.Board()
	rep := Report{Balls: opts.Balls, Slots: make([]SlotStat, len(board.Multipliers))}
	totalWeight := 0.0
	for _, m := range board.Multipliers {
		totalWeight += game.SlotWeight(m)
	}
	for i, m := range board.Multipliers {
		rep.Slots[i] = SlotStat{Index: i, Multiplier: m, WidthShare: game.SlotWeight(m) / totalWeight}
	}

	for remaining := opts.Balls; remaining > 0; {
		n := opts.BatchSize
		if n > remaining {
			n = remaining
		}
		if got, _ := sim.SetCount(n); got != n {
			return rep, fmt.Errorf("could not size batch to %d balls (got %d)", n, got)
		}
		receipt, err := sim.Drop()
		if err != nil {
			return rep, fmt.Errorf("drop: %w", err)
		}
		rep.Wagered += receipt.Cost
		sim.RunUntilIdle(frameMs, batchStepLimit)
		rep.tally(sim.DrainEvents())
		remaining -= n
	}

	rep.Frames = sim.Frame()
	rep.Bounces = sim.Collisions()
	if rep.Wagered > 0 {
		rep.RTP = rep.Returned / rep.Wagered
	}
	for i := range rep.Slots {
		if rep.Landed > 0 {
			rep.Slots[i].HitRate = float64(rep.Slots[i].Hits) / float64(rep.Landed)
		}
	}
	return rep, nil
}

func (r *Report) tally(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EventLanding:
			r.Landed++
			r.Returned += ev.Payout
			if ev.SlotIndex >= 0 && ev.SlotIndex < len(r.Slots) {
				r.Slots[ev.SlotIndex].Hits++
				r.Slots[ev.SlotIndex].Returned += ev.Payout
			}
		case game.EventSlotMiss:
			r.Misses++
		case game.EventAnomaly:
			r.Anomalies++
			log.Printf("[SIM] anomaly at frame %d: ball %d at (%.2f, %.2f)", ev.Frame, ev.BallID, ev.X, ev.Y)
		}
	}
}
