package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultViewportWidth  = 800.0
	defaultViewportHeight = 600.0

	// drainStepLimit bounds the settle loop run when a session closes.
	drainStepLimit = 100000
	drainStepMs    = 1000.0 / 60
)

// WarnCountCapped is attached when a count exceeds the per-drop limit.
const WarnCountCapped = "count_capped"

// Session runs one player's simulation on its own frame loop. The loop
// goroutine is the only code that touches the Simulation; every exported
// method hands it a closure and waits for the result.
type Session struct {
	PlayerID  int
	StartedAt time.Time

	mgr     *GameManager
	sim     *Simulation
	cmds    chan command
	quit    chan struct{}
	done    chan struct{}
	closing sync.Once

	lastActive atomic.Int64
	batches    map[int]*batchRecord
	animating  bool

	infoMu sync.Mutex
	info   SessionInfo
}

type batchRecord struct {
	row       int64
	count     int
	payout    float64
	cancelled int
}

type command struct {
	fn    func() (interface{}, error)
	reply chan commandResult
}

type commandResult struct {
	value interface{}
	err   error
}

// Message types pushed to the player's connection.
type frameMessage struct {
	Type  string   `json:"type"`
	State Snapshot `json:"state"`
}

type eventMessage struct {
	Type  string `json:"type"`
	Event Event  `json:"event"`
}

func newSession(gm *GameManager, playerID int, sim *Simulation) *Session {
	s := &Session{
		PlayerID:  playerID,
		StartedAt: time.Now(),
		mgr:       gm,
		sim:       sim,
		cmds:      make(chan command),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		batches:   make(map[int]*batchRecord),
	}
	s.touch()
	s.refreshInfo()
	return s
}

func call[T any](ctx context.Context, s *Session, fn func() (T, error)) (T, error) {
	var zero T
	reply := make(chan commandResult, 1)
	wrapped := func() (interface{}, error) { return fn() }

	select {
	case s.cmds <- command{fn: wrapped, reply: reply}:
	case <-s.done:
		return zero, ErrSessionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	r := <-reply
	if r.err != nil {
		return zero, r.err
	}
	return r.value.(T), nil
}

func (s *Session) loop(frameRate int) {
	defer close(s.done)

	var tick <-chan time.Time
	if frameRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(frameRate))
		defer ticker.Stop()
		tick = ticker.C
	}
	last := time.Now()

	for {
		select {
		case <-s.quit:
			s.drain()
			return
		case c := <-s.cmds:
			v, err := c.fn()
			c.reply <- commandResult{value: v, err: err}
			s.refreshInfo()
		case now := <-tick:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			s.step(dt)
		}
	}
}

func (s *Session) step(dtMillis float64) {
	s.sim.Step(dtMillis)
	for _, ev := range s.sim.DrainEvents() {
		s.handleEvent(ev)
	}

	animating := s.sim.Animating()
	every := s.mgr.Settings().BroadcastEvery
	if every < 1 {
		every = 1
	}
	if (animating && s.sim.Frame()%uint64(every) == 0) || (s.animating && !animating) {
		s.mgr.send(s.PlayerID, frameMessage{Type: "frame", State: s.sim.Snapshot()})
	}
	s.animating = animating
	s.refreshInfo()
}

func (s *Session) handleEvent(ev Event) {
	ctx := context.Background()

	switch ev.Type {
	case EventLanding, EventSlotMiss, EventAnomaly:
		rec := s.batches[ev.BatchID]
		if rec != nil {
			rec.payout += ev.Payout
			if s.mgr.recorder != nil && rec.row > 0 {
				if err := s.mgr.recorder.RecordLanding(ctx, rec.row, ev); err != nil {
					log.Printf("[DB] failed to record landing for ball %d: %v", ev.BallID, err)
				}
			}
		}
		msgType := string(ev.Type)
		if ev.IsTier(TierJackpot) {
			msgType = "jackpot"
			s.mgr.publishJackpot(ctx, s.PlayerID, ev)
		}
		s.mgr.send(s.PlayerID, eventMessage{Type: msgType, Event: ev})

	case EventSettled:
		var ref int64
		for _, rec := range s.batches {
			if rec.row > ref {
				ref = rec.row
			}
		}
		if ev.Committed > 0 && s.mgr.wallet != nil {
			if err := s.mgr.wallet.Payout(ctx, s.PlayerID, money(ev.Committed), ref); err != nil {
				log.Printf("[ACCT] payout of %.4f to player %d failed: %v", ev.Committed, s.PlayerID, err)
			}
		}
		if s.mgr.recorder != nil {
			for _, rec := range s.batches {
				if rec.row == 0 {
					continue
				}
				if err := s.mgr.recorder.SettleBatch(ctx, rec.row, "settled", rec.payout, rec.cancelled); err != nil {
					log.Printf("[DB] failed to settle batch %d: %v", rec.row, err)
				}
			}
		}
		s.batches = make(map[int]*batchRecord)
		s.mgr.saveSnapshot(ctx, s.PlayerID, s.sim)
		s.mgr.send(s.PlayerID, eventMessage{Type: "settled", Event: ev})
		log.Printf("[PLINKO] player %d batch settled: committed=%.4f score=%.4f", s.PlayerID, ev.Committed, ev.Score)
	}
}

// drain refunds queued balls and runs the table until every falling ball has
// landed, so no stake is left unsettled when the session goes away.
func (s *Session) drain() {
	s.cancelQueued(context.Background())
	for i := 0; i < drainStepLimit && (s.sim.inFlight || s.sim.Status() != StatusIdle); i++ {
		s.step(drainStepMs)
	}
	s.mgr.saveSnapshot(context.Background(), s.PlayerID, s.sim)
}

func (s *Session) close() {
	s.closing.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) refreshInfo() {
	econ := s.sim.Economy()
	info := SessionInfo{
		PlayerID:    s.PlayerID,
		Status:      s.sim.Status(),
		Score:       econ.Score,
		ActiveBalls: s.sim.ActiveBalls(),
		QueuedBalls: s.sim.QueuedBalls(),
		StartedAt:   s.StartedAt,
	}
	s.infoMu.Lock()
	s.info = info
	s.infoMu.Unlock()
}

// Info returns the latest summary without waiting on the loop.
func (s *Session) Info() SessionInfo {
	s.infoMu.Lock()
	info := s.info
	s.infoMu.Unlock()
	info.LastActive = time.Unix(0, s.lastActive.Load())
	return info
}

// State returns a render snapshot.
func (s *Session) State(ctx context.Context) (Snapshot, error) {
	return call(ctx, s, func() (Snapshot, error) {
		return s.sim.Snapshot(), nil
	})
}

// WagerResult echoes the wager after clamping.
type WagerResult struct {
	Wager         float64 `json:"wager"`
	MaxAffordable int     `json:"max_affordable"`
	Count         int     `json:"count"`
}

// SetWager applies free-text wager input.
func (s *Session) SetWager(ctx context.Context, input string) (WagerResult, error) {
	return call(ctx, s, func() (WagerResult, error) {
		s.touch()
		w := s.sim.SetWagerInput(input)
		econ := s.sim.Economy()
		return WagerResult{Wager: w, MaxAffordable: econ.MaxAffordable, Count: econ.Count}, nil
	})
}

// CountResult echoes the ball count after clamping with an optional warning.
type CountResult struct {
	Count         int      `json:"count"`
	MaxAffordable int      `json:"max_affordable"`
	Warning       *Warning `json:"warning,omitempty"`
}

// SetCount applies free-text ball count input, capped by MaxBallsPerDrop.
func (s *Session) SetCount(ctx context.Context, input string) (CountResult, error) {
	return call(ctx, s, func() (CountResult, error) {
		s.touch()
		n := ParseCount(input)

		var capped *Warning
		if max := s.mgr.Settings().MaxBallsPerDrop; max > 0 && n > max {
			n = max
			capped = &Warning{Code: WarnCountCapped, Message: fmt.Sprintf("At most %d balls can be dropped at once.", max)}
		}
		got, warn := s.sim.SetCount(n)
		if warn == nil {
			warn = capped
		}
		return CountResult{Count: got, MaxAffordable: s.sim.Economy().MaxAffordable, Warning: warn}, nil
	})
}

// Resize reports a new viewport; it applies at the next frame.
func (s *Session) Resize(ctx context.Context, width, height float64) error {
	_, err := call(ctx, s, func() (bool, error) {
		s.touch()
		s.sim.Resize(width, height)
		return true, nil
	})
	return err
}

// Drop charges the player's wallet and releases a batch.
func (s *Session) Drop(ctx context.Context) (DropReceipt, error) {
	return call(ctx, s, func() (DropReceipt, error) {
		s.touch()
		econ := s.sim.Economy()
		if err := econ.CanDrop(); err != nil {
			return DropReceipt{}, err
		}
		cost := econ.DropCost()

		var row int64
		if rec := s.mgr.recorder; rec != nil {
			r, err := rec.RecordBatch(ctx, s.PlayerID, econ.Count, econ.Wager, cost)
			if err != nil {
				log.Printf("[DB] failed to record batch for player %d: %v", s.PlayerID, err)
			}
			row = r
		}

		if w := s.mgr.wallet; w != nil {
			if err := w.Stake(ctx, s.PlayerID, money(cost), row); err != nil {
				if s.mgr.recorder != nil && row > 0 {
					s.mgr.recorder.SettleBatch(ctx, row, "rejected", 0, econ.Count)
				}
				return DropReceipt{}, fmt.Errorf("stake failed: %w", err)
			}
		}

		receipt, err := s.sim.Drop()
		if err != nil {
			return DropReceipt{}, err
		}
		s.batches[receipt.BatchID] = &batchRecord{row: row, count: receipt.Count}
		log.Printf("[PLINKO] player %d dropped %d balls at %.2f (batch %d, cost %.2f)", s.PlayerID, receipt.Count, receipt.Wager, receipt.BatchID, receipt.Cost)
		return receipt, nil
	})
}

// CancelResult reports what a cancel refunded.
type CancelResult struct {
	Cancelled int     `json:"cancelled"`
	Refund    float64 `json:"refund"`
	Score     float64 `json:"score"`
}

// Cancel stops queued balls and refunds them. Falling balls keep going.
func (s *Session) Cancel(ctx context.Context) (CancelResult, error) {
	return call(ctx, s, func() (CancelResult, error) {
		s.touch()
		n, refund := s.cancelQueued(ctx)
		return CancelResult{Cancelled: n, Refund: refund, Score: s.sim.Economy().Score}, nil
	})
}

func (s *Session) cancelQueued(ctx context.Context) (int, float64) {
	for batchID, n := range s.sim.queuedByBatch() {
		if rec := s.batches[batchID]; rec != nil {
			rec.cancelled += n
		}
	}
	n, refund := s.sim.CancelDrop()
	if refund > 0 && s.mgr.wallet != nil {
		if err := s.mgr.wallet.Refund(ctx, s.PlayerID, money(refund), 0); err != nil {
			log.Printf("[ACCT] refund of %.4f to player %d failed: %v", refund, s.PlayerID, err)
		}
	}
	if n > 0 {
		log.Printf("[PLINKO] player %d cancelled %d queued balls (refund %.2f)", s.PlayerID, n, refund)
	}
	return n, refund
}

// Advance runs the given number of frames immediately. Sessions started with
// a zero frame rate are driven only through Advance.
func (s *Session) Advance(ctx context.Context, dtMillis float64, steps int) (uint64, error) {
	return call(ctx, s, func() (uint64, error) {
		for i := 0; i < steps; i++ {
			s.step(dtMillis)
		}
		return s.sim.Frame(), nil
	})
}
