package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/accounts"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)

// Wallet settles real credit for a player. Amounts are ledger decimals.
type Wallet interface {
	Balance(ctx context.Context, playerID int) (decimal.Decimal, error)
	Stake(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error
	Payout(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error
	Refund(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error
}

// Recorder persists drop batches and ball outcomes.
type Recorder interface {
	RecordBatch(ctx context.Context, playerID, count int, wager, cost float64) (int64, error)
	RecordLanding(ctx context.Context, batchRow int64, ev Event) error
	SettleBatch(ctx context.Context, batchRow int64, status string, payout float64, cancelled int) error
	History(ctx context.Context, playerID, limit int) ([]models.DropBatch, error)
}

// Broadcaster pushes messages to a player's live connection.
type Broadcaster interface {
	SendToPlayer(playerID int, message interface{})
}

// Settings are the tunables a running manager reads on every use.
type Settings struct {
	StartingScore   float64
	FrameRate       int
	BroadcastEvery  int
	MaxBallsPerDrop int
	SessionIdle     time.Duration
}

// SettingsFromConfig extracts manager settings from the app config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		StartingScore:   cfg.StartingScore,
		FrameRate:       cfg.FrameRate,
		BroadcastEvery:  cfg.BroadcastEvery,
		MaxBallsPerDrop: cfg.MaxBallsPerDrop,
		SessionIdle:     time.Duration(cfg.SessionIdleMinutes) * time.Minute,
	}
}

// ManagerOptions wires a GameManager. Nil collaborators disable that concern.
type ManagerOptions struct {
	Board       Board
	Settings    Settings
	Wallet      Wallet
	Recorder    Recorder
	Broadcaster Broadcaster
	Redis       *redis.Client
}

// GameManager owns every live plinko session, one per player.
type GameManager struct {
	sessions    map[int]*Session
	board       Board
	settings    Settings
	wallet      Wallet
	recorder    Recorder
	broadcaster Broadcaster
	rdb         *redis.Client
	mu          sync.RWMutex
}

// SessionInfo is a read-only summary of a session for listings.
type SessionInfo struct {
	PlayerID    int       `json:"player_id"`
	Status      Status    `json:"status"`
	Score       float64   `json:"score"`
	ActiveBalls int       `json:"active_balls"`
	QueuedBalls int       `json:"queued_balls"`
	StartedAt   time.Time `json:"started_at"`
	LastActive  time.Time `json:"last_active"`
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager builds the global manager from the app's storage and config.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, board Board) {
	opts := ManagerOptions{
		Board:    board,
		Settings: SettingsFromConfig(cfg),
		Redis:    rdb,
	}
	if db != nil {
		opts.Wallet = accounts.NewWallet(db)
		opts.Recorder = NewSQLRecorder(db)
	}
	Manager = NewGameManager(opts)
}

// NewGameManager creates a new game manager
func NewGameManager(opts ManagerOptions) *GameManager {
	board := opts.Board
	if board.PegRows == 0 && len(board.Multipliers) == 0 {
		board = DefaultBoard()
	}
	return &GameManager{
		sessions:    make(map[int]*Session),
		board:       board.clone(),
		settings:    opts.Settings,
		wallet:      opts.Wallet,
		recorder:    opts.Recorder,
		broadcaster: opts.Broadcaster,
		rdb:         opts.Redis,
	}
}

// SetBroadcaster attaches the live connection hub.
func (gm *GameManager) SetBroadcaster(b Broadcaster) {
	gm.mu.Lock()
	gm.broadcaster = b
	gm.mu.Unlock()
}

// ApplySettings replaces the tunables. Running sessions pick them up on their
// next frame; the frame rate only applies to new sessions.
func (gm *GameManager) ApplySettings(s Settings) {
	gm.mu.Lock()
	gm.settings = s
	gm.mu.Unlock()
	log.Printf("[PLINKO] settings updated: max_balls=%d broadcast_every=%d idle=%s", s.MaxBallsPerDrop, s.BroadcastEvery, s.SessionIdle)
}

// Settings returns the current tunables.
func (gm *GameManager) Settings() Settings {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.settings
}

// Board returns the board every session is built on.
func (gm *GameManager) Board() Board {
	return gm.board.clone()
}

func (gm *GameManager) send(playerID int, message interface{}) {
	gm.mu.RLock()
	b := gm.broadcaster
	gm.mu.RUnlock()
	if b != nil {
		b.SendToPlayer(playerID, message)
	}
}

// StartSession returns the player's live session, starting one if needed.
// The second result reports whether a new session was created. Redis and
// wallet reads happen outside the manager lock; when two calls race for the
// same player the first insert wins and the other session is discarded
// before its loop starts.
func (gm *GameManager) StartSession(ctx context.Context, playerID int) (*Session, bool, error) {
	if s, err := gm.GetSession(playerID); err == nil {
		s.touch()
		return s, false, nil
	}
	settings := gm.Settings()

	saved := gm.loadSnapshot(ctx, playerID)

	score := settings.StartingScore
	if gm.wallet != nil {
		bal, err := gm.wallet.Balance(ctx, playerID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read balance: %w", err)
		}
		score, _ = bal.Float64()
	} else if saved != nil {
		score = saved.Score
	}

	sim, err := NewSimulation(Options{
		Board:  gm.board,
		Width:  defaultViewportWidth,
		Height: defaultViewportHeight,
		Score:  score,
		Seed:   uint64(time.Now().UnixNano()) ^ uint64(playerID),
	})
	if err != nil {
		return nil, false, err
	}
	if saved != nil {
		sim.SetWager(saved.Wager)
		sim.SetCount(saved.Count)
		if saved.Width > 0 && saved.Height > 0 {
			sim.Resize(saved.Width, saved.Height)
		}
	}

	gm.mu.Lock()
	if existing, ok := gm.sessions[playerID]; ok {
		gm.mu.Unlock()
		existing.touch()
		return existing, false, nil
	}
	s := newSession(gm, playerID, sim)
	gm.sessions[playerID] = s
	gm.mu.Unlock()

	go s.loop(settings.FrameRate)

	log.Printf("[PLINKO] session started for player %d (score=%.2f resumed=%v)", playerID, score, saved != nil)
	return s, true, nil
}

// GetSession returns the player's live session.
func (gm *GameManager) GetSession(playerID int) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[playerID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// EndSession stops the player's session. Queued balls are refunded and balls
// already falling are settled before the loop exits.
func (gm *GameManager) EndSession(playerID int) error {
	gm.mu.Lock()
	s, ok := gm.sessions[playerID]
	if ok {
		delete(gm.sessions, playerID)
	}
	gm.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	log.Printf("[PLINKO] session ended for player %d", playerID)
	return nil
}

// Sessions lists live sessions ordered by player.
func (gm *GameManager) Sessions() []SessionInfo {
	gm.mu.RLock()
	out := make([]SessionInfo, 0, len(gm.sessions))
	for _, s := range gm.sessions {
		out = append(out, s.Info())
	}
	gm.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// ReapIdle ends sessions with nothing in flight that have not seen a command
// for longer than the idle timeout. It returns the reaped player IDs.
func (gm *GameManager) ReapIdle(now time.Time) []int {
	idle := gm.Settings().SessionIdle
	if idle <= 0 {
		return nil
	}
	var stale []int
	for _, info := range gm.Sessions() {
		if info.Status == StatusIdle && now.Sub(info.LastActive) >= idle {
			stale = append(stale, info.PlayerID)
		}
	}
	for _, id := range stale {
		if err := gm.EndSession(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			log.Printf("[REAPER] failed to end session for player %d: %v", id, err)
		}
	}
	return stale
}

// Shutdown ends every session.
func (gm *GameManager) Shutdown() {
	gm.mu.RLock()
	ids := make([]int, 0, len(gm.sessions))
	for id := range gm.sessions {
		ids = append(ids, id)
	}
	gm.mu.RUnlock()
	for _, id := range ids {
		gm.EndSession(id)
	}
}

// History returns the player's most recent drop batches.
func (gm *GameManager) History(ctx context.Context, playerID, limit int) ([]models.DropBatch, error) {
	if gm.recorder == nil {
		return []models.DropBatch{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return gm.recorder.History(ctx, playerID, limit)
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(accounts.AmountPlaces)
}
