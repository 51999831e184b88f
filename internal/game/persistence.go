package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// EventsChannel is the Redis pub/sub channel for cross-player feed events.
const EventsChannel = "plinko_events"

const snapshotTTL = time.Hour

// SQLRecorder writes drop batches and landings to Postgres.
type SQLRecorder struct {
	db *sqlx.DB
}

// NewSQLRecorder returns a Recorder backed by db.
func NewSQLRecorder(db *sqlx.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

func (r *SQLRecorder) RecordBatch(ctx context.Context, playerID, count int, wager, cost float64) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, `INSERT INTO drop_batches (player_id, ball_count, wager, cost, status, created_at) VALUES ($1, $2, $3, $4, 'dropping', NOW()) RETURNING id`,
		playerID, count, money(wager), money(cost)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert drop_batches: %w", err)
	}
	return id, nil
}

func (r *SQLRecorder) RecordLanding(ctx context.Context, batchRow int64, ev Event) error {
	tier := ev.Tier
	if tier == "" {
		tier = TierNone.String()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO ball_landings (drop_batch_id, ball_id, outcome, slot_index, multiplier, payout, tier, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		batchRow, ev.BallID, string(ev.Type), ev.SlotIndex, decimal.NewFromFloat(ev.Multiplier), money(ev.Payout), tier)
	if err != nil {
		return fmt.Errorf("insert ball_landings: %w", err)
	}
	return nil
}

func (r *SQLRecorder) SettleBatch(ctx context.Context, batchRow int64, status string, payout float64, cancelled int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE drop_batches SET status=$1, payout=$2, cancelled=$3, settled_at=NOW() WHERE id=$4`,
		status, money(payout), cancelled, batchRow)
	if err != nil {
		return fmt.Errorf("update drop_batches: %w", err)
	}
	return nil
}

func (r *SQLRecorder) History(ctx context.Context, playerID, limit int) ([]models.DropBatch, error) {
	batches := []models.DropBatch{}
	err := r.db.SelectContext(ctx, &batches, `SELECT id, player_id, ball_count, wager, cost, payout, cancelled, status, created_at, settled_at FROM drop_batches WHERE player_id=$1 ORDER BY created_at DESC LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select drop_batches: %w", err)
	}
	return batches, nil
}

// savedSession is what survives a session in Redis: the player's table
// preferences and last known score.
type savedSession struct {
	Wager   float64   `json:"wager"`
	Count   int       `json:"count"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Score   float64   `json:"score"`
	SavedAt time.Time `json:"saved_at"`
}

func snapshotKey(playerID int) string {
	return fmt.Sprintf("plinko:session:%d:state", playerID)
}

func (gm *GameManager) saveSnapshot(ctx context.Context, playerID int, sim *Simulation) {
	if gm.rdb == nil {
		return
	}
	econ := sim.Economy()
	geom := sim.Geometry()
	data, err := json.Marshal(savedSession{
		Wager:   econ.Wager,
		Count:   econ.Count,
		Width:   geom.ViewportWidth,
		Height:  geom.ViewportHeight,
		Score:   econ.Score,
		SavedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[REDIS] failed to encode session for player %d: %v", playerID, err)
		return
	}
	if err := gm.rdb.Set(ctx, snapshotKey(playerID), data, snapshotTTL).Err(); err != nil {
		log.Printf("[REDIS] failed to save session for player %d: %v", playerID, err)
	}
}

func (gm *GameManager) loadSnapshot(ctx context.Context, playerID int) *savedSession {
	if gm.rdb == nil {
		return nil
	}
	data, err := gm.rdb.Get(ctx, snapshotKey(playerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[REDIS] failed to load session for player %d: %v", playerID, err)
		}
		return nil
	}
	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("[REDIS] corrupt session for player %d: %v", playerID, err)
		return nil
	}
	return &saved
}

// FeedEvent is published on EventsChannel for jackpot landings.
type FeedEvent struct {
	Type       string    `json:"type"`
	PlayerID   int       `json:"player_id"`
	Multiplier float64   `json:"multiplier"`
	Wager      float64   `json:"wager"`
	Payout     float64   `json:"payout"`
	At         time.Time `json:"at"`
}

func (gm *GameManager) publishJackpot(ctx context.Context, playerID int, ev Event) {
	if gm.rdb == nil {
		return
	}
	data, _ := json.Marshal(FeedEvent{
		Type:       "jackpot",
		PlayerID:   playerID,
		Multiplier: ev.Multiplier,
		Wager:      ev.Wager,
		Payout:     ev.Payout,
		At:         time.Now(),
	})
	if n, err := gm.rdb.Publish(ctx, EventsChannel, data).Result(); err != nil {
		log.Printf("[REDIS] publish jackpot failed: player=%d err=%v", playerID, err)
	} else {
		log.Printf("[REDIS] published jackpot: player=%d payout=%.2f subscribers=%d", playerID, ev.Payout, n)
	}
}
