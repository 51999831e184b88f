package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/plinko/internal/game"
)

// GetConfig returns the table settings the frontend needs
func GetConfig(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := mgr.Settings()
		c.JSON(http.StatusOK, gin.H{
			"starting_score":     s.StartingScore,
			"max_balls_per_drop": s.MaxBallsPerDrop,
			"frame_rate":         s.FrameRate,
			"broadcast_every":    s.BroadcastEvery,
			"min_wager":          game.MinWager,
			"drop_interval_ms":   game.DropIntervalMs,
		})
	}
}

// GetBoard describes the board: rows, slot multipliers, weights and tiers
func GetBoard(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := mgr.Board()
		slots := make([]gin.H, 0, len(b.Multipliers))
		for i, m := range b.Multipliers {
			slots = append(slots, gin.H{
				"index":      i,
				"multiplier": m,
				"weight":     game.SlotWeight(m),
				"tier":       game.TierFor(m).String(),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"peg_rows":       b.PegRows,
			"width_factor":   b.WidthFactor,
			"max_multiplier": b.MaxMultiplier(),
			"slots":          slots,
		})
	}
}
