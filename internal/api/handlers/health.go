package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/redis/go-redis/v9"
)

const serviceName = "plinko-api"

var startedAt = time.Now()

// HealthCheck pings Postgres and Redis and reports live sessions. A nil
// dependency is reported as "disabled"; a failing one makes the check 503.
func HealthCheck(db *sqlx.DB, rdb *redis.Client, mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := gin.H{"postgres": "disabled", "redis": "disabled"}
		if db != nil {
			deps["postgres"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				deps["postgres"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			deps["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				deps["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":   state,
			"service":  serviceName,
			"uptime":   time.Since(startedAt).Round(time.Second).String(),
			"sessions": len(mgr.Sessions()),
			"deps":     deps,
		})
	}
}
