package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/accounts"
	"github.com/playmatatu/plinko/internal/api/handlers"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, mgr *game.GameManager) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache must come first in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck(db, rdb, mgr))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db, rdb, mgr))
		v1.GET("/config", handlers.GetConfig(mgr))
		v1.GET("/plinko/board", handlers.GetBoard(mgr))

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, accounts.NewWallet(db), cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		plinko := v1.Group("/plinko", handlers.AuthMiddleware(cfg))
		{
			plinko.POST("/session", handlers.StartSession(mgr))
			plinko.DELETE("/session", handlers.EndSession(mgr))
			plinko.GET("/state", handlers.GetState(mgr))
			plinko.PUT("/wager", handlers.SetWager(mgr))
			plinko.PUT("/count", handlers.SetCount(mgr))
			plinko.PUT("/viewport", handlers.SetViewport(mgr))
			plinko.POST("/drop", handlers.Drop(mgr))
			plinko.POST("/cancel", handlers.Cancel(mgr))
			plinko.GET("/history", handlers.GetHistory(mgr))
			plinko.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket())
		}

		adm := v1.Group("/admin", handlers.AdminAuthMiddleware(db))
		{
			adm.GET("/sessions", handlers.GetAdminSessions(mgr))
			adm.DELETE("/sessions/:player_id", handlers.AdminEndSession(db, mgr))
			adm.GET("/config", handlers.GetAdminRuntimeConfig(db))
			adm.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db, cfg, mgr))
			adm.GET("/audit", handlers.GetAdminAuditLogs(db))
		}
	}
}
