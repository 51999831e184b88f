package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/plinko/internal/accounts"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/ws"
)

// StartSession opens (or resumes) the caller's plinko session
func StartSession(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := playerIDFrom(c)
		session, created, err := mgr.StartSession(c.Request.Context(), playerID)
		if err != nil {
			log.Printf("[PLINKO] Failed to start session for player %d: %v", playerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}
		state, err := session.State(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"created": created, "state": state})
	}
}

// sessionFor resolves the caller's session or writes a 404.
func sessionFor(c *gin.Context, mgr *game.GameManager) (*game.Session, bool) {
	session, err := mgr.GetSession(playerIDFrom(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return nil, false
	}
	return session, true
}

// GetState returns the current snapshot of the caller's session
func GetState(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		state, err := session.State(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// SetWager applies the wager field; unparsable input falls back to the minimum
func SetWager(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		var req struct {
			Wager interface{} `json:"wager"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		res, err := session.SetWager(c.Request.Context(), ws.InputText(req.Wager))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// SetCount applies the ball count field
func SetCount(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		var req struct {
			Count interface{} `json:"count"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		res, err := session.SetCount(c.Request.Context(), ws.InputText(req.Count))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// SetViewport reports the client's drawing area
func SetViewport(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		var req struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width and height required"})
			return
		}
		if err := session.Resize(c.Request.Context(), req.Width, req.Height); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Drop stakes wager*count and queues the batch
func Drop(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		receipt, err := session.Drop(c.Request.Context())
		switch {
		case err == nil:
			c.JSON(http.StatusOK, receipt)
		case errors.Is(err, game.ErrEmptyDrop):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "empty_drop"})
		case errors.Is(err, game.ErrInsufficientScore):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "insufficient_score"})
		case errors.Is(err, accounts.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "wallet balance too low", "code": "insufficient_funds"})
		default:
			log.Printf("[PLINKO] Drop failed for player %d: %v", session.PlayerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "drop failed"})
		}
	}
}

// Cancel refunds balls that have not spawned yet
func Cancel(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFor(c, mgr)
		if !ok {
			return
		}
		res, err := session.Cancel(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// EndSession closes the caller's session
func EndSession(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mgr.EndSession(playerIDFrom(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetHistory lists the caller's recent drops
func GetHistory(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		batches, err := mgr.History(c.Request.Context(), playerIDFrom(c), limit)
		if err != nil {
			log.Printf("[DB] Failed to fetch history for player %d: %v", playerIDFrom(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"drops": batches})
	}
}
