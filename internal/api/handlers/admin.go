package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/admin"
	"github.com/playmatatu/plinko/internal/game"
)

// AdminAuthMiddleware checks the X-Admin-Phone / X-Admin-Token pair
func AdminAuthMiddleware(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := normalizePhone(c.GetHeader("X-Admin-Phone"))
		token := c.GetHeader("X-Admin-Token")
		if phone == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin credentials required"})
			return
		}

		acc, err := admin.Authenticate(db, phone, token, c.ClientIP())
		switch {
		case err == nil:
		case errors.Is(err, admin.ErrIPNotAllowed):
			admin.LogAdminAction(db, phone, c.ClientIP(), c.FullPath(), "auth", nil, false)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "ip not allowed"})
			return
		case errors.Is(err, admin.ErrAdminNotFound), errors.Is(err, admin.ErrInvalidToken):
			admin.LogAdminAction(db, phone, c.ClientIP(), c.FullPath(), "auth", nil, false)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin credentials"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set("admin_phone", acc.Phone)
		c.Next()
	}
}

// GetAdminSessions lists every live plinko session
func GetAdminSessions(mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := mgr.Sessions()
		c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
	}
}

// AdminEndSession force-closes a player's session; queued balls are refunded
func AdminEndSession(db *sqlx.DB, mgr *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminPhone := c.GetString("admin_phone")
		playerID, err := strconv.Atoi(c.Param("player_id"))
		if err != nil || playerID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
			return
		}
		route := fmt.Sprintf("/api/v1/admin/sessions/%d", playerID)
		details := map[string]interface{}{"player_id": playerID}

		if err := mgr.EndSession(playerID); err != nil {
			admin.LogAdminAction(db, adminPhone, c.ClientIP(), route, "end_session", details, false)
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		admin.LogAdminAction(db, adminPhone, c.ClientIP(), route, "end_session", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
