package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/plinko/internal/ws"
)

// HandleGameWebSocket streams frames and accepts commands for the caller's session
func HandleGameWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
