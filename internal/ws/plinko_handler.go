package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/plinko/internal/game"
)

const commandTimeout = 5 * time.Second

type valueData struct {
	Value interface{} `json:"value"`
}

type viewportData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GameHub is the single hub for all players.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go GameHub.Run()
}

// HandleWebSocket upgrades an authenticated player and streams their table.
// The player's session is started if it is not already running.
func HandleWebSocket(c *gin.Context) {
	playerID := c.GetInt("player_id")
	if playerID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
		return
	}

	session, _, err := game.Manager.StartSession(c.Request.Context(), playerID)
	if err != nil {
		log.Printf("[WS] failed to start session for player %d: %v", playerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:      GameHub,
		conn:     conn,
		playerID: playerID,
		send:     make(chan []byte, 256),
	}
	GameHub.register <- client

	go client.writePump()
	go client.readPump(game.Manager)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if state, err := session.State(ctx); err == nil {
		client.sendJSON(gin.H{"type": "frame", "state": state})
	}
}

// readPump reads player commands and applies them to the player's session.
func (c *Client) readPump(mgr *game.GameManager) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for player %d: %v", c.playerID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		c.handleMessage(mgr, msg)
	}
}

// handleMessage processes one incoming table command. The session is looked
// up on every message so a table ended by an admin or the idle reaper is
// restarted instead of answering "session closed" for the rest of the
// connection.
func (c *Client) handleMessage(mgr *game.GameManager, msg WSMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	session, _, err := mgr.StartSession(ctx, c.playerID)
	if err != nil {
		log.Printf("[WS] failed to resolve session for player %d: %v", c.playerID, err)
		c.sendError("session unavailable")
		return
	}

	switch msg.Type {
	case "drop":
		receipt, err := session.Drop(ctx)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(gin.H{"type": "drop_accepted", "receipt": receipt})

	case "cancel":
		res, err := session.Cancel(ctx)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(gin.H{"type": "drop_cancelled", "result": res})

	case "wager":
		var data valueData
		json.Unmarshal(msg.Data, &data)
		res, err := session.SetWager(ctx, InputText(data.Value))
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(gin.H{"type": "wager", "result": res})

	case "count":
		var data valueData
		json.Unmarshal(msg.Data, &data)
		res, err := session.SetCount(ctx, InputText(data.Value))
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(gin.H{"type": "count", "result": res})

	case "viewport":
		var data viewportData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid viewport")
			return
		}
		if err := session.Resize(ctx, data.Width, data.Height); err != nil {
			c.sendError(err.Error())
		}

	case "state":
		state, err := session.State(ctx)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(gin.H{"type": "frame", "state": state})

	default:
		c.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// InputText turns a JSON value into the text a player would have typed.
func InputText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
