package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/plinko/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartFeedSubscriber relays plinko_events (jackpots from any server) to
// every connected player as "feed" messages.
func StartFeedSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; feed subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, game.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.EventsChannel)
		for msg := range ch {
			relayFeed(GameHub, msg.Payload)
		}
		log.Printf("[WS] %s subscriber stopped", game.EventsChannel)
	}()
}

func relayFeed(h *Hub, payload string) bool {
	var ev game.FeedEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("[WS] invalid feed payload: %v", err)
		return false
	}
	h.Broadcast(map[string]interface{}{
		"type":  "feed",
		"event": ev,
	})
	return true
}
