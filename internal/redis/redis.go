package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a connection to Redis. An empty URL returns a nil
// client: session snapshots and the landing feed are then disabled.
func Connect(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		log.Printf("[REDIS] No REDIS_URL set, snapshots and feed disabled")
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Printf("[REDIS] Connected to %s", opt.Addr)
	return client, nil
}
