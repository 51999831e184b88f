package game

import (
	"context"
	"log"
	"time"
)

// StartSessionReaper closes idle sessions on a fixed poll interval until ctx
// is cancelled.
func StartSessionReaper(ctx context.Context, gm *GameManager, poll time.Duration) {
	if gm == nil {
		log.Println("[REAPER] manager missing; session reaper not started")
		return
	}
	if poll <= 0 {
		poll = time.Minute
	}

	log.Printf("[REAPER] session reaper started (poll=%s)", poll)
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] session reaper stopping")
				return
			case now := <-ticker.C:
				if reaped := gm.ReapIdle(now); len(reaped) > 0 {
					log.Printf("[REAPER] closed %d idle sessions: %v", len(reaped), reaped)
				}
			}
		}
	}()
}
