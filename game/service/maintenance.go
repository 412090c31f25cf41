package service

import (
	"context"
	"log"
	"time"
)

// RunMaintenance syncs sessions to persistence every syncEvery and drops
// sessions idle for longer than maxAge every cleanupEvery, until ctx is done.
// A final sync runs on return. A zero interval disables that task.
func RunMaintenance(ctx context.Context, svc GameService, syncEvery, cleanupEvery, maxAge time.Duration) {
	var syncC, cleanupC <-chan time.Time
	if syncEvery > 0 {
		t := time.NewTicker(syncEvery)
		defer t.Stop()
		syncC = t.C
	}
	if cleanupEvery > 0 && maxAge > 0 {
		t := time.NewTicker(cleanupEvery)
		defer t.Stop()
		cleanupC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			if err := svc.SyncSessions(context.Background()); err != nil {
				log.Printf("Warning: final session sync: %v", err)
			}
			return
		case <-syncC:
			if err := svc.SyncSessions(ctx); err != nil {
				log.Printf("Warning: session sync: %v", err)
			}
		case <-cleanupC:
			if n := svc.CleanupSessions(ctx, maxAge); n > 0 {
				log.Printf("Removed %d idle sessions from memory", n)
			}
		}
	}
}
