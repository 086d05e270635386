package scheduler

import (
	"context"
	"fmt"
	"guestlist/src-server/model"
	"guestlist/src-server/utils"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// PruneGuestSessions drops guest sessions untouched for longer than maxAge.
// The guests' rsvps stay; only the capability to cancel them is gone.
func PruneGuestSessions(ctx context.Context, db bun.IDB, maxAge time.Duration, now time.Time) (int64, error) {
	result, err := db.NewDelete().
		Model((*model.GuestSession)(nil)).
		Where("updated_at < ?", now.Add(-maxAge).UTC().Unix()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("PruneGuestSessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PruneGuestSessions: %w", err)
	}
	return n, nil
}

// GuestSessionCleanup prunes expired guest sessions every interval until the
// app shuts down.
func GuestSessionCleanup(as *utils.AppState, interval time.Duration) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-*gracefulShutdownCh:
			return
		case <-ticker.C:
			startTimer := time.Now()
			n, err := PruneGuestSessions(context.Background(), as.BunDB, as.Config.GetGuestSessionMaxAge(), time.Now())
			if err != nil {
				slog.Error("can't prune guest sessions", "error", err)
				continue
			}
			as.MetricChans.ObserveDatabaseWrite(startTimer)
			if n > 0 {
				slog.Debug("pruned guest sessions", "count", n)
			}
		}
	}
}
