// Package jobs runs background maintenance on a gocron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"wellness-care-api/internal/store"
)

// Start schedules the hourly purge of expired refresh tokens. The returned
// scheduler should be shut down with the server.
func Start(st store.Store, log *zap.Logger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := st.PurgeExpiredRefreshTokens(ctx, time.Now())
			if err != nil {
				log.Warn("refresh token purge failed", zap.Error(err))
				return
			}
			if n > 0 {
				log.Info("purged expired refresh tokens", zap.Int64("count", n))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
