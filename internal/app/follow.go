package app

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/logtail"
)

// StartFollower backfills the last lines of path into store and then tails
// it on a goroutine until ctx is cancelled. Errors are logged and never stop
// the panel.
func StartFollower(ctx context.Context, wg *sync.WaitGroup, path string, store *logstore.Store, backfill int, logger *logrus.Logger) {
	entry := logger.WithField("path", path)
	follower := logtail.NewFollower(path, store, func(err error) {
		entry.WithError(err).Warn("follow read failed")
	})

	if err := follower.Backfill(backfill); err != nil {
		entry.WithError(err).Warn("backfill failed")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := follower.Run(ctx); err != nil {
			entry.WithError(err).Error("follower stopped")
			return
		}
		entry.Debug("follower stopped")
	}()
	entry.Info("following file")
}
