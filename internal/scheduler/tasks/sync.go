// Package tasks contains scheduled task registrations.
package tasks

import (
	"context"

	"github.com/showdeck/showdeck/internal/ratingsync"
	"github.com/showdeck/showdeck/internal/scheduler"
)

// RegisterSyncTask registers the periodic Trakt account sync.
func RegisterSyncTask(s *scheduler.Scheduler, sync *ratingsync.Service, cron string) error {
	return s.RegisterTask(scheduler.TaskConfig{
		ID:         "trakt-sync",
		Name:       "Trakt Account Sync",
		Cron:       cron,
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			sync.SyncAll(ctx)
			return nil
		},
	})
}
