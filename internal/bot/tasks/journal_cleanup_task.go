package tasks

import (
	"context"
	"fmt"
	"time"
)

// newJournalCleanupTask creates the task that trims old journal entries and
// runs database maintenance afterwards.
func newJournalCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "journal_cleanup")

	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().AddDate(0, 0, -deps.Config.Database.RetentionDays)

		deleted, err := deps.Store.DeleteLookupsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("journal cleanup failed: %w", err)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			return fmt.Errorf("journal maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Journal cleanup completed", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
