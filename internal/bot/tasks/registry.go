package tasks

import "context"

// ScheduledTaskFunc is the signature for all scheduled tasks. The context
// comes from the scheduler and should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of registered tasks. The keys match the
// task names used in the scheduler section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"journal_cleanup": newJournalCleanupTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
