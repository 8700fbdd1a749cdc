package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/domainwatch/twistbot/internal/bot/tasks"
	"github.com/domainwatch/twistbot/internal/config"
)

// Scheduler runs the configured background tasks on cron schedules using
// gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler over the registered task map. Tasks are
// only scheduled if the configuration enables them.
func NewScheduler(log *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		log:       log.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules all enabled tasks and begins ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	for name, taskCfg := range s.cfg.Tasks {
		if !taskCfg.Enabled {
			s.log.Info("Skipping disabled task", "task", name)
			continue
		}

		taskFunc, ok := s.taskMap[name]
		if !ok {
			s.log.Warn("Configured task not found in registry, skipping", "task", name)
			continue
		}
		if taskCfg.Schedule == "" {
			s.log.Warn("Enabled task has empty schedule, skipping", "task", name)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskCfg.Schedule, true),
			gocron.NewTask(func(ctx context.Context, taskName string) {
				s.log.Info("Running scheduled task", "task", taskName)
				start := time.Now()
				if err := taskFunc(ctx); err != nil {
					s.log.Error("Scheduled task failed", "task", taskName, "error", err)
				}
				s.log.Info("Finished scheduled task", "task", taskName, "duration", time.Since(start))
			}, context.Background(), name),
			gocron.WithName(name),
		)
		if err != nil {
			s.log.Error("Failed to schedule task", "task", name, "schedule", taskCfg.Schedule, "error", err)
			continue
		}

		s.log.Info("Scheduled task", "task", name, "schedule", taskCfg.Schedule)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.log.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	return err
}
