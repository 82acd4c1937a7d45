package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WorkerService keeps persisted task statuses in step with the clock.
type WorkerService struct {
	tasks     *TaskService
	notifier  OverdueNotifier
	audit     Auditor
	scheduler *SchedulerService
	interval  time.Duration
	logger    zerolog.Logger

	mu sync.Mutex
}

func NewWorkerService(
	tasks *TaskService,
	notifier OverdueNotifier,
	audit Auditor,
	scheduler *SchedulerService,
	interval time.Duration,
	logger zerolog.Logger,
) *WorkerService {
	return &WorkerService{
		tasks:     tasks,
		notifier:  notifier,
		audit:     audit,
		scheduler: scheduler,
		interval:  interval,
		logger:    logger.With().Str("component", "worker").Logger(),
	}
}

// Start schedules the sweep and blocks until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) error {
	if _, err := w.scheduler.ScheduleInterval(w.interval, func() {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("task sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule task sweep: %w", err)
	}

	w.scheduler.Start()
	w.logger.Info().Dur("interval", w.interval).Msg("background worker started")

	<-ctx.Done()
	w.scheduler.Stop()
	w.logger.Info().Msg("background worker stopped")
	return nil
}

// RunOnce sweeps task statuses and notifies about tasks that just became overdue.
// Concurrent calls are serialised.
func (w *WorkerService) RunOnce(ctx context.Context) (*SweepResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	result, err := w.tasks.Sweep(ctx)
	if err != nil {
		return result, err
	}

	if len(result.NewlyOverdue) > 0 {
		if err := w.notifier.NotifyOverdue(ctx, result.NewlyOverdue); err != nil {
			w.logger.Error().Err(err).Int("tasks", len(result.NewlyOverdue)).Msg("overdue notification failed")
		}
		for _, t := range result.NewlyOverdue {
			w.audit.record(ctx, nil, "task_overdue", "Task %d of patient %d passed its deadline", t.ID, t.PatientID)
		}
	}

	if result.Updated > 0 {
		w.logger.Info().
			Int("evaluated", result.Evaluated).
			Int("updated", result.Updated).
			Int("newly_overdue", len(result.NewlyOverdue)).
			Msg("task sweep applied")
	}
	return result, nil
}
