package eventlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes decision records past the retention window.
type Pruner struct {
	store  *Store
	logger *slog.Logger

	// RetentionDays keeps records no older than this many days.
	// Zero disables age-based pruning.
	retentionDays int

	// MaxRecords caps total stored records. Zero disables the cap.
	maxRecords int64
}

// NewPruner creates a pruner over the given store.
func NewPruner(store *Store, retentionDays int, maxRecords int64, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:         store,
		logger:        logger.With("component", "eventlog.pruner"),
		retentionDays: retentionDays,
		maxRecords:    maxRecords,
	}
}

// Prune runs one pruning pass and returns the number of deleted records.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var deleted int64

	if p.retentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.retentionDays)
		n, err := p.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return deleted, fmt.Errorf("age-based pruning failed: %w", err)
		}
		deleted += n
	}

	if p.maxRecords > 0 {
		n, err := p.store.TrimToMax(ctx, p.maxRecords)
		if err != nil {
			return deleted, fmt.Errorf("count-based pruning failed: %w", err)
		}
		deleted += n
	}

	return deleted, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner   *Pruner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a retention scheduler. The schedule is a standard
// cron expression; an empty schedule disables the scheduler.
func NewScheduler(pruner *Pruner, schedule string) *Scheduler {
	return &Scheduler{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   pruner.logger.With("component", "eventlog.scheduler"),
	}
}

// Start begins scheduled pruning. It returns immediately; pruning runs on
// the cron's own goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPruning executes one pruning cycle.
func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled pruning completed, no records deleted")
	}
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}
