// Package scheduler triggers recurring background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/taskmanager/internal/jobs"
)

// PurgeEnqueuer queues a purge of soft-deleted tasks.
// Implemented by jobs.Client.
type PurgeEnqueuer interface {
	EnqueuePurge(ctx context.Context, retention time.Duration) (string, error)
}

var _ PurgeEnqueuer = (*jobs.Client)(nil)

// cronParser accepts standard 5-field expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule reports whether schedule is a valid 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// PurgeScheduler periodically enqueues the soft-deleted task purge job.
type PurgeScheduler struct {
	enqueuer  PurgeEnqueuer
	schedule  string
	retention time.Duration

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewPurgeScheduler creates a new scheduler instance
func NewPurgeScheduler(enqueuer PurgeEnqueuer, schedule string, retention time.Duration) *PurgeScheduler {
	return &PurgeScheduler{
		enqueuer:  enqueuer,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler. The scheduler stops when ctx is cancelled.
func (s *PurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("[SCHEDULER] Purge: no schedule configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueue(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("[SCHEDULER] Purge: started with schedule '%s', retention %s. Next run: %v",
		s.schedule, s.retention, s.cron.Entry(entryID).Next)

	// Monitor for context cancellation
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *PurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running ones to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("[SCHEDULER] Purge: stopped")
}

// RunNow enqueues a purge immediately, outside the schedule.
func (s *PurgeScheduler) RunNow(ctx context.Context) error {
	id, err := s.enqueuer.EnqueuePurge(ctx, s.retention)
	if err != nil {
		return err
	}
	log.Printf("[SCHEDULER] Purge: enqueued job %s", id)
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *PurgeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next purge will be enqueued
func (s *PurgeScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *PurgeScheduler) enqueue(ctx context.Context) {
	if err := s.RunNow(ctx); err != nil {
		log.Printf("[SCHEDULER] Purge: failed to enqueue job: %v", err)
	}
}
