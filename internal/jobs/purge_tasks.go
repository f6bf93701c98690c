package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/taskmanager/internal/database/tasks"
)

// DefaultPurgeRetention is used when a job carries no retention.
const DefaultPurgeRetention = 30 * 24 * time.Hour

// DeletedTaskPurger permanently removes soft-deleted tasks.
// Implemented by database/tasks.Repository.
type DeletedTaskPurger interface {
	PurgeDeletedTasks(before time.Time) (int64, error)
}

var _ DeletedTaskPurger = (*tasks.Repository)(nil)

// PurgeDeletedTasksTask removes tasks soft-deleted longer ago than the retention period.
type PurgeDeletedTasksTask struct {
	RetentionHours int `json:"retention_hours"`
}

// NewPurgeDeletedTasksTask builds a job for the given retention, rounded down to whole hours.
func NewPurgeDeletedTasksTask(retention time.Duration) PurgeDeletedTasksTask {
	return PurgeDeletedTasksTask{RetentionHours: int(retention / time.Hour)}
}

// Retention returns the retention period, applying the default when unset.
func (t PurgeDeletedTasksTask) Retention() time.Duration {
	if t.RetentionHours <= 0 {
		return DefaultPurgeRetention
	}
	return time.Duration(t.RetentionHours) * time.Hour
}

// Config returns the queue configuration for purge jobs.
func (t PurgeDeletedTasksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_deleted_tasks",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeDeletedTasksProcessor creates a processor function for PurgeDeletedTasksTask.
func PurgeDeletedTasksProcessor(purger DeletedTaskPurger, now func() time.Time) backlite.QueueProcessor[PurgeDeletedTasksTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task PurgeDeletedTasksTask) error {
		if purger == nil {
			return fmt.Errorf("deleted task purger not configured")
		}

		retention := task.Retention()
		deleted, err := purger.PurgeDeletedTasks(now().Add(-retention))
		if err != nil {
			return fmt.Errorf("purge deleted tasks: %w", err)
		}

		log.Printf("[JOB] Purged %d tasks deleted more than %s ago", deleted, retention)
		return nil
	}
}

// NewPurgeDeletedTasksQueue creates a backlite queue for purge jobs.
func NewPurgeDeletedTasksQueue(purger DeletedTaskPurger) backlite.Queue {
	return backlite.NewQueue(PurgeDeletedTasksProcessor(purger, time.Now))
}

// EnqueuePurge adds a purge job for the given retention and returns its ID.
func (c *Client) EnqueuePurge(ctx context.Context, retention time.Duration) (string, error) {
	ids, err := c.Add(NewPurgeDeletedTasksTask(retention)).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue purge job: %w", err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue purge job: no id returned")
	}
	return ids[0], nil
}
