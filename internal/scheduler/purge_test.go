package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	mu         sync.Mutex
	retentions []time.Duration
	err        error
}

func (f *fakeEnqueuer) EnqueuePurge(_ context.Context, retention time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.retentions = append(f.retentions, retention)
	return "job-1", nil
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 3 * * *", true},
		{"*/15 * * * *", true},
		{"0 0 1 * MON", true},
		{"not a schedule", false},
		{"0 3 * *", false},
		{"0 0 3 * * *", false}, // seconds field not accepted
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			assert.Equal(t, tt.valid, err == nil, "err = %v", err)
		})
	}
}

func TestPurgeScheduler_StartStop(t *testing.T) {
	s := NewPurgeScheduler(&fakeEnqueuer{}, "0 3 * * *", 720*time.Hour)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	// Second start is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestPurgeScheduler_InvalidSchedule(t *testing.T) {
	s := NewPurgeScheduler(&fakeEnqueuer{}, "every day", time.Hour)

	err := s.Start(context.Background())

	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestPurgeScheduler_EmptyScheduleDisables(t *testing.T) {
	s := NewPurgeScheduler(&fakeEnqueuer{}, "", time.Hour)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestPurgeScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewPurgeScheduler(&fakeEnqueuer{}, "0 3 * * *", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestPurgeScheduler_RunNow(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	s := NewPurgeScheduler(enqueuer, "0 3 * * *", 48*time.Hour)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, []time.Duration{48 * time.Hour}, enqueuer.retentions)

	enqueuer.err = errors.New("queue closed")
	assert.ErrorContains(t, s.RunNow(context.Background()), "queue closed")
}
