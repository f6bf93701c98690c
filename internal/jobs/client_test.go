package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/taskmanager/internal/config"
)

func TestNewClient(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "jobs.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "jobs database should be created")

	assert.NoError(t, client.Close())
}

func TestNewClient_RequiresPath(t *testing.T) {
	_, err := NewClient("", DefaultConfig())
	assert.Error(t, err)
}

func TestClientStartStop(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "jobs.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	// Stop before Start is a no-op
	assert.True(t, client.Stop(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

// echoJob is a simple job for testing
type echoJob struct {
	Value string `json:"value"`
}

func (j echoJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo_job",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestJobEnqueue(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "jobs.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, job echoJob) error {
		executed <- job.Value
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(echoJob{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("job was not executed within timeout")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Jobs{Workers: 3, ReleaseAfter: time.Minute})

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval, "zero values fall back to defaults")
}
