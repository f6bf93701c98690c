package jobs

import (
	"time"

	"github.com/mrlokans/taskmanager/internal/config"
)

// Config holds configuration for the job queue.
type Config struct {
	// Workers is the number of concurrent job workers. Default: 1
	Workers int

	// ReleaseAfter is when stuck jobs are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished jobs are cleaned up. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

// ConfigFrom converts application settings, falling back to defaults for zero values.
func ConfigFrom(cfg config.Jobs) Config {
	out := DefaultConfig()
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	return out
}
