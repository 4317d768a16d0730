package tasks

import (
	"fmt"
	"time"
)

// ImportTimeout bounds a single queued import.
const ImportTimeout = 30 * time.Minute

// Config holds the worker pool settings. Per-queue attempts, backoff and
// retention are fixed by each task type's Config method.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// ReleaseAfter is when a claimed task is considered stuck and handed to
	// another worker. Default: 45m
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task records are removed. Default: 1h
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    45 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// Validate rejects settings under which a running import could be released
// and started a second time.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ReleaseAfter <= ImportTimeout {
		return fmt.Errorf("release after (%s) must exceed the import timeout (%s)", c.ReleaseAfter, ImportTimeout)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}
	return nil
}
