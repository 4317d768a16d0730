package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDatabasePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"contentmigrate.db", "contentmigrate-tasks.db"},
		{"/var/lib/migrate/content.sqlite", "/var/lib/migrate/content-tasks.sqlite"},
		{"data/store", "data/store-tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, DatabasePath(tt.input))
		})
	}
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()

	client, err := NewClient(filepath.Join(tmpDir, "test.db"), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReleaseAfter = 10 * time.Minute

	_, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must exceed the import timeout")
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStop_NotStarted(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type echoTask struct {
	Value string `json:"value"`
}

func (t echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestClientEnqueue(t *testing.T) {
	client := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(_ context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(echoTask{Value: "export.xml"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case val := <-executed:
		assert.Equal(t, "export.xml", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestTaskConfigs(t *testing.T) {
	imp := ImportExportTask{ImportID: "abc", Path: "/uploads/export.xml"}.Config()
	assert.Equal(t, ImportQueueName, imp.Name)
	assert.Equal(t, 1, imp.MaxAttempts)
	assert.Equal(t, ImportTimeout, imp.Timeout)
	assert.NotNil(t, imp.Retention)

	cleanup := CleanupAuditEventsTask{RetentionDays: 7}.Config()
	assert.Equal(t, CleanupQueueName, cleanup.Name)
	assert.Equal(t, 3, cleanup.MaxAttempts)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"release equals import timeout", func(c *Config) { c.ReleaseAfter = ImportTimeout }},
		{"no cleanup interval", func(c *Config) { c.CleanupInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
