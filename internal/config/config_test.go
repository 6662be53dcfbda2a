package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOTING_CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.False(t, cfg.Voting.CheckIPAddress)
	assert.True(t, cfg.Voting.GenerateReportOnClose)
	assert.Equal(t, 5, cfg.Voting.ActivateCloseRetryCount)
	assert.Equal(t, 5*time.Second, cfg.Voting.StatusRetryDelay)
	assert.Equal(t, time.Hour, cfg.Voting.MinVotingDuration)
	assert.Equal(t, 5, cfg.Scheduler.ThreadWorkerCount)
	assert.Equal(t, 20*time.Second, cfg.Scheduler.MisfireGrace())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voting.yaml")
	content := `
storage-driver: memory
voting:
  check-ip-address: true
  min-voting-duration: 30m
scheduler:
  thread-worker-count: 7
  process-pool: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("VOTING_CONFIG_FILE", path)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SCHEDULER_THREAD_WORKER_COUNT", "9")
	t.Setenv("VOTING_STATUS_RETRY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.Voting.CheckIPAddress)
	assert.Equal(t, 30*time.Minute, cfg.Voting.MinVotingDuration)
	assert.True(t, cfg.Scheduler.ProcessPoolEnabled)
	assert.Equal(t, 9, cfg.Scheduler.ThreadWorkerCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Voting.StatusRetryDelay)
	assert.True(t, cfg.Voting.GenerateReportOnClose)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("VOTING_CONFIG_FILE", "")

	t.Run("storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("integer", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("SCHEDULER_MAX_INSTANCES", "three")
		_, err := Load()
		assert.ErrorContains(t, err, "SCHEDULER_MAX_INSTANCES")
	})
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "yes")
	assert.True(t, envBool("FLAG", false))

	t.Setenv("FLAG", "off")
	assert.False(t, envBool("FLAG", true))

	t.Setenv("FLAG", "maybe")
	assert.True(t, envBool("FLAG", true))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{}.SlogLevel())
}
