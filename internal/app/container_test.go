package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup-dev/nextup/pkg/config"
)

func localConfig(sqlitePath string) *config.Config {
	return &config.Config{
		AppEnv:                 "development",
		SQLitePath:             sqlitePath,
		DecayRate:              0.05,
		MinPriorityThreshold:   10,
		UrgencyHorizonDays:     14,
		DeadlineOverrideWindow: 48 * time.Hour,
		RecommendTimeout:       5 * time.Second,
		DefaultTopN:            5,
		CacheEnabled:           true,
		CacheTTL:               5 * time.Minute,
	}
}

// A fresh machine has no data directory yet; the first run must create
// it rather than fail at schema bootstrap.
func TestNewLocalContainer_CreatesDatabaseDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nextup", "nextup.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewLocalContainer(context.Background(), localConfig(path), logger)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.DirExists(t, filepath.Dir(path))

	// Schema bootstrap succeeded: the tasks table is queryable.
	tasks, err := c.TaskRepo.FindOpen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNewLocalContainer_Wiring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextup.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewLocalContainer(context.Background(), localConfig(path), logger)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.Engine)
	assert.NotNil(t, c.Recommender)
	assert.NotNil(t, c.Cache)
	assert.NotNil(t, c.LocalBus)
	assert.NotNil(t, c.CreateTaskHandler)
	assert.NotNil(t, c.ListTasksHandler)
	assert.NotNil(t, c.Health)
}
