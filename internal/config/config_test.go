package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray baseball.yaml or .env is read
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":54321", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.MaxRooms)
	assert.False(t, cfg.Game.EnforceTurnTimeout)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Nil(t, cfg.Auth.TokenSeed())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  max_rooms: 3
storage:
  type: csv
  csv_dir: /tmp/baseball
auth:
  token_ttl: 1h
`), 0o600))
	t.Setenv("BASEBALL_SERVER_MAX_ROOMS", "7")
	t.Setenv("BASEBALL_GAME_ENFORCE_TURN_TIMEOUT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Server.MaxRooms)
	assert.True(t, cfg.Game.EnforceTurnTimeout)
	assert.Equal(t, StorageCSV, cfg.Storage.Type)
	assert.Equal(t, "/tmp/baseball", cfg.Storage.CSVDir)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BASEBALL_AUTH_TOKEN_SECRET=hunter2\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BASEBALL_AUTH_TOKEN_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "hunter2", cfg.Auth.TokenSecret)
	assert.Len(t, cfg.Auth.TokenSeed(), 32)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t)

	t.Setenv("BASEBALL_STORAGE_TYPE", "sqlite")
	_, err := Load("")
	assert.ErrorContains(t, err, "storage.type")

	t.Setenv("BASEBALL_STORAGE_TYPE", "memory")
	t.Setenv("BASEBALL_LOG_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "log.level")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}
