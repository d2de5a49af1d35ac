package utilities

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRequestIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewRequestID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_MAX_AGE", "48h")
	cfg := ConfigFromEnv()
	assert.True(t, cfg.Dev)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 48*time.Hour, cfg.MaxAge)

	t.Setenv("LOG_DEV", "")
	t.Setenv("LOG_MAX_AGE", "")
	cfg = ConfigFromEnv()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, 7*24*time.Hour, cfg.MaxAge)
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("verbose"))
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	lg, err := Init(Config{Level: "info", File: path, MaxAge: time.Hour})
	require.NoError(t, err)
	lg.Info("hello")
	_ = lg.Sync()

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
}
