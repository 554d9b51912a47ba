package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "./data/shg.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0.3", cfg.Cash.DefaultHandRatio.String())
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SHG_APP_PORT", "9191")
	t.Setenv("SHG_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("SHG_REDIS_ADDR", "localhost:6379")
	t.Setenv("SHG_CASH_DEFAULT_HAND_RATIO", "0.25")
	t.Setenv("SHG_LOCK_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.App.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, "0.25", cfg.Cash.DefaultHandRatio.String())
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	content := "[log]\nlevel = \"debug\"\n\n[database]\npath = \"ledger.db\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ledger.db", cfg.Database.Path)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"ratio above one", "SHG_CASH_DEFAULT_HAND_RATIO", "1.5"},
		{"ratio not a number", "SHG_CASH_DEFAULT_HAND_RATIO", "lots"},
		{"port out of range", "SHG_APP_PORT", "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
