package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurechat/internal/store"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "DATABASE_URL", "FUTURECHAT_MATCHER", "FUTURECHAT_MATCHER_DB",
		"FUTURECHAT_KNOWLEDGE_BACKEND", "FUTURECHAT_KNOWLEDGE_PATH", "FUTURECHAT_SEED",
		"FUTURECHAT_EXTERNAL_TIMEOUT", "FUTURECHAT_ADDR", "FUTURECHAT_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "FutureChat", cfg.Name)
	assert.Equal(t, ProviderBestMatch, cfg.Matcher.Provider)
	assert.Equal(t, store.BackendJSON, cfg.Knowledge.Backend)
	assert.Equal(t, 100, cfg.Engine.HistoryCap)
	assert.Equal(t, 0.8, cfg.Engine.Thresholds.High)
	assert.Equal(t, 0.5, cfg.Engine.Thresholds.Medium)
	assert.Equal(t, 2*time.Second, cfg.GetExternalTimeout())
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "futurechat.yaml")

	cfg := DefaultConfig()
	cfg.Matcher.Provider = ProviderNone
	cfg.Knowledge.Backend = store.BackendSQLite
	cfg.Knowledge.Path = "data/kb.db"
	cfg.Engine.Seed = 7

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderNone, loaded.Matcher.Provider)
	assert.Equal(t, store.BackendSQLite, loaded.Knowledge.Backend)
	assert.Equal(t, "data/kb.db", loaded.Knowledge.Path)
	assert.Equal(t, int64(7), loaded.Engine.Seed)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "futurechat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  external_timeout: 500ms\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.GetExternalTimeout())
	assert.Equal(t, ProviderBestMatch, cfg.Matcher.Provider)
	assert.Equal(t, 0.8, cfg.Engine.Thresholds.High)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "futurechat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Matcher.Provider = "chatgpt" }},
		{"gemini without key", func(c *Config) { c.Matcher.Provider = ProviderGemini }},
		{"bestmatch without db", func(c *Config) { c.Matcher.DatabasePath = "" }},
		{"similarity above one", func(c *Config) { c.Matcher.MinSimilarity = 1.5 }},
		{"unknown backend", func(c *Config) { c.Knowledge.Backend = "redis" }},
		{"postgres without dsn", func(c *Config) { c.Knowledge.Backend = store.BackendPostgres }},
		{"inverted thresholds", func(c *Config) { c.Engine.Thresholds.Medium = 0.9 }},
		{"zero history", func(c *Config) { c.Engine.HistoryCap = 0 }},
		{"bad timeout", func(c *Config) { c.Engine.ExternalTimeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_DurationFallbacks(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 2*time.Second, cfg.GetExternalTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetWriteTimeout())

	cfg.Engine.ExternalTimeout = "-1s"
	assert.Equal(t, 2*time.Second, cfg.GetExternalTimeout())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	os.Unsetenv("FUTURECHAT_ADDR")
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FUTURECHAT_ADDR=:9090\n"), 0o644))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "warn", Categories: map[string]bool{"style": false}}
	assert.False(t, lc.IsCategoryEnabled("style"))
	assert.True(t, lc.IsCategoryEnabled("engine"))

	out := lc.ToLogging(true)
	assert.Equal(t, "debug", out.Level)
	assert.True(t, out.Stderr)
	assert.Equal(t, "warn", lc.ToLogging(false).Level)
}
