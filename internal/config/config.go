package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"futurechat/internal/history"
	"futurechat/internal/matcher"
	"futurechat/internal/matcher/bestmatch"
	"futurechat/internal/matcher/gemini"
	"futurechat/internal/store"
	"futurechat/internal/style"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "futurechat.yaml"

// Config holds all futurechat configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Per-turn pipeline
	Engine EngineConfig `yaml:"engine"`

	// Knowledge table persistence
	Knowledge store.Config `yaml:"knowledge"`

	// External matcher
	Matcher MatcherConfig `yaml:"matcher"`

	// HTTP surface
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the per-turn pipeline.
type EngineConfig struct {
	HistoryCap int `yaml:"history_cap"`
	// Seed pins reply phrasing. 0 seeds from the clock.
	Seed            int64            `yaml:"seed"`
	ExternalTimeout string           `yaml:"external_timeout"`
	Thresholds      style.Thresholds `yaml:"thresholds"`
}

// MatcherConfig selects the external matcher.
type MatcherConfig struct {
	Provider string `yaml:"provider"` // bestmatch, gemini, none

	// bestmatch
	DatabasePath     string  `yaml:"database_path"`
	MinSimilarity    float64 `yaml:"min_similarity"`
	SeedConversation bool    `yaml:"seed_conversation"`

	// Gemini
	Gemini GeminiConfig `yaml:"gemini"`

	// TrainCorpus is a YAML corpus trained into the matcher at startup.
	TrainCorpus string `yaml:"train_corpus"`
}

// GeminiConfig configures the Gemini responder.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	Name         string `yaml:"name"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// Matcher providers.
const (
	ProviderBestMatch = "bestmatch"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// ValidProviders lists all supported matcher providers.
var ValidProviders = []string{ProviderBestMatch, ProviderGemini, ProviderNone}

// ValidBackends lists all supported knowledge backends.
var ValidBackends = []store.Backend{store.BackendJSON, store.BackendSQLite, store.BackendPostgres}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "FutureChat",
		Version: "3.0",

		Engine: EngineConfig{
			HistoryCap:      history.DefaultCap,
			ExternalTimeout: matcher.DefaultTimeout.String(),
			Thresholds:      style.DefaultThresholds(),
		},

		Knowledge: store.Config{
			Backend: store.BackendJSON,
			Path:    store.DefaultPath,
		},

		Matcher: MatcherConfig{
			Provider:         ProviderBestMatch,
			DatabasePath:     "data/futurechat_db.sqlite3",
			MinSimilarity:    bestmatch.DefaultMinSimilarity,
			SeedConversation: true,
			Gemini: GeminiConfig{
				Model: gemini.DefaultModel,
			},
		},

		Server: ServerConfig{
			Addr:         ":5000",
			Name:         "FutureChat Web",
			ReadTimeout:  "10s",
			WriteTimeout: "30s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY only supplies the credential; select gemini with
	// matcher.provider or FUTURECHAT_MATCHER.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Matcher.Gemini.APIKey = key
	}
	if p := os.Getenv("FUTURECHAT_MATCHER"); p != "" {
		c.Matcher.Provider = strings.ToLower(p)
	}
	if path := os.Getenv("FUTURECHAT_MATCHER_DB"); path != "" {
		c.Matcher.DatabasePath = path
	}

	// Knowledge store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Knowledge.DSN = dsn
		c.Knowledge.Backend = store.BackendPostgres
	}
	if b := os.Getenv("FUTURECHAT_KNOWLEDGE_BACKEND"); b != "" {
		c.Knowledge.Backend = store.Backend(strings.ToLower(b))
	}
	if path := os.Getenv("FUTURECHAT_KNOWLEDGE_PATH"); path != "" {
		c.Knowledge.Path = path
	}

	// Engine
	if s := os.Getenv("FUTURECHAT_SEED"); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Engine.Seed = seed
		}
	}
	if d := os.Getenv("FUTURECHAT_EXTERNAL_TIMEOUT"); d != "" {
		c.Engine.ExternalTimeout = d
	}

	// Server and logging
	if addr := os.Getenv("FUTURECHAT_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("FUTURECHAT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetExternalTimeout returns the external matcher timeout as a duration.
func (c *Config) GetExternalTimeout() time.Duration {
	return parseDuration(c.Engine.ExternalTimeout, matcher.DefaultTimeout)
}

// GetReadTimeout returns the HTTP read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.Matcher.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid matcher provider: %s (valid: %v)", c.Matcher.Provider, ValidProviders)
	}
	if c.Matcher.Provider == ProviderGemini && c.Matcher.Gemini.APIKey == "" {
		return fmt.Errorf("gemini matcher selected but no API key configured (set GEMINI_API_KEY)")
	}
	if c.Matcher.Provider == ProviderBestMatch && c.Matcher.DatabasePath == "" {
		return fmt.Errorf("bestmatch matcher requires matcher.database_path")
	}
	if c.Matcher.MinSimilarity < 0 || c.Matcher.MinSimilarity > 1 {
		return fmt.Errorf("matcher.min_similarity must be within [0,1], got %v", c.Matcher.MinSimilarity)
	}

	validBackend := false
	for _, b := range ValidBackends {
		if c.Knowledge.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid knowledge backend: %s (valid: %v)", c.Knowledge.Backend, ValidBackends)
	}
	if c.Knowledge.Backend == store.BackendPostgres && c.Knowledge.DSN == "" {
		return fmt.Errorf("postgres knowledge backend requires knowledge.dsn (or DATABASE_URL)")
	}

	th := c.Engine.Thresholds
	if th.Medium < 0 || th.High > 1 || th.Medium > th.High {
		return fmt.Errorf("invalid tier thresholds: need 0 <= medium <= high <= 1, got medium=%v high=%v", th.Medium, th.High)
	}
	if c.Engine.HistoryCap <= 0 {
		return fmt.Errorf("engine.history_cap must be positive, got %d", c.Engine.HistoryCap)
	}
	for name, d := range map[string]string{
		"engine.external_timeout": c.Engine.ExternalTimeout,
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
	}
	return nil
}
