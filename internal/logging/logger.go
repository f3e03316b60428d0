// Package logging provides config-driven categorized logging for futurechat.
// Every subsystem logs through a Category so individual pipeline stages can be
// silenced or turned up independently. Output is structured via zap; before
// Initialize is called every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and shutdown
	CategoryEngine    Category = "engine"    // Per-turn pipeline
	CategoryIntent    Category = "intent"    // Intent classification
	CategoryKnowledge Category = "knowledge" // Knowledge matching and teach
	CategoryContext   Category = "context"   // Context tracker decisions
	CategoryMatcher   Category = "matcher"   // External matcher calls
	CategoryStore     Category = "store"     // Knowledge store persistence
	CategoryServer    Category = "server"    // HTTP surface
	CategoryStyle     Category = "style"     // Reply decoration
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // optional log file
	Stderr     bool            // also write to stderr
	Categories map[string]bool // per-category toggles, missing = enabled
}

// Logger is a category-scoped logger.
type Logger struct {
	category Category
	zl       *zap.Logger
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	current Config
	loggers = make(map[Category]*Logger)
)

// Initialize builds the root zap logger from cfg and resets category loggers.
func Initialize(cfg Config) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = nil
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}
	if cfg.Stderr || len(zc.OutputPaths) == 0 {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	zl, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(zl, cfg)

	Boot("logging initialized level=%s format=%s file=%s", level, zc.Encoding, cfg.File)
	return nil
}

// Use installs an already-built zap logger. Tests pass an observer core here.
func Use(zl *zap.Logger, cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = zl
	current = cfg
	loggers = make(map[Category]*Logger)
}

// Reset returns logging to the no-op state.
func Reset() {
	Use(zap.NewNop(), Config{})
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if current.Categories == nil {
		return true
	}
	enabled, exists := current.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	zl := zap.NewNop()
	if categoryEnabled(category) {
		zl = root.Named(string(category))
	}
	l := &Logger{category: category, zl: zl, sugar: zl.Sugar()}
	loggers[category] = l
	return l
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger { return l.zl }

// With returns a structured logger carrying extra fields.
func (l *Logger) With(fields ...zap.Field) *zap.Logger {
	return l.zl.With(fields...)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries (call at shutdown)
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Engine(format string, args ...interface{})      { Get(CategoryEngine).Info(format, args...) }
func EngineDebug(format string, args ...interface{}) { Get(CategoryEngine).Debug(format, args...) }
func EngineWarn(format string, args ...interface{})  { Get(CategoryEngine).Warn(format, args...) }

func IntentDebug(format string, args ...interface{}) { Get(CategoryIntent).Debug(format, args...) }

func Knowledge(format string, args ...interface{})      { Get(CategoryKnowledge).Info(format, args...) }
func KnowledgeDebug(format string, args ...interface{}) { Get(CategoryKnowledge).Debug(format, args...) }

func ContextDebug(format string, args ...interface{}) { Get(CategoryContext).Debug(format, args...) }

func Matcher(format string, args ...interface{})      { Get(CategoryMatcher).Info(format, args...) }
func MatcherDebug(format string, args ...interface{}) { Get(CategoryMatcher).Debug(format, args...) }
func MatcherWarn(format string, args ...interface{})  { Get(CategoryMatcher).Warn(format, args...) }

func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreWarn(format string, args ...interface{})  { Get(CategoryStore).Warn(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

func Server(format string, args ...interface{})      { Get(CategoryServer).Info(format, args...) }
func ServerWarn(format string, args ...interface{})  { Get(CategoryServer).Warn(format, args...) }
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Error(format, args...) }

// =============================================================================
// TIMERS
// =============================================================================

// Timer measures one operation.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
