package config

import "futurechat/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // json, console
	File       string          `yaml:"file" json:"file,omitempty"`             // optional log file
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// ToLogging converts to the logging package's config. verbose forces the
// debug level.
func (c LoggingConfig) ToLogging(verbose bool) logging.Config {
	level := c.Level
	if verbose {
		level = "debug"
	}
	return logging.Config{
		Level:      level,
		Format:     c.Format,
		File:       c.File,
		Stderr:     c.File == "" || verbose,
		Categories: c.Categories,
	}
}
