package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is json or console.
	Format string `yaml:"format"`

	// File is rotated by lumberjack.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`

	// DebugMode lowers every enabled category to debug level.
	DebugMode bool `yaml:"debug_mode"`

	// Categories holds per-category toggles, honoured in debug mode only.
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IsCategoryEnabled returns whether debug output is enabled for a category.
// Outside debug mode every category logs at Level.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
