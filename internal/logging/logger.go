// Package logging provides config-driven categorized logging for agentdesk.
// All categories share one zap core; the file sink is rotated by lumberjack.
// The interactive console owns the terminal, so it initialises without a
// console sink and everything goes to the log file.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"agentdesk/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config, flag resolution
	CategoryCatalog   Category = "catalog"   // Skill catalog load
	CategoryDispatch  Category = "dispatch"  // Execution and connectivity dispatch
	CategoryAPI       Category = "api"       // Agent REST calls
	CategoryUI        Category = "ui"        // Console event loop
	CategoryTelemetry Category = "telemetry" // OpenTelemetry providers
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryBoot,
	CategoryCatalog,
	CategoryDispatch,
	CategoryAPI,
	CategoryUI,
	CategoryTelemetry,
}

var (
	root      atomic.Pointer[zap.Logger]
	once      sync.Once
	initErr   error
	cfg       config.LoggingConfig
	loggers   = make(map[Category]*zap.Logger)
	loggersMu sync.RWMutex
)

// Initialize builds the shared logger. console may be nil, in which case only
// the file sink is used. Calling it again without ResetForTest is a no-op.
func Initialize(c config.LoggingConfig, console zapcore.WriteSyncer) error {
	once.Do(func() {
		initErr = initialize(c, console)
	})
	return initErr
}

func initialize(c config.LoggingConfig, console zapcore.WriteSyncer) error {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}
	if c.DebugMode {
		level.SetLevel(zap.DebugLevel)
	}

	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(c.Format), console, level))
	}

	if c.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		// File output is always JSON.
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(newEncoder("json"), fileWriter, level))
	}

	var logger *zap.Logger
	if len(cores) == 0 {
		logger = zap.NewNop()
	} else {
		logger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("agentdesk")
	}

	cfg = c
	root.Store(logger)

	Get(CategoryBoot).Debug("logging initialised",
		zap.String("level", level.String()),
		zap.Bool("debug_mode", c.DebugMode),
		zap.String("file", c.File),
	)
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// L returns the shared root logger, or a no-op logger before Initialize.
func L() *zap.Logger {
	if l := root.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// IsCategoryEnabled reports whether debug output is on for a category.
func IsCategoryEnabled(category Category) bool {
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns (or creates) the logger for the given category. In debug mode a
// category switched off in the config is raised to warn level.
func Get(category Category) *zap.Logger {
	base := root.Load()
	if base == nil {
		return zap.NewNop()
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	l := base.Named(string(category))
	if cfg.DebugMode && !IsCategoryEnabled(category) {
		l = l.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	loggers[category] = l
	return l
}

// WithRequestID returns a category logger carrying a request correlation ID.
func WithRequestID(category Category, requestID string) *zap.Logger {
	return Get(category).With(zap.String("request_id", requestID))
}

// Sync flushes buffered entries. Sync errors from terminals are ignored.
func Sync() error {
	l := root.Load()
	if l == nil {
		return nil
	}
	if err := l.Sync(); err != nil && !isIgnorableSyncError(err) {
		return err
	}
	return nil
}

func isIgnorableSyncError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path == "/dev/stdout" || pathErr.Path == "/dev/stderr"
	}
	return false
}

// ResetForTest drops the shared logger so a test can Initialize again.
func ResetForTest() {
	loggersMu.Lock()
	loggers = make(map[Category]*zap.Logger)
	loggersMu.Unlock()
	root.Store(nil)
	cfg = config.LoggingConfig{}
	initErr = nil
	once = sync.Once{}
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Sugar().Infof(format, args...)
}

// Catalog logs to the catalog category
func Catalog(format string, args ...interface{}) {
	Get(CategoryCatalog).Sugar().Infof(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Sugar().Infof(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{logger: Get(category), op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning if the duration exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn("operation slow",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold),
		)
		return elapsed
	}
	return t.Stop()
}
