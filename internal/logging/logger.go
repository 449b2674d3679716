// Package logging provides categorized structured logging across every
// InfeRDF component, backed by go.uber.org/zap.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inferdf/inferdf/internal/config"
)

// Category names one InfeRDF component's log stream.
type Category string

const (
	CategoryVocab    Category = "vocab"    // IRI/literal interning
	CategoryInterp   Category = "interp"   // Interpretation merges, non-equality
	CategoryDataset  Category = "dataset"  // Graph inserts, indexing
	CategoryMatcher  Category = "matcher"  // Pattern matching / join evaluation
	CategoryRule     Category = "rule"     // Rule engine, semi-naive saturation
	CategoryClassify Category = "classify" // Color-refinement classification
	CategoryCodec    Category = "codec"    // Module encode/decode
	CategoryCompose  Category = "compose"  // Cross-module composition
	CategoryCLI      Category = "cli"      // cmd/inferdf driver
)

// Log levels, ordered so a numeric comparison decides whether a call
// should be emitted.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

var (
	mu       sync.RWMutex
	loggers  = make(map[Category]*Logger)
	base     *zap.Logger
	logLevel = LevelInfo
	logDir   string
	jsonForm bool
	initDone bool
	runID    string
)

// Initialize configures the package-wide zap backend from cfg.Logging.
// Safe to call more than once; the most recent call wins.
func Initialize(cfg config.LoggingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	switch cfg.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	jsonForm = cfg.Format == "json"
	logDir = cfg.Dir

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("logging: create log directory: %w", err)
		}
	}

	zapLevel := zapLevelFor(logLevel)
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if jsonForm {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapLevel)
	runID = uuid.NewString()
	base = zap.New(core).With(zap.String("run_id", runID))
	loggers = make(map[Category]*Logger)
	initDone = true

	base.Sugar().Infow("logging initialized", "level", cfg.Level, "format", cfg.Format, "dir", cfg.Dir)
	return nil
}

// RunID returns the identifier stamped on every log line emitted since the
// last Initialize call, letting a caller correlate one CLI invocation's
// stderr and per-category file output.
func RunID() string {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return runID
}

func zapLevelFor(level int) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func ensureInitialized() {
	if !initDone {
		_ = Initialize(config.LoggingConfig{Level: "info", Format: "console"})
	}
}

// Logger is a category-scoped structured logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

// Get returns (or creates) the logger for category. When cfg.Dir is set,
// each category also writes to its own file under that directory in
// addition to the shared stderr core.
func Get(category Category) *Logger {
	ensureInitialized()

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

	named := base.Named(string(category))
	l := &Logger{category: category, sugar: named.Sugar()}

	if logDir != "" {
		date := time.Now().Format("2006-01-02")
		path := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", date, category))
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			l.file = f
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(f),
				zapLevelFor(logLevel),
			).With([]zapcore.Field{zap.String("run_id", runID)})
			combined := zap.New(zapcore.NewTee(base.Core(), fileCore)).Named(string(category))
			l.sugar = combined.Sugar()
		} else {
			fmt.Fprintf(os.Stderr, "[logging] could not open log file %s: %v\n", path, err)
		}
	}

	loggers[category] = l
	return l
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warnf logs a warn-level message.
func (l *Logger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a child logger carrying the given key/value pairs on
// every subsequent call.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(kv...), file: l.file}
}

// CloseAll flushes and closes every category's log file. Call once at
// process shutdown.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer measures the duration of one operation within a category.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing operation op within category.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop ends the timer and logs the elapsed duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).sugar.Debugw(t.op+" completed", "duration", elapsed)
	return elapsed
}

// StopWithThreshold logs at warn level if elapsed exceeds threshold,
// otherwise at debug level.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).sugar.Warnw(t.op+" exceeded threshold", "duration", elapsed, "threshold", threshold)
	} else {
		Get(t.category).sugar.Debugw(t.op+" completed", "duration", elapsed)
	}
	return elapsed
}
