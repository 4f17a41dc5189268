package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sp500-dashboard/src/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	baseMu sync.RWMutex
	base   = newBase()
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	return l
}

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name string
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance tagged with a component name
func NewLogger(name string) *Logger {
	return &Logger{name: name}
}

// -----------------------------------------------------------------------------

// Configure applies level, format and output settings to every logger.
func Configure(cfg models.MLogConfig) error {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var formatter logrus.Formatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	default:
		formatter = &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	}

	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		out = os.Stderr
	case "file":
		dir := cfg.Dir
		if dir == "" {
			dir = "logs"
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "dashboard.log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		if level >= logrus.DebugLevel {
			out = io.MultiWriter(writer, os.Stdout)
		} else {
			out = writer
		}
	default:
		out = os.Stdout
	}

	baseMu.Lock()
	defer baseMu.Unlock()
	base.SetLevel(level)
	base.SetFormatter(formatter)
	base.SetOutput(out)
	return nil
}

// -----------------------------------------------------------------------------

// SetOutput redirects all loggers, mainly for tests.
func SetOutput(w io.Writer) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base.SetOutput(w)
}

// -----------------------------------------------------------------------------

func (l *Logger) entry() *logrus.Entry {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return base.WithField("component", l.name)
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry().Debugf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.entry().Fatalf(format, args...)
}
