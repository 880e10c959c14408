// Package logging wraps log/slog with a console + weekly rotating file setup
// and package-level helpers used across the medicines API.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures the global logger
type Options struct {
	LogDir         string // empty logs to the console only
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
}

type LoggingService struct {
	Logger *slog.Logger
	closer io.Closer
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with info level and 4 weeks retention
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{LogDir: logDir, Level: "info", RetentionWeeks: 4})
}

// InitLoggerWithOptions initializes the global logger and makes it the slog default
func InitLoggerWithOptions(opts Options) {
	if DefaultLoggingService != nil {
		Close()
	}

	logger, closer := setupLogger(opts)
	DefaultLoggingService = &LoggingService{Logger: logger, closer: closer}
	slog.SetDefault(logger)
}

// Close releases the log file, if any
func Close() {
	if DefaultLoggingService == nil || DefaultLoggingService.closer == nil {
		return
	}
	if err := DefaultLoggingService.closer.Close(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("Failed to close log file", "error", err)
	}
	DefaultLoggingService.closer = nil
}

func setupLogger(opts Options) (*slog.Logger, io.Closer) {
	level := parseLogLevel(opts.Level)
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if opts.LogDir == "" {
		return slog.New(consoleHandler), nil
	}

	console := slog.New(consoleHandler)
	if err := os.MkdirAll(opts.LogDir, 0755); err != nil {
		console.Error("Failed to create logs directory, logging to console only", "error", err)
		return console, nil
	}

	retention := opts.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}

	rotating := NewRotatingLoggerWithSizeLimit(opts.LogDir, retention, maxSize)
	rotating.startCleanup()

	// Console gets text format, file gets JSON format for better parsing
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rotating
}

// parseLogLevel converts a LOG_LEVEL value, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logger(fallbackLevel slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: fallbackLevel}))
	}
	return DefaultLoggingService.Logger
}

// Logger returns the global logger, or a console logger when uninitialized
func Logger() *slog.Logger {
	return logger(slog.LevelInfo)
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger(slog.LevelDebug).Debug(msg, args...)
}
