// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	// Ignored when File is set.
	Output io.Writer

	// File, when set, sends logs to a size-rotated file instead of Output.
	File string

	// MaxSizeMB is the size in megabytes at which File is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Pretty:     false,
		Output:     os.Stderr,
		MaxSizeMB:  100,
		MaxBackups: 3,
	}
}

// Setup configures the global zerolog logger.
// If the log file cannot be prepared, logs fall back to Output and a warning
// is emitted.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	output, outErr := buildOutput(cfg)
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	if outErr != nil {
		logger.Warn().Err(outErr).Str("path", cfg.File).Msg("Log file unavailable, using fallback output")
	}

	return logger
}

// buildOutput returns the configured writer, falling back to Output (or
// stderr) when the log file directory cannot be created.
func buildOutput(cfg Config) (io.Writer, error) {
	fallback := cfg.Output
	if fallback == nil {
		fallback = os.Stderr
	}

	if cfg.File == "" {
		return fallback, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fallback, fmt.Errorf("create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}, nil
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, path, TTL)
//   - Request flow (method, url, status)
//
// Info: Normal operation events
//   - Server startup/shutdown
//   - Store selection
//
// Warn: Warning conditions that don't prevent operation
//   - Cache store errors surfaced to a caller
//   - Log file fallback
//
// Error: Error conditions requiring attention
//   - Upstream fetch failures served as 502
//   - Configuration errors
//
// Context Fields:
//   - component: cache, client, proxy
//   - url: Requested URL
//   - path: Cache entry path
//   - status_code: HTTP status code
//   - duration: Request duration
//   - ttl: Freshness window applied
//   - cache_hit: Boolean indicating cache hit
