package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings.
// CARTKIT_LOG_JSON=1 selects JSON output, the same variable the CLI config
// reads into log.json.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	return NewLoggerWithFormat(name, level, os.Getenv("CARTKIT_LOG_JSON") == "1", output)
}

// NewLoggerWithFormat is NewLogger with the output format chosen by the
// caller instead of the environment.
func NewLoggerWithFormat(name string, level string, jsonFormat bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter("🎮 ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv("CARTKIT_LOG_LEVEL")
	if level == "" {
		level = "warn" // Default to warn for production safety
	}
	return level
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
