// Package logger builds the hclog loggers used by the dispatch layer, the HTTP server and the CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options controls logger construction.
type Options struct {
	Name    string
	Level   string
	Verbose bool
	Quiet   bool
	JSON    bool
	Output  io.Writer
}

// New creates a named logger. Verbose forces debug level, Quiet discards everything.
func New(opts Options) hclog.Logger {
	if opts.Quiet {
		return hclog.New(&hclog.LoggerOptions{
			Name:   opts.Name,
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = hclog.Debug
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Output:     output,
		Level:      level,
		JSONFormat: opts.JSON,
	})
}

// ParseLevel maps a LOG_LEVEL style string to an hclog level, defaulting to info.
func ParseLevel(level string) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return hclog.Trace
	case "debug":
		return hclog.Debug
	case "warn", "warning":
		return hclog.Warn
	case "error":
		return hclog.Error
	case "off":
		return hclog.Off
	default:
		return hclog.Info
	}
}

// Discard returns a logger that drops all output. Used by tests and library callers.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
