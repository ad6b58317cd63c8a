package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[log.Logger]

// New creates a stderr logger at level: debug, info, warn or error.
// Anything else means info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger that writes plain lines to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: parseLevel(level)})
}

// NewInteractive creates the logger used by long-running commands such as
// watch and serve. Lines carry a timestamp and the program prefix.
// It always writes to stderr so stdout stays free for the language server protocol.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "luaufmt",
		Level:           log.InfoLevel,
	})
}

func parseLevel(level string) log.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		return log.WarnLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil || parsed < log.DebugLevel || parsed > log.ErrorLevel {
		return log.InfoLevel
	}
	return parsed
}

// Default returns the process-wide logger, creating an info-level stderr
// logger on first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
