// Package logger builds the zerolog loggers shared by the server and crmctl.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	global = zerolog.New(console(os.Stdout)).With().Timestamp().Logger()
)

// GetLogger returns the process logger installed by the last successful New.
// Before that it is an info-level console logger.
func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// New builds a stdout logger for level and format ("json" or "console") and
// installs it as the process logger.
func New(level, format string) (zerolog.Logger, error) {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter is New writing to w.
func NewWithWriter(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	var out io.Writer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		out = w
	case "console", "text", "":
		out = console(w)
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log format %q", format)
	}

	log := zerolog.New(out).Level(lvl).With().Timestamp().Logger()

	mu.Lock()
	global = log
	mu.Unlock()
	return log, nil
}

func console(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
}
