// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr" or "file"
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path when Output is "file"
}

// Init initializes the global zerolog logger. Console outputs are
// human-readable; file output is JSON.
func Init(cfg Config) error {
	level := ParseLevel(cfg.Level)

	var writer io.Writer
	console := true
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		writer = f
		console = false
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)) + ":" + strconv.Itoa(line)
	}

	if console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if level == zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return nil
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
