// Package logging builds lookout's diagnostic zap loggers.
//
// The terminal UI owns stdout, so interactive sessions log to a file. The
// plain tail and serve commands log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[91m"
	yellow = "\033[93m"
	white  = "\033[97m"
	gray   = "\033[90m"
)

// Options configure New.
type Options struct {
	// Path is the log file. Empty writes to Writer, or stderr.
	Path   string
	Writer io.Writer
	// Debug lowers the level from info to debug.
	Debug bool
}

func levelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return gray
	case zapcore.InfoLevel:
		return white
	case zapcore.WarnLevel:
		return yellow
	default:
		return red
	}
}

// consoleEncoder prints "15:04:05 W session poll failed  {...}" lines.
func consoleEncoder(color bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		ts := t.Format("15:04:05")
		if color {
			ts = dim + ts + reset
		}
		enc.AppendString(ts)
	}

	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		letter := strings.ToUpper(level.String())[:1]
		if color {
			letter = levelColor(level) + bold + letter + reset
		}
		enc.AppendString(letter)
	}

	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := strings.TrimSuffix(filepath.Base(caller.File), ".go")
		if color {
			file = dim + file + reset
		}
		enc.AppendString(file)
	}

	return zapcore.NewConsoleEncoder(config)
}

// New returns a logger and a function that flushes and closes its output.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	var (
		sink  zapcore.WriteSyncer
		color bool
		closeFile = func() error { return nil }
	)
	switch {
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opts.Path, err)
		}
		sink = zapcore.AddSync(file)
		closeFile = file.Close
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	default:
		sink = zapcore.Lock(os.Stderr)
		color = isatty.IsTerminal(os.Stderr.Fd())
	}

	core := zapcore.NewCore(consoleEncoder(color), sink, level)
	logger := zap.New(core, zap.AddCaller())
	return logger, func() error {
		_ = logger.Sync()
		return closeFile()
	}, nil
}
