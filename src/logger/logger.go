// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// Printf and Println are meant for user-facing progress lines; the CLI
// implementation prints them without a level tag. The leveled methods are
// filtered by the level set with SetLevel.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// Debugf logs a debug message.
	Debugf(format string, v ...any)
	// Infof logs an informational message.
	Infof(format string, v ...any)
	// Warnf logs a warning.
	Warnf(format string, v ...any)
	// Errorf logs an error.
	Errorf(format string, v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
	// SetLevel sets the minimum level for leveled messages.
	SetLevel(level string) error
}

// syncWriter serializes writes and allows the destination to be swapped
// while other goroutines are logging.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) set(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// base holds the zerolog logger shared by both implementations.
type base struct {
	mu  sync.RWMutex
	zl  zerolog.Logger
	out *syncWriter
}

func (b *base) logger() *zerolog.Logger {
	b.mu.RLock()
	defer b.mu.RUnlock()
	zl := b.zl
	return &zl
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (b *base) Printf(format string, v ...any) { b.logger().Log().Msgf(format, v...) }

// Println prints a log message built with fmt.Sprint semantics.
func (b *base) Println(v ...any) { b.logger().Log().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n")) }

// Debugf logs a debug message.
func (b *base) Debugf(format string, v ...any) { b.logger().Debug().Msgf(format, v...) }

// Infof logs an informational message.
func (b *base) Infof(format string, v ...any) { b.logger().Info().Msgf(format, v...) }

// Warnf logs a warning.
func (b *base) Warnf(format string, v ...any) { b.logger().Warn().Msgf(format, v...) }

// Errorf logs an error.
func (b *base) Errorf(format string, v ...any) { b.logger().Error().Msgf(format, v...) }

// SetOutput sets the output destination. A nil writer discards output.
func (b *base) SetOutput(w io.Writer) { b.out.set(w) }

// SetLevel sets the minimum level for leveled messages ("debug", "info",
// "warn", "error", "disabled").
func (b *base) SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.zl = b.zl.Level(lvl)
	b.mu.Unlock()
	return nil
}

// ParseLevel converts a level name into a zerolog level. An empty name means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logger: invalid level %q: %w", level, err)
	}
	return lvl, nil
}

// CLILogger implements Logger with human-readable console output.
// It's designed for command-line use: no timestamps, upper-case level tags,
// and unleveled lines printed as they are.
//
// CLILogger is safe for concurrent use by multiple goroutines.
type CLILogger struct{ base }

// NewCLILogger creates a new CLI logger writing to stderr at info level.
func NewCLILogger() *CLILogger {
	out := &syncWriter{w: os.Stderr}
	cw := zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
		FormatLevel: func(i any) string {
			s, ok := i.(string)
			if !ok || s == "" {
				return ""
			}
			return strings.ToUpper(s) + ":"
		},
	}
	return &CLILogger{base{
		zl:  zerolog.New(cw).Level(zerolog.InfoLevel),
		out: out,
	}}
}

// StructuredLogger implements Logger with JSON lines output.
// It is used by the [MCP] server where stdout carries the protocol, so it is
// silent by default and must be pointed at a separate destination.
//
// StructuredLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type StructuredLogger struct{ base }

// NewStructuredLogger creates a JSON logger. With silent set, every message
// is suppressed until SetLevel is called.
func NewStructuredLogger(writer io.Writer, silent bool) *StructuredLogger {
	if writer == nil {
		writer = io.Discard
	}
	out := &syncWriter{w: writer}
	zl := zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if silent {
		zl = zl.Level(zerolog.Disabled)
	}
	return &StructuredLogger{base{zl: zl, out: out}}
}

// Printf logs a message at info level so every JSON line carries a level.
func (s *StructuredLogger) Printf(format string, v ...any) { s.logger().Info().Msgf(format, v...) }

// Println logs a message at info level so every JSON line carries a level.
func (s *StructuredLogger) Println(v ...any) {
	s.logger().Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Nop returns a logger that discards everything. It is the default for
// library code that was not handed a logger.
func Nop() Logger {
	return &StructuredLogger{base{
		zl:  zerolog.Nop(),
		out: &syncWriter{w: io.Discard},
	}}
}
