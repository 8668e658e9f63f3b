// Package ulogger wraps zerolog with the small, level-keyed interface
// used throughout the node core, so call sites never depend on the
// concrete logging library.
package ulogger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the interface every component logs through. It mirrors the
// printf-style convenience methods the mining loop and stores call.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	New(service string) Logger
}

// ZLogger is the zerolog-backed implementation of Logger.
type ZLogger struct {
	logger  zerolog.Logger
	service string
}

// Options configures a new ZLogger.
type Options struct {
	Level  string // debug, info, warn, error
	Pretty bool
	Output io.Writer
}

// New builds a root ZLogger for the named service.
func New(service string, opts Options) *ZLogger {
	level := parseLevel(opts.Level)

	var w io.Writer = os.Stderr
	if opts.Output != nil {
		w = opts.Output
	}

	if opts.Pretty {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		cw.FormatLevel = func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("[%-5s]", i))
		}
		cw.FormatCaller = func(i interface{}) string {
			return fmt.Sprintf("%-20s", i)
		}
		w = cw
	}

	zl := zerolog.New(w).With().Timestamp().Str("service", service).Logger().Level(level)

	return &ZLogger{logger: zl, service: service}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *ZLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *ZLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *ZLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *ZLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatal().Msg(fmt.Sprintf(format, args...))
}

// New returns a child logger tagged with the given sub-service name.
func (l *ZLogger) New(service string) Logger {
	child := l.logger.With().Str("component", service).Logger()
	return &ZLogger{logger: child, service: service}
}

// TestLogger returns a Logger writing to the given writer at debug level,
// useful for table-driven tests that want to assert on log lines.
func TestLogger(w io.Writer) *ZLogger {
	return New("test", Options{Level: "debug", Output: w})
}
