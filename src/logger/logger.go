package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// -----------------------------------------------------------------------------

// Logger provides named, leveled logging on top of phuslu/log.
type Logger struct {
	name   string
	logger *log.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a Logger writing to stdout at the given level
// ("DEBUG", "INFO", "WARNING", "ERROR"; empty means INFO).
func NewLogger(level string, name string) *Logger {
	return NewLoggerWithWriter(level, name, os.Stdout)
}

// -----------------------------------------------------------------------------

// NewLoggerWithWriter is NewLogger with an explicit destination.
func NewLoggerWithWriter(level string, name string, w io.Writer) *Logger {
	return &Logger{
		name: name,
		logger: &log.Logger{
			Level:      parseLevel(level),
			TimeFormat: "2006-01-02 15:04:05",
			Writer:     &log.IOWriter{Writer: w},
		},
	}
}

// -----------------------------------------------------------------------------

// Named derives a logger for a sub-component sharing level and writer.
// A nil Logger stays nil; all methods are no-ops on nil.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{name: name, logger: l.logger}
}

// -----------------------------------------------------------------------------

// Name returns the component name attached to every entry.
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// -----------------------------------------------------------------------------

func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARNING", "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Debug().Str("component", l.name).Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Warn().Str("component", l.name).Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Info().Str("component", l.name).Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Error().Str("component", l.name).Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	if l != nil {
		l.logger.Error().Str("component", l.name).Str("severity", "CRITICAL").Msg(fmt.Sprintf(format, args...))
	}
	os.Exit(1)
}
