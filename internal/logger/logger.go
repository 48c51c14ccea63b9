// Package logger provides the audit log used while processing repositories.
//
// Loggers are immutable: GetPrefixed and GetIndented derive a new logger and
// never change the one they are called on, so a parent can be shared between
// goroutines without locking.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const prefixField = "prefix"

// Logger is a line oriented message sink with hierarchical prefixes
type Logger interface {
	// Log writes a single message line
	Log(message string)

	// GetPrefixed returns a logger which prepends prefix to the current prefix
	GetPrefixed(prefix string) Logger

	// GetIndented returns a logger indented by two spaces per level
	GetIndented(level int) Logger
}

// Indented is GetIndented with the default level of one
func Indented(l Logger) Logger {
	return l.GetIndented(1)
}

func indent(level int) string {
	if level < 0 {
		level = 0
	}
	return strings.Repeat("  ", level)
}

type noopLogger struct{}

// NewNoopLogger returns a logger which discards everything
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Log(string) {}

func (noopLogger) GetPrefixed(string) Logger {
	return noopLogger{}
}

func (noopLogger) GetIndented(int) Logger {
	return noopLogger{}
}

// logrusLogger writes through a logrus logger configured with LineFormatter.
// The base logger serializes writes, prefix is never mutated.
type logrusLogger struct {
	base   *logrus.Logger
	prefix string
}

// New wraps a logrus logger. The logger's formatter is replaced with
// LineFormatter and its level is raised to at least Info.
func New(base *logrus.Logger) Logger {
	base.SetFormatter(&LineFormatter{})
	if base.GetLevel() < logrus.InfoLevel {
		base.SetLevel(logrus.InfoLevel)
	}
	return &logrusLogger{base: base}
}

// NewStderrLogger returns a logger writing to standard error
func NewStderrLogger() Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	return New(base)
}

func (l *logrusLogger) Log(message string) {
	l.base.WithField(prefixField, l.prefix).Info(message)
}

func (l *logrusLogger) GetPrefixed(prefix string) Logger {
	return &logrusLogger{base: l.base, prefix: l.prefix + prefix}
}

func (l *logrusLogger) GetIndented(level int) Logger {
	return l.GetPrefixed(indent(level))
}
