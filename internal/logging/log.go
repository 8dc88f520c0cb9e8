// Package logging provides the leveled logger injected through the
// analysis services and adapters.
package logging

import (
	"io"
	"log"
	"os"
)

// Level represents different logging verbosity levels
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to its Level, defaulting to info.
func ParseLevel(name string) Level {
	switch name {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	}
	return LevelInfo
}

// Logger provides leveled logging. Services receive a *Logger at
// construction rather than reaching for a package global, so tests and
// library callers control where output goes.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a logger at the given level writing to w.
func New(level Level, w io.Writer) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// NewFromEnv creates a stderr logger at the level named by LOG_LEVEL.
func NewFromEnv() *Logger {
	return New(ParseLevel(os.Getenv("LOG_LEVEL")), os.Stderr)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelError, io.Discard)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		l.out.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		l.out.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.out.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return l.level
}
