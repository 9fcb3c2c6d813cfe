package logging

import (
	"io"
	"log"
	"os"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// LogLevelFromString translates a string representation of a log level to its
// enum value, defaulting to InfoLevel for unknown strings
func LogLevelFromString(level string) int {
	switch level {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Logger filters log messages by level before handing them to a standard
// library logger. The zero value is unusable; use CreateLogger or Discard.
type Logger struct {
	level int
	l     *log.Logger
}

// CreateLogger returns a Logger writing messages at or above the given level
// to out
func CreateLogger(level int, out io.Writer) *Logger {
	return &Logger{level: level, l: log.New(out, "", log.LstdFlags)}
}

// Default returns a Logger writing InfoLevel and above to standard error
func Default() *Logger {
	return CreateLogger(InfoLevel, os.Stderr)
}

// Discard returns a Logger which drops every message. Useful in tests.
func Discard() *Logger {
	return CreateLogger(FatalLevel+1, io.Discard)
}

func (lg *Logger) logf(level int, format string, args ...interface{}) {
	if level < lg.level {
		return
	}
	lg.l.Printf("["+LogLevelToString(level)+"] "+format, args...)
}

// Tracef logs a message at TraceLevel
func (lg *Logger) Tracef(format string, args ...interface{}) {
	lg.logf(TraceLevel, format, args...)
}

// Debugf logs a message at DebugLevel
func (lg *Logger) Debugf(format string, args ...interface{}) {
	lg.logf(DebugLevel, format, args...)
}

// Infof logs a message at InfoLevel
func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.logf(InfoLevel, format, args...)
}

// Warnf logs a message at WarnLevel
func (lg *Logger) Warnf(format string, args ...interface{}) {
	lg.logf(WarnLevel, format, args...)
}

// Errorf logs a message at ErrorLevel
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.logf(ErrorLevel, format, args...)
}

// Fatalf logs a message at FatalLevel and exits
func (lg *Logger) Fatalf(format string, args ...interface{}) {
	lg.l.Fatalf("[FATAL] "+format, args...)
}
