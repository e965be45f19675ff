package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Logger is the interface the assembler, serializer and coalescer log
// through. DefaultLogger implements it on top of the package-level
// Debugf/Infof/Errorf below; tests substitute their own to assert on emitted
// lines.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithPrefix(prefix string) Logger
}

// DefaultLogger logs through the standard library's log package, gated by
// the package-level log level (QUICPACKER_LOG_LEVEL).
type DefaultLogger struct {
	prefix string
}

var _ Logger = &DefaultLogger{}

func (l *DefaultLogger) Debugf(format string, args ...interface{}) { Debugf(l.withPrefix(format), args...) }
func (l *DefaultLogger) Infof(format string, args ...interface{})  { Infof(l.withPrefix(format), args...) }
func (l *DefaultLogger) Errorf(format string, args ...interface{}) { Errorf(l.withPrefix(format), args...) }

func (l *DefaultLogger) WithPrefix(prefix string) Logger {
	if l.prefix != "" {
		prefix = l.prefix + " " + prefix
	}
	return &DefaultLogger{prefix: prefix}
}

func (l *DefaultLogger) withPrefix(format string) string {
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

// LogLevel of this package
type LogLevel uint8

const (
	logEnv = "QUICPACKER_LOG_LEVEL"

	// LogLevelNothing disables
	LogLevelNothing LogLevel = 0
	// LogLevelError enables err logs
	LogLevelError LogLevel = 1
	// LogLevelInfo enables info logs (e.g. packets)
	LogLevelInfo LogLevel = 2
	// LogLevelDebug enables debug logs (e.g. packet contents)
	LogLevelDebug LogLevel = 3
)

var (
	logLevel   = LogLevelNothing
	timeFormat = ""
)

// SetLogLevel sets the log level
func SetLogLevel(level LogLevel) {
	logLevel = level
}

// SetLogTimeFormat sets the format of the timestamp
// an empty string disables the logging of timestamps
func SetLogTimeFormat(format string) {
	log.SetFlags(0) // disable timestamp logging done by the log package
	timeFormat = format
}

// Debugf logs something
func Debugf(format string, args ...interface{}) {
	if logLevel == LogLevelDebug {
		logMessage(format, args...)
	}
}

// Infof logs something
func Infof(format string, args ...interface{}) {
	if logLevel >= LogLevelInfo {
		logMessage(format, args...)
	}
}

// Errorf logs something
func Errorf(format string, args ...interface{}) {
	if logLevel >= LogLevelError {
		logMessage(format, args...)
	}
}

func logMessage(format string, args ...interface{}) {
	if len(timeFormat) > 0 {
		log.Printf(time.Now().Format(timeFormat)+" "+format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// Debug returns true if the log level is LogLevelDebug
func Debug() bool {
	return logLevel == LogLevelDebug
}

func init() {
	readLoggingEnv()
}

func readLoggingEnv() {
	env := os.Getenv(logEnv)
	if env == "" {
		return
	}
	level, err := strconv.Atoi(env)
	if err != nil {
		return
	}
	logLevel = LogLevel(level)
}
