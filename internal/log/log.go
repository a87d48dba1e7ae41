// Package log provides the process-wide logger facade. The composition
// core never logs; logging belongs to the CLI and the injection loop.
package log

import (
	"sync"
)

// Logger is the subset of logging behaviour the tool depends on, so the
// backing implementation stays swappable.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
}

var (
	once   sync.Once
	logger Logger = newLogrusLogger(&Config{Level: "info"})
)

// GetLogger returns the process logger. Before Init it logs to stderr at
// info level.
func GetLogger() Logger {
	return logger
}

// Init configures the process logger once; later calls are no-ops.
func Init(cfg *Config) {
	once.Do(func() {
		logger = newLogrusLogger(cfg)
	})
}
