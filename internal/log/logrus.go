package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, format and destinations for the process logger.
type Config struct {
	Level  string      `mapstructure:"level" yaml:"level"`   // trace..fatal, default info
	Format string      `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   *FileConfig `mapstructure:"file" yaml:"file"`     // optional rotating file sink
}

// FileConfig configures the rotating file sink.
type FileConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // MB
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`   // days
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

type logrusLogger struct {
	entry *logrus.Entry
}

func newLogrusLogger(cfg *Config) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := io.Writer(os.Stderr)
	if cfg.File != nil && cfg.File.Path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSize,
			MaxAge:     cfg.File.MaxAge,
			MaxBackups: cfg.File.MaxBackups,
			Compress:   cfg.File.Compress,
		})
	}
	l.SetOutput(out)

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(args ...interface{})            { l.entry.Debug(args...) }
func (l *logrusLogger) Debugf(f string, args ...interface{}) { l.entry.Debugf(f, args...) }
func (l *logrusLogger) Info(args ...interface{})             { l.entry.Info(args...) }
func (l *logrusLogger) Infof(f string, args ...interface{})  { l.entry.Infof(f, args...) }
func (l *logrusLogger) Warn(args ...interface{})             { l.entry.Warn(args...) }
func (l *logrusLogger) Warnf(f string, args ...interface{})  { l.entry.Warnf(f, args...) }
func (l *logrusLogger) Error(args ...interface{})            { l.entry.Error(args...) }
func (l *logrusLogger) Errorf(f string, args ...interface{}) { l.entry.Errorf(f, args...) }
func (l *logrusLogger) Fatal(args ...interface{})            { l.entry.Fatal(args...) }
func (l *logrusLogger) Fatalf(f string, args ...interface{}) { l.entry.Fatalf(f, args...) }

func (l *logrusLogger) WithField(field string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(field, value)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
