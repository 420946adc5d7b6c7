package logger

import (
	"github.com/sirupsen/logrus"
)

// Logger is the narrow logging surface the rest of the tool depends on.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New creates a logrus-backed logger at the given level. Unparseable
// levels fall back to info.
func New(level string) Logger {
	l := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *logrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields)}
}

// Nop returns a logger that discards everything, for tests.
func Nop() Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}
