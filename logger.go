package zkcli

import (
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used by the wrapper.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

type logrusLogger struct {
	l *logrus.Logger
}

// NewLogrusLogger adapts a logrus logger to the Logger interface.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{l: l}
}

func (a *logrusLogger) Infof(format string, args ...any) {
	a.l.Infof(format, args...)
}

func (a *logrusLogger) Warnf(format string, args ...any) {
	a.l.Warnf(format, args...)
}

// nativeLogger adapts Logger to the Printf interface of the native client.
type nativeLogger struct {
	logger Logger
}

func (a nativeLogger) Printf(format string, args ...any) {
	a.logger.Infof(format, args...)
}
