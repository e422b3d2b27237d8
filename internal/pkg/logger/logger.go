package logger

import (
	"context"

	"go.uber.org/zap"
)

var global *zap.SugaredLogger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	global = l.Sugar()
}

// SetLogger swaps the process-wide logger. Meant for tests and for main to
// install a development config.
func SetLogger(l *zap.Logger) {
	global = l.Sugar()
}

// Context is accepted on every helper so call sites don't change if
// per-request fields are ever attached to it.

func Info(_ context.Context, args ...interface{}) {
	global.Info(args...)
}

func Infof(_ context.Context, format string, args ...interface{}) {
	global.Infof(format, args...)
}

func Debugf(_ context.Context, format string, args ...interface{}) {
	global.Debugf(format, args...)
}

func Warnf(_ context.Context, format string, args ...interface{}) {
	global.Warnf(format, args...)
}

func Error(_ context.Context, args ...interface{}) {
	global.Error(args...)
}

func Errorf(_ context.Context, format string, args ...interface{}) {
	global.Errorf(format, args...)
}

func Fatal(_ context.Context, args ...interface{}) {
	global.Fatal(args...)
}

func Fatalf(_ context.Context, format string, args ...interface{}) {
	global.Fatalf(format, args...)
}
