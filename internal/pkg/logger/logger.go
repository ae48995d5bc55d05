// Package logger wraps a process-wide zap logger behind ctx-first helpers.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global = zap.Must(zap.NewProduction()).Sugar()
)

// Init replaces the process logger. Pass development=true for console output.
func Init(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	global = l.Sugar()
	return nil
}

func log() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Infof(_ context.Context, format string, args ...any) {
	log().Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...any) {
	log().Warnf(format, args...)
}

func Errorf(_ context.Context, format string, args ...any) {
	log().Errorf(format, args...)
}

func Fatal(_ context.Context, args ...any) {
	log().Fatal(args...)
}

func Sync() {
	_ = log().Sync()
}
