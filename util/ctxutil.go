package util

import (
	"context"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
)

type ctxKey string

const loggerKey ctxKey = "logger"

func WithLogger(ctx context.Context, lg logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, lg)
}

// GetLogger returns the logger attached to the context, or a fresh
// info-level logger when none is attached.
func GetLogger(ctx context.Context) logger.Logger {
	if lg, ok := ctx.Value(loggerKey).(logger.Logger); ok {
		return lg
	}
	return logger.New(logger.LogLevelInfo)
}

// SleepContext sleeps for the given duration or until the context is canceled.
func SleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoopUntilCancelled runs the given function in a loop until the context is
// canceled.
func LoopUntilCancelled(ctx context.Context, f func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			f()
		}
	}
}
