package utils

import (
	"context"
	"runtime/debug"

	"golang-idea-radar/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers from panics so one bad task cannot take the process down.
func GoSafe(log *logger.Logger, fn func()) {
	go RunSafe(log, fn)
}

// RunSafe calls fn and logs a recovered panic with its stack.
func RunSafe(log *logger.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil && log != nil {
			log.Error("Recovered from panic",
				logger.Field("panic", r),
				logger.StringField("stack", string(debug.Stack())))
		}
	}()
	fn()
}

// ShouldContinue reports whether work may continue under ctx.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		if log != nil {
			log.Warn("Context done, stop processing", logger.ErrorField(ctx.Err()))
		}
		return false
	default:
		return true
	}
}
