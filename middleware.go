package hook

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// Middleware wraps a callback with additional behavior.
type Middleware func(next Callback) Callback

// Chain composes middleware so that the first one is the outermost.
//
//	d := hook.New(hook.WithMiddleware(
//	    hook.RecoveryMiddleware(),
//	    hook.LoggingMiddleware(slog.LevelDebug),
//	))
func Chain(m ...Middleware) Middleware {
	return func(next Callback) Callback {
		for i := len(m) - 1; i >= 0; i-- {
			next = m[i](next)
		}
		return next
	}
}

// LoggingMiddleware logs every callback invocation at the given level using
// the logger found in the context.
func LoggingMiddleware(level slog.Level) Middleware {
	return func(next Callback) Callback {
		return CallbackFunc(func(ctx context.Context, args Args) (Args, error) {
			logger := ContextLogger(ctx)
			start := time.Now()
			result, err := next.Call(ctx, args)
			attrs := []any{
				"event", ContextEventName(ctx),
				"apply_id", ContextApplyID(ctx),
				"priority", float64(ContextPriority(ctx)),
				"index", ContextIndex(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Log(ctx, level, "callback failed", append(attrs, "error", err)...)
				return result, err
			}
			logger.Log(ctx, level, "callback done", append(attrs, "empty_result", result == nil)...)
			return result, nil
		})
	}
}

// RecoveryMiddleware turns a panic inside the wrapped callback into a
// *PanicError. Dispatchers recover on their own unless created with
// WithRecovery(false); this middleware gives the same behavior to callbacks
// used outside a dispatcher, e.g. inside a Callbacks sequence.
func RecoveryMiddleware() Middleware {
	return func(next Callback) Callback {
		return CallbackFunc(func(ctx context.Context, args Args) (result Args, err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ContextLogger(ctx).Error("callback panic recovered",
						"event", ContextEventName(ctx),
						"error", r,
						"stack", string(stack),
					)
					result, err = nil, &PanicError{
						Event:    ContextEventName(ctx),
						Priority: ContextPriority(ctx),
						Value:    r,
						Stack:    stack,
					}
				}
			}()
			return next.Call(ctx, args)
		})
	}
}
