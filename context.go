package hook

import (
	"context"
	"log/slog"
)

const (
	stepContextKey contextKey = iota
)

// contextKey
type contextKey int

type stepContextData struct {
	event      string
	applyID    string
	priority   Priority
	index      int
	logger     *slog.Logger
	dispatcher *Dispatcher
}

func stepData(ctx context.Context) (*stepContextData, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(stepContextKey).(*stepContextData)
	return s, ok
}

// ContextEventName get the name of the event being applied
func ContextEventName(ctx context.Context) string {
	if s, ok := stepData(ctx); ok {
		return s.event
	}
	return ""
}

// ContextApplyID get the unique id of the running apply call
func ContextApplyID(ctx context.Context) string {
	if s, ok := stepData(ctx); ok {
		return s.applyID
	}
	return ""
}

// ContextPriority get the priority of the running callback
func ContextPriority(ctx context.Context) Priority {
	if s, ok := stepData(ctx); ok {
		return s.priority
	}
	return 0
}

// ContextIndex get the position of the running callback within the whole chain
func ContextIndex(ctx context.Context) int {
	if s, ok := stepData(ctx); ok {
		return s.index
	}
	return -1
}

// ContextLogger get the dispatcher logger, slog.Default() outside of a chain
func ContextLogger(ctx context.Context) *slog.Logger {
	if s, ok := stepData(ctx); ok && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// ContextDispatcher get the dispatcher running the chain
func ContextDispatcher(ctx context.Context) *Dispatcher {
	if s, ok := stepData(ctx); ok {
		return s.dispatcher
	}
	return nil
}

func contextWithStep(ctx context.Context, data *stepContextData) context.Context {
	return context.WithValue(ctx, stepContextKey, data)
}
