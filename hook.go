package hook

import (
	"cmp"
	"context"
)

// DefaultPriority is used when neither the callback nor the caller supplies a priority.
const DefaultPriority Priority = 100

// Args is the arguments object threaded through a chain of callbacks.
// Callbacks replace it by returning a new value; returning nil replaces it
// with an empty Args.
type Args map[string]any

// Priority orders callbacks registered for the same event.
// Lower values run earlier.
type Priority float64

// Compare orders priorities numerically ascending. NaN sorts before every
// other value so that a table containing it still has a total order.
func (p Priority) Compare(other Priority) int {
	return cmp.Compare(p, other)
}

// Callback transforms the running arguments of an event.
//
// A callback returning (nil, nil) resets the running value to an empty Args.
// A non-nil error stops the chain and is returned from Apply unchanged.
type Callback interface {
	Call(ctx context.Context, args Args) (Args, error)
}

// CallbackFunc adapts a plain function to Callback.
type CallbackFunc func(ctx context.Context, args Args) (Args, error)

// Call calls f(ctx, args).
func (f CallbackFunc) Call(ctx context.Context, args Args) (Args, error) {
	return f(ctx, args)
}

// Prioritizer is implemented by callbacks that carry their own priority.
// A carried priority always wins over the priority passed to Add.
type Prioritizer interface {
	Priority() Priority
}

type prioritized struct {
	Callback
	priority Priority
}

func (p *prioritized) Priority() Priority {
	return p.priority
}

// WithPriority tags cb with a fixed priority.
//
// Tagging a Callbacks sequence tags each of its elements when it is added,
// so the elements still register individually.
//
//	d.AddMap(map[string]hook.Callback{
//	    "user.save": hook.WithPriority(validate, 5),
//	})
func WithPriority(cb Callback, p Priority) Callback {
	if cb == nil {
		return nil
	}
	// Re-tagging replaces the old tag instead of stacking wrappers.
	if inner, ok := cb.(*prioritized); ok {
		cb = inner.Callback
	}
	return &prioritized{Callback: cb, priority: p}
}

// Callbacks is a sequence of callbacks.
//
// Add registers each element individually under the same event, in order.
// Used directly as a Callback it runs the elements one after another with
// the same result policy as Apply.
type Callbacks []Callback

// Call runs every callback in order, feeding each result into the next.
func (cs Callbacks) Call(ctx context.Context, args Args) (Args, error) {
	for _, cb := range cs {
		if cb == nil {
			continue
		}
		next, err := cb.Call(ctx, args)
		if err != nil {
			return nil, err
		}
		args = orEmpty(next)
	}
	return args, nil
}

// Clone returns a shallow copy of the arguments.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// orEmpty implements the falsy-result policy: a nil result becomes an empty Args.
func orEmpty(a Args) Args {
	if a == nil {
		return Args{}
	}
	return a
}

// resolvePriority picks the callback's own tag, then the explicit value, then def.
func resolvePriority(cb Callback, explicit []Priority, def Priority) Priority {
	if p, ok := cb.(Prioritizer); ok {
		return p.Priority()
	}
	if len(explicit) > 0 {
		return explicit[0]
	}
	return def
}

// Transform adapts a transformation that cannot fail.
func Transform(fn func(args Args) Args) Callback {
	return CallbackFunc(func(_ context.Context, args Args) (Args, error) {
		return fn(args), nil
	})
}

// Effect adapts a side effect. The running value passes through unchanged
// unless fn returns an error.
func Effect(fn func(ctx context.Context, args Args) error) Callback {
	return CallbackFunc(func(ctx context.Context, args Args) (Args, error) {
		if err := fn(ctx, args); err != nil {
			return nil, err
		}
		return args, nil
	})
}
