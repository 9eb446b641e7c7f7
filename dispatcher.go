package hook

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	spanKeyEvent      = "hook.event"
	spanKeyApplyID    = "hook.apply_id"
	spanKeyDispatcher = "hook.dispatcher"
	spanKeyCallbacks  = "hook.callbacks"
	spanKeyPriority   = "hook.priority"
	spanKeyIndex      = "hook.index"
)

// Dispatcher keeps callbacks per event name, bucketed by priority, and
// runs them as a sequential transformation chain on Apply.
//
// Add and Apply are safe for concurrent use. Apply works on a snapshot of
// the callbacks taken when it starts; callbacks added afterwards are only
// seen by later calls. Independent Apply calls are not serialized.
type Dispatcher struct {
	id              string
	name            string
	logger          *slog.Logger
	tracingEnabled  bool
	recoveryEnabled bool
	defaultPriority Priority
	middleware      []Middleware
	metrics         *metrics

	mu     sync.RWMutex
	events map[string]*table
}

// New creates a dispatcher with no registered events.
func New(opts ...Option) *Dispatcher {
	o := newOptions(opts...)
	d := &Dispatcher{
		id:              NewID(),
		name:            o.name,
		logger:          o.logger.With("component", "hook>"+o.name),
		tracingEnabled:  o.tracingEnabled,
		recoveryEnabled: o.recoveryEnabled,
		defaultPriority: o.defaultPriority,
		middleware:      o.middleware,
		events:          make(map[string]*table),
	}
	if o.metricsEnabled {
		m, err := newMetrics(o.name)
		if err != nil {
			d.logger.Warn("metrics disabled", "error", err)
		} else {
			d.metrics = m
		}
	}
	return d
}

// ID returns the dispatcher ID
func (d *Dispatcher) ID() string {
	return d.id
}

// Name returns the dispatcher name
func (d *Dispatcher) Name() string {
	return d.name
}

// Logger returns the dispatcher logger
func (d *Dispatcher) Logger() *slog.Logger {
	return d.logger
}

func (d *Dispatcher) String() string {
	return fmt.Sprintf("hook.Dispatcher(%s)", d.name)
}

// Add registers cb for the event name.
//
// The priority is resolved in this order: a priority carried by cb itself
// (see WithPriority and Prioritizer), the first value of priority, and
// finally the dispatcher default (100 unless changed with WithDefaultPriority).
// When cb is a Callbacks sequence each element is registered individually,
// in order, with the same priority argument. A sequence tagged with
// WithPriority is registered the same way, its tag standing in for the
// priority argument; elements carrying their own tag keep it.
//
// Registering the same callback twice is allowed; it will run twice.
func (d *Dispatcher) Add(name string, cb Callback, priority ...Priority) {
	if tagged, ok := cb.(*prioritized); ok {
		if seq, ok := tagged.Callback.(Callbacks); ok {
			cb, priority = seq, []Priority{tagged.priority}
		}
	}
	if seq, ok := cb.(Callbacks); ok {
		for _, c := range seq {
			d.Add(name, c, priority...)
		}
		return
	}
	d.add(name, cb, priority)
}

func (d *Dispatcher) add(name string, cb Callback, priority []Priority) {
	if isNilCallback(cb) {
		d.logger.Warn("ignoring nil callback", "event", name)
		return
	}
	if name == "" {
		d.logger.Warn("registering callback for empty event name")
	}
	p := resolvePriority(cb, priority, d.defaultPriority)

	d.mu.Lock()
	t, ok := d.events[name]
	if !ok {
		t = &table{}
		d.events[name] = t
	}
	t.add(p, cb)
	d.mu.Unlock()

	d.metrics.Registered(name)
	d.logger.Debug("registered callback", "event", name, "priority", float64(p))
}

// AddMap registers every entry of m as if by Add(name, cb) without an
// explicit priority. Entries are registered in sorted key order.
func (d *Dispatcher) AddMap(m map[string]Callback) {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		d.Add(name, m[name])
	}
}

// Apply runs every callback registered for name over args and returns the
// final running value.
//
// A nil args is treated as an empty Args. With no callbacks registered the
// input is returned as is. Otherwise callbacks run strictly one after
// another, lowest priority first and in registration order within a
// priority; each receives the result of the previous one, and a nil result
// becomes an empty Args. The first error ends the chain and is returned
// unchanged, with no partial result.
func (d *Dispatcher) Apply(ctx context.Context, name string, args Args) (Args, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if args == nil {
		args = Args{}
	}

	steps := d.snapshot(name)
	if len(steps) == 0 {
		return args, nil
	}

	applyID := NewID()
	start := time.Now()

	var span trace.Span
	if d.tracingEnabled {
		ctx, span = otel.Tracer(d.name).Start(ctx, fmt.Sprintf("%s.apply", name),
			trace.WithAttributes(
				attribute.String(spanKeyEvent, name),
				attribute.String(spanKeyApplyID, applyID),
				attribute.String(spanKeyDispatcher, d.name),
				attribute.Int(spanKeyCallbacks, len(steps))),
			trace.WithSpanKind(trace.SpanKindInternal))
		defer span.End()
	}

	result, err := d.run(ctx, name, applyID, steps, args)

	d.metrics.Applied(ctx, name, start, err)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		d.logger.Debug("apply failed", "event", name, "apply_id", applyID, "error", err)
		return nil, err
	}
	d.logger.Debug("applied", "event", name, "apply_id", applyID,
		"callbacks", len(steps), "duration", time.Since(start))
	return result, nil
}

// ApplyAsync runs Apply on its own goroutine and returns a future for the
// result. The chain always runs to completion or first failure; use
// Future.Wait with a deadline to stop waiting for it.
func (d *Dispatcher) ApplyAsync(ctx context.Context, name string, args Args) *Future {
	f := newFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(nil, &PanicError{Event: name, Value: r, Stack: debug.Stack()})
			}
		}()
		f.settle(d.Apply(ctx, name, args))
	}()
	return f
}

func (d *Dispatcher) snapshot(name string) []step {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.events[name]; ok {
		return t.snapshot()
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, name, applyID string, steps []step, args Args) (Args, error) {
	for i, s := range steps {
		stepCtx := contextWithStep(ctx, &stepContextData{
			event:      name,
			applyID:    applyID,
			priority:   s.priority,
			index:      i,
			logger:     d.logger,
			dispatcher: d,
		})
		next, err := d.invoke(stepCtx, name, i, s, args)
		if err != nil {
			return nil, err
		}
		args = orEmpty(next)
	}
	return args, nil
}

// invoke runs a single step with middleware, tracing and panic recovery.
func (d *Dispatcher) invoke(ctx context.Context, name string, index int, s step, args Args) (result Args, err error) {
	if d.tracingEnabled {
		var span trace.Span
		ctx, span = otel.Tracer(d.name).Start(ctx, fmt.Sprintf("%s.callback", name),
			trace.WithAttributes(
				attribute.String(spanKeyEvent, name),
				attribute.Float64(spanKeyPriority, float64(s.priority)),
				attribute.Int(spanKeyIndex, index)),
			trace.WithSpanKind(trace.SpanKindInternal))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}()
	}

	if d.recoveryEnabled {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				d.logger.Error("callback panic recovered",
					"event", name,
					"priority", float64(s.priority),
					"index", index,
					"error", r,
					"stack", string(stack),
				)
				d.metrics.Failed(ctx, name)
				result, err = nil, &PanicError{Event: name, Priority: s.priority, Value: r, Stack: stack}
			}
		}()
	}

	d.metrics.Invoked(ctx, name)
	result, err = Chain(d.middleware...)(s.callback).Call(ctx, args)
	if err != nil {
		d.metrics.Failed(ctx, name)
	}
	return result, err
}

// Has reports whether any callback is registered for name.
func (d *Dispatcher) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.events[name]
	return ok
}

// Len returns the number of callbacks registered for name.
func (d *Dispatcher) Len(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.events[name]; ok {
		return t.size
	}
	return 0
}

// Events returns the names of all events with registered callbacks, sorted.
func (d *Dispatcher) Events() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.events))
}

// Priorities returns the distinct priorities registered for name in the
// order Apply visits them.
func (d *Dispatcher) Priorities(name string) []Priority {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.events[name]; ok {
		return t.priorities()
	}
	return nil
}
