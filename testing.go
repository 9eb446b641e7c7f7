package hook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rbaliyan/hook/payload"
)

// TestDispatcher creates a new dispatcher configured for testing.
// Has recovery/tracing/metrics disabled for simpler testing.
func TestDispatcher(opts ...Option) *Dispatcher {
	return New(append([]Option{
		WithName("test-hook"),
		WithRecovery(false),
		WithTracing(false),
		WithMetrics(false),
	}, opts...)...)
}

// RecordedStep is one callback invocation captured by a Recorder.
// Input and Output are encoded snapshots, so later in-place changes to the
// argument maps do not affect them.
type RecordedStep struct {
	Event       string
	ApplyID     string
	Priority    Priority
	Index       int
	ContentType string
	Input       []byte
	Output      []byte
	Err         error
	Timestamp   time.Time

	codec payload.Codec
}

// DecodeInput decodes the arguments the callback received into v
func (s RecordedStep) DecodeInput(v any) error {
	c, err := s.decoder()
	if err != nil {
		return err
	}
	return c.Decode(s.Input, v)
}

// DecodeOutput decodes the arguments the callback returned into v
func (s RecordedStep) DecodeOutput(v any) error {
	c, err := s.decoder()
	if err != nil {
		return err
	}
	return c.Decode(s.Output, v)
}

// decoder prefers the codec the step was recorded with, then the registry.
func (s RecordedStep) decoder() (payload.Codec, error) {
	if s.codec != nil {
		return s.codec, nil
	}
	if c, ok := payload.Get(s.ContentType); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: no codec registered for %q", payload.ErrDecodeFailure, s.ContentType)
}

// Recorder captures every callback invocation it is installed on.
// Useful for testing that a chain runs in the expected order with the
// expected intermediate values.
//
//	rec := hook.NewRecorder(payload.JSON{})
//	d := hook.New(hook.WithMiddleware(rec.Middleware()))
type Recorder struct {
	codec payload.Codec
	mu    sync.Mutex
	steps []RecordedStep
}

// NewRecorder creates a recorder that snapshots arguments with codec.
// A nil codec means payload.Default().
func NewRecorder(codec payload.Codec) *Recorder {
	if codec == nil {
		codec = payload.Default()
	}
	return &Recorder{codec: codec}
}

// Middleware returns the middleware that feeds the recorder
func (r *Recorder) Middleware() Middleware {
	return func(next Callback) Callback {
		return CallbackFunc(func(ctx context.Context, args Args) (Args, error) {
			rec := RecordedStep{
				Event:       ContextEventName(ctx),
				ApplyID:     ContextApplyID(ctx),
				Priority:    ContextPriority(ctx),
				Index:       ContextIndex(ctx),
				ContentType: r.codec.ContentType(),
				Timestamp:   time.Now(),
				Input:       r.encode(ctx, args),
				codec:       r.codec,
			}
			result, err := next.Call(ctx, args)
			rec.Err = err
			if err == nil {
				rec.Output = r.encode(ctx, result)
			}
			r.mu.Lock()
			r.steps = append(r.steps, rec)
			r.mu.Unlock()
			return result, err
		})
	}
}

func (r *Recorder) encode(ctx context.Context, args Args) []byte {
	data, err := r.codec.Encode(map[string]any(args))
	if err != nil {
		ContextLogger(ctx).Warn("recorder snapshot failed", "event", ContextEventName(ctx), "error", err)
		return nil
	}
	return data
}

// Steps returns a copy of all recorded steps
func (r *Recorder) Steps() []RecordedStep {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]RecordedStep, len(r.steps))
	copy(result, r.steps)
	return result
}

// StepsFor returns recorded steps for a specific event
func (r *Recorder) StepsFor(event string) []RecordedStep {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []RecordedStep
	for _, s := range r.steps {
		if s.Event == event {
			result = append(result, s)
		}
	}
	return result
}

// Count returns the number of recorded steps
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Reset clears all recorded steps
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.steps = nil
	r.mu.Unlock()
}
