package hook

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tagMiddleware(tag string, trail *[]string) Middleware {
	return func(next Callback) Callback {
		return CallbackFunc(func(ctx context.Context, a Args) (Args, error) {
			*trail = append(*trail, tag+">")
			out, err := next.Call(ctx, a)
			*trail = append(*trail, "<"+tag)
			return out, err
		})
	}
}

func TestChainOrder(t *testing.T) {
	var trail []string
	cb := Chain(tagMiddleware("a", &trail), tagMiddleware("b", &trail))(Effect(func(context.Context, Args) error {
		trail = append(trail, "cb")
		return nil
	}))
	if _, err := cb.Call(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a>", "b>", "cb", "<b", "<a"}, trail); diff != "" {
		t.Errorf("unexpected trail (-want +got):\n%s", diff)
	}
}

func TestDispatcherMiddleware(t *testing.T) {
	var trail []string
	d := TestDispatcher(WithMiddleware(tagMiddleware("m", &trail), nil))
	d.Add("e", Effect(func(context.Context, Args) error {
		trail = append(trail, "one")
		return nil
	}))
	d.Add("e", Effect(func(context.Context, Args) error {
		trail = append(trail, "two")
		return nil
	}))
	if _, err := d.Apply(context.Background(), "e", nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	want := []string{"m>", "one", "<m", "m>", "two", "<m"}
	if diff := cmp.Diff(want, trail); diff != "" {
		t.Errorf("unexpected trail (-want +got):\n%s", diff)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := TestDispatcher(WithLogger(logger), WithMiddleware(LoggingMiddleware(slog.LevelInfo)))
	d.Add("logged", Transform(func(a Args) Args { return a }), 4)
	d.Add("logged", CallbackFunc(func(context.Context, Args) (Args, error) {
		return nil, errors.New("broken")
	}), 5)

	if _, err := d.Apply(context.Background(), "logged", nil); err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	for _, want := range []string{"callback done", "callback failed", "event=logged", "priority=4", "error=broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	cb := RecoveryMiddleware()(CallbackFunc(func(context.Context, Args) (Args, error) {
		panic("boom")
	}))
	_, err := cb.Call(context.Background(), nil)
	if !IsPanic(err) {
		t.Errorf("expected panic error, got %v", err)
	}

	// Inside a dispatcher without recovery, the middleware still stops the panic.
	d := TestDispatcher(WithMiddleware(RecoveryMiddleware()))
	d.Add("e", CallbackFunc(func(context.Context, Args) (Args, error) {
		panic("boom")
	}), 12)
	_, err = d.Apply(context.Background(), "e", nil)
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected panic error, got %v", err)
	}
	if pe.Event != "e" || pe.Priority != 12 {
		t.Errorf("unexpected panic error %+v", pe)
	}
}
