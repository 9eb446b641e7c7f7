package hook

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// Future is the eventual result of an asynchronous callback or apply.
// It settles exactly once, either resolved with Args or rejected with an error.
type Future struct {
	done chan struct{}
	once sync.Once
	args Args
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already resolved with args.
func Resolved(args Args) *Future {
	f := newFuture()
	f.settle(args, nil)
	return f
}

// Rejected returns a future already rejected with err.
func Rejected(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// Go runs fn on a new goroutine and returns a future for its result.
// A panic inside fn rejects the future with a *PanicError.
func Go(ctx context.Context, fn func(ctx context.Context) (Args, error)) *Future {
	f := newFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(nil, &PanicError{
					Event:    ContextEventName(ctx),
					Priority: ContextPriority(ctx),
					Value:    r,
					Stack:    debug.Stack(),
				})
			}
		}()
		args, err := fn(ctx)
		f.settle(args, err)
	}()
	return f
}

func (f *Future) settle(args Args, err error) {
	f.once.Do(func() {
		f.args = args
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
// Giving up on ctx does not stop the underlying work.
func (f *Future) Wait(ctx context.Context) (Args, error) {
	select {
	case <-f.done:
		return f.args, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future) String() string {
	if !f.Settled() {
		return "Future(pending)"
	}
	if f.err != nil {
		return fmt.Sprintf("Future(rejected: %v)", f.err)
	}
	return fmt.Sprintf("Future(resolved: %d keys)", len(f.args))
}

// AsyncFunc is a callback that hands back a future instead of a value.
// The chain suspends until the future settles, however long that takes;
// the step context expiring does not end the wait. A nil future counts as
// a nil result and resets the running value to an empty Args.
type AsyncFunc func(ctx context.Context, args Args) *Future

// Call invokes f and waits for the returned future to settle.
func (f AsyncFunc) Call(ctx context.Context, args Args) (Args, error) {
	fut := f(ctx, args)
	if fut == nil {
		return nil, nil
	}
	<-fut.Done()
	return fut.args, fut.err
}
