package hook

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FullNameSeparator is the separator between dispatcher name and event name in full event names.
// Full name format: "<dispatcher_name>://<event_name>"
const FullNameSeparator = "://"

// Global dispatcher registry
var registry sync.Map // map[string]*Dispatcher

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns the process-wide dispatcher used by the package-level
// Add, AddMap and Apply functions. It is registered under DefaultName.
// If a dispatcher was registered under DefaultName before the first call,
// that dispatcher becomes the default, so Apply and ApplyFullName with the
// default name always reach the same instance.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = installDefault(New(WithName(DefaultName)))
	})
	return defaultDispatcher
}

// installDefault registers d unless its name is taken, and returns the
// dispatcher that owns the name.
func installDefault(d *Dispatcher) *Dispatcher {
	actual, loaded := registry.LoadOrStore(d.Name(), d)
	if !loaded {
		return d
	}
	existing := actual.(*Dispatcher)
	if existing != d {
		existing.Logger().Warn("using previously registered dispatcher as default", "id", existing.ID())
	}
	return existing
}

// Register makes d reachable by its name through Lookup and ApplyFullName.
// Returns ErrDispatcherExists if another dispatcher already uses the name.
func Register(d *Dispatcher) error {
	if actual, loaded := registry.LoadOrStore(d.Name(), d); loaded && actual != d {
		return fmt.Errorf("%w: %q", ErrDispatcherExists, d.Name())
	}
	return nil
}

// Unregister removes d from the registry if it is registered under its name.
func Unregister(d *Dispatcher) {
	registry.CompareAndDelete(d.Name(), d)
}

// Lookup returns a registered dispatcher by name, or nil.
func Lookup(name string) *Dispatcher {
	if v, ok := registry.Load(name); ok {
		return v.(*Dispatcher)
	}
	return nil
}

// parseFullName splits a full event name into dispatcher name and event name.
func parseFullName(fullName string) (dispatcherName, eventName string, err error) {
	idx := strings.Index(fullName, FullNameSeparator)
	if idx == -1 {
		return "", "", fmt.Errorf("%w: missing separator %q in %q", ErrInvalidFullName, FullNameSeparator, fullName)
	}
	dispatcherName = fullName[:idx]
	eventName = fullName[idx+len(FullNameSeparator):]
	if dispatcherName == "" {
		return "", "", fmt.Errorf("%w: empty dispatcher name in %q", ErrInvalidFullName, fullName)
	}
	if eventName == "" {
		return "", "", fmt.Errorf("%w: empty event name in %q", ErrInvalidFullName, fullName)
	}
	return dispatcherName, eventName, nil
}

// ApplyFullName applies an event addressed as "<dispatcher_name>://<event_name>".
//
//	args, err := hook.ApplyFullName(ctx, "cms://post.render", hook.Args{"body": body})
func ApplyFullName(ctx context.Context, fullName string, args Args) (Args, error) {
	dispatcherName, eventName, err := parseFullName(fullName)
	if err != nil {
		return nil, err
	}
	d := Lookup(dispatcherName)
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrDispatcherNotFound, dispatcherName)
	}
	return d.Apply(ctx, eventName, args)
}

// Add registers cb on the default dispatcher
func Add(name string, cb Callback, priority ...Priority) {
	Default().Add(name, cb, priority...)
}

// AddMap registers a map of callbacks on the default dispatcher
func AddMap(m map[string]Callback) {
	Default().AddMap(m)
}

// Apply applies an event on the default dispatcher
func Apply(ctx context.Context, name string, args Args) (Args, error) {
	return Default().Apply(ctx, name, args)
}
