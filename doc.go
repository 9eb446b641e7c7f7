// Package hook provides priority-ordered transformation hooks.
//
// Callers register callbacks under an event name, each at a priority, and
// later apply the event to an arguments object. Every callback registered
// for the event runs in ascending priority order (registration order within
// one priority) and receives the value returned by the previous callback.
//
// Basic example:
//
//	d := hook.New(hook.WithName("cms"))
//
//	d.Add("post.render", hook.Transform(func(a hook.Args) hook.Args {
//	    a["body"] = markdown(a["body"].(string))
//	    return a
//	}), 10)
//
//	d.Add("post.render", hook.Transform(func(a hook.Args) hook.Args {
//	    a["body"] = strings.TrimSpace(a["body"].(string))
//	    return a
//	}), 5)
//
//	out, err := d.Apply(ctx, "post.render", hook.Args{"body": " # hi "})
//
// Result policy:
//   - A callback returning nil Args resets the running value to an empty Args.
//   - A callback returning an error stops the chain; Apply returns that error unchanged.
//   - Applying an event with no callbacks returns the input unchanged.
//
// Priorities:
// The priority of a callback is, in order: a priority carried by the callback
// (WithPriority, or any type implementing Prioritizer), the priority passed
// to Add, or DefaultPriority (100). Priorities compare numerically, so 2 runs
// before 10.
//
// Asynchronous callbacks:
// AsyncFunc callbacks return a *Future. The chain waits for it to settle
// before the next callback starts. ApplyAsync returns a *Future for the whole
// chain; Future.Wait with a deadline bounds how long the caller waits without
// stopping the chain.
//
// Dispatcher Options:
//   - WithName: name used in logs, spans and metrics. Default is "hook".
//   - WithLogger: set *slog.Logger for the dispatcher.
//   - WithTracing: enable/disable OpenTelemetry tracing. Default is true.
//   - WithMetrics: enable/disable OpenTelemetry metrics. Default is true.
//   - WithRecovery: enable/disable panic recovery in callbacks. Default is true.
//   - WithMiddleware: wrap every callback invocation.
//   - WithDefaultPriority: priority used when none is supplied.
//
// Registry:
// Dispatchers can be registered by name and applied by full name:
//
//	hook.Register(d)
//	out, err := hook.ApplyFullName(ctx, "cms://post.render", args)
//
// Package-level Add, AddMap and Apply use the Default dispatcher.
package hook
