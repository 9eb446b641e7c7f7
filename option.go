package hook

import (
	"log/slog"
)

// DefaultName is used for dispatchers created without WithName.
var DefaultName = "hook"

// options holds configuration for a dispatcher (unexported)
type options struct {
	name            string
	logger          *slog.Logger
	tracingEnabled  bool
	metricsEnabled  bool
	recoveryEnabled bool
	defaultPriority Priority
	middleware      []Middleware
}

// Option option function for dispatcher configuration
type Option func(*options)

// WithName sets the dispatcher name used in logs, spans and metrics
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets a custom logger for the dispatcher
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracing enables/disables OpenTelemetry tracing of apply calls
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracingEnabled = enabled
	}
}

// WithMetrics enables/disables OpenTelemetry metrics
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metricsEnabled = enabled
	}
}

// WithRecovery enables/disables panic recovery in callbacks.
// With recovery enabled a panicking callback rejects the apply with a
// *PanicError; disabled, the panic propagates to the caller of Apply.
func WithRecovery(enabled bool) Option {
	return func(o *options) {
		o.recoveryEnabled = enabled
	}
}

// WithDefaultPriority changes the priority used when neither the callback
// nor the caller supplies one.
func WithDefaultPriority(p Priority) Option {
	return func(o *options) {
		o.defaultPriority = p
	}
}

// WithMiddleware wraps every callback at invocation time.
// The first middleware is the outermost.
func WithMiddleware(m ...Middleware) Option {
	return func(o *options) {
		for _, mw := range m {
			if mw != nil {
				o.middleware = append(o.middleware, mw)
			}
		}
	}
}

// newOptions creates options with defaults and applies provided options
func newOptions(opts ...Option) *options {
	o := &options{
		name:            DefaultName,
		logger:          slog.Default(),
		tracingEnabled:  true,
		metricsEnabled:  true,
		recoveryEnabled: true,
		defaultPriority: DefaultPriority,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
