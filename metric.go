package hook

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics records dispatcher activity through OpenTelemetry instruments.
// A nil *metrics is valid and records nothing.
type metrics struct {
	registered metric.Int64Counter
	applied    metric.Int64Counter
	invoked    metric.Int64Counter
	failed     metric.Int64Counter
	duration   metric.Float64Histogram
}

func newMetrics(name string) (*metrics, error) {
	meter := otel.Meter(name)
	m := &metrics{}
	var err error
	if m.registered, err = meter.Int64Counter("hook.registered",
		metric.WithDescription("Total number of callbacks registered")); err != nil {
		return nil, err
	}
	if m.applied, err = meter.Int64Counter("hook.applied",
		metric.WithDescription("Total number of apply calls")); err != nil {
		return nil, err
	}
	if m.invoked, err = meter.Int64Counter("hook.callback.invoked",
		metric.WithDescription("Total number of callback invocations")); err != nil {
		return nil, err
	}
	if m.failed, err = meter.Int64Counter("hook.callback.failed",
		metric.WithDescription("Total number of callbacks that returned an error or panicked")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("hook.apply.duration",
		metric.WithDescription("Duration of apply calls"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return m, nil
}

func eventAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("event", name))
}

func (m *metrics) Registered(name string) {
	if m == nil {
		return
	}
	m.registered.Add(context.Background(), 1, eventAttr(name))
}

func (m *metrics) Invoked(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.invoked.Add(ctx, 1, eventAttr(name))
}

func (m *metrics) Failed(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1, eventAttr(name))
}

// Applied records a finished apply call and its duration
func (m *metrics) Applied(ctx context.Context, name string, start time.Time, err error) {
	if m == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("event", name),
		attribute.Bool("error", err != nil))
	m.applied.Add(ctx, 1, opts)
	m.duration.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), opts)
}
