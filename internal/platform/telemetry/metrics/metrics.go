package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// InstrumentationName identifies the meter used by the gaze service.
const InstrumentationName = "github.com/louisbranch/wit/gaze"

// Recorder records gaze pipeline metrics. A nil Recorder is valid and drops
// every measurement.
type Recorder struct {
	samples  metric.Int64Counter
	rejected metric.Int64Counter
	sessions metric.Int64UpDownCounter
	latency  metric.Float64Histogram
}

// NewRecorder creates the gaze instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(InstrumentationName)
	}
	samples, err := meter.Int64Counter("wit.gaze.samples",
		metric.WithDescription("Gaze samples run through the pipeline."))
	if err != nil {
		return nil, fmt.Errorf("create samples counter: %w", err)
	}
	rejected, err := meter.Int64Counter("wit.gaze.samples.rejected",
		metric.WithDescription("Inbound frames rejected before reaching the pipeline."))
	if err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	sessions, err := meter.Int64UpDownCounter("wit.gaze.sessions.active",
		metric.WithDescription("Open gaze WebSocket sessions."))
	if err != nil {
		return nil, fmt.Errorf("create sessions counter: %w", err)
	}
	latency, err := meter.Float64Histogram("wit.gaze.sample.duration",
		metric.WithDescription("Time spent processing one gaze sample."),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create latency histogram: %w", err)
	}
	return &Recorder{
		samples:  samples,
		rejected: rejected,
		sessions: sessions,
		latency:  latency,
	}, nil
}

// Global builds a Recorder on the process-wide meter provider, falling back
// to a no-op recorder if instrument creation fails.
func Global() *Recorder {
	r, err := NewRecorder(otel.Meter(InstrumentationName))
	if err != nil {
		r, _ = NewRecorder(nil)
	}
	return r
}

// SampleProcessed records one accepted sample.
func (r *Recorder) SampleProcessed(ctx context.Context, fixation bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.samples.Add(ctx, 1, metric.WithAttributes(attribute.Bool("fixation", fixation)))
	r.latency.Record(ctx, float64(elapsed)/float64(time.Millisecond))
}

// FrameRejected records a rejected frame with its error code.
func (r *Recorder) FrameRejected(ctx context.Context, code string) {
	if r == nil {
		return
	}
	r.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// SessionOpened increments the active session gauge.
func (r *Recorder) SessionOpened(ctx context.Context) {
	if r == nil {
		return
	}
	r.sessions.Add(ctx, 1)
}

// SessionClosed decrements the active session gauge.
func (r *Recorder) SessionClosed(ctx context.Context) {
	if r == nil {
		return
	}
	r.sessions.Add(ctx, -1)
}
