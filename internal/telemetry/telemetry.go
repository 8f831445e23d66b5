// Package telemetry installs the process tracer provider. Finished spans are written
// to the zerolog logger, so traces are readable without a collector.
package telemetry

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects whether spans are recorded and which share of root traces is sampled.
type Config struct {
	Enabled     bool
	SampleRatio float64
}

// Setup installs a global tracer provider when cfg.Enabled and returns its shutdown
// function, which flushes pending spans. Disabled tracing keeps the no-op provider.
func Setup(cfg Config, logger zerolog.Logger) func(context.Context) error {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(NewLogExporter(logger)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// LogExporter is a SpanExporter that logs each finished span as one info-level event.
type LogExporter struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	stopped bool
}

// NewLogExporter returns an exporter writing to logger.
func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter. Spans arriving after Shutdown are dropped.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil
	}
	for _, s := range spans {
		sc := s.SpanContext()
		ev := e.logger.Info().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Str("span", s.Name()).
			Dur("duration", s.EndTime().Sub(s.StartTime())).
			Str("status", s.Status().Code.String())
		if p := s.Parent(); p.IsValid() {
			ev = ev.Str("parent_id", p.SpanID().String())
		}
		for _, kv := range s.Attributes() {
			ev = ev.Str(string(kv.Key), kv.Value.Emit())
		}
		ev.Msg("span finished")
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	return nil
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)
