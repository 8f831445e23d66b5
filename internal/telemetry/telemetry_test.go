package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLogExporter(t *testing.T) {
	var buf bytes.Buffer
	exp := NewLogExporter(zerolog.New(&buf))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := tp.Tracer("test").Start(context.Background(), "POST /api/tools/dev/hash")
	_, child := tp.Tracer("test").Start(ctx, "tool dev/hash")
	child.SetAttributes(attribute.String("tool.name", "dev/hash"), attribute.Int("tool.args_bytes", 12))
	child.SetStatus(codes.Error, "unsupported algorithm")
	child.End()
	parent.End()

	out := buf.String()
	assert.Contains(t, out, `"span":"tool dev/hash"`)
	assert.Contains(t, out, `"tool.name":"dev/hash"`)
	assert.Contains(t, out, `"tool.args_bytes":"12"`)
	assert.Contains(t, out, `"status":"Error"`)
	assert.Contains(t, out, `"parent_id":"`+parent.SpanContext().SpanID().String()+`"`)
	assert.Contains(t, out, `"trace_id":"`+parent.SpanContext().TraceID().String()+`"`)
}

func TestLogExporter_DropsAfterShutdown(t *testing.T) {
	var buf bytes.Buffer
	exp := NewLogExporter(zerolog.New(&buf))
	require.NoError(t, exp.Shutdown(context.Background()))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	_, span := tp.Tracer("test").Start(context.Background(), "late")
	span.End()
	assert.Empty(t, buf.String())
}

func TestSetup(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown := Setup(Config{}, zerolog.Nop())
	require.NoError(t, shutdown(context.Background()))
	assert.Same(t, prev, otel.GetTracerProvider(), "disabled tracing installs nothing")

	var buf bytes.Buffer
	shutdown = Setup(Config{Enabled: true, SampleRatio: 1}, zerolog.New(&buf))
	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)

	_, span := otel.Tracer("toolboxd").Start(context.Background(), "tool misc/uuid")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"span":"tool misc/uuid"`)
}
