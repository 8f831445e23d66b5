package toolbox

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Middleware wraps a Tool with cross-cutting behavior such as logging or recovery.
type Middleware func(Tool) Tool

// WithLogging returns a middleware that logs each execution at debug level and failures
// at warn (ClientError) or error (anything else). A logger stored in ctx via zerolog's
// WithContext takes precedence so request-scoped fields are carried.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next Tool) Tool {
		return &middlewareTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics and returns SystemError.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// WithToolDefaults returns a middleware that fills the metadata a tool leaves unset:
// timeout, tags and version. WithDangerous marks every wrapped tool. WithStrict has no
// effect here because the schema is fixed when the tool is built.
func WithToolDefaults(opts ...ToolOption) Middleware {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(next Tool) Tool {
		return &defaultsTool{toolBase: toolBase{next: next}, opts: o}
	}
}

// WithTracing returns a middleware that records one span per execution, named "tool <name>".
// Failed executions set an error status; the span is a child of any span already in ctx.
func WithTracing(tracer trace.Tracer) Middleware {
	return func(next Tool) Tool {
		return &tracingTool{toolBase: toolBase{next: next}, tracer: tracer}
	}
}

// toolBase delegates Tool and ToolMetadata to the wrapped Tool; used by middleware wrappers.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string               { return b.next.Name() }
func (b *toolBase) Description() string        { return b.next.Description() }
func (b *toolBase) Parameters() map[string]any { return b.next.Parameters() }

func (b *toolBase) Timeout() time.Duration {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Timeout()
	}
	return 0
}
func (b *toolBase) Tags() []string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Tags()
	}
	return nil
}
func (b *toolBase) Version() string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Version()
	}
	return ""
}
func (b *toolBase) IsDangerous() bool {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.IsDangerous()
	}
	return false
}

type middlewareTool struct {
	toolBase
	logger zerolog.Logger
}

func (m *middlewareTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	logger := m.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = *l
	}
	start := time.Now()
	res, err := m.next.Execute(ctx, args)
	dur := time.Since(start)
	if err != nil {
		ev := logger.Error()
		if IsClientError(err) {
			ev = logger.Warn()
		}
		ev.Str("tool", m.next.Name()).Dur("duration", dur).Err(err).Msg("tool failed")
		return nil, err
	}
	logger.Debug().Str("tool", m.next.Name()).Dur("duration", dur).Int("bytes", len(res)).Msg("tool executed")
	return res, nil
}

type tracingTool struct {
	toolBase
	tracer trace.Tracer
}

func (t *tracingTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	name := t.next.Name()
	ctx, span := t.tracer.Start(ctx, "tool "+name, trace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.Int("tool.args_bytes", len(args)),
	))
	defer span.End()

	res, err := t.next.Execute(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("tool.client_error", IsClientError(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int("tool.result_bytes", len(res)))
	return res, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Execute(ctx context.Context, args []byte) (res []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return r.next.Execute(ctx, args)
}

type defaultsTool struct {
	toolBase
	opts toolOptions
}

func (t *defaultsTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	return t.next.Execute(ctx, args)
}

func (t *defaultsTool) Timeout() time.Duration {
	if d := t.toolBase.Timeout(); d > 0 {
		return d
	}
	return t.opts.timeout
}

func (t *defaultsTool) Tags() []string {
	if tags := t.toolBase.Tags(); len(tags) > 0 {
		return tags
	}
	return append([]string(nil), t.opts.tags...)
}

func (t *defaultsTool) Version() string {
	if v := t.toolBase.Version(); v != "" {
		return v
	}
	return t.opts.version
}

func (t *defaultsTool) IsDangerous() bool { return t.opts.dangerous || t.toolBase.IsDangerous() }

// Use stores the given middlewares and reapplies them from scratch to all registered tools (onion order:
// first middleware is outermost). Tools registered after Use will also get these middlewares applied.
// Calling Use multiple times replaces the middleware chain and rewraps from raw tools, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		t := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		r.tools[name] = t
	}
}
