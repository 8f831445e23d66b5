package main

import (
	"go.opentelemetry.io/otel"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/buildinfo"
	"github.com/skosovsky/toolbox/internal/config"
	"github.com/skosovsky/toolbox/internal/logging"
	"github.com/skosovsky/toolbox/internal/metrics"
	"github.com/skosovsky/toolbox/toolkits/aitool"
	"github.com/skosovsky/toolbox/toolkits/codetool"
	"github.com/skosovsky/toolbox/toolkits/colortool"
	"github.com/skosovsky/toolbox/toolkits/csstool"
	"github.com/skosovsky/toolbox/toolkits/devtool"
	"github.com/skosovsky/toolbox/toolkits/gentool"
	"github.com/skosovsky/toolbox/toolkits/mathtool"
	"github.com/skosovsky/toolbox/toolkits/seotool"
	"github.com/skosovsky/toolbox/toolkits/texttool"
	"github.com/skosovsky/toolbox/toolkits/unittool"
)

const tracerName = "github.com/skosovsky/toolbox"

// buildRegistry registers every toolkit behind the tracing and logging middleware.
// Tools without a version of their own carry the build version. Recovery sits innermost
// so a panic reaches the span and the log as a SystemError.
// The AI tools are always listed; without an API key they answer NOT_CONFIGURED.
func buildRegistry(cfg *config.Config) *toolbox.Registry {
	reg := toolbox.NewRegistry(
		toolbox.WithDefaultTimeout(cfg.Registry.Timeout),
		toolbox.WithMaxConcurrency(cfg.Registry.MaxConcurrency),
		toolbox.WithOnAfterExecute(metrics.ObserveToolResult),
	)
	reg.Use(
		toolbox.WithToolDefaults(toolbox.WithVersion(buildinfo.Get().Version)),
		toolbox.WithTracing(otel.Tracer(tracerName)),
		toolbox.WithLogging(logging.Logger()),
		toolbox.WithRecovery(),
	)

	reg.Register(texttool.Tools()...)
	reg.Register(colortool.Tools()...)
	reg.Register(csstool.Tools()...)
	reg.Register(gentool.Tools()...)
	reg.Register(unittool.Tools()...)
	reg.Register(mathtool.Tools()...)
	reg.Register(devtool.Tools()...)
	reg.Register(seotool.Tools()...)
	reg.Register(codetool.Tools()...)
	reg.Register(aitool.Tools(aitool.NewProvider(aitool.Config{
		APIKey:     cfg.AI.Key(),
		BaseURL:    cfg.AI.BaseURL,
		TextModel:  cfg.AI.TextModel,
		ImageModel: cfg.AI.ImageModel,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: 2,
	}))...)
	return reg
}
