package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/pkg/errors"

	"github.com/weegigs/wee-indicator-go/support"
	"github.com/weegigs/wee-indicator-go/wi"
)

func exporter(ctx context.Context, cfg *support.Config) (trace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", "none":
		return nil, nil
	case "console":
		return wi.ConsoleExporter()
	case "honeycomb":
		return wi.HoneycombExporter(ctx, cfg.HoneycombTeam, cfg.HoneycombDataset)
	case "jaeger":
		return wi.JaegerExporter(cfg.JaegerEndpoint)
	default:
		return nil, errors.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

// tracing installs the configured exporter as the global tracer provider.
func tracing(ctx context.Context, cfg *support.Config) (func(context.Context) error, error) {
	exp, err := exporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if exp == nil {
		return func(context.Context) error { return nil }, nil
	}

	provider := wi.TracerProvider(exp)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
