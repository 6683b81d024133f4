// Package observability exports traces and metrics over OTLP/HTTP.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/janhq/jan-crm/internal/config"
)

// Shutdown flushes and releases telemetry exporters.
type Shutdown func(ctx context.Context) error

func noop(context.Context) error { return nil }

// Setup installs the global tracer and meter providers requested by cfg. The
// W3C propagator is always installed so inbound trace context is honoured
// even when nothing is exported.
func Setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Shutdown, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if cfg.OTLPEndpoint == "" || (!cfg.EnableTracing && !cfg.EnableMetrics) {
		log.Info().Msg("telemetry export disabled")
		return noop, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
		semconv.ServiceNamespace("crm"),
	))
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}

	var shutdowns []Shutdown
	release := func(ctx context.Context) error {
		errs := make([]error, 0, len(shutdowns))
		for _, shutdown := range shutdowns {
			errs = append(errs, shutdown(ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.EnableTracing {
		shutdown, err := setupTracing(ctx, cfg.OTLPEndpoint, res)
		if err != nil {
			return nil, errors.Join(err, release(ctx))
		}
		shutdowns = append(shutdowns, shutdown)
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("trace export enabled")
	}
	if cfg.EnableMetrics {
		shutdown, err := setupMetrics(ctx, cfg.OTLPEndpoint, res)
		if err != nil {
			return nil, errors.Join(err, release(ctx))
		}
		shutdowns = append(shutdowns, shutdown)
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("metric export enabled")
	}
	return release, nil
}

func setupTracing(ctx context.Context, endpoint string, res *resource.Resource) (Shutdown, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func setupMetrics(ctx context.Context, endpoint string, res *resource.Resource) (Shutdown, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
