// Package observability wires distributed tracing export. Traces go to any
// OTLP/HTTP collector; the default configuration targets Axiom's ingest
// endpoint with bearer auth and a dataset header, matching the deployment
// this service reports to.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"vise/internal/platform/config"
)

// TracerProvider wraps the OpenTelemetry tracer for the service.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracerProvider creates a tracer provider from config. Disabled tracing
// returns a provider backed by a noop tracer so callers never nil-check.
func NewTracerProvider(cfg config.TracingConfig, environment string) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{
			tracer: noop.NewTracerProvider().Tracer("vise"),
		}, nil
	}

	if cfg.SampleRate <= 0 || cfg.SampleRate > 1.0 {
		cfg.SampleRate = 1.0
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if cfg.Token != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{
			"Authorization":   "Bearer " + cfg.Token,
			"X-Axiom-Dataset": cfg.Dataset,
		}))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
	)

	otel.SetTracerProvider(provider)

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer("vise"),
	}, nil
}

// Shutdown flushes buffered spans and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// StartSpan starts a new span with the given attributes.
func (tp *TracerProvider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tp.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Common span names.
const (
	SpanClientRegister  = "vise.client.register"
	SpanPurchaseProcess = "vise.purchase.process"
)

// Common attribute keys.
const (
	AttrClientID  = "vise.client_id"
	AttrCardType  = "vise.card_type"
	AttrCountry   = "vise.country"
	AttrAmount    = "vise.amount"
	AttrDiscount  = "vise.discount"
	AttrBenefit   = "vise.benefit"
	AttrRejection = "vise.rejection_reason"
)

// ClientAttrs creates attributes for client registration spans.
func ClientAttrs(cardType, country string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCardType, cardType),
		attribute.String(AttrCountry, country),
	}
}

// PurchaseAttrs creates attributes for purchase processing spans.
func PurchaseAttrs(clientID int, amount float64, country string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrClientID, clientID),
		attribute.Float64(AttrAmount, amount),
		attribute.String(AttrCountry, country),
	}
}
