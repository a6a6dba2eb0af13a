// Package telemetry exports per-run traces over OTLP. Every agent run becomes
// a root span; each tool use is recorded as a span event on it.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "heatseeker-agent"
	serviceVersion = "1.0.0"
)

// Config holds the configuration for telemetry.
type Config struct {
	Enabled bool
	// Endpoint is the OTLP/HTTP collector endpoint, host:port. Empty uses the
	// exporter's default (localhost:4318).
	Endpoint string
}

// Provider manages the tracer provider and the root span of the current run.
type Provider struct {
	enabled  bool
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer

	runSpan trace.Span
}

// NewProvider creates a telemetry provider. When disabled, all recording
// methods are no-ops and Shutdown does nothing.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		log.Printf("Telemetry disabled")
		return &Provider{enabled: false, tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	}

	var exporterOpts []otlptracehttp.Option
	if config.Endpoint != "" {
		exporterOpts = append(exporterOpts, otlptracehttp.WithEndpoint(config.Endpoint), otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	log.Printf("Telemetry enabled, exporting to %s", config.Endpoint)
	return &Provider{
		enabled:  true,
		provider: provider,
		tracer:   provider.Tracer(serviceName),
	}, nil
}

// StartRun opens the root span for a run and returns the context carrying it
// together with the run's ID. EndRun must be called with the run's outcome.
func (p *Provider) StartRun(ctx context.Context, gameURL string, maxIterations int) (context.Context, string) {
	runID := NewRunID()
	ctx, span := p.tracer.Start(ctx, "agent.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("game.url", gameURL),
		attribute.Int("run.max_iterations", maxIterations),
	))
	p.runSpan = span
	return ctx, runID
}

// EndRun records the terminal state on the run span and closes it.
func (p *Provider) EndRun(status string, iterations int, runErr error) {
	if p.runSpan == nil {
		return
	}
	p.runSpan.SetAttributes(
		attribute.String("run.status", status),
		attribute.Int("run.iterations", iterations),
	)
	if runErr != nil {
		p.runSpan.RecordError(runErr)
	}
	p.runSpan.End()
	p.runSpan = nil
}

// ToolUse carries the telemetry for one executed tool call.
type ToolUse struct {
	ToolName    string
	InputSize   int
	ActionCount int
}

// RecordToolUse records a tool use event on the current span.
func (p *Provider) RecordToolUse(ctx context.Context, toolUse ToolUse) {
	span := trace.SpanFromContext(ctx)
	if p.runSpan != nil && !span.SpanContext().IsValid() {
		span = p.runSpan
	}
	span.AddEvent("tool_use", trace.WithAttributes(
		attribute.String("tool.name", toolUse.ToolName),
		attribute.Int("tool.input_size", toolUse.InputSize),
		attribute.Int("tool.action_count", toolUse.ActionCount),
	))
}

// Shutdown flushes pending spans and releases the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.enabled || p.provider == nil {
		return nil
	}
	if err := p.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down telemetry provider: %w", err)
	}
	return nil
}

// NewRunID generates a new run UUID.
func NewRunID() string {
	return uuid.New().String()
}
