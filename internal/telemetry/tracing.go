// Package telemetry wires OpenTelemetry tracing and Prometheus metrics for
// render passes and uploads.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "showcase"

// Span names.
const (
	SpanRenderPass = "render.pass"
	SpanParse      = "dataset.parse"
	SpanExport     = "dataset.export"
)

// TraceConfig selects the span exporter.
type TraceConfig struct {
	// OTLPEndpoint is host:port of an OTLP/HTTP collector. Falls back to
	// OTEL_EXPORTER_OTLP_ENDPOINT when empty.
	OTLPEndpoint string
	ServiceName  string
	// Stdout writes spans as JSON to StdoutWriter (os.Stderr when nil).
	Stdout       bool
	StdoutWriter io.Writer
	Insecure     bool
}

// Provider owns the tracer provider for the process.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer oteltrace.Tracer
}

// NewProvider creates a tracer provider. With no endpoint and Stdout off it
// returns a provider whose spans are dropped.
func NewProvider(ctx context.Context, cfg TraceConfig) (*Provider, error) {
	endpoint := cfg.OTLPEndpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "showcase"
	}

	var exporter sdktrace.SpanExporter
	switch {
	case endpoint != "":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		exporter = exp
	case cfg.Stdout:
		w := cfg.StdoutWriter
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp
	default:
		return &Provider{tracer: noop.NewTracerProvider().Tracer(tracerName)}, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Provider{sdk: sdk, tracer: sdk.Tracer(tracerName)}, nil
}

// NewProviderWith wraps an existing SDK provider. Tests use it with a span
// recorder.
func NewProviderWith(sdk *sdktrace.TracerProvider) *Provider {
	return &Provider{sdk: sdk, tracer: sdk.Tracer(tracerName)}
}

// Tracer returns the process tracer. A nil Provider yields a no-op tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(tracerName)
	}
	return p.tracer
}

// Start begins a span with showcase.* attributes.
func (p *Provider) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, oteltrace.Span) {
	return p.Tracer().Start(ctx, name, oteltrace.WithAttributes(Attributes(attrs)...))
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// Attributes maps plain keys into the showcase.* namespace.
func Attributes(m map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(m))
	for k, v := range m {
		var key string
		switch k {
		case "tab":
			key = "showcase.tab"
		case "host":
			key = "showcase.host"
		case "file":
			key = "showcase.upload.filename"
		case "format":
			key = "showcase.upload.format"
		default:
			key = "showcase." + k
		}
		attrs = append(attrs, attribute.String(key, v))
	}
	return attrs
}
