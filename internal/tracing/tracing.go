// Package tracing sets up OpenTelemetry for the example binaries and
// holds the span helpers the directory layer uses.
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// EnabledEnv must be "true" to turn tracing on.
	EnabledEnv = "ZITADEL_OTEL_ENABLED"
	// SampleRatioEnv is the fraction of new traces to record, in (0, 1].
	SampleRatioEnv = "ZITADEL_OTEL_SAMPLE_RATIO"

	// SDKName is reported on every resource so SDK traffic can be told
	// apart from other gRPC and HTTP clients in the same process.
	SDKName = "zitadel-go-dual"
)

// Resource attribute keys describing the ZITADEL instance a process talks to.
const (
	AttrSDKName   = attribute.Key("zitadel.sdk.name")
	AttrEndpoint  = attribute.Key("zitadel.endpoint")
	AttrTransport = attribute.Key("zitadel.transport")
)

// Config holds tracing configuration.
type Config struct {
	Enabled     bool
	Endpoint    string // OTLP collector
	ServiceName string
	// SampleRatio of zero means every trace is recorded.
	SampleRatio float64

	// Target and Transport are set once the ZITADEL connection is known.
	Target    string
	Transport string
}

// GetConfig reads tracing configuration from environment variables.
// OTEL_EXPORTER_OTLP_ENDPOINT defaults to "localhost:4317". An unparsable
// or out of range sample ratio falls back to recording everything.
func GetConfig(serviceName string) Config {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}
	ratio, err := strconv.ParseFloat(os.Getenv(SampleRatioEnv), 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return Config{
		Enabled:     strings.ToLower(os.Getenv(EnabledEnv)) == "true",
		Endpoint:    endpoint,
		ServiceName: serviceName,
		SampleRatio: ratio,
	}
}

// ForTarget returns c annotated with the ZITADEL endpoint and wire transport.
func (c Config) ForTarget(endpoint, transport string) Config {
	c.Target = endpoint
	c.Transport = transport
	return c
}

// InstrumentTransports reports whether the gRPC and Connect transports
// should carry otelgrpc and otelhttp instrumentation.
func (c Config) InstrumentTransports() bool { return c.Enabled }

// Resource describes the process and the ZITADEL instance it calls.
func Resource(cfg Config) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		AttrSDKName.String(SDKName),
	}
	if cfg.Target != "" {
		attrs = append(attrs, AttrEndpoint.String(cfg.Target))
	}
	if cfg.Transport != "" {
		attrs = append(attrs, AttrTransport.String(cfg.Transport))
	}
	return resource.NewSchemaless(attrs...)
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Initialize sets up the global tracer provider and propagator. When
// disabled it returns a no-op tracer and leaves the globals alone.
func Initialize(ctx context.Context, cfg Config, logger *slog.Logger) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		logger.Debug("tracing disabled, using no-op tracer")
		return noop.NewTracerProvider().Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create OTLP exporter: %w", err)
	}
	res, err := resource.Merge(resource.EnvironmentWithContext(ctx), Resource(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("tracing enabled",
		"collector", cfg.Endpoint,
		"zitadel", cfg.Target,
		"transport", cfg.Transport,
		"sample_ratio", cfg.SampleRatio,
	)

	return tp.Tracer(SDKName), func(ctx context.Context) error {
		logger.Info("flushing spans")
		return tp.Shutdown(ctx)
	}, nil
}
