package tracing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

func TestGetConfig_Defaults(t *testing.T) {
	t.Setenv(EnabledEnv, "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg := GetConfig("zitadel-service")

	if cfg.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
	if cfg.Endpoint != "localhost:4317" {
		t.Errorf("expected endpoint localhost:4317, got %s", cfg.Endpoint)
	}
	if cfg.ServiceName != "zitadel-service" {
		t.Errorf("expected service name zitadel-service, got %s", cfg.ServiceName)
	}
}

func TestGetConfig_Enabled(t *testing.T) {
	tests := []struct {
		envVal  string
		enabled bool
	}{
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		t.Run(tt.envVal, func(t *testing.T) {
			t.Setenv(EnabledEnv, tt.envVal)
			if got := GetConfig("svc").Enabled; got != tt.enabled {
				t.Errorf("enabled = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestGetConfig_SampleRatio(t *testing.T) {
	tests := []struct {
		envVal string
		want   float64
	}{
		{"", 1},
		{"0.25", 0.25},
		{"1", 1},
		{"0", 1},
		{"1.5", 1},
		{"half", 1},
	}
	for _, tt := range tests {
		t.Run(tt.envVal, func(t *testing.T) {
			t.Setenv(SampleRatioEnv, tt.envVal)
			if got := GetConfig("svc").SampleRatio; got != tt.want {
				t.Errorf("ratio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_ForTarget(t *testing.T) {
	t.Setenv(EnabledEnv, "true")
	base := GetConfig("zitadel-cli")
	cfg := base.ForTarget("https://acme.zitadel.cloud", "connect")

	if cfg.Target != "https://acme.zitadel.cloud" || cfg.Transport != "connect" {
		t.Errorf("unexpected target %q transport %q", cfg.Target, cfg.Transport)
	}
	if base.Target != "" {
		t.Error("ForTarget modified the receiver")
	}
	if !cfg.InstrumentTransports() {
		t.Error("expected transports to be instrumented when tracing is enabled")
	}
	if (Config{}).InstrumentTransports() {
		t.Error("expected no instrumentation when tracing is disabled")
	}
}

func TestResource(t *testing.T) {
	res := Resource(Config{ServiceName: "zitadel-service"}.ForTarget("localhost:8080", "grpc"))
	set := res.Set()

	want := map[attribute.Key]string{
		semconv.ServiceNameKey: "zitadel-service",
		AttrSDKName:            SDKName,
		AttrEndpoint:           "localhost:8080",
		AttrTransport:          "grpc",
	}
	for k, v := range want {
		got, ok := set.Value(k)
		if !ok || got.AsString() != v {
			t.Errorf("%s = %q, want %q", k, got.AsString(), v)
		}
	}
	if res.SchemaURL() != "" {
		t.Errorf("expected a schemaless resource, got %s", res.SchemaURL())
	}
}

func TestResource_WithoutTarget(t *testing.T) {
	set := Resource(Config{ServiceName: "svc"}).Set()
	if _, ok := set.Value(AttrEndpoint); ok {
		t.Error("endpoint attribute set without a target")
	}
	if _, ok := set.Value(AttrTransport); ok {
		t.Error("transport attribute set without a target")
	}
}

func TestSampler(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	never := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(rec),
		sdktrace.WithSampler(sampler(0.000001)),
	)
	always := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(rec),
		sdktrace.WithSampler(sampler(1)),
	)

	_, span := always.Tracer("test").Start(context.Background(), "root")
	if !span.SpanContext().IsSampled() {
		t.Error("expected ratio 1 to sample every root span")
	}
	parent := trace.ContextWithSpanContext(context.Background(), span.SpanContext())
	_, child := never.Tracer("test").Start(parent, "child")
	if !child.SpanContext().IsSampled() {
		t.Error("expected a sampled parent to override the ratio")
	}
	child.End()
	span.End()
}

func TestInitialize_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tracer, shutdown, err := Initialize(context.Background(), Config{ServiceName: "svc"}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestStartSpanAndEnd(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tracer := tp.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, SpanSearchUsers)
	End(span, errors.New("boom"))
	_, span = StartSpan(context.Background(), tracer, SpanCurrentUser)
	End(span, nil)

	ended := rec.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	if ended[0].Name() != SpanSearchUsers || ended[0].Status().Code != codes.Error {
		t.Errorf("unexpected first span %s %v", ended[0].Name(), ended[0].Status())
	}
	if ended[1].Status().Code != codes.Ok {
		t.Errorf("unexpected second span status %v", ended[1].Status())
	}
}

func TestStartSpan_NilTracer(t *testing.T) {
	ctx := context.Background()
	got, span := StartSpan(ctx, nil, "x")
	if got != ctx || span == nil {
		t.Error("expected context passthrough and a non-nil span")
	}
	End(span, nil)
}
