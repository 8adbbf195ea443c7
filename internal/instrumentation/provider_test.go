package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	config := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	}

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider == nil {
		t.Fatal("expected provider to be non-nil")
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}

	if provider.Gatherer() != nil {
		t.Error("expected no gatherer when disabled")
	}

	// Pushing and shutdown are no-ops for a disabled provider
	if err := provider.PushMetrics(context.Background()); err != nil {
		t.Errorf("expected no error on push, got %v", err)
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	config := Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}

	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil")
	}

	if provider.Gatherer() == nil {
		t.Error("expected Gatherer to be non-nil for prometheus exporter")
	}

	if tracer := provider.Tracer("test"); tracer == nil {
		t.Error("expected tracer to be non-nil")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	config := Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "stdout",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}

	if provider.Gatherer() != nil {
		t.Error("expected Gatherer to be nil for stdout exporter")
	}
}

func TestNewProvider_InvalidMetricsExporter(t *testing.T) {
	config := Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: "invalid",
		TracingExporter: "none",
	}

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("expected error for invalid metrics exporter")
	}
}

func TestNewProvider_OTLPTracingWithoutEndpoint(t *testing.T) {
	config := Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "otlp",
	}

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("expected error for OTLP tracing without endpoint")
	}
}

func TestProvider_PushMetrics(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		ServiceInstanceID: "laptop",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		PushgatewayURL:    srv.URL,
		PushJob:           "payslip",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	provider.Metrics().RecordMessageProcessed(ctx, StatusSuccess)

	if err := provider.PushMetrics(ctx); err != nil {
		t.Fatalf("PushMetrics() error = %v", err)
	}

	if method != http.MethodPut {
		t.Errorf("expected PUT, got %q", method)
	}
	if !strings.HasPrefix(path, "/metrics/job/payslip") {
		t.Errorf("unexpected push path %q", path)
	}
	if !strings.Contains(path, "/instance/laptop") {
		t.Errorf("expected instance grouping in path %q", path)
	}
}

func TestProvider_PushMetricsWithoutGateway(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if err := provider.PushMetrics(ctx); err != nil {
		t.Errorf("expected no-op push, got %v", err)
	}
}

func TestProvider_Tracer_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if tracer := provider.Tracer("test"); tracer == nil {
		t.Error("expected tracer to be non-nil (no-op)")
	}
}
