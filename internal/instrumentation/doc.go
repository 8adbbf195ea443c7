// Package instrumentation provides OpenTelemetry instrumentation for
// payslip runs.
//
// Instrumentation is off by default; set INSTRUMENTATION_ENABLED=true to
// record a run. Because the CLI exits when the run is done, the Prometheus
// exporter is paired with a Pushgateway: set PUSHGATEWAY_URL and the
// metrics are pushed before shutdown.
//
// # Metrics
//
// Pipeline Metrics:
//   - payslip_messages_processed_total: Counter of processed messages by status
//   - payslip_attachments_exported_total: Counter of written PDFs by state (decrypted, pass_through)
//   - payslip_uploads_total: Counter of uploads by status
//   - payslip_upload_duration_seconds: Histogram of upload durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: enable metrics and tracing (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: collector endpoint for otlp exporters
//   - OTEL_EXPORTER_OTLP_INSECURE: plain HTTP to the collector (default: false)
//   - OTEL_TRACES_SAMPLER_ARG: trace sampling rate (default: 1.0)
//   - PUSHGATEWAY_URL / PUSHGATEWAY_JOB: push target for prometheus metrics
//
// # Example
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordMessageProcessed(ctx, instrumentation.StatusSuccess)
package instrumentation
