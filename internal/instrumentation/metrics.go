package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrState     = "state"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a valid no-op recorder.
type Metrics struct {
	// Pipeline metrics
	messagesProcessedTotal   metric.Int64Counter
	attachmentsExportedTotal metric.Int64Counter
	uploadsTotal             metric.Int64Counter
	uploadDuration           metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	oauthTokenRefreshTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.messagesProcessedTotal, err = meter.Int64Counter(
		"payslip_messages_processed_total",
		metric.WithDescription("Total number of matching messages processed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslip_messages_processed_total counter: %w", err)
	}

	m.attachmentsExportedTotal, err = meter.Int64Counter(
		"payslip_attachments_exported_total",
		metric.WithDescription("Total number of attachments written as unencrypted PDFs"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslip_attachments_exported_total counter: %w", err)
	}

	m.uploadsTotal, err = meter.Int64Counter(
		"payslip_uploads_total",
		metric.WithDescription("Total number of exported files uploaded"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslip_uploads_total counter: %w", err)
	}

	m.uploadDuration, err = meter.Float64Histogram(
		"payslip_upload_duration_seconds",
		metric.WithDescription("Upload duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslip_upload_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	return m, nil
}

// RecordMessageProcessed records the outcome of processing one message.
func (m *Metrics) RecordMessageProcessed(ctx context.Context, status string) {
	if m == nil || m.messagesProcessedTotal == nil {
		return // Instrumentation not initialized
	}

	m.messagesProcessedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordAttachmentExported records a written export artifact.
// state is "decrypted" or "pass_through".
func (m *Metrics) RecordAttachmentExported(ctx context.Context, state string) {
	if m == nil || m.attachmentsExportedTotal == nil {
		return // Instrumentation not initialized
	}

	m.attachmentsExportedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrState, state)))
}

// RecordUpload records an upload attempt with its status and duration.
func (m *Metrics) RecordUpload(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.uploadsTotal == nil || m.uploadDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.uploadsTotal.Add(ctx, 1, attrs)
	m.uploadDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, drive)
//   - operation: Operation type (messages.list, messages.get, files.create, ...)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt with result.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m == nil || m.oauthTokenRefreshTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
