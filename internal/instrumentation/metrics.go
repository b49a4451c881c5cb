package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrInstance  = "instance"
	attrTool      = "tool"
	attrKind      = "kind"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// Vikunja API metrics
	vikunjaAPIOperationsTotal   metric.Int64Counter
	vikunjaAPIOperationDuration metric.Float64Histogram

	// Exchange queue metrics
	queueOperationsTotal metric.Int64Counter
	queuePendingItems    metric.Int64Gauge

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active MCP sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// Vikunja API Metrics
	m.vikunjaAPIOperationsTotal, err = meter.Int64Counter(
		"vikunja_api_operations_total",
		metric.WithDescription("Total number of Vikunja API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vikunja_api_operations_total counter: %w", err)
	}

	m.vikunjaAPIOperationDuration, err = meter.Float64Histogram(
		"vikunja_api_operation_duration_seconds",
		metric.WithDescription("Vikunja API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vikunja_api_operation_duration_seconds histogram: %w", err)
	}

	// Exchange queue metrics
	m.queueOperationsTotal, err = meter.Int64Counter(
		"xq_operations_total",
		metric.WithDescription("Total number of exchange queue operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create xq_operations_total counter: %w", err)
	}

	m.queuePendingItems, err = meter.Int64Gauge(
		"xq_pending_items",
		metric.WithDescription("Number of items awaiting claim in the exchange queue"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create xq_pending_items gauge: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordVikunjaAPIOperation records a Vikunja API operation.
//
// Parameters:
//   - instance: configured instance name (work, home, default)
//   - operation: operation type (list, get, create, update, delete, move)
//   - status: result status ("success" or "error")
//   - duration: time taken for the operation
func (m *Metrics) RecordVikunjaAPIOperation(ctx context.Context, instance, operation, status string, duration time.Duration) {
	if m.vikunjaAPIOperationsTotal == nil || m.vikunjaAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrInstance, instance),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.vikunjaAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.vikunjaAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordQueueOperation records an exchange queue operation. kind carries
// the error kind on failure and is empty on success.
func (m *Metrics) RecordQueueOperation(ctx context.Context, instance, operation, status, kind string) {
	if m.queueOperationsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrInstance, instance),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if kind != "" {
		attrs = append(attrs, attribute.String(attrKind, kind))
	}

	m.queueOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordQueuePending records the observed number of items awaiting claim.
func (m *Metrics) RecordQueuePending(ctx context.Context, instance string, pending int) {
	if m.queuePendingItems == nil {
		return // Instrumentation not initialized
	}

	m.queuePendingItems.Record(ctx, int64(pending),
		metric.WithAttributes(attribute.String(attrInstance, instance)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithInstance records an MCP tool invocation with the
// target instance. The instance label is only added when detailedLabels is
// enabled, to keep cardinality down on shared deployments.
func (m *Metrics) RecordToolInvocationWithInstance(ctx context.Context, toolName, status, instance string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && instance != "" {
		attrs = append(attrs, attribute.String(attrInstance, instance))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}
