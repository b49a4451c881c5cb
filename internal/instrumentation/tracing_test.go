package instrumentation

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("claim_xq_task").
		WithInstance("work").
		WithOperation(OperationClaim).
		WithProject(42).
		WithTask(7).
		WithQueueState("review").
		WithReadOnly(false).
		Build()

	got := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, attr := range attrs {
		got[attr.Key] = attr.Value
	}

	if got[SpanAttrTool].AsString() != "claim_xq_task" {
		t.Errorf("expected tool attribute, got %v", got[SpanAttrTool])
	}
	if got[SpanAttrInstance].AsString() != "work" {
		t.Errorf("expected instance attribute, got %v", got[SpanAttrInstance])
	}
	if got[SpanAttrProjectID].AsInt64() != 42 {
		t.Errorf("expected project id 42, got %v", got[SpanAttrProjectID])
	}
	if got[SpanAttrTaskID].AsInt64() != 7 {
		t.Errorf("expected task id 7, got %v", got[SpanAttrTaskID])
	}
	if got[SpanAttrQueueState].AsString() != "review" {
		t.Errorf("expected queue state review, got %v", got[SpanAttrQueueState])
	}
	if got[SpanAttrReadOnly].AsBool() {
		t.Error("expected read_only false")
	}
}

func TestSpanAttributeBuilderSkipsEmpty(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithInstance("").
		WithProject(0).
		WithTask(0).
		WithQueueState("").
		Build()

	if len(attrs) != 0 {
		t.Errorf("expected empty values to be skipped, got %d attributes", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	ctx, span := StartToolSpan(context.Background(), "check_xq")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected context")
	}
	// With no SDK configured the span is non-recording but must be usable.
	SetSpanSuccess(span)
	AddSpanEvent(span, "checked")
}

func TestStartVikunjaSpan(t *testing.T) {
	_, span := StartVikunjaSpan(context.Background(), "work", OperationGet)
	defer span.End()

	SetSpanError(span, context.DeadlineExceeded)
}

func TestGetTraceIDNoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %s", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("expected empty span id, got %s", id)
	}
	if s := SpanContextString(context.Background()); s != "" {
		t.Errorf("expected empty span context string, got %s", s)
	}
}
