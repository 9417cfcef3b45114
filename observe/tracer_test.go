package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer(t *testing.T) (Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func TestTracer_SuccessfulSpan(t *testing.T) {
	tr, recorder := newTestTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "db.connect")
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "backstop.exec.db.connect" {
		t.Errorf("span name = %q, want backstop.exec.db.connect", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status().Code)
	}
}

func TestTracer_FailedSpanRecordsError(t *testing.T) {
	tr, recorder := newTestTracer(t)

	_, span := tr.StartSpan(context.Background(), "db.connect")
	tr.EndSpan(span, errors.New("boom"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestNewTracer_NilTracerIsNoop(t *testing.T) {
	tr := NewTracer(nil)

	_, span := tr.StartSpan(context.Background(), "op")
	tr.EndSpan(span, errors.New("boom")) // must not panic
}
