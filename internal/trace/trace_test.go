package trace

import (
	"context"
	"errors"
	"testing"
)

func TestDisabledTracingIsPassthrough(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "false")
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if Enabled() {
		t.Fatal("tracing should be disabled")
	}

	ctx := context.Background()
	sctx, span := StartStage(ctx, "fetch_news")
	if sctx != ctx {
		t.Error("disabled tracing must return the caller's context unchanged")
	}
	// The no-op span must absorb error recording without panicking.
	EndStage(span, errors.New("source down"))
	EndStage(span, nil)

	if _, _, ok := GetTraceFields(sctx); ok {
		t.Error("disabled tracing should yield no trace fields")
	}
}

func TestEnabledTracingCarriesTraceFields(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	defer Shutdown(context.Background())

	sctx, span := StartStage(context.Background(), "generate_brief")
	defer EndStage(span, nil)

	traceID, spanID, ok := GetTraceFields(sctx)
	if !ok || traceID == "" || spanID == "" {
		t.Errorf("stage span should carry trace fields, got %q %q %v", traceID, spanID, ok)
	}
}
