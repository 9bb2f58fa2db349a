package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithRunID_And_RunIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithRunID(context.Background(), id)

	got, ok := RunIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestRunIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := RunIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestRunIDFromCtx_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), uuid.Nil)

	got, ok := RunIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for uuid.Nil")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestRunIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("run_id"), "not-a-uuid")

	got, ok := RunIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for wrong type")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestWithPhase_And_PhaseFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithPhase(context.Background(), "fetch")

	if got := PhaseFromCtx(ctx); got != "fetch" {
		t.Fatalf("expected fetch, got %s", got)
	}
}

func TestPhaseFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := PhaseFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestPhaseFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("phase"), 12345)

	if got := PhaseFromCtx(ctx); got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}
