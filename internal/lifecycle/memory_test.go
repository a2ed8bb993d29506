package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

func testSubmission() model.TradeSubmission {
	return model.TradeSubmission{
		TradeID:        "T1",
		Version:        1,
		CounterpartyID: "CP-1",
		BookID:         "B1",
		MaturityDate:   model.NewDate(2099, time.January, 1),
		CreatedDate:    model.NewDate(2024, time.January, 15),
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, "req-1", testSubmission()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Status != model.StatusPending {
		t.Errorf("Status = %s, want %s", rec.Status, model.StatusPending)
	}
	if rec.TradeID != "T1" || rec.Version != 1 {
		t.Errorf("record = %s v%d, want T1 v1", rec.TradeID, rec.Version)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestMemoryStore_CreateCollision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, "req-1", testSubmission()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := store.Create(ctx, "req-1", testSubmission())
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second Create error = %v, want ErrAlreadyExists", err)
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Transition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, "req-1", testSubmission()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Transition(ctx, "req-1", model.StatusFailed, model.ReasonSuperseded); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	rec, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Status != model.StatusFailed {
		t.Errorf("Status = %s, want %s", rec.Status, model.StatusFailed)
	}
	if rec.FailureReason != model.ReasonSuperseded {
		t.Errorf("FailureReason = %q, want %q", rec.FailureReason, model.ReasonSuperseded)
	}
}

func TestMemoryStore_TransitionTerminalIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, "req-1", testSubmission()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Transition(ctx, "req-1", model.StatusSuccess, ""); err != nil {
		t.Fatalf("first Transition failed: %v", err)
	}

	// Redelivered message tries to resolve again; must report success
	// without changing the stored state.
	if err := store.Transition(ctx, "req-1", model.StatusFailed, model.ReasonPersistenceFailure); err != nil {
		t.Fatalf("second Transition errored: %v", err)
	}

	rec, _ := store.Get(ctx, "req-1")
	if rec.Status != model.StatusSuccess {
		t.Errorf("Status after terminal no-op = %s, want %s", rec.Status, model.StatusSuccess)
	}
	if rec.FailureReason != "" {
		t.Errorf("FailureReason = %q, want empty", rec.FailureReason)
	}
}

func TestMemoryStore_TransitionUnknown(t *testing.T) {
	store := NewMemoryStore()

	err := store.Transition(context.Background(), "missing", model.StatusSuccess, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Transition error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_TransitionRejectsNonTerminal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, "req-1", testSubmission()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Transition(ctx, "req-1", model.StatusPending, ""); err == nil {
		t.Error("Transition to PENDING should be rejected")
	}
}
