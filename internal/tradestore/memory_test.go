package tradestore

import (
	"context"
	"testing"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

func submission(tradeID string, version int, maturity model.Date) model.TradeSubmission {
	return model.TradeSubmission{
		TradeID:        tradeID,
		Version:        version,
		CounterpartyID: "CP-1",
		BookID:         "B1",
		MaturityDate:   maturity,
		CreatedDate:    model.NewDate(2024, time.January, 15),
	}
}

func futureDate() model.Date {
	return model.NewDate(2099, time.January, 1)
}

func TestMemory_UpsertOutcomes(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	outcome, err := store.Upsert(ctx, submission("T1", 1, futureDate()))
	if err != nil {
		t.Fatalf("Upsert v1 failed: %v", err)
	}
	if outcome != OutcomeInserted {
		t.Errorf("first upsert = %s, want %s", outcome, OutcomeInserted)
	}

	outcome, err = store.Upsert(ctx, submission("T1", 2, futureDate()))
	if err != nil {
		t.Fatalf("Upsert v2 failed: %v", err)
	}
	if outcome != OutcomeInserted {
		t.Errorf("higher version = %s, want %s", outcome, OutcomeInserted)
	}

	outcome, err = store.Upsert(ctx, submission("T1", 2, futureDate()))
	if err != nil {
		t.Fatalf("Upsert v2 again failed: %v", err)
	}
	if outcome != OutcomeReplaced {
		t.Errorf("equal version = %s, want %s", outcome, OutcomeReplaced)
	}

	outcome, err = store.Upsert(ctx, submission("T1", 1, futureDate()))
	if err != nil {
		t.Fatalf("Upsert stale v1 failed: %v", err)
	}
	if outcome != OutcomeSuperseded {
		t.Errorf("lower version = %s, want %s", outcome, OutcomeSuperseded)
	}
}

func TestMemory_OneCurrentPerTrade(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for v := 1; v <= 4; v++ {
		if _, err := store.Upsert(ctx, submission("T1", v, futureDate())); err != nil {
			t.Fatalf("Upsert v%d failed: %v", v, err)
		}
	}

	rows, err := store.ListVersions(ctx, "T1")
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4 (history retained)", len(rows))
	}

	currents := 0
	for _, row := range rows {
		if row.IsCurrent {
			currents++
			if row.Version != 4 {
				t.Errorf("current version = %d, want 4", row.Version)
			}
		}
	}
	if currents != 1 {
		t.Errorf("current rows = %d, want exactly 1", currents)
	}
}

func TestMemory_ReplaceDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	first := submission("T1", 1, futureDate())
	first.BookID = "B1"
	if _, err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	second := submission("T1", 1, futureDate())
	second.BookID = "B2"
	if _, err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("replace Upsert failed: %v", err)
	}

	rows, err := store.ListVersions(ctx, "T1")
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].BookID != "B2" {
		t.Errorf("BookID = %q, want %q (replace overwrites economics)", rows[0].BookID, "B2")
	}
	if !rows[0].IsCurrent {
		t.Error("replaced row lost current flag")
	}
}

func TestMemory_SupersededLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.Upsert(ctx, submission("T1", 3, futureDate())); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.Upsert(ctx, submission("T1", 1, futureDate())); err != nil {
		t.Fatalf("stale Upsert failed: %v", err)
	}

	rows, _ := store.ListVersions(ctx, "T1")
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1 (stale version must not be written)", len(rows))
	}
	if rows[0].Version != 3 {
		t.Errorf("stored version = %d, want 3", rows[0].Version)
	}
}

func TestMemory_CurrentVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, ok, err := store.CurrentVersion(ctx, "missing")
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if ok {
		t.Error("unknown trade reported a current version")
	}

	if _, err := store.Upsert(ctx, submission("T1", 2, futureDate())); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	version, ok, err := store.CurrentVersion(ctx, "T1")
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if !ok || version != 2 {
		t.Errorf("CurrentVersion = (%d, %v), want (2, true)", version, ok)
	}
}

func TestMemory_ExpiredComputedAtRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	maturity := model.NewDate(2024, time.June, 20)
	if _, err := store.Upsert(ctx, submission("T1", 1, maturity)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	store.SetClock(func() time.Time {
		return time.Date(2024, time.June, 19, 12, 0, 0, 0, time.UTC)
	})
	rows, _ := store.ListVersions(ctx, "T1")
	if rows[0].Expired {
		t.Error("trade expired before maturity date")
	}

	store.SetClock(func() time.Time {
		return time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)
	})
	rows, _ = store.ListVersions(ctx, "T1")
	if rows[0].Expired {
		t.Error("trade expired on its maturity date; expiry starts the day after")
	}

	store.SetClock(func() time.Time {
		return time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	})
	rows, _ = store.ListVersions(ctx, "T1")
	if !rows[0].Expired {
		t.Error("trade not expired after maturity date passed")
	}
}

func TestMemory_ListOrdersByTradeAndVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, s := range []model.TradeSubmission{
		submission("T2", 1, futureDate()),
		submission("T1", 2, futureDate()),
		submission("T1", 1, futureDate()),
	} {
		// T1 v1 arrives after v2 and is superseded; it never lands.
		if _, err := store.Upsert(ctx, s); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []struct {
		tradeID string
		version int
	}{
		{"T1", 2},
		{"T2", 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].TradeID != w.tradeID || rows[i].Version != w.version {
			t.Errorf("rows[%d] = %s v%d, want %s v%d", i, rows[i].TradeID, rows[i].Version, w.tradeID, w.version)
		}
	}
}
