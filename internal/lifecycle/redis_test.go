package lifecycle

import (
	"testing"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

func TestKey(t *testing.T) {
	if got := key("abc-123"); got != "request:abc-123" {
		t.Errorf("key() = %q, want %q", got, "request:abc-123")
	}
}

func TestRecordFromFields(t *testing.T) {
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	updated := created.Add(2 * time.Second)

	fields := map[string]string{
		"request_id":     "req-1",
		"status":         "FAILED",
		"trade_id":       "T1",
		"version":        "3",
		"failure_reason": model.ReasonSuperseded,
		"created_at":     created.Format(time.RFC3339Nano),
		"updated_at":     updated.Format(time.RFC3339Nano),
	}

	rec := recordFromFields(fields)

	if rec.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want %q", rec.RequestID, "req-1")
	}
	if rec.Status != model.StatusFailed {
		t.Errorf("Status = %s, want %s", rec.Status, model.StatusFailed)
	}
	if rec.TradeID != "T1" {
		t.Errorf("TradeID = %q, want %q", rec.TradeID, "T1")
	}
	if rec.Version != 3 {
		t.Errorf("Version = %d, want 3", rec.Version)
	}
	if rec.FailureReason != model.ReasonSuperseded {
		t.Errorf("FailureReason = %q, want %q", rec.FailureReason, model.ReasonSuperseded)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, created)
	}
	if !rec.UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt = %v, want %v", rec.UpdatedAt, updated)
	}
}

func TestRecordFromFields_MissingOptional(t *testing.T) {
	rec := recordFromFields(map[string]string{
		"request_id": "req-2",
		"status":     "PENDING",
		"trade_id":   "T2",
		"version":    "1",
	})

	if rec.FailureReason != "" {
		t.Errorf("FailureReason = %q, want empty", rec.FailureReason)
	}
	if !rec.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero", rec.CreatedAt)
	}
}
