package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

// MemoryStore is an in-memory Store for tests and local development.
// It applies the same conditional-write semantics as RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]model.RequestRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]model.RequestRecord)}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, requestID string, trade model.TradeSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[requestID]; ok {
		return fmt.Errorf("create request %s: %w", requestID, ErrAlreadyExists)
	}
	now := time.Now().UTC()
	s.records[requestID] = model.RequestRecord{
		RequestID: requestID,
		Status:    model.StatusPending,
		TradeID:   trade.TradeID,
		Version:   trade.Version,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// Transition implements Store.
func (s *MemoryStore) Transition(ctx context.Context, requestID string, status model.RequestStatus, failureReason string) error {
	if !status.Terminal() {
		return fmt.Errorf("transition request %s: status %s is not terminal", requestID, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		return fmt.Errorf("transition request %s: %w", requestID, ErrNotFound)
	}
	if rec.Status.Terminal() {
		// Idempotent redelivery: already resolved, report success.
		return nil
	}
	rec.Status = status
	rec.FailureReason = failureReason
	rec.UpdatedAt = time.Now().UTC()
	s.records[requestID] = rec
	return nil
}

// All returns every stored record. Test hook.
func (s *MemoryStore) All() []model.RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.RequestRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, requestID string) (model.RequestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		return model.RequestRecord{}, fmt.Errorf("get request %s: %w", requestID, ErrNotFound)
	}
	return rec, nil
}
