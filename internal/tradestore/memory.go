package tradestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

// Memory is an in-memory Store for tests and local development, matching the
// Postgres semantics: one current row per trade, history retained, expired
// recomputed at read time.
type Memory struct {
	mu     sync.Mutex
	trades map[string]map[int]model.Trade // trade_id -> version -> row

	// now is swappable so expiry tests can pin the clock.
	now func() time.Time
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		trades: make(map[string]map[int]model.Trade),
		now:    time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (s *Memory) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// CurrentVersion implements Store.
func (s *Memory) CurrentVersion(ctx context.Context, tradeID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, ok := s.currentLocked(tradeID)
	return version, ok, nil
}

// Upsert implements Store.
func (s *Memory) Upsert(ctx context.Context, sub model.TradeSubmission) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, hasCurrent := s.currentLocked(sub.TradeID)
	if hasCurrent && sub.Version < current {
		return OutcomeSuperseded, nil
	}

	versions := s.trades[sub.TradeID]
	if versions == nil {
		versions = make(map[int]model.Trade)
		s.trades[sub.TradeID] = versions
	}

	nowTS := s.now().UTC()
	row, existed := versions[sub.Version]
	if !existed {
		row = model.Trade{TradeID: sub.TradeID, Version: sub.Version, CreatedAt: nowTS}
	}
	row.CounterpartyID = sub.CounterpartyID
	row.BookID = sub.BookID
	row.MaturityDate = sub.MaturityDate
	row.CreatedDate = sub.CreatedDate
	row.UpdatedAt = nowTS
	versions[sub.Version] = row

	// Promote the written version; demote everything else.
	for v, r := range versions {
		r.IsCurrent = v == sub.Version
		versions[v] = r
	}

	if hasCurrent && sub.Version == current {
		return OutcomeReplaced, nil
	}
	return OutcomeInserted, nil
}

// List implements Store.
func (s *Memory) List(ctx context.Context) ([]model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Trade
	ids := make([]string, 0, len(s.trades))
	for id := range s.trades {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, s.versionsLocked(id)...)
	}
	return out, nil
}

// ListVersions implements Store.
func (s *Memory) ListVersions(ctx context.Context, tradeID string) ([]model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionsLocked(tradeID), nil
}

// Ping implements Store.
func (s *Memory) Ping(ctx context.Context) error {
	return nil
}

func (s *Memory) currentLocked(tradeID string) (int, bool) {
	for v, row := range s.trades[tradeID] {
		if row.IsCurrent {
			return v, true
		}
	}
	return 0, false
}

func (s *Memory) versionsLocked(tradeID string) []model.Trade {
	versions := s.trades[tradeID]
	if len(versions) == 0 {
		return nil
	}
	today := model.DateOf(s.now().UTC())
	out := make([]model.Trade, 0, len(versions))
	for _, row := range versions {
		row.Expired = row.MaturityDate.Before(today)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}
