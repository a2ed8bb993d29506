package tradestore

import (
	"context"

	"github.com/tradestack/trade-store/internal/model"
)

// Outcome classifies the result of an upsert.
type Outcome int

const (
	// OutcomeInserted means a new (trade_id, version) row was written and
	// promoted to current.
	OutcomeInserted Outcome = iota

	// OutcomeReplaced means the delivered version equalled the current
	// version and the row was overwritten in place.
	OutcomeReplaced

	// OutcomeSuperseded means the delivered version is older than the stored
	// current version; nothing was written. This is an expected result of
	// concurrent submissions racing on one trade, not an error.
	OutcomeSuperseded
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Store is the canonical trade store contract.
type Store interface {
	// CurrentVersion returns the version of the current row for tradeID,
	// or ok=false when the trade is unknown.
	CurrentVersion(ctx context.Context, tradeID string) (version int, ok bool, err error)

	// Upsert applies the versioned write for one delivered submission,
	// atomically with respect to the same trade_id. Re-running the same call
	// yields the same end state.
	Upsert(ctx context.Context, sub model.TradeSubmission) (Outcome, error)

	// List returns every stored row, history included, ordered by
	// (trade_id, version).
	List(ctx context.Context) ([]model.Trade, error)

	// ListVersions returns all versions for one trade ordered by version.
	// An unknown trade returns an empty slice, not an error.
	ListVersions(ctx context.Context, tradeID string) ([]model.Trade, error)

	// Ping verifies connectivity for health reporting.
	Ping(ctx context.Context) error
}
