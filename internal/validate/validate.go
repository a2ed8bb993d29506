package validate

import (
	"github.com/tradestack/trade-store/internal/model"
)

// Action classifies how an accepted submission will land in the trade store.
// The distinction is informational only; both paths go through the same upsert.
type Action int

const (
	// ActionInsert means the version is new for this trade.
	ActionInsert Action = iota
	// ActionReplace means the version equals the stored current version and
	// the row will be overwritten in place.
	ActionReplace
)

// String returns the action name.
func (a Action) String() string {
	if a == ActionReplace {
		return "replace"
	}
	return "insert"
}

// Rejection is a terminal validation outcome. It is an expected business
// result, carried as an error so callers can surface it with errors.As.
type Rejection struct {
	Reason string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	return r.Reason
}

// Check applies the business rules in order; the first failing rule wins.
//
//  1. maturity_date < today                       -> rejected, maturity in past
//  2. current version exists and candidate older  -> rejected, stale version
//  3. otherwise accepted; equal version is a replace, newer is an insert
//
// currentVersion is ignored when hasCurrent is false.
func Check(sub model.TradeSubmission, currentVersion int, hasCurrent bool, today model.Date) (Action, *Rejection) {
	if sub.MaturityDate.Before(today) {
		return 0, &Rejection{Reason: model.ReasonMaturityInPast}
	}
	if hasCurrent {
		if sub.Version < currentVersion {
			return 0, &Rejection{Reason: model.ReasonStaleVersion}
		}
		if sub.Version == currentVersion {
			return ActionReplace, nil
		}
	}
	return ActionInsert, nil
}

// CheckMaturity applies only the maturity-date rule. The worker re-runs it on
// delivery because time moves between acceptance and processing.
func CheckMaturity(sub model.TradeSubmission, today model.Date) *Rejection {
	if sub.MaturityDate.Before(today) {
		return &Rejection{Reason: model.ReasonMaturityInPast}
	}
	return nil
}
