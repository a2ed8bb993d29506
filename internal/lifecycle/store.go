package lifecycle

import (
	"context"
	"errors"

	"github.com/tradestack/trade-store/internal/model"
)

// Store is the request status store contract.
type Store interface {
	// Create writes a new PENDING record. Returns ErrAlreadyExists when the
	// request_id collides; with system-generated UUIDs that indicates an
	// integrity violation, not a normal runtime path.
	Create(ctx context.Context, requestID string, trade model.TradeSubmission) error

	// Transition conditionally moves a PENDING record to a terminal status.
	// When the record is already terminal the call is a no-op that reports
	// success, which makes redelivered messages safe. Returns ErrNotFound
	// when no record exists.
	Transition(ctx context.Context, requestID string, status model.RequestStatus, failureReason string) error

	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, requestID string) (model.RequestRecord, error)
}

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound      = errors.New("request not found")
	ErrAlreadyExists = errors.New("request already exists")
)
