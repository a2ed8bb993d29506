package model

import "time"

// TradeSubmission is the trade payload as submitted by a caller.
// It carries the caller-assigned identity (trade_id, version); everything
// derived (expired, bookkeeping timestamps) is computed by the store.
type TradeSubmission struct {
	TradeID        string `json:"trade_id"`
	Version        int    `json:"version"`
	CounterpartyID string `json:"counterparty_id"`
	BookID         string `json:"book_id"`
	MaturityDate   Date   `json:"maturity_date"`
	CreatedDate    Date   `json:"created_date"`
}

// Trade is a stored trade row. For a given trade_id the row with the highest
// accepted version is current; older versions are retained as history.
type Trade struct {
	TradeID        string    `json:"trade_id"`
	Version        int       `json:"version"`
	CounterpartyID string    `json:"counterparty_id"`
	BookID         string    `json:"book_id"`
	MaturityDate   Date      `json:"maturity_date"`
	CreatedDate    Date      `json:"created_date"`
	Expired        bool      `json:"expired"`
	IsCurrent      bool      `json:"is_current"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RequestStatus is the caller-visible lifecycle state of a submission.
type RequestStatus string

const (
	StatusPending RequestStatus = "PENDING"
	StatusSuccess RequestStatus = "SUCCESS"
	StatusFailed  RequestStatus = "FAILED"
)

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// RequestRecord is a lifecycle store entry for one accepted submission.
type RequestRecord struct {
	RequestID     string        `json:"request_id"`
	Status        RequestStatus `json:"status"`
	TradeID       string        `json:"trade_id"`
	Version       int           `json:"version"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Envelope is the channel message carrying a validated submission from the
// acceptance path to the worker. Sequence is the acceptance timestamp in
// microseconds; it only detects out-of-order redelivery, the worker's version
// re-check is what guarantees correctness.
type Envelope struct {
	RequestID string          `json:"request_id"`
	Sequence  int64           `json:"sequence"`
	Trade     TradeSubmission `json:"trade"`
}

// Failure reasons recorded in the lifecycle store. Reason text is part of the
// polling contract: callers distinguish a superseded submission from a
// genuine persistence failure by it.
const (
	ReasonMaturityInPast     = "maturity date in the past"
	ReasonStaleVersion       = "stale version"
	ReasonSuperseded         = "superseded by newer version"
	ReasonPersistenceFailure = "persistence failure"
	ReasonPublishFailure     = "publish failure"
)
