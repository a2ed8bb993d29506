package api

import (
	"fmt"
	"strings"

	"github.com/tradestack/trade-store/internal/model"
)

const (
	maxTradeIDLen        = 20
	maxCounterpartyIDLen = 50
	maxBookIDLen         = 50
)

// acceptedResponse is the 202 body for an accepted submission.
type acceptedResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	TradeID   string `json:"trade_id"`
	Version   int    `json:"version"`
	Message   string `json:"message"`
}

// temporaryFailureResponse is the 503 body for transient failures.
type temporaryFailureResponse struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// errorResponse is the body for 4xx/5xx errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// healthResponse is the health probe body.
type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// validateSubmission checks structural requirements on the payload before the
// business rules run. Returns a human-readable reason on failure.
func validateSubmission(sub *model.TradeSubmission) error {
	sub.TradeID = strings.TrimSpace(sub.TradeID)
	if sub.TradeID == "" {
		return fmt.Errorf("trade_id must not be empty")
	}
	if len(sub.TradeID) > maxTradeIDLen {
		return fmt.Errorf("trade_id must be at most %d characters", maxTradeIDLen)
	}
	if sub.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if sub.CounterpartyID == "" {
		return fmt.Errorf("counterparty_id must not be empty")
	}
	if len(sub.CounterpartyID) > maxCounterpartyIDLen {
		return fmt.Errorf("counterparty_id must be at most %d characters", maxCounterpartyIDLen)
	}
	if sub.BookID == "" {
		return fmt.Errorf("book_id must not be empty")
	}
	if len(sub.BookID) > maxBookIDLen {
		return fmt.Errorf("book_id must be at most %d characters", maxBookIDLen)
	}
	if sub.MaturityDate.IsZero() {
		return fmt.Errorf("maturity_date is required")
	}
	if sub.CreatedDate.IsZero() {
		return fmt.Errorf("created_date is required")
	}
	return nil
}
