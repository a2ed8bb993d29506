package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tradestack/trade-store/internal/channel"
	"github.com/tradestack/trade-store/internal/lifecycle"
	"github.com/tradestack/trade-store/internal/metrics"
	"github.com/tradestack/trade-store/internal/model"
	"github.com/tradestack/trade-store/internal/tradestore"
	"github.com/tradestack/trade-store/internal/validate"
)

// ErrUnavailable marks transient infrastructure failures on the acceptance
// path. Callers should retry; no durable PENDING record is left behind.
var ErrUnavailable = errors.New("service temporarily unavailable")

// ErrIntegrity marks a request_id collision in the lifecycle store. With
// system-generated UUIDs this should never happen; it indicates an id
// generation bug, not a retryable condition.
var ErrIntegrity = errors.New("request id collision")

// Service is the acceptance service.
type Service struct {
	trades    tradestore.Store
	requests  lifecycle.Store
	publisher channel.Publisher
	timeout   time.Duration
	logger    *slog.Logger

	now func() time.Time
}

// NewService wires the acceptance path. timeout bounds each of the two I/O
// calls (lifecycle create, channel publish).
func NewService(trades tradestore.Store, requests lifecycle.Store, publisher channel.Publisher, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		trades:    trades,
		requests:  requests,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates and enqueues one submission, returning the request_id to
// poll. Error taxonomy: *validate.Rejection for terminal business rejections,
// ErrUnavailable (wrapped) for transient infrastructure failures,
// ErrIntegrity (wrapped) for request_id collisions.
func (s *Service) Submit(ctx context.Context, sub model.TradeSubmission) (string, error) {
	now := s.now().UTC()
	today := model.DateOf(now)

	current, hasCurrent, err := s.trades.CurrentVersion(ctx, sub.TradeID)
	if err != nil {
		s.logger.Warn("current version read failed", "trade_id", sub.TradeID, "error", err)
		metrics.Submissions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return "", fmt.Errorf("read stored version: %w", ErrUnavailable)
	}

	action, rej := validate.Check(sub, current, hasCurrent, today)
	if rej != nil {
		s.logger.Info("submission rejected",
			"trade_id", sub.TradeID,
			"version", sub.Version,
			"reason", rej.Reason,
		)
		metrics.Submissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return "", rej
	}

	requestID := uuid.NewString()

	createCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.requests.Create(createCtx, requestID, sub)
	cancel()
	if err != nil {
		if errors.Is(err, lifecycle.ErrAlreadyExists) {
			s.logger.Error("request id collision", "request_id", requestID, "error", err)
			return "", fmt.Errorf("create request %s: %w", requestID, ErrIntegrity)
		}
		s.logger.Warn("pending record create failed", "request_id", requestID, "error", err)
		metrics.Submissions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return "", fmt.Errorf("create pending record: %w", ErrUnavailable)
	}

	env := model.Envelope{
		RequestID: requestID,
		Sequence:  now.UnixMicro(),
		Trade:     sub,
	}

	publishCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.publisher.Publish(publishCtx, env)
	cancel()
	if err != nil {
		s.logger.Warn("publish failed",
			"request_id", requestID,
			"trade_id", sub.TradeID,
			"error", err,
		)
		metrics.PublishFailures.Inc()
		metrics.Submissions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		s.failPending(requestID)
		return "", fmt.Errorf("publish submission: %w", ErrUnavailable)
	}

	s.logger.Info("submission accepted",
		"request_id", requestID,
		"trade_id", sub.TradeID,
		"version", sub.Version,
		"action", action.String(),
	)
	metrics.Submissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	return requestID, nil
}

// failPending resolves an orphaned PENDING record after a publish failure.
// Runs on a fresh context: the request context may already be expired, and
// the record must not stay PENDING with no message in flight.
func (s *Service) failPending(requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.requests.Transition(ctx, requestID, model.StatusFailed, model.ReasonPublishFailure); err != nil {
		s.logger.Error("failed to resolve orphaned pending record",
			"request_id", requestID,
			"error", err,
		)
	}
}
