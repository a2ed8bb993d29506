package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tradestack/trade-store/internal/channel"
	"github.com/tradestack/trade-store/internal/lifecycle"
	"github.com/tradestack/trade-store/internal/metrics"
	"github.com/tradestack/trade-store/internal/model"
	"github.com/tradestack/trade-store/internal/tradestore"
	"github.com/tradestack/trade-store/internal/validate"
)

// Config holds retry settings for trade store writes.
type Config struct {
	// RetryBudget is the number of upsert attempts before resolving FAILED.
	RetryBudget int

	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// DefaultConfig returns production retry settings.
func DefaultConfig() Config {
	return Config{
		RetryBudget:    5,
		RetryBaseDelay: 100 * time.Millisecond,
		RetryMaxDelay:  5 * time.Second,
	}
}

// Worker drains the channel and applies versioned upserts.
type Worker struct {
	cfg      Config
	consumer channel.Consumer
	trades   tradestore.Store
	requests lifecycle.Store
	logger   *slog.Logger

	// lastSeq tracks the newest sequence hint seen per trade, to flag
	// deliveries arriving out of publish order. Detection only; the version
	// re-check inside the upsert is what protects the store.
	lastSeq map[string]int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now func() time.Time
}

// New creates a Worker.
func New(cfg Config, consumer channel.Consumer, trades tradestore.Store, requests lifecycle.Store, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		cfg:      cfg,
		consumer: consumer,
		trades:   trades,
		requests: requests,
		logger:   logger,
		lastSeq:  make(map[string]int64),
		now:      time.Now,
	}
}

// Start begins consuming in a background goroutine.
func (w *Worker) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()

	w.logger.Info("worker started",
		"retry_budget", w.cfg.RetryBudget,
		"retry_base_delay", w.cfg.RetryBaseDelay,
	)
	return nil
}

// Stop shuts the worker down, waiting for the in-flight delivery to finish.
func (w *Worker) Stop(ctx context.Context) error {
	w.logger.Info("stopping worker")

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("worker stopped")
	case <-ctx.Done():
		w.logger.Warn("worker stop timed out")
	}
	return nil
}

// run is the receive-process-acknowledge loop.
func (w *Worker) run() {
	defer w.wg.Done()

	for {
		delivery, err := w.consumer.Fetch(w.ctx)
		if err != nil {
			if w.ctx.Err() != nil {
				return
			}
			w.logger.Error("fetch failed", "error", err)
			if !w.sleep(w.cfg.RetryBaseDelay) {
				return
			}
			continue
		}

		w.handle(delivery)

		if w.ctx.Err() != nil {
			return
		}
	}
}

// handle processes one delivery end to end. The delivery is acknowledged only
// after its request reached a terminal status.
func (w *Worker) handle(delivery channel.Delivery) {
	env := delivery.Envelope

	w.checkSequence(env)

	status, reason := w.process(env)

	if !w.resolve(env.RequestID, status, reason) {
		// Shutdown before the status landed; leave unacked for redelivery.
		return
	}

	for {
		if err := delivery.Ack(w.ctx); err == nil {
			return
		} else if w.ctx.Err() != nil {
			return
		} else {
			w.logger.Warn("ack failed", "request_id", env.RequestID, "error", err)
		}
		if !w.sleep(w.cfg.RetryBaseDelay) {
			return
		}
	}
}

// process applies the business checks and the upsert, returning the terminal
// status for the request.
func (w *Worker) process(env model.Envelope) (model.RequestStatus, string) {
	sub := env.Trade
	today := model.DateOf(w.now().UTC())

	// Time has moved since acceptance; the maturity rule may fail now even
	// though it passed then.
	if rej := validate.CheckMaturity(sub, today); rej != nil {
		w.logger.Info("delivery rejected",
			"request_id", env.RequestID,
			"trade_id", sub.TradeID,
			"version", sub.Version,
			"reason", rej.Reason,
		)
		metrics.Resolutions.WithLabelValues("failed").Inc()
		return model.StatusFailed, rej.Reason
	}

	outcome, err := w.upsertWithRetry(sub)
	if err != nil {
		w.logger.Error("upsert retry budget exhausted",
			"request_id", env.RequestID,
			"trade_id", sub.TradeID,
			"version", sub.Version,
			"error", err,
		)
		metrics.Resolutions.WithLabelValues("failed").Inc()
		return model.StatusFailed, model.ReasonPersistenceFailure
	}

	if outcome == tradestore.OutcomeSuperseded {
		w.logger.Info("delivery superseded",
			"request_id", env.RequestID,
			"trade_id", sub.TradeID,
			"version", sub.Version,
		)
		metrics.Resolutions.WithLabelValues(outcome.String()).Inc()
		return model.StatusFailed, model.ReasonSuperseded
	}

	w.logger.Info("trade persisted",
		"request_id", env.RequestID,
		"trade_id", sub.TradeID,
		"version", sub.Version,
		"outcome", outcome.String(),
	)
	metrics.Resolutions.WithLabelValues(outcome.String()).Inc()
	return model.StatusSuccess, ""
}

// upsertWithRetry attempts the trade store write with exponential backoff
// until it succeeds or the retry budget is spent.
func (w *Worker) upsertWithRetry(sub model.TradeSubmission) (tradestore.Outcome, error) {
	var lastErr error
	wait := w.cfg.RetryBaseDelay

	for attempt := 0; attempt < w.cfg.RetryBudget; attempt++ {
		if attempt > 0 {
			metrics.UpsertRetries.Inc()
			if !w.sleep(wait) {
				return 0, w.ctx.Err()
			}
			wait *= 2
			if wait > w.cfg.RetryMaxDelay {
				wait = w.cfg.RetryMaxDelay
			}
		}

		outcome, err := w.trades.Upsert(w.ctx, sub)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
		w.logger.Warn("upsert attempt failed",
			"trade_id", sub.TradeID,
			"version", sub.Version,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return 0, lastErr
}

// resolve writes the terminal status, retrying until it lands or shutdown.
// Returns false when shutdown interrupted the write.
func (w *Worker) resolve(requestID string, status model.RequestStatus, reason string) bool {
	wait := w.cfg.RetryBaseDelay

	for {
		err := w.requests.Transition(w.ctx, requestID, status, reason)
		if err == nil {
			return true
		}
		if errors.Is(err, lifecycle.ErrNotFound) {
			// Record gone (expired or never created); nothing to resolve.
			w.logger.Error("no lifecycle record to resolve",
				"request_id", requestID,
				"status", status,
			)
			return true
		}
		if w.ctx.Err() != nil {
			return false
		}

		w.logger.Warn("status write failed, retrying",
			"request_id", requestID,
			"status", status,
			"error", err,
		)
		if !w.sleep(wait) {
			return false
		}
		wait *= 2
		if wait > w.cfg.RetryMaxDelay {
			wait = w.cfg.RetryMaxDelay
		}
	}
}

// checkSequence flags deliveries arriving out of publish order.
func (w *Worker) checkSequence(env model.Envelope) {
	tradeID := env.Trade.TradeID
	if last, ok := w.lastSeq[tradeID]; ok && env.Sequence < last {
		w.logger.Warn("out-of-order delivery",
			"request_id", env.RequestID,
			"trade_id", tradeID,
			"sequence", env.Sequence,
			"last_sequence", last,
		)
		return
	}
	w.lastSeq[tradeID] = env.Sequence
}

// sleep waits for d or shutdown. Returns false on shutdown.
func (w *Worker) sleep(d time.Duration) bool {
	select {
	case <-w.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
