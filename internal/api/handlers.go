package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradestack/trade-store/internal/ingest"
	"github.com/tradestack/trade-store/internal/lifecycle"
	"github.com/tradestack/trade-store/internal/model"
	"github.com/tradestack/trade-store/internal/tradestore"
	"github.com/tradestack/trade-store/internal/validate"
)

const (
	retryAfterSeconds  = 60
	unavailableMessage = "Service temporarily unavailable. Please retry later."
	healthTimeout      = 5 * time.Second
)

// Pinger reports connectivity of an external dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the trade store HTTP API.
type Handler struct {
	service  *ingest.Service
	requests lifecycle.Store
	trades   tradestore.Store
	channel  Pinger
	logger   *slog.Logger
}

// NewHandler creates a Handler. channel may be nil when no channel health is
// reportable (it is then marked degraded).
func NewHandler(service *ingest.Service, requests lifecycle.Store, trades tradestore.Store, channel Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:  service,
		requests: requests,
		trades:   trades,
		channel:  channel,
		logger:   logger,
	}
}

// SubmitTrade handles POST /api/v1/trades.
func (h *Handler) SubmitTrade(w http.ResponseWriter, r *http.Request) {
	var sub model.TradeSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if err := validateSubmission(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	requestID, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		var rej *validate.Rejection
		switch {
		case errors.As(err, &rej):
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: rej.Reason})
		case errors.Is(err, ingest.ErrUnavailable):
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusServiceUnavailable, temporaryFailureResponse{
				Status:            "temporary_failure",
				Message:           unavailableMessage,
				RetryAfterSeconds: retryAfterSeconds,
			})
		default:
			h.logger.Error("submission failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusAccepted, acceptedResponse{
		Status:    "accepted",
		RequestID: requestID,
		TradeID:   sub.TradeID,
		Version:   sub.Version,
		Message:   "Trade queued for processing",
	})
}

// GetRequestStatus handles GET /api/v1/requests/{request_id}.
func (h *Handler) GetRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("request_id")

	record, err := h.requests.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "request '" + requestID + "' not found"})
			return
		}
		h.logger.Error("request status read failed", "request_id", requestID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListTrades handles GET /api/v1/trades.
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.trades.List(r.Context())
	if err != nil {
		h.logger.Error("trade list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// GetTradeVersions handles GET /api/v1/trades/{trade_id}.
func (h *Handler) GetTradeVersions(w http.ResponseWriter, r *http.Request) {
	tradeID := r.PathValue("trade_id")

	trades, err := h.trades.ListVersions(r.Context(), tradeID)
	if err != nil {
		h.logger.Error("trade versions read failed", "trade_id", tradeID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}
	if len(trades) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "trade '" + tradeID + "' not found"})
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// Health handles GET /api/v1/health. Degraded when the trade store or the
// channel is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:     "ok",
		Components: make(map[string]string),
	}

	if err := h.trades.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Components["database"] = "error: " + err.Error()
	} else {
		resp.Components["database"] = "ok"
	}

	if h.channel == nil {
		resp.Status = "degraded"
		resp.Components["channel"] = "not configured"
	} else if err := h.channel.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Components["channel"] = "error: " + err.Error()
	} else {
		resp.Components["channel"] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
