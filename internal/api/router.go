package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// NewRouter builds the HTTP routing table around a Handler and wraps it with
// the correlation-id middleware.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/trades", h.SubmitTrade)
	mux.HandleFunc("GET /api/v1/trades", h.ListTrades)
	mux.HandleFunc("GET /api/v1/trades/{trade_id}", h.GetTradeVersions)
	mux.HandleFunc("GET /api/v1/requests/{request_id}", h.GetRequestStatus)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	return correlationMiddleware(mux, logger)
}

// correlationMiddleware accepts or generates an X-Correlation-ID, echoes it
// on the response, and logs one line per request.
func correlationMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		w.Header().Set("X-Correlation-ID", correlationID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"correlation_id", correlationID,
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
