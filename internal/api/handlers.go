package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fxrhxn/risk-var/internal/kafka"
	"github.com/fxrhxn/risk-var/internal/marketdata"
	"github.com/fxrhxn/risk-var/internal/models"
	"github.com/fxrhxn/risk-var/internal/risk"
)

// VarEngine computes a VaR estimate for a return series
type VarEngine interface {
	Compute(method risk.Method, returns []float64, confidence float64) (float64, error)
}

// ReturnsProvider derives a return series and preview for a ticker
type ReturnsProvider interface {
	FetchReturns(ctx context.Context, ticker string) ([]float64, []models.PreviewRow, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine   VarEngine
	provider ReturnsProvider
	producer *kafka.Producer
	log      *logrus.Logger
}

// NewHandler creates a new Handler. The producer may be nil when event
// publishing is disabled.
func NewHandler(engine VarEngine, provider ReturnsProvider, producer *kafka.Producer, log *logrus.Logger) *Handler {
	return &Handler{
		engine:   engine,
		provider: provider,
		producer: producer,
		log:      log,
	}
}

// ComputeVar handles POST /api/compute_var
func (h *Handler) ComputeVar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method     string    `json:"method"`
		Returns    []float64 `json:"returns"`
		Confidence float64   `json:"confidence"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.engine.Compute(risk.Method(req.Method), req.Returns, req.Confidence)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishVarComputed(r.Context(), req.Method, req.Confidence, result); err != nil {
			h.log.WithError(err).Warn("failed to publish var event")
		}
	}

	respondJSON(w, http.StatusOK, map[string]float64{"var": result})
}

// FetchReturns handles POST /api/fetch_returns
func (h *Handler) FetchReturns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}

	returns, preview, err := h.provider.FetchReturns(r.Context(), req.Ticker)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishReturnsFetched(r.Context(), req.Ticker, len(returns)); err != nil {
			h.log.WithError(err).Warn("failed to publish fetch event")
		}
	}

	respondJSON(w, http.StatusOK, fetchResponse{Returns: returns, Preview: preview})
}

type fetchResponse struct {
	Returns []float64           `json:"returns"`
	Preview []models.PreviewRow `json:"preview"`
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, risk.ErrInvalidParameter), errors.Is(err, risk.ErrInvalidMethod):
		return http.StatusBadRequest
	case errors.Is(err, marketdata.ErrUpstream), errors.Is(err, marketdata.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
