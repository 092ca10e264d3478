package triage

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-server/internal/metrics"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Metrics
}

func NewHandler(svc *Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result := h.svc.ClassifyWithAdvice(r.Context(), in)
	if h.metrics != nil {
		h.metrics.Triage.WithLabelValues(fmt.Sprintf("%d", result.Level)).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/triage/calculate", h.Calculate)
}
