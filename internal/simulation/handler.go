package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-server/internal/session"
)

type Handler struct {
	runner   *Runner
	sessions *session.Service
}

func NewHandler(runner *Runner, sessions *session.Service) *Handler {
	return &Handler{runner: runner, sessions: sessions}
}

// Start kicks off the background vitals simulation for a session. The
// session must exist; the loop itself is fire-and-forget.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	// Detached from the request context; the simulation outlives the call.
	h.runner.Start(context.Background(), id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Simulation started"})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session/{sessionID}/simulate", h.Start)
}
