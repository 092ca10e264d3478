package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.Create(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Session created",
		"session": sess,
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (h *Handler) UpdateVitals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var vitals Vitals
	if err := json.NewDecoder(r.Body).Decode(&vitals); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.ReplaceVitals(r.Context(), id, vitals)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update vitals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Vitals updated",
		"session": sess,
	})
}

type addMedicationRequest struct {
	Medication string `json:"medication"`
}

func (h *Handler) AddMedication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req addMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Medication == "" {
		http.Error(w, "medication is required", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.AppendMedication(r.Context(), id, req.Medication)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to log medication", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Medication logged",
		"session": sess,
	})
}

func (h *Handler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var history History
	if err := json.NewDecoder(r.Body).Decode(&history); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.UpdateHistory(r.Context(), id, history)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "History updated",
		"session": sess,
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session/create", h.CreateSession)
	r.Get("/session/{sessionID}", h.GetSession)
	r.Post("/session/{sessionID}/update-vitals", h.UpdateVitals)
	r.Post("/session/{sessionID}/add-medication", h.AddMedication)
	r.Post("/session/{sessionID}/update-history", h.UpdateHistory)
}
