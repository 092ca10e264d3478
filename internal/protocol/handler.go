package protocol

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type searchRequest struct {
	Symptom string `json:"symptom"`
	Limit   int    `json:"limit"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Symptom == "" {
		http.Error(w, "symptom is required", http.StatusBadRequest)
		return
	}
	if req.Limit == 0 {
		req.Limit = 3
	}

	matches, err := h.svc.Search(req.Symptom, req.Limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"symptom":   req.Symptom,
		"protocols": matches,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	catalog := h.svc.Catalog()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":     len(catalog),
		"protocols": catalog,
	})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Symptom == "" {
		http.Error(w, "symptom is required", http.StatusBadRequest)
		return
	}
	if req.Limit == 0 {
		req.Limit = 3
	}

	result, err := h.svc.Generate(r.Context(), req.Symptom, req.Limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type askRequest struct {
	Query string `json:"query"`
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.Query)
	if err != nil {
		http.Error(w, "Failed to answer question", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/protocol/search", h.Search)
	r.Get("/protocols/list", h.List)
	r.Post("/protocol/generate", h.Generate)
	r.Post("/assistant/ask", h.Ask)
}
