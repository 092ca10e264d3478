package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-server/internal/session"
)

type Handler struct {
	svc      *Service
	sessions *session.Service
}

func NewHandler(svc *Service, sessions *session.Service) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

type generateRequest struct {
	SessionID         string            `json:"session_id"`
	TranscriptEntries []TranscriptEntry `json:"transcript_entries"`
}

func (h *Handler) loadAndGenerate(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return nil, "", false
	}

	sess, err := h.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return nil, "", false
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return nil, "", false
	}

	summary, err := h.svc.Generate(r.Context(), sess, req.TranscriptEntries)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyTranscript):
			http.Error(w, "Transcript is empty.", http.StatusBadRequest)
		case errors.Is(err, ErrGenerationFailed):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, "Failed to generate handoff", http.StatusInternalServerError)
		}
		return nil, "", false
	}
	return sess, summary, true
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sess, summary, ok := h.loadAndGenerate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"session_id": sess.SessionID,
		"summary":    summary,
	})
}

func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	sess, summary, ok := h.loadAndGenerate(w, r)
	if !ok {
		return
	}

	pdfBytes, err := ExportPDF(sess, summary)
	if err != nil {
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=handoff_%s.pdf", sess.SessionID))
	w.Write(pdfBytes)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/handoff/generate", h.Generate)
	r.Post("/handoff/pdf", h.GeneratePDF)
	// Older clients still call the summary by its SBAR name.
	r.Post("/sbar/generate", h.Generate)
}
