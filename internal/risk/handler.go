package risk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"resq-server/internal/agent"
	"resq-server/internal/metrics"
	"resq-server/internal/session"
)

// DispatchNotifier pushes a warning to the dispatch channel. Defined
// here to decouple from the concrete Telegram client.
type DispatchNotifier interface {
	NotifyWarning(text string) error
}

// Handler wires the risk pipeline to its transport: it loads the
// session, runs the analysis, records WARNING outcomes in the session
// audit trail, and attaches an audio alert when speech is configured.
type Handler struct {
	pipeline *Pipeline
	sessions *session.Service
	speech   agent.SpeechClient
	notifier DispatchNotifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewHandler(pipeline *Pipeline, sessions *session.Service, speech agent.SpeechClient, notifier DispatchNotifier, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		sessions: sessions,
		speech:   speech,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
	SessionID  string `json:"session_id"`
}

type analyzeResponse struct {
	SessionID  string  `json:"session_id"`
	Analysis   Verdict `json:"analysis"`
	AudioAlert *string `json:"audio_alert"`
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		http.Error(w, "transcript is required", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	verdict := h.pipeline.Analyze(r.Context(), req.Transcript, sess.History, sess.MedicationNames())
	if h.metrics != nil {
		h.metrics.Verdicts.WithLabelValues(string(verdict.Status), string(verdict.Source)).Inc()
	}

	resp := analyzeResponse{SessionID: req.SessionID, Analysis: verdict}

	// Only WARNING verdicts are recorded and alerted; SAFE leaves no
	// trace in the session audit trail.
	if verdict.Status == StatusWarning {
		if _, err := h.sessions.AppendWarning(r.Context(), req.SessionID, verdict.Reason); err != nil {
			h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to record warning")
		}

		alertText := "Warning: " + verdict.Reason
		if audio := h.synthesizeAlert(r.Context(), alertText); len(audio) > 0 {
			encoded := base64.StdEncoding.EncodeToString(audio)
			resp.AudioAlert = &encoded
		}

		if h.notifier != nil {
			if err := h.notifier.NotifyWarning(alertText); err != nil {
				h.logger.Warn().Err(err).Msg("dispatch notification failed")
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// synthesizeAlert degrades to no audio on any failure; an alert voice
// that cannot be produced must never block the verdict.
func (h *Handler) synthesizeAlert(ctx context.Context, text string) []byte {
	if h.speech == nil {
		return nil
	}
	audio, err := h.speech.Synthesize(ctx, text, "")
	if err != nil {
		h.logger.Warn().Err(err).Msg("audio alert generation failed")
		return nil
	}
	return audio
}

type speakRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}
	if h.speech == nil {
		http.Error(w, "Speech synthesis not configured", http.StatusServiceUnavailable)
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), req.Text, "")
	if err != nil {
		http.Error(w, "Failed to generate audio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"audio_base64": base64.StdEncoding.EncodeToString(audio),
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/analyze", h.Analyze)
	r.Post("/speak", h.Speak)
}
