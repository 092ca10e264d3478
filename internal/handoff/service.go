// Package handoff generates SBAR transfer-of-care summaries from the
// session aggregate and the radio transcript, with a PDF export.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
	"resq-server/internal/session"
)

// ErrEmptyTranscript rejects a handoff with nothing to summarize.
var ErrEmptyTranscript = errors.New("transcript is empty")

// ErrGenerationFailed signals that the reasoning service was configured
// but could not produce a summary. Unlike the risk pipeline, a handoff
// is a deliverable; the failure is surfaced, not silently degraded.
var ErrGenerationFailed = errors.New("unable to generate SBAR handoff at this time")

// TranscriptEntry is one timestamped radio statement.
type TranscriptEntry struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
}

// Service builds the SBAR summary. The reasoning client may be nil; the
// deterministic fallback is used then.
type Service struct {
	reasoning agent.ReasoningClient
	logger    zerolog.Logger
}

func NewService(reasoning agent.ReasoningClient, logger zerolog.Logger) *Service {
	return &Service{reasoning: reasoning, logger: logger}
}

// Generate produces the four-part SBAR text for one session.
func (s *Service) Generate(ctx context.Context, sess *session.Session, entries []TranscriptEntry) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyTranscript
	}

	patientContext := buildPatientContext(sess)

	if s.reasoning == nil {
		latest := entries[len(entries)-1].Text
		return "SBAR Handoff:\n" +
			fmt.Sprintf("S: Incoming EMS unit with patient requiring evaluation. Latest note: %s\n", latest) +
			fmt.Sprintf("B: %s\n", strings.TrimSpace(patientContext)) +
			"A: Awaiting AI assessment (reasoning service not configured).\n" +
			"R: Continue monitoring and follow local protocols.", nil
	}

	systemPrompt := "You are an EMS communications expert generating concise SBAR handoffs. " +
		"Use the provided transcript and patient context to craft a 4-part SBAR summary " +
		"with complete sentences under 60 words per section."

	transcriptLines := make([]string, 0, len(entries))
	for _, e := range entries {
		transcriptLines = append(transcriptLines, fmt.Sprintf("%s (%s): %s", strings.ToUpper(e.Speaker), e.Timestamp, e.Text))
	}

	userPrompt := fmt.Sprintf("Patient Context:\n%s\n\nTranscript:\n%s\n\nPlease output using this template:\nS: ...\nB: ...\nA: ...\nR: ...",
		patientContext, strings.Join(transcriptLines, "\n"))

	summary, err := s.reasoning.Complete(ctx, systemPrompt, userPrompt, agent.CompletionOptions{
		Temperature: 0.2,
		MaxTokens:   220,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.SessionID).Msg("SBAR generation failed")
		return "", ErrGenerationFailed
	}
	return summary, nil
}

func buildPatientContext(sess *session.Session) string {
	return fmt.Sprintf(
		"Patient Allergies: %s\nCurrent Medications: %s\nMedical Conditions: %s\nLast Recorded Vitals: BP %s, HR %s, SpO2 %s, RR %s",
		joinOr(sess.History.Allergies, "None reported"),
		joinOr(sess.History.CurrentMedications, "None"),
		joinOr(sess.History.MedicalConditions, "Unknown"),
		strOr(sess.Vitals.BloodPressure),
		intOr(sess.Vitals.Pulse),
		intOr(sess.Vitals.SpO2),
		intOr(sess.Vitals.RespiratoryRate),
	)
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func strOr(v *string) string {
	if v == nil || *v == "" {
		return "N/A"
	}
	return *v
}

func intOr(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
