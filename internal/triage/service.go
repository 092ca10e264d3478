package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
)

// Fallback enrichment texts when the reasoning service is unavailable.
const (
	fallbackRationale = "AI analysis unavailable."
	fallbackAdvice    = "Follow standard protocols."
)

// Service wraps the pure classifier with optional reasoning-service
// enrichment. The reasoning client may be nil.
type Service struct {
	reasoning agent.ReasoningClient
	logger    zerolog.Logger
}

func NewService(reasoning agent.ReasoningClient, logger zerolog.Logger) *Service {
	return &Service{reasoning: reasoning, logger: logger}
}

// ClassifyWithAdvice computes the acuity level and, when a reasoning
// client is configured, asks it for a rationale and advice. Enrichment
// failure never changes the level; the fixed fallback texts are used.
func (s *Service) ClassifyWithAdvice(ctx context.Context, in Input) Result {
	result := Classify(in)
	result.Rationale = fallbackRationale
	result.Advice = fallbackAdvice

	if s.reasoning == nil {
		return result
	}

	systemPrompt := "You are an expert Triage Nurse. " +
		"Explain the assigned ESI Level and provide specific clinical advice. " +
		"Format: Rationale|Advice. Keep it concise."

	userPrompt := fmt.Sprintf(
		"Patient: %s\nVitals: HR %s, RR %s, %s\nAssigned ESI: Level %d (%s)\n\n"+
			"Provide:\n1. Clinical Rationale (Why this level?)\n2. Specific Advice (What to do next?)",
		strings.Join(in.Symptoms, ", "),
		formatOptional(in.Pulse), formatOptional(in.RespiratoryRate),
		in.MentalStatus, result.Level, result.Label,
	)

	reply, err := s.reasoning.Complete(ctx, systemPrompt, userPrompt, agent.CompletionOptions{
		Temperature: 0.2,
		MaxTokens:   100,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("level", result.Level).Msg("triage enrichment unavailable")
		return result
	}

	parts := strings.SplitN(reply, "|", 2)
	if len(parts) == 2 {
		result.Rationale = strings.TrimSpace(parts[0])
		result.Advice = strings.TrimSpace(parts[1])
	} else {
		result.Rationale = reply
		result.Advice = "Monitor patient closely."
	}
	return result
}

func formatOptional(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
