package protocol

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
)

// Service layers reasoning-backed protocol generation and protocol Q&A
// over the pure matcher. The reasoning client may be nil; every path
// then falls back to catalog text.
type Service struct {
	matcher   *Matcher
	reasoning agent.ReasoningClient
	logger    zerolog.Logger
}

func NewService(matcher *Matcher, reasoning agent.ReasoningClient, logger zerolog.Logger) *Service {
	return &Service{matcher: matcher, reasoning: reasoning, logger: logger}
}

func (s *Service) Search(symptom string, limit int) ([]Match, error) {
	return s.matcher.Match(symptom, limit)
}

func (s *Service) Catalog() []Entry {
	return s.matcher.Catalog()
}

// GenerateResult is a protocol search or generation response with its
// provenance attached.
type GenerateResult struct {
	Protocols []Match `json:"protocols"`
	Source    string  `json:"source"`
}

// Generate serves a static catalog match when one exists and otherwise
// asks the reasoning service to draft a protocol. With no service
// configured it returns the general-assessment fallback.
func (s *Service) Generate(ctx context.Context, symptom string, limit int) (GenerateResult, error) {
	matches, err := s.matcher.Match(symptom, limit)
	if err != nil {
		return GenerateResult{}, err
	}
	// The matcher never returns an empty list; a genuine keyword hit is a
	// static result, while the fallback-scored default entry means the
	// catalog had nothing and generation should take over.
	if len(matches) > 0 && !(matches[0].Entry.Default && matches[0].Score == fallbackScore) {
		return GenerateResult{Protocols: matches, Source: "static_db"}, nil
	}

	if s.reasoning == nil {
		return GenerateResult{
			Protocols: []Match{{
				Entry: Entry{
					Name:              "General Assessment (AI Unavailable)",
					Guidance:          "Perform standard primary assessment. Monitor vitals. Transport to nearest facility.",
					Contraindications: []string{},
				},
				Score: fallbackScore,
			}},
			Source: "fallback",
		}, nil
	}

	systemPrompt := "You are an expert EMS Medical Director. " +
		"Generate a standard EMS protocol for the requested symptom. " +
		"Format: Protocol Name, Detailed Steps, Contraindications."

	content, err := s.reasoning.Complete(ctx, systemPrompt, "Generate EMS protocol for: "+symptom, agent.CompletionOptions{
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("symptom", symptom).Msg("protocol generation failed")
		return GenerateResult{
			Protocols: []Match{{
				Entry: Entry{
					Name:              "Error Generating Protocol",
					Guidance:          "Please follow standard operating procedures.",
					Contraindications: []string{},
				},
			}},
			Source: "error",
		}, nil
	}

	return GenerateResult{
		Protocols: []Match{{
			Entry: Entry{
				Name:              "Dynamic Protocol: " + symptom,
				Guidance:          content,
				Contraindications: []string{"AI Generated - Verify with Medical Control"},
			},
			Score: 0.8,
		}},
		Source: "ai_generated",
	}, nil
}

// AssistantAnswer carries the Q&A reply and which protocol grounded it.
type AssistantAnswer struct {
	Response    string `json:"response"`
	ContextUsed string `json:"context_used,omitempty"`
}

// Ask answers a free-text protocol question: the best catalog match
// provides the context, the reasoning service phrases the answer, and
// the raw protocol text is the fallback at every failure point.
func (s *Service) Ask(ctx context.Context, query string) (AssistantAnswer, error) {
	if query == "" {
		return AssistantAnswer{}, fmt.Errorf("query is required")
	}

	matches, err := s.matcher.Match(strings.ToLower(query), 1)
	if err != nil {
		return AssistantAnswer{}, err
	}

	contextText := "No specific local protocol found. Use general EMS knowledge."
	contextUsed := "General"
	if len(matches) > 0 {
		best := matches[0]
		contextText = fmt.Sprintf("Relevant Protocol: %s\nDetails: %s\nContraindications: %s",
			best.Entry.Name, best.Entry.Guidance, strings.Join(best.Entry.Contraindications, ", "))
		contextUsed = best.Entry.Name
	}

	if s.reasoning == nil {
		if len(matches) > 0 {
			return AssistantAnswer{
				Response: fmt.Sprintf("Protocol: %s. %s", matches[0].Entry.Name, matches[0].Entry.Guidance),
			}, nil
		}
		return AssistantAnswer{Response: "I couldn't find a protocol for that and AI is offline."}, nil
	}

	systemPrompt := "You are an expert EMS Assistant. " +
		"Answer the user's question briefly and accurately based on the provided protocol context. " +
		"Keep the answer under 2 sentences. Speak naturally as if over a radio. " +
		"If the protocol context doesn't answer the question, use your general medical knowledge but mention it's general advice."

	userPrompt := fmt.Sprintf("Context:\n%s\n\nUser Question:\n%s\n\nAnswer:", contextText, query)

	reply, err := s.reasoning.Complete(ctx, systemPrompt, userPrompt, agent.CompletionOptions{
		Temperature: 0.1,
		MaxTokens:   150,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("assistant reasoning call failed")
		if len(matches) > 0 {
			return AssistantAnswer{Response: "Fallback: " + matches[0].Entry.Guidance}, nil
		}
		return AssistantAnswer{Response: "I'm having trouble connecting to the AI right now."}, nil
	}

	return AssistantAnswer{Response: reply, ContextUsed: contextUsed}, nil
}
