// Package risk implements the layered risk-analysis pipeline: local
// drug-interaction checks first, then the reasoning service, with a
// keyword fallback when no service is configured. Known deterministic
// risks are never overridden or delayed by external reasoning.
package risk

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
	"resq-server/internal/interaction"
	"resq-server/internal/session"
)

// Status is the final safety call of an analysis pass.
type Status string

const (
	StatusSafe    Status = "SAFE"
	StatusWarning Status = "WARNING"
)

// Source tells which pipeline stage produced the verdict.
type Source string

const (
	SourceInteractionDB    Source = "INTERACTION_DB"
	SourceReasoningService Source = "REASONING_SERVICE"
	SourceLocalFallback    Source = "LOCAL_FALLBACK"
	SourceUnavailable      Source = "UNAVAILABLE"
)

// Verdict is the outcome of one analysis pass. It always resolves to
// SAFE or WARNING, never "unknown". Detail carries the raw stage
// diagnostics (the unparsed reply or failure text) and is serialized as
// raw_response so callers can surface it.
type Verdict struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"raw_response,omitempty"`
	Source Source `json:"source"`
}

// riskPhrase maps a transcript phrase to a warning reason. The table is
// ordered; the first match wins.
type riskPhrase struct {
	phrase string
	reason string
}

var fallbackPhrases = []riskPhrase{
	{"shock", "Possible shock detected"},
	{"hypotension", "Hypotension detected"},
	{"dropping", "Unstable vitals detected"},
	{"bleeding", "Active hemorrhage detected"},
	{"unconscious", "Altered mental status detected"},
	{"seizure", "Seizure activity detected"},
	{"difficulty breathing", "Respiratory distress detected"},
	{"chest pain", "Cardiac event detected"},
	{"tachycardia", "High heart rate detected"},
	{"bradycardia", "Low heart rate detected"},
	{"desaturation", "Low oxygen saturation detected"},
	{"hypoxia", "Hypoxia detected"},
	{"stroke", "Possible stroke symptoms"},
	{"slurred", "Neurological deficit detected"},
	{"diaphoretic", "Sign of distress detected"},
	{"pale", "Sign of shock/distress detected"},
}

// Pipeline orchestrates the analysis stages. The reasoning client may be
// nil, in which case the keyword fallback covers stage two.
type Pipeline struct {
	checker   *interaction.Checker
	reasoning agent.ReasoningClient
	logger    zerolog.Logger
}

func NewPipeline(checker *interaction.Checker, reasoning agent.ReasoningClient, logger zerolog.Logger) *Pipeline {
	return &Pipeline{checker: checker, reasoning: reasoning, logger: logger}
}

// Analyze runs the stages in strict precedence. A stage is only reached
// when the prior stage found nothing. External-service failures degrade
// to a SAFE verdict with SourceUnavailable; they never surface as errors.
func (p *Pipeline) Analyze(ctx context.Context, transcript string, history session.History, administeredMeds []string) Verdict {
	// Stage 1: local interaction check. Authoritative; bypasses the
	// reasoning service entirely.
	if warnings := p.checker.Check(history.CurrentMedications, administeredMeds); len(warnings) > 0 {
		reasons := make([]string, 0, len(warnings))
		for _, w := range warnings {
			reasons = append(reasons, fmt.Sprintf("%s - %s + %s: %s", w.Risk, w.Administered, w.Current, w.Recommendation))
		}
		reason := strings.Join(reasons, "; ")
		return Verdict{
			Status: StatusWarning,
			Reason: reason,
			Detail: "Drug interaction detected: " + reason,
			Source: SourceInteractionDB,
		}
	}

	// Stage 2: local keyword scan when no reasoning service is configured.
	if p.reasoning == nil {
		lower := strings.ToLower(transcript)
		for _, rp := range fallbackPhrases {
			if strings.Contains(lower, rp.phrase) {
				return Verdict{
					Status: StatusWarning,
					Reason: rp.reason,
					Detail: "Local detection: " + rp.reason,
					Source: SourceLocalFallback,
				}
			}
		}
		return Verdict{
			Status: StatusSafe,
			Detail: "Reasoning service not configured. No obvious risks detected locally.",
			Source: SourceUnavailable,
		}
	}

	// Stage 3: reasoning service.
	reply, err := p.reasoning.Complete(ctx, safetySystemPrompt, p.buildPrompt(transcript, history, administeredMeds), agent.CompletionOptions{
		Temperature: 0.1,
		MaxTokens:   150,
	})
	if err != nil {
		// Stage 4: degrade, preserving the failure detail.
		p.logger.Warn().Err(err).Msg("reasoning service unavailable, using local checks only")
		return Verdict{
			Status: StatusSafe,
			Detail: fmt.Sprintf("Analysis unavailable: %v", err),
			Source: SourceUnavailable,
		}
	}

	return parseReply(reply)
}

const safetySystemPrompt = "You are a medical safety guardrail AI for emergency medical services. " +
	"Analyze the input for potential medical errors, drug contraindications, dosage concerns, or protocol violations based on the patient's history. " +
	"Reply ONLY with 'SAFE' if no issues detected, or 'WARNING: [Specific Reason]' if a risk is identified. " +
	"Be concise and specific about the risk."

func (p *Pipeline) buildPrompt(transcript string, history session.History, administeredMeds []string) string {
	return fmt.Sprintf(`Patient Context:
Patient Allergies: %s
Current Medications: %s
Medical Conditions: %s
Medications Administered This Session: %s

Paramedic Transcript:
%s

Analysis:`,
		joinOr(history.Allergies, "None reported"),
		joinOr(history.CurrentMedications, "None"),
		joinOr(history.MedicalConditions, "None"),
		joinOr(administeredMeds, "None yet"),
		transcript,
	)
}

// parseReply maps the free-text reply to a verdict. Anything that is not
// an explicit SAFE is treated as a warning; ambiguity is never safe.
func parseReply(reply string) Verdict {
	switch {
	case strings.HasPrefix(reply, "SAFE"):
		return Verdict{Status: StatusSafe, Detail: reply, Source: SourceReasoningService}
	case strings.HasPrefix(reply, "WARNING:"):
		return Verdict{
			Status: StatusWarning,
			Reason: strings.TrimSpace(strings.TrimPrefix(reply, "WARNING:")),
			Detail: reply,
			Source: SourceReasoningService,
		}
	default:
		return Verdict{
			Status: StatusWarning,
			Reason: "Unusual AI response: " + reply,
			Detail: reply,
			Source: SourceReasoningService,
		}
	}
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
