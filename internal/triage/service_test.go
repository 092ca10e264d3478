package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
)

type stubReasoning struct {
	reply string
	err   error
}

func (s *stubReasoning) Complete(_ context.Context, _, _ string, _ agent.CompletionOptions) (string, error) {
	return s.reply, s.err
}

func TestClassifyWithAdviceNoReasoningUsesFallbackTexts(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	result := svc.ClassifyWithAdvice(context.Background(), Input{
		Symptoms: []string{"chest pain"}, Breathing: true, CanWalk: true, MentalStatus: StatusAlert,
	})
	if result.Level != 2 {
		t.Fatalf("expected level 2, got %d", result.Level)
	}
	if result.Rationale != fallbackRationale || result.Advice != fallbackAdvice {
		t.Errorf("expected fallback enrichment, got %q / %q", result.Rationale, result.Advice)
	}
}

func TestClassifyWithAdviceParsesRationaleAndAdvice(t *testing.T) {
	svc := NewService(&stubReasoning{reply: "High-risk cardiac presentation.|Obtain 12-lead ECG."}, zerolog.Nop())

	result := svc.ClassifyWithAdvice(context.Background(), Input{
		Symptoms: []string{"chest pain"}, Breathing: true, CanWalk: true, MentalStatus: StatusAlert,
	})
	if result.Rationale != "High-risk cardiac presentation." {
		t.Errorf("unexpected rationale: %q", result.Rationale)
	}
	if result.Advice != "Obtain 12-lead ECG." {
		t.Errorf("unexpected advice: %q", result.Advice)
	}
}

func TestClassifyWithAdviceUnparseableReplyKeepsLevel(t *testing.T) {
	svc := NewService(&stubReasoning{reply: "no delimiter here"}, zerolog.Nop())

	result := svc.ClassifyWithAdvice(context.Background(), Input{
		Symptoms: []string{"sprained ankle"}, Breathing: true, CanWalk: true, MentalStatus: StatusAlert,
	})
	if result.Level != 4 {
		t.Fatalf("expected level 4, got %d", result.Level)
	}
	if result.Rationale != "no delimiter here" {
		t.Errorf("unexpected rationale: %q", result.Rationale)
	}
	if result.Advice != "Monitor patient closely." {
		t.Errorf("unexpected advice: %q", result.Advice)
	}
}

func TestClassifyWithAdviceReasoningFailureKeepsLevel(t *testing.T) {
	svc := NewService(&stubReasoning{err: errors.New("boom")}, zerolog.Nop())

	result := svc.ClassifyWithAdvice(context.Background(), Input{
		Symptoms: []string{}, Breathing: true, CanWalk: true, MentalStatus: StatusAlert,
	})
	if result.Level != 5 {
		t.Fatalf("expected level 5, got %d", result.Level)
	}
	if result.Rationale != fallbackRationale {
		t.Errorf("expected fallback rationale on failure, got %q", result.Rationale)
	}
}
