package risk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"resq-server/internal/agent"
	"resq-server/internal/interaction"
	"resq-server/internal/session"
)

type stubReasoning struct {
	reply  string
	err    error
	called bool
}

func (s *stubReasoning) Complete(_ context.Context, _, _ string, _ agent.CompletionOptions) (string, error) {
	s.called = true
	return s.reply, s.err
}

func newTestPipeline(reasoning agent.ReasoningClient) *Pipeline {
	return NewPipeline(interaction.NewChecker(interaction.DefaultRules()), reasoning, zerolog.Nop())
}

func TestAnalyzeInteractionOverridesReasoning(t *testing.T) {
	// A known interaction must produce a WARNING even when the reasoning
	// service would say SAFE, and without consulting it at all.
	stub := &stubReasoning{reply: "SAFE"}
	p := newTestPipeline(stub)

	verdict := p.Analyze(context.Background(), "administering aspirin now",
		session.History{CurrentMedications: []string{"warfarin"}},
		[]string{"aspirin"})

	if verdict.Status != StatusWarning {
		t.Fatalf("expected WARNING, got %s", verdict.Status)
	}
	if verdict.Source != SourceInteractionDB {
		t.Errorf("expected INTERACTION_DB source, got %s", verdict.Source)
	}
	if stub.called {
		t.Error("reasoning service must not be consulted for a known interaction")
	}
	if !strings.Contains(verdict.Reason, "aspirin") {
		t.Errorf("reason should name the drug: %q", verdict.Reason)
	}
}

func TestAnalyzeFallbackPhraseScan(t *testing.T) {
	p := newTestPipeline(nil)

	verdict := p.Analyze(context.Background(), "patient is unconscious on the floor",
		session.History{}, nil)

	if verdict.Status != StatusWarning {
		t.Fatalf("expected WARNING, got %s", verdict.Status)
	}
	if verdict.Source != SourceLocalFallback {
		t.Errorf("expected LOCAL_FALLBACK source, got %s", verdict.Source)
	}
	if verdict.Reason != "Altered mental status detected" {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
}

func TestAnalyzeFallbackFirstPhraseWins(t *testing.T) {
	p := newTestPipeline(nil)

	// "shock" precedes "bleeding" in the table; with both present the
	// earlier entry decides the reason.
	verdict := p.Analyze(context.Background(), "bleeding heavily, likely going into shock",
		session.History{}, nil)

	if verdict.Reason != "Possible shock detected" {
		t.Errorf("expected the shock entry to win, got %q", verdict.Reason)
	}
}

func TestAnalyzeNoReasoningCleanTranscriptIsSafe(t *testing.T) {
	p := newTestPipeline(nil)

	verdict := p.Analyze(context.Background(), "vitals stable, patient comfortable",
		session.History{}, nil)

	if verdict.Status != StatusSafe {
		t.Fatalf("expected SAFE, got %s", verdict.Status)
	}
	if verdict.Source != SourceUnavailable {
		t.Errorf("expected UNAVAILABLE source, got %s", verdict.Source)
	}
}

func TestAnalyzeReasoningSafeReply(t *testing.T) {
	p := newTestPipeline(&stubReasoning{reply: "SAFE"})

	verdict := p.Analyze(context.Background(), "gave oxygen", session.History{}, nil)

	if verdict.Status != StatusSafe {
		t.Fatalf("expected SAFE, got %s", verdict.Status)
	}
	if verdict.Source != SourceReasoningService {
		t.Errorf("expected REASONING_SERVICE source, got %s", verdict.Source)
	}
}

func TestAnalyzeReasoningWarningReply(t *testing.T) {
	p := newTestPipeline(&stubReasoning{reply: "WARNING: Dose exceeds protocol maximum"})

	verdict := p.Analyze(context.Background(), "pushing 20mg morphine", session.History{}, nil)

	if verdict.Status != StatusWarning {
		t.Fatalf("expected WARNING, got %s", verdict.Status)
	}
	if verdict.Reason != "Dose exceeds protocol maximum" {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
}

func TestAnalyzeAmbiguousReplyIsWarning(t *testing.T) {
	// An answer that fits neither template must err on the side of caution.
	p := newTestPipeline(&stubReasoning{reply: "I am not sure what you mean"})

	verdict := p.Analyze(context.Background(), "something unusual", session.History{}, nil)

	if verdict.Status != StatusWarning {
		t.Fatalf("expected WARNING for ambiguous reply, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "Unusual AI response:") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
}

func TestAnalyzeReasoningFailureDegradesToSafe(t *testing.T) {
	p := newTestPipeline(&stubReasoning{err: errors.New("connection refused")})

	verdict := p.Analyze(context.Background(), "transport initiated", session.History{}, nil)

	if verdict.Status != StatusSafe {
		t.Fatalf("expected SAFE on service failure, got %s", verdict.Status)
	}
	if verdict.Source != SourceUnavailable {
		t.Errorf("expected UNAVAILABLE source, got %s", verdict.Source)
	}
	if !strings.Contains(verdict.Detail, "connection refused") {
		t.Errorf("detail should preserve the failure: %q", verdict.Detail)
	}
}
