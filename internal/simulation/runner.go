// Package simulation drifts a session's vitals in the background so the
// monitoring UI has live-looking data during demos and training runs.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"resq-server/internal/session"
)

const (
	tickInterval = 2 * time.Second
	maxTicks     = 150 // five minutes at a 2s cadence
)

// Runner launches per-session vitals simulations. Simulations are
// independent of the decision pipeline; they only write through the
// session service like any other caller.
type Runner struct {
	sessions *session.Service
	logger   zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRunner(sessions *session.Service, rng *rand.Rand, logger zerolog.Logger) *Runner {
	return &Runner{sessions: sessions, rng: rng, logger: logger}
}

// Start spawns the drift loop for one session. Returns immediately; the
// loop stops after five minutes, on context cancellation, or when the
// session disappears.
func (r *Runner) Start(ctx context.Context, sessionID string) {
	go r.run(ctx, sessionID)
}

func (r *Runner) run(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for i := 0; i < maxTicks; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sess, err := r.sessions.Get(ctx, sessionID)
		if err != nil {
			r.logger.Debug().Err(err).Str("session_id", sessionID).Msg("simulation stopped")
			return
		}

		if _, err := r.sessions.ReplaceVitals(ctx, sessionID, r.drift(sess.Vitals)); err != nil {
			r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("simulation vitals write failed")
			return
		}
	}
}

// drift nudges each vital a small random step and clamps it to the
// plausible physiological range.
func (r *Runner) drift(current session.Vitals) session.Vitals {
	pulse := 80
	if current.Pulse != nil {
		pulse = *current.Pulse
	}
	spo2 := 98
	if current.SpO2 != nil {
		spo2 = *current.SpO2
	}
	systolic := 120
	if current.BloodPressure != nil {
		if parts := strings.SplitN(*current.BloodPressure, "/", 2); len(parts) == 2 {
			var v int
			if _, err := fmt.Sscanf(parts[0], "%d", &v); err == nil {
				systolic = v
			}
		}
	}

	newPulse := clamp(pulse+r.intn(11)-5, 40, 180)
	newSpO2 := clamp(spo2+r.intn(3)-1, 85, 100)
	newSystolic := clamp(systolic+r.intn(11)-5, 80, 200)
	newRR := 12 + r.intn(9)

	bp := fmt.Sprintf("%d/80", newSystolic)
	return session.Vitals{
		BloodPressure:   &bp,
		Pulse:           &newPulse,
		SpO2:            &newSpO2,
		RespiratoryRate: &newRR,
		Temperature:     current.Temperature,
		CapturedAt:      time.Now().UTC(),
	}
}

func (r *Runner) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
