package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns the in-memory aggregate during a request and writes it
// back through the Store. Every mutation refreshes UpdatedAt and
// persists the full aggregate.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new empty session under a caller-assigned ID.
func (s *Service) Create(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	sess := NewSession(id)
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session; ErrNotFound for unknown IDs.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// ReplaceVitals overwrites the vitals snapshot wholesale.
func (s *Service) ReplaceVitals(ctx context.Context, id string, vitals Vitals) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if vitals.CapturedAt.IsZero() {
		vitals.CapturedAt = time.Now().UTC()
	}
	sess.Vitals = vitals
	return sess, s.save(ctx, sess)
}

// AppendMedication logs an administered medication.
func (s *Service) AppendMedication(ctx context.Context, id string, name string) (*Session, error) {
	if name == "" {
		return nil, fmt.Errorf("medication name is required")
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.AdministeredMedications = append(sess.AdministeredMedications, MedicationEvent{
		Name:           name,
		AdministeredAt: time.Now().UTC(),
	})
	return sess, s.save(ctx, sess)
}

// AppendAction records a care action taken during the encounter.
func (s *Service) AppendAction(ctx context.Context, id string, action string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.ActionsTaken = append(sess.ActionsTaken, action)
	return sess, s.save(ctx, sess)
}

// AppendWarning records an issued safety warning in the audit trail.
func (s *Service) AppendWarning(ctx context.Context, id string, message string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Warnings = append(sess.Warnings, WarningRecord{
		ID:       uuid.New(),
		IssuedAt: time.Now().UTC(),
		Message:  message,
	})
	return sess, s.save(ctx, sess)
}

// UpdateHistory replaces the patient background block.
func (s *Service) UpdateHistory(ctx context.Context, id string, history History) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.History = history
	return sess, s.save(ctx, sess)
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	now := time.Now().UTC()
	// UpdatedAt is monotonically non-decreasing even if the clock skews.
	if now.After(sess.UpdatedAt) {
		sess.UpdatedAt = now
	}
	return s.store.Put(ctx, sess)
}
