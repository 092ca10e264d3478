// Package session holds the per-patient session aggregate: the single
// source of truth mutated and consumed by the decision pipeline.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Vitals is the latest vital-sign snapshot. It is replaced wholesale on
// every update; no history is kept beyond the most recent capture.
type Vitals struct {
	BloodPressure   *string   `json:"blood_pressure,omitempty"` // "systolic/diastolic"
	Pulse           *int      `json:"pulse,omitempty"`
	SpO2            *int      `json:"spo2,omitempty"`
	RespiratoryRate *int      `json:"respiratory_rate,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	CapturedAt      time.Time `json:"captured_at"`
}

// History is the patient's medical background.
type History struct {
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"current_medications"`
	MedicalConditions  []string `json:"medical_conditions"`
	ChiefComplaint     *string  `json:"chief_complaint,omitempty"`
}

// MedicationEvent records one administered medication.
type MedicationEvent struct {
	Name           string    `json:"medication"`
	AdministeredAt time.Time `json:"timestamp"`
}

// WarningRecord is an issued safety warning. Immutable once created;
// appended to the session, never removed.
type WarningRecord struct {
	ID       uuid.UUID `json:"id"`
	IssuedAt time.Time `json:"timestamp"`
	Message  string    `json:"warning"`
}

// Session is the aggregate root. SessionID is immutable after creation;
// UpdatedAt is refreshed on every mutation and never decreases; all list
// fields are append-only, vitals is replace-only.
type Session struct {
	SessionID               string            `json:"session_id"`
	Vitals                  Vitals            `json:"patient_vitals"`
	History                 History           `json:"patient_history"`
	AdministeredMedications []MedicationEvent `json:"administered_medications"`
	ActionsTaken            []string          `json:"actions_taken"`
	Warnings                []WarningRecord   `json:"warnings_issued"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

// MedicationNames flattens the administered-medication events for the
// interaction checker.
func (s *Session) MedicationNames() []string {
	names := make([]string, 0, len(s.AdministeredMedications))
	for _, m := range s.AdministeredMedications {
		names = append(names, m.Name)
	}
	return names
}

// NewSession builds an empty aggregate for a caller-assigned ID.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:               id,
		History:                 History{Allergies: []string{}, CurrentMedications: []string{}, MedicalConditions: []string{}},
		AdministeredMedications: []MedicationEvent{},
		ActionsTaken:            []string{},
		Warnings:                []WarningRecord{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}
