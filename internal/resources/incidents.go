package resources

import (
	"fmt"
	"math/rand"
	"sync"
)

// Incident is one active call near the requested position.
type Incident struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Unit      string  `json:"unit"`
}

var incidentTypes = []string{"Cardiac Arrest", "Traffic Accident", "Difficulty Breathing", "Seizure", "Fire Standby"}

// IncidentFeed generates synthetic active incidents. It owns its random
// generator; rand.Rand is not safe for concurrent use, so draws are
// mutex-serialized the same way HospitalBoard guards its drift.
type IncidentFeed struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewIncidentFeed(rng *rand.Rand) *IncidentFeed {
	return &IncidentFeed{rng: rng}
}

// Near generates three active incidents within roughly 5 km (±0.04°) of
// the given position.
func (f *IncidentFeed) Near(latitude, longitude float64) []Incident {
	f.mu.Lock()
	defer f.mu.Unlock()

	incidents := make([]Incident, 0, 3)
	for i := 1; i <= 3; i++ {
		latOffset := (f.rng.Float64() - 0.5) * 0.08
		lngOffset := (f.rng.Float64() - 0.5) * 0.08

		incidents = append(incidents, Incident{
			ID:        fmt.Sprintf("inc-%03d", i),
			Type:      incidentTypes[f.rng.Intn(len(incidentTypes))],
			Status:    "Active",
			Latitude:  latitude + latOffset,
			Longitude: longitude + lngOffset,
			Address:   fmt.Sprintf("%d Emergency Ln", f.rng.Intn(999)+1),
			Unit:      "Unassigned",
		})
	}
	return incidents
}
