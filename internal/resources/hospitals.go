// Package resources serves the regional hospital capacity board and the
// active-incident feed. Both are simulated; the shapes match what a real
// CAD integration would provide.
package resources

import (
	"math/rand"
	"sync"
)

// Hospital is one facility on the capacity board.
type Hospital struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DistanceMiles float64  `json:"distance_miles"`
	TotalBeds     int      `json:"total_beds"`
	AvailableBeds int      `json:"available_beds"`
	Specialties   []string `json:"specialties"`
	Status        string   `json:"status"`
}

// HospitalBoard holds the regional facilities and drifts their bed
// availability on every listing to mimic a live feed.
type HospitalBoard struct {
	mu        sync.Mutex
	hospitals []Hospital
	rng       *rand.Rand
}

func NewHospitalBoard(rng *rand.Rand) *HospitalBoard {
	return &HospitalBoard{
		hospitals: []Hospital{
			{
				ID: "hosp_001", Name: "General City Hospital", DistanceMiles: 2.4,
				TotalBeds: 450, AvailableBeds: 42,
				Specialties: []string{"Stroke Center", "Cardiology"}, Status: "Normal",
			},
			{
				ID: "hosp_002", Name: "St. Mary's Trauma Center", DistanceMiles: 5.8,
				TotalBeds: 600, AvailableBeds: 12,
				Specialties: []string{"Level 1 Trauma", "Burn Unit", "Neurosurgery"}, Status: "Busy",
			},
			{
				ID: "hosp_003", Name: "Community Health Clinic", DistanceMiles: 1.2,
				TotalBeds: 50, AvailableBeds: 15,
				Specialties: []string{"Urgent Care", "Pediatrics"}, Status: "Normal",
			},
			{
				ID: "hosp_004", Name: "University Research Hospital", DistanceMiles: 8.5,
				TotalBeds: 800, AvailableBeds: 3,
				Specialties: []string{"Oncology", "Transplant", "Rare Diseases"}, Status: "Diverting",
			},
		},
		rng: rng,
	}
}

// List drifts each hospital's available beds by up to ±2, recomputes its
// status from occupancy, and returns a snapshot.
func (b *HospitalBoard) List() []Hospital {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Hospital, len(b.hospitals))
	for i := range b.hospitals {
		h := &b.hospitals[i]

		change := b.rng.Intn(5) - 2
		h.AvailableBeds += change
		if h.AvailableBeds < 0 {
			h.AvailableBeds = 0
		}
		if h.AvailableBeds > h.TotalBeds {
			h.AvailableBeds = h.TotalBeds
		}

		occupancy := float64(h.TotalBeds-h.AvailableBeds) / float64(h.TotalBeds)
		switch {
		case occupancy > 0.95:
			h.Status = "Diverting"
		case occupancy > 0.85:
			h.Status = "Busy"
		default:
			h.Status = "Normal"
		}

		out[i] = *h
	}
	return out
}
