// Package triage implements the ESI acuity classifier: a strict-priority
// decision table mapping patient presentation to a 1-5 urgency level.
package triage

import "strings"

// MentalStatus follows the AVPU scale.
type MentalStatus string

const (
	StatusAlert        MentalStatus = "Alert"
	StatusVerbal       MentalStatus = "Verbal"
	StatusPain         MentalStatus = "Pain"
	StatusUnresponsive MentalStatus = "Unresponsive"
)

// Input carries the signs and symptoms for one classification.
// RespiratoryRate and Pulse are pointers so "not measured" is distinct
// from zero; pulse zero is a level-1 finding.
type Input struct {
	Symptoms        []string     `json:"symptoms"`
	CanWalk         bool         `json:"can_walk"`
	Breathing       bool         `json:"breathing"`
	RespiratoryRate *int         `json:"respiratory_rate"`
	Pulse           *int         `json:"pulse"`
	MentalStatus    MentalStatus `json:"mental_status"`
}

// Result is the classification outcome. Rationale and Advice are
// optional enrichment from the reasoning service; their absence never
// changes the numeric level.
type Result struct {
	Level             int    `json:"esi_level"`
	Color             string `json:"color"`
	Label             string `json:"description"`
	RecommendedAction string `json:"recommended_action"`
	Rationale         string `json:"ai_rationale,omitempty"`
	Advice            string `json:"ai_advice,omitempty"`
}

// levelInfo is the fixed per-level presentation table.
var levelInfo = map[int]Result{
	1: {Level: 1, Color: "Red", Label: "Resuscitation", RecommendedAction: "Immediate life-saving intervention required. Call Code Blue."},
	2: {Level: 2, Color: "Orange", Label: "Emergent", RecommendedAction: "High risk. Rapid placement and treatment. Continuous monitoring."},
	3: {Level: 3, Color: "Yellow", Label: "Urgent", RecommendedAction: "Urgent. Needs 2+ resources (labs, x-ray, IV). Monitor vitals."},
	4: {Level: 4, Color: "Green", Label: "Less Urgent", RecommendedAction: "Less Urgent. Needs 1 resource. Sutures or simple x-ray."},
	5: {Level: 5, Color: "Blue", Label: "Non-Urgent", RecommendedAction: "Non-Urgent. Prescription refill or wound check. Discharge likely."},
}

// highRiskPhrases are the level-2 symptom triggers. Matching is
// case-insensitive substring matching against each reported symptom.
var highRiskPhrases = []string{"chest pain", "stroke", "severe bleeding", "difficulty breathing"}

// Classify evaluates the decision table top-down; the first matching
// rule wins. Same inputs always yield the same level.
func Classify(in Input) Result {
	return levelInfo[level(in)]
}

func level(in Input) int {
	// Level 1: not breathing, pulseless, or unresponsive.
	if !in.Breathing || (in.Pulse != nil && *in.Pulse == 0) || in.MentalStatus == StatusUnresponsive {
		return 1
	}

	// Level 2: high-risk symptom, reduced responsiveness, or unstable rates.
	for _, symptom := range in.Symptoms {
		lower := strings.ToLower(symptom)
		for _, phrase := range highRiskPhrases {
			if strings.Contains(lower, phrase) {
				return 2
			}
		}
	}
	if in.MentalStatus == StatusVerbal || in.MentalStatus == StatusPain {
		return 2
	}
	if in.Pulse != nil && *in.Pulse > 120 {
		return 2
	}
	if in.RespiratoryRate != nil && *in.RespiratoryRate > 30 {
		return 2
	}

	// Level 3: non-ambulatory or multiple complaints.
	if !in.CanWalk || len(in.Symptoms) > 1 {
		return 3
	}

	// Level 4: single complaint.
	if len(in.Symptoms) == 1 {
		return 4
	}

	return 5
}
