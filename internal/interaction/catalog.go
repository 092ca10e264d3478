// Package interaction cross-references administered medications against
// the patient's current medication list using a static rule table.
package interaction

// Severity grades an interaction rule.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rule is one known drug interaction. Rules are static reference data.
type Rule struct {
	Drug           string   `json:"drug"`
	InteractsWith  []string `json:"interacts_with"`
	Severity       Severity `json:"severity"`
	Risk           string   `json:"risk"`
	Recommendation string   `json:"recommendation"`
}

// DefaultRules returns the built-in interaction table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Drug:           "warfarin",
			InteractsWith:  []string{"aspirin", "nsaids", "heparin"},
			Severity:       SeverityCritical,
			Risk:           "CRITICAL - Increased bleeding risk",
			Recommendation: "Avoid aspirin. Use extreme caution with any anticoagulant.",
		},
		{
			Drug:           "aspirin",
			InteractsWith:  []string{"warfarin", "heparin", "clopidogrel"},
			Severity:       SeverityHigh,
			Risk:           "HIGH - Increased bleeding risk",
			Recommendation: "Check for active bleeding or recent surgery before administration.",
		},
		{
			Drug:           "nitroglycerin",
			InteractsWith:  []string{"sildenafil", "tadalafil", "vardenafil"},
			Severity:       SeverityCritical,
			Risk:           "CRITICAL - Severe hypotension",
			Recommendation: "Do not give if patient took PDE5 inhibitor (Viagra, Cialis) within 24-48 hours.",
		},
		{
			Drug:           "morphine",
			InteractsWith:  []string{"benzodiazepines", "alcohol"},
			Severity:       SeverityHigh,
			Risk:           "HIGH - Respiratory depression",
			Recommendation: "Monitor respiratory status closely. Have naloxone ready.",
		},
		{
			Drug:           "epinephrine",
			InteractsWith:  []string{"beta-blockers", "maoi"},
			Severity:       SeverityModerate,
			Risk:           "MODERATE - Altered response",
			Recommendation: "May require higher doses if patient on beta-blockers.",
		},
	}
}
