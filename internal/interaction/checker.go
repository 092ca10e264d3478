package interaction

import "strings"

// Warning is one detected interaction between an administered drug and a
// current medication.
type Warning struct {
	Administered   string   `json:"drug1"`
	Current        string   `json:"drug2"`
	Severity       Severity `json:"severity"`
	Risk           string   `json:"risk"`
	Recommendation string   `json:"recommendation"`
}

// Checker evaluates medication pairs against the rule table. Pure and
// deterministic; no I/O.
type Checker struct {
	rules []Rule
}

func NewChecker(rules []Rule) *Checker {
	return &Checker{rules: rules}
}

// Check reports every interaction between the administered medications
// and the patient's current medications. Matching is case-insensitive
// substring matching on both sides, so "Warfarin 5mg" matches the
// "warfarin" rule. All matches are reported; under-reporting is the
// unacceptable failure mode, so there is no short-circuit and no dedup.
func (c *Checker) Check(currentMeds, administeredMeds []string) []Warning {
	var warnings []Warning

	for _, adminMed := range administeredMeds {
		adminLower := strings.ToLower(adminMed)

		for _, rule := range c.rules {
			if !strings.Contains(adminLower, rule.Drug) {
				continue
			}
			for _, currentMed := range currentMeds {
				currentLower := strings.ToLower(currentMed)

				for _, interacting := range rule.InteractsWith {
					if strings.Contains(currentLower, interacting) {
						warnings = append(warnings, Warning{
							Administered:   adminMed,
							Current:        currentMed,
							Severity:       rule.Severity,
							Risk:           rule.Risk,
							Recommendation: rule.Recommendation,
						})
					}
				}
			}
		}
	}

	return warnings
}
