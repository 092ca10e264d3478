// Package protocol holds the static EMS protocol catalog and the keyword
// matcher that ranks catalog entries against free-text symptom input.
package protocol

// Entry is a single protocol in the catalog. Entries are loaded once at
// process start and never mutated, so concurrent reads need no locking.
type Entry struct {
	ID                string   `json:"id"`
	Name              string   `json:"protocol"`
	Guidance          string   `json:"details"`
	Contraindications []string `json:"contraindications"`
	Keywords          []string `json:"keywords"`
	BaseRelevance     float64  `json:"base_relevance"`
	Default           bool     `json:"-"`
}

// DefaultCatalog returns the built-in protocol reference set. Declaration
// order is significant: the matcher breaks score ties by catalog order.
func DefaultCatalog() []Entry {
	return []Entry{
		{
			ID:       "chest_pain",
			Name:     "Cardiac Emergency Protocol",
			Guidance: "Administer aspirin 324mg (chewable), establish IV access, obtain 12-lead ECG, consider nitroglycerin 0.4mg SL if systolic BP >100mmHg. Monitor for changes in vital signs.",
			Contraindications: []string{
				"Allergy to aspirin",
				"Active bleeding",
				"Hypotension (SBP <90mmHg)",
				"Recent use of PDE5 inhibitors",
			},
			Keywords:      []string{"chest pain", "cardiac", "heart attack", "mi", "myocardial infarction", "angina"},
			BaseRelevance: 0.95,
		},
		{
			ID:       "difficulty_breathing",
			Name:     "Respiratory Distress Protocol",
			Guidance: "Assess airway patency, administer oxygen via nasal cannula or non-rebreather to maintain SpO2 >94%. Consider albuterol 2.5mg nebulizer for bronchospasm. Position patient upright if tolerated.",
			Contraindications: []string{
				"Tension pneumothorax without decompression",
				"Severe hypotension",
			},
			Keywords:      []string{"difficulty breathing", "dyspnea", "shortness of breath", "respiratory distress", "wheezing", "asthma", "copd"},
			BaseRelevance: 0.93,
		},
		{
			ID:       "altered_mental_status",
			Name:     "Neurological Emergency Protocol",
			Guidance: "Check blood glucose immediately. Assess using AVPU or GCS. Perform FAST exam for stroke. Protect airway, administer oxygen. Consider dextrose if hypoglycemic (<60mg/dL). Monitor vitals continuously.",
			Contraindications: []string{
				"None for initial assessment",
			},
			Keywords:      []string{"altered mental status", "confusion", "unresponsive", "stroke", "seizure", "syncope", "unconscious"},
			BaseRelevance: 0.91,
		},
		{
			ID:       "severe_bleeding",
			Name:     "Hemorrhage Control Protocol",
			Guidance: "Apply direct pressure to wound. Use tourniquet for extremity hemorrhage if direct pressure fails. Establish large-bore IV access x2. Administer normal saline or LR for fluid resuscitation. Monitor for shock.",
			Contraindications: []string{
				"Do not remove impaled objects",
			},
			Keywords:      []string{"bleeding", "hemorrhage", "laceration", "trauma", "blood loss", "severe bleeding"},
			BaseRelevance: 0.94,
		},
		{
			ID:       "anaphylaxis",
			Name:     "Anaphylaxis Protocol",
			Guidance: "Immediately administer epinephrine 0.3mg IM (anterolateral thigh). Establish IV access. Administer diphenhydramine 50mg IV and famotidine 20mg IV. Consider albuterol nebulizer for bronchospasm. Prepare for airway management.",
			Contraindications: []string{
				"No absolute contraindications for epinephrine in anaphylaxis",
			},
			Keywords:      []string{"anaphylaxis", "allergic reaction", "severe allergy", "hives", "angioedema", "throat swelling"},
			BaseRelevance: 0.96,
		},
		{
			ID:       "hypoglycemia",
			Name:     "Hypoglycemia Protocol",
			Guidance: "Check blood glucose. If <60mg/dL and patient conscious, administer oral glucose 15g. If unconscious or unable to swallow, administer D50W 25g IV push or glucagon 1mg IM. Recheck glucose in 15 minutes.",
			Contraindications: []string{
				"Do not give oral glucose if airway compromised",
			},
			Keywords:      []string{"hypoglycemia", "low blood sugar", "diabetic", "glucose", "altered mental status diabetic"},
			BaseRelevance: 0.92,
		},
		{
			ID:       "seizure",
			Name:     "Seizure Management Protocol",
			Guidance: "Protect patient from injury. Do not restrain. Establish IV access when safe. If seizure >5 minutes or status epilepticus, administer midazolam 10mg IM or lorazepam 2-4mg IV. Monitor airway and breathing.",
			Contraindications: []string{
				"Do not force anything into mouth during active seizure",
			},
			Keywords:      []string{"seizure", "convulsion", "epilepsy", "fitting", "status epilepticus"},
			BaseRelevance: 0.90,
		},
		{
			ID:       "overdose",
			Name:     "Overdose/Poisoning Protocol",
			Guidance: "Assess airway, breathing, circulation. Administer naloxone 2-4mg IN/IM/IV for suspected opioid overdose. Consider activated charcoal if ingestion <1 hour and patient alert. Contact poison control. Monitor for respiratory depression.",
			Contraindications: []string{
				"Activated charcoal contraindicated if airway not protected or caustic ingestion",
			},
			Keywords:      []string{"overdose", "poisoning", "narcan", "opioid", "intoxication", "drug abuse"},
			BaseRelevance: 0.89,
		},
		{
			ID:                "general_assessment",
			Name:              "General Patient Assessment Protocol",
			Guidance:          "Perform primary assessment (ABC). Obtain vital signs. Complete SAMPLE history. Perform focused physical exam. Establish IV access if indicated. Monitor and reassess every 5-15 minutes.",
			Contraindications: []string{},
			Keywords:          []string{"general", "assessment", "evaluation", "patient care"},
			BaseRelevance:     0.60,
			Default:           true,
		},
	}
}
