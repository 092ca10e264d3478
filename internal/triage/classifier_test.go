package triage

import "testing"

func intPtr(v int) *int { return &v }

func TestClassifyNotBreathingIsLevelOne(t *testing.T) {
	// Level 1 dominates even a presentation that otherwise looks minor.
	result := Classify(Input{
		Symptoms:     []string{"wound check"},
		CanWalk:      true,
		Breathing:    false,
		MentalStatus: StatusAlert,
	})
	if result.Level != 1 {
		t.Errorf("expected level 1 for apnea, got %d", result.Level)
	}
	if result.Color != "Red" {
		t.Errorf("expected Red, got %s", result.Color)
	}
}

func TestClassifyPulselessIsLevelOne(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{"collapse"},
		CanWalk:      false,
		Breathing:    true,
		Pulse:        intPtr(0),
		MentalStatus: StatusAlert,
	})
	if result.Level != 1 {
		t.Errorf("expected level 1 for pulse 0, got %d", result.Level)
	}
}

func TestClassifyHighRiskSymptomIsLevelTwo(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{"crushing chest pain"},
		CanWalk:      true,
		Breathing:    true,
		Pulse:        intPtr(90),
		MentalStatus: StatusAlert,
	})
	if result.Level != 2 {
		t.Errorf("expected level 2 for chest pain, got %d", result.Level)
	}
}

func TestClassifyTachycardiaIsLevelTwo(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{"dizziness"},
		CanWalk:      true,
		Breathing:    true,
		Pulse:        intPtr(130),
		MentalStatus: StatusAlert,
	})
	if result.Level != 2 {
		t.Errorf("expected level 2 for pulse 130, got %d", result.Level)
	}
}

func TestClassifyMultipleComplaintsIsLevelThree(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{"nausea", "headache"},
		CanWalk:      true,
		Breathing:    true,
		Pulse:        intPtr(80),
		MentalStatus: StatusAlert,
	})
	if result.Level != 3 {
		t.Errorf("expected level 3 for two complaints, got %d", result.Level)
	}
}

func TestClassifySingleComplaintIsLevelFour(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{"sprained ankle"},
		CanWalk:      true,
		Breathing:    true,
		Pulse:        intPtr(75),
		MentalStatus: StatusAlert,
	})
	if result.Level != 4 {
		t.Errorf("expected level 4 for one minor complaint, got %d", result.Level)
	}
}

func TestClassifyNoComplaintsIsLevelFive(t *testing.T) {
	result := Classify(Input{
		Symptoms:     []string{},
		CanWalk:      true,
		Breathing:    true,
		MentalStatus: StatusAlert,
	})
	if result.Level != 5 {
		t.Errorf("expected level 5, got %d", result.Level)
	}
}

func TestClassifyLevelAlwaysInRange(t *testing.T) {
	inputs := []Input{
		{},
		{Breathing: true},
		{Breathing: true, CanWalk: true, MentalStatus: StatusPain},
		{Breathing: true, CanWalk: true, MentalStatus: StatusAlert, RespiratoryRate: intPtr(45)},
		{Breathing: true, CanWalk: false, MentalStatus: StatusUnresponsive, Symptoms: []string{"a", "b", "c"}},
	}
	for i, in := range inputs {
		result := Classify(in)
		if result.Level < 1 || result.Level > 5 {
			t.Errorf("input %d produced out-of-range level %d", i, result.Level)
		}
		if result.RecommendedAction == "" {
			t.Errorf("input %d produced empty recommended action", i)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	in := Input{
		Symptoms:     []string{"difficulty breathing"},
		CanWalk:      false,
		Breathing:    true,
		Pulse:        intPtr(110),
		MentalStatus: StatusAlert,
	}
	first := Classify(in)
	for i := 0; i < 5; i++ {
		if got := Classify(in); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", got, first)
		}
	}
}
