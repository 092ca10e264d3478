package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "sess-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.SessionID != created.SessionID {
		t.Errorf("expected %s, got %s", created.SessionID, loaded.SessionID)
	}
	if loaded.AdministeredMedications == nil || loaded.Warnings == nil {
		t.Error("list fields must be initialized, not nil")
	}
}

func TestCreateRequiresID(t *testing.T) {
	svc := NewService(NewMemoryStore())

	if _, err := svc.Create(context.Background(), ""); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestGetUnknownSessionIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryStore())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceVitalsAdvancesUpdatedAt(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "sess-2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := created.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	pulse := 92
	updated, err := svc.ReplaceVitals(ctx, "sess-2", Vitals{Pulse: &pulse})
	if err != nil {
		t.Fatalf("replace vitals: %v", err)
	}

	if updated.UpdatedAt.Before(before) {
		t.Errorf("UpdatedAt went backwards: %v -> %v", before, updated.UpdatedAt)
	}
	if updated.Vitals.Pulse == nil || *updated.Vitals.Pulse != 92 {
		t.Error("vitals not replaced")
	}
	if updated.Vitals.CapturedAt.IsZero() {
		t.Error("CapturedAt should be defaulted")
	}
}

func TestReplaceVitalsIsWholesale(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "sess-3"); err != nil {
		t.Fatalf("create: %v", err)
	}

	pulse := 88
	spo2 := 97
	if _, err := svc.ReplaceVitals(ctx, "sess-3", Vitals{Pulse: &pulse, SpO2: &spo2}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	// Second snapshot omits spo2; it must not survive from the first.
	rr := 18
	updated, err := svc.ReplaceVitals(ctx, "sess-3", Vitals{RespiratoryRate: &rr})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if updated.Vitals.SpO2 != nil {
		t.Error("vitals replace must be wholesale, old spo2 leaked through")
	}
}

func TestAppendMedicationAccumulates(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "sess-4"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AppendMedication(ctx, "sess-4", "aspirin"); err != nil {
		t.Fatalf("append: %v", err)
	}
	sess, err := svc.AppendMedication(ctx, "sess-4", "nitroglycerin")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	names := sess.MedicationNames()
	if len(names) != 2 || names[0] != "aspirin" || names[1] != "nitroglycerin" {
		t.Errorf("unexpected medication names: %v", names)
	}
}

func TestAppendWarningAssignsID(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "sess-5"); err != nil {
		t.Fatalf("create: %v", err)
	}
	sess, err := svc.AppendWarning(ctx, "sess-5", "possible hemorrhage")
	if err != nil {
		t.Fatalf("append warning: %v", err)
	}
	if len(sess.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(sess.Warnings))
	}
	w := sess.Warnings[0]
	if w.Message != "possible hemorrhage" || w.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Errorf("warning not populated: %+v", w)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := NewSession("sess-6")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, err := store.Get(ctx, "sess-6")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	loaded.ActionsTaken = append(loaded.ActionsTaken, "mutated")

	again, err := store.Get(ctx, "sess-6")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if len(again.ActionsTaken) != 0 {
		t.Error("mutating a loaded session leaked into the store")
	}
}
