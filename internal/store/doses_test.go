package store

import (
	"testing"
	"time"

	"github.com/lazypower/halflife/internal/dose"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAndListDoses(t *testing.T) {
	db := testDB(t)

	taken := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	err := db.AddDose(dose.Dose{ID: "d1", Amount: 100, Unit: dose.Milligram, TakenAt: taken})
	if err != nil {
		t.Fatalf("AddDose: %v", err)
	}

	doses, err := db.ListDoses()
	if err != nil {
		t.Fatalf("ListDoses: %v", err)
	}
	if len(doses) != 1 {
		t.Fatalf("got %d doses, want 1", len(doses))
	}
	if doses[0].ID != "d1" {
		t.Errorf("ID = %q, want d1", doses[0].ID)
	}
	if doses[0].Amount != 100 {
		t.Errorf("Amount = %g, want 100", doses[0].Amount)
	}
	if doses[0].Unit != dose.Milligram {
		t.Errorf("Unit = %q, want mg", doses[0].Unit)
	}
	if !doses[0].TakenAt.Equal(taken) {
		t.Errorf("TakenAt = %v, want %v", doses[0].TakenAt, taken)
	}
}

func TestListDosesOrdered(t *testing.T) {
	db := testDB(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	// Insert out of order; ListDoses sorts by taken_at.
	db.AddDose(dose.Dose{ID: "late", Amount: 1, Unit: dose.Milligram, TakenAt: base.Add(2 * time.Hour)})
	db.AddDose(dose.Dose{ID: "early", Amount: 1, Unit: dose.Milligram, TakenAt: base})
	db.AddDose(dose.Dose{ID: "mid", Amount: 1, Unit: dose.Milligram, TakenAt: base.Add(time.Hour)})

	doses, err := db.ListDoses()
	if err != nil {
		t.Fatalf("ListDoses: %v", err)
	}
	want := []string{"early", "mid", "late"}
	for i, id := range want {
		if doses[i].ID != id {
			t.Errorf("doses[%d].ID = %q, want %q", i, doses[i].ID, id)
		}
	}
}

func TestDeleteDose(t *testing.T) {
	db := testDB(t)

	db.AddDose(dose.Dose{ID: "d1", Amount: 5, Unit: dose.Gram, TakenAt: time.Now()})

	removed, err := db.DeleteDose("d1")
	if err != nil {
		t.Fatalf("DeleteDose: %v", err)
	}
	if !removed {
		t.Error("removed = false, want true")
	}

	removed, err = db.DeleteDose("d1")
	if err != nil {
		t.Fatalf("DeleteDose (again): %v", err)
	}
	if removed {
		t.Error("removed = true for missing dose, want false")
	}
}

func TestClearDoses(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	db.AddDose(dose.Dose{ID: "a", Amount: 1, Unit: dose.Milligram, TakenAt: now})
	db.AddDose(dose.Dose{ID: "b", Amount: 2, Unit: dose.Microgram, TakenAt: now})

	n, err := db.ClearDoses()
	if err != nil {
		t.Fatalf("ClearDoses: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d, want 2", n)
	}

	count, _ := db.CountDoses()
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestCountDosesEmpty(t *testing.T) {
	db := testDB(t)

	count, err := db.CountDoses()
	if err != nil {
		t.Fatalf("CountDoses: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
