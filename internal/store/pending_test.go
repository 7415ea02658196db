package store

import (
	"testing"
)

func pendingFixture(t *testing.T, n int) (*DB, []int64) {
	t.Helper()
	db := testDB(t)
	rec := testRecord(t, db, "t")
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = testCard(t, db, rec.ID, "q").ID
	}
	return db, ids
}

func TestPendingMutationsUnion(t *testing.T) {
	db, ids := pendingFixture(t, 5)

	n, err := db.AddPendingMutations(ids[:3])
	if err != nil {
		t.Fatalf("AddPendingMutations: %v", err)
	}
	if n != 3 {
		t.Errorf("cardinality = %d, want 3", n)
	}

	// Overlapping union counts each id once.
	n, err = db.AddPendingMutations(ids[1:])
	if err != nil {
		t.Fatalf("AddPendingMutations overlap: %v", err)
	}
	if n != 5 {
		t.Errorf("cardinality after overlap = %d, want 5", n)
	}

	got, err := db.PendingMutations()
	if err != nil {
		t.Fatalf("PendingMutations: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("pending set size = %d, want 5", len(got))
	}
}

func TestPendingMutationsEmptyIncrement(t *testing.T) {
	db, ids := pendingFixture(t, 2)

	if _, err := db.AddPendingMutations(ids); err != nil {
		t.Fatalf("AddPendingMutations: %v", err)
	}
	n, err := db.AddPendingMutations(nil)
	if err != nil {
		t.Fatalf("AddPendingMutations empty: %v", err)
	}
	if n != 2 {
		t.Errorf("cardinality after empty increment = %d, want 2", n)
	}
}

func TestClearPendingMutations(t *testing.T) {
	db, ids := pendingFixture(t, 3)

	if _, err := db.AddPendingMutations(ids); err != nil {
		t.Fatalf("AddPendingMutations: %v", err)
	}
	if err := db.ClearPendingMutations(); err != nil {
		t.Fatalf("ClearPendingMutations: %v", err)
	}
	n, err := db.CountPendingMutations()
	if err != nil {
		t.Fatalf("CountPendingMutations: %v", err)
	}
	if n != 0 {
		t.Errorf("cardinality after clear = %d, want 0", n)
	}
}
