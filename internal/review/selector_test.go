package review

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nexuskb/nexus/internal/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(t *testing.T, db *store.DB, title string) *store.Record {
	t.Helper()
	rec := &store.Record{Type: store.ResourceNote, Title: title, PathURL: "nexus://note/" + title}
	if err := db.CreateRecord(rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	return rec
}

func testCard(t *testing.T, db *store.DB, parentID int64, question, answer string, ctype store.CardType) *store.Card {
	t.Helper()
	c := &store.Card{ParentID: parentID, Question: question, Answer: answer, Type: ctype}
	if err := db.CreateCard(c); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	return c
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestSelectDueSetIncludesNeverGraded(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	now := time.Now()

	// Never graded but carrying a future next_review: still due.
	c := testCard(t, db, rec.ID, "q", "a", store.CardFactual)
	ahead := now.Add(48 * time.Hour).UnixMilli()
	if _, err := db.Exec("UPDATE cards SET next_review = ? WHERE id = ?", ahead, c.ID); err != nil {
		t.Fatalf("force next_review: %v", err)
	}

	queue, err := SelectDueSet(db, Options{}, now, testRNG())
	if err != nil {
		t.Fatalf("SelectDueSet: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != c.ID {
		t.Errorf("queue = %+v, want the never-graded card", queue)
	}
}

func TestSelectDueSetPullForward(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	now := time.Now()

	c := testCard(t, db, rec.ID, "q", "a", store.CardFactual)
	ahead := now.Add(48 * time.Hour).UnixMilli()
	db.UpdateCardReview(c.ID, 3, 3, now.UnixMilli(), ahead)

	queue, err := SelectDueSet(db, Options{}, now, testRNG())
	if err != nil {
		t.Fatalf("SelectDueSet: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("future card selected without pull forward: %+v", queue)
	}

	queue, err = SelectDueSet(db, Options{PullForward: true}, now, testRNG())
	if err != nil {
		t.Fatalf("SelectDueSet pull forward: %v", err)
	}
	if len(queue) != 1 {
		t.Errorf("pull forward queue size = %d, want 1", len(queue))
	}
}

func TestSelectDueSetLimitAfterShuffle(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	now := time.Now()

	for i := 0; i < 10; i++ {
		testCard(t, db, rec.ID, "q", "a", store.CardFactual)
	}

	queue, err := SelectDueSet(db, Options{Shuffle: true, Limit: 3}, now, testRNG())
	if err != nil {
		t.Fatalf("SelectDueSet: %v", err)
	}
	if len(queue) != 3 {
		t.Fatalf("limited queue size = %d, want 3", len(queue))
	}

	// The cap applies after shuffling, so a seeded shuffle of ten cards
	// must be able to surface cards beyond the first three.
	seen := map[int64]bool{}
	for seed := int64(0); seed < 20; seed++ {
		q, err := SelectDueSet(db, Options{Shuffle: true, Limit: 3},
			now, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("SelectDueSet seed %d: %v", seed, err)
		}
		for _, c := range q {
			seen[c.ID] = true
		}
	}
	if len(seen) <= 3 {
		t.Errorf("shuffle+limit only ever surfaced %d distinct cards", len(seen))
	}
}

func TestSelectDueSetTopicScope(t *testing.T) {
	db := testDB(t)
	recA := testRecord(t, db, "a")
	recB := testRecord(t, db, "b")
	now := time.Now()

	testCard(t, db, recA.ID, "qa", "a", store.CardFactual)
	testCard(t, db, recB.ID, "qb", "a", store.CardFactual)

	queue, err := SelectDueSet(db, Options{TopicID: &recA.ID}, now, testRNG())
	if err != nil {
		t.Fatalf("SelectDueSet: %v", err)
	}
	if len(queue) != 1 || queue[0].ParentID != recA.ID {
		t.Errorf("topic-scoped queue = %+v", queue)
	}
}
