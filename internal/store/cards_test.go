package store

import (
	"testing"
	"time"
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

func testRecord(t *testing.T, db *DB, title string) *Record {
	t.Helper()
	rec := &Record{Type: ResourceNote, Title: title, PathURL: "nexus://note/" + title}
	if err := db.CreateRecord(rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	return rec
}

func testCard(t *testing.T, db *DB, parentID int64, question string) *Card {
	t.Helper()
	c := &Card{ParentID: parentID, Question: question, Answer: "a", Type: CardFactual}
	if err := db.CreateCard(c); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	return c
}

func TestCardCRUD(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "golang")

	c := testCard(t, db, rec.ID, "what is a goroutine?")
	if c.ID == 0 {
		t.Fatal("card id not assigned")
	}

	got, err := db.GetCard(c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got == nil || got.Question != "what is a goroutine?" {
		t.Fatalf("GetCard = %+v", got)
	}
	if got.Difficulty != 0 || got.Stability != 0 {
		t.Errorf("fresh card difficulty/stability = %v/%v, want 0/0", got.Difficulty, got.Stability)
	}
	if got.LastReview != nil || got.NextReview != nil {
		t.Errorf("fresh card has review timestamps: %+v", got)
	}

	if err := db.UpdateCardContent(c.ID, "q2", "a2", CardConceptual); err != nil {
		t.Fatalf("UpdateCardContent: %v", err)
	}
	got, _ = db.GetCard(c.ID)
	if got.Question != "q2" || got.Answer != "a2" || got.Type != CardConceptual {
		t.Errorf("after content update: %+v", got)
	}

	ok, err := db.DeleteCard(c.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteCard = %v, %v", ok, err)
	}
	got, err = db.GetCard(c.ID)
	if err != nil {
		t.Fatalf("GetCard after delete: %v", err)
	}
	if got != nil {
		t.Errorf("card still present after delete: %+v", got)
	}

	ok, err = db.DeleteCard(c.ID)
	if err != nil {
		t.Fatalf("second DeleteCard: %v", err)
	}
	if ok {
		t.Error("second delete reported success")
	}
}

func TestCreateCardRejectsUnknownType(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")

	c := &Card{ParentID: rec.ID, Question: "q", Answer: "a", Type: "Riddle"}
	if err := db.CreateCard(c); err == nil {
		t.Error("expected error for unknown card type")
	}
}

func TestUpdateCardReview(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	c := testCard(t, db, rec.ID, "q")

	now := time.Now().UnixMilli()
	next := now + 3*24*60*60*1000
	if err := db.UpdateCardReview(c.ID, 3.0, 3.0, now, next); err != nil {
		t.Fatalf("UpdateCardReview: %v", err)
	}

	got, _ := db.GetCard(c.ID)
	if got.Difficulty != 3.0 || got.Stability != 3.0 {
		t.Errorf("difficulty/stability = %v/%v, want 3/3", got.Difficulty, got.Stability)
	}
	if got.LastReview == nil || *got.LastReview != now {
		t.Errorf("last review = %v, want %d", got.LastReview, now)
	}
	if got.NextReview == nil || *got.NextReview != next {
		t.Errorf("next review = %v, want %d", got.NextReview, next)
	}

	if err := db.UpdateCardReview(99999, 1, 1, now, next); err == nil {
		t.Error("expected error updating missing card")
	}
}

func TestDueCardsFiltering(t *testing.T) {
	db := testDB(t)
	recA := testRecord(t, db, "topic-a")
	recB := testRecord(t, db, "topic-b")
	now := time.Now()

	fresh := testCard(t, db, recA.ID, "never graded")

	overdue := testCard(t, db, recA.ID, "overdue")
	past := now.Add(-24 * time.Hour).UnixMilli()
	db.UpdateCardReview(overdue.ID, 3, 3, past, past)

	future := testCard(t, db, recB.ID, "scheduled ahead")
	ahead := now.Add(48 * time.Hour).UnixMilli()
	db.UpdateCardReview(future.ID, 3, 3, now.UnixMilli(), ahead)

	// A graded card whose next_review slipped into the future but whose
	// stability was reset to zero must still count as due.
	reset := testCard(t, db, recB.ID, "stability reset")
	db.UpdateCardReview(reset.ID, 0, 0, now.UnixMilli(), ahead)

	due, err := db.DueCards(DueQuery{Now: now})
	if err != nil {
		t.Fatalf("DueCards: %v", err)
	}
	ids := map[int64]bool{}
	for _, c := range due {
		ids[c.ID] = true
	}
	if !ids[fresh.ID] || !ids[overdue.ID] || !ids[reset.ID] {
		t.Errorf("due set missing expected cards: %v", ids)
	}
	if ids[future.ID] {
		t.Error("future-scheduled card included without pull forward")
	}

	// Pull forward ignores the schedule entirely.
	all, err := db.DueCards(DueQuery{PullForward: true, Now: now})
	if err != nil {
		t.Fatalf("DueCards pull forward: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("pull forward returned %d cards, want 4", len(all))
	}

	// Topic scope.
	scoped, err := db.DueCards(DueQuery{TopicID: &recA.ID, PullForward: true, Now: now})
	if err != nil {
		t.Fatalf("DueCards topic: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("topic scope returned %d cards, want 2", len(scoped))
	}
}

func TestDueCardsOrdering(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	now := time.Now()

	later := testCard(t, db, rec.ID, "later")
	db.UpdateCardReview(later.ID, 3, 3, now.Add(-time.Hour).UnixMilli(), now.Add(-time.Hour).UnixMilli())

	earlier := testCard(t, db, rec.ID, "earlier")
	db.UpdateCardReview(earlier.ID, 3, 3, now.Add(-48*time.Hour).UnixMilli(), now.Add(-48*time.Hour).UnixMilli())

	never := testCard(t, db, rec.ID, "never")

	due, err := db.DueCards(DueQuery{Now: now})
	if err != nil {
		t.Fatalf("DueCards: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("got %d cards, want 3", len(due))
	}
	if due[0].ID != never.ID {
		t.Errorf("first card = %d, want unscheduled %d", due[0].ID, never.ID)
	}
	if due[1].ID != earlier.ID || due[2].ID != later.ID {
		t.Errorf("order = [%d %d], want [%d %d]", due[1].ID, due[2].ID, earlier.ID, later.ID)
	}
}

func TestGetCardsSkipsUnknown(t *testing.T) {
	db := testDB(t)
	rec := testRecord(t, db, "t")
	c := testCard(t, db, rec.ID, "q")

	cards, err := db.GetCards([]int64{c.ID, 424242})
	if err != nil {
		t.Fatalf("GetCards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != c.ID {
		t.Errorf("GetCards = %+v", cards)
	}
}

func TestCardDue(t *testing.T) {
	now := time.Now()
	ahead := now.Add(time.Hour).UnixMilli()
	behind := now.Add(-time.Hour).UnixMilli()

	cases := []struct {
		name string
		card Card
		want bool
	}{
		{"never graded", Card{}, true},
		{"never graded with future schedule", Card{NextReview: &ahead}, true},
		{"graded, overdue", Card{Stability: 2, NextReview: &behind}, true},
		{"graded, not due", Card{Stability: 2, NextReview: &ahead}, false},
	}
	for _, tt := range cases {
		if got := tt.card.Due(now); got != tt.want {
			t.Errorf("%s: Due = %v, want %v", tt.name, got, tt.want)
		}
	}
}
