package mutation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/store"
)

func throttleFixture(t *testing.T, n int) (*store.DB, []int64) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rec := &store.Record{Type: store.ResourceNote, Title: "t", PathURL: "nexus://note/t"}
	if err := db.CreateRecord(rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	ids := make([]int64, n)
	for i := range ids {
		c := &store.Card{ParentID: rec.ID, Question: fmt.Sprintf("q%d", i), Answer: "a", Type: store.CardFactual}
		if err := db.CreateCard(c); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
		ids[i] = c.ID
	}
	return db, ids
}

func rewriteJSON(ids []int64) string {
	out := "["
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id": %d, "question": "rewritten q", "answer": "rewritten a", "card_type": "Factual"}`, id)
	}
	return out + "]"
}

func TestThresholdOnCardinalityAcrossSessions(t *testing.T) {
	db, ids := throttleFixture(t, 25)
	th := New(db, 20)

	// Five sessions of five distinct cards each: ready only at the fifth.
	for i := 0; i < 5; i++ {
		batch := ids[i*5 : i*5+5]
		n, err := th.Accumulate(batch)
		if err != nil {
			t.Fatalf("Accumulate session %d: %v", i, err)
		}
		if want := (i + 1) * 5; n != want {
			t.Errorf("cardinality after session %d = %d, want %d", i, n, want)
		}
		ready, err := th.Ready()
		if err != nil {
			t.Fatalf("Ready: %v", err)
		}
		if want := i == 4; ready != want {
			t.Errorf("ready after session %d = %v, want %v", i, ready, want)
		}
	}
}

func TestRepeatedCardsCountOnce(t *testing.T) {
	db, ids := throttleFixture(t, 5)
	th := New(db, 20)

	for i := 0; i < 10; i++ {
		n, err := th.Accumulate(ids)
		if err != nil {
			t.Fatalf("Accumulate: %v", err)
		}
		if n != 5 {
			t.Errorf("cardinality = %d after pass %d, want 5", n, i)
		}
	}
	ready, err := th.Ready()
	if err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if ready {
		t.Error("ready despite only 5 distinct cards")
	}
}

func TestNonPositiveThresholdFallsBack(t *testing.T) {
	db, _ := throttleFixture(t, 0)
	th := New(db, 0)
	if th.threshold != DefaultThreshold {
		t.Errorf("threshold = %d, want %d", th.threshold, DefaultThreshold)
	}
}

func TestTriggerClearsOnSuccess(t *testing.T) {
	db, ids := throttleFixture(t, 3)
	th := New(db, 3)
	if _, err := th.Accumulate(ids); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}

	client := &llm.MockClient{Response: &llm.Response{Content: rewriteJSON(ids), Provider: "mock"}}
	n, err := th.Trigger(context.Background(), client)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if n != 3 {
		t.Errorf("rewritten = %d, want 3", n)
	}

	left, err := db.CountPendingMutations()
	if err != nil {
		t.Fatalf("CountPendingMutations: %v", err)
	}
	if left != 0 {
		t.Errorf("pending after success = %d, want 0", left)
	}

	got, err := db.GetCard(ids[0])
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.Question != "rewritten q" {
		t.Errorf("rewrite not applied: %+v", got)
	}
}

func TestTriggerFailurePreservesSet(t *testing.T) {
	db, ids := throttleFixture(t, 3)
	th := New(db, 3)
	if _, err := th.Accumulate(ids); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}

	client := &llm.MockClient{Err: errors.New("provider down")}
	if _, err := th.Trigger(context.Background(), client); err == nil {
		t.Fatal("Trigger succeeded with a failing client")
	}

	left, err := db.CountPendingMutations()
	if err != nil {
		t.Fatalf("CountPendingMutations: %v", err)
	}
	if left != 3 {
		t.Errorf("pending after failure = %d, want the full set of 3", left)
	}
}

func TestTriggerEmptySetIsNoop(t *testing.T) {
	db, _ := throttleFixture(t, 0)
	th := New(db, 3)

	client := &llm.MockClient{Err: errors.New("must not be called")}
	n, err := th.Trigger(context.Background(), client)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if n != 0 {
		t.Errorf("rewritten = %d, want 0", n)
	}
	if len(client.Calls) != 0 {
		t.Errorf("LLM called for an empty set: %v", client.Calls)
	}
}
