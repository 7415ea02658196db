// Package mutation implements the rewrite throttle: graded card ids
// accumulate in a durable set across sessions, and once enough distinct
// cards pile up the whole set is sent through the AI rewrite pass.
package mutation

import (
	"context"
	"fmt"

	"github.com/nexuskb/nexus/internal/agent"
	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/store"
)

// DefaultThreshold is the pending-set cardinality that triggers a
// rewrite pass.
const DefaultThreshold = 20

// Throttle gates the mutation pass behind an accumulating counter. The
// backing store is injected; there is no ambient global state.
type Throttle struct {
	db        *store.DB
	threshold int
}

// New creates a throttle over the given store. A non-positive threshold
// falls back to DefaultThreshold.
func New(db *store.DB, threshold int) *Throttle {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Throttle{db: db, threshold: threshold}
}

// Accumulate unions the session's graded ids into the durable pending
// set and returns the resulting cardinality. Reviewing the same cards
// across many short sessions still counts each card once.
func (t *Throttle) Accumulate(ids []int64) (int, error) {
	return t.db.AddPendingMutations(ids)
}

// Ready reports whether the pending set has reached the threshold.
func (t *Throttle) Ready() (bool, error) {
	n, err := t.db.CountPendingMutations()
	if err != nil {
		return false, err
	}
	return n >= t.threshold, nil
}

// Pending returns the full pending set.
func (t *Throttle) Pending() ([]int64, error) {
	return t.db.PendingMutations()
}

// Trigger runs the rewrite pass over the entire pending set and clears
// it on success. On failure the set is left untouched so the same cards
// are retried on the next qualifying session. Returns the number of
// cards rewritten.
func (t *Throttle) Trigger(ctx context.Context, client llm.Client) (int, error) {
	ids, err := t.db.PendingMutations()
	if err != nil {
		return 0, fmt.Errorf("load pending set: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rewritten, err := agent.MutateCards(ctx, t.db, client, ids)
	if err != nil {
		return 0, err
	}

	if err := t.db.ClearPendingMutations(); err != nil {
		return rewritten, fmt.Errorf("clear pending set: %w", err)
	}
	return rewritten, nil
}
