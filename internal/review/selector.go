// Package review drives spaced-repetition study sessions: due-set
// selection, the interactive time-boxed review loop, and per-type card
// rendering and grading.
package review

import (
	"math/rand"
	"time"

	"github.com/nexuskb/nexus/internal/store"
)

// Options constrain due-set selection for one session.
type Options struct {
	TopicID     *int64 // restrict to cards of one source record
	PullForward bool   // include cards not yet due
	Shuffle     bool
	Limit       int // cap applied after ordering/shuffling; 0 = no cap
}

// SelectDueSet builds the review queue for a session. The queue is fixed
// at session start: cards created or rescheduled later in the same
// session are not picked up. Never-graded cards are always included.
func SelectDueSet(db *store.DB, opts Options, now time.Time, rng *rand.Rand) ([]store.Card, error) {
	cards, err := db.DueCards(store.DueQuery{
		TopicID:     opts.TopicID,
		PullForward: opts.PullForward,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	if opts.Shuffle {
		rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}
	if opts.Limit > 0 && len(cards) > opts.Limit {
		cards = cards[:opts.Limit]
	}
	return cards, nil
}
