package review

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/nexuskb/nexus/internal/srs"
	"github.com/nexuskb/nexus/internal/store"
)

// EndReason is the terminal state of a review session.
type EndReason int

const (
	TimeExpired EndReason = iota + 1
	QueueExhausted
	UserAborted
)

func (r EndReason) String() string {
	switch r {
	case TimeExpired:
		return "time expired"
	case QueueExhausted:
		return "queue exhausted"
	case UserAborted:
		return "aborted"
	}
	return "unknown"
}

// Summary reports what happened during one session run. GradedIDs feeds
// the mutation throttle at session end.
type Summary struct {
	Reason    EndReason
	GradedIDs []int64
	Deleted   int
}

// Session runs one bounded-time review over a fixed queue. The loop is
// synchronous and cooperative: the deadline is only checked between
// cards, so a slow answer can overrun the nominal time box.
type Session struct {
	db  *store.DB
	in  *bufio.Reader
	out io.Writer
	now func() time.Time
	rng *rand.Rand
}

// NewSession creates a session bound to the given store and terminal
// streams.
func NewSession(db *store.DB, in io.Reader, out io.Writer) *Session {
	return &Session{
		db:  db,
		in:  bufio.NewReader(in),
		out: out,
		now: time.Now,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run drives the per-card cycle until the time box expires, the queue is
// exhausted, or the user aborts. Every grading is persisted immediately;
// a failed write stops the session with an error rather than continuing
// on stale state.
func (s *Session) Run(queue []store.Card, duration time.Duration) (*Summary, error) {
	deadline := s.now().Add(duration)
	sum := &Summary{}
	var lastParent int64

cards:
	for i := range queue {
		if !s.now().Before(deadline) {
			sum.Reason = TimeExpired
			return sum, nil
		}
		card := &queue[i]

		if card.ParentID != lastParent {
			s.showTopic(card, i+1, len(queue))
		}
		lastParent = card.ParentID

		shownAt := s.now()
		var input string
	askLoop:
		for {
			fmt.Fprintln(s.out)
			renderQuestion(s.out, card, s.rng)
			fmt.Fprint(s.out, "> answer (:e edit, :d delete, :q quit): ")

			line, err := s.readLine()
			if err != nil {
				return sum, fmt.Errorf("read answer: %w", err)
			}

			switch strings.TrimSpace(line) {
			case ":q":
				sum.Reason = UserAborted
				return sum, nil
			case ":d":
				deleted, err := s.deleteCard(card)
				if err != nil {
					return sum, err
				}
				if deleted {
					sum.Deleted++
					continue cards // next card, ungraded
				}
				continue askLoop
			case ":e":
				if err := s.editCard(card); err != nil {
					fmt.Fprintf(s.out, "edit failed: %v\n", err)
				}
				continue askLoop
			default:
				input = line
			}
			break
		}

		elapsed := s.now().Sub(shownAt)

		var grade srs.Grade
		if card.Type.AutoGradable() {
			if checkAnswer(card, input) {
				fmt.Fprintln(s.out, "correct")
				grade = srs.GradeEasy
			} else {
				fmt.Fprintf(s.out, "incorrect, answer: %s\n", card.Answer)
				grade = srs.GradeHard
			}
		} else {
			fmt.Fprintf(s.out, "answer: %s\n", card.Answer)
			g, err := s.promptGrade()
			if err != nil {
				return sum, fmt.Errorf("read grade: %w", err)
			}
			grade = g
		}

		out := srs.ComputeNext(card.Difficulty, card.Stability, grade, elapsed, s.now())
		err := s.db.UpdateCardReview(card.ID, out.Difficulty, out.Stability,
			out.LastReview.UnixMilli(), out.NextReview.UnixMilli())
		if err != nil {
			return sum, fmt.Errorf("persist grading for card %d: %w", card.ID, err)
		}
		card.Difficulty = out.Difficulty
		card.Stability = out.Stability

		sum.GradedIDs = append(sum.GradedIDs, card.ID)
		fmt.Fprintf(s.out, "next review in %.1f days\n", out.Stability)
	}

	sum.Reason = QueueExhausted
	return sum, nil
}

// showTopic prints the source-record banner on topic transitions. An
// orphaned card (missing parent record) gets a placeholder title and the
// review continues.
func (s *Session) showTopic(card *store.Card, pos, total int) {
	title := "(missing source)"
	rec, err := s.db.GetRecord(card.ParentID)
	if err != nil {
		fmt.Fprintf(s.out, "warning: resolve topic %d: %v\n", card.ParentID, err)
	} else if rec != nil {
		title = rec.Title
	}
	fmt.Fprintf(s.out, "\n=== %s (card %d/%d) ===\n", title, pos, total)
}

// promptGrade solicits a 1-3 self-rating, re-asking on anything else.
func (s *Session) promptGrade() (srs.Grade, error) {
	for {
		fmt.Fprint(s.out, "> rate recall [1 hard / 2 good / 3 easy]: ")
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		switch strings.TrimSpace(line) {
		case "1":
			return srs.GradeHard, nil
		case "2":
			return srs.GradeGood, nil
		case "3":
			return srs.GradeEasy, nil
		}
	}
}

// editCard mutates question/answer in place and persists immediately.
// Empty input keeps the current value. The card is redrawn, not
// advanced.
func (s *Session) editCard(card *store.Card) error {
	fmt.Fprintf(s.out, "question [%s]\n> new question (empty keeps): ", card.Question)
	q, err := s.readLine()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "answer [%s]\n> new answer (empty keeps): ", card.Answer)
	a, err := s.readLine()
	if err != nil {
		return err
	}

	q = strings.TrimSpace(q)
	a = strings.TrimSpace(a)
	if q == "" && a == "" {
		return nil
	}
	if q == "" {
		q = card.Question
	}
	if a == "" {
		a = card.Answer
	}
	if err := s.db.UpdateCardContent(card.ID, q, a, card.Type); err != nil {
		return err
	}
	card.Question = q
	card.Answer = a
	fmt.Fprintln(s.out, "card updated")
	return nil
}

// deleteCard removes the card after confirmation. Returns true when the
// card is gone and the loop should advance without grading it.
func (s *Session) deleteCard(card *store.Card) (bool, error) {
	fmt.Fprintf(s.out, "> delete card %d permanently? (y/N): ", card.ID)
	line, err := s.readLine()
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(line), "y") {
		return false, nil
	}
	ok, err := s.db.DeleteCard(card.ID)
	if err != nil {
		return false, fmt.Errorf("delete card %d: %w", card.ID, err)
	}
	if !ok {
		fmt.Fprintf(s.out, "card %d already gone\n", card.ID)
	} else {
		fmt.Fprintln(s.out, "card deleted")
	}
	return true, nil
}

func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
