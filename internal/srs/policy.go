// Package srs implements the spaced-repetition scheduling policy.
//
// The policy is a pure function: given a card's current difficulty and
// stability, a 1-3 grade, and the time the answer took, it computes the
// next scheduling state. It never touches storage.
package srs

import (
	"fmt"
	"time"
)

// Grade is the user's self-assessment of a review.
type Grade int

const (
	GradeHard Grade = 1
	GradeGood Grade = 2
	GradeEasy Grade = 3
)

// Valid reports whether g is a known grade. Callers must reject unknown
// grades before invoking ComputeNext.
func (g Grade) Valid() bool {
	return g == GradeHard || g == GradeGood || g == GradeEasy
}

func (g Grade) String() string {
	switch g {
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// EasySlowThreshold is the response time above which an "easy" grade is
// demoted to the 2.5 virtual grade. Fast recall earns the full easy
// interval; a slow "easy" claim does not.
const EasySlowThreshold = 15 * time.Second

// First-grading stability lookup and per-grade stability multipliers,
// keyed by effective grade (1, 2, 2.5, 3).
var (
	initialStability = map[float64]float64{1: 1.0, 2: 3.0, 2.5: 4.0, 3: 5.0}
	stabilityFactor  = map[float64]float64{1: 0.5, 2: 1.5, 2.5: 1.8, 3: 2.5}
)

// Outcome is the scheduling state produced by one grading event.
type Outcome struct {
	Difficulty float64
	Stability  float64 // days until the next review
	LastReview time.Time
	NextReview time.Time
}

// EffectiveGrade applies the easy/slow penalty: an easy grade that took
// longer than EasySlowThreshold counts as 2.5, between good and easy.
// There is deliberately no symmetric adjustment for other grades.
func EffectiveGrade(grade Grade, elapsed time.Duration) float64 {
	if grade == GradeEasy && elapsed > EasySlowThreshold {
		return 2.5
	}
	return float64(grade)
}

// ComputeNext returns the card's next scheduling state. A stability of
// zero marks a card that has never been graded and selects the
// first-grading path. Deterministic for identical inputs.
func ComputeNext(difficulty, stability float64, grade Grade, elapsed time.Duration, now time.Time) Outcome {
	eff := EffectiveGrade(grade, elapsed)

	var newDifficulty, newStability float64
	if stability == 0 {
		newStability = initialStability[eff]
		newDifficulty = 5.0 - eff
	} else {
		newStability = stability * stabilityFactor[eff]
		if newStability < 1.0 {
			newStability = 1.0
		}
		newDifficulty = difficulty + (2.0-eff)*0.5
		if newDifficulty < 1.0 {
			newDifficulty = 1.0
		}
		if newDifficulty > 10.0 {
			newDifficulty = 10.0
		}
	}

	return Outcome{
		Difficulty: newDifficulty,
		Stability:  newStability,
		LastReview: now,
		NextReview: now.Add(days(newStability)),
	}
}

// days converts a fractional day count to a duration.
func days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}
