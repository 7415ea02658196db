package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CardType is the closed set of flashcard formats.
type CardType string

const (
	CardFactual    CardType = "Factual"
	CardConceptual CardType = "Conceptual"
	CardRelational CardType = "Relational"
	CardMCQ        CardType = "MCQ"
	CardTF         CardType = "TF"
	CardCloze      CardType = "Cloze"
	CardMatching   CardType = "Matching"
	CardMAQ        CardType = "MAQ"
)

// CardTypes lists every valid card type.
var CardTypes = []CardType{
	CardFactual, CardConceptual, CardRelational,
	CardMCQ, CardTF, CardCloze, CardMatching, CardMAQ,
}

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	for _, ct := range CardTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// AutoGradable reports whether correctness for this type can be decided
// by direct string comparison against the stored answer.
func (t CardType) AutoGradable() bool {
	return t == CardMCQ || t == CardTF || t == CardMatching
}

// Card is a single reviewable question/answer unit. For structured types
// (MCQ, Matching, MAQ) Question carries a serialized JSON payload.
// Timestamps are Unix milliseconds; nil means never reviewed.
type Card struct {
	ID         int64
	ParentID   int64
	Question   string
	Answer     string
	Type       CardType
	Difficulty float64
	Stability  float64
	LastReview *int64
	NextReview *int64
	CreatedAt  int64
}

// Due reports whether the card is eligible for review at the given time.
// A card that has never been graded (stability == 0) is always due.
func (c *Card) Due(now time.Time) bool {
	if c.Stability == 0 {
		return true
	}
	return c.NextReview == nil || *c.NextReview <= now.UnixMilli()
}

const cardColumns = "id, parent_id, question, answer, card_type, difficulty, stability, last_review, next_review, created_at"

func scanCard(row interface{ Scan(...any) error }) (*Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.ParentID, &c.Question, &c.Answer, &c.Type,
		&c.Difficulty, &c.Stability, &c.LastReview, &c.NextReview, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCard inserts a new card and fills in its assigned ID.
func (db *DB) CreateCard(c *Card) error {
	if !c.Type.Valid() {
		return fmt.Errorf("invalid card type %q", c.Type)
	}
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO cards (parent_id, question, answer, card_type, difficulty, stability, last_review, next_review, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ParentID, c.Question, c.Answer, c.Type, c.Difficulty, c.Stability, c.LastReview, c.NextReview, now)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	c.ID, _ = result.LastInsertId()
	c.CreatedAt = now
	return nil
}

// GetCard returns a card by id, or nil if it does not exist.
func (db *DB) GetCard(id int64) (*Card, error) {
	c, err := scanCard(db.QueryRow("SELECT "+cardColumns+" FROM cards WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return c, nil
}

// GetCards returns the cards with the given ids, skipping unknown ids.
func (db *DB) GetCards(ids []int64) ([]Card, error) {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		c, err := db.GetCard(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

// UpdateCardContent rewrites the text payload of a card. The card type is
// updated too since rewrite passes may change the format.
func (db *DB) UpdateCardContent(id int64, question, answer string, ctype CardType) error {
	if !ctype.Valid() {
		return fmt.Errorf("invalid card type %q", ctype)
	}
	result, err := db.Exec(`
		UPDATE cards SET question = ?, answer = ?, card_type = ? WHERE id = ?
	`, question, answer, ctype, id)
	if err != nil {
		return fmt.Errorf("update card %d content: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("card %d not found", id)
	}
	return nil
}

// UpdateCardReview persists the scheduling fields produced by a grading
// event. Only the scheduling policy computes these values.
func (db *DB) UpdateCardReview(id int64, difficulty, stability float64, lastReview, nextReview int64) error {
	result, err := db.Exec(`
		UPDATE cards SET difficulty = ?, stability = ?, last_review = ?, next_review = ? WHERE id = ?
	`, difficulty, stability, lastReview, nextReview, id)
	if err != nil {
		return fmt.Errorf("update card %d review: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("card %d not found", id)
	}
	return nil
}

// DeleteCard removes a card permanently. Returns false if no card had
// the given id.
func (db *DB) DeleteCard(id int64) (bool, error) {
	result, err := db.Exec("DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete card %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// DueQuery filters the card set fetched by DueCards.
type DueQuery struct {
	TopicID     *int64 // restrict to cards of one parent record
	PullForward bool   // ignore the due-date filter entirely
	Now         time.Time
}

// DueCards returns cards matching the query, ordered ascending by
// next_review with never-scheduled cards first. Cards that have never
// been graded (stability = 0) are always considered due.
func (db *DB) DueCards(q DueQuery) ([]Card, error) {
	query := "SELECT " + cardColumns + " FROM cards"
	var where []string
	var args []any

	if q.TopicID != nil {
		where = append(where, "parent_id = ?")
		args = append(args, *q.TopicID)
	}
	if !q.PullForward {
		where = append(where, "(stability = 0 OR next_review IS NULL OR next_review <= ?)")
		args = append(args, q.Now.UnixMilli())
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY next_review IS NOT NULL, next_review ASC, id ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query due cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// CardsByParent returns all cards belonging to one registry entry.
func (db *DB) CardsByParent(parentID int64) ([]Card, error) {
	rows, err := db.Query("SELECT "+cardColumns+" FROM cards WHERE parent_id = ? ORDER BY id ASC", parentID)
	if err != nil {
		return nil, fmt.Errorf("query cards by parent: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// AllCards returns every card, ordered by id.
func (db *DB) AllCards() ([]Card, error) {
	rows, err := db.Query("SELECT " + cardColumns + " FROM cards ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query all cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}
