package store

import (
	"fmt"
	"time"
)

// TopicStats summarizes review pressure for one registry entry.
type TopicStats struct {
	TopicID int64
	Title   string
	Due     int
	Total   int
}

// Stats is the dashboard snapshot: totals plus a per-topic breakdown of
// topics that have at least one due card.
type Stats struct {
	Records int
	Cards   int
	Due     int
	Pending int // pending mutation set cardinality
	ByTopic []TopicStats
}

// CollectStats gathers the dashboard counters in one pass.
func (db *DB) CollectStats(now time.Time) (*Stats, error) {
	var s Stats
	ms := now.UnixMilli()

	if err := db.QueryRow("SELECT COUNT(*) FROM registry").Scan(&s.Records); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&s.Cards); err != nil {
		return nil, fmt.Errorf("count cards: %w", err)
	}
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM cards
		WHERE stability = 0 OR next_review IS NULL OR next_review <= ?
	`, ms).Scan(&s.Due); err != nil {
		return nil, fmt.Errorf("count due cards: %w", err)
	}

	pending, err := db.CountPendingMutations()
	if err != nil {
		return nil, err
	}
	s.Pending = pending

	rows, err := db.Query(`
		SELECT r.id, r.title,
		       SUM(CASE WHEN c.stability = 0 OR c.next_review IS NULL OR c.next_review <= ? THEN 1 ELSE 0 END) AS due,
		       COUNT(c.id) AS total
		FROM registry r
		JOIN cards c ON c.parent_id = r.id
		GROUP BY r.id
		HAVING due > 0
		ORDER BY due DESC
	`, ms)
	if err != nil {
		return nil, fmt.Errorf("query topic stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts TopicStats
		if err := rows.Scan(&ts.TopicID, &ts.Title, &ts.Due, &ts.Total); err != nil {
			return nil, fmt.Errorf("scan topic stats: %w", err)
		}
		s.ByTopic = append(s.ByTopic, ts)
	}
	return &s, rows.Err()
}
