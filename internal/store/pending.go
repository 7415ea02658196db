package store

import (
	"fmt"
)

// The pending_mutations table is the durable accumulator behind the
// mutation throttle. It is a set: unioning the same id twice is a no-op.

// AddPendingMutations unions the given card ids into the pending set and
// returns the resulting cardinality.
func (db *DB) AddPendingMutations(ids []int64) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin pending union: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec("INSERT OR IGNORE INTO pending_mutations (card_id) VALUES (?)", id); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert pending %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit pending union: %w", err)
	}
	return db.CountPendingMutations()
}

// PendingMutations returns the full pending set, ordered by card id.
func (db *DB) PendingMutations() ([]int64, error) {
	rows, err := db.Query("SELECT card_id FROM pending_mutations ORDER BY card_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query pending mutations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending mutation: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountPendingMutations returns the cardinality of the pending set.
func (db *DB) CountPendingMutations() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM pending_mutations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending mutations: %w", err)
	}
	return n, nil
}

// ClearPendingMutations empties the pending set. Called only after a
// rewrite pass succeeds.
func (db *DB) ClearPendingMutations() error {
	if _, err := db.Exec("DELETE FROM pending_mutations"); err != nil {
		return fmt.Errorf("clear pending mutations: %w", err)
	}
	return nil
}
