package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "registry: master table for indexed resources",
		SQL: `
CREATE TABLE registry (
    id          INTEGER PRIMARY KEY,
    type        TEXT NOT NULL CHECK (type IN ('file', 'youtube', 'note', 'concept', 'app', 'account')),
    title       TEXT NOT NULL,
    path_url    TEXT NOT NULL,
    content_raw TEXT,
    meta_info   TEXT NOT NULL DEFAULT '{}',
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_registry_type  ON registry(type);
CREATE INDEX idx_registry_title ON registry(title);
`,
	},
	{
		Version:     2,
		Description: "tags: free-form labels per registry entry",
		SQL: `
CREATE TABLE tags (
    id          INTEGER PRIMARY KEY,
    registry_id INTEGER NOT NULL,
    value       TEXT NOT NULL,

    FOREIGN KEY (registry_id) REFERENCES registry(id) ON DELETE CASCADE
);

CREATE INDEX idx_tags_registry ON tags(registry_id);
CREATE INDEX idx_tags_value    ON tags(value);
`,
	},
	{
		Version:     3,
		Description: "cards: spaced-repetition flashcards",
		SQL: `
CREATE TABLE cards (
    id          INTEGER PRIMARY KEY,
    parent_id   INTEGER NOT NULL,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    card_type   TEXT NOT NULL CHECK (card_type IN ('Factual', 'Conceptual', 'Relational', 'MCQ', 'TF', 'Cloze', 'Matching', 'MAQ')),

    -- Scheduling state. Zero difficulty/stability means never graded.
    difficulty  REAL NOT NULL DEFAULT 0,
    stability   REAL NOT NULL DEFAULT 0,
    last_review INTEGER,
    next_review INTEGER,

    created_at  INTEGER NOT NULL,

    FOREIGN KEY (parent_id) REFERENCES registry(id) ON DELETE CASCADE
);

CREATE INDEX idx_cards_parent ON cards(parent_id);
CREATE INDEX idx_cards_next   ON cards(next_review);
`,
	},
	{
		Version:     4,
		Description: "pending_mutations: reviewed card ids awaiting a rewrite pass",
		SQL: `
CREATE TABLE pending_mutations (
    card_id INTEGER PRIMARY KEY,

    FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
