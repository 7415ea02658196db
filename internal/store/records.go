package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ResourceType is the closed set of indexable resource kinds.
type ResourceType string

const (
	ResourceFile    ResourceType = "file"
	ResourceYoutube ResourceType = "youtube"
	ResourceNote    ResourceType = "note"
	ResourceConcept ResourceType = "concept"
	ResourceApp     ResourceType = "app"
	ResourceAccount ResourceType = "account"
)

// Record is a row of the registry: the master entry for any indexed
// resource. Cards reference their source record through ParentID.
type Record struct {
	ID         int64
	Type       ResourceType
	Title      string
	PathURL    string
	ContentRaw string
	MetaInfo   string // JSON blob
	CreatedAt  int64
	UpdatedAt  int64
}

// CreateRecord inserts a registry entry and fills in its assigned ID.
func (db *DB) CreateRecord(r *Record) error {
	now := time.Now().UnixMilli()
	meta := r.MetaInfo
	if meta == "" {
		meta = "{}"
	}
	result, err := db.Exec(`
		INSERT INTO registry (type, title, path_url, content_raw, meta_info, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Type, r.Title, r.PathURL, r.ContentRaw, meta, now, now)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	r.ID, _ = result.LastInsertId()
	r.MetaInfo = meta
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// GetRecord returns a registry entry by id, or nil if it does not exist.
func (db *DB) GetRecord(id int64) (*Record, error) {
	var r Record
	err := db.QueryRow(`
		SELECT id, type, title, path_url, COALESCE(content_raw, ''), meta_info, created_at, updated_at
		FROM registry WHERE id = ?
	`, id).Scan(&r.ID, &r.Type, &r.Title, &r.PathURL, &r.ContentRaw, &r.MetaInfo, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return &r, nil
}

// AddTag attaches a tag value to a registry entry.
func (db *DB) AddTag(registryID int64, value string) error {
	_, err := db.Exec("INSERT INTO tags (registry_id, value) VALUES (?, ?)", registryID, value)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// Tags returns the tag values of a registry entry.
func (db *DB) Tags(registryID int64) ([]string, error) {
	rows, err := db.Query("SELECT value FROM tags WHERE registry_id = ? ORDER BY id ASC", registryID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, v)
	}
	return tags, rows.Err()
}
