package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ogarral/rss-curator/app/feed"
)

// StateRepo persists per-group aggregation state between runs.
type StateRepo struct {
	db *DB
}

func NewStateRepository(db *DB) *StateRepo {
	return &StateRepo{db: db}
}

// LoadState returns the stored state for a group. A group that has never
// been saved yields an empty state, not an error.
func (r *StateRepo) LoadState(groupName string) (*feed.State, error) {
	state := &feed.State{}

	var lastUpdated string
	err := r.db.QueryRow(`
		SELECT title, description, last_updated
		FROM groups
		WHERE name = ?
	`, groupName).Scan(&state.Title, &state.Description, &lastUpdated)

	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group state: %w", err)
	}

	if lastUpdated != "" {
		state.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_updated: %w", err)
		}
	}

	rows, err := r.db.Query(`
		SELECT guid, title, link, description, author, published_at,
		       category, topic, summary, enriched, excluded, exclude_reason, enrichment_error
		FROM group_items
		WHERE group_name = ?
		ORDER BY position
	`, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to load group items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item feed.Item
		var publishedAt string
		err := rows.Scan(
			&item.GUID, &item.Title, &item.Link, &item.Description, &item.Author, &publishedAt,
			&item.Category, &item.Topic, &item.Summary,
			&item.Enriched, &item.Excluded, &item.ExcludeReason, &item.EnrichmentError,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}

		item.PublishedAt, err = time.Parse(time.RFC3339, publishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse published_at: %w", err)
		}

		state.Items = append(state.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return state, nil
}

// SaveState replaces the stored state for a group in a single transaction.
func (r *StateRepo) SaveState(groupName string, state *feed.State) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO groups (name, title, description, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET title = excluded.title, description = excluded.description, last_updated = excluded.last_updated
	`, groupName, state.Title, state.Description, state.LastUpdated.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}

	_, err = tx.Exec("DELETE FROM group_items WHERE group_name = ?", groupName)
	if err != nil {
		return fmt.Errorf("failed to clear group items: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO group_items (group_name, link, guid, title, description, author, published_at,
		                         category, topic, summary, enriched, excluded, exclude_reason, enrichment_error, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for position, item := range state.Items {
		_, err := stmt.Exec(
			groupName, item.Link, item.GUID, item.Title, item.Description, item.Author,
			item.PublishedAt.Format(time.RFC3339),
			item.Category, item.Topic, item.Summary,
			item.Enriched, item.Excluded, item.ExcludeReason, item.EnrichmentError,
			position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}

	return nil
}

// GetGroupCount returns the number of groups with stored state.
func (r *StateRepo) GetGroupCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM groups").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get group count: %w", err)
	}
	return count, nil
}

// GetStateStats returns total, enriched and excluded item counts for a group.
func (r *StateRepo) GetStateStats(groupName string) (int, int, int, error) {
	var total, enriched, excluded int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN enriched THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN excluded THEN 1 ELSE 0 END), 0)
		FROM group_items
		WHERE group_name = ?
	`, groupName).Scan(&total, &enriched, &excluded)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get item stats: %w", err)
	}
	return total, enriched, excluded, nil
}
