// Package sqlite implements the local preference cache over an embedded
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dtroode/pushgate/internal/model"
)

var _ model.PreferenceCache = (*PreferenceCache)(nil)

// PreferenceCache stores per-user preference overrides. Columns are nullable
// so a partial override stays partial: an unset category resolves to its
// default at read time instead of a stored false.
type PreferenceCache struct {
	db *sqlx.DB
}

// NewPreferenceCache opens (or creates) the cache database at path, enables
// WAL mode, and ensures the schema exists.
func NewPreferenceCache(path string) (*PreferenceCache, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	c := &PreferenceCache{db: db}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *PreferenceCache) ensureSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS preferences (
			user_id    TEXT PRIMARY KEY,
			enabled    INTEGER,
			sales      INTEGER,
			batches    INTEGER,
			reports    INTEGER,
			staff      INTEGER,
			updated_at DATETIME NOT NULL
		)`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create preference schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *PreferenceCache) Close() error {
	return c.db.Close()
}

func (c *PreferenceCache) Get(ctx context.Context, userID uuid.UUID) (model.PreferencePatch, error) {
	const query = `
		SELECT enabled, sales, batches, reports, staff
		FROM preferences WHERE user_id = ?`

	var row struct {
		Enabled sql.NullBool `db:"enabled"`
		Sales   sql.NullBool `db:"sales"`
		Batches sql.NullBool `db:"batches"`
		Reports sql.NullBool `db:"reports"`
		Staff   sql.NullBool `db:"staff"`
	}
	err := c.db.GetContext(ctx, &row, query, userID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PreferencePatch{}, model.ErrNotFound
		}
		return model.PreferencePatch{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	return model.PreferencePatch{
		Enabled: fromNullBool(row.Enabled),
		Sales:   fromNullBool(row.Sales),
		Batches: fromNullBool(row.Batches),
		Reports: fromNullBool(row.Reports),
		Staff:   fromNullBool(row.Staff),
	}, nil
}

func (c *PreferenceCache) Put(ctx context.Context, userID uuid.UUID, patch model.PreferencePatch) error {
	const query = `
		INSERT INTO preferences (user_id, enabled, sales, batches, reports, staff, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE
		SET enabled = excluded.enabled,
		    sales = excluded.sales,
		    batches = excluded.batches,
		    reports = excluded.reports,
		    staff = excluded.staff,
		    updated_at = excluded.updated_at`

	_, err := c.db.ExecContext(ctx, query,
		userID.String(),
		patch.Enabled, patch.Sales, patch.Batches, patch.Reports, patch.Staff,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func fromNullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
