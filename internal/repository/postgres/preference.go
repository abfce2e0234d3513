package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/pushgate/internal/model"
)

var _ model.PreferenceFlagStore = (*PreferenceRepository)(nil)

// PreferenceRepository mirrors the user's global notification flag to the
// backing store. Category toggles stay in the local cache.
type PreferenceRepository struct {
	db *Connection
}

func NewPreferenceRepository(db *Connection) *PreferenceRepository {
	return &PreferenceRepository{
		db: db,
	}
}

func (r *PreferenceRepository) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error {
	query := `
		INSERT INTO notification_preferences (user_id, enabled, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, userID, enabled)
	return err
}
