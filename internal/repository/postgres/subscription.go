package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/pushgate/internal/model"
)

var _ model.SubscriptionStore = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	db *Connection
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

// Upsert writes the record keyed by user_id so each user keeps at most one
// row. Concurrent writers converge on last-write-wins.
func (r *SubscriptionRepository) Upsert(ctx context.Context, record model.SubscriptionRecord) error {
	query := `
		INSERT INTO push_subscriptions (user_id, enabled, endpoint, p256dh_key, auth_key, client_info, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    endpoint = EXCLUDED.endpoint,
		    p256dh_key = EXCLUDED.p256dh_key,
		    auth_key = EXCLUDED.auth_key,
		    client_info = EXCLUDED.client_info,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		record.UserID, record.Enabled, record.Endpoint,
		record.P256DHKey, record.AuthKey, record.ClientInfo, record.UpdatedAt,
	)
	return err
}

// Disable soft-clears the record: the endpoint and keys are nulled and the
// row stays behind for audit history.
func (r *SubscriptionRepository) Disable(ctx context.Context, userID uuid.UUID) error {
	const query = `
		UPDATE push_subscriptions
		SET enabled = FALSE, endpoint = NULL, p256dh_key = NULL, auth_key = NULL, updated_at = NOW()
		WHERE user_id = $1`

	cmd, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.SubscriptionRecord, error) {
	query := `
		SELECT user_id, enabled, endpoint, p256dh_key, auth_key, client_info, updated_at
		FROM push_subscriptions
		WHERE user_id = $1`

	var record model.SubscriptionRecord
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&record.UserID, &record.Enabled, &record.Endpoint,
		&record.P256DHKey, &record.AuthKey, &record.ClientInfo, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SubscriptionRecord{}, model.ErrNotFound
		}
		return model.SubscriptionRecord{}, err
	}

	return record, nil
}

// ExistsByEndpoint is the lightweight server-side validity check used when
// deciding whether a local subscription can be reused.
func (r *SubscriptionRepository) ExistsByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM push_subscriptions
			WHERE user_id = $1 AND endpoint = $2 AND enabled
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, endpoint).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
