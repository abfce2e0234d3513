package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore defines persistence operations for subscription records.
type SubscriptionStore interface {
	Upsert(ctx context.Context, record SubscriptionRecord) error
	Disable(ctx context.Context, userID uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (SubscriptionRecord, error)
	ExistsByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (bool, error)
}

// SubscriptionSyncer hands completed subscriptions to the persistence layer.
type SubscriptionSyncer interface {
	Save(ctx context.Context, userID uuid.UUID, descriptor SubscriptionDescriptor) error
	Remove(ctx context.Context, userID uuid.UUID) error
	PreferenceState(ctx context.Context, userID uuid.UUID) (PreferenceState, error)
}

// Keys holds the client encryption parameters issued with a push subscription.
type Keys struct {
	P256DH string
	Auth   string
}

// SubscriptionDescriptor is the durable identity of a client's push endpoint.
type SubscriptionDescriptor struct {
	Endpoint string
	Keys     Keys
}

// Validate reports whether the descriptor may be persisted or used to send
// notifications. A descriptor missing its endpoint or either key is rejected.
func (d SubscriptionDescriptor) Validate() error {
	if d.Endpoint == "" {
		return fmt.Errorf("%w: empty endpoint", ErrInvalidSubscription)
	}
	if d.Keys.P256DH == "" {
		return fmt.Errorf("%w: missing p256dh key", ErrInvalidSubscription)
	}
	if d.Keys.Auth == "" {
		return fmt.Errorf("%w: missing auth key", ErrInvalidSubscription)
	}
	return nil
}

// SubscriptionRecord is the server-held subscription row, one per user.
// Unsubscribing disables the record and clears the endpoint and keys; the row
// itself is never deleted.
type SubscriptionRecord struct {
	UserID     uuid.UUID
	Enabled    bool
	Endpoint   *string
	P256DHKey  *string
	AuthKey    *string
	ClientInfo string
	UpdatedAt  time.Time
}

// PreferenceState summarizes a user's server-side subscription status.
type PreferenceState struct {
	Enabled         bool
	HasSubscription bool
}
