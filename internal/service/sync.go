package service

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
	"github.com/dtroode/pushgate/internal/retry"
)

// Sync keeps the server-held subscription record consistent with the client.
// Every operation shares one bounded retry policy; once attempts are
// exhausted the raw transport error is replaced with a classified
// PersistenceError.
type Sync struct {
	store      model.SubscriptionStore
	clientInfo string
	retry      retry.Policy
	logger     *logger.Logger
}

func NewSync(store model.SubscriptionStore, clientInfo string, retryPolicy retry.Policy, logger *logger.Logger) *Sync {
	return &Sync{
		store:      store,
		clientInfo: clientInfo,
		retry:      retryPolicy,
		logger:     logger,
	}
}

var _ model.SubscriptionSyncer = (*Sync)(nil)

// Save upserts the subscription record keyed by user, so a retried attempt
// after a partial prior success stays at-most-one record per user. An
// invalid descriptor is rejected before any write.
func (s *Sync) Save(ctx context.Context, userID uuid.UUID, descriptor model.SubscriptionDescriptor) error {
	if err := descriptor.Validate(); err != nil {
		return err
	}

	record := model.SubscriptionRecord{
		UserID:     userID,
		Enabled:    true,
		Endpoint:   &descriptor.Endpoint,
		P256DHKey:  &descriptor.Keys.P256DH,
		AuthKey:    &descriptor.Keys.Auth,
		ClientInfo: s.clientInfo,
		UpdatedAt:  time.Now().UTC(),
	}

	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.store.Upsert(ctx, record)
	})
	if err != nil {
		s.logger.Error("failed to save subscription record",
			"user_id", userID,
			"error", err.Error())
		return s.classify("save the subscription", err)
	}

	return nil
}

// Remove disables the record and clears the endpoint and keys. The row is
// kept for audit history. A user without a record is a no-op, not an error.
func (s *Sync) Remove(ctx context.Context, userID uuid.UUID) error {
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		err := s.store.Disable(ctx, userID)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		s.logger.Error("failed to disable subscription record",
			"user_id", userID,
			"error", err.Error())
		return s.classify("disable the subscription", err)
	}

	return nil
}

// PreferenceState reports the user's server-side subscription status. A
// missing record is a valid result, distinct from transport errors, which
// are retried.
func (s *Sync) PreferenceState(ctx context.Context, userID uuid.UUID) (model.PreferenceState, error) {
	var state model.PreferenceState
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		record, err := s.store.GetByUserID(ctx, userID)
		if errors.Is(err, model.ErrNotFound) {
			state = model.PreferenceState{}
			return nil
		}
		if err != nil {
			return err
		}
		state = model.PreferenceState{
			Enabled:         record.Enabled,
			HasSubscription: record.Endpoint != nil && *record.Endpoint != "",
		}
		return nil
	})
	if err != nil {
		return model.PreferenceState{}, s.classify("read the subscription state", err)
	}

	return state, nil
}

func (s *Sync) classify(op string, err error) error {
	return &model.PersistenceError{
		Op:    op,
		Cause: causeOf(err),
		Err:   err,
	}
}

func causeOf(err error) model.PersistenceCause {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return model.PersistenceCauseNetwork
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501" || pgerrClass(pgErr.Code) == "28":
			// insufficient_privilege / invalid_authorization_specification
			return model.PersistenceCauseRejected
		case pgerrClass(pgErr.Code) == "08":
			// connection_exception
			return model.PersistenceCauseNetwork
		}
	}

	return model.PersistenceCauseBackend
}

func pgerrClass(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[:2]
}
