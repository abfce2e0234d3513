package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
	"github.com/dtroode/pushgate/internal/retry"
)

// Subscription orchestrates the push subscription lifecycle: capability
// gating, worker registration, permission negotiation, reuse or creation of
// the platform subscription, and the handoff to persistence.
type Subscription struct {
	detector    model.CapabilityDetector
	registrar   model.WorkerRegistrar
	permissions model.PermissionNegotiator
	store       model.SubscriptionStore
	syncer      model.SubscriptionSyncer
	appKey      []byte
	retry       retry.Policy
	logger      *logger.Logger
}

func NewSubscription(
	detector model.CapabilityDetector,
	registrar model.WorkerRegistrar,
	permissions model.PermissionNegotiator,
	store model.SubscriptionStore,
	syncer model.SubscriptionSyncer,
	appKey []byte,
	retryPolicy retry.Policy,
	logger *logger.Logger,
) *Subscription {
	return &Subscription{
		detector:    detector,
		registrar:   registrar,
		permissions: permissions,
		store:       store,
		syncer:      syncer,
		appKey:      appKey,
		retry:       retryPolicy,
		logger:      logger,
	}
}

// Subscribe creates or reuses a push subscription for the user and persists
// it. A still-valid existing subscription is returned as-is without a second
// persistence write, so repeated calls converge on the same endpoint.
func (s *Subscription) Subscribe(ctx context.Context, userID uuid.UUID) (model.SubscriptionDescriptor, error) {
	report := s.detector.Detect(ctx)
	if !report.Supported {
		return model.SubscriptionDescriptor{}, fmt.Errorf("%w: %s", model.ErrUnsupported, report.Reason)
	}

	worker, err := s.registrar.EnsureRegistered(ctx)
	if err != nil {
		return model.SubscriptionDescriptor{}, err
	}

	permission, err := s.permissions.Request(ctx)
	if err != nil {
		return model.SubscriptionDescriptor{}, err
	}
	if permission != model.PermissionGranted {
		return model.SubscriptionDescriptor{}, model.ErrPermissionRequired
	}

	existing, err := worker.Subscription(ctx)
	if err == nil {
		if descriptor, ok := s.reuse(ctx, userID, existing); ok {
			return descriptor, nil
		}
	} else if !errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("failed to look up existing subscription, creating a new one",
			"user_id", userID,
			"error", err.Error())
	}

	if len(s.appKey) == 0 {
		return model.SubscriptionDescriptor{}, model.ErrMisconfiguredServer
	}

	var created model.PushSubscription
	err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		sub, err := worker.Subscribe(ctx, s.appKey)
		if err != nil {
			s.logger.Debug("subscription creation attempt failed", "error", err.Error())
			return err
		}
		created = sub
		return nil
	})
	if err != nil {
		return model.SubscriptionDescriptor{}, fmt.Errorf("%w: %v", model.ErrSubscriptionCreationFailed, err)
	}

	// Integrity check, not a network failure: an incomplete subscription
	// indicates a platform bug and is never retried.
	descriptor, err := descriptorFrom(created)
	if err != nil {
		return model.SubscriptionDescriptor{}, err
	}

	if err := s.syncer.Save(ctx, userID, descriptor); err != nil {
		return model.SubscriptionDescriptor{}, err
	}

	s.logger.Info("push subscription created", "user_id", userID)
	return descriptor, nil
}

// Unsubscribe is best-effort local cleanup: it cancels the worker's current
// subscription when one exists. Server-side soft-clearing is the persistence
// synchronizer's job and proceeds regardless of errors here.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	worker, err := s.registrar.Current(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up worker registration: %w", err)
	}

	sub, err := worker.Subscription(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up local subscription: %w", err)
	}

	if err := sub.Unsubscribe(ctx); err != nil {
		return fmt.Errorf("failed to cancel local subscription: %w", err)
	}

	s.logger.Info("local push subscription cancelled")
	return nil
}

// reuse validates the worker's current subscription against the server and
// returns its descriptor when the server still recognizes the endpoint. A
// stale or unverifiable subscription is cancelled locally so a fresh one can
// be created.
func (s *Subscription) reuse(ctx context.Context, userID uuid.UUID, sub model.PushSubscription) (model.SubscriptionDescriptor, bool) {
	known, err := s.store.ExistsByEndpoint(ctx, userID, sub.Endpoint())
	if err == nil && known {
		descriptor, derr := descriptorFrom(sub)
		if derr == nil {
			s.logger.Debug("reusing existing subscription", "user_id", userID)
			return descriptor, true
		}
		s.logger.Warn("existing subscription is incomplete, replacing it",
			"user_id", userID,
			"error", derr.Error())
	}
	if err != nil {
		s.logger.Warn("server validation failed, treating subscription as stale",
			"user_id", userID,
			"error", err.Error())
	}

	if uerr := sub.Unsubscribe(ctx); uerr != nil {
		s.logger.Warn("failed to cancel stale subscription",
			"user_id", userID,
			"error", uerr.Error())
	}
	return model.SubscriptionDescriptor{}, false
}

func descriptorFrom(sub model.PushSubscription) (model.SubscriptionDescriptor, error) {
	p256dh, auth := sub.Keys()
	descriptor := model.SubscriptionDescriptor{
		Endpoint: sub.Endpoint(),
		Keys: model.Keys{
			P256DH: p256dh,
			Auth:   auth,
		},
	}
	if err := descriptor.Validate(); err != nil {
		return model.SubscriptionDescriptor{}, err
	}
	return descriptor, nil
}
