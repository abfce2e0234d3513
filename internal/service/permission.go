package service

import (
	"context"
	"fmt"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
)

// Negotiator requests the notification permission and normalizes the
// platform's answers into a single three-state result.
type Negotiator struct {
	notifier model.Notifier
	logger   *logger.Logger
}

func NewNegotiator(notifier model.Notifier, logger *logger.Logger) *Negotiator {
	return &Negotiator{
		notifier: notifier,
		logger:   logger,
	}
}

var _ model.PermissionNegotiator = (*Negotiator)(nil)

// Request resolves the notification permission. An already-granted user is
// never re-prompted; an already-denied user fails fast because denial is
// sticky and re-prompting is ignored by the platform. A denial returned by
// the prompt itself is a normal outcome, not an error — only a failed
// request is.
func (n *Negotiator) Request(ctx context.Context) (model.Permission, error) {
	switch n.notifier.Permission() {
	case model.PermissionGranted:
		return model.PermissionGranted, nil
	case model.PermissionDenied:
		return model.PermissionDenied, model.ErrPermissionDenied
	}

	result, err := n.notifier.RequestPermission(ctx)
	if err != nil {
		return model.PermissionDefault, fmt.Errorf("failed to request notification permission: %w", err)
	}

	n.logger.Debug("permission prompt resolved", "result", string(result))
	return result, nil
}
