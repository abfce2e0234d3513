package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
)

// focusTimeout bounds the foreground request issued on notification click.
const focusTimeout = 5 * time.Second

// Gatekeeper makes the final call on whether a notification event is shown.
// It never returns an error: notification display is best-effort and an
// inability to show is plain suppression.
type Gatekeeper struct {
	preferences  model.PreferenceReader
	notifier     model.Notifier
	focuser      model.Focuser
	icon         string
	dismissAfter time.Duration
	logger       *logger.Logger
}

func NewGatekeeper(
	preferences model.PreferenceReader,
	notifier model.Notifier,
	focuser model.Focuser,
	icon string,
	dismissAfter time.Duration,
	logger *logger.Logger,
) *Gatekeeper {
	return &Gatekeeper{
		preferences:  preferences,
		notifier:     notifier,
		focuser:      focuser,
		icon:         icon,
		dismissAfter: dismissAfter,
		logger:       logger,
	}
}

// MaybeShow displays the notification when preferences and the platform
// permission allow it, and reports whether it did. It never prompts for
// permission: prompting belongs to explicit user actions, not to a
// background delivery path. The tag keeps repeated notifications of the
// same kind replacing each other instead of stacking.
func (g *Gatekeeper) MaybeShow(ctx context.Context, userID uuid.UUID, category model.Category, title, body, tag string) bool {
	if !g.preferences.CategoryEnabled(ctx, userID, category) {
		return false
	}

	if g.notifier.Permission() != model.PermissionGranted {
		return false
	}

	active, err := g.notifier.Show(ctx, model.Notification{
		Title: title,
		Body:  body,
		Tag:   tag,
		Icon:  g.icon,
	})
	if err != nil {
		g.logger.Warn("failed to display notification",
			"tag", tag,
			"error", err.Error())
		return false
	}

	go g.watch(active)
	return true
}

// watch auto-dismisses the notification after the configured interval, or
// focuses the application and dismisses on click.
func (g *Gatekeeper) watch(active model.ActiveNotification) {
	timer := time.NewTimer(g.dismissAfter)
	defer timer.Stop()

	select {
	case <-active.Clicked():
		ctx, cancel := context.WithTimeout(context.Background(), focusTimeout)
		defer cancel()
		if err := g.focuser.Focus(ctx); err != nil {
			g.logger.Warn("failed to focus application on notification click", "error", err.Error())
		}
		active.Dismiss()
	case <-timer.C:
		active.Dismiss()
	}
}
