package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
)

// Preference manages per-user notification category toggles. The local cache
// is authoritative; the global enabled flag is mirrored to the backing store
// best-effort.
type Preference struct {
	cache  model.PreferenceCache
	mirror model.PreferenceFlagStore
	logger *logger.Logger
}

func NewPreference(cache model.PreferenceCache, mirror model.PreferenceFlagStore, logger *logger.Logger) *Preference {
	return &Preference{
		cache:  cache,
		mirror: mirror,
		logger: logger,
	}
}

var _ model.PreferenceReader = (*Preference)(nil)

// Settings resolves the stored override against the defaults. A category
// absent from the override keeps its default; a fresh user gets everything
// enabled. Cache failures fall back to the defaults rather than blocking.
func (p *Preference) Settings(ctx context.Context, userID uuid.UUID) model.PreferenceRecord {
	patch, err := p.cache.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			p.logger.Warn("failed to read preference cache, using defaults",
				"user_id", userID,
				"error", err.Error())
		}
		return model.DefaultPreferences()
	}

	return patch.Apply(model.DefaultPreferences())
}

// Update merges the patch into the stored override and writes it to the
// local cache. When the global flag changes it is mirrored to the backing
// store; a mirror failure is logged and does not roll back the local write.
func (p *Preference) Update(ctx context.Context, userID uuid.UUID, patch model.PreferencePatch) error {
	current, err := p.cache.Get(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to read stored preferences: %w", err)
	}

	merged := current.Merge(patch)
	if err := p.cache.Put(ctx, userID, merged); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}

	if patch.Enabled != nil {
		if err := p.mirror.SetEnabled(ctx, userID, *patch.Enabled); err != nil {
			p.logger.Warn("failed to mirror enabled flag to the backing store",
				"user_id", userID,
				"error", err.Error())
		}
	}

	return nil
}

// CategoryEnabled reports whether notifications of the category should be
// delivered. The global flag dominates: when it is off every category is
// off, whatever its own toggle says.
func (p *Preference) CategoryEnabled(ctx context.Context, userID uuid.UUID, category model.Category) bool {
	settings := p.Settings(ctx, userID)
	if !settings.Enabled {
		return false
	}
	return settings.Categories.Enabled(category)
}
