package model

import (
	"context"

	"github.com/google/uuid"
)

// Category enumerates notification categories a user can toggle.
type Category string

const (
	// CategorySales covers sales log notifications.
	CategorySales Category = "sales"
	// CategoryBatches covers production batch notifications.
	CategoryBatches Category = "batches"
	// CategoryReports covers report-ready notifications.
	CategoryReports Category = "reports"
	// CategoryStaff covers staff activity notifications.
	CategoryStaff Category = "staff"
)

// Categories holds the per-category toggles of a preference record.
type Categories struct {
	Sales   bool
	Batches bool
	Reports bool
	Staff   bool
}

// Enabled returns the toggle for the named category. Unknown categories are
// reported as disabled.
func (c Categories) Enabled(category Category) bool {
	switch category {
	case CategorySales:
		return c.Sales
	case CategoryBatches:
		return c.Batches
	case CategoryReports:
		return c.Reports
	case CategoryStaff:
		return c.Staff
	default:
		return false
	}
}

// PreferenceRecord holds a user's notification preferences.
type PreferenceRecord struct {
	Enabled    bool
	Categories Categories
}

// DefaultPreferences returns the documented defaults: everything enabled.
func DefaultPreferences() PreferenceRecord {
	return PreferenceRecord{
		Enabled: true,
		Categories: Categories{
			Sales:   true,
			Batches: true,
			Reports: true,
			Staff:   true,
		},
	}
}

// PreferencePatch is a partial preference update. Nil fields leave the
// current value untouched, so a partial update never resets unspecified
// categories.
type PreferencePatch struct {
	Enabled *bool
	Sales   *bool
	Batches *bool
	Reports *bool
	Staff   *bool
}

// Merge overlays other onto p, field by field. A non-nil field in other wins.
func (p PreferencePatch) Merge(other PreferencePatch) PreferencePatch {
	merged := p
	if other.Enabled != nil {
		merged.Enabled = other.Enabled
	}
	if other.Sales != nil {
		merged.Sales = other.Sales
	}
	if other.Batches != nil {
		merged.Batches = other.Batches
	}
	if other.Reports != nil {
		merged.Reports = other.Reports
	}
	if other.Staff != nil {
		merged.Staff = other.Staff
	}
	return merged
}

// Apply resolves the patch against a base record, typically the defaults.
func (p PreferencePatch) Apply(base PreferenceRecord) PreferenceRecord {
	resolved := base
	if p.Enabled != nil {
		resolved.Enabled = *p.Enabled
	}
	if p.Sales != nil {
		resolved.Categories.Sales = *p.Sales
	}
	if p.Batches != nil {
		resolved.Categories.Batches = *p.Batches
	}
	if p.Reports != nil {
		resolved.Categories.Reports = *p.Reports
	}
	if p.Staff != nil {
		resolved.Categories.Staff = *p.Staff
	}
	return resolved
}

// PreferenceCache persists preference overrides locally.
type PreferenceCache interface {
	Get(ctx context.Context, userID uuid.UUID) (PreferencePatch, error)
	Put(ctx context.Context, userID uuid.UUID, patch PreferencePatch) error
}

// PreferenceFlagStore mirrors the global enabled flag to the backing store.
type PreferenceFlagStore interface {
	SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error
}

// PreferenceReader is the read-side contract consumed at delivery time.
type PreferenceReader interface {
	CategoryEnabled(ctx context.Context, userID uuid.UUID, category Category) bool
}
