package pushgate

import "github.com/dtroode/pushgate/internal/model"

// Aliases re-export the domain types so callers never import internal
// packages directly.

// Permission is the platform's three-state notification permission.
type Permission = model.Permission

const (
	PermissionGranted = model.PermissionGranted
	PermissionDenied  = model.PermissionDenied
	PermissionDefault = model.PermissionDefault
)

// Category enumerates notification categories a user can toggle.
type Category = model.Category

const (
	CategorySales   = model.CategorySales
	CategoryBatches = model.CategoryBatches
	CategoryReports = model.CategoryReports
	CategoryStaff   = model.CategoryStaff
)

type (
	// CapabilityReport describes whether and why push notifications are
	// available on this platform.
	CapabilityReport = model.CapabilityReport
	// SubscriptionDescriptor is the durable identity of a push endpoint.
	SubscriptionDescriptor = model.SubscriptionDescriptor
	// Keys holds the client encryption parameters of a subscription.
	Keys = model.Keys
	// SubscriptionRecord is the server-held subscription row.
	SubscriptionRecord = model.SubscriptionRecord
	// PreferenceRecord holds a user's resolved notification preferences.
	PreferenceRecord = model.PreferenceRecord
	// PreferencePatch is a partial preference update; nil fields keep the
	// current value.
	PreferencePatch = model.PreferencePatch
	// PreferenceState summarizes the server-side subscription status.
	PreferenceState = model.PreferenceState
	// Notification is the displayable payload handed to the platform.
	Notification = model.Notification
	// PlatformInfo identifies the client platform.
	PlatformInfo = model.PlatformInfo
)

// Platform shim contracts. Callers supply implementations wrapping their
// runtime bridge; tests supply doubles.
type (
	Environment        = model.Environment
	WorkerRuntime      = model.WorkerRuntime
	Worker             = model.Worker
	PushSubscription   = model.PushSubscription
	Notifier           = model.Notifier
	ActiveNotification = model.ActiveNotification
	Focuser            = model.Focuser
)

// Storage contracts behind the lifecycle manager.
type (
	SubscriptionStore   = model.SubscriptionStore
	PreferenceCache     = model.PreferenceCache
	PreferenceFlagStore = model.PreferenceFlagStore
)

var (
	ErrNotFound                   = model.ErrNotFound
	ErrUnsupported                = model.ErrUnsupported
	ErrPermissionRequired         = model.ErrPermissionRequired
	ErrPermissionDenied           = model.ErrPermissionDenied
	ErrRegistrationFailed         = model.ErrRegistrationFailed
	ErrMisconfiguredServer        = model.ErrMisconfiguredServer
	ErrSubscriptionCreationFailed = model.ErrSubscriptionCreationFailed
	ErrInvalidSubscription        = model.ErrInvalidSubscription
	ErrPersistenceFailed          = model.ErrPersistenceFailed
)

// DefaultPreferences returns the documented defaults: everything enabled.
func DefaultPreferences() PreferenceRecord {
	return model.DefaultPreferences()
}
