package model

import "context"

// Permission is the platform's three-state notification permission.
type Permission string

const (
	// PermissionGranted means notifications may be displayed.
	PermissionGranted Permission = "granted"
	// PermissionDenied means the user refused notifications; the platform
	// ignores further prompt requests.
	PermissionDenied Permission = "denied"
	// PermissionDefault means the user has not decided yet.
	PermissionDefault Permission = "default"
)

// PlatformInfo identifies the client platform for capability rules and the
// client_info column of subscription records.
type PlatformInfo struct {
	Name    string
	Version string
}

// Environment exposes the ambient runtime state inspected by the capability
// detector. Implementations wrap a browser bridge, a desktop shell, or a
// test double.
type Environment interface {
	HasWorkerAPI() bool
	HasPushAPI() bool
	HasNotificationAPI() bool
	SecureContext() bool
	Loopback() bool
	Platform() PlatformInfo
	// ProbeStorage performs a reversible storage write-then-read and reports
	// whether the environment behaves like private browsing. An error means
	// the probe itself broke, not that the environment is private.
	ProbeStorage(ctx context.Context) (private bool, err error)
}

// WorkerRuntime manages background worker registrations.
type WorkerRuntime interface {
	// Registration returns the already-activated registration for scope, or
	// ErrNotFound when none exists.
	Registration(ctx context.Context, scope string) (Worker, error)
	// Register installs the worker script at scope and returns once the
	// worker is ready.
	Register(ctx context.Context, script, scope string) (Worker, error)
}

// Worker is an activated background worker registration.
type Worker interface {
	// Subscription returns the worker's current push subscription, or
	// ErrNotFound when it has none.
	Subscription(ctx context.Context) (PushSubscription, error)
	// Subscribe creates a push subscription using the server's application key.
	Subscribe(ctx context.Context, applicationKey []byte) (PushSubscription, error)
}

// PushSubscription is a platform-issued push credential.
type PushSubscription interface {
	Endpoint() string
	Keys() (p256dh, auth string)
	Unsubscribe(ctx context.Context) error
}

// Notification is the displayable payload handed to the platform.
type Notification struct {
	Title string
	Body  string
	Tag   string
	Icon  string
}

// Notifier exposes the platform's notification permission and display surface.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, notification Notification) (ActiveNotification, error)
}

// ActiveNotification is a displayed notification that can be dismissed and
// reports user clicks.
type ActiveNotification interface {
	Dismiss()
	Clicked() <-chan struct{}
}

// Focuser brings the application into the foreground.
type Focuser interface {
	Focus(ctx context.Context) error
}
