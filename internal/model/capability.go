package model

import "context"

// CapabilityDetector inspects the runtime environment for push support.
type CapabilityDetector interface {
	Detect(ctx context.Context) CapabilityReport
}

// WorkerRegistrar provides the background worker registration.
type WorkerRegistrar interface {
	// EnsureRegistered reuses or creates the worker registration. Safe to
	// call concurrently; concurrent callers share one attempt.
	EnsureRegistered(ctx context.Context) (Worker, error)
	// Current returns the existing registration without creating one, or
	// ErrNotFound.
	Current(ctx context.Context) (Worker, error)
}

// PermissionNegotiator requests and normalizes the notification permission.
type PermissionNegotiator interface {
	Request(ctx context.Context) (Permission, error)
}

// CapabilityReport describes whether and why push notifications are available.
// It is recomputed on demand and never cached because permission can change
// out-of-band.
type CapabilityReport struct {
	Supported          bool
	Permission         Permission
	PlatformName       string
	PlatformVersion    string
	SecureContext      bool
	HasWorkerAPI       bool
	HasPushAPI         bool
	HasNotificationAPI bool
	// Reason is a human-readable explanation, non-empty whenever
	// Supported is false.
	Reason string
}
