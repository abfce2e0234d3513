package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a lookup that matched no record. It is a valid
	// outcome for stores, distinct from a transport or backend error.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported means the capability check failed. Terminal, never retried.
	ErrUnsupported = errors.New("push notifications are not supported in this environment")

	// ErrPermissionRequired means the permission request did not end in a grant.
	ErrPermissionRequired = errors.New("notification permission has not been granted")

	// ErrPermissionDenied means the user denied notifications. Denial is
	// sticky; the user has to change it in the platform settings.
	ErrPermissionDenied = errors.New("notifications are blocked; enable them in the browser settings and try again")

	// ErrRegistrationFailed means the background worker could not be
	// registered or never became ready. Terminal for this attempt.
	ErrRegistrationFailed = errors.New("background worker registration failed")

	// ErrMisconfiguredServer means the server-issued application key is
	// missing or unusable. A deployment defect, never retried.
	ErrMisconfiguredServer = errors.New("push application key is not configured")

	// ErrSubscriptionCreationFailed means subscription creation kept failing
	// until retries were exhausted.
	ErrSubscriptionCreationFailed = errors.New("could not create a push subscription")

	// ErrInvalidSubscription means the platform returned a subscription
	// without an endpoint or keys. An integrity failure, never retried.
	ErrInvalidSubscription = errors.New("push subscription is incomplete")

	// ErrPersistenceFailed matches any PersistenceError via errors.Is.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// PersistenceCause classifies why a persistence operation ultimately failed.
type PersistenceCause string

const (
	// PersistenceCauseNetwork covers unreachable or timing-out transports.
	PersistenceCauseNetwork PersistenceCause = "network"
	// PersistenceCauseRejected covers authentication and policy rejections.
	PersistenceCauseRejected PersistenceCause = "rejected"
	// PersistenceCauseBackend covers errors reported by the store itself.
	PersistenceCauseBackend PersistenceCause = "backend"
)

// PersistenceError is raised once a persistence retry loop is exhausted. Its
// message carries an actionable hint instead of the raw transport error; the
// cause remains reachable through Unwrap for logging.
type PersistenceError struct {
	Op    string
	Cause PersistenceCause
	Err   error
}

func (e *PersistenceError) Error() string {
	var hint string
	switch e.Cause {
	case PersistenceCauseNetwork:
		hint = "could not reach the notification backend, check the network connection and try again"
	case PersistenceCauseRejected:
		hint = "the notification backend rejected the request, check the access policy for this user"
	default:
		hint = "the notification backend reported an internal error"
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, hint)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes every PersistenceError match ErrPersistenceFailed.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailed }
