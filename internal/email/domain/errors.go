package domain

import "errors"

var (
	// ErrSyncInProgress is returned when a sync is requested while a prior
	// run for the same account is still in flight.
	ErrSyncInProgress = errors.New("sync already running for this account")

	// ErrNoCategoryAvailable means classification cannot proceed because the
	// user owns zero categories. Fatal only for the message being classified.
	ErrNoCategoryAvailable = errors.New("no category available")

	// ErrSessionExpired is surfaced after credential refresh retries are
	// exhausted on a provider request.
	ErrSessionExpired = errors.New("mail provider session expired")
)
