package repository

import (
	emaildomain "inboxpilot-backend/internal/email/domain"
)

// EmailRepository is the deduplication and persistence gate for messages
type EmailRepository interface {
	// FilterNewExternalIDs returns the subset of externalIDs not yet stored
	// for the user, preserving the input order.
	FilterNewExternalIDs(userID string, externalIDs []string) ([]string, error)
	// SaveMessage inserts a message keyed by (user, external id). A duplicate
	// is a no-op success; any other storage error propagates.
	SaveMessage(email *emaildomain.Email) error
	// GetByExternalID returns the stored message or (nil, nil) when absent
	GetByExternalID(userID, externalID string) (*emaildomain.Email, error)
	// ListByUser returns stored messages, newest first
	ListByUser(userID string, limit, offset int) ([]*emaildomain.Email, int64, error)
}
