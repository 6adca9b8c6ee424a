package repository

import (
	emaildomain "inboxpilot-backend/internal/email/domain"
)

// SyncRunRepository stores the immutable history of synchronization runs
type SyncRunRepository interface {
	// Create appends one run record
	Create(run *emaildomain.SyncRun) error
	// ListByUser returns the most recent runs, newest first
	ListByUser(userID string, limit int) ([]*emaildomain.SyncRun, error)
}
