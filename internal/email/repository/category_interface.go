package repository

import (
	emaildomain "inboxpilot-backend/internal/email/domain"
)

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	// GetByUser returns the user's categories in creation order. The order is
	// stable so that similarity tie-breaks stay deterministic.
	GetByUser(userID string) ([]*emaildomain.Category, error)
	// GetByName returns the category with the exact name, or (nil, nil)
	GetByName(userID, name string) (*emaildomain.Category, error)
	// CountByUser returns how many categories the user owns
	CountByUser(userID string) (int64, error)
	// Create inserts a category; the (user, name) pair must be unique
	Create(category *emaildomain.Category) error
	// Update saves changes to an existing category
	Update(category *emaildomain.Category) error
}
