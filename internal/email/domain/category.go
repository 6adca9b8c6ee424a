package domain

import "time"

// UncategorizedID is the sentinel category id for messages no classifier
// could place with enough confidence.
const UncategorizedID = ""

// MaxCategoriesPerUser caps auto-creation; the remote classifier must reuse
// or fall back once a user owns this many categories.
const MaxCategoriesPerUser = 8

// Category is a user-scoped mail category. Name is unique per user.
type Category struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"user_id" gorm:"uniqueIndex:idx_user_category_name;not null"`
	Name        string      `json:"name" gorm:"uniqueIndex:idx_user_category_name;not null"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon"`
	AutoCreated bool        `json:"auto_created"`
	Description string      `json:"description,omitempty"`
	Keywords    StringArray `json:"keywords,omitempty" gorm:"type:text"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
