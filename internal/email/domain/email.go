package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// StringArray is a custom type to handle JSON arrays in GORM text columns
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// TokenUpdateFunc is a callback invoked when the provider refreshes an OAuth token
type TokenUpdateFunc func(token *oauth2.Token) error

// Link is a hyperlink extracted from an HTML body
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// EmailContent is the normalized content structure derived from the raw
// MIME part tree. It is computed during extraction and never persisted.
type EmailContent struct {
	Text       string   `json:"text"`
	HTML       string   `json:"html"`
	Paragraphs []string `json:"paragraphs"`
	Links      []Link   `json:"links"`
	Headings   []string `json:"headings"`
}

// Email is a synced message. The (user_id, external_id) pair is the
// idempotency key: inserting the same external message twice is a no-op.
type Email struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"user_id" gorm:"uniqueIndex:idx_user_external;not null"`
	ExternalID  string      `json:"external_id" gorm:"uniqueIndex:idx_user_external;not null"`
	ThreadID    string      `json:"thread_id"`
	Subject     string      `json:"subject"`
	FromName    string      `json:"from_name"`
	FromEmail   string      `json:"from_email" gorm:"index"`
	Snippet     string      `json:"snippet"`
	BodyText    string      `json:"body_text" gorm:"type:text"`
	BodyHTML    string      `json:"body_html" gorm:"type:text"`
	ReceivedAt  time.Time   `json:"received_at"`
	IsImportant bool        `json:"is_important"`
	IsRead      bool        `json:"is_read"`
	Labels      StringArray `json:"labels" gorm:"type:text"`
	CategoryID  *string     `json:"category_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Derived content, populated by the extractor during a sync run
	Content *EmailContent `json:"content,omitempty" gorm:"-"`
}
