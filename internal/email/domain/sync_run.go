package domain

import "time"

// SyncStage identifies a phase of the synchronization pipeline
type SyncStage string

const (
	StageConnecting  SyncStage = "connecting"
	StageFetching    SyncStage = "fetching"
	StageClassifying SyncStage = "classifying"
	StageSaving      SyncStage = "saving"
	StageCompleted   SyncStage = "completed"
	StageError       SyncStage = "error"
)

// SyncProgress is an ephemeral progress event emitted during a run.
// It is streamed to observers and never persisted.
type SyncProgress struct {
	Stage     SyncStage `json:"stage"`
	Percent   int       `json:"percent"`
	Message   string    `json:"message"`
	Current   string    `json:"current,omitempty"`
	Processed int       `json:"processed,omitempty"`
	Total     int       `json:"total,omitempty"`
}

// ProgressFunc receives progress events. A run invokes it zero or more
// times and always ends with exactly one completed or error event.
type ProgressFunc func(progress SyncProgress)

// SyncRun is the persisted summary of one synchronization run
type SyncRun struct {
	ID                string      `json:"id" gorm:"primaryKey"`
	UserID            string      `json:"user_id" gorm:"index;not null"`
	StartedAt         time.Time   `json:"started_at"`
	CompletedAt       time.Time   `json:"completed_at"`
	EmailsFetched     int         `json:"emails_fetched"`
	NewEmails         int         `json:"new_emails"`
	CategoriesCreated int         `json:"categories_created"`
	Errors            StringArray `json:"errors" gorm:"type:text"`
	Success           bool        `json:"success"`
	CreatedAt         time.Time   `json:"created_at"`
}
