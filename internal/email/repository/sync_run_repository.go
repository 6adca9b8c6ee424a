package repository

import (
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncRunRepository implements SyncRunRepository interface
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new instance of syncRunRepository
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{
		db: db,
	}
}

func (r *syncRunRepository) Create(run *emaildomain.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now()
	if run.Errors == nil {
		run.Errors = emaildomain.StringArray{}
	}
	return r.db.Create(run).Error
}

func (r *syncRunRepository) ListByUser(userID string, limit int) ([]*emaildomain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*emaildomain.SyncRun
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
