package repository

import (
	"errors"
	"fmt"
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailRepository implements EmailRepository interface
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

// FilterNewExternalIDs computes fetched \ stored, order-preserving
func (r *emailRepository) FilterNewExternalIDs(userID string, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return []string{}, nil
	}

	var stored []string
	err := r.db.Model(&emaildomain.Email{}).
		Where("user_id = ? AND external_id IN ?", userID, externalIDs).
		Pluck("external_id", &stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stored message ids: %w", err)
	}

	storedSet := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		storedSet[id] = struct{}{}
	}

	fresh := make([]string, 0, len(externalIDs))
	for _, id := range externalIDs {
		if _, ok := storedSet[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

// SaveMessage persists a message. Persistence is idempotent per external id:
// a unique-constraint violation means the row already exists and is success.
func (r *emailRepository) SaveMessage(email *emaildomain.Email) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	now := time.Now()
	email.CreatedAt = now
	email.UpdatedAt = now
	if email.Labels == nil {
		email.Labels = emaildomain.StringArray{}
	}

	err := r.db.Create(email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to save message %q: %w", email.Subject, err)
	}
	return nil
}

func (r *emailRepository) GetByExternalID(userID, externalID string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("user_id = ? AND external_id = ?", userID, externalID).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) ListByUser(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	var total int64
	if err := r.db.Model(&emaildomain.Email{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emails []*emaildomain.Email
	err := r.db.Where("user_id = ?", userID).
		Order("received_at DESC").
		Limit(limit).Offset(offset).
		Find(&emails).Error
	if err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}
