package repository

import (
	"errors"
	"fmt"
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of categoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) GetByUser(userID string) ([]*emaildomain.Category, error) {
	var categories []*emaildomain.Category
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if cat.Keywords == nil {
			cat.Keywords = emaildomain.StringArray{}
		}
	}
	return categories, nil
}

func (r *categoryRepository) GetByName(userID, name string) (*emaildomain.Category, error) {
	var category emaildomain.Category
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.Category{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *categoryRepository) Create(category *emaildomain.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if category.Keywords == nil {
		category.Keywords = emaildomain.StringArray{}
	}

	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("category %q already exists for user: %w", category.Name, err)
		}
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *emaildomain.Category) error {
	category.UpdatedAt = time.Now()
	return r.db.Save(category).Error
}
