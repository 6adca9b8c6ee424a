package usecase

import (
	"context"

	emaildomain "inboxpilot-backend/internal/email/domain"
	emaildto "inboxpilot-backend/internal/email/dto"
)

// EmailUsecase defines the email pipeline operations exposed to delivery
type EmailUsecase interface {
	// Synchronize runs the full sync pipeline for the user. It returns
	// ErrSyncInProgress when a run is already in flight; any other outcome is
	// reported through the returned SyncRun, never as an error.
	Synchronize(ctx context.Context, userID string, maxMessages int) (*emaildomain.SyncRun, error)
	GetSyncHistory(userID string, limit int) ([]*emaildomain.SyncRun, error)

	ListEmails(userID string, limit, offset int) ([]*emaildomain.Email, int64, error)

	GetCategories(userID string) ([]*emaildomain.Category, error)
	CreateCategory(userID string, req *emaildto.CreateCategoryRequest) (*emaildomain.Category, error)

	SendEmail(ctx context.Context, userID string, req *emaildto.SendEmailRequest) error
}
