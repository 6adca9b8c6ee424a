package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	authdomain "inboxpilot-backend/internal/auth/domain"
	authrepo "inboxpilot-backend/internal/auth/repository"
	emaildomain "inboxpilot-backend/internal/email/domain"
	emaildto "inboxpilot-backend/internal/email/dto"
	"inboxpilot-backend/internal/email/repository"
	"inboxpilot-backend/pkg/config"
	"inboxpilot-backend/pkg/utils/crypto"

	"golang.org/x/oauth2"
)

// ProgressPublisher receives progress events for a user's sync run. The SSE
// manager satisfies this; tests use a plain function.
type ProgressPublisher func(userID string, progress emaildomain.SyncProgress)

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	userRepo     authrepo.UserRepository
	emailRepo    repository.EmailRepository
	categoryRepo repository.CategoryRepository
	syncRunRepo  repository.SyncRunRepository
	gmailSvc     emaildomain.MailProvider
	imapSvc      emaildomain.MailProvider
	categorizer  *Categorizer
	config       *config.Config
	publish      ProgressPublisher

	// single-flight guard, one entry per account with a running sync
	syncMu      sync.Mutex
	activeSyncs map[string]bool
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(
	userRepo authrepo.UserRepository,
	emailRepo repository.EmailRepository,
	categoryRepo repository.CategoryRepository,
	syncRunRepo repository.SyncRunRepository,
	gmailSvc emaildomain.MailProvider,
	imapSvc emaildomain.MailProvider,
	categorizer *Categorizer,
	cfg *config.Config,
	publish ProgressPublisher,
) EmailUsecase {
	return &emailUsecase{
		userRepo:     userRepo,
		emailRepo:    emailRepo,
		categoryRepo: categoryRepo,
		syncRunRepo:  syncRunRepo,
		gmailSvc:     gmailSvc,
		imapSvc:      imapSvc,
		categorizer:  categorizer,
		config:       cfg,
		publish:      publish,
		activeSyncs:  make(map[string]bool),
	}
}

// providerFor picks the mail provider and builds its credentials for the user
func (u *emailUsecase) providerFor(user *authdomain.User) (emaildomain.MailProvider, emaildomain.Credentials, error) {
	if user.Provider == "imap" {
		if u.imapSvc == nil {
			return nil, emaildomain.Credentials{}, errors.New("IMAP provider is not configured")
		}
		password, err := crypto.Decrypt(user.ImapPassword, u.config.EncryptionKey)
		if err != nil {
			return nil, emaildomain.Credentials{}, fmt.Errorf("failed to decrypt IMAP password: %w", err)
		}
		return u.imapSvc, emaildomain.Credentials{
			IMAPHost:     user.ImapHost,
			IMAPPort:     user.ImapPort,
			IMAPUsername: user.ImapUsername,
			IMAPPassword: password,
		}, nil
	}

	if user.AccessToken == "" {
		return nil, emaildomain.Credentials{}, errors.New("no mailbox linked to this account")
	}

	userID := user.ID
	return u.gmailSvc, emaildomain.Credentials{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		OnTokenRefresh: func(token *oauth2.Token) error {
			return u.userRepo.UpdateOAuthTokens(userID, token.AccessToken, token.RefreshToken)
		},
	}, nil
}

func (u *emailUsecase) ListEmails(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	return u.emailRepo.ListByUser(userID, limit, offset)
}

func (u *emailUsecase) GetCategories(userID string) ([]*emaildomain.Category, error) {
	return u.categoryRepo.GetByUser(userID)
}

func (u *emailUsecase) CreateCategory(userID string, req *emaildto.CreateCategoryRequest) (*emaildomain.Category, error) {
	existing, err := u.categoryRepo.GetByName(userID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q already exists", req.Name)
	}

	count, err := u.categoryRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	if count >= int64(u.config.MaxCategories) {
		return nil, fmt.Errorf("category limit reached (%d)", u.config.MaxCategories)
	}

	color := req.Color
	if color == "" {
		color = colorPalette[count%int64(len(colorPalette))]
	}
	icon := req.Icon
	if icon == "" {
		icon = iconForName(req.Name)
	}

	category := &emaildomain.Category{
		UserID:      userID,
		Name:        req.Name,
		Color:       color,
		Icon:        icon,
		Description: req.Description,
		Keywords:    emaildomain.StringArray(req.Keywords),
	}
	if err := u.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (u *emailUsecase) GetSyncHistory(userID string, limit int) ([]*emaildomain.SyncRun, error) {
	return u.syncRunRepo.ListByUser(userID, limit)
}

func (u *emailUsecase) SendEmail(ctx context.Context, userID string, req *emaildto.SendEmailRequest) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	provider, creds, err := u.providerFor(user)
	if err != nil {
		return err
	}

	return provider.SendMessage(ctx, creds, &emaildomain.OutgoingMessage{
		FromName:  user.Name,
		FromEmail: user.Email,
		To:        req.To,
		Cc:        req.Cc,
		Bcc:       req.Bcc,
		Subject:   req.Subject,
		Body:      req.Body,
		IsHTML:    req.IsHTML,
	})
}
