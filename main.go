package main

import (
	"log"

	api "inboxpilot-backend/cmd/api"
	authdomain "inboxpilot-backend/internal/auth/domain"
	authRepo "inboxpilot-backend/internal/auth/repository"
	authUsecase "inboxpilot-backend/internal/auth/usecase"
	emaildomain "inboxpilot-backend/internal/email/domain"
	emailRepo "inboxpilot-backend/internal/email/repository"
	emailUsecase "inboxpilot-backend/internal/email/usecase"
	"inboxpilot-backend/pkg/ai"
	"inboxpilot-backend/pkg/config"
	"inboxpilot-backend/pkg/database"
	"inboxpilot-backend/pkg/gmail"
	"inboxpilot-backend/pkg/imap"
	"inboxpilot-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&emaildomain.Email{},
		&emaildomain.Category{},
		&emaildomain.SyncRun{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)
	categoryRepo := emailRepo.NewCategoryRepository(db)
	syncRunRepo := emailRepo.NewSyncRunRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize mail providers
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RetryBackoffBase)
	imapService := imap.NewService()

	// Initialize AI classifier
	aiService, err := ai.NewClassifierService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize AI service (pattern classifier only): %v", err)
	} else {
		log.Printf("AI service initialized with provider: %s", cfg.AIProvider)
	}

	categorizer := emailUsecase.NewCategorizer(categoryRepo, aiService, cfg.MaxCategories)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(
		userRepo,
		emailRepository,
		categoryRepo,
		syncRunRepo,
		gmailService,
		imapService,
		categorizer,
		cfg,
		func(userID string, progress emaildomain.SyncProgress) {
			sseManager.SendToUser(userID, "sync_progress", progress)
		},
	)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, sseManager, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
