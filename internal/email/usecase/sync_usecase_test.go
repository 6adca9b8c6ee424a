package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	authdomain "inboxpilot-backend/internal/auth/domain"
	emaildomain "inboxpilot-backend/internal/email/domain"
	"inboxpilot-backend/pkg/ai"
	"inboxpilot-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- hand-rolled mocks ----

type mockUserRepo struct {
	user *authdomain.User
}

func (m *mockUserRepo) Create(user *authdomain.User) error { return nil }
func (m *mockUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByID(id string) (*authdomain.User, error) {
	if m.user != nil && m.user.ID == id {
		return m.user, nil
	}
	return nil, nil
}
func (m *mockUserRepo) Update(user *authdomain.User) error { return nil }
func (m *mockUserRepo) UpdateOAuthTokens(userID, accessToken, refreshToken string) error {
	return nil
}
func (m *mockUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }
func (m *mockUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (m *mockUserRepo) DeleteRefreshToken(token string) error { return nil }

type mockEmailRepo struct {
	mu      sync.Mutex
	stored  map[string]*emaildomain.Email
	saveErr map[string]error
}

func newMockEmailRepo() *mockEmailRepo {
	return &mockEmailRepo{stored: make(map[string]*emaildomain.Email), saveErr: make(map[string]error)}
}

func (m *mockEmailRepo) FilterNewExternalIDs(userID string, externalIDs []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(externalIDs))
	for _, id := range externalIDs {
		if _, ok := m.stored[userID+"/"+id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *mockEmailRepo) SaveMessage(email *emaildomain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saveErr[email.ExternalID]; err != nil {
		return err
	}
	key := email.UserID + "/" + email.ExternalID
	if _, ok := m.stored[key]; ok {
		return nil
	}
	m.stored[key] = email
	return nil
}

func (m *mockEmailRepo) GetByExternalID(userID, externalID string) (*emaildomain.Email, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored[userID+"/"+externalID], nil
}

func (m *mockEmailRepo) ListByUser(userID string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	return nil, 0, nil
}

type mockCategoryRepo struct {
	mu         sync.Mutex
	categories []*emaildomain.Category
	createErr  error
	nextID     int
}

func (m *mockCategoryRepo) GetByUser(userID string) ([]*emaildomain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*emaildomain.Category, 0, len(m.categories))
	for _, cat := range m.categories {
		if cat.UserID == userID {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (m *mockCategoryRepo) GetByName(userID, name string) (*emaildomain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cat := range m.categories {
		if cat.UserID == userID && cat.Name == name {
			return cat, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) CountByUser(userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, cat := range m.categories {
		if cat.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockCategoryRepo) Create(category *emaildomain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	category.ID = fmt.Sprintf("cat-%d", m.nextID)
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepo) Update(category *emaildomain.Category) error { return nil }

type mockSyncRunRepo struct {
	mu   sync.Mutex
	runs []*emaildomain.SyncRun
}

func (m *mockSyncRunRepo) Create(run *emaildomain.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockSyncRunRepo) ListByUser(userID string, limit int) ([]*emaildomain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs, nil
}

type mockProvider struct {
	connectErr error
	connectCh  chan struct{} // when set, TestConnection blocks until closed
	ids        []string
	messages   map[string]*emaildomain.Email
	detailErr  map[string]error
}

func (m *mockProvider) TestConnection(ctx context.Context, creds emaildomain.Credentials) error {
	if m.connectCh != nil {
		<-m.connectCh
	}
	return m.connectErr
}

func (m *mockProvider) ListRecentMessageIDs(ctx context.Context, creds emaildomain.Credentials, maxMessages int) ([]string, error) {
	if len(m.ids) > maxMessages {
		return m.ids[:maxMessages], nil
	}
	return m.ids, nil
}

func (m *mockProvider) GetMessageDetail(ctx context.Context, creds emaildomain.Credentials, externalID string) (*emaildomain.Email, error) {
	if err := m.detailErr[externalID]; err != nil {
		return nil, err
	}
	if msg, ok := m.messages[externalID]; ok {
		return msg, nil
	}
	return &emaildomain.Email{
		ExternalID: externalID,
		Subject:    "Subject " + externalID,
		FromEmail:  "sender@example.com",
		ReceivedAt: time.Now(),
	}, nil
}

func (m *mockProvider) SendMessage(ctx context.Context, creds emaildomain.Credentials, msg *emaildomain.OutgoingMessage) error {
	return nil
}

type mockClassifier struct {
	result *ai.ClassifyResult
	err    error
}

func (m *mockClassifier) ClassifyEmail(ctx context.Context, req ai.ClassifyRequest) (*ai.ClassifyResult, error) {
	return m.result, m.err
}

// ---- fixtures ----

func testConfig() *config.Config {
	return &config.Config{
		SyncMaxMessages: 50,
		SyncBatchSize:   10,
		MaxCategories:   8,
	}
}

type progressRecorder struct {
	mu     sync.Mutex
	events []emaildomain.SyncProgress
}

func (r *progressRecorder) record(userID string, progress emaildomain.SyncProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, progress)
}

func (r *progressRecorder) stages() []emaildomain.SyncStage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]emaildomain.SyncStage, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Stage)
	}
	return out
}

func newTestUsecase(provider *mockProvider, emailRepo *mockEmailRepo, categoryRepo *mockCategoryRepo, syncRunRepo *mockSyncRunRepo, aiSvc ai.ClassifierService, rec *progressRecorder) EmailUsecase {
	user := &authdomain.User{
		ID:          "user-1",
		Email:       "user@example.com",
		Provider:    "google",
		AccessToken: "access-token",
	}
	cfg := testConfig()
	categorizer := NewCategorizer(categoryRepo, aiSvc, cfg.MaxCategories)
	return NewEmailUsecase(
		&mockUserRepo{user: user},
		emailRepo,
		categoryRepo,
		syncRunRepo,
		provider,
		nil,
		categorizer,
		cfg,
		rec.record,
	)
}

// ---- orchestrator tests ----

func TestSynchronizeHappyPath(t *testing.T) {
	provider := &mockProvider{ids: []string{"m1", "m2", "m3"}}
	emailRepo := newMockEmailRepo()
	categoryRepo := &mockCategoryRepo{}
	syncRunRepo := &mockSyncRunRepo{}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, emailRepo, categoryRepo, syncRunRepo, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.True(t, run.Success)
	assert.Equal(t, 3, run.EmailsFetched)
	assert.Equal(t, 3, run.NewEmails)
	assert.Empty(t, []string(run.Errors))
	// Default category got seeded before classification
	assert.Equal(t, 1, run.CategoriesCreated)

	require.Len(t, syncRunRepo.runs, 1)
	assert.Same(t, run, syncRunRepo.runs[0])

	stages := rec.stages()
	require.NotEmpty(t, stages)
	assert.Equal(t, emaildomain.StageConnecting, stages[0])
	assert.Equal(t, emaildomain.StageCompleted, stages[len(stages)-1])

	// Exactly one terminal event
	terminal := 0
	for _, s := range stages {
		if s == emaildomain.StageCompleted || s == emaildomain.StageError {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
}

func TestSynchronizeSecondRunIsRejected(t *testing.T) {
	connectCh := make(chan struct{})
	provider := &mockProvider{ids: []string{"m1"}, connectCh: connectCh}
	emailRepo := newMockEmailRepo()
	syncRunRepo := &mockSyncRunRepo{}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, emailRepo, &mockCategoryRepo{}, syncRunRepo, nil, rec)

	firstDone := make(chan *emaildomain.SyncRun, 1)
	go func() {
		run, err := uc.Synchronize(context.Background(), "user-1", 0)
		assert.NoError(t, err)
		firstDone <- run
	}()

	// Wait until the first run holds the slot (it emits connecting before
	// blocking on the provider)
	require.Eventually(t, func() bool {
		return len(rec.stages()) > 0
	}, time.Second, 5*time.Millisecond)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	assert.ErrorIs(t, err, emaildomain.ErrSyncInProgress)
	assert.Nil(t, run)

	// The rejection leaves no trace in the history
	syncRunRepo.mu.Lock()
	assert.Empty(t, syncRunRepo.runs)
	syncRunRepo.mu.Unlock()

	close(connectCh)
	first := <-firstDone
	require.NotNil(t, first)
	assert.True(t, first.Success)

	// Once released, a new run goes through
	run, err = uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.True(t, run.Success)
}

func TestSynchronizeConnectionFailure(t *testing.T) {
	provider := &mockProvider{connectErr: errors.New("dial tcp: connection refused")}
	syncRunRepo := &mockSyncRunRepo{}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, newMockEmailRepo(), &mockCategoryRepo{}, syncRunRepo, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.False(t, run.Success)
	require.Len(t, []string(run.Errors), 1)
	assert.Contains(t, run.Errors[0], "connection refused")

	// Failed runs still land in the history
	require.Len(t, syncRunRepo.runs, 1)

	stages := rec.stages()
	assert.Equal(t, emaildomain.StageError, stages[len(stages)-1])
}

func TestSynchronizeEmptyMailbox(t *testing.T) {
	provider := &mockProvider{ids: nil}
	syncRunRepo := &mockSyncRunRepo{}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, newMockEmailRepo(), &mockCategoryRepo{}, syncRunRepo, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.True(t, run.Success)
	assert.Equal(t, 0, run.EmailsFetched)
	assert.Equal(t, 0, run.NewEmails)
	require.Len(t, syncRunRepo.runs, 1)

	// No classification happened
	for _, stage := range rec.stages() {
		assert.NotEqual(t, emaildomain.StageClassifying, stage)
	}
	stages := rec.stages()
	assert.Equal(t, emaildomain.StageCompleted, stages[len(stages)-1])
}

func TestSynchronizeSkipsAlreadyStoredMessages(t *testing.T) {
	provider := &mockProvider{ids: []string{"m1", "m2", "m3"}}
	emailRepo := newMockEmailRepo()
	emailRepo.stored["user-1/m2"] = &emaildomain.Email{UserID: "user-1", ExternalID: "m2"}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, emailRepo, &mockCategoryRepo{}, &mockSyncRunRepo{}, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.Equal(t, 3, run.EmailsFetched)
	assert.Equal(t, 2, run.NewEmails)
	assert.True(t, run.Success)
}

func TestSynchronizeIsolatesPerMessageFailures(t *testing.T) {
	provider := &mockProvider{ids: []string{"m1", "m2", "m3"}}
	emailRepo := newMockEmailRepo()
	emailRepo.saveErr["m2"] = errors.New("disk full")
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, emailRepo, &mockCategoryRepo{}, &mockSyncRunRepo{}, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)

	// One message failed, the others made it; the run is still a success
	assert.True(t, run.Success)
	assert.Equal(t, 2, run.NewEmails)
	require.Len(t, []string(run.Errors), 1)
	assert.Contains(t, run.Errors[0], "m2")

	assert.Contains(t, emailRepo.stored, "user-1/m1")
	assert.Contains(t, emailRepo.stored, "user-1/m3")

	stages := rec.stages()
	assert.Equal(t, emaildomain.StageCompleted, stages[len(stages)-1])
}

func TestSynchronizeDropsUnfetchableMessages(t *testing.T) {
	provider := &mockProvider{
		ids:       []string{"m1", "m2"},
		detailErr: map[string]error{"m1": errors.New("message vanished")},
	}
	emailRepo := newMockEmailRepo()
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, emailRepo, &mockCategoryRepo{}, &mockSyncRunRepo{}, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.True(t, run.Success)
	assert.Equal(t, 1, run.NewEmails)
	assert.NotContains(t, emailRepo.stored, "user-1/m1")
	assert.Contains(t, emailRepo.stored, "user-1/m2")
}

func TestSynchronizeCapNeverExceeded(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	for i := 0; i < 8; i++ {
		categoryRepo.Create(&emaildomain.Category{
			UserID: "user-1",
			Name:   fmt.Sprintf("Catégorie %d", i),
		})
	}

	// The model keeps proposing a brand-new category
	aiSvc := &mockClassifier{result: &ai.ClassifyResult{
		CategoryName: "Projets secrets",
		UseExisting:  false,
		Confidence:   0.9,
	}}

	provider := &mockProvider{ids: []string{"m1", "m2", "m3"}}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, newMockEmailRepo(), categoryRepo, &mockSyncRunRepo{}, aiSvc, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.True(t, run.Success)
	assert.Equal(t, 3, run.NewEmails)

	count, _ := categoryRepo.CountByUser("user-1")
	assert.Equal(t, int64(8), count)
	assert.Equal(t, 0, run.CategoriesCreated)
}

func TestSynchronizeCreatesCategoriesUnderCap(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Général"})

	aiSvc := &mockClassifier{result: &ai.ClassifyResult{
		CategoryName: "Newsletters",
		UseExisting:  false,
		Confidence:   0.85,
	}}

	provider := &mockProvider{ids: []string{"m1", "m2"}}
	rec := &progressRecorder{}

	emailRepo := newMockEmailRepo()
	uc := newTestUsecase(provider, emailRepo, categoryRepo, &mockSyncRunRepo{}, aiSvc, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.True(t, run.Success)

	// First message creates Newsletters, the second reuses it by name
	assert.Equal(t, 1, run.CategoriesCreated)
	count, _ := categoryRepo.CountByUser("user-1")
	assert.Equal(t, int64(2), count)

	created, _ := categoryRepo.GetByName("user-1", "Newsletters")
	require.NotNil(t, created)
	assert.True(t, created.AutoCreated)

	for _, key := range []string{"user-1/m1", "user-1/m2"} {
		stored := emailRepo.stored[key]
		require.NotNil(t, stored)
		require.NotNil(t, stored.CategoryID)
		assert.Equal(t, created.ID, *stored.CategoryID)
	}
}

func TestSynchronizeHonorsMaxMessages(t *testing.T) {
	ids := make([]string, 30)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%d", i)
	}
	provider := &mockProvider{ids: ids}
	rec := &progressRecorder{}

	uc := newTestUsecase(provider, newMockEmailRepo(), &mockCategoryRepo{}, &mockSyncRunRepo{}, nil, rec)

	run, err := uc.Synchronize(context.Background(), "user-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, run.EmailsFetched)
	assert.Equal(t, 5, run.NewEmails)
}

// ---- categorizer tests ----

func TestCategorizerReusesExistingCategoryCaseInsensitive(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Newsletters"})
	cats, _ := categoryRepo.GetByUser("user-1")

	aiSvc := &mockClassifier{result: &ai.ClassifyResult{
		CategoryName: "NEWSLETTERS",
		UseExisting:  true,
		Confidence:   0.92,
	}}
	c := NewCategorizer(categoryRepo, aiSvc, 8)

	email := &emaildomain.Email{FromEmail: "someone@nowhere.test", Subject: "hi"}
	assignment, err := c.Categorize(context.Background(), "user-1", email, cats)
	require.NoError(t, err)

	assert.Equal(t, cats[0].ID, assignment.CategoryID)
	assert.Equal(t, 0.92, assignment.Confidence)
	assert.Nil(t, assignment.NewCategory)
}

func TestCategorizerAtCapFallsBackToMostSimilar(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	names := []string{"Travail", "Voyages personnels", "Factures", "Banque", "Santé", "Newsletters", "Social", "Divers"}
	for _, name := range names {
		categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: name})
	}
	cats, _ := categoryRepo.GetByUser("user-1")

	aiSvc := &mockClassifier{result: &ai.ClassifyResult{
		CategoryName: "Voyages",
		UseExisting:  false,
	}}
	c := NewCategorizer(categoryRepo, aiSvc, 8)

	email := &emaildomain.Email{FromEmail: "someone@nowhere.test", Subject: "hi"}
	assignment, err := c.Categorize(context.Background(), "user-1", email, cats)
	require.NoError(t, err)

	// "Voyages personnels" shares a word with "Voyages"
	assert.Equal(t, cats[1].ID, assignment.CategoryID)
	assert.Equal(t, similarityConfidence, assignment.Confidence)
	assert.Nil(t, assignment.NewCategory)
}

func TestCategorizerFallbackPrefersCatchAll(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Travail"})
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Général"})
	cats, _ := categoryRepo.GetByUser("user-1")

	aiSvc := &mockClassifier{err: errors.New("model timeout")}
	c := NewCategorizer(categoryRepo, aiSvc, 8)

	email := &emaildomain.Email{FromEmail: "someone@nowhere.test", Subject: "hi"}
	assignment, err := c.Categorize(context.Background(), "user-1", email, cats)
	require.NoError(t, err)

	assert.Equal(t, cats[1].ID, assignment.CategoryID)
	assert.Equal(t, fallbackConfidence, assignment.Confidence)
}

func TestCategorizerFallbackFirstCategoryWithoutCatchAll(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Travail"})
	categoryRepo.Create(&emaildomain.Category{UserID: "user-1", Name: "Factures"})
	cats, _ := categoryRepo.GetByUser("user-1")

	c := NewCategorizer(categoryRepo, nil, 8)

	email := &emaildomain.Email{FromEmail: "someone@nowhere.test", Subject: "hi"}
	assignment, err := c.Categorize(context.Background(), "user-1", email, cats)
	require.NoError(t, err)

	assert.Equal(t, cats[0].ID, assignment.CategoryID)
}

func TestCategorizerNoCategoriesAtAll(t *testing.T) {
	c := NewCategorizer(&mockCategoryRepo{}, nil, 8)

	email := &emaildomain.Email{FromEmail: "someone@nowhere.test", Subject: "hi"}
	_, err := c.Categorize(context.Background(), "user-1", email, nil)
	assert.ErrorIs(t, err, emaildomain.ErrNoCategoryAvailable)
}

func TestCategorizerPatternMatchSkipsAI(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	categoryRepo.Create(&emaildomain.Category{
		UserID:   "user-1",
		Name:     "Commandes",
		Keywords: emaildomain.StringArray{"commande", "livraison", "colis"},
	})
	cats, _ := categoryRepo.GetByUser("user-1")

	// A classifier that would fail loudly if consulted
	aiSvc := &mockClassifier{err: errors.New("must not be called")}
	c := NewCategorizer(categoryRepo, aiSvc, 8)

	email := &emaildomain.Email{
		FromEmail: "noreply@shop.example",
		Subject:   "Votre commande est en cours de livraison",
		Snippet:   "Le colis arrive demain",
	}
	assignment, err := c.Categorize(context.Background(), "user-1", email, cats)
	require.NoError(t, err)

	assert.Equal(t, cats[0].ID, assignment.CategoryID)
	assert.Greater(t, assignment.Confidence, 0.3)
}

func TestEnsureDefaultCategorySeedsOnce(t *testing.T) {
	categoryRepo := &mockCategoryRepo{}
	c := NewCategorizer(categoryRepo, nil, 8)

	category, created, err := c.EnsureDefaultCategory("user-1")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, category)
	assert.Equal(t, "Général", category.Name)
	assert.True(t, category.AutoCreated)

	category, created, err = c.EnsureDefaultCategory("user-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, category)
}

func TestIconForNameIsDeterministic(t *testing.T) {
	assert.Equal(t, "file-text", iconForName("Factures"))
	assert.Equal(t, "shield", iconForName("Alertes sécurité"))
	assert.Equal(t, "folder", iconForName("Projets"))

	// Names matching several fragments always resolve to the first rule
	for i := 0; i < 20; i++ {
		assert.Equal(t, "credit-card", iconForName("Banque finance"))
		assert.Equal(t, "file-text", iconForName("Facture banque"))
	}
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, nameSimilarity("Voyages", "voyages"))
	assert.Equal(t, 0.5, nameSimilarity("Voyages personnels", "Voyages"))
	assert.Equal(t, 0.0, nameSimilarity("Banque", "Travail"))
	assert.Equal(t, 0.0, nameSimilarity("", "Travail"))
	// Repeated words collapse into the set
	assert.Equal(t, 1.0, nameSimilarity("foo foo", "foo"))
}
