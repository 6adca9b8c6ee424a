package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&emaildomain.Email{}, &emaildomain.Category{}, &emaildomain.SyncRun{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func newTestEmail(userID, externalID, subject string) *emaildomain.Email {
	return &emaildomain.Email{
		UserID:     userID,
		ExternalID: externalID,
		Subject:    subject,
		FromEmail:  "sender@example.com",
		Snippet:    "snippet",
		BodyText:   "body",
		ReceivedAt: time.Now(),
	}
}

func TestSaveMessageIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	email := newTestEmail("user-1", "msg-1", "Hello")
	err := repo.SaveMessage(email)
	assert.NoError(t, err)

	// Saving the same external id again must succeed without a second row
	dup := newTestEmail("user-1", "msg-1", "Hello again")
	err = repo.SaveMessage(dup)
	assert.NoError(t, err)

	var count int64
	db.Model(&emaildomain.Email{}).Where("user_id = ?", "user-1").Count(&count)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByExternalID("user-1", "msg-1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "Hello", stored.Subject)
}

func TestSaveMessageSameExternalIDDifferentUsers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	assert.NoError(t, repo.SaveMessage(newTestEmail("user-1", "msg-1", "A")))
	assert.NoError(t, repo.SaveMessage(newTestEmail("user-2", "msg-1", "B")))

	var count int64
	db.Model(&emaildomain.Email{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestFilterNewExternalIDsPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	assert.NoError(t, repo.SaveMessage(newTestEmail("user-1", "b", "stored B")))
	assert.NoError(t, repo.SaveMessage(newTestEmail("user-1", "d", "stored D")))

	fresh, err := repo.FilterNewExternalIDs("user-1", []string{"e", "d", "c", "b", "a"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"e", "c", "a"}, fresh)
}

func TestFilterNewExternalIDsEmptyInput(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	fresh, err := repo.FilterNewExternalIDs("user-1", nil)
	assert.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestFilterNewExternalIDsScopedByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	assert.NoError(t, repo.SaveMessage(newTestEmail("user-2", "x", "other user's")))

	fresh, err := repo.FilterNewExternalIDs("user-1", []string{"x"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"x"}, fresh)
}

func TestGetByExternalIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEmailRepository(db)

	email, err := repo.GetByExternalID("user-1", "missing")
	assert.NoError(t, err)
	assert.Nil(t, email)
}

func TestCategoryCreateAndGetByUserOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	first := &emaildomain.Category{UserID: "user-1", Name: "Travail", Color: "#3B82F6", Icon: "briefcase"}
	assert.NoError(t, repo.Create(first))
	// Later creation time so ordering by created_at is observable
	second := &emaildomain.Category{UserID: "user-1", Name: "Voyage", Color: "#F59E0B", Icon: "plane",
		CreatedAt: first.CreatedAt.Add(time.Second)}
	assert.NoError(t, repo.Create(second))
	db.Model(second).Update("created_at", first.CreatedAt.Add(time.Second))

	cats, err := repo.GetByUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, "Travail", cats[0].Name)
	assert.Equal(t, "Voyage", cats[1].Name)
}

func TestCategoryCreateDuplicateNameFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	assert.NoError(t, repo.Create(&emaildomain.Category{UserID: "user-1", Name: "Factures"}))
	err := repo.Create(&emaildomain.Category{UserID: "user-1", Name: "Factures"})
	assert.Error(t, err)

	// Same name is fine for another user
	assert.NoError(t, repo.Create(&emaildomain.Category{UserID: "user-2", Name: "Factures"}))
}

func TestCategoryCountByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	for _, name := range []string{"Factures", "Banque", "Travail"} {
		assert.NoError(t, repo.Create(&emaildomain.Category{UserID: "user-1", Name: name}))
	}

	count, err := repo.CountByUser("user-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSyncRunCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)

	older := &emaildomain.SyncRun{
		UserID:        "user-1",
		StartedAt:     time.Now().Add(-time.Hour),
		EmailsFetched: 10,
		NewEmails:     4,
		Success:       true,
	}
	newer := &emaildomain.SyncRun{
		UserID:        "user-1",
		StartedAt:     time.Now(),
		EmailsFetched: 5,
		NewEmails:     0,
		Errors:        emaildomain.StringArray{"message msg-9: fetch failed"},
		Success:       true,
	}
	assert.NoError(t, repo.Create(older))
	assert.NoError(t, repo.Create(newer))

	runs, err := repo.ListByUser("user-1", 10)
	assert.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
	assert.Equal(t, emaildomain.StringArray{"message msg-9: fetch failed"}, runs[0].Errors)
}
