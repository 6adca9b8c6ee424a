package classifier

import (
	"testing"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify_MatchesBuiltinInvoiceCategory(t *testing.T) {
	c := NewPatternClassifier()

	email := &emaildomain.Email{
		Subject:   "Facture EDF",
		FromEmail: "noreply@edf.fr",
		BodyText:  "montant 125€",
	}
	categories := []*emaildomain.Category{
		{ID: "cat-1", UserID: "u1", Name: "Travail"},
	}

	result := c.Classify(email, categories)

	assert.Equal(t, "Factures", result.CategoryName)
	assert.Greater(t, result.Confidence, 0.3)
	assert.Empty(t, result.CategoryID, "taxonomy match carries no category id")
	assert.NotEmpty(t, result.Alternatives)
}

func TestClassify_UncategorizedBelowThreshold(t *testing.T) {
	c := NewPatternClassifier()

	email := &emaildomain.Email{
		Subject:   "zzz qqq xyzzy",
		FromEmail: "someone@example.org",
		BodyText:  "plugh wibble",
	}

	result := c.Classify(email, nil)

	assert.Empty(t, result.CategoryName)
	assert.Zero(t, result.Confidence)
}

func TestClassify_UserCategoryKeywordsAndNameBonus(t *testing.T) {
	c := NewPatternClassifier()

	email := &emaildomain.Email{
		Subject:   "Compte rendu sprint",
		FromEmail: "lead@corp.example",
		BodyText:  "le sprint se termine vendredi, pensez au standup",
	}
	categories := []*emaildomain.Category{
		{ID: "cat-agile", UserID: "u1", Name: "Sprint", Keywords: emaildomain.StringArray{"sprint", "standup"}},
	}

	result := c.Classify(email, categories)

	assert.Equal(t, "Sprint", result.CategoryName)
	assert.Equal(t, "cat-agile", result.CategoryID)
	// 0.8 for both keywords matched plus 0.4 name bonus, clamped to 1.0
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestClassify_KeywordMonotonicity(t *testing.T) {
	c := NewPatternClassifier()

	email := &emaildomain.Email{
		Subject:   "weekly budget review",
		FromEmail: "cfo@corp.example",
		BodyText:  "the budget spreadsheet is attached",
	}

	base := []*emaildomain.Category{
		{ID: "cat-b", UserID: "u1", Name: "Finances", Keywords: emaildomain.StringArray{"budget"}},
	}
	extended := []*emaildomain.Category{
		{ID: "cat-b", UserID: "u1", Name: "Finances", Keywords: emaildomain.StringArray{"budget", "spreadsheet"}},
	}

	baseScore := c.Classify(email, base).Confidence
	extendedScore := c.Classify(email, extended).Confidence

	assert.GreaterOrEqual(t, extendedScore, baseScore,
		"adding a matching keyword must never lower the score")
}

func TestClassify_ImportanceBoostOnlyForFlaggedEntries(t *testing.T) {
	c := NewPatternClassifier()

	email := &emaildomain.Email{
		Subject:     "Alerte connexion: nouveau login détecté",
		FromEmail:   "security@accounts.example.com",
		IsImportant: true,
	}

	result := c.Classify(email, nil)

	assert.Equal(t, "Sécurité", result.CategoryName)
	assert.Greater(t, result.Confidence, 0.3)
}

func TestTokenize_DropsShortTokensAndStopWords(t *testing.T) {
	tokens := Tokenize("Le projet est prêt: the new report, v2!")

	assert.Contains(t, tokens, "projet")
	assert.Contains(t, tokens, "report")
	assert.Contains(t, tokens, "prêt")
	assert.NotContains(t, tokens, "le", "length <= 2 dropped")
	assert.NotContains(t, tokens, "est", "french stop word dropped")
	assert.NotContains(t, tokens, "the", "english stop word dropped")
	assert.NotContains(t, tokens, "new", "english stop word dropped")
	assert.NotContains(t, tokens, "v2", "length <= 2 dropped")
}

func TestTaxonomy_HasEightEntriesWithStyling(t *testing.T) {
	assert.Len(t, Taxonomy, 8)
	for _, entry := range Taxonomy {
		assert.NotEmpty(t, entry.Keywords, entry.Name)
		assert.NotEmpty(t, entry.SenderPatterns, entry.Name)
		assert.NotEmpty(t, entry.Color, entry.Name)
		assert.NotEmpty(t, entry.Icon, entry.Name)
	}
}
