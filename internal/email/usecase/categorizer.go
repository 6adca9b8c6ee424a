package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"inboxpilot-backend/internal/email/classifier"
	emaildomain "inboxpilot-backend/internal/email/domain"
	"inboxpilot-backend/internal/email/repository"
	"inboxpilot-backend/pkg/ai"
)

const (
	reuseConfidence      = 0.8
	createConfidence     = 0.7
	similarityConfidence = 0.5
	fallbackConfidence   = 0.3
)

// colorPalette provides colors for auto-created categories, cycled by the
// user's current category count.
var colorPalette = []string{
	"#EF4444", "#F59E0B", "#10B981", "#3B82F6",
	"#8B5CF6", "#EC4899", "#14B8A6", "#6B7280",
}

// iconRules maps name fragments to icons for auto-created categories.
// Ordered: the first matching fragment wins, so icon choice is deterministic
// for names matching several fragments.
var iconRules = []struct {
	keyword string
	icon    string
}{
	{"facture", "file-text"},
	{"invoice", "file-text"},
	{"banque", "credit-card"},
	{"bank", "credit-card"},
	{"finance", "credit-card"},
	{"travail", "briefcase"},
	{"work", "briefcase"},
	{"voyage", "plane"},
	{"travel", "plane"},
	{"shopping", "shopping-cart"},
	{"achat", "shopping-cart"},
	{"newsletter", "mail"},
	{"sécurité", "shield"},
	{"security", "shield"},
	{"social", "users"},
	{"santé", "heart"},
	{"health", "heart"},
}

// catchAllNames are category names that work as a generic bucket when the
// model fails and we need somewhere safe to fall back to.
var catchAllNames = []string{"général", "general", "autre", "autres", "other", "divers", "misc", "uncategorized"}

// Assignment is the resolved outcome of categorizing one message
type Assignment struct {
	CategoryID  string
	Confidence  float64
	AutoCreated bool
	Reasoning   string
	// NewCategory is set when resolution created a category; the caller is
	// responsible for adding it to its working set.
	NewCategory *emaildomain.Category
}

// Categorizer decides which category a message lands in. It tries the pattern
// classifier first and falls back to the AI provider, enforcing the per-user
// category cap on every creation path.
type Categorizer struct {
	categoryRepo  repository.CategoryRepository
	pattern       *classifier.PatternClassifier
	aiService     ai.ClassifierService
	maxCategories int
}

func NewCategorizer(categoryRepo repository.CategoryRepository, aiService ai.ClassifierService, maxCategories int) *Categorizer {
	if maxCategories <= 0 {
		maxCategories = emaildomain.MaxCategoriesPerUser
	}
	return &Categorizer{
		categoryRepo:  categoryRepo,
		pattern:       classifier.NewPatternClassifier(),
		aiService:     aiService,
		maxCategories: maxCategories,
	}
}

// EnsureDefaultCategory seeds the default category when the user has none,
// so classification always has at least one landing spot.
func (c *Categorizer) EnsureDefaultCategory(userID string) (*emaildomain.Category, bool, error) {
	count, err := c.categoryRepo.CountByUser(userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil, false, nil
	}

	category := &emaildomain.Category{
		UserID:      userID,
		Name:        classifier.DefaultCategoryName,
		Color:       "#6B7280",
		Icon:        "folder",
		AutoCreated: true,
		Description: "Catégorie par défaut",
	}
	if err := c.categoryRepo.Create(category); err != nil {
		return nil, false, fmt.Errorf("failed to seed default category: %w", err)
	}
	return category, true, nil
}

// CreateCategoryFromSuggestion turns a classifier suggestion into a stored
// category. The name check is case-sensitive exact match: an existing
// category with the same name is returned as-is.
func (c *Categorizer) CreateCategoryFromSuggestion(userID string, suggestion classifier.Suggestion) (*emaildomain.Category, bool, error) {
	existing, err := c.categoryRepo.GetByName(userID, suggestion.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	color := suggestion.Color
	icon := suggestion.Icon
	if entry := classifier.TaxonomyByName(suggestion.Name); entry != nil {
		if color == "" {
			color = entry.Color
		}
		if icon == "" {
			icon = entry.Icon
		}
	}
	if icon == "" {
		icon = "folder"
	}

	category := &emaildomain.Category{
		UserID:      userID,
		Name:        suggestion.Name,
		Color:       color,
		Icon:        icon,
		AutoCreated: true,
	}
	if err := c.categoryRepo.Create(category); err != nil {
		return nil, false, err
	}
	return category, true, nil
}

// Categorize resolves a category for the message. Pattern scoring runs first;
// when it is not confident the AI provider decides, with a deterministic
// fallback chain when the model fails.
func (c *Categorizer) Categorize(ctx context.Context, userID string, email *emaildomain.Email, categories []*emaildomain.Category) (*Assignment, error) {
	result := c.pattern.Classify(email, categories)

	if result.Confidence > classifier.ScoreThreshold {
		// Confident match on an existing user category
		if result.CategoryID != "" {
			return &Assignment{
				CategoryID: result.CategoryID,
				Confidence: result.Confidence,
				Reasoning:  result.Reasoning,
			}, nil
		}

		// Taxonomy match: reuse the same-named category or create it under cap
		if assignment := c.resolveTaxonomyMatch(userID, result, categories); assignment != nil {
			return assignment, nil
		}
	}

	return c.classifyWithAI(ctx, userID, email, categories)
}

func (c *Categorizer) resolveTaxonomyMatch(userID string, result *classifier.Result, categories []*emaildomain.Category) *Assignment {
	for _, cat := range categories {
		if cat.Name == result.CategoryName {
			return &Assignment{
				CategoryID: cat.ID,
				Confidence: result.Confidence,
				Reasoning:  result.Reasoning,
			}
		}
	}

	if len(categories) >= c.maxCategories {
		// At cap and the taxonomy category does not exist yet; let the AI
		// (or its fallback) pick among the existing ones
		return nil
	}

	suggestion := classifier.Suggestion{Name: result.CategoryName}
	if len(result.Alternatives) > 0 && result.Alternatives[0].Name == result.CategoryName {
		suggestion = result.Alternatives[0]
	}
	category, created, err := c.CreateCategoryFromSuggestion(userID, suggestion)
	if err != nil {
		log.Printf("[Categorizer] Failed to create category %q: %v", result.CategoryName, err)
		return nil
	}
	return &Assignment{
		CategoryID:  category.ID,
		Confidence:  result.Confidence,
		AutoCreated: created,
		Reasoning:   result.Reasoning,
		NewCategory: newCategoryOrNil(category, created),
	}
}

func (c *Categorizer) classifyWithAI(ctx context.Context, userID string, email *emaildomain.Email, categories []*emaildomain.Category) (*Assignment, error) {
	if c.aiService == nil {
		return c.fallbackAssignment(categories, "no AI provider configured")
	}

	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}

	atCap := len(categories) >= c.maxCategories
	result, err := c.aiService.ClassifyEmail(ctx, ai.ClassifyRequest{
		Sender:             email.FromEmail,
		Subject:            email.Subject,
		Preview:            email.Snippet,
		ExistingCategories: names,
		AtCap:              atCap,
	})
	if err != nil {
		log.Printf("[Categorizer] AI classification failed: %v", err)
		return c.fallbackAssignment(categories, err.Error())
	}

	return c.resolveAIResult(userID, result, categories, atCap)
}

// resolveAIResult applies the resolution policy, in order: case-insensitive
// reuse, creation under the cap, most-similar existing category.
func (c *Categorizer) resolveAIResult(userID string, result *ai.ClassifyResult, categories []*emaildomain.Category, atCap bool) (*Assignment, error) {
	// Reuse runs regardless of the model's use_existing flag: a proposed "new"
	// name that matches an existing category must not be duplicated
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, result.CategoryName) {
			confidence := result.Confidence
			if confidence == 0 {
				confidence = reuseConfidence
			}
			return &Assignment{
				CategoryID: cat.ID,
				Confidence: confidence,
				Reasoning:  result.Reasoning,
			}, nil
		}
	}

	if !atCap {
		category := &emaildomain.Category{
			UserID:      userID,
			Name:        result.CategoryName,
			Color:       colorPalette[len(categories)%len(colorPalette)],
			Icon:        iconForName(result.CategoryName),
			AutoCreated: true,
		}
		if err := c.categoryRepo.Create(category); err != nil {
			log.Printf("[Categorizer] Failed to create AI category %q: %v", result.CategoryName, err)
			return c.fallbackAssignment(categories, err.Error())
		}
		confidence := result.Confidence
		if confidence == 0 {
			confidence = createConfidence
		}
		return &Assignment{
			CategoryID:  category.ID,
			Confidence:  confidence,
			AutoCreated: true,
			Reasoning:   result.Reasoning,
			NewCategory: category,
		}, nil
	}

	// At cap with no match: most similar existing category wins, first one on
	// equal similarity
	if best := mostSimilarCategory(result.CategoryName, categories); best != nil {
		return &Assignment{
			CategoryID: best.ID,
			Confidence: similarityConfidence,
			Reasoning:  fmt.Sprintf("closest existing category to %q", result.CategoryName),
		}, nil
	}

	return nil, emaildomain.ErrNoCategoryAvailable
}

// fallbackAssignment picks a safe category when the model cannot: a catch-all
// named category if one exists, else the first category.
func (c *Categorizer) fallbackAssignment(categories []*emaildomain.Category, reason string) (*Assignment, error) {
	if len(categories) == 0 {
		return nil, emaildomain.ErrNoCategoryAvailable
	}

	for _, cat := range categories {
		for _, name := range catchAllNames {
			if strings.EqualFold(cat.Name, name) {
				return &Assignment{
					CategoryID: cat.ID,
					Confidence: fallbackConfidence,
					Reasoning:  "fallback after classification failure: " + reason,
				}, nil
			}
		}
	}

	return &Assignment{
		CategoryID: categories[0].ID,
		Confidence: fallbackConfidence,
		Reasoning:  "fallback after classification failure: " + reason,
	}, nil
}

// mostSimilarCategory ranks by Jaccard word overlap of lowercase names
func mostSimilarCategory(name string, categories []*emaildomain.Category) *emaildomain.Category {
	if len(categories) == 0 {
		return nil
	}

	var best *emaildomain.Category
	bestScore := -1.0
	for _, cat := range categories {
		score := nameSimilarity(name, cat.Name)
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}

func nameSimilarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	union := len(setA)
	for w := range setB {
		if _, ok := setA[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

func iconForName(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range iconRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.icon
		}
	}
	return "folder"
}

func newCategoryOrNil(category *emaildomain.Category, created bool) *emaildomain.Category {
	if created {
		return category
	}
	return nil
}
