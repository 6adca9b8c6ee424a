package classifier

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	emaildomain "inboxpilot-backend/internal/email/domain"
)

const (
	// ScoreThreshold is the minimum merged score for a confident match
	ScoreThreshold = 0.3

	userKeywordWeight     = 0.8
	userNameBonus         = 0.4
	taxonomyKeywordWeight = 0.6
	taxonomySenderBonus   = 0.4
	taxonomyImportance    = 0.1

	maxAlternatives = 3
)

// Suggestion is one scored candidate category for a message
type Suggestion struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
	CategoryID string  `json:"category_id,omitempty"` // empty for taxonomy entries
}

// Result is the transient outcome of pattern classification for one message.
// A zero-value CategoryName with Confidence 0 means uncategorized; the
// Alternatives are still populated as suggestions.
type Result struct {
	CategoryID   string       `json:"category_id,omitempty"`
	CategoryName string       `json:"category_name"`
	Confidence   float64      `json:"confidence"`
	Alternatives []Suggestion `json:"alternatives,omitempty"`
	Reasoning    string       `json:"reasoning"`
}

// PatternClassifier scores messages against the built-in taxonomy and the
// user's keyword-bearing categories. It is pure: no side effects, no I/O.
type PatternClassifier struct{}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

// Classify scores the message against every candidate and picks the best.
func (c *PatternClassifier) Classify(email *emaildomain.Email, categories []*emaildomain.Category) *Result {
	subjectLower := strings.ToLower(email.Subject)
	senderLower := strings.ToLower(email.FromName + " " + email.FromEmail)

	tokens := Tokenize(email.Subject + " " + email.BodyText + " " + email.FromName + " " + email.FromEmail)

	suggestions := make([]Suggestion, 0, len(categories)+len(Taxonomy))

	for _, cat := range categories {
		score := scoreUserCategory(cat, tokens, subjectLower, senderLower)
		if score <= 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:       cat.Name,
			Score:      score,
			Color:      cat.Color,
			Icon:       cat.Icon,
			CategoryID: cat.ID,
		})
	}

	for i := range Taxonomy {
		entry := &Taxonomy[i]
		score := scoreTaxonomyEntry(entry, tokens, subjectLower, senderLower, email.IsImportant)
		if score <= 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:  entry.Name,
			Score: score,
			Color: entry.Color,
			Icon:  entry.Icon,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	alternatives := suggestions
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	if len(suggestions) == 0 || suggestions[0].Score <= ScoreThreshold {
		return &Result{
			Confidence:   0,
			Alternatives: alternatives,
			Reasoning:    "no pattern matched above threshold",
		}
	}

	top := suggestions[0]
	return &Result{
		CategoryID:   top.CategoryID,
		CategoryName: top.Name,
		Confidence:   top.Score,
		Alternatives: alternatives,
		Reasoning:    fmt.Sprintf("pattern match %q scored %.2f", top.Name, top.Score),
	}
}

// Tokenize lowercases the input, strips punctuation, drops tokens of length
// two or less and removes stop words.
func Tokenize(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		tokens[word] = struct{}{}
	}
	return tokens
}

func scoreUserCategory(cat *emaildomain.Category, tokens map[string]struct{}, subjectLower, senderLower string) float64 {
	score := 0.0

	if len(cat.Keywords) > 0 {
		matched := 0
		for _, kw := range cat.Keywords {
			kwLower := strings.ToLower(kw)
			if _, ok := tokens[kwLower]; ok {
				matched++
				continue
			}
			if strings.Contains(subjectLower, kwLower) || strings.Contains(senderLower, kwLower) {
				matched++
			}
		}
		score += userKeywordWeight * float64(matched) / float64(len(cat.Keywords))
	}

	if _, ok := tokens[strings.ToLower(cat.Name)]; ok {
		score += userNameBonus
	}

	return clamp(score)
}

func scoreTaxonomyEntry(entry *TaxonomyEntry, tokens map[string]struct{}, subjectLower, senderLower string, isImportant bool) float64 {
	matched := 0
	for _, kw := range entry.Keywords {
		if _, ok := tokens[kw]; ok {
			matched++
			continue
		}
		if strings.Contains(subjectLower, kw) {
			matched++
		}
	}

	score := taxonomyKeywordWeight * float64(matched) / float64(len(entry.Keywords))

	for _, pattern := range entry.SenderPatterns {
		if strings.Contains(senderLower, pattern) {
			score += taxonomySenderBonus
			break
		}
	}

	if isImportant && entry.ImportanceBoost {
		score += taxonomyImportance
	}

	return clamp(score)
}

func clamp(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
