package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"inboxpilot-backend/pkg/extract"
)

const previewLimit = 300

// buildClassifyPrompt builds the compact prompt shared by every provider so
// results stay comparable when the factory switches backends.
func buildClassifyPrompt(req ClassifyRequest) string {
	preview := req.Preview
	if len(preview) > previewLimit {
		preview = extract.TruncateRunes(preview, previewLimit) + "..."
	}

	instruction := "You may either reuse one of the existing categories or propose ONE new category name (1-3 words, in the email's language)."
	if req.AtCap {
		instruction = "The user has reached the maximum number of categories. You MUST reuse one of the existing categories."
	}

	return fmt.Sprintf(`You are an email categorization assistant.

EMAIL:
- From: %s
- Subject: %s
- Preview: %s

EXISTING CATEGORIES: %s

%s

Reply with ONLY a JSON object, no other text:
{"category_name": "...", "use_existing": true|false, "confidence": 0.0-1.0, "reasoning": "one short sentence"}`,
		req.Sender, req.Subject, preview,
		strings.Join(req.ExistingCategories, ", "),
		instruction)
}

// parseClassifyResult extracts and validates the JSON object from a model
// reply, tolerating markdown code fences and surrounding prose.
func parseClassifyResult(text string) (*ClassifyResult, error) {
	cleaned := strings.TrimSpace(text)

	// Clean up markdown code blocks if present
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	cleaned = cleaned[jsonStart : jsonEnd+1]

	var result ClassifyResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse classification JSON: %w", err)
	}

	result.CategoryName = strings.TrimSpace(result.CategoryName)
	if result.CategoryName == "" {
		return nil, fmt.Errorf("model reply is missing category_name")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		result.Confidence = 0
	}

	return &result, nil
}
