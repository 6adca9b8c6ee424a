package ai

import (
	"context"
)

// ClassifyRequest carries the structured context the model needs to place one
// message into a category.
type ClassifyRequest struct {
	Sender             string
	Subject            string
	Preview            string
	ExistingCategories []string
	// AtCap tells the model it must reuse an existing category
	AtCap bool
}

// ClassifyResult is the strict reply shape expected from the model. A reply
// that cannot be parsed into this shape is a classification failure.
type ClassifyResult struct {
	CategoryName string  `json:"category_name"`
	UseExisting  bool    `json:"use_existing"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// ClassifierService is the interface for AI email categorization
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type ClassifierService interface {
	ClassifyEmail(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
