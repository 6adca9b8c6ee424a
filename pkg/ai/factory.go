package ai

import (
	"fmt"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewClassifierService creates a ClassifierService based on the config
// This is the factory function - switch AI provider by changing config.Provider
func NewClassifierService(cfg Config) (ClassifierService, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiClassifier(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Auto: run Gemini with Ollama as fallback when both are configured
		if cfg.GeminiAPIKey != "" {
			gemini := NewGeminiClassifier(cfg.GeminiAPIKey)
			if cfg.OllamaBaseURL != "" {
				return NewFallbackService(gemini, NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)), nil
			}
			return gemini, nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
