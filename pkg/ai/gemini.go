package ai

import (
	"context"

	"inboxpilot-backend/pkg/gemini"
)

// GeminiClassifier implements ClassifierService on top of the Gemini REST API
type GeminiClassifier struct {
	svc *gemini.GeminiService
}

func NewGeminiClassifier(apiKey string) *GeminiClassifier {
	return &GeminiClassifier{svc: gemini.NewGeminiService(apiKey)}
}

func (g *GeminiClassifier) ClassifyEmail(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	text, err := g.svc.GenerateContent(ctx, buildClassifyPrompt(req))
	if err != nil {
		return nil, err
	}
	return parseClassifyResult(text)
}
