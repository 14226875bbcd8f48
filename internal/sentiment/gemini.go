package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini classifies with a Google generative model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini classifier.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, text string) (Label, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0)
	m.SetMaxOutputTokens(4)

	resp, err := m.GenerateContent(ctx, genai.Text(instruction+"\n\nReview:\n"+text))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no content")
	}
	return ParseLabel(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
