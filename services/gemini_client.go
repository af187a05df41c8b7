package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerativeClient is the outbound surface to the generative language API.
// The credential is passed per call because the key pool decides which
// account each request runs under.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, apiKey, prompt string) (string, error)
}

type GeminiClient struct {
	ModelName       string
	Temperature     float32
	MaxOutputTokens int32
}

func NewGeminiClient(modelName string) *GeminiClient {
	return &GeminiClient{
		ModelName:       modelName,
		Temperature:     0.3,
		MaxOutputTokens: 2000,
	}
}

func (g *GeminiClient) GenerateContent(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create generative client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.ModelName)
	model.SetTemperature(g.Temperature)
	model.SetMaxOutputTokens(g.MaxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
