// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package embedding

import (
	"context"
	"fmt"
	"strings"

	apperrors "ragctl/cli/internal/errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// geminiModel is the Google embedding model backing the pipeline.
	geminiModel = "embedding-001"
	// geminiDimensions is fixed by the model, not user-controlled.
	geminiDimensions = 768
)

// GeminiProvider generates embeddings via the Google Generative AI API.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGeminiProvider creates the provider client. A missing or rejected API
// credential is a fatal construction failure, not a per-call error.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.New(apperrors.ConfigError, "GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigError, "failed to initialize Gemini client", err)
	}
	return &GeminiProvider{
		client: client,
		model:  client.EmbeddingModel(geminiModel),
	}, nil
}

// EmbedText issues exactly one provider call for the given text.
func (p *GeminiProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := p.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("gemini returned no embedding for input")
	}
	return res.Embedding.Values, nil
}

// ModelName returns the configured embedding model identifier.
func (p *GeminiProvider) ModelName() string { return geminiModel }

// Dimensions returns the vector size produced by the configured model.
func (p *GeminiProvider) Dimensions() int { return geminiDimensions }

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error { return p.client.Close() }
