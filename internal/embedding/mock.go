// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sync"
)

// MockProvider is a deterministic in-memory Provider for tests. The same
// input always produces the same unit-magnitude vector, so code that depends
// on consistent embeddings can be exercised without network access.
type MockProvider struct {
	dimensions int

	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

// NewMockProvider creates a mock producing 768-dimension vectors,
// matching the Gemini embedding model.
func NewMockProvider() *MockProvider {
	return &MockProvider{dimensions: geminiDimensions, fail: map[string]error{}}
}

// NewMockProviderWithDimensions creates a mock with a custom vector size,
// used to exercise dimensionality checks.
func NewMockProviderWithDimensions(dims int) *MockProvider {
	return &MockProvider{dimensions: dims, fail: map[string]error{}}
}

// FailOn makes subsequent calls for the given text return the error.
func (m *MockProvider) FailOn(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[text] = err
}

// Calls returns every text embedded so far, in call order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// EmbedText returns a deterministic vector derived from the input text.
func (m *MockProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	err := m.fail[text]
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mock provider: %w", err)
	}
	return m.generateDeterministic(text), nil
}

// ModelName returns the mock model identifier.
func (m *MockProvider) ModelName() string { return "mock-embedding" }

// Dimensions returns the configured vector size.
func (m *MockProvider) Dimensions() int { return m.dimensions }

// generateDeterministic creates a normalized vector from a SHA256 of the text.
func (m *MockProvider) generateDeterministic(text string) []float32 {
	vec := make([]float32, m.dimensions)
	hash := sha256.Sum256([]byte(text))
	for i := 0; i < m.dimensions; i++ {
		val := float64(hash[i%32]) / 255.0
		offset := float64(i) / float64(m.dimensions)
		vec[i] = float32(val*0.5 + offset*0.5)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
