// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ragctl/cli/internal/errors"
)

func discardLogf(format string, args ...any) {}

func newTestService(p Provider, batchSize int) *Service {
	s := NewService(p, batchSize)
	s.logf = discardLogf
	return s
}

func TestGenerateEmbedding(t *testing.T) {
	mock := NewMockProvider()
	svc := newTestService(mock, 0)

	vec, err := svc.GenerateEmbedding(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 768, "every vector has the model's fixed dimensionality")
	assert.Equal(t, []string{"hello world"}, mock.Calls(), "exactly one provider call")
}

func TestGenerateEmbeddingDeterministic(t *testing.T) {
	mock := NewMockProvider()
	svc := newTestService(mock, 0)
	ctx := context.Background()

	vec1, err := svc.GenerateEmbedding(ctx, "same input")
	require.NoError(t, err)
	vec2, err := svc.GenerateEmbedding(ctx, "same input")
	require.NoError(t, err)
	assert.Equal(t, vec1, vec2, "same input should produce identical embeddings")

	other, err := svc.GenerateEmbedding(ctx, "different input")
	require.NoError(t, err)
	assert.NotEqual(t, vec1, other, "different inputs should produce different embeddings")
}

func TestGenerateEmbeddingProviderFailure(t *testing.T) {
	mock := NewMockProvider()
	mock.FailOn("bad", errors.New("quota exhausted"))
	svc := newTestService(mock, 0)

	vec, err := svc.GenerateEmbedding(context.Background(), "bad")
	require.Error(t, err, "provider failures are surfaced, not swallowed")
	assert.Nil(t, vec)
	assert.Equal(t, apperrors.EmbeddingError, apperrors.KindOf(err))
}

func TestGenerateEmbeddingsBatchOrderPreserved(t *testing.T) {
	mock := NewMockProvider()
	svc := newTestService(mock, 2)

	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts), "one output vector per input text")

	for i, text := range texts {
		assert.Len(t, vecs[i], 768)
		expected := mock.generateDeterministic(text)
		assert.Equal(t, expected, vecs[i], "output %d must correspond to input %d", i, i)
	}
	assert.Equal(t, texts, mock.Calls(), "provider calls follow input order across batch boundaries")
}

func TestGenerateEmbeddingsBatchUnits(t *testing.T) {
	mock := NewMockProvider()
	svc := newTestService(mock, 2)

	type report struct{ index, total, size int }
	var reports []report
	svc.OnBatch = func(index, total, size int) {
		reports = append(reports, report{index, total, size})
	}

	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, []report{{1, 2, 2}, {2, 2, 1}}, reports,
		"3 texts with batch size 2 should dispatch units of 2 and 1")
}

func TestGenerateEmbeddingsBatchAllOrNothing(t *testing.T) {
	mock := NewMockProvider()
	mock.FailOn("b", errors.New("rate limited"))
	svc := newTestService(mock, 2)

	var batches int
	svc.OnBatch = func(index, total, size int) { batches++ }

	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err, "a failing item must fail the whole batch call")
	assert.Nil(t, vecs, "no partial result is returned")
	assert.Equal(t, apperrors.EmbeddingError, apperrors.KindOf(err))
	assert.Zero(t, batches, "no progress is reported for a failed first batch")
	assert.NotContains(t, mock.Calls(), "c", "remaining batches are not dispatched after a failure")
}

func TestGenerateEmbeddingsBatchEmptyInput(t *testing.T) {
	svc := newTestService(NewMockProvider(), 10)

	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestGenerateEmbeddingsBatchSingleLargeBatch(t *testing.T) {
	mock := NewMockProvider()
	svc := newTestService(mock, 100)

	var batches int
	svc.OnBatch = func(index, total, size int) { batches++ }

	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, 1, batches, "inputs below the batch size form a single unit")
}

func TestDimensionMismatchRejected(t *testing.T) {
	// mismatchedProvider declares 768 dimensions but produces 64-wide vectors.
	lying := &mismatchedProvider{MockProvider: NewMockProviderWithDimensions(64)}
	svc := newTestService(lying, 10)

	_, err := svc.GenerateEmbedding(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, apperrors.EmbeddingError, apperrors.KindOf(err))

	vecs, err := svc.GenerateEmbeddingsBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Nil(t, vecs)
}

// mismatchedProvider declares 768 dimensions but produces 64.
type mismatchedProvider struct {
	*MockProvider
}

func (p *mismatchedProvider) Dimensions() int { return 768 }

func TestNewGeminiProviderEmptyKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "")
	require.Error(t, err, "a missing credential is fatal at construction")
	assert.Equal(t, apperrors.ConfigError, apperrors.KindOf(err))

	_, err = NewGeminiProvider(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, apperrors.ConfigError, apperrors.KindOf(err))
}
