// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package embedding

import (
	"context"
	"fmt"
	"io"
	"log"

	apperrors "ragctl/cli/internal/errors"
)

// Service is the batch vectorization pipeline over a single provider client.
// The provider holds no per-call mutable state, so the service is safe for
// sequential reuse across calls.
type Service struct {
	provider  Provider
	batchSize int

	// OnBatch, when set, is invoked after each completed batch with its
	// 1-based index, the total batch count, and the batch size.
	OnBatch func(index, total, size int)

	logf func(format string, args ...any)
}

// NewService creates a pipeline over the given provider. A non-positive
// batch size falls back to DefaultBatchSize.
func NewService(provider Provider, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		provider:  provider,
		batchSize: batchSize,
		logf:      log.Printf,
	}
}

// Close releases the provider client if it holds one.
func (s *Service) Close() error {
	if c, ok := s.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// batchResult carries an offloaded unit of work back to the awaiting caller.
type batchResult struct {
	vecs [][]float32
	err  error
}

// dispatch runs fn on a worker goroutine and awaits its result. Provider
// calls block on the network; they never run on the event-processing path.
// Once dispatched, a unit runs to completion or failure.
func dispatch(fn func() ([][]float32, error)) ([][]float32, error) {
	ch := make(chan batchResult, 1)
	go func() {
		vecs, err := fn()
		ch <- batchResult{vecs: vecs, err: err}
	}()
	res := <-ch
	return res.vecs, res.err
}

// GenerateEmbedding converts one text into a vector with exactly one
// provider call. Provider failures are logged and returned to the caller.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := dispatch(func() ([][]float32, error) {
		vec, err := s.provider.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := s.checkDimensions(vec); err != nil {
			return nil, err
		}
		return [][]float32{vec}, nil
	})
	if err != nil {
		s.logf("[embedding] failed to generate embedding: %v", err)
		return nil, apperrors.Wrap(apperrors.EmbeddingError, "failed to generate embedding", err)
	}
	return vecs[0], nil
}

// GenerateEmbeddingsBatch converts texts into vectors, preserving input
// order across and within batches. Each batch of at most the configured
// batch size is one offloaded unit issuing one provider call per text;
// batches run strictly sequentially. The call is all-or-nothing: any
// failing item aborts the whole operation with no partial result.
func (s *Service) GenerateEmbeddingsBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	total := (len(texts) + s.batchSize - 1) / s.batchSize
	all := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		batch := texts[start:end]
		index := start/s.batchSize + 1

		vecs, err := dispatch(func() ([][]float32, error) {
			out := make([][]float32, 0, len(batch))
			for _, text := range batch {
				vec, err := s.provider.EmbedText(ctx, text)
				if err != nil {
					return nil, err
				}
				if err := s.checkDimensions(vec); err != nil {
					return nil, err
				}
				out = append(out, vec)
			}
			return out, nil
		})
		if err != nil {
			s.logf("[embedding] batch %d/%d failed: %v", index, total, err)
			return nil, apperrors.Wrap(apperrors.EmbeddingError,
				fmt.Sprintf("batch %d/%d failed", index, total), err)
		}

		all = append(all, vecs...)
		s.logf("[embedding] generated %d embeddings (batch %d/%d)", len(vecs), index, total)
		if s.OnBatch != nil {
			s.OnBatch(index, total, len(vecs))
		}
	}

	s.logf("[embedding] total embeddings generated: %d", len(all))
	return all, nil
}

// checkDimensions enforces the fixed dimensionality of the configured model.
func (s *Service) checkDimensions(vec []float32) error {
	if len(vec) != s.provider.Dimensions() {
		return fmt.Errorf("provider returned %d dimensions, want %d", len(vec), s.provider.Dimensions())
	}
	return nil
}
