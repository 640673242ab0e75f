// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package embedding converts text into fixed-dimension vectors via a remote
// provider, singly or in batches. Provider calls are blocking network I/O,
// so each dispatched unit of work runs on a worker goroutine and is awaited;
// batches are processed strictly sequentially in input order.
package embedding

import "context"

// DefaultBatchSize bounds how many texts are grouped into one batch.
const DefaultBatchSize = 100

// Provider generates one vector embedding per remote call.
type Provider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	ModelName() string
	Dimensions() int
}

// Compile-time checks that the shipped providers implement Provider
var (
	_ Provider = (*GeminiProvider)(nil)
	_ Provider = (*MockProvider)(nil)
)
