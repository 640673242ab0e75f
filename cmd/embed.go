// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"ragctl/cli/internal/config"
	"ragctl/cli/internal/embedding"
	apperrors "ragctl/cli/internal/errors"
	"ragctl/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	embedFile      string
	embedBatchSize int
	embedJSON      bool
)

// embedCmd represents the embed command for generating text embeddings.
// Texts come from arguments or from a file with one text per line; they are
// vectorized in order through the Gemini embedding pipeline.
var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Generate text embeddings via the Gemini API",
	Long: `The embed command converts texts into 768-dimension embedding vectors using
the Gemini embedding model. Input texts are taken from the arguments, or one
per line from --file. Inputs are processed in batches of --batch-size with
per-batch progress reporting; a failure anywhere aborts the whole run with
no partial output.

Requires GEMINI_API_KEY to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		texts, err := collectTexts(args)
		if err != nil {
			return err
		}
		if len(texts) == 0 {
			pterm.Println("⚠️  No input text provided.")
			pterm.Println("   Pass texts as arguments or use --file with one text per line.")
			return apperrors.New(apperrors.ConfigError, "no input text provided")
		}

		ctx := cmd.Context()

		// A missing or invalid credential is fatal here, not per call.
		provider, err := embedding.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("Embedding setup failed", err))
			return err
		}
		defer provider.Close()

		batchSize := embedBatchSize
		if batchSize <= 0 {
			batchSize = cfg.EmbedBatchSize
		}
		svc := embedding.NewService(provider, batchSize)
		if !embedJSON {
			svc.OnBatch = func(index, total, size int) {
				pterm.Printf("  batch %d/%d done (%d texts)\n", index, total, size)
			}
		}

		var vectors [][]float32
		if len(texts) == 1 {
			vec, err := svc.GenerateEmbedding(ctx, texts[0])
			if err != nil {
				pterm.Println("❌ " + logging.PresentError("Embedding failed", err))
				return err
			}
			vectors = [][]float32{vec}
		} else {
			vectors, err = svc.GenerateEmbeddingsBatch(ctx, texts)
			if err != nil {
				pterm.Println("❌ " + logging.PresentError("Embedding failed", err))
				return err
			}
		}

		if embedJSON {
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(vectors)
		}
		pterm.Printf("✅ Generated %d embeddings (%d dimensions, model %s)\n",
			len(vectors), provider.Dimensions(), provider.ModelName())
		return nil
	},
}

// collectTexts merges argument texts with the optional input file.
func collectTexts(args []string) ([]string, error) {
	texts := make([]string, 0, len(args))
	texts = append(texts, args...)
	if embedFile == "" {
		return texts, nil
	}

	f, err := os.Open(embedFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, scanner.Err()
}

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.Flags().StringVarP(&embedFile, "file", "f", "", "Read input texts from a file, one per line")
	embedCmd.Flags().IntVar(&embedBatchSize, "batch-size", 0, "Maximum texts per batch (default 100)")
	embedCmd.Flags().BoolVar(&embedJSON, "json", false, "Write the embedding vectors as JSON to stdout")
}
