// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the ragctl application.
// It implements subcommands for SQL session management, connectivity checks,
// and embedding generation using the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the ragctl CLI application.
var rootCmd = &cobra.Command{
	Use:           "ragctl",
	Short:         "Ragctl CLI for RAG backend database and embedding operations",
	Long:          `Ragctl is a command-line tool for operating a RAG backend: it runs SQL against the managed PostgreSQL database and generates text embeddings via the Gemini API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("ragctl %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
