// Package main is the entry point for the ragctl CLI application.
// It provides SQL session and embedding generation tooling for a RAG backend.
package main

import (
	"ragctl/cli/cmd"
)

// main is the entry point for the ragctl CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
