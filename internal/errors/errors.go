// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. The closed kind set lets callers distinguish recoverable
// failures (bad query, refused connection) from fatal ones (missing credential) without
// string inspection.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigError indicates a missing or invalid configuration value
	// (connection string, API credential).
	ConfigError Kind = "config_error"
	// ConnectError indicates a database connectivity failure, including
	// operations attempted without a live connection.
	ConnectError Kind = "connect_error"
	// QueryError indicates a per-statement execution failure.
	QueryError Kind = "query_error"
	// EmbeddingError indicates a failure from the remote embedding provider.
	EmbeddingError Kind = "embedding_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf extracts the category from an error, or "" if it carries none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
