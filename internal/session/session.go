// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session manages a single PostgreSQL connection and dispatches
// operator-supplied SQL text. A session owns at most one live connection;
// statements are classified by a SELECT-prefix heuristic into a read path
// (eager row fetch) and a write path (execute, report the command tag).
//
// Per-statement failures are recoverable and never terminate the session.
// The interactive loop guarantees the connection is released on every exit
// path: clean exit, meta-command exit, interrupt, or error.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	apperrors "ragctl/cli/internal/errors"
	"ragctl/cli/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// introspectTablesSQL enumerates table names in the public schema.
const introspectTablesSQL = `SELECT table_name FROM information_schema.tables WHERE table_schema='public'`

// DB is the subset of the pgx connection the session needs.
// *pgx.Conn satisfies it; tests substitute a fake.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
}

// DialFunc establishes a database connection from a DSN.
type DialFunc func(ctx context.Context, dsn string) (DB, error)

func pgxDial(ctx context.Context, dsn string) (DB, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Option configures a Session.
type Option func(*Session)

// WithDial overrides the connection factory. Used by tests.
func WithDial(dial DialFunc) Option {
	return func(s *Session) { s.dial = dial }
}

// Session owns at most one live database connection and dispatches SQL text.
// The zero state is Disconnected; a session may be reused across multiple
// connect/disconnect cycles.
type Session struct {
	dsn  string
	dial DialFunc
	conn DB
}

// New creates a disconnected session for the given connection string.
func New(dsn string, opts ...Option) *Session {
	s := &Session{dsn: dsn, dial: pgxDial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connected reports whether a live connection is held.
func (s *Session) Connected() bool { return s.conn != nil }

// Connect establishes the connection. An empty connection string and a
// failed dial are both reported as typed errors and leave the session
// Disconnected; the caller may retry. Connecting twice is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	if strings.TrimSpace(s.dsn) == "" {
		return apperrors.New(apperrors.ConfigError, "DATABASE_URL is not set")
	}
	conn, err := s.dial(ctx, s.dsn)
	if err != nil {
		return apperrors.Wrap(apperrors.ConnectError, "connection failed", err)
	}
	s.conn = conn
	return nil
}

// Disconnect releases the connection. It is idempotent: calling it without
// a live connection is a no-op. The handle is cleared even if close fails.
func (s *Session) Disconnect(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil
	return err
}

// Execute dispatches one statement. SELECT-prefixed text takes the read
// path and fetches all matching rows eagerly; everything else takes the
// write path and reports the driver command tag verbatim. Failures are
// per-statement: the session stays connected and usable.
func (s *Session) Execute(ctx context.Context, query string) (*Result, error) {
	if s.conn == nil {
		return nil, apperrors.New(apperrors.ConnectError, "not connected to database")
	}
	if Classify(query) == Write {
		tag, err := s.conn.Exec(ctx, query)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.QueryError, "query failed", err)
		}
		return &Result{Kind: Write, Tag: tag.String()}, nil
	}

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.QueryError, "query failed", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}

	res := &Result{Kind: Read, Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.QueryError, "failed to read row", err)
		}
		res.Rows = append(res.Rows, vals)
	}
	if rows.Err() != nil {
		return nil, apperrors.Wrap(apperrors.QueryError, "query failed", rows.Err())
	}
	return res, nil
}

// Tables returns the table names in the public schema using a fixed
// introspection query, bypassing generic dispatch.
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	if s.conn == nil {
		return nil, apperrors.New(apperrors.ConnectError, "not connected to database")
	}
	rows, err := s.conn.Query(ctx, introspectTablesSQL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.QueryError, "introspection failed", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(apperrors.QueryError, "failed to read table name", err)
		}
		names = append(names, name)
	}
	if rows.Err() != nil {
		return nil, apperrors.Wrap(apperrors.QueryError, "introspection failed", rows.Err())
	}
	return names, nil
}

// RunInteractive drives the line-oriented read-eval loop: connect, prompt,
// dispatch, disconnect. Empty input is ignored; .exit and .quit terminate;
// .tables reports the introspection list; all other input is forwarded to
// Execute. A canceled context (interrupt) terminates the loop gracefully.
// The connection is released on every exit path.
func (s *Session) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	printBanner(out)

	if err := s.Connect(ctx); err != nil {
		fmt.Fprintln(out, "❌ "+logging.PresentError("Connection failed", err))
		return nil
	}
	fmt.Fprintln(out, "✅ Connected to database")

	// Release on every exit path. Background context so a canceled loop
	// context cannot block the close.
	defer func() {
		_ = s.Disconnect(context.Background())
		fmt.Fprintln(out, "✅ Disconnected")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "\nsql> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n👋 Interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				// EOF on input
				fmt.Fprintln(out)
				return nil
			}
			query := strings.TrimSpace(line)
			if query == "" {
				continue
			}

			switch strings.ToLower(query) {
			case ".exit", ".quit":
				return nil
			case ".tables":
				names, err := s.Tables(ctx)
				if err != nil {
					fmt.Fprintln(out, "❌ "+logging.PresentError("Introspection failed", err))
					continue
				}
				fmt.Fprintf(out, "Tables: %v\n", names)
				continue
			}

			res, err := s.Execute(ctx, query)
			if err != nil {
				fmt.Fprintln(out, "❌ "+logging.PresentError("Query failed", err))
				continue
			}
			res.Render(out)
		}
	}
}

// printBanner writes the interactive session header and command reference.
func printBanner(out io.Writer) {
	fmt.Fprintln(out, "\n🗄️  Interactive SQL session")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  .tables          - Show all tables")
	fmt.Fprintln(out, "  .exit            - Exit")
	fmt.Fprintln(out, "  .quit            - Exit")
	fmt.Fprintln(out, strings.Repeat("=", 50))
}
