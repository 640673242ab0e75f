// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows implements pgx.Rows over an in-memory row set.
type fakeRows struct {
	cols []string
	rows [][]any
	idx  int
	err  error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, col := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: col}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		if i >= len(row) {
			break
		}
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *any:
			*p = row[i]
		default:
			return fmt.Errorf("fakeRows: unsupported scan target %T", d)
		}
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// fakeDB implements DB and records the statements it receives.
type fakeDB struct {
	queries []string
	execs   []string
	closes  int

	queryFn func(sql string) (pgx.Rows, error)
	execFn  func(sql string) (pgconn.CommandTag, error)
}

var _ DB = (*fakeDB)(nil)

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, sql)
	if f.queryFn != nil {
		return f.queryFn(sql)
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execFn != nil {
		return f.execFn(sql)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Close(ctx context.Context) error {
	f.closes++
	return nil
}

// dialTo returns a DialFunc handing out the given connection.
func dialTo(db DB) DialFunc {
	return func(ctx context.Context, dsn string) (DB, error) { return db, nil }
}

// dialErr returns a DialFunc that always fails.
func dialErr(err error) DialFunc {
	return func(ctx context.Context, dsn string) (DB, error) { return nil, err }
}
