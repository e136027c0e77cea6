// Package batch executes accumulated DML statements in call order,
// reusing one prepared statement for each run of identical SQL.
package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SuccessNoInfo is the count recorded for a statement that succeeded
// without reporting affected rows.
const SuccessNoInfo int64 = -2

// Conn is the connection capability the engine needs. *sql.DB, *sql.Conn
// and *sql.Tx satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Entry is one statement with its driver arguments.
type Entry struct {
	SQL  string
	Args []any
}

// Group describes one executed group: a run of identical templates on a
// prepared statement, a joined multi-statement text or a single entry.
type Group struct {
	SQL      string
	Start    int
	Size     int
	Duration time.Duration
	Err      error
}

// Options controls how entries reach the connection.
type Options struct {
	// Prepared groups runs of identical SQL onto one prepared statement.
	Prepared bool
	// MultiStatement joins argument-free entries into one Exec.
	MultiStatement bool
	// Observe is called after every executed group.
	Observe func(Group)
}

// Failure reports the entry that failed. Entries before Index have run
// and are not rolled back.
type Failure struct {
	Index int
	SQL   string
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("batch entry %d: %v", f.Index, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsFailure reports whether err carries a batch Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// Run executes entries in order and returns one count per entry, indexed
// like the input. An empty input returns nil. On failure the counts of the
// entries that ran are returned with the error.
func Run(ctx context.Context, conn Conn, entries []Entry, opts Options) ([]int64, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	r := &runner{ctx: ctx, conn: conn, opts: opts, counts: make([]int64, 0, len(entries))}
	var err error
	switch {
	case opts.Prepared:
		err = r.prepared(entries)
	case opts.MultiStatement && len(entries) > 1 && argFree(entries):
		err = r.joined(entries)
	default:
		err = r.each(entries)
	}
	return r.counts, err
}

type runner struct {
	ctx    context.Context
	conn   Conn
	opts   Options
	counts []int64
}

// prepared flushes each contiguous run of one template through a single
// prepared statement.
func (r *runner) prepared(entries []Entry) error {
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].SQL == entries[start].SQL {
			end++
		}
		if err := r.flush(entries, start, end); err != nil {
			return err
		}
		start = end
	}
	return nil
}

func (r *runner) flush(entries []Entry, start, end int) (err error) {
	query := entries[start].SQL
	began := time.Now()
	defer func() {
		r.observe(Group{SQL: query, Start: start, Size: end - start, Duration: time.Since(began), Err: err})
	}()

	stmt, err := r.conn.PrepareContext(r.ctx, query)
	if err != nil {
		return &Failure{Index: start, SQL: query, Err: err}
	}
	defer stmt.Close()

	for i := start; i < end; i++ {
		res, err := stmt.ExecContext(r.ctx, entries[i].Args...)
		if err != nil {
			return &Failure{Index: i, SQL: query, Err: err}
		}
		r.counts = append(r.counts, affected(res))
	}
	return nil
}

// joined runs every entry in one Exec. The driver reports a single count,
// so each entry records SuccessNoInfo.
func (r *runner) joined(entries []Entry) (err error) {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.SQL
	}
	query := strings.Join(texts, ";\n")
	began := time.Now()
	defer func() {
		r.observe(Group{SQL: query, Size: len(entries), Duration: time.Since(began), Err: err})
	}()

	if _, err := r.conn.ExecContext(r.ctx, query); err != nil {
		return &Failure{Index: 0, SQL: query, Err: err}
	}
	for range entries {
		r.counts = append(r.counts, SuccessNoInfo)
	}
	return nil
}

func (r *runner) each(entries []Entry) error {
	for i, e := range entries {
		began := time.Now()
		res, err := r.conn.ExecContext(r.ctx, e.SQL, e.Args...)
		r.observe(Group{SQL: e.SQL, Start: i, Size: 1, Duration: time.Since(began), Err: err})
		if err != nil {
			return &Failure{Index: i, SQL: e.SQL, Err: err}
		}
		r.counts = append(r.counts, affected(res))
	}
	return nil
}

func (r *runner) observe(g Group) {
	if r.opts.Observe != nil {
		r.opts.Observe(g)
	}
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return SuccessNoInfo
	}
	return n
}

func argFree(entries []Entry) bool {
	for _, e := range entries {
		if len(e.Args) > 0 {
			return false
		}
	}
	return true
}
