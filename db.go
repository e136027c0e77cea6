package typql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zoobzio/typql/internal/batch"
)

// conn is the connection capability shared by *sql.DB and *sql.Tx.
type conn interface {
	batch.Conn
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// engine holds what a DB and its transactions share: the dialect, the
// execution settings and the per-schema function registrations.
type engine struct {
	dialect Dialect
	opts    options

	registered sync.Map // schema -> struct{}
	group      singleflight.Group
}

// DB runs compiled statements on a database/sql pool.
type DB struct {
	session
	db *sql.DB
}

// Tx runs compiled statements inside a transaction.
type Tx struct {
	session
	tx *sql.Tx
}

type session struct {
	*engine
	conn conn
}

// Open opens a pool with database/sql and selects the dialect from the
// driver name, or from the vendor given by WithConfig.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	o := newOptions(opts)
	name := o.vendor
	if name == "" {
		name = driverName
	}
	d, err := DialectNamed(name)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	out := newDB(db, d, o)
	// Functions registered in-process apply only to connections opened
	// afterwards, so register before the pool dials.
	if err := out.registerFunctions(context.Background(), ""); err != nil {
		db.Close()
		return nil, err
	}
	return out, nil
}

// OpenConfig opens the pool described by cfg. Options given here apply
// after the ones cfg implies.
func OpenConfig(cfg Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Open(cfg.Driver, cfg.DSN, append([]Option{WithConfig(cfg)}, opts...)...)
}

// OpenDB wraps an existing pool compiled with d.
func OpenDB(db *sql.DB, d Dialect, opts ...Option) *DB {
	return newDB(db, d, newOptions(opts))
}

func newDB(db *sql.DB, d Dialect, o options) *DB {
	e := &engine{dialect: d, opts: o}
	return &DB{session: session{engine: e, conn: db}, db: db}
}

// SQL returns the underlying pool.
func (db *DB) SQL() *sql.DB { return db.db }

// Close closes the pool.
func (db *DB) Close() error { return db.db.Close() }

// Tx starts a transaction. Statements run on it share the DB's dialect
// and settings.
func (db *DB) Tx(ctx context.Context, txOpts ...*sql.TxOptions) (*Tx, error) {
	var o *sql.TxOptions
	if len(txOpts) > 0 {
		o = txOpts[0]
	}
	tx, err := db.db.BeginTx(ctx, o)
	if err != nil {
		return nil, newExecError(0, "BEGIN", err)
	}
	return &Tx{session: session{engine: db.engine, conn: tx}, tx: tx}, nil
}

// Commit commits the transaction.
func (tx *Tx) Commit() error { return tx.tx.Commit() }

// Rollback aborts the transaction.
func (tx *Tx) Rollback() error { return tx.tx.Rollback() }

// Dialect returns the dialect statements compile with.
func (s *session) Dialect() Dialect { return s.dialect }

// Exec compiles stmts into one context and runs every batch entry in call
// order. It returns one affected-row count per entry, or nil when there is
// nothing to run.
func (s *session) Exec(ctx context.Context, stmts ...Statement) ([]int64, error) {
	c, err := CompileAll(s.dialect, s.opts.literal, stmts...)
	if err != nil {
		return nil, err
	}
	return s.Batch(ctx, c)
}

// Batch runs the entries of a compiled context. Consecutive entries with
// identical SQL share one prepared statement. Counts are indexed like the
// entries. On success the context's after-execute actions run.
func (s *session) Batch(ctx context.Context, c *Context) ([]int64, error) {
	batches := c.Batches()
	if len(batches) == 0 {
		return nil, nil
	}
	if err := s.registerFunctions(ctx, c.Schema()); err != nil {
		return nil, err
	}

	entries := make([]batch.Entry, len(batches))
	for i, b := range batches {
		args, err := s.bind(b.Params)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = batch.Entry{SQL: b.SQL, Args: args}
	}

	counts, err := batch.Run(ctx, s.conn, entries, batch.Options{
		Prepared:       !c.Literal(),
		MultiStatement: s.opts.batching && s.dialect.Capabilities().MultiStatement,
		Observe:        s.observe,
	})
	if err != nil {
		var f *batch.Failure
		if errors.As(err, &f) {
			return counts, newExecError(f.Index, f.SQL, f.Err)
		}
		return counts, err
	}
	if err := c.RunAfterExecute(); err != nil {
		return counts, fmt.Errorf("after execute: %w", err)
	}
	return counts, nil
}

// Query compiles q and opens a cursor over its rows.
func (s *session) Query(ctx context.Context, q *Select) (*Rows, error) {
	c, err := Compile(s.dialect, q, s.opts.literal)
	if err != nil {
		return nil, err
	}
	return s.QueryContext(ctx, c)
}

// QueryContext opens a cursor over the single statement compiled into c.
func (s *session) QueryContext(ctx context.Context, c *Context) (*Rows, error) {
	batches := c.Batches()
	if len(batches) != 1 {
		return nil, ConfigError{Reason: fmt.Sprintf("query compiled into %d statements", len(batches))}
	}
	b := batches[0]
	if err := s.registerFunctions(ctx, c.Schema()); err != nil {
		return nil, err
	}
	args, err := s.bind(b.Params)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, b.SQL, args...)
	if err != nil {
		s.opts.logger.DebugContext(ctx, "query failed", "vendor", s.dialect.Vendor(), "sql", b.SQL, "error", err)
		return nil, newExecError(0, b.SQL, err)
	}
	s.opts.logger.DebugContext(ctx, "query", "vendor", s.dialect.Vendor(), "sql", b.SQL, "args", len(args))
	return newRows(rows, s.dialect, c), nil
}

func (s *session) bind(params []Param) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		v, err := s.dialect.Bind(p.Type, p.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		args[i] = v
	}
	return args, nil
}

// registerFunctions installs the dialect's emulated functions once per
// schema. Concurrent first uses of a schema wait on one registration.
func (s *session) registerFunctions(ctx context.Context, schema string) error {
	if !s.dialect.Capabilities().FunctionRegistry {
		return nil
	}
	if _, ok := s.registered.Load(schema); ok {
		return nil
	}
	_, err, _ := s.group.Do(schema, func() (any, error) {
		if err := s.dialect.RegisterFunctions(ctx, s.conn); err != nil {
			return nil, fmt.Errorf("register functions: %w", err)
		}
		s.registered.Store(schema, struct{}{})
		return nil, nil
	})
	return err
}

func (s *session) observe(g batch.Group) {
	log := s.opts.logger
	attrs := []any{
		slog.String("vendor", s.dialect.Vendor().String()),
		slog.String("sql", g.SQL),
		slog.Int("start", g.Start),
		slog.Int("size", g.Size),
		slog.Duration("duration", g.Duration),
	}
	if g.Err != nil {
		log.Debug("statement group failed", append(attrs, slog.Any("error", g.Err))...)
		return
	}
	log.Debug("statement group", attrs...)
	if s.opts.slow > 0 && g.Duration > s.opts.slow {
		log.Warn("slow statement group", attrs...)
	}
}
