package typql

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoobzio/typql/internal/types"
)

// Rows is a forward-only cursor over a compiled query. Values are read
// through the dialect, so temporal and binary columns come back as the Go
// representation of their declared type.
type Rows struct {
	rows    *sql.Rows
	dialect Dialect
	items   []Expr
	skip    bool
	err     error
}

func newRows(rows *sql.Rows, d Dialect, c *Context) *Rows {
	return &Rows{rows: rows, dialect: d, items: c.Items(), skip: c.SkipFirstColumn()}
}

// Next advances to the next row.
func (r *Rows) Next() bool {
	if r.err != nil {
		return false
	}
	return r.rows.Next()
}

// Values returns the current row, one value per select item. A leading
// column synthesized for pagination is dropped.
func (r *Rows) Values() ([]any, error) {
	n := len(r.items)
	if r.skip {
		n++
	}
	raw := make([]any, n)
	dest := make([]any, n)
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.err = err
		return nil, err
	}
	if r.skip {
		raw = raw[1:]
	}

	out := make([]any, len(raw))
	for i, v := range raw {
		val, err := r.dialect.Read(r.items[i].Type(), v)
		if err != nil {
			r.err = fmt.Errorf("column %d: %w", i+1, err)
			return nil, r.err
		}
		out[i] = val
	}
	return out, nil
}

// Load reads the current row into cells. With no arguments every select
// item that is an entity column is loaded in place; otherwise cols are
// loaded positionally and a nil entry skips its value.
func (r *Rows) Load(cols ...*Column) error {
	vals, err := r.Values()
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		cols = make([]*Column, len(r.items))
		for i, item := range r.items {
			if c, ok := item.(*types.Column); ok && c.Owner() != nil {
				cols[i] = c
			}
		}
	}
	if len(cols) > len(vals) {
		return fmt.Errorf("load: %d cells for %d values", len(cols), len(vals))
	}
	for i, c := range cols {
		if c == nil {
			continue
		}
		if err := c.Load(vals[i]); err != nil {
			return fmt.Errorf("load %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Columns returns the select items the cursor reads.
func (r *Rows) Columns() []Expr {
	return r.items
}

// Err returns the first error met while iterating.
func (r *Rows) Err() error {
	return errors.Join(r.err, r.rows.Err())
}

// Close releases the cursor and its connection.
func (r *Rows) Close() error {
	return r.rows.Close()
}

// All drains the cursor, returning every row, and closes it.
func (r *Rows) All() ([][]any, error) {
	defer r.rows.Close()
	var out [][]any
	for r.Next() {
		vals, err := r.Values()
		if err != nil {
			return out, err
		}
		out = append(out, vals)
	}
	return out, r.Err()
}
