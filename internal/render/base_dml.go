package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zoobzio/typql/internal/types"
)

// RenderInsert compiles an INSERT. Entity rows produce one statement per
// entity, each closed into its own batch entry. A value list produces a
// single statement.
func (b *Base) RenderInsert(ctx *Context, s *types.Insert) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid insert: %w", err)
	}
	if s.Into != nil {
		if err := b.writable(ctx, s.Into); err != nil {
			return err
		}
		if err := types.ApplyInsert(s.Values...); err != nil {
			return err
		}
		err := ctx.withTarget(s.Into, func() error {
			return b.insertRow(ctx, s.Into, s.Values)
		})
		if err != nil {
			return err
		}
		resolveAfter(ctx, s.Values)
		return nil
	}

	for _, e := range s.Rows {
		if err := b.writable(ctx, e); err != nil {
			return err
		}
		cols := e.Columns()
		if err := types.ApplyInsert(cols...); err != nil {
			return err
		}
		var pending []*types.Column
		for _, c := range cols {
			if c.Pending() {
				pending = append(pending, c)
			}
		}
		err := ctx.withTarget(e, func() error {
			return b.insertRow(ctx, e, pending)
		})
		if err != nil {
			return err
		}
		resolveAfter(ctx, pending)
		ctx.AddBatch()
	}
	return nil
}

func (b *Base) insertRow(ctx *Context, e *types.Entity, cols []*types.Column) error {
	ctx.Write("INSERT INTO " + b.outer.QuoteIdentifier(e.Name))
	if len(cols) == 0 {
		b.outer.RenderDefaultValues(ctx)
		return nil
	}
	ctx.Write(" (")
	for i, c := range cols {
		if i > 0 {
			ctx.Write(", ")
		}
		ctx.Write(b.outer.QuoteIdentifier(c.Name()))
	}
	ctx.Write(") VALUES (")
	for i, c := range cols {
		if i > 0 {
			ctx.Write(", ")
		}
		if err := ctx.AddParameter(c, true); err != nil {
			return err
		}
	}
	ctx.Write(")")
	return nil
}

// RenderDefaultValues completes an INSERT that names no columns.
func (b *Base) RenderDefaultValues(ctx *Context) {
	ctx.Write(" DEFAULT VALUES")
}

// DefaultRow writes VALUES (DEFAULT, ...) with one DEFAULT per column of
// the target, for vendors without DEFAULT VALUES.
func DefaultRow(ctx *Context) {
	n := 1
	if ctx.target != nil && len(ctx.target.Columns()) > 0 {
		n = len(ctx.target.Columns())
	}
	ctx.Write(" VALUES (" + strings.Repeat("DEFAULT, ", n-1) + "DEFAULT)")
}

// RenderUpdate compiles an UPDATE. Entity rows produce one statement per
// entity keyed by its key columns; an entity with nothing to write is
// skipped. An explicit table produces a single statement.
func (b *Base) RenderUpdate(ctx *Context, s *types.Update) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}
	if s.Table != nil {
		return b.updateWhere(ctx, s)
	}

	for _, e := range s.Rows {
		if err := b.writable(ctx, e); err != nil {
			return err
		}
		keys := e.Keys()
		if len(keys) == 0 {
			return NewConfigError("entity %q has no key columns", e.Name)
		}
		var set []*types.Column
		for _, c := range e.Columns() {
			if slices.Contains(keys, c) {
				continue
			}
			if err := types.ApplyUpdate(c); err != nil {
				return err
			}
			if c.Pending() {
				set = append(set, c)
			}
		}
		if len(set) == 0 {
			continue
		}
		err := ctx.withTarget(e, func() error {
			if err := b.writeSet(ctx, e, set); err != nil {
				return err
			}
			return b.writeKeys(ctx, keys)
		})
		if err != nil {
			return err
		}
		resolveAfter(ctx, set)
		ctx.AddBatch()
	}
	return nil
}

// updateWhere compiles UPDATE ... SET ... WHERE. Unset columns of the table
// carrying an update rule are written along with the explicit list.
func (b *Base) updateWhere(ctx *Context, s *types.Update) error {
	if err := b.writable(ctx, s.Table); err != nil {
		return err
	}
	set := append([]*types.Column(nil), s.Set...)
	for _, c := range s.Table.Columns() {
		if c.OnUpdate() == types.GenerateNone || slices.Contains(set, c) {
			continue
		}
		if err := types.ApplyUpdate(c); err != nil {
			return err
		}
		if c.Pending() {
			set = append(set, c)
		}
	}
	err := ctx.withTarget(s.Table, func() error {
		if err := b.writeSet(ctx, s.Table, set); err != nil {
			return err
		}
		if s.Where != nil {
			ctx.Write(" WHERE ")
			return b.outer.RenderNode(ctx, s.Where)
		}
		return nil
	})
	if err != nil {
		return err
	}
	resolveAfter(ctx, set)
	return nil
}

func (b *Base) writeSet(ctx *Context, e *types.Entity, set []*types.Column) error {
	ctx.Write("UPDATE " + b.outer.QuoteIdentifier(e.Name) + " SET ")
	for i, c := range set {
		if i > 0 {
			ctx.Write(", ")
		}
		ctx.Write(b.outer.QuoteIdentifier(c.Name()) + " = ")
		if err := ctx.AddParameter(c, true); err != nil {
			return err
		}
	}
	return nil
}

// writeKeys writes the WHERE clause matching the key values. A key without
// a value matches NULL.
func (b *Base) writeKeys(ctx *Context, keys []*types.Column) error {
	ctx.Write(" WHERE ")
	for i, k := range keys {
		if i > 0 {
			ctx.Write(" AND ")
		}
		ctx.Write(b.outer.QuoteIdentifier(k.Name()))
		if k.Value() == nil {
			ctx.Write(" IS NULL")
			continue
		}
		ctx.Write(" = ")
		if err := ctx.AddParameter(k, false); err != nil {
			return err
		}
	}
	return nil
}

// RenderDelete compiles a DELETE, per entity key or by condition.
func (b *Base) RenderDelete(ctx *Context, s *types.Delete) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid delete: %w", err)
	}
	if s.From != nil {
		if err := b.writable(ctx, s.From); err != nil {
			return err
		}
		return ctx.withTarget(s.From, func() error {
			ctx.Write("DELETE FROM " + b.outer.QuoteIdentifier(s.From.Name))
			if s.Where != nil {
				ctx.Write(" WHERE ")
				return b.outer.RenderNode(ctx, s.Where)
			}
			return nil
		})
	}

	for _, e := range s.Rows {
		if err := b.writable(ctx, e); err != nil {
			return err
		}
		keys := e.Keys()
		if len(keys) == 0 {
			return NewConfigError("entity %q has no key columns", e.Name)
		}
		err := ctx.withTarget(e, func() error {
			ctx.Write("DELETE FROM " + b.outer.QuoteIdentifier(e.Name))
			return b.writeKeys(ctx, keys)
		})
		if err != nil {
			return err
		}
		ctx.AddBatch()
	}
	return nil
}

// writable checks that e names a table and records its schema.
func (b *Base) writable(ctx *Context, e *types.Entity) error {
	if e.IsDerived() {
		return NewConfigError("cannot write to a derived table")
	}
	return ctx.UseSchema(e.Schema)
}

// resolveAfter schedules the settling of the cells the statement wrote, so
// on success they hold what the database stored and count as clean.
func resolveAfter(ctx *Context, cols []*types.Column) {
	if len(cols) == 0 {
		return
	}
	written := append([]*types.Column(nil), cols...)
	ctx.AfterExecute(func() error {
		return types.Settle(written...)
	})
}
