package render

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/typql/internal/types"
)

// RenderSelect compiles a query. Row limiting is delegated to Paginate so
// vendors can wrap or extend the bare query.
func (b *Base) RenderSelect(ctx *Context, s *types.Select) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid select: %w", err)
	}
	if len(s.From) > 0 {
		ctx.noteSchema(s.From[0].Schema)
	}
	if ctx.depth == 0 {
		ctx.items = s.Items()
	}
	named := ctx.takeNameItems()
	qualify := ctx.qualify
	ctx.qualify = true
	defer func() { ctx.qualify = qualify }()

	return b.outer.Paginate(ctx, s, func() error {
		// Paginate may request names for a wrapping layer.
		return b.selectBody(ctx, s, ctx.takeNameItems() || named)
	})
}

// Paginate appends LIMIT and OFFSET.
func (b *Base) Paginate(ctx *Context, s *types.Select, body func() error) error {
	if err := body(); err != nil {
		return err
	}
	if s.Limit > 0 {
		ctx.Writef(" LIMIT %d", s.Limit)
	}
	if s.Offset > 0 {
		ctx.Writef(" OFFSET %d", s.Offset)
	}
	return nil
}

// RenderNoFrom completes a select list that reads no table. Standard SQL
// needs nothing more.
func (b *Base) RenderNoFrom(*Context) {}

// GroupBy returns the declared grouping list.
func (b *Base) GroupBy(s *types.Select) []types.Expr {
	return s.GroupBy
}

func (b *Base) selectBody(ctx *Context, s *types.Select, named bool) error {
	// FROM order fixes alias order even when the select list mentions a
	// joined entity first.
	for _, e := range s.From {
		ctx.RegisterAlias(e)
	}
	for _, j := range s.Joins {
		ctx.RegisterAlias(j.Target)
	}

	ctx.Write("SELECT ")
	if s.Distinct {
		ctx.Write("DISTINCT ")
	}
	items := s.Items()
	if len(items) == 0 {
		ctx.Write("*")
	}
	for i, item := range items {
		if i > 0 {
			ctx.Write(", ")
		}
		if err := b.outer.RenderNode(ctx, item); err != nil {
			return err
		}
		if named && needsName(item) {
			ctx.Write(" AS " + b.outer.QuoteIdentifier("c"+strconv.Itoa(i+1)))
		}
	}

	if len(s.From) == 0 {
		b.outer.RenderNoFrom(ctx)
	} else {
		ctx.Write(" FROM ")
		for i, e := range s.From {
			if i > 0 {
				ctx.Write(", ")
			}
			if err := b.outer.RenderTable(ctx, e); err != nil {
				return err
			}
		}
	}
	for _, j := range s.Joins {
		ctx.Write(" " + j.Kind.String() + " ")
		if err := b.outer.RenderTable(ctx, j.Target); err != nil {
			return err
		}
		if j.Kind != types.CrossJoin {
			ctx.Write(" ON ")
			if err := b.outer.RenderNode(ctx, j.On); err != nil {
				return err
			}
		}
	}

	if s.Where != nil {
		ctx.Write(" WHERE ")
		if err := b.outer.RenderNode(ctx, s.Where); err != nil {
			return err
		}
	}

	if group := b.outer.GroupBy(s); len(group) > 0 {
		ctx.Write(" GROUP BY ")
		for i, g := range group {
			if i > 0 {
				ctx.Write(", ")
			}
			if as, ok := g.(*types.As); ok {
				g = as.Expr
			}
			if err := b.outer.RenderNode(ctx, g); err != nil {
				return err
			}
		}
	}

	if s.Having != nil {
		ctx.Write(" HAVING ")
		if err := b.outer.RenderNode(ctx, s.Having); err != nil {
			return err
		}
	}

	if len(s.OrderBy) > 0 {
		ctx.Write(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				ctx.Write(", ")
			}
			if as, ok := o.Expr.(*types.As); ok {
				ctx.Write(b.outer.QuoteIdentifier(as.Alias))
			} else if err := b.outer.RenderNode(ctx, o.Expr); err != nil {
				return err
			}
			if o.Desc {
				ctx.Write(" DESC")
			} else {
				ctx.Write(" ASC")
			}
		}
	}
	return nil
}

// needsName reports whether a derived-table item lacks a column name of
// its own.
func needsName(e types.Expr) bool {
	switch x := e.(type) {
	case *types.As:
		return false
	case *types.Column:
		if w := x.Wrapped(); w != nil {
			return needsName(w)
		}
		return x.Owner() == nil
	}
	return true
}

// NonAggregates returns the select items that are not aggregate calls,
// unwrapping aliases.
func NonAggregates(items []types.Expr) []types.Expr {
	var out []types.Expr
	for _, item := range items {
		e := item
		if as, ok := e.(*types.As); ok {
			e = as.Expr
		}
		if f, ok := e.(*types.Func); ok && f.IsAggregate() {
			continue
		}
		if c, ok := e.(*types.Column); ok && c.Owner() == nil && c.Wrapped() == nil {
			continue
		}
		out = append(out, e)
	}
	return out
}
