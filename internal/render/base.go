package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/zoobzio/typql/internal/types"
)

// Base implements ANSI SQL rendering. Vendor dialects embed it and
// override what differs.
type Base struct {
	outer  Dialect
	vendor Vendor
}

// NewBase creates the shared implementation for outer, the dialect that
// embeds it.
func NewBase(outer Dialect, vendor Vendor) *Base {
	return &Base{outer: outer, vendor: vendor}
}

// ansi is the base dialect used on its own.
type ansi struct{ *Base }

// NewANSI returns a dialect rendering plain ANSI SQL.
func NewANSI() Dialect {
	d := &ansi{}
	d.Base = NewBase(d, VendorUnknown)
	return d
}

func (b *Base) Vendor() Vendor { return b.vendor }

// Capabilities returns the features of ANSI SQL.
func (b *Base) Capabilities() Capabilities {
	return Capabilities{
		NativeLimit:        true,
		MultiUnitInterval:  true,
		QuantifiedSubquery: true,
	}
}

// QuoteIdentifier quotes an identifier with double quotes.
func (b *Base) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString quotes a string literal with single quotes.
func (b *Base) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (b *Base) Placeholder(int) string { return "?" }

func (b *Base) RegisterFunctions(context.Context, Execer) error { return nil }

// RenderStatement dispatches on the statement kind.
func (b *Base) RenderStatement(ctx *Context, stmt types.Statement) error {
	switch s := stmt.(type) {
	case *types.Select:
		return b.outer.RenderSelect(ctx, s)
	case *types.Insert:
		return b.outer.RenderInsert(ctx, s)
	case *types.Update:
		return b.outer.RenderUpdate(ctx, s)
	case *types.Delete:
		return b.outer.RenderDelete(ctx, s)
	}
	return fmt.Errorf("unsupported statement type: %T", stmt)
}

// RenderNode compiles any expression or condition node.
func (b *Base) RenderNode(ctx *Context, n types.Node) error {
	switch x := n.(type) {
	case *types.Column:
		return b.renderColumn(ctx, x)
	case *types.Entity:
		return b.outer.RenderTable(ctx, x)
	case *types.Arith:
		return b.outer.RenderArith(ctx, x)
	case *types.Func:
		return b.outer.RenderFunc(ctx, x)
	case *types.Concat:
		return b.outer.RenderConcat(ctx, x)
	case *types.Cast:
		return b.outer.RenderCast(ctx, x)
	case *types.DateArith:
		return b.outer.RenderDateArith(ctx, x)
	case *types.As:
		if err := b.outer.RenderNode(ctx, x.Expr); err != nil {
			return err
		}
		ctx.Write(" AS " + b.outer.QuoteIdentifier(x.Alias))
		return nil
	case *types.Case:
		return b.renderCase(ctx, x)
	case *types.Subquery:
		return b.renderSubquery(ctx, x.Query)
	case *types.Compare:
		return b.renderBinary(ctx, x.Left, x.Op.String(), x.Right)
	case *types.In:
		return b.renderIn(ctx, x)
	case *types.Like:
		return b.renderLike(ctx, x)
	case *types.Between:
		return b.renderBetween(ctx, x)
	case *types.IsNull:
		if err := b.outer.RenderNode(ctx, x.Expr); err != nil {
			return err
		}
		if x.Negate {
			ctx.Write(" IS NOT NULL")
		} else {
			ctx.Write(" IS NULL")
		}
		return nil
	case *types.Quantified:
		return b.outer.RenderQuantified(ctx, x)
	case *types.Exists:
		if x.Negate {
			ctx.Write("NOT ")
		}
		ctx.Write("EXISTS ")
		return b.renderSubquery(ctx, x.Query)
	case *types.Term:
		return b.renderTerm(ctx, x)
	case nil:
		return fmt.Errorf("nil node")
	}
	return fmt.Errorf("unsupported node type: %T", n)
}

// renderColumn writes a column reference, a bound value for free-standing
// cells, or the wrapped expression.
func (b *Base) renderColumn(ctx *Context, c *types.Column) error {
	if w := c.Wrapped(); w != nil {
		return b.outer.RenderNode(ctx, w)
	}
	owner := c.Owner()
	if owner == nil {
		return ctx.AddParameter(c, false)
	}
	switch {
	case owner == ctx.target:
		if ctx.qualify {
			ctx.Write(b.outer.QuoteIdentifier(owner.Name) + ".")
		}
	case ctx.qualify:
		ctx.Write(ctx.RegisterAlias(owner) + ".")
	}
	ctx.Write(b.outer.QuoteIdentifier(c.Name()))
	return nil
}

// RenderTable writes a FROM item: the quoted table or a parenthesized
// derived query, followed by its alias.
func (b *Base) RenderTable(ctx *Context, e *types.Entity) error {
	alias := ctx.RegisterAlias(e)
	if q := e.Query(); q != nil {
		ctx.Write("(")
		err := ctx.Subquery(func() error {
			ctx.nameItems = true
			return b.outer.RenderSelect(ctx, q)
		})
		if err != nil {
			return err
		}
		ctx.Write(") " + alias)
		return nil
	}
	ctx.Write(b.outer.QuoteIdentifier(e.Name) + " " + alias)
	return nil
}

func (b *Base) renderSubquery(ctx *Context, q *types.Select) error {
	ctx.Write("(")
	err := ctx.Subquery(func() error {
		return b.outer.RenderSelect(ctx, q)
	})
	if err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

func (b *Base) renderList(ctx *Context, es []types.Expr) error {
	for i, e := range es {
		if i > 0 {
			ctx.Write(", ")
		}
		if err := b.outer.RenderNode(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) renderBinary(ctx *Context, left types.Node, op string, right types.Node) error {
	if err := b.outer.RenderNode(ctx, left); err != nil {
		return err
	}
	ctx.Write(" " + op + " ")
	return b.outer.RenderNode(ctx, right)
}

func (b *Base) renderIn(ctx *Context, n *types.In) error {
	if n.Query == nil && len(n.Values) == 0 {
		if n.Negate {
			ctx.Write("1 = 1")
		} else {
			ctx.Write("1 = 0")
		}
		return nil
	}
	if err := b.outer.RenderNode(ctx, n.Expr); err != nil {
		return err
	}
	if n.Negate {
		ctx.Write(" NOT")
	}
	ctx.Write(" IN ")
	if n.Query != nil {
		return b.renderSubquery(ctx, n.Query)
	}
	ctx.Write("(")
	if err := b.renderList(ctx, n.Values); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

func (b *Base) renderLike(ctx *Context, l *types.Like) error {
	if err := b.outer.RenderNode(ctx, l.Expr); err != nil {
		return err
	}
	if l.Negate {
		ctx.Write(" NOT")
	}
	ctx.Write(" LIKE ")
	if err := b.outer.RenderNode(ctx, l.Pattern); err != nil {
		return err
	}
	if l.Escape != 0 {
		ctx.Write(" ESCAPE " + b.outer.QuoteString(string(l.Escape)))
	}
	return nil
}

// renderBetween writes (<expr>) [NOT] BETWEEN <low> AND <high> for every
// comparator kind.
func (b *Base) renderBetween(ctx *Context, x *types.Between) error {
	ctx.Write("(")
	if err := b.outer.RenderNode(ctx, x.Expr); err != nil {
		return err
	}
	ctx.Write(")")
	if x.Negate {
		ctx.Write(" NOT")
	}
	ctx.Write(" BETWEEN ")
	if err := b.outer.RenderNode(ctx, x.Low); err != nil {
		return err
	}
	ctx.Write(" AND ")
	return b.outer.RenderNode(ctx, x.High)
}

// renderTerm joins items with the term's operator. A nested term keeps
// its parentheses unless it uses the same operator.
func (b *Base) renderTerm(ctx *Context, t *types.Term) error {
	if len(t.Items) == 0 {
		return fmt.Errorf("empty %s term", t.Op)
	}
	for i, item := range t.Items {
		if i > 0 {
			ctx.Write(" " + t.Op.String() + " ")
		}
		child, ok := item.(*types.Term)
		if ok && child.Op != t.Op {
			ctx.Write("(")
			if err := b.outer.RenderNode(ctx, item); err != nil {
				return err
			}
			ctx.Write(")")
			continue
		}
		if err := b.outer.RenderNode(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// renderCase writes every WHEN/THEN arm in declared order, then ELSE and a
// single END.
func (b *Base) renderCase(ctx *Context, c *types.Case) error {
	if len(c.Whens) == 0 {
		return fmt.Errorf("CASE without WHEN arms")
	}
	ctx.Write("CASE")
	if c.Subject != nil {
		ctx.Write(" ")
		if err := b.outer.RenderNode(ctx, c.Subject); err != nil {
			return err
		}
	}
	for _, w := range c.Whens {
		ctx.Write(" WHEN ")
		var err error
		if c.Subject != nil {
			err = b.outer.RenderNode(ctx, w.Match)
		} else {
			err = b.outer.RenderNode(ctx, w.Cond)
		}
		if err != nil {
			return err
		}
		ctx.Write(" THEN ")
		if err := b.outer.RenderNode(ctx, w.Then); err != nil {
			return err
		}
	}
	if c.Else != nil {
		ctx.Write(" ELSE ")
		if err := b.outer.RenderNode(ctx, c.Else); err != nil {
			return err
		}
	}
	ctx.Write(" END")
	return nil
}

// RenderQuantified writes <left> <op> ANY|ALL (<subquery>).
func (b *Base) RenderQuantified(ctx *Context, q *types.Quantified) error {
	if err := b.outer.RenderNode(ctx, q.Left); err != nil {
		return err
	}
	ctx.Write(" " + q.Op.String() + " " + q.Quantifier.String() + " ")
	return b.renderSubquery(ctx, q.Query)
}
