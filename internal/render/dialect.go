package render

import (
	"context"
	"database/sql"

	"github.com/zoobzio/typql/internal/types"
)

// Execer runs a statement on a connection. It is the capability function
// registration needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Dialect compiles nodes into one vendor's SQL and converts values
// between Go and that vendor's driver.
//
// Dialects embed *Base and override the methods where their vendor
// differs. Base routes every recursive call through the outermost
// dialect, so an override applies at any depth of the tree.
type Dialect interface {
	Vendor() Vendor
	Capabilities() Capabilities

	QuoteIdentifier(name string) string
	QuoteString(s string) string
	Placeholder(n int) string

	RenderStatement(ctx *Context, stmt types.Statement) error
	RenderSelect(ctx *Context, s *types.Select) error
	RenderInsert(ctx *Context, s *types.Insert) error
	RenderUpdate(ctx *Context, s *types.Update) error
	RenderDelete(ctx *Context, s *types.Delete) error
	RenderNode(ctx *Context, n types.Node) error
	RenderTable(ctx *Context, e *types.Entity) error
	RenderDefaultValues(ctx *Context)
	// RenderNoFrom completes a SELECT without FROM entities.
	RenderNoFrom(ctx *Context)

	// Paginate wraps body, which writes the bare query, with the vendor's
	// row-limiting syntax.
	Paginate(ctx *Context, s *types.Select, body func() error) error
	// GroupBy returns the grouping list the query compiles with.
	GroupBy(s *types.Select) []types.Expr

	RenderArith(ctx *Context, a *types.Arith) error
	RenderCast(ctx *Context, c *types.Cast) error
	RenderDateArith(ctx *Context, d *types.DateArith) error
	RenderConcat(ctx *Context, c *types.Concat) error
	RenderFunc(ctx *Context, f *types.Func) error
	RenderQuantified(ctx *Context, q *types.Quantified) error

	// CastType returns the type name used as a CAST target.
	CastType(t types.Type) (string, error)
	// Literal renders v of type t as inline SQL.
	Literal(t types.Type, v any) (string, error)
	// Bind converts v of type t into the driver argument.
	Bind(t types.Type, v any) (any, error)
	// Read converts a scanned driver value into the Go representation of t.
	Read(t types.Type, raw any) (any, error)
	// RegisterFunctions installs emulated functions on a connection.
	RegisterFunctions(ctx context.Context, conn Execer) error
}

// Compile renders stmt with d into a fresh context and closes the pending
// statement into a batch.
func Compile(d Dialect, stmt types.Statement, literal bool) (*Context, error) {
	ctx := NewContext(d, literal)
	if err := d.RenderStatement(ctx, stmt); err != nil {
		return nil, err
	}
	ctx.AddBatch()
	return ctx, nil
}
