// Package mysql provides the MySQL and MariaDB dialect for typql.
package mysql

import (
	"strings"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// maxRows stands in for a missing LIMIT when only OFFSET is given.
const maxRows = "18446744073709551615"

// Renderer implements the MySQL dialect.
type Renderer struct {
	*render.Base
}

// New creates a new MySQL renderer.
func New() *Renderer {
	r := &Renderer{}
	r.Base = render.NewBase(r, render.MySQL)
	return r
}

// Capabilities reports MySQL feature support.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		NativeLimit:        true,
		MultiUnitInterval:  true,
		QuantifiedSubquery: true,
		MultiStatement:     true,
	}
}

// QuoteIdentifier quotes a MySQL identifier with backticks.
func (r *Renderer) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString escapes backslashes as well as quotes, since MySQL treats
// backslash as an escape character by default.
func (r *Renderer) QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Paginate appends LIMIT and OFFSET. MySQL has no OFFSET without LIMIT.
func (r *Renderer) Paginate(ctx *render.Context, s *types.Select, body func() error) error {
	if err := body(); err != nil {
		return err
	}
	switch {
	case s.Limit > 0:
		ctx.Writef(" LIMIT %d", s.Limit)
	case s.Offset > 0:
		ctx.Write(" LIMIT " + maxRows)
	}
	if s.Offset > 0 {
		ctx.Writef(" OFFSET %d", s.Offset)
	}
	return nil
}

func (r *Renderer) RenderDefaultValues(ctx *render.Context) {
	ctx.Write(" () VALUES ()")
}

// RenderConcat uses CONCAT since || means OR unless PIPES_AS_CONCAT is set.
func (r *Renderer) RenderConcat(ctx *render.Context, c *types.Concat) error {
	ctx.Write("CONCAT(")
	for i, a := range c.Args {
		if i > 0 {
			ctx.Write(", ")
		}
		if err := r.RenderNode(ctx, a); err != nil {
			return err
		}
	}
	ctx.Write(")")
	return nil
}

func (r *Renderer) RenderFunc(ctx *render.Context, f *types.Func) error {
	if f.Name == types.FuncLength {
		// LENGTH counts bytes.
		return r.Call(ctx, "CHAR_LENGTH", f)
	}
	return r.Base.RenderFunc(ctx, f)
}

func (r *Renderer) CastType(t types.Type) (string, error) {
	switch {
	case t.Kind == types.KindBoolean:
		return "UNSIGNED INTEGER", nil
	case t.IsIntegral() && t.Unsigned:
		return "UNSIGNED INTEGER", nil
	case t.IsIntegral():
		return "SIGNED INTEGER", nil
	case t.Kind == types.KindFloat:
		return "FLOAT", nil
	case t.Kind == types.KindDouble:
		return "DOUBLE", nil
	case t.IsString():
		if t.Length > 0 && t.Kind != types.KindText {
			return render.Sized("CHAR", t.Length), nil
		}
		return "CHAR", nil
	case t.IsBinary():
		if t.Length > 0 && t.Kind != types.KindBlob {
			return render.Sized("BINARY", t.Length), nil
		}
		return "BINARY", nil
	case t.Kind == types.KindDateTime || t.Kind == types.KindTimestamp:
		return "DATETIME(6)", nil
	}
	return r.Base.CastType(t)
}

// RenderCast parses text with STR_TO_DATE when a non-temporal value becomes
// a DATE or DATETIME.
func (r *Renderer) RenderCast(ctx *render.Context, c *types.Cast) error {
	var format string
	switch c.Target.Kind {
	case types.KindDate:
		format = "%Y-%m-%d"
	case types.KindDateTime, types.KindTimestamp:
		format = "%Y-%m-%d %H:%i:%s.%f"
	}
	if format == "" || c.Expr.Type().IsTemporal() {
		return r.Base.RenderCast(ctx, c)
	}
	ctx.Write("STR_TO_DATE((")
	if err := r.RenderNode(ctx, c.Expr); err != nil {
		return err
	}
	ctx.Write("), " + r.QuoteString(format) + ")")
	return nil
}

var units = map[types.Unit]string{
	types.Micros:   "MICROSECOND",
	types.Seconds:  "SECOND",
	types.Minutes:  "MINUTE",
	types.Hours:    "HOUR",
	types.Days:     "DAY",
	types.Weeks:    "WEEK",
	types.Months:   "MONTH",
	types.Quarters: "QUARTER",
	types.Years:    "YEAR",
}

func native(u types.Unit) bool {
	_, ok := units[u]
	return ok
}

// RenderDateArith nests one DATE_ADD or DATE_SUB per unit, the first unit
// innermost.
func (r *Renderer) RenderDateArith(ctx *render.Context, d *types.DateArith) error {
	parts, err := r.IntervalParts(d, native)
	if err != nil {
		return err
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].Amount < 0 {
			ctx.Write("DATE_SUB(")
		} else {
			ctx.Write("DATE_ADD(")
		}
	}
	if err := r.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	for _, p := range parts {
		amount := p.Amount
		if amount < 0 {
			amount = -amount
		}
		ctx.Writef(", INTERVAL %d %s)", amount, units[p.Unit])
	}
	return nil
}
