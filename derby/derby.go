// Package derby provides the Apache Derby dialect for typql.
package derby

import (
	"time"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// Derby caps VARCHAR FOR BIT DATA and VARCHAR at this length.
const maxVarLength = 32672

// Renderer implements the Derby dialect.
type Renderer struct {
	*render.Base
}

// New creates a new Derby renderer.
func New() *Renderer {
	r := &Renderer{}
	r.Base = render.NewBase(r, render.Derby)
	return r
}

// Capabilities reports Derby feature support. TIMESTAMPADD takes a single
// unit.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		NativeLimit:        true,
		QuantifiedSubquery: true,
	}
}

// Paginate appends OFFSET m ROWS and FETCH NEXT n ROWS ONLY.
func (r *Renderer) Paginate(ctx *render.Context, s *types.Select, body func() error) error {
	if err := body(); err != nil {
		return err
	}
	if s.Offset > 0 {
		ctx.Writef(" OFFSET %d ROWS", s.Offset)
	}
	if s.Limit > 0 {
		ctx.Writef(" FETCH NEXT %d ROWS ONLY", s.Limit)
	}
	return nil
}

// GroupBy groups by every non-aggregate select item when HAVING appears
// without GROUP BY, which Derby rejects.
func (r *Renderer) GroupBy(s *types.Select) []types.Expr {
	if len(s.GroupBy) == 0 && s.Having != nil {
		return render.NonAggregates(s.Items())
	}
	return s.GroupBy
}

// RenderNoFrom reads from the one-row catalog table, as Derby requires a
// FROM clause.
func (r *Renderer) RenderNoFrom(ctx *render.Context) {
	ctx.Write(" FROM SYSIBM.SYSDUMMY1")
}

func (r *Renderer) RenderDefaultValues(ctx *render.Context) {
	render.DefaultRow(ctx)
}

// RenderFunc emulates LOG2, POWER and MOD on approximate operands with LN,
// EXP and FLOOR.
func (r *Renderer) RenderFunc(ctx *render.Context, f *types.Func) error {
	switch f.Name {
	case types.FuncLog2:
		return r.template(ctx, "(LN(", f.Arg(0), ") / LN(2))")
	case types.FuncPower:
		return r.template(ctx, "EXP((", f.Arg(1), ") * LN(", f.Arg(0), "))")
	case types.FuncMod:
		a, b := f.Arg(0), f.Arg(1)
		if a.Type().IsIntegral() && b.Type().IsIntegral() {
			break
		}
		return r.template(ctx,
			"(SIGN(", a, ") * (ABS(", a, ") - FLOOR(ABS(", a, ") / ABS(", b, ")) * ABS(", b, ")))")
	}
	return r.Base.RenderFunc(ctx, f)
}

// template writes strings as text and compiles expressions in place.
func (r *Renderer) template(ctx *render.Context, parts ...any) error {
	for _, p := range parts {
		switch x := p.(type) {
		case string:
			ctx.Write(x)
		case types.Expr:
			if err := r.RenderNode(ctx, x); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) CastType(t types.Type) (string, error) {
	switch t.Kind {
	case types.KindDouble:
		return "DOUBLE", nil
	case types.KindVarChar:
		if t.Length <= 0 {
			return render.Sized("VARCHAR", maxVarLength), nil
		}
	case types.KindBinary:
		if t.Length <= 0 {
			return "CHAR(1) FOR BIT DATA", nil
		}
		return render.Sized("CHAR", t.Length) + " FOR BIT DATA", nil
	case types.KindVarBinary:
		n := t.Length
		if n <= 0 {
			n = maxVarLength
		}
		return render.Sized("VARCHAR", n) + " FOR BIT DATA", nil
	case types.KindBlob:
		return "", render.NewUnsupportedFeatureError("derby", "CAST to BLOB",
			"cast to VARBINARY instead")
	}
	return r.Base.CastType(t)
}

// RenderCast converts to temporal types with the DATE, TIME and TIMESTAMP
// functions, which accept both text and temporal operands.
func (r *Renderer) RenderCast(ctx *render.Context, c *types.Cast) error {
	var fn string
	switch c.Target.Kind {
	case types.KindDate:
		fn = "DATE("
	case types.KindTime:
		fn = "TIME("
	case types.KindDateTime, types.KindTimestamp:
		fn = "TIMESTAMP("
	default:
		return r.Base.RenderCast(ctx, c)
	}
	return r.template(ctx, fn, c.Expr, ")")
}

var units = map[types.Unit]string{
	types.Micros:   "SQL_TSI_FRAC_SECOND",
	types.Seconds:  "SQL_TSI_SECOND",
	types.Minutes:  "SQL_TSI_MINUTE",
	types.Hours:    "SQL_TSI_HOUR",
	types.Days:     "SQL_TSI_DAY",
	types.Weeks:    "SQL_TSI_WEEK",
	types.Months:   "SQL_TSI_MONTH",
	types.Quarters: "SQL_TSI_QUARTER",
	types.Years:    "SQL_TSI_YEAR",
}

func native(u types.Unit) bool {
	_, ok := units[u]
	return ok
}

// RenderDateArith writes a TIMESTAMPADD escape. Fractional seconds count
// nanoseconds. A DATE operand is converted back to DATE.
func (r *Renderer) RenderDateArith(ctx *render.Context, d *types.DateArith) error {
	parts, err := r.IntervalParts(d, native)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return r.RenderNode(ctx, d.Base)
	}
	p := parts[0]
	amount := p.Amount
	if p.Unit == types.Micros {
		amount *= 1000
	}
	date := d.Base.Type().Kind == types.KindDate
	if date {
		ctx.Write("DATE(")
	}
	ctx.Writef("{fn TIMESTAMPADD(%s, %d, ", units[p.Unit], amount)
	if err := r.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	ctx.Write(")}")
	if date {
		ctx.Write(")")
	}
	return nil
}

// Literal writes temporal values through the DATE, TIME and TIMESTAMP
// functions.
func (r *Renderer) Literal(t types.Type, v any) (string, error) {
	t, cv, err := render.Canonical(t, v)
	if err != nil {
		return "", err
	}
	switch x := cv.(type) {
	case time.Time:
		if t.Kind == types.KindDate {
			return "DATE(" + r.QuoteString(x.Format(types.DateLayout)) + ")", nil
		}
		return "TIMESTAMP(" + r.QuoteString(x.Format(render.TimestampLayout)) + ")", nil
	case time.Duration:
		return "TIME(" + r.QuoteString(types.FormatClock(x, 0)) + ")", nil
	}
	return r.Base.Literal(t, cv)
}

// Bind sends TIME values as whole-second text; Derby has no fractional
// TIME.
func (r *Renderer) Bind(t types.Type, v any) (any, error) {
	_, cv, err := render.Canonical(t, v)
	if err != nil {
		return nil, err
	}
	if d, ok := cv.(time.Duration); ok {
		return types.FormatClock(d, 0), nil
	}
	return r.Base.Bind(t, cv)
}
