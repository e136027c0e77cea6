// Package sqlite provides the SQLite dialect renderer for typql.
package sqlite

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// Layouts of temporal values. SQLite keeps them as text.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05.000"
	strftimeFormat = "%Y-%m-%d %H:%M:%f"
)

// Renderer implements the SQLite dialect renderer.
type Renderer struct {
	*render.Base
}

// New creates a new SQLite renderer.
func New() *Renderer {
	r := &Renderer{}
	r.Base = render.NewBase(r, render.SQLite)
	return r
}

// Capabilities reports SQLite feature support. ANY and ALL are only
// available in the IN forms.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		NativeLimit:       true,
		MultiUnitInterval: true,
		FunctionRegistry:  true,
		MultiStatement:    true,
	}
}

// Paginate appends LIMIT and OFFSET. LIMIT -1 stands in for a missing
// limit.
func (r *Renderer) Paginate(ctx *render.Context, s *types.Select, body func() error) error {
	if err := body(); err != nil {
		return err
	}
	switch {
	case s.Limit > 0:
		ctx.Writef(" LIMIT %d", s.Limit)
	case s.Offset > 0:
		ctx.Write(" LIMIT -1")
	}
	if s.Offset > 0 {
		ctx.Writef(" OFFSET %d", s.Offset)
	}
	return nil
}

// RenderQuantified rewrites = ANY as IN and <> ALL as NOT IN.
func (r *Renderer) RenderQuantified(ctx *render.Context, q *types.Quantified) error {
	in := types.NewInQuery(q.Left, q.Query)
	switch {
	case q.Op == types.EQ && q.Quantifier == types.Any:
	case q.Op == types.NE && q.Quantifier == types.All:
		in.Negate = true
	default:
		return render.NewUnsupportedFeatureError("sqlite",
			q.Op.String()+" "+q.Quantifier.String()+" subquery",
			"only = ANY and <> ALL are supported")
	}
	return r.RenderNode(ctx, in)
}

// RenderFunc writes MOD as % for integers and FMOD otherwise.
func (r *Renderer) RenderFunc(ctx *render.Context, f *types.Func) error {
	if f.Name != types.FuncMod {
		return r.Base.RenderFunc(ctx, f)
	}
	if !f.Arg(0).Type().IsIntegral() || !f.Arg(1).Type().IsIntegral() {
		return r.Call(ctx, "FMOD", f)
	}
	ctx.Write("(")
	if err := r.RenderNode(ctx, f.Arg(0)); err != nil {
		return err
	}
	ctx.Write(" % ")
	if err := r.RenderNode(ctx, f.Arg(1)); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// CastType maps t onto the SQLite storage class.
func (r *Renderer) CastType(t types.Type) (string, error) {
	switch {
	case t.Kind == types.KindBoolean || t.IsIntegral():
		return "INTEGER", nil
	case t.IsApproximate():
		return "REAL", nil
	case t.Kind == types.KindDecimal:
		return "NUMERIC", nil
	case t.IsString(), t.IsTemporal():
		return "TEXT", nil
	case t.IsBinary():
		return "BLOB", nil
	}
	return r.Base.CastType(t)
}

// RenderCast converts to temporal types with the date functions, which
// normalize the text form.
func (r *Renderer) RenderCast(ctx *render.Context, c *types.Cast) error {
	var pre string
	switch c.Target.Kind {
	case types.KindDate:
		pre = "DATE("
	case types.KindTime:
		pre = "TIME("
	case types.KindDateTime, types.KindTimestamp:
		pre = "STRFTIME('" + strftimeFormat + "', "
	default:
		return r.Base.RenderCast(ctx, c)
	}
	ctx.Write(pre)
	if err := r.RenderNode(ctx, c.Expr); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

var units = map[types.Unit]string{
	types.Years:   "years",
	types.Months:  "months",
	types.Days:    "days",
	types.Hours:   "hours",
	types.Minutes: "minutes",
	types.Seconds: "seconds",
	types.Micros:  "seconds",
}

func native(u types.Unit) bool {
	_, ok := units[u]
	return ok
}

// RenderDateArith applies one modifier per unit through the date function
// matching the base type.
func (r *Renderer) RenderDateArith(ctx *render.Context, d *types.DateArith) error {
	parts, err := r.IntervalParts(d, native)
	if err != nil {
		return err
	}
	switch d.Base.Type().Kind {
	case types.KindDate:
		ctx.Write("DATE(")
	case types.KindTime:
		ctx.Write("TIME(")
	default:
		ctx.Write("STRFTIME('" + strftimeFormat + "', ")
	}
	if err := r.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	for _, p := range parts {
		sign, amount := "+", p.Amount
		if amount < 0 {
			sign, amount = "-", -amount
		}
		text := strconv.FormatInt(amount, 10)
		if p.Unit == types.Micros {
			text = render.MicrosText(amount)
		}
		ctx.Write(", '" + sign + text + " " + units[p.Unit] + "'")
	}
	ctx.Write(")")
	return nil
}

// Literal writes booleans as 1 and 0 and temporal values as text.
func (r *Renderer) Literal(t types.Type, v any) (string, error) {
	t, cv, err := render.Canonical(t, v)
	if err != nil {
		return "", err
	}
	switch x := cv.(type) {
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case time.Time, time.Duration:
		s, _ := temporalText(t, x)
		return r.QuoteString(s), nil
	}
	return r.Base.Literal(t, cv)
}

func (r *Renderer) Bind(t types.Type, v any) (any, error) {
	t, cv, err := render.Canonical(t, v)
	if err != nil {
		return nil, err
	}
	if b, ok := cv.(bool); ok {
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	}
	if s, ok := temporalText(t, cv); ok {
		return s, nil
	}
	return r.Base.Bind(t, cv)
}

// temporalText formats dates, timestamps and clock values the way the
// SQLite date functions produce them.
func temporalText(t types.Type, v any) (string, bool) {
	switch x := v.(type) {
	case time.Time:
		if t.Kind == types.KindDate {
			return x.Format(dateLayout), true
		}
		return x.Format(dateTimeLayout), true
	case time.Duration:
		return types.FormatClock(x, 3), true
	}
	return "", false
}

// Read accepts the REAL and INTEGER forms SQLite returns for values stored
// without a declared affinity.
func (r *Renderer) Read(t types.Type, raw any) (any, error) {
	if s, ok := raw.(string); ok && t.IsNumeric() {
		raw = strings.TrimSpace(s)
	}
	return r.Base.Read(t, raw)
}

// RegisterFunctions installs the math functions SQLite builds lack. The
// driver keeps them in a process-wide registry consulted when connections
// open, so conn is not used.
func (r *Renderer) RegisterFunctions(ctx context.Context, _ render.Execer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return registerFunctions()
}
