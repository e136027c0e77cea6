// Package postgres provides the PostgreSQL dialect renderer for typql.
package postgres

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// Renderer implements the PostgreSQL dialect renderer.
type Renderer struct {
	*render.Base
}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	r := &Renderer{}
	r.Base = render.NewBase(r, render.Postgres)
	return r
}

// Capabilities reports PostgreSQL feature support.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		NativeLimit:        true,
		MultiUnitInterval:  true,
		QuantifiedSubquery: true,
		NumberedParams:     true,
		MultiStatement:     true,
	}
}

// Placeholder returns the positional bind $n.
func (r *Renderer) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// RenderFunc maps LOG10 and LOG2 onto the two-argument LOG, and runs MOD
// on approximate operands through NUMERIC.
func (r *Renderer) RenderFunc(ctx *render.Context, f *types.Func) error {
	switch f.Name {
	case types.FuncLog10:
		return r.Call(ctx, "LOG", f)
	case types.FuncLog2:
		ctx.Write("LOG(2.0, CAST((")
		if err := r.RenderNode(ctx, f.Arg(0)); err != nil {
			return err
		}
		ctx.Write(") AS NUMERIC))")
		return nil
	case types.FuncMod:
		a, b := f.Arg(0), f.Arg(1)
		if a.Type().IsIntegral() && b.Type().IsIntegral() {
			break
		}
		ctx.Write("MOD(")
		if err := r.RenderNode(ctx, types.NewCast(a, types.Decimal(0, 0))); err != nil {
			return err
		}
		ctx.Write(", ")
		if err := r.RenderNode(ctx, types.NewCast(b, types.Decimal(0, 0))); err != nil {
			return err
		}
		ctx.Write(")")
		return nil
	}
	return r.Base.RenderFunc(ctx, f)
}

func (r *Renderer) CastType(t types.Type) (string, error) {
	switch t.Kind {
	case types.KindDecimal:
		return render.DecimalType("NUMERIC", t), nil
	case types.KindInteger, types.KindMediumInt:
		if t.Unsigned {
			return "BIGINT", nil
		}
	case types.KindBigInt:
		if t.Unsigned {
			return "NUMERIC(20)", nil
		}
	case types.KindText:
		return "TEXT", nil
	case types.KindBinary, types.KindVarBinary, types.KindBlob:
		return "BYTEA", nil
	}
	return r.Base.CastType(t)
}

var units = map[types.Unit]string{
	types.Micros:    "microseconds",
	types.Millis:    "milliseconds",
	types.Seconds:   "seconds",
	types.Minutes:   "minutes",
	types.Hours:     "hours",
	types.Days:      "days",
	types.Weeks:     "weeks",
	types.Months:    "months",
	types.Years:     "years",
	types.Decades:   "decades",
	types.Centuries: "centuries",
	types.Millennia: "millennia",
}

func native(u types.Unit) bool {
	_, ok := units[u]
	return ok
}

// RenderDateArith adds a single interval literal. DATE plus an interval
// yields a timestamp, so DATE operands are cast back.
func (r *Renderer) RenderDateArith(ctx *render.Context, d *types.DateArith) error {
	parts, err := r.IntervalParts(d, native)
	if err != nil {
		return err
	}
	date := d.Base.Type().Kind == types.KindDate
	if date {
		ctx.Write("CAST(")
	}
	ctx.Write("(")
	if err := r.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	if len(parts) > 0 {
		spelled := make([]string, len(parts))
		for i, p := range parts {
			spelled[i] = strconv.FormatInt(p.Amount, 10) + " " + units[p.Unit]
		}
		ctx.Write(" + INTERVAL " + r.QuoteString(strings.Join(spelled, " ")))
	}
	ctx.Write(")")
	if date {
		ctx.Write(" AS DATE)")
	}
	return nil
}

// Literal writes binary values with decode.
func (r *Renderer) Literal(t types.Type, v any) (string, error) {
	t, cv, err := render.Canonical(t, v)
	if err != nil {
		return "", err
	}
	if b, ok := cv.([]byte); ok {
		return "decode('" + hex.EncodeToString(b) + "', 'hex')", nil
	}
	return r.Base.Literal(t, cv)
}
