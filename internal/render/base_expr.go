package render

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/typql/internal/types"
)

// RenderArith writes a parenthesized binary expression. Modulo goes
// through RenderFunc so dialects emulate it in one place.
func (b *Base) RenderArith(ctx *Context, a *types.Arith) error {
	if a.Op == types.OpMod {
		return b.outer.RenderFunc(ctx, types.NewFunc(types.FuncMod, a.Left, a.Right))
	}
	ctx.Write("(")
	if err := b.renderBinary(ctx, a.Left, a.Op.String(), a.Right); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// RenderCast writes CAST((expr) AS type).
func (b *Base) RenderCast(ctx *Context, c *types.Cast) error {
	name, err := b.outer.CastType(c.Target)
	if err != nil {
		return err
	}
	ctx.Write("CAST((")
	if err := b.outer.RenderNode(ctx, c.Expr); err != nil {
		return err
	}
	ctx.Write(") AS " + name + ")")
	return nil
}

// CastType names t in ANSI SQL. UNSIGNED has no ANSI spelling and is
// dropped.
func (b *Base) CastType(t types.Type) (string, error) {
	switch t.Kind {
	case types.KindBoolean:
		return "BOOLEAN", nil
	case types.KindTinyInt, types.KindSmallInt:
		return "SMALLINT", nil
	case types.KindMediumInt, types.KindInteger:
		return "INTEGER", nil
	case types.KindBigInt:
		return "BIGINT", nil
	case types.KindDecimal:
		return DecimalType("DECIMAL", t), nil
	case types.KindFloat:
		return "REAL", nil
	case types.KindDouble:
		return "DOUBLE PRECISION", nil
	case types.KindChar:
		return Sized("CHAR", t.Length), nil
	case types.KindVarChar:
		return Sized("VARCHAR", t.Length), nil
	case types.KindText:
		return "CLOB", nil
	case types.KindBinary:
		return Sized("BINARY", t.Length), nil
	case types.KindVarBinary:
		return Sized("VARBINARY", t.Length), nil
	case types.KindBlob:
		return "BLOB", nil
	case types.KindDate:
		return "DATE", nil
	case types.KindTime:
		return "TIME", nil
	case types.KindDateTime, types.KindTimestamp:
		return "TIMESTAMP", nil
	}
	return "", NewUnsupportedFeatureError(b.vendor.String(), "CAST to "+t.String())
}

// DecimalType spells a DECIMAL-like type with optional precision and scale.
func DecimalType(name string, t types.Type) string {
	switch {
	case t.Precision > 0 && t.Scale > 0:
		return fmt.Sprintf("%s(%d,%d)", name, t.Precision, t.Scale)
	case t.Precision > 0:
		return fmt.Sprintf("%s(%d)", name, t.Precision)
	}
	return name
}

// Sized spells a type with an optional length.
func Sized(name string, n int) string {
	if n <= 0 {
		return name
	}
	return name + "(" + strconv.Itoa(n) + ")"
}

// RenderFunc writes a function call. Clock functions take no parentheses
// and COUNT without arguments counts rows.
func (b *Base) RenderFunc(ctx *Context, f *types.Func) error {
	switch f.Name {
	case types.FuncNow, types.FuncToday:
		ctx.Write(string(f.Name))
		return nil
	}
	return b.Call(ctx, string(f.Name), f)
}

// Call writes name(args) with the arguments of f.
func (b *Base) Call(ctx *Context, name string, f *types.Func) error {
	ctx.Write(name + "(")
	if f.Distinct {
		ctx.Write("DISTINCT ")
	}
	if f.Name == types.FuncCount && len(f.Args) == 0 {
		ctx.Write("*")
	} else if err := b.renderList(ctx, f.Args); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// RenderConcat joins the operands with ||.
func (b *Base) RenderConcat(ctx *Context, c *types.Concat) error {
	ctx.Write("(")
	for i, a := range c.Args {
		if i > 0 {
			ctx.Write(" || ")
		}
		if err := b.outer.RenderNode(ctx, a); err != nil {
			return err
		}
	}
	ctx.Write(")")
	return nil
}

// ansiUnits are the units of ANSI interval literals. Micros are written as
// fractional seconds.
func ansiUnits(u types.Unit) bool {
	switch u {
	case types.Years, types.Months, types.Days, types.Hours, types.Minutes, types.Seconds, types.Micros:
		return true
	}
	return false
}

var ansiUnitNames = map[types.Unit]string{
	types.Years:   "YEAR",
	types.Months:  "MONTH",
	types.Days:    "DAY",
	types.Hours:   "HOUR",
	types.Minutes: "MINUTE",
	types.Seconds: "SECOND",
	types.Micros:  "SECOND",
}

// RenderDateArith writes (base + INTERVAL 'n' UNIT ...), one literal per
// unit.
func (b *Base) RenderDateArith(ctx *Context, d *types.DateArith) error {
	parts, err := b.IntervalParts(d, ansiUnits)
	if err != nil {
		return err
	}
	ctx.Write("(")
	if err := b.outer.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	for _, p := range parts {
		op, amount := " + ", p.Amount
		if amount < 0 {
			op, amount = " - ", -amount
		}
		text := strconv.FormatInt(amount, 10)
		if p.Unit == types.Micros {
			text = MicrosText(amount)
		}
		ctx.Write(op + "INTERVAL '" + text + "' " + ansiUnitNames[p.Unit])
	}
	ctx.Write(")")
	return nil
}

// IntervalParts normalizes the signed interval of d into the units native
// accepts. Dialects without multi-unit support reject more than one part.
func (b *Base) IntervalParts(d *types.DateArith, native func(types.Unit) bool) ([]types.Part, error) {
	parts, err := d.Signed().Normalize(native)
	if err != nil {
		return nil, NewUnsupportedFeatureError(b.vendor.String(), "interval", err.Error())
	}
	if len(parts) > 1 && !b.outer.Capabilities().MultiUnitInterval {
		return nil, NewUnsupportedFeatureError(b.vendor.String(), "multi-unit interval",
			"split the expression into one interval per unit")
	}
	return parts, nil
}

// MicrosText writes a non-negative microsecond count as seconds with six
// fractional digits.
func MicrosText(n int64) string {
	return fmt.Sprintf("%d.%06d", n/1000000, n%1000000)
}
