// Package oracle provides the Oracle dialect for typql.
package oracle

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// Renderer implements the Oracle dialect. Row limiting wraps the query in
// ROWNUM filters, so result rows of an offset query lead with the row
// number column.
type Renderer struct {
	*render.Base
}

// New creates a new Oracle renderer.
func New() *Renderer {
	r := &Renderer{}
	r.Base = render.NewBase(r, render.Oracle)
	return r
}

// Capabilities reports Oracle feature support.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		MultiUnitInterval:  true,
		QuantifiedSubquery: true,
		NumberedParams:     true,
	}
}

// Placeholder returns the positional bind :n.
func (r *Renderer) Placeholder(n int) string {
	return ":" + strconv.Itoa(n)
}

// Paginate wraps the query in ROWNUM filters. With an offset the row number
// is selected as rnum in an intermediate query and filtered outside it.
func (r *Renderer) Paginate(ctx *render.Context, s *types.Select, body func() error) error {
	if s.Limit == 0 && s.Offset == 0 {
		return body()
	}
	if s.Offset == 0 {
		ctx.Write("SELECT * FROM (")
		if err := body(); err != nil {
			return err
		}
		ctx.Writef(") WHERE ROWNUM <= %d", s.Limit)
		return nil
	}

	outer := "*"
	if ctx.Depth() == 0 {
		ctx.SetSkipFirstColumn(true)
	} else {
		// Nested results must not carry rnum: select the items by name.
		ctx.NameItems()
		outer = r.itemList(s)
	}
	ctx.Write("SELECT " + outer + " FROM (SELECT ROWNUM rnum, page_q.* FROM (")
	if err := body(); err != nil {
		return err
	}
	ctx.Write(") page_q")
	if s.Limit > 0 {
		ctx.Writef(" WHERE ROWNUM <= %d", s.Limit+s.Offset)
	}
	ctx.Writef(") WHERE rnum > %d", s.Offset)
	return nil
}

func (r *Renderer) itemList(s *types.Select) string {
	items := s.Items()
	if len(items) == 0 {
		return "*"
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = r.QuoteIdentifier(types.ItemName(item, i))
	}
	return strings.Join(names, ", ")
}

// RenderNoFrom reads from DUAL, as Oracle requires a FROM clause.
func (r *Renderer) RenderNoFrom(ctx *render.Context) {
	ctx.Write(" FROM DUAL")
}

// RenderDefaultValues writes DEFAULT for every column of the target, as
// Oracle has no DEFAULT VALUES clause.
func (r *Renderer) RenderDefaultValues(ctx *render.Context) {
	render.DefaultRow(ctx)
}

func (r *Renderer) RenderFunc(ctx *render.Context, f *types.Func) error {
	switch f.Name {
	case types.FuncLog2:
		ctx.Write("LOG(2, ")
		if err := r.RenderNode(ctx, f.Arg(0)); err != nil {
			return err
		}
		ctx.Write(")")
		return nil
	case types.FuncLog10:
		ctx.Write("LOG(10, ")
		if err := r.RenderNode(ctx, f.Arg(0)); err != nil {
			return err
		}
		ctx.Write(")")
		return nil
	}
	return r.Base.RenderFunc(ctx, f)
}

func (r *Renderer) CastType(t types.Type) (string, error) {
	switch t.Kind {
	case types.KindBoolean:
		return "NUMBER(1)", nil
	case types.KindTinyInt:
		return "NUMBER(3)", nil
	case types.KindSmallInt:
		return "NUMBER(5)", nil
	case types.KindMediumInt:
		return "NUMBER(7)", nil
	case types.KindInteger:
		return "NUMBER(10)", nil
	case types.KindBigInt:
		if t.Unsigned {
			return "NUMBER(20)", nil
		}
		return "NUMBER(19)", nil
	case types.KindDecimal:
		return render.DecimalType("NUMBER", t), nil
	case types.KindFloat:
		return "BINARY_FLOAT", nil
	case types.KindDouble:
		return "BINARY_DOUBLE", nil
	case types.KindVarChar:
		if t.Length <= 0 {
			return "VARCHAR2(4000)", nil
		}
		return render.Sized("VARCHAR2", t.Length), nil
	case types.KindBinary, types.KindVarBinary:
		if t.Length <= 0 {
			return "RAW(2000)", nil
		}
		return render.Sized("RAW", t.Length), nil
	case types.KindTime:
		return "", render.NewUnsupportedFeatureError("oracle", "CAST to TIME", "Oracle has no TIME type")
	}
	return r.Base.CastType(t)
}

// RenderCast converts text to binary with UTL_RAW and parses text into
// dates with explicit formats.
func (r *Renderer) RenderCast(ctx *render.Context, c *types.Cast) error {
	src := c.Expr.Type()
	var pre, post string
	switch {
	case c.Target.IsBinary() && src.IsString():
		pre, post = "UTL_RAW.CAST_TO_RAW(", ")"
	case c.Target.Kind == types.KindDate && !src.IsTemporal():
		pre, post = "TO_DATE((", "), 'YYYY-MM-DD')"
	case (c.Target.Kind == types.KindDateTime || c.Target.Kind == types.KindTimestamp) && !src.IsTemporal():
		pre, post = "TO_TIMESTAMP((", "), 'YYYY-MM-DD HH24:MI:SS.FF')"
	default:
		return r.Base.RenderCast(ctx, c)
	}
	ctx.Write(pre)
	if err := r.RenderNode(ctx, c.Expr); err != nil {
		return err
	}
	ctx.Write(post)
	return nil
}

func native(u types.Unit) bool {
	switch u {
	case types.Years, types.Months, types.Days, types.Hours, types.Minutes, types.Seconds, types.Micros:
		return true
	}
	return false
}

var units = map[types.Unit]string{
	types.Years:   "YEAR",
	types.Months:  "MONTH",
	types.Days:    "DAY",
	types.Hours:   "HOUR",
	types.Minutes: "MINUTE",
	types.Seconds: "SECOND",
	types.Micros:  "SECOND",
}

// RenderDateArith adds NUMTOYMINTERVAL for calendar units and
// NUMTODSINTERVAL for clock units.
func (r *Renderer) RenderDateArith(ctx *render.Context, d *types.DateArith) error {
	parts, err := r.IntervalParts(d, native)
	if err != nil {
		return err
	}
	ctx.Write("(")
	if err := r.RenderNode(ctx, d.Base); err != nil {
		return err
	}
	for _, p := range parts {
		op, amount := " + ", p.Amount
		if amount < 0 {
			op, amount = " - ", -amount
		}
		fn, text := "NUMTODSINTERVAL", strconv.FormatInt(amount, 10)
		switch p.Unit {
		case types.Years, types.Months:
			fn = "NUMTOYMINTERVAL"
		case types.Micros:
			text = render.MicrosText(amount)
		}
		ctx.Write(op + fn + "(" + text + ", '" + units[p.Unit] + "')")
	}
	ctx.Write(")")
	return nil
}

// Literal writes booleans as 1 and 0, binary values through HEXTORAW and
// TIME values as text.
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
	case []byte:
		return "HEXTORAW('" + strings.ToUpper(hex.EncodeToString(x)) + "')", nil
	case time.Duration:
		return r.QuoteString(types.FormatClock(x, 6)), nil
	}
	return r.Base.Literal(t, cv)
}

func (r *Renderer) Bind(t types.Type, v any) (any, error) {
	_, cv, err := render.Canonical(t, v)
	if err != nil {
		return nil, err
	}
	if b, ok := cv.(bool); ok {
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return r.Base.Bind(t, cv)
}

// Read strips the blank padding Oracle adds to CHAR values.
func (r *Renderer) Read(t types.Type, raw any) (any, error) {
	if t.Kind == types.KindChar {
		switch x := raw.(type) {
		case string:
			raw = strings.TrimRight(x, " ")
		case []byte:
			raw = strings.TrimRight(string(x), " ")
		}
	}
	return r.Base.Read(t, raw)
}
