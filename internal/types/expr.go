package types

import (
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Arith is a binary arithmetic expression.
type Arith struct {
	ident
	Op          ArithOp
	Left, Right Expr
}

func NewArith(op ArithOp, left, right Expr) *Arith {
	return &Arith{ident: newIdent(), Op: op, Left: left, Right: right}
}

// Type promotes the operand types: approximate wins over DECIMAL, DECIMAL
// over integers, and integers widen to BIGINT.
func (a *Arith) Type() Type {
	l, r := a.Left.Type(), a.Right.Type()
	switch {
	case l.Kind == KindTime && r.Kind == KindTime:
		return l
	case l.IsApproximate() || r.IsApproximate():
		return Double()
	case l.Kind == KindDecimal || r.Kind == KindDecimal:
		return Type{Kind: KindDecimal}
	case a.Op == OpDiv:
		return Double()
	case l.IsIntegral() && r.IsIntegral():
		return Type{Kind: KindBigInt, Unsigned: l.Unsigned && r.Unsigned && a.Op != OpSub}
	}
	return exprsType(a.Left, a.Right)
}

func (a *Arith) Evaluate(v Visited) any {
	return v.guard(a.h, func() any {
		l := a.Left.Evaluate(v)
		if l == nil {
			return nil
		}
		r := a.Right.Evaluate(v)
		if r == nil {
			return nil
		}
		return arith(a.Op, l, r)
	})
}

// FuncName names a portable function. Dialects emulate the ones their
// vendor lacks.
type FuncName string

const (
	FuncAbs      FuncName = "ABS"
	FuncCeil     FuncName = "CEIL"
	FuncFloor    FuncName = "FLOOR"
	FuncRound    FuncName = "ROUND"
	FuncSqrt     FuncName = "SQRT"
	FuncExp      FuncName = "EXP"
	FuncLn       FuncName = "LN"
	FuncLog2     FuncName = "LOG2"
	FuncLog10    FuncName = "LOG10"
	FuncPower    FuncName = "POWER"
	FuncMod      FuncName = "MOD"
	FuncUpper    FuncName = "UPPER"
	FuncLower    FuncName = "LOWER"
	FuncTrim     FuncName = "TRIM"
	FuncLength   FuncName = "LENGTH"
	FuncCoalesce FuncName = "COALESCE"
	FuncNow      FuncName = "CURRENT_TIMESTAMP"
	FuncToday    FuncName = "CURRENT_DATE"
	FuncCount    FuncName = "COUNT"
	FuncSum      FuncName = "SUM"
	FuncAvg      FuncName = "AVG"
	FuncMin      FuncName = "MIN"
	FuncMax      FuncName = "MAX"
)

// IsAggregate reports whether the function folds a group of rows.
func (n FuncName) IsAggregate() bool {
	switch n {
	case FuncCount, FuncSum, FuncAvg, FuncMin, FuncMax:
		return true
	}
	return false
}

// Func is a function call. COUNT without arguments counts rows.
type Func struct {
	ident
	Name     FuncName
	Args     []Expr
	Distinct bool
}

func NewFunc(name FuncName, args ...Expr) *Func {
	return &Func{ident: newIdent(), Name: name, Args: args}
}

func (f *Func) IsAggregate() bool {
	return f.Name.IsAggregate()
}

// Arg returns the i-th argument or nil.
func (f *Func) Arg(i int) Expr {
	if i < len(f.Args) {
		return f.Args[i]
	}
	return nil
}

func (f *Func) Type() Type {
	switch f.Name {
	case FuncSqrt, FuncExp, FuncLn, FuncLog2, FuncLog10, FuncPower, FuncAvg:
		return Double()
	case FuncLength, FuncCount:
		return BigInt()
	case FuncNow:
		return Timestamp()
	case FuncToday:
		return Date()
	}
	return exprsType(f.Args...)
}

// Evaluate computes scalar functions client-side. Aggregates and clock
// functions are unknown.
func (f *Func) Evaluate(v Visited) any {
	if f.IsAggregate() || f.Name == FuncNow || f.Name == FuncToday {
		return nil
	}
	return v.guard(f.h, func() any {
		args := make([]any, len(f.Args))
		for i, a := range f.Args {
			args[i] = a.Evaluate(v)
			if args[i] == nil && f.Name != FuncCoalesce {
				return nil
			}
		}
		return callFunc(f.Name, args)
	})
}

func callFunc(name FuncName, args []any) any {
	switch name {
	case FuncCoalesce:
		for _, a := range args {
			if a != nil {
				return a
			}
		}
		return nil
	case FuncUpper, FuncLower, FuncTrim, FuncLength:
		if len(args) != 1 {
			return nil
		}
		s, ok := args[0].(string)
		if !ok {
			return nil
		}
		switch name {
		case FuncUpper:
			return strings.ToUpper(s)
		case FuncLower:
			return strings.ToLower(s)
		case FuncTrim:
			return strings.TrimSpace(s)
		}
		return int64(len([]rune(s)))
	case FuncMod:
		if len(args) != 2 {
			return nil
		}
		return arith(OpMod, args[0], args[1])
	case FuncAbs:
		if len(args) != 1 {
			return nil
		}
		if d, ok := args[0].(*apd.Decimal); ok {
			return new(apd.Decimal).Abs(d)
		}
		if i, ok := asInt(args[0]); ok && !isFloat(args[0]) && i != math.MinInt64 {
			if i < 0 {
				return -i
			}
			return i
		}
	}

	if len(args) == 0 {
		return nil
	}
	x, ok := asFloat(args[0])
	if !ok {
		return nil
	}
	var r float64
	switch name {
	case FuncAbs:
		r = math.Abs(x)
	case FuncCeil:
		r = math.Ceil(x)
	case FuncFloor:
		r = math.Floor(x)
	case FuncRound:
		r = math.Round(x)
	case FuncSqrt:
		r = math.Sqrt(x)
	case FuncExp:
		r = math.Exp(x)
	case FuncLn:
		r = math.Log(x)
	case FuncLog2:
		r = math.Log2(x)
	case FuncLog10:
		r = math.Log10(x)
	case FuncPower:
		if len(args) != 2 {
			return nil
		}
		y, ok := asFloat(args[1])
		if !ok {
			return nil
		}
		r = math.Pow(x, y)
	default:
		return nil
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return r
}

// Concat joins string operands. Any unknown operand makes the result
// unknown.
type Concat struct {
	ident
	Args []Expr
}

func NewConcat(args ...Expr) *Concat {
	return &Concat{ident: newIdent(), Args: args}
}

func (c *Concat) Type() Type {
	return Text()
}

func (c *Concat) Evaluate(v Visited) any {
	return v.guard(c.h, func() any {
		var b strings.Builder
		for _, a := range c.Args {
			x := a.Evaluate(v)
			if x == nil {
				return nil
			}
			s, err := coerceString(x)
			if err != nil {
				return nil
			}
			b.WriteString(s)
		}
		return b.String()
	})
}

// Cast converts an expression to a target type.
type Cast struct {
	ident
	Expr   Expr
	Target Type
}

func NewCast(e Expr, target Type) *Cast {
	return &Cast{ident: newIdent(), Expr: e, Target: target}
}

func (c *Cast) Type() Type {
	return c.Target
}

func (c *Cast) Evaluate(v Visited) any {
	return v.guard(c.h, func() any {
		x := c.Expr.Evaluate(v)
		out, err := c.Target.Coerce(x)
		if err != nil {
			return nil
		}
		return out
	})
}

// As names a select item.
type As struct {
	ident
	Expr  Expr
	Alias string
}

func NewAs(e Expr, alias string) *As {
	return &As{ident: newIdent(), Expr: e, Alias: alias}
}

func (a *As) Type() Type {
	return a.Expr.Type()
}

func (a *As) Evaluate(v Visited) any {
	return v.guard(a.h, func() any { return a.Expr.Evaluate(v) })
}

// When is one arm of a CASE expression. Simple cases use Match, searched
// cases use Cond.
type When struct {
	Match Expr
	Cond  Condition
	Then  Expr
}

// Case is a simple CASE when Subject is set, else a searched CASE.
type Case struct {
	ident
	Subject Expr
	Whens   []When
	Else    Expr
}

// NewCase starts a simple CASE over subject.
func NewCase(subject Expr) *Case {
	return &Case{ident: newIdent(), Subject: subject}
}

// NewSearchedCase starts a CASE whose arms test conditions.
func NewSearchedCase() *Case {
	return &Case{ident: newIdent()}
}

// When appends an arm matching value.
func (c *Case) When(match, then Expr) *Case {
	c.Whens = append(c.Whens, When{Match: match, Then: then})
	return c
}

// WhenTrue appends an arm testing cond.
func (c *Case) WhenTrue(cond Condition, then Expr) *Case {
	c.Whens = append(c.Whens, When{Cond: cond, Then: then})
	return c
}

// Otherwise sets the ELSE arm.
func (c *Case) Otherwise(e Expr) *Case {
	c.Else = e
	return c
}

func (c *Case) Type() Type {
	es := make([]Expr, 0, len(c.Whens)+1)
	for _, w := range c.Whens {
		es = append(es, w.Then)
	}
	return exprsType(append(es, c.Else)...)
}

func (c *Case) Evaluate(v Visited) any {
	return v.guard(c.h, func() any {
		var subject any
		if c.Subject != nil {
			subject = c.Subject.Evaluate(v)
		}
		for _, w := range c.Whens {
			if c.Subject != nil {
				if subject == nil {
					continue
				}
				m := w.Match.Evaluate(v)
				if m == nil {
					continue
				}
				if cmp, ok := compareValues(subject, m); ok && cmp == 0 {
					return w.Then.Evaluate(v)
				}
				continue
			}
			if b, ok := truth(w.Cond.Evaluate(v)); ok && b {
				return w.Then.Evaluate(v)
			}
		}
		if c.Else != nil {
			return c.Else.Evaluate(v)
		}
		return nil
	})
}

// Subquery is a scalar subquery. Its value is never known client-side.
type Subquery struct {
	ident
	Query *Select
}

func NewSubquery(q *Select) *Subquery {
	return &Subquery{ident: newIdent(), Query: q}
}

func (s *Subquery) Type() Type {
	items := s.Query.Items()
	if len(items) == 0 {
		return Type{}
	}
	return items[0].Type()
}

func (*Subquery) Evaluate(Visited) any { return nil }

func (*Arith) node()    {}
func (*Func) node()     {}
func (*Concat) node()   {}
func (*Cast) node()     {}
func (*As) node()       {}
func (*Case) node()     {}
func (*Subquery) node() {}
func (*Arith) expr()    {}
func (*Func) expr()     {}
func (*Concat) expr()   {}
func (*Cast) expr()     {}
func (*As) expr()       {}
func (*Case) expr()     {}
func (*Subquery) expr() {}
