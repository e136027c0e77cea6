package types

import (
	"regexp"
	"strings"
	"time"
)

// Compare is a binary comparison.
type Compare struct {
	ident
	Left  Expr
	Op    CompareOp
	Right Expr
}

func NewCompare(left Expr, op CompareOp, right Expr) *Compare {
	return &Compare{ident: newIdent(), Left: left, Op: op, Right: right}
}

func (c *Compare) Evaluate(v Visited) any {
	return v.guard(c.h, func() any {
		l := c.Left.Evaluate(v)
		if l == nil {
			return nil
		}
		r := c.Right.Evaluate(v)
		if r == nil {
			return nil
		}
		cmp, ok := compareValues(l, r)
		if !ok {
			return nil
		}
		return c.Op.holds(cmp)
	})
}

// In tests membership in a value list or a subquery.
type In struct {
	ident
	Expr   Expr
	Values []Expr
	Query  *Select
	Negate bool
}

func NewIn(e Expr, values ...Expr) *In {
	return &In{ident: newIdent(), Expr: e, Values: values}
}

func NewInQuery(e Expr, q *Select) *In {
	return &In{ident: newIdent(), Expr: e, Query: q}
}

func (n *In) Evaluate(v Visited) any {
	if n.Query != nil {
		return nil
	}
	return v.guard(n.h, func() any {
		x := n.Expr.Evaluate(v)
		if x == nil {
			return nil
		}
		unknown := false
		for _, e := range n.Values {
			y := e.Evaluate(v)
			if y == nil {
				unknown = true
				continue
			}
			if cmp, ok := compareValues(x, y); ok && cmp == 0 {
				return !n.Negate
			}
		}
		if unknown {
			return nil
		}
		return n.Negate
	})
}

// Like matches a string against a pattern with % and _ wildcards.
type Like struct {
	ident
	Expr    Expr
	Pattern Expr
	Escape  rune
	Negate  bool
}

func NewLike(e, pattern Expr) *Like {
	return &Like{ident: newIdent(), Expr: e, Pattern: pattern}
}

func (l *Like) Evaluate(v Visited) any {
	return v.guard(l.h, func() any {
		s, ok := l.Expr.Evaluate(v).(string)
		if !ok {
			return nil
		}
		p, ok := l.Pattern.Evaluate(v).(string)
		if !ok {
			return nil
		}
		re, err := likeRegexp(p, l.Escape)
		if err != nil {
			return nil
		}
		return re.MatchString(s) != l.Negate
	})
}

func likeRegexp(pattern string, escape rune) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?s)^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case escape != 0 && r == escape:
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// BetweenKind selects how BETWEEN compares its operands.
type BetweenKind int

const (
	BetweenNumeric BetweenKind = iota
	BetweenTemporal
	BetweenTime
	BetweenText
)

// Between tests low <= expr <= high.
type Between struct {
	ident
	Kind      BetweenKind
	Expr      Expr
	Low, High Expr
	Negate    bool
}

func NewBetween(kind BetweenKind, e, low, high Expr) *Between {
	return &Between{ident: newIdent(), Kind: kind, Expr: e, Low: low, High: high}
}

func (b *Between) Evaluate(v Visited) any {
	return v.guard(b.h, func() any {
		x := b.Expr.Evaluate(v)
		lo := b.Low.Evaluate(v)
		hi := b.High.Evaluate(v)
		if x == nil || lo == nil || hi == nil {
			return nil
		}
		c1, ok := b.compare(lo, x)
		if !ok {
			return nil
		}
		c2, ok := b.compare(x, hi)
		if !ok {
			return nil
		}
		return (c1 <= 0 && c2 <= 0) != b.Negate
	})
}

func (b *Between) compare(x, y any) (int, bool) {
	switch b.Kind {
	case BetweenTemporal:
		tx, ok1 := x.(time.Time)
		ty, ok2 := y.(time.Time)
		if !ok1 || !ok2 {
			return 0, false
		}
		return tx.Compare(ty), true
	case BetweenTime:
		dx, ok1 := x.(time.Duration)
		dy, ok2 := y.(time.Duration)
		if !ok1 || !ok2 {
			return 0, false
		}
		return cmpOrdered(dx, dy), true
	case BetweenText:
		sx, ok1 := x.(string)
		sy, ok2 := y.(string)
		if !ok1 || !ok2 {
			return 0, false
		}
		return strings.Compare(sx, sy), true
	}
	return compareNumbers(x, y)
}

// IsNull tests for NULL. It is never unknown.
type IsNull struct {
	ident
	Expr   Expr
	Negate bool
}

func NewIsNull(e Expr) *IsNull {
	return &IsNull{ident: newIdent(), Expr: e}
}

// Evaluate only knows the answer for cells whose state is known: a column
// with a cached value, or an expression that evaluates to a value.
func (n *IsNull) Evaluate(v Visited) any {
	return v.guard(n.h, func() any {
		if c, ok := n.Expr.(*Column); ok && c.wrapper == nil && c.hasValue {
			return (c.value == nil) != n.Negate
		}
		if n.Expr.Evaluate(v) != nil {
			return n.Negate
		}
		return nil
	})
}

// Quantified compares an expression against every row of a subquery.
type Quantified struct {
	ident
	Left       Expr
	Op         CompareOp
	Quantifier Quantifier
	Query      *Select
}

func NewQuantified(left Expr, op CompareOp, q Quantifier, query *Select) *Quantified {
	return &Quantified{ident: newIdent(), Left: left, Op: op, Quantifier: q, Query: query}
}

func (*Quantified) Evaluate(Visited) any { return nil }

// Exists tests whether a subquery returns rows.
type Exists struct {
	ident
	Query  *Select
	Negate bool
}

func NewExists(q *Select) *Exists {
	return &Exists{ident: newIdent(), Query: q}
}

func (*Exists) Evaluate(Visited) any { return nil }

// Term joins conditions with AND or OR.
type Term struct {
	ident
	Op    BoolOp
	Items []Condition
}

func NewTerm(op BoolOp, items ...Condition) *Term {
	return &Term{ident: newIdent(), Op: op, Items: items}
}

// Evaluate applies three-valued logic: a false item decides AND, a true
// item decides OR, otherwise any unknown item makes the term unknown.
func (t *Term) Evaluate(v Visited) any {
	return v.guard(t.h, func() any {
		decisive := t.Op == Or
		unknown := false
		for _, item := range t.Items {
			b, ok := truth(item.Evaluate(v))
			if !ok {
				unknown = true
				continue
			}
			if b == decisive {
				return decisive
			}
		}
		if unknown {
			return nil
		}
		return !decisive
	})
}

func (*Compare) node()         {}
func (*In) node()              {}
func (*Like) node()            {}
func (*Between) node()         {}
func (*IsNull) node()          {}
func (*Quantified) node()      {}
func (*Exists) node()          {}
func (*Term) node()            {}
func (*Compare) condition()    {}
func (*In) condition()         {}
func (*Like) condition()       {}
func (*Between) condition()    {}
func (*IsNull) condition()     {}
func (*Quantified) condition() {}
func (*Exists) condition()     {}
func (*Term) condition()       {}
