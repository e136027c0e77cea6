package types

import (
	"bytes"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// decimalContext carries enough precision for DECIMAL(65,30) arithmetic.
var decimalContext = apd.BaseContext.WithPrecision(65)

// Evaluable is implemented by every node whose value can be computed
// client-side. A nil result means unknown.
type Evaluable interface {
	Evaluate(v Visited) any
}

// Eval evaluates e with a fresh path.
func Eval(e Evaluable) any {
	return e.Evaluate(Visited{})
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case *apd.Decimal:
		f, err := x.Float64()
		return f, err == nil
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func asDecimal(v any) (*apd.Decimal, bool) {
	if _, ok := asFloat(v); !ok {
		return nil, false
	}
	d, err := coerceDecimal(v)
	return d, err == nil
}

func isDecimal(v any) bool {
	_, ok := v.(*apd.Decimal)
	return ok
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// arith applies op to two known operands. Overflow of exact integers
// falls back to float arithmetic; division by zero yields unknown.
func arith(op ArithOp, l, r any) any {
	if ld, ok := l.(time.Duration); ok {
		if rd, ok := r.(time.Duration); ok {
			switch op {
			case OpAdd:
				return ld + rd
			case OpSub:
				return ld - rd
			}
			return nil
		}
	}
	if (isDecimal(l) || isDecimal(r)) && !isFloat(l) && !isFloat(r) {
		return decimalArith(op, l, r)
	}
	if !isFloat(l) && !isFloat(r) {
		if li, ok := asInt(l); ok {
			if ri, ok := asInt(r); ok {
				if v, ok := intArith(op, li, ri); ok {
					return v
				}
			}
		}
	}
	lf, ok := asFloat(l)
	if !ok {
		return nil
	}
	rf, ok := asFloat(r)
	if !ok {
		return nil
	}
	switch op {
	case OpAdd:
		return lf + rf
	case OpSub:
		return lf - rf
	case OpMul:
		return lf * rf
	case OpDiv:
		if rf == 0 {
			return nil
		}
		return lf / rf
	case OpMod:
		if rf == 0 {
			return nil
		}
		return math.Mod(lf, rf)
	}
	return nil
}

func intArith(op ArithOp, l, r int64) (any, bool) {
	switch op {
	case OpAdd:
		s := l + r
		if (s > l) != (r > 0) {
			return nil, false
		}
		return s, true
	case OpSub:
		s := l - r
		if (s < l) != (r > 0) {
			return nil, false
		}
		return s, true
	case OpMul:
		if l == 0 || r == 0 {
			return int64(0), true
		}
		p := l * r
		if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return nil, false
		}
		return p, true
	case OpDiv:
		if r == 0 {
			return nil, true
		}
		if l%r == 0 && !(l == math.MinInt64 && r == -1) {
			return l / r, true
		}
		return nil, false
	case OpMod:
		if r == 0 {
			return nil, true
		}
		if r == -1 {
			return int64(0), true
		}
		return l % r, true
	}
	return nil, true
}

func decimalArith(op ArithOp, l, r any) any {
	ld, ok := asDecimal(l)
	if !ok {
		return nil
	}
	rd, ok := asDecimal(r)
	if !ok {
		return nil
	}
	res := new(apd.Decimal)
	var err error
	switch op {
	case OpAdd:
		_, err = decimalContext.Add(res, ld, rd)
	case OpSub:
		_, err = decimalContext.Sub(res, ld, rd)
	case OpMul:
		_, err = decimalContext.Mul(res, ld, rd)
	case OpDiv:
		if rd.IsZero() {
			return nil
		}
		_, err = decimalContext.Quo(res, ld, rd)
	case OpMod:
		if rd.IsZero() {
			return nil
		}
		_, err = decimalContext.Rem(res, ld, rd)
	}
	if err != nil {
		return nil
	}
	return res
}

// compareValues orders two known values of compatible families. The
// second result is false when the values cannot be compared.
func compareValues(l, r any) (int, bool) {
	switch x := l.(type) {
	case string:
		if y, ok := r.(string); ok {
			return strings.Compare(x, y), true
		}
		return 0, false
	case []byte:
		if y, ok := r.([]byte); ok {
			return bytes.Compare(x, y), true
		}
		return 0, false
	case bool:
		if y, ok := r.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			default:
				return 1, true
			}
		}
		return 0, false
	case time.Time:
		if y, ok := r.(time.Time); ok {
			return x.Compare(y), true
		}
		return 0, false
	case time.Duration:
		if y, ok := r.(time.Duration); ok {
			return cmpOrdered(x, y), true
		}
		return 0, false
	}
	return compareNumbers(l, r)
}

func compareNumbers(l, r any) (int, bool) {
	if isDecimal(l) || isDecimal(r) {
		ld, ok := asDecimal(l)
		if !ok {
			return 0, false
		}
		rd, ok := asDecimal(r)
		if !ok {
			return 0, false
		}
		return ld.Cmp(rd), true
	}
	if li, ok := asInt(l); ok {
		if ri, ok := asInt(r); ok {
			return cmpOrdered(li, ri), true
		}
	}
	if lu, ok := l.(uint64); ok {
		if ru, ok := r.(uint64); ok {
			return cmpOrdered(lu, ru), true
		}
	}
	lf, ok := asFloat(l)
	if !ok {
		return 0, false
	}
	rf, ok := asFloat(r)
	if !ok {
		return 0, false
	}
	return cmpOrdered(lf, rf), true
}

func cmpOrdered[T int64 | uint64 | float64 | time.Duration](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// truth converts a condition result to a three-valued boolean.
func truth(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
