package sqlite

import (
	"database/sql/driver"
	"math"
	"strconv"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

type mathFunc struct {
	name string
	args int32
	fn   func(x ...float64) float64
}

var mathFuncs = []mathFunc{
	{"LN", 1, func(x ...float64) float64 { return math.Log(x[0]) }},
	{"EXP", 1, func(x ...float64) float64 { return math.Exp(x[0]) }},
	{"LOG2", 1, func(x ...float64) float64 { return math.Log2(x[0]) }},
	{"LOG10", 1, func(x ...float64) float64 { return math.Log10(x[0]) }},
	{"SQRT", 1, func(x ...float64) float64 { return math.Sqrt(x[0]) }},
	{"CEIL", 1, func(x ...float64) float64 { return math.Ceil(x[0]) }},
	{"FLOOR", 1, func(x ...float64) float64 { return math.Floor(x[0]) }},
	{"POWER", 2, func(x ...float64) float64 { return math.Pow(x[0], x[1]) }},
	{"FMOD", 2, func(x ...float64) float64 { return math.Mod(x[0], x[1]) }},
}

// registerFunctions registers mathFuncs once per process. A name the
// driver already knows is left in place.
func registerFunctions() error {
	registerOnce.Do(func() {
		for _, m := range mathFuncs {
			err := sqlite.RegisterDeterministicScalarFunction(m.name, m.args, scalar(m.fn))
			if err != nil && !strings.Contains(err.Error(), "already registered") {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

// scalar adapts fn to the driver's calling convention. NULL arguments and
// results outside the domain produce NULL.
func scalar(fn func(x ...float64) float64) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		xs := make([]float64, len(args))
		for i, a := range args {
			x, ok := number(a)
			if !ok {
				return nil, nil
			}
			xs[i] = x
		}
		y := fn(xs...)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, nil
		}
		return y, nil
	}
}

func number(v driver.Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	return 0, false
}
