package render

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/zoobzio/typql/internal/types"
)

// TimestampLayout formats DATETIME and TIMESTAMP literals with microsecond
// precision, dropping trailing zeros.
const TimestampLayout = "2006-01-02 15:04:05.999999"

// Canonical coerces v to t. A value without a declared type takes the type
// inferred from its Go representation.
func Canonical(t types.Type, v any) (types.Type, any, error) {
	if t.Kind == types.KindUnknown {
		t = types.TypeOf(v)
	}
	cv, err := t.Coerce(v)
	if err != nil {
		return t, nil, err
	}
	return t, cv, nil
}

// Literal renders v as inline ANSI SQL.
func (b *Base) Literal(t types.Type, v any) (string, error) {
	t, cv, err := Canonical(t, v)
	if err != nil {
		return "", err
	}
	switch x := cv.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", NewUnsupportedFeatureError(b.vendor.String(), "non-finite float literal")
		}
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case *apd.Decimal:
		return x.Text('f'), nil
	case string:
		return b.outer.QuoteString(x), nil
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(x)) + "'", nil
	case time.Time:
		if t.Kind == types.KindDate {
			return "DATE '" + x.Format(types.DateLayout) + "'", nil
		}
		return "TIMESTAMP '" + x.Format(TimestampLayout) + "'", nil
	case time.Duration:
		return "TIME '" + types.FormatClock(x, 6) + "'", nil
	}
	return "", NewUnsupportedFeatureError(b.vendor.String(), "literal of type "+t.String())
}

// Bind converts v into a database/sql argument. Values the default
// converter rejects travel as text.
func (b *Base) Bind(t types.Type, v any) (any, error) {
	_, cv, err := Canonical(t, v)
	if err != nil {
		return nil, err
	}
	switch x := cv.(type) {
	case uint64:
		if x > math.MaxInt64 {
			return strconv.FormatUint(x, 10), nil
		}
		return int64(x), nil
	case *apd.Decimal:
		return x.Text('f'), nil
	case time.Duration:
		return types.FormatClock(x, 6), nil
	}
	return cv, nil
}

// Read converts a scanned value to the Go representation of t.
func (b *Base) Read(t types.Type, raw any) (any, error) {
	return t.Coerce(raw)
}
