package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Coercion failures wrapped by CoercionError.
var (
	ErrOutOfRange       = errors.New("value out of range")
	ErrNegativeUnsigned = errors.New("negative value for unsigned type")
	ErrIncompatible     = errors.New("incompatible value")
)

// CoercionError reports a value that cannot be represented by a declared type.
type CoercionError struct {
	Type  Type
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %v (%T) to %s: %v", e.Value, e.Value, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Canonical Go representations produced by Coerce:
//
//	BOOLEAN                      bool
//	TINYINT..BIGINT              int64, or uint64 when unsigned
//	DECIMAL                      *apd.Decimal
//	FLOAT, DOUBLE                float64 (FLOAT rounded through float32)
//	CHAR, VARCHAR, TEXT          string
//	BINARY, VARBINARY, BLOB      []byte
//	DATE, DATETIME, TIMESTAMP    time.Time
//	TIME                         time.Duration since midnight, may be negative
//
// A nil value stays nil. Values for KindUnknown pass through untouched.
func (t Type) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	var out any
	var err error
	switch {
	case t.Kind == KindBoolean:
		out, err = coerceBool(v)
	case t.IsIntegral():
		out, err = t.coerceInt(v)
	case t.Kind == KindDecimal:
		out, err = coerceDecimal(v)
	case t.IsApproximate():
		var f float64
		f, err = coerceFloat(v)
		if t.Kind == KindFloat {
			f = float64(float32(f))
		}
		out = f
	case t.IsString():
		out, err = coerceString(v)
	case t.IsBinary():
		out, err = coerceBytes(v)
	case t.Kind == KindTime:
		out, err = coerceClock(v)
	case t.Kind == KindDate:
		var tm time.Time
		tm, err = coerceTime(v)
		y, m, d := tm.Date()
		out = time.Date(y, m, d, 0, 0, 0, 0, tm.Location())
	case t.IsTemporal():
		out, err = coerceTime(v)
	default:
		return v, nil
	}
	if err != nil {
		var ce *CoercionError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &CoercionError{Type: t, Value: v, Err: err}
	}
	return out, nil
}

func coerceBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	case []byte:
		return strconv.ParseBool(string(x))
	}
	if i, ok := asInt(v); ok {
		return i != 0, nil
	}
	return false, ErrIncompatible
}

func (t Type) coerceInt(v any) (any, error) {
	var neg bool
	var mag uint64
	switch x := v.(type) {
	case bool:
		if x {
			mag = 1
		}
	case int:
		neg, mag = splitInt(int64(x))
	case int8:
		neg, mag = splitInt(int64(x))
	case int16:
		neg, mag = splitInt(int64(x))
	case int32:
		neg, mag = splitInt(int64(x))
	case int64:
		neg, mag = splitInt(x)
	case uint:
		mag = uint64(x)
	case uint8:
		mag = uint64(x)
	case uint16:
		mag = uint64(x)
	case uint32:
		mag = uint64(x)
	case uint64:
		mag = x
	case float32:
		return t.coerceInt(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, ErrIncompatible
		}
		x = math.Trunc(x)
		if x < 0 {
			if x < math.MinInt64 {
				return nil, t.rangeError(v)
			}
			neg, mag = splitInt(int64(x))
		} else {
			if x >= math.MaxUint64 {
				return nil, t.rangeError(v)
			}
			mag = uint64(x)
		}
	case *apd.Decimal:
		if i, err := x.Int64(); err == nil {
			neg, mag = splitInt(i)
			break
		}
		f, err := x.Float64()
		if err != nil {
			return nil, ErrIncompatible
		}
		return t.coerceInt(f)
	case apd.Decimal:
		return t.coerceInt(&x)
	case string:
		return t.coerceIntString(v, strings.TrimSpace(x))
	case []byte:
		return t.coerceIntString(v, strings.TrimSpace(string(x)))
	default:
		return nil, ErrIncompatible
	}

	lo, hi := t.intRange()
	if neg {
		if t.Unsigned {
			return nil, &CoercionError{Type: t, Value: v, Err: ErrNegativeUnsigned}
		}
		if mag > uint64(-(lo+1))+1 {
			return nil, t.rangeError(v)
		}
		return -int64(mag-1) - 1, nil
	}
	if mag > hi {
		return nil, t.rangeError(v)
	}
	if t.Unsigned {
		return mag, nil
	}
	return int64(mag), nil
}

func (t Type) coerceIntString(orig any, s string) (any, error) {
	if strings.HasPrefix(s, "-") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return t.coerceIntFallback(orig, s)
		}
		return t.coerceInt(i)
	}
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return t.coerceIntFallback(orig, s)
	}
	return t.coerceInt(u)
}

// coerceIntFallback handles decimal text such as "12.0" and values beyond
// the 64-bit range.
func (t Type) coerceIntFallback(orig any, s string) (any, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, ErrIncompatible
	}
	out, err := t.coerceInt(d)
	if errors.Is(err, ErrOutOfRange) {
		return nil, t.rangeError(orig)
	}
	return out, err
}

func (t Type) rangeError(v any) error {
	return &CoercionError{Type: t, Value: v, Err: ErrOutOfRange}
}

func splitInt(i int64) (bool, uint64) {
	if i < 0 {
		return true, uint64(-(i + 1)) + 1
	}
	return false, uint64(i)
}

func coerceDecimal(v any) (*apd.Decimal, error) {
	switch x := v.(type) {
	case *apd.Decimal:
		return new(apd.Decimal).Set(x), nil
	case apd.Decimal:
		return new(apd.Decimal).Set(&x), nil
	case float32:
		return new(apd.Decimal).SetFloat64(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, ErrIncompatible
		}
		return new(apd.Decimal).SetFloat64(x)
	case uint:
		return decimalFromString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return decimalFromString(strconv.FormatUint(x, 10))
	case string:
		return decimalFromString(strings.TrimSpace(x))
	case []byte:
		return decimalFromString(strings.TrimSpace(string(x)))
	}
	if i, ok := asInt(v); ok {
		return apd.New(i, 0), nil
	}
	return nil, ErrIncompatible
}

func decimalFromString(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, ErrIncompatible
	}
	return d, nil
}

func coerceFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	}
	if f, ok := asFloat(v); ok {
		return f, nil
	}
	return 0, ErrIncompatible
}

func coerceString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case time.Time:
		return x.Format(DateTimeLayout), nil
	case time.Duration:
		return FormatClock(x, 6), nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	}
	if i, ok := asInt(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	return "", ErrIncompatible
}

func coerceBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return append([]byte(nil), x...), nil
	case string:
		return []byte(x), nil
	}
	return nil, ErrIncompatible
}

// Layouts accepted when temporal values arrive as text.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05.999999999"
)

var timeLayouts = []string{
	DateTimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	DateLayout,
}

func coerceTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return ParseTime(x)
	case []byte:
		return ParseTime(string(x))
	}
	return time.Time{}, ErrIncompatible
}

// ParseTime parses the textual forms drivers return for DATE and DATETIME
// columns. Values without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrIncompatible
}

func coerceClock(v any) (time.Duration, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case time.Time:
		h, m, s := x.Clock()
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second + time.Duration(x.Nanosecond()), nil
	case string:
		return ParseClock(x)
	case []byte:
		return ParseClock(string(x))
	}
	return 0, ErrIncompatible
}

// ParseClock parses a TIME value in the form [-]H+:MM:SS[.fraction]. Hours
// may exceed 24 and the sign may be negative.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, ErrIncompatible
	}
	h, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, ErrIncompatible
	}
	m, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || m > 59 {
		return 0, ErrIncompatible
	}
	sec, frac, _ := strings.Cut(parts[2], ".")
	sv, err := strconv.ParseUint(sec, 10, 8)
	if err != nil || sv > 59 {
		return 0, ErrIncompatible
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, ErrIncompatible
		}
		nanos = int64(n)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sv)*time.Second + time.Duration(nanos)
	if neg {
		d = -d
	}
	return d, nil
}

// FormatClock renders d as [-]HH:MM:SS with digits fractional digits.
func FormatClock(d time.Duration, digits int) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	fmt.Fprintf(&b, "%02d:%02d:%02d", h, m, s)
	if digits > 0 {
		if digits > 9 {
			digits = 9
		}
		frac := fmt.Sprintf("%09d", int64(d))
		b.WriteByte('.')
		b.WriteString(frac[:digits])
	}
	return b.String()
}
