package types

import (
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Kind is the family of a declared SQL type.
type Kind int

const (
	KindUnknown Kind = iota
	KindBoolean
	KindTinyInt
	KindSmallInt
	KindMediumInt
	KindInteger
	KindBigInt
	KindDecimal
	KindFloat
	KindDouble
	KindChar
	KindVarChar
	KindText
	KindBinary
	KindVarBinary
	KindBlob
	KindDate
	KindTime
	KindDateTime
	KindTimestamp
)

var kindNames = [...]string{
	KindUnknown:   "UNKNOWN",
	KindBoolean:   "BOOLEAN",
	KindTinyInt:   "TINYINT",
	KindSmallInt:  "SMALLINT",
	KindMediumInt: "MEDIUMINT",
	KindInteger:   "INTEGER",
	KindBigInt:    "BIGINT",
	KindDecimal:   "DECIMAL",
	KindFloat:     "FLOAT",
	KindDouble:    "DOUBLE",
	KindChar:      "CHAR",
	KindVarChar:   "VARCHAR",
	KindText:      "TEXT",
	KindBinary:    "BINARY",
	KindVarBinary: "VARBINARY",
	KindBlob:      "BLOB",
	KindDate:      "DATE",
	KindTime:      "TIME",
	KindDateTime:  "DATETIME",
	KindTimestamp: "TIMESTAMP",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Type is a declared SQL type. Length applies to character and binary
// kinds, Precision and Scale to DECIMAL, Precision alone to fractional
// seconds of temporal kinds.
type Type struct {
	Kind      Kind
	Unsigned  bool
	Length    int
	Precision int
	Scale     int
}

func Boolean() Type         { return Type{Kind: KindBoolean} }
func TinyInt() Type         { return Type{Kind: KindTinyInt} }
func SmallInt() Type        { return Type{Kind: KindSmallInt} }
func MediumInt() Type       { return Type{Kind: KindMediumInt} }
func Integer() Type         { return Type{Kind: KindInteger} }
func BigInt() Type          { return Type{Kind: KindBigInt} }
func Float() Type           { return Type{Kind: KindFloat} }
func Double() Type          { return Type{Kind: KindDouble} }
func Text() Type            { return Type{Kind: KindText} }
func Blob() Type            { return Type{Kind: KindBlob} }
func Date() Type            { return Type{Kind: KindDate} }
func Time() Type            { return Type{Kind: KindTime} }
func DateTime() Type        { return Type{Kind: KindDateTime} }
func Timestamp() Type       { return Type{Kind: KindTimestamp} }
func Char(n int) Type       { return Type{Kind: KindChar, Length: n} }
func VarChar(n int) Type    { return Type{Kind: KindVarChar, Length: n} }
func Binary(n int) Type     { return Type{Kind: KindBinary, Length: n} }
func VarBinary(n int) Type  { return Type{Kind: KindVarBinary, Length: n} }
func Decimal(p, s int) Type { return Type{Kind: KindDecimal, Precision: p, Scale: s} }

// AsUnsigned returns t with the UNSIGNED modifier.
func (t Type) AsUnsigned() Type {
	t.Unsigned = true
	return t
}

// IsIntegral reports whether t is one of the exact integer kinds.
func (t Type) IsIntegral() bool {
	return t.Kind >= KindTinyInt && t.Kind <= KindBigInt
}

// IsApproximate reports whether t is FLOAT or DOUBLE.
func (t Type) IsApproximate() bool {
	return t.Kind == KindFloat || t.Kind == KindDouble
}

func (t Type) IsNumeric() bool {
	return t.IsIntegral() || t.Kind == KindDecimal || t.IsApproximate()
}

func (t Type) IsString() bool {
	return t.Kind == KindChar || t.Kind == KindVarChar || t.Kind == KindText
}

func (t Type) IsBinary() bool {
	return t.Kind == KindBinary || t.Kind == KindVarBinary || t.Kind == KindBlob
}

func (t Type) IsTemporal() bool {
	return t.Kind >= KindDate && t.Kind <= KindTimestamp
}

// String renders a vendor-neutral declaration such as "BIGINT UNSIGNED" or
// "DECIMAL(10,2)".
func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindDecimal:
		s = "DECIMAL"
		if t.Precision > 0 {
			s = fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
		}
	case KindChar, KindVarChar, KindBinary, KindVarBinary:
		s = t.Kind.String()
		if t.Length > 0 {
			s = fmt.Sprintf("%s(%d)", s, t.Length)
		}
	default:
		s = t.Kind.String()
	}
	if t.Unsigned && t.IsNumeric() {
		s += " UNSIGNED"
	}
	return s
}

// intRange returns the inclusive bounds of an integral kind.
func (t Type) intRange() (int64, uint64) {
	var bits uint
	switch t.Kind {
	case KindTinyInt:
		bits = 8
	case KindSmallInt:
		bits = 16
	case KindMediumInt:
		bits = 24
	case KindInteger:
		bits = 32
	default:
		bits = 64
	}
	if t.Unsigned {
		if bits == 64 {
			return 0, math.MaxUint64
		}
		return 0, 1<<bits - 1
	}
	if bits == 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(1 << (bits - 1)), 1<<(bits-1) - 1
}

// TypeOf infers a declared type for a Go value used as a free-standing
// literal.
func TypeOf(v any) Type {
	switch x := v.(type) {
	case bool:
		return Boolean()
	case int8:
		return TinyInt()
	case int16:
		return SmallInt()
	case int32:
		return Integer()
	case int, int64:
		return BigInt()
	case uint8:
		return TinyInt().AsUnsigned()
	case uint16:
		return SmallInt().AsUnsigned()
	case uint32:
		return Integer().AsUnsigned()
	case uint, uint64:
		return BigInt().AsUnsigned()
	case float32:
		return Float()
	case float64:
		return Double()
	case *apd.Decimal, apd.Decimal:
		return Type{Kind: KindDecimal}
	case string:
		return VarChar(len(x))
	case []byte:
		return VarBinary(len(x))
	case time.Time:
		return DateTime()
	case time.Duration:
		return Time()
	default:
		return Type{}
	}
}
