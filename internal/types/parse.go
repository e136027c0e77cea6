package types

import (
	"fmt"
	"strconv"
	"strings"
)

// typeNames maps declared type names, lower-cased and without size
// arguments, to kinds.
var typeNames = map[string]Kind{
	"bool":              KindBoolean,
	"boolean":           KindBoolean,
	"tinyint":           KindTinyInt,
	"smallint":          KindSmallInt,
	"int2":              KindSmallInt,
	"mediumint":         KindMediumInt,
	"int":               KindInteger,
	"integer":           KindInteger,
	"int4":              KindInteger,
	"bigint":            KindBigInt,
	"int8":              KindBigInt,
	"decimal":           KindDecimal,
	"numeric":           KindDecimal,
	"number":            KindDecimal,
	"float":             KindFloat,
	"real":              KindFloat,
	"float4":            KindFloat,
	"double":            KindDouble,
	"double precision":  KindDouble,
	"float8":            KindDouble,
	"char":              KindChar,
	"character":         KindChar,
	"varchar":           KindVarChar,
	"character varying": KindVarChar,
	"varchar2":          KindVarChar,
	"uuid":              KindChar,
	"text":              KindText,
	"clob":              KindText,
	"binary":            KindBinary,
	"varbinary":         KindVarBinary,
	"blob":              KindBlob,
	"bytea":             KindBlob,
	"date":              KindDate,
	"time":              KindTime,
	"datetime":          KindDateTime,
	"timestamp":         KindTimestamp,
	"timestamptz":       KindTimestamp,
}

// ParseType reads a declared column type such as "varchar(64)",
// "decimal(10,2)" or "bigint unsigned".
func ParseType(decl string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(decl))
	unsigned := false
	if rest, ok := strings.CutSuffix(s, " unsigned"); ok {
		s, unsigned = strings.TrimSpace(rest), true
	}

	var args []int
	if open := strings.IndexByte(s, '('); open >= 0 {
		end := strings.IndexByte(s, ')')
		if end < open {
			return Type{}, fmt.Errorf("malformed type %q", decl)
		}
		for _, a := range strings.Split(s[open+1:end], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil {
				return Type{}, fmt.Errorf("malformed type %q: %w", decl, err)
			}
			args = append(args, n)
		}
		s = strings.TrimSpace(s[:open] + s[end+1:])
	}

	kind, ok := typeNames[s]
	if !ok {
		return Type{}, fmt.Errorf("unknown type %q", decl)
	}
	t := Type{Kind: kind, Unsigned: unsigned && kind <= KindBigInt}
	switch {
	case s == "uuid":
		t.Length = 36
	case kind == KindDecimal:
		if len(args) > 0 {
			t.Precision = args[0]
		}
		if len(args) > 1 {
			t.Scale = args[1]
		}
	case len(args) > 0:
		t.Length = args[0]
	}
	return t, nil
}
