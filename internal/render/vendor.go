package render

import (
	"strings"
)

// Vendor identifies a database product.
type Vendor int

const (
	VendorUnknown Vendor = iota
	MySQL
	Oracle
	SQLite
	Derby
	Postgres
)

func (v Vendor) String() string {
	switch v {
	case MySQL:
		return "mysql"
	case Oracle:
		return "oracle"
	case SQLite:
		return "sqlite"
	case Derby:
		return "derby"
	case Postgres:
		return "postgres"
	}
	return "unknown"
}

// vendorHints maps substrings of product and driver names to vendors.
var vendorHints = []struct {
	hint   string
	vendor Vendor
}{
	{"mysql", MySQL},
	{"mariadb", MySQL},
	{"oracle", Oracle},
	{"godror", Oracle},
	{"oci8", Oracle},
	{"sqlite", SQLite},
	{"derby", Derby},
	{"postgres", Postgres},
	{"pgx", Postgres},
}

// ParseVendor detects the vendor from a product or driver name such as
// "MySQL", "sqlite3" or "pgx".
func ParseVendor(name string) (Vendor, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "pq" {
		return Postgres, nil
	}
	for _, h := range vendorHints {
		if strings.Contains(n, h.hint) {
			return h.vendor, nil
		}
	}
	return VendorUnknown, NewConfigError("unrecognized database product %q", name)
}
