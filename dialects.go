package typql

import (
	"fmt"
	"slices"

	"github.com/zoobzio/typql/derby"
	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/mysql"
	"github.com/zoobzio/typql/oracle"
	"github.com/zoobzio/typql/postgres"
	"github.com/zoobzio/typql/sqlite"
)

// dialects holds one stateless dialect per vendor, built once and shared
// by every compilation.
var dialects = map[Vendor]Dialect{
	MySQL:    mysql.New(),
	Oracle:   oracle.New(),
	SQLite:   sqlite.New(),
	Derby:    derby.New(),
	Postgres: postgres.New(),
}

// DialectFor returns the dialect registered for v. An unregistered vendor
// is a ConfigError.
func DialectFor(v Vendor) (Dialect, error) {
	d, ok := dialects[v]
	if !ok {
		return nil, render.NewConfigError("no dialect registered for vendor %s", v)
	}
	return d, nil
}

// MustDialect is DialectFor that panics on an unregistered vendor.
func MustDialect(v Vendor) Dialect {
	d, err := DialectFor(v)
	if err != nil {
		panic(err)
	}
	return d
}

// DialectNamed resolves a product or driver name such as "sqlite",
// "pgx" or "Oracle" to its dialect.
func DialectNamed(name string) (Dialect, error) {
	v, err := ParseVendor(name)
	if err != nil {
		return nil, err
	}
	return DialectFor(v)
}

// ParseVendor detects the vendor from a product or driver name.
func ParseVendor(name string) (Vendor, error) {
	return render.ParseVendor(name)
}

// Vendors lists the registered vendors in declaration order.
func Vendors() []Vendor {
	out := make([]Vendor, 0, len(dialects))
	for v := range dialects {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Compile renders stmt with d. In literal mode values are inlined instead
// of bound. The returned context holds the batch entries, their parameters
// and the actions to run once execution succeeds.
func Compile(d Dialect, stmt Statement, literal bool) (*Context, error) {
	if d == nil {
		return nil, render.NewConfigError("no dialect")
	}
	return render.Compile(d, stmt, literal)
}

// CompileAll renders several statements into one context, one batch entry
// per statement or per entity written.
func CompileAll(d Dialect, literal bool, stmts ...Statement) (*Context, error) {
	if d == nil {
		return nil, render.NewConfigError("no dialect")
	}
	ctx := render.NewContext(d, literal)
	for i, stmt := range stmts {
		if err := d.RenderStatement(ctx, stmt); err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		ctx.AddBatch()
	}
	return ctx, nil
}
