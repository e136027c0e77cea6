package typql_test

import (
	"testing"

	"github.com/zoobzio/typql"
)

func TestVendors(t *testing.T) {
	got := typql.Vendors()
	want := []typql.Vendor{typql.MySQL, typql.Oracle, typql.SQLite, typql.Derby, typql.Postgres}
	if len(got) != len(want) {
		t.Fatalf("Vendors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vendors()[%d] = %v, want %v", i, got[i], want[i])
		}
		d, err := typql.DialectFor(want[i])
		if err != nil {
			t.Fatalf("DialectFor(%v): %v", want[i], err)
		}
		if d.Vendor() != want[i] {
			t.Errorf("dialect for %v reports %v", want[i], d.Vendor())
		}
	}
}

func TestDialectFor_Shared(t *testing.T) {
	a := typql.MustDialect(typql.SQLite)
	b := typql.MustDialect(typql.SQLite)
	if a != b {
		t.Error("dialects must be shared singletons")
	}
}

func TestDialectFor_Unregistered(t *testing.T) {
	_, err := typql.DialectFor(typql.Vendor(99))
	if !typql.IsConfig(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustDialect should panic for an unregistered vendor")
		}
	}()
	typql.MustDialect(typql.Vendor(99))
}

func TestDialectNamed(t *testing.T) {
	tests := []struct {
		name string
		want typql.Vendor
	}{
		{"mysql", typql.MySQL},
		{"MariaDB", typql.MySQL},
		{"sqlite", typql.SQLite},
		{"pgx", typql.Postgres},
		{"postgres", typql.Postgres},
		{"Oracle", typql.Oracle},
		{"Apache Derby", typql.Derby},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := typql.DialectNamed(tt.name)
			if err != nil {
				t.Fatalf("DialectNamed(%q): %v", tt.name, err)
			}
			if d.Vendor() != tt.want {
				t.Errorf("DialectNamed(%q) = %v, want %v", tt.name, d.Vendor(), tt.want)
			}
		})
	}

	if _, err := typql.DialectNamed("informix"); !typql.IsConfig(err) {
		t.Errorf("expected ConfigError for unknown product, got %v", err)
	}
}

func TestCompile_NilDialect(t *testing.T) {
	users := typql.NewEntity("app", "users")
	users.Add("id", typql.BigInt())
	if _, err := typql.Compile(nil, typql.NewSelect(users), false); !typql.IsConfig(err) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestCompileAll_MixedSchemas(t *testing.T) {
	a := typql.NewEntity("app", "users")
	a.Add("id", typql.BigInt(), typql.PrimaryKey())
	b := typql.NewEntity("audit", "events")
	b.Add("id", typql.BigInt(), typql.PrimaryKey())

	_, err := typql.CompileAll(typql.MustDialect(typql.SQLite), false, typql.NewDelete(a), typql.NewDelete(b))
	if !typql.IsConfig(err) {
		t.Fatalf("expected ConfigError for a batch spanning schemas, got %v", err)
	}
}
