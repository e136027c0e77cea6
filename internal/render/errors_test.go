package render

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnsupportedFeatureError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UnsupportedFeatureError
		expected string
	}{
		{
			name: "without hint",
			err: UnsupportedFeatureError{
				Feature: "CAST to BLOB",
				Dialect: "derby",
			},
			expected: "derby: CAST to BLOB is not supported",
		},
		{
			name: "with hint",
			err: UnsupportedFeatureError{
				Feature: "multi-unit interval",
				Dialect: "derby",
				Hint:    "split the expression into one interval per unit",
			},
			expected: "derby: multi-unit interval is not supported: split the expression into one interval per unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewUnsupportedFeatureError(t *testing.T) {
	t.Run("without hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("sqlite", "> ALL")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Dialect != "sqlite" {
			t.Errorf("Dialect = %q, want %q", ufErr.Dialect, "sqlite")
		}
		if ufErr.Feature != "> ALL" {
			t.Errorf("Feature = %q, want %q", ufErr.Feature, "> ALL")
		}
		if ufErr.Hint != "" {
			t.Errorf("Hint = %q, want empty", ufErr.Hint)
		}
	})

	t.Run("with hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("sqlite", "> ALL", "compare with MAX() instead")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Hint != "compare with MAX() instead" {
			t.Errorf("Hint = %q, want %q", ufErr.Hint, "compare with MAX() instead")
		}
	})
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("batch mixes schemas %q and %q", "shop", "crm")
	want := `configuration error: batch mixes schemas "shop" and "crm"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsConfig(fmt.Errorf("compile: %w", err)) {
		t.Error("IsConfig() = false for wrapped ConfigError")
	}
	if IsUnsupported(err) {
		t.Error("IsUnsupported() = true for ConfigError")
	}
	if !IsUnsupported(NewUnsupportedFeatureError("derby", "BLOB")) {
		t.Error("IsUnsupported() = false for UnsupportedFeatureError")
	}
}

func TestParseVendor(t *testing.T) {
	tests := []struct {
		name string
		want Vendor
	}{
		{"MySQL", MySQL},
		{"mariadb", MySQL},
		{"Oracle", Oracle},
		{"godror", Oracle},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
		{"Apache Derby", Derby},
		{"PostgreSQL", Postgres},
		{"pgx", Postgres},
		{"pq", Postgres},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVendor(tt.name)
			if err != nil {
				t.Fatalf("ParseVendor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseVendor() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ParseVendor("db2"); !IsConfig(err) {
		t.Errorf("ParseVendor(db2) error = %v, want ConfigError", err)
	}
}
