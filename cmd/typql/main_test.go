package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVendors(t *testing.T) {
	out, err := run(t, "vendors")
	if err != nil {
		t.Fatalf("vendors: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 vendors, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "mysql ") || !strings.Contains(lines[0], "multi-statement") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(out, "sqlite    native-limit,multi-unit-interval,function-registry,multi-statement") {
		t.Errorf("sqlite capabilities missing:\n%s", out)
	}
}

func TestRender(t *testing.T) {
	out, err := run(t, "render", "--vendor", "oracle", "--table", "users",
		"--column", "id:bigint", "--column", "name:varchar(64)", "--limit", "10", "--offset", "20")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `SELECT * FROM (SELECT ROWNUM rnum, page_q.* FROM (SELECT a."id", a."name" FROM "users" a) page_q WHERE ROWNUM <= 30) WHERE rnum > 20
-- first result column is the row number
`
	if out != want {
		t.Errorf("render output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRender_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typql.yaml")
	if err := os.WriteFile(path, []byte("driver: sqlite\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "render", "--config", path, "--table", "t", "--column", "x:int", "--offset", "3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "SELECT a.\"x\" FROM \"t\" a LIMIT -1 OFFSET 3\n"; out != want {
		t.Errorf("render output = %q, want %q", out, want)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no vendor", []string{"render", "--table", "t", "--column", "x:int"}},
		{"unknown vendor", []string{"render", "--vendor", "informix", "--table", "t", "--column", "x:int"}},
		{"no columns", []string{"render", "--vendor", "mysql", "--table", "t"}},
		{"bad column", []string{"render", "--vendor", "mysql", "--table", "t", "--column", "x"}},
		{"bad type", []string{"render", "--vendor", "mysql", "--table", "t", "--column", "x:geometry"}},
		{"no table", []string{"render", "--vendor", "mysql", "--column", "x:int"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
