// Package testing provides test utilities for typql.
package testing

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/typql"
)

// TestProject returns the DBML project behind TestSchema. Includes users,
// posts, orders and counters tables.
func TestProject() *dbml.Project {
	project := dbml.NewProject("test")

	// Users table
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar(64)"))
	users.AddColumn(dbml.NewColumn("email", "varchar(255)"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(users)

	// Posts table
	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar(200)"))
	posts.AddColumn(dbml.NewColumn("body", "text"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	posts.AddColumn(dbml.NewColumn("published", "date"))
	project.AddTable(posts)

	// Orders table
	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "decimal(10,2)"))
	orders.AddColumn(dbml.NewColumn("status", "varchar(16)"))
	project.AddTable(orders)

	// Counters table
	counters := dbml.NewTable("counters")
	counters.AddColumn(dbml.NewColumn("id", "bigint"))
	counters.AddColumn(dbml.NewColumn("hits", "int"))
	project.AddTable(counters)

	return project
}

// TestSchema creates the fixture schema under the name "test".
func TestSchema(t testing.TB) *typql.Schema {
	t.Helper()
	s, err := typql.NewSchema("test", TestProject())
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return s
}

// Compile compiles stmt with the vendor's dialect, failing the test on error.
func Compile(t testing.TB, v typql.Vendor, stmt typql.Statement) *typql.Context {
	t.Helper()
	ctx, err := typql.Compile(typql.MustDialect(v), stmt, false)
	if err != nil {
		t.Fatalf("Compile(%s) error: %v", v, err)
	}
	return ctx
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t testing.TB, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertBatches checks the SQL of every batch entry in order.
func AssertBatches(t testing.TB, ctx *typql.Context, expected ...string) {
	t.Helper()
	batches := ctx.Batches()
	if len(batches) != len(expected) {
		t.Errorf("Batch count mismatch: expected %d, got %d", len(expected), len(batches))
		return
	}
	for i, b := range batches {
		if b.SQL != expected[i] {
			t.Errorf("Batch %d SQL mismatch:\nExpected: %s\nActual:   %s", i, expected[i], b.SQL)
		}
	}
}

// AssertParams checks the bound values of a batch entry in placeholder
// order.
func AssertParams(t testing.TB, b typql.Batch, expected ...any) {
	t.Helper()
	actual := ParamValues(b)
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("Param %d mismatch: expected %#v, got %#v", i+1, expected[i], actual[i])
		}
	}
}

// ParamValues returns the values bound by a batch entry.
func ParamValues(b typql.Batch) []any {
	out := make([]any, len(b.Params))
	for i, p := range b.Params {
		out[i] = p.Value
	}
	return out
}

// AssertUnsupported fails the test unless err is an UnsupportedFeatureError.
func AssertUnsupported(t testing.TB, err error) {
	t.Helper()
	if !typql.IsUnsupported(err) {
		t.Errorf("Expected unsupported feature error, got: %v", err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t testing.TB, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}
