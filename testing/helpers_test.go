package testing

import (
	"errors"
	"testing"

	"github.com/zoobzio/typql"
)

// =============================================================================
// TestSchema Tests
// =============================================================================

func TestTestSchema(t *testing.T) {
	s := TestSchema(t)
	if s == nil {
		t.Fatal("Expected non-nil schema")
	}

	for _, table := range []string{"users", "posts", "orders", "counters"} {
		if _, err := s.TryEntity(table, "id"); err != nil {
			t.Errorf("TryEntity(%q) error: %v", table, err)
		}
	}

	orders := s.Entity("orders", "id")
	if got := orders.Column("total").Type(); got != typql.Decimal(10, 2) {
		t.Errorf("orders.total type = %v", got)
	}
}

// =============================================================================
// AssertBatches / AssertParams Tests
// =============================================================================

func TestAssertBatches_Match(t *testing.T) {
	s := TestSchema(t)
	counters := s.Entity("counters", "id")
	AssertNoError(t, counters.Column("id").Set(3))
	AssertNoError(t, counters.Column("hits").Set(9))

	ctx := Compile(t, typql.Postgres, typql.NewUpdate(counters))
	AssertBatches(t, ctx, `UPDATE "counters" SET "hits" = $1 WHERE "id" = $2`)
	AssertParams(t, ctx.Batches()[0], int64(9), int64(3))
}

func TestAssertSQL_Match(t *testing.T) {
	// This should not cause the test to fail
	AssertSQL(t, "SELECT * FROM users", "SELECT * FROM users")
}

func TestParamValues_Empty(t *testing.T) {
	if got := ParamValues(typql.Batch{SQL: "DELETE FROM t"}); len(got) != 0 {
		t.Errorf("ParamValues() = %v, want empty", got)
	}
}

// =============================================================================
// AssertUnsupported Tests
// =============================================================================

func TestAssertUnsupported(t *testing.T) {
	s := TestSchema(t)
	users := s.Entity("users", "id")
	created := users.Column("created_at")

	q := typql.NewSelect(users)
	q.Columns = []typql.Expr{
		typql.NewDateArith(created, typql.NewInterval(
			typql.Part{Amount: 1, Unit: typql.Days},
			typql.Part{Amount: 2, Unit: typql.Hours},
		), false),
	}
	_, err := typql.Compile(typql.MustDialect(typql.Derby), q, false)
	AssertUnsupported(t, err)
}

// =============================================================================
// Error Assertion Tests
// =============================================================================

func TestAssertNoError_Nil(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError_Error(t *testing.T) {
	AssertError(t, errors.New("test error"))
}

func TestAssertErrorContains_Match(t *testing.T) {
	AssertErrorContains(t, errors.New("connection failed: timeout"), "timeout")
}

func TestAssertPanics_Panics(t *testing.T) {
	AssertPanics(t, func() {
		TestSchema(t).Entity("missing")
	})
}
