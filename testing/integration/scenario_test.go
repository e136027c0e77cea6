package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/typql"
	"github.com/zoobzio/typql/sqlerr"
	typqltest "github.com/zoobzio/typql/testing"
)

var created = time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

// newUser fills a users entity from the shared fixture schema.
func newUser(t *testing.T, s *typql.Schema, id int64, name string, age int) *typql.Entity {
	t.Helper()
	u := s.Entity("users", "id")
	require.NoError(t, u.Column("id").Set(id))
	require.NoError(t, u.Column("username").Set(name))
	require.NoError(t, u.Column("email").Set(name+"@example.com"))
	require.NoError(t, u.Column("age").Set(age))
	require.NoError(t, u.Column("active").Set(true))
	require.NoError(t, u.Column("created_at").Set(created))
	return u
}

// runScenarios exercises writes, reads and failures against a database
// whose users table has been freshly created by reset.
func runScenarios(t *testing.T, db *typql.DB, reset func(t *testing.T)) {
	t.Run("RoundTrip", func(t *testing.T) {
		reset(t)
		testRoundTrip(t, db)
	})
	t.Run("Paging", func(t *testing.T) {
		reset(t)
		testPaging(t, db)
	})
	t.Run("UniqueViolation", func(t *testing.T) {
		reset(t)
		testUniqueViolation(t, db)
	})
	t.Run("DateArithmetic", func(t *testing.T) {
		reset(t)
		testDateArithmetic(t, db)
	})
	t.Run("TxRollback", func(t *testing.T) {
		reset(t)
		testTxRollback(t, db)
	})
}

func testRoundTrip(t *testing.T, db *typql.DB) {
	ctx := context.Background()
	s := typqltest.TestSchema(t)

	ann := newUser(t, s, 1, "ann", 41)
	bob := newUser(t, s, 2, "bob", 30)
	counts, err := db.Exec(ctx, typql.NewInsert(ann, bob))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1}, counts)

	age := ann.Column("age")
	age.SetExpr(typql.NewArith(typql.OpAdd, age, typql.Literal(1)))
	counts, err = db.Exec(ctx, typql.NewUpdate(ann))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, counts)
	assert.EqualValues(t, 42, age.Value())

	r := s.Entity("users", "id")
	q := typql.NewSelect(r)
	q.Where = typql.NewCompare(r.Column("age"), typql.GT, typql.Literal(40))
	rows, err := db.Query(ctx, q)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	require.NoError(t, rows.Load())
	assert.EqualValues(t, 1, r.Column("id").Value())
	assert.Equal(t, "ann", r.Column("username").Value())
	assert.EqualValues(t, 42, r.Column("age").Value())
	assert.Equal(t, true, r.Column("active").Value())
	got, ok := r.Column("created_at").Value().(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(created), "created_at = %v", got)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())

	counts, err = db.Exec(ctx, typql.NewDelete(bob))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, counts)
}

func testPaging(t *testing.T, db *typql.DB) {
	ctx := context.Background()
	s := typqltest.TestSchema(t)

	var rows []*typql.Entity
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		rows = append(rows, newUser(t, s, int64(i+1), name, 20+i))
	}
	_, err := db.Exec(ctx, typql.NewInsert(rows...))
	require.NoError(t, err)

	r := s.Entity("users", "id")
	q := typql.NewSelect(r)
	q.Columns = []typql.Expr{r.Column("id"), r.Column("username")}
	q.OrderBy = []typql.Order{{Expr: r.Column("id")}}
	q.Limit = 2
	q.Offset = 1
	res, err := db.Query(ctx, q)
	require.NoError(t, err)
	all, err := res.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, 2, all[0][0])
	assert.Equal(t, "b", all[0][1])
	assert.EqualValues(t, 3, all[1][0])
	assert.Equal(t, "c", all[1][1])
}

func testUniqueViolation(t *testing.T, db *typql.DB) {
	ctx := context.Background()
	s := typqltest.TestSchema(t)

	_, err := db.Exec(ctx, typql.NewInsert(newUser(t, s, 1, "ann", 41)))
	require.NoError(t, err)

	counts, err := db.Exec(ctx, typql.NewInsert(
		newUser(t, s, 2, "bob", 30),
		newUser(t, s, 1, "ann", 41),
	))
	var execErr *typql.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.Index)
	assert.Equal(t, sqlerr.UniqueViolation, execErr.Category)
	assert.True(t, typql.IsConstraint(err))
	assert.Equal(t, []int64{1}, counts)
}

func testDateArithmetic(t *testing.T, db *typql.DB) {
	ctx := context.Background()
	s := typqltest.TestSchema(t)

	_, err := db.Exec(ctx, typql.NewInsert(newUser(t, s, 1, "ann", 41)))
	require.NoError(t, err)

	r := s.Entity("users", "id")
	next := typql.NewDateArith(r.Column("created_at"), typql.NewInterval(
		typql.Part{Amount: 1, Unit: typql.Days},
	), false)
	q := typql.NewSelect(r)
	q.Columns = []typql.Expr{typql.NewAs(next, "next_day")}
	res, err := db.Query(ctx, q)
	require.NoError(t, err)
	all, err := res.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	got, ok := all[0][0].(time.Time)
	require.True(t, ok, "next_day = %#v", all[0][0])
	assert.True(t, got.Equal(created.AddDate(0, 0, 1)), "next_day = %v", got)
}

func testTxRollback(t *testing.T, db *typql.DB) {
	ctx := context.Background()
	s := typqltest.TestSchema(t)

	u := newUser(t, s, 1, "ann", 41)
	_, err := db.Exec(ctx, typql.NewInsert(u))
	require.NoError(t, err)

	tx, err := db.Tx(ctx)
	require.NoError(t, err)
	counts, err := tx.Exec(ctx, typql.NewDelete(u))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, counts)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}
