package typql_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/typql"
	"github.com/zoobzio/typql/sqlerr"
)

func openSQLite(t *testing.T) *typql.DB {
	t.Helper()
	db, err := typql.Open("sqlite", ":memory:", typql.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	db.SQL().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, ddl := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER, created TEXT)`,
		`CREATE TABLE tokens (id INTEGER PRIMARY KEY, token TEXT NOT NULL)`,
	} {
		_, err := db.SQL().Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func setUser(t *testing.T, e *typql.Entity, id int64, name string, age int) {
	t.Helper()
	require.NoError(t, e.Column("id").Set(id))
	require.NoError(t, e.Column("name").Set(name))
	require.NoError(t, e.Column("age").Set(age))
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	schema := createTestSchema(t)
	created := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	ann := schema.Entity("users", "id")
	setUser(t, ann, 1, "ann", 41)
	require.NoError(t, ann.Column("created").Set(created))
	bob := schema.Entity("users", "id")
	setUser(t, bob, 2, "bob", 30)
	require.NoError(t, bob.Column("created").Set(created))

	counts, err := db.Exec(ctx, typql.NewInsert(ann, bob))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1}, counts)

	age := ann.Column("age")
	age.SetExpr(typql.NewArith(typql.OpAdd, age, typql.Literal(1)))
	counts, err = db.Exec(ctx, typql.NewUpdate(ann))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, counts)
	assert.EqualValues(t, 42, age.Value())

	r := schema.Entity("users", "id")
	q := typql.NewSelect(r)
	q.Where = typql.NewCompare(r.Column("age"), typql.GT, typql.Literal(40))
	rows, err := db.Query(ctx, q)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	require.NoError(t, rows.Load())
	assert.Equal(t, int64(1), r.Column("id").Value())
	assert.Equal(t, "ann", r.Column("name").Value())
	assert.EqualValues(t, 42, r.Column("age").Value())
	got, ok := r.Column("created").Value().(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(created), "created = %v", got)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())
}

func TestSQLite_RegisteredFunctions(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	schema := createTestSchema(t)

	u := schema.Entity("users", "id")
	setUser(t, u, 1, "ann", 42)
	_, err := db.Exec(ctx, typql.NewInsert(u))
	require.NoError(t, err)

	r := schema.Entity("users", "id")
	q := typql.NewSelect(r)
	q.Columns = []typql.Expr{
		typql.NewFunc(typql.FuncLog2, typql.Literal(8)),
		typql.NewFunc(typql.FuncPower, r.Column("age"), typql.Literal(2)),
	}
	rows, err := db.Query(ctx, q)
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3.0, all[0][0])
	assert.Equal(t, 1764.0, all[0][1])
}

func TestSQLite_ConstraintViolation(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	schema := createTestSchema(t)

	first := schema.Entity("users", "id")
	setUser(t, first, 1, "ann", 41)
	_, err := db.Exec(ctx, typql.NewInsert(first))
	require.NoError(t, err)

	second := schema.Entity("users", "id")
	setUser(t, second, 2, "bob", 30)
	dup := first.Clone()
	setUser(t, dup, 1, "ann again", 1)

	counts, err := db.Exec(ctx, typql.NewInsert(second, dup))
	var execErr *typql.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.Index)
	assert.Equal(t, sqlerr.UniqueViolation, execErr.Category)
	assert.Equal(t, []int64{1}, counts)
}

func TestSQLite_GeneratedUUID(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	tokens := typql.NewEntity("app", "tokens")
	id := tokens.Add("id", typql.BigInt(), typql.PrimaryKey())
	token := tokens.Add("token", typql.Char(36), typql.GenerateOnInsert(typql.GenerateUUID))
	require.NoError(t, id.Set(1))

	_, err := db.Exec(ctx, typql.NewInsert(tokens))
	require.NoError(t, err)
	generated, ok := token.Value().(string)
	require.True(t, ok)
	assert.Len(t, generated, 36)

	var stored string
	require.NoError(t, db.SQL().QueryRow(`SELECT token FROM tokens WHERE id = 1`).Scan(&stored))
	assert.Equal(t, generated, stored)
}

func TestSQLite_TxRollback(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	schema := createTestSchema(t)

	u := schema.Entity("users", "id")
	setUser(t, u, 1, "ann", 41)
	_, err := db.Exec(ctx, typql.NewInsert(u))
	require.NoError(t, err)

	tx, err := db.Tx(ctx)
	require.NoError(t, err)
	counts, err := tx.Exec(ctx, typql.NewDelete(u))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, counts)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.SQL().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}
