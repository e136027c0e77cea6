package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

type usersTable struct {
	*types.Entity
	id, name, age, created *types.Column
}

func users() usersTable {
	e := types.NewEntity("main", "users")
	return usersTable{
		Entity:  e,
		id:      e.Add("id", types.BigInt(), types.PrimaryKey()),
		name:    e.Add("name", types.Text()),
		age:     e.Add("age", types.Integer()),
		created: e.Add("created", types.DateTime()),
	}
}

func compile(t *testing.T, stmt types.Statement, literal bool) *render.Context {
	t.Helper()
	ctx, err := render.Compile(New(), stmt, literal)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return ctx
}

func item(t *testing.T, u usersTable, e types.Expr) string {
	t.Helper()
	q := types.NewSelect(u.Entity)
	q.Columns = []types.Expr{e}
	sql := compile(t, q, true).Batches()[0].SQL
	const prefix, suffix = "SELECT ", ` FROM "users" a`
	if len(sql) < len(prefix)+len(suffix) {
		t.Fatalf("unexpected SQL %q", sql)
	}
	return sql[len(prefix) : len(sql)-len(suffix)]
}

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	caps := r.Capabilities()
	if caps.QuantifiedSubquery {
		t.Error("QuantifiedSubquery = true, want false")
	}
	if !caps.FunctionRegistry {
		t.Error("FunctionRegistry = false, want true")
	}
}

func TestRender_Pagination(t *testing.T) {
	u := users()
	tests := []struct {
		name          string
		limit, offset int64
		want          string
	}{
		{"limit and offset", 10, 5, `SELECT a."id" FROM "users" a LIMIT 10 OFFSET 5`},
		{"limit only", 10, 0, `SELECT a."id" FROM "users" a LIMIT 10`},
		{"offset only", 0, 5, `SELECT a."id" FROM "users" a LIMIT -1 OFFSET 5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := types.NewSelect(u.Entity)
			q.Columns = []types.Expr{u.id}
			q.Limit, q.Offset = tt.limit, tt.offset
			if got := compile(t, q, false).Batches()[0].SQL; got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Quantified(t *testing.T) {
	u := users()
	v := u.Clone()
	sub := types.NewSelect(v)
	sub.Columns = []types.Expr{v.Column("age")}

	tests := []struct {
		name  string
		op    types.CompareOp
		quant types.Quantifier
		want  string
	}{
		{"eq any", types.EQ, types.Any, `SELECT a."id" FROM "users" a WHERE a."age" IN (SELECT b."age" FROM "users" b)`},
		{"ne all", types.NE, types.All, `SELECT a."id" FROM "users" a WHERE a."age" NOT IN (SELECT b."age" FROM "users" b)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := types.NewSelect(u.Entity)
			q.Columns = []types.Expr{u.id}
			q.Where = types.NewQuantified(u.age, tt.op, tt.quant, sub)
			if got := compile(t, q, false).Batches()[0].SQL; got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}

	q := types.NewSelect(u.Entity)
	q.Where = types.NewQuantified(u.age, types.GT, types.All, sub)
	if _, err := render.Compile(New(), q, false); !render.IsUnsupported(err) {
		t.Errorf("> ALL error = %v, want UnsupportedFeatureError", err)
	}
}

func TestRender_Expressions(t *testing.T) {
	u := users()
	tests := []struct {
		name string
		expr types.Expr
		want string
	}{
		{"integer mod", types.NewArith(types.OpMod, u.age, types.Literal(7)), `(a."age" % 7)`},
		{"float mod", types.NewArith(types.OpMod, u.age, types.Literal(2.5)), `FMOD(a."age", 2.5)`},
		{"log2", types.NewFunc(types.FuncLog2, u.age), `LOG2(a."age")`},
		{"cast integer", types.NewCast(u.name, types.SmallInt()), `CAST((a."name") AS INTEGER)`},
		{"cast real", types.NewCast(u.age, types.Float()), `CAST((a."age") AS REAL)`},
		{"cast numeric", types.NewCast(u.age, types.Decimal(10, 2)), `CAST((a."age") AS NUMERIC)`},
		{"cast text", types.NewCast(u.age, types.VarChar(8)), `CAST((a."age") AS TEXT)`},
		{"cast blob", types.NewCast(u.name, types.VarBinary(8)), `CAST((a."name") AS BLOB)`},
		{"cast date", types.NewCast(u.name, types.Date()), `DATE(a."name")`},
		{"cast time", types.NewCast(u.name, types.Time()), `TIME(a."name")`},
		{"cast timestamp", types.NewCast(u.name, types.Timestamp()), `STRFTIME('%Y-%m-%d %H:%M:%f', a."name")`},
		{"boolean", types.Literal(true), `1`},
		{"blob", types.Literal([]byte{0x01, 0xab}), `X'01AB'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := item(t, u, tt.expr); got != tt.want {
				t.Errorf("item = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_DateArith(t *testing.T) {
	u := users()
	tests := []struct {
		name     string
		base     types.Expr
		parts    []types.Part
		subtract bool
		want     string
	}{
		{
			name:  "timestamp",
			base:  u.created,
			parts: []types.Part{{Amount: 1, Unit: types.Days}, {Amount: 2, Unit: types.Hours}},
			want:  `STRFTIME('%Y-%m-%d %H:%M:%f', a."created", '+1 days', '+2 hours')`,
		},
		{
			name:     "date",
			base:     types.NewCast(u.name, types.Date()),
			parts:    []types.Part{{Amount: 1, Unit: types.Months}},
			subtract: true,
			want:     `DATE(DATE(a."name"), '-1 months')`,
		},
		{
			name:  "fractional seconds",
			base:  u.created,
			parts: []types.Part{{Amount: 1500, Unit: types.Millis}},
			want:  `STRFTIME('%Y-%m-%d %H:%M:%f', a."created", '+1.500000 seconds')`,
		},
		{
			name:  "weeks as days",
			base:  types.NewCast(u.name, types.Time()),
			parts: []types.Part{{Amount: 2, Unit: types.Weeks}},
			want:  `TIME(TIME(a."name"), '+14 days')`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := types.NewDateArith(tt.base, types.NewInterval(tt.parts...), tt.subtract)
			if got := item(t, u, e); got != tt.want {
				t.Errorf("item = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValues(t *testing.T) {
	r := New()
	ts := time.Date(2024, 1, 31, 10, 0, 0, 123000000, time.UTC)
	tests := []struct {
		name string
		typ  types.Type
		v    any
		lit  string
		bind any
	}{
		{"date", types.Date(), ts, `'2024-01-31'`, "2024-01-31"},
		{"datetime", types.DateTime(), ts, `'2024-01-31 10:00:00.123'`, "2024-01-31 10:00:00.123"},
		{"time", types.Time(), 90*time.Second + 250*time.Millisecond, `'00:01:30.250'`, "00:01:30.250"},
		{"boolean", types.Boolean(), false, `0`, int64(0)},
		{"integer", types.Integer(), 7, `7`, int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := r.Literal(tt.typ, tt.v)
			if err != nil {
				t.Fatalf("Literal() error = %v", err)
			}
			if lit != tt.lit {
				t.Errorf("Literal() = %q, want %q", lit, tt.lit)
			}
			arg, err := r.Bind(tt.typ, tt.v)
			if err != nil {
				t.Fatalf("Bind() error = %v", err)
			}
			if arg != tt.bind {
				t.Errorf("Bind() = %#v, want %#v", arg, tt.bind)
			}
		})
	}
}

func exec(t *testing.T, db *sql.DB, ctx *render.Context) {
	t.Helper()
	r := New()
	for _, b := range ctx.Batches() {
		args := make([]any, len(b.Params))
		for i, p := range b.Params {
			arg, err := r.Bind(p.Type, p.Value)
			if err != nil {
				t.Fatalf("Bind() error = %v", err)
			}
			args[i] = arg
		}
		if _, err := db.Exec(b.SQL, args...); err != nil {
			t.Fatalf("Exec(%q) error = %v", b.SQL, err)
		}
	}
	if err := ctx.RunAfterExecute(); err != nil {
		t.Fatalf("RunAfterExecute() error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	r := New()
	if err := r.RegisterFunctions(context.Background(), nil); err != nil {
		t.Fatalf("RegisterFunctions() error = %v", err)
	}
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER, created TEXT)`); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}

	u := users()
	_ = u.id.Set(1)
	_ = u.name.Set("ann")
	_ = u.age.Set(41)
	_ = u.created.Set(time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC))
	exec(t, db, compile(t, types.NewInsert(u.Entity), false))

	u.age.SetExpr(types.NewArith(types.OpAdd, u.age, types.Literal(1)))
	exec(t, db, compile(t, types.NewUpdate(u.Entity), false))
	if got := u.age.Value(); got != int64(42) {
		t.Fatalf("age after update = %#v, want 42", got)
	}

	q := types.NewSelect(u.Entity)
	q.Columns = []types.Expr{
		types.NewDateArith(u.created, types.NewInterval(types.Part{Amount: 1, Unit: types.Months}), false),
		types.NewFunc(types.FuncLog2, types.Literal(8)),
		types.NewArith(types.OpMod, u.age, types.Literal(2.5)),
		u.age,
	}
	ctx := compile(t, q, false)
	b := ctx.Batches()[0]
	args := make([]any, len(b.Params))
	for i, p := range b.Params {
		if args[i], err = r.Bind(p.Type, p.Value); err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
	}

	var created, log2, mod, age any
	if err := db.QueryRow(b.SQL, args...).Scan(&created, &log2, &mod, &age); err != nil {
		t.Fatalf("QueryRow(%q) error = %v", b.SQL, err)
	}

	gotCreated, err := r.Read(types.DateTime(), created)
	if err != nil {
		t.Fatalf("Read(created) error = %v", err)
	}
	if want := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC); !gotCreated.(time.Time).Equal(want) {
		t.Errorf("created + 1 month = %v, want %v", gotCreated, want)
	}
	if got, _ := r.Read(types.Double(), log2); got != 3.0 {
		t.Errorf("LOG2(8) = %v, want 3", got)
	}
	if got, _ := r.Read(types.Double(), mod); got != 2.0 {
		t.Errorf("MOD(42, 2.5) = %v, want 2", got)
	}
	if got, _ := r.Read(types.Integer(), age); got != int64(42) {
		t.Errorf("age = %v, want 42", got)
	}
}
