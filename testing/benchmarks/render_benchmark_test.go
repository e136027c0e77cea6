// Package benchmarks provides performance benchmarks for typql.
package benchmarks

import (
	"testing"

	"github.com/zoobzio/typql"
	typqltest "github.com/zoobzio/typql/testing"
)

func compile(b *testing.B, v typql.Vendor, build func() typql.Statement) {
	b.Helper()
	d := typql.MustDialect(v)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := typql.Compile(d, build(), false); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSimpleSelect measures a SELECT of every column.
func BenchmarkSimpleSelect(b *testing.B) {
	s := typqltest.TestSchema(b)
	users := s.Entity("users", "id")
	compile(b, typql.Postgres, func() typql.Statement {
		return typql.NewSelect(users)
	})
}

// BenchmarkSelectWithWhere measures a filtered SELECT with a compound
// condition.
func BenchmarkSelectWithWhere(b *testing.B) {
	s := typqltest.TestSchema(b)
	users := s.Entity("users", "id")
	compile(b, typql.MySQL, func() typql.Statement {
		q := typql.NewSelect(users)
		q.Columns = []typql.Expr{users.Column("id"), users.Column("username")}
		q.Where = typql.NewTerm(typql.And,
			typql.NewCompare(users.Column("age"), typql.GE, typql.Literal(18)),
			typql.NewLike(users.Column("email"), typql.Literal("%@example.com")),
		)
		return q
	})
}

// BenchmarkJoinAggregate measures a grouped join.
func BenchmarkJoinAggregate(b *testing.B) {
	s := typqltest.TestSchema(b)
	users := s.Entity("users", "id")
	orders := s.Entity("orders", "id")
	compile(b, typql.Postgres, func() typql.Statement {
		q := typql.NewSelect(users)
		q.Joins = []typql.Join{{
			Kind:   typql.LeftJoin,
			Target: orders,
			On:     typql.NewCompare(orders.Column("user_id"), typql.EQ, users.Column("id")),
		}}
		q.Columns = []typql.Expr{
			users.Column("username"),
			typql.NewAs(typql.NewFunc(typql.FuncSum, orders.Column("total")), "spent"),
		}
		q.GroupBy = []typql.Expr{users.Column("username")}
		q.OrderBy = []typql.Order{{Expr: users.Column("username")}}
		return q
	})
}

// BenchmarkPagedSelect measures pagination across every vendor, including
// the wrapped forms.
func BenchmarkPagedSelect(b *testing.B) {
	for _, v := range typql.Vendors() {
		b.Run(v.String(), func(b *testing.B) {
			s := typqltest.TestSchema(b)
			posts := s.Entity("posts", "id")
			compile(b, v, func() typql.Statement {
				q := typql.NewSelect(posts)
				q.OrderBy = []typql.Order{{Expr: posts.Column("published"), Desc: true}}
				q.Limit = 25
				q.Offset = 50
				return q
			})
		})
	}
}

// BenchmarkSubquery measures a correlated EXISTS.
func BenchmarkSubquery(b *testing.B) {
	s := typqltest.TestSchema(b)
	users := s.Entity("users", "id")
	posts := s.Entity("posts", "id")
	compile(b, typql.Oracle, func() typql.Statement {
		inner := typql.NewSelect(posts)
		inner.Columns = []typql.Expr{posts.Column("id")}
		inner.Where = typql.NewCompare(posts.Column("user_id"), typql.EQ, users.Column("id"))

		q := typql.NewSelect(users)
		q.Where = typql.NewExists(inner)
		return q
	})
}

// BenchmarkSearchedCase measures CASE rendering.
func BenchmarkSearchedCase(b *testing.B) {
	s := typqltest.TestSchema(b)
	posts := s.Entity("posts", "id")
	compile(b, typql.SQLite, func() typql.Statement {
		q := typql.NewSelect(posts)
		q.Columns = []typql.Expr{
			posts.Column("title"),
			typql.NewAs(typql.NewSearchedCase().
				WhenTrue(typql.NewCompare(posts.Column("views"), typql.GT, typql.Literal(1000)), typql.Literal("hot")).
				WhenTrue(typql.NewCompare(posts.Column("views"), typql.GT, typql.Literal(100)), typql.Literal("warm")).
				Otherwise(typql.Literal("cold")), "heat"),
		}
		return q
	})
}

// BenchmarkEntityUpdate measures an entity write with an indirection.
func BenchmarkEntityUpdate(b *testing.B) {
	s := typqltest.TestSchema(b)
	compile(b, typql.MySQL, func() typql.Statement {
		counters := s.Entity("counters", "id")
		_ = counters.Column("id").Load(int64(1))
		hits := counters.Column("hits")
		_ = hits.Load(int64(10))
		hits.SetExpr(typql.NewArith(typql.OpAdd, hits, typql.Literal(1)))
		return typql.NewUpdate(counters)
	})
}

// BenchmarkEntityInsertMany measures one INSERT per entity.
func BenchmarkEntityInsertMany(b *testing.B) {
	s := typqltest.TestSchema(b)
	compile(b, typql.Derby, func() typql.Statement {
		rows := make([]*typql.Entity, 50)
		for i := range rows {
			e := s.Entity("orders", "id")
			_ = e.Column("id").Set(i)
			_ = e.Column("user_id").Set(i % 7)
			_ = e.Column("total").Set("19.99")
			_ = e.Column("status").Set("new")
			rows[i] = e
		}
		return typql.NewInsert(rows...)
	})
}

// BenchmarkDateArithmetic measures interval rendering.
func BenchmarkDateArithmetic(b *testing.B) {
	s := typqltest.TestSchema(b)
	users := s.Entity("users", "id")
	compile(b, typql.MySQL, func() typql.Statement {
		q := typql.NewSelect(users)
		q.Where = typql.NewCompare(users.Column("created_at"), typql.GT,
			typql.NewDateArith(typql.NewFunc(typql.FuncNow), typql.NewInterval(
				typql.Part{Amount: 30, Unit: typql.Days},
			), true))
		return q
	})
}
