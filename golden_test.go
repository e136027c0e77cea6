package typql_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/zoobzio/typql"
)

// pagedSelect reads a page of users older than a bound value.
func pagedSelect() typql.Statement {
	users := typql.NewEntity("app", "users")
	id := users.Add("id", typql.BigInt(), typql.PrimaryKey())
	name := users.Add("name", typql.VarChar(64))
	age := users.Add("age", typql.Integer())

	q := typql.NewSelect(users)
	q.Columns = []typql.Expr{id, name}
	q.Where = typql.NewCompare(age, typql.GE, typql.Literal(18))
	q.OrderBy = []typql.Order{{Expr: name}}
	q.Limit = 10
	q.Offset = 5
	return q
}

// counterUpdate increments a counter in the database.
func counterUpdate() typql.Statement {
	counters := typql.NewEntity("app", "counters")
	id := counters.Add("id", typql.BigInt(), typql.PrimaryKey())
	hits := counters.Add("hits", typql.Integer())
	_ = id.Load(int64(7))
	_ = hits.Load(int64(41))
	hits.SetExpr(typql.NewArith(typql.OpAdd, hits, typql.Literal(1)))
	return typql.NewUpdate(counters)
}

func TestGolden_Dialects(t *testing.T) {
	statements := []struct {
		name  string
		build func() typql.Statement
	}{
		{"paged_select", pagedSelect},
		{"counter_update", counterUpdate},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, v := range typql.Vendors() {
		for _, st := range statements {
			name := v.String() + "_" + st.name
			t.Run(name, func(t *testing.T) {
				ctx, err := typql.Compile(typql.MustDialect(v), st.build(), false)
				if err != nil {
					t.Fatalf("Compile() error = %v", err)
				}
				var out strings.Builder
				for _, b := range ctx.Batches() {
					out.WriteString(b.SQL)
					out.WriteString("\n")
				}
				g.Assert(t, name, []byte(out.String()))
			})
		}
	}
}
