// Package typql compiles typed query trees into vendor SQL and runs them.
//
// Queries are built from entities, whose columns are typed value cells,
// and from expression and condition nodes. A dialect renders the tree into
// one or more batch entries with positional parameters:
//
//	users := typql.NewEntity("app", "users")
//	id := users.Add("id", typql.BigInt(), typql.PrimaryKey())
//	name := users.Add("name", typql.VarChar(64))
//
//	q := typql.NewSelect(users)
//	q.Columns = []typql.Expr{id, name}
//	q.Where = typql.NewCompare(id, typql.GT, typql.Literal(10))
//	q.Limit = 20
//
//	ctx, err := typql.Compile(typql.MustDialect(typql.Oracle), q, false)
//
// # Writes and Generation
//
// Entity writes compile one statement per entity. Columns may generate
// their value on insert or update (increment, current time, UUID), and a
// column may carry an indirection, an expression compiled inline and
// evaluated client-side after the write succeeds:
//
//	visits.SetExpr(typql.NewArith(typql.OpAdd, visits, typql.Literal(1)))
//	counts, err := db.Exec(ctx, typql.NewUpdate(users))
//
// # Execution
//
// DB and Tx group consecutive statements with identical SQL onto one
// prepared statement, return affected-row counts in call order and
// classify driver failures with the sqlerr taxonomy.
//
// # Dialects
//
// MySQL, Oracle, SQLite, Derby and PostgreSQL are registered. Constructs a
// vendor cannot express surface as UnsupportedFeatureError at compile time.
package typql

import (
	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
)

// Node types re-exported from internal/types.
type (
	Node      = types.Node
	Expr      = types.Expr
	Condition = types.Condition
	Statement = types.Statement

	Entity     = types.Entity
	Column     = types.Column
	Select     = types.Select
	Insert     = types.Insert
	Update     = types.Update
	Delete     = types.Delete
	Join       = types.Join
	Order      = types.Order
	Arith      = types.Arith
	Func       = types.Func
	Concat     = types.Concat
	Cast       = types.Cast
	As         = types.As
	Case       = types.Case
	Subquery   = types.Subquery
	Interval   = types.Interval
	Part       = types.Part
	DateArith  = types.DateArith
	Compare    = types.Compare
	In         = types.In
	Like       = types.Like
	Between    = types.Between
	IsNull     = types.IsNull
	Quantified = types.Quantified
	Exists     = types.Exists
	Term       = types.Term
)

// Type is a declared SQL type.
type Type = types.Type

// Kind is the family of a declared SQL type.
type Kind = types.Kind

// ColumnOption configures a column when it is added to an entity.
type ColumnOption = types.ColumnOption

// Generation is a rule producing a column value on insert or update.
type Generation = types.Generation

// Re-export generation rules for public API.
const (
	GenerateNone      = types.GenerateNone
	GenerateIncrement = types.GenerateIncrement
	GenerateNow       = types.GenerateNow
	GenerateUUID      = types.GenerateUUID
)

// ArithOp is an arithmetic operator.
type ArithOp = types.ArithOp

// Re-export arithmetic operators for public API.
const (
	OpAdd = types.OpAdd
	OpSub = types.OpSub
	OpMul = types.OpMul
	OpDiv = types.OpDiv
	OpMod = types.OpMod
)

// CompareOp is a comparison operator.
type CompareOp = types.CompareOp

// Re-export comparison operators for public API.
const (
	EQ = types.EQ
	NE = types.NE
	LT = types.LT
	LE = types.LE
	GT = types.GT
	GE = types.GE
)

// BoolOp joins conditions.
type BoolOp = types.BoolOp

const (
	And = types.And
	Or  = types.Or
)

// Quantifier is ANY or ALL in a quantified comparison.
type Quantifier = types.Quantifier

const (
	Any = types.Any
	All = types.All
)

// JoinKind selects the join type.
type JoinKind = types.JoinKind

const (
	InnerJoin = types.InnerJoin
	LeftJoin  = types.LeftJoin
	RightJoin = types.RightJoin
	CrossJoin = types.CrossJoin
)

// BetweenKind selects how BETWEEN compares its operands.
type BetweenKind = types.BetweenKind

const (
	BetweenNumeric  = types.BetweenNumeric
	BetweenTemporal = types.BetweenTemporal
	BetweenTime     = types.BetweenTime
	BetweenText     = types.BetweenText
)

// Unit is an interval unit.
type Unit = types.Unit

// Re-export interval units for public API.
const (
	Micros    = types.Micros
	Millis    = types.Millis
	Seconds   = types.Seconds
	Minutes   = types.Minutes
	Hours     = types.Hours
	Days      = types.Days
	Weeks     = types.Weeks
	Months    = types.Months
	Quarters  = types.Quarters
	Years     = types.Years
	Decades   = types.Decades
	Centuries = types.Centuries
	Millennia = types.Millennia
)

// FuncName names a portable scalar or aggregate function.
type FuncName = types.FuncName

// Re-export function names for public API.
const (
	FuncAbs      = types.FuncAbs
	FuncCeil     = types.FuncCeil
	FuncFloor    = types.FuncFloor
	FuncRound    = types.FuncRound
	FuncSqrt     = types.FuncSqrt
	FuncExp      = types.FuncExp
	FuncLn       = types.FuncLn
	FuncLog2     = types.FuncLog2
	FuncLog10    = types.FuncLog10
	FuncPower    = types.FuncPower
	FuncMod      = types.FuncMod
	FuncUpper    = types.FuncUpper
	FuncLower    = types.FuncLower
	FuncTrim     = types.FuncTrim
	FuncLength   = types.FuncLength
	FuncCoalesce = types.FuncCoalesce
	FuncNow      = types.FuncNow
	FuncToday    = types.FuncToday
	FuncCount    = types.FuncCount
	FuncSum      = types.FuncSum
	FuncAvg      = types.FuncAvg
	FuncMin      = types.FuncMin
	FuncMax      = types.FuncMax
)

// Constructors re-exported from internal/types.
var (
	NewEntity  = types.NewEntity
	NewDerived = types.NewDerived

	NewSelect        = types.NewSelect
	NewInsert        = types.NewInsert
	NewInsertValues  = types.NewInsertValues
	NewUpdate        = types.NewUpdate
	NewUpdateWhere   = types.NewUpdateWhere
	NewDelete        = types.NewDelete
	NewDeleteWhere   = types.NewDeleteWhere
	NewArith         = types.NewArith
	NewFunc          = types.NewFunc
	NewConcat        = types.NewConcat
	NewCast          = types.NewCast
	NewAs            = types.NewAs
	NewCase          = types.NewCase
	NewSearchedCase  = types.NewSearchedCase
	NewSubquery      = types.NewSubquery
	NewInterval      = types.NewInterval
	NewDateArith     = types.NewDateArith
	NewCompare       = types.NewCompare
	NewIn            = types.NewIn
	NewInQuery       = types.NewInQuery
	NewLike          = types.NewLike
	NewBetween       = types.NewBetween
	NewIsNull        = types.NewIsNull
	NewQuantified    = types.NewQuantified
	NewExists        = types.NewExists
	NewTerm          = types.NewTerm
	NewValue         = types.NewValue
	Literal          = types.Literal
	Wrap             = types.Wrap
	Resolve          = types.Resolve
	Eval             = types.Eval
	ParseType        = types.ParseType
	TypeOf           = types.TypeOf
	PrimaryKey       = types.PrimaryKey
	UpdateKey        = types.UpdateKey
	GenerateOnInsert = types.GenerateOnInsert
	GenerateOnUpdate = types.GenerateOnUpdate
)

// ErrUnitUnsupported is returned when an interval unit has no exact
// conversion to a unit the dialect supports.
var ErrUnitUnsupported = types.ErrUnitUnsupported

// Type constructors re-exported from internal/types.
var (
	Boolean   = types.Boolean
	TinyInt   = types.TinyInt
	SmallInt  = types.SmallInt
	MediumInt = types.MediumInt
	Integer   = types.Integer
	BigInt    = types.BigInt
	Decimal   = types.Decimal
	Float     = types.Float
	Double    = types.Double
	Char      = types.Char
	VarChar   = types.VarChar
	Text      = types.Text
	Binary    = types.Binary
	VarBinary = types.VarBinary
	Blob      = types.Blob
	Date      = types.Date
	Time      = types.Time
	DateTime  = types.DateTime
	Timestamp = types.Timestamp
)

// Compilation types re-exported from internal/render.
type (
	Dialect      = render.Dialect
	Context      = render.Context
	Batch        = render.Batch
	Param        = render.Param
	Capabilities = render.Capabilities
	Vendor       = render.Vendor
)

// Re-export vendors for public API.
const (
	MySQL    = render.MySQL
	Oracle   = render.Oracle
	SQLite   = render.SQLite
	Derby    = render.Derby
	Postgres = render.Postgres
)
