// Package sqlerr classifies driver errors into a vendor-neutral taxonomy.
package sqlerr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Category is the normalized kind of an execution failure.
type Category int

const (
	Unknown Category = iota
	InvalidSchema
	UniqueViolation
	ForeignKeyViolation
	CheckViolation
	NotNullViolation
	Connection
)

func (c Category) String() string {
	switch c {
	case InvalidSchema:
		return "invalid schema"
	case UniqueViolation:
		return "unique violation"
	case ForeignKeyViolation:
		return "foreign key violation"
	case CheckViolation:
		return "check violation"
	case NotNullViolation:
		return "not null violation"
	case Connection:
		return "connection"
	}
	return "unknown"
}

// IsConstraint reports whether c is one of the integrity constraint
// categories.
func (c Category) IsConstraint() bool {
	switch c {
	case UniqueViolation, ForeignKeyViolation, CheckViolation, NotNullViolation:
		return true
	}
	return false
}

// IsConstraint reports whether err is an integrity constraint violation.
func IsConstraint(err error) bool {
	return Classify(err).IsConstraint()
}

// Classify maps err onto a Category. Typed driver errors are matched by
// code; anything the code leaves open falls back to message inspection.
func Classify(err error) Category {
	if err == nil {
		return Unknown
	}
	if c := codeCategory(err); c != Unknown {
		return c
	}
	return messageCategory(err.Error())
}

func codeCategory(err error) Category {
	var (
		myErr   *mysql.MySQLError
		pgErr   *pgconn.PgError
		pqErr   *pq.Error
		msErr   mssql.Error
		liteErr *sqlite.Error
		netErr  net.Error
	)
	switch {
	case errors.As(err, &myErr):
		return mysqlCategory(myErr.Number)
	case errors.As(err, &pgErr):
		return sqlstateCategory(pgErr.Code)
	case errors.As(err, &pqErr):
		return sqlstateCategory(string(pqErr.Code))
	case errors.As(err, &msErr):
		return mssqlCategory(msErr.Number, msErr.Message)
	case errors.As(err, &liteErr):
		return sqliteCategory(liteErr.Code())
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.As(err, &netErr):
		return Connection
	}
	return Unknown
}

func mysqlCategory(n uint16) Category {
	switch n {
	case 1062, 1586:
		return UniqueViolation
	case 1216, 1217, 1451, 1452:
		return ForeignKeyViolation
	case 3819:
		return CheckViolation
	case 1048, 1364:
		return NotNullViolation
	case 1046, 1049, 1054, 1146:
		return InvalidSchema
	case 2002, 2003, 2006, 2013:
		return Connection
	}
	return Unknown
}

func sqlstateCategory(code string) Category {
	switch code {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23514":
		return CheckViolation
	case "23502":
		return NotNullViolation
	case "3F000", "3D000", "42P01", "42703", "42883":
		return InvalidSchema
	}
	if strings.HasPrefix(code, "08") {
		return Connection
	}
	return Unknown
}

func mssqlCategory(n int32, msg string) Category {
	switch n {
	case 2601, 2627:
		return UniqueViolation
	case 547:
		if strings.Contains(msg, "CHECK") {
			return CheckViolation
		}
		return ForeignKeyViolation
	case 515:
		return NotNullViolation
	case 207, 208, 2812, 4060:
		return InvalidSchema
	}
	return Unknown
}

func sqliteCategory(code int) Category {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return Connection
	}
	// SQLITE_ERROR covers schema errors; the message tells them apart.
	return Unknown
}

// messages are lower-cased fragments of driver messages, checked in order.
var messages = []struct {
	fragment string
	category Category
}{
	{"unique constraint", UniqueViolation},
	{"duplicate key", UniqueViolation},
	{"duplicate entry", UniqueViolation},
	{"foreign key constraint", ForeignKeyViolation},
	{"check constraint", CheckViolation},
	{"not null constraint", NotNullViolation},
	{"cannot be null", NotNullViolation},
	{"no such table", InvalidSchema},
	{"no such column", InvalidSchema},
	{"does not exist", InvalidSchema},
	{"doesn't exist", InvalidSchema},
	{"unknown column", InvalidSchema},
	{"connection refused", Connection},
	{"broken pipe", Connection},
	{"bad connection", Connection},
}

func messageCategory(msg string) Category {
	msg = strings.ToLower(msg)
	for _, m := range messages {
		if strings.Contains(msg, m.fragment) {
			return m.category
		}
	}
	return Unknown
}
