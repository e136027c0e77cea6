package typql

import (
	"errors"
	"fmt"

	"github.com/zoobzio/typql/internal/render"
	"github.com/zoobzio/typql/internal/types"
	"github.com/zoobzio/typql/sqlerr"
)

// Compile-time error types re-exported from internal packages.
type (
	ConfigError             = render.ConfigError
	UnsupportedFeatureError = render.UnsupportedFeatureError
	CoercionError           = types.CoercionError
)

// IsUnsupported reports whether err is an UnsupportedFeatureError.
func IsUnsupported(err error) bool { return render.IsUnsupported(err) }

// IsConfig reports whether err is a ConfigError.
func IsConfig(err error) bool { return render.IsConfig(err) }

// ExecError reports a statement the database rejected. Index is the
// position of the failing entry in the compiled batch; entries before it
// have run and are not rolled back.
type ExecError struct {
	Index    int
	SQL      string
	Category sqlerr.Category
	Err      error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("typql: entry %d (%s): %v", e.Index, e.Category, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// IsExecError reports whether err carries an ExecError.
func IsExecError(err error) bool {
	var e *ExecError
	return errors.As(err, &e)
}

// IsConstraint reports whether err is an execution failure caused by an
// integrity constraint.
func IsConstraint(err error) bool {
	var e *ExecError
	if errors.As(err, &e) {
		return e.Category.IsConstraint()
	}
	return false
}

func newExecError(index int, query string, err error) *ExecError {
	return &ExecError{Index: index, SQL: query, Category: sqlerr.Classify(err), Err: err}
}
