package table

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrMissingResource means an input table could not be located.
	ErrMissingResource = eris.New("table: resource not found")
	// ErrEmptyResource means an input table has no data rows.
	ErrEmptyResource = eris.New("table: resource has no rows")
)

// MalformedColumnError reports a column required for matching that is absent
// from an input table's header.
type MalformedColumnError struct {
	Resource string
	Path     string
	Column   string
}

func (e *MalformedColumnError) Error() string {
	return fmt.Sprintf("table: %s (%s) is missing required column %q", e.Resource, e.Path, e.Column)
}
