package parsers

import (
	"fmt"
	"strings"
)

// SchemaError reports structurally unusable input: required columns absent,
// or no usable date signal in any row. It is fatal to the request, unlike a
// malformed cell, which silently coerces to zero.
type SchemaError struct {
	MissingColumns []string
	Reason         string
}

func (e *SchemaError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
	}
	return e.Reason
}
