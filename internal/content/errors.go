package content

import (
	"errors"
	"fmt"
)

var ErrNotSerializable = errors.New("definition is not serializable")

// ValidationError reports a rejected name or definition field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
