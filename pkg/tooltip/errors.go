package tooltip

import (
	"errors"
	"fmt"
)

// InvalidPositionError is returned when a side outside left, right, top
// and bottom is requested.
type InvalidPositionError struct {
	Position string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("tooltip position %q is invalid", e.Position)
}

// IsInvalidPosition reports whether err is or wraps an InvalidPositionError.
func IsInvalidPosition(err error) bool {
	var target *InvalidPositionError
	return errors.As(err, &target)
}
