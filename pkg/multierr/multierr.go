package multierr

import (
	"bytes"
	"errors"
	"fmt"
)

// Error collects independent failures, such as the per-stack lookups of one request.
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"

	case 1:
		return e[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, "\n\t* %v", err)
		}
		return buf.String()
	}
}

// Append adds err to e, ignoring nil errors.
//
//	var e Error
//	e.Append(err)
func (e *Error) Append(err error) {
	if e == nil || err == nil {
		return
	}
	*e = append(*e, err)
}

// ErrOrNil converts e into an [error], avoiding the typed nil trap:
//
//	(Error)(nil) != nil
//
// A single error is returned unwrapped.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e
	}
}

// Unwrap implements the multi-error interface used by [errors.Is] and [errors.As].
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether any member matches target.
func (e Error) Is(target error) bool {
	for _, err := range e {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
