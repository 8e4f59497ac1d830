package quantity

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches one of these
// with errors.Is.
var (
	// ErrNotSet is returned when a scalar, vector, point, rotation or time
	// is read before it was assigned a value.
	ErrNotSet = errors.New("value not set")
	// ErrUndefinedOperation is returned when an operation has no rule for
	// the kinds of its operands.
	ErrUndefinedOperation = errors.New("undefined operation")
	// ErrDivideByZero is returned for a zero denominator or when
	// normalizing a zero-magnitude vector.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrWrongCoordinateBase is returned when operands do not share a base
	// frame, or a frame is asked for components of a foreign vector.
	ErrWrongCoordinateBase = errors.New("wrong coordinate base")
	// ErrIllegalState is returned when an internal step fails after its
	// inputs were validated.
	ErrIllegalState = errors.New("illegal state")

	ErrOutOfRange     = errors.New("value out of range")
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrDuplicateFrame = errors.New("duplicate frame name")
)

// OperationError describes a failed operation on one or two operands.
type OperationError struct {
	Op       string // operation name, e.g. "multiply"
	Operands []Kind // kinds of the operands, in call order
	Err      error  // one of the Err* sentinels
}

// Error returns the error message for OperationError.
func (e *OperationError) Error() string {
	names := make([]string, len(e.Operands))
	for i, k := range e.Operands {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s(%s): %v", e.Op, strings.Join(names, ", "), e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op string, err error, operands ...Kind) error {
	return &OperationError{Op: op, Operands: operands, Err: err}
}

// illegalState wraps an unexpected failure of an already validated step.
func illegalState(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIllegalState, step, err)
}
