package falcon9

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidStateError is returned when an operation is attempted in a state
// that forbids it: double ignition, double separation, staging past the last
// stage and so on.
type InvalidStateError struct {
	Op     string
	Target string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Target, e.Reason)
}

// InvalidArgumentError is returned when the caller supplied an out-of-range
// value.
type InvalidArgumentError struct {
	Op     string
	Target string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s %s: %s (got %v)", e.Op, e.Target, e.Reason, e.Value)
}

// CatastrophicFailureError is returned when more engines of a stage burned
// out than the stage tolerates.
type CatastrophicFailureError struct {
	Stage     string
	BurnedOut int
	Tolerance int
}

func (e *CatastrophicFailureError) Error() string {
	return fmt.Sprintf("catastrophic failure of stage %s: %d engines burned out, %d tolerated", e.Stage, e.BurnedOut, e.Tolerance)
}

func invalidState(op, target, reason string) error {
	return errors.WithStack(&InvalidStateError{Op: op, Target: target, Reason: reason})
}

func invalidArgument(op, target string, value interface{}, reason string) error {
	return errors.WithStack(&InvalidArgumentError{Op: op, Target: target, Value: value, Reason: reason})
}

func catastrophicFailure(stage string, burnedOut, tolerance int) error {
	return errors.WithStack(&CatastrophicFailureError{Stage: stage, BurnedOut: burnedOut, Tolerance: tolerance})
}

// IsInvalidState reports whether any error in err's chain is an *InvalidStateError.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

// IsInvalidArgument reports whether any error in err's chain is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsCatastrophicFailure reports whether any error in err's chain is a *CatastrophicFailureError.
func IsCatastrophicFailure(err error) bool {
	var target *CatastrophicFailureError
	return errors.As(err, &target)
}
