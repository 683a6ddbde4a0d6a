package wifi

import (
	"errors"
	"fmt"
)

var (
	ErrBackendInit   = errors.New("backend initialization failed")
	ErrLookup        = errors.New("lookup failed")
	ErrNoData        = errors.New("no data")
	ErrMutation      = errors.New("mutation failed")
	ErrMultipleAP    = errors.New("multiple access points configured")
	ErrNotFound      = errors.New("not found")
	ErrNotSupported  = errors.New("not supported")
	ErrSessionClosed = errors.New("session closed")
)

// MutationError is returned for a single section that could not be updated.
type MutationError struct {
	Section string
	Err     error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("section %s: %v", e.Section, e.Err)
}

func (e *MutationError) Unwrap() []error {
	return []error{ErrMutation, e.Err}
}

// StepError records which step of a Plan failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedSteps lists the steps that failed in an error returned by Tool.Run,
// in the order they ran.
func FailedSteps(err error) []Step {
	var steps []Step
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if se, ok := err.(*StepError); ok {
			steps = append(steps, se.Step)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
		}
	}
	walk(err)
	return steps
}
