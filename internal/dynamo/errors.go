package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidConfiguration indicates a bad grid, family tag or model parameter.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrDerivativeEvaluation indicates the derivative failed or returned NaN/Inf.
	ErrDerivativeEvaluation = errors.New("dynamo: derivative evaluation failed")

	// ErrShapeMismatch indicates a state whose shape does not fit the derivative.
	ErrShapeMismatch = errors.New("dynamo: state shape mismatch")

	// ErrNonFinite is the cause recorded when a derivative yields NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite derivative (NaN or Inf)")
)

// Invalid returns an error wrapping ErrInvalidConfiguration.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// EvaluationError wraps a derivative failure with the integration context.
// It matches ErrDerivativeEvaluation as well as the wrapped cause.
type EvaluationError struct {
	Method  string
	Step    int
	Time    float64
	Wrapped error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: step %d (t=%.4f): %v: %v", e.Method, e.Step, e.Time, ErrDerivativeEvaluation, e.Wrapped)
}

func (e *EvaluationError) Unwrap() error {
	return e.Wrapped
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrDerivativeEvaluation
}
