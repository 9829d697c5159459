package saga

import (
	"fmt"
	"strings"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	// ErrCompensationFailed matches runs where a compensating action errored.
	ErrCompensationFailed = serrors.NewError(
		serrors.KindSagaCompensationFailed, "SAGA_COMPENSATION_FAILED", "compensation failed")
	// ErrUncompensated matches runs that stopped after a step that cannot be
	// undone had already completed.
	ErrUncompensated = serrors.NewError(
		serrors.KindSagaCompensationFailed, "SAGA_UNCOMPENSATED", "completed steps were not compensated")
)

// Error reports a failed run. For a clean rollback it unwraps to the forward
// failure alone, so callers see the original error kind. Otherwise the
// compensation sentinel comes first in the chain.
type Error struct {
	Saga               string
	Step               string
	Outcome            Outcome
	Cause              error
	CompensationErrors []error
	Uncompensated      []string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "saga %s: step %s: %v (%s)", e.Saga, e.Step, e.Cause, e.Outcome)
	for _, ce := range e.CompensationErrors {
		fmt.Fprintf(&b, "; %v", ce)
	}
	if len(e.Uncompensated) > 0 {
		fmt.Fprintf(&b, "; uncompensated: %s", strings.Join(e.Uncompensated, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	switch e.Outcome {
	case OutcomeCompensationFailed:
		return append([]error{ErrCompensationFailed, e.Cause}, e.CompensationErrors...)
	case OutcomePartialUncompensated:
		return []error{ErrUncompensated, e.Cause}
	default:
		return []error{e.Cause}
	}
}

// Compensated reports whether the run left no trace in any store.
func (e *Error) Compensated() bool {
	return e.Outcome == OutcomeRolledBack
}
