package rule

import (
	"errors"
	"fmt"

	"github.com/inferdf/inferdf/internal/rdf"
)

// ErrSaturationBudgetExceeded is returned when the configured step budget
// is exhausted before the engine reaches a fixpoint (spec §4.5, §7).
var ErrSaturationBudgetExceeded = errors.New("rule: saturation step budget exceeded")

// LockedConflictError reports an attempt to derive a value for a locked
// (resource, predicate) pair other than its witness (spec §4.5, §7
// ConflictLocked).
type LockedConflictError struct {
	Resource  rdf.ResourceID
	Predicate rdf.ResourceID
	Witness   rdf.ResourceID
	Attempted rdf.ResourceID
}

func (e *LockedConflictError) Error() string {
	return fmt.Sprintf("rule: locked property conflict on (%d, %d): witness %d, attempted %d",
		e.Resource, e.Predicate, e.Witness, e.Attempted)
}

func (e *LockedConflictError) Unwrap() error {
	return rdf.ErrConflictLocked
}

// BudgetError wraps ErrSaturationBudgetExceeded with the step count at
// which the engine stopped, letting a caller "raise limit and retry"
// per spec §7.
type BudgetError struct {
	Steps int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("rule: exceeded step budget after %d steps", e.Steps)
}

func (e *BudgetError) Unwrap() error {
	return ErrSaturationBudgetExceeded
}

// FactLimitError wraps ErrSaturationBudgetExceeded with the fact count at
// which the engine stopped. Spec §7 defines a single SaturationBudgetExceeded
// kind covering both step and fact exhaustion; FactLimitError distinguishes
// which bound tripped without introducing a second sentinel.
type FactLimitError struct {
	Limit int
}

func (e *FactLimitError) Error() string {
	return fmt.Sprintf("rule: graph exceeded fact limit of %d", e.Limit)
}

func (e *FactLimitError) Unwrap() error {
	return ErrSaturationBudgetExceeded
}
