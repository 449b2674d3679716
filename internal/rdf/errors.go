// Package rdf implements the term interpretation, dataset, and pattern
// matcher that make up the deduction core: vocabulary interning, resource
// identity, signed-triple storage, and conjunctive pattern evaluation.
package rdf

import "errors"

// Sentinel error kinds. Callers use errors.Is against these; conflict
// errors additionally carry the offending resources via *ConflictError.
var (
	ErrConflictSign          = errors.New("rdf: sign conflict")
	ErrConflictLocked        = errors.New("rdf: locked property conflict")
	ErrConflictNonEqual      = errors.New("rdf: non-equal conflict")
	ErrConflictAlreadyMerged = errors.New("rdf: already-merged conflict")
	ErrIndexInvalidated      = errors.New("rdf: index invalidated by mutation")
	ErrInternError           = errors.New("rdf: duplicate id collision")
)

// ConflictError wraps one of the Conflict* sentinels with the resources
// and predicate involved, per spec §7 ("surface with the offending triple
// and its cause chain").
type ConflictError struct {
	Kind      error
	Subject   ResourceID
	Predicate ResourceID
	Object    ResourceID
	Witness   ResourceID
}

func (e *ConflictError) Error() string {
	return e.Kind.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Kind
}

func newSignConflict(s, p, o ResourceID) error {
	return &ConflictError{Kind: ErrConflictSign, Subject: s, Predicate: p, Object: o}
}

func newLockedConflict(x, prop, witness ResourceID) error {
	return &ConflictError{Kind: ErrConflictLocked, Subject: x, Predicate: prop, Witness: witness}
}

func newNonEqualConflict(a, b ResourceID) error {
	return &ConflictError{Kind: ErrConflictNonEqual, Subject: a, Object: b}
}

func newAlreadyMergedConflict(a ResourceID) error {
	return &ConflictError{Kind: ErrConflictAlreadyMerged, Subject: a}
}
