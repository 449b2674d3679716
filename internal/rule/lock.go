package rule

import "github.com/inferdf/inferdf/internal/rdf"

type lockKey struct {
	resource, predicate rdf.ResourceID
}

// lockedProperties maps (resource_id, predicate_id) to the witness object
// id that a universal rule has already committed for it, rejecting
// out-of-band writes efficiently (spec §9 "Locked-property set").
type lockedProperties struct {
	witness map[lockKey]rdf.ResourceID
}

func newLockedProperties() *lockedProperties {
	return &lockedProperties{witness: make(map[lockKey]rdf.ResourceID)}
}

// check reports the existing witness for (resource, predicate), if any.
func (l *lockedProperties) check(resource, predicate rdf.ResourceID) (rdf.ResourceID, bool) {
	w, ok := l.witness[lockKey{resource, predicate}]
	return w, ok
}

// lock records witness as the sole permitted value for (resource,
// predicate). Callers must call check first; lock does not itself detect
// conflicts.
func (l *lockedProperties) lock(resource, predicate, witness rdf.ResourceID) {
	l.witness[lockKey{resource, predicate}] = witness
}
