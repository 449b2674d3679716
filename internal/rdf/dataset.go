package rdf

import (
	"sort"
	"sync"
)

// FactID identifies a fact within a single graph. Ids are assigned
// monotonically per graph and are stable once saturation commits them
// (spec §3 "Lifecycles").
type FactID uint32

// Graph is a per-graph store of signed facts plus a triple index. The
// three index maps mirror the SPO/POS/OSP permutation-index idiom used by
// KV-backed triple stores in the wider RDF ecosystem (grounded on
// other_examples/aleksaelezovic-trigo__storage.go's Table design), adapted
// here to plain in-memory maps since the core is single-threaded and
// in-memory during construction (spec §5).
type Graph struct {
	mu sync.RWMutex

	facts []Fact
	// key marshals (sign, subject, predicate, object) into a lookup key for
	// idempotent insertion (spec §4.3: "insertion of a fact is idempotent
	// on (sign, triple)").
	byKey map[tripleKey]FactID

	asSubject   map[ResourceID][]FactID
	asPredicate map[ResourceID][]FactID
	asObject    map[ResourceID][]FactID
}

type tripleKey struct {
	sign               Sign
	subject, predicate, object ResourceID
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		byKey:       make(map[tripleKey]FactID),
		asSubject:   make(map[ResourceID][]FactID),
		asPredicate: make(map[ResourceID][]FactID),
		asObject:    make(map[ResourceID][]FactID),
	}
}

// Insert normalizes t's positions against interp's representatives and
// inserts the fact if not already present. It is idempotent on
// (sign, triple) modulo representative normalization, and returns
// ErrConflictSign wrapped in a *ConflictError if the opposite polarity of
// the same triple is already present (spec §4.3, §3 "Sign consistency").
func (g *Graph) Insert(interp *Interpretation, st SignedTriple, cause Cause) (FactID, bool, error) {
	t := Triple{
		Subject:   interp.Representative(st.Subject),
		Predicate: interp.Representative(st.Predicate),
		Object:    interp.Representative(st.Object),
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := tripleKey{sign: st.Sign, subject: t.Subject, predicate: t.Predicate, object: t.Object}
	if id, ok := g.byKey[key]; ok {
		return id, false, nil
	}

	opposite := st.Sign
	if opposite == Positive {
		opposite = Negative
	} else {
		opposite = Positive
	}
	oppositeKey := tripleKey{sign: opposite, subject: t.Subject, predicate: t.Predicate, object: t.Object}
	if _, ok := g.byKey[oppositeKey]; ok {
		return 0, false, newSignConflict(t.Subject, t.Predicate, t.Object)
	}

	id := FactID(len(g.facts))
	g.facts = append(g.facts, Fact{SignedTriple: SignedTriple{Sign: st.Sign, Triple: t}, Cause: cause})
	g.byKey[key] = id
	g.asSubject[t.Subject] = append(g.asSubject[t.Subject], id)
	g.asPredicate[t.Predicate] = append(g.asPredicate[t.Predicate], id)
	g.asObject[t.Object] = append(g.asObject[t.Object], id)
	return id, true, nil
}

// RewriteMerge rewrites every stored fact referencing loser, in any
// position, to survivor, and re-keys the triple and per-resource indexes
// accordingly, so that every position's id equals its representative after
// a merge (spec §4.2 "rewrite all triples in all graphs", §8). A fact that
// collapses onto an already-present fact of the same polarity is left as a
// harmless duplicate — insertion and matching are both idempotent on
// (sign, triple), so redundant entries cost extra iteration, not
// correctness. A collision with the opposite polarity is a genuine
// post-merge conflict and is reported as ErrConflictSign.
func (g *Graph) RewriteMerge(survivor, loser ResourceID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	affected := make(map[FactID]struct{})
	for _, id := range g.asSubject[loser] {
		affected[id] = struct{}{}
	}
	for _, id := range g.asPredicate[loser] {
		affected[id] = struct{}{}
	}
	for _, id := range g.asObject[loser] {
		affected[id] = struct{}{}
	}
	if len(affected) == 0 {
		return nil
	}

	ids := make([]FactID, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		old := g.facts[id]
		newTriple := Triple{
			Subject:   replaceResource(old.Subject, loser, survivor),
			Predicate: replaceResource(old.Predicate, loser, survivor),
			Object:    replaceResource(old.Object, loser, survivor),
		}
		if newTriple == old.Triple {
			continue
		}

		opposite := old.Sign
		if opposite == Positive {
			opposite = Negative
		} else {
			opposite = Positive
		}
		oppositeKey := tripleKey{sign: opposite, subject: newTriple.Subject, predicate: newTriple.Predicate, object: newTriple.Object}
		if other, ok := g.byKey[oppositeKey]; ok && other != id {
			return newSignConflict(newTriple.Subject, newTriple.Predicate, newTriple.Object)
		}

		if old.Subject != newTriple.Subject {
			g.asSubject[old.Subject] = removeFactID(g.asSubject[old.Subject], id)
			g.asSubject[newTriple.Subject] = append(g.asSubject[newTriple.Subject], id)
		}
		if old.Predicate != newTriple.Predicate {
			g.asPredicate[old.Predicate] = removeFactID(g.asPredicate[old.Predicate], id)
			g.asPredicate[newTriple.Predicate] = append(g.asPredicate[newTriple.Predicate], id)
		}
		if old.Object != newTriple.Object {
			g.asObject[old.Object] = removeFactID(g.asObject[old.Object], id)
			g.asObject[newTriple.Object] = append(g.asObject[newTriple.Object], id)
		}

		oldKey := tripleKey{sign: old.Sign, subject: old.Subject, predicate: old.Predicate, object: old.Object}
		if g.byKey[oldKey] == id {
			delete(g.byKey, oldKey)
		}
		newKey := tripleKey{sign: old.Sign, subject: newTriple.Subject, predicate: newTriple.Predicate, object: newTriple.Object}
		g.byKey[newKey] = id

		g.facts[id] = Fact{SignedTriple: SignedTriple{Sign: old.Sign, Triple: newTriple}, Cause: old.Cause}
	}
	return nil
}

func replaceResource(id, loser, survivor ResourceID) ResourceID {
	if id == loser {
		return survivor
	}
	return id
}

func removeFactID(list []FactID, target FactID) []FactID {
	for i, id := range list {
		if id == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Fact returns the fact stored at id.
func (g *Graph) Fact(id FactID) Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.facts[id]
}

// Len returns the number of facts (of either polarity) in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.facts)
}

// FactsAsSubject, FactsAsPredicate, and FactsAsObject return the fact ids
// where rid occupies the given position — the graph resource index of
// spec §3.
func (g *Graph) FactsAsSubject(rid ResourceID) []FactID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]FactID(nil), g.asSubject[rid]...)
}

func (g *Graph) FactsAsPredicate(rid ResourceID) []FactID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]FactID(nil), g.asPredicate[rid]...)
}

func (g *Graph) FactsAsObject(rid ResourceID) []FactID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]FactID(nil), g.asObject[rid]...)
}

// Contains reports whether the exact signed triple (already normalized to
// representatives by the caller) is present.
func (g *Graph) Contains(st SignedTriple) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.byKey[tripleKey{sign: st.Sign, subject: st.Subject, predicate: st.Predicate, object: st.Object}]
	return ok
}

// All returns every fact currently stored, for iteration by the rule
// engine, classifier, and codec.
func (g *Graph) All() []Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Fact(nil), g.facts...)
}

// Dataset holds one unnamed default graph and a set of named graphs keyed
// by resource id (spec §3 "Graph").
type Dataset struct {
	mu     sync.RWMutex
	Default *Graph
	named   map[ResourceID]*Graph
}

// NewDataset returns a Dataset with an empty default graph.
func NewDataset() *Dataset {
	return &Dataset{
		Default: NewGraph(),
		named:   make(map[ResourceID]*Graph),
	}
}

// Named returns the named graph for id, creating it if necessary.
func (d *Dataset) Named(id ResourceID) *Graph {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.named[id]
	if !ok {
		g = NewGraph()
		d.named[id] = g
	}
	return g
}

// NamedGraphIDs returns the resource ids of all named graphs, in
// insertion-independent (map) order; callers that need determinism should
// sort the result (the codec does, per spec §6 section ordering).
func (d *Dataset) NamedGraphIDs() []ResourceID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]ResourceID, 0, len(d.named))
	for id := range d.named {
		ids = append(ids, id)
	}
	return ids
}
