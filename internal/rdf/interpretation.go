package rdf

import "sync"

// resource is the interpretation-side view of a resource: the sets of
// terms that denote it and the resources it is known to differ from
// (spec §3 "Resource (interpretation view)").
type resource struct {
	id       ResourceID
	iris     map[uint32]struct{}
	literals map[literalKey]struct{}
	ne       map[ResourceID]struct{}
	class    *Class
}

// LiteralMembership is the public view of a literal a resource denotes:
// its lexical vocabulary id plus the variant/datatype that distinguishes
// it from other literals sharing the same lexical text (spec §3, §6).
type LiteralMembership struct {
	Lex     uint32
	Variant TypeVariant
	TypeRef uint32
}

// Class records a resource's classification group and index within it
// (spec §3 "Group / Class / Representative").
type Class struct {
	Group GroupID
	Index uint32
}

// GroupID identifies a classification group; Layer enables staged
// canonicalization (spec §4.6).
type GroupID struct {
	Layer uint32
	Index uint32
}

// Interpretation maps terms (IRI/literal/blank) to resource ids and
// maintains the union-find structure used to normalize ids after merges
// (spec §4.2, §9 "Disjoint-set merges").
type Interpretation struct {
	mu sync.RWMutex

	iriVocab  *Vocabulary
	litVocab  *Vocabulary
	resources []*resource

	// parent/rank implement union-find with path compression; parent[i] ==
	// ResourceID(i) for a root (either never merged, or the survivor of a
	// merge chain).
	parent []ResourceID
	rank   []uint8

	byIRI     map[uint32]ResourceID
	byLiteral map[literalKey]ResourceID
	byBlank   map[blankKey]ResourceID
}

// NewInterpretation returns an empty Interpretation.
func NewInterpretation() *Interpretation {
	return &Interpretation{
		iriVocab:  NewVocabulary(),
		litVocab:  NewVocabulary(),
		byIRI:     make(map[uint32]ResourceID),
		byLiteral: make(map[literalKey]ResourceID),
		byBlank:   make(map[blankKey]ResourceID),
	}
}

func (in *Interpretation) allocate() ResourceID {
	id := ResourceID(len(in.resources))
	in.resources = append(in.resources, &resource{
		id:       id,
		iris:     make(map[uint32]struct{}),
		literals: make(map[literalKey]struct{}),
		ne:       make(map[ResourceID]struct{}),
	})
	in.parent = append(in.parent, id)
	in.rank = append(in.rank, 0)
	return id
}

// InterpretIRI interns iri and binds it to a fresh resource if new, else
// returns the existing resource (spec §4.2).
func (in *Interpretation) InterpretIRI(iri []byte) ResourceID {
	in.mu.Lock()
	defer in.mu.Unlock()

	vid := in.iriVocab.Intern(iri)
	if rid, ok := in.byIRI[vid]; ok {
		return in.representativeLocked(rid)
	}
	rid := in.allocate()
	in.byIRI[vid] = rid
	in.resources[rid].iris[vid] = struct{}{}
	return rid
}

// InterpretLiteral interns lex and, together with variant and typeRef
// (the vocab id of the datatype IRI or language tag, ignored when variant
// is TypePlain), binds it to a resource. Distinct (lex, variant, typeRef)
// triples yield distinct initial resources; they may later be merged by a
// rule (spec §4.2). A typeRef not yet interpreted as an IRI gets a resource
// of its own, so every interned IRI has an owning resource.
func (in *Interpretation) InterpretLiteral(lex []byte, variant TypeVariant, typeRef []byte) ResourceID {
	in.mu.Lock()
	defer in.mu.Unlock()

	lvid := in.litVocab.Intern(lex)
	var tref uint32
	if variant != TypePlain && len(typeRef) > 0 {
		tref = in.iriVocab.Intern(typeRef)
		if _, ok := in.byIRI[tref]; !ok {
			trid := in.allocate()
			in.byIRI[tref] = trid
			in.resources[trid].iris[tref] = struct{}{}
		}
	}
	key := literalKey{lex: lvid, variant: variant, typeRef: tref}
	if rid, ok := in.byLiteral[key]; ok {
		return in.representativeLocked(rid)
	}
	rid := in.allocate()
	in.byLiteral[key] = rid
	in.resources[rid].literals[key] = struct{}{}
	return rid
}

// InterpretBlank allocates a fresh resource for a blank node, scoped to
// docID: the same (docID, localID) pair always yields the same resource
// within one saturation run; distinct docs never collide (spec §4.2,
// SPEC_FULL.md §12).
func (in *Interpretation) InterpretBlank(docID, localID uint32) ResourceID {
	in.mu.Lock()
	defer in.mu.Unlock()

	key := blankKey{docID: docID, localID: localID}
	if rid, ok := in.byBlank[key]; ok {
		return in.representativeLocked(rid)
	}
	rid := in.allocate()
	in.byBlank[key] = rid
	return rid
}

// Representative returns the survivor of any merge chain for rid, with
// path compression. It is the only way downstream components obtain a
// stable id after merges (spec §4.2).
func (in *Interpretation) Representative(rid ResourceID) ResourceID {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.representativeLocked(rid)
}

func (in *Interpretation) representativeLocked(rid ResourceID) ResourceID {
	root := rid
	for in.parent[root] != root {
		root = in.parent[root]
	}
	for in.parent[rid] != root {
		next := in.parent[rid]
		in.parent[rid] = root
		rid = next
	}
	return root
}

// IsNonEqual reports whether b is known to differ from a (after
// normalizing both to representatives).
func (in *Interpretation) IsNonEqual(a, b ResourceID) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	a = in.representativeLocked(a)
	b = in.representativeLocked(b)
	_, ok := in.resources[a].ne[b]
	return ok
}

// SetNonEqual asserts b ∈ ne(a) and symmetrically a ∈ ne(b). Returns
// ErrConflictAlreadyMerged if a and b normalize to the same resource
// (spec §4.2).
func (in *Interpretation) SetNonEqual(a, b ResourceID) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	a = in.representativeLocked(a)
	b = in.representativeLocked(b)
	if a == b {
		return newAlreadyMergedConflict(a)
	}
	in.resources[a].ne[b] = struct{}{}
	in.resources[b].ne[a] = struct{}{}
	return nil
}

// Merge unifies a and b into one survivor (the smaller id), unioning term
// sets and non-equal sets. Precondition: b ∉ ne(a). Merge only updates the
// Interpretation's own bookkeeping and union-find structure; it returns
// both the survivor and the loser (equal to the survivor when a and b were
// already the same resource) so that callers can rewrite every graph's
// stored triples and per-resource indexes that reference the loser (spec
// §4.2 "rewrite all triples in all graphs"). See Graph.RewriteMerge.
func (in *Interpretation) Merge(a, b ResourceID) (survivor, loser ResourceID, err error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	a = in.representativeLocked(a)
	b = in.representativeLocked(b)
	if a == b {
		return a, a, nil
	}
	if _, ok := in.resources[a].ne[b]; ok {
		return 0, 0, newNonEqualConflict(a, b)
	}

	survivor, loser = a, b
	if loser < survivor {
		survivor, loser = loser, survivor
	}

	sr, lr := in.resources[survivor], in.resources[loser]
	for id := range lr.iris {
		sr.iris[id] = struct{}{}
		in.byIRI[id] = survivor
	}
	for key := range lr.literals {
		sr.literals[key] = struct{}{}
		in.byLiteral[key] = survivor
	}
	for id := range lr.ne {
		if id == survivor {
			continue
		}
		sr.ne[id] = struct{}{}
		delete(in.resources[id].ne, loser)
		in.resources[id].ne[survivor] = struct{}{}
	}
	if sr.class == nil {
		sr.class = lr.class
	}

	// Union by rank on the survivor/loser roots (loser always forwards to
	// survivor regardless of rank, since spec §4.2 mandates "choose the
	// smaller id as survivor" rather than a rank-optimal choice; rank is
	// still tracked so future representative() calls stay shallow).
	in.parent[loser] = survivor
	if in.rank[survivor] == in.rank[loser] {
		in.rank[survivor]++
	}

	lr.iris = nil
	lr.literals = nil
	lr.ne = nil

	return survivor, loser, nil
}

// ResourceCount returns the number of resource ids ever allocated,
// including retired (merged-away) ones.
func (in *Interpretation) ResourceCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.resources)
}

// IRIs returns the set of IRI vocabulary ids denoting rid's representative.
func (in *Interpretation) IRIs(rid ResourceID) []uint32 {
	in.mu.RLock()
	defer in.mu.RUnlock()
	r := in.resources[in.representativeLocked(rid)]
	out := make([]uint32, 0, len(r.iris))
	for id := range r.iris {
		out = append(out, id)
	}
	return out
}

// Literals returns rid's representative's literal memberships.
func (in *Interpretation) Literals(rid ResourceID) []LiteralMembership {
	in.mu.RLock()
	defer in.mu.RUnlock()
	r := in.resources[in.representativeLocked(rid)]
	out := make([]LiteralMembership, 0, len(r.literals))
	for k := range r.literals {
		out = append(out, LiteralMembership{Lex: k.lex, Variant: k.variant, TypeRef: k.typeRef})
	}
	return out
}

// NonEqual returns the resource ids known to differ from rid's
// representative.
func (in *Interpretation) NonEqual(rid ResourceID) []ResourceID {
	in.mu.RLock()
	defer in.mu.RUnlock()
	r := in.resources[in.representativeLocked(rid)]
	out := make([]ResourceID, 0, len(r.ne))
	for id := range r.ne {
		out = append(out, id)
	}
	return out
}

// Resources returns every resource id that is currently its own
// union-find root, i.e. every live (non-merged-away) resource, in
// ascending id order. Codec and classification passes iterate this set
// rather than the full allocation history (spec §4.7 "only live resources
// are written").
func (in *Interpretation) Resources() []ResourceID {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]ResourceID, 0, len(in.resources))
	for i := range in.resources {
		id := ResourceID(i)
		if in.parent[id] == id {
			out = append(out, id)
		}
	}
	return out
}

// IRIVocabulary returns the vocabulary backing InterpretIRI, for codec use.
func (in *Interpretation) IRIVocabulary() *Vocabulary { return in.iriVocab }

// LiteralVocabulary returns the vocabulary backing InterpretLiteral, for
// codec use.
func (in *Interpretation) LiteralVocabulary() *Vocabulary { return in.litVocab }

// SetClass records the classification of rid's representative (called by
// internal/classify after saturation).
func (in *Interpretation) SetClass(rid ResourceID, class Class) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.resources[in.representativeLocked(rid)].class = &class
}

// ClassOf returns the classification of rid's representative, if any.
func (in *Interpretation) ClassOf(rid ResourceID) (Class, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	r := in.resources[in.representativeLocked(rid)]
	if r.class == nil {
		return Class{}, false
	}
	return *r.class, true
}
