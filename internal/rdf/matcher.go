package rdf

import "fmt"

// Var is a pattern variable index into a Bindings slice.
type Var int

// Term is a pattern term: either a bound resource or a free variable
// (spec §4.4: "A term is a variable, a resource id, or an IRI/literal
// that the matcher interprets on demand" — callers resolve IRIs/literals
// to resource ids via Interpretation before building a Term, so this type
// only needs to distinguish variable from resource).
type Term struct {
	IsVar    bool
	Variable Var
	Resource ResourceID
}

// V constructs a variable term.
func V(v Var) Term { return Term{IsVar: true, Variable: v} }

// R constructs a bound-resource term.
func R(r ResourceID) Term { return Term{Resource: r} }

// TriplePattern is (t_s, t_p, t_o) from spec §4.4.
type TriplePattern struct {
	Subject, Predicate, Object Term
}

// AtomKind discriminates the five atom shapes of spec §4.4.
type AtomKind uint8

const (
	AtomPositive AtomKind = iota
	AtomNegative
	AtomEquality
	AtomInequality
	AtomPath
)

// PathPattern is a transitive-reflexive closure over Closure starting at
// Start, terminated by a single join over Terminal into End — the shape of
// `rdf:rest*/rdf:first` in spec §4.4.
type PathPattern struct {
	Closure  ResourceID
	Terminal ResourceID
	Start    Term
	End      Term
}

// Atom is one conjunct of a pattern.
type Atom struct {
	Kind    AtomKind
	Triple  TriplePattern // valid for AtomPositive, AtomNegative
	Left    Term          // valid for AtomEquality, AtomInequality
	Right   Term          // valid for AtomEquality, AtomInequality
	Path    PathPattern   // valid for AtomPath
}

// Bindings maps variable index to resource id; a variable not yet bound is
// absent from the map.
type Bindings map[Var]ResourceID

func (b Bindings) clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func resolve(t Term, b Bindings) (ResourceID, bool) {
	if !t.IsVar {
		return t.Resource, true
	}
	rid, ok := b[t.Variable]
	return rid, ok
}

// Matcher evaluates conjunctions of atoms against a Graph, normalizing
// bound and produced ids through interp's representative function so that
// merges never desynchronize a running match (spec §4.4, §5).
type Matcher struct {
	interp *Interpretation
}

// NewMatcher returns a Matcher bound to interp.
func NewMatcher(interp *Interpretation) *Matcher {
	return &Matcher{interp: interp}
}

// Evaluate runs a conjunctive evaluation of atoms over graph, invoking
// emit once per complete binding set. Returning a non-nil error from emit
// stops evaluation early and propagates the error.
//
// Atom evaluation order follows the caller-supplied order; callers wanting
// the selectivity ordering described in spec §4.4 ("bind the most
// constrained atom first") should sort atoms before calling Evaluate — the
// matcher itself performs no reordering, since doing so requires
// statistics the pattern alone does not carry.
func (m *Matcher) Evaluate(graph *Graph, atoms []Atom, emit func(Bindings) error) error {
	return m.step(graph, atoms, 0, make(Bindings), emit)
}

// EvaluateFrom is Evaluate seeded with an initial partial binding, used by
// the rule engine to continue a match started elsewhere (semi-naive delta
// matching, existential pre-guards, and inner-existential head checks all
// seed a partial binding before evaluating the rest of a clause's body).
func (m *Matcher) EvaluateFrom(graph *Graph, atoms []Atom, initial Bindings, emit func(Bindings) error) error {
	return m.step(graph, atoms, 0, initial.clone(), emit)
}

func (m *Matcher) step(graph *Graph, atoms []Atom, i int, b Bindings, emit func(Bindings) error) error {
	if i == len(atoms) {
		return emit(b)
	}
	a := atoms[i]
	switch a.Kind {
	case AtomPositive, AtomNegative:
		return m.stepTriple(graph, atoms, i, a, b, emit)
	case AtomEquality:
		return m.stepEquality(graph, atoms, i, a, b, emit)
	case AtomInequality:
		return m.stepInequality(graph, atoms, i, a, b, emit)
	case AtomPath:
		return m.stepPath(graph, atoms, i, a, b, emit)
	default:
		return fmt.Errorf("rdf: unknown atom kind %d", a.Kind)
	}
}

func (m *Matcher) stepTriple(graph *Graph, atoms []Atom, i int, a Atom, b Bindings, emit func(Bindings) error) error {
	s, sBound := resolve(a.Triple.Subject, b)
	p, pBound := resolve(a.Triple.Predicate, b)
	o, oBound := resolve(a.Triple.Object, b)
	if sBound {
		s = m.interp.Representative(s)
	}
	if pBound {
		p = m.interp.Representative(p)
	}
	if oBound {
		o = m.interp.Representative(o)
	}

	sign := Positive
	if a.Kind == AtomNegative {
		sign = Negative
	}

	// All positions bound: a direct lookup (spec §4.4 selectivity: "all
	// positions known → direct fact lookup").
	if sBound && pBound && oBound {
		if !graph.Contains(SignedTriple{Sign: sign, Triple: Triple{Subject: s, Predicate: p, Object: o}}) {
			return nil
		}
		return m.step(graph, atoms, i+1, b, emit)
	}

	// One position free: index lookup on whichever position is bound and
	// has the fewest candidate facts (spec §4.4: "one position free →
	// index lookup").
	candidates := m.candidateFacts(graph, s, sBound, p, pBound, o, oBound)
	for _, id := range candidates {
		f := graph.Fact(id)
		if f.Sign != sign {
			continue
		}
		fs := m.interp.Representative(f.Subject)
		fp := m.interp.Representative(f.Predicate)
		fo := m.interp.Representative(f.Object)
		next := b.clone()
		if ok := bindIfConsistent(next, a.Triple.Subject, fs); !ok {
			continue
		}
		if ok := bindIfConsistent(next, a.Triple.Predicate, fp); !ok {
			continue
		}
		if ok := bindIfConsistent(next, a.Triple.Object, fo); !ok {
			continue
		}
		if err := m.step(graph, atoms, i+1, next, emit); err != nil {
			return err
		}
	}
	return nil
}

func bindIfConsistent(b Bindings, t Term, rid ResourceID) bool {
	if !t.IsVar {
		return t.Resource == rid
	}
	if existing, ok := b[t.Variable]; ok {
		return existing == rid
	}
	b[t.Variable] = rid
	return true
}

// candidateFacts picks the smallest-looking candidate set among the bound
// positions, falling back to a full scan when nothing is bound (spec
// §4.4: "two free → per-graph scan bounded by the less-frequent role").
func (m *Matcher) candidateFacts(graph *Graph, s ResourceID, sBound bool, p ResourceID, pBound bool, o ResourceID, oBound bool) []FactID {
	var options [][]FactID
	if sBound {
		options = append(options, graph.FactsAsSubject(s))
	}
	if pBound {
		options = append(options, graph.FactsAsPredicate(p))
	}
	if oBound {
		options = append(options, graph.FactsAsObject(o))
	}
	if len(options) == 0 {
		all := graph.All()
		ids := make([]FactID, len(all))
		for i := range all {
			ids[i] = FactID(i)
		}
		return ids
	}
	best := options[0]
	for _, o := range options[1:] {
		if len(o) < len(best) {
			best = o
		}
	}
	return best
}

func (m *Matcher) stepEquality(graph *Graph, atoms []Atom, i int, a Atom, b Bindings, emit func(Bindings) error) error {
	lv, lBound := resolve(a.Left, b)
	rv, rBound := resolve(a.Right, b)
	switch {
	case lBound && rBound:
		if m.interp.Representative(lv) != m.interp.Representative(rv) {
			return nil
		}
		return m.step(graph, atoms, i+1, b, emit)
	case lBound && a.Right.IsVar:
		next := b.clone()
		next[a.Right.Variable] = m.interp.Representative(lv)
		return m.step(graph, atoms, i+1, next, emit)
	case rBound && a.Left.IsVar:
		next := b.clone()
		next[a.Left.Variable] = m.interp.Representative(rv)
		return m.step(graph, atoms, i+1, next, emit)
	default:
		return fmt.Errorf("rdf: equality atom with both sides unbound")
	}
}

func (m *Matcher) stepInequality(graph *Graph, atoms []Atom, i int, a Atom, b Bindings, emit func(Bindings) error) error {
	lv, lBound := resolve(a.Left, b)
	rv, rBound := resolve(a.Right, b)
	if !lBound || !rBound {
		return fmt.Errorf("rdf: inequality atom requires both sides bound")
	}
	if m.interp.Representative(lv) == m.interp.Representative(rv) {
		return nil
	}
	return m.step(graph, atoms, i+1, b, emit)
}

// stepPath expands a path atom lazily with cycle detection via a visited
// set of resource ids (spec §4.4).
func (m *Matcher) stepPath(graph *Graph, atoms []Atom, i int, a Atom, b Bindings, emit func(Bindings) error) error {
	start, ok := resolve(a.Path.Start, b)
	if !ok {
		return fmt.Errorf("rdf: path atom requires a bound start")
	}
	start = m.interp.Representative(start)
	closure := m.interp.Representative(a.Path.Closure)
	terminal := m.interp.Representative(a.Path.Terminal)

	visited := map[ResourceID]struct{}{start: {}}
	var walk func(cur ResourceID) error
	walk = func(cur ResourceID) error {
		// Reflexive step: try the terminal join at the current node.
		for _, id := range graph.FactsAsSubject(cur) {
			f := graph.Fact(id)
			pred := m.interp.Representative(f.Predicate)
			if f.Sign != Positive || pred != terminal {
				continue
			}
			next := b.clone()
			if !bindIfConsistent(next, a.Path.End, m.interp.Representative(f.Object)) {
				continue
			}
			if err := m.step(graph, atoms, i+1, next, emit); err != nil {
				return err
			}
		}
		// Transitive step over the closure predicate.
		for _, id := range graph.FactsAsSubject(cur) {
			f := graph.Fact(id)
			pred := m.interp.Representative(f.Predicate)
			if f.Sign != Positive || pred != closure {
				continue
			}
			obj := m.interp.Representative(f.Object)
			if _, seen := visited[obj]; seen {
				continue
			}
			visited[obj] = struct{}{}
			if err := walk(obj); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(start)
}
