package rule

import (
	"errors"
	"fmt"

	"github.com/inferdf/inferdf/internal/rdf"
)

// Config bounds a saturation run (spec §4.5 "Termination").
type Config struct {
	// StepBudget caps the number of rule-instantiation attempts across both
	// the semi-naive and universal phases. Zero means unbounded, which
	// SPEC_FULL.md's ambient config layer never actually allows through to
	// production use (internal/config always sets a positive default) —
	// zero is only convenient for tests of small, known-terminating rule
	// sets.
	StepBudget int

	// FactLimit caps the number of facts the saturated graph may hold.
	// Zero means unbounded, for the same reason StepBudget's zero does.
	FactLimit int
}

// errStopEarly aborts a Matcher.Evaluate/EvaluateFrom callback loop once
// the caller only needed to know whether a match exists.
var errStopEarly = errors.New("rule: stop early")

// Engine runs semi-naive saturation over a single graph. It holds
// exclusive mutable access to the Interpretation and Graph it was built
// with, per spec §5 ("single-threaded and cooperative").
type Engine struct {
	interp  *rdf.Interpretation
	graph   *rdf.Graph
	matcher *rdf.Matcher
	rules   []*Rule
	locks   *lockedProperties
	config  Config
	steps   int
}

// NewEngine returns an Engine that will saturate graph using interp for
// term resolution and rules for deduction.
func NewEngine(interp *rdf.Interpretation, graph *rdf.Graph, rules []*Rule, config Config) *Engine {
	return &Engine{
		interp:  interp,
		graph:   graph,
		matcher: rdf.NewMatcher(interp),
		rules:   rules,
		locks:   newLockedProperties(),
		config:  config,
	}
}

// Saturate runs the semi-naive plain-rule phase to stabilization, then the
// post-stabilization universal-rule phase, alternating between the two
// until neither produces a new fact (spec §4.5).
func (e *Engine) Saturate() error {
	delta := e.graph.All()
	for {
		plainDelta, err := e.runPlainPass(delta)
		if err != nil {
			return err
		}
		if len(plainDelta) > 0 {
			delta = plainDelta
			continue
		}

		universalDelta, err := e.runUniversalPhase()
		if err != nil {
			return err
		}
		if len(universalDelta) == 0 {
			return nil
		}
		delta = universalDelta
	}
}

func (e *Engine) countStep() error {
	e.steps++
	if e.config.StepBudget > 0 && e.steps > e.config.StepBudget {
		return &BudgetError{Steps: e.steps}
	}
	return nil
}

// runPlainPass re-evaluates only rule instantiations that intersect delta:
// for each delta fact and each rule, try binding each body atom in turn to
// that fact, then complete the remaining atoms against the full graph.
// This is the standard semi-naive optimisation (spec §4.5, §9).
func (e *Engine) runPlainPass(delta []rdf.Fact) ([]rdf.Fact, error) {
	var produced []rdf.Fact
	for _, r := range e.rules {
		if !r.IsPlain() {
			continue
		}
		body := r.Forall.Body
		for _, d := range delta {
			for atomIdx, atom := range body {
				if atom.Kind != rdf.AtomPositive && atom.Kind != rdf.AtomNegative {
					continue
				}
				if err := e.countStep(); err != nil {
					return nil, err
				}
				sign := rdf.Positive
				if atom.Kind == rdf.AtomNegative {
					sign = rdf.Negative
				}
				if sign != d.Sign {
					continue
				}
				seed := make(rdf.Bindings, 3)
				if !bindTermConsistent(seed, atom.Triple.Subject, d.Subject) {
					continue
				}
				if !bindTermConsistent(seed, atom.Triple.Predicate, d.Predicate) {
					continue
				}
				if !bindTermConsistent(seed, atom.Triple.Object, d.Object) {
					continue
				}

				rest := make([]rdf.Atom, 0, len(body)-1)
				rest = append(rest, body[:atomIdx]...)
				rest = append(rest, body[atomIdx+1:]...)

				err := e.matcher.EvaluateFrom(e.graph, rest, seed, func(b rdf.Bindings) error {
					newFacts, err := e.applyHead(r, b)
					if err != nil {
						return err
					}
					produced = append(produced, newFacts...)
					return nil
				})
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return produced, nil
}

// runUniversalPhase evaluates every quantified rule once against the
// stabilized graph (spec §4.5: "Universal rules are evaluated only after
// stabilization of the non-universal part").
func (e *Engine) runUniversalPhase() ([]rdf.Fact, error) {
	var produced []rdf.Fact
	for _, r := range e.rules {
		if r.IsPlain() {
			continue
		}
		if err := e.countStep(); err != nil {
			return nil, err
		}
		facts, err := e.evaluateQuantified(r)
		if err != nil {
			return nil, err
		}
		produced = append(produced, facts...)
	}
	return produced, nil
}

// evaluateQuantified groups every match of r.Forall.Body by its anchor
// variables (the free variables shared across the rule's clauses, spec
// §4.5), checks the existential pre-guard and inner existential for each
// group, and fires once per group that satisfies both.
func (e *Engine) evaluateQuantified(r *Rule) ([]rdf.Fact, error) {
	anchors := anchorVars(r.Forall.Body, r.Forall.Vars)

	groups := make(map[string][]rdf.Bindings)
	err := e.matcher.Evaluate(e.graph, r.Forall.Body, func(b rdf.Bindings) error {
		key := projectAnchors(b, anchors)
		groups[key] = append(groups[key], b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var produced []rdf.Fact
	for _, matches := range groups {
		if len(matches) == 0 {
			continue
		}

		if r.Exists != nil {
			found, err := e.hasMatch(r.Exists.Body, matches[0])
			if err != nil {
				return nil, err
			}
			if !found {
				continue // pre-guard failed: rule does not fire for this instance
			}
		}

		witness := matches[0]
		fires := true
		if r.HeadExists != nil {
			for _, m := range matches {
				w, ok, err := e.firstMatch(r.HeadExists.Body, m)
				if err != nil {
					return nil, err
				}
				if !ok {
					fires = false
					break
				}
				witness = w
			}
		}
		if !fires {
			continue
		}

		facts, err := e.applyHead(r, witness)
		if err != nil {
			return nil, err
		}
		produced = append(produced, facts...)
	}
	return produced, nil
}

func (e *Engine) hasMatch(body []rdf.Atom, seed rdf.Bindings) (bool, error) {
	_, ok, err := e.firstMatch(body, seed)
	return ok, err
}

func (e *Engine) firstMatch(body []rdf.Atom, seed rdf.Bindings) (rdf.Bindings, bool, error) {
	var result rdf.Bindings
	err := e.matcher.EvaluateFrom(e.graph, body, seed, func(b rdf.Bindings) error {
		result = b
		return errStopEarly
	})
	if err != nil && !errors.Is(err, errStopEarly) {
		return nil, false, err
	}
	return result, result != nil, nil
}

// applyHead instantiates every head atom of r under b: positive/negative
// triples are inserted (respecting and, when marked, extending the locked
// set), equalities invoke Interpretation.Merge, inequalities invoke
// Interpretation.SetNonEqual (spec §4.5).
func (e *Engine) applyHead(r *Rule, b rdf.Bindings) ([]rdf.Fact, error) {
	var produced []rdf.Fact
	for _, h := range r.Head {
		switch h.Kind {
		case rdf.AtomPositive, rdf.AtomNegative:
			s, ok1 := resolveTerm(h.Triple.Subject, b)
			p, ok2 := resolveTerm(h.Triple.Predicate, b)
			o, ok3 := resolveTerm(h.Triple.Object, b)
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("rule %q: unbound variable in head triple", r.Name)
			}

			sr, pr, orep := e.interp.Representative(s), e.interp.Representative(p), e.interp.Representative(o)
			if witness, locked := e.locks.check(sr, pr); locked && witness != orep {
				return nil, &LockedConflictError{Resource: sr, Predicate: pr, Witness: witness, Attempted: orep}
			}
			if h.Locked {
				e.locks.lock(sr, pr, orep)
			}

			sign := rdf.Positive
			if h.Kind == rdf.AtomNegative {
				sign = rdf.Negative
			}
			id, inserted, err := e.graph.Insert(e.interp, rdf.SignedTriple{Sign: sign, Triple: rdf.Triple{Subject: s, Predicate: p, Object: o}}, rdf.Cause{Kind: rdf.CauseInferred})
			if err != nil {
				return nil, err
			}
			if inserted {
				produced = append(produced, e.graph.Fact(id))
				if e.config.FactLimit > 0 && e.graph.Len() > e.config.FactLimit {
					return nil, &FactLimitError{Limit: e.config.FactLimit}
				}
			}

		case rdf.AtomEquality:
			l, ok1 := resolveTerm(h.Left, b)
			rr, ok2 := resolveTerm(h.Right, b)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("rule %q: unbound variable in head equality", r.Name)
			}
			survivor, loser, err := e.interp.Merge(l, rr)
			if err != nil {
				return nil, err
			}
			if survivor != loser {
				if err := e.graph.RewriteMerge(survivor, loser); err != nil {
					return nil, err
				}
			}

		case rdf.AtomInequality:
			l, ok1 := resolveTerm(h.Left, b)
			rr, ok2 := resolveTerm(h.Right, b)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("rule %q: unbound variable in head inequality", r.Name)
			}
			if err := e.interp.SetNonEqual(l, rr); err != nil {
				return nil, err
			}
		}
	}
	return produced, nil
}

func resolveTerm(t rdf.Term, b rdf.Bindings) (rdf.ResourceID, bool) {
	if !t.IsVar {
		return t.Resource, true
	}
	rid, ok := b[t.Variable]
	return rid, ok
}

func bindTermConsistent(b rdf.Bindings, t rdf.Term, rid rdf.ResourceID) bool {
	if !t.IsVar {
		return t.Resource == rid
	}
	if existing, ok := b[t.Variable]; ok {
		return existing == rid
	}
	b[t.Variable] = rid
	return true
}
