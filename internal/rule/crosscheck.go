package rule

import (
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/inferdf/inferdf/internal/rdf"
)

// CrossCheck independently re-derives the closure of the positive,
// unlocked projection of rules over facts using Google Mangle's own
// Datalog evaluator, and returns the derived triple set; callers compare
// it with the fact set produced by Engine.Saturate for the same projection
// (spec §8 "Confluence"). It is a diagnostic used by tests, not part of the
// saturation algorithm's contract — Mangle's semantics have no native
// representation for signed triples, merge, or locking (see DESIGN.md),
// so only rules with no negative atoms and no locked head atoms are
// eligible; ineligible rules are silently skipped rather than rejected,
// since a partial cross-check is still useful signal.
func CrossCheck(rules []*Rule, facts []rdf.Triple) (map[rdf.Triple]bool, error) {
	var b strings.Builder
	b.WriteString("triple(S, P, O) :- fact_triple(S, P, O).\n")

	for _, f := range facts {
		fmt.Fprintf(&b, "fact_triple(%s, %s, %s).\n", nameConst(f.Subject), nameConst(f.Predicate), nameConst(f.Object))
	}

	eligible := 0
	for ri, r := range rules {
		if !r.IsPlain() || !ruleIsPositiveProjectable(r) {
			continue
		}
		eligible++
		body, err := renderBody(r.Forall.Body)
		if err != nil {
			return nil, fmt.Errorf("rule: cross-check skip rule %q: %w", r.Name, err)
		}
		fmt.Fprintf(&b, "derived_%d(%s) :- %s.\n", ri, renderHeadVars(r), body)
		fmt.Fprintf(&b, "triple(S, P, O) :- derived_%d(S, P, O).\n", ri)
	}
	if eligible == 0 {
		return map[rdf.Triple]bool{}, nil
	}

	unit, err := parse.Unit(strings.NewReader(b.String()))
	if err != nil {
		return nil, fmt.Errorf("rule: cross-check parse: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("rule: cross-check analyze: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if _, err := mengine.EvalProgramWithStats(info, store); err != nil {
		return nil, fmt.Errorf("rule: cross-check eval: %w", err)
	}

	result := make(map[rdf.Triple]bool)
	tripleSym := ast.PredicateSym{Symbol: "triple", Arity: 3}
	_ = store.GetFacts(ast.Atom{Predicate: tripleSym}, func(a ast.Atom) error {
		s, sok := constToResource(a.Args[0])
		p, pok := constToResource(a.Args[1])
		o, ook := constToResource(a.Args[2])
		if sok && pok && ook {
			result[rdf.Triple{Subject: s, Predicate: p, Object: o}] = true
		}
		return nil
	})
	return result, nil
}

func ruleIsPositiveProjectable(r *Rule) bool {
	for _, a := range r.Forall.Body {
		if a.Kind != rdf.AtomPositive {
			return false
		}
	}
	for _, h := range r.Head {
		if h.Kind != rdf.AtomPositive || h.Locked {
			return false
		}
	}
	return true
}

func renderHeadVars(r *Rule) string {
	// The synthetic derived_N predicate always has arity 3 (s, p, o) since
	// only positive triple heads are eligible for cross-check.
	h := r.Head[0]
	return fmt.Sprintf("%s, %s, %s", renderTerm(h.Triple.Subject), renderTerm(h.Triple.Predicate), renderTerm(h.Triple.Object))
}

func renderBody(atoms []rdf.Atom) (string, error) {
	parts := make([]string, 0, len(atoms))
	for _, a := range atoms {
		if a.Kind != rdf.AtomPositive {
			return "", fmt.Errorf("non-positive atom in projectable rule body")
		}
		parts = append(parts, fmt.Sprintf("triple(%s, %s, %s)", renderTerm(a.Triple.Subject), renderTerm(a.Triple.Predicate), renderTerm(a.Triple.Object)))
	}
	return strings.Join(parts, ", "), nil
}

func renderTerm(t rdf.Term) string {
	if t.IsVar {
		return fmt.Sprintf("V%d", t.Variable)
	}
	return nameConst(t.Resource)
}

func nameConst(r rdf.ResourceID) string {
	return fmt.Sprintf("/r%d", r)
}

func constToResource(t ast.BaseTerm) (rdf.ResourceID, bool) {
	c, ok := t.(ast.Constant)
	if !ok {
		return 0, false
	}
	s := c.String()
	var id uint32
	if _, err := fmt.Sscanf(s, "/r%d", &id); err != nil {
		return 0, false
	}
	return rdf.ResourceID(id), true
}
