// Package rule implements the saturation core: semi-naive evaluation of
// plain implications, a post-stabilization phase for quantified
// (exists/forall/exists) rules, locked-property enforcement, and
// equality-triggered merging (spec §4.5).
package rule

import "github.com/inferdf/inferdf/internal/rdf"

// Quantifier is one `exists V { body }` or `forall V { body }` clause.
type Quantifier struct {
	Vars []rdf.Var
	Body []rdf.Atom
}

// HeadAtom is one conjunct of a rule's conclusion. Locked marks the
// atom as requesting property-locking on emission (the trailing `!` in
// the rule DSL, spec §4.5, §6).
type HeadAtom struct {
	Kind   rdf.AtomKind
	Triple rdf.TriplePattern
	Left   rdf.Term
	Right  rdf.Term
	Locked bool
}

// Rule is a single deduction rule with the four clauses of spec §4.5.
// Exists and HeadExists are nil for a plain rule, per SPEC_FULL.md's
// resolution of Open Question 2: at most one clause of each quantifier
// kind is supported.
type Rule struct {
	Name       string
	Exists     *Quantifier // clause 1: existential pre-guard
	Forall     Quantifier  // clause 2: universal (or the whole body, for a plain rule)
	HeadExists *Quantifier // clause 3: inner existential
	Head       []HeadAtom
}

// IsPlain reports whether r is a plain `{body} => {head}` rule: one with no
// Exists and no HeadExists clause, whether or not Forall declares Vars —
// the sugar case of spec §4.5, evaluated by
// ordinary semi-naive delta matching rather than the post-stabilization
// universal phase.
func (r *Rule) IsPlain() bool {
	return r.Exists == nil && r.HeadExists == nil
}

// anchorVars returns the variables appearing in body that are not among
// quantified, in first-appearance order — the "shared anchors" of spec
// §4.5 that co-vary across a rule's clauses.
func anchorVars(body []rdf.Atom, quantified []rdf.Var) []rdf.Var {
	isQuantified := make(map[rdf.Var]bool, len(quantified))
	for _, v := range quantified {
		isQuantified[v] = true
	}
	seen := make(map[rdf.Var]bool)
	var out []rdf.Var
	visit := func(t rdf.Term) {
		if !t.IsVar || isQuantified[t.Variable] || seen[t.Variable] {
			return
		}
		seen[t.Variable] = true
		out = append(out, t.Variable)
	}
	for _, a := range body {
		switch a.Kind {
		case rdf.AtomPositive, rdf.AtomNegative:
			visit(a.Triple.Subject)
			visit(a.Triple.Predicate)
			visit(a.Triple.Object)
		case rdf.AtomEquality, rdf.AtomInequality:
			visit(a.Left)
			visit(a.Right)
		case rdf.AtomPath:
			visit(a.Path.Start)
			visit(a.Path.End)
		}
	}
	return out
}

func projectAnchors(b rdf.Bindings, anchors []rdf.Var) string {
	// A deterministic, order-stable string key groups bindings by their
	// anchor-variable projection without pulling in a generic tuple type.
	key := make([]byte, 0, len(anchors)*5)
	for _, v := range anchors {
		rid, ok := b[v]
		if !ok {
			return "" // no anchors bound: single implicit group
		}
		key = append(key, byte(rid), byte(rid>>8), byte(rid>>16), byte(rid>>24), '|')
	}
	return string(key)
}
