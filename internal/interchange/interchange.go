// Package interchange defines a minimal JSON schema for handing
// already-parsed facts and rules to the engine, standing in for the
// N-Quads and rule-DSL parsers spec.md explicitly places out of scope
// (§1 "external collaborators"). cmd/inferdf's build command reads this
// format; nothing else in the engine depends on it.
package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/inferdf/inferdf/internal/rdf"
	"github.com/inferdf/inferdf/internal/rule"
)

// TripleDoc is one input fact: three IRI strings plus a polarity marker.
// Sign is "+" for a positive triple or "-" for a negative one, matching
// rdf.Sign's own rendering.
type TripleDoc struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Sign      string `json:"sign,omitempty"`
}

// AtomDoc is one body atom of a rule clause. Kind selects which fields
// apply: "positive"/"negative" use Subject/Predicate/Object (a "?"-prefixed
// string names a variable, anything else is a constant IRI); "equality"/
// "inequality" use Left/Right.
type AtomDoc struct {
	Kind      string `json:"kind"`
	Subject   string `json:"subject,omitempty"`
	Predicate string `json:"predicate,omitempty"`
	Object    string `json:"object,omitempty"`
	Left      string `json:"left,omitempty"`
	Right     string `json:"right,omitempty"`
}

// HeadAtomDoc is a rule head atom: an AtomDoc plus the locking marker of
// spec §4.5.
type HeadAtomDoc struct {
	AtomDoc
	Locked bool `json:"locked,omitempty"`
}

// RuleDoc is one rule in the four-clause shape of spec §4.5: an optional
// existential pre-guard, the universally-quantified body, an optional
// inner existential over the head, and the head itself.
type RuleDoc struct {
	Name           string        `json:"name"`
	Exists         []string      `json:"exists,omitempty"`
	ExistsBody     []AtomDoc     `json:"existsBody,omitempty"`
	Forall         []string      `json:"forall,omitempty"`
	ForallBody     []AtomDoc     `json:"forallBody"`
	HeadExists     []string      `json:"headExists,omitempty"`
	HeadExistsBody []AtomDoc     `json:"headExistsBody,omitempty"`
	Head           []HeadAtomDoc `json:"head"`
}

// Document is the top-level interchange payload.
type Document struct {
	Triples []TripleDoc `json:"triples"`
	Rules   []RuleDoc   `json:"rules"`
}

// Decode reads a Document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("interchange: decode: %w", err)
	}
	return &doc, nil
}

// varTable assigns dense rdf.Var ids to "?name" strings within the scope
// of a single rule.
type varTable struct {
	next int
	ids  map[string]rdf.Var
}

func newVarTable() *varTable { return &varTable{ids: make(map[string]rdf.Var)} }

func (t *varTable) get(name string) rdf.Var {
	if v, ok := t.ids[name]; ok {
		return v
	}
	v := rdf.Var(t.next)
	t.next++
	t.ids[name] = v
	return v
}

func (t *varTable) resolve(interp *rdf.Interpretation, s string) rdf.Term {
	if strings.HasPrefix(s, "?") {
		return rdf.V(t.get(s))
	}
	return rdf.R(interp.InterpretIRI([]byte(s)))
}

func (t *varTable) varList(names []string) []rdf.Var {
	out := make([]rdf.Var, len(names))
	for i, n := range names {
		out[i] = t.get(n)
	}
	return out
}

func (t *varTable) atom(interp *rdf.Interpretation, a AtomDoc) (rdf.Atom, error) {
	switch a.Kind {
	case "positive", "":
		return rdf.Atom{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{
			Subject: t.resolve(interp, a.Subject), Predicate: t.resolve(interp, a.Predicate), Object: t.resolve(interp, a.Object),
		}}, nil
	case "negative":
		return rdf.Atom{Kind: rdf.AtomNegative, Triple: rdf.TriplePattern{
			Subject: t.resolve(interp, a.Subject), Predicate: t.resolve(interp, a.Predicate), Object: t.resolve(interp, a.Object),
		}}, nil
	case "equality":
		return rdf.Atom{Kind: rdf.AtomEquality, Left: t.resolve(interp, a.Left), Right: t.resolve(interp, a.Right)}, nil
	case "inequality":
		return rdf.Atom{Kind: rdf.AtomInequality, Left: t.resolve(interp, a.Left), Right: t.resolve(interp, a.Right)}, nil
	default:
		return rdf.Atom{}, fmt.Errorf("interchange: unknown atom kind %q", a.Kind)
	}
}

func (t *varTable) atoms(interp *rdf.Interpretation, docs []AtomDoc) ([]rdf.Atom, error) {
	out := make([]rdf.Atom, 0, len(docs))
	for _, d := range docs {
		a, err := t.atom(interp, d)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (t *varTable) headAtom(interp *rdf.Interpretation, d HeadAtomDoc) (rule.HeadAtom, error) {
	a, err := t.atom(interp, d.AtomDoc)
	if err != nil {
		return rule.HeadAtom{}, err
	}
	return rule.HeadAtom{Kind: a.Kind, Triple: a.Triple, Left: a.Left, Right: a.Right, Locked: d.Locked}, nil
}

// LoadTriples interns and inserts every TripleDoc into g, tagging each
// with a Cause{Stated} carrying its position in the list as the
// input-line id (spec §3 "Cause").
func LoadTriples(interp *rdf.Interpretation, g *rdf.Graph, docs []TripleDoc) error {
	for i, d := range docs {
		sign := rdf.Positive
		if d.Sign == "-" {
			sign = rdf.Negative
		}
		st := rdf.SignedTriple{Sign: sign, Triple: rdf.Triple{
			Subject:   interp.InterpretIRI([]byte(d.Subject)),
			Predicate: interp.InterpretIRI([]byte(d.Predicate)),
			Object:    interp.InterpretIRI([]byte(d.Object)),
		}}
		if _, _, err := g.Insert(interp, st, rdf.Cause{Kind: rdf.CauseStated, Value: uint32(i)}); err != nil {
			return fmt.Errorf("interchange: triple %d: %w", i, err)
		}
	}
	return nil
}

// LoadRules translates each RuleDoc into a *rule.Rule, using a fresh
// variable namespace per rule (spec §4.5: variables never cross rule
// boundaries).
func LoadRules(interp *rdf.Interpretation, docs []RuleDoc) ([]*rule.Rule, error) {
	out := make([]*rule.Rule, 0, len(docs))
	for _, d := range docs {
		t := newVarTable()

		forallBody, err := t.atoms(interp, d.ForallBody)
		if err != nil {
			return nil, fmt.Errorf("interchange: rule %q forall body: %w", d.Name, err)
		}
		r := &rule.Rule{
			Name:   d.Name,
			Forall: rule.Quantifier{Vars: t.varList(d.Forall), Body: forallBody},
		}

		if len(d.ExistsBody) > 0 || len(d.Exists) > 0 {
			body, err := t.atoms(interp, d.ExistsBody)
			if err != nil {
				return nil, fmt.Errorf("interchange: rule %q exists body: %w", d.Name, err)
			}
			r.Exists = &rule.Quantifier{Vars: t.varList(d.Exists), Body: body}
		}
		if len(d.HeadExistsBody) > 0 || len(d.HeadExists) > 0 {
			body, err := t.atoms(interp, d.HeadExistsBody)
			if err != nil {
				return nil, fmt.Errorf("interchange: rule %q head-exists body: %w", d.Name, err)
			}
			r.HeadExists = &rule.Quantifier{Vars: t.varList(d.HeadExists), Body: body}
		}

		head := make([]rule.HeadAtom, 0, len(d.Head))
		for _, hd := range d.Head {
			ha, err := t.headAtom(interp, hd)
			if err != nil {
				return nil, fmt.Errorf("interchange: rule %q head: %w", d.Name, err)
			}
			head = append(head, ha)
		}
		r.Head = head

		out = append(out, r)
	}
	return out, nil
}
