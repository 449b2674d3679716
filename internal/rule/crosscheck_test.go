package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/rdf"
)

// TestCrossCheckAgreesWithEngineOnPositiveRules exercises the confluence
// property of spec §8: an independent Mangle evaluation of the positive,
// unlocked projection of a rule set must derive the same triples as
// Engine.Saturate for the same input.
func TestCrossCheckAgreesWithEngineOnPositiveRules(t *testing.T) {
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	a := interp.InterpretIRI([]byte(":a"))
	p := interp.InterpretIRI([]byte(":p"))
	q := interp.InterpretIRI([]byte(":q"))
	b := interp.InterpretIRI([]byte(":b"))
	c := interp.InterpretIRI([]byte(":c"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: b}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: b, Predicate: p, Object: c}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	// Two plain, positive, unlocked rules: transitive closure over ?p into
	// ?q, both eligible for cross-check translation.
	rules := []*Rule{
		{
			Name: "p-implies-q",
			Forall: Quantifier{
				Body: []rdf.Atom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(p), Object: rdf.V(1)}}},
			},
			Head: []HeadAtom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(q), Object: rdf.V(1)}}},
		},
		{
			Name: "p-transitive",
			Forall: Quantifier{
				Body: []rdf.Atom{
					{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(p), Object: rdf.V(1)}},
					{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.R(p), Object: rdf.V(2)}},
				},
			},
			Head: []HeadAtom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(p), Object: rdf.V(2)}}},
		},
	}

	eng := NewEngine(interp, graph, rules, Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())

	engineFacts := make(map[rdf.Triple]bool)
	for _, f := range graph.All() {
		if f.Sign == rdf.Positive {
			engineFacts[f.Triple] = true
		}
	}

	seedFacts := []rdf.Triple{
		{Subject: a, Predicate: p, Object: b},
		{Subject: b, Predicate: p, Object: c},
	}
	crossChecked, err := CrossCheck(rules, seedFacts)
	require.NoError(t, err)
	require.NotEmpty(t, crossChecked)

	for triple := range crossChecked {
		require.Truef(t, engineFacts[triple], "mangle derived %+v but the engine did not", triple)
	}
	for triple := range engineFacts {
		require.Truef(t, crossChecked[triple], "engine derived %+v but mangle did not", triple)
	}
}
