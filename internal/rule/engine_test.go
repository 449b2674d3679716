package rule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/rdf"
)

func TestPlainRuleTriggersInsertion(t *testing.T) {
	// Scenario 1 of spec §8: (:a, :p, :b), rule ?x :p ?y => ?y rdf:type :T.
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	a := interp.InterpretIRI([]byte(":a"))
	p := interp.InterpretIRI([]byte(":p"))
	bRes := interp.InterpretIRI([]byte(":b"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	tClass := interp.InterpretIRI([]byte(":T"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: bRes}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	r := &Rule{
		Name: "type-from-p",
		Forall: Quantifier{
			Body: []rdf.Atom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(p), Object: rdf.V(1)}}},
		},
		Head: []HeadAtom{
			{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.R(rdfType), Object: rdf.R(tClass)}},
		},
	}

	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())

	require.True(t, graph.Contains(rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: bRes, Predicate: rdfType, Object: tClass}}))
}

func TestPlainRuleEqualityMerges(t *testing.T) {
	// Scenario 2 of spec §8: sameAs merges.
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	a := interp.InterpretIRI([]byte(":a"))
	aAlias := interp.InterpretIRI([]byte(":a-alias"))
	p := interp.InterpretIRI([]byte(":p"))
	bRes := interp.InterpretIRI([]byte(":b"))
	sameAs := interp.InterpretIRI([]byte("owl:sameAs"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: bRes}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: sameAs, Object: aAlias}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	r := &Rule{
		Name: "sameas-merge",
		Forall: Quantifier{
			Body: []rdf.Atom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(sameAs), Object: rdf.V(1)}}},
		},
		Head: []HeadAtom{{Kind: rdf.AtomEquality, Left: rdf.V(0), Right: rdf.V(1)}},
	}

	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())

	require.Equal(t, interp.Representative(a), interp.Representative(aAlias))
}

func TestUniversalRuleLocksProperty(t *testing.T) {
	// Scenario 4 of spec §8: locked universal.
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	p := interp.InterpretIRI([]byte(":p"))
	domain := interp.InterpretIRI([]byte("rdfs:domain"))
	c := interp.InterpretIRI([]byte(":C"))
	d := interp.InterpretIRI([]byte(":D"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	class := interp.InterpretIRI([]byte("rdfs:Class"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: p, Predicate: domain, Object: c}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	r := &Rule{
		Name: "domain-locks-class",
		Forall: Quantifier{
			Vars: []rdf.Var{0},
			Body: []rdf.Atom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(domain), Object: rdf.V(1)}}},
		},
		Head: []HeadAtom{
			{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.R(rdfType), Object: rdf.R(class)}, Locked: true},
		},
	}

	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())
	require.True(t, graph.Contains(rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: c, Predicate: rdfType, Object: class}}))

	_, err = eng.applyHead(&Rule{
		Head: []HeadAtom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.R(c), Predicate: rdf.R(rdfType), Object: rdf.R(d)}}},
	}, rdf.Bindings{})
	require.Error(t, err)
	var lockErr *LockedConflictError
	require.ErrorAs(t, err, &lockErr)
}

func TestNegativeEntailmentAndSignConflict(t *testing.T) {
	// Scenario 5 of spec §8.
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	complementOf := interp.InterpretIRI([]byte("owl:complementOf"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	classA := interp.InterpretIRI([]byte(":A"))
	classB := interp.InterpretIRI([]byte(":B"))
	x := interp.InterpretIRI([]byte(":x"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: classA, Predicate: complementOf, Object: classB}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: x, Predicate: rdfType, Object: classA}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	r := &Rule{
		Name: "complement-negation",
		Forall: Quantifier{
			Body: []rdf.Atom{
				{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(complementOf), Object: rdf.V(1)}},
				{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(2), Predicate: rdf.R(rdfType), Object: rdf.V(0)}},
			},
		},
		Head: []HeadAtom{
			{Kind: rdf.AtomNegative, Triple: rdf.TriplePattern{Subject: rdf.V(2), Predicate: rdf.R(rdfType), Object: rdf.V(1)}},
		},
	}

	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())

	require.True(t, graph.Contains(rdf.SignedTriple{Sign: rdf.Negative, Triple: rdf.Triple{Subject: x, Predicate: rdfType, Object: classB}}))

	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: x, Predicate: rdfType, Object: classB}}, rdf.Cause{Kind: rdf.CauseStated})
	require.ErrorIs(t, err, rdf.ErrConflictSign)
}

func TestFunctionalPropertyMergeHitsNonEqualConflict(t *testing.T) {
	// Scenario 3 of spec §8: a functional-property rule tries to merge two
	// objects already declared differentFrom, and the merge attempt must
	// surface ConflictNonEqual rather than silently pick a survivor.
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	p := interp.InterpretIRI([]byte(":p"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	functionalProperty := interp.InterpretIRI([]byte("owl:FunctionalProperty"))
	x := interp.InterpretIRI([]byte(":x"))
	y1 := interp.InterpretIRI([]byte(":y1"))
	y2 := interp.InterpretIRI([]byte(":y2"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: p, Predicate: rdfType, Object: functionalProperty}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: x, Predicate: p, Object: y1}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: x, Predicate: p, Object: y2}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	require.NoError(t, interp.SetNonEqual(y1, y2))

	r := &Rule{
		Name: "functional-property-merge",
		Forall: Quantifier{
			Body: []rdf.Atom{
				{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(rdfType), Object: rdf.R(functionalProperty)}},
				{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.V(0), Object: rdf.V(2)}},
				{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.V(0), Object: rdf.V(3)}},
			},
		},
		Head: []HeadAtom{{Kind: rdf.AtomEquality, Left: rdf.V(2), Right: rdf.V(3)}},
	}

	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000})
	err = eng.Saturate()
	require.Error(t, err)
	require.ErrorIs(t, err, rdf.ErrConflictNonEqual)
}

func TestFactLimitStopsSaturation(t *testing.T) {
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	p := interp.InterpretIRI([]byte(":p"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	tClass := interp.InterpretIRI([]byte(":T"))

	for i := 0; i < 3; i++ {
		s := interp.InterpretIRI([]byte(fmt.Sprintf(":s%d", i)))
		o := interp.InterpretIRI([]byte(fmt.Sprintf(":o%d", i)))
		_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: s, Predicate: p, Object: o}}, rdf.Cause{Kind: rdf.CauseStated})
		require.NoError(t, err)
	}

	r := &Rule{
		Name: "type-from-p",
		Forall: Quantifier{
			Body: []rdf.Atom{{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(0), Predicate: rdf.R(p), Object: rdf.V(1)}}},
		},
		Head: []HeadAtom{
			{Kind: rdf.AtomPositive, Triple: rdf.TriplePattern{Subject: rdf.V(1), Predicate: rdf.R(rdfType), Object: rdf.R(tClass)}},
		},
	}

	// Three seed triples already occupy the graph; the rule fires once per
	// distinct object, so the second inferred fact (the graph's fifth)
	// overruns a limit of 4.
	eng := NewEngine(interp, graph, []*Rule{r}, Config{StepBudget: 1000, FactLimit: 4})
	err := eng.Saturate()
	require.Error(t, err)
	var limitErr *FactLimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, 4, limitErr.Limit)
}
