package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/rdf"
)

func TestClassifyIsStableOnUnchangedGraph(t *testing.T) {
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	a := interp.InterpretIRI([]byte(":a"))
	b := interp.InterpretIRI([]byte(":b"))
	p := interp.InterpretIRI([]byte(":p"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: b}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	c1, err := Classify(interp, graph)
	require.NoError(t, err)

	classA1, ok := interp.ClassOf(a)
	require.True(t, ok)

	c2, err := Classify(interp, graph)
	require.NoError(t, err)

	classA2, ok := interp.ClassOf(a)
	require.True(t, ok)

	require.Equal(t, classA1, classA2)
	require.Equal(t, len(c1.Groups), len(c2.Groups))
}

func TestClassifySeparatesStructurallyDistinctResources(t *testing.T) {
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()

	a := interp.InterpretIRI([]byte(":a"))
	b := interp.InterpretIRI([]byte(":b"))
	c := interp.InterpretIRI([]byte(":c"))
	p := interp.InterpretIRI([]byte(":p"))
	q := interp.InterpretIRI([]byte(":q"))

	_, _, err := graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: b}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)
	_, _, err = graph.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: q, Object: c}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	_, err = Classify(interp, graph)
	require.NoError(t, err)

	classB, _ := interp.ClassOf(b)
	classC, _ := interp.ClassOf(c)
	require.NotEqual(t, classB.Group, classC.Group)
}
