package rdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphInsertIsIdempotent(t *testing.T) {
	in := NewInterpretation()
	g := NewGraph()
	s := in.InterpretIRI([]byte(":a"))
	p := in.InterpretIRI([]byte(":p"))
	o := in.InterpretIRI([]byte(":b"))

	id1, inserted1, err := g.Insert(in, SignedTriple{Sign: Positive, Triple: Triple{s, p, o}}, Cause{Kind: CauseStated})
	require.NoError(t, err)
	require.True(t, inserted1)

	id2, inserted2, err := g.Insert(in, SignedTriple{Sign: Positive, Triple: Triple{s, p, o}}, Cause{Kind: CauseStated})
	require.NoError(t, err)
	require.False(t, inserted2)
	require.Equal(t, id1, id2)
	require.Equal(t, 1, g.Len())
}

func TestGraphInsertSignConflict(t *testing.T) {
	in := NewInterpretation()
	g := NewGraph()
	s := in.InterpretIRI([]byte(":a"))
	p := in.InterpretIRI([]byte(":p"))
	o := in.InterpretIRI([]byte(":b"))

	_, _, err := g.Insert(in, SignedTriple{Sign: Positive, Triple: Triple{s, p, o}}, Cause{Kind: CauseStated})
	require.NoError(t, err)

	_, _, err = g.Insert(in, SignedTriple{Sign: Negative, Triple: Triple{s, p, o}}, Cause{Kind: CauseInferred})
	require.ErrorIs(t, err, ErrConflictSign)
}

func TestGraphInsertNormalizesThroughRepresentative(t *testing.T) {
	in := NewInterpretation()
	g := NewGraph()
	s1 := in.InterpretIRI([]byte(":a"))
	s2 := in.InterpretIRI([]byte(":a-alias"))
	p := in.InterpretIRI([]byte(":p"))
	o := in.InterpretIRI([]byte(":b"))

	survivor, _, err := in.Merge(s1, s2)
	require.NoError(t, err)

	_, _, err = g.Insert(in, SignedTriple{Sign: Positive, Triple: Triple{s2, p, o}}, Cause{Kind: CauseStated})
	require.NoError(t, err)

	facts := g.All()
	require.Len(t, facts, 1)
	require.Equal(t, survivor, facts[0].Subject)
}
