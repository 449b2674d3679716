package rdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpretIRIIsPure(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretIRI([]byte("http://example.org/a"))
	b := in.InterpretIRI([]byte("http://example.org/a"))
	require.Equal(t, a, b)

	c := in.InterpretIRI([]byte("http://example.org/b"))
	require.NotEqual(t, a, c)
}

func TestInterpretBlankScopedPerDocument(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretBlank(1, 0)
	b := in.InterpretBlank(1, 0)
	c := in.InterpretBlank(2, 0)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestRepresentativeIsIdempotent(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretIRI([]byte(":a"))
	require.Equal(t, in.Representative(a), in.Representative(in.Representative(a)))
}

func TestMergeChoosesSmallerIDAndUnionsTerms(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretIRI([]byte(":a"))
	b := in.InterpretIRI([]byte(":b"))

	survivor, loser, err := in.Merge(a, b)
	require.NoError(t, err)

	smaller, larger := a, b
	if b < a {
		smaller, larger = b, a
	}
	require.Equal(t, smaller, survivor)
	require.Equal(t, larger, loser)
	require.Equal(t, survivor, in.Representative(a))
	require.Equal(t, survivor, in.Representative(b))

	iris := in.IRIs(survivor)
	require.Len(t, iris, 2)
}

func TestMergeRejectsNonEqual(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretIRI([]byte(":a"))
	b := in.InterpretIRI([]byte(":b"))
	require.NoError(t, in.SetNonEqual(a, b))

	_, _, err := in.Merge(a, b)
	require.ErrorIs(t, err, ErrConflictNonEqual)
}

func TestSetNonEqualRejectsAlreadyMerged(t *testing.T) {
	in := NewInterpretation()
	a := in.InterpretIRI([]byte(":a"))
	b := in.InterpretIRI([]byte(":b"))
	_, _, err := in.Merge(a, b)
	require.NoError(t, err)

	err = in.SetNonEqual(a, b)
	require.ErrorIs(t, err, ErrConflictAlreadyMerged)
}
