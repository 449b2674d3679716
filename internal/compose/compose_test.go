package compose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/module"
	"github.com/inferdf/inferdf/internal/rdf"
)

func buildModule(t *testing.T, subj, pred, obj string) *module.Module {
	t.Helper()
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()

	s := interp.InterpretIRI([]byte(subj))
	p := interp.InterpretIRI([]byte(pred))
	o := interp.InterpretIRI([]byte(obj))
	_, _, err := dataset.Default.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: s, Predicate: p, Object: o}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	cls, err := classify.Classify(interp, dataset.Default)
	require.NoError(t, err)

	data, err := module.Build(interp, dataset, cls, 128)
	require.NoError(t, err)

	m, err := module.Open(data)
	require.NoError(t, err)
	return m
}

func TestComposeMatchesStructurallyIdenticalModules(t *testing.T) {
	a := buildModule(t, ":a", ":p", ":b")
	b := buildModule(t, ":x", ":p", ":y")

	plan, err := Compose(a, b)
	require.NoError(t, err)
	// :p plays the same structural role (a predicate with one subject-use
	// and one object-use of matching degree) in both modules, so the
	// predicate resources should be proposed for merging.
	require.NotEmpty(t, plan.Merges)
}

func TestApplyProducesUnionOfFacts(t *testing.T) {
	a := buildModule(t, ":a", ":p", ":b")
	b := buildModule(t, ":x", ":q", ":y")

	plan, err := Compose(a, b)
	require.NoError(t, err)

	interp, dataset, err := Apply(a, b, plan)
	require.NoError(t, err)

	// Both modules have the same shape, so :a/:x, :p/:q and :b/:y share
	// signatures and are merged; the two facts collapse into one.
	require.Equal(t, 1, dataset.Default.Len())

	cls, err := Classify(interp, dataset.Default)
	require.NoError(t, err)
	require.NotNil(t, cls)

	out, err := module.Build(interp, dataset, cls, 128)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
