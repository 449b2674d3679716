package inferdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShimBuildsAndOpensAModule(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"triples":[{"subject":":a","predicate":":p","object":":b"}],"rules":[]}`))
	require.NoError(t, err)

	interp := NewInterpretation()
	graph := NewGraph()
	require.NoError(t, LoadTriples(interp, graph, doc.Triples))

	dataset := NewDataset()
	dataset.Default = graph

	cls, err := Classify(interp, graph)
	require.NoError(t, err)

	data, err := Build(interp, dataset, cls, DefaultPageSize)
	require.NoError(t, err)

	mod, err := Open(data)
	require.NoError(t, err)
	require.Len(t, mod.Default.Facts, 1)
}
