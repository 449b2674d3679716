package interchange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/rdf"
	"github.com/inferdf/inferdf/internal/rule"
)

const sampleDoc = `{
  "triples": [
    {"subject": ":a", "predicate": ":p", "object": ":b"}
  ],
  "rules": [
    {
      "name": "type-from-p",
      "forallBody": [
        {"kind": "positive", "subject": "?x", "predicate": ":p", "object": "?y"}
      ],
      "head": [
        {"kind": "positive", "subject": "?y", "predicate": "rdf:type", "object": ":T"}
      ]
    }
  ]
}`

func TestDecodeAndLoad(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Triples, 1)
	require.Len(t, doc.Rules, 1)

	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()
	require.NoError(t, LoadTriples(interp, graph, doc.Triples))
	require.Equal(t, 1, graph.Len())

	rules, err := LoadRules(interp, doc.Rules)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	eng := rule.NewEngine(interp, graph, rules, rule.Config{StepBudget: 1000})
	require.NoError(t, eng.Saturate())

	b := interp.InterpretIRI([]byte(":b"))
	rdfType := interp.InterpretIRI([]byte("rdf:type"))
	tClass := interp.InterpretIRI([]byte(":T"))
	require.True(t, graph.Contains(rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: b, Predicate: rdfType, Object: tClass}}))
}

func TestNegativeSignRoundTrips(t *testing.T) {
	doc := &Document{Triples: []TripleDoc{{Subject: ":a", Predicate: ":p", Object: ":b", Sign: "-"}}}
	interp := rdf.NewInterpretation()
	graph := rdf.NewGraph()
	require.NoError(t, LoadTriples(interp, graph, doc.Triples))

	a := interp.InterpretIRI([]byte(":a"))
	p := interp.InterpretIRI([]byte(":p"))
	b := interp.InterpretIRI([]byte(":b"))
	require.True(t, graph.Contains(rdf.SignedTriple{Sign: rdf.Negative, Triple: rdf.Triple{Subject: a, Predicate: p, Object: b}}))
}
