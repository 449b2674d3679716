package module

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/rdf"
)

func sortFacts(fs []rdf.Fact) {
	sort.Slice(fs, func(i, j int) bool {
		fi, fj := fs[i], fs[j]
		if fi.Sign != fj.Sign {
			return fi.Sign < fj.Sign
		}
		if fi.Subject != fj.Subject {
			return fi.Subject < fj.Subject
		}
		if fi.Predicate != fj.Predicate {
			return fi.Predicate < fj.Predicate
		}
		return fi.Object < fj.Object
	})
}

func TestBuildOpenRoundTripsFactsAndResources(t *testing.T) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()

	a := interp.InterpretIRI([]byte(":a"))
	p := interp.InterpretIRI([]byte(":p"))
	b := interp.InterpretIRI([]byte(":b"))
	lit := interp.InterpretLiteral([]byte("42"), rdf.TypeDatatypeIRI, []byte("xsd:integer"))

	_, _, err := dataset.Default.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: b}}, rdf.Cause{Kind: rdf.CauseStated, Value: 1})
	require.NoError(t, err)
	_, _, err = dataset.Default.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: lit}}, rdf.Cause{Kind: rdf.CauseStated, Value: 2})
	require.NoError(t, err)

	namedID := interp.InterpretIRI([]byte(":g1"))
	g := dataset.Named(namedID)
	_, _, err = g.Insert(interp, rdf.SignedTriple{Sign: rdf.Negative, Triple: rdf.Triple{Subject: b, Predicate: p, Object: a}}, rdf.Cause{Kind: rdf.CauseInferred, Value: 7})
	require.NoError(t, err)

	cls, err := classify.Classify(interp, dataset.Default)
	require.NoError(t, err)

	data, err := Build(interp, dataset, cls, 256)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	mod, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, uint32(256), mod.PageSize)

	gotDefault := append([]rdf.Fact(nil), mod.Default.Facts...)
	wantDefault := dataset.Default.All()
	sortFacts(gotDefault)
	sortFacts(wantDefault)
	if diff := cmp.Diff(wantDefault, gotDefault); diff != "" {
		t.Fatalf("default graph facts mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, mod.NamedGraphIDs(), 1)
	namedData, ok := mod.Named[interp.Representative(namedID)]
	require.True(t, ok)
	require.Len(t, namedData.Facts, 1)
	require.Equal(t, rdf.Negative, namedData.Facts[0].Sign)

	require.Equal(t, len(cls.Groups), len(mod.GroupByDesc))
	require.Equal(t, len(cls.Groups), len(mod.GroupByID))
}

func TestModuleRoundTripsIRIAndLiteralText(t *testing.T) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()

	a := interp.InterpretIRI([]byte("https://example.org/a"))
	p := interp.InterpretIRI([]byte("https://example.org/p"))
	lit := interp.InterpretLiteral([]byte("hello"), rdf.TypeLanguage, []byte("en"))

	_, _, err := dataset.Default.Insert(interp, rdf.SignedTriple{Sign: rdf.Positive, Triple: rdf.Triple{Subject: a, Predicate: p, Object: lit}}, rdf.Cause{Kind: rdf.CauseStated})
	require.NoError(t, err)

	data, err := Build(interp, dataset, nil, 128)
	require.NoError(t, err)

	mod, err := Open(data)
	require.NoError(t, err)

	foundA := false
	for _, e := range mod.IRIs {
		if string(e.Text) == "https://example.org/a" {
			foundA = true
			require.Equal(t, interp.Representative(a), e.Owner)
		}
	}
	require.True(t, foundA)

	foundLit := false
	for _, e := range mod.Literals {
		if string(e.Value) == "hello" {
			foundLit = true
			require.Equal(t, rdf.TypeLanguage, e.Variant)
			require.Equal(t, "en", string(e.TypeValue))
		}
	}
	require.True(t, foundLit)
}

func TestOpenRejectsWrongTag(t *testing.T) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()
	data, err := Build(interp, dataset, nil, 128)
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[0] ^= 0xFF

	_, err = Open(corrupt)
	require.ErrorIs(t, err, ErrFormatMismatch)
}

func TestBuildRejectsZeroPageSize(t *testing.T) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()
	_, err := Build(interp, dataset, nil, 0)
	require.ErrorIs(t, err, ErrPageSizeInvalid)
}

func TestOpenRejectsUnalignedTrailingBytes(t *testing.T) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()
	data, err := Build(interp, dataset, nil, 128)
	require.NoError(t, err)

	_, err = Open(append(data, 0x01, 0x02, 0x03))
	require.ErrorIs(t, err, ErrUnalignedPage)
}
