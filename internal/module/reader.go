package module

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/inferdf/inferdf/internal/rdf"
)

// IRIEntry is a decoded Iri row.
type IRIEntry struct {
	Text  []byte
	Owner rdf.ResourceID
}

// LiteralEntry is a decoded Literal row.
type LiteralEntry struct {
	Value     []byte
	Variant   rdf.TypeVariant
	TypeValue []byte
}

// ResourceEntry is a decoded InterpretationResource row.
type ResourceEntry struct {
	ID             rdf.ResourceID
	IRIs           []uint32 // indexes into Module.IRIs
	LiteralIndexes []uint32 // indexes into Module.Literals
	NE             []rdf.ResourceID
	Class          rdf.Class
	HasClass       bool
}

// ResourcePositions is one resource's fact-position index within a graph.
type ResourcePositions struct {
	AsSubject   []rdf.FactID
	AsPredicate []rdf.FactID
	AsObject    []rdf.FactID
}

// GraphData is a fully-decoded graph: its facts plus the per-resource
// position index (spec §6 "GraphDescription").
type GraphData struct {
	Facts         []rdf.Fact
	ResourceIndex map[rdf.ResourceID]ResourcePositions
}

// GroupDescEntry is a decoded GroupByDesc row.
type GroupDescEntry struct {
	Layer     uint32
	Index     uint32
	Signature []byte
}

// GroupIDEntry is a decoded GroupById row.
type GroupIDEntry struct {
	Group     rdf.GroupID
	Signature []byte
}

// RepresentativeEntry is a decoded Representative row.
type RepresentativeEntry struct {
	Class    rdf.Class
	Resource rdf.ResourceID
}

// Module is the fully-decoded, read-only view of one module file (spec
// §6). All sections are decoded eagerly at Open time so that subsequent
// accessor calls need no further error handling; Open itself decodes the
// three top-level sections concurrently via errgroup, matching the
// concurrency-safe-read guarantee of spec §5.
type Module struct {
	PageSize uint32

	IRIs      []IRIEntry
	Literals  []LiteralEntry
	Resources []ResourceEntry

	Default GraphData
	Named   map[rdf.ResourceID]GraphData

	GroupByDesc     []GroupDescEntry
	GroupByID       []GroupIDEntry
	Representatives []RepresentativeEntry
}

// Open decodes data as a module. It validates the header's tag, version,
// and page size, then decodes every section, returning ErrTruncated or
// ErrEntryOutOfBounds if data is inconsistent with its own descriptors.
func Open(data []byte) (*Module, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	first := firstPageOffset(h.PageSize)

	heapBytes, err := heapSlice(data, h.PageSize, first, h.Heap)
	if err != nil {
		return nil, err
	}
	heap := heapReader{buf: heapBytes}

	m := &Module{PageSize: h.PageSize, Named: make(map[rdf.ResourceID]GraphData)}

	var g errgroup.Group
	g.Go(func() error { return m.decodeInterpretation(data, h, first, heap) })
	g.Go(func() error { return m.decodeDataset(data, h, first, heap) })
	g.Go(func() error { return m.decodeClassification(data, h, first, heap) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Module) decodeInterpretation(data []byte, h header, first uint32, heap heapReader) error {
	iriBytes, err := pageSlice(data, h.PageSize, first, h.Interpretation.Iris, iriRowSize)
	if err != nil {
		return err
	}
	iris := make([]IRIEntry, h.Interpretation.Iris.EntryCount)
	for i := range iris {
		row := decodeIriRow(iriBytes[i*iriRowSize : (i+1)*iriRowSize])
		text, err := heap.bytes(row.Iri)
		if err != nil {
			return err
		}
		iris[i] = IRIEntry{Text: text, Owner: rdf.ResourceID(row.Interpretation)}
	}

	litBytes, err := pageSlice(data, h.PageSize, first, h.Interpretation.Literals, literalRowSize)
	if err != nil {
		return err
	}
	lits := make([]LiteralEntry, h.Interpretation.Literals.EntryCount)
	for i := range lits {
		row := decodeLiteralRow(litBytes[i*literalRowSize : (i+1)*literalRowSize])
		val, err := heap.bytes(row.Value)
		if err != nil {
			return err
		}
		var typeVal []byte
		if row.Variant != uint8(rdf.TypePlain) {
			typeVal, err = heap.bytes(row.TypeValue)
			if err != nil {
				return err
			}
		}
		lits[i] = LiteralEntry{Value: val, Variant: rdf.TypeVariant(row.Variant), TypeValue: typeVal}
	}

	resBytes, err := pageSlice(data, h.PageSize, first, h.Interpretation.Resources, resourceRowSize)
	if err != nil {
		return err
	}
	resources := make([]ResourceEntry, h.Interpretation.Resources.EntryCount)
	for i := range resources {
		row := decodeResourceRow(resBytes[i*resourceRowSize : (i+1)*resourceRowSize])
		iriIdx, err := heap.uint32s(row.Iris)
		if err != nil {
			return err
		}
		litIdx, err := heap.uint32s(row.Literals)
		if err != nil {
			return err
		}
		neIdx, err := heap.uint32s(row.NE)
		if err != nil {
			return err
		}
		ne := make([]rdf.ResourceID, len(neIdx))
		for j, v := range neIdx {
			ne[j] = rdf.ResourceID(v)
		}
		resources[i] = ResourceEntry{
			ID: rdf.ResourceID(row.ID), IRIs: iriIdx, LiteralIndexes: litIdx, NE: ne,
			Class: row.Class, HasClass: row.HasClass,
		}
	}

	m.IRIs, m.Literals, m.Resources = iris, lits, resources
	return nil
}

func decodeGraph(data []byte, pageSize, first uint32, desc graphDescriptor, heap heapReader) (GraphData, error) {
	factBytes, err := pageSlice(data, pageSize, first, desc.Facts, factRowSize)
	if err != nil {
		return GraphData{}, err
	}
	facts := make([]rdf.Fact, desc.Facts.EntryCount)
	for i := range facts {
		row := decodeFactRow(factBytes[i*factRowSize : (i+1)*factRowSize])
		facts[i] = rdf.Fact{SignedTriple: row.Triple, Cause: row.Cause}
	}

	resBytes, err := pageSlice(data, pageSize, first, desc.Resources, graphResourceRowSize)
	if err != nil {
		return GraphData{}, err
	}
	index := make(map[rdf.ResourceID]ResourcePositions, desc.Resources.EntryCount)
	for i := 0; i < int(desc.Resources.EntryCount); i++ {
		row := decodeGraphResourceRow(resBytes[i*graphResourceRowSize : (i+1)*graphResourceRowSize])
		asS, err := heap.uint32s(row.AsSubject)
		if err != nil {
			return GraphData{}, err
		}
		asP, err := heap.uint32s(row.AsPredicate)
		if err != nil {
			return GraphData{}, err
		}
		asO, err := heap.uint32s(row.AsObject)
		if err != nil {
			return GraphData{}, err
		}
		index[rdf.ResourceID(row.ID)] = ResourcePositions{
			AsSubject:   uint32sToFactIDs(asS),
			AsPredicate: uint32sToFactIDs(asP),
			AsObject:    uint32sToFactIDs(asO),
		}
	}
	return GraphData{Facts: facts, ResourceIndex: index}, nil
}

func uint32sToFactIDs(vs []uint32) []rdf.FactID {
	out := make([]rdf.FactID, len(vs))
	for i, v := range vs {
		out[i] = rdf.FactID(v)
	}
	return out
}

func (m *Module) decodeDataset(data []byte, h header, first uint32, heap heapReader) error {
	def, err := decodeGraph(data, h.PageSize, first, graphDescriptor{Facts: h.Dataset.DefaultFacts, Resources: h.Dataset.DefaultResources}, heap)
	if err != nil {
		return err
	}
	m.Default = def

	rowBytes, err := pageSlice(data, h.PageSize, first, h.Dataset.NamedGraphs, namedGraphRowSize)
	if err != nil {
		return err
	}
	named := make(map[rdf.ResourceID]GraphData, h.Dataset.NamedGraphs.EntryCount)
	for i := 0; i < int(h.Dataset.NamedGraphs.EntryCount); i++ {
		row := decodeNamedGraphRow(rowBytes[i*namedGraphRowSize : (i+1)*namedGraphRowSize])
		g, err := decodeGraph(data, h.PageSize, first, row.Description, heap)
		if err != nil {
			return err
		}
		named[rdf.ResourceID(row.ID)] = g
	}
	m.Named = named
	return nil
}

func (m *Module) decodeClassification(data []byte, h header, first uint32, heap heapReader) error {
	descBytes, err := pageSlice(data, h.PageSize, first, h.Classification.GroupByDesc, groupByDescRowSize)
	if err != nil {
		return err
	}
	descs := make([]GroupDescEntry, h.Classification.GroupByDesc.EntryCount)
	for i := range descs {
		row := decodeGroupByDescRow(descBytes[i*groupByDescRowSize : (i+1)*groupByDescRowSize])
		sig, err := heap.bytes(row.Description)
		if err != nil {
			return err
		}
		descs[i] = GroupDescEntry{Layer: row.Layer, Index: row.Index, Signature: sig}
	}

	idBytes, err := pageSlice(data, h.PageSize, first, h.Classification.GroupByID, groupByIDRowSize)
	if err != nil {
		return err
	}
	ids := make([]GroupIDEntry, h.Classification.GroupByID.EntryCount)
	for i := range ids {
		row := decodeGroupByIDRow(idBytes[i*groupByIDRowSize : (i+1)*groupByIDRowSize])
		sig, err := heap.bytes(row.Description)
		if err != nil {
			return err
		}
		ids[i] = GroupIDEntry{Group: row.Group, Signature: sig}
	}

	reprBytes, err := pageSlice(data, h.PageSize, first, h.Classification.Representative, representativeRowSize)
	if err != nil {
		return err
	}
	reprs := make([]RepresentativeEntry, h.Classification.Representative.EntryCount)
	for i := range reprs {
		row := decodeRepresentativeRow(reprBytes[i*representativeRowSize : (i+1)*representativeRowSize])
		reprs[i] = RepresentativeEntry{Class: row.Class, Resource: rdf.ResourceID(row.Resource)}
	}

	m.GroupByDesc, m.GroupByID, m.Representatives = descs, ids, reprs
	return nil
}

// NamedGraphIDs returns the resource ids of the module's named graphs, in
// ascending order.
func (m *Module) NamedGraphIDs() []rdf.ResourceID {
	ids := make([]rdf.ResourceID, 0, len(m.Named))
	for id := range m.Named {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
