package module

import (
	"fmt"
	"sort"

	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/rdf"
)

// DefaultPageSize is the page size the pkg/inferdf shim exports for
// callers that have no configured one (spec §6); cmd/inferdf takes its
// page size from config.
const DefaultPageSize uint32 = 4096

// Build serializes interp, dataset, and classification into a single
// module byte slice using pageSize-aligned sections (spec §4.7, §6).
// classification may be nil, in which case the Classification section is
// written empty — a module produced before classification has run is
// still a valid, readable module, just without canonicalization data.
func Build(interp *rdf.Interpretation, dataset *rdf.Dataset, classification *classify.Classification, pageSize uint32) ([]byte, error) {
	if pageSize == 0 {
		return nil, ErrPageSizeInvalid
	}
	if firstPageOffset(pageSize) < headerFixedSize {
		return nil, ErrPageSizeInvalid
	}

	heap := &heapWriter{}
	pages := newPageBuilder(pageSize)

	datasetDesc, err := buildDataset(interp, dataset, heap, pages)
	if err != nil {
		return nil, err
	}
	interpDesc, err := buildInterpretation(interp, heap, pages)
	if err != nil {
		return nil, err
	}
	classDesc := buildClassification(classification, heap, pages)
	heapDesc := pages.appendHeap(heap.buf)

	h := header{
		Tag:            Tag,
		Version:        Version,
		PageSize:       pageSize,
		Interpretation: interpDesc,
		Dataset:        datasetDesc,
		Classification: classDesc,
		Heap:           heapDesc,
	}

	out := make([]byte, firstPageOffset(pageSize)+uint32(len(pages.data)))
	encodeHeader(out[:headerFixedSize], h)
	copy(out[firstPageOffset(pageSize):], pages.data)
	return out, nil
}

func encodeHeader(dst []byte, h header) {
	off := 0
	byteOrder.PutUint32(dst[off:off+4], h.Tag)
	off += 4
	byteOrder.PutUint32(dst[off:off+4], h.Version)
	off += 4
	byteOrder.PutUint32(dst[off:off+4], h.PageSize)
	off += 4
	encodeSectionDescriptor(dst[off:off+8], h.Interpretation.Iris)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Interpretation.Literals)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Interpretation.Resources)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Dataset.DefaultFacts)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Dataset.DefaultResources)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Dataset.NamedGraphs)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Classification.GroupByDesc)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Classification.GroupByID)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Classification.Representative)
	off += 8
	encodeSectionDescriptor(dst[off:off+8], h.Heap)
}

func decodeHeader(src []byte) (header, error) {
	if len(src) < headerFixedSize {
		return header{}, ErrTruncated
	}
	var h header
	off := 0
	h.Tag = byteOrder.Uint32(src[off : off+4])
	off += 4
	h.Version = byteOrder.Uint32(src[off : off+4])
	off += 4
	h.PageSize = byteOrder.Uint32(src[off : off+4])
	off += 4
	if h.Tag != Tag || h.Version != Version {
		return header{}, ErrFormatMismatch
	}
	if h.PageSize == 0 {
		return header{}, ErrPageSizeInvalid
	}
	first := firstPageOffset(h.PageSize)
	if len(src) < int(first) {
		return header{}, ErrTruncated
	}
	if uint32(len(src)-int(first))%h.PageSize != 0 {
		return header{}, ErrUnalignedPage
	}
	h.Interpretation.Iris = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Interpretation.Literals = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Interpretation.Resources = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Dataset.DefaultFacts = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Dataset.DefaultResources = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Dataset.NamedGraphs = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Classification.GroupByDesc = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Classification.GroupByID = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Classification.Representative = decodeSectionDescriptor(src[off : off+8])
	off += 8
	h.Heap = decodeSectionDescriptor(src[off : off+8])
	return h, nil
}

// buildGraphSection encodes one graph's facts and its resource position
// index, writing both as page-aligned sections (spec §6 "GraphDescription").
func buildGraphSection(g *rdf.Graph, resources []rdf.ResourceID, heap *heapWriter, pages *pageBuilder) graphDescriptor {
	facts := g.All()
	factBytes := make([]byte, len(facts)*factRowSize)
	for i, f := range facts {
		encodeFactRow(factBytes[i*factRowSize:(i+1)*factRowSize], factRow{Triple: f.SignedTriple, Cause: f.Cause})
	}
	factsDesc := pages.appendRows(factBytes, factRowSize, len(facts))

	type row struct {
		id             uint32
		subj, pred, ob []rdf.FactID
	}
	var rows []row
	for _, rid := range resources {
		asSubj := g.FactsAsSubject(rid)
		asPred := g.FactsAsPredicate(rid)
		asObj := g.FactsAsObject(rid)
		if len(asSubj) == 0 && len(asPred) == 0 && len(asObj) == 0 {
			continue
		}
		rows = append(rows, row{id: uint32(rid), subj: asSubj, pred: asPred, ob: asObj})
	}

	resBytes := make([]byte, len(rows)*graphResourceRowSize)
	for i, r := range rows {
		encodeGraphResourceRow(resBytes[i*graphResourceRowSize:(i+1)*graphResourceRowSize], graphResourceRow{
			ID:          r.id,
			AsSubject:   heap.putUint32s(factIDsToUint32(r.subj)),
			AsPredicate: heap.putUint32s(factIDsToUint32(r.pred)),
			AsObject:    heap.putUint32s(factIDsToUint32(r.ob)),
		})
	}
	resDesc := pages.appendRows(resBytes, graphResourceRowSize, len(rows))

	return graphDescriptor{Facts: factsDesc, Resources: resDesc}
}

func factIDsToUint32(ids []rdf.FactID) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

func buildDataset(interp *rdf.Interpretation, dataset *rdf.Dataset, heap *heapWriter, pages *pageBuilder) (datasetDescriptor, error) {
	resources := interp.Resources()

	defaultDesc := buildGraphSection(dataset.Default, resources, heap, pages)

	namedIDs := dataset.NamedGraphIDs()
	sort.Slice(namedIDs, func(i, j int) bool { return namedIDs[i] < namedIDs[j] })

	rowBytes := make([]byte, len(namedIDs)*namedGraphRowSize)
	for i, gid := range namedIDs {
		g := dataset.Named(gid)
		desc := buildGraphSection(g, resources, heap, pages)
		encodeNamedGraphRow(rowBytes[i*namedGraphRowSize:(i+1)*namedGraphRowSize], namedGraphRow{ID: uint32(gid), Description: desc})
	}
	namedDesc := pages.appendRows(rowBytes, namedGraphRowSize, len(namedIDs))

	return datasetDescriptor{
		DefaultFacts:     defaultDesc.Facts,
		DefaultResources: defaultDesc.Resources,
		NamedGraphs:      namedDesc,
	}, nil
}

func buildInterpretation(interp *rdf.Interpretation, heap *heapWriter, pages *pageBuilder) (interpretationDescriptor, error) {
	resources := interp.Resources()
	vocab := interp.IRIVocabulary()
	litVocab := interp.LiteralVocabulary()

	// Iri section: one row per interned IRI text, in vocabulary-id order,
	// so a resource's owned vocab ids double as row indices (see
	// DESIGN.md's internal/module entry).
	iriOwner := make([]rdf.ResourceID, vocab.Len())
	iriOwnerSet := make([]bool, vocab.Len())
	for _, r := range resources {
		for _, vid := range interp.IRIs(r) {
			iriOwner[vid] = r
			iriOwnerSet[vid] = true
		}
	}
	iriBytes := make([]byte, vocab.Len()*iriRowSize)
	for vid := 0; vid < vocab.Len(); vid++ {
		owner := iriOwner[vid]
		if !iriOwnerSet[vid] {
			// Every interned IRI, datatype IRIs and language tags interned
			// by InterpretLiteral included, is bound to a resource, and
			// Interpretation.Merge carries IRIs over to the survivor; an
			// unowned id is therefore an internal inconsistency, reported
			// rather than silently dropped.
			return interpretationDescriptor{}, fmt.Errorf("module: interned iri %d has no live owner", vid)
		}
		encodeIriRow(iriBytes[vid*iriRowSize:(vid+1)*iriRowSize], iriRow{
			Iri:            heap.put(vocab.Bytes(uint32(vid))),
			Interpretation: uint32(owner),
		})
	}
	irisDesc := pages.appendRows(iriBytes, iriRowSize, vocab.Len())

	// Literal section: one row per distinct (lex, variant, typeRef)
	// membership actually in use, deduplicated across resources, since a
	// lexical vocab id alone does not determine a literal's variant.
	type membershipKey struct {
		lex, typeRef uint32
		variant      rdf.TypeVariant
	}
	litIndex := make(map[membershipKey]uint32)
	var litRows []literalRow
	litIndexOf := func(m rdf.LiteralMembership) uint32 {
		key := membershipKey{lex: m.Lex, typeRef: m.TypeRef, variant: m.Variant}
		if idx, ok := litIndex[key]; ok {
			return idx
		}
		idx := uint32(len(litRows))
		litIndex[key] = idx
		typeValue := Entry{}
		if m.Variant != rdf.TypePlain {
			typeValue = heap.put(vocab.Bytes(m.TypeRef))
		}
		litRows = append(litRows, literalRow{
			Value:     heap.put(litVocab.Bytes(m.Lex)),
			Variant:   uint8(m.Variant),
			TypeValue: typeValue,
		})
		return idx
	}

	resourceIris := make(map[rdf.ResourceID][]uint32, len(resources))
	resourceLits := make(map[rdf.ResourceID][]uint32, len(resources))
	for _, r := range resources {
		resourceIris[r] = interp.IRIs(r)
		lits := interp.Literals(r)
		idxs := make([]uint32, len(lits))
		for i, m := range lits {
			idxs[i] = litIndexOf(m)
		}
		resourceLits[r] = idxs
	}

	litBytes := make([]byte, len(litRows)*literalRowSize)
	for i, row := range litRows {
		encodeLiteralRow(litBytes[i*literalRowSize:(i+1)*literalRowSize], row)
	}
	litsDesc := pages.appendRows(litBytes, literalRowSize, len(litRows))

	resBytes := make([]byte, len(resources)*resourceRowSize)
	for i, r := range resources {
		class, hasClass := interp.ClassOf(r)
		ne := interp.NonEqual(r)
		neU32 := make([]uint32, len(ne))
		for j, n := range ne {
			neU32[j] = uint32(n)
		}
		encodeResourceRow(resBytes[i*resourceRowSize:(i+1)*resourceRowSize], resourceRow{
			ID:       uint32(r),
			Iris:     heap.putUint32s(resourceIris[r]),
			Literals: heap.putUint32s(resourceLits[r]),
			NE:       heap.putUint32s(neU32),
			Class:    class,
			HasClass: hasClass,
		})
	}
	resourcesDesc := pages.appendRows(resBytes, resourceRowSize, len(resources))

	return interpretationDescriptor{Iris: irisDesc, Literals: litsDesc, Resources: resourcesDesc}, nil
}

func buildClassification(c *classify.Classification, heap *heapWriter, pages *pageBuilder) classificationDescriptor {
	if c == nil {
		return classificationDescriptor{}
	}

	gids := make([]rdf.GroupID, 0, len(c.Groups))
	for gid := range c.Groups {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool {
		if gids[i].Layer != gids[j].Layer {
			return gids[i].Layer < gids[j].Layer
		}
		return gids[i].Index < gids[j].Index
	})

	byDescBytes := make([]byte, len(gids)*groupByDescRowSize)
	byIDBytes := make([]byte, len(gids)*groupByIDRowSize)
	for i, gid := range gids {
		sig := heap.put(c.Signature[gid])
		encodeGroupByDescRow(byDescBytes[i*groupByDescRowSize:(i+1)*groupByDescRowSize], groupByDescRow{
			Layer: gid.Layer, Description: sig, Index: gid.Index,
		})
		encodeGroupByIDRow(byIDBytes[i*groupByIDRowSize:(i+1)*groupByIDRowSize], groupByIDRow{
			Group: gid, Description: sig,
		})
	}
	byDescDesc := pages.appendRows(byDescBytes, groupByDescRowSize, len(gids))
	byIDDesc := pages.appendRows(byIDBytes, groupByIDRowSize, len(gids))

	type reprRow struct {
		gid rdf.GroupID
		res rdf.ResourceID
	}
	var reprs []reprRow
	for gid, res := range c.Representative {
		reprs = append(reprs, reprRow{gid: gid, res: res})
	}
	sort.Slice(reprs, func(i, j int) bool {
		if reprs[i].gid.Layer != reprs[j].gid.Layer {
			return reprs[i].gid.Layer < reprs[j].gid.Layer
		}
		return reprs[i].gid.Index < reprs[j].gid.Index
	})
	reprBytes := make([]byte, len(reprs)*representativeRowSize)
	for i, rr := range reprs {
		member, _ := findMemberIndex(c, rr.gid, rr.res)
		encodeRepresentativeRow(reprBytes[i*representativeRowSize:(i+1)*representativeRowSize], representativeRow{
			Class:    rdf.Class{Group: rr.gid, Index: member},
			Resource: uint32(rr.res),
		})
	}
	reprDesc := pages.appendRows(reprBytes, representativeRowSize, len(reprs))

	return classificationDescriptor{GroupByDesc: byDescDesc, GroupByID: byIDDesc, Representative: reprDesc}
}

func findMemberIndex(c *classify.Classification, gid rdf.GroupID, res rdf.ResourceID) (uint32, bool) {
	for idx, m := range c.Groups[gid] {
		if m == res {
			return uint32(idx), true
		}
	}
	return 0, false
}
