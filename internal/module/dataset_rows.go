package module

import "github.com/inferdf/inferdf/internal/rdf"

// tripleSize is the byte size of a bare (subject, predicate, object)
// triple of resource ids.
const tripleSize = 12

func encodeTriple(dst []byte, t rdf.Triple) {
	byteOrder.PutUint32(dst[0:4], uint32(t.Subject))
	byteOrder.PutUint32(dst[4:8], uint32(t.Predicate))
	byteOrder.PutUint32(dst[8:12], uint32(t.Object))
}

func decodeTriple(src []byte) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.ResourceID(byteOrder.Uint32(src[0:4])),
		Predicate: rdf.ResourceID(byteOrder.Uint32(src[4:8])),
		Object:    rdf.ResourceID(byteOrder.Uint32(src[8:12])),
	}
}

const signedTripleSize = 1 + tripleSize

func encodeSignedTriple(dst []byte, st rdf.SignedTriple) {
	dst[0] = byte(st.Sign)
	encodeTriple(dst[1:1+tripleSize], st.Triple)
}

func decodeSignedTriple(src []byte) rdf.SignedTriple {
	return rdf.SignedTriple{Sign: rdf.Sign(src[0]), Triple: decodeTriple(src[1 : 1+tripleSize])}
}

const causeSize = 1 + 4

func encodeCause(dst []byte, c rdf.Cause) {
	dst[0] = byte(c.Kind)
	byteOrder.PutUint32(dst[1:5], c.Value)
}

func decodeCause(src []byte) rdf.Cause {
	return rdf.Cause{Kind: rdf.CauseKind(src[0]), Value: byteOrder.Uint32(src[1:5])}
}

// factRow is one Fact row: a signed triple plus its cause (spec §6
// "Fact").
type factRow struct {
	Triple rdf.SignedTriple
	Cause  rdf.Cause
}

const factRowSize = signedTripleSize + causeSize

func encodeFactRow(dst []byte, r factRow) {
	encodeSignedTriple(dst[0:signedTripleSize], r.Triple)
	encodeCause(dst[signedTripleSize:signedTripleSize+causeSize], r.Cause)
}

func decodeFactRow(src []byte) factRow {
	return factRow{
		Triple: decodeSignedTriple(src[0:signedTripleSize]),
		Cause:  decodeCause(src[signedTripleSize : signedTripleSize+causeSize]),
	}
}

// graphResourceRow is one GraphResource row: a resource id plus the
// position indexes it participates in within one graph (spec §6
// "GraphResource").
type graphResourceRow struct {
	ID          uint32
	AsSubject   Entry // u32 vector: FactID list
	AsPredicate Entry
	AsObject    Entry
}

const graphResourceRowSize = 4 + entrySize*3

func encodeGraphResourceRow(dst []byte, r graphResourceRow) {
	off := 0
	byteOrder.PutUint32(dst[off:off+4], r.ID)
	off += 4
	encodeEntry(dst[off:off+entrySize], r.AsSubject)
	off += entrySize
	encodeEntry(dst[off:off+entrySize], r.AsPredicate)
	off += entrySize
	encodeEntry(dst[off:off+entrySize], r.AsObject)
}

func decodeGraphResourceRow(src []byte) graphResourceRow {
	off := 0
	id := byteOrder.Uint32(src[off : off+4])
	off += 4
	asS := decodeEntry(src[off : off+entrySize])
	off += entrySize
	asP := decodeEntry(src[off : off+entrySize])
	off += entrySize
	asO := decodeEntry(src[off : off+entrySize])
	return graphResourceRow{ID: id, AsSubject: asS, AsPredicate: asP, AsObject: asO}
}

// graphDescriptor locates one graph's fact and resource-index sections
// (spec §6 "GraphDescription").
type graphDescriptor struct {
	Facts     sectionDescriptor
	Resources sectionDescriptor
}

const graphDescriptorSize = sectionDescriptorSize * 2

func encodeGraphDescriptor(dst []byte, g graphDescriptor) {
	encodeSectionDescriptor(dst[0:sectionDescriptorSize], g.Facts)
	encodeSectionDescriptor(dst[sectionDescriptorSize:sectionDescriptorSize*2], g.Resources)
}

func decodeGraphDescriptor(src []byte) graphDescriptor {
	return graphDescriptor{
		Facts:     decodeSectionDescriptor(src[0:sectionDescriptorSize]),
		Resources: decodeSectionDescriptor(src[sectionDescriptorSize : sectionDescriptorSize*2]),
	}
}

// namedGraphRow is one NamedGraph row: a graph-name resource id plus its
// description (spec §6 "NamedGraph").
type namedGraphRow struct {
	ID          uint32
	Description graphDescriptor
}

const namedGraphRowSize = 4 + graphDescriptorSize

func encodeNamedGraphRow(dst []byte, r namedGraphRow) {
	byteOrder.PutUint32(dst[0:4], r.ID)
	encodeGraphDescriptor(dst[4:4+graphDescriptorSize], r.Description)
}

func decodeNamedGraphRow(src []byte) namedGraphRow {
	return namedGraphRow{ID: byteOrder.Uint32(src[0:4]), Description: decodeGraphDescriptor(src[4 : 4+graphDescriptorSize])}
}
