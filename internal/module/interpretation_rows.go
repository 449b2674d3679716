package module

import "github.com/inferdf/inferdf/internal/rdf"

// iriRow is one (iri text, owning resource) pair (spec §6 "Iri").
type iriRow struct {
	Iri            Entry
	Interpretation uint32
}

const iriRowSize = entrySize + 4

func encodeIriRow(dst []byte, r iriRow) {
	encodeEntry(dst[0:entrySize], r.Iri)
	byteOrder.PutUint32(dst[entrySize:entrySize+4], r.Interpretation)
}

func decodeIriRow(src []byte) iriRow {
	return iriRow{Iri: decodeEntry(src[0:entrySize]), Interpretation: byteOrder.Uint32(src[entrySize : entrySize+4])}
}

// literalRow is one (lexical text, variant, datatype/language, owning
// resource is implicit via section position within the resource's Vec)
// entry (spec §6 "Literal"). TypeValue is a zero-length Entry when Variant
// is TypePlain.
type literalRow struct {
	Value     Entry
	Variant   uint8
	TypeValue Entry
}

const literalRowSize = entrySize + 1 + entrySize

func encodeLiteralRow(dst []byte, r literalRow) {
	encodeEntry(dst[0:entrySize], r.Value)
	dst[entrySize] = r.Variant
	encodeEntry(dst[entrySize+1:entrySize+1+entrySize], r.TypeValue)
}

func decodeLiteralRow(src []byte) literalRow {
	return literalRow{
		Value:     decodeEntry(src[0:entrySize]),
		Variant:   src[entrySize],
		TypeValue: decodeEntry(src[entrySize+1 : entrySize+1+entrySize]),
	}
}

const classSize = 12 // Layer(4) + GroupIndex(4) + MemberIndex(4)

func encodeClass(dst []byte, c rdf.Class) {
	byteOrder.PutUint32(dst[0:4], c.Group.Layer)
	byteOrder.PutUint32(dst[4:8], c.Group.Index)
	byteOrder.PutUint32(dst[8:12], c.Index)
}

func decodeClass(src []byte) rdf.Class {
	return rdf.Class{
		Group: rdf.GroupID{Layer: byteOrder.Uint32(src[0:4]), Index: byteOrder.Uint32(src[4:8])},
		Index: byteOrder.Uint32(src[8:12]),
	}
}

const optionClassSize = 1 + classSize

func encodeOptionClass(dst []byte, c rdf.Class, has bool) {
	if has {
		dst[0] = 1
		encodeClass(dst[1:1+classSize], c)
		return
	}
	dst[0] = 0
	for i := 1; i < optionClassSize; i++ {
		dst[i] = 0
	}
}

func decodeOptionClass(src []byte) (rdf.Class, bool) {
	if src[0] == 0 {
		return rdf.Class{}, false
	}
	return decodeClass(src[1 : 1+classSize]), true
}

// resourceRow is one InterpretationResource row: the resource's id plus
// heap references to its IRI/literal-membership index lists and its
// non-equal set, plus its optional Class (spec §6
// "InterpretationResource").
type resourceRow struct {
	ID       uint32
	Iris     Entry // u32 vector: indexes into the Iri section
	Literals Entry // u32 vector: indexes into the Literal section
	NE       Entry // u32 vector: resource ids
	Class    rdf.Class
	HasClass bool
}

const resourceRowSize = 4 + entrySize + entrySize + entrySize + optionClassSize

func encodeResourceRow(dst []byte, r resourceRow) {
	off := 0
	byteOrder.PutUint32(dst[off:off+4], r.ID)
	off += 4
	encodeEntry(dst[off:off+entrySize], r.Iris)
	off += entrySize
	encodeEntry(dst[off:off+entrySize], r.Literals)
	off += entrySize
	encodeEntry(dst[off:off+entrySize], r.NE)
	off += entrySize
	encodeOptionClass(dst[off:off+optionClassSize], r.Class, r.HasClass)
}

func decodeResourceRow(src []byte) resourceRow {
	off := 0
	id := byteOrder.Uint32(src[off : off+4])
	off += 4
	iris := decodeEntry(src[off : off+entrySize])
	off += entrySize
	lits := decodeEntry(src[off : off+entrySize])
	off += entrySize
	ne := decodeEntry(src[off : off+entrySize])
	off += entrySize
	class, hasClass := decodeOptionClass(src[off : off+optionClassSize])
	return resourceRow{ID: id, Iris: iris, Literals: lits, NE: ne, Class: class, HasClass: hasClass}
}
