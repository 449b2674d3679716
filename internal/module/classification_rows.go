package module

import "github.com/inferdf/inferdf/internal/rdf"

// groupDescriptorSize is a heap Entry pointing at the group's canonical
// signature bytes — the byte encoding a GroupDescription reduces to,
// since spec §6 leaves GroupDescription's own field layout unspecified
// beyond its name; a heap-backed signature keeps groups comparable across
// modules without committing to any particular in-memory shape.
const groupDescriptorSize = entrySize

// groupByDescRow is one GroupByDesc row: given a layer and a canonical
// group signature, the group's index within that layer (spec §6
// "GroupByDesc").
type groupByDescRow struct {
	Layer       uint32
	Description Entry
	Index       uint32
}

const groupByDescRowSize = 4 + groupDescriptorSize + 4

func encodeGroupByDescRow(dst []byte, r groupByDescRow) {
	byteOrder.PutUint32(dst[0:4], r.Layer)
	encodeEntry(dst[4:4+groupDescriptorSize], r.Description)
	byteOrder.PutUint32(dst[4+groupDescriptorSize:4+groupDescriptorSize+4], r.Index)
}

func decodeGroupByDescRow(src []byte) groupByDescRow {
	return groupByDescRow{
		Layer:       byteOrder.Uint32(src[0:4]),
		Description: decodeEntry(src[4 : 4+groupDescriptorSize]),
		Index:       byteOrder.Uint32(src[4+groupDescriptorSize : 4+groupDescriptorSize+4]),
	}
}

const groupIDSize = 8

func encodeGroupID(dst []byte, g rdf.GroupID) {
	byteOrder.PutUint32(dst[0:4], g.Layer)
	byteOrder.PutUint32(dst[4:8], g.Index)
}

func decodeGroupID(src []byte) rdf.GroupID {
	return rdf.GroupID{Layer: byteOrder.Uint32(src[0:4]), Index: byteOrder.Uint32(src[4:8])}
}

// groupByIDRow is the inverse index: from a GroupID back to its
// description (spec §6 "GroupById").
type groupByIDRow struct {
	Group       rdf.GroupID
	Description Entry
}

const groupByIDRowSize = groupIDSize + groupDescriptorSize

func encodeGroupByIDRow(dst []byte, r groupByIDRow) {
	encodeGroupID(dst[0:groupIDSize], r.Group)
	encodeEntry(dst[groupIDSize:groupIDSize+groupDescriptorSize], r.Description)
}

func decodeGroupByIDRow(src []byte) groupByIDRow {
	return groupByIDRow{
		Group:       decodeGroupID(src[0:groupIDSize]),
		Description: decodeEntry(src[groupIDSize : groupIDSize+groupDescriptorSize]),
	}
}

// representativeRow maps a class to its chosen representative resource
// (spec §6 "Representative").
type representativeRow struct {
	Class    rdf.Class
	Resource uint32
}

const representativeRowSize = classSize + 4

func encodeRepresentativeRow(dst []byte, r representativeRow) {
	encodeClass(dst[0:classSize], r.Class)
	byteOrder.PutUint32(dst[classSize:classSize+4], r.Resource)
}

func decodeRepresentativeRow(src []byte) representativeRow {
	return representativeRow{
		Class:    decodeClass(src[0:classSize]),
		Resource: byteOrder.Uint32(src[classSize : classSize+4]),
	}
}
