// Package module implements the paged, self-describing binary module
// format of spec §6: a big-endian, page-aligned on-disk layout holding the
// Interpretation, Dataset, Classification, and a heap, with cross-section
// references resolved by pure arithmetic rather than pointers (spec §4.7,
// §9 "Page codec").
package module

import "encoding/binary"

// byteOrder is fixed for the whole format (spec §6: "big-endian
// throughout").
var byteOrder = binary.BigEndian

const (
	// Tag identifies an InfeRDF module file.
	Tag uint32 = 0x494e4652 // "INFR"
	// Version is the current format version; readers reject any other
	// value with ErrFormatMismatch (spec §7).
	Version uint32 = 1

	// headerFixedSize is the byte size of the fixed header prefix: tag(4)
	// + version(4) + page_size(4) + 3 section-triples for Interpretation
	// (24) + Dataset's 3 sections (24) + Classification's 3 sections (24)
	// + the trailing HeapSection (8) = 0x5C, matching spec §6's
	// first_page_offset formula.
	headerFixedSize = 4 + 4 + 4 + 24 + 24 + 24 + 8
)

// Entry references a variable-length byte span in the heap (spec §6).
type Entry struct {
	Offset uint32
	Len    uint32
}

const entrySize = 8

func encodeEntry(dst []byte, e Entry) {
	byteOrder.PutUint32(dst[0:4], e.Offset)
	byteOrder.PutUint32(dst[4:8], e.Len)
}

func decodeEntry(src []byte) Entry {
	return Entry{Offset: byteOrder.Uint32(src[0:4]), Len: byteOrder.Uint32(src[4:8])}
}

// sectionDescriptor is the on-disk Section<T> header (spec §6): a page
// offset (in pages, relative to first_page_offset) and an entry count.
type sectionDescriptor struct {
	PageOffset uint32
	EntryCount uint32
}

const sectionDescriptorSize = 8

func encodeSectionDescriptor(dst []byte, s sectionDescriptor) {
	byteOrder.PutUint32(dst[0:4], s.PageOffset)
	byteOrder.PutUint32(dst[4:8], s.EntryCount)
}

func decodeSectionDescriptor(src []byte) sectionDescriptor {
	return sectionDescriptor{PageOffset: byteOrder.Uint32(src[0:4]), EntryCount: byteOrder.Uint32(src[4:8])}
}

// ceilDiv computes ⌈a/b⌉ for positive b (spec §6 "ceil_div").
func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// entriesPerPage returns ⌊page_size / rowSize⌋ (spec §6).
func entriesPerPage(pageSize uint32, rowSize int) uint32 {
	return pageSize / uint32(rowSize)
}

// firstPageOffset returns the byte offset of the first page, the least
// page-aligned address covering the fixed header prefix (spec §6).
func firstPageOffset(pageSize uint32) uint32 {
	return ceilDiv(headerFixedSize, pageSize) * pageSize
}

// header is the decoded form of the fixed header prefix.
type header struct {
	Tag            uint32
	Version        uint32
	PageSize       uint32
	Interpretation interpretationDescriptor
	Dataset        datasetDescriptor
	Classification classificationDescriptor
	Heap           sectionDescriptor
}

type interpretationDescriptor struct {
	Iris      sectionDescriptor
	Literals  sectionDescriptor
	Resources sectionDescriptor
}

type datasetDescriptor struct {
	DefaultFacts     sectionDescriptor
	DefaultResources sectionDescriptor
	NamedGraphs      sectionDescriptor
}

type classificationDescriptor struct {
	GroupByDesc    sectionDescriptor
	GroupByID      sectionDescriptor
	Representative sectionDescriptor
}
