package module

import "fmt"

// pageBuilder accumulates page-aligned section data. Its length is always
// a multiple of pageSize once a section append completes, so the next
// section's PageOffset is simply the current length divided by pageSize
// (spec §6 "sections are page-aligned, addressed as a page count from
// first_page_offset").
type pageBuilder struct {
	pageSize uint32
	data     []byte
}

func newPageBuilder(pageSize uint32) *pageBuilder {
	return &pageBuilder{pageSize: pageSize}
}

// rowsPerPage is entriesPerPage guarded against a pathological row larger
// than a page: such a row still gets a page to itself rather than a
// division by zero (spec §6's formula assumes rowSize <= page_size, which
// holds for every row type this codec defines).
func rowsPerPage(pageSize uint32, rowSize int) uint32 {
	n := entriesPerPage(pageSize, rowSize)
	if n == 0 {
		return 1
	}
	return n
}

// appendRows writes entryCount rows of rowSize pre-encoded bytes each,
// capping every page at ⌊page_size/rowSize⌋ entries and padding the
// page-local slack left on each page (spec §6, §4.7 "entry_offset"), and
// returns the section descriptor pointing at the first page.
func (p *pageBuilder) appendRows(encoded []byte, rowSize, entryCount int) sectionDescriptor {
	if uint32(len(p.data))%p.pageSize != 0 {
		panic("module: pageBuilder invariant violated: not page-aligned before append")
	}
	startPage := uint32(len(p.data)) / p.pageSize
	if entryCount == 0 {
		return sectionDescriptor{PageOffset: startPage, EntryCount: 0}
	}
	perPage := int(rowsPerPage(p.pageSize, rowSize))
	for off := 0; off < entryCount; off += perPage {
		n := perPage
		if off+n > entryCount {
			n = entryCount - off
		}
		p.data = append(p.data, encoded[off*rowSize:(off+n)*rowSize]...)
		if rem := uint32(len(p.data)) % p.pageSize; rem != 0 {
			p.data = append(p.data, make([]byte, p.pageSize-rem)...)
		}
	}
	return sectionDescriptor{PageOffset: startPage, EntryCount: uint32(entryCount)}
}

// appendHeap writes the finished heap as the final region and returns its
// descriptor; EntryCount here is the heap's byte length rather than a row
// count, since the heap has no fixed row size (spec §6). A 1-byte row
// makes rowsPerPage equal to pageSize, so pages fill to capacity with no
// interior slack — the heap is addressed by byte offset, not row index.
func (p *pageBuilder) appendHeap(heap []byte) sectionDescriptor {
	return p.appendRows(heap, 1, len(heap))
}

// pageSlice reads a page-capped section back into one contiguous,
// re-linearized buffer: entry i's byte offset is computed from the
// page-and-slot form of spec §4.7's entry_offset formula
// (page = i / rowsPerPage, slot = i % rowsPerPage), so a row that a
// page-capped writer left on its own page is found regardless of the
// slack the previous page carries.
func pageSlice(data []byte, pageSize uint32, first uint32, sec sectionDescriptor, rowSize int) ([]byte, error) {
	if sec.EntryCount == 0 {
		return nil, nil
	}
	perPage := uint64(rowsPerPage(pageSize, rowSize))
	numPages := (uint64(sec.EntryCount) + perPage - 1) / perPage
	sectionStart := uint64(first) + uint64(sec.PageOffset)*uint64(pageSize)
	sectionEnd := sectionStart + numPages*uint64(pageSize)
	if sectionEnd > uint64(len(data)) {
		return nil, fmt.Errorf("module: section at page %d, %d entries of size %d: %w", sec.PageOffset, sec.EntryCount, rowSize, ErrTruncated)
	}
	out := make([]byte, uint64(sec.EntryCount)*uint64(rowSize))
	for i := uint64(0); i < uint64(sec.EntryCount); i++ {
		page := i / perPage
		slot := i % perPage
		entryOffset := sectionStart + page*uint64(pageSize) + slot*uint64(rowSize)
		copy(out[i*uint64(rowSize):(i+1)*uint64(rowSize)], data[entryOffset:entryOffset+uint64(rowSize)])
	}
	return out, nil
}

// heapSlice returns the byte range for the heap section, whose
// EntryCount is a byte length rather than a row count.
func heapSlice(data []byte, pageSize uint32, first uint32, sec sectionDescriptor) ([]byte, error) {
	start := uint64(first) + uint64(sec.PageOffset)*uint64(pageSize)
	end := start + uint64(sec.EntryCount)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("module: heap section: %w", ErrTruncated)
	}
	return data[start:end], nil
}
