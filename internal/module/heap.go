package module

// heapWriter accumulates the variable-length byte payloads referenced by
// Entry values (IRI/literal text, u32 vectors), append-only in the order
// components ask for space (spec §6 "heap").
type heapWriter struct {
	buf []byte
}

// put copies data onto the heap and returns an Entry describing its span.
func (h *heapWriter) put(data []byte) Entry {
	e := Entry{Offset: uint32(len(h.buf)), Len: uint32(len(data))}
	h.buf = append(h.buf, data...)
	return e
}

// putUint32s encodes vals as big-endian u32s and returns an Entry whose Len
// is the byte span; callers recover the element count as Len/4.
func (h *heapWriter) putUint32s(vals []uint32) Entry {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		byteOrder.PutUint32(data[i*4:i*4+4], v)
	}
	return h.put(data)
}

// heapReader is a bounds-checked read-only view over a decoded heap.
type heapReader struct {
	buf []byte
}

func (h heapReader) bytes(e Entry) ([]byte, error) {
	end := uint64(e.Offset) + uint64(e.Len)
	if end > uint64(len(h.buf)) {
		return nil, ErrEntryOutOfBounds
	}
	return h.buf[e.Offset:end], nil
}

func (h heapReader) uint32s(e Entry) ([]uint32, error) {
	b, err := h.bytes(e)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, ErrHeapCorruption
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = byteOrder.Uint32(b[i*4 : i*4+4])
	}
	return out, nil
}
