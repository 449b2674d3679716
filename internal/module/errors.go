package module

import "errors"

// Sentinel errors for the module codec (spec §7: "every failure mode names
// a sentinel error the caller can match with errors.Is").
var (
	// ErrFormatMismatch is returned when a module's tag or version does
	// not match what this reader understands.
	ErrFormatMismatch = errors.New("module: format mismatch")
	// ErrPageSizeInvalid is returned when the header's page size is zero
	// or too small to hold the fixed header prefix.
	ErrPageSizeInvalid = errors.New("module: invalid page size")
	// ErrUnalignedPage is returned when a module's total byte length past
	// the header is not a whole number of pages.
	ErrUnalignedPage = errors.New("module: section not page-aligned")
	// ErrEntryOutOfBounds is returned when an Entry references bytes past
	// the end of the heap.
	ErrEntryOutOfBounds = errors.New("module: heap entry out of bounds")
	// ErrHeapCorruption is returned when heap bytes cannot be interpreted
	// as the type the caller requested (e.g. a u32 vector of non-multiple-
	// of-4 length).
	ErrHeapCorruption = errors.New("module: heap corruption")
	// ErrTruncated is returned when the underlying byte slice ends before
	// a section it is described as containing.
	ErrTruncated = errors.New("module: truncated module")
)
