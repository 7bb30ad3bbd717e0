package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrLineOutOfRange indicates a cursor line beyond the buffer's lines.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrIndexOutOfRange indicates a byte offset beyond the line text.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIndexNotBoundary indicates a byte offset inside a grapheme cluster.
	ErrIndexNotBoundary = errors.New("index not on a grapheme boundary")
)
