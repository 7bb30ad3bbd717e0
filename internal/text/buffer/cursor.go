package buffer

// Cursor is a stable caret address: a line index and a byte offset into that
// line's text. The offset always lies on a grapheme cluster boundary; text
// inserts behind it.
type Cursor struct {
	Line  int
	Index int
}

// NewCursor creates a cursor at the given line and byte offset.
func NewCursor(line, index int) Cursor {
	return Cursor{Line: line, Index: index}
}

// before orders cursors by (line, index).
func (c Cursor) before(other Cursor) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Index < other.Index
}

// layoutCursor is a cursor's ephemeral visual projection: the wrapped row of
// its line and the glyph position within that row. It is recomputed from the
// byte cursor on demand and never persisted.
type layoutCursor struct {
	line   int
	layout int
	glyph  int
}
