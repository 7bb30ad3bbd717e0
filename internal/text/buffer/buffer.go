package buffer

import (
	"strings"
	"time"

	"github.com/dshills/typeset/internal/obs"
	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/egc"
	"github.com/dshills/typeset/internal/text/line"
	"github.com/dshills/typeset/internal/text/shape"
)

// Buffer is a multi-line text buffer with lazy shaping and layout. All
// mutation goes through Perform or the Set methods; after each one the
// viewport is consistent and the scroll is clamped.
type Buffer struct {
	shaper  shape.Shaper
	lines   []*line.Line
	metrics Metrics
	width   int
	height  int
	scroll  int

	cursor     Cursor
	cursorX    int
	hasCursorX bool
	sel        *Cursor

	insertAllow func(rune) bool
	log         *obs.Logger

	// CursorMoved is set when an action changed the cursor position. The
	// caller should run ShapeUntilCursor before redrawing, then clear it.
	CursorMoved bool
	// Redraw is set when visible content changed. The caller clears it
	// after drawing.
	Redraw bool
}

// New creates an empty buffer with one empty line.
func New(shaper shape.Shaper, metrics Metrics, opts ...Option) *Buffer {
	b := &Buffer{
		shaper:      shaper,
		metrics:     metrics,
		insertAllow: defaultInsertPolicy,
		log:         obs.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.SetText("", attrs.Attrs{})
	return b
}

// SetText replaces the buffer contents, splitting on newlines and applying
// the given default attributes to every line. The cursor, selection, and
// scroll reset.
func (b *Buffer) SetText(text string, defaults attrs.Attrs) {
	b.lines = b.lines[:0]
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		b.lines = append(b.lines, line.New(raw, attrs.NewList(defaults)))
	}
	// A trailing newline terminates the last line rather than opening a
	// new empty one.
	if text != "" && strings.HasSuffix(text, "\n") {
		b.lines = b.lines[:len(b.lines)-1]
	}
	if len(b.lines) == 0 {
		b.lines = append(b.lines, line.New("", attrs.NewList(defaults)))
	}

	b.scroll = 0
	b.cursor = Cursor{}
	b.sel = nil
	b.hasCursorX = false

	b.ShapeUntilScroll()
}

// Lines returns the buffer's lines. Mutating a line directly requires calling
// its Reset before the next shape pass.
func (b *Buffer) Lines() []*line.Line {
	return b.lines
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

// Selection returns the selection anchor, or false when nothing is selected.
func (b *Buffer) Selection() (Cursor, bool) {
	if b.sel == nil {
		return Cursor{}, false
	}
	return *b.sel, true
}

// SetCursor moves the cursor to an explicit address, validating that it lies
// inside the buffer and on a grapheme cluster boundary.
func (b *Buffer) SetCursor(c Cursor) error {
	if c.Line < 0 || c.Line >= len(b.lines) {
		return ErrLineOutOfRange
	}
	text := b.lines[c.Line].Text()
	if c.Index < 0 || c.Index > len(text) {
		return ErrIndexOutOfRange
	}
	if !egc.IsBoundary(text, c.Index) {
		return ErrIndexNotBoundary
	}

	if c != b.cursor {
		b.cursor = c
		b.hasCursorX = false
		b.CursorMoved = true
		b.Redraw = true
	}
	return nil
}

// Metrics returns the current font size and line height.
func (b *Buffer) Metrics() Metrics {
	return b.metrics
}

// SetMetrics changes the font size and line height, relayouting all shaped
// lines when the value differs.
func (b *Buffer) SetMetrics(metrics Metrics) {
	if metrics != b.metrics {
		b.metrics = metrics
		b.relayout()
		b.ShapeUntilScroll()
	}
}

// Size returns the viewport dimensions in pixels.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// SetSize changes the viewport dimensions. A width change rewraps all shaped
// lines; a height change only reclamps the scroll.
func (b *Buffer) SetSize(width, height int) {
	if width != b.width {
		b.width = width
		b.relayout()
		b.ShapeUntilScroll()
	}
	if height != b.height {
		b.height = height
		b.ShapeUntilScroll()
	}
}

// Scroll returns the scroll position in visual rows.
func (b *Buffer) Scroll() int {
	return b.scroll
}

// VisibleLines returns how many visual rows fit in the viewport.
func (b *Buffer) VisibleLines() int {
	if b.metrics.LineHeight <= 0 {
		return 0
	}
	return b.height / b.metrics.LineHeight
}

// ShapeUntil shapes and lays out lines from the top of the buffer until at
// least the given number of visual rows exist, returning the number of rows
// produced. Lines already shaped are not reshaped.
func (b *Buffer) ShapeUntil(lines int) int {
	start := time.Now()

	reshaped := 0
	totalLayout := 0
	for i, ln := range b.lines {
		if totalLayout >= lines {
			break
		}

		if ln.ShapeOpt() == nil {
			reshaped++
		}
		layout, err := ln.Layout(b.shaper, b.metrics.FontSize, b.width)
		if err != nil {
			b.log.Error("layout line %d: %v", i, err)
			continue
		}
		totalLayout += len(layout)
	}

	if reshaped > 0 {
		b.log.Debug("shape until %d rows: reshaped %d lines in %v", lines, reshaped, time.Since(start))
		b.Redraw = true
	}

	return totalLayout
}

// ShapeUntilCursor shapes enough lines to know the cursor's visual row, then
// scrolls just far enough to bring that row into view.
func (b *Buffer) ShapeUntilCursor() {
	start := time.Now()

	reshaped := 0
	layoutRow := 0
	for i, ln := range b.lines {
		if i > b.cursor.Line {
			break
		}

		if ln.ShapeOpt() == nil {
			reshaped++
		}
		layout, err := ln.Layout(b.shaper, b.metrics.FontSize, b.width)
		if err != nil {
			b.log.Error("layout line %d: %v", i, err)
			break
		}

		if i == b.cursor.Line {
			lc, err := b.layoutCursor(b.cursor)
			if err != nil {
				b.log.Error("layout cursor: %v", err)
				break
			}
			layoutRow += lc.layout
			break
		}
		layoutRow += len(layout)
	}

	if reshaped > 0 {
		b.log.Debug("shape until cursor: reshaped %d lines in %v", reshaped, time.Since(start))
		b.Redraw = true
	}

	visible := b.VisibleLines()
	if layoutRow < b.scroll {
		b.scroll = layoutRow
	} else if layoutRow >= b.scroll+visible {
		b.scroll = layoutRow - (visible - 1)
	}

	b.ShapeUntilScroll()
}

// ShapeUntilScroll shapes enough lines to fill the viewport at the current
// scroll position, clamping the scroll into the valid range.
func (b *Buffer) ShapeUntilScroll() {
	visible := b.VisibleLines()
	totalLayout := b.ShapeUntil(b.scroll + visible)
	b.scroll = max(0, min(totalLayout-(visible-1), b.scroll))
}

// relayout drops and recomputes the layout of every shaped line, keeping the
// shaping results. Used when the font size or wrap width changes.
func (b *Buffer) relayout() {
	start := time.Now()

	for i, ln := range b.lines {
		if ln.ShapeOpt() == nil {
			continue
		}
		ln.ResetLayout()
		if _, err := ln.Layout(b.shaper, b.metrics.FontSize, b.width); err != nil {
			b.log.Error("relayout line %d: %v", i, err)
		}
	}

	b.Redraw = true
	b.log.Debug("relayout: %v", time.Since(start))
}

// layoutCursor projects a byte cursor onto its visual row and glyph position,
// laying the line out if needed.
func (b *Buffer) layoutCursor(c Cursor) (layoutCursor, error) {
	if c.Line < 0 || c.Line >= len(b.lines) {
		return layoutCursor{}, ErrLineOutOfRange
	}
	layout, err := b.lines[c.Line].Layout(b.shaper, b.metrics.FontSize, b.width)
	if err != nil {
		return layoutCursor{}, err
	}

	for rowI, row := range layout {
		for glyphI, glyph := range row.Glyphs {
			if c.Index == glyph.Start {
				return layoutCursor{line: c.Line, layout: rowI, glyph: glyphI}, nil
			}
		}
		if len(row.Glyphs) == 0 {
			return layoutCursor{line: c.Line, layout: rowI}, nil
		}
		if c.Index == row.Glyphs[len(row.Glyphs)-1].End {
			return layoutCursor{line: c.Line, layout: rowI, glyph: len(row.Glyphs)}, nil
		}
	}

	// Index falls between rows, use the line start.
	return layoutCursor{line: c.Line}, nil
}

// setLayoutCursor maps a visual position back to a byte cursor, clamping the
// row and glyph into range.
func (b *Buffer) setLayoutCursor(lc layoutCursor) {
	layout, err := b.lines[lc.line].Layout(b.shaper, b.metrics.FontSize, b.width)
	if err != nil || len(layout) == 0 {
		if err != nil {
			b.log.Error("layout line %d: %v", lc.line, err)
		}
		return
	}

	row := layout[len(layout)-1]
	if lc.layout >= 0 && lc.layout < len(layout) {
		row = layout[lc.layout]
	}

	newIndex := 0
	switch {
	case lc.glyph >= 0 && lc.glyph < len(row.Glyphs):
		newIndex = row.Glyphs[lc.glyph].Start
	case len(row.Glyphs) > 0:
		newIndex = row.Glyphs[len(row.Glyphs)-1].End
	}

	if b.cursor.Line != lc.line || b.cursor.Index != newIndex {
		b.cursor.Line = lc.line
		b.cursor.Index = newIndex
		b.Redraw = true
	}
}
