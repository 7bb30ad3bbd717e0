package buffer

import "github.com/dshills/typeset/internal/text/shape"

// Run is one visible wrapped row, ready for rendering or hit-testing.
type Run struct {
	// LineIndex is the index of the source line in the buffer.
	LineIndex int
	// Text is the full source line text; glyph Start and End index into it.
	Text string
	// RTL is true when the source paragraph direction is right-to-left.
	RTL bool
	// Glyphs are the positioned glyphs of this row in visual order.
	Glyphs []shape.LayoutGlyph
	// LineY is the baseline y offset of the row in pixels.
	LineY int
}

// RunIter walks the visible wrapped rows of a buffer from the scroll position
// to the bottom of the viewport. It stops early at the first line whose shape
// or layout cache is empty, so callers run the shape pipeline first.
type RunIter struct {
	b           *Buffer
	line        int
	layout      int
	lineY       int
	totalLayout int
}

// LayoutRuns returns an iterator over the visible wrapped rows.
func (b *Buffer) LayoutRuns() *RunIter {
	return &RunIter{
		b:     b,
		lineY: b.metrics.FontSize - b.metrics.LineHeight,
	}
}

// Next returns the next visible row, or false when the viewport is filled or
// an unshaped line is reached.
func (it *RunIter) Next() (Run, bool) {
	for it.line < len(it.b.lines) {
		ln := it.b.lines[it.line]
		shaped := ln.ShapeOpt()
		layout := ln.LayoutOpt()
		if shaped == nil || layout == nil {
			return Run{}, false
		}

		for it.layout < len(layout) {
			row := layout[it.layout]
			it.layout++

			scrolled := it.totalLayout < it.b.scroll
			it.totalLayout++
			if scrolled {
				continue
			}

			it.lineY += it.b.metrics.LineHeight
			if it.lineY > it.b.height {
				return Run{}, false
			}

			return Run{
				LineIndex: it.line,
				Text:      ln.Text(),
				RTL:       shaped.RTL,
				Glyphs:    row.Glyphs,
				LineY:     it.lineY,
			}, true
		}
		it.line++
		it.layout = 0
	}

	return Run{}, false
}
