package buffer

import (
	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/egc"
	"github.com/dshills/typeset/internal/text/shape"
)

// Sink receives fill-rectangle drawing instructions.
type Sink interface {
	FillRect(x, y, w, h int, color attrs.Color)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(x, y, w, h int, color attrs.Color)

// FillRect calls f.
func (f SinkFunc) FillRect(x, y, w, h int, color attrs.Color) {
	f(x, y, w, h, color)
}

// GlyphCache resolves cache keys to rasterized pixels or vector outlines.
type GlyphCache interface {
	// WithPixels invokes fn for every opaque pixel of the glyph, with
	// coordinates relative to the glyph origin.
	WithPixels(key shape.CacheKey, color attrs.Color, fn func(x, y int, color attrs.Color))
	// GetOutline returns the glyph's vector outline.
	GetOutline(key shape.CacheKey) (shape.Outline, error)
}

const selectionAlpha = 0x33

// Draw emits the visible rows as fill-rectangle instructions: selection
// highlight, then caret, then glyph pixels, per row in top-down order. The
// base color applies to glyphs without a per-span color override.
func (b *Buffer) Draw(cache GlyphCache, color attrs.Color, sink Sink) {
	fontSize := b.metrics.FontSize
	lineHeight := b.metrics.LineHeight
	highlight := color.WithAlpha(selectionAlpha)

	it := b.LayoutRuns()
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		lineTop := run.LineY - fontSize

		if b.sel != nil {
			start, end := *b.sel, b.cursor
			if end.before(start) {
				start, end = end, start
			}

			if run.LineIndex >= start.Line && run.LineIndex <= end.Line {
				b.drawSelection(run, start, end, lineTop, lineHeight, highlight, sink)
			}
		}

		if glyphI, offset, ok := cursorGlyph(run, b.cursor); ok {
			x := caretX(run, glyphI, offset)
			sink.FillRect(x, lineTop, 1, lineHeight, color)
		}

		for _, glyph := range run.Glyphs {
			glyphColor := color
			if glyph.HasColor {
				glyphColor = glyph.Color
			}

			xInt, yInt := glyph.XInt, glyph.YInt
			lineY := run.LineY
			cache.WithPixels(glyph.CacheKey, glyphColor, func(x, y int, c attrs.Color) {
				sink.FillRect(xInt+x, lineY+yInt+y, 1, 1, c)
			})
		}
	}
}

// drawSelection fills the highlighted extent of one row. Coverage is
// computed per grapheme so partially selected clusters highlight evenly.
func (b *Buffer) drawSelection(run Run, start, end Cursor, lineTop, lineHeight int, highlight attrs.Color, sink Sink) {
	var minX, maxX int
	haveRange := false
	flush := func() {
		if haveRange {
			sink.FillRect(minX, lineTop, max(0, maxX-minX), lineHeight, highlight)
			haveRange = false
		}
	}

	for _, glyph := range run.Glyphs {
		cluster := run.Text[glyph.Start:glyph.End]
		clusters := egc.Clusters(cluster)
		cX := glyph.X
		cW := glyph.W / float32(len(clusters))
		for _, c := range clusters {
			cStart := glyph.Start + c.Start
			cEnd := glyph.Start + c.End
			if (start.Line != run.LineIndex || cEnd > start.Index) &&
				(end.Line != run.LineIndex || cStart < end.Index) {
				if haveRange {
					minX = min(minX, int(cX))
					maxX = max(maxX, int(cX+cW))
				} else {
					minX, maxX = int(cX), int(cX+cW)
					haveRange = true
				}
			} else {
				flush()
			}
			cX += cW
		}
	}

	if len(run.Glyphs) == 0 && end.Line > run.LineIndex {
		// Interior empty lines highlight across the full width.
		minX, maxX = 0, b.width
		haveRange = true
	}

	if haveRange && end.Line > run.LineIndex {
		// The selection continues past this row, extend to the line edge.
		if run.RTL {
			minX = 0
		} else {
			maxX = b.width
		}
	}
	flush()
}

// cursorGlyph locates the caret within a run: the glyph index it precedes
// and a pixel offset inside that glyph when the cursor sits mid-cluster.
func cursorGlyph(run Run, cursor Cursor) (int, float32, bool) {
	if cursor.Line != run.LineIndex {
		return 0, 0, false
	}

	for glyphI, glyph := range run.Glyphs {
		if cursor.Index == glyph.Start {
			return glyphI, 0, true
		}
		if cursor.Index > glyph.Start && cursor.Index < glyph.End {
			// Mid-cluster: apportion the advance by grapheme count.
			before, total := 0, 0
			for _, c := range egc.Clusters(run.Text[glyph.Start:glyph.End]) {
				if glyph.Start+c.Start < cursor.Index {
					before++
				}
				total++
			}
			return glyphI, glyph.W * float32(before) / float32(total), true
		}
	}

	if len(run.Glyphs) == 0 {
		return 0, 0, true
	}
	if cursor.Index == run.Glyphs[len(run.Glyphs)-1].End {
		return len(run.Glyphs), 0, true
	}
	return 0, 0, false
}

// caretX computes the caret's pixel x position for a glyph index and
// mid-cluster offset resolved by cursorGlyph.
func caretX(run Run, glyphI int, offset float32) int {
	if glyphI < len(run.Glyphs) {
		glyph := run.Glyphs[glyphI]
		if glyph.RTL {
			return int(glyph.X + glyph.W - offset)
		}
		return int(glyph.X + offset)
	}
	if len(run.Glyphs) > 0 {
		glyph := run.Glyphs[len(run.Glyphs)-1]
		if glyph.RTL {
			return int(glyph.X)
		}
		return int(glyph.X + glyph.W)
	}
	return 0
}

// Outlines collects the vector outlines of every visible glyph, translated
// to its integer pixel offset within the row. Glyphs the cache cannot
// resolve are skipped.
func (b *Buffer) Outlines(cache GlyphCache) []shape.Outline {
	var outlines []shape.Outline

	it := b.LayoutRuns()
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		for _, glyph := range run.Glyphs {
			outline, err := cache.GetOutline(glyph.CacheKey)
			if err != nil {
				b.log.Debug("outline %v: %v", glyph.CacheKey, err)
				continue
			}
			outline.Translate(float32(glyph.XInt), float32(glyph.YInt))
			outlines = append(outlines, outline)
		}
	}

	return outlines
}
