package buffer

import (
	"time"

	"github.com/dshills/typeset/internal/text/egc"
)

// Hit converts a pixel position into a cursor address. The result always
// lies on a grapheme cluster boundary; clicking the trailing half of a
// cluster places the cursor after it. Returns false when the position is
// outside every visible row.
func (b *Buffer) Hit(x, y int) (Cursor, bool) {
	start := time.Now()

	fontSize := b.metrics.FontSize
	lineHeight := b.metrics.LineHeight

	it := b.LayoutRuns()
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		top := run.LineY - fontSize
		if y < top || y >= top+lineHeight {
			continue
		}

		hitGlyph := len(run.Glyphs)
		hitChar := 0
		for glyphI, glyph := range run.Glyphs {
			if x < int(glyph.X) || x > int(glyph.X+glyph.W) {
				continue
			}
			hitGlyph = glyphI

			// Subdivide the cluster's advance box evenly across its
			// grapheme clusters to land inside multi-grapheme ligatures.
			cluster := run.Text[glyph.Start:glyph.End]
			clusters := egc.Clusters(cluster)
			egcX := glyph.X
			egcW := glyph.W / float32(len(clusters))
			found := false
			for _, c := range clusters {
				if x >= int(egcX) && x <= int(egcX+egcW) {
					hitChar = c.Start
					rightHalf := x >= int(egcX+egcW/2)
					if rightHalf != glyph.RTL {
						hitChar = c.End
					}
					found = true
					break
				}
				egcX += egcW
			}
			if !found {
				rightHalf := x >= int(glyph.X+glyph.W/2)
				if rightHalf != glyph.RTL {
					hitChar = len(cluster)
				}
			}
			break
		}

		c := NewCursor(run.LineIndex, 0)
		if hitGlyph < len(run.Glyphs) {
			c.Index = run.Glyphs[hitGlyph].Start + hitChar
		} else if len(run.Glyphs) > 0 {
			c.Index = run.Glyphs[len(run.Glyphs)-1].End
		}

		b.log.Debug("hit(%d, %d) -> %d:%d in %v", x, y, c.Line, c.Index, time.Since(start))
		return c, true
	}

	b.log.Debug("hit(%d, %d) -> miss in %v", x, y, time.Since(start))
	return Cursor{}, false
}
