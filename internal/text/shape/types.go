package shape

import "github.com/dshills/typeset/internal/text/attrs"

// CacheKey identifies a rasterized glyph: a face, a representative rune, and
// a pixel size. It is opaque to the buffer and meaningful to the raster cache.
type CacheKey struct {
	FontID uint16
	Rune   rune
	Size   int
}

// Glyph is one shaped grapheme cluster, before wrapping. Advance is in em
// units; multiply by the font size for pixels.
type Glyph struct {
	// Start and End are the byte range of the cluster in the line text.
	Start int
	End   int
	// Advance is the horizontal advance in em units.
	Advance float32
	// RTL is set when the glyph belongs to a right-to-left run.
	RTL bool
	// IsSpace marks whitespace clusters, which are wrap break opportunities.
	IsSpace bool
	// FontID and Rune seed the raster cache key.
	FontID uint16
	Rune   rune
	// Color is a per-run color override when HasColor is set.
	Color    attrs.Color
	HasColor bool
}

// ShapedLine is the width-independent shaping result for one line. Glyphs
// are in visual order.
type ShapedLine struct {
	// RTL is true when the paragraph base direction is right-to-left.
	RTL    bool
	Glyphs []Glyph
}

// LayoutGlyph is a positioned glyph in a visual row.
type LayoutGlyph struct {
	// Start and End are the byte range of the cluster in the line text.
	Start int
	End   int
	// X and W are the pixel advance box within the row.
	X float32
	W float32
	// XInt and YInt are the integer pixel offsets for rasterization.
	XInt int
	YInt int
	// RTL is set when the glyph belongs to a right-to-left run.
	RTL bool
	// CacheKey addresses this glyph in the raster cache.
	CacheKey CacheKey
	// Color is a per-glyph color override when HasColor is set.
	Color    attrs.Color
	HasColor bool
}

// LayoutLine is one wrapped visual row of a line.
type LayoutLine struct {
	Glyphs []LayoutGlyph
	// W is the total advance width of the row in pixels.
	W float32
}

// Point is a vector outline coordinate in pixels.
type Point struct {
	X float32
	Y float32
}

// Contour is a closed sequence of outline points.
type Contour []Point

// Outline is glyph vector geometry as produced by the raster cache.
type Outline struct {
	Contours []Contour
}

// Translate shifts all outline points by (dx, dy).
func (o *Outline) Translate(dx, dy float32) {
	for _, c := range o.Contours {
		for i := range c {
			c[i].X += dx
			c[i].Y += dy
		}
	}
}
