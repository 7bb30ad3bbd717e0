// Package shape turns a line of attributed text into positioned glyphs.
//
// The work is split in two stages. Shaping resolves bidi runs, grapheme
// clusters, and font faces independent of any wrap width, so a width-only
// resize never pays for it again. Wrapping breaks a shaped line into visual
// rows of positioned glyphs at a given font size and width.
//
// The Shaper interface is the contract the buffer consumes. TextShaper is a
// metrics-only reference implementation: cluster segmentation comes from
// rivo/uniseg, direction from golang.org/x/text/unicode/bidi, and advance
// widths from registered font faces. Real deployments substitute a full
// shaping engine behind the same interface.
package shape
