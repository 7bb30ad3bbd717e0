// Package buffer implements the incremental text layout and cursor engine.
//
// A Buffer owns an ordered list of lines, viewport metrics, a scroll
// position, and a cursor with an optional selection anchor. Edits and
// navigation arrive as Actions; after each one the lazy pipeline guarantees
// the viewport is shaped and laid out and that the scroll stays in bounds.
// Work per redraw is bounded by the viewport size, never the document size:
// shaping stops as soon as enough visual rows exist to cover the scroll
// window.
//
// Rendering and hit-testing consume LayoutRuns, a restartable iterator over
// the visible wrapped rows. Draw pushes fill-rectangle instructions into a
// Sink; Outlines collects per-glyph vector outlines, skipping glyphs the
// raster cache cannot resolve.
package buffer
