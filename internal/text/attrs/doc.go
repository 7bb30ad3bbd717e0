// Package attrs provides text styling primitives: packed colors, font
// attributes, and per-line attribute span lists.
//
// An attrs.List maps byte ranges of a line to Attrs values. Spans are kept in
// insertion order and the most recently added span that fully contains a query
// range wins, falling back to the list defaults. Lists are split and appended
// in lock-step with the text of the line that owns them.
package attrs
