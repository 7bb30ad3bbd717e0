// Package line holds one paragraph of text with its attribute list and the
// two caches the lazy pipeline maintains: the shaping result and the wrapped
// layout. A line moves through three states, unshaped, shaped, and laid out.
// Any text or attribute change drops both caches; a metrics or width change
// drops only the layout.
package line

import (
	"errors"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/egc"
	"github.com/dshills/typeset/internal/text/shape"
)

// Errors returned by line operations.
var (
	// ErrIndexOutOfRange indicates a byte offset outside the line text.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIndexNotBoundary indicates a byte offset inside a grapheme cluster.
	ErrIndexNotBoundary = errors.New("index not on a grapheme boundary")
)

// Line is one paragraph of attributed text with cached shape and layout.
type Line struct {
	text   string
	attrs  *attrs.List
	shaped *shape.ShapedLine
	layout []shape.LayoutLine
}

// New creates a line from text and its attribute list.
func New(text string, list *attrs.List) *Line {
	return &Line{text: text, attrs: list}
}

// Text returns the line text.
func (l *Line) Text() string {
	return l.text
}

// AttrsList returns the line's attribute list.
func (l *Line) AttrsList() *attrs.List {
	return l.attrs
}

// SetText replaces the text and attribute list, dropping both caches.
func (l *Line) SetText(text string, list *attrs.List) {
	l.text = text
	l.attrs = list
	l.Reset()
}

// SetAttrsList replaces the attribute list, dropping both caches.
func (l *Line) SetAttrsList(list *attrs.List) {
	l.attrs = list
	l.Reset()
}

// Reset drops the shape and layout caches. Called after any mutation of the
// line's text or attributes.
func (l *Line) Reset() {
	l.shaped = nil
	l.layout = nil
}

// ResetLayout drops only the layout cache, keeping the shaping result. Used
// when the wrap width or font size changes.
func (l *Line) ResetLayout() {
	l.layout = nil
}

// SplitOff cuts the line at a byte offset. The receiver keeps [0, index),
// the returned line receives the rest with its attribute spans rebased. The
// offset must lie on a grapheme cluster boundary.
func (l *Line) SplitOff(index int) (*Line, error) {
	if index < 0 || index > len(l.text) {
		return nil, ErrIndexOutOfRange
	}
	if !egc.IsBoundary(l.text, index) {
		return nil, ErrIndexNotBoundary
	}

	rest := New(l.text[index:], l.attrs.SplitOff(index))
	l.text = l.text[:index]
	l.Reset()
	return rest, nil
}

// Append concatenates another line onto this one, shifting the appended
// attribute spans past the existing text.
func (l *Line) Append(other *Line) {
	l.attrs.Extend(other.attrs, len(l.text), len(other.text))
	l.text += other.text
	l.Reset()
}

// Shape returns the cached shaping result, computing it if absent.
func (l *Line) Shape(shaper shape.Shaper) (*shape.ShapedLine, error) {
	if l.shaped == nil {
		shaped, err := shaper.Shape(l.text, l.attrs)
		if err != nil {
			return nil, err
		}
		l.shaped = shaped
		l.layout = nil
	}
	return l.shaped, nil
}

// ShapeOpt returns the shaping result if cached, else nil.
func (l *Line) ShapeOpt() *shape.ShapedLine {
	return l.shaped
}

// Layout returns the cached wrapped layout for the given font size and
// width, shaping and wrapping as needed.
func (l *Line) Layout(shaper shape.Shaper, fontSize, width int) ([]shape.LayoutLine, error) {
	if l.layout == nil {
		shaped, err := l.Shape(shaper)
		if err != nil {
			return nil, err
		}
		l.layout = shape.Wrap(shaped, fontSize, width)
	}
	return l.layout, nil
}

// LayoutOpt returns the wrapped layout if cached, else nil.
func (l *Line) LayoutOpt() []shape.LayoutLine {
	return l.layout
}
