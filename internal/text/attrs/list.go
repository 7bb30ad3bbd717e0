package attrs

// Span is a byte range of a line tagged with attributes. End is exclusive.
type Span struct {
	Start int
	End   int
	Attrs Attrs
}

// Contains reports whether the span fully contains the range [start, end).
func (s Span) Contains(start, end int) bool {
	return start >= s.Start && end <= s.End
}

// List maps byte ranges of a line to attributes, with a default for
// uncovered text. Spans are kept in insertion order; the latest added span
// that fully contains a queried range wins.
type List struct {
	defaults Attrs
	spans    []Span
}

// NewList creates an empty attribute list with the given defaults.
func NewList(defaults Attrs) *List {
	return &List{defaults: defaults}
}

// Defaults returns the default attributes.
func (l *List) Defaults() Attrs {
	return l.defaults
}

// Spans returns the current attribute spans in insertion order.
func (l *List) Spans() []Span {
	return l.spans
}

// ClearSpans removes all attribute spans, leaving only the defaults.
func (l *List) ClearSpans() {
	l.spans = l.spans[:0]
}

// AddSpan adds an attribute span over [start, end), then merges adjacent
// spans with equal attributes. Overlapping spans with different attributes
// are left in place; GetSpan resolves them by recency.
func (l *List) AddSpan(start, end int, a Attrs) {
	l.spans = append(l.spans, Span{Start: start, End: end, Attrs: a})

	// Condense: a single left-to-right pass joining adjacent equal spans.
	i := 0
	for i+1 < len(l.spans) {
		if l.spans[i].End == l.spans[i+1].Start && l.spans[i].Attrs == l.spans[i+1].Attrs {
			l.spans[i].End = l.spans[i+1].End
			l.spans = append(l.spans[:i+1], l.spans[i+2:]...)
		} else {
			i++
		}
	}
}

// GetSpan returns the highest priority attributes for the range [start, end):
// the latest added span that fully contains the range, or the defaults when
// no span does.
func (l *List) GetSpan(start, end int) Attrs {
	for i := len(l.spans) - 1; i >= 0; i-- {
		if l.spans[i].Contains(start, end) {
			return l.spans[i].Attrs
		}
	}
	return l.defaults
}

// SplitOff splits the list at a byte offset. Spans entirely before index stay
// in the receiver, spans entirely at or after index move to the returned list
// rebased to start at zero, and a span straddling index is cut in two. This
// mirrors splitting the owning line's text at the same offset.
func (l *List) SplitOff(index int) *List {
	out := NewList(l.defaults)
	i := 0
	for i < len(l.spans) {
		span := l.spans[i]
		switch {
		case span.End <= index:
			// Stays in this list.
			i++
		case span.Start >= index:
			// Moves wholesale, rebased.
			out.spans = append(out.spans, Span{
				Start: span.Start - index,
				End:   span.End - index,
				Attrs: span.Attrs,
			})
			l.spans = append(l.spans[:i], l.spans[i+1:]...)
		default:
			// Straddles the split point: new list gets [0, end-index),
			// this list keeps [start, index).
			out.spans = append(out.spans, Span{
				Start: 0,
				End:   span.End - index,
				Attrs: span.Attrs,
			})
			l.spans[i].End = index
			i++
		}
	}
	return out
}

// Extend appends another list's spans shifted by offset, typically the byte
// length of the receiver's text before an append. When the other list has
// different defaults, a span carrying them is added first so the appended
// text keeps its styling; length is the byte length of the appended text.
func (l *List) Extend(other *List, offset, length int) {
	if other.defaults != l.defaults && length > 0 {
		l.AddSpan(offset, offset+length, other.defaults)
	}
	for _, span := range other.spans {
		l.AddSpan(span.Start+offset, span.End+offset, span.Attrs)
	}
}
