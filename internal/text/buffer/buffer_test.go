package buffer

import (
	"errors"
	"testing"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/shape"
)

// newTestBuffer builds a buffer over a metrics-only monospaced face where
// every cluster advances by fontSize pixels.
func newTestBuffer(t *testing.T, text string, metrics Metrics, width, height int) *Buffer {
	t.Helper()

	fonts, err := shape.NewFonts(shape.NewFixedAdvanceFace("Mono", 1))
	if err != nil {
		t.Fatalf("NewFonts: %v", err)
	}

	b := New(shape.NewTextShaper(fonts), metrics)
	b.SetSize(width, height)
	b.SetText(text, attrs.Attrs{})
	return b
}

func lineTexts(b *Buffer) []string {
	var out []string
	for _, ln := range b.Lines() {
		out = append(out, ln.Text())
	}
	return out
}

func TestSetTextSplitsLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single", "Hello", []string{"Hello"}},
		{"two lines", "Hello\nWorld", []string{"Hello", "World"}},
		{"trailing newline", "Hello\n", []string{"Hello"}},
		{"crlf", "Hello\r\nWorld", []string{"Hello", "World"}},
		{"blank interior", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuffer(t, tt.text, NewMetrics(1, 1), 100, 10)
			got := lineTexts(b)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSetTextResetsCursorAndScroll(t *testing.T) {
	b := newTestBuffer(t, "a\nb\nc\nd\ne", NewMetrics(1, 1), 100, 2)
	b.Perform(Scroll(10))
	if err := b.SetCursor(NewCursor(4, 1)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.SetText("fresh", attrs.Attrs{})
	if b.Cursor() != (Cursor{}) {
		t.Errorf("cursor = %+v, want origin", b.Cursor())
	}
	if b.Scroll() != 0 {
		t.Errorf("scroll = %d, want 0", b.Scroll())
	}
	if _, ok := b.Selection(); ok {
		t.Error("selection survived SetText")
	}
}

func TestInsertAtStart(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	b.Perform(Insert('X'))

	if got := b.Lines()[0].Text(); got != "XHello" {
		t.Errorf("text = %q, want %q", got, "XHello")
	}
	if b.Cursor() != NewCursor(0, 1) {
		t.Errorf("cursor = %+v, want 0:1", b.Cursor())
	}
	if !b.CursorMoved {
		t.Error("CursorMoved not set")
	}
}

func TestInsertAdvancesByRuneLength(t *testing.T) {
	b := newTestBuffer(t, "", NewMetrics(1, 1), 100, 10)
	b.Perform(Insert('é'))

	if got := b.Lines()[0].Text(); got != "é" {
		t.Errorf("text = %q, want %q", got, "é")
	}
	if b.Cursor().Index != 2 {
		t.Errorf("cursor index = %d, want 2", b.Cursor().Index)
	}
}

func TestInsertRejectsControlCharacters(t *testing.T) {
	b := newTestBuffer(t, "ab", NewMetrics(1, 1), 100, 10)
	b.Perform(Insert('\x07'))

	if got := b.Lines()[0].Text(); got != "ab" {
		t.Errorf("text = %q, want unchanged %q", got, "ab")
	}
	if b.Cursor().Index != 0 {
		t.Errorf("cursor index = %d, want 0", b.Cursor().Index)
	}

	b.Perform(Insert('\t'))
	if got := b.Lines()[0].Text(); got != "\tab" {
		t.Errorf("text = %q, want %q", got, "\tab")
	}
}

func TestInsertPolicyOption(t *testing.T) {
	fonts, err := shape.NewFonts(shape.NewFixedAdvanceFace("Mono", 1))
	if err != nil {
		t.Fatalf("NewFonts: %v", err)
	}
	b := New(shape.NewTextShaper(fonts), NewMetrics(1, 1),
		WithInsertPolicy(func(r rune) bool { return r != 'x' }))

	b.Perform(Insert('x'))
	b.Perform(Insert('y'))
	if got := b.Lines()[0].Text(); got != "y" {
		t.Errorf("text = %q, want %q", got, "y")
	}
}

func TestEnterSplitsLine(t *testing.T) {
	b := newTestBuffer(t, "HelloWorld", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 5)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpEnter})

	want := []string{"Hello", "World"}
	got := lineTexts(b)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if b.Cursor() != NewCursor(1, 0) {
		t.Errorf("cursor = %+v, want 1:0", b.Cursor())
	}
}

func TestEnterAtLineEnd(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 5)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpEnter})

	got := lineTexts(b)
	if len(got) != 2 || got[0] != "Hello" || got[1] != "" {
		t.Fatalf("lines = %q, want [Hello \"\"]", got)
	}
	if b.Cursor() != NewCursor(1, 0) {
		t.Errorf("cursor = %+v, want 1:0", b.Cursor())
	}
}

func TestBackspaceDeletesCluster(t *testing.T) {
	// Decomposed e + combining acute is one cluster of three bytes.
	b := newTestBuffer(t, "aéb", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 4)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpBackspace})

	if got := b.Lines()[0].Text(); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
	if b.Cursor().Index != 1 {
		t.Errorf("cursor index = %d, want 1", b.Cursor().Index)
	}
}

func TestBackspaceMergesLines(t *testing.T) {
	b := newTestBuffer(t, "Hello\nWorld", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(1, 0)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpBackspace})

	got := lineTexts(b)
	if len(got) != 1 || got[0] != "HelloWorld" {
		t.Fatalf("lines = %q, want [HelloWorld]", got)
	}
	if b.Cursor() != NewCursor(0, 5) {
		t.Errorf("cursor = %+v, want 0:5", b.Cursor())
	}
}

func TestBackspaceAtBufferStart(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	b.Perform(Action{Op: OpBackspace})

	if got := b.Lines()[0].Text(); got != "Hello" {
		t.Errorf("text = %q, want unchanged", got)
	}
	if b.CursorMoved {
		t.Error("CursorMoved set without movement")
	}
}

func TestDeleteForward(t *testing.T) {
	b := newTestBuffer(t, "abc", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 1)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpDelete})

	if got := b.Lines()[0].Text(); got != "ac" {
		t.Errorf("text = %q, want %q", got, "ac")
	}
	if b.Cursor().Index != 1 {
		t.Errorf("cursor index = %d, want 1", b.Cursor().Index)
	}
}

func TestDeleteMergesNextLine(t *testing.T) {
	b := newTestBuffer(t, "Hello\nWorld", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 5)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpDelete})

	got := lineTexts(b)
	if len(got) != 1 || got[0] != "HelloWorld" {
		t.Fatalf("lines = %q, want [HelloWorld]", got)
	}
	if b.Cursor() != NewCursor(0, 5) {
		t.Errorf("cursor = %+v, want 0:5", b.Cursor())
	}
}

func TestInsertBackspaceRoundTrip(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 3)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Insert('Z'))
	b.Perform(Action{Op: OpBackspace})

	if got := b.Lines()[0].Text(); got != "Hello" {
		t.Errorf("text = %q, want %q", got, "Hello")
	}
	if b.Cursor() != NewCursor(0, 3) {
		t.Errorf("cursor = %+v, want 0:3", b.Cursor())
	}
}

func TestNextPreviousAcrossLines(t *testing.T) {
	b := newTestBuffer(t, "ab\ncd", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 2)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpNext})
	if b.Cursor() != NewCursor(1, 0) {
		t.Fatalf("Next at line end: cursor = %+v, want 1:0", b.Cursor())
	}

	b.Perform(Action{Op: OpPrevious})
	if b.Cursor() != NewCursor(0, 2) {
		t.Fatalf("Previous at line start: cursor = %+v, want 0:2", b.Cursor())
	}
}

func TestPreviousStopsOnClusterBoundary(t *testing.T) {
	b := newTestBuffer(t, "aé", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 4)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpPrevious})
	if b.Cursor().Index != 1 {
		t.Errorf("cursor index = %d, want 1 (cluster start)", b.Cursor().Index)
	}
}

func TestLeftRightFollowDirection(t *testing.T) {
	b := newTestBuffer(t, "ab", NewMetrics(1, 1), 100, 10)
	b.ShapeUntilScroll()

	b.Perform(Action{Op: OpRight})
	if b.Cursor().Index != 1 {
		t.Fatalf("Right in LTR: index = %d, want 1", b.Cursor().Index)
	}
	b.Perform(Action{Op: OpLeft})
	if b.Cursor().Index != 0 {
		t.Fatalf("Left in LTR: index = %d, want 0", b.Cursor().Index)
	}
}

func TestUpDownPreserveColumn(t *testing.T) {
	b := newTestBuffer(t, "Hello\nWorld\nHi", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 3)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpDown})
	if b.Cursor() != NewCursor(1, 3) {
		t.Fatalf("Down: cursor = %+v, want 1:3", b.Cursor())
	}

	// The short line clamps to its end; the anchor column survives.
	b.Perform(Action{Op: OpDown})
	if b.Cursor() != NewCursor(2, 2) {
		t.Fatalf("Down to short line: cursor = %+v, want 2:2", b.Cursor())
	}

	b.Perform(Action{Op: OpUp})
	if b.Cursor() != NewCursor(1, 3) {
		t.Fatalf("Up restores column: cursor = %+v, want 1:3", b.Cursor())
	}
}

func TestUpDownAcrossWrappedRows(t *testing.T) {
	// Width of 3 glyph cells wraps "abcdef" into abc / def.
	b := newTestBuffer(t, "abcdef", NewMetrics(10, 10), 30, 100)

	b.Perform(Action{Op: OpDown})
	if b.Cursor() != NewCursor(0, 3) {
		t.Fatalf("Down within wrapped line: cursor = %+v, want 0:3", b.Cursor())
	}

	b.Perform(Action{Op: OpUp})
	if b.Cursor() != NewCursor(0, 0) {
		t.Fatalf("Up within wrapped line: cursor = %+v, want 0:0", b.Cursor())
	}
}

func TestHomeEnd(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	if err := b.SetCursor(NewCursor(0, 2)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.Perform(Action{Op: OpEnd})
	if b.Cursor().Index != 5 {
		t.Fatalf("End: index = %d, want 5", b.Cursor().Index)
	}

	b.Perform(Action{Op: OpHome})
	if b.Cursor().Index != 0 {
		t.Fatalf("Home: index = %d, want 0", b.Cursor().Index)
	}
}

func TestSetCursorValidation(t *testing.T) {
	b := newTestBuffer(t, "aéb", NewMetrics(1, 1), 100, 10)

	if err := b.SetCursor(NewCursor(5, 0)); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("line 5: err = %v, want ErrLineOutOfRange", err)
	}
	if err := b.SetCursor(NewCursor(0, 99)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("index 99: err = %v, want ErrIndexOutOfRange", err)
	}
	if err := b.SetCursor(NewCursor(0, 2)); !errors.Is(err, ErrIndexNotBoundary) {
		t.Errorf("mid-cluster: err = %v, want ErrIndexNotBoundary", err)
	}
	if err := b.SetCursor(NewCursor(0, 4)); err != nil {
		t.Errorf("boundary: err = %v, want nil", err)
	}
}

func TestScrollClamped(t *testing.T) {
	b := newTestBuffer(t, "a\nb\nc\nd\ne", NewMetrics(1, 1), 100, 3)

	b.Perform(Scroll(100))
	if b.Scroll() != 3 {
		t.Errorf("scroll past end = %d, want 3", b.Scroll())
	}

	b.Perform(Scroll(-100))
	if b.Scroll() != 0 {
		t.Errorf("scroll past start = %d, want 0", b.Scroll())
	}
}

func TestPageUpDown(t *testing.T) {
	b := newTestBuffer(t, "a\nb\nc\nd\ne\nf", NewMetrics(1, 1), 100, 2)

	b.Perform(Action{Op: OpPageDown})
	if b.Scroll() != 2 {
		t.Errorf("PageDown: scroll = %d, want 2", b.Scroll())
	}

	b.Perform(Action{Op: OpPageUp})
	if b.Scroll() != 0 {
		t.Errorf("PageUp: scroll = %d, want 0", b.Scroll())
	}
}

func TestShapeUntilCursorScrollsIntoView(t *testing.T) {
	b := newTestBuffer(t, "a\nb\nc\nd\ne", NewMetrics(1, 1), 100, 2)
	if err := b.SetCursor(NewCursor(4, 0)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	b.ShapeUntilCursor()
	// Row 4 must be inside [scroll, scroll+2).
	if b.Scroll() != 3 {
		t.Errorf("scroll = %d, want 3", b.Scroll())
	}

	if err := b.SetCursor(NewCursor(0, 0)); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	b.ShapeUntilCursor()
	if b.Scroll() != 0 {
		t.Errorf("scroll = %d, want 0", b.Scroll())
	}
}

func TestShapeUntilBoundsWork(t *testing.T) {
	b := newTestBuffer(t, "a\nb\nc\nd\ne", NewMetrics(1, 1), 100, 2)

	// Only the viewport window is laid out eagerly.
	total := b.ShapeUntil(2)
	if total < 2 {
		t.Fatalf("ShapeUntil(2) = %d, want >= 2", total)
	}
	if b.Lines()[4].LayoutOpt() != nil {
		t.Error("line beyond requested rows was laid out")
	}
}

func TestRedrawSetOnReshape(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(1, 1), 100, 10)
	b.Redraw = false

	b.Perform(Insert('X'))
	b.ShapeUntilCursor()
	if !b.Redraw {
		t.Error("Redraw not set after edit reshaped the line")
	}
}

func TestSetMetricsRelayouts(t *testing.T) {
	b := newTestBuffer(t, "abcdef", NewMetrics(10, 10), 30, 100)
	if rows := b.Lines()[0].LayoutOpt(); len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// Halving the font size fits the whole line on one row.
	b.SetMetrics(NewMetrics(5, 5))
	if rows := b.Lines()[0].LayoutOpt(); len(rows) != 1 {
		t.Errorf("rows after SetMetrics = %d, want 1", len(rows))
	}
	if b.Metrics() != NewMetrics(5, 5) {
		t.Errorf("metrics = %v", b.Metrics())
	}
}

func TestSetSizeRewraps(t *testing.T) {
	b := newTestBuffer(t, "abcdef", NewMetrics(10, 10), 60, 100)
	if rows := b.Lines()[0].LayoutOpt(); len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	b.SetSize(30, 100)
	if rows := b.Lines()[0].LayoutOpt(); len(rows) != 2 {
		t.Errorf("rows after narrow = %d, want 2", len(rows))
	}

	w, h := b.Size()
	if w != 30 || h != 100 {
		t.Errorf("size = %d,%d, want 30,100", w, h)
	}
}

func TestClickAndDragSelection(t *testing.T) {
	b := newTestBuffer(t, "Hello", NewMetrics(10, 10), 100, 100)

	b.Perform(Click(0, 5))
	if _, ok := b.Selection(); ok {
		t.Fatal("click left a selection")
	}
	if b.Cursor() != NewCursor(0, 0) {
		t.Fatalf("click cursor = %+v, want 0:0", b.Cursor())
	}

	b.Perform(Drag(32, 5))
	anchor, ok := b.Selection()
	if !ok {
		t.Fatal("drag did not start a selection")
	}
	if anchor != NewCursor(0, 0) {
		t.Errorf("anchor = %+v, want 0:0", anchor)
	}
	if b.Cursor() != NewCursor(0, 3) {
		t.Errorf("drag cursor = %+v, want 0:3", b.Cursor())
	}

	b.Perform(Click(0, 5))
	if _, ok := b.Selection(); ok {
		t.Error("click did not clear the selection")
	}
}

func TestVisibleLines(t *testing.T) {
	b := newTestBuffer(t, "a", NewMetrics(10, 20), 100, 100)
	if got := b.VisibleLines(); got != 5 {
		t.Errorf("VisibleLines = %d, want 5", got)
	}
}
