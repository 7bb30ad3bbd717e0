package buffer

import (
	"math"
	"unicode/utf8"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/egc"
	"github.com/dshills/typeset/internal/text/line"
)

// Op identifies a buffer action.
type Op uint8

// Buffer actions. Navigation ops never mutate text; editing ops always leave
// the cursor on a valid grapheme boundary.
const (
	// OpPrevious moves the cursor to the previous cluster (left in LTR).
	OpPrevious Op = iota
	// OpNext moves the cursor to the next cluster (right in LTR).
	OpNext
	// OpLeft moves the cursor visually left, tracking line direction.
	OpLeft
	// OpRight moves the cursor visually right, tracking line direction.
	OpRight
	// OpUp moves the cursor up one visual row.
	OpUp
	// OpDown moves the cursor down one visual row.
	OpDown
	// OpHome moves the cursor to the start of the visual row.
	OpHome
	// OpEnd moves the cursor to the end of the visual row.
	OpEnd
	// OpPageUp scrolls up one viewport height.
	OpPageUp
	// OpPageDown scrolls down one viewport height.
	OpPageDown
	// OpInsert inserts a character at the cursor.
	OpInsert
	// OpEnter splits the line at the cursor.
	OpEnter
	// OpBackspace deletes the cluster behind the cursor.
	OpBackspace
	// OpDelete deletes the cluster at the cursor.
	OpDelete
	// OpClick moves the cursor by hit-testing, clearing any selection.
	OpClick
	// OpDrag moves the cursor by hit-testing, growing a selection.
	OpDrag
	// OpScroll scrolls by a number of visual rows.
	OpScroll
)

// Action is a request to mutate or navigate the buffer. Only the fields the
// op consumes are meaningful.
type Action struct {
	Op Op
	// Rune is the character for OpInsert.
	Rune rune
	// X and Y are pixel coordinates for OpClick and OpDrag.
	X int
	Y int
	// Lines is the row delta for OpScroll.
	Lines int
}

// Insert returns an action inserting r at the cursor.
func Insert(r rune) Action {
	return Action{Op: OpInsert, Rune: r}
}

// Click returns an action moving the cursor to the pixel position.
func Click(x, y int) Action {
	return Action{Op: OpClick, X: x, Y: y}
}

// Drag returns an action extending the selection to the pixel position.
func Drag(x, y int) Action {
	return Action{Op: OpDrag, X: x, Y: y}
}

// Scroll returns an action scrolling by the given number of visual rows.
func Scroll(lines int) Action {
	return Action{Op: OpScroll, Lines: lines}
}

// Perform applies an action to the buffer, setting CursorMoved when the
// cursor position changed as a result.
func (b *Buffer) Perform(a Action) {
	old := b.cursor

	switch a.Op {
	case OpPrevious:
		b.movePrevious()
	case OpNext:
		b.moveNext()
	case OpLeft:
		if shaped := b.lines[b.cursor.Line].ShapeOpt(); shaped != nil {
			if shaped.RTL {
				b.Perform(Action{Op: OpNext})
			} else {
				b.Perform(Action{Op: OpPrevious})
			}
		}
	case OpRight:
		if shaped := b.lines[b.cursor.Line].ShapeOpt(); shaped != nil {
			if shaped.RTL {
				b.Perform(Action{Op: OpPrevious})
			} else {
				b.Perform(Action{Op: OpNext})
			}
		}
	case OpUp:
		b.moveVertical(-1)
	case OpDown:
		b.moveVertical(1)
	case OpHome:
		b.moveRowEdge(0)
	case OpEnd:
		b.moveRowEdge(math.MaxInt)
	case OpPageUp:
		b.scroll -= b.VisibleLines()
		b.Redraw = true
		b.ShapeUntilScroll()
	case OpPageDown:
		b.scroll += b.VisibleLines()
		b.Redraw = true
		b.ShapeUntilScroll()
	case OpInsert:
		b.insertRune(a.Rune)
	case OpEnter:
		b.splitLine()
	case OpBackspace:
		b.backspace()
	case OpDelete:
		b.deleteForward()
	case OpClick:
		b.sel = nil
		if c, ok := b.Hit(a.X, a.Y); ok && c != b.cursor {
			b.cursor = c
			b.Redraw = true
		}
	case OpDrag:
		if b.sel == nil {
			anchor := b.cursor
			b.sel = &anchor
			b.Redraw = true
		}
		if c, ok := b.Hit(a.X, a.Y); ok && c != b.cursor {
			b.cursor = c
			b.Redraw = true
		}
	case OpScroll:
		b.scroll += a.Lines
		b.Redraw = true
		b.ShapeUntilScroll()
	}

	if old != b.cursor {
		b.CursorMoved = true
	}
}

func (b *Buffer) movePrevious() {
	ln := b.lines[b.cursor.Line]
	if b.cursor.Index > 0 {
		b.cursor.Index = egc.Prev(ln.Text(), b.cursor.Index)
		b.Redraw = true
	} else if b.cursor.Line > 0 {
		b.cursor.Line--
		b.cursor.Index = len(b.lines[b.cursor.Line].Text())
		b.Redraw = true
	}
	b.hasCursorX = false
}

func (b *Buffer) moveNext() {
	ln := b.lines[b.cursor.Line]
	if b.cursor.Index < len(ln.Text()) {
		b.cursor.Index = egc.Next(ln.Text(), b.cursor.Index)
		b.Redraw = true
	} else if b.cursor.Line+1 < len(b.lines) {
		b.cursor.Line++
		b.cursor.Index = 0
		b.Redraw = true
	}
	b.hasCursorX = false
}

// moveVertical moves one visual row up (-1) or down (+1), preserving an
// approximate horizontal anchor as a glyph index across rows.
func (b *Buffer) moveVertical(dir int) {
	lc, err := b.layoutCursor(b.cursor)
	if err != nil {
		b.log.Error("layout cursor: %v", err)
		return
	}

	if !b.hasCursorX {
		b.cursorX = lc.glyph
		b.hasCursorX = true
	}

	if dir < 0 {
		if lc.layout > 0 {
			lc.layout--
		} else if lc.line > 0 {
			lc.line--
			lc.layout = math.MaxInt
		}
	} else {
		rows, err := b.lines[lc.line].Layout(b.shaper, b.metrics.FontSize, b.width)
		if err != nil {
			b.log.Error("layout line %d: %v", lc.line, err)
			return
		}
		if lc.layout+1 < len(rows) {
			lc.layout++
		} else if lc.line+1 < len(b.lines) {
			lc.line++
			lc.layout = 0
		}
	}

	lc.glyph = b.cursorX
	b.setLayoutCursor(lc)
}

func (b *Buffer) moveRowEdge(glyph int) {
	lc, err := b.layoutCursor(b.cursor)
	if err != nil {
		b.log.Error("layout cursor: %v", err)
		return
	}
	lc.glyph = glyph
	b.setLayoutCursor(lc)
	b.hasCursorX = false
}

func (b *Buffer) insertRune(r rune) {
	if !b.insertAllow(r) {
		b.log.Debug("refusing to insert control character %q", r)
		return
	}

	ln := b.lines[b.cursor.Line]
	after, err := ln.SplitOff(b.cursor.Index)
	if err != nil {
		b.log.Error("insert split at %d: %v", b.cursor.Index, err)
		return
	}

	// The inserted character takes the line's current default attributes.
	ln.Append(line.New(string(r), attrs.NewList(ln.AttrsList().Defaults())))
	ln.Append(after)

	b.cursor.Index += utf8.RuneLen(r)
}

func (b *Buffer) splitLine() {
	rest, err := b.lines[b.cursor.Line].SplitOff(b.cursor.Index)
	if err != nil {
		b.log.Error("enter split at %d: %v", b.cursor.Index, err)
		return
	}

	b.cursor.Line++
	b.cursor.Index = 0
	b.lines = append(b.lines, nil)
	copy(b.lines[b.cursor.Line+1:], b.lines[b.cursor.Line:])
	b.lines[b.cursor.Line] = rest
}

func (b *Buffer) backspace() {
	if b.cursor.Index > 0 {
		ln := b.lines[b.cursor.Line]
		after, err := ln.SplitOff(b.cursor.Index)
		if err != nil {
			b.log.Error("backspace split at %d: %v", b.cursor.Index, err)
			return
		}

		prev := egc.Prev(ln.Text(), b.cursor.Index)
		b.cursor.Index = prev

		// Drop the cluster between prev and the old cursor, then rejoin.
		if _, err := ln.SplitOff(prev); err != nil {
			b.log.Error("backspace split at %d: %v", prev, err)
		}
		ln.Append(after)
	} else if b.cursor.Line > 0 {
		// At line start: remove the line break by merging into the
		// previous line.
		old := b.lines[b.cursor.Line]
		b.lines = append(b.lines[:b.cursor.Line], b.lines[b.cursor.Line+1:]...)
		b.cursor.Line--

		ln := b.lines[b.cursor.Line]
		b.cursor.Index = len(ln.Text())
		ln.Append(old)
	}
}

func (b *Buffer) deleteForward() {
	ln := b.lines[b.cursor.Line]
	if b.cursor.Index < len(ln.Text()) {
		cluster, ok := egc.At(ln.Text(), b.cursor.Index)
		if !ok {
			return
		}
		b.cursor.Index = cluster.Start

		after, err := ln.SplitOff(cluster.End)
		if err != nil {
			b.log.Error("delete split at %d: %v", cluster.End, err)
			return
		}
		if _, err := ln.SplitOff(cluster.Start); err != nil {
			b.log.Error("delete split at %d: %v", cluster.Start, err)
		}
		ln.Append(after)
	} else if b.cursor.Line+1 < len(b.lines) {
		// At line end: merge the following line into this one.
		old := b.lines[b.cursor.Line+1]
		b.lines = append(b.lines[:b.cursor.Line+1], b.lines[b.cursor.Line+2:]...)
		ln.Append(old)
	}
}
