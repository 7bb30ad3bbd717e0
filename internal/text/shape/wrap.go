package shape

// Wrap breaks a shaped line into visual rows at the given font size and wrap
// width. A width of zero or less disables wrapping. Rows prefer to break
// after the last whitespace cluster; a row without one breaks at the glyph
// that overflowed. The result always contains at least one row so an empty
// line still has a caret position.
func Wrap(shaped *ShapedLine, fontSize, width int) []LayoutLine {
	rows := splitRows(shaped.Glyphs, fontSize, width)

	lines := make([]LayoutLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, positionRow(row, fontSize))
	}
	if len(lines) == 0 {
		lines = append(lines, LayoutLine{})
	}
	return lines
}

func splitRows(glyphs []Glyph, fontSize, width int) [][]Glyph {
	if width <= 0 {
		if len(glyphs) == 0 {
			return nil
		}
		return [][]Glyph{glyphs}
	}

	var rows [][]Glyph
	var cur []Glyph
	x := float32(0)
	lastSpace := -1

	flush := func(keep int) {
		// Break after glyph index keep-1; the rest carries to the next row.
		carry := append([]Glyph(nil), cur[keep:]...)
		rows = append(rows, cur[:keep])
		cur = carry
		x = 0
		lastSpace = -1
		for i, g := range cur {
			x += g.Advance * float32(fontSize)
			if g.IsSpace {
				lastSpace = i
			}
		}
	}

	for _, g := range glyphs {
		w := g.Advance * float32(fontSize)
		if len(cur) > 0 && x+w > float32(width) {
			if lastSpace >= 0 {
				flush(lastSpace + 1)
			} else {
				flush(len(cur))
			}
		}
		if g.IsSpace {
			lastSpace = len(cur)
		}
		cur = append(cur, g)
		x += w
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	return rows
}

func positionRow(row []Glyph, fontSize int) LayoutLine {
	line := LayoutLine{Glyphs: make([]LayoutGlyph, 0, len(row))}
	x := float32(0)
	for _, g := range row {
		w := g.Advance * float32(fontSize)
		line.Glyphs = append(line.Glyphs, LayoutGlyph{
			Start:    g.Start,
			End:      g.End,
			X:        x,
			W:        w,
			XInt:     int(x),
			YInt:     0,
			RTL:      g.RTL,
			CacheKey: CacheKey{FontID: g.FontID, Rune: g.Rune, Size: fontSize},
			Color:    g.Color,
			HasColor: g.HasColor,
		})
		x += w
	}
	line.W = x
	return line
}
