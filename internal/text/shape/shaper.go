package shape

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/bidi"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/egc"
)

// Shaper produces a width-independent shaping result for a line of text.
type Shaper interface {
	Shape(text string, list *attrs.List) (*ShapedLine, error)
}

// TextShaper is the reference Shaper over a font registry. It segments the
// text into bidi runs and grapheme clusters and measures each cluster with
// the face matched from its attribute span.
type TextShaper struct {
	fonts *Fonts
}

// NewTextShaper creates a shaper over the given font registry.
func NewTextShaper(fonts *Fonts) *TextShaper {
	return &TextShaper{fonts: fonts}
}

// Fonts returns the shaper's font registry.
func (s *TextShaper) Fonts() *Fonts {
	return s.fonts
}

// Shape implements Shaper.
func (s *TextShaper) Shape(text string, list *attrs.List) (*ShapedLine, error) {
	if text == "" {
		return &ShapedLine{}, nil
	}

	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return nil, fmt.Errorf("bidi segmentation: %w", err)
	}
	order, err := p.Order()
	if err != nil {
		return nil, fmt.Errorf("bidi ordering: %w", err)
	}

	out := &ShapedLine{RTL: p.Direction() == bidi.RightToLeft}
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos()
		end++ // Pos reports an inclusive end offset
		rtl := run.Direction() == bidi.RightToLeft

		clusters := egc.Clusters(text[start:end])
		if rtl {
			for j, k := 0, len(clusters)-1; j < k; j, k = j+1, k-1 {
				clusters[j], clusters[k] = clusters[k], clusters[j]
			}
		}
		for _, c := range clusters {
			out.Glyphs = append(out.Glyphs, s.shapeCluster(text, list, start+c.Start, start+c.End, rtl))
		}
	}
	return out, nil
}

func (s *TextShaper) shapeCluster(text string, list *attrs.List, start, end int, rtl bool) Glyph {
	a := list.GetSpan(start, end)
	fontID, face := s.fonts.Match(a)
	cluster := text[start:end]

	var advance float32
	rep := rune(0)
	for i, r := range cluster {
		if i == 0 {
			rep = r
		}
		advance += face.AdvanceEm(r)
	}

	return Glyph{
		Start:    start,
		End:      end,
		Advance:  advance,
		RTL:      rtl,
		IsSpace:  strings.TrimSpace(cluster) == "",
		FontID:   fontID,
		Rune:     rep,
		Color:    a.Color,
		HasColor: a.HasColor,
	}
}
