package shape

import (
	"errors"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/dshills/typeset/internal/text/attrs"
)

// ErrNoFaces indicates a font registry was created without any faces.
var ErrNoFaces = errors.New("no font faces registered")

// FaceSource provides the metrics the shaper needs from one font face.
type FaceSource interface {
	// Info describes the face for attribute matching.
	Info() attrs.FaceInfo
	// AdvanceEm returns the advance width of r in em units (1.0 = font size).
	AdvanceEm(r rune) float32
}

// FixedAdvanceFace is a metrics-only monospaced face where every rune
// advances by the same em fraction. Cell-grid renderers use an advance of 1.
type FixedAdvanceFace struct {
	info    attrs.FaceInfo
	advance float32
}

// NewFixedAdvanceFace creates a fixed-advance face with the given name.
func NewFixedAdvanceFace(name string, advance float32) *FixedAdvanceFace {
	return &FixedAdvanceFace{
		info: attrs.FaceInfo{
			PostScriptName: name,
			Family:         name,
			Weight:         attrs.WeightNormal,
			Stretch:        attrs.StretchNormal,
			Monospaced:     true,
		},
		advance: advance,
	}
}

// Info implements FaceSource.
func (f *FixedAdvanceFace) Info() attrs.FaceInfo {
	return f.info
}

// AdvanceEm implements FaceSource.
func (f *FixedAdvanceFace) AdvanceEm(rune) float32 {
	return f.advance
}

// FaceAdapter exposes a golang.org/x/image/font.Face as a FaceSource, scaling
// its pixel advances to em units using ascent plus descent as the em height.
type FaceAdapter struct {
	info attrs.FaceInfo
	face font.Face
	em   float32
}

// AdaptFace wraps an x/image font face.
func AdaptFace(info attrs.FaceInfo, face font.Face) *FaceAdapter {
	m := face.Metrics()
	em := float32(m.Ascent+m.Descent) / 64
	if em <= 0 {
		em = 1
	}
	return &FaceAdapter{info: info, face: face, em: em}
}

// Info implements FaceSource.
func (f *FaceAdapter) Info() attrs.FaceInfo {
	return f.info
}

// AdvanceEm implements FaceSource.
func (f *FaceAdapter) AdvanceEm(r rune) float32 {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		adv, _ = f.face.GlyphAdvance('?')
	}
	return float32(adv) / 64 / f.em
}

// Face returns the wrapped x/image face, used by the raster cache for glyph
// masks and bounds.
func (f *FaceAdapter) Face() font.Face {
	return f.face
}

// Fonts is an ordered registry of font faces. Matching scans in registration
// order and falls back to the first face when nothing matches.
type Fonts struct {
	faces []FaceSource
}

// NewFonts creates a registry. At least one face is required.
func NewFonts(faces ...FaceSource) (*Fonts, error) {
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	return &Fonts{faces: faces}, nil
}

// Default returns a registry containing the built-in basicfont face.
func Default() *Fonts {
	face := AdaptFace(attrs.FaceInfo{
		PostScriptName: "Basic7x13",
		Family:         "Basic",
		Weight:         attrs.WeightNormal,
		Stretch:        attrs.StretchNormal,
		Monospaced:     true,
	}, basicfont.Face7x13)
	return &Fonts{faces: []FaceSource{face}}
}

// Match returns the id and source of the first face matching the attributes,
// or the first registered face when none match.
func (f *Fonts) Match(a attrs.Attrs) (uint16, FaceSource) {
	for i, face := range f.faces {
		if a.Matches(face.Info()) {
			return uint16(i), face
		}
	}
	return 0, f.faces[0]
}

// Face returns the face registered under id.
func (f *Fonts) Face(id uint16) (FaceSource, bool) {
	if int(id) >= len(f.faces) {
		return nil, false
	}
	return f.faces[id], true
}

// Len returns the number of registered faces.
func (f *Fonts) Len() int {
	return len(f.faces)
}
