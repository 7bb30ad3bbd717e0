package attrs

import (
	"fmt"
	"strings"
)

// FamilyKind selects between a generic font family and a named one.
type FamilyKind uint8

// Generic font family kinds.
const (
	FamilySansSerif FamilyKind = iota
	FamilySerif
	FamilyMonospace
	FamilyCursive
	FamilyFantasy
	FamilyNamed
)

// Family identifies a font family, either generic or by name.
type Family struct {
	Kind FamilyKind
	// Name is the family name when Kind is FamilyNamed.
	Name string
}

// NamedFamily returns a family referring to a specific font by name.
func NamedFamily(name string) Family {
	return Family{Kind: FamilyNamed, Name: name}
}

// String returns the family name.
func (f Family) String() string {
	switch f.Kind {
	case FamilySerif:
		return "serif"
	case FamilyMonospace:
		return "monospace"
	case FamilyCursive:
		return "cursive"
	case FamilyFantasy:
		return "fantasy"
	case FamilyNamed:
		return f.Name
	default:
		return "sans-serif"
	}
}

// Weight is a font weight on the usual 1-1000 scale.
type Weight uint16

// Common font weights.
const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// Style is the font slant style.
type Style uint8

// Font slant styles.
const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	default:
		return "normal"
	}
}

// Stretch is the font width class.
type Stretch uint8

// Font width classes, narrowest to widest.
const (
	StretchUltraCondensed Stretch = iota + 1
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

// FaceInfo describes a font face known to the font source.
type FaceInfo struct {
	PostScriptName string
	Family         string
	Style          Style
	Weight         Weight
	Stretch        Stretch
	Monospaced     bool
}

// Attrs is an immutable style descriptor applied to a run of text.
// It is a value type compared by equality for span merging.
type Attrs struct {
	// Color is the text color override. Only meaningful when HasColor is set.
	Color    Color
	HasColor bool

	Family     Family
	Monospaced bool
	Stretch    Stretch
	Style      Style
	Weight     Weight
}

// New returns attributes with sane defaults: a regular sans-serif font with
// no color override.
func New() Attrs {
	return Attrs{
		Family:  Family{Kind: FamilySansSerif},
		Stretch: StretchNormal,
		Style:   StyleNormal,
		Weight:  WeightNormal,
	}
}

// WithColor returns a copy with the text color set.
func (a Attrs) WithColor(c Color) Attrs {
	a.Color = c
	a.HasColor = true
	return a
}

// WithFamily returns a copy with the font family set.
func (a Attrs) WithFamily(f Family) Attrs {
	a.Family = f
	return a
}

// WithMonospaced returns a copy with the monospaced flag set.
func (a Attrs) WithMonospaced(monospaced bool) Attrs {
	a.Monospaced = monospaced
	return a
}

// WithStretch returns a copy with the stretch set.
func (a Attrs) WithStretch(s Stretch) Attrs {
	a.Stretch = s
	return a
}

// WithStyle returns a copy with the slant style set.
func (a Attrs) WithStyle(s Style) Attrs {
	a.Style = s
	return a
}

// WithWeight returns a copy with the weight set.
func (a Attrs) WithWeight(w Weight) Attrs {
	a.Weight = w
	return a
}

// Matches reports whether a font face can render text with these attributes.
// Emoji faces always match so that emoji fall through to them regardless of
// the requested style.
func (a Attrs) Matches(face FaceInfo) bool {
	if strings.Contains(face.PostScriptName, "Emoji") {
		return true
	}
	return face.Style == a.Style &&
		face.Weight == a.Weight &&
		face.Stretch == a.Stretch &&
		face.Monospaced == a.Monospaced
}

// Compatible reports whether two attribute sets can be shaped together in a
// single run.
func (a Attrs) Compatible(other Attrs) bool {
	return a.Family == other.Family &&
		a.Monospaced == other.Monospaced &&
		a.Stretch == other.Stretch &&
		a.Style == other.Style &&
		a.Weight == other.Weight
}

// String returns a compact description, mainly for logging.
func (a Attrs) String() string {
	return fmt.Sprintf("%s %s w%d", a.Family, a.Style, a.Weight)
}
