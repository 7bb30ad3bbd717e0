// Package raster resolves layout cache keys to glyph pixels and vector
// outlines, backed by the golang.org/x/image font machinery. Rasterized
// coverage is memoized per cache key; faces render at their native size.
package raster

import (
	"errors"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/shape"
)

// Errors returned by the raster cache.
var (
	// ErrUnknownFont indicates a cache key referencing an unregistered face.
	ErrUnknownFont = errors.New("unknown font id")

	// ErrNoRaster indicates a face without pixel rendering support.
	ErrNoRaster = errors.New("face cannot rasterize glyphs")

	// ErrNoOutline indicates a glyph without extractable outline geometry.
	ErrNoOutline = errors.New("no outline for glyph")
)

// pixel is one covered point of a rasterized glyph, relative to the origin.
type pixel struct {
	x, y  int
	alpha uint8
}

// Cache memoizes rasterized glyph coverage per cache key. It is safe for
// concurrent use.
type Cache struct {
	fonts *shape.Fonts

	mu     sync.Mutex
	pixels map[shape.CacheKey][]pixel
}

// NewCache creates a cache over a font registry.
func NewCache(fonts *shape.Fonts) *Cache {
	return &Cache{
		fonts:  fonts,
		pixels: make(map[shape.CacheKey][]pixel),
	}
}

// WithPixels invokes fn for every covered pixel of the glyph, tinted with the
// given color. Unresolvable glyphs produce no pixels.
func (c *Cache) WithPixels(key shape.CacheKey, color attrs.Color, fn func(x, y int, color attrs.Color)) {
	pixels, err := c.rasterize(key)
	if err != nil {
		return
	}
	for _, p := range pixels {
		fn(p.x, p.y, scaleAlpha(color, p.alpha))
	}
}

// GetOutline returns the glyph's bounding box as a single rectangular
// contour. The underlying face format exposes coverage masks rather than
// curves, so the box is the best geometry available.
func (c *Cache) GetOutline(key shape.CacheKey) (shape.Outline, error) {
	face, err := c.face(key)
	if err != nil {
		return shape.Outline{}, err
	}

	bounds, _, ok := face.GlyphBounds(key.Rune)
	if !ok || bounds.Empty() {
		return shape.Outline{}, ErrNoOutline
	}

	minX := float32(bounds.Min.X) / 64
	minY := float32(bounds.Min.Y) / 64
	maxX := float32(bounds.Max.X) / 64
	maxY := float32(bounds.Max.Y) / 64
	return shape.Outline{Contours: []shape.Contour{{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}}, nil
}

func (c *Cache) face(key shape.CacheKey) (font.Face, error) {
	src, ok := c.fonts.Face(key.FontID)
	if !ok {
		return nil, ErrUnknownFont
	}
	adapter, ok := src.(*shape.FaceAdapter)
	if !ok {
		return nil, ErrNoRaster
	}
	return adapter.Face(), nil
}

func (c *Cache) rasterize(key shape.CacheKey) ([]pixel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pixels, ok := c.pixels[key]; ok {
		return pixels, nil
	}

	face, err := c.face(key)
	if err != nil {
		return nil, err
	}

	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, key.Rune)
	if !ok {
		dr, mask, maskp, _, ok = face.Glyph(fixed.Point26_6{}, '?')
		if !ok {
			return nil, ErrNoRaster
		}
	}

	var pixels []pixel
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
			if a == 0 {
				continue
			}
			pixels = append(pixels, pixel{x: x, y: y, alpha: uint8(a >> 8)})
		}
	}

	c.pixels[key] = pixels
	return pixels, nil
}

// scaleAlpha multiplies the color's alpha by coverage.
func scaleAlpha(c attrs.Color, coverage uint8) attrs.Color {
	a := uint32(c.A()) * uint32(coverage) / 0xFF
	return c.WithAlpha(uint8(a))
}
