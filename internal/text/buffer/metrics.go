package buffer

import "fmt"

// Metrics is the vertical sizing of text in pixels.
type Metrics struct {
	// FontSize is the em size in pixels.
	FontSize int
	// LineHeight is the distance between baselines in pixels.
	LineHeight int
}

// NewMetrics creates metrics from a font size and line height.
func NewMetrics(fontSize, lineHeight int) Metrics {
	return Metrics{FontSize: fontSize, LineHeight: lineHeight}
}

// Scale multiplies both dimensions, for HiDPI rendering.
func (m Metrics) Scale(scale int) Metrics {
	return Metrics{
		FontSize:   m.FontSize * scale,
		LineHeight: m.LineHeight * scale,
	}
}

// String returns the metrics as "14px / 20px".
func (m Metrics) String() string {
	return fmt.Sprintf("%dpx / %dpx", m.FontSize, m.LineHeight)
}
