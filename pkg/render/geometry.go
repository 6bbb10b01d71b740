package render

import (
	"github.com/matzehuels/percolator/pkg/errors"
)

// Geometry holds the pixel measurements of a rendering.
type Geometry struct {
	LineLength    int `json:"line_length" toml:"line_length" yaml:"line_length"`          // distance between adjacent tile centers
	LineWidth     int `json:"line_width" toml:"line_width" yaml:"line_width"`             // bond bar thickness
	PointDiameter int `json:"point_diameter" toml:"point_diameter" yaml:"point_diameter"` // cell marker diameter
	Padding       int `json:"padding" toml:"padding" yaml:"padding"`                      // border added around the buffer on output
}

// Upper bounds on a single measurement.
const (
	MaxLineLength = 1000
	MaxPadding    = 1000
)

// DefaultGeometry is used when no geometry is configured.
var DefaultGeometry = Geometry{
	LineLength:    10,
	LineWidth:     2,
	PointDiameter: 4,
	Padding:       10,
}

// Inset returns max(LineWidth, PointDiameter).
func (g Geometry) Inset() int {
	return max(g.LineWidth, g.PointDiameter)
}

// insets splits the inset into its left/top and right/bottom parts.
func (g Geometry) insets() (lt, rb int) {
	inset := g.Inset()
	lt = inset / 2
	return lt, inset - lt
}

// Validate reports an INVALID_CONFIG error when the geometry cannot be drawn.
func (g Geometry) Validate() error {
	if g.LineLength < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "line length must be positive, got %d", g.LineLength)
	}
	if g.LineLength > MaxLineLength {
		return errors.New(errors.ErrCodeInvalidConfig, "line length must be at most %d, got %d", MaxLineLength, g.LineLength)
	}
	if g.Padding > MaxPadding {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be at most %d, got %d", MaxPadding, g.Padding)
	}
	if g.LineWidth < 0 || g.PointDiameter < 0 || g.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"line width, point diameter and padding must not be negative, got %d, %d, %d",
			g.LineWidth, g.PointDiameter, g.Padding)
	}
	if inset := g.Inset(); inset > g.LineLength {
		return errors.New(errors.ErrCodeInvalidConfig,
			"inset %d exceeds line length %d: neighbouring tiles would overlap", inset, g.LineLength)
	}
	return nil
}
