package box

import (
	"fmt"
	"math"

	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Constraints are optional upper bounds on box dimensions. A zero
// value means the bound is absent. Lengths in mm, volume in mm^3.
type Constraints struct {
	MaxWidth  float64 `json:"max_width" toml:"max_width"`
	MaxHeight float64 `json:"max_height" toml:"max_height"`
	MaxDepth  float64 `json:"max_depth" toml:"max_depth"`
	MaxVolume float64 `json:"max_volume" toml:"max_volume"`
}

// Validate rejects negative bounds. Zero means absent.
func (c Constraints) Validate() error {
	for _, b := range []struct {
		name  string
		value float64
	}{
		{"max_width", c.MaxWidth},
		{"max_height", c.MaxHeight},
		{"max_depth", c.MaxDepth},
		{"max_volume", c.MaxVolume},
	} {
		if b.value < 0 {
			return fmt.Errorf("constraint %s must be positive or absent, got %g", b.name, b.value)
		}
	}
	return nil
}

// OptimizeDimensions computes final box dimensions for a product
// bounding box, padding, and optional constraints.
//
// Each violated linear bound rescales all three dimensions uniformly
// (preserving aspect ratio), in the fixed order width, height, depth.
// Order matters: a later constraint can re-scale a dimension already
// adjusted by an earlier one, so when several linear bounds conflict
// the last applied dominates rather than producing a jointly optimal
// fit. The volume bound is applied once, last, with cube-root scaling.
//
// Output dimensions never exceed any specified bound (within floating
// tolerance). A product with zero extent along some axis yields zero
// output on that axis; callers must guard against zero dimensions
// before requesting a shell.
func OptimizeDimensions(product geom.BoundingBox, padding float64, c Constraints) mgl64.Vec3 {
	dims := product.Pad(padding).Dimensions()
	width, height, depth := dims.X(), dims.Y(), dims.Z()

	if c.MaxWidth > 0 && width > c.MaxWidth {
		scale := c.MaxWidth / width
		width = c.MaxWidth
		height *= scale
		depth *= scale
	}
	if c.MaxHeight > 0 && height > c.MaxHeight {
		scale := c.MaxHeight / height
		height = c.MaxHeight
		width *= scale
		depth *= scale
	}
	if c.MaxDepth > 0 && depth > c.MaxDepth {
		scale := c.MaxDepth / depth
		depth = c.MaxDepth
		width *= scale
		height *= scale
	}

	if c.MaxVolume > 0 {
		volume := width * height * depth
		if volume > c.MaxVolume {
			// Cube root maintains proportions exactly.
			scale := math.Cbrt(c.MaxVolume / volume)
			width *= scale
			height *= scale
			depth *= scale
		}
	}

	return mgl64.Vec3{width, height, depth}
}
