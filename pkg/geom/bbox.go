package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned bounding box with Min <= Max
// componentwise. Values are immutable snapshots; Pad returns a new box.
type BoundingBox struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// NewBoundingBox returns an empty box ready to be extended. Extending
// it with any point produces a degenerate box at that point.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: mgl64.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		Max: mgl64.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64},
	}
}

// Extend expands the box to include point p.
func (b *BoundingBox) Extend(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Dimensions returns Max - Min.
func (b BoundingBox) Dimensions() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Volume returns width * height * depth.
func (b BoundingBox) Volume() float64 {
	d := b.Dimensions()
	return d.X() * d.Y() * d.Z()
}

// Pad returns a new box grown by padding on every side:
// {Min - padding, Max + padding} componentwise. Negative padding
// shrinks the box; the caller is responsible for keeping the result
// non-degenerate.
func (b BoundingBox) Pad(padding float64) BoundingBox {
	p := mgl64.Vec3{padding, padding, padding}
	return BoundingBox{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}
