// Package kernel defines the abstract solid-geometry provider
// interface. Implementations (sdfx today, other CSG backends later)
// provide solid modeling and boolean operations behind this interface,
// so the box and holder generators never depend on a concrete backend.
package kernel

import "github.com/cartonry/cartonry/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-geometry provider interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid

	// Boolean operations. Difference must fail cleanly (via ToMesh
	// returning an error) rather than crash on degenerate input.
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Scale(s Solid, factor float64) Solid // uniform, about the origin

	// Mesh conversion. FromMesh requires a watertight triangle mesh.
	FromMesh(m *geom.Mesh) (Solid, error)
	ToMesh(s Solid) (*geom.Mesh, error)
}

// ScaleAbout uniformly scales a solid about an arbitrary center by
// composing the kernel's origin-centered scale with translations.
func ScaleAbout(k Kernel, s Solid, factor, cx, cy, cz float64) Solid {
	return k.Translate(k.Scale(k.Translate(s, -cx, -cy, -cz), factor), cx, cy, cz)
}
