// Package holder generates internal holder structures that stabilize
// a product inside its packaging. The negative holder subtracts a
// padded copy of the product from a base block, leaving a cavity that
// cradles the product shape.
package holder

import (
	"errors"
	"fmt"
	"time"

	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/cartonry/cartonry/pkg/kernel"
	"github.com/charmbracelet/log"
)

// Type identifies a holder construction style.
type Type int

const (
	Negative Type = iota // cavity negatively matching the product
	Cradle               // supports the product from below
	Clip                 // secures the product with clips or arms
)

var typeNames = map[Type]string{
	Negative: "negative",
	Cradle:   "cradle",
	Clip:     "clip",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts a holder type name to a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return Negative, fmt.Errorf("unknown holder type %q", s)
}

// Fallback returns the implemented type generation for t delegates to,
// and whether a delegation happens. Cradle and clip construction are
// not implemented and produce the negative holder.
func (t Type) Fallback() (Type, bool) {
	switch t {
	case Negative:
		return Negative, false
	default:
		return Negative, true
	}
}

// Spec describes a holder to generate.
type Spec struct {
	Type          Type    `json:"type"`
	Padding       float64 `json:"padding"`        // clearance around the product, mm
	BaseThickness float64 `json:"base_thickness"` // solid base below the cavity, mm
}

// Validate rejects negative padding or base thickness.
func (s Spec) Validate() error {
	if s.Padding < 0 {
		return fmt.Errorf("padding must be non-negative, got %g", s.Padding)
	}
	if s.BaseThickness < 0 {
		return fmt.Errorf("base thickness must be non-negative, got %g", s.BaseThickness)
	}
	return nil
}

// GenerationError represents a holder construction failure.
type GenerationError struct {
	Stage string // "validate", "import", "subtract"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("holder generation: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator builds holder meshes through a solid-geometry kernel.
type Generator struct {
	Kernel  kernel.Kernel
	Logger  *log.Logger
	Timeout time.Duration // per-meshing limit; zero means kernel.DefaultMeshTimeout
}

// NewGenerator returns a Generator. A nil logger falls back to the
// default logger.
func NewGenerator(k kernel.Kernel, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{Kernel: k, Logger: logger}
}

// PaddingScale returns the uniform scale factor used to grow the
// product by at least padding along its smallest bounding-box axis:
// 1 + 2*padding/min(extent).
//
// This is an approximation, not a true uniform offset: axes larger
// than the smallest get proportionally more clearance than requested.
// A Minkowski offset from the geometry kernel would be exact; until
// one is available this heuristic matches the established holder
// behavior.
func PaddingScale(extent [3]float64, padding float64) (float64, error) {
	min := extent[0]
	for _, e := range extent[1:] {
		if e < min {
			min = e
		}
	}
	if min <= 0 {
		return 0, fmt.Errorf("product has zero extent along an axis: %v", extent)
	}
	return 1 + (2*padding)/min, nil
}

// Generate builds a holder mesh for the product.
//
// The negative holder scales a copy of the product about its center by
// PaddingScale, builds a base block matching the padded product's
// bounding box extended downward (along -Y) by BaseThickness, and
// subtracts the padded product from the block. The cavity opens at the
// top where the padded product pierces the block's upper face.
func (g *Generator) Generate(product *geom.Mesh, spec Spec) (*geom.Mesh, error) {
	if product == nil || product.IsEmpty() {
		return nil, &GenerationError{Stage: "validate", Err: geom.ErrEmptyMesh}
	}
	if err := spec.Validate(); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}

	effective, delegated := spec.Type.Fallback()
	if delegated {
		g.Logger.Warn("holder type not implemented, using negative holder",
			"requested", spec.Type.String(), "effective", effective.String())
	}

	bbox, err := product.BoundingBox()
	if err != nil {
		var gerr *geom.GeometryError
		if errors.As(err, &gerr) {
			return nil, &GenerationError{Stage: "validate", Err: gerr.Err}
		}
		return nil, &GenerationError{Stage: "validate", Err: err}
	}

	extent := bbox.Dimensions()
	scale, err := PaddingScale([3]float64{extent.X(), extent.Y(), extent.Z()}, spec.Padding)
	if err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}

	solid, err := g.Kernel.FromMesh(product)
	if err != nil {
		return nil, &GenerationError{Stage: "import", Err: err}
	}

	center := bbox.Center()
	padded := kernel.ScaleAbout(g.Kernel, solid, scale, center.X(), center.Y(), center.Z())

	// Base block matching the padded product's footprint, extended
	// downward by the base thickness.
	pmin, pmax := padded.BoundingBox()
	bw := pmax[0] - pmin[0]
	bh := pmax[1] - pmin[1] + spec.BaseThickness
	bd := pmax[2] - pmin[2]
	block := g.Kernel.Translate(
		g.Kernel.Box(bw, bh, bd),
		pmin[0], pmin[1]-spec.BaseThickness, pmin[2])

	mesh, err := kernel.MeshWithTimeout(g.Kernel, g.Kernel.Difference(block, padded), g.Timeout)
	if err != nil {
		return nil, &GenerationError{Stage: "subtract", Err: err}
	}
	if mesh.IsEmpty() {
		return nil, &GenerationError{Stage: "subtract", Err: fmt.Errorf("subtraction produced an empty holder")}
	}

	mesh.RecomputeNormals()
	mesh.Name = "holder"

	g.Logger.Debug("generated holder",
		"type", effective.String(), "scale", scale,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}
