package box

import (
	"fmt"
	"time"

	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/cartonry/cartonry/pkg/kernel"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Generator builds hollow box shells through a solid-geometry kernel.
// It is stateless apart from its collaborators and safe for use from
// concurrent design jobs.
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

// Generate builds a hollow shell mesh for the spec.
//
// Convention: Spec.OuterDims is the inner cavity the product needs.
// The outer solid is built at OuterDims + 2*WallThickness, so the
// box's true external envelope is larger than OuterDims by one wall on
// every side. The inner solid sits at (wall, wall, wall) from the
// outer corner, keeping the cavity concentric. The result is
// recentered so its envelope center sits at the origin, and face
// normals are recomputed for downstream consumers.
func (g *Generator) Generate(spec Spec) (*geom.Mesh, error) {
	if err := spec.Validate(); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}

	effective, delegated := spec.Type.Fallback()
	if delegated {
		g.Logger.Warn("box type not implemented, using standard shell",
			"requested", spec.Type.String(), "effective", effective.String())
	}

	w, h, d := spec.OuterDims.X(), spec.OuterDims.Y(), spec.OuterDims.Z()
	t := spec.WallThickness

	outer := g.Kernel.Box(w+2*t, h+2*t, d+2*t)
	inner := g.Kernel.Translate(g.Kernel.Box(w, h, d), t, t, t)

	shell := g.Kernel.Difference(outer, inner)
	mesh, err := kernel.MeshWithTimeout(g.Kernel, shell, g.Timeout)
	if err != nil {
		return nil, &GenerationError{Stage: "subtract", Err: err}
	}
	if mesh.IsEmpty() {
		return nil, &GenerationError{Stage: "subtract", Err: fmt.Errorf("subtraction produced an empty shell for dims %v", spec.OuterDims)}
	}

	// Both solids were built from the min corner, so the envelope
	// center is at half the outer dimensions.
	mesh.Translate(spec.OuterDims.Add(mgl64.Vec3{2 * t, 2 * t, 2 * t}).Mul(-0.5))
	mesh.RecomputeNormals()
	mesh.Name = "shell"

	g.Logger.Debug("generated box shell",
		"type", effective.String(),
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}
