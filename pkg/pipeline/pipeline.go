// Package pipeline orchestrates a complete packaging design job:
// product bounds, dimension optimization, shell and holder generation,
// and the combined package mesh. Each job is independent; a Runner is
// safe for concurrent jobs as long as the kernel contract of
// unshared geometry buffers is respected.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cartonry/cartonry/pkg/box"
	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/cartonry/cartonry/pkg/holder"
	"github.com/cartonry/cartonry/pkg/kernel"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Request describes one packaging design job.
type Request struct {
	Product       *geom.Mesh
	BoxType       box.Type
	Padding       float64 // product-to-wall clearance, mm
	WallThickness float64 // mm
	Constraints   box.Constraints
	Holder        holder.Spec
}

// Descriptors are the scalar product measurements exposed to the
// recommendation collaborator.
type Descriptors struct {
	Dimensions  mgl64.Vec3 `json:"dimensions"`   // bounding box extents, mm
	BoxVolume   float64    `json:"box_volume"`   // bounding box volume, mm^3
	MeshVolume  float64    `json:"mesh_volume"`  // enclosed mesh volume, mm^3
	SurfaceArea float64    `json:"surface_area"` // mm^2
	Triangles   int        `json:"triangles"`
}

// Describe computes product descriptors from a mesh.
func Describe(m *geom.Mesh) (Descriptors, error) {
	bb, err := m.BoundingBox()
	if err != nil {
		return Descriptors{}, err
	}
	return Descriptors{
		Dimensions:  bb.Dimensions(),
		BoxVolume:   bb.Volume(),
		MeshVolume:  m.Volume(),
		SurfaceArea: m.SurfaceArea(),
		Triangles:   m.TriangleCount(),
	}, nil
}

// Result is the output of one design job.
type Result struct {
	JobID    string
	Dims     mgl64.Vec3 // optimized cavity dimensions, mm
	Shell    *geom.Mesh
	Holder   *geom.Mesh
	Combined *geom.Mesh
	Product  Descriptors
}

// Runner executes design jobs against a solid-geometry kernel.
type Runner struct {
	Kernel      kernel.Kernel
	Logger      *log.Logger
	MeshTimeout time.Duration
}

// NewRunner returns a Runner. A nil logger falls back to the default
// logger.
func NewRunner(k kernel.Kernel, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Kernel: k, Logger: logger}
}

// genOutcome carries one generator's result through a channel.
type genOutcome struct {
	mesh *geom.Mesh
	err  error
}

// Run executes a design job. The shell and holder are generated on
// separate goroutines since each owns its own solids; their results
// join before the combined mesh is assembled. Cancelling ctx abandons
// the job (running generator goroutines finish and are discarded).
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	jobID := uuid.New().String()
	logger := r.Logger.With("job", jobID)

	if req.Product == nil || req.Product.IsEmpty() {
		return nil, fmt.Errorf("design job: %w", geom.ErrEmptyMesh)
	}
	if err := req.Product.Validate(); err != nil {
		return nil, fmt.Errorf("design job: %w", err)
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, fmt.Errorf("design job: %w", err)
	}

	desc, err := Describe(req.Product)
	if err != nil {
		return nil, fmt.Errorf("design job: %w", err)
	}
	logger.Info("starting design job",
		"product_dims", desc.Dimensions, "triangles", desc.Triangles)

	bb, err := req.Product.BoundingBox()
	if err != nil {
		return nil, fmt.Errorf("design job: %w", err)
	}

	dims := box.OptimizeDimensions(bb, req.Padding, req.Constraints)
	for i, axis := range [3]string{"width", "height", "depth"} {
		if dims[i] <= 0 {
			return nil, fmt.Errorf("design job: optimized %s is non-positive (%g); product has no extent on that axis", axis, dims[i])
		}
	}
	logger.Debug("optimized dimensions", "dims", dims)

	shellGen := &box.Generator{Kernel: r.Kernel, Logger: logger, Timeout: r.MeshTimeout}
	holderGen := &holder.Generator{Kernel: r.Kernel, Logger: logger, Timeout: r.MeshTimeout}

	shellCh := make(chan genOutcome, 1)
	holderCh := make(chan genOutcome, 1)

	go func() {
		m, err := shellGen.Generate(box.Spec{
			Type:          req.BoxType,
			OuterDims:     dims,
			WallThickness: req.WallThickness,
		})
		shellCh <- genOutcome{mesh: m, err: err}
	}()
	go func() {
		m, err := holderGen.Generate(req.Product, req.Holder)
		holderCh <- genOutcome{mesh: m, err: err}
	}()

	var shellMesh, holderMesh *geom.Mesh
	for i := 0; i < 2; i++ {
		select {
		case out := <-shellCh:
			if out.err != nil {
				return nil, fmt.Errorf("design job: %w", out.err)
			}
			shellMesh = out.mesh
		case out := <-holderCh:
			if out.err != nil {
				return nil, fmt.Errorf("design job: %w", out.err)
			}
			holderMesh = out.mesh
		case <-ctx.Done():
			return nil, fmt.Errorf("design job: %w", ctx.Err())
		}
	}

	combined := shellMesh.Clone()
	combined.Merge(holderMesh)
	combined.Name = "package"

	logger.Info("design job complete",
		"dims", dims,
		"shell_triangles", shellMesh.TriangleCount(),
		"holder_triangles", holderMesh.TriangleCount())

	return &Result{
		JobID:    jobID,
		Dims:     dims,
		Shell:    shellMesh,
		Holder:   holderMesh,
		Combined: combined,
		Product:  desc,
	}, nil
}
