package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/cartonry/cartonry/pkg/box"
	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/cartonry/cartonry/pkg/holder"
	"github.com/cartonry/cartonry/pkg/kernel"
)

// stubSolid tracks only an axis-aligned envelope, making the whole
// pipeline exact box arithmetic under the stub kernel.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

type stubKernel struct {
	meshDelay time.Duration // optional ToMesh slowdown
}

func (k *stubKernel) Box(x, y, z float64) kernel.Solid {
	return &stubSolid{maxBB: [3]float64{x, y, z}}
}

func (k *stubKernel) Union(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	var s stubSolid
	for i := 0; i < 3; i++ {
		s.minBB[i] = math.Min(amin[i], bmin[i])
		s.maxBB[i] = math.Max(amax[i], bmax[i])
	}
	return &s
}

func (k *stubKernel) Difference(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	return &stubSolid{minBB: amin, maxBB: amax}
}

func (k *stubKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	var s stubSolid
	for i := 0; i < 3; i++ {
		s.minBB[i] = math.Max(amin[i], bmin[i])
		s.maxBB[i] = math.Min(amax[i], bmax[i])
	}
	return &s
}

func (k *stubKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	min, max := s.BoundingBox()
	d := [3]float64{x, y, z}
	var out stubSolid
	for i := 0; i < 3; i++ {
		out.minBB[i] = min[i] + d[i]
		out.maxBB[i] = max[i] + d[i]
	}
	return &out
}

func (k *stubKernel) Scale(s kernel.Solid, factor float64) kernel.Solid {
	min, max := s.BoundingBox()
	var out stubSolid
	for i := 0; i < 3; i++ {
		out.minBB[i] = min[i] * factor
		out.maxBB[i] = max[i] * factor
	}
	return &out
}

func (k *stubKernel) FromMesh(m *geom.Mesh) (kernel.Solid, error) {
	bb, err := m.BoundingBox()
	if err != nil {
		return nil, err
	}
	return &stubSolid{
		minBB: [3]float64{bb.Min.X(), bb.Min.Y(), bb.Min.Z()},
		maxBB: [3]float64{bb.Max.X(), bb.Max.Y(), bb.Max.Z()},
	}, nil
}

func (k *stubKernel) ToMesh(s kernel.Solid) (*geom.Mesh, error) {
	if k.meshDelay > 0 {
		time.Sleep(k.meshDelay)
	}
	min, max := s.BoundingBox()
	x0, y0, z0 := float32(min[0]), float32(min[1]), float32(min[2])
	x1, y1, z1 := float32(max[0]), float32(max[1]), float32(max[2])
	return &geom.Mesh{
		Vertices: []float32{
			x0, y0, z0, x1, y0, z0, x1, y1, z0, x0, y1, z0,
			x0, y0, z1, x1, y0, z1, x1, y1, z1, x0, y1, z1,
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2,
			4, 5, 6, 4, 6, 7,
			0, 1, 5, 0, 5, 4,
			2, 3, 7, 2, 7, 6,
			0, 4, 7, 0, 7, 3,
			1, 2, 6, 1, 6, 5,
		},
	}, nil
}

func productMesh(k *stubKernel, w, h, d float64) *geom.Mesh {
	m, _ := k.ToMesh(&stubSolid{maxBB: [3]float64{w, h, d}})
	return m
}

func testRunner(k *stubKernel) *Runner {
	return NewRunner(k, log.New(io.Discard))
}

func baseRequest(product *geom.Mesh) Request {
	return Request{
		Product:       product,
		BoxType:       box.Standard,
		Padding:       10,
		WallThickness: 2,
		Holder: holder.Spec{
			Type:          holder.Negative,
			Padding:       2,
			BaseThickness: 5,
		},
	}
}

func TestRunProducesAllParts(t *testing.T) {
	k := &stubKernel{}
	r := testRunner(k)

	result, err := r.Run(context.Background(), baseRequest(productMesh(k, 60, 30, 20)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.JobID == "" {
		t.Error("JobID is empty")
	}
	if want := (mgl64.Vec3{80, 50, 40}); result.Dims.Sub(want).Len() > 1e-9 {
		t.Errorf("Dims = %v, want %v", result.Dims, want)
	}

	if result.Shell.Name != "shell" {
		t.Errorf("shell name = %q, want %q", result.Shell.Name, "shell")
	}
	if result.Holder.Name != "holder" {
		t.Errorf("holder name = %q, want %q", result.Holder.Name, "holder")
	}
	if result.Combined.Name != "package" {
		t.Errorf("combined name = %q, want %q", result.Combined.Name, "package")
	}

	wantTris := result.Shell.TriangleCount() + result.Holder.TriangleCount()
	if got := result.Combined.TriangleCount(); got != wantTris {
		t.Errorf("combined TriangleCount() = %d, want %d", got, wantTris)
	}
	if err := result.Combined.Validate(); err != nil {
		t.Errorf("combined Validate(): %v", err)
	}

	// The combined mesh is a copy: mutating it must not touch the
	// shell.
	before := result.Shell.Vertices[0]
	result.Combined.Vertices[0] += 100
	if result.Shell.Vertices[0] != before {
		t.Error("combined mesh shares storage with shell")
	}
}

func TestRunDescriptors(t *testing.T) {
	k := &stubKernel{}
	result, err := testRunner(k).Run(context.Background(), baseRequest(productMesh(k, 60, 30, 20)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	d := result.Product
	if want := (mgl64.Vec3{60, 30, 20}); d.Dimensions.Sub(want).Len() > 1e-6 {
		t.Errorf("Dimensions = %v, want %v", d.Dimensions, want)
	}
	if math.Abs(d.BoxVolume-36000) > 1e-3 {
		t.Errorf("BoxVolume = %g, want 36000", d.BoxVolume)
	}
	if math.Abs(d.MeshVolume-36000) > 1e-3 {
		t.Errorf("MeshVolume = %g, want 36000", d.MeshVolume)
	}
	if d.Triangles != 12 {
		t.Errorf("Triangles = %d, want 12", d.Triangles)
	}
}

func TestRunUniqueJobIDs(t *testing.T) {
	k := &stubKernel{}
	r := testRunner(k)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		result, err := r.Run(context.Background(), baseRequest(productMesh(k, 60, 30, 20)))
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if seen[result.JobID] {
			t.Fatalf("duplicate JobID %q", result.JobID)
		}
		seen[result.JobID] = true
	}
}

func TestRunConstrainedDims(t *testing.T) {
	k := &stubKernel{}
	req := baseRequest(productMesh(k, 60, 30, 20))
	req.Constraints = box.Constraints{MaxWidth: 40}

	result, err := testRunner(k).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Padded dims (80,50,40) scaled by 40/80.
	if want := (mgl64.Vec3{40, 25, 20}); result.Dims.Sub(want).Len() > 1e-9 {
		t.Errorf("Dims = %v, want %v", result.Dims, want)
	}
}

func TestRunErrors(t *testing.T) {
	k := &stubKernel{}
	r := testRunner(k)

	t.Run("nil product", func(t *testing.T) {
		req := baseRequest(nil)
		if _, err := r.Run(context.Background(), req); !errors.Is(err, geom.ErrEmptyMesh) {
			t.Errorf("Run() error = %v, want ErrEmptyMesh", err)
		}
	})

	t.Run("invalid constraints", func(t *testing.T) {
		req := baseRequest(productMesh(k, 60, 30, 20))
		req.Constraints = box.Constraints{MaxWidth: -1}
		if _, err := r.Run(context.Background(), req); err == nil {
			t.Error("Run() error = nil, want constraint error")
		}
	})

	t.Run("flat product without padding", func(t *testing.T) {
		req := baseRequest(productMesh(k, 60, 30, 0))
		req.Padding = 0
		_, err := r.Run(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "non-positive") {
			t.Errorf("Run() error = %v, want non-positive dimension error", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		slow := &stubKernel{meshDelay: 200 * time.Millisecond}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := testRunner(slow).Run(ctx, baseRequest(productMesh(&stubKernel{}, 60, 30, 20)))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})
}

func TestDescribeEmptyMesh(t *testing.T) {
	if _, err := Describe(&geom.Mesh{}); !errors.Is(err, geom.ErrEmptyMesh) {
		t.Errorf("Describe() error = %v, want ErrEmptyMesh", err)
	}
}
