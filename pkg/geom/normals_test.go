package geom

import (
	"math"
	"testing"
)

func TestRecomputeNormalsSingleTriangle(t *testing.T) {
	// Triangle in the XY plane, counter-clockwise: normal is +Z.
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
	m.RecomputeNormals()

	if got, want := len(m.Normals), len(m.Vertices); got != want {
		t.Fatalf("normal count = %d, want %d", got, want)
	}
	for i := 0; i < 3; i++ {
		nx := float64(m.Normals[i*3])
		ny := float64(m.Normals[i*3+1])
		nz := float64(m.Normals[i*3+2])
		if math.Abs(nx) > 1e-6 || math.Abs(ny) > 1e-6 || math.Abs(nz-1) > 1e-6 {
			t.Errorf("vertex %d normal = (%g,%g,%g), want (0,0,1)", i, nx, ny, nz)
		}
	}
}

func TestRecomputeNormalsUnitLength(t *testing.T) {
	m := unitCube()
	m.RecomputeNormals()

	for i := 0; i < m.VertexCount(); i++ {
		nx := float64(m.Normals[i*3])
		ny := float64(m.Normals[i*3+1])
		nz := float64(m.Normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(length-1) > 1e-5 {
			t.Errorf("vertex %d normal length = %g, want 1", i, length)
		}
	}
}

func TestRecomputeNormalsReplacesExisting(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{1, 0, 0, 1, 0, 0, 1, 0, 0}, // stale
		Indices:  []uint32{0, 1, 2},
	}
	m.RecomputeNormals()

	if m.Normals[2] != 1 {
		t.Errorf("normal z = %g, want 1 (stale normals kept?)", m.Normals[2])
	}
}

func TestRecomputeNormalsIsolatedVertex(t *testing.T) {
	// A vertex referenced by no triangle keeps a zero normal rather
	// than NaN from normalizing a zero vector.
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 9, 9, 9},
		Indices:  []uint32{0, 1, 2},
	}
	m.RecomputeNormals()

	for i := 9; i < 12; i++ {
		if v := m.Normals[i]; v != 0 || math.IsNaN(float64(v)) {
			t.Errorf("isolated vertex normal component = %g, want 0", v)
		}
	}
}
