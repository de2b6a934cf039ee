// Package geom defines the triangle mesh and bounding box types used
// throughout the packaging engine, along with the scalar descriptors
// (volume, surface area) derived from them. All lengths are millimeters.
package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a triangle mesh. All arrays are flat: Vertices has 3 floats
// per vertex (x,y,z), Normals has 3 floats per vertex, Indices has 3
// uint32s per triangle. A zero-value Mesh is a valid empty mesh.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which package part this is (shell, holder, ...)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as a vector.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(m.Vertices[i*3]),
		float64(m.Vertices[i*3+1]),
		float64(m.Vertices[i*3+2]),
	}
}

// Triangle returns the three corner positions of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c mgl64.Vec3) {
	return m.Vertex(int(m.Indices[t*3])),
		m.Vertex(int(m.Indices[t*3+1])),
		m.Vertex(int(m.Indices[t*3+2]))
}

// Validate checks structural invariants: vertex and normal arrays are
// multiples of three, index count is a multiple of three, and every
// face index is within vertex bounds. An empty mesh is valid.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return &GeometryError{Op: "validate", Err: fmt.Errorf("vertex array length %d is not a multiple of 3", len(m.Vertices))}
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return &GeometryError{Op: "validate", Err: fmt.Errorf("normal array length %d does not match vertex array length %d", len(m.Normals), len(m.Vertices))}
	}
	if len(m.Indices)%3 != 0 {
		return &GeometryError{Op: "validate", Err: fmt.Errorf("index array length %d is not a multiple of 3", len(m.Indices))}
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return &GeometryError{Op: "validate", Err: fmt.Errorf("face index %d at position %d out of range (%d vertices)", idx, i, n)}
		}
	}
	return nil
}

// BoundingBox computes the axis-aligned bounding box of the mesh.
// It fails on a mesh with zero vertices since an empty box has no
// meaningful bounds.
func (m *Mesh) BoundingBox() (BoundingBox, error) {
	if m.IsEmpty() {
		return BoundingBox{}, &GeometryError{Op: "bounding box", Err: ErrEmptyMesh}
	}
	bb := NewBoundingBox()
	for i := 0; i < m.VertexCount(); i++ {
		bb.Extend(m.Vertex(i))
	}
	return bb, nil
}

// Volume computes the enclosed volume of a closed, consistently
// oriented mesh using signed tetrahedra against the origin. The result
// is meaningless for open meshes.
func (m *Mesh) Volume() float64 {
	var vol float64
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		vol += a.Dot(b.Cross(c))
	}
	vol /= 6.0
	if vol < 0 {
		vol = -vol
	}
	return vol
}

// SurfaceArea computes the total area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		area += b.Sub(a).Cross(c.Sub(a)).Len() / 2
	}
	return area
}

// Center returns the center of the mesh's bounding box.
func (m *Mesh) Center() (mgl64.Vec3, error) {
	bb, err := m.BoundingBox()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return bb.Center(), nil
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  make([]uint32, len(m.Indices)),
		Name:     m.Name,
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Normals, m.Normals)
	copy(c.Indices, m.Indices)
	return c
}

// Translate moves every vertex by v, in place.
func (m *Mesh) Translate(v mgl64.Vec3) {
	for i := 0; i < m.VertexCount(); i++ {
		m.Vertices[i*3] += float32(v.X())
		m.Vertices[i*3+1] += float32(v.Y())
		m.Vertices[i*3+2] += float32(v.Z())
	}
}

// ScaleAbout scales every vertex by factor about the given center, in
// place. Normals are direction-only and unaffected by uniform scaling.
func (m *Mesh) ScaleAbout(factor float64, center mgl64.Vec3) {
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Vertex(i).Sub(center).Mul(factor).Add(center)
		m.Vertices[i*3] = float32(p.X())
		m.Vertices[i*3+1] = float32(p.Y())
		m.Vertices[i*3+2] = float32(p.Z())
	}
}

// Merge appends the geometry of other to m, offsetting face indices.
// The merged mesh keeps m's name.
func (m *Mesh) Merge(other *Mesh) {
	if other == nil || other.IsEmpty() {
		return
	}
	// Per-vertex normals survive only when both meshes carry them; a
	// mixed merge drops them so the arrays stay consistent.
	if !m.IsEmpty() && (len(m.Normals) == 0) != (len(other.Normals) == 0) {
		m.Normals = nil
	} else {
		m.Normals = append(m.Normals, other.Normals...)
	}
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}
