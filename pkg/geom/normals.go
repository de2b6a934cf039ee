package geom

import "math"

// RecomputeNormals regenerates per-vertex normals by accumulating the
// unnormalized face normal of every incident triangle and normalizing
// the sum. The cross-product magnitude weights each face by its area,
// so large faces dominate shared vertices. Existing normals are
// replaced. Downstream rendering and manufacturing consumers expect
// normals to be present after boolean operations.
func (m *Mesh) RecomputeNormals() {
	numVerts := m.VertexCount()
	normals := make([]float32, numVerts*3)

	numTris := m.TriangleCount()
	for t := 0; t < numTris; t++ {
		i0 := m.Indices[t*3]
		i1 := m.Indices[t*3+1]
		i2 := m.Indices[t*3+2]

		a := m.Vertex(int(i0))
		b := m.Vertex(int(i1))
		c := m.Vertex(int(i2))

		// Unnormalized face normal, magnitude proportional to area.
		n := b.Sub(a).Cross(c.Sub(a))
		nx := float32(n.X())
		ny := float32(n.Y())
		nz := float32(n.Z())

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	m.Normals = normals
}
