package sdfx

import (
	"fmt"
	"math"
	"sort"

	"github.com/cartonry/cartonry/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// meshSDF is a signed distance field over a watertight triangle mesh.
// The magnitude is the exact distance to the closest triangle; the
// sign comes from ray-crossing parity, which assumes the mesh fully
// encloses a volume. A bounding volume hierarchy prunes both queries.
//
// Compile-time interface check.
var _ sdf.SDF3 = (*meshSDF)(nil)

// meshTri is one triangle with a precomputed bounding box.
type meshTri struct {
	a, b, c  v3.Vec
	min, max v3.Vec
}

// bvhNode is a node of a median-split bounding volume hierarchy.
// Leaves hold index ranges into the triangle slice.
type bvhNode struct {
	min, max    v3.Vec
	left, right *bvhNode
	start, end  int // triangle range for leaves
}

const bvhLeafSize = 8

type meshSDF struct {
	tris []meshTri
	root *bvhNode
	bb   sdf.Box3
}

// newMeshSDF validates the mesh and builds the distance structure.
func newMeshSDF(m *geom.Mesh) (*meshSDF, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("mesh import: %w", geom.ErrEmptyMesh)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh import: %w", err)
	}
	if m.TriangleCount() == 0 {
		return nil, fmt.Errorf("mesh import: mesh has no faces")
	}

	tris := make([]meshTri, m.TriangleCount())
	for t := range tris {
		a, b, c := m.Triangle(t)
		tri := meshTri{
			a: v3.Vec{X: a.X(), Y: a.Y(), Z: a.Z()},
			b: v3.Vec{X: b.X(), Y: b.Y(), Z: b.Z()},
			c: v3.Vec{X: c.X(), Y: c.Y(), Z: c.Z()},
		}
		tri.min = vecMin(tri.a, vecMin(tri.b, tri.c))
		tri.max = vecMax(tri.a, vecMax(tri.b, tri.c))
		tris[t] = tri
	}

	s := &meshSDF{tris: tris}
	s.root = s.build(0, len(tris))

	// Pad the reported bounds slightly so marching cubes samples
	// outside the surface and closes the zero isosurface.
	diag := s.root.max.Sub(s.root.min)
	pad := 0.01 * math.Max(diag.X, math.Max(diag.Y, diag.Z))
	if pad == 0 {
		pad = 1e-3
	}
	padVec := v3.Vec{X: pad, Y: pad, Z: pad}
	s.bb = sdf.Box3{Min: s.root.min.Sub(padVec), Max: s.root.max.Add(padVec)}
	return s, nil
}

// build constructs the BVH over tris[start:end], partitioning in place
// by centroid along the longest axis.
func (s *meshSDF) build(start, end int) *bvhNode {
	n := &bvhNode{start: start, end: end}
	n.min = v3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	n.max = v3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for i := start; i < end; i++ {
		n.min = vecMin(n.min, s.tris[i].min)
		n.max = vecMax(n.max, s.tris[i].max)
	}

	if end-start <= bvhLeafSize {
		return n
	}

	ext := n.max.Sub(n.min)
	axis := 0
	if ext.Y > ext.X {
		axis = 1
	}
	if ext.Z > axisComponent(ext, axis) {
		axis = 2
	}

	sub := s.tris[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return triCentroid(sub[i], axis) < triCentroid(sub[j], axis)
	})

	mid := start + (end-start)/2
	n.left = s.build(start, mid)
	n.right = s.build(mid, end)
	n.start, n.end = 0, 0
	return n
}

// BoundingBox returns the padded bounds of the mesh.
func (s *meshSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// Evaluate returns the signed distance from p to the mesh surface:
// negative inside, positive outside.
func (s *meshSDF) Evaluate(p v3.Vec) float64 {
	d := math.Sqrt(s.nearest(s.root, p, math.MaxFloat64))
	if s.inside(p) {
		return -d
	}
	return d
}

// nearest returns the squared distance from p to the closest triangle
// under node, pruning subtrees whose boxes are farther than best.
func (s *meshSDF) nearest(n *bvhNode, p v3.Vec, best float64) float64 {
	if boxDistSq(n.min, n.max, p) >= best {
		return best
	}
	if n.left == nil {
		for i := n.start; i < n.end; i++ {
			if d := triDistSq(s.tris[i], p); d < best {
				best = d
			}
		}
		return best
	}
	// Visit the closer child first for tighter pruning.
	dl := boxDistSq(n.left.min, n.left.max, p)
	dr := boxDistSq(n.right.min, n.right.max, p)
	first, second := n.left, n.right
	if dr < dl {
		first, second = second, first
	}
	best = s.nearest(first, p, best)
	return s.nearest(second, p, best)
}

// inside tests containment by casting a ray along +X and counting
// surface crossings. Odd parity means inside. Watertight input is a
// precondition of the kernel contract; on a mesh with boundary edges
// the sign is unreliable but the call still terminates.
func (s *meshSDF) inside(p v3.Vec) bool {
	if p.X < s.root.min.X || p.X > s.root.max.X ||
		p.Y < s.root.min.Y || p.Y > s.root.max.Y ||
		p.Z < s.root.min.Z || p.Z > s.root.max.Z {
		return false
	}
	return s.countCrossings(s.root, p)%2 == 1
}

// countCrossings counts ray/triangle intersections for the +X ray
// from p under node.
func (s *meshSDF) countCrossings(n *bvhNode, p v3.Vec) int {
	// The +X ray misses the box if the box lies behind the origin or
	// the origin is outside the box's YZ extent.
	if n.max.X < p.X || p.Y < n.min.Y || p.Y > n.max.Y || p.Z < n.min.Z || p.Z > n.max.Z {
		return 0
	}
	if n.left == nil {
		count := 0
		for i := n.start; i < n.end; i++ {
			if rayHitsTri(s.tris[i], p) {
				count++
			}
		}
		return count
	}
	return s.countCrossings(n.left, p) + s.countCrossings(n.right, p)
}

// rayHitsTri intersects the +X ray from origin p with a triangle
// (Moller-Trumbore specialized to direction (1,0,0)).
func rayHitsTri(t meshTri, p v3.Vec) bool {
	const eps = 1e-12

	e1 := t.b.Sub(t.a)
	e2 := t.c.Sub(t.a)

	// h = dir x e2 with dir = (1,0,0): (0, -e2.Z, e2.Y)
	hy := -e2.Z
	hz := e2.Y
	det := e1.Y*hy + e1.Z*hz
	if det > -eps && det < eps {
		return false
	}
	inv := 1.0 / det

	sv := p.Sub(t.a)
	u := (sv.Y*hy + sv.Z*hz) * inv
	if u < 0 || u > 1 {
		return false
	}

	// q = s x e1
	q := sv.Cross(e1)
	v := q.X * inv // dir . q with dir = (1,0,0)
	if v < 0 || u+v > 1 {
		return false
	}

	dist := (e2.X*q.X + e2.Y*q.Y + e2.Z*q.Z) * inv
	return dist > eps
}

// triDistSq returns the squared distance from p to the closest point
// on a triangle (Ericson, Real-Time Collision Detection 5.1.5).
func triDistSq(t meshTri, p v3.Vec) float64 {
	ab := t.b.Sub(t.a)
	ac := t.c.Sub(t.a)
	ap := p.Sub(t.a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return ap.Dot(ap) // vertex a
	}

	bp := p.Sub(t.b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return bp.Dot(bp) // vertex b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		q := ap.Sub(ab.MulScalar(v)) // edge ab
		return q.Dot(q)
	}

	cp := p.Sub(t.c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return cp.Dot(cp) // vertex c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		q := ap.Sub(ac.MulScalar(w)) // edge ac
		return q.Dot(q)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		q := bp.Sub(t.c.Sub(t.b).MulScalar(w)) // edge bc
		return q.Dot(q)
	}

	// Interior: project onto the face plane.
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	q := ap.Sub(ab.MulScalar(v)).Sub(ac.MulScalar(w))
	return q.Dot(q)
}

// boxDistSq returns the squared distance from p to an AABB, zero when
// p is inside.
func boxDistSq(min, max, p v3.Vec) float64 {
	var d float64
	for i := 0; i < 3; i++ {
		lo := axisComponent(min, i)
		hi := axisComponent(max, i)
		c := axisComponent(p, i)
		if c < lo {
			d += (lo - c) * (lo - c)
		} else if c > hi {
			d += (c - hi) * (c - hi)
		}
	}
	return d
}

func triCentroid(t meshTri, axis int) float64 {
	return (axisComponent(t.a, axis) + axisComponent(t.b, axis) + axisComponent(t.c, axis)) / 3
}

func axisComponent(v v3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vecMin(a, b v3.Vec) v3.Vec {
	return v3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func vecMax(a, b v3.Vec) v3.Vec {
	return v3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
