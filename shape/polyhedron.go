package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polyhedron is a convex hull given by its vertices only. Support mapping needs no
// face or edge topology, so none is stored. The vertex slice is owned by the
// polyhedron and never mutated after construction.
type Polyhedron struct {
	vertices []mgl64.Vec3
}

// NewPolyhedron copies vertices. The caller is responsible for convexity; a non-convex
// vertex cloud is treated as its convex hull.
func NewPolyhedron(vertices []mgl64.Vec3) (Polyhedron, error) {
	if len(vertices) == 0 {
		return Polyhedron{}, fmt.Errorf("%w: polyhedron has no vertices", ErrInvalidShape)
	}
	owned := make([]mgl64.Vec3, len(vertices))
	for i, v := range vertices {
		if !finiteVec(v) {
			return Polyhedron{}, fmt.Errorf("%w: polyhedron vertex %d is not finite", ErrInvalidShape, i)
		}
		owned[i] = v
	}
	return Polyhedron{vertices: owned}, nil
}

// NewBox builds the 8-vertex polyhedron of a box centered at the origin.
func NewBox(halfExtents mgl64.Vec3) (Polyhedron, error) {
	box, err := NewAABB(halfExtents.Mul(-1), halfExtents)
	if err != nil {
		return Polyhedron{}, err
	}
	return Polyhedron{vertices: box.Vertices()}, nil
}

func (Polyhedron) Kind() Kind { return KindPolyhedron }

// Len returns the vertex count.
func (p Polyhedron) Len() int {
	return len(p.vertices)
}

// Vertex returns vertex i in local space.
func (p Polyhedron) Vertex(i int) mgl64.Vec3 {
	return p.vertices[i]
}

// Support returns the index of the vertex furthest along direction.
func (p Polyhedron) Support(direction mgl64.Vec3) int {
	return PolyhedronSupport(direction, p.vertices)
}

// Bounds returns the local-space AABB of the vertices.
func (p Polyhedron) Bounds() AABB {
	min := p.vertices[0]
	max := p.vertices[0]
	for _, v := range p.vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], v[i])
			max[i] = math.Max(max[i], v[i])
		}
	}
	return AABB{Min: min, Max: max}
}

// Centroid is the vertex average, an interior point for a convex polyhedron.
func (p Polyhedron) Centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1.0 / float64(len(p.vertices)))
}

// PolyhedronSupport scans vertices for the maximum projection onto direction.
// Ties keep the lowest index. Runs in O(n), which is fine for the few dozen
// vertices of a typical collision hull.
func PolyhedronSupport(direction mgl64.Vec3, vertices []mgl64.Vec3) int {
	best := 0
	bestDot := vertices[0].Dot(direction)
	for i := 1; i < len(vertices); i++ {
		d := vertices[i].Dot(direction)
		if d > bestDot {
			best = i
			bestDot = d
		}
	}
	return best
}

// LineSupport is the two-point version of PolyhedronSupport used for capsule axes.
func LineSupport(direction, a, b mgl64.Vec3) int {
	if b.Dot(direction) > a.Dot(direction) {
		return 1
	}
	return 0
}
