package epa

import (
	"math"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope. Indices point into Polytope.vertices and are
// wound so that Normal points away from the polytope interior.
type Face struct {
	Indices  [3]int
	Normal   mgl64.Vec3
	Distance float64 // Distance from the origin to the face plane, never negative
}

// edge is a directed polytope edge. A boundary edge of the visible region appears in
// exactly one visible face; shared edges appear twice in opposite directions.
type edge struct {
	From, To int
}

// Polytope is the convex hull grown by EPA. It lives for the duration of one query.
type Polytope struct {
	vertices []gjk.SupportPoint
	faces    []Face

	// scratch reused across expansions
	visible  []int
	boundary []edge
}

func newPolytope(tetrahedron [4]gjk.SupportPoint) *Polytope {
	p := &Polytope{
		vertices: make([]gjk.SupportPoint, 0, 16),
		faces:    make([]Face, 0, 16),
	}
	p.vertices = append(p.vertices, tetrahedron[:]...)

	centroid := p.centroid()
	for _, f := range [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}} {
		p.faces = append(p.faces, p.createFaceOutward(f[0], f[1], f[2], centroid))
	}
	return p
}

// centroid is an interior point of the polytope used to orient new faces.
func (p *Polytope) centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v.P)
	}
	return sum.Mul(1.0 / float64(len(p.vertices)))
}

// createFaceOutward builds a face whose normal points away from the interior point.
//
// Orienting against the interior rather than the origin keeps the normal correct when
// the origin sits on the polytope boundary (touching shapes).
func (p *Polytope) createFaceOutward(i, j, k int, interior mgl64.Vec3) Face {
	a := p.vertices[i].P
	b := p.vertices[j].P
	c := p.vertices[k].P

	normal := b.Sub(a).Cross(c.Sub(a))
	length := normal.Len()
	if length < degenerateArea {
		// Zero-area triangle: rank it last so it is never picked as closest.
		return Face{Indices: [3]int{i, j, k}, Normal: mgl64.Vec3{0, 1, 0}, Distance: math.MaxFloat64}
	}
	normal = normal.Mul(1.0 / length)

	if normal.Dot(interior.Sub(a)) > 0 {
		normal = normal.Mul(-1)
		j, k = k, j
	}

	return Face{
		Indices:  [3]int{i, j, k},
		Normal:   normal,
		Distance: math.Max(0, normal.Dot(a)),
	}
}

// ClosestFace returns the index of the face closest to the origin.
func (p *Polytope) ClosestFace() int {
	closest := 0
	for i := 1; i < len(p.faces); i++ {
		if p.faces[i].Distance < p.faces[closest].Distance {
			closest = i
		}
	}
	return closest
}

// Expand adds a support point and rebuilds the faces it can see.
//
//  1. collect faces whose plane the new point lies in front of
//  2. keep the edges of those faces that are not shared between two of them
//  3. delete the visible faces
//  4. connect every boundary edge to the new point
//
// It returns false when no face is visible, meaning the point adds nothing.
func (p *Polytope) Expand(support gjk.SupportPoint) bool {
	p.visible = p.visible[:0]
	for i, f := range p.faces {
		if f.Distance == math.MaxFloat64 {
			continue
		}
		if f.Normal.Dot(support.P.Sub(p.vertices[f.Indices[0]].P)) > visibilityEpsilon {
			p.visible = append(p.visible, i)
		}
	}
	if len(p.visible) == 0 {
		return false
	}

	p.boundary = p.boundary[:0]
	for _, fi := range p.visible {
		f := p.faces[fi]
		for e := 0; e < 3; e++ {
			p.addBoundaryEdge(edge{From: f.Indices[e], To: f.Indices[(e+1)%3]})
		}
	}

	// Remove from the back so earlier indices stay valid.
	for i := len(p.visible) - 1; i >= 0; i-- {
		idx := p.visible[i]
		p.faces[idx] = p.faces[len(p.faces)-1]
		p.faces = p.faces[:len(p.faces)-1]
	}

	p.vertices = append(p.vertices, support)
	newIndex := len(p.vertices) - 1
	centroid := p.centroid()
	for _, e := range p.boundary {
		p.faces = append(p.faces, p.createFaceOutward(e.From, e.To, newIndex, centroid))
	}
	return true
}

// addBoundaryEdge cancels an edge against its reverse, which belongs to a neighbouring
// visible face, or records it as a boundary candidate.
func (p *Polytope) addBoundaryEdge(e edge) {
	for i, b := range p.boundary {
		if b.From == e.To && b.To == e.From {
			p.boundary[i] = p.boundary[len(p.boundary)-1]
			p.boundary = p.boundary[:len(p.boundary)-1]
			return
		}
	}
	p.boundary = append(p.boundary, e)
}

// witness projects the origin onto face f and interpolates the witness points.
func (p *Polytope) witness(f Face) (mgl64.Vec3, mgl64.Vec3) {
	a := p.vertices[f.Indices[0]]
	b := p.vertices[f.Indices[1]]
	c := p.vertices[f.Indices[2]]

	u, v, w := barycentric(f.Normal.Mul(f.Distance), a.P, b.P, c.P)
	pointA := a.A.Mul(u).Add(b.A.Mul(v)).Add(c.A.Mul(w))
	pointB := a.B.Mul(u).Add(b.B.Mul(v)).Add(c.B.Mul(w))
	return pointA, pointB
}

// barycentric returns the coordinates of q with respect to triangle abc, q being in
// the triangle plane. Degenerate triangles fall back to vertex a.
func barycentric(q, a, b, c mgl64.Vec3) (float64, float64, float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := q.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < degenerateArea {
		return 1, 0, 0
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return 1 - v - w, v, w
}
