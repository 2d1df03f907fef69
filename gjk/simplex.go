package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMaxIterations bounds Step when Simplex.MaxIterations is left at zero.
const DefaultMaxIterations = 20

const (
	// degenerateEpsilon detects zero-area triangles and zero-volume tetrahedra.
	degenerateEpsilon = 1e-12
	// directionEpsilon stops the search when the next direction vanishes.
	directionEpsilon = 1e-12
)

// SupportPoint is one vertex of the Minkowski difference B - A together with the
// witness points that produced it. AID and BID are the vertex identifiers on each
// shape; they only serve to detect cycles inside a single query.
type SupportPoint struct {
	A   mgl64.Vec3
	B   mgl64.Vec3
	P   mgl64.Vec3
	AID int
	BID int
}

// NewSupportPoint pairs two witness points and computes their difference.
func NewSupportPoint(aid int, a mgl64.Vec3, bid int, b mgl64.Vec3) SupportPoint {
	return SupportPoint{A: a, B: b, P: b.Sub(a), AID: aid, BID: bid}
}

// Simplex represents a set of 1-4 points in the Minkowski difference space.
//
// Weights holds the barycentric coordinates of the closest point to the origin, one per
// vertex. They are positive but not normalized; divide by their sum to interpolate.
// D is the best squared distance seen so far and only ever decreases.
//
// The zero value is ready to use with DefaultMaxIterations.
type Simplex struct {
	Vertices      [4]SupportPoint
	Weights       [4]float64
	Count         int
	Iterations    int
	MaxIterations int
	D             float64
	Hit           bool
	// Exhausted is set when Step was asked to continue past MaxIterations.
	Exhausted bool
}

func (s *Simplex) Reset() {
	*s = Simplex{MaxIterations: s.MaxIterations}
}

// Step adds one support point to the simplex and reduces it to the feature closest
// to the origin.
//
// It returns true when the caller must fetch a new support point along *direction and
// call Step again, and false when the query is over: the origin is enclosed (Hit), no
// further progress is possible, or the iteration budget is spent (Exhausted).
//
// Per call:
//  1. bail out if the budget is spent
//  2. reject a support point already present in the simplex (cycle)
//  3. append it and keep only the closest Voronoi feature (solveLine, solveTriangle,
//     solveTetrahedron)
//  4. a full tetrahedron means the origin is inside: Hit
//  5. stop unless the squared distance strictly improved on D
//  6. point *direction from the retained feature towards the origin
func Step(s *Simplex, support SupportPoint, direction *mgl64.Vec3) bool {
	if s.Count == 0 {
		s.D = math.MaxFloat64
		if s.MaxIterations <= 0 {
			s.MaxIterations = DefaultMaxIterations
		}
	}
	if s.Iterations >= s.MaxIterations {
		s.Exhausted = true
		return false
	}
	s.Iterations++

	for i := 0; i < s.Count; i++ {
		if s.Vertices[i].AID == support.AID && s.Vertices[i].BID == support.BID {
			return false
		}
	}

	s.Vertices[s.Count] = support
	s.Weights[s.Count] = 1
	s.Count++

	switch s.Count {
	case 2:
		solveLine(s)
	case 3:
		solveTriangle(s)
	case 4:
		solveTetrahedron(s)
	}

	if s.Count == 4 {
		s.Hit = true
		return false
	}

	closest := s.ClosestPoint()
	d2 := closest.Dot(closest)
	if d2 >= s.D {
		return false
	}
	s.D = d2

	*direction = s.searchDirection()
	return direction.Dot(*direction) >= directionEpsilon
}

// ClosestPoint interpolates the vertices with the current weights.
func (s *Simplex) ClosestPoint() mgl64.Vec3 {
	var p mgl64.Vec3
	denom := 0.0
	for i := 0; i < s.Count; i++ {
		p = p.Add(s.Vertices[i].P.Mul(s.Weights[i]))
		denom += s.Weights[i]
	}
	if denom == 0 {
		return s.Vertices[0].P
	}
	return p.Mul(1.0 / denom)
}

func (s *Simplex) searchDirection() mgl64.Vec3 {
	switch s.Count {
	case 1:
		return s.Vertices[0].P.Mul(-1)
	case 2:
		ba := s.Vertices[1].P.Sub(s.Vertices[0].P)
		b0 := s.Vertices[1].P.Mul(-1)
		return ba.Cross(b0).Cross(ba)
	default:
		ab := s.Vertices[1].P.Sub(s.Vertices[0].P)
		ac := s.Vertices[2].P.Sub(s.Vertices[0].P)
		n := ab.Cross(ac)
		if n.Dot(s.Vertices[0].P) <= 0 {
			return n
		}
		return n.Mul(-1)
	}
}

// keep replaces the simplex with the listed vertices and weights.
func (s *Simplex) keep(indices []int, weights []float64) {
	var vertices [4]SupportPoint
	for i, idx := range indices {
		vertices[i] = s.Vertices[idx]
	}
	s.Vertices = vertices
	for i, w := range weights {
		s.Weights[i] = w
	}
	s.Count = len(indices)
}

// edgeWeights returns the unnormalized barycentric weights (u for a, v for b) of the
// origin projected on the line through a and b.
func edgeWeights(a, b mgl64.Vec3) (u, v float64) {
	return b.Dot(b.Sub(a)), a.Dot(a.Sub(b))
}

// triangleWeights returns the unnormalized barycentric weights of the origin projected
// onto the plane of abc. The signs do not depend on the winding.
func triangleWeights(a, b, c mgl64.Vec3) (u, v, w float64) {
	n := b.Sub(a).Cross(c.Sub(a))
	return n.Dot(b.Cross(c)), n.Dot(c.Cross(a)), n.Dot(a.Cross(b))
}

// signedVolume is six times the signed volume of the tetrahedron pqrs.
func signedVolume(p, q, r, s mgl64.Vec3) float64 {
	return q.Sub(p).Dot(r.Sub(p).Cross(s.Sub(p)))
}

// solveLine handles the line simplex case (2 points: A and B).
//
// Vertex regions are tested before the edge region, so a tie resolves to the point.
func solveLine(s *Simplex) {
	a := s.Vertices[0].P
	b := s.Vertices[1].P
	u, v := edgeWeights(a, b)

	if v <= 0 {
		s.keep([]int{0}, []float64{1})
		return
	}
	if u <= 0 {
		s.keep([]int{1}, []float64{1})
		return
	}
	s.keep([]int{0, 1}, []float64{u, v})
}

// solveTriangle handles the triangle simplex case (3 points: A, B, C).
//
// Tests run vertex regions first, then edges, then the face, all with inclusive
// boundaries: when two features are equally close the lower-dimensional one wins.
// A zero-area triangle never reaches the face region; it falls back to its best edge.
func solveTriangle(s *Simplex) {
	a := s.Vertices[0].P
	b := s.Vertices[1].P
	c := s.Vertices[2].P

	uAB, vAB := edgeWeights(a, b)
	uBC, vBC := edgeWeights(b, c)
	uCA, vCA := edgeWeights(c, a)

	// Region A
	if vAB <= 0 && uCA <= 0 {
		s.keep([]int{0}, []float64{1})
		return
	}
	// Region B
	if uAB <= 0 && vBC <= 0 {
		s.keep([]int{1}, []float64{1})
		return
	}
	// Region C
	if uBC <= 0 && vCA <= 0 {
		s.keep([]int{2}, []float64{1})
		return
	}

	uABC, vABC, wABC := triangleWeights(a, b, c)

	// Region AB
	if uAB > 0 && vAB > 0 && wABC <= 0 {
		s.keep([]int{0, 1}, []float64{uAB, vAB})
		return
	}
	// Region BC
	if uBC > 0 && vBC > 0 && uABC <= 0 {
		s.keep([]int{1, 2}, []float64{uBC, vBC})
		return
	}
	// Region CA
	if uCA > 0 && vCA > 0 && vABC <= 0 {
		s.keep([]int{2, 0}, []float64{uCA, vCA})
		return
	}

	// Region ABC
	if uABC > 0 && vABC > 0 && wABC > 0 && uABC+vABC+wABC > degenerateEpsilon {
		s.keep([]int{0, 1, 2}, []float64{uABC, vABC, wABC})
		return
	}

	bestEdge(s, [][2]int{{0, 1}, {1, 2}, {2, 0}})
}

// solveTetrahedron handles the tetrahedron simplex case (4 points: A, B, C, D).
//
// This is the only case that can keep 4 vertices, which means the origin is enclosed.
// The same ordering rule as solveTriangle applies: vertices, edges, faces, interior.
func solveTetrahedron(s *Simplex) {
	a := s.Vertices[0].P
	b := s.Vertices[1].P
	c := s.Vertices[2].P
	d := s.Vertices[3].P

	uAB, vAB := edgeWeights(a, b)
	uBC, vBC := edgeWeights(b, c)
	uCA, vCA := edgeWeights(c, a)
	uBD, vBD := edgeWeights(b, d)
	uDC, vDC := edgeWeights(d, c)
	uAD, vAD := edgeWeights(a, d)

	// Vertex regions
	if vAB <= 0 && uCA <= 0 && vAD <= 0 {
		s.keep([]int{0}, []float64{1})
		return
	}
	if uAB <= 0 && vBC <= 0 && vBD <= 0 {
		s.keep([]int{1}, []float64{1})
		return
	}
	if uBC <= 0 && vCA <= 0 && uDC <= 0 {
		s.keep([]int{2}, []float64{1})
		return
	}
	if uBD <= 0 && vDC <= 0 && uAD <= 0 {
		s.keep([]int{3}, []float64{1})
		return
	}

	// Face weights: abc* for face ABC, adb* for ADB, acd* for ACD, bdc* for BDC.
	abcA, abcB, abcC := triangleWeights(a, b, c)
	adbA, adbD, adbB := triangleWeights(a, d, b)
	acdA, acdC, acdD := triangleWeights(a, c, d)
	bdcB, bdcD, bdcC := triangleWeights(b, d, c)

	// Edge regions
	if uAB > 0 && vAB > 0 && abcC <= 0 && adbD <= 0 {
		s.keep([]int{0, 1}, []float64{uAB, vAB})
		return
	}
	if uBC > 0 && vBC > 0 && abcA <= 0 && bdcD <= 0 {
		s.keep([]int{1, 2}, []float64{uBC, vBC})
		return
	}
	if uCA > 0 && vCA > 0 && abcB <= 0 && acdD <= 0 {
		s.keep([]int{2, 0}, []float64{uCA, vCA})
		return
	}
	if uBD > 0 && vBD > 0 && adbA <= 0 && bdcC <= 0 {
		s.keep([]int{1, 3}, []float64{uBD, vBD})
		return
	}
	if uDC > 0 && vDC > 0 && acdA <= 0 && bdcB <= 0 {
		s.keep([]int{3, 2}, []float64{uDC, vDC})
		return
	}
	if uAD > 0 && vAD > 0 && adbB <= 0 && acdC <= 0 {
		s.keep([]int{0, 3}, []float64{uAD, vAD})
		return
	}

	volume := signedVolume(a, b, c, d)
	if math.Abs(volume) <= degenerateEpsilon {
		bestFace(s)
		return
	}
	var origin mgl64.Vec3
	inv := 1.0 / volume
	wA := signedVolume(origin, b, c, d) * inv
	wB := signedVolume(a, origin, c, d) * inv
	wC := signedVolume(a, b, origin, d) * inv
	wD := signedVolume(a, b, c, origin) * inv

	// Face regions
	if abcA > 0 && abcB > 0 && abcC > 0 && wD <= 0 {
		s.keep([]int{0, 1, 2}, []float64{abcA, abcB, abcC})
		return
	}
	if adbA > 0 && adbD > 0 && adbB > 0 && wC <= 0 {
		s.keep([]int{0, 3, 1}, []float64{adbA, adbD, adbB})
		return
	}
	if acdA > 0 && acdC > 0 && acdD > 0 && wB <= 0 {
		s.keep([]int{0, 2, 3}, []float64{acdA, acdC, acdD})
		return
	}
	if bdcB > 0 && bdcD > 0 && bdcC > 0 && wA <= 0 {
		s.keep([]int{1, 3, 2}, []float64{bdcB, bdcD, bdcC})
		return
	}

	// Region ABCD
	if wA > 0 && wB > 0 && wC > 0 && wD > 0 {
		s.keep([]int{0, 1, 2, 3}, []float64{wA, wB, wC, wD})
		return
	}

	bestFace(s)
}

// bestEdge reduces the simplex to whichever listed edge (or endpoint) is closest to
// the origin. It only runs for numerically degenerate triangles.
func bestEdge(s *Simplex, edges [][2]int) {
	bestDist := math.MaxFloat64
	var best Simplex
	for _, e := range edges {
		var line Simplex
		line.Vertices[0] = s.Vertices[e[0]]
		line.Vertices[1] = s.Vertices[e[1]]
		line.Count = 2
		solveLine(&line)
		p := line.ClosestPoint()
		if d := p.Dot(p); d < bestDist {
			bestDist = d
			best = line
		}
	}
	s.Vertices = best.Vertices
	s.Weights = best.Weights
	s.Count = best.Count
}

// bestFace reduces a tetrahedron to the closest of its four faces.
func bestFace(s *Simplex) {
	faces := [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	bestDist := math.MaxFloat64
	var best Simplex
	for _, f := range faces {
		var tri Simplex
		for i, idx := range f {
			tri.Vertices[i] = s.Vertices[idx]
		}
		tri.Count = 3
		solveTriangle(&tri)
		p := tri.ClosestPoint()
		if d := p.Dot(p); d < bestDist {
			bestDist = d
			best = tri
		}
	}
	s.Vertices = best.Vertices
	s.Weights = best.Weights
	s.Count = best.Count
}
