// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK reports that two shape cores overlap. It determines:
//   - Penetration depth (how far the cores overlap)
//   - Contact normal (direction to separate them)
//   - Witness points (the deepest points of each core along that normal)
//
// The algorithm expands a polytope (starting from GJK's terminal simplex) inside the
// Minkowski difference B - A, always pushing out the face closest to the origin, until
// that face lies on the boundary of the difference. Its distance is the minimum
// translation needed to separate the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultMaxIterations limits polytope expansion to prevent infinite loops.
	// Typical convergence: 5-15 iterations for simple shapes.
	DefaultMaxIterations = 32

	// DefaultTolerance defines when EPA has converged: a new support point that improves
	// the closest face distance by less than this is considered on the boundary.
	DefaultTolerance = 1e-4

	degenerateArea    = 1e-12
	visibilityEpsilon = 1e-9
)

var (
	// ErrNotConverged is returned when expansion ran out of iterations. The Result holds
	// the best estimate from the last closest face.
	ErrNotConverged = errors.New("epa: not converged")
	// ErrDegenerate is returned when the Minkowski difference has no volume, for example
	// two coplanar flat hulls, so no tetrahedron can seed the polytope.
	ErrDegenerate = errors.New("epa: degenerate minkowski difference")
)

// Options tune a single EPA query. Zero values select the defaults.
type Options struct {
	MaxIterations int
	Tolerance     float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Result describes how two overlapping cores interpenetrate.
type Result struct {
	// Normal points from A toward B: moving B by Normal*Depth separates the cores.
	Normal mgl64.Vec3
	Depth  float64
	// PointA is the deepest point of A inside B, PointB the deepest point of B inside A.
	PointA     mgl64.Vec3
	PointB     mgl64.Vec3
	Iterations int
}

// Penetration computes the penetration of two overlapping cores.
//
// simplex is the terminal GJK simplex of the same pair. A full tetrahedron seeds the
// polytope directly; smaller simplices (touching shapes) are first grown into one.
func Penetration(a, b gjk.Support, simplex *gjk.Simplex, opts Options) (Result, error) {
	opts = opts.withDefaults()

	tetrahedron, ok := blowUp(a, b, simplex)
	if !ok {
		return Result{}, ErrDegenerate
	}
	polytope := newPolytope(tetrahedron)

	var closest Face
	for i := 0; i < opts.MaxIterations; i++ {
		closest = polytope.faces[polytope.ClosestFace()]
		if closest.Distance == math.MaxFloat64 {
			return Result{}, ErrDegenerate
		}

		support := gjk.MinkowskiSupport(a, b, closest.Normal)
		distance := support.P.Dot(closest.Normal)

		if distance-closest.Distance < opts.Tolerance || !polytope.Expand(support) {
			return polytope.result(closest, i+1), nil
		}
	}

	closest = polytope.faces[polytope.ClosestFace()]
	return polytope.result(closest, opts.MaxIterations),
		fmt.Errorf("%w after %d iterations", ErrNotConverged, opts.MaxIterations)
}

func (p *Polytope) result(f Face, iterations int) Result {
	pointA, pointB := p.witness(f)
	return Result{
		Normal:     f.Normal.Mul(-1),
		Depth:      f.Distance,
		PointA:     pointA,
		PointB:     pointB,
		Iterations: iterations,
	}
}

var searchAxes = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// blowUp grows the GJK simplex into a tetrahedron with non-zero volume.
//
// GJK only ends on a full tetrahedron when the origin is strictly inside; touching
// shapes end on a point, segment or triangle through the origin. Extra support points
// are searched along the coordinate axes and around the existing feature.
func blowUp(a, b gjk.Support, simplex *gjk.Simplex) ([4]gjk.SupportPoint, bool) {
	var t [4]gjk.SupportPoint
	n := simplex.Count
	copy(t[:], simplex.Vertices[:n])

	if n == 0 {
		t[0] = gjk.MinkowskiSupport(a, b, searchAxes[0])
		n = 1
	}

	if n == 1 {
		found := false
		for _, axis := range searchAxes {
			sp := gjk.MinkowskiSupport(a, b, axis)
			if sp.P.Sub(t[0].P).LenSqr() > degenerateArea {
				t[1] = sp
				found = true
				break
			}
		}
		if !found {
			return t, false
		}
		n = 2
	}

	if n == 2 {
		line := t[1].P.Sub(t[0].P)
		found := false
		for _, axis := range searchAxes {
			dir := line.Cross(axis)
			if dir.LenSqr() < degenerateArea {
				continue
			}
			sp := gjk.MinkowskiSupport(a, b, dir)
			if sp.P.Sub(t[0].P).Cross(line).LenSqr() > degenerateArea {
				t[2] = sp
				found = true
				break
			}
		}
		if !found {
			return t, false
		}
		n = 3
	}

	if n == 3 {
		normal := t[1].P.Sub(t[0].P).Cross(t[2].P.Sub(t[0].P))
		sp := gjk.MinkowskiSupport(a, b, normal)
		if math.Abs(sp.P.Sub(t[0].P).Dot(normal)) <= degenerateArea {
			sp = gjk.MinkowskiSupport(a, b, normal.Mul(-1))
			if math.Abs(sp.P.Sub(t[0].P).Dot(normal)) <= degenerateArea {
				return t, false
			}
		}
		t[3] = sp
	}

	return t, true
}
