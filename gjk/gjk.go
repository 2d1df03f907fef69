// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) distance algorithm.
//
// GJK measures the distance between two convex shapes by searching for the point of
// their Minkowski difference B - A closest to the origin. The origin lies inside the
// difference exactly when the shapes overlap. The algorithm keeps a simplex of at most
// four support points, reduces it to the Voronoi feature closest to the origin on every
// step and asks for a new support point in the direction of the origin, converging in a
// handful of iterations for typical hulls.
//
// Unlike a boolean GJK, this variant tracks barycentric weights so that it can report
// the witness points on both shapes and their squared distance when the shapes are apart.
//
// The iteration loop is owned by the caller: Step consumes one support point and tells
// the caller whether another one is needed. Distance is the ready-made loop.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Ericson: "Real-Time Collision Detection" (2004), chapter 9
package gjk

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNotConverged is returned when the iteration budget ran out before GJK could
// prove separation or overlap. The accompanying Result is the best estimate so far.
var ErrNotConverged = errors.New("gjk: not converged")

// Support is a convex shape seen through its support mapping.
//
// Support returns an identifier for the returned point (a vertex index for hulls) and
// the point of the shape furthest along direction. Identifiers must be stable for the
// duration of a query.
type Support interface {
	Support(direction mgl64.Vec3) (int, mgl64.Vec3)
}

// SupportFunc adapts a function to the Support interface.
type SupportFunc func(direction mgl64.Vec3) (int, mgl64.Vec3)

func (f SupportFunc) Support(direction mgl64.Vec3) (int, mgl64.Vec3) {
	return f(direction)
}

// Point is the core of a sphere.
func Point(p mgl64.Vec3) Support {
	return SupportFunc(func(mgl64.Vec3) (int, mgl64.Vec3) {
		return 0, p
	})
}

// Segment is the core of a capsule.
func Segment(a, b mgl64.Vec3) Support {
	return SupportFunc(func(direction mgl64.Vec3) (int, mgl64.Vec3) {
		if shape.LineSupport(direction, a, b) == 1 {
			return 1, b
		}
		return 0, a
	})
}

// Hull is a polyhedron in world space.
func Hull(p shape.Polyhedron) Support {
	return SupportFunc(func(direction mgl64.Vec3) (int, mgl64.Vec3) {
		i := p.Support(direction)
		return i, p.Vertex(i)
	})
}

// Box is an axis-aligned box. Corner identifiers follow shape.AABB.Corner.
func Box(b shape.AABB) Support {
	return SupportFunc(func(direction mgl64.Vec3) (int, mgl64.Vec3) {
		i := b.SupportIndex(direction)
		return i, b.Corner(i)
	})
}

// MinkowskiSupport computes a support point of the Minkowski difference B - A.
//
// The furthest point of B - A along direction pairs the furthest point of B along
// direction with the furthest point of A along the opposite direction.
func MinkowskiSupport(a, b Support, direction mgl64.Vec3) SupportPoint {
	aid, pa := a.Support(direction.Mul(-1))
	bid, pb := b.Support(direction)
	return NewSupportPoint(aid, pa, bid, pb)
}

// Result is the outcome of a GJK query.
type Result struct {
	Hit bool
	// PointA and PointB are the witness points, the closest points on A and B.
	// They coincide when Hit is set.
	PointA          mgl64.Vec3
	PointB          mgl64.Vec3
	DistanceSquared float64
	Iterations      int
}

// Distance runs GJK to completion between two shape cores.
//
// maxIterations <= 0 selects DefaultMaxIterations. When the budget runs out the best
// result so far is returned together with ErrNotConverged.
func Distance(a, b Support, maxIterations int) (Result, error) {
	simplex := Simplex{MaxIterations: maxIterations}
	return Run(a, b, &simplex)
}

// Run is Distance on a caller-owned simplex, which keeps the terminal simplex available
// for EPA once the cores are known to overlap.
func Run(a, b Support, simplex *Simplex) (Result, error) {
	// Any first direction works; a fixed axis keeps queries deterministic.
	direction := mgl64.Vec3{1, 0, 0}
	support := MinkowskiSupport(a, b, direction)

	for Step(simplex, support, &direction) {
		support = MinkowskiSupport(a, b, direction)
	}

	result := Analyze(simplex)
	if simplex.Exhausted {
		return result, fmt.Errorf("%w after %d iterations", ErrNotConverged, simplex.Iterations)
	}
	return result, nil
}

// Analyze converts a terminal simplex into witness points and squared distance.
func Analyze(s *Simplex) Result {
	result := Result{
		Hit:        s.Hit,
		Iterations: s.Iterations,
	}
	if s.Count == 0 {
		return result
	}

	denom := 0.0
	for i := 0; i < s.Count; i++ {
		denom += s.Weights[i]
	}
	if denom == 0 {
		result.PointA = s.Vertices[0].A
		result.PointB = s.Vertices[0].B
	} else {
		inv := 1.0 / denom
		for i := 0; i < s.Count; i++ {
			w := s.Weights[i] * inv
			result.PointA = result.PointA.Add(s.Vertices[i].A.Mul(w))
			result.PointB = result.PointB.Add(s.Vertices[i].B.Mul(w))
		}
	}

	if result.Hit {
		result.PointB = result.PointA
		return result
	}
	d := result.PointB.Sub(result.PointA)
	result.DistanceSquared = d.Dot(d)
	return result
}

// Inflate folds the radii of two round shapes into a core result.
//
// When the cores are further apart than the summed radii, the witness points are pushed
// onto the shape surfaces and DistanceSquared becomes the squared surface distance.
// Otherwise the shapes overlap: Hit is set and both witness points collapse to the
// midpoint of the core witnesses. Polyhedra use a radius of zero, so touching hulls
// also report a hit.
func Inflate(result *Result, radiusA, radiusB float64) {
	radius := radiusA + radiusB
	if !result.Hit && result.DistanceSquared > shape.Epsilon*shape.Epsilon && result.DistanceSquared > radius*radius {
		distance := math.Sqrt(result.DistanceSquared)
		n := result.PointB.Sub(result.PointA).Mul(1.0 / distance)
		result.PointA = result.PointA.Add(n.Mul(radiusA))
		result.PointB = result.PointB.Sub(n.Mul(radiusB))
		surface := distance - radius
		result.DistanceSquared = surface * surface
		return
	}

	mid := result.PointA.Add(result.PointB).Mul(0.5)
	result.PointA = mid
	result.PointB = mid
	result.DistanceSquared = 0
	result.Hit = true
}
