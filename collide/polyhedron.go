package collide

import (
	"errors"
	"math"

	"github.com/akmonengine/narrowphase/epa"
	"github.com/akmonengine/narrowphase/gjk"
	"github.com/akmonengine/narrowphase/shape"
)

// Options bound the iterative queries. Zero values select the package defaults.
type Options struct {
	// MaxIterations caps GJK. Reaching it yields gjk.ErrNotConverged.
	MaxIterations int
	EPA           epa.Options
}

// Default returns the options used by the package-level query functions.
func Default() Options {
	return Options{MaxIterations: gjk.DefaultMaxIterations}
}

// Every query below returns the core GJK result with radii folded in: Hit is the
// intersection answer, PointA/PointB are the closest surface points when apart.

func PolyhedronSphere(p shape.Polyhedron, s shape.Sphere) (gjk.Result, error) {
	return Default().PolyhedronSphere(p, s)
}

func (o Options) PolyhedronSphere(p shape.Polyhedron, s shape.Sphere) (gjk.Result, error) {
	return o.query(gjk.Hull(p), gjk.Point(s.Center), 0, s.Radius)
}

// PolyhedronSphereTransformed places p with t before testing.
func PolyhedronSphereTransformed(p shape.Polyhedron, t shape.Transform, s shape.Sphere) (gjk.Result, error) {
	return Default().PolyhedronSphereTransformed(p, t, s)
}

func (o Options) PolyhedronSphereTransformed(p shape.Polyhedron, t shape.Transform, s shape.Sphere) (gjk.Result, error) {
	return o.query(shape.Posed{Polyhedron: p, Transform: t}, gjk.Point(s.Center), 0, s.Radius)
}

func PolyhedronAABB(p shape.Polyhedron, box shape.AABB) (gjk.Result, error) {
	return Default().PolyhedronAABB(p, box)
}

func (o Options) PolyhedronAABB(p shape.Polyhedron, box shape.AABB) (gjk.Result, error) {
	return o.query(gjk.Hull(p), gjk.Box(box), 0, 0)
}

func PolyhedronAABBTransformed(p shape.Polyhedron, t shape.Transform, box shape.AABB) (gjk.Result, error) {
	return Default().PolyhedronAABBTransformed(p, t, box)
}

func (o Options) PolyhedronAABBTransformed(p shape.Polyhedron, t shape.Transform, box shape.AABB) (gjk.Result, error) {
	return o.query(shape.Posed{Polyhedron: p, Transform: t}, gjk.Box(box), 0, 0)
}

func PolyhedronCapsule(p shape.Polyhedron, c shape.Capsule) (gjk.Result, error) {
	return Default().PolyhedronCapsule(p, c)
}

func (o Options) PolyhedronCapsule(p shape.Polyhedron, c shape.Capsule) (gjk.Result, error) {
	return o.query(gjk.Hull(p), gjk.Segment(c.A, c.B), 0, c.Radius)
}

func PolyhedronCapsuleTransformed(p shape.Polyhedron, t shape.Transform, c shape.Capsule) (gjk.Result, error) {
	return Default().PolyhedronCapsuleTransformed(p, t, c)
}

func (o Options) PolyhedronCapsuleTransformed(p shape.Polyhedron, t shape.Transform, c shape.Capsule) (gjk.Result, error) {
	return o.query(shape.Posed{Polyhedron: p, Transform: t}, gjk.Segment(c.A, c.B), 0, c.Radius)
}

func PolyhedronPolyhedron(a, b shape.Polyhedron) (gjk.Result, error) {
	return Default().PolyhedronPolyhedron(a, b)
}

func (o Options) PolyhedronPolyhedron(a, b shape.Polyhedron) (gjk.Result, error) {
	return o.query(gjk.Hull(a), gjk.Hull(b), 0, 0)
}

// PolyhedronPolyhedronTransformed keeps both vertex buffers in local space; every support
// lookup maps the direction into local space and the chosen vertex back out.
func PolyhedronPolyhedronTransformed(a shape.Polyhedron, ta shape.Transform, b shape.Polyhedron, tb shape.Transform) (gjk.Result, error) {
	return Default().PolyhedronPolyhedronTransformed(a, ta, b, tb)
}

func (o Options) PolyhedronPolyhedronTransformed(a shape.Polyhedron, ta shape.Transform, b shape.Polyhedron, tb shape.Transform) (gjk.Result, error) {
	return o.query(shape.Posed{Polyhedron: a, Transform: ta}, shape.Posed{Polyhedron: b, Transform: tb}, 0, 0)
}

func (o Options) query(a, b gjk.Support, radiusA, radiusB float64) (gjk.Result, error) {
	res, err := gjk.Distance(a, b, o.MaxIterations)
	gjk.Inflate(&res, radiusA, radiusB)
	return res, err
}

// Manifold variants take posed polyhedra; use shape.NewTransform for world-space vertices.

func PolyhedronSphereManifold(p shape.Posed, s shape.Sphere) (Manifold, bool, error) {
	return Default().PolyhedronSphereManifold(p, s)
}

func (o Options) PolyhedronSphereManifold(p shape.Posed, s shape.Sphere) (Manifold, bool, error) {
	return o.coreManifold(p, gjk.Point(s.Center), 0, s.Radius)
}

func PolyhedronAABBManifold(p shape.Posed, box shape.AABB) (Manifold, bool, error) {
	return Default().PolyhedronAABBManifold(p, box)
}

func (o Options) PolyhedronAABBManifold(p shape.Posed, box shape.AABB) (Manifold, bool, error) {
	return o.coreManifold(p, gjk.Box(box), 0, 0)
}

func PolyhedronCapsuleManifold(p shape.Posed, c shape.Capsule) (Manifold, bool, error) {
	return Default().PolyhedronCapsuleManifold(p, c)
}

func (o Options) PolyhedronCapsuleManifold(p shape.Posed, c shape.Capsule) (Manifold, bool, error) {
	return o.coreManifold(p, gjk.Segment(c.A, c.B), 0, c.Radius)
}

func PolyhedronPolyhedronManifold(a, b shape.Posed) (Manifold, bool, error) {
	return Default().PolyhedronPolyhedronManifold(a, b)
}

func (o Options) PolyhedronPolyhedronManifold(a, b shape.Posed) (Manifold, bool, error) {
	return o.coreManifold(a, b, 0, 0)
}

// coreManifold derives the contact of two inflated cores.
//
// Separated cores give the manifold straight from the GJK witness points. Overlapping
// cores need EPA for the penetration direction; the radii are added on top of the core
// depth. If EPA cannot run (flat Minkowski difference) the contact degrades to the
// GJK midpoint with FallbackNormal() and the summed radii as depth.
func (o Options) coreManifold(a, b gjk.Support, radiusA, radiusB float64) (Manifold, bool, error) {
	simplex := gjk.Simplex{MaxIterations: o.MaxIterations}
	res, gjkErr := gjk.Run(a, b, &simplex)

	if !res.Hit && res.DistanceSquared > epsilon*epsilon {
		m, ok := roundManifold(res.PointA, res.PointB, radiusA, radiusB)
		return m, ok, gjkErr
	}

	pen, err := epa.Penetration(a, b, &simplex, o.EPA)
	if err != nil && !errors.Is(err, epa.ErrNotConverged) {
		return Manifold{
			Normal: FallbackNormal(),
			Point:  res.PointA.Add(res.PointB).Mul(0.5),
			Depth:  radiusA + radiusB,
		}, true, errors.Join(gjkErr, err)
	}

	surfaceA := pen.PointA.Add(pen.Normal.Mul(radiusA))
	surfaceB := pen.PointB.Sub(pen.Normal.Mul(radiusB))
	return Manifold{
		Normal: pen.Normal,
		Point:  surfaceA.Add(surfaceB).Mul(0.5),
		Depth:  math.Max(0, pen.Depth) + radiusA + radiusB,
	}, true, errors.Join(gjkErr, err)
}
