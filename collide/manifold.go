// Package collide answers "do these two shapes touch, and how" for one pair at a time.
//
// Pairs of spheres, capsules and boxes use closed-form closest-point tests. Pairs that
// involve a convex polyhedron go through GJK on the shape cores, with the radii of
// round shapes folded in afterwards, and through EPA when the cores themselves overlap.
//
// Every test comes in two flavours: a boolean that only answers the question and a
// Manifold variant that also reports how to separate the shapes.
//
// Normal convention: a Manifold normal always points from the first shape (A) toward
// the second (B). Translating B by Normal*Depth separates the pair.
package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FallbackNormal is used when the contact direction is undefined, e.g. two spheres
// sharing a center.
func FallbackNormal() mgl64.Vec3 {
	return mgl64.Vec3{0, 1, 0}
}

// Manifold describes a contact between two shapes.
type Manifold struct {
	// Normal is unit length and points from A toward B.
	Normal mgl64.Vec3
	// Point lies halfway between the deepest points of A and B.
	Point mgl64.Vec3
	// Depth is the penetration along Normal, never negative.
	Depth float64
}

// roundManifold builds the contact between two inflated cores whose closest core points
// are pa and pb. It reports false when the surfaces do not touch.
func roundManifold(pa, pb mgl64.Vec3, radiusA, radiusB float64) (Manifold, bool) {
	radius := radiusA + radiusB
	d := pb.Sub(pa)
	distSq := d.Dot(d)
	if distSq > radius*radius {
		return Manifold{}, false
	}

	distance := math.Sqrt(distSq)
	normal := FallbackNormal()
	if distance > epsilon {
		normal = d.Mul(1.0 / distance)
	}

	surfaceA := pa.Add(normal.Mul(radiusA))
	surfaceB := pb.Sub(normal.Mul(radiusB))
	return Manifold{
		Normal: normal,
		Point:  surfaceA.Add(surfaceB).Mul(0.5),
		Depth:  radius - distance,
	}, true
}

// Flip swaps the roles of A and B.
func (m Manifold) Flip() Manifold {
	m.Normal = m.Normal.Mul(-1)
	return m
}
