package collide

import (
	"math"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// Planes are solid half-spaces: every point with Normal·p <= D is inside. A plane is
// always the second shape of a pair, so manifold normals are -plane.Normal, pointing
// from the shape into the ground.

// ClosestPointPlane projects p onto the plane surface.
func ClosestPointPlane(p mgl64.Vec3, plane shape.Plane) mgl64.Vec3 {
	return plane.ClosestPoint(p)
}

func SpherePlane(s shape.Sphere, plane shape.Plane) bool {
	return plane.SignedDistance(s.Center) <= s.Radius
}

func SpherePlaneManifold(s shape.Sphere, plane shape.Plane) (Manifold, bool) {
	return planeManifold(s.Center, s.Radius, plane)
}

// AABBPlane projects the box half extents onto the plane normal.
func AABBPlane(box shape.AABB, plane shape.Plane) bool {
	return plane.SignedDistance(box.Center()) <= projectedRadius(box, plane.Normal)
}

func AABBPlaneManifold(box shape.AABB, plane shape.Plane) (Manifold, bool) {
	deepest := box.Corner(box.SupportIndex(plane.Normal.Mul(-1)))
	return planeManifold(deepest, 0, plane)
}

// CapsulePlane only needs the lower endpoint of the axis.
func CapsulePlane(c shape.Capsule, plane shape.Plane) bool {
	return math.Min(plane.SignedDistance(c.A), plane.SignedDistance(c.B)) <= c.Radius
}

// CapsulePlaneManifold uses the lower axis endpoint; an axis lying parallel to the plane
// contacts at its middle.
func CapsulePlaneManifold(c shape.Capsule, plane shape.Plane) (Manifold, bool) {
	da, db := plane.SignedDistance(c.A), plane.SignedDistance(c.B)
	core := c.A
	switch {
	case math.Abs(da-db) <= epsilon:
		core = c.A.Add(c.B).Mul(0.5)
	case db < da:
		core = c.B
	}
	return planeManifold(core, c.Radius, plane)
}

// PolyhedronPlane finds the vertex furthest below the plane.
func PolyhedronPlane(p shape.Posed, plane shape.Plane) bool {
	_, deepest := p.Support(plane.Normal.Mul(-1))
	return plane.SignedDistance(deepest) <= 0
}

func PolyhedronPlaneManifold(p shape.Posed, plane shape.Plane) (Manifold, bool) {
	_, deepest := p.Support(plane.Normal.Mul(-1))
	return planeManifold(deepest, 0, plane)
}

func projectedRadius(box shape.AABB, normal mgl64.Vec3) float64 {
	h := box.HalfExtents()
	return h[0]*math.Abs(normal[0]) + h[1]*math.Abs(normal[1]) + h[2]*math.Abs(normal[2])
}

// planeManifold builds the contact of a round core point against a half-space.
func planeManifold(core mgl64.Vec3, radius float64, plane shape.Plane) (Manifold, bool) {
	distance := plane.SignedDistance(core)
	if distance > radius {
		return Manifold{}, false
	}

	deepest := core.Sub(plane.Normal.Mul(radius))
	surface := plane.ClosestPoint(deepest)
	return Manifold{
		Normal: plane.Normal.Mul(-1),
		Point:  deepest.Add(surface).Mul(0.5),
		Depth:  radius - distance,
	}, true
}
