package collide

import (
	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = shape.Epsilon

// SphereSphere holds iff the centers are at most a.Radius + b.Radius apart.
func SphereSphere(a, b shape.Sphere) bool {
	d := b.Center.Sub(a.Center)
	r := a.Radius + b.Radius
	return d.Dot(d) <= r*r
}

// SphereSphereManifold reports depth = a.Radius + b.Radius - |b.Center - a.Center|.
func SphereSphereManifold(a, b shape.Sphere) (Manifold, bool) {
	return roundManifold(a.Center, b.Center, a.Radius, b.Radius)
}

// SphereAABB tests the box point closest to the sphere center.
func SphereAABB(s shape.Sphere, box shape.AABB) bool {
	return AABBPointDistanceSquared(s.Center, box) <= s.Radius*s.Radius
}

// SphereAABBManifold handles the sphere center lying inside the box by pushing the
// sphere out through the nearest face.
func SphereAABBManifold(s shape.Sphere, box shape.AABB) (Manifold, bool) {
	q := ClosestPointAABB(s.Center, box)
	d := q.Sub(s.Center)
	if d.Dot(d) > epsilon*epsilon {
		return roundManifold(s.Center, q, s.Radius, 0)
	}

	// Center inside the box: find the nearest face. Ties keep the lower axis and the min face.
	axis, sign := 0, -1.0
	best := s.Center[0] - box.Min[0]
	for i := 0; i < 3; i++ {
		if toMin := s.Center[i] - box.Min[i]; toMin < best {
			axis, sign, best = i, -1, toMin
		}
		if toMax := box.Max[i] - s.Center[i]; toMax < best {
			axis, sign, best = i, 1, toMax
		}
	}

	var outward mgl64.Vec3
	outward[axis] = sign
	face := s.Center
	if sign > 0 {
		face[axis] = box.Max[axis]
	} else {
		face[axis] = box.Min[axis]
	}

	return Manifold{
		// The sphere leaves through the face, so the box moves the other way.
		Normal: outward.Mul(-1),
		Point:  face,
		Depth:  s.Radius + best,
	}, true
}

// SphereCapsule compares the distance to the capsule axis with the summed radii.
func SphereCapsule(s shape.Sphere, c shape.Capsule) bool {
	r := s.Radius + c.Radius
	return CapsulePointDistanceSquared(c, s.Center) <= r*r
}

func SphereCapsuleManifold(s shape.Sphere, c shape.Capsule) (Manifold, bool) {
	q, _ := ClosestPointOnSegment(s.Center, c.A, c.B)
	return roundManifold(s.Center, q, s.Radius, c.Radius)
}
