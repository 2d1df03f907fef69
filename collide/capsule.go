package collide

import "github.com/akmonengine/narrowphase/shape"

// CapsuleCapsule compares the distance between both axes with the summed radii.
func CapsuleCapsule(a, b shape.Capsule) bool {
	r := a.Radius + b.Radius
	return ClosestPointsSegmentSegment(a.A, a.B, b.A, b.B).DistanceSquared <= r*r
}

func CapsuleCapsuleManifold(a, b shape.Capsule) (Manifold, bool) {
	pair := ClosestPointsSegmentSegment(a.A, a.B, b.A, b.B)
	return roundManifold(pair.C1, pair.C2, a.Radius, b.Radius)
}
