package collide

import (
	"math"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// AABBAABB overlaps on all three axes. Touching faces count.
func AABBAABB(a, b shape.AABB) bool {
	return a.Overlaps(b)
}

// AABBAABBManifold separates along the axis of least overlap; ties keep the lower axis.
// The contact point is the center of the overlap region.
func AABBAABBManifold(a, b shape.AABB) (Manifold, bool) {
	axis := -1
	depth := math.MaxFloat64
	var lo, hi mgl64.Vec3
	for i := 0; i < 3; i++ {
		lo[i] = math.Max(a.Min[i], b.Min[i])
		hi[i] = math.Min(a.Max[i], b.Max[i])
		overlap := hi[i] - lo[i]
		if overlap < 0 {
			return Manifold{}, false
		}
		if overlap < depth {
			axis, depth = i, overlap
		}
	}

	var normal mgl64.Vec3
	if b.Center()[axis] >= a.Center()[axis] {
		normal[axis] = 1
	} else {
		normal[axis] = -1
	}

	return Manifold{
		Normal: normal,
		Point:  lo.Add(hi).Mul(0.5),
		Depth:  depth,
	}, true
}

// AABBCapsule measures the exact box-to-axis distance with GJK, then compares it with
// the capsule radius. A closed form for box-segment distance needs a case split over
// every box feature, which GJK already performs.
func AABBCapsule(box shape.AABB, c shape.Capsule) (bool, error) {
	return Default().AABBCapsule(box, c)
}

func (o Options) AABBCapsule(box shape.AABB, c shape.Capsule) (bool, error) {
	res, err := gjk.Distance(gjk.Box(box), gjk.Segment(c.A, c.B), o.MaxIterations)
	gjk.Inflate(&res, 0, c.Radius)
	return res.Hit, err
}

func AABBCapsuleManifold(box shape.AABB, c shape.Capsule) (Manifold, bool, error) {
	return Default().AABBCapsuleManifold(box, c)
}

func (o Options) AABBCapsuleManifold(box shape.AABB, c shape.Capsule) (Manifold, bool, error) {
	return o.coreManifold(gjk.Box(box), gjk.Segment(c.A, c.B), 0, c.Radius)
}
