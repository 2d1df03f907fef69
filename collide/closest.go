package collide

import (
	"math"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// ClosestPointOnSegment returns the point of segment [a, b] closest to p and its
// parameter t in [0, 1]. A zero-length segment degenerates to a.
func ClosestPointOnSegment(p, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom <= shape.Epsilon {
		return a, 0
	}
	t := clamp01(p.Sub(a).Dot(ab) / denom)
	return a.Add(ab.Mul(t)), t
}

// SegmentPointDistanceSquared returns the squared distance from p to segment [a, b].
func SegmentPointDistanceSquared(p, a, b mgl64.Vec3) float64 {
	q, _ := ClosestPointOnSegment(p, a, b)
	d := p.Sub(q)
	return d.Dot(d)
}

// SegmentPair holds the closest points between two segments.
// C1 = P1 + S*(Q1-P1) lies on the first segment, C2 = P2 + T*(Q2-P2) on the second.
type SegmentPair struct {
	S, T            float64
	C1, C2          mgl64.Vec3
	DistanceSquared float64
}

// ClosestPointsSegmentSegment computes the closest points of segments [p1, q1] and [p2, q2].
//
// With d1 = q1-p1, d2 = q2-p2 and r = p1-p2 it solves the 2x2 system for (s, t) and
// clamps to the unit square, recomputing the other parameter after each clamp.
// Zero-length segments are treated as points and parallel segments pin s to 0.
func ClosestPointsSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) SegmentPair {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= shape.Epsilon && e <= shape.Epsilon:
		// both segments are points
	case a <= shape.Epsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= shape.Epsilon {
			s = clamp01(-c / a)
			break
		}

		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > shape.Epsilon*a*e {
			s = clamp01((b*f - c*e) / denom)
		}

		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	c1 := p1.Add(d1.Mul(s))
	c2 := p2.Add(d2.Mul(t))
	d := c1.Sub(c2)
	return SegmentPair{S: s, T: t, C1: c1, C2: c2, DistanceSquared: d.Dot(d)}
}

// ClosestPointAABB clamps p into the box.
func ClosestPointAABB(p mgl64.Vec3, box shape.AABB) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(box.Min[0], math.Min(box.Max[0], p[0])),
		math.Max(box.Min[1], math.Min(box.Max[1], p[1])),
		math.Max(box.Min[2], math.Min(box.Max[2], p[2])),
	}
}

// AABBPointDistanceSquared is zero for points inside the box.
func AABBPointDistanceSquared(p mgl64.Vec3, box shape.AABB) float64 {
	d := p.Sub(ClosestPointAABB(p, box))
	return d.Dot(d)
}

// CapsulePointDistanceSquared is the squared distance from p to the capsule core.
// The point is inside the capsule when the result is at most Radius².
func CapsulePointDistanceSquared(c shape.Capsule, p mgl64.Vec3) float64 {
	return SegmentPointDistanceSquared(p, c.A, c.B)
}

// ClosestPointCapsule returns the point of the capsule surface or interior closest to p.
func ClosestPointCapsule(c shape.Capsule, p mgl64.Vec3) mgl64.Vec3 {
	q, _ := ClosestPointOnSegment(p, c.A, c.B)
	d := p.Sub(q)
	l := d.Len()
	if l <= c.Radius {
		return p
	}
	return q.Add(d.Mul(c.Radius / l))
}
