// Package raycast intersects rays with planes, triangles, spheres and boxes.
//
// All functions take a shape.Ray, whose direction is unit length, so the returned
// parameters are distances from the ray origin.
package raycast

import (
	"math"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

const epsilon = shape.Epsilon

// Hit describes where a ray enters and leaves a shape.
type Hit struct {
	// T0 is the entry parameter, T1 the exit parameter. Flat shapes report T0 == T1.
	T0, T1 float64
	// Point is the entry point, Ray.At(T0).
	Point mgl64.Vec3
	// Normal is the unit surface normal at Point, facing the ray. It is zero when the
	// ray starts inside a box.
	Normal mgl64.Vec3
}

// Plane intersects the ray with the plane surface. Hits at t <= 0 are behind the origin
// and rejected, as are rays running parallel to the plane.
func Plane(r shape.Ray, p shape.Plane) (Hit, bool) {
	denom := p.Normal.Dot(r.Direction)
	if scalar.EqualWithinAbs(denom, 0, epsilon) {
		return Hit{}, false
	}
	t := (p.D - p.Normal.Dot(r.Origin)) / denom
	if t <= 0 {
		return Hit{}, false
	}
	return Hit{T0: t, T1: t, Point: r.At(t), Normal: facing(p.Normal, r.Direction)}, true
}

// Triangle intersects the plane of triangle abc, then keeps the hit only if it lies on
// the inner side of all three edges. Degenerate triangles never hit.
func Triangle(r shape.Ray, a, b, c mgl64.Vec3) (Hit, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < epsilon {
		return Hit{}, false
	}
	n = n.Mul(1.0 / l)

	hit, ok := Plane(r, shape.Plane{Normal: n, D: n.Dot(a)})
	if !ok || !insideTriangle(hit.Point, a, b, c, n) {
		return Hit{}, false
	}
	return hit, true
}

// insideTriangle reports whether p, on the plane of abc, lies inside or on an edge.
func insideTriangle(p, a, b, c, n mgl64.Vec3) bool {
	if p.Sub(a).Cross(b.Sub(a)).Dot(n) > 0 {
		return false
	}
	if p.Sub(b).Cross(c.Sub(b)).Dot(n) > 0 {
		return false
	}
	return p.Sub(c).Cross(a.Sub(c)).Dot(n) <= 0
}

// Sphere solves t = tc ± sqrt(r² - d²), with tc the parameter of closest approach and d
// the distance from the center at that parameter. A closest approach behind the origin
// is rejected.
func Sphere(r shape.Ray, s shape.Sphere) (Hit, bool) {
	m := s.Center.Sub(r.Origin)
	tc := m.Dot(r.Direction)
	if tc < 0 {
		return Hit{}, false
	}
	d2 := m.Dot(m) - tc*tc
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return Hit{}, false
	}

	half := math.Sqrt(r2 - d2)
	hit := Hit{T0: tc - half, T1: tc + half}
	hit.Point = r.At(hit.T0)
	if s.Radius > epsilon {
		hit.Normal = hit.Point.Sub(s.Center).Mul(1.0 / s.Radius)
	} else {
		hit.Normal = r.Direction.Mul(-1)
	}
	return hit, true
}

// AABB clips the ray against the three slabs of the box. The interval starts at
// [0, +inf) so hits behind the origin never count; a ray starting inside the box
// reports T0 = 0.
func AABB(r shape.Ray, box shape.AABB) (Hit, bool) {
	t0, t1 := 0.0, math.MaxFloat64
	entryAxis := -1

	for i := 0; i < 3; i++ {
		if math.Abs(r.Direction[i]) < epsilon {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return Hit{}, false
			}
			continue
		}

		inv := 1.0 / r.Direction[i]
		near := (box.Min[i] - r.Origin[i]) * inv
		far := (box.Max[i] - r.Origin[i]) * inv
		if near > far {
			near, far = far, near
		}
		if near > t0 {
			t0, entryAxis = near, i
		}
		if far < t1 {
			t1 = far
		}
		if t0 > t1 {
			return Hit{}, false
		}
	}

	hit := Hit{T0: t0, T1: t1, Point: r.At(t0)}
	if entryAxis >= 0 {
		hit.Normal[entryAxis] = -math.Copysign(1, r.Direction[entryAxis])
	}
	return hit, true
}

func facing(normal, direction mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(direction) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
