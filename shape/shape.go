// Package shape defines the convex primitives understood by the narrow phase.
//
// Every shape is a plain value type. Constructors validate their input and report
// ErrInvalidShape instead of letting a bad radius or an empty vertex list reach the
// collision routines, where it would silently produce undefined results.
//
// Round shapes (spheres, capsules) are split into a core and a radius: the core of a
// sphere is its center point and the core of a capsule is its axis segment. GJK runs on
// the cores only and the radii are folded back in when the final distance is interpreted.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon guards divisions by near-zero lengths throughout the narrow phase.
const Epsilon = 1e-6

// ErrInvalidShape is returned by constructors when the caller violates a shape precondition.
var ErrInvalidShape = errors.New("invalid shape")

// Kind identifies the concrete type behind a Shape
type Kind int

const (
	KindSphere Kind = iota
	KindAABB
	KindCapsule
	KindPlane
	KindPolyhedron
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindAABB:
		return "aabb"
	case KindCapsule:
		return "capsule"
	case KindPlane:
		return "plane"
	case KindPolyhedron:
		return "polyhedron"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Shape is implemented by every collidable primitive.
type Shape interface {
	Kind() Kind
}

// Sphere is a ball of Radius around Center.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// NewSphere validates and builds a sphere.
func NewSphere(center mgl64.Vec3, radius float64) (Sphere, error) {
	if !finiteVec(center) || !finite(radius) {
		return Sphere{}, fmt.Errorf("%w: sphere has non-finite components", ErrInvalidShape)
	}
	if radius < 0 {
		return Sphere{}, fmt.Errorf("%w: sphere radius %v is negative", ErrInvalidShape, radius)
	}
	return Sphere{Center: center, Radius: radius}, nil
}

func (Sphere) Kind() Kind { return KindSphere }

// Bounds returns the AABB enclosing the sphere.
func (s Sphere) Bounds() AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Capsule is the set of points within Radius of the segment [A, B].
type Capsule struct {
	A      mgl64.Vec3
	B      mgl64.Vec3
	Radius float64
}

// NewCapsule validates and builds a capsule. A zero-length axis is allowed and
// behaves like a sphere.
func NewCapsule(a, b mgl64.Vec3, radius float64) (Capsule, error) {
	if !finiteVec(a) || !finiteVec(b) || !finite(radius) {
		return Capsule{}, fmt.Errorf("%w: capsule has non-finite components", ErrInvalidShape)
	}
	if radius < 0 {
		return Capsule{}, fmt.Errorf("%w: capsule radius %v is negative", ErrInvalidShape, radius)
	}
	return Capsule{A: a, B: b, Radius: radius}, nil
}

func (Capsule) Kind() Kind { return KindCapsule }

// Bounds returns the AABB enclosing the capsule.
func (c Capsule) Bounds() AABB {
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	box := AABB{
		Min: mgl64.Vec3{math.Min(c.A[0], c.B[0]), math.Min(c.A[1], c.B[1]), math.Min(c.A[2], c.B[2])},
		Max: mgl64.Vec3{math.Max(c.A[0], c.B[0]), math.Max(c.A[1], c.B[1]), math.Max(c.A[2], c.B[2])},
	}
	return AABB{Min: box.Min.Sub(r), Max: box.Max.Add(r)}
}

// Plane is the set of points p with Normal·p = D.
// Normal is unit length, D is the signed offset from the origin along Normal.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane builds a plane through point with the given normal. The normal is normalized.
func NewPlane(point, normal mgl64.Vec3) (Plane, error) {
	if !finiteVec(point) || !finiteVec(normal) {
		return Plane{}, fmt.Errorf("%w: plane has non-finite components", ErrInvalidShape)
	}
	l := normal.Len()
	if l < Epsilon {
		return Plane{}, fmt.Errorf("%w: plane normal has zero length", ErrInvalidShape)
	}
	n := normal.Mul(1.0 / l)
	return Plane{Normal: n, D: n.Dot(point)}, nil
}

// NewPlaneABCD builds the plane a*x + b*y + c*z = d, normalizing both sides.
func NewPlaneABCD(a, b, c, d float64) (Plane, error) {
	normal := mgl64.Vec3{a, b, c}
	if !finiteVec(normal) || !finite(d) {
		return Plane{}, fmt.Errorf("%w: plane has non-finite components", ErrInvalidShape)
	}
	l := normal.Len()
	if l < Epsilon {
		return Plane{}, fmt.Errorf("%w: plane normal has zero length", ErrInvalidShape)
	}
	return Plane{Normal: normal.Mul(1.0 / l), D: d / l}, nil
}

func (Plane) Kind() Kind { return KindPlane }

// SignedDistance is positive on the side the normal points to.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.D
}

// ClosestPoint projects point onto the plane.
func (p Plane) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// Ray is a half-line starting at Origin. Direction is unit length.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay normalizes direction.
func NewRay(origin, direction mgl64.Vec3) (Ray, error) {
	if !finiteVec(origin) || !finiteVec(direction) {
		return Ray{}, fmt.Errorf("%w: ray has non-finite components", ErrInvalidShape)
	}
	l := direction.Len()
	if l < Epsilon {
		return Ray{}, fmt.Errorf("%w: ray direction has zero length", ErrInvalidShape)
	}
	return Ray{Origin: origin, Direction: direction.Mul(1.0 / l)}, nil
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
