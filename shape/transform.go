package shape

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid motion: world = Rotation * local + Translation.
// Rotation uses mgl64's column-major Mat3 with column vectors and is assumed orthonormal,
// so its transpose is its inverse.
type Transform struct {
	Rotation    mgl64.Mat3
	Translation mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{Rotation: mgl64.Ident3()}
}

// NewTransformQuat builds a transform from a rotation quaternion and a translation.
func NewTransformQuat(rotation mgl64.Quat, translation mgl64.Vec3) Transform {
	return Transform{
		Rotation:    rotation.Normalize().Mat4().Mat3(),
		Translation: translation,
	}
}

// Point maps a local-space point to world space.
func (t Transform) Point(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(local).Add(t.Translation)
}

// Direction maps a local-space direction to world space.
func (t Transform) Direction(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(local)
}

// InverseDirection maps a world-space direction to local space.
func (t Transform) InverseDirection(world mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Transpose().Mul3x1(world)
}

// Posed places a polyhedron in the world without copying its vertices.
type Posed struct {
	Polyhedron Polyhedron
	Transform  Transform
}

func (Posed) Kind() Kind { return KindPolyhedron }

// Support returns the index and world position of the vertex furthest along the
// world-space direction.
func (p Posed) Support(direction mgl64.Vec3) (int, mgl64.Vec3) {
	i := p.Polyhedron.Support(p.Transform.InverseDirection(direction))
	return i, p.Transform.Point(p.Polyhedron.Vertex(i))
}

// Centroid returns the world-space vertex average.
func (p Posed) Centroid() mgl64.Vec3 {
	return p.Transform.Point(p.Polyhedron.Centroid())
}
