package collide

import (
	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// unitAABB is the box [-1, 1]³.
func unitAABB() shape.AABB {
	return shape.AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
}

// zCapsule runs from (0,0,0) to (0,0,10) with radius 1.
func zCapsule() shape.Capsule {
	return shape.Capsule{A: mgl64.Vec3{0, 0, 0}, B: mgl64.Vec3{0, 0, 10}, Radius: 1}
}

func ground() shape.Plane {
	return shape.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 0}
}

func createBox(halfExtents mgl64.Vec3) shape.Polyhedron {
	box, err := shape.NewBox(halfExtents)
	if err != nil {
		panic(err)
	}
	return box
}

func createPosedBox(halfExtents, position mgl64.Vec3, rotation mgl64.Quat) shape.Posed {
	return shape.Posed{
		Polyhedron: createBox(halfExtents),
		Transform:  shape.NewTransformQuat(rotation, position),
	}
}
