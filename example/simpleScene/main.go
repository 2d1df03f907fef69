package main

import (
	"fmt"

	"github.com/akmonengine/narrowphase"
	"github.com/akmonengine/narrowphase/collide"
	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a ground plane, a tilted cube and a sphere resting on the ground.
func SetupScene() (shape.Plane, shape.Polyhedron, shape.Sphere) {
	plane, err := shape.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	if err != nil {
		panic(err)
	}
	cube, err := shape.NewBox(mgl64.Vec3{1.5, 1.5, 1.5})
	if err != nil {
		panic(err)
	}
	sphere, err := shape.NewSphere(mgl64.Vec3{-4, 0.9, -5}, 1)
	if err != nil {
		panic(err)
	}
	return plane, cube, sphere
}

// DropCube lowers the tilted cube step by step and prints its distance to the sphere and
// its contact with the ground.
func DropCube() {
	fmt.Println("Cube dropped onto a plane")
	fmt.Println("=========================")

	plane, cube, sphere := SetupScene()
	detector := narrowphase.NewDetector(narrowphase.Options{})
	rotation := mgl64.QuatRotate(mgl64.DegToRad(70), mgl64.Vec3{0, 0, 1})

	const maxSteps = 12
	for step := 0; step < maxSteps; step++ {
		position := mgl64.Vec3{-5, 5 - 0.5*float64(step), -5}
		posed := shape.Posed{Polyhedron: cube, Transform: shape.NewTransformQuat(rotation, position)}

		fmt.Printf("--- STEP %d ---\n", step+1)
		fmt.Printf("  Cube position: %v\n", position)

		res, err := collide.PolyhedronSphereTransformed(cube, posed.Transform, sphere)
		if err != nil {
			fmt.Printf("  GJK: %v\n", err)
		}
		fmt.Printf("  Sphere: hit=%v distance²=%.4f iterations=%d\n", res.Hit, res.DistanceSquared, res.Iterations)

		m, hit, err := detector.Collide(posed, plane)
		if err != nil {
			fmt.Printf("  Ground: %v\n", err)
			continue
		}
		if !hit {
			fmt.Printf("  Ground: no contact\n")
			continue
		}
		fmt.Printf("  Ground: normal=%v point=%v depth=%.4f\n", m.Normal, m.Point, m.Depth)
	}

	contacts := detector.Detect([]narrowphase.Pair{
		{A: sphere, B: plane},
		{A: plane, B: sphere},
	})
	for _, c := range contacts {
		fmt.Printf("Pair %d (%s, %s): normal=%v depth=%.4f\n",
			c.Index, c.Pair.A.Kind(), c.Pair.B.Kind(), c.Manifold.Normal, c.Manifold.Depth)
	}
}

func main() {
	DropCube()
}
