package config

import (
	"errors"
	"testing"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const sceneYAML = `
shapes:
  - name: ground
    type: plane
    point: [0, 0, 0]
    normal: [0, 2, 0]
  - name: ball
    type: sphere
    center: [0, 0.5, 0]
    radius: 1
  - name: crate
    type: box
    half_extents: [0.5, 0.5, 0.5]
    position: [3, 0.4, 0]
    rotation: {axis: [0, 1, 0], angle_deg: 30}
  - name: rod
    type: capsule
    a: [0, 5, 0]
    b: [0, 8, 0]
    radius: 0.25
  - name: shelf
    type: aabb
    min: [-1, 2, -1]
    max: [1, 2.5, 1]
  - name: wedge
    type: polyhedron
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
pairs:
  - {a: ball, b: ground}
  - {a: crate, b: ground}
  - {a: rod, b: shelf}
`

func TestParseScene_Build(t *testing.T) {
	scene, err := ParseScene([]byte(sceneYAML))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	bodies, pairs, err := scene.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(bodies) != 6 {
		t.Fatalf("Expected 6 bodies, got %d", len(bodies))
	}
	if len(pairs) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(pairs))
	}

	kinds := []shape.Kind{shape.KindPlane, shape.KindSphere, shape.KindPolyhedron, shape.KindCapsule, shape.KindAABB, shape.KindPolyhedron}
	for i, b := range bodies {
		if b.Shape.Kind() != kinds[i] {
			t.Errorf("Body %q: expected kind %v, got %v", b.Name, kinds[i], b.Shape.Kind())
		}
	}

	plane := bodies[0].Shape.(shape.Plane)
	if plane.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected a normalized plane normal, got %v", plane.Normal)
	}

	crate := bodies[2].Shape.(shape.Posed)
	if crate.Transform.Translation != (mgl64.Vec3{3, 0.4, 0}) {
		t.Errorf("Expected crate at (3, 0.4, 0), got %v", crate.Transform.Translation)
	}
	if crate.Polyhedron.Len() != 8 {
		t.Errorf("Expected 8 crate vertices, got %d", crate.Polyhedron.Len())
	}

	if pairs[2].A != bodies[3].Shape {
		t.Errorf("Expected the third pair to start with the rod")
	}

	names := scene.PairNames(bodies)
	if names[1] != [2]string{"crate", "ground"} {
		t.Errorf("PairNames[1] = %v", names[1])
	}
}

func TestBuild_AllPairs(t *testing.T) {
	scene, err := ParseScene([]byte(`
shapes:
  - {type: sphere, center: [0, 0, 0], radius: 1}
  - {type: sphere, center: [1, 0, 0], radius: 1}
  - {type: sphere, center: [9, 0, 0], radius: 1}
`))
	if err != nil {
		t.Fatal(err)
	}

	bodies, pairs, err := scene.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 3 {
		t.Fatalf("Expected every pair of 3 shapes, got %d", len(pairs))
	}

	names := scene.PairNames(bodies)
	want := [][2]string{{"shape0", "shape1"}, {"shape0", "shape2"}, {"shape1", "shape2"}}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("PairNames[%d] = %v, want %v", i, names[i], want[i])
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"unknown type", "shapes:\n  - {name: x, type: torus}\n", true},
		{"duplicate names", "shapes:\n  - {name: x, type: sphere, center: [0, 0, 0], radius: 1}\n  - {name: x, type: sphere, center: [1, 0, 0], radius: 1}\n", true},
		{"short vector", "shapes:\n  - {name: x, type: sphere, center: [0, 0], radius: 1}\n", true},
		{"unknown pair member", "shapes:\n  - {name: x, type: sphere, center: [0, 0, 0], radius: 1}\npairs:\n  - {a: x, b: y}\n", true},
		{"zero rotation axis", "shapes:\n  - {name: x, type: box, half_extents: [1, 1, 1], rotation: {axis: [0, 0, 0], angle_deg: 10}}\n", true},
		{"negative radius", "shapes:\n  - {name: x, type: sphere, center: [0, 0, 0], radius: -1}\n", false},
		{"inverted aabb", "shapes:\n  - {name: x, type: aabb, min: [1, 1, 1], max: [0, 0, 0]}\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := ParseScene([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseScene failed: %v", err)
			}
			_, _, err = scene.Build()
			if err == nil {
				t.Fatal("Expected an error")
			}
			if errors.Is(err, ErrInvalidConfig) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err %v)", !tt.invalid, tt.invalid, err)
			}
			if !tt.invalid && !errors.Is(err, shape.ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestLoadScene_Missing(t *testing.T) {
	if _, err := LoadScene("does/not/exist.yaml"); err == nil {
		t.Error("Expected an error for a missing scene file")
	}
}
