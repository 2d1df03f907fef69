package narrowphase

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func sphere(x, y, z, r float64) shape.Sphere {
	return shape.Sphere{Center: mgl64.Vec3{x, y, z}, Radius: r}
}

func ground() shape.Plane {
	return shape.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 0}
}

func createPosedBox(halfExtents, position mgl64.Vec3) shape.Posed {
	box, err := shape.NewBox(halfExtents)
	if err != nil {
		panic(err)
	}
	return shape.Posed{Polyhedron: box, Transform: shape.NewTransformQuat(mgl64.QuatIdent(), position)}
}

func TestNewDetector_Defaults(t *testing.T) {
	d := NewDetector(Options{})
	if d.options.Workers != DEFAULT_WORKERS {
		t.Errorf("Expected %d workers, got %d", DEFAULT_WORKERS, d.options.Workers)
	}
	if d.options.Collide.MaxIterations <= 0 {
		t.Errorf("Expected a positive iteration budget, got %d", d.options.Collide.MaxIterations)
	}
	if d.logger == nil {
		t.Error("Expected a discard logger")
	}
}

func TestDetector_Collide(t *testing.T) {
	d := NewDetector(Options{})
	box := createPosedBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0.5, 0})
	aabb := shape.AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	capsule := shape.Capsule{A: mgl64.Vec3{0, 0, 0}, B: mgl64.Vec3{0, 0, 10}, Radius: 1}

	tests := []struct {
		name   string
		a, b   shape.Shape
		hit    bool
		normal mgl64.Vec3
		depth  float64
	}{
		{"sphere sphere", sphere(0, 0, 0, 1), sphere(1.5, 0, 0, 1), true, mgl64.Vec3{1, 0, 0}, 0.5},
		{"sphere plane", sphere(0, 0.5, 0, 1), ground(), true, mgl64.Vec3{0, -1, 0}, 0.5},
		{"plane sphere", ground(), sphere(0, 0.5, 0, 1), true, mgl64.Vec3{0, 1, 0}, 0.5},
		{"capsule sphere", capsule, sphere(1.2, 0, 4, 0.5), true, mgl64.Vec3{1, 0, 0}, 0.3},
		{"aabb aabb", aabb, shape.AABB{Min: mgl64.Vec3{2, 2, 2}, Max: mgl64.Vec3{3, 3, 3}}, false, mgl64.Vec3{}, 0},
		{"polyhedron plane", box, ground(), true, mgl64.Vec3{0, -1, 0}, 0.5},
		{"plane polyhedron", ground(), box, true, mgl64.Vec3{0, 1, 0}, 0.5},
		{"sphere polyhedron", sphere(0, 2, 0, 1), box, true, mgl64.Vec3{0, -1, 0}, 0.5},
		{"capsule plane", capsule, ground(), true, mgl64.Vec3{0, -1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, hit, err := d.Collide(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if hit != tt.hit {
				t.Fatalf("Expected hit %v, got %v", tt.hit, hit)
			}
			if !hit {
				return
			}
			if !vec3ApproxEqual(m.Normal, tt.normal, 1e-6) {
				t.Errorf("Expected normal %v, got %v", tt.normal, m.Normal)
			}
			if !scalar.EqualWithinAbs(m.Depth, tt.depth, 1e-6) {
				t.Errorf("Expected depth %v, got %v", tt.depth, m.Depth)
			}

			intersect, err := d.Intersect(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if intersect != hit {
				t.Errorf("Intersect %v disagrees with Collide %v", intersect, hit)
			}
		})
	}
}

func TestDetector_PolyhedronForms(t *testing.T) {
	d := NewDetector(Options{})
	posed := createPosedBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0, 0})
	world := posed.Polyhedron
	s := sphere(1.5, 0, 0, 1)

	want, _, err := d.Collide(posed, s)
	if err != nil {
		t.Fatal(err)
	}

	for name, a := range map[string]shape.Shape{
		"value":         world,
		"pointer":       &world,
		"posed pointer": &posed,
	} {
		t.Run(name, func(t *testing.T) {
			m, hit, err := d.Collide(a, s)
			if err != nil || !hit {
				t.Fatalf("Expected collision, got hit %v, err %v", hit, err)
			}
			if !vec3ApproxEqual(m.Normal, want.Normal, 1e-9) || !scalar.EqualWithinAbs(m.Depth, want.Depth, 1e-9) {
				t.Errorf("Expected %+v, got %+v", want, m)
			}
		})
	}

	t.Run("sphere pointer", func(t *testing.T) {
		m, hit, err := d.Collide(posed, &s)
		if err != nil || !hit {
			t.Fatalf("Expected collision, got hit %v, err %v", hit, err)
		}
		if !scalar.EqualWithinAbs(m.Depth, want.Depth, 1e-9) {
			t.Errorf("Expected depth %v, got %v", want.Depth, m.Depth)
		}
	})
}

func TestDetector_Unsupported(t *testing.T) {
	d := NewDetector(Options{})

	tests := []struct {
		name string
		a, b shape.Shape
	}{
		{"plane plane", ground(), ground()},
		{"nil shape", nil, sphere(0, 0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := d.Collide(tt.a, tt.b); !errors.Is(err, ErrUnsupportedPair) {
				t.Errorf("Expected ErrUnsupportedPair from Collide, got %v", err)
			}
			if _, err := d.Intersect(tt.a, tt.b); !errors.Is(err, ErrUnsupportedPair) {
				t.Errorf("Expected ErrUnsupportedPair from Intersect, got %v", err)
			}
		})
	}
}

func TestDetector_EmptyPolyhedron(t *testing.T) {
	var logs bytes.Buffer
	d := NewDetector(Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	empty := shape.Polyhedron{}

	tests := []struct {
		name string
		a, b shape.Shape
	}{
		{"polyhedron sphere", empty, sphere(0, 0, 0, 1)},
		{"sphere polyhedron", sphere(0, 0, 0, 1), &empty},
		{"posed plane", shape.Posed{Polyhedron: empty, Transform: shape.NewTransform()}, ground()},
		{"polyhedron polyhedron", createPosedBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}), empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := d.Collide(tt.a, tt.b); !errors.Is(err, shape.ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape from Collide, got %v", err)
			}
			if _, err := d.Intersect(tt.a, tt.b); !errors.Is(err, shape.ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape from Intersect, got %v", err)
			}
		})
	}

	contacts := d.Detect([]Pair{
		{A: empty, B: sphere(0, 0, 0, 1)},
		{A: sphere(0, 0, 0, 1), B: sphere(0.5, 0, 0, 1)},
	})
	if len(contacts) != 1 || contacts[0].Index != 1 {
		t.Errorf("Expected only pair 1 to collide, got %+v", contacts)
	}
	if !strings.Contains(logs.String(), "narrow phase query failed") {
		t.Errorf("Expected the empty polyhedron to be logged, got %q", logs.String())
	}
}

func TestDetector_Detect(t *testing.T) {
	var logs bytes.Buffer
	d := NewDetector(Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	pairs := []Pair{
		{A: sphere(0, 0, 0, 1), B: sphere(1.5, 0, 0, 1)},
		{A: sphere(0, 0, 0, 1), B: sphere(5, 0, 0, 1)},
		{A: ground(), B: ground()},
		{A: ground(), B: sphere(0, 0.5, 0, 1)},
	}

	contacts := d.Detect(pairs)
	if len(contacts) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].Index != 0 || contacts[1].Index != 3 {
		t.Errorf("Expected contacts for pairs 0 and 3, got %d and %d", contacts[0].Index, contacts[1].Index)
	}
	if contacts[1].Manifold.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected the normal to point from the plane to the sphere, got %v", contacts[1].Manifold.Normal)
	}
	if !strings.Contains(logs.String(), "narrow phase query failed") {
		t.Errorf("Expected the plane pair to be logged, got %q", logs.String())
	}
}

func TestDetector_Detect_Workers(t *testing.T) {
	pairs := make([]Pair, 0, 100)
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.05
		pairs = append(pairs, Pair{A: sphere(0, 0, 0, 1), B: sphere(x, 0, 0, 1)})
	}

	want := NewDetector(Options{Workers: 1}).Detect(pairs)
	for _, workers := range []int{2, 4, 7, 200} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			got := NewDetector(Options{Workers: workers}).Detect(pairs)
			if len(got) != len(want) {
				t.Fatalf("Expected %d contacts, got %d", len(want), len(got))
			}
			for i := range got {
				if got[i].Index != want[i].Index || got[i].Manifold != want[i].Manifold {
					t.Errorf("Contact %d: expected %+v, got %+v", i, want[i], got[i])
				}
			}
		})
	}
}

func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return scalar.EqualWithinAbs(a[0], b[0], tolerance) &&
		scalar.EqualWithinAbs(a[1], b[1], tolerance) &&
		scalar.EqualWithinAbs(a[2], b[2], tolerance)
}

func BenchmarkDetect(b *testing.B) {
	pairs := make([]Pair, 0, 256)
	for i := 0; i < 256; i++ {
		x := float64(i%16) * 0.2
		pairs = append(pairs, Pair{
			A: createPosedBox(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, 0}),
			B: createPosedBox(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{x, 0.3, 0}),
		})
	}
	d := NewDetector(Options{Workers: 4})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Detect(pairs)
	}
}
