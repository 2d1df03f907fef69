package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func point(id int, p mgl64.Vec3) gjk.SupportPoint {
	return gjk.NewSupportPoint(0, mgl64.Vec3{}, id, p)
}

func enclosingTetrahedron() [4]gjk.SupportPoint {
	return [4]gjk.SupportPoint{
		point(0, mgl64.Vec3{-1, -1, -1}),
		point(1, mgl64.Vec3{1, -1, -1}),
		point(2, mgl64.Vec3{0, 1, -1}),
		point(3, mgl64.Vec3{0, 0, 1}),
	}
}

// assertClosed checks that every face normal is unit length and that no polytope
// vertex lies in front of any face.
func assertClosed(t *testing.T, p *Polytope) {
	t.Helper()
	for i, f := range p.faces {
		if !isNormalized(f.Normal, 1e-9) {
			t.Errorf("face %d normal %v is not normalized", i, f.Normal)
		}
		a := p.vertices[f.Indices[0]].P
		for j, v := range p.vertices {
			if d := f.Normal.Dot(v.P.Sub(a)); d > 1e-9 {
				t.Errorf("vertex %d is %v in front of face %d", j, d, i)
			}
		}
	}
}

func TestNewPolytope(t *testing.T) {
	p := newPolytope(enclosingTetrahedron())

	if len(p.faces) != 4 {
		t.Fatalf("expected 4 faces, got %d", len(p.faces))
	}
	assertClosed(t, p)

	for i, f := range p.faces {
		if f.Distance < 0 {
			t.Errorf("face %d has negative distance %v", i, f.Distance)
		}
	}
}

func TestCreateFaceOutward(t *testing.T) {
	p := newPolytope(enclosingTetrahedron())

	t.Run("winding is swapped when needed", func(t *testing.T) {
		interior := mgl64.Vec3{0, 0, 0}
		f1 := p.createFaceOutward(0, 1, 2, interior)
		f2 := p.createFaceOutward(0, 2, 1, interior)
		if f1.Normal != f2.Normal {
			t.Errorf("normals differ with winding: %v vs %v", f1.Normal, f2.Normal)
		}
		if !vec3ApproxEqual(f1.Normal, mgl64.Vec3{0, 0, -1}, 1e-12) {
			t.Errorf("expected base normal (0,0,-1), got %v", f1.Normal)
		}
		if !scalar.EqualWithinAbs(f1.Distance, 1, 1e-12) {
			t.Errorf("expected base distance 1, got %v", f1.Distance)
		}
	})

	t.Run("zero area face is ranked last", func(t *testing.T) {
		p.vertices = append(p.vertices, point(4, mgl64.Vec3{-1, -1, -1}))
		f := p.createFaceOutward(0, 4, 1, mgl64.Vec3{})
		if f.Distance != math.MaxFloat64 {
			t.Errorf("expected MaxFloat64 distance, got %v", f.Distance)
		}
	})
}

func TestClosestFace(t *testing.T) {
	p := newPolytope(enclosingTetrahedron())

	closest := p.faces[p.ClosestFace()]
	if want := 1 / math.Sqrt(21); !scalar.EqualWithinAbs(closest.Distance, want, 1e-12) {
		t.Errorf("closest distance = %v, want %v", closest.Distance, want)
	}
	for _, f := range p.faces {
		if f.Distance < closest.Distance {
			t.Errorf("face at %v is closer than the closest face", f.Distance)
		}
	}
}

func TestExpand(t *testing.T) {
	t.Run("point below the base", func(t *testing.T) {
		p := newPolytope(enclosingTetrahedron())
		if !p.Expand(point(4, mgl64.Vec3{0, 0, -3})) {
			t.Fatal("expected the point to be added")
		}
		// A closed triangulated convex hull has 2V - 4 faces.
		if want := 2*len(p.vertices) - 4; len(p.faces) != want {
			t.Errorf("expected %d faces, got %d", want, len(p.faces))
		}
		assertClosed(t, p)
	})

	t.Run("point seen by two faces", func(t *testing.T) {
		p := newPolytope(enclosingTetrahedron())
		if !p.Expand(point(4, mgl64.Vec3{0, -3, -3})) {
			t.Fatal("expected the point to be added")
		}
		if want := 2*len(p.vertices) - 4; len(p.faces) != want {
			t.Errorf("expected %d faces, got %d", want, len(p.faces))
		}
		assertClosed(t, p)
	})

	t.Run("interior point", func(t *testing.T) {
		p := newPolytope(enclosingTetrahedron())
		if p.Expand(point(4, mgl64.Vec3{0, 0, 0})) {
			t.Error("expected an interior point to be rejected")
		}
		if len(p.faces) != 4 {
			t.Errorf("expected the polytope to be unchanged, got %d faces", len(p.faces))
		}
	})
}

func TestBarycentric(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}
	c := mgl64.Vec3{0, 2, 0}

	tests := []struct {
		name    string
		q       mgl64.Vec3
		u, v, w float64
	}{
		{"vertex_a", a, 1, 0, 0},
		{"edge_midpoint", mgl64.Vec3{1, 0, 0}, 0.5, 0.5, 0},
		{"inside", mgl64.Vec3{0.5, 0.5, 0}, 0.5, 0.25, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v, w := barycentric(tt.q, a, b, c)
			if !scalar.EqualWithinAbs(u, tt.u, 1e-12) || !scalar.EqualWithinAbs(v, tt.v, 1e-12) || !scalar.EqualWithinAbs(w, tt.w, 1e-12) {
				t.Errorf("barycentric(%v) = (%v, %v, %v), want (%v, %v, %v)", tt.q, u, v, w, tt.u, tt.v, tt.w)
			}
		})
	}

	t.Run("degenerate_triangle", func(t *testing.T) {
		u, v, w := barycentric(a, a, a, a)
		if u != 1 || v != 0 || w != 0 {
			t.Errorf("expected fallback to vertex a, got (%v, %v, %v)", u, v, w)
		}
	})
}
