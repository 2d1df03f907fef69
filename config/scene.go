package config

import (
	"fmt"
	"os"

	"github.com/akmonengine/narrowphase"
	"github.com/akmonengine/narrowphase/shape"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Scene lists named shapes and the pairs to test between them.
//
//	shapes:
//	  - name: ground
//	    type: plane
//	    point: [0, 0, 0]
//	    normal: [0, 1, 0]
//	  - name: crate
//	    type: box
//	    half_extents: [0.5, 0.5, 0.5]
//	    position: [0, 0.4, 0]
//	    rotation: {axis: [0, 1, 0], angle_deg: 30}
//	pairs:
//	  - {a: crate, b: ground}
//
// Without a pairs section every two shapes are tested.
type Scene struct {
	Shapes []ShapeConfig `yaml:"shapes"`
	Pairs  []PairConfig  `yaml:"pairs"`
}

// ShapeConfig describes one shape. Which fields apply depends on Type:
// sphere (center, radius), aabb (min, max), capsule (a, b, radius),
// plane (point, normal), box (half_extents) and polyhedron (vertices).
// Boxes and polyhedra are placed with position and rotation.
type ShapeConfig struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Center      []float64       `yaml:"center,omitempty"`
	Radius      float64         `yaml:"radius,omitempty"`
	Min         []float64       `yaml:"min,omitempty"`
	Max         []float64       `yaml:"max,omitempty"`
	A           []float64       `yaml:"a,omitempty"`
	B           []float64       `yaml:"b,omitempty"`
	Point       []float64       `yaml:"point,omitempty"`
	Normal      []float64       `yaml:"normal,omitempty"`
	HalfExtents []float64       `yaml:"half_extents,omitempty"`
	Vertices    [][]float64     `yaml:"vertices,omitempty"`
	Position    []float64       `yaml:"position,omitempty"`
	Rotation    *RotationConfig `yaml:"rotation,omitempty"`
}

// RotationConfig is an axis-angle rotation.
type RotationConfig struct {
	Axis     []float64 `yaml:"axis"`
	AngleDeg float64   `yaml:"angle_deg"`
}

type PairConfig struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Body is a shape with its scene name.
type Body struct {
	Name  string
	Shape shape.Shape
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*Scene, error) {
	scene := &Scene{}
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return scene, nil
}

// Build constructs the shapes and the pairs to test. Names must be unique.
func (s *Scene) Build() ([]Body, []narrowphase.Pair, error) {
	bodies := make([]Body, 0, len(s.Shapes))
	index := make(map[string]int, len(s.Shapes))
	for i, sc := range s.Shapes {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("shape%d", i)
		}
		if _, ok := index[name]; ok {
			return nil, nil, fmt.Errorf("%w: duplicate shape name %q", ErrInvalidConfig, name)
		}
		sh, err := sc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("shape %q: %w", name, err)
		}
		index[name] = len(bodies)
		bodies = append(bodies, Body{Name: name, Shape: sh})
	}

	var pairs []narrowphase.Pair
	if len(s.Pairs) == 0 {
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				pairs = append(pairs, narrowphase.Pair{A: bodies[i].Shape, B: bodies[j].Shape})
			}
		}
		return bodies, pairs, nil
	}

	for _, p := range s.Pairs {
		a, ok := index[p.A]
		if !ok {
			return nil, nil, fmt.Errorf("%w: pair references unknown shape %q", ErrInvalidConfig, p.A)
		}
		b, ok := index[p.B]
		if !ok {
			return nil, nil, fmt.Errorf("%w: pair references unknown shape %q", ErrInvalidConfig, p.B)
		}
		pairs = append(pairs, narrowphase.Pair{A: bodies[a].Shape, B: bodies[b].Shape})
	}
	return bodies, pairs, nil
}

// PairNames returns the shape names of every pair produced by Build, in the same order.
func (s *Scene) PairNames(bodies []Body) [][2]string {
	if len(s.Pairs) > 0 {
		names := make([][2]string, len(s.Pairs))
		for i, p := range s.Pairs {
			names[i] = [2]string{p.A, p.B}
		}
		return names
	}

	var names [][2]string
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			names = append(names, [2]string{bodies[i].Name, bodies[j].Name})
		}
	}
	return names
}

// Build constructs the described shape through the validating shape constructors.
func (sc ShapeConfig) Build() (shape.Shape, error) {
	switch sc.Type {
	case "sphere":
		center, err := vec3("center", sc.Center)
		if err != nil {
			return nil, err
		}
		return shape.NewSphere(center, sc.Radius)
	case "aabb":
		min, err := vec3("min", sc.Min)
		if err != nil {
			return nil, err
		}
		max, err := vec3("max", sc.Max)
		if err != nil {
			return nil, err
		}
		return shape.NewAABB(min, max)
	case "capsule":
		a, err := vec3("a", sc.A)
		if err != nil {
			return nil, err
		}
		b, err := vec3("b", sc.B)
		if err != nil {
			return nil, err
		}
		return shape.NewCapsule(a, b, sc.Radius)
	case "plane":
		point, err := vec3("point", sc.Point)
		if err != nil {
			return nil, err
		}
		normal, err := vec3("normal", sc.Normal)
		if err != nil {
			return nil, err
		}
		return shape.NewPlane(point, normal)
	case "box":
		half, err := vec3("half_extents", sc.HalfExtents)
		if err != nil {
			return nil, err
		}
		box, err := shape.NewBox(half)
		if err != nil {
			return nil, err
		}
		return sc.place(box)
	case "polyhedron":
		vertices := make([]mgl64.Vec3, len(sc.Vertices))
		for i, v := range sc.Vertices {
			p, err := vec3(fmt.Sprintf("vertices[%d]", i), v)
			if err != nil {
				return nil, err
			}
			vertices[i] = p
		}
		hull, err := shape.NewPolyhedron(vertices)
		if err != nil {
			return nil, err
		}
		return sc.place(hull)
	}
	return nil, fmt.Errorf("%w: unknown shape type %q", ErrInvalidConfig, sc.Type)
}

func (sc ShapeConfig) place(p shape.Polyhedron) (shape.Shape, error) {
	position := mgl64.Vec3{}
	if sc.Position != nil {
		var err error
		if position, err = vec3("position", sc.Position); err != nil {
			return nil, err
		}
	}

	rotation := mgl64.QuatIdent()
	if sc.Rotation != nil {
		axis, err := vec3("rotation.axis", sc.Rotation.Axis)
		if err != nil {
			return nil, err
		}
		if axis.Len() < shape.Epsilon {
			return nil, fmt.Errorf("%w: rotation axis has zero length", ErrInvalidConfig)
		}
		rotation = mgl64.QuatRotate(mgl64.DegToRad(sc.Rotation.AngleDeg), axis.Normalize())
	}

	return shape.Posed{Polyhedron: p, Transform: shape.NewTransformQuat(rotation, position)}, nil
}

func vec3(field string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidConfig, field, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
