package shape

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB validates min <= max on every axis.
func NewAABB(min, max mgl64.Vec3) (AABB, error) {
	if !finiteVec(min) || !finiteVec(max) {
		return AABB{}, fmt.Errorf("%w: aabb has non-finite components", ErrInvalidShape)
	}
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			return AABB{}, fmt.Errorf("%w: aabb min %v exceeds max %v on axis %d", ErrInvalidShape, min[i], max[i], i)
		}
	}
	return AABB{Min: min, Max: max}, nil
}

func (AABB) Kind() Kind { return KindAABB }

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap. Touching faces count as overlap.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Corner returns one of the 8 corners. Bit i of index selects Max on axis i.
func (a AABB) Corner(index int) mgl64.Vec3 {
	var c mgl64.Vec3
	for i := 0; i < 3; i++ {
		if index&(1<<i) != 0 {
			c[i] = a.Max[i]
		} else {
			c[i] = a.Min[i]
		}
	}
	return c
}

// SupportIndex returns the corner furthest along direction, encoded as for Corner.
// Zero components pick Min so the result is deterministic.
func (a AABB) SupportIndex(direction mgl64.Vec3) int {
	index := 0
	for i := 0; i < 3; i++ {
		if direction[i] > 0 {
			index |= 1 << i
		}
	}
	return index
}

// Vertices returns the 8 corners as a polyhedron vertex list.
func (a AABB) Vertices() []mgl64.Vec3 {
	vertices := make([]mgl64.Vec3, 8)
	for i := range vertices {
		vertices[i] = a.Corner(i)
	}
	return vertices
}
