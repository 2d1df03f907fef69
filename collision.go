// Package narrowphase runs the collision queries of the collide package over batches of
// shape pairs handed over by a broad phase.
package narrowphase

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/akmonengine/narrowphase/collide"
	"github.com/akmonengine/narrowphase/epa"
	"github.com/akmonengine/narrowphase/gjk"
	"github.com/akmonengine/narrowphase/shape"
)

const DEFAULT_WORKERS = 1

// ErrUnsupportedPair is returned for shape combinations without a query, e.g. two planes.
var ErrUnsupportedPair = errors.New("unsupported shape pair")

// Pair is a candidate pair produced by a broad phase.
type Pair struct {
	A shape.Shape
	B shape.Shape
}

// Contact is a colliding pair. Index refers to the position of the pair in the batch
// passed to Detect.
type Contact struct {
	Index    int
	Pair     Pair
	Manifold collide.Manifold
}

// Options configure a Detector.
type Options struct {
	Collide collide.Options
	Workers int
	// Logger receives warnings about pairs that did not converge. Nil discards them.
	Logger *slog.Logger
}

// Detector dispatches shape pairs to the matching narrow-phase query.
// It holds no per-query state and is safe for concurrent use.
type Detector struct {
	options Options
	logger  *slog.Logger
}

func NewDetector(options Options) *Detector {
	options.Workers = max(DEFAULT_WORKERS, options.Workers)
	if options.Collide.MaxIterations <= 0 {
		options.Collide.MaxIterations = gjk.DefaultMaxIterations
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{options: options, logger: logger}
}

type outcome struct {
	manifold collide.Manifold
	hit      bool
	err      error
}

// Detect tests every pair and returns the colliding ones in input order.
//
// Pairs whose iterative query ran out of iterations keep their best-effort contact and
// are logged at warn level. Unsupported pairs are logged and skipped.
func (d *Detector) Detect(pairs []Pair) []Contact {
	outcomes := make([]outcome, len(pairs))
	task(d.options.Workers, pairs, func(i int, pair Pair) {
		m, hit, err := d.Collide(pair.A, pair.B)
		outcomes[i] = outcome{manifold: m, hit: hit, err: err}
	})

	contacts := make([]Contact, 0)
	for i, o := range outcomes {
		if o.err != nil {
			if !d.logOutcome(i, pairs[i], o.err) {
				continue
			}
		}
		if o.hit {
			contacts = append(contacts, Contact{Index: i, Pair: pairs[i], Manifold: o.manifold})
		}
	}
	return contacts
}

// logOutcome reports the error of pair i and whether its result is still usable.
func (d *Detector) logOutcome(i int, pair Pair, err error) bool {
	attrs := []any{"pair", i, "a", kindOf(pair.A), "b", kindOf(pair.B), "error", err}
	if errors.Is(err, gjk.ErrNotConverged) || errors.Is(err, epa.ErrNotConverged) || errors.Is(err, epa.ErrDegenerate) {
		d.logger.Warn("narrow phase query degraded", attrs...)
		return true
	}
	d.logger.Error("narrow phase query failed", attrs...)
	return false
}

// Collide computes the contact manifold of a single pair. The manifold normal points
// from a toward b whatever the order of the arguments.
func (d *Detector) Collide(a, b shape.Shape) (collide.Manifold, bool, error) {
	a, b = pose(a), pose(b)
	ra, rb := rank(a), rank(b)
	if ra < 0 || rb < 0 {
		return collide.Manifold{}, false, unsupported(a, b)
	}
	if err := validate(a, b); err != nil {
		return collide.Manifold{}, false, err
	}
	if ra > rb {
		m, hit, err := d.collide(b, a)
		return m.Flip(), hit, err
	}
	return d.collide(a, b)
}

// Intersect answers the boolean question only, which skips manifold construction and EPA.
func (d *Detector) Intersect(a, b shape.Shape) (bool, error) {
	a, b = pose(a), pose(b)
	ra, rb := rank(a), rank(b)
	if ra < 0 || rb < 0 {
		return false, unsupported(a, b)
	}
	if err := validate(a, b); err != nil {
		return false, err
	}
	if ra > rb {
		a, b = b, a
	}

	o := d.options.Collide
	switch a := a.(type) {
	case shape.Posed:
		switch b := b.(type) {
		case shape.Posed:
			res, err := o.PolyhedronPolyhedronTransformed(a.Polyhedron, a.Transform, b.Polyhedron, b.Transform)
			return res.Hit, err
		case shape.Sphere:
			res, err := o.PolyhedronSphereTransformed(a.Polyhedron, a.Transform, b)
			return res.Hit, err
		case shape.AABB:
			res, err := o.PolyhedronAABBTransformed(a.Polyhedron, a.Transform, b)
			return res.Hit, err
		case shape.Capsule:
			res, err := o.PolyhedronCapsuleTransformed(a.Polyhedron, a.Transform, b)
			return res.Hit, err
		case shape.Plane:
			return collide.PolyhedronPlane(a, b), nil
		}
	case shape.Sphere:
		switch b := b.(type) {
		case shape.Sphere:
			return collide.SphereSphere(a, b), nil
		case shape.AABB:
			return collide.SphereAABB(a, b), nil
		case shape.Capsule:
			return collide.SphereCapsule(a, b), nil
		case shape.Plane:
			return collide.SpherePlane(a, b), nil
		}
	case shape.AABB:
		switch b := b.(type) {
		case shape.AABB:
			return collide.AABBAABB(a, b), nil
		case shape.Capsule:
			return o.AABBCapsule(a, b)
		case shape.Plane:
			return collide.AABBPlane(a, b), nil
		}
	case shape.Capsule:
		switch b := b.(type) {
		case shape.Capsule:
			return collide.CapsuleCapsule(a, b), nil
		case shape.Plane:
			return collide.CapsulePlane(a, b), nil
		}
	}
	return false, unsupported(a, b)
}

// collide expects rank(a) <= rank(b).
func (d *Detector) collide(a, b shape.Shape) (collide.Manifold, bool, error) {
	o := d.options.Collide
	switch a := a.(type) {
	case shape.Posed:
		switch b := b.(type) {
		case shape.Posed:
			return o.PolyhedronPolyhedronManifold(a, b)
		case shape.Sphere:
			return o.PolyhedronSphereManifold(a, b)
		case shape.AABB:
			return o.PolyhedronAABBManifold(a, b)
		case shape.Capsule:
			return o.PolyhedronCapsuleManifold(a, b)
		case shape.Plane:
			m, hit := collide.PolyhedronPlaneManifold(a, b)
			return m, hit, nil
		}
	case shape.Sphere:
		switch b := b.(type) {
		case shape.Sphere:
			m, hit := collide.SphereSphereManifold(a, b)
			return m, hit, nil
		case shape.AABB:
			m, hit := collide.SphereAABBManifold(a, b)
			return m, hit, nil
		case shape.Capsule:
			m, hit := collide.SphereCapsuleManifold(a, b)
			return m, hit, nil
		case shape.Plane:
			m, hit := collide.SpherePlaneManifold(a, b)
			return m, hit, nil
		}
	case shape.AABB:
		switch b := b.(type) {
		case shape.AABB:
			m, hit := collide.AABBAABBManifold(a, b)
			return m, hit, nil
		case shape.Capsule:
			return o.AABBCapsuleManifold(a, b)
		case shape.Plane:
			m, hit := collide.AABBPlaneManifold(a, b)
			return m, hit, nil
		}
	case shape.Capsule:
		switch b := b.(type) {
		case shape.Capsule:
			m, hit := collide.CapsuleCapsuleManifold(a, b)
			return m, hit, nil
		case shape.Plane:
			m, hit := collide.CapsulePlaneManifold(a, b)
			return m, hit, nil
		}
	}
	return collide.Manifold{}, false, unsupported(a, b)
}

// pose gives world-space polyhedra an identity transform so that both polyhedron
// flavours share one query path.
func pose(s shape.Shape) shape.Shape {
	switch s := s.(type) {
	case shape.Polyhedron:
		return shape.Posed{Polyhedron: s, Transform: shape.NewTransform()}
	case *shape.Polyhedron:
		return shape.Posed{Polyhedron: *s, Transform: shape.NewTransform()}
	case *shape.Posed:
		return *s
	case *shape.Sphere:
		return *s
	case *shape.AABB:
		return *s
	case *shape.Capsule:
		return *s
	case *shape.Plane:
		return *s
	}
	return s
}

// validate rejects polyhedra built without shape.NewPolyhedron, which have no vertex
// to start a support search from.
func validate(shapes ...shape.Shape) error {
	for _, s := range shapes {
		if p, ok := s.(shape.Posed); ok && p.Polyhedron.Len() == 0 {
			return fmt.Errorf("%w: polyhedron has no vertices", shape.ErrInvalidShape)
		}
	}
	return nil
}

// rank orders shapes so that every supported pair has one canonical argument order.
func rank(s shape.Shape) int {
	switch s.(type) {
	case shape.Posed:
		return 0
	case shape.Sphere:
		return 1
	case shape.AABB:
		return 2
	case shape.Capsule:
		return 3
	case shape.Plane:
		return 4
	}
	return -1
}

func kindOf(s shape.Shape) string {
	if s == nil {
		return "nil"
	}
	return s.Kind().String()
}

func unsupported(a, b shape.Shape) error {
	return fmt.Errorf("%w: %s and %s", ErrUnsupportedPair, kindOf(a), kindOf(b))
}
