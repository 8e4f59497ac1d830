package quantity

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Vector is a triple of same-kind components. The components are stored in
// the Cartesian coordinates of the base frame; frame is the frame that built
// the vector, which differs from base only for non-base frames such as
// spherical ones. The zero Vector is unset.
type Vector struct {
	kind  Kind
	base  *Frame
	frame *Frame
	c     r3.Vector
	set   bool
}

// Kind returns the kind of the components: Length for positions, Speed for
// velocities, Acceleration for accelerations and AngularSpeed for angular
// velocities.
func (v Vector) Kind() Kind { return v.kind }

// Base returns the Cartesian frame the components are defined in.
func (v Vector) Base() *Frame { return v.base }

// Frame returns the frame v is expressed in.
func (v Vector) Frame() *Frame { return v.frame }

// IsSet reports whether v holds components.
func (v Vector) IsSet() bool { return v.set }

// IsZero reports whether v is set and all components are zero.
func (v Vector) IsZero() bool { return v.set && v.c == (r3.Vector{}) }

// Magnitude returns the Euclidean norm of v.
func (v Vector) Magnitude() (Scalar, error) {
	if !v.set {
		return Scalar{}, opError("magnitude", ErrNotSet, v.kind)
	}
	return New(v.kind, v.c.Norm()), nil
}

// Add returns v + o. Both must share kind and base frame.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := sameVectorSpace("add", v, o); err != nil {
		return Vector{}, err
	}
	return v.with(v.c.Add(o.c)), nil
}

// Sub returns v - o. Both must share kind and base frame.
func (v Vector) Sub(o Vector) (Vector, error) {
	if err := sameVectorSpace("subtract", v, o); err != nil {
		return Vector{}, err
	}
	return v.with(v.c.Sub(o.c)), nil
}

// Neg returns -v.
func (v Vector) Neg() (Vector, error) {
	if !v.set {
		return Vector{}, opError("negate", ErrNotSet, v.kind)
	}
	return v.with(v.c.Mul(-1)), nil
}

func (v Vector) String() string {
	if !v.set {
		return "unset " + v.kind.String() + " vector"
	}
	return fmt.Sprintf("%s(%g, %g, %g) %s", v.frame, v.c.X, v.c.Y, v.c.Z, v.kind.Symbol())
}

// with returns a copy of v holding c.
func (v Vector) with(c r3.Vector) Vector {
	v.c = c
	return v
}

func sameBase(op string, v, o Vector) error {
	if !v.set || !o.set {
		return opError(op, ErrNotSet, v.kind, o.kind)
	}
	if v.base != o.base {
		return fmt.Errorf("%s: %s and %s: %w", op, v.base, o.base, ErrWrongCoordinateBase)
	}
	return nil
}

func sameVectorSpace(op string, v, o Vector) error {
	if err := sameBase(op, v, o); err != nil {
		return err
	}
	if v.kind != o.kind {
		return opError(op, ErrUndefinedOperation, v.kind, o.kind)
	}
	return nil
}

// Point is a location in a frame. The zero Point is unset.
type Point struct {
	base  *Frame
	frame *Frame
	c     r3.Vector
	set   bool
}

// Base returns the Cartesian frame the coordinates are defined in.
func (p Point) Base() *Frame { return p.base }

// Frame returns the frame p is expressed in.
func (p Point) Frame() *Frame { return p.frame }

// IsSet reports whether p holds coordinates.
func (p Point) IsSet() bool { return p.set }

// Position returns the position vector from the frame origin to p.
func (p Point) Position() (Vector, error) {
	if !p.set {
		return Vector{}, fmt.Errorf("point: %w", ErrNotSet)
	}
	return Vector{kind: Length, base: p.base, frame: p.frame, c: p.c, set: true}, nil
}

// Sub returns the position vector from o to p.
func (p Point) Sub(o Point) (Vector, error) {
	if !p.set || !o.set {
		return Vector{}, fmt.Errorf("point: %w", ErrNotSet)
	}
	if p.base != o.base {
		return Vector{}, fmt.Errorf("subtract points: %s and %s: %w", p.base, o.base, ErrWrongCoordinateBase)
	}
	return Vector{kind: Length, base: p.base, frame: p.frame, c: p.c.Sub(o.c), set: true}, nil
}

// Translate returns p moved by a position vector.
func (p Point) Translate(d Vector) (Point, error) {
	if !p.set || !d.set {
		return Point{}, fmt.Errorf("point: %w", ErrNotSet)
	}
	if d.kind != Length {
		return Point{}, opError("translate", ErrUndefinedOperation, d.kind)
	}
	if p.base != d.base {
		return Point{}, fmt.Errorf("translate point: %s and %s: %w", p.base, d.base, ErrWrongCoordinateBase)
	}
	p.c = p.c.Add(d.c)
	return p, nil
}

// Distance returns the distance between p and o.
func (p Point) Distance(o Point) (Scalar, error) {
	d, err := p.Sub(o)
	if err != nil {
		return Scalar{}, err
	}
	return d.Magnitude()
}

func (p Point) String() string {
	if !p.set {
		return "unset point"
	}
	return fmt.Sprintf("%s[%g, %g, %g] m", p.frame, p.c.X, p.c.Y, p.c.Z)
}
