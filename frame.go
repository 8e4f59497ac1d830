package quantity

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Frame is a named Cartesian reference frame. Frames are compared by
// pointer identity and never change after construction.
//
// Every base frame knows how to move kinematic state to and from the hub
// frame ECR, so converting between any two frames takes two hops: source to
// ECR, then ECR to target. Non-base frames (see NewSphericalFrame) hold no
// link of their own and delegate to their Cartesian base.
type Frame struct {
	name string
	base *Frame
	link hubLink
}

// hubLink moves state between a base frame and ECR at an instant.
type hubLink interface {
	toECR(t Time, s kinematics) (kinematics, error)
	fromECR(t Time, s kinematics) (kinematics, error)
	// timeDependent reports whether the link reads t.
	timeDependent() bool
}

// kinematics is the state carried through a conversion. order is the number
// of valid tiers: 1 position, 2 position and velocity, 3 all three.
type kinematics struct {
	r, v, a r3.Vector
	order   int
}

// Name returns the frame name.
func (f *Frame) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

func (f *Frame) String() string {
	if f == nil {
		return "<nil frame>"
	}
	return f.name
}

// IsBase reports whether f is a Cartesian base frame.
func (f *Frame) IsBase() bool { return f != nil && f.base == nil }

// BaseCartesian returns f for base frames and the underlying Cartesian frame
// otherwise.
func (f *Frame) BaseCartesian() *Frame {
	if f == nil || f.base == nil {
		return f
	}
	return f.base
}

// NewVector returns a vector of kind k with the given components, bound to f.
// All three components must be set and of kind k.
func (f *Frame) NewVector(k Kind, x, y, z Scalar) (Vector, error) {
	if !k.Valid() {
		return Vector{}, fmt.Errorf("vector kind %d: %w", int(k), ErrUndefinedOperation)
	}
	var c [3]float64
	for i, s := range [3]Scalar{x, y, z} {
		if s.kind != k {
			return Vector{}, opError(k.String()+" vector", ErrUndefinedOperation, s.kind)
		}
		if !s.set {
			return Vector{}, opError(k.String()+" vector", ErrNotSet, s.kind)
		}
		c[i] = s.value
	}
	return f.bind(k, r3.Vector{X: c[0], Y: c[1], Z: c[2]}), nil
}

// Position returns a Length vector bound to f.
func (f *Frame) Position(x, y, z Scalar) (Vector, error) { return f.NewVector(Length, x, y, z) }

// Velocity returns a Speed vector bound to f.
func (f *Frame) Velocity(x, y, z Scalar) (Vector, error) { return f.NewVector(Speed, x, y, z) }

// Acceleration returns an Acceleration vector bound to f.
func (f *Frame) Acceleration(x, y, z Scalar) (Vector, error) {
	return f.NewVector(Acceleration, x, y, z)
}

// AngularVelocity returns an AngularSpeed vector bound to f.
func (f *Frame) AngularVelocity(x, y, z Scalar) (Vector, error) {
	return f.NewVector(AngularSpeed, x, y, z)
}

// ZeroPosition returns the origin of f as a position vector.
func (f *Frame) ZeroPosition() Vector { return f.bind(Length, r3.Vector{}) }

// ZeroVelocity returns a zero velocity bound to f.
func (f *Frame) ZeroVelocity() Vector { return f.bind(Speed, r3.Vector{}) }

// ZeroAcceleration returns a zero acceleration bound to f.
func (f *Frame) ZeroAcceleration() Vector { return f.bind(Acceleration, r3.Vector{}) }

// ZeroAngularVelocity returns a zero angular velocity bound to f.
func (f *Frame) ZeroAngularVelocity() Vector { return f.bind(AngularSpeed, r3.Vector{}) }

// Point returns the point with coordinates x, y, z in f.
func (f *Frame) Point(x, y, z Scalar) (Point, error) {
	v, err := f.Position(x, y, z)
	if err != nil {
		return Point{}, err
	}
	return f.PointAt(v)
}

// PointAt returns the point at the tip of a position vector of f's base.
func (f *Frame) PointAt(v Vector) (Point, error) {
	if !v.set {
		return Point{}, fmt.Errorf("point: %w", ErrNotSet)
	}
	if v.kind != Length {
		return Point{}, opError("point", ErrUndefinedOperation, v.kind)
	}
	if v.base != f.BaseCartesian() {
		return Point{}, fmt.Errorf("point in %s from %s vector: %w", f, v.base, ErrWrongCoordinateBase)
	}
	return Point{base: v.base, frame: f, c: v.c, set: true}, nil
}

func (f *Frame) bind(k Kind, c r3.Vector) Vector {
	return Vector{kind: k, base: f.BaseCartesian(), frame: f, c: c, set: true}
}

// XComponent returns the x component of v, which must share f's base.
func (f *Frame) XComponent(v Vector) (Scalar, error) { return f.component(v, 0) }

// YComponent returns the y component of v, which must share f's base.
func (f *Frame) YComponent(v Vector) (Scalar, error) { return f.component(v, 1) }

// ZComponent returns the z component of v, which must share f's base.
func (f *Frame) ZComponent(v Vector) (Scalar, error) { return f.component(v, 2) }

// X1 returns the first Cartesian coordinate of p in f's base.
func (f *Frame) X1(p Point) (Scalar, error) { return f.coordinate(p, 0) }

// X2 returns the second Cartesian coordinate of p in f's base.
func (f *Frame) X2(p Point) (Scalar, error) { return f.coordinate(p, 1) }

// X3 returns the third Cartesian coordinate of p in f's base.
func (f *Frame) X3(p Point) (Scalar, error) { return f.coordinate(p, 2) }

func (f *Frame) component(v Vector, i int) (Scalar, error) {
	if !v.set {
		return Scalar{}, opError("component", ErrNotSet, v.kind)
	}
	if v.base != f.BaseCartesian() {
		return Scalar{}, fmt.Errorf("component in %s of %s vector: %w", f, v.base, ErrWrongCoordinateBase)
	}
	return New(v.kind, axis(v.c, i)), nil
}

func (f *Frame) coordinate(p Point, i int) (Scalar, error) {
	if !p.set {
		return Scalar{}, fmt.Errorf("coordinate: %w", ErrNotSet)
	}
	if p.base != f.BaseCartesian() {
		return Scalar{}, fmt.Errorf("coordinate in %s of %s point: %w", f, p.base, ErrWrongCoordinateBase)
	}
	return New(Length, axis(p.c, i)), nil
}

func axis(c r3.Vector, i int) float64 {
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	}
	return c.Z
}

// ConvertPosition returns the position v expressed in f at t. t may be unset
// when neither frame depends on time.
func (f *Frame) ConvertPosition(v Vector, t Time) (Vector, error) {
	if err := checkVector("convert position", v, Length); err != nil {
		return Vector{}, err
	}
	out, err := f.convert(v.base, t, kinematics{r: v.c, order: 1})
	if err != nil {
		return Vector{}, err
	}
	return f.bind(Length, out.r), nil
}

// ConvertPoint returns p expressed in f at t.
func (f *Frame) ConvertPoint(p Point, t Time) (Point, error) {
	if !p.set {
		return Point{}, fmt.Errorf("convert point: %w", ErrNotSet)
	}
	out, err := f.convert(p.base, t, kinematics{r: p.c, order: 1})
	if err != nil {
		return Point{}, err
	}
	return Point{base: f.BaseCartesian(), frame: f, c: out.r, set: true}, nil
}

// ConvertPosVel returns pos and vel expressed in f at t. The velocity is
// evaluated at pos, so rotating frames add their transport terms.
func (f *Frame) ConvertPosVel(pos, vel Vector, t Time) (Vector, Vector, error) {
	if err := checkVector("convert velocity", pos, Length); err != nil {
		return Vector{}, Vector{}, err
	}
	if err := checkVector("convert velocity", vel, Speed); err != nil {
		return Vector{}, Vector{}, err
	}
	if pos.base != vel.base {
		return Vector{}, Vector{}, fmt.Errorf("convert velocity: position in %s, velocity in %s: %w",
			pos.base, vel.base, ErrWrongCoordinateBase)
	}
	out, err := f.convert(pos.base, t, kinematics{r: pos.c, v: vel.c, order: 2})
	if err != nil {
		return Vector{}, Vector{}, err
	}
	return f.bind(Length, out.r), f.bind(Speed, out.v), nil
}

// ConvertPosVelAccel returns pos, vel and acc expressed in f at t.
func (f *Frame) ConvertPosVelAccel(pos, vel, acc Vector, t Time) (Vector, Vector, Vector, error) {
	const op = "convert acceleration"
	if err := checkVector(op, pos, Length); err != nil {
		return Vector{}, Vector{}, Vector{}, err
	}
	if err := checkVector(op, vel, Speed); err != nil {
		return Vector{}, Vector{}, Vector{}, err
	}
	if err := checkVector(op, acc, Acceleration); err != nil {
		return Vector{}, Vector{}, Vector{}, err
	}
	if pos.base != vel.base || pos.base != acc.base {
		return Vector{}, Vector{}, Vector{}, fmt.Errorf("%s: position in %s, velocity in %s, acceleration in %s: %w",
			op, pos.base, vel.base, acc.base, ErrWrongCoordinateBase)
	}
	out, err := f.convert(pos.base, t, kinematics{r: pos.c, v: vel.c, a: acc.c, order: 3})
	if err != nil {
		return Vector{}, Vector{}, Vector{}, err
	}
	return f.bind(Length, out.r), f.bind(Speed, out.v), f.bind(Acceleration, out.a), nil
}

func checkVector(op string, v Vector, k Kind) error {
	if !v.set {
		return opError(op, ErrNotSet, v.kind)
	}
	if v.kind != k {
		return opError(op, ErrUndefinedOperation, v.kind)
	}
	return nil
}

// convert moves s from the base frame src into f's base through ECR.
func (f *Frame) convert(src *Frame, t Time, s kinematics) (kinematics, error) {
	dst := f.BaseCartesian()
	if dst == nil || src == nil {
		return kinematics{}, fmt.Errorf("convert: frame: %w", ErrNotSet)
	}
	if src == dst {
		return s, nil
	}
	if (src.link.timeDependent() || dst.link.timeDependent()) && !t.IsSet() {
		return kinematics{}, fmt.Errorf("convert %s to %s: time: %w", src, dst, ErrNotSet)
	}
	hub, err := src.link.toECR(t, s)
	if err != nil {
		return kinematics{}, illegalState("convert "+src.name+" to ECR", err)
	}
	out, err := dst.link.fromECR(t, hub)
	if err != nil {
		return kinematics{}, illegalState("convert ECR to "+dst.name, err)
	}
	return out, nil
}
