package quantity

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// unit returns c scaled to length one, failing on a zero vector.
func unit(op string, k Kind, c r3.Vector) (r3.Vector, error) {
	n := c.Norm()
	if n == 0 {
		return r3.Vector{}, opError(op, ErrDivideByZero, k)
	}
	return c.Mul(1 / n), nil
}

// direction binds a unit vector as a one-meter position of v's frame.
func direction(v Vector, c r3.Vector) Vector {
	return Vector{kind: Length, base: v.base, frame: v.frame, c: c, set: true}
}

// Angle returns the angle between v1 and v2 in [0, pi]. The vectors may be of
// different kinds but must share a base frame.
func Angle(v1, v2 Vector) (Scalar, error) {
	if err := sameBase("angle", v1, v2); err != nil {
		return Scalar{}, err
	}
	u1, err := unit("angle", v1.kind, v1.c)
	if err != nil {
		return Scalar{}, err
	}
	u2, err := unit("angle", v2.kind, v2.c)
	if err != nil {
		return Scalar{}, err
	}
	cos := math.Max(-1, math.Min(1, u1.Dot(u2)))
	return Radian.Of(math.Acos(cos)), nil
}

// CrossProductDirection returns the one-meter position vector along v1 x v2.
func CrossProductDirection(v1, v2 Vector) (Vector, error) {
	const op = "cross product direction"
	if err := sameBase(op, v1, v2); err != nil {
		return Vector{}, err
	}
	u1, err := unit(op, v1.kind, v1.c)
	if err != nil {
		return Vector{}, err
	}
	u2, err := unit(op, v2.kind, v2.c)
	if err != nil {
		return Vector{}, err
	}
	// collinear inputs have no cross direction
	c, err := unit(op, Length, u1.Cross(u2))
	if err != nil {
		return Vector{}, err
	}
	return direction(v1, c), nil
}

// OrthogonalDirection returns a one-meter position vector perpendicular to v.
func OrthogonalDirection(v Vector) (Vector, error) {
	const op = "orthogonal direction"
	if !v.set {
		return Vector{}, opError(op, ErrNotSet, v.kind)
	}
	u, err := unit(op, v.kind, v.c)
	if err != nil {
		return Vector{}, err
	}

	// Order the axes zero components first, and solve for the largest
	// component so the division below stays finite.
	comp := [3]float64{u.X, u.Y, u.Z}
	var order [3]int
	n := 0
	for i, x := range comp {
		if x == 0 {
			order[n] = i
			n++
		}
	}
	for i, x := range comp {
		if x != 0 {
			order[n] = i
			n++
		}
	}
	for i := 0; i < 2; i++ {
		if comp[order[i]] != 0 && math.Abs(comp[order[i]]) > math.Abs(comp[order[2]]) {
			order[i], order[2] = order[2], order[i]
		}
	}

	// With the first two coordinates set to 1, the third satisfies the
	// plane equation comp . out = 0.
	var out [3]float64
	out[order[0]] = 1
	out[order[1]] = 1
	out[order[2]] = -(comp[order[0]] + comp[order[1]]) / comp[order[2]]

	c, err := unit(op, Length, r3.Vector{X: out[0], Y: out[1], Z: out[2]})
	if err != nil {
		return Vector{}, illegalState(op, err)
	}
	return direction(v, c), nil
}

// Rotate applies r to v. v must be in r's base frame.
func Rotate(r Rotation, v Vector) (Vector, error) {
	if !r.set {
		return Vector{}, fmt.Errorf("rotate: rotation: %w", ErrNotSet)
	}
	if !v.set {
		return Vector{}, opError("rotate", ErrNotSet, v.kind)
	}
	if r.base != v.base {
		return Vector{}, fmt.Errorf("rotate %s vector by %s rotation: %w", v.base, r.base, ErrWrongCoordinateBase)
	}
	return v.with(mulVec(r.m, v.c)), nil
}

// Dot returns v1 . v2. Each term is a scalar product, so the result kind
// follows the product rules of the component kinds.
func Dot(v1, v2 Vector) (Scalar, error) {
	if err := sameBase("dot", v1, v2); err != nil {
		return Scalar{}, err
	}
	a := [3]float64{v1.c.X, v1.c.Y, v1.c.Z}
	b := [3]float64{v2.c.X, v2.c.Y, v2.c.Z}
	var sum Scalar
	for i := range a {
		term, err := Multiply(New(v1.kind, a[i]), New(v2.kind, b[i]))
		if err != nil {
			return Scalar{}, err
		}
		if i == 0 {
			sum = term
			continue
		}
		if sum, err = sum.Add(term); err != nil {
			return Scalar{}, illegalState("dot", err)
		}
	}
	return sum, nil
}

// Cross returns v1 x v2, of the product kind of the component kinds.
// Cross(a, b) is the negation of Cross(b, a).
func Cross(v1, v2 Vector) (Vector, error) {
	if err := sameBase("cross", v1, v2); err != nil {
		return Vector{}, err
	}
	term := func(p, q, r, s float64) (float64, error) {
		// p*q - r*s
		pq, err := Multiply(New(v1.kind, p), New(v2.kind, q))
		if err != nil {
			return 0, err
		}
		rs, err := Multiply(New(v1.kind, r), New(v2.kind, s))
		if err != nil {
			return 0, err
		}
		d, err := pq.Sub(rs)
		if err != nil {
			return 0, err
		}
		return d.value, nil
	}
	a, b := v1.c, v2.c
	x, err := term(a.Y, b.Z, a.Z, b.Y)
	if err != nil {
		return Vector{}, err
	}
	y, err := term(a.Z, b.X, a.X, b.Z)
	if err != nil {
		return Vector{}, err
	}
	z, err := term(a.X, b.Y, a.Y, b.X)
	if err != nil {
		return Vector{}, err
	}
	k, _ := ProductKind(v1.kind, v2.kind)
	return Vector{kind: k, base: v1.base, frame: v1.frame, c: r3.Vector{X: x, Y: y, Z: z}, set: true}, nil
}

// ScaleVector returns s*v, of the product kind of s and the components of v,
// e.g. a TimeLength times a velocity is a position.
func ScaleVector(s Scalar, v Vector) (Vector, error) {
	if !v.set {
		return Vector{}, opError("scale vector", ErrNotSet, s.kind, v.kind)
	}
	k, ok := ProductKind(s.kind, v.kind)
	if !ok {
		return Vector{}, opError("scale vector", ErrUndefinedOperation, s.kind, v.kind)
	}
	f, err := s.Value()
	if err != nil {
		return Vector{}, err
	}
	return Vector{kind: k, base: v.base, frame: v.frame, c: v.c.Mul(f), set: true}, nil
}
