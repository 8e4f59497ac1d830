package quantity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Rotation is a 3x3 rotation matrix acting on vectors of one base frame.
// The zero Rotation is unset.
type Rotation struct {
	base *Frame
	m    mgl64.Mat3
	set  bool
}

// orthonormality tolerance for NewRotation
const rotationTolerance = 1e-9

// NewRotation returns the rotation with the given row-major elements. The
// matrix must be orthonormal with determinant +1.
func NewRotation(base *Frame, rows [3][3]float64) (Rotation, error) {
	if base == nil {
		return Rotation{}, fmt.Errorf("rotation base: %w", ErrNotSet)
	}
	m := mgl64.Mat3FromRows(
		mgl64.Vec3(rows[0]),
		mgl64.Vec3(rows[1]),
		mgl64.Vec3(rows[2]),
	)
	if math.Abs(m.Det()-1) > rotationTolerance ||
		!m.Mul3(m.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), rotationTolerance) {
		return Rotation{}, fmt.Errorf("rotation matrix is not a proper rotation: %w", ErrOutOfRange)
	}
	return Rotation{base: base.BaseCartesian(), m: m, set: true}, nil
}

// IdentityRotation returns the identity rotation of base.
func IdentityRotation(base *Frame) Rotation {
	return Rotation{base: base.BaseCartesian(), m: mgl64.Ident3(), set: true}
}

func axisRotation(base *Frame, angle Scalar, fn func(float64) mgl64.Mat3) (Rotation, error) {
	if base == nil {
		return Rotation{}, fmt.Errorf("rotation base: %w", ErrNotSet)
	}
	v, err := angleValue("rotation", angle)
	if err != nil {
		return Rotation{}, err
	}
	return Rotation{base: base.BaseCartesian(), m: fn(v), set: true}, nil
}

// RotationX rotates vectors counter-clockwise by angle about the X axis.
func RotationX(base *Frame, angle Scalar) (Rotation, error) {
	return axisRotation(base, angle, mgl64.Rotate3DX)
}

// RotationY rotates vectors counter-clockwise by angle about the Y axis.
func RotationY(base *Frame, angle Scalar) (Rotation, error) {
	return axisRotation(base, angle, mgl64.Rotate3DY)
}

// RotationZ rotates vectors counter-clockwise by angle about the Z axis.
func RotationZ(base *Frame, angle Scalar) (Rotation, error) {
	return axisRotation(base, angle, mgl64.Rotate3DZ)
}

// RotationAboutAxis rotates vectors by angle about axis, right-handed. The
// rotation is bound to the base frame of axis.
func RotationAboutAxis(axis Vector, angle Scalar) (Rotation, error) {
	if !axis.set {
		return Rotation{}, fmt.Errorf("rotation axis: %w", ErrNotSet)
	}
	n := axis.c.Norm()
	if n == 0 {
		return Rotation{}, opError("rotation axis", ErrDivideByZero, axis.kind)
	}
	v, err := angleValue("rotation", angle)
	if err != nil {
		return Rotation{}, err
	}
	u := axis.c.Mul(1 / n)
	q := mgl64.QuatRotate(v, mgl64.Vec3{u.X, u.Y, u.Z})
	m := mgl64.Mat3FromCols(
		q.Rotate(mgl64.Vec3{1, 0, 0}),
		q.Rotate(mgl64.Vec3{0, 1, 0}),
		q.Rotate(mgl64.Vec3{0, 0, 1}),
	)
	return Rotation{base: axis.base, m: m, set: true}, nil
}

// Base returns the base frame the rotation acts in.
func (r Rotation) Base() *Frame { return r.base }

// IsSet reports whether r holds a matrix.
func (r Rotation) IsSet() bool { return r.set }

// At returns the element at row, col (both 0-based).
func (r Rotation) At(row, col int) (float64, error) {
	if !r.set {
		return 0, fmt.Errorf("rotation: %w", ErrNotSet)
	}
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return 0, fmt.Errorf("rotation element (%d,%d): %w", row, col, ErrOutOfRange)
	}
	return r.m.At(row, col), nil
}

// Rows returns the nine elements, row-major.
func (r Rotation) Rows() ([3][3]float64, error) {
	var out [3][3]float64
	if !r.set {
		return out, fmt.Errorf("rotation: %w", ErrNotSet)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r.m.At(i, j)
		}
	}
	return out, nil
}

// Inverse returns the inverse rotation, which is the transpose.
func (r Rotation) Inverse() (Rotation, error) {
	if !r.set {
		return Rotation{}, fmt.Errorf("rotation: %w", ErrNotSet)
	}
	return Rotation{base: r.base, m: r.m.Transpose(), set: true}, nil
}

// Compose returns the rotation that applies o first and then r.
func (r Rotation) Compose(o Rotation) (Rotation, error) {
	if !r.set || !o.set {
		return Rotation{}, fmt.Errorf("rotation: %w", ErrNotSet)
	}
	if r.base != o.base {
		return Rotation{}, fmt.Errorf("compose rotations in %s and %s: %w", r.base, o.base, ErrWrongCoordinateBase)
	}
	return Rotation{base: r.base, m: r.m.Mul3(o.m), set: true}, nil
}

func mulVec(m mgl64.Mat3, v r3.Vector) r3.Vector {
	out := m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}
