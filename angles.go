package quantity

import "math"

// restrict reduces an angle in radians to [0, 2pi).
func restrict(v float64) float64 {
	v = math.Mod(v, twoPi)
	if v < 0 {
		v += twoPi
	}
	// -tiny + 2pi rounds to 2pi
	if v >= twoPi {
		v = 0
	}
	return v
}

// wrap reduces an angle in radians to [-pi, pi).
func wrap(v float64) float64 {
	v = restrict(v)
	if v >= math.Pi {
		v -= twoPi
	}
	return v
}

// RestrictAngle returns a reduced modulo 2pi into [0, 2pi).
func RestrictAngle(a Scalar) (Scalar, error) {
	v, err := angleValue("restrict", a)
	if err != nil {
		return Scalar{}, err
	}
	return Radian.Of(restrict(v)), nil
}

// WrapAngle returns a reduced into [-pi, pi), as used for longitudes.
func WrapAngle(a Scalar) (Scalar, error) {
	v, err := angleValue("wrap", a)
	if err != nil {
		return Scalar{}, err
	}
	return Radian.Of(wrap(v)), nil
}

// MinimumAngularDistance returns the smallest angle between a1 and a2 on the
// circle. The result lies in [0, pi] and does not depend on argument order.
func MinimumAngularDistance(a1, a2 Scalar) (Scalar, error) {
	v1, err := angleValue("minimum angular distance", a1)
	if err != nil {
		return Scalar{}, err
	}
	v2, err := angleValue("minimum angular distance", a2)
	if err != nil {
		return Scalar{}, err
	}
	v1, v2 = restrict(v1), restrict(v2)
	d := math.Max(v1, v2) - math.Min(v1, v2)
	if d > math.Pi {
		d = restrict(twoPi - d)
	}
	return Radian.Of(d), nil
}

// IsAngleInRange reports whether test is reached before end when sweeping
// from start. Clockwise sweeps go toward increasing angles, as compass
// bearings do; counter-clockwise sweeps go toward decreasing angles. Both
// bounds are inclusive and the sweep may cross the 0/2pi boundary.
func IsAngleInRange(start, end, test Scalar, counterClockwise bool) (bool, error) {
	s, err := angleValue("angle in range", start)
	if err != nil {
		return false, err
	}
	e, err := angleValue("angle in range", end)
	if err != nil {
		return false, err
	}
	t, err := angleValue("angle in range", test)
	if err != nil {
		return false, err
	}
	s, e, t = restrict(s), restrict(e), restrict(t)

	if !counterClockwise {
		if e < s {
			e += twoPi
		}
		if t < s {
			t += twoPi
		}
		return s <= t && t <= e, nil
	}
	if s < e {
		s += twoPi
	}
	if t < e {
		t += twoPi
	}
	return e <= t && t <= s, nil
}
