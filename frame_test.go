package quantity

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/geo/r3"
)

var testEpoch = FromStdTime(time.Date(2024, 6, 21, 4, 30, 0, 0, time.UTC))

func vec(f *Frame, k Kind, x, y, z float64) Vector {
	return f.bind(k, r3.Vector{X: x, Y: y, Z: z})
}

func closeVec(a, b r3.Vector, tol float64) bool {
	return a.Sub(b).Norm() <= tol*math.Max(1, math.Max(a.Norm(), b.Norm()))
}

func TestFrameConstructors(t *testing.T) {
	v, err := ECR.Position(Kilometer.Of(1), Meter.Of(2), Foot.Of(0))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != Length || v.Base() != ECR || v.Frame() != ECR {
		t.Errorf("Position = %v bound to %v/%v", v, v.Base(), v.Frame())
	}
	x, err := ECR.XComponent(v)
	if err != nil || x.value != 1000 {
		t.Errorf("XComponent = %v, %v", x, err)
	}
	y, _ := ECR.YComponent(v)
	z, _ := ECR.ZComponent(v)
	if y.value != 2 || z.value != 0 {
		t.Errorf("components = %v, %v", y, z)
	}

	tests := []struct {
		name string
		fn   func() (Vector, error)
		want error
	}{
		{"velocity from lengths", func() (Vector, error) {
			return ECR.Velocity(Meter.Of(1), Meter.Of(1), Meter.Of(1))
		}, ErrUndefinedOperation},
		{"unset component", func() (Vector, error) {
			return ECI.Acceleration(MeterPerSecond2.Of(1), Unset(Acceleration), MeterPerSecond2.Of(1))
		}, ErrNotSet},
		{"mixed components", func() (Vector, error) {
			return ECI.AngularVelocity(RadianPerSecond.Of(1), RadianPerSecond.Of(1), Hertz.Of(1))
		}, ErrUndefinedOperation},
		{"invalid kind", func() (Vector, error) {
			return ECR.NewVector(Kind(-1), Meter.Of(1), Meter.Of(1), Meter.Of(1))
		}, ErrUndefinedOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	for _, z := range []Vector{ECI.ZeroPosition(), ECI.ZeroVelocity(), ECI.ZeroAcceleration(), ECI.ZeroAngularVelocity()} {
		if !z.IsZero() || z.Base() != ECI {
			t.Errorf("zero vector %v", z)
		}
	}
}

func TestComponentAccessorsCheckBase(t *testing.T) {
	v := vec(ECI, Length, 1, 2, 3)
	if _, err := ECR.XComponent(v); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("XComponent error = %v, want ErrWrongCoordinateBase", err)
	}
	p, err := ECI.PointAt(v)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ECR.X2(p); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("X2 error = %v, want ErrWrongCoordinateBase", err)
	}
	if x3, err := ECI.X3(p); err != nil || x3.value != 3 {
		t.Errorf("X3 = %v, %v", x3, err)
	}
	if _, err := ECR.PointAt(v); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("PointAt error = %v, want ErrWrongCoordinateBase", err)
	}
	if _, err := ECI.PointAt(Vector{}); !errors.Is(err, ErrNotSet) {
		t.Errorf("PointAt(unset) error = %v, want ErrNotSet", err)
	}
}

func TestConvertIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, f := range []*Frame{ECR, ECI} {
		for i := 0; i < 20; i++ {
			v := vec(f, Length, rng.NormFloat64()*7e6, rng.NormFloat64()*7e6, rng.NormFloat64()*7e6)
			at := NewTime(rng.Int63n(2_000_000_000), rng.Float64())
			got, err := f.ConvertPosition(v, at)
			if err != nil {
				t.Fatal(err)
			}
			if got.c != v.c || got.Frame() != f {
				t.Errorf("%v: identity conversion %v -> %v", f, v, got)
			}
		}
	}
	// identity conversions do not read the time
	if _, err := ECI.ConvertPosition(vec(ECI, Length, 1, 0, 0), Time{}); err != nil {
		t.Errorf("identity with unset time: %v", err)
	}
}

func TestConvertECIToECR(t *testing.T) {
	g, err := testEpoch.GMST()
	if err != nil {
		t.Fatal(err)
	}
	// The ECR X axis points at angle GMST in ECI.
	const r = 7e6
	xECI := vec(ECI, Length, r*math.Cos(g.value), r*math.Sin(g.value), 0)
	got, err := ECR.ConvertPosition(xECI, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if !closeVec(got.c, r3.Vector{X: r}, 1e-12) {
		t.Errorf("ECR position = %v, want (%g, 0, 0)", got, r)
	}
}

func TestConvertRotatingFrameKinematics(t *testing.T) {
	// A point at rest in ECR moves on a circle in ECI.
	const r = 6378137.0
	pos := vec(ECR, Length, r, 0, 0)
	vel := ECR.ZeroVelocity()
	acc := ECR.ZeroAcceleration()
	p, v, a, err := ECI.ConvertPosVelAccel(pos, vel, acc, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if speed := v.c.Norm(); !approx(speed, EarthRotationRate*r, 1e-12) {
		t.Errorf("inertial speed = %g, want %g", speed, EarthRotationRate*r)
	}
	if math.Abs(p.c.Dot(v.c)) > 1e-6*r {
		t.Errorf("velocity not tangential: r.v = %g", p.c.Dot(v.c))
	}
	want := p.c.Mul(-EarthRotationRate * EarthRotationRate)
	if !closeVec(a.c, want, 1e-9) {
		t.Errorf("inertial acceleration = %v, want centripetal %v", a.c, want)
	}
	if p.Frame() != ECI || v.Kind() != Speed || a.Kind() != Acceleration {
		t.Errorf("outputs bound to %v, kinds %v %v", p.Frame(), v.Kind(), a.Kind())
	}
}

func TestConvertRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		pos := vec(ECI, Length, rng.NormFloat64()*7e6, rng.NormFloat64()*7e6, rng.NormFloat64()*7e6)
		vel := vec(ECI, Speed, rng.NormFloat64()*7e3, rng.NormFloat64()*7e3, rng.NormFloat64()*7e3)
		acc := vec(ECI, Acceleration, rng.NormFloat64()*9, rng.NormFloat64()*9, rng.NormFloat64()*9)
		at := NewTime(rng.Int63n(2_000_000_000), rng.Float64())

		p1, v1, a1, err := ECR.ConvertPosVelAccel(pos, vel, acc, at)
		if err != nil {
			t.Fatal(err)
		}
		p2, v2, a2, err := ECI.ConvertPosVelAccel(p1, v1, a1, at)
		if err != nil {
			t.Fatal(err)
		}
		if !closeVec(p2.c, pos.c, 1e-12) || !closeVec(v2.c, vel.c, 1e-9) || !closeVec(a2.c, acc.c, 1e-9) {
			t.Errorf("round trip:\n pos %v -> %v\n vel %v -> %v\n acc %v -> %v", pos, p2, vel, v2, acc, a2)
		}

		pv, vv, err := ECR.ConvertPosVel(pos, vel, at)
		if err != nil {
			t.Fatal(err)
		}
		if pv.c != p1.c || vv.c != v1.c {
			t.Errorf("ConvertPosVel disagrees with ConvertPosVelAccel")
		}
	}
}

func TestConvertTwoHops(t *testing.T) {
	site, err := NewTopocentricFrame("site", Degree.Of(30.6715), Degree.Of(-104.0227), Meter.Of(2070))
	if err != nil {
		t.Fatal(err)
	}
	pos := vec(ECI, Length, 2328970, -5995220, 1719970)
	vel := vec(ECI, Speed, 2912, -983, -7090)

	direct, dv, err := site.ConvertPosVel(pos, vel, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	hp, hv, err := ECR.ConvertPosVel(pos, vel, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	viaHub, vv, err := site.ConvertPosVel(hp, hv, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if !closeVec(direct.c, viaHub.c, 1e-12) || !closeVec(dv.c, vv.c, 1e-12) {
		t.Errorf("direct %v %v, via ECR %v %v", direct, dv, viaHub, vv)
	}
	back, err := ECI.ConvertPosition(direct, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if !closeVec(back.c, pos.c, 1e-12) {
		t.Errorf("site -> ECI = %v, want %v", back, pos)
	}
}

func TestConvertValidation(t *testing.T) {
	pos := vec(ECI, Length, 7e6, 0, 0)
	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"mixed bases", func() error {
			_, _, err := ECR.ConvertPosVel(pos, ECR.ZeroVelocity(), testEpoch)
			return err
		}, ErrWrongCoordinateBase},
		{"mixed acceleration base", func() error {
			_, _, _, err := ECR.ConvertPosVelAccel(pos, ECI.ZeroVelocity(), ECR.ZeroAcceleration(), testEpoch)
			return err
		}, ErrWrongCoordinateBase},
		{"velocity as position", func() error {
			_, err := ECR.ConvertPosition(ECI.ZeroVelocity(), testEpoch)
			return err
		}, ErrUndefinedOperation},
		{"swapped tiers", func() error {
			_, _, err := ECR.ConvertPosVel(ECI.ZeroVelocity(), pos, testEpoch)
			return err
		}, ErrUndefinedOperation},
		{"unset position", func() error {
			_, err := ECR.ConvertPosition(Vector{}, testEpoch)
			return err
		}, ErrNotSet},
		{"unset time", func() error {
			_, err := ECR.ConvertPosition(pos, Time{})
			return err
		}, ErrNotSet},
		{"unset point", func() error {
			_, err := ECR.ConvertPoint(Point{}, testEpoch)
			return err
		}, ErrNotSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// brokenLink fails every hop.
type brokenLink struct{}

var errBroken = errors.New("broken link")

func (brokenLink) toECR(Time, kinematics) (kinematics, error)   { return kinematics{}, errBroken }
func (brokenLink) fromECR(Time, kinematics) (kinematics, error) { return kinematics{}, errBroken }
func (brokenLink) timeDependent() bool                          { return false }

func TestConvertLinkFailureIsIllegalState(t *testing.T) {
	broken := &Frame{name: "broken", link: brokenLink{}}
	_, err := broken.ConvertPosition(vec(ECR, Length, 1, 2, 3), Time{})
	if !errors.Is(err, ErrIllegalState) || !errors.Is(err, errBroken) {
		t.Errorf("error = %v, want ErrIllegalState wrapping the cause", err)
	}
}

func TestConvertPoint(t *testing.T) {
	p, err := ECR.Point(Meter.Of(7e6), Meter.Of(0), Meter.Of(0))
	if err != nil {
		t.Fatal(err)
	}
	q, err := ECI.ConvertPoint(p, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if q.Frame() != ECI || !approx(q.c.Norm(), 7e6, 1e-12) || q.c.Z != 0 {
		t.Errorf("ConvertPoint = %v", q)
	}
	back, err := ECR.ConvertPoint(q, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	d, err := back.Distance(p)
	if err != nil || d.value > 1e-6 {
		t.Errorf("round trip distance = %v, %v", d, err)
	}
}

func TestPointArithmetic(t *testing.T) {
	a, _ := ECR.Point(Meter.Of(1), Meter.Of(2), Meter.Of(3))
	b, _ := ECR.Point(Meter.Of(4), Meter.Of(6), Meter.Of(3))
	d, err := b.Sub(a)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := d.Magnitude(); m.value != 5 {
		t.Errorf("|b-a| = %v, want 5 m", m)
	}
	c, err := a.Translate(d)
	if err != nil {
		t.Fatal(err)
	}
	if c.c != b.c {
		t.Errorf("a + (b-a) = %v, want %v", c, b)
	}
	if _, err := a.Translate(ECR.ZeroVelocity()); !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("Translate by velocity error = %v", err)
	}
	e, _ := ECI.Point(Meter.Of(1), Meter.Of(2), Meter.Of(3))
	if _, err := e.Sub(a); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("Sub across frames error = %v", err)
	}
}

func TestVectorArithmeticChecks(t *testing.T) {
	a := vec(ECR, Speed, 1, 2, 3)
	b := vec(ECR, Speed, -1, 0, 1)
	sum, err := a.Add(b)
	if err != nil || sum.c != (r3.Vector{X: 0, Y: 2, Z: 4}) {
		t.Errorf("Add = %v, %v", sum, err)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.c != (r3.Vector{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Sub = %v, %v", diff, err)
	}
	if _, err := a.Add(vec(ECR, Length, 1, 1, 1)); !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("Add across kinds error = %v", err)
	}
	if _, err := a.Add(vec(ECI, Speed, 1, 1, 1)); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("Add across frames error = %v", err)
	}
	if _, err := (Vector{}).Magnitude(); !errors.Is(err, ErrNotSet) {
		t.Errorf("Magnitude(unset) error = %v", err)
	}
	n, _ := a.Neg()
	if n.c != (r3.Vector{X: -1, Y: -2, Z: -3}) {
		t.Errorf("Neg = %v", n)
	}
}
