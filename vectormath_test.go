package quantity

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
)

func randomVec(rng *rand.Rand, f *Frame, k Kind, scale float64) Vector {
	return vec(f, k, rng.NormFloat64()*scale, rng.NormFloat64()*scale, rng.NormFloat64()*scale)
}

func TestCrossAntiSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pairs := []struct{ a, b Kind }{
		{Length, Length},
		{AngularSpeed, Length},
		{AngularSpeed, Speed},
		{Number, Acceleration},
	}
	for _, p := range pairs {
		for i := 0; i < 100; i++ {
			a := randomVec(rng, ECR, p.a, 1e3)
			b := randomVec(rng, ECR, p.b, 1e3)
			ab, err := Cross(a, b)
			if err != nil {
				t.Fatalf("Cross(%v, %v) error: %v", p.a, p.b, err)
			}
			ba, err := Cross(b, a)
			if err != nil {
				t.Fatalf("Cross(%v, %v) error: %v", p.b, p.a, err)
			}
			if ab.c != ba.c.Mul(-1) || ab.Kind() != ba.Kind() {
				t.Errorf("Cross(a, b) = %v, Cross(b, a) = %v", ab, ba)
			}
		}
	}
}

func TestCrossKinds(t *testing.T) {
	omega := vec(ECR, AngularSpeed, 0, 0, EarthRotationRate)
	r := vec(ECR, Length, 6378137, 0, 0)
	v, err := Cross(omega, r)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != Speed || !closeVec(v.c, r3.Vector{Y: EarthRotationRate * 6378137}, 1e-12) {
		t.Errorf("omega x r = %v, want %g m/s along Y", v, EarthRotationRate*6378137)
	}
	area, err := Cross(vec(ECR, Length, 2, 0, 0), vec(ECR, Length, 0, 3, 0))
	if err != nil || area.Kind() != Area || area.c != (r3.Vector{Z: 6}) {
		t.Errorf("x x y = %v, %v", area, err)
	}
	if _, err := Cross(vec(ECR, Speed, 1, 0, 0), vec(ECR, Speed, 0, 1, 0)); !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("speed x speed error = %v, want ErrUndefinedOperation", err)
	}
	if _, err := Cross(vec(ECR, Length, 1, 0, 0), vec(ECI, Length, 0, 1, 0)); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("cross across frames error = %v", err)
	}
}

func TestDot(t *testing.T) {
	d, err := Dot(vec(ECR, Length, 1, 2, 3), vec(ECR, Length, 4, -5, 6))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != Area || d.value != 12 {
		t.Errorf("Dot = %v, want 12 m^2", d)
	}
	w, err := Dot(vec(ECR, Speed, 1, 1, 0), vec(ECR, Frequency, 2, 3, 4))
	if err != nil || w.Kind() != Acceleration || w.value != 5 {
		t.Errorf("speed . frequency = %v, %v", w, err)
	}
	if _, err := Dot(vec(ECR, Speed, 1, 0, 0), vec(ECR, Speed, 1, 0, 0)); !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("speed . speed error = %v, want ErrUndefinedOperation", err)
	}
	if _, err := Dot(Vector{}, vec(ECR, Length, 1, 0, 0)); !errors.Is(err, ErrNotSet) {
		t.Errorf("unset dot error = %v", err)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b r3.Vector
		want float64
	}{
		{"right angle", r3.Vector{X: 1}, r3.Vector{Y: 2}, math.Pi / 2},
		{"same direction", r3.Vector{X: 0.1, Y: 0.7, Z: 0.3}, r3.Vector{X: 0.1, Y: 0.7, Z: 0.3}, 0},
		{"opposite", r3.Vector{X: 0.1, Y: 0.7, Z: 0.3}, r3.Vector{X: -0.1, Y: -0.7, Z: -0.3}, math.Pi},
		{"scaled parallel", r3.Vector{X: 1e-3, Y: 3, Z: 7}, r3.Vector{X: 3e-3, Y: 9, Z: 21}, 0},
		{"45 degrees", r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1}, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Angle(vec(ECI, Length, tt.a.X, tt.a.Y, tt.a.Z), vec(ECI, Speed, tt.b.X, tt.b.Y, tt.b.Z))
			if err != nil {
				t.Fatal(err)
			}
			if math.IsNaN(got.value) || math.Abs(got.value-tt.want) > 1e-7 {
				t.Errorf("Angle = %g, want %g", got.value, tt.want)
			}
		})
	}
}

func TestAngleClamps(t *testing.T) {
	// Nearly parallel unit vectors whose dot product rounds above one.
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		v := randomVec(rng, ECR, Length, 1)
		a, err := Angle(v, v)
		if err != nil {
			t.Fatal(err)
		}
		if a.value != 0 && (math.IsNaN(a.value) || a.value > 1e-7) {
			t.Fatalf("Angle(v, v) = %g", a.value)
		}
		n, _ := v.Neg()
		b, err := Angle(v, n)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsNaN(b.value) || math.Abs(b.value-math.Pi) > 1e-7 {
			t.Fatalf("Angle(v, -v) = %g", b.value)
		}
	}
}

func TestAngleErrors(t *testing.T) {
	if _, err := Angle(ECR.ZeroPosition(), vec(ECR, Length, 1, 0, 0)); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("zero vector error = %v, want ErrDivideByZero", err)
	}
	if _, err := Angle(vec(ECI, Length, 1, 0, 0), vec(ECR, Length, 1, 0, 0)); !errors.Is(err, ErrWrongCoordinateBase) {
		t.Errorf("cross-frame error = %v, want ErrWrongCoordinateBase", err)
	}
}

func TestCrossProductDirection(t *testing.T) {
	d, err := CrossProductDirection(vec(ECR, Speed, 3, 0, 0), vec(ECR, Length, 0, 0.5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != Length || !closeVec(d.c, r3.Vector{Z: 1}, 1e-15) {
		t.Errorf("direction = %v, want 1 m along Z", d)
	}
	tests := []struct {
		name string
		a, b Vector
		want error
	}{
		{"collinear", vec(ECR, Length, 1, 2, 3), vec(ECR, Length, -2, -4, -6), ErrDivideByZero},
		{"zero", ECR.ZeroPosition(), vec(ECR, Length, 1, 0, 0), ErrDivideByZero},
		{"frames", vec(ECI, Length, 1, 0, 0), vec(ECR, Length, 0, 1, 0), ErrWrongCoordinateBase},
	}
	for _, tt := range tests {
		if _, err := CrossProductDirection(tt.a, tt.b); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestOrthogonalDirection(t *testing.T) {
	inputs := []r3.Vector{
		{X: 1},
		{Y: -2},
		{Z: 3},
		{X: 1, Y: 1},
		{Y: 4, Z: -1},
		{X: 1, Y: 2, Z: 3},
		{X: -1e-9, Y: 5e8, Z: 2},
		{X: 1, Y: 1, Z: 1e-310},
		{X: 1e-310, Y: -3},
	}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		inputs = append(inputs, randomVec(rng, ECR, Length, 1e4).c)
	}
	for _, in := range inputs {
		v := vec(ECR, Speed, in.X, in.Y, in.Z)
		o, err := OrthogonalDirection(v)
		if err != nil {
			t.Fatalf("OrthogonalDirection(%v) error: %v", in, err)
		}
		if math.Abs(o.c.Norm()-1) > 1e-12 {
			t.Errorf("|OrthogonalDirection(%v)| = %g", in, o.c.Norm())
		}
		if dot := o.c.Dot(in.Normalize()); math.Abs(dot) > 1e-12 {
			t.Errorf("OrthogonalDirection(%v) . v = %g", in, dot)
		}
		if o.Kind() != Length || o.Base() != ECR {
			t.Errorf("OrthogonalDirection(%v) = %v", in, o)
		}
	}
	if _, err := OrthogonalDirection(ECR.ZeroVelocity()); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("zero vector error = %v, want ErrDivideByZero", err)
	}
}

func TestScaleVector(t *testing.T) {
	p, err := ScaleVector(Minute.Of(1), vec(ECI, Speed, 1, -2, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind() != Length || p.c != (r3.Vector{X: 60, Y: -120, Z: 30}) || p.Base() != ECI {
		t.Errorf("1 min * v = %v", p)
	}
	if _, err := ScaleVector(Meter.Of(1), vec(ECI, Speed, 1, 0, 0)); !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("length * velocity error = %v", err)
	}
	if _, err := ScaleVector(Unset(Number), vec(ECI, Speed, 1, 0, 0)); !errors.Is(err, ErrNotSet) {
		t.Errorf("unset factor error = %v", err)
	}
}
