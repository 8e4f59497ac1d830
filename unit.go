package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a named converter for one Kind: canonical = value * factor.
type Unit struct {
	Kind   Kind
	Name   string
	Symbol string
	factor float64
}

// Of returns a scalar holding v expressed in u.
func (u Unit) Of(v float64) Scalar {
	return New(u.Kind, v*u.factor)
}

// Factor returns the number of canonical units in one u.
func (u Unit) Factor() float64 { return u.factor }

func (u Unit) String() string { return u.Symbol }

// Units. The first unit declared for a kind is its canonical unit.
var (
	Unity   = Unit{Number, "unity", "", 1}
	Percent = Unit{Number, "percent", "%", 0.01}

	Meter        = Unit{Length, "meter", "m", 1}
	Kilometer    = Unit{Length, "kilometer", "km", 1000}
	Centimeter   = Unit{Length, "centimeter", "cm", 0.01}
	Millimeter   = Unit{Length, "millimeter", "mm", 0.001}
	Foot         = Unit{Length, "foot", "ft", metersPerFoot}
	StatuteMile  = Unit{Length, "statute mile", "mi", metersPerStatuteMile}
	NauticalMile = Unit{Length, "nautical mile", "nmi", metersPerNauticalMile}
	EarthRadius  = Unit{Length, "earth radius", "Re", wgs84A}

	Second      = Unit{TimeLength, "second", "s", 1}
	Millisecond = Unit{TimeLength, "millisecond", "ms", 1e-3}
	Microsecond = Unit{TimeLength, "microsecond", "us", 1e-6}
	Minute      = Unit{TimeLength, "minute", "min", secondsPerMinute}
	Hour        = Unit{TimeLength, "hour", "h", secondsPerHour}
	Day         = Unit{TimeLength, "day", "d", secondsPerDay}

	MeterPerSecond     = Unit{Speed, "meter per second", "m/s", 1}
	KilometerPerSecond = Unit{Speed, "kilometer per second", "km/s", 1000}
	KilometerPerHour   = Unit{Speed, "kilometer per hour", "km/h", 1000 / secondsPerHour}
	FootPerSecond      = Unit{Speed, "foot per second", "ft/s", metersPerFoot}
	MilePerHour        = Unit{Speed, "mile per hour", "mph", metersPerStatuteMile / secondsPerHour}
	Knot               = Unit{Speed, "knot", "kn", metersPerNauticalMile / secondsPerHour}

	MeterPerSecond2  = Unit{Acceleration, "meter per second squared", "m/s^2", 1}
	FootPerSecond2   = Unit{Acceleration, "foot per second squared", "ft/s^2", metersPerFoot}
	StandardGravity  = Unit{Acceleration, "standard gravity", "g", standardGravity}
	KilometerPerSec2 = Unit{Acceleration, "kilometer per second squared", "km/s^2", 1000}

	Hertz         = Unit{Frequency, "hertz", "Hz", 1}
	Kilohertz     = Unit{Frequency, "kilohertz", "kHz", 1e3}
	Megahertz     = Unit{Frequency, "megahertz", "MHz", 1e6}
	Gigahertz     = Unit{Frequency, "gigahertz", "GHz", 1e9}
	PerMinute     = Unit{Frequency, "per minute", "1/min", 1 / secondsPerMinute}
	PerHour       = Unit{Frequency, "per hour", "1/h", 1 / secondsPerHour}
	HertzSquared  = Unit{FrequencySquared, "hertz squared", "Hz^2", 1}
	PerMinute2    = Unit{FrequencySquared, "per minute squared", "1/min^2", 1 / (secondsPerMinute * secondsPerMinute)}
	SecondSquared = Unit{TimeLengthSquared, "second squared", "s^2", 1}
	MinuteSquared = Unit{TimeLengthSquared, "minute squared", "min^2", secondsPerMinute * secondsPerMinute}

	Radian     = Unit{AngularLength, "radian", "rad", 1}
	Degree     = Unit{AngularLength, "degree", "deg", deg2rad}
	ArcMinute  = Unit{AngularLength, "arc minute", "arcmin", deg2rad / 60}
	ArcSecond  = Unit{AngularLength, "arc second", "arcsec", deg2rad / 3600}
	Revolution = Unit{AngularLength, "revolution", "rev", twoPi}

	RadianPerSecond     = Unit{AngularSpeed, "radian per second", "rad/s", 1}
	DegreePerSecond     = Unit{AngularSpeed, "degree per second", "deg/s", deg2rad}
	RevolutionPerMinute = Unit{AngularSpeed, "revolution per minute", "rpm", twoPi / secondsPerMinute}
	RevolutionPerDay    = Unit{AngularSpeed, "revolution per day", "rev/d", twoPi / secondsPerDay}
	RadianPerSecond2    = Unit{AngularAcceleration, "radian per second squared", "rad/s^2", 1}
	DegreePerSecond2    = Unit{AngularAcceleration, "degree per second squared", "deg/s^2", deg2rad}

	SquareMeter     = Unit{Area, "square meter", "m^2", 1}
	SquareKilometer = Unit{Area, "square kilometer", "km^2", 1e6}
	SquareFoot      = Unit{Area, "square foot", "ft^2", metersPerFoot * metersPerFoot}
	CubicMeter      = Unit{Volume, "cubic meter", "m^3", 1}
	CubicKilometer  = Unit{Volume, "cubic kilometer", "km^3", 1e9}
	CubicFoot       = Unit{Volume, "cubic foot", "ft^3", metersPerFoot * metersPerFoot * metersPerFoot}
	Liter           = Unit{Volume, "liter", "L", cubicMetersPerLiter}

	CubicMeterPerSecond2     = Unit{AccelerationFlux, "cubic meter per second squared", "m^3/s^2", 1}
	CubicKilometerPerSecond2 = Unit{AccelerationFlux, "cubic kilometer per second squared", "km^3/s^2", 1e9}

	Chance = Unit{Probability, "probability", "p", 1}
)

var allUnits = []Unit{
	Unity, Percent,
	Meter, Kilometer, Centimeter, Millimeter, Foot, StatuteMile, NauticalMile, EarthRadius,
	Second, Millisecond, Microsecond, Minute, Hour, Day,
	MeterPerSecond, KilometerPerSecond, KilometerPerHour, FootPerSecond, MilePerHour, Knot,
	MeterPerSecond2, FootPerSecond2, StandardGravity, KilometerPerSec2,
	Hertz, Kilohertz, Megahertz, Gigahertz, PerMinute, PerHour,
	HertzSquared, PerMinute2, SecondSquared, MinuteSquared,
	Radian, Degree, ArcMinute, ArcSecond, Revolution,
	RadianPerSecond, DegreePerSecond, RevolutionPerMinute, RevolutionPerDay,
	RadianPerSecond2, DegreePerSecond2,
	SquareMeter, SquareKilometer, SquareFoot,
	CubicMeter, CubicKilometer, CubicFoot, Liter,
	CubicMeterPerSecond2, CubicKilometerPerSecond2,
	Chance,
}

// unitsBySymbol is built once from allUnits and never mutated.
var unitsBySymbol = func() map[string]Unit {
	m := make(map[string]Unit, len(allUnits))
	for _, u := range allUnits {
		if u.Symbol != "" {
			m[u.Symbol] = u
		}
	}
	return m
}()

// LookupUnit returns the unit with the given symbol.
func LookupUnit(symbol string) (Unit, error) {
	u, ok := unitsBySymbol[symbol]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	return u, nil
}

// CanonicalUnit returns the canonical unit of k.
func CanonicalUnit(k Kind) Unit {
	for _, u := range allUnits {
		if u.Kind == k {
			return u
		}
	}
	return Unit{Kind: k, Name: k.String(), Symbol: k.Symbol(), factor: 1}
}

// UnitsOf returns the units declared for kind k, canonical unit first.
func UnitsOf(k Kind) []Unit {
	var out []Unit
	for _, u := range allUnits {
		if u.Kind == k {
			out = append(out, u)
		}
	}
	return out
}

// In returns the value of s expressed in u.
func (s Scalar) In(u Unit) (float64, error) {
	if s.kind != u.Kind {
		return 0, opError("convert", ErrUndefinedOperation, s.kind, u.Kind)
	}
	v, err := s.Value()
	if err != nil {
		return 0, err
	}
	return v / u.factor, nil
}

// SetIn assigns v expressed in u. The kind of s must match u.
func (s *Scalar) SetIn(v float64, u Unit) error {
	if s.kind != u.Kind {
		return opError("convert", ErrUndefinedOperation, s.kind, u.Kind)
	}
	s.SetValue(v * u.factor)
	return nil
}

// ParseScalar parses "<number> [unit symbol]", e.g. "12.5 km" or "3".
// A missing symbol yields a Number.
func ParseScalar(text string) (Scalar, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields) > 2 {
		return Scalar{}, fmt.Errorf("parse scalar %q: want \"<number> [unit]\"", text)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Scalar{}, fmt.Errorf("parse scalar %q: %w", text, err)
	}
	if len(fields) == 1 {
		return Num(v), nil
	}
	u, err := LookupUnit(fields[1])
	if err != nil {
		return Scalar{}, fmt.Errorf("parse scalar %q: %w", text, err)
	}
	return u.Of(v), nil
}

// DMS splits an angle into signed degrees, minutes and seconds. The sign is
// carried by the first non-zero field.
func DMS(a Scalar) (deg, min int, sec float64, err error) {
	if a.kind != AngularLength {
		return 0, 0, 0, opError("dms", ErrUndefinedOperation, a.kind)
	}
	v, err := a.Value()
	if err != nil {
		return 0, 0, 0, err
	}
	neg := v < 0
	total := math.Abs(v) * rad2deg
	d := math.Floor(total)
	rem := (total - d) * 60
	m := math.Floor(rem)
	sec = (rem - m) * 60
	deg, min = int(d), int(m)
	if neg {
		switch {
		case deg != 0:
			deg = -deg
		case min != 0:
			min = -min
		default:
			sec = -sec
		}
	}
	return deg, min, sec, nil
}

// FromDMS builds an angle from degrees, minutes and seconds. A negative sign
// on any field makes the whole angle negative.
func FromDMS(deg, min int, sec float64) Scalar {
	neg := deg < 0 || min < 0 || sec < 0
	total := math.Abs(float64(deg)) + math.Abs(float64(min))/60 + math.Abs(sec)/3600
	if neg {
		total = -total
	}
	return Degree.Of(total)
}
