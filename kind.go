package quantity

import "fmt"

// Kind identifies the physical dimension of a Scalar. The set of kinds is
// closed; arithmetic between kinds is defined by the tables in scalarmath.go.
type Kind int

const (
	Number              Kind = iota // dimensionless
	Length                          // m
	TimeLength                      // s
	Speed                           // m/s
	Acceleration                    // m/s^2
	Frequency                       // 1/s
	FrequencySquared                // 1/s^2
	AngularLength                   // rad
	AngularSpeed                    // rad/s
	AngularAcceleration             // rad/s^2
	Area                            // m^2
	Volume                          // m^3
	AccelerationFlux                // m^3/s^2
	TimeLengthSquared               // s^2
	Probability                     // [0,1]

	numKinds
)

// dimension holds the exponents of length, time and angle.
type dimension struct {
	l, t, a int
}

type kindInfo struct {
	name   string
	symbol string // canonical unit symbol
	dim    dimension
}

var kinds = [numKinds]kindInfo{
	Number:              {"Number", "", dimension{}},
	Length:              {"Length", "m", dimension{l: 1}},
	TimeLength:          {"TimeLength", "s", dimension{t: 1}},
	Speed:               {"Speed", "m/s", dimension{l: 1, t: -1}},
	Acceleration:        {"Acceleration", "m/s^2", dimension{l: 1, t: -2}},
	Frequency:           {"Frequency", "Hz", dimension{t: -1}},
	FrequencySquared:    {"FrequencySquared", "Hz^2", dimension{t: -2}},
	AngularLength:       {"AngularLength", "rad", dimension{a: 1}},
	AngularSpeed:        {"AngularSpeed", "rad/s", dimension{t: -1, a: 1}},
	AngularAcceleration: {"AngularAcceleration", "rad/s^2", dimension{t: -2, a: 1}},
	Area:                {"Area", "m^2", dimension{l: 2}},
	Volume:              {"Volume", "m^3", dimension{l: 3}},
	AccelerationFlux:    {"AccelerationFlux", "m^3/s^2", dimension{l: 3, t: -2}},
	TimeLengthSquared:   {"TimeLengthSquared", "s^2", dimension{t: 2}},
	Probability:         {"Probability", "", dimension{}},
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Symbol returns the symbol of the canonical unit of k.
func (k Kind) Symbol() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].symbol
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Number; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k := Number; k < numKinds; k++ {
		if kinds[k].name == name {
			return k, nil
		}
	}
	return Number, fmt.Errorf("%w: kind %q", ErrUndefinedOperation, name)
}
