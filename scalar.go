package quantity

import (
	"math"
	"strconv"
)

// Scalar is a physical quantity of a given Kind, stored in the canonical unit
// of that kind (meters, seconds, radians, ...). The zero Scalar is an unset
// Number.
type Scalar struct {
	kind  Kind
	value float64
	set   bool
}

// New returns a set scalar of kind k holding v in the canonical unit of k.
func New(k Kind, v float64) Scalar {
	return Scalar{kind: k, value: v, set: true}
}

// Unset returns a scalar of kind k without a value.
func Unset(k Kind) Scalar {
	return Scalar{kind: k}
}

// Num returns a dimensionless number.
func Num(v float64) Scalar { return New(Number, v) }

// Kind returns the kind of s. It is defined for unset scalars too.
func (s Scalar) Kind() Kind { return s.kind }

// IsSet reports whether s holds a value.
func (s Scalar) IsSet() bool { return s.set }

// Value returns the canonical value of s.
func (s Scalar) Value() (float64, error) {
	if !s.set {
		return 0, opError("value", ErrNotSet, s.kind)
	}
	return s.value, nil
}

// SetValue assigns v in the canonical unit and marks s as set.
func (s *Scalar) SetValue(v float64) {
	s.value = v
	s.set = true
}

// Clear removes the value of s, keeping its kind.
func (s *Scalar) Clear() {
	s.value = 0
	s.set = false
}

// Add returns s + o. Both must be set and of the same kind.
func (s Scalar) Add(o Scalar) (Scalar, error) {
	a, b, err := sameKindValues("add", s, o)
	if err != nil {
		return Scalar{}, err
	}
	return New(s.kind, a+b), nil
}

// Sub returns s - o. Both must be set and of the same kind.
func (s Scalar) Sub(o Scalar) (Scalar, error) {
	a, b, err := sameKindValues("subtract", s, o)
	if err != nil {
		return Scalar{}, err
	}
	return New(s.kind, a-b), nil
}

// Neg returns -s.
func (s Scalar) Neg() (Scalar, error) {
	v, err := s.Value()
	if err != nil {
		return Scalar{}, err
	}
	return New(s.kind, -v), nil
}

// Abs returns |s|.
func (s Scalar) Abs() (Scalar, error) {
	v, err := s.Value()
	if err != nil {
		return Scalar{}, err
	}
	return New(s.kind, math.Abs(v)), nil
}

// Compare returns -1, 0 or +1 as s is less than, equal to or greater than o.
func (s Scalar) Compare(o Scalar) (int, error) {
	a, b, err := sameKindValues("compare", s, o)
	if err != nil {
		return 0, err
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

// IsZero reports whether s is set and exactly zero.
func (s Scalar) IsZero() bool { return s.set && s.value == 0 }

func (s Scalar) String() string {
	if !s.set {
		return "unset " + s.kind.String()
	}
	v := strconv.FormatFloat(s.value, 'g', -1, 64)
	if sym := s.kind.Symbol(); sym != "" {
		return v + " " + sym
	}
	return v
}

func sameKindValues(op string, a, b Scalar) (float64, float64, error) {
	if a.kind != b.kind {
		return 0, 0, opError(op, ErrUndefinedOperation, a.kind, b.kind)
	}
	if !a.set || !b.set {
		return 0, 0, opError(op, ErrNotSet, a.kind, b.kind)
	}
	return a.value, b.value, nil
}
