package quantity

import (
	"fmt"
	"math"
)

// NewProbability returns a Probability scalar. p must lie in [0,1].
func NewProbability(p float64) (Scalar, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return Scalar{}, fmt.Errorf("probability %v: %w", p, ErrOutOfRange)
	}
	return New(Probability, p), nil
}

// Probability returns the value of a Probability scalar.
func (s Scalar) Probability() (float64, error) {
	if s.kind != Probability {
		return 0, opError("probability", ErrUndefinedOperation, s.kind)
	}
	return s.Value()
}

// Complement returns 1-p for a Probability scalar.
func Complement(p Scalar) (Scalar, error) {
	v, err := p.Probability()
	if err != nil {
		return Scalar{}, err
	}
	return New(Probability, 1-v), nil
}
