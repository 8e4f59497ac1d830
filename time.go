package quantity

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Time is an absolute instant: whole seconds plus a fraction in [0,1) since
// 1970-01-01T00:00:00 UTC. The zero Time is unset.
type Time struct {
	sec  int64
	frac float64
	set  bool
}

// NewTime returns the instant sec+frac seconds after the epoch. frac may be
// any finite value; it is normalized into [0,1) by carrying into sec. A NaN,
// infinite or out of int64 range frac gives an unset Time.
func NewTime(sec int64, frac float64) Time {
	if !representable(frac) {
		return Time{}
	}
	whole := math.Floor(frac)
	sec += int64(whole)
	frac -= whole
	// frac = -tiny floors to -1 and leaves 1-tiny, which may round to 1
	if frac >= 1 {
		sec++
		frac = 0
	}
	return Time{sec: sec, frac: frac, set: true}
}

// representable reports whether x is finite and its integer part fits an int64.
func representable(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) < math.MaxInt64
}

// FromStdTime converts a time.Time.
func FromStdTime(t time.Time) Time {
	return NewTime(t.Unix(), float64(t.Nanosecond())/1e9)
}

// IsSet reports whether t holds an instant.
func (t Time) IsSet() bool { return t.set }

// Seconds returns the whole and fractional seconds since the epoch.
func (t Time) Seconds() (sec int64, frac float64, err error) {
	if !t.set {
		return 0, 0, fmt.Errorf("time: %w", ErrNotSet)
	}
	return t.sec, t.frac, nil
}

// Std converts t to a UTC time.Time, rounded to the nanosecond.
func (t Time) Std() (time.Time, error) {
	if !t.set {
		return time.Time{}, fmt.Errorf("time: %w", ErrNotSet)
	}
	return time.Unix(t.sec, int64(math.Round(t.frac*1e9))).UTC(), nil
}

// Add returns t shifted by a TimeLength.
func (t Time) Add(d Scalar) (Time, error) {
	if !t.set {
		return Time{}, fmt.Errorf("time: %w", ErrNotSet)
	}
	if d.kind != TimeLength {
		return Time{}, opError("add to time", ErrUndefinedOperation, d.kind)
	}
	v, err := d.Value()
	if err != nil {
		return Time{}, err
	}
	if !representable(v) {
		return Time{}, opError("add to time", ErrOutOfRange, d.kind)
	}
	whole := math.Trunc(v)
	return NewTime(t.sec+int64(whole), t.frac+(v-whole)), nil
}

// Sub returns t-o as a TimeLength.
func (t Time) Sub(o Time) (Scalar, error) {
	if !t.set || !o.set {
		return Scalar{}, fmt.Errorf("time: %w", ErrNotSet)
	}
	return Second.Of(float64(t.sec-o.sec) + (t.frac - o.frac)), nil
}

// Compare returns -1, 0 or +1 as t is before, equal to or after o.
// Unset times compare before set ones.
func (t Time) Compare(o Time) int {
	switch {
	case t.set != o.set:
		if !t.set {
			return -1
		}
		return 1
	case t.sec != o.sec:
		if t.sec < o.sec {
			return -1
		}
		return 1
	case t.frac != o.frac:
		if t.frac < o.frac {
			return -1
		}
		return 1
	}
	return 0
}

func (t Time) Before(o Time) bool { return t.Compare(o) < 0 }
func (t Time) After(o Time) bool  { return t.Compare(o) > 0 }
func (t Time) Equal(o Time) bool  { return t.Compare(o) == 0 }

// JulianDate returns the Julian date of t (UTC).
func (t Time) JulianDate() (float64, error) {
	if !t.set {
		return 0, fmt.Errorf("time: %w", ErrNotSet)
	}
	days := float64(t.sec/86400) + (float64(t.sec%86400)+t.frac)/secondsPerDay
	return julianDateUnixEpoch + days, nil
}

// GMST returns the Greenwich mean sidereal angle at t in [0, 2pi).
func (t Time) GMST() (Scalar, error) {
	jd, err := t.JulianDate()
	if err != nil {
		return Scalar{}, err
	}
	return Radian.Of(restrict(satellite.ThetaG_JD(jd))), nil
}

func (t Time) String() string {
	std, err := t.Std()
	if err != nil {
		return "unset time"
	}
	return std.Format(time.RFC3339Nano)
}
