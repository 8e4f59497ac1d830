package scenario

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/akhenakh/quantity"
	"github.com/akhenakh/quantity/internal/logging"
	"github.com/akhenakh/quantity/internal/observability"
)

// ErrUnknownFrame is returned when a step or frame names a frame that is
// not registered.
var ErrUnknownFrame = errors.New("unknown frame")

// Result is the outcome of one step.
type Result struct {
	Step   string
	Op     string
	Output string
	Err    error
}

// Report collects the results of a scenario run.
type Report struct {
	Name    string
	Results []Result
	Failed  int
}

// OK reports whether every step succeeded.
func (r Report) OK() bool { return r.Failed == 0 }

// Evaluator evaluates steps against a frame registry. It is safe for
// concurrent use when the registry is.
type Evaluator struct {
	reg     *quantity.Registry
	log     logging.Logger
	metrics *observability.Collector
}

// NewEvaluator returns an evaluator over reg. A nil reg gets a fresh
// registry, a nil log drops logs and a nil metrics records nothing.
func NewEvaluator(reg *quantity.Registry, log logging.Logger, metrics *observability.Collector) *Evaluator {
	if reg == nil {
		reg = quantity.NewRegistry()
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Evaluator{reg: reg, log: log, metrics: metrics}
}

// Registry returns the registry the evaluator resolves frame names in.
func (e *Evaluator) Registry() *quantity.Registry { return e.reg }

// AddFrames builds the frames of f in declaration order and registers them.
// A frame may use frames declared before it.
func (e *Evaluator) AddFrames(f *File) error {
	for _, spec := range f.Frames {
		fr, err := e.buildFrame(spec)
		if err != nil {
			return fmt.Errorf("frame %s: %w", spec.Name, err)
		}
		if err := e.reg.Register(fr); err != nil {
			return err
		}
	}
	return nil
}

// Run evaluates every step of f. The frames of f live in a registry scoped
// to this run, so the same file can be run again on one Evaluator. A failing
// step is recorded in the report and evaluation continues; the returned error
// is reserved for frames that cannot be built.
func (e *Evaluator) Run(ctx context.Context, f *File) (Report, error) {
	ctx, log := logging.WithRunLogger(ctx, e.log)
	if f.Name != "" {
		log = log.With(logging.String("scenario", f.Name))
	}
	run := *e
	run.reg = e.reg.Child()
	e = &run
	if err := e.AddFrames(f); err != nil {
		log.Error(ctx, "scenario frames rejected", logging.Err(err))
		return Report{}, err
	}

	rep := Report{Name: f.Name, Results: make([]Result, 0, len(f.Steps))}
	for i, s := range f.Steps {
		if s.Time == "" {
			s.Time = f.Time
		}
		res := Result{Step: s.Label(i), Op: s.Op}
		res.Output, res.Err = e.eval(ctx, log.With(logging.String("step", res.Step)), s)
		if res.Err != nil {
			rep.Failed++
		}
		rep.Results = append(rep.Results, res)
	}
	e.metrics.SetScenarioCounts(len(f.Frames), rep.Failed)
	log.Info(ctx, "scenario evaluated",
		logging.Int("steps", len(f.Steps)),
		logging.Int("failed", rep.Failed),
		logging.Any("frames", e.reg.Names()))
	return rep, nil
}

// Eval evaluates a single step and returns its printable result.
func (e *Evaluator) Eval(ctx context.Context, s Step) (string, error) {
	return e.eval(ctx, e.log, s)
}

func (e *Evaluator) eval(ctx context.Context, log logging.Logger, s Step) (string, error) {
	fn, ok := ops[s.Op]
	if !ok {
		return "", fmt.Errorf("%w: unknown op %q", ErrInvalid, s.Op)
	}
	start := time.Now()
	out, err := fn(e, s)
	e.metrics.Observe(s.Op, start, err)
	if err != nil {
		log.Warn(ctx, "step failed", logging.String("op", s.Op), logging.Err(err))
		return "", err
	}
	log.Debug(ctx, "step evaluated",
		logging.String("op", s.Op),
		logging.String("output", out),
		logging.Float("seconds", time.Since(start).Seconds()))
	return out, nil
}

var ops = map[string]func(*Evaluator, Step) (string, error){
	"mul":      (*Evaluator).mul,
	"div":      (*Evaluator).div,
	"sqrt":     (*Evaluator).sqrt,
	"angdist":  (*Evaluator).angdist,
	"inrange":  (*Evaluator).inrange,
	"convert":  (*Evaluator).convert,
	"look":     (*Evaluator).look,
	"geodetic": (*Evaluator).geodetic,
}

// Ops returns the names of the supported step operations.
func Ops() []string {
	return []string{"mul", "div", "sqrt", "angdist", "inrange", "convert", "look", "geodetic"}
}

func (e *Evaluator) mul(s Step) (string, error) {
	a, b, err := twoArgs(s)
	if err != nil {
		return "", err
	}
	r, err := quantity.Multiply(a, b)
	if err != nil {
		return "", err
	}
	return FormatScalar(r, s.Unit)
}

func (e *Evaluator) div(s Step) (string, error) {
	a, b, err := twoArgs(s)
	if err != nil {
		return "", err
	}
	r, err := quantity.Divide(a, b)
	if err != nil {
		return "", err
	}
	return FormatScalar(r, s.Unit)
}

func (e *Evaluator) sqrt(s Step) (string, error) {
	args, err := scalars(s, 1)
	if err != nil {
		return "", err
	}
	r, err := quantity.Sqrt(args[0])
	if err != nil {
		return "", err
	}
	return FormatScalar(r, s.Unit)
}

func (e *Evaluator) angdist(s Step) (string, error) {
	a, b, err := twoArgs(s)
	if err != nil {
		return "", err
	}
	r, err := quantity.MinimumAngularDistance(a, b)
	if err != nil {
		return "", err
	}
	return FormatScalar(r, s.Unit)
}

func (e *Evaluator) inrange(s Step) (string, error) {
	args, err := scalars(s, 3)
	if err != nil {
		return "", err
	}
	in, err := quantity.IsAngleInRange(args[0], args[1], args[2], s.CCW)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(in), nil
}

func (e *Evaluator) convert(s Step) (string, error) {
	src, dst, t, err := e.endpoints(s)
	if err != nil {
		return "", err
	}
	pos, err := ParseVector(src, s.Pos)
	if err != nil {
		return "", fmt.Errorf("pos: %w", err)
	}
	if s.Vel == "" {
		if s.Acc != "" {
			return "", fmt.Errorf("%w: acc needs vel", ErrInvalid)
		}
		p, err := dst.ConvertPosition(pos, t)
		if err != nil {
			return "", err
		}
		return FormatVector(dst, p, s.Unit)
	}
	vel, err := ParseVector(src, s.Vel)
	if err != nil {
		return "", fmt.Errorf("vel: %w", err)
	}
	if s.Acc == "" {
		p, v, err := dst.ConvertPosVel(pos, vel, t)
		if err != nil {
			return "", err
		}
		return joinVectors(dst, s.Unit, p, v)
	}
	acc, err := ParseVector(src, s.Acc)
	if err != nil {
		return "", fmt.Errorf("acc: %w", err)
	}
	p, v, a, err := dst.ConvertPosVelAccel(pos, vel, acc, t)
	if err != nil {
		return "", err
	}
	return joinVectors(dst, s.Unit, p, v, a)
}

// look reports the look angles from site frame To to a target given in From.
func (e *Evaluator) look(s Step) (string, error) {
	src, site, t, err := e.endpoints(s)
	if err != nil {
		return "", err
	}
	pos, err := ParseVector(src, s.Pos)
	if err != nil {
		return "", fmt.Errorf("pos: %w", err)
	}
	vel := src.ZeroVelocity()
	if s.Vel != "" {
		if vel, err = ParseVector(src, s.Vel); err != nil {
			return "", fmt.Errorf("vel: %w", err)
		}
	}
	la, err := site.Look(pos, vel, t)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, 4)
	for _, q := range []struct {
		name string
		v    quantity.Scalar
		unit string
	}{
		{"az", la.Azimuth, "deg"},
		{"el", la.Elevation, "deg"},
		{"range", la.Range, "km"},
		{"rate", la.RangeRate, "km/s"},
	} {
		out, err := FormatScalar(q.v, q.unit)
		if err != nil {
			return "", err
		}
		parts = append(parts, q.name+"="+out)
	}
	return strings.Join(parts, " "), nil
}

// geodetic reports the WGS-84 coordinates of a position given in From.
func (e *Evaluator) geodetic(s Step) (string, error) {
	src, err := e.frame(s.From)
	if err != nil {
		return "", err
	}
	t, err := ParseTime(s.Time)
	if err != nil {
		return "", err
	}
	pos, err := ParseVector(src, s.Pos)
	if err != nil {
		return "", fmt.Errorf("pos: %w", err)
	}
	ecr, err := quantity.ECR.ConvertPosition(pos, t)
	if err != nil {
		return "", err
	}
	lat, lon, alt, err := quantity.Geodetic(ecr)
	if err != nil {
		return "", err
	}
	unit := s.Unit
	if unit == "" {
		unit = "m"
	}
	la, err := FormatScalar(lat, "deg")
	if err != nil {
		return "", err
	}
	lo, err := FormatScalar(lon, "deg")
	if err != nil {
		return "", err
	}
	h, err := FormatScalar(alt, unit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("lat=%s lon=%s alt=%s", la, lo, h), nil
}

func (e *Evaluator) endpoints(s Step) (src, dst *quantity.Frame, t quantity.Time, err error) {
	if src, err = e.frame(s.From); err != nil {
		return
	}
	if dst, err = e.frame(s.To); err != nil {
		return
	}
	t, err = ParseTime(s.Time)
	return
}

func (e *Evaluator) frame(name string) (*quantity.Frame, error) {
	if name == "" {
		return nil, fmt.Errorf("frame name: %w", quantity.ErrNotSet)
	}
	f, ok := e.reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFrame, name)
	}
	return f, nil
}

func (e *Evaluator) buildFrame(spec FrameSpec) (*quantity.Frame, error) {
	switch spec.Type {
	case FrameTopocentric:
		lat, err := quantity.ParseScalar(spec.Latitude)
		if err != nil {
			return nil, err
		}
		lon, err := quantity.ParseScalar(spec.Longitude)
		if err != nil {
			return nil, err
		}
		alt := quantity.Meter.Of(0)
		if spec.Altitude != "" {
			if alt, err = quantity.ParseScalar(spec.Altitude); err != nil {
				return nil, err
			}
		}
		return quantity.NewTopocentricFrame(spec.Name, lat, lon, alt)

	case FrameFixed:
		origin := quantity.ECR.ZeroPosition()
		if spec.Origin != "" {
			var err error
			if origin, err = ParseVector(quantity.ECR, spec.Origin); err != nil {
				return nil, fmt.Errorf("origin: %w", err)
			}
		}
		rot, err := orientation(spec)
		if err != nil {
			return nil, err
		}
		return quantity.NewFixedFrame(spec.Name, origin, rot)

	case FrameSpherical:
		base, err := e.frame(spec.Base)
		if err != nil {
			return nil, err
		}
		return quantity.NewSphericalFrame(spec.Name, base)
	}
	return nil, fmt.Errorf("%w: unknown frame type %q", ErrInvalid, spec.Type)
}

func orientation(spec FrameSpec) (quantity.Rotation, error) {
	switch {
	case len(spec.Rows) > 0:
		if !square3(spec.Rows) {
			return quantity.Rotation{}, fmt.Errorf("%w: rows must be 3x3", ErrInvalid)
		}
		var m [3][3]float64
		for i := range m {
			copy(m[i][:], spec.Rows[i])
		}
		return quantity.NewRotation(quantity.ECR, m)
	case spec.Axis != "":
		axis, err := ParseVector(quantity.ECR, spec.Axis)
		if err != nil {
			return quantity.Rotation{}, fmt.Errorf("axis: %w", err)
		}
		angle, err := quantity.ParseScalar(spec.Angle)
		if err != nil {
			return quantity.Rotation{}, err
		}
		return quantity.RotationAboutAxis(axis, angle)
	}
	return quantity.IdentityRotation(quantity.ECR), nil
}

func twoArgs(s Step) (quantity.Scalar, quantity.Scalar, error) {
	args, err := scalars(s, 2)
	if err != nil {
		return quantity.Scalar{}, quantity.Scalar{}, err
	}
	return args[0], args[1], nil
}

func scalars(s Step, n int) ([]quantity.Scalar, error) {
	if len(s.Args) != n {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrInvalid, s.Op, n, len(s.Args))
	}
	out := make([]quantity.Scalar, n)
	for i, a := range s.Args {
		v, err := quantity.ParseScalar(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseVector parses "x,y,z <unit>" into a vector of f. The unit selects
// the vector kind, e.g. "7000,0,0 km" is a position and "0,7.5,0 km/s" a
// velocity.
func ParseVector(f *quantity.Frame, text string) (quantity.Vector, error) {
	text = strings.TrimSpace(text)
	i := strings.LastIndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return quantity.Vector{}, fmt.Errorf("parse vector %q: want \"x,y,z <unit>\"", text)
	}
	u, err := quantity.LookupUnit(text[i+1:])
	if err != nil {
		return quantity.Vector{}, fmt.Errorf("parse vector %q: %w", text, err)
	}
	parts := strings.Split(text[:i], ",")
	if len(parts) != 3 {
		return quantity.Vector{}, fmt.Errorf("parse vector %q: want 3 components, got %d", text, len(parts))
	}
	var c [3]quantity.Scalar
	for j, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return quantity.Vector{}, fmt.Errorf("parse vector %q: %w", text, err)
		}
		c[j] = u.Of(v)
	}
	return f.NewVector(u.Kind, c[0], c[1], c[2])
}

// ParseTime parses an RFC 3339 instant. An empty string is the unset time.
func ParseTime(text string) (quantity.Time, error) {
	if text == "" {
		return quantity.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return quantity.Time{}, fmt.Errorf("parse time: %w", err)
	}
	return quantity.FromStdTime(t), nil
}

// FormatScalar prints s in unit, or in its canonical unit when unit is
// empty.
func FormatScalar(s quantity.Scalar, unit string) (string, error) {
	if unit == "" {
		return s.String(), nil
	}
	u, err := quantity.LookupUnit(unit)
	if err != nil {
		return "", err
	}
	v, err := s.In(u)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strconv.FormatFloat(v, 'g', -1, 64) + " " + u.Symbol), nil
}

// FormatVector prints v as seen from f: Cartesian components for base
// frames, range, azimuth and elevation for spherical frames. Lengths are
// printed in unit when it matches the vector kind.
func FormatVector(f *quantity.Frame, v quantity.Vector, unit string) (string, error) {
	u := quantity.CanonicalUnit(v.Kind())
	if unit != "" {
		if cand, err := quantity.LookupUnit(unit); err == nil && cand.Kind == v.Kind() {
			u = cand
		} else if err != nil {
			return "", err
		}
	}
	in := func(s quantity.Scalar) string {
		x, err := s.In(u)
		if err != nil {
			return s.String()
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	if !f.IsBase() {
		r, az, el, err := f.Spherical(v)
		if err != nil {
			return "", err
		}
		a, err := az.In(quantity.Degree)
		if err != nil {
			return "", err
		}
		b, err := el.In(quantity.Degree)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(fmt.Sprintf("%s(r=%s az=%g el=%g deg) %s", f.Name(), in(r), a, b, u.Symbol)), nil
	}

	x, err := f.XComponent(v)
	if err != nil {
		return "", err
	}
	y, err := f.YComponent(v)
	if err != nil {
		return "", err
	}
	z, err := f.ZComponent(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(fmt.Sprintf("%s(%s, %s, %s) %s", f.Name(), in(x), in(y), in(z), u.Symbol)), nil
}

func joinVectors(f *quantity.Frame, unit string, vs ...quantity.Vector) (string, error) {
	out := make([]string, len(vs))
	for i, v := range vs {
		s, err := FormatVector(f, v, unit)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, "\n"), nil
}
