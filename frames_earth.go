package quantity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

var (
	// ECR is the Earth-centered rotating frame: origin at the Earth's center
	// of mass, X toward the Greenwich meridian, Z toward the north pole. It
	// is the hub every conversion passes through.
	ECR = &Frame{name: "ECR", link: identityLink{}}

	// ECI is the Earth-centered inertial frame sharing ECR's Z axis, with X
	// toward the vernal equinox. It turns relative to ECR by the Greenwich
	// mean sidereal angle.
	ECI = &Frame{name: "ECI", link: inertialLink{}}
)

// earthSpin is the Earth's angular velocity in ECR and ECI.
var earthSpin = r3.Vector{Z: EarthRotationRate}

type identityLink struct{}

func (identityLink) toECR(_ Time, s kinematics) (kinematics, error)   { return s, nil }
func (identityLink) fromECR(_ Time, s kinematics) (kinematics, error) { return s, nil }
func (identityLink) timeDependent() bool                              { return false }

type inertialLink struct{}

func (inertialLink) timeDependent() bool { return true }

// eciToECR returns the matrix taking ECI components to ECR components at t.
func eciToECR(t Time) (mgl64.Mat3, error) {
	g, err := t.GMST()
	if err != nil {
		return mgl64.Mat3{}, err
	}
	return mgl64.Rotate3DZ(-g.value), nil
}

func (inertialLink) toECR(t Time, s kinematics) (kinematics, error) {
	m, err := eciToECR(t)
	if err != nil {
		return kinematics{}, err
	}
	out := kinematics{order: s.order}
	out.r = mulVec(m, s.r)
	if s.order >= 2 {
		out.v = mulVec(m, s.v).Sub(earthSpin.Cross(out.r))
	}
	if s.order >= 3 {
		out.a = mulVec(m, s.a).
			Sub(earthSpin.Cross(out.v).Mul(2)).
			Sub(earthSpin.Cross(earthSpin.Cross(out.r)))
	}
	return out, nil
}

func (inertialLink) fromECR(t Time, s kinematics) (kinematics, error) {
	m, err := eciToECR(t)
	if err != nil {
		return kinematics{}, err
	}
	mt := m.Transpose()
	out := kinematics{order: s.order}
	out.r = mulVec(mt, s.r)
	if s.order >= 2 {
		out.v = mulVec(mt, s.v.Add(earthSpin.Cross(s.r)))
	}
	if s.order >= 3 {
		out.a = mulVec(mt, s.a.
			Add(earthSpin.Cross(s.v).Mul(2)).
			Add(earthSpin.Cross(earthSpin.Cross(s.r))))
	}
	return out, nil
}

// fixedLink attaches a frame rigidly to ECR: q takes ECR components to local
// components and origin is the local origin in ECR.
type fixedLink struct {
	origin r3.Vector
	q      mgl64.Mat3
	site   *site
}

// site is the geodetic location of a topocentric frame.
type site struct {
	lat, lon, alt float64
}

func (fixedLink) timeDependent() bool { return false }

func (l fixedLink) toECR(_ Time, s kinematics) (kinematics, error) {
	qt := l.q.Transpose()
	out := kinematics{order: s.order}
	out.r = mulVec(qt, s.r).Add(l.origin)
	if s.order >= 2 {
		out.v = mulVec(qt, s.v)
	}
	if s.order >= 3 {
		out.a = mulVec(qt, s.a)
	}
	return out, nil
}

func (l fixedLink) fromECR(_ Time, s kinematics) (kinematics, error) {
	out := kinematics{order: s.order}
	out.r = mulVec(l.q, s.r.Sub(l.origin))
	if s.order >= 2 {
		out.v = mulVec(l.q, s.v)
	}
	if s.order >= 3 {
		out.a = mulVec(l.q, s.a)
	}
	return out, nil
}

// NewFixedFrame returns a base frame that does not move relative to ECR. Its
// origin sits at the ECR position origin and orientation maps ECR components
// to the new frame's components.
func NewFixedFrame(name string, origin Vector, orientation Rotation) (*Frame, error) {
	if name == "" {
		return nil, fmt.Errorf("frame name: %w", ErrNotSet)
	}
	if err := checkVector("fixed frame origin", origin, Length); err != nil {
		return nil, err
	}
	if !orientation.set {
		return nil, fmt.Errorf("fixed frame orientation: %w", ErrNotSet)
	}
	if origin.base != ECR || orientation.base != ECR {
		return nil, fmt.Errorf("fixed frame %s: origin in %s, orientation in %s: %w",
			name, origin.base, orientation.base, ErrWrongCoordinateBase)
	}
	return &Frame{name: name, link: fixedLink{origin: origin.c, q: orientation.m}}, nil
}

// NewTopocentricFrame returns the East-North-Up frame of a site on the WGS-84
// ellipsoid. Latitude must lie in [-pi/2, pi/2]; altitude is above the
// ellipsoid.
func NewTopocentricFrame(name string, lat, lon, alt Scalar) (*Frame, error) {
	if name == "" {
		return nil, fmt.Errorf("frame name: %w", ErrNotSet)
	}
	phi, err := angleValue("topocentric frame", lat)
	if err != nil {
		return nil, err
	}
	lambda, err := angleValue("topocentric frame", lon)
	if err != nil {
		return nil, err
	}
	if phi < -math.Pi/2 || phi > math.Pi/2 {
		return nil, fmt.Errorf("topocentric frame %s: latitude %g rad: %w", name, phi, ErrOutOfRange)
	}
	if alt.kind != Length {
		return nil, opError("topocentric frame", ErrUndefinedOperation, alt.kind)
	}
	h, err := alt.Value()
	if err != nil {
		return nil, err
	}

	sinLat, cosLat := math.Sincos(phi)
	sinLon, cosLon := math.Sincos(lambda)
	q := mgl64.Mat3FromRows(
		mgl64.Vec3{-sinLon, cosLon, 0},
		mgl64.Vec3{-sinLat * cosLon, -sinLat * sinLon, cosLat},
		mgl64.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat},
	)
	s := &site{lat: phi, lon: wrap(lambda), alt: h}
	return &Frame{name: name, link: fixedLink{origin: geodeticToECR(phi, lambda, h), q: q, site: s}}, nil
}

// geodeticToECR returns the ECR position of a WGS-84 geodetic location.
func geodeticToECR(lat, lon, alt float64) r3.Vector {
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	// radius of curvature in the prime vertical
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	return r3.Vector{
		X: (n + alt) * cosLat * cosLon,
		Y: (n + alt) * cosLat * sinLon,
		Z: (n*(1-wgs84E2) + alt) * sinLat,
	}
}

// GeodeticPosition returns the ECR position of a WGS-84 geodetic location.
func GeodeticPosition(lat, lon, alt Scalar) (Vector, error) {
	phi, err := angleValue("geodetic position", lat)
	if err != nil {
		return Vector{}, err
	}
	lambda, err := angleValue("geodetic position", lon)
	if err != nil {
		return Vector{}, err
	}
	if alt.kind != Length {
		return Vector{}, opError("geodetic position", ErrUndefinedOperation, alt.kind)
	}
	h, err := alt.Value()
	if err != nil {
		return Vector{}, err
	}
	return ECR.bind(Length, geodeticToECR(phi, lambda, h)), nil
}

// Geodetic returns the WGS-84 latitude, longitude in [-pi, pi) and height
// above the ellipsoid of an ECR position.
func Geodetic(v Vector) (lat, lon, alt Scalar, err error) {
	if err = checkVector("geodetic", v, Length); err != nil {
		return
	}
	if v.base != ECR {
		err = fmt.Errorf("geodetic from %s position: %w", v.base, ErrWrongCoordinateBase)
		return
	}
	phi, lambda, h := ecrToGeodetic(v.c)
	return Radian.Of(phi), Radian.Of(lambda), Meter.Of(h), nil
}

func ecrToGeodetic(c r3.Vector) (lat, lon, alt float64) {
	const (
		maxIter = 10
		tol     = 1e-12
	)
	lon = wrap(math.Atan2(c.Y, c.X))
	p := math.Hypot(c.X, c.Y)
	lat = math.Atan2(c.Z, p*(1-wgs84E2))
	for i := 0; i < maxIter; i++ {
		prev := lat
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(c.Z+n*wgs84E2*sinLat, p)
		if math.Abs(lat-prev) < tol {
			break
		}
	}
	sinLat, cosLat := math.Sincos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	if math.Abs(cosLat) < 1e-10 {
		alt = math.Abs(c.Z) - wgs84A*math.Sqrt(1-wgs84E2)
	} else {
		alt = p/cosLat - n
	}
	return lat, lon, alt
}

// Site returns the geodetic location of a topocentric frame.
func (f *Frame) Site() (lat, lon, alt Scalar, err error) {
	s, ok := f.site()
	if !ok {
		err = fmt.Errorf("site of %s: %w", f, ErrUndefinedOperation)
		return
	}
	return Radian.Of(s.lat), Radian.Of(s.lon), Meter.Of(s.alt), nil
}

func (f *Frame) site() (*site, bool) {
	b := f.BaseCartesian()
	if b == nil {
		return nil, false
	}
	l, ok := b.link.(fixedLink)
	if !ok || l.site == nil {
		return nil, false
	}
	return l.site, true
}

// LookAngles is the direction and distance from a topocentric site to a
// target.
type LookAngles struct {
	Azimuth   Scalar // clockwise from north, [0, 2pi)
	Elevation Scalar // above the local horizon, [-pi/2, pi/2]
	Range     Scalar
	RangeRate Scalar // positive when the target moves away
}

// Look returns the look angles from topocentric frame f to a target with
// position pos and velocity vel in any frame, at t.
func (f *Frame) Look(pos, vel Vector, t Time) (LookAngles, error) {
	if _, ok := f.site(); !ok {
		return LookAngles{}, fmt.Errorf("look angles from %s: %w", f, ErrUndefinedOperation)
	}
	p, v, err := f.ConvertPosVel(pos, vel, t)
	if err != nil {
		return LookAngles{}, err
	}
	rng := p.c.Norm()
	if rng == 0 {
		return LookAngles{}, opError("look angles", ErrDivideByZero, Length)
	}
	el := math.Asin(math.Max(-1, math.Min(1, p.c.Z/rng)))
	az := 0.0
	if p.c.X != 0 || p.c.Y != 0 {
		az = restrict(math.Atan2(p.c.X, p.c.Y))
	}
	return LookAngles{
		Azimuth:   Radian.Of(az),
		Elevation: Radian.Of(el),
		Range:     Meter.Of(rng),
		RangeRate: MeterPerSecond.Of(p.c.Dot(v.c) / rng),
	}, nil
}

// NewSphericalFrame returns a frame whose vectors live in base's Cartesian
// coordinates but read and build them as range, azimuth and elevation.
// Conversions are delegated to base.
func NewSphericalFrame(name string, base *Frame) (*Frame, error) {
	if name == "" {
		return nil, fmt.Errorf("frame name: %w", ErrNotSet)
	}
	if base == nil {
		return nil, fmt.Errorf("spherical frame %s base: %w", name, ErrNotSet)
	}
	return &Frame{name: name, base: base.BaseCartesian()}, nil
}

// Spherical returns the magnitude of v, its azimuth from +X toward +Y in
// [0, 2pi) and its elevation above the XY plane. v must share f's base.
// The angles of a zero vector are 0.
func (f *Frame) Spherical(v Vector) (r, azimuth, elevation Scalar, err error) {
	if !v.set {
		err = opError("spherical", ErrNotSet, v.kind)
		return
	}
	if v.base != f.BaseCartesian() {
		err = fmt.Errorf("spherical in %s of %s vector: %w", f, v.base, ErrWrongCoordinateBase)
		return
	}
	var az, el float64
	if v.c.X != 0 || v.c.Y != 0 {
		az = restrict(math.Atan2(v.c.Y, v.c.X))
	}
	if h := math.Hypot(v.c.X, v.c.Y); h != 0 || v.c.Z != 0 {
		el = math.Atan2(v.c.Z, h)
	}
	return New(v.kind, v.c.Norm()), Radian.Of(az), Radian.Of(el), nil
}

// FromSpherical returns the vector of f with magnitude r, azimuth and
// elevation. The vector kind is the kind of r.
func (f *Frame) FromSpherical(r, azimuth, elevation Scalar) (Vector, error) {
	az, err := angleValue("from spherical", azimuth)
	if err != nil {
		return Vector{}, err
	}
	el, err := angleValue("from spherical", elevation)
	if err != nil {
		return Vector{}, err
	}
	m, err := r.Value()
	if err != nil {
		return Vector{}, err
	}
	sinAz, cosAz := math.Sincos(az)
	sinEl, cosEl := math.Sincos(el)
	return f.bind(r.kind, r3.Vector{X: m * cosEl * cosAz, Y: m * cosEl * sinAz, Z: m * sinEl}), nil
}
