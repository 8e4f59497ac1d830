package quantity

import "math"

// Mathematical and physical constants
const (
	twoPi   = 2 * math.Pi
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	// EarthRotationRate is the Earth's angular velocity about its polar axis (rad/s).
	EarthRotationRate = 7.2921150e-5

	// EarthGM is the WGS-84 gravitational parameter of the Earth (m^3/s^2).
	EarthGM = 3.986004418e14

	// WGS-84 Earth model constants
	wgs84A  = 6378137.0               // equatorial radius in meters
	wgs84F  = 1.0 / 298.257223563     // flattening
	wgs84E2 = wgs84F * (2.0 - wgs84F) // first eccentricity squared

	julianDateUnixEpoch = 2440587.5 // 1970-01-01T00:00:00 UTC
)

// Defining ratios for units. Everything else is derived from these.
const (
	metersPerFoot         = 0.3048
	metersPerStatuteMile  = 1609.344
	metersPerNauticalMile = 1852.0
	secondsPerMinute      = 60.0
	secondsPerHour        = 60.0 * secondsPerMinute
	secondsPerDay         = 24.0 * secondsPerHour
	standardGravity       = 9.80665 // m/s^2
	cubicMetersPerLiter   = 1e-3
)
