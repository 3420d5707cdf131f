package moon

import (
	"math"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Ecliptic is a geocentric ecliptic position of date. Dist is in km.
type Ecliptic struct {
	Lon  float64 // degrees
	Lat  float64 // degrees
	Dist float64 // km
}

// MeanDistance is the mean Earth-Moon distance in km.
const MeanDistance = 385000.56

// GeocentricEclipticApprox returns an approximate geocentric ecliptic
// position of the Moon at Julian day jd (TT).
//
// This is a medium-precision model using a small set of dominant periodic terms
// in ecliptic longitude, latitude and distance. It's significantly better
// than the ultra-simple model, but still not full ephemeris-grade.
//
// Roughly based on truncated Meeus-style series:
//
//	L'  = mean longitude of the Moon
//	M   = mean anomaly of the Sun
//	Mm  = mean anomaly of the Moon
//	D   = mean elongation of the Moon from the Sun
//	F   = argument of latitude of the Moon
func GeocentricEclipticApprox(jd float64) Ecliptic {
	d := jd - timeutil.J2000

	// All linear coefficients here are in deg/day.
	Lprime := timeutil.Normalize360(218.3164477 + 13.17639648*d)
	M := timeutil.Deg2Rad(timeutil.Normalize360(357.5291092 + 0.98560028*d))
	Mm := timeutil.Deg2Rad(timeutil.Normalize360(134.9633964 + 13.06499295*d))
	D := timeutil.Deg2Rad(timeutil.Normalize360(297.8501921 + 12.19074912*d))
	F := timeutil.Deg2Rad(timeutil.Normalize360(93.2720950 + 13.22935024*d))

	lon := Lprime +
		6.289*math.Sin(Mm) +
		1.274*math.Sin(2*D-Mm) +
		0.658*math.Sin(2*D) +
		0.214*math.Sin(2*Mm) -
		0.186*math.Sin(M) -
		0.114*math.Sin(2*F) +
		0.059*math.Sin(2*D-2*Mm) +
		0.057*math.Sin(2*D-M-Mm) +
		0.053*math.Sin(2*D+Mm) +
		0.046*math.Sin(2*D-M)

	lat := 5.128*math.Sin(F) +
		0.280*math.Sin(Mm+F) +
		0.277*math.Sin(Mm-F) +
		0.173*math.Sin(2*D-F) +
		0.055*math.Sin(2*D-Mm+F) +
		0.046*math.Sin(2*D-Mm-F)

	dist := MeanDistance -
		20905.355*math.Cos(Mm) -
		3699.111*math.Cos(2*D-Mm) -
		2955.968*math.Cos(2*D) -
		569.925*math.Cos(2*Mm) +
		246.158*math.Cos(2*D-2*Mm) -
		204.586*math.Cos(2*D-M) -
		170.733*math.Cos(2*D+Mm) -
		152.138*math.Cos(2*D-M-Mm)

	return Ecliptic{
		Lon:  timeutil.Normalize360(lon),
		Lat:  lat,
		Dist: dist,
	}
}
