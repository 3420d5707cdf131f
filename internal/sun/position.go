package sun

import (
	"math"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Ecliptic is a geocentric ecliptic position of date. Dist is in AU.
type Ecliptic struct {
	Lon  float64 // degrees
	Lat  float64 // degrees
	Dist float64 // AU
}

// GeocentricEclipticApprox returns an approximate geocentric ecliptic
// position of the Sun at Julian day jd (TT).
//
// This is a standard low/medium-precision solar position model, good to
// arcminute-level accuracy for many applications.
//
// Based on a simplified NOAA / Meeus-style algorithm:
//
//	g  = mean anomaly of the Sun
//	q  = mean longitude of the Sun
//	L  = ecliptic longitude of the Sun
//	R  = Earth-Sun distance
func GeocentricEclipticApprox(jd float64) Ecliptic {
	d := jd - timeutil.J2000

	// Mean anomaly of the Sun (deg)
	g := timeutil.Deg2Rad(357.529 + 0.98560028*d)

	// Mean longitude of the Sun (deg)
	q := 280.459 + 0.98564736*d

	// Ecliptic longitude with equation of center
	L := q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)

	// Distance in AU
	R := 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)

	return Ecliptic{
		Lon:  timeutil.Normalize360(L),
		Lat:  0,
		Dist: R,
	}
}
