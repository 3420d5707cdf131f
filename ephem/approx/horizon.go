package approx

import (
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// obliquity returns the mean obliquity of the ecliptic ε (deg).
func obliquity(jd float64) float64 {
	return 23.439291 - 0.0130042*timeutil.JulianCenturies(jd)
}

func eclipticToEquatorial(lon, lat, eps float64) (ra, dec float64) {
	l := timeutil.Deg2Rad(lon)
	b := timeutil.Deg2Rad(lat)
	e := timeutil.Deg2Rad(eps)

	x := math.Cos(b) * math.Cos(l)
	y := math.Cos(b) * math.Sin(l)
	z := math.Sin(b)

	yEq := y*math.Cos(e) - z*math.Sin(e)
	zEq := y*math.Sin(e) + z*math.Cos(e)

	ra = timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(yEq, x)))
	dec = timeutil.AsinD(zEq)
	return ra, dec
}

func equatorialToEcliptic(ra, dec, eps float64) (lon, lat float64) {
	return eclipticToEquatorial(ra, dec, -eps)
}

// siderealTime returns the local mean sidereal time in degrees.
func siderealTime(jdUT, lon float64) float64 {
	d := jdUT - timeutil.J2000
	T := d / 36525
	gmst := 280.46061837 + 360.98564736629*d + 0.000387933*T*T - T*T*T/38710000
	return timeutil.Normalize360(gmst + lon)
}

// geocentricLatitude returns ρ sin φ' and ρ cos φ' for the site, in Earth
// radii.
func geocentricLatitude(site ephem.Site) (rhoSin, rhoCos float64) {
	const ba = 0.99664719
	phi := timeutil.Deg2Rad(site.Lat)
	u := math.Atan(ba * math.Tan(phi))
	h := site.Height / earthRadius
	return ba*math.Sin(u) + h*math.Sin(phi), math.Cos(u) + h*math.Cos(phi)
}

// topocentric shifts a geocentric equatorial position of date to the
// observer by subtracting the observer's geocentric vector.
func topocentric(jdUT float64, site ephem.Site, ra, dec, dist float64) (float64, float64, float64) {
	rhoSin, rhoCos := geocentricLatitude(site)
	theta := timeutil.Deg2Rad(siderealTime(jdUT, site.Lon))
	r := earthRadius / AU

	a := timeutil.Deg2Rad(ra)
	d := timeutil.Deg2Rad(dec)
	x := dist*math.Cos(d)*math.Cos(a) - r*rhoCos*math.Cos(theta)
	y := dist*math.Cos(d)*math.Sin(a) - r*rhoCos*math.Sin(theta)
	z := dist*math.Sin(d) - r*rhoSin

	dt := math.Sqrt(x*x + y*y + z*z)
	return timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(y, x))), timeutil.AsinD(z / dt), dt
}

// EquatorialToHorizon implements ephem.HorizonTransformer. A non-positive
// pressure selects the standard atmosphere at the site height.
func (p *Provider) EquatorialToHorizon(jdUT float64, site ephem.Site, pressure, temperature, ra, dec float64) ephem.Horizontal {
	H := timeutil.Deg2Rad(timeutil.Normalize180(siderealTime(jdUT, site.Lon) - ra))
	phi := timeutil.Deg2Rad(site.Lat)
	delta := timeutil.Deg2Rad(dec)

	sinAlt := math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Cos(H)
	alt := timeutil.AsinD(sinAlt)

	// Azimuth from south, turned to count from north.
	az := timeutil.Rad2Deg(math.Atan2(math.Sin(H), math.Cos(H)*math.Sin(phi)-math.Tan(delta)*math.Cos(phi)))

	return ephem.Horizontal{
		Azimuth:          timeutil.Normalize360(az + 180),
		TrueAltitude:     alt,
		ApparentAltitude: alt + refraction(alt, pressure, temperature, site.Height),
	}
}

// refraction returns an approximation of atmospheric refraction (in degrees)
// at true altitude altDeg, scaled for pressure (hPa) and temperature (°C).
//
// This uses the Saemundsson formula:
//
//	R (arcmin) ≈ 1.02 / tan( (alt + 10.3 / (alt + 5.11)) in degrees )
func refraction(altDeg, pressure, temperature, height float64) float64 {
	// Below -1° the formula goes weird and refraction isn't meaningfully
	// defined for "deep below the horizon".
	if altDeg < -1.0 || altDeg > 90 {
		return 0
	}
	alt := math.Max(altDeg, -0.5)

	t := timeutil.TanD(alt + 10.3/(alt+5.11))
	if t == 0 {
		return 0
	}
	return 1.02 / t / 60 * refractionScale(pressure, temperature, height)
}

func refractionScale(pressure, temperature, height float64) float64 {
	if pressure <= 0 {
		pressure = 1013.25 * math.Pow(1-0.0065*height/288, 5.255)
	}
	return pressure / 1010 * 283 / (273 + temperature)
}
