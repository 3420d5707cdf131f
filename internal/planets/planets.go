// Package planets computes heliocentric planet positions from mean Keplerian
// elements (Standish, J2000 ecliptic, valid 1800-2050).
package planets

import (
	"math"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Planet selects a set of orbital elements.
type Planet int

const (
	Mercury Planet = iota
	Venus
	EarthMoonBary
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// Vector is a cartesian position in AU, J2000 ecliptic frame.
type Vector struct {
	X, Y, Z float64
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Norm returns the length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Spherical returns longitude and latitude in degrees and the distance.
func (v Vector) Spherical() (lon, lat, dist float64) {
	dist = v.Norm()
	lon = timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(v.Y, v.X)))
	lat = timeutil.Rad2Deg(math.Asin(v.Z / dist))
	return lon, lat, dist
}

// element is a value at J2000 and its rate per Julian century.
type element [2]float64

func (e element) at(T float64) float64 { return e[0] + e[1]*T }

// Orbital elements in table order: semi-major axis (AU), eccentricity,
// inclination, mean longitude, longitude of perihelion and longitude of the
// ascending node (degrees).
const (
	semiMajor = iota
	eccentricity
	inclination
	meanLon
	perihelion
	ascNode
)

type elements [6]element

var table = [...]elements{
	Mercury:       {{0.38709927, 0.00000037}, {0.20563593, 0.00001906}, {7.00497902, -0.00594749}, {252.25032350, 149472.67411175}, {77.45779628, 0.16047689}, {48.33076593, -0.12534081}},
	Venus:         {{0.72333566, 0.00000390}, {0.00677672, -0.00004107}, {3.39467605, -0.00078890}, {181.97909950, 58517.81538729}, {131.60246718, 0.00268329}, {76.67984255, -0.27769418}},
	EarthMoonBary: {{1.00000261, 0.00000562}, {0.01671123, -0.00004392}, {-0.00001531, -0.01294668}, {100.46457166, 35999.37244981}, {102.93768193, 0.32327364}, {0, 0}},
	Mars:          {{1.52371034, 0.00001847}, {0.09339410, 0.00007882}, {1.84969142, -0.00813131}, {-4.55343205, 19140.30268499}, {-23.94362959, 0.44441088}, {49.55953891, -0.29257343}},
	Jupiter:       {{5.20288700, -0.00011607}, {0.04838624, -0.00013253}, {1.30439695, -0.00183714}, {34.39644051, 3034.74612775}, {14.72847983, 0.21252668}, {100.47390909, 0.20469106}},
	Saturn:        {{9.53667594, -0.00125060}, {0.05386179, -0.00050991}, {2.48599187, 0.00193609}, {49.95424423, 1222.49362201}, {92.59887831, -0.41897216}, {113.66242448, -0.28867794}},
	Uranus:        {{19.18916464, -0.00196176}, {0.04725744, -0.00004397}, {0.77263783, -0.00242939}, {313.23810451, 428.48202785}, {170.95427630, 0.40805281}, {74.01692503, 0.04240589}},
	Neptune:       {{30.06992276, 0.00026291}, {0.00859048, 0.00005105}, {1.77004347, 0.00035372}, {-55.12002969, 218.45945325}, {44.96476227, -0.32241464}, {131.78422574, -0.00508664}},
	Pluto:         {{39.48211675, -0.00031596}, {0.24882730, 0.00005170}, {17.14001206, 0.00004818}, {238.92903833, 145.20780515}, {224.06891629, -0.04062942}, {110.30393684, -0.01183482}},
}

// Heliocentric returns the heliocentric J2000 ecliptic position of p at
// Julian day jd (TT).
func Heliocentric(p Planet, jd float64) Vector {
	el := table[p]
	T := timeutil.JulianCenturies(jd)

	a := el[semiMajor].at(T)
	e := el[eccentricity].at(T)
	incl := timeutil.Deg2Rad(el[inclination].at(T))
	peri := el[perihelion].at(T)
	node := el[ascNode].at(T)
	w := timeutil.Deg2Rad(peri - node)
	O := timeutil.Deg2Rad(node)
	M := timeutil.Deg2Rad(timeutil.Normalize180(el[meanLon].at(T) - peri))

	E := eccentricAnomaly(M, e)

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(w), math.Sin(w)
	cO, sO := math.Cos(O), math.Sin(O)
	ci, si := math.Cos(incl), math.Sin(incl)

	return Vector{
		X: (cw*cO-sw*sO*ci)*xp + (-sw*cO-cw*sO*ci)*yp,
		Y: (cw*sO+sw*cO*ci)*xp + (-sw*sO+cw*cO*ci)*yp,
		Z: sw*si*xp + cw*si*yp,
	}
}

// eccentricAnomaly solves Kepler's equation by Newton iteration.
func eccentricAnomaly(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for n := 0; n < 30; n++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// Precession returns the general precession in longitude in degrees since
// J2000, to be added to J2000 ecliptic longitudes to refer them to the
// equinox of date.
func Precession(jd float64) float64 {
	return 1.3969713 * timeutil.JulianCenturies(jd)
}
