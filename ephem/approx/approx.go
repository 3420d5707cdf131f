// Package approx is a self-contained, low precision ephemeris implementing
// ephem.Provider. It uses a truncated solar theory, a truncated lunar
// series, mean Keplerian elements for the planets and a small bright star
// catalogue. Positions are good to a few arcminutes over 1800-2050, enough
// for heliacal work at the day level.
package approx

import (
	"context"
	"fmt"
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/moon"
	"github.com/thurmanmarka/heliacal/internal/planets"
	"github.com/thurmanmarka/heliacal/internal/stars"
	"github.com/thurmanmarka/heliacal/internal/sun"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

const (
	// AU is the astronomical unit in metres.
	AU = 149597870700.0

	earthRadius = 6378140.0 // metres
	kmPerAU     = AU / 1000

	// lightTime is the light travel time for one AU, in days.
	lightTime = 0.0057755183

	starDistance = 1e9 // AU

	// speedStep is the half-width of the central difference, in days.
	speedStep = 1.0 / 96
)

var planetElements = map[ephem.Body]planets.Planet{
	ephem.Mercury: planets.Mercury,
	ephem.Venus:   planets.Venus,
	ephem.Mars:    planets.Mars,
	ephem.Jupiter: planets.Jupiter,
	ephem.Saturn:  planets.Saturn,
	ephem.Uranus:  planets.Uranus,
	ephem.Neptune: planets.Neptune,
	ephem.Pluto:   planets.Pluto,
}

// Provider is the reference ephemeris. The zero value is ready to use and
// safe for concurrent use.
type Provider struct{}

// New returns a Provider.
func New() *Provider {
	return &Provider{}
}

var _ ephem.Provider = (*Provider)(nil)

// Position implements ephem.Positioner.
func (p *Provider) Position(ctx context.Context, jdTT float64, obj ephem.Object, site ephem.Site, opts ephem.Options) (ephem.Position, error) {
	if err := ctx.Err(); err != nil {
		return ephem.Position{}, err
	}
	pos, err := p.position(jdTT, obj, site, opts)
	if err != nil || !opts.Speed {
		return pos, err
	}

	before, err := p.position(jdTT-speedStep, obj, site, opts)
	if err != nil {
		return ephem.Position{}, err
	}
	after, err := p.position(jdTT+speedStep, obj, site, opts)
	if err != nil {
		return ephem.Position{}, err
	}
	pos.LonSpeed = timeutil.Normalize180(after.Lon-before.Lon) / (2 * speedStep)
	pos.LatSpeed = (after.Lat - before.Lat) / (2 * speedStep)
	pos.DistSpeed = (after.Dist - before.Dist) / (2 * speedStep)
	return pos, nil
}

func (p *Provider) position(jd float64, obj ephem.Object, site ephem.Site, opts ephem.Options) (ephem.Position, error) {
	lon, lat, dist, err := geocentric(jd, obj, opts.TruePosition)
	if err != nil {
		return ephem.Position{}, err
	}
	if !opts.Topocentric && !opts.Equatorial {
		return ephem.Position{Lon: lon, Lat: lat, Dist: dist}, nil
	}

	eps := obliquity(jd)
	ra, dec := eclipticToEquatorial(lon, lat, eps)
	if opts.Topocentric {
		jdUT := jd - p.DeltaT(jd)/86400
		ra, dec, dist = topocentric(jdUT, site, ra, dec, dist)
	}
	if opts.Equatorial {
		return ephem.Position{Lon: ra, Lat: dec, Dist: dist}, nil
	}
	lon, lat = equatorialToEcliptic(ra, dec, eps)
	return ephem.Position{Lon: lon, Lat: lat, Dist: dist}, nil
}

// geocentric returns the ecliptic longitude, latitude (degrees, mean
// equinox of date) and distance (AU) of obj.
func geocentric(jd float64, obj ephem.Object, truePos bool) (lon, lat, dist float64, err error) {
	if obj.IsStar() {
		s, ok := stars.Lookup(obj.Name())
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: star %q", ephem.ErrUnknownObject, obj.Name())
		}
		ra, dec := s.Precess(jd)
		lon, lat = equatorialToEcliptic(ra, dec, obliquity(jd))
		return lon, lat, starDistance, nil
	}

	switch obj.Body() {
	case ephem.Sun:
		e := sun.GeocentricEclipticApprox(jd)
		return e.Lon, e.Lat, e.Dist, nil
	case ephem.Moon:
		e := moon.GeocentricEclipticApprox(jd)
		return e.Lon, e.Lat, e.Dist / kmPerAU, nil
	}

	pl, ok := planetElements[obj.Body()]
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %s", ephem.ErrUnknownObject, obj.Name())
	}
	g := geocentricPlanet(pl, jd, truePos)
	lon, lat, dist = g.Spherical()
	return timeutil.Normalize360(lon + planets.Precession(jd)), lat, dist, nil
}

// geocentricPlanet returns the J2000 ecliptic vector from the Earth to pl,
// corrected for light time unless truePos is set.
func geocentricPlanet(pl planets.Planet, jd float64, truePos bool) planets.Vector {
	earth := planets.Heliocentric(planets.EarthMoonBary, jd)
	g := planets.Heliocentric(pl, jd).Sub(earth)
	if truePos {
		return g
	}
	for n := 0; n < 2; n++ {
		g = planets.Heliocentric(pl, jd-g.Norm()*lightTime).Sub(earth)
	}
	return g
}

// DeltaT implements ephem.DeltaTer using the Espenak-Meeus polynomials.
func (p *Provider) DeltaT(jdUT float64) float64 {
	return deltaT(2000 + (jdUT-timeutil.J2000)/365.25)
}

func deltaT(y float64) float64 {
	longTerm := func() float64 {
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}

	switch {
	case y < -500:
		return longTerm()
	case y < 500:
		u := y / 100
		return poly(u, 10583.6, -1014.41, 33.78311, -5.952053, -0.1798452, 0.022174192, 0.0090316521)
	case y < 1600:
		u := (y - 1000) / 100
		return poly(u, 1574.2, -556.01, 71.23472, 0.319781, -0.8503463, -0.005050998, 0.0083572073)
	case y < 1700:
		return poly(y-1600, 120, -0.9808, -0.01532, 1.0/7129)
	case y < 1800:
		return poly(y-1700, 8.83, 0.1603, -0.0059285, 0.00013336, -1.0/1174000)
	case y < 1860:
		return poly(y-1800, 13.72, -0.332447, 0.0068612, 0.0041116, -0.00037436, 0.0000121272, -0.0000001699, 0.000000000875)
	case y < 1900:
		return poly(y-1860, 7.62, 0.5737, -0.251754, 0.01680668, -0.0004473624, 1.0/233174)
	case y < 1920:
		return poly(y-1900, -2.79, 1.494119, -0.0598939, 0.0061966, -0.000197)
	case y < 1941:
		return poly(y-1920, 21.20, 0.84493, -0.076100, 0.0020936)
	case y < 1961:
		return poly(y-1950, 29.07, 0.407, -1.0/233, 1.0/2547)
	case y < 1986:
		return poly(y-1975, 45.45, 1.067, -1.0/260, -1.0/718)
	case y < 2005:
		return poly(y-2000, 63.86, 0.3345, -0.060374, 0.0017275, 0.000651814, 0.00002373599)
	case y < 2050:
		return poly(y-2000, 62.92, 0.32217, 0.005589)
	case y < 2150:
		return longTerm() - 0.5628*(2150-y)
	default:
		return longTerm()
	}
}

// poly evaluates c[0] + c[1]x + c[2]x² + ... by Horner's rule.
func poly(x float64, c ...float64) float64 {
	r := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

// semidiameter returns the apparent radius of obj in degrees at distance
// dist (AU).
func semidiameter(obj ephem.Object, dist float64) float64 {
	d := diameter(obj)
	if d == 0 || dist <= 0 {
		return 0
	}
	return timeutil.Rad2Deg(math.Asin(math.Min(1, d/2/AU/dist)))
}
