package approx

import (
	"context"
	"fmt"
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/planets"
	"github.com/thurmanmarka/heliacal/internal/stars"
	"github.com/thurmanmarka/heliacal/internal/sun"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Diameters in metres.
var diameters = map[ephem.Body]float64{
	ephem.Sun:     1392000000,
	ephem.Moon:    3475000,
	ephem.Mercury: 4878800,
	ephem.Venus:   12103600,
	ephem.Mars:    6779000,
	ephem.Jupiter: 139822000,
	ephem.Saturn:  116464000,
	ephem.Uranus:  50724000,
	ephem.Neptune: 49244000,
	ephem.Pluto:   2376600,
}

func diameter(obj ephem.Object) float64 {
	if obj.IsStar() {
		return 0
	}
	return diameters[obj.Body()]
}

func cartesian(lon, lat, dist float64) planets.Vector {
	l := timeutil.Deg2Rad(lon)
	b := timeutil.Deg2Rad(lat)
	return planets.Vector{
		X: dist * math.Cos(b) * math.Cos(l),
		Y: dist * math.Cos(b) * math.Sin(l),
		Z: dist * math.Sin(b),
	}
}

// angleBetween returns the angle between two vectors in degrees.
func angleBetween(a, b planets.Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return timeutil.AcosD((a.X*b.X + a.Y*b.Y + a.Z*b.Z) / na / nb)
}

// Phenomena implements ephem.PhenomenaProvider. Positions are geocentric
// unless opts.Topocentric is set.
func (p *Provider) Phenomena(ctx context.Context, jdUT float64, obj ephem.Object, site ephem.Site, opts ephem.Options) (ephem.Phenomena, error) {
	if err := ctx.Err(); err != nil {
		return ephem.Phenomena{}, err
	}
	jd := jdUT + p.DeltaT(jdUT)/86400

	if obj.IsStar() {
		s, ok := stars.Lookup(obj.Name())
		if !ok {
			return ephem.Phenomena{}, fmt.Errorf("%w: star %q", ephem.ErrUnknownObject, obj.Name())
		}
		return ephem.Phenomena{Phase: 1, Magnitude: s.Magnitude}, nil
	}

	opts.Equatorial = false
	geo, err := p.position(jd, obj, site, opts)
	if err != nil {
		return ephem.Phenomena{}, err
	}
	s := sun.GeocentricEclipticApprox(jd)
	toSun := cartesian(s.Lon, s.Lat, s.Dist)

	if obj.Is(ephem.Sun) {
		diam := 2 * semidiameter(obj, geo.Dist)
		avg := 2 * semidiameter(obj, 1)
		return ephem.Phenomena{
			Phase:     1,
			Diameter:  diam,
			Magnitude: -26.86 - 2.5*math.Log10(diam*diam/avg/avg),
		}, nil
	}

	toObj := cartesian(geo.Lon, geo.Lat, geo.Dist)
	helio := toObj.Sub(toSun)

	var ph ephem.Phenomena
	ph.PhaseAngle = angleBetween(toObj, helio)
	ph.Phase = (1 + timeutil.CosD(ph.PhaseAngle)) / 2
	ph.Elongation = angleBetween(toObj, toSun)
	ph.Diameter = 2 * semidiameter(obj, geo.Dist)

	hLon, hLat, r := helio.Spherical()
	ph.Magnitude = magnitude(obj.Body(), jd, ph.PhaseAngle, r, geo, hLon, hLat)
	return ph, nil
}

// magnitude returns the apparent visual magnitude of a body at phase angle
// a (degrees), heliocentric distance r and geocentric position geo.
func magnitude(b ephem.Body, jd, a, r float64, geo ephem.Position, hLon, hLat float64) float64 {
	delta := geo.Dist
	dist := 5 * math.Log10(r*delta)

	switch b {
	case ephem.Moon:
		dist = 5 * math.Log10(r*delta*AU/earthRadius)
		if a <= 147.1385465 {
			return -21.62 + 0.026*math.Abs(a) + 0.000000004*math.Pow(a, 4) + dist
		}
		return -4.5444 - 2.5*math.Log10(math.Pow(180-a, 3)) + dist

	case ephem.Mercury:
		return poly(a, -0.613, 6.3280e-02, -1.6336e-03, 3.3644e-05, -3.4265e-07, 1.6893e-09, -3.0334e-12) + dist

	case ephem.Venus:
		if a <= 163.7 {
			return poly(a, -4.384, -1.044e-03, 3.687e-04, -2.814e-06, 8.938e-09) + dist
		}
		return poly(a, 236.05828, -2.81914, 8.39034e-03) + dist

	case ephem.Mars:
		if a <= 50 {
			return poly(a, -1.601, 0.02267, -0.0001302) + dist
		}
		return poly(a, -0.367, -0.02573, 0.0003445) + dist

	case ephem.Jupiter:
		return poly(a, -9.395, -3.7e-04, 6.16e-04) + dist

	case ephem.Saturn:
		T := timeutil.JulianCenturies(jd)
		in := timeutil.Deg2Rad(28.075216 - 0.012998*T + 0.000004*T*T)
		om := timeutil.Deg2Rad(169.508470 + 1.394681*T + 0.000412*T*T)
		ringTilt := func(lon, lat float64) float64 {
			l, b := timeutil.Deg2Rad(lon), timeutil.Deg2Rad(lat)
			return math.Sin(in)*math.Cos(b)*math.Sin(l-om) - math.Cos(in)*math.Sin(b)
		}
		sinB := math.Abs(math.Sin((math.Asin(ringTilt(geo.Lon, geo.Lat)) + math.Asin(ringTilt(hLon, hLat))) / 2))
		return -8.914 - 1.825*sinB + 0.026*a - 0.378*sinB*math.Exp(-2.25*a) + dist

	case ephem.Uranus:
		return poly(a, -7.110, 6.587e-3, 1.045e-4) + dist - 0.05

	case ephem.Neptune:
		switch {
		case jd < 2444239.5:
			return -6.89 + dist
		case jd <= 2451544.5:
			return -6.89 - 0.0055*(jd-2444239.5)/365.25 + dist
		default:
			return -7.00 + dist
		}

	default:
		return -1.00 + dist
	}
}
