package heliacal

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// locAngle selects the quantity returned by objectLoc.
type locAngle int

const (
	locTopoAlt locAngle = iota
	locAzimuth
	locTopoDec
	locTopoRA
	locAppAlt
	locGeoDec
	locGeoRA
	locGeoAlt
)

const (
	auMetres    = 1.49597870691e11
	sunRadius   = 696000000.0 // metres
	moonRadius  = 1737000.0   // metres
	secondsDay  = 86400.0
	minutesDay  = 1440.0
	horizonRefr = 34.5 / 60
)

var (
	sun  = ephem.Planet(ephem.Sun)
	moon = ephem.Planet(ephem.Moon)
)

func (ev *evaluation) tt(jdUT float64) float64 {
	return jdUT + ev.provider.DeltaT(jdUT)/secondsDay
}

// options returns the equatorial position flavour used by the visibility
// model.
func (ev *evaluation) options(topocentric bool) ephem.Options {
	o := ephem.Options{Equatorial: true, Topocentric: topocentric}
	if !ev.flags.Has(HighPrecision) {
		o.NoNutation = true
		o.TruePosition = true
	}
	return o
}

func (ev *evaluation) position(jdUT float64, obj ephem.Object, opts ephem.Options) (ephem.Position, error) {
	pos, err := ev.provider.Position(ev.ctx, ev.tt(jdUT), obj, ev.site, opts)
	if err != nil {
		return ephem.Position{}, fmt.Errorf("position of %s: %w", obj, err)
	}
	return pos, nil
}

func (ev *evaluation) horizon(jdUT, ra, dec float64) ephem.Horizontal {
	return ev.provider.EquatorialToHorizon(jdUT, ev.site, ev.cond.Pressure, ev.cond.Temperature, ra, dec)
}

// sunRA returns the Sun's geocentric right ascension. The last value is
// memoised; if the provider fails a calendar based estimate is used.
func (ev *evaluation) sunRA(jdUT float64) float64 {
	if m := &ev.sunRAMemo; m.ok && m.jd == jdUT {
		return m.ra
	}

	var ra float64
	opts := ephem.Options{Equatorial: true, NoNutation: true, TruePosition: true}
	if pos, err := ev.provider.Position(ev.ctx, ev.tt(jdUT), sun, ev.site, opts); err == nil {
		ra = pos.Lon
	} else {
		_, month, day, _ := timeutil.Calendar(jdUT)
		ra = timeutil.Normalize360((float64(month) + float64(day-1)/30.4 - 3.69) * 30)
	}

	ev.sunRAMemo.jd, ev.sunRAMemo.ra, ev.sunRAMemo.ok = jdUT, ra, true
	return ra
}

// HourAngle returns the hour angle in hours at which an object of the
// given declination reaches the altitude alt at latitude lat.
func HourAngle(alt, dec, lat float64) float64 {
	ha := (timeutil.SinD(alt) - timeutil.SinD(lat)*timeutil.SinD(dec)) / timeutil.CosD(lat) / timeutil.CosD(dec)
	return timeutil.AcosD(timeutil.Clamp(ha, -1, 1)) / 15
}

// objectLoc returns one coordinate of obj at jdUT. Azimuths are measured
// from north through east.
func (ev *evaluation) objectLoc(jdUT float64, obj ephem.Object, angle locAngle) (float64, error) {
	topo := angle <= locAppAlt
	pos, err := ev.position(jdUT, obj, ev.options(topo))
	if err != nil {
		return 0, err
	}

	switch angle {
	case locTopoDec, locGeoDec:
		return pos.Lat, nil
	case locTopoRA, locGeoRA:
		return pos.Lon, nil
	}

	h := ev.horizon(jdUT, pos.Lon, pos.Lat)
	switch angle {
	case locAzimuth:
		return h.Azimuth, nil
	case locAppAlt:
		return atmosphere.AppAltFromTopoAlt(h.TrueAltitude, ev.cond.Temperature, ev.cond.Pressure, ev.flags.Has(HighPrecision)), nil
	default:
		return h.TrueAltitude, nil
	}
}

// altAz returns the topocentric true altitude and azimuth of obj.
func (ev *evaluation) altAz(jdUT float64, obj ephem.Object) (alt, azi float64, err error) {
	pos, err := ev.position(jdUT, obj, ev.options(true))
	if err != nil {
		return 0, 0, err
	}
	h := ev.horizon(jdUT, pos.Lon, pos.Lat)
	return h.TrueAltitude, h.Azimuth, nil
}

// horizonPoint is a horizontal position. Cart is the apparent direction
// as a unit vector with z towards the zenith.
type horizonPoint struct {
	Azimuth, TrueAlt, AppAlt float64
	Cart                     s2.Point
}

func (ev *evaluation) azaltCart(jdUT float64, obj ephem.Object) (horizonPoint, error) {
	pos, err := ev.position(jdUT, obj, ev.options(true))
	if err != nil {
		return horizonPoint{}, err
	}
	h := ev.horizon(jdUT, pos.Lon, pos.Lat)
	return horizonPoint{
		Azimuth: h.Azimuth,
		TrueAlt: h.TrueAltitude,
		AppAlt:  h.ApparentAltitude,
		Cart:    s2.PointFromLatLng(s2.LatLngFromDegrees(h.ApparentAltitude, h.Azimuth)),
	}, nil
}

// magnitude returns the apparent visual magnitude of obj.
func (ev *evaluation) magnitude(jdUT float64, obj ephem.Object) (float64, error) {
	ph, err := ev.provider.Phenomena(ev.ctx, jdUT, obj, ev.site, ev.options(true))
	if err != nil {
		return 0, fmt.Errorf("magnitude of %s: %w", obj, err)
	}
	return ph.Magnitude, nil
}

// riseSet finds the next rise or set of obj. rim 0 selects the disc
// centre, anything else the upper limb.
func (ev *evaluation) riseSet(jdUT float64, obj ephem.Object, kind ephem.RiseKind, rim int) (float64, error) {
	return ev.riseTrans(jdUT, obj, kind, rim == 0)
}

// riseTrans finds the next rise or set of obj after jdUT. Solar system
// bodies away from the polar circles use a fast semi-diurnal arc estimate,
// everything else goes to the provider.
func (ev *evaluation) riseTrans(jdUT float64, obj ephem.Object, kind ephem.RiseKind, discCenter bool) (float64, error) {
	if !obj.IsStar() && math.Abs(ev.site.Lat) < 63 {
		return ev.calcRiseAndSet(jdUT, obj, kind, discCenter)
	}
	t, err := ev.provider.RiseTransit(ev.ctx, jdUT, obj, kind, ev.site, ev.cond.Pressure, ev.cond.Temperature, discCenter)
	if err != nil {
		return 0, fmt.Errorf("rise/set of %s: %w", obj, err)
	}
	return t, nil
}

func (ev *evaluation) calcRiseAndSet(t0 float64, obj ephem.Object, kind ephem.RiseKind, discCenter bool) (float64, error) {
	geo := ev.options(false)

	xs, err := ev.position(t0, sun, geo)
	if err != nil {
		return 0, err
	}
	xx, err := ev.position(t0, obj, geo)
	if err != nil {
		return 0, err
	}

	noon := math.Floor(t0) - ev.site.Lon/15/24
	noon -= timeutil.Normalize360(xs.Lon-xx.Lon) / 360

	above := ev.horizon(t0, xx.Lon, xx.Lat).ApparentAltitude > 0
	if kind == ephem.Rise {
		lo, hi := 0.0, 1.0
		if above {
			lo, hi = 0.5, 1.5
		}
		for noon-t0 < lo {
			noon++
		}
		for noon-t0 > hi {
			noon--
		}
	} else {
		lo, hi := -1.0, 0.0
		if above {
			lo, hi = -0.5, 0.5
		}
		for t0-noon > hi {
			noon++
		}
		for t0-noon < lo {
			noon--
		}
	}

	xx, err = ev.position(noon, obj, geo)
	if err != nil {
		return 0, err
	}

	var rdi float64
	switch {
	case discCenter:
	case obj.Is(ephem.Sun):
		rdi = timeutil.AsinD(sunRadius / auMetres / xx.Dist)
	case obj.Is(ephem.Moon):
		rdi = timeutil.AsinD(moonRadius / auMetres / xx.Dist)
	}
	rh := -(horizonRefr + rdi)

	x := -timeutil.TanD(ev.site.Lat) * timeutil.TanD(xx.Lat)
	if math.Abs(x) > 1 {
		return 0, fmt.Errorf("rise/set of %s: %w", obj, ErrCircumpolar)
	}
	sda := timeutil.AcosD(x)

	t := noon + sda/360
	if kind == ephem.Rise {
		t = noon - sda/360
	}

	speed := ev.options(obj.Is(ephem.Moon))
	speed.Speed = true
	const dfac = 1 / 365.25
	for i := 0; i < 2; i++ {
		p, err := ev.position(t, obj, speed)
		if err != nil {
			return 0, err
		}
		alt1 := ev.horizon(t, p.Lon, p.Lat).TrueAltitude
		alt2 := ev.horizon(t-dfac, p.Lon-p.LonSpeed*dfac, p.Lat-p.LatSpeed*dfac).TrueAltitude
		if d := alt1 - alt2; d != 0 {
			t -= (alt1 - rh) / d * dfac
		}
	}
	return t, nil
}
