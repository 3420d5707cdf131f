package heliacal

import (
	"context"
	"errors"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/brightness"
	"github.com/thurmanmarka/heliacal/internal/solver"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
	"github.com/thurmanmarka/heliacal/internal/vision"
)

// noArc is returned by topoArcVisionis when no solar depression in
// [0°, 45°] makes the object visible.
const noArc = 99.0

// Sighting is the horizontal geometry of an object of a given magnitude
// together with the Sun and the Moon. Set AltM to -90 to ignore moonlight.
type Sighting struct {
	Magnitude  float64
	AltO, AziO float64
	AziS       float64
	AltM, AziM float64
}

// HeliacalAngles is the optimum geometry for first visibility.
type HeliacalAngles struct {
	AltO   float64 // object altitude at which the arcus visionis is smallest
	MinArc float64 // the smallest topocentric arcus visionis
	AltS   float64 // solar altitude at that point, AltO - MinArc
}

func (ev *evaluation) limit(s brightness.Scene, flags Flags) vision.Limit {
	ev.metrics.VisibilityEvaluations.Inc()
	return vision.VisLimMagn(ev.atm, ev.observer, s, flags.adaptation())
}

// topoArcVisionis returns the Sun-object altitude difference at which an
// object of magnitude mag, placed as in s, is exactly at the visual limit.
// s.AltS is ignored. The result is never smaller than s.AltO.
func (ev *evaluation) topoArcVisionis(mag float64, s brightness.Scene) (float64, error) {
	f := func(delta float64) (float64, error) {
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		sc := s
		sc.AltS = s.AltO - delta
		return mag - ev.limit(sc, ev.flags).Magnitude, nil
	}

	yl, err := f(45)
	if err != nil {
		return 0, err
	}
	yr, err := f(0)
	if err != nil {
		return 0, err
	}
	b, err := solver.Bisect(ev.ctx, f, solver.Bracket{Lo: 45, Hi: 0, FLo: yl, FHi: yr}, 0, solver.AnyCrossing, Epsilon, 0)

	arc := b.Mid()
	switch {
	case errors.Is(err, solver.ErrNoBracket):
		arc = noArc
	case err != nil:
		return 0, err
	}
	if arc < s.AltO {
		arc = s.AltO
	}
	return arc, nil
}

// heliacalAngle finds the object altitude minimising the arcus visionis.
// s.AltO and s.AltS are ignored.
func (ev *evaluation) heliacalAngle(mag float64, s brightness.Scene) (HeliacalAngles, error) {
	s.SunRA = ev.sunRA(s.JD)
	arcAt := func(altO float64) (float64, error) {
		sc := s
		sc.AltO = altO
		return ev.topoArcVisionis(mag, sc)
	}

	xmin, ymin := 0.0, 10000.0
	for x := 2.0; x <= 20; x++ {
		arc, err := arcAt(x)
		if err != nil {
			return HeliacalAngles{}, err
		}
		if arc < ymin {
			xmin, ymin = x, arc
		}
	}

	x, y, err := solver.Minimum(ev.ctx, arcAt, xmin-1, xmin+1, 0.025, 0.1, 0)
	if err != nil {
		return HeliacalAngles{}, err
	}
	return HeliacalAngles{AltO: x, MinArc: y, AltS: x - y}, nil
}

// deterTAV returns the topocentric arcus visionis obj needs at jdUT.
func (ev *evaluation) deterTAV(jdUT float64, obj ephem.Object) (float64, error) {
	s := brightness.Scene{JD: jdUT, SunRA: ev.sunRA(jdUT), AltM: -90}

	mag, err := ev.magnitude(jdUT, obj)
	if err != nil {
		return 0, err
	}
	if s.AltO, s.AziO, err = ev.altAz(jdUT, obj); err != nil {
		return 0, err
	}
	if !obj.Is(ephem.Moon) {
		if s.AltM, s.AziM, err = ev.altAz(jdUT, moon); err != nil {
			return 0, err
		}
	}
	if _, s.AziS, err = ev.altAz(jdUT, sun); err != nil {
		return 0, err
	}
	return ev.topoArcVisionis(mag, s)
}

// visLimit evaluates the visual limiting magnitude of obj at jdUT. Objects
// below the horizon yield ErrBelowHorizon and a Limit of -100.
func (ev *evaluation) visLimit(jdUT float64, obj ephem.Object, flags Flags) (VisLimit, error) {
	if obj.Is(ephem.Sun) {
		return VisLimit{}, validationError("visual limit magnitude", "it makes no sense to compute a limiting magnitude for the Sun")
	}

	s := brightness.Scene{JD: jdUT, SunRA: ev.sunRA(jdUT)}
	var err error
	if s.AltO, s.AziO, err = ev.altAz(jdUT, obj); err != nil {
		return VisLimit{}, err
	}
	if s.AltO < 0 {
		return VisLimit{Limit: -100, AltO: s.AltO, AziO: s.AziO}, ErrBelowHorizon
	}

	if flags.Has(VisLimDark) {
		s.AltS, s.AziS = -90, 0
	} else if s.AltS, s.AziS, err = ev.altAz(jdUT, sun); err != nil {
		return VisLimit{}, err
	}

	if obj.Is(ephem.Moon) || flags.Any(VisLimDark|VisLimNoMoon) {
		s.AltM, s.AziM = -90, 0
	} else if s.AltM, s.AziM, err = ev.altAz(jdUT, moon); err != nil {
		return VisLimit{}, err
	}

	lim := ev.limit(s, flags)
	mag, err := ev.magnitude(jdUT, obj)
	if err != nil {
		return VisLimit{}, err
	}

	return VisLimit{
		Limit:     lim.Magnitude,
		AltO:      s.AltO,
		AziO:      s.AziO,
		AltS:      s.AltS,
		AziS:      s.AziS,
		AltM:      s.AltM,
		AziM:      s.AziM,
		Magnitude: mag,
		Scotopic:  lim.Scotopic,
		Mixed:     lim.Mixed,
	}, nil
}

// WidthMoon returns the topocentric crescent width in degrees for the Moon
// at (altO, aziO) with horizontal parallax par and the Sun at (altS, aziS).
func WidthMoon(altO, aziO, altS, aziS, par float64) float64 {
	geoAltO := altO + par
	return 0.27245 * par *
		(1 + timeutil.SinD(geoAltO)*timeutil.SinD(par)) *
		(1 - timeutil.CosD(altS-geoAltO)*timeutil.CosD(aziS-aziO))
}

// LengthMoon returns the crescent length in degrees for width w and lunar
// diameter diam (both degrees). A zero diameter uses the mean diameter.
func LengthMoon(w, diam float64) float64 {
	if diam == 0 {
		diam = AvgRadiusMoon * 2
	}
	wi := w * 60
	d := diam * 60
	return (d - 0.3*(d+wi)/2/wi) / 60
}

// QYallop returns Yallop's q for crescent width w (degrees) and geocentric
// arcus visionis arcv.
func QYallop(w, arcv float64) float64 {
	wi := w * 60
	return (arcv - (11.8371 - 6.3226*wi + 0.7319*wi*wi - 0.1018*wi*wi*wi)) / 10
}

// Crescent is a Yallop visibility class.
type Crescent int

const (
	CrescentA Crescent = iota + 1 // easily visible
	CrescentB                     // visible under perfect conditions
	CrescentC                     // may need optical aid
	CrescentD                     // will need optical aid
	CrescentE                     // not visible with a telescope
	CrescentF                     // not visible
)

func (c Crescent) String() string {
	if c < CrescentA || c > CrescentF {
		return "?"
	}
	return string(rune('A' + int(c-CrescentA)))
}

// YallopClass classifies Yallop's q.
func YallopClass(q float64) Crescent {
	switch {
	case q > 0.216:
		return CrescentA
	case q > -0.014:
		return CrescentB
	case q > -0.16:
		return CrescentC
	case q > -0.232:
		return CrescentD
	case q > -0.293:
		return CrescentE
	default:
		return CrescentF
	}
}

// TopoArcusVisionis returns the topocentric arcus visionis, the Sun-object
// altitude difference at which the sighted object is at the limit of
// visibility. The result is 99 when no solar altitude down to 45° below the
// object makes it visible.
func (e *Engine) TopoArcusVisionis(ctx context.Context, jdUT float64, loc Location, atm Atmosphere, obs Observer, flags Flags, s Sighting) (float64, error) {
	const op = "topo arcus visionis"
	if err := validateHeight(op, loc); err != nil {
		return 0, err
	}
	ev := e.newEvaluation(ctx, op, loc, atm, obs, flags)
	return ev.topoArcVisionis(s.Magnitude, brightness.Scene{
		JD:    jdUT,
		AltO:  s.AltO,
		AziO:  s.AziO,
		AltM:  s.AltM,
		AziM:  s.AziM,
		AziS:  s.AziS,
		SunRA: ev.sunRA(jdUT),
	})
}

// HeliacalAngle returns the object altitude and solar depression for which
// the arcus visionis of the sighted object is smallest. s.AltO is ignored.
func (e *Engine) HeliacalAngle(ctx context.Context, jdUT float64, loc Location, atm Atmosphere, obs Observer, flags Flags, s Sighting) (HeliacalAngles, error) {
	const op = "heliacal angle"
	if err := validateHeight(op, loc); err != nil {
		return HeliacalAngles{}, err
	}
	ev := e.newEvaluation(ctx, op, loc, atm, obs, flags)
	return ev.heliacalAngle(s.Magnitude, brightness.Scene{
		JD:   jdUT,
		AziO: s.AziO,
		AltM: s.AltM,
		AziM: s.AziM,
		AziS: s.AziS,
	})
}

// VisualLimitMagnitude returns the faintest magnitude visible at the
// position of object at jdUT, with the object's own magnitude. For an
// object below the horizon it returns Limit -100 and an *Error with
// StatusNotFound wrapping ErrBelowHorizon.
func (e *Engine) VisualLimitMagnitude(ctx context.Context, jdUT float64, loc Location, atm Atmosphere, obs Observer, object string, flags Flags) (VisLimit, error) {
	const op = "visual limit magnitude"
	if err := validateHeight(op, loc); err != nil {
		return VisLimit{}, err
	}
	ev := e.newEvaluation(ctx, op, loc, atm, obs, flags)
	defer ev.reportWarnings()
	v, err := ev.visLimit(jdUT, ephem.ParseObject(object), flags)
	if errors.Is(err, ErrBelowHorizon) {
		return v, &Error{Op: op, Status: StatusNotFound, Err: ErrBelowHorizon}
	}
	return v, err
}
