package heliacal

import (
	"context"
	"errors"
	"strings"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/brightness"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

var synodicPeriods = map[ephem.Body]float64{
	ephem.Moon:    29.530588853,
	ephem.Mercury: 115.8775,
	ephem.Venus:   583.9214,
	ephem.Mars:    779.9361,
	ephem.Jupiter: 398.8840,
	ephem.Saturn:  378.0919,
	ephem.Uranus:  369.6560,
	ephem.Neptune: 367.4867,
	ephem.Pluto:   366.7207,
}

// SynodicPeriod returns the mean synodic period of b in days. Stars,
// asteroids and anything else get 366 days.
func SynodicPeriod(b ephem.Body) float64 {
	if p, ok := synodicPeriods[b]; ok {
		return p
	}
	return 366.0
}

// visionState is the regime a visibility sample was evaluated in.
type visionState struct {
	scotopic, mixed bool
}

func stateOf(v VisLimit) visionState {
	return visionState{scotopic: v.Scotopic, mixed: v.Mixed}
}

// sample evaluates the limiting magnitude at t. ok is false when the
// object is below the horizon.
func (ev *evaluation) sample(t float64, obj ephem.Object, flags Flags) (v VisLimit, ok bool, err error) {
	v, err = ev.visLimit(t, obj, flags)
	if errors.Is(err, ErrBelowHorizon) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// timeOptimumVisibility moves tjd to the nearby instant of largest
// visibility margin. uncertain is set when the search crossed between
// photopic and scotopic vision or started close to the switch.
func (ev *evaluation) timeOptimumVisibility(tjd float64, obj ephem.Object, flags Flags) (t float64, uncertain bool, err error) {
	v, ok, err := ev.sample(tjd, obj, flags)
	if err != nil {
		return tjd, false, err
	}
	saved := visionState{}
	if ok {
		saved = stateOf(v)
	}
	last, lastOK := v, ok

	walk := func(dir float64) (float64, float64, error) {
		t, best := tjd, -1.0
		for i, d := 0, 100.0/secondsDay; i < 3; i, d = i+1, d/10 {
			for j, next := 0, t; ; j, next = j+1, t+dir*d {
				if j > minuteWalkLimit {
					return t, best, ev.loopGuard("optimum visibility does not converge")
				}
				if err := ev.checkContext(); err != nil {
					return t, best, err
				}
				v, ok, err := ev.sample(next, obj, flags)
				if err != nil {
					return t, best, err
				}
				last, lastOK = v, ok
				if !ok || !v.Visible() || v.margin() <= best {
					break
				}
				t, best = next, v.margin()
				saved = stateOf(v)
			}
		}
		return t, best, nil
	}

	t1, best1, err := walk(-1)
	if err != nil {
		return tjd, false, err
	}
	t2, best2, err := walk(1)
	if err != nil {
		return tjd, false, err
	}

	t = t1
	if best2 > best1 {
		t = t2
	}
	if lastOK && (saved.scotopic != last.Scotopic || saved.mixed) {
		uncertain = true
	}
	return t, uncertain, nil
}

// timeLimitInvisible walks from tjd in direction direct (+1 later, -1
// earlier) to the last instant the object is still visible.
func (ev *evaluation) timeLimitInvisible(tjd float64, obj ephem.Object, flags Flags, direct float64) (t float64, uncertain bool, err error) {
	steps, d0 := 3, 100.0/secondsDay
	if obj.Is(ephem.Moon) {
		steps, d0 = 4, d0*10
	}

	v, ok, err := ev.sample(tjd, obj, flags)
	if err != nil {
		return tjd, false, err
	}
	saved := visionState{}
	if ok {
		saved = stateOf(v)
	}
	last, lastOK := v, ok

	t = tjd
	for i, d := 0, d0; i < steps; i, d = i+1, d/10 {
		for j := 0; ; j++ {
			if j > minuteWalkLimit {
				return t, false, ev.loopGuard("object does not become invisible")
			}
			if err := ev.checkContext(); err != nil {
				return t, false, err
			}
			v, ok, err := ev.sample(t+d*direct, obj, flags)
			if err != nil {
				return t, false, err
			}
			last, lastOK = v, ok
			if !ok || !v.Visible() {
				break
			}
			t += d * direct
			saved = stateOf(v)
		}
	}

	if lastOK && (saved.scotopic != last.Scotopic || saved.mixed) {
		uncertain = true
	}
	return t, uncertain, nil
}

// heliacalDetails refines the event day tday into the first, optimum and
// last instants of visibility.
func (ev *evaluation) heliacalDetails(tday float64, obj ephem.Object, event EventType) (Result, error) {
	var res Result
	opt, optU, err := ev.timeOptimumVisibility(tday, obj, ev.flags)
	if err != nil {
		return res, err
	}

	direct := 1.0
	if event == MorningFirst || event == MorningLast {
		direct = -1
	}
	first, firstU, err := ev.timeLimitInvisible(tday, obj, ev.flags, direct)
	if err != nil {
		return res, err
	}
	last, lastU, err := ev.timeLimitInvisible(opt, obj, ev.flags, -direct)
	if err != nil {
		return res, err
	}

	if event == EveningLast || event == EveningFirst {
		first, last = last, first
		firstU, lastU = lastU, firstU
	}

	res = Result{Status: StatusOK, Times: [3]float64{first, opt, last}, Count: 3}
	if optU || firstU || lastU {
		res.Uncertain = true
		res.Message = uncertaintyMessage(firstU, optU, lastU)
	}
	return res, nil
}

func uncertaintyMessage(first, opt, last bool) string {
	var b strings.Builder
	b.WriteString("return values [")
	if first {
		b.WriteString("0,")
	}
	if opt {
		b.WriteString("1,")
	}
	if last {
		b.WriteString("2,")
	}
	b.WriteString("] are uncertain due to change between photopic and scotopic vision")
	return b.String()
}

// vrWindowMinutes bounds the minute walk of the visibility window.
const vrWindowMinutes = 240

// visibilityWindow walks minute by minute from the object's rise or set
// towards the Sun and records when the actual arcus visionis exceeds the
// one required.
func (ev *evaluation) visibilityWindow(from float64, obj ephem.Object, direct float64) (first, best, last, duration float64, err error) {
	first, best, last = TJDInvalid, TJDInvalid, TJDInvalid
	bestMargin := 0.0
	seen, count := false, 0

	for i := 0; i < vrWindowMinutes; i++ {
		if err := ev.checkContext(); err != nil {
			return first, best, last, 0, err
		}
		t := from + float64(i)*direct/minutesDay
		altO, _, err := ev.altAz(t, obj)
		if err != nil {
			return first, best, last, 0, err
		}
		altS, _, err := ev.altAz(t, sun)
		if err != nil {
			return first, best, last, 0, err
		}
		need, err := ev.deterTAV(t, obj)
		if err != nil {
			return first, best, last, 0, err
		}

		margin := altO - altS - need
		if margin < 0 {
			if seen {
				break
			}
			continue
		}
		if !seen || margin > bestMargin {
			best, bestMargin = t, margin
		}
		if !seen || t < first {
			first = t
		}
		if !seen || t > last {
			last = t
		}
		seen = true
		count++
	}
	return first, best, last, float64(count) / minutesDay, nil
}

// Phenomena describes the visibility of object at jdUT in the context of
// the given event type: the geometry of object and Sun, the arcs of
// vision, extinction, rise and set times and, for the Moon, the crescent
// figures of Yallop's criterion.
func (e *Engine) Phenomena(ctx context.Context, jdUT float64, loc Location, atm Atmosphere, obs Observer, object string, event EventType, flags Flags) (Phenomena, error) {
	const op = "heliacal phenomena"
	if err := validateHeight(op, loc); err != nil {
		return Phenomena{}, err
	}
	ev := e.newEvaluation(ctx, op, loc, atm, obs, flags)
	defer ev.reportWarnings()
	return ev.phenomena(jdUT, ephem.ParseObject(object), event)
}

func (ev *evaluation) phenomena(jd float64, obj ephem.Object, event EventType) (Phenomena, error) {
	var p Phenomena
	var err error
	sunRA := ev.sunRA(jd)

	if p.AltS, p.AziS, err = ev.altAz(jd, sun); err != nil {
		return p, err
	}
	if p.AltO, p.AziO, err = ev.altAz(jd, obj); err != nil {
		return p, err
	}
	if p.GeoAltO, err = ev.objectLoc(jd, obj, locGeoAlt); err != nil {
		return p, err
	}
	p.AppAltO = atmosphere.AppAltFromTopoAlt(p.AltO, ev.cond.Temperature, ev.cond.Pressure, ev.flags.Has(HighPrecision))
	p.DAZact = p.AziS - p.AziO
	p.TAVact = p.AltO - p.AltS
	p.ParO = p.GeoAltO - p.AltO

	if p.MagnO, err = ev.magnitude(jd, obj); err != nil {
		return p, err
	}
	p.ARCVact = p.TAVact + p.ParO
	p.ARCLact = timeutil.AcosD(timeutil.CosD(p.ARCVact) * timeutil.CosD(p.DAZact))

	p.Elong, p.Illum = p.ARCLact, 100
	if !obj.IsStar() {
		ph, err := ev.provider.Phenomena(ev.ctx, jd, obj, ev.site, ev.options(true))
		if err != nil {
			return p, err
		}
		p.Elong, p.Illum = ph.Elongation, ph.Phase*100
	}

	p.Kact = ev.atm.KT(p.AltS, sunRA, atmosphere.Total)

	if obj.Is(ephem.Moon) {
		p.WMoon = WidthMoon(p.AltO, p.AziO, p.AltS, p.AziS, p.ParO)
		p.LMoon = LengthMoon(p.WMoon, 0)
		p.QYal = QYallop(p.WMoon, p.ARCVact)
		p.QCrit = float64(YallopClass(p.QYal))
	}

	scene := brightness.Scene{JD: jd, AziO: p.AziO, AltM: -90, AziS: p.AziS}
	if !obj.Is(ephem.Moon) {
		if scene.AltM, scene.AziM, err = ev.altAz(jd, moon); err != nil {
			return p, err
		}
	}
	angles, err := ev.heliacalAngle(p.MagnO, scene)
	if err != nil {
		return p, err
	}
	p.MinTAV = angles.MinArc

	kind, direct := ephem.Set, -1.0
	if event.isRisingEvent() {
		kind, direct = ephem.Rise, 1
	}

	p.RiseSetS, err = ev.riseSet(jd-4.0/24, sun, kind, 0)
	switch {
	case errors.Is(err, ErrCircumpolar):
		p.RiseSetS = TJDInvalid
	case err != nil:
		return p, err
	}
	p.RiseSetO, err = ev.riseSet(jd-4.0/24, obj, kind, 0)
	noRiseO := errors.Is(err, ErrCircumpolar)
	if err != nil && !noRiseO {
		return p, err
	}

	p.TbYallop = TJDInvalid
	p.TfirstVR, p.TbVR, p.TlastVR = TJDInvalid, TJDInvalid, TJDInvalid
	if noRiseO {
		p.RiseSetO = TJDInvalid
		return p, nil
	}

	if p.RiseSetS != TJDInvalid {
		p.Lag = p.RiseSetO - p.RiseSetS
		if obj.Is(ephem.Moon) {
			p.TbYallop = (p.RiseSetO*4 + p.RiseSetS*5) / 9
		}
	}

	if !ev.flags.Has(NoDetails) {
		p.TfirstVR, p.TbVR, p.TlastVR, p.TvisVR, err = ev.visibilityWindow(p.RiseSetO, obj, direct)
		if err != nil {
			return p, err
		}
	}
	return p, nil
}
