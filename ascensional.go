package heliacal

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

const (
	ascOblLoopLimit   = 5000
	conjunctLoopLimit = 200
)

// ascObl returns the oblique ascension (or descension when desc is set) of
// obj at jd, in degrees.
func (ev *evaluation) ascObl(jd float64, obj ephem.Object, desc bool) (float64, error) {
	pos, err := ev.position(jd, obj, ev.options(false))
	if err != nil {
		return 0, err
	}
	adp := timeutil.TanD(ev.loc.Lat) * timeutil.TanD(pos.Lat)
	if math.Abs(adp) > 1 {
		return 0, &Error{
			Op:     "heliacal event",
			Status: StatusNotFound,
			Msg:    fmt.Sprintf("%s is circumpolar, cannot calculate heliacal event", obj),
			Err:    ErrCircumpolar,
		}
	}
	adp = timeutil.AsinD(adp)
	if desc {
		return timeutil.Normalize360(pos.Lon + adp), nil
	}
	return timeutil.Normalize360(pos.Lon - adp), nil
}

// ascOblDiff returns the difference of the oblique ascensions of the Sun and
// obj, normalised to (-180, 180]. For acronychal events the object is taken
// on the opposite horizon.
func (ev *evaluation) ascOblDiff(jd float64, obj ephem.Object, desc, acronychal bool) (float64, error) {
	aoSun, err := ev.ascObl(jd, sun, desc)
	if err != nil {
		return 0, err
	}
	if acronychal {
		desc = !desc
	}
	aoObj, err := ev.ascObl(jd, obj, desc)
	if err != nil {
		return 0, err
	}

	d := timeutil.Normalize360(aoSun - aoObj)
	if acronychal {
		d = timeutil.Normalize360(d - 180)
	}
	if d > 180 {
		d -= 360
	}
	return d, nil
}

type conjunctionKey struct {
	body       ephem.Body
	opposition bool // or superior conjunction for the inner planets
}

// conjunctionEpochs are reference conjunction dates around J2000.
var conjunctionEpochs = map[conjunctionKey]float64{
	{ephem.Moon, false}:    2451550,
	{ephem.Moon, true}:     2451550,
	{ephem.Mercury, false}: 2451604,
	{ephem.Mercury, true}:  2451670,
	{ephem.Venus, false}:   2451980,
	{ephem.Venus, true}:    2452280,
	{ephem.Mars, false}:    2451727,
	{ephem.Mars, true}:     2452074,
	{ephem.Jupiter, false}: 2451673,
	{ephem.Jupiter, true}:  2451877,
	{ephem.Saturn, false}:  2451675,
	{ephem.Saturn, true}:   2451868,
	{ephem.Uranus, false}:  2451581,
	{ephem.Uranus, true}:   2451768,
	{ephem.Neptune, false}: 2451568,
	{ephem.Neptune, true}:  2451753,
	{ephem.Pluto, false}:   2451881,
	{ephem.Pluto, true}:    2451697,
}

// findConjunctSun returns the next conjunction of body with the Sun after
// start. For the outer planets and event types 3 and 4 it is the
// opposition.
func (ev *evaluation) findConjunctSun(start float64, body ephem.Body, event EventType) (float64, error) {
	var aspect float64
	if body >= ephem.Mars && event >= EveningFirst {
		aspect = 180
	}

	t0, ok := conjunctionEpochs[conjunctionKey{body, event >= EveningFirst}]
	if !ok {
		return 0, validationError("heliacal event", "no conjunction epoch for %s", body)
	}
	period := SynodicPeriod(body)
	tcon := t0 + math.Floor((start-t0)/period+1)*period

	obj := ephem.Planet(body)
	opts := ephem.Options{Speed: true}
	ds := 100.0
	for i := 0; math.Abs(ds) > 0.5; i++ {
		if i > conjunctLoopLimit {
			return 0, ev.loopGuard("loop in find_conjunct_sun()")
		}
		x, err := ev.provider.Position(ev.ctx, tcon, obj, ev.site, opts)
		if err != nil {
			return 0, fmt.Errorf("position of %s: %w", obj, err)
		}
		xs, err := ev.provider.Position(ev.ctx, tcon, sun, ev.site, opts)
		if err != nil {
			return 0, fmt.Errorf("position of %s: %w", sun, err)
		}
		ds = timeutil.Normalize360(x.Lon - xs.Lon - aspect)
		if ds > 180 {
			ds -= 360
		}
		rel := x.LonSpeed - xs.LonSpeed
		if rel == 0 {
			return 0, ev.loopGuard("find_conjunct_sun(): no relative motion")
		}
		tcon -= ds / rel
	}
	return tcon, nil
}

// ascOblWithSun returns the date after start at which obj and the Sun have
// the same oblique ascension, the cosmical rising or setting. A period > 0
// limits the search.
func (ev *evaluation) ascOblWithSun(start float64, obj ephem.Object, event EventType, period float64) (float64, error) {
	desc := event == EveningLast || event == EveningFirst || event == AcronychalRising
	retro := event == MorningFirst || event == EveningLast
	acronychal := event == AcronychalRising || event == AcronychalSetting
	if acronychal && !obj.Is(ephem.Moon) {
		retro = true
	}

	tjd := start
	d, err := ev.ascOblDiff(tjd, obj, desc, acronychal)
	if err != nil {
		return 0, err
	}

	var save float64
	saved := false
	for i := 0; !saved ||
		math.Abs(d)+math.Abs(save) > 180 ||
		(retro && !(save < 0 && d >= 0)) ||
		(!retro && !(save >= 0 && d < 0)); {
		i++
		if i > ascOblLoopLimit {
			return 0, ev.loopGuard("loop in get_asc_obl_with_sun() (1)")
		}
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		save, saved = d, true
		tjd += 10
		if period > 0 && tjd-start > period {
			return 0, notFound("heliacal event", "cosmical event not found within %.0f days", period)
		}
		if d, err = ev.ascOblDiff(tjd, obj, desc, acronychal); err != nil {
			return 0, err
		}
	}

	step := 20.0
	lo := tjd - step
	step /= 2
	tjd = lo + step
	test, err := ev.ascOblDiff(tjd, obj, desc, acronychal)
	if err != nil {
		return 0, err
	}
	for i := 0; math.Abs(d) > 0.00001; {
		i++
		if i > ascOblLoopLimit {
			return 0, ev.loopGuard("loop in get_asc_obl_with_sun() (2)")
		}
		if save*test >= 0 {
			save = test
			lo = tjd
		} else {
			d = test
		}
		step /= 2
		tjd = lo + step
		if test, err = ev.ascOblDiff(tjd, obj, desc, acronychal); err != nil {
			return 0, err
		}
	}
	return tjd, nil
}

func (ev *evaluation) loopGuard(msg string) error {
	ev.metrics.LoopGuards.Inc()
	ev.log.Warn("iteration guard hit", "msg", msg)
	return loopGuard("heliacal event", msg)
}

// daySearch holds the per-object stepping of heliacalDay.
type daySearch struct {
	ndays   float64
	daystep float64
	tfac    float64
}

func (ev *evaluation) daySearchFor(obj ephem.Object, event EventType, tjd *float64, dday float64) (daySearch, error) {
	switch {
	case obj.IsStar():
		s := daySearch{ndays: 300, daystep: 15, tfac: 10}
		mag, err := ev.magnitude(*tjd, obj)
		if err != nil {
			return s, err
		}
		if mag < 0 {
			s.tfac = 3
		}
		return s, nil
	case obj.Is(ephem.Moon):
		return daySearch{ndays: 16, daystep: 1, tfac: 1}, nil
	case obj.Is(ephem.Mercury):
		return daySearch{ndays: 60, daystep: 5, tfac: 5}, nil
	case obj.Is(ephem.Venus):
		*tjd -= 30 * dday
		if event >= EveningFirst {
			return daySearch{ndays: 300, daystep: 15, tfac: 3}, nil
		}
		return daySearch{ndays: 300, daystep: 5, tfac: 1}, nil
	case obj.Is(ephem.Mars):
		return daySearch{ndays: 400, daystep: 15, tfac: 5}, nil
	case obj.Is(ephem.Saturn):
		return daySearch{ndays: 300, daystep: 20, tfac: 5}, nil
	default:
		return daySearch{ndays: 300, daystep: 15, tfac: 3}, nil
	}
}

// heliacalDay steps day by day from tjd and returns the first sunrise or
// sunset (refined to the minute) at which obj is brighter than the visual
// limit.
func (ev *evaluation) heliacalDay(tjd float64, obj ephem.Object, event EventType) (float64, error) {
	var kind ephem.RiseKind
	var dday, dtime float64
	switch event {
	case MorningFirst:
		kind, dday, dtime = ephem.Rise, 1, -1
	case EveningLast:
		kind, dday, dtime = ephem.Set, -1, 1
	case EveningFirst:
		kind, dday, dtime = ephem.Set, 1, 1
	case MorningLast:
		kind, dday, dtime = ephem.Rise, -1, -1
	default:
		return 0, validationError("heliacal event", "no heliacal day for %s", event)
	}

	s, err := ev.daySearchFor(obj, event, &tjd, dday)
	if err != nil {
		return 0, err
	}
	outer := obj.IsStar() || obj.Body() >= ephem.Mars
	tend := tjd + s.ndays*dday
	const minute = 1 / minutesDay

	oldAbove := false
	for tday, i := tjd, 0; (dday > 0 && tday < tend) || (dday < 0 && tday > tend); tday, i = tday+s.daystep*dday, i+1 {
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		if i > 0 {
			tday -= 0.3 * dday
		}

		tret, err := ev.riseTrans(tday, sun, kind, false)
		if isNotFound(err) {
			oldAbove = false
			continue
		}
		if err != nil {
			return 0, err
		}

		v, above, err := ev.sample(tret, obj, ev.flags)
		if err != nil {
			return 0, err
		}
		if !oldAbove && above && s.daystep > 1 {
			oldAbove = true
			tday -= s.daystep * dday
			s.daystep = 1
			if outer {
				s.daystep = 5
			}
			continue
		}
		oldAbove = above
		if !above {
			continue
		}

		vd := v.margin()
		atSunRiseSet := true
		for j := 0; above && vd < 0; j++ {
			if j > minuteWalkLimit {
				return 0, ev.loopGuard("loop in get_heliacal_day() minute walk")
			}
			if err := ev.checkContext(); err != nil {
				return 0, err
			}
			atSunRiseSet = false
			switch {
			case vd < -1:
				tret += 5 * minute * dtime * s.tfac
			case vd < -0.5:
				tret += 2 * minute * dtime * s.tfac
			case vd < -0.1:
				tret += minute * dtime * s.tfac
			default:
				tret += minute * dtime
			}
			if v, above, err = ev.sample(tret, obj, ev.flags); err != nil {
				return 0, err
			}
			vd = v.margin()
		}

		// the limiting magnitude is unsteady right at sunrise and sunset
		if atSunRiseSet {
			for j := 0; j < 10; j++ {
				v2, ok, err := ev.sample(tret+minute*dtime, obj, ev.flags)
				if err != nil {
					return 0, err
				}
				if ok && v2.margin() > vd {
					vd = v2.margin()
					tret += minute * dtime
					v = v2
				}
			}
		}

		if above && v.margin() > 0 {
			if outer && s.daystep > 1 {
				tday -= s.daystep * dday
				s.daystep = 1
				continue
			}
			ev.log.Debug("heliacal day", "object", obj.Name(), "jd", tret)
			return tret, nil
		}
	}
	return 0, notFound("heliacal event", "heliacal event does not happen")
}
