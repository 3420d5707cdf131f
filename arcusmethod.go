package heliacal

import (
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/brightness"
	"github.com/thurmanmarka/heliacal/internal/solver"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

const (
	// minuteWalkLimit bounds every fine-step walk in time.
	minuteWalkLimit = 2 * 1440
	phaseLoopLimit  = 60
	lunarDayLimit   = 15
	lunarWalkWindow = 120.0 / minutesDay
)

// arcSteps returns the initial day step and the search window of the
// arcus visionis method for obj.
func arcSteps(obj ephem.Object) (step, maxLength float64) {
	switch {
	case obj.Is(ephem.Mercury):
		return 1, 100
	case obj.Is(ephem.Venus):
		return 64, 384
	case obj.Is(ephem.Mars):
		return 128, 640
	case obj.Is(ephem.Jupiter):
		return 64, 384
	case obj.Is(ephem.Saturn):
		return 64, 256
	default:
		return 64, 256
	}
}

// arcusDay is one day of the arcus visionis search.
type arcusDay struct {
	jd    float64 // instant of the wanted solar altitude
	delta float64 // altitude difference minus minimum arcus visionis
	pto   float64 // solar altitude of the optimum, used for the next day
}

// arcusDayAt finds the instant the Sun reaches sunAngle on the morning or
// evening of day and the margin of the actual altitude difference over the
// minimum arcus visionis there.
func (ev *evaluation) arcusDayAt(day float64, obj ephem.Object, kind ephem.RiseKind, evening bool, mag *float64, sunAngle float64) (arcusDay, error) {
	tret, err := ev.riseTrans(day, sun, kind, true)
	if err != nil {
		return arcusDay{}, err
	}
	pos, err := ev.position(tret, sun, ev.options(true))
	if err != nil {
		return arcusDay{}, err
	}
	trise := HourAngle(ev.horizon(tret, pos.Lon, pos.Lat).TrueAltitude, pos.Lat, ev.loc.Lat)

	switch {
	case ev.flags.Has(AVKindMin7):
		sunAngle = -7
	case ev.flags.Has(AVKindMin9):
		sunAngle = -9
	}
	tdelta := HourAngle(sunAngle, pos.Lat, ev.loc.Lat) - trise
	if evening {
		tdelta = -tdelta
	}
	jd := tret - tdelta/24

	altS, aziS, err := ev.altAz(jd, sun)
	if err != nil {
		return arcusDay{}, err
	}
	altO, aziO, err := ev.altAz(jd, obj)
	if err != nil {
		return arcusDay{}, err
	}
	if !obj.IsStar() {
		if *mag, err = ev.magnitude(jd, obj); err != nil {
			return arcusDay{}, err
		}
	}

	angles, err := ev.heliacalAngle(*mag, brightness.Scene{JD: jd, AziO: aziO, AltM: -1, AziM: 0, AziS: aziS})
	if err != nil {
		return arcusDay{}, err
	}
	return arcusDay{jd: jd, delta: altO - altS - angles.MinArc, pto: angles.AltS}, nil
}

// arcVisEvent searches the heliacal event of a planet or star with the
// arcus visionis method. The day step is halved every time the search
// overshoots, down to one day.
func (ev *evaluation) arcVisEvent(start float64, obj ephem.Object, event EventType) (float64, error) {
	const op = "heliacal event"
	mag, err := ev.magnitude(start, obj)
	if err != nil {
		return 0, err
	}

	dayStep, maxLength := arcSteps(obj)
	kind := ephem.Rise
	switch event {
	case EveningLast:
		kind, dayStep = ephem.Set, -dayStep
	case MorningLast:
		dayStep = -dayStep
	case EveningFirst:
		kind = ephem.Set
	}
	evening := event == EveningLast || event == EveningFirst

	t, final := start-1, start+maxLength
	if dayStep < 0 {
		t, final = final, t
	}
	step := t - dayStep
	remaining := func() float64 { return (final - step) * timeutil.Sgn(dayStep) }

	day := arcusDay{delta: 199, pto: -5.55}
	doneOneDay := false
	for {
		if math.Abs(dayStep) == 1 {
			doneOneDay = true
		}
		var stepOld, deltaOld float64
		for {
			if err := ev.checkContext(); err != nil {
				return 0, err
			}
			stepOld, deltaOld = step, day.delta
			step += dayStep
			if day, err = ev.arcusDayAt(step, obj, kind, evening, &mag, day.pto); err != nil {
				return 0, err
			}
			if !((deltaOld > 0 || day.delta < 0) && remaining() > 0) {
				break
			}
		}
		if doneOneDay || remaining() <= 0 {
			break
		}
		day.delta = deltaOld
		dayStep = math.Trunc(math.Abs(dayStep)/2) * timeutil.Sgn(dayStep)
		step = stepOld
	}

	if d := remaining(); d <= 0 || d >= maxLength {
		return 0, notFound(op, "heliacal event not found within maxlength %f", maxLength)
	}

	direct := TimeStepDefault / minutesDay
	if dayStep < 0 {
		direct = -direct
	}

	jd := day.jd
	if ev.flags.Has(AVKindVR) {
		if jd, err = ev.arcusMinimumWalk(jd, obj, direct); err != nil {
			return 0, err
		}
	}
	if ev.flags.Has(AVKindPTO) {
		if jd, err = ev.horizonWalk(jd, obj, direct); err != nil {
			return 0, err
		}
	}

	if jd < -9999999 || jd > 9999999 {
		return 0, &Error{Op: op, Status: StatusError, Msg: "no heliacal date found"}
	}
	return jd, nil
}

// arcusMinimumWalk steps minute by minute from jd in whichever direction
// the required arcus visionis decreases and returns the vertex of the
// parabola through the three samples around its minimum.
func (ev *evaluation) arcusMinimumWalk(jd float64, obj ephem.Object, direct float64) (float64, error) {
	step := direct
	ptr := jd
	oldest, err := ev.deterTAV(ptr, obj)
	if err != nil {
		return 0, err
	}
	ptr += step
	older, err := ev.deterTAV(ptr, obj)
	if err != nil {
		return 0, err
	}

	var act float64
	if older > oldest {
		ptr = jd
		step = -step
		act = oldest
	} else {
		act, older = older, oldest
	}

	for i := 0; i < minuteWalkLimit; i++ {
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		ptr += step
		oldest, older = older, act
		if act, err = ev.deterTAV(ptr, obj); err != nil {
			return 0, err
		}
		if older < act {
			x := solver.ParabolaVertex(act, older, oldest)
			return ptr - (1-x)*step, nil
		}
	}
	return 0, ev.loopGuard("arcus visionis minimum not found")
}

// horizonWalk steps back from jd towards the object's horizon crossing and
// returns the midpoint of the last minute above the horizon.
func (ev *evaluation) horizonWalk(jd float64, obj ephem.Object, direct float64) (float64, error) {
	for i := 0; i < minuteWalkLimit; i++ {
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		prev := jd
		jd -= direct
		alt, _, err := ev.altAz(jd, obj)
		if err != nil {
			return 0, err
		}
		if alt <= 0 {
			return (jd + prev) / 2, nil
		}
	}
	return 0, ev.loopGuard("object does not reach the horizon")
}

// moonArcVisEvent finds the evening first or morning last lunar crescent
// with the arcus visionis method.
func (ev *evaluation) moonArcVisEvent(start float64, event EventType) (float64, error) {
	const op = "heliacal event"
	kindFlags := ev.flags & AVKind
	if kindFlags != 0 && kindFlags != AVKindVR {
		return 0, validationError(op, "invalid AV kind for the moon")
	}
	if event == MorningFirst || event == EveningLast {
		return 0, validationError(op, "the moon has no morning first or evening last")
	}

	kind, dayStep := ephem.Set, 1.0
	jd := start
	if event != EveningFirst {
		kind, dayStep = ephem.Rise, -1
		jd += 30
	}
	sgn := timeutil.Sgn(dayStep)

	phase := func(t float64) (float64, error) {
		ph, err := ev.provider.Phenomena(ev.ctx, t, moon, ev.site, ev.options(true))
		return ph.PhaseAngle, err
	}

	// step to the day of the largest phase angle, the new moon
	p2, err := phase(jd)
	if err != nil {
		return 0, err
	}
	goingUp := false
	for i := 0; ; i++ {
		if i > phaseLoopLimit {
			return 0, ev.loopGuard("new moon not found")
		}
		jd += dayStep
		p1 := p2
		if p2, err = phase(jd); err != nil {
			return 0, err
		}
		if p2 > p1 {
			goingUp = true
		}
		if goingUp && p2 <= p1 {
			break
		}
	}
	jd -= dayStep

	newMoon := jd
	jd -= dayStep
	minTAV, older, oldest := 199.0, 199.0, 199.0
	deltaAlt, deltaAltOld := 90.0, 0.0
	var t float64
	for {
		if err := ev.checkContext(); err != nil {
			return 0, err
		}
		jd += dayStep
		if t, err = ev.riseSet(jd, moon, kind, 0); err != nil {
			return 0, err
		}
		tStart := t
		minTAV = 199
		for {
			oldest, older, deltaAltOld = older, minTAV, deltaAlt
			t -= sgn / minutesDay

			altS, err := ev.objectLoc(t, sun, locTopoAlt)
			if err != nil {
				return 0, err
			}
			altO, err := ev.objectLoc(t, moon, locTopoAlt)
			if err != nil {
				return 0, err
			}
			deltaAlt = altO - altS

			if minTAV, err = ev.deterTAV(t, moon); err != nil {
				return 0, err
			}
			check, err := ev.deterTAV(t-LocalMinStep/minutesDay*sgn, moon)
			if err != nil {
				return 0, err
			}
			if !((minTAV <= older || check < minTAV) && math.Abs(t-tStart) < lunarWalkWindow) {
				break
			}
		}
		if !(deltaAltOld < older && math.Abs(jd-newMoon) < lunarDayLimit) {
			break
		}
	}

	if math.Abs(jd-newMoon) >= lunarDayLimit {
		return 0, notFound(op, "no date found for lunar event")
	}
	t += (1 - solver.ParabolaVertex(minTAV, older, oldest)) * sgn / minutesDay
	return t, nil
}
