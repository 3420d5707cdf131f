package heliacal

import (
	"errors"
	"fmt"
	"math"

	"github.com/thurmanmarka/heliacal/ephem"
)

const acronychalLoopLimit = 200

// visLimEvent searches the heliacal event of a planet or star with the
// visual limiting magnitude method.
func (ev *evaluation) visLimEvent(start float64, obj ephem.Object, event EventType) (Result, error) {
	tjd := start - 50
	if obj.Is(ephem.Mercury) {
		tjd = start - 30
	}

	inner := obj.Is(ephem.Mercury) || obj.Is(ephem.Venus)
	var tday float64
	var note string
	var err error
	if inner || event <= EveningLast {
		if obj.IsStar() {
			tjd, err = ev.ascOblWithSun(tjd, obj, event, 0)
		} else {
			tjd, err = ev.findConjunctSun(tjd, obj.Body(), event)
		}
		if err != nil {
			return Result{}, err
		}
		if tday, err = ev.heliacalDay(tjd, obj, event); err != nil {
			return Result{}, err
		}
	} else {
		if tjd, err = ev.ascOblWithSun(tjd, obj, event, 0); err != nil {
			return Result{}, err
		}
		if tday, note, err = ev.acronychalDay(tjd, obj, event); err != nil {
			return Result{}, err
		}
	}

	res := Result{Status: StatusOK, Times: [3]float64{tday}, Count: 1, Message: note}
	if ev.flags.Has(NoDetails) || !(inner || event <= EveningLast) {
		return res, nil
	}
	return ev.heliacalDetails(tday, obj, event)
}

// acronychalDay refines the cosmical date tjd to the rise or set at which
// the object is still seen against the twilight. The note reports the
// solar altitude at that moment.
func (ev *evaluation) acronychalDay(tjd float64, obj ephem.Object, event EventType) (float64, string, error) {
	flags := ev.flags | VisLimPhotopic
	kind, direct := ephem.Set, 1.0
	if event == EveningFirst || event == AcronychalRising {
		kind, direct = ephem.Rise, -1
	}

	var tret float64
	var err error
	dt := 999.0
	for i := 0; math.Abs(dt) > 0.5/minutesDay; i++ {
		if i > acronychalLoopLimit {
			return 0, "", ev.loopGuard("acronychal day does not converge")
		}
		if err := ev.checkContext(); err != nil {
			return 0, "", err
		}
		tjd += 0.7 * direct
		if direct < 0 {
			tjd--
		}
		if tjd, err = ev.riseTrans(tjd, obj, kind, false); err != nil {
			return 0, "", err
		}

		for j := 0; ; j++ {
			if j > minuteWalkLimit {
				return 0, "", ev.loopGuard("object does not become visible")
			}
			v, err := ev.visLimit(tjd, obj, flags)
			if err != nil && !errors.Is(err, ErrBelowHorizon) {
				return 0, "", err
			}
			if v.Limit >= v.Magnitude {
				break
			}
			tjd -= 10 / minutesDay * direct
		}

		dark, _, err := ev.timeLimitInvisible(tjd, obj, flags|VisLimDark, direct)
		if err != nil {
			return 0, "", err
		}
		if tret, _, err = ev.timeLimitInvisible(tjd, obj, flags|VisLimNoMoon, direct); err != nil {
			return 0, "", err
		}
		dt = tret - dark
	}

	p, err := ev.azaltCart(tret, sun)
	if err != nil {
		return 0, "", err
	}
	if p.TrueAlt < -12 {
		return tret, fmt.Sprintf("acronychal rising/setting not available, %f", p.TrueAlt), nil
	}
	return tret, fmt.Sprintf("solar altitude, %f", p.TrueAlt), nil
}

// moonVisLimEvent finds the evening first or morning last crescent with the
// visual limiting magnitude method.
func (ev *evaluation) moonVisLimEvent(start float64, event EventType) (Result, error) {
	if event == MorningFirst || event == EveningLast {
		return Result{}, validationError("heliacal event", "the moon has no morning first or evening last")
	}

	tjd, err := ev.findConjunctSun(start-30, ephem.Moon, event)
	if err != nil {
		return Result{}, err
	}
	if tjd, err = ev.withFlags(ev.flags&^HighPrecision).heliacalDay(tjd, moon, event); err != nil {
		return Result{}, err
	}

	var times [3]float64
	var u [3]bool
	if times[1], u[1], err = ev.timeOptimumVisibility(tjd, moon, ev.flags); err != nil {
		return Result{}, err
	}
	direct := 1.0
	if event == MorningLast {
		direct = -1
	}
	if times[2], u[2], err = ev.timeLimitInvisible(times[1], moon, ev.flags, direct); err != nil {
		return Result{}, err
	}
	if times[0], u[0], err = ev.timeLimitInvisible(times[1], moon, ev.flags, -direct); err != nil {
		return Result{}, err
	}

	// the crescent can be seen before sunset or after sunrise; clamp
	if event == EveningFirst {
		set, err := ev.riseTrans(times[0], sun, ephem.Set, false)
		if err != nil {
			return Result{}, err
		}
		if set < times[1] {
			times[0] = set
		}
	} else {
		rise, err := ev.riseTrans(times[1], sun, ephem.Rise, false)
		if err != nil {
			return Result{}, err
		}
		if times[0] > rise {
			times[0] = rise
		}
	}

	if event == MorningLast {
		times[0], times[2] = times[2], times[0]
		u[0], u[2] = u[2], u[0]
	}

	res := Result{Status: StatusOK, Times: times, Count: 3}
	if u[0] || u[1] || u[2] {
		res.Uncertain = true
		res.Message = uncertaintyMessage(u[0], u[1], u[2])
	}
	return res, nil
}
