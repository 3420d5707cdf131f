package heliacal

import (
	"context"
	"fmt"

	"github.com/thurmanmarka/heliacal/ephem"
)

const moonRetryLimit = 100

const (
	methodVisLim     = "vislim"
	methodArcus      = "arcus"
	methodMoonVisLim = "moon_vislim"
	methodMoonArcus  = "moon_arcus"
)

// HeliacalEvent returns the first heliacal event of the given type of
// object at or after start.
//
// With the default limiting magnitude method Result.Times holds the first,
// optimum and last instant of visibility (only the first with NoDetails).
// The arcus visionis method (any AVKind flag) returns a single time.
//
// When nothing is found the error wraps ErrNotFound and Result.Status is
// StatusNotFound. That is only the case with Search1Period; otherwise
// exhausting the search is an error.
func (e *Engine) HeliacalEvent(ctx context.Context, start float64, loc Location, atm Atmosphere, obs Observer, object string, event EventType, flags Flags) (Result, error) {
	obj := ephem.ParseObject(object)
	method := searchMethod(obj, flags)
	began := e.clock.Now()

	res, err := e.heliacalEvent(ctx, start, loc, atm, obs, obj, event, flags)
	res.Status = statusOf(err)
	if err != nil {
		res.Message = err.Error()
	}

	e.metrics.Events.WithLabelValues(method, res.Status.String()).Inc()
	e.metrics.SearchDuration.WithLabelValues(method).Observe(e.clock.Since(began).Seconds())
	return res, err
}

func searchMethod(obj ephem.Object, flags Flags) string {
	switch {
	case obj.Is(ephem.Moon) && flags.Any(AVKind):
		return methodMoonArcus
	case obj.Is(ephem.Moon):
		return methodMoonVisLim
	case flags.Any(AVKind):
		return methodArcus
	default:
		return methodVisLim
	}
}

func (e *Engine) heliacalEvent(ctx context.Context, start float64, loc Location, atm Atmosphere, obs Observer, obj ephem.Object, event EventType, flags Flags) (Result, error) {
	const op = "heliacal event"
	if err := validateHeight(op, loc); err != nil {
		return Result{}, err
	}
	if event < MorningFirst || event > AcronychalSetting {
		return Result{}, validationError(op, "unknown event type %d", int(event))
	}
	if obj.Is(ephem.Sun) {
		return Result{}, validationError(op, "the sun has no heliacal rising or setting")
	}

	ev := e.newEvaluation(ctx, op, loc, atm, obs, flags)
	defer ev.reportWarnings()
	ev.log.Debug("heliacal search", "object", obj.Name(), "event", event.String(), "start", start)

	if obj.Is(ephem.Moon) {
		if event == MorningFirst || event == EveningLast {
			return Result{}, validationError(op, "%s (event type %d) does not exist for the moon", event, int(event))
		}
		return ev.moonEvent(start, event)
	}

	outer := obj.IsStar() || obj.Body() >= ephem.Mars
	av := flags.Any(AVKind)
	switch {
	case !av && outer && (event == EveningFirst || event == MorningLast):
		return Result{}, validationError(op, "%s (event type %d) does not exist for %s", event, int(event), obj)
	case !av && (event == AcronychalRising || event == AcronychalSetting):
		return Result{}, validationError(op, "%s (event type %d) is not provided for %s", event, int(event), obj)
	case av && outer && event == AcronychalRising:
		event = EveningFirst
	case av && outer && event == AcronychalSetting:
		event = MorningLast
	}
	return ev.synodicSearch(start, obj, event, e.searchPeriods(flags))
}

func (e *Engine) searchPeriods(flags Flags) int {
	if flags.Has(LongSearch) {
		return e.longPeriods
	}
	return e.periods
}

// moonEvent runs the lunar search, moving the start 15 days on until the
// result is not before it.
func (ev *evaluation) moonEvent(start float64, event EventType) (Result, error) {
	search := func(t float64) (Result, error) {
		if ev.flags.Any(AVKind) {
			jd, err := ev.moonArcVisEvent(t, event)
			return Result{Status: StatusOK, Times: [3]float64{jd}, Count: 1}, err
		}
		return ev.moonVisLimEvent(t, event)
	}

	t := start
	res, err := search(t)
	for i := 0; err == nil && res.Times[0] < start; i++ {
		if i > moonRetryLimit {
			return Result{}, ev.loopGuard("lunar event search does not advance")
		}
		if err := ev.checkContext(); err != nil {
			return Result{}, err
		}
		t += 15
		res, err = search(t)
	}
	if err != nil {
		return Result{}, err
	}
	ev.log.Info("heliacal event found", "object", "moon", "event", event.String(), "jd", res.Times[0])
	return res, nil
}

// method runs one search of the strategy selected by the flags.
func (ev *evaluation) method(start float64, obj ephem.Object, event EventType) (Result, error) {
	if ev.flags.Any(AVKind) {
		jd, err := ev.arcVisEvent(start, obj, event)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: StatusOK, Times: [3]float64{jd}, Count: 1}, nil
	}
	return ev.visLimEvent(start, obj, event)
}

// synodicSearch repeats the search over up to periods synodic periods,
// advancing by 0.6 periods (30 days for Mercury) whenever an attempt finds
// nothing or finds an event before start.
func (ev *evaluation) synodicSearch(start float64, obj ephem.Object, event EventType, periods int) (Result, error) {
	const op = "heliacal event"
	period := SynodicPeriod(obj.Body())
	tmax := start + period*float64(periods)
	tadd := period * 0.6
	if obj.Is(ephem.Mercury) {
		tadd = 30
	}

	var res Result
	err := notFound(op, "no heliacal date found")
	for t := start; t < tmax && isNotFound(err); t += tadd {
		if cerr := ev.checkContext(); cerr != nil {
			return Result{}, cerr
		}
		ev.log.Debug("searching synodic period", "object", obj.Name(), "from", t)
		res, err = ev.method(t, obj, event)
		for err == nil && res.Times[0] < start && t < tmax {
			if cerr := ev.checkContext(); cerr != nil {
				return Result{}, cerr
			}
			t += tadd
			res, err = ev.method(t, obj, event)
		}
		if err == nil && res.Times[0] < start {
			err = notFound(op, "no heliacal date found after start")
		}
		if err != nil && !isNotFound(err) {
			return Result{}, err
		}
	}

	if ev.flags.Has(Search1Period) && (err != nil || res.Times[0] > start+period*1.5) {
		return Result{}, notFound(op, "no heliacal date found within this synodic period")
	}
	if err != nil {
		ev.log.Debug("search exhausted", "object", obj.Name(), "last", err)
		return Result{}, &Error{
			Op:     op,
			Status: StatusError,
			Msg:    fmt.Sprintf("no heliacal date found within %d synodic periods", periods),
		}
	}
	ev.log.Info("heliacal event found", "object", obj.Name(), "event", event.String(), "jd", res.Times[0])
	return res, nil
}
