package heliacal

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/heliacal/ephem"
)

func TestHeliacalEvent_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		object  string
		event   EventType
		flags   Flags
		wantMsg string
	}{
		{"sun", athens, "sun", MorningFirst, 0, "the sun has no heliacal rising or setting"},
		{"moon morning first", athens, "Moon", MorningFirst, 0, "morning first (event type 1) does not exist for the moon"},
		{"moon evening last", athens, "moon", EveningLast, AVKindVR, "evening last (event type 2) does not exist for the moon"},
		{"moon bad av kind", athens, "moon", EveningFirst, AVKindPTO, "invalid AV kind for the moon"},
		{"outer planet evening first", athens, "mars", EveningFirst, 0, "evening first (event type 3) does not exist for mars"},
		{"star morning last", athens, "Sirius", MorningLast, 0, "morning last (event type 4) does not exist for sirius"},
		{"acronychal without av", athens, "venus", AcronychalRising, 0, "acronychal rising (event type 5) is not provided for venus"},
		{"unknown event", athens, "venus", EventType(7), 0, "unknown event type 7"},
		{"too high", Location{Height: 20001}, "venus", MorningFirst, 0, "must be between -1000 and 20000 m above sea"},
		{"too low", Location{Height: -1001}, "venus", MorningFirst, 0, "must be between -1000 and 20000 m above sea"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(aboveSky)
			res, err := e.HeliacalEvent(context.Background(), jan2025, tt.loc, standard, nakedEye, tt.object, tt.event, tt.flags)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, StatusError, res.Status)
			assert.Contains(t, res.Message, tt.wantMsg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestHeliacalEvent_Metrics(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(aboveSky, WithMetrics(m), WithClock(clockwork.NewFakeClock()))
	ctx := context.Background()

	_, _ = e.HeliacalEvent(ctx, jan2025, athens, standard, nakedEye, "sun", MorningFirst, 0)
	_, _ = e.HeliacalEvent(ctx, jan2025, athens, standard, nakedEye, "sun", MorningFirst, 0)
	_, _ = e.HeliacalEvent(ctx, jan2025, athens, standard, nakedEye, "moon", MorningFirst, AVKindVR)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues(methodVisLim, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues(methodMoonArcus, "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.SearchDuration))
}

func TestHeliacalEvent_CircumpolarExhaustsSearch(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(circumpolarStar(), WithMetrics(m))

	res, err := e.HeliacalEvent(context.Background(), jan2025, polarSite, standard, nakedEye, "polaris", MorningFirst, 0)
	require.Error(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, err.Error(), "no heliacal date found within 5 synodic periods")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues(methodVisLim, "error")))

	e = New(circumpolarStar(), WithSynodicPeriods(2, 3))
	_, err = e.HeliacalEvent(context.Background(), jan2025, polarSite, standard, nakedEye, "polaris", MorningFirst, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "within 2 synodic periods")

	_, err = e.HeliacalEvent(context.Background(), jan2025, polarSite, standard, nakedEye, "polaris", MorningFirst, LongSearch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "within 3 synodic periods")
}

func TestHeliacalEvent_Search1Period(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(circumpolarStar(), WithMetrics(m))

	res, err := e.HeliacalEvent(context.Background(), jan2025, polarSite, standard, nakedEye, "polaris", MorningFirst, Search1Period)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Contains(t, res.Message, "no heliacal date found within this synodic period")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues(methodVisLim, "not_found")))
}

func TestHeliacalEvent_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(circumpolarStar()).HeliacalEvent(ctx, jan2025, polarSite, standard, nakedEye, "polaris", MorningFirst, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, res.Status)
}

func TestSearchMethod(t *testing.T) {
	e := New(aboveSky)
	assert.Equal(t, 5, e.searchPeriods(0))
	assert.Equal(t, 1000000, e.searchPeriods(LongSearch))

	e = New(aboveSky, WithSynodicPeriods(0, 7))
	assert.Equal(t, 5, e.searchPeriods(Search1Period))
	assert.Equal(t, 7, e.searchPeriods(LongSearch|NoDetails))

	assert.Equal(t, methodVisLim, searchMethod(ephem.ParseObject("venus"), 0))
	assert.Equal(t, methodArcus, searchMethod(ephem.ParseObject("sirius"), AVKindPTO))
	assert.Equal(t, methodMoonVisLim, searchMethod(ephem.ParseObject("moon"), NoDetails))
	assert.Equal(t, methodMoonArcus, searchMethod(ephem.ParseObject("moon"), AVKindVR))
}

func TestHeliacalEvent_MinuteWalkGuard(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(faintPlanet(), WithMetrics(m))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, err := e.HeliacalEvent(ctx, jan2025, athens, standard, nakedEye, "mars", MorningFirst, Search1Period|NoDetails)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoopGuard)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "minute walk")
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoopGuards))
}

func TestHeliacalEvent_ConjunctionGuard(t *testing.T) {
	m := NewMetricsForTesting()
	// no positions at all: the planet never moves relative to the Sun
	e := New(aboveSky, WithMetrics(m))

	_, err := e.HeliacalEvent(context.Background(), jan2025, athens, standard, nakedEye, "mars", MorningFirst, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoopGuard)
	assert.Contains(t, err.Error(), "no relative motion")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoopGuards))
}
