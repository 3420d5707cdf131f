package heliacal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/vision"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "morning first", MorningFirst.String())
	assert.Equal(t, "evening last", EveningLast.String())
	assert.Equal(t, "evening first", EveningFirst.String())
	assert.Equal(t, "morning last", MorningLast.String())
	assert.Equal(t, "acronychal rising", AcronychalRising.String())
	assert.Equal(t, "acronychal setting", AcronychalSetting.String())
	assert.Equal(t, "event(9)", EventType(9).String())
	assert.Equal(t, "event(0)", EventType(0).String())
}

func TestFlagValues(t *testing.T) {
	// part of the public contract
	assert.Equal(t, Flags(128), LongSearch)
	assert.Equal(t, Flags(2048), Search1Period)
	assert.Equal(t, Flags(65536), AVKindVR)
	assert.Equal(t, AVKindVR, AV)
	assert.Equal(t, Flags(65536+131072+262144+524288), AVKind)
}

func TestFlagsHasAny(t *testing.T) {
	f := HighPrecision | AVKindPTO
	assert.True(t, f.Has(HighPrecision))
	assert.False(t, f.Has(HighPrecision|NoDetails))
	assert.True(t, f.Any(AVKind))
	assert.False(t, NoDetails.Any(AVKind))
}

func TestFlagsAdaptation(t *testing.T) {
	assert.Equal(t, vision.AdaptAuto, Flags(0).adaptation())
	assert.Equal(t, vision.AdaptPhotopic, VisLimPhotopic.adaptation())
	assert.Equal(t, vision.AdaptScotopic, VisLimScotopic.adaptation())
	assert.Equal(t, vision.AdaptScotopic, (VisLimScotopic | VisLimPhotopic).adaptation())
}

func TestVisLimitMargin(t *testing.T) {
	v := VisLimit{Limit: 5.5, Magnitude: 2}
	assert.True(t, v.Visible())
	assert.InDelta(t, 3.5, v.margin(), 1e-12)

	v = VisLimit{Limit: -100, Magnitude: 2}
	assert.False(t, v.Visible())
}

func TestSynodicPeriod(t *testing.T) {
	assert.InDelta(t, 29.530588853, SynodicPeriod(ephem.Moon), 1e-12)
	assert.InDelta(t, 115.8775, SynodicPeriod(ephem.Mercury), 1e-12)
	assert.InDelta(t, 583.9214, SynodicPeriod(ephem.Venus), 1e-12)
	assert.InDelta(t, 779.9361, SynodicPeriod(ephem.Mars), 1e-12)
	assert.InDelta(t, 366.7207, SynodicPeriod(ephem.Pluto), 1e-12)
	assert.InDelta(t, 366.0, SynodicPeriod(ephem.Sun), 1e-12)
	assert.InDelta(t, 366.0, SynodicPeriod(ephem.ParseObject("sirius").Body()), 1e-12)
	assert.InDelta(t, 366.0, SynodicPeriod(ephem.AsteroidOffset+433), 1e-12)
}

func TestUncertaintyMessage(t *testing.T) {
	assert.Equal(t,
		"return values [0,2,] are uncertain due to change between photopic and scotopic vision",
		uncertaintyMessage(true, false, true))
	assert.Equal(t,
		"return values [1,] are uncertain due to change between photopic and scotopic vision",
		uncertaintyMessage(false, true, false))
}

func TestHourAngle(t *testing.T) {
	assert.InDelta(t, 6.0, HourAngle(0, 0, 0), 1e-9)
	assert.InDelta(t, 0.0, HourAngle(90, 0, 0), 1e-6)
	// sun 10 degrees below the horizon takes longer to reach than the horizon
	assert.Greater(t, HourAngle(-10, 20, 40), HourAngle(0, 20, 40))
}
