package atmosphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(vr float64) *Model {
	return NewModel(Conditions{Pressure: 1013.25, Temperature: 15, Humidity: 40, VisualRange: vr}, 52.5, 100, false)
}

func TestKA_SchaeferFormulaPositive(t *testing.T) {
	m := berlin(0)
	ka := m.KA(-10, 75)
	assert.Greater(t, ka, 0.0)
	assert.Empty(t, m.Warnings())
}

func TestKA_RangeTooLong(t *testing.T) {
	m := berlin(200)
	assert.Less(t, m.KA(-10, 75), 0.0)
	require.Len(t, m.Warnings(), 1)
	assert.ErrorIs(t, m.Warnings()[0], ErrRangeTooLong)

	// The negative residual never reaches the summed coefficient.
	assert.Equal(t, 0.0, m.KT(-10, 75, Aerosol))
	assert.GreaterOrEqual(t, m.KT(-10, 75, Total), 0.0)
	assert.GreaterOrEqual(t, m.Deltam(5, -10, 75), 0.0)
}

func TestKA_CoefficientTooLow(t *testing.T) {
	m := berlin(0.1)
	m.KT(-8, 75, Total)
	m.KT(-9, 75, Total)
	require.Len(t, m.Warnings(), 1, "warnings are recorded once")
	assert.ErrorIs(t, m.Warnings()[0], ErrCoefficientTooLow)
}

func TestKT_TermsSumToTotal(t *testing.T) {
	m := berlin(0)
	sum := m.KT(-5, 120, Aerosol) + m.KT(-5, 120, Water) + m.KT(-5, 120, Rayleigh) + m.KT(-5, 120, Ozone)
	assert.InDelta(t, sum, m.KT(-5, 120, Total), 1e-12)
}

func TestKR_NightShift(t *testing.T) {
	// The blue shift of scotopic vision increases Rayleigh extinction.
	assert.Greater(t, KR(-18, 0), KR(0, 0))
	assert.InDelta(t, KR(-18, 0), KR(-30, 0), 1e-12)
}

func TestDeltam_IncreasesTowardHorizon(t *testing.T) {
	m := berlin(0)
	low := m.Deltam(3, -8, 75)
	high := m.Deltam(45, -8, 75)
	assert.Greater(t, low, high)
	assert.Greater(t, high, 0.0)

	// Repeated inputs hit the cache and return the same value.
	assert.Equal(t, high, m.Deltam(45, -8, 75))
}

func TestDeltam_StaticAirmass(t *testing.T) {
	m := berlin(0)
	m.StaticAirmass = true
	got := m.Deltam(30, -8, 75)
	assert.Greater(t, got, 0.0)
}

func TestRefraction_RoundTrip(t *testing.T) {
	tempE, presE := berlin(0).EyeConditions()

	for _, app := range []float64{5, 10, 25, 60} {
		topo := TopoAltFromAppAlt(app, tempE, presE)
		assert.Less(t, topo, app, "refraction lifts objects at %v°", app)
		assert.InDelta(t, app, AppAltFromTopoAlt(topo, tempE, presE, false), 1e-3, "app alt %v", app)
		assert.InDelta(t, app, AppAltFromTopoAlt(topo, tempE, presE, true), 1e-3, "app alt %v", app)
	}
}

func TestRefraction_BelowLowestAltitude(t *testing.T) {
	assert.Equal(t, -5.0, TopoAltFromAppAlt(-5, 10, 1000))
	assert.Equal(t, -10.0, AppAltFromTopoAlt(-10, 10, 1000, false))
}

func TestEyeConditions(t *testing.T) {
	m := NewModel(Conditions{Pressure: 1013.25, Temperature: 15}, 0, 1000, false)
	tempE, presE := m.EyeConditions()
	assert.InDelta(t, 8.5, tempE, 1e-9)
	assert.InDelta(t, 900, presE, 10)
}
