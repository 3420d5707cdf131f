package heliacal

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYallopClass(t *testing.T) {
	tests := []struct {
		q    float64
		want Crescent
	}{
		{0.5, CrescentA},
		{0.2161, CrescentA},
		{0.216, CrescentB},
		{0, CrescentB},
		{-0.014, CrescentC},
		{-0.1, CrescentC},
		{-0.2, CrescentD},
		{-0.25, CrescentE},
		{-0.293, CrescentF},
		{-1, CrescentF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YallopClass(tt.q), "q=%v", tt.q)
	}
}

func TestCrescentString(t *testing.T) {
	assert.Equal(t, "A", CrescentA.String())
	assert.Equal(t, "C", CrescentC.String())
	assert.Equal(t, "F", CrescentF.String())
	assert.Equal(t, "?", Crescent(0).String())
	assert.Equal(t, "?", Crescent(7).String())
}

func TestCrescentGeometry(t *testing.T) {
	assert.InDelta(t, 0.386025, LengthMoon(0.01, 0), 1e-6)
	assert.InDelta(t, LengthMoon(0.01, 2*AvgRadiusMoon), LengthMoon(0.01, 0), 1e-12)

	// Sun and geocentric Moon in the same direction: no crescent
	assert.InDelta(t, 0, WidthMoon(9, 250, 10, 250, 1), 1e-12)
	assert.Greater(t, WidthMoon(5, 250, -5, 260, 0.95), 0.0)

	assert.InDelta(t, -0.00034424, QYallop(0.005, 10), 1e-8)
	assert.Greater(t, QYallop(0.005, 15), QYallop(0.005, 10))
}

func TestTopoArcusVisionis(t *testing.T) {
	e := New(aboveSky)
	ctx := context.Background()

	arc, err := e.TopoArcusVisionis(ctx, jan2025, athens, standard, nakedEye, 0,
		Sighting{Magnitude: 1, AltO: 10, AziO: 90, AziS: 90, AltM: -90})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, arc, 10.0)
	assert.LessOrEqual(t, arc, 45.0)

	// too faint to be seen at any solar depression
	arc, err = e.TopoArcusVisionis(ctx, jan2025, athens, standard, nakedEye, 0,
		Sighting{Magnitude: 30, AltO: 10, AziO: 90, AziS: 90, AltM: -90})
	require.NoError(t, err)
	assert.Equal(t, noArc, arc)
}

func TestTopoArcusVisionis_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(aboveSky).TopoArcusVisionis(ctx, jan2025, athens, standard, nakedEye, 0,
		Sighting{Magnitude: 1, AltO: 10, AziO: 90, AziS: 90, AltM: -90})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "heliacal search canceled")
}

func TestHeliacalAngle(t *testing.T) {
	e := New(aboveSky)
	got, err := e.HeliacalAngle(context.Background(), jan2025, athens, standard, nakedEye, 0,
		Sighting{Magnitude: 1, AziO: 90, AziS: 90, AltM: -90})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.AltO, 1.0)
	assert.LessOrEqual(t, got.AltO, 21.0)
	assert.InDelta(t, got.AltO-got.MinArc, got.AltS, 1e-9)

	_, err = e.HeliacalAngle(context.Background(), jan2025, Location{Height: 30000}, standard, nakedEye, 0, Sighting{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVisualLimitMagnitude(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(aboveSky, WithMetrics(m))

	v, err := e.VisualLimitMagnitude(context.Background(), jan2025, athens, standard, nakedEye, "mars", VisLimDark|VisLimNoMoon)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Magnitude, 1e-12)
	assert.Greater(t, v.Limit, 5.0)
	assert.Less(t, v.Limit, 8.0)
	assert.True(t, v.Visible())
	assert.Equal(t, -90.0, v.AltS)
	assert.Equal(t, -90.0, v.AltM)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisibilityEvaluations))
}

func TestVisualLimitMagnitude_BelowHorizon(t *testing.T) {
	m := NewMetricsForTesting()
	e := New(belowSky, WithMetrics(m))

	v, err := e.VisualLimitMagnitude(context.Background(), jan2025, athens, standard, nakedEye, "sirius", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBelowHorizon)
	assert.Equal(t, StatusNotFound, statusOf(err))
	assert.Equal(t, -100.0, v.Limit)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.VisibilityEvaluations))
}

func TestVisualLimitMagnitude_Sun(t *testing.T) {
	_, err := New(aboveSky).VisualLimitMagnitude(context.Background(), jan2025, athens, standard, nakedEye, "Sun", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVisualLimitMagnitude_ProviderError(t *testing.T) {
	boom := errors.New("ephemeris offline")
	_, err := New(&fakeProvider{err: boom}).VisualLimitMagnitude(context.Background(), jan2025, athens, standard, nakedEye, "venus", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "position of venus")
}

func TestPublicOperations_RejectHeight(t *testing.T) {
	e := New(aboveSky)
	high := Location{Lat: 40, Height: 20500}

	_, err := e.TopoArcusVisionis(context.Background(), jan2025, high, standard, nakedEye, 0, Sighting{Magnitude: 1, AltO: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.VisualLimitMagnitude(context.Background(), jan2025, high, standard, nakedEye, "venus", 0)
	assert.ErrorIs(t, err, ErrValidation)
}
