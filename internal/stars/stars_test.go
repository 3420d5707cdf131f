package stars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	s, ok := Lookup("  SIRIUS ")
	require.True(t, ok)
	assert.Equal(t, "Sirius", s.Name)
	assert.InDelta(t, -1.46, s.Magnitude, 1e-9)

	_, ok = Lookup("nosuchstar")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "Aldebaran")
	assert.IsIncreasing(t, names)
}

func TestPrecess_J2000Identity(t *testing.T) {
	s, _ := Lookup("vega")
	ra, dec := s.Precess(2451545.0)
	assert.InDelta(t, s.RA, ra, 1e-9)
	assert.InDelta(t, s.Dec, dec, 1e-9)
}

func TestPrecess_Drift(t *testing.T) {
	// Annual precession in RA is m + n sin(ra) tan(dec), about 51.6" for
	// Aldebaran, so a century adds roughly 1.43 degrees.
	s, _ := Lookup("aldebaran")
	ra, _ := s.Precess(2451545.0 + 36525)
	assert.InDelta(t, s.RA+1.43, ra, 0.1)
}
