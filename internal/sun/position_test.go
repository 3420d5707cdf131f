package sun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeocentricEclipticApprox_Equinox(t *testing.T) {
	// March equinox 2025-03-20 09:01 UTC.
	ecl := GeocentricEclipticApprox(2460754.876)
	d := ecl.Lon
	if d > 180 {
		d -= 360
	}
	assert.InDelta(t, 0, d, 0.05)
	assert.InDelta(t, 0.996, ecl.Dist, 0.003)
}

func TestGeocentricEclipticApprox_Solstice(t *testing.T) {
	// June solstice 2025-06-21 02:42 UTC, near aphelion.
	ecl := GeocentricEclipticApprox(2460847.6125)
	assert.InDelta(t, 90, ecl.Lon, 0.05)
	assert.InDelta(t, 1.0163, ecl.Dist, 0.002)
}
