package brightness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurmanmarka/heliacal/internal/atmosphere"
)

func model() *atmosphere.Model {
	return atmosphere.NewModel(atmosphere.Conditions{Pressure: 1013.25, Temperature: 15, Humidity: 40}, 52.5, 100, false)
}

func scene(altS float64) Scene {
	return Scene{
		JD:    2451697.5,
		AltO:  30,
		AziO:  270,
		AltM:  -90,
		AziM:  0,
		AltS:  altS,
		AziS:  300,
		SunRA: 70,
	}
}

func TestDistanceAngle(t *testing.T) {
	assert.InDelta(t, 90.0, DistanceAngle(0, 0, 0, 90), 1e-9)
	assert.InDelta(t, 20.0, DistanceAngle(0, 350, 0, 10), 1e-9)
	assert.InDelta(t, 45.0, DistanceAngle(45, 120, 90, 0), 1e-9)
}

func TestBsky_DarkensAsSunSets(t *testing.T) {
	m := model()
	day := Bsky(m, scene(10))
	civil := Bsky(m, scene(-2))
	nautical := Bsky(m, scene(-10))
	night := Bsky(m, scene(-30))

	assert.Greater(t, day, civil)
	assert.Greater(t, civil, nautical)
	assert.Greater(t, nautical, night)

	// A moonless night sky is dominated by airglow, around 1e2 nL.
	assert.Greater(t, night, 30.0)
	assert.Less(t, night, 300.0)
}

func TestBm(t *testing.T) {
	m := model()

	s := scene(-20)
	assert.Equal(t, 0.0, Bm(m, s), "moon below horizon")

	s.AltM, s.AziM = 20, 250
	lit := Bm(m, s)
	assert.Greater(t, lit, 0.0)

	s.AltO, s.AziO = s.AltM, s.AziM
	assert.True(t, s.ObjectIsMoon())
	assert.Equal(t, 0.0, Bm(m, s), "the Moon does not brighten its own background")
}

func TestBm_CloserToMoonIsBrighter(t *testing.T) {
	m := model()
	near := scene(-20)
	near.AltM, near.AziM = 32, 272
	far := near
	far.AltM, far.AziM = 40, 200

	assert.Greater(t, Bm(m, near), Bm(m, far))
}

func TestMoonsBrightness_FullMoon(t *testing.T) {
	// Full Moon at mean distance is close to magnitude -12.7.
	assert.InDelta(t, -12.7, MoonsBrightness(MoonDistance, 0), 0.1)
}

func TestBcity(t *testing.T) {
	assert.Equal(t, 0.0, Bcity(-3))
	assert.Equal(t, 5.0, Bcity(5))
}
