// Package brightness models the sky background against which an object is
// seen: night sky glow, twilight, daylight, moonlight and city light, all
// in nanolamberts.
package brightness

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

const (
	// NL2Erg converts nanolamberts to erg/(s cm² sr Å).
	NL2Erg = 1.02e-15
	// Erg2NL is the inverse of NL2Erg.
	Erg2NL = 1 / NL2Erg

	// MoonDistance is the mean Earth-Moon distance in km.
	MoonDistance = 384410.4978

	// sun and zero-point magnitudes of the Schaefer model
	magSun  = -26.74
	magZero = -11.05

	moonAvgParallax = 0.95
	lunarRadius     = 0.25
)

// Scene is the horizontal geometry of one visibility evaluation. Altitudes
// are topocentric, azimuths are in degrees from north.
type Scene struct {
	JD         float64 // UT
	AltO, AziO float64 // object
	AltM, AziM float64 // Moon
	AltS, AziS float64 // Sun
	SunRA      float64 // geocentric right ascension of the Sun
}

// ObjectIsMoon reports whether the object coincides with the Moon.
func (s Scene) ObjectIsMoon() bool {
	return s.AltO == s.AltM && s.AziO == s.AziM
}

// DistanceAngle returns the great-circle separation in degrees between two
// points given as (altitude, azimuth) in degrees.
func DistanceAngle(altA, aziA, altB, aziB float64) float64 {
	a := s2.LatLngFromDegrees(altA, aziA)
	b := s2.LatLngFromDegrees(altB, aziB)
	return a.Distance(b).Degrees()
}

// MoonPhase returns the approximate lunar phase angle in degrees derived
// from the horizontal positions of Sun and Moon.
func MoonPhase(altM, aziM, altS, aziS float64) float64 {
	return 180 - timeutil.AcosD(
		timeutil.CosD(aziS-aziM-moonAvgParallax)*timeutil.CosD(altM+moonAvgParallax)*timeutil.CosD(altS)+
			timeutil.SinD(altS)*timeutil.SinD(altM+moonAvgParallax))
}

// MoonsBrightness returns the visual magnitude of the Moon at distance dist
// (km) and phase angle phase (deg).
func MoonsBrightness(dist, phase float64) float64 {
	return -21.62 + 5*math.Log10(dist/(atmosphere.EarthRadius/1000)) +
		0.026*math.Abs(phase) + 0.000000004*math.Pow(phase, 4)
}

func scatter(r float64) float64 {
	return 62000000.0/r/r + math.Pow(10, 6.15-r/40) + math.Pow(10, 5.36)*(1.06+math.Pow(timeutil.CosD(r), 2))
}

// Bn returns the night sky brightness including the solar cycle term.
func Bn(m *atmosphere.Model, s Scene) float64 {
	tempE, presE := m.EyeConditions()
	appAltO := math.Max(atmosphere.AppAltFromTopoAlt(s.AltO, tempE, presE, m.HighPrecision), 10)
	zend := timeutil.Deg2Rad(90 - appAltO)

	year, month, day, _ := timeutil.Calendar(s.JD)
	const b0 = 0.0000000000001
	bna := b0 * (1 + 0.3*math.Cos(6.283*(float64(year)+((float64(day)-1)/30.4+float64(month)-1)/12-1990.33)/11.1))

	kX := m.Deltam(s.AltO, s.AltS, s.SunRA)
	bnb := bna * (0.4 + 0.6/math.Sqrt(1-0.96*math.Pow(math.Sin(zend), 2))) * math.Pow(10, -0.4*kX)

	return math.Max(bnb, 0) * Erg2NL
}

// Bm returns the sky brightness contributed by moonlight. It is zero when
// the Moon is below the horizon or is itself the object.
func Bm(m *atmosphere.Model, s Scene) float64 {
	if s.AltM <= -0.26 || s.ObjectIsMoon() {
		return 0
	}

	rm := math.Max(DistanceAngle(s.AltO, s.AziO, s.AltM, s.AziM), lunarRadius)
	kXM := m.Deltam(s.AltM, s.AltS, s.SunRA)
	kX := m.Deltam(s.AltO, s.AltS, s.SunRA)
	c3 := math.Pow(10, -0.4*kXM)

	bm := scatter(rm)*c3 + 440000*(1-c3)
	mm := MoonsBrightness(MoonDistance, MoonPhase(s.AltM, s.AziM, s.AltS, s.AziS))
	bm *= math.Pow(10, -0.4*(mm-magZero+43.27))
	bm *= 1 - math.Pow(10, -0.4*kX)

	return math.Max(bm, 0) * Erg2NL
}

// Btwi returns the twilight sky brightness.
func Btwi(m *atmosphere.Model, s Scene) float64 {
	tempE, presE := m.EyeConditions()
	appAltO := atmosphere.AppAltFromTopoAlt(s.AltO, tempE, presE, m.HighPrecision)
	zendO := 90 - appAltO

	rs := DistanceAngle(s.AltO, s.AziO, s.AltS, s.AziS)
	kX := m.Deltam(s.AltO, s.AltS, s.SunRA)
	k := m.KT(s.AltS, s.SunRA, atmosphere.Total)

	b := math.Pow(10, -0.4*(magSun-magZero+32.5-s.AltS-zendO/(360*k)))
	b *= (100 / rs) * (1 - math.Pow(10, -0.4*kX))

	return math.Max(b, 0) * Erg2NL
}

// Bday returns the daylight sky brightness.
func Bday(m *atmosphere.Model, s Scene) float64 {
	rs := DistanceAngle(s.AltO, s.AziO, s.AltS, s.AziS)
	kXS := m.Deltam(s.AltS, s.AltS, s.SunRA)
	kX := m.Deltam(s.AltO, s.AltS, s.SunRA)
	c4 := math.Pow(10, -0.4*kXS)

	b := scatter(rs)*c4 + 440000.0*(1-c4)
	b *= math.Pow(10, -0.4*(magSun-magZero+43.27))
	b *= 1 - math.Pow(10, -0.4*kX)

	return math.Max(b, 0) * Erg2NL
}

// Bcity returns the light pollution term. No city model is applied yet, so
// callers pass zero.
func Bcity(value float64) float64 {
	return math.Max(value, 0)
}

// Bsky returns the total sky brightness at the object's position.
func Bsky(m *atmosphere.Model, s Scene) float64 {
	var b float64
	switch {
	case s.AltS < -3:
		b = Btwi(m, s)
	case s.AltS > 4:
		b = Bday(m, s)
	default:
		b = math.Min(Bday(m, s), Btwi(m, s))
	}

	// Moonlight only matters while it is not swamped by daylight.
	if b < 200000000.0 {
		b += Bm(m, s)
	}
	if s.AltS <= 0 {
		b += Bcity(0)
	}
	if b < 5000 {
		b += Bn(m, s)
	}
	return b
}
