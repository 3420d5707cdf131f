// Package atmosphere implements the extinction side of the Schaefer
// visibility model: the water vapour, ozone, Rayleigh and aerosol
// extinction coefficients, air mass along the line of sight, refraction
// between apparent and topocentric altitude, and the total magnitude loss
// Deltam of an object at a given altitude.
//
// A Model is created per evaluation. It holds single-entry caches keyed on
// the most recent solar altitude and right ascension, so it must not be
// shared between concurrent evaluations.
package atmosphere

import (
	"errors"
	"math"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Scale heights of the atmospheric constituents, in metres.
const (
	ScaleHeightWater    = 3000.0
	ScaleHeightRayleigh = 8515.0
	ScaleHeightAerosol  = 3745.0
	ScaleHeightOzone    = 20000.0
)

const (
	// Astr2Tau converts astronomical extinction (mag) to optical depth.
	Astr2Tau = 0.921034037197618
	// Tau2Astr converts optical depth to astronomical extinction (mag).
	Tau2Astr = 1 / Astr2Tau

	// EarthRadius is the equatorial radius of the Earth in metres.
	EarthRadius = 6378136.6

	// LapseSA is the standard atmosphere temperature lapse rate in K/m.
	LapseSA = 0.0065

	// LowestAppAlt is the lowest apparent altitude (deg) for which
	// refraction is computed.
	LowestAppAlt = -3.5

	kelvinOffset = 273.15
)

// ExtType selects which extinction terms KT sums.
type ExtType int

const (
	Aerosol ExtType = iota
	Water
	Rayleigh
	Ozone
	Total
)

var (
	// ErrRangeTooLong reports a meteorological range that leaves a negative
	// aerosol residual once water vapour and Rayleigh scattering are removed.
	ErrRangeTooLong = errors.New("The provided Meteorological range is too long, when taking into account other atmospheric parameters")

	// ErrCoefficientTooLow reports a total extinction coefficient smaller than
	// the sum of the other modelled terms.
	ErrCoefficientTooLow = errors.New("The provided atmospheric coefficient (ktot) is too low, when taking into account other atmospheric parameters")
)

// Conditions are the surface meteorological conditions of the observing site.
type Conditions struct {
	Pressure    float64 // mbar
	Temperature float64 // °C
	Humidity    float64 // relative humidity, percent
	// VisualRange selects the aerosol model: >= 1 is a meteorological range
	// in km, 0 < v < 1 a total extinction coefficient, 0 the Schaefer formula.
	VisualRange float64
}

type memo2 struct {
	a, b, v float64
	ok      bool
}

func (m *memo2) get(a, b float64) (float64, bool) {
	if m.ok && m.a == a && m.b == b {
		return m.v, true
	}
	return 0, false
}

func (m *memo2) put(a, b, v float64) float64 {
	*m = memo2{a: a, b: b, v: v, ok: true}
	return v
}

type memo3 struct {
	a, b, c, v float64
	ok         bool
}

// Model evaluates extinction for one site and one set of conditions.
type Model struct {
	Cond   Conditions
	Lat    float64 // degrees
	Height float64 // metres above sea level

	// HighPrecision runs more refraction iterations.
	HighPrecision bool
	// StaticAirmass replaces the layered path integral by k·airmass.
	StaticAirmass bool

	koz, ka memo2
	dm      memo3

	warnings []error
}

// NewModel returns a Model for the given conditions and site.
func NewModel(cond Conditions, lat, height float64, highPrecision bool) *Model {
	return &Model{Cond: cond, Lat: lat, Height: height, HighPrecision: highPrecision}
}

// Warnings returns the distinct non-fatal consistency warnings raised so far.
func (m *Model) Warnings() []error {
	return m.warnings
}

func (m *Model) warn(err error) {
	for _, w := range m.warnings {
		if errors.Is(w, err) {
			return
		}
	}
	m.warnings = append(m.warnings, err)
}

// KW returns the water vapour extinction coefficient (mag/airmass).
func KW(height, temp, rh float64) float64 {
	return 0.031 * 0.94 * (rh / 100.0) * math.Exp(temp/15) * math.Exp(-height/ScaleHeightWater)
}

// nightLambda returns the effective wavelength of eye sensitivity (µm),
// shifting from photopic to scotopic as the Sun drops from -12° to -18°.
func nightLambda(altS float64) float64 {
	val := timeutil.Clamp(-altS-12, 0, 6)
	change := 1 - 0.166667*val
	return 0.55 + (change-1)*0.04
}

// KR returns the Rayleigh extinction coefficient (Schaefer, Archaeoastronomy
// XV, 2000, p. 128).
func KR(altS, height float64) float64 {
	lambda := nightLambda(altS)
	return 0.1066 * math.Exp(-height/ScaleHeightRayleigh) * math.Pow(lambda/0.55, -4)
}

// KOZ returns the ozone extinction coefficient. Ozone extinction drops to
// about 30 % between the start and end of astronomical twilight.
func (m *Model) KOZ(altS, sunRA float64) float64 {
	if v, ok := m.koz.get(altS, sunRA); ok {
		return v
	}

	const oz = 0.031
	lt := timeutil.Deg2Rad(m.Lat)
	k := oz * (3.0 + 0.4*(lt*timeutil.CosD(sunRA)-math.Cos(3*lt))) / 3.0

	altsLim := math.Max(-altS-12, 0)
	change := (100 - 11.6*math.Min(6, altsLim)) / 100

	return m.koz.put(altS, sunRA, k*change)
}

// KA returns the aerosol extinction coefficient. The result may be negative
// when the supplied range or coefficient is inconsistent with the other
// terms; a warning is recorded in that case and KT clamps it to zero.
func (m *Model) KA(altS, sunRA float64) float64 {
	if v, ok := m.ka.get(altS, sunRA); ok {
		return v
	}

	c := m.Cond
	sl := timeutil.Sgn(m.Lat)
	lambda := nightLambda(altS)

	var ka float64
	switch {
	case c.VisualRange >= 1:
		// MOR = 3.912/beta (Koschmieder).
		betaVR := 3.912 / c.VisualRange
		betaA := betaVR - (KW(m.Height, c.Temperature, c.Humidity)/ScaleHeightWater+
			KR(altS, m.Height)/ScaleHeightRayleigh)*1000*Astr2Tau
		ka = betaA * ScaleHeightAerosol / 1000 * Tau2Astr
		if ka < 0 {
			m.warn(ErrRangeTooLong)
		}
	case c.VisualRange > 0:
		ka = c.VisualRange - KW(m.Height, c.Temperature, c.Humidity) - KR(altS, m.Height) - m.KOZ(altS, sunRA)
		if ka < 0 {
			m.warn(ErrCoefficientTooLow)
		}
	default:
		rh := timeutil.Clamp(c.Humidity, 0.00000001, 99.99999999)
		ka = 0.1 * math.Exp(-m.Height/ScaleHeightAerosol) *
			math.Pow(1-0.32/math.Log(rh/100.0), 1.33) *
			(1 + 0.33*sl*timeutil.SinD(sunRA))
		ka *= math.Pow(lambda/0.55, -1.3)
	}

	return m.ka.put(altS, sunRA, ka)
}

// KT returns the extinction coefficient for the selected terms. A negative
// aerosol term is clamped to zero before summation.
func (m *Model) KT(altS, sunRA float64, ext ExtType) float64 {
	var kr, kw, koz, ka float64
	if ext == Rayleigh || ext == Total {
		kr = KR(altS, m.Height)
	}
	if ext == Water || ext == Total {
		kw = KW(m.Height, m.Cond.Temperature, m.Cond.Humidity)
	}
	if ext == Ozone || ext == Total {
		koz = m.KOZ(altS, sunRA)
	}
	if ext == Aerosol || ext == Total {
		ka = math.Max(m.KA(altS, sunRA), 0)
	}
	return kw + kr + koz + ka
}

// Airmass returns the relative air mass at apparent altitude appAlt.
func Airmass(appAlt, press float64) float64 {
	zend := math.Min(timeutil.Deg2Rad(90-appAlt), math.Pi/2)
	airm := 1 / (math.Cos(zend) + 0.025*math.Exp(-11*math.Cos(zend)))
	return press / 1013 * airm
}

// Xext returns the air mass of an exponential layer with the given scale
// height at zenith distance zend (radians).
func Xext(scaleH, zend, press float64) float64 {
	return press / 1013.0 / (math.Cos(zend) + 0.01*math.Sqrt(scaleH/1000.0)*math.Exp(-30.0/math.Sqrt(scaleH/1000.0)*math.Cos(zend)))
}

// Xlay returns the air mass of a thin layer at height scaleH.
func Xlay(scaleH, zend, press float64) float64 {
	a := math.Sin(zend) / (1.0 + scaleH/EarthRadius)
	return press / 1013.0 / math.Sqrt(1.0-a*a)
}

// TempE returns the temperature (°C) at eye height.
func TempE(tempS, height float64) float64 {
	return tempS - LapseSA*height
}

// PresE returns the pressure (mbar) at eye height by the barometric formula.
func PresE(tempS, press, height float64) float64 {
	return press * math.Exp(-9.80665*0.0289644/(tempS+kelvinOffset+3.25*height/1000)/8.31441*height)
}

// EyeConditions returns the temperature and pressure at eye height.
func (m *Model) EyeConditions() (tempE, presE float64) {
	return TempE(m.Cond.Temperature, m.Height), PresE(m.Cond.Temperature, m.Cond.Pressure, m.Height)
}

// Deltam returns the total extinction in magnitudes for an object at
// topocentric altitude altO with the Sun at altS.
func (m *Model) Deltam(altO, altS, sunRA float64) float64 {
	if m.dm.ok && m.dm.a == altS && m.dm.b == altO && m.dm.c == sunRA {
		return m.dm.v
	}

	tempE, presE := m.EyeConditions()
	appAltO := AppAltFromTopoAlt(altO, tempE, presE, m.HighPrecision)
	press := m.Cond.Pressure

	var dm float64
	if m.StaticAirmass {
		dm = m.KT(altS, sunRA, Total) * Airmass(appAltO, press)
	} else {
		zend := math.Min(timeutil.Deg2Rad(90-appAltO), math.Pi/2)
		xR := Xext(ScaleHeightRayleigh, zend, press)
		xW := Xext(ScaleHeightWater, zend, press)
		xA := Xext(ScaleHeightAerosol, zend, press)
		xOZ := Xlay(ScaleHeightOzone, zend, press)
		dm = KR(altS, m.Height)*xR +
			m.KT(altS, sunRA, Aerosol)*xA +
			m.KOZ(altS, sunRA)*xOZ +
			KW(m.Height, m.Cond.Temperature, m.Cond.Humidity)*xW
	}

	m.dm = memo3{a: altS, b: altO, c: sunRA, v: dm, ok: true}
	return dm
}
