// Package vision implements the perceptual side of the visibility model:
// the critical visual angle, pupil size, the correction factors for the
// observer and optical aid, and the visual limiting magnitude against a
// given sky background.
package vision

import (
	"math"

	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/brightness"
)

// Scotopic/photopic switch points in nanolamberts. They differ between call
// sites and are kept apart on purpose.
const (
	ScotopicThresholdCVA    = 1394.0
	ScotopicThresholdOptics = 1645.0

	// BNight is the centre of the mixed-vision band reported by VisLimMagn.
	BNight       = 1479.0
	BNightFactor = 1.1
)

// Adaptation forces a vision regime instead of deriving it from the sky
// brightness.
type Adaptation int

const (
	AdaptAuto Adaptation = iota
	AdaptPhotopic
	AdaptScotopic
)

func (a Adaptation) scotopic(b, threshold float64) bool {
	switch a {
	case AdaptPhotopic:
		return false
	case AdaptScotopic:
		return true
	default:
		return b < threshold
	}
}

// Observer describes the eye and the optical aid.
type Observer struct {
	Age     float64 // years
	Snellen float64 // visual acuity ratio, 1 is normal
	// Binocular is true when both eyes are used.
	Binocular     bool
	Magnification float64 // 1 for the naked eye
	Aperture      float64 // mm
	Transmission  float64 // fraction
}

// WithDefaults fills unset observer fields. Optics are cleared unless
// optical is true; no magnification means the naked eye with both eyes.
func (o Observer) WithDefaults(optical bool) Observer {
	if o.Age == 0 {
		o.Age = 36
	}
	if o.Snellen == 0 {
		o.Snellen = 1
	}
	if !optical {
		o.Binocular = false
		o.Magnification = 0
		o.Aperture = 0
		o.Transmission = 0
	}
	if o.Magnification == 0 {
		o.Binocular = true
		o.Magnification = 1
	}
	return o
}

// DefaultConditions fills unset meteorological values for a site at the
// given height. A non-positive pressure selects the standard atmosphere.
func DefaultConditions(c atmosphere.Conditions, height float64) atmosphere.Conditions {
	if c.Pressure <= 0 {
		c.Pressure = 1013.25 * math.Pow(1-0.0065*height/288, 5.255)
		if c.Temperature == 0 {
			c.Temperature = 15 - 0.0065*height
		}
		if c.Humidity == 0 {
			c.Humidity = 40
		}
		return c
	}
	c.Humidity = math.Min(math.Max(c.Humidity, 0.00000001), 99.99999999)
	return c
}

// CVA returns the critical visual angle in degrees.
func CVA(b, snellen float64, adapt Adaptation) float64 {
	if adapt.scotopic(b, ScotopicThresholdCVA) {
		return math.Min(900, 380/snellen*math.Pow(10, 0.3*math.Pow(b, -0.29))) / 3600
	}
	return (40.0 / snellen) * math.Pow(10, 8.28*math.Pow(b, -0.29)) / 3600
}

// PupilDia returns the pupil diameter in mm for the given age and
// background brightness.
func PupilDia(age, b float64) float64 {
	return (0.534 - 0.00211*age - (0.236-0.00127*age)*math.Tanh(0.4*math.Log10(b)-2.2)) * 10
}

// FactorKind selects the correction applied by OpticFactor.
type FactorKind int

const (
	// FactorIntensity corrects the threshold intensity of the object.
	FactorIntensity FactorKind = iota
	// FactorBackground corrects the perceived background brightness.
	FactorBackground
)

// OpticFactor returns the correction factor for the observer and optics at
// background brightness bBack with extinction kX.
func OpticFactor(bBack, kX float64, o Observer, kind FactorKind, adapt Adaptation) float64 {
	sn := math.Max(o.Snellen, 0.00000001)
	mag := o.Magnification
	dia := o.Aperture
	trans := o.Transmission

	pst := PupilDia(23, bBack)
	if mag == 1 {
		trans = 1
		dia = pst
	}

	const (
		ciBackground = 0.7
		ciObject     = 0.5
		objectSize   = 0.0
	)

	fb := 1.0
	if !o.Binocular {
		fb = 1.41
	}

	var fe, fsc, fci, fcb float64
	if adapt.scotopic(bBack, ScotopicThresholdOptics) {
		fe = math.Pow(10, 0.48*kX)
		fsc = math.Min(1, (1-math.Pow(pst/124.4, 4))/(1-math.Pow(dia/mag/124.4, 4)))
		fci = math.Pow(10, -0.4*(1-ciObject/2.0))
		fcb = math.Pow(10, -0.4*(1-ciBackground/2.0))
	} else {
		fe = math.Pow(10, 0.4*kX)
		fsc = math.Min(1, math.Pow(dia/mag/pst, 2)*(1-math.Exp(-math.Pow(pst/6.2, 2)))/
			(1-math.Exp(-math.Pow(dia/mag/6.2, 2))))
		fci = 1
		fcb = 1
	}

	ft := 1 / trans
	fp := math.Max(1, math.Pow(pst/(mag*PupilDia(o.Age, bBack)), 2))
	fa := math.Pow(pst/dia, 2)
	fr := (1 + 0.03*math.Pow(mag*objectSize/CVA(bBack, sn, adapt), 2)) / math.Pow(sn, 2)
	fm := math.Pow(mag, 2)

	if kind == FactorIntensity {
		return fb * fe * ft * fp * fa * fr * fsc * fci
	}
	return fb * ft * fp * fa * fm * fsc * fcb
}

// Limit is a visual limiting magnitude and the regime it was computed in.
type Limit struct {
	Magnitude float64
	Scotopic  bool
	// Mixed is set when the sky brightness lies in the transition band
	// around BNight.
	Mixed bool
}

// VisLimMagn returns the faintest magnitude visible for the scene.
func VisLimMagn(m *atmosphere.Model, o Observer, s brightness.Scene, adapt Adaptation) Limit {
	bsk := brightness.Bsky(m, s)
	kX := m.Deltam(s.AltO, s.AltS, s.SunRA)
	cf1 := OpticFactor(bsk, kX, o, FactorBackground, adapt)
	cf2 := OpticFactor(bsk, kX, o, FactorIntensity, adapt)

	lim := Limit{
		Scotopic: adapt.scotopic(bsk, ScotopicThresholdOptics),
		Mixed:    BNight*BNightFactor > bsk && BNight/BNightFactor < bsk,
	}

	var c1, c2 float64
	if lim.Scotopic {
		c1 = 1.5848931924611e-10 // 10^-9.8
		c2 = 0.012589254117942   // 10^-1.9
	} else {
		c1 = 4.4668359215096e-9 // 10^-8.35
		c2 = 1.2589254117942e-6 // 10^-5.9
	}

	bsk *= cf1
	th := c1 * math.Pow(1+math.Sqrt(c2*bsk), 2) * cf2
	lim.Magnitude = -16.57 - 2.5*math.Log10(th)

	return lim
}
