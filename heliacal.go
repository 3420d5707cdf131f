// Package heliacal computes when a star, planet or the Moon first or last
// becomes visible to a human observer in the twilight glow around sunrise
// or sunset.
//
// The engine combines Schaefer's model of atmospheric extinction, sky
// brightness and the eye's threshold response with two search strategies:
//
//   - the visual limiting magnitude method (the default), which steps day
//     by day through the synodic cycle comparing the object's magnitude
//     with the faintest magnitude visible at sunrise or sunset, and
//   - the arcus visionis method (any AVKind flag), which compares the
//     Sun-object altitude difference against the minimum arc at which the
//     object can be seen.
//
// Positions come from an ephem.Provider. Package ephem/approx is a self
// contained low precision implementation good enough for day level work.
//
// Times are Julian days in Universal Time throughout.
package heliacal

import (
	"strconv"

	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/vision"
)

// EventType selects the heliacal phenomenon searched for.
type EventType int

const (
	// MorningFirst is the heliacal rising: first visibility before sunrise.
	MorningFirst EventType = iota + 1
	// EveningLast is the heliacal setting: last visibility after sunset.
	EveningLast
	// EveningFirst is the first visibility after sunset of an inferior
	// planet or the young Moon.
	EveningFirst
	// MorningLast is the last visibility before sunrise of an inferior
	// planet or the old Moon.
	MorningLast
	// AcronychalRising is the last rising seen at sunset.
	AcronychalRising
	// AcronychalSetting is the first setting seen at sunrise.
	AcronychalSetting
)

var eventNames = [...]string{
	"",
	"morning first",
	"evening last",
	"evening first",
	"morning last",
	"acronychal rising",
	"acronychal setting",
}

func (t EventType) String() string {
	if t < MorningFirst || t > AcronychalSetting {
		return "event(" + strconv.Itoa(int(t)) + ")"
	}
	return eventNames[t]
}

// isRisingEvent reports whether the event is tied to the object's rising
// (and the Sun's rising).
func (t EventType) isRisingEvent() bool {
	return t == MorningFirst || t == MorningLast
}

// Flags modify the search. The values are part of the public contract.
type Flags int

const (
	// LongSearch searches up to a million synodic periods instead of five.
	LongSearch Flags = 128
	// HighPrecision uses nutation and light-time corrected positions and
	// more refraction iterations.
	HighPrecision Flags = 256
	// OpticalParams honours the optical aid fields of Observer.
	OpticalParams Flags = 512
	// NoDetails skips the refinement of first, optimum and last visibility.
	NoDetails Flags = 1024
	// Search1Period reports StatusNotFound when nothing is found within
	// one synodic period instead of searching on.
	Search1Period Flags = 2048

	// VisLimDark evaluates the limiting magnitude with the Sun at -90°.
	VisLimDark Flags = 4096
	// VisLimNoMoon evaluates the limiting magnitude without moonlight.
	VisLimNoMoon Flags = 8192
	// VisLimPhotopic forces light adapted vision.
	VisLimPhotopic Flags = 16384
	// VisLimScotopic forces dark adapted vision.
	VisLimScotopic Flags = 32768

	// AVKindVR selects the arcus visionis method refined by a minute walk
	// on the visibility ratio.
	AVKindVR Flags = 65536
	// AV is an alias of AVKindVR.
	AV = AVKindVR
	// AVKindPTO selects the arcus visionis method refined to the object's
	// horizon crossing.
	AVKindPTO Flags = 131072
	// AVKindMin7 fixes the solar depression at 7°.
	AVKindMin7 Flags = 262144
	// AVKindMin9 fixes the solar depression at 9°.
	AVKindMin9 Flags = 524288
	// AVKind is the union of all arcus visionis kinds.
	AVKind = AVKindVR | AVKindPTO | AVKindMin7 | AVKindMin9
)

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Any reports whether any bit of x is set.
func (f Flags) Any(x Flags) bool {
	return f&x != 0
}

func (f Flags) adaptation() vision.Adaptation {
	switch {
	case f.Has(VisLimScotopic):
		return vision.AdaptScotopic
	case f.Has(VisLimPhotopic):
		return vision.AdaptPhotopic
	default:
		return vision.AdaptAuto
	}
}

// Heights outside this range are rejected.
const (
	GeoAltMin = -1000.0
	GeoAltMax = 20000.0
)

const (
	// Epsilon is the convergence width of the arcus visionis bisection.
	Epsilon = 0.001

	// TJDInvalid marks a time that could not be determined.
	TJDInvalid = 99999999.0

	// AvgRadiusMoon is the mean apparent lunar radius in degrees.
	AvgRadiusMoon = 15.541 / 60

	// LocalMinStep is the look-behind in minutes used to confirm a local
	// minimum of the arcus visionis during the lunar walk.
	LocalMinStep = 8

	// TimeStepDefault is the minute walk step in minutes.
	TimeStepDefault = 1

	maxSynodicPeriods     = 5
	maxSynodicPeriodsLong = 1000000
)

// Location is the observing site.
type Location struct {
	Lon    float64 `yaml:"lon" toml:"lon"`       // degrees, east positive
	Lat    float64 `yaml:"lat" toml:"lat"`       // degrees, north positive
	Height float64 `yaml:"height" toml:"height"` // metres above sea level
}

// Atmosphere holds the surface meteorological conditions. A zero or
// negative Pressure selects the standard atmosphere for the site height.
type Atmosphere struct {
	Pressure    float64 `yaml:"pressure" toml:"pressure"`       // mbar
	Temperature float64 `yaml:"temperature" toml:"temperature"` // °C
	Humidity    float64 `yaml:"humidity" toml:"humidity"`       // percent
	// VisualRange is a meteorological range in km when >= 1, a total
	// extinction coefficient when in (0, 1), and 0 for the default model.
	VisualRange float64 `yaml:"visual_range" toml:"visual_range"`
}

func (a Atmosphere) conditions() atmosphere.Conditions {
	return atmosphere.Conditions{
		Pressure:    a.Pressure,
		Temperature: a.Temperature,
		Humidity:    a.Humidity,
		VisualRange: a.VisualRange,
	}
}

// Observer describes the observer's eyes and optical aid. Zero values take
// defaults: age 36, Snellen ratio 1, naked eye with both eyes. The optical
// fields are only used with OpticalParams.
type Observer struct {
	Age           float64 `yaml:"age" toml:"age"`
	Snellen       float64 `yaml:"snellen" toml:"snellen"`
	Binocular     bool    `yaml:"binocular" toml:"binocular"`
	Magnification float64 `yaml:"magnification" toml:"magnification"`
	Aperture      float64 `yaml:"aperture" toml:"aperture"`         // mm
	Transmission  float64 `yaml:"transmission" toml:"transmission"` // fraction
}

func (o Observer) vision() vision.Observer {
	return vision.Observer{
		Age:           o.Age,
		Snellen:       o.Snellen,
		Binocular:     o.Binocular,
		Magnification: o.Magnification,
		Aperture:      o.Aperture,
		Transmission:  o.Transmission,
	}
}

// Result is the outcome of a heliacal event search.
type Result struct {
	Status Status
	// Times holds the first, optimum and last visibility. Without details
	// only Times[0] is set.
	Times [3]float64
	// Count is the number of valid entries in Times.
	Count int
	// Message carries non-fatal remarks such as the photopic/scotopic
	// uncertainty warning.
	Message string
	// Uncertain is set when any of Times straddles the switch between
	// photopic and scotopic vision.
	Uncertain bool
}

// VisLimit is the visual limiting magnitude of an object and the geometry
// it was computed for.
type VisLimit struct {
	// Limit is the faintest visible magnitude, -100 when the object is
	// below the horizon.
	Limit      float64
	AltO, AziO float64
	AltS, AziS float64
	AltM, AziM float64
	// Magnitude is the object's own magnitude.
	Magnitude float64
	Scotopic  bool
	Mixed     bool
}

// Visible reports whether the object is brighter than the limit.
func (v VisLimit) Visible() bool {
	return v.Limit > v.Magnitude
}

// margin is the limit minus the object's magnitude; positive is visible.
func (v VisLimit) margin() float64 {
	return v.Limit - v.Magnitude
}

// Phenomena describes the visibility of an object at one instant.
type Phenomena struct {
	AltO    float64 // topocentric altitude of the object
	AppAltO float64 // apparent altitude of the object
	GeoAltO float64 // geocentric altitude of the object
	AziO    float64
	AltS    float64
	AziS    float64
	TAVact  float64 // topocentric arcus visionis, AltO - AltS
	ARCVact float64 // geocentric arcus visionis
	DAZact  float64 // azimuth difference Sun - object
	ARCLact float64 // arc of light
	Kact    float64 // total extinction coefficient
	MinTAV  float64 // smallest topocentric arcus visionis
	// TfirstVR, TbVR and TlastVR bound and peak the visibility window
	// starting at the object's rise or set. TJDInvalid when unknown.
	TfirstVR float64
	TbVR     float64
	TlastVR  float64
	// TbYallop is the Yallop best time for the crescent.
	TbYallop float64
	WMoon    float64 // crescent width, degrees
	QYal     float64 // Yallop q
	QCrit    float64 // Yallop class, 1 (A) to 6 (F)
	ParO     float64 // parallax
	MagnO    float64
	RiseSetO float64
	RiseSetS float64
	Lag      float64 // object minus Sun rise/set, days
	TvisVR   float64 // duration of the visibility window, days
	LMoon    float64 // crescent length, degrees
	Elong    float64
	Illum    float64 // percent
}

// Request is one item of a batch search.
type Request struct {
	Start      float64
	Location   Location
	Atmosphere Atmosphere
	Observer   Observer
	Object     string
	Event      EventType
	Flags      Flags
}
