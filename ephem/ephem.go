// Package ephem defines the ephemeris services the heliacal engine
// consumes: body positions, apparent phenomena, the equatorial to
// horizontal transform, rise/set times and Delta T.
//
// The engine never computes positions itself. Any Provider can be plugged
// in; package ephem/approx ships a low precision reference implementation.
package ephem

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Body identifies a solar system body. Values follow the usual ephemeris
// numbering, with asteroids offset by AsteroidOffset.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// AsteroidOffset is added to an asteroid's catalogue number to form its Body.
const AsteroidOffset Body = 10000

var bodyNames = map[Body]string{
	Sun:     "sun",
	Moon:    "moon",
	Mercury: "mercury",
	Venus:   "venus",
	Mars:    "mars",
	Jupiter: "jupiter",
	Saturn:  "saturn",
	Uranus:  "uranus",
	Neptune: "neptune",
	Pluto:   "pluto",
}

func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	if b > AsteroidOffset {
		return strconv.Itoa(int(b - AsteroidOffset))
	}
	return "body(" + strconv.Itoa(int(b)) + ")"
}

// Object is either a solar system body or a fixed star, resolved once from a
// free-text name.
type Object struct {
	body Body
	star string
}

// Planet returns the Object for a solar system body.
func Planet(b Body) Object {
	return Object{body: b}
}

// Star returns the Object for a fixed star.
func Star(name string) Object {
	return Object{body: -1, star: name}
}

// prefixes are matched against lowercase object names in order.
var prefixes = []struct {
	prefix string
	body   Body
}{
	{"sun", Sun},
	{"venus", Venus},
	{"mars", Mars},
	{"mercur", Mercury},
	{"jupiter", Jupiter},
	{"saturn", Saturn},
	{"uranus", Uranus},
	{"neptun", Neptune},
	{"moon", Moon},
	{"pluto", Pluto},
}

// ParseObject resolves a name to an Object. Planet names match on their
// prefix case-insensitively ("mercur" matches "Mercury"), a
// positive integer names an asteroid, anything else is taken as a star.
func ParseObject(name string) Object {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.prefix) {
			return Planet(p.body)
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return Planet(AsteroidOffset + Body(n))
	}
	return Star(s)
}

// IsStar reports whether the object is a fixed star.
func (o Object) IsStar() bool { return o.body < 0 }

// Body returns the solar system body, or -1 for stars.
func (o Object) Body() Body { return o.body }

// Is reports whether the object is the given body.
func (o Object) Is(b Body) bool { return !o.IsStar() && o.body == b }

// Name returns the lowercase name of the object.
func (o Object) Name() string {
	if o.IsStar() {
		return o.star
	}
	return o.body.String()
}

func (o Object) String() string { return o.Name() }

// Site is a geographic observing location.
type Site struct {
	Lon    float64 // degrees, east positive
	Lat    float64 // degrees, north positive
	Height float64 // metres above sea level
}

// Options select the flavour of a computed position.
type Options struct {
	Topocentric bool
	// Equatorial returns right ascension and declination instead of
	// ecliptic longitude and latitude.
	Equatorial bool
	Speed      bool
	// TruePosition skips light-time and aberration.
	TruePosition bool
	NoNutation   bool
}

// Position is a polar position and its daily motion. Lon/Lat hold RA/Dec
// when Options.Equatorial is set. Dist is in AU.
type Position struct {
	Lon, Lat, Dist                float64
	LonSpeed, LatSpeed, DistSpeed float64
}

// Horizontal is a position in the local horizon system. Azimuth is measured
// from north through east.
type Horizontal struct {
	Azimuth          float64
	TrueAltitude     float64
	ApparentAltitude float64
}

// Phenomena are the apparent disc properties of an object. Stars only carry
// a magnitude.
type Phenomena struct {
	PhaseAngle float64 // degrees
	Phase      float64 // illuminated fraction
	Elongation float64 // degrees from the Sun
	Diameter   float64 // apparent diameter, degrees
	Magnitude  float64
}

// RiseKind selects the horizon event searched by RiseTransiter.
type RiseKind int

const (
	Rise RiseKind = iota + 1
	Set
	UpperTransit
	LowerTransit
)

var (
	// ErrCircumpolar is returned when an object does not cross the horizon.
	ErrCircumpolar = errors.New("ephem: object does not rise or set")

	// ErrUnknownObject is returned for names the provider cannot resolve.
	ErrUnknownObject = errors.New("ephem: unknown object")
)

// Positioner computes positions at a Terrestrial Time Julian day.
type Positioner interface {
	Position(ctx context.Context, jdTT float64, obj Object, site Site, opts Options) (Position, error)
}

// PhenomenaProvider computes apparent phenomena at a UT Julian day.
type PhenomenaProvider interface {
	Phenomena(ctx context.Context, jdUT float64, obj Object, site Site, opts Options) (Phenomena, error)
}

// HorizonTransformer converts equatorial coordinates of date to the local
// horizon, applying refraction for the given pressure and temperature.
type HorizonTransformer interface {
	EquatorialToHorizon(jdUT float64, site Site, pressure, temperature, ra, dec float64) Horizontal
}

// RiseTransiter finds the next horizon event after jdUT. When discCenter is
// false the upper limb is used.
type RiseTransiter interface {
	RiseTransit(ctx context.Context, jdUT float64, obj Object, kind RiseKind, site Site, pressure, temperature float64, discCenter bool) (float64, error)
}

// DeltaTer returns TT - UT in seconds.
type DeltaTer interface {
	DeltaT(jdUT float64) float64
}

// Provider bundles all services the engine needs.
type Provider interface {
	Positioner
	PhenomenaProvider
	HorizonTransformer
	RiseTransiter
	DeltaTer
}
