package heliacal

import (
	"context"

	"github.com/thurmanmarka/heliacal/ephem"
)

// fakeProvider puts every object at one fixed horizontal position. Equatorial
// positions come from positions by object name.
type fakeProvider struct {
	positions map[string]ephem.Position
	alt       float64
	mag       float64
	err       error
}

func (f *fakeProvider) Position(_ context.Context, _ float64, obj ephem.Object, _ ephem.Site, _ ephem.Options) (ephem.Position, error) {
	if f.err != nil {
		return ephem.Position{}, f.err
	}
	return f.positions[obj.Name()], nil
}

func (f *fakeProvider) Phenomena(_ context.Context, _ float64, _ ephem.Object, _ ephem.Site, _ ephem.Options) (ephem.Phenomena, error) {
	if f.err != nil {
		return ephem.Phenomena{}, f.err
	}
	return ephem.Phenomena{Magnitude: f.mag, Phase: 1}, nil
}

func (f *fakeProvider) EquatorialToHorizon(_ float64, _ ephem.Site, _, _, _, _ float64) ephem.Horizontal {
	return ephem.Horizontal{Azimuth: 90, TrueAltitude: f.alt, ApparentAltitude: f.alt}
}

func (f *fakeProvider) RiseTransit(_ context.Context, jdUT float64, _ ephem.Object, _ ephem.RiseKind, _ ephem.Site, _, _ float64, _ bool) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return jdUT + 0.25, nil
}

func (f *fakeProvider) DeltaT(float64) float64 { return 69 }

var (
	athens    = Location{Lon: 23.72, Lat: 37.97, Height: 100}
	standard  = Atmosphere{Pressure: 1013.25, Temperature: 15, Humidity: 40}
	nakedEye  = Observer{Age: 36, Snellen: 1}
	jan2025   = 2460676.5
	aboveSky  = &fakeProvider{alt: 30, mag: 1}
	belowSky  = &fakeProvider{alt: -10, mag: 1}
	polarSite = Location{Lon: 10, Lat: 60, Height: 0}
)

// circumpolarStar returns a provider whose star never sets at polarSite.
func circumpolarStar() *fakeProvider {
	return &fakeProvider{
		alt: 20,
		mag: 2,
		positions: map[string]ephem.Position{
			"sun":     {Lon: 280, Lat: -23, Dist: 1},
			"moon":    {Lon: 100, Lat: 10, Dist: 0.0026},
			"polaris": {Lon: 38, Lat: 89.3, Dist: 1},
		},
	}
}

// faintPlanet returns a provider where mars sits on the Sun, stays 30°
// up and is far too faint to ever be seen.
func faintPlanet() *fakeProvider {
	return &fakeProvider{
		alt: 30,
		mag: 20,
		positions: map[string]ephem.Position{
			"sun":  {Lon: 280, Lat: -23, Dist: 1, LonSpeed: 1},
			"moon": {Lon: 100, Lat: 10, Dist: 0.0026, LonSpeed: 13},
			"mars": {Lon: 280, Lat: -23, Dist: 2, LonSpeed: 0.5},
		},
	}
}
