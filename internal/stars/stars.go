// Package stars holds a small catalogue of bright fixed stars and precesses
// their J2000 positions to the equinox of date.
package stars

import (
	"math"
	"sort"
	"strings"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// Star is a catalogue entry. RA and Dec are J2000, in degrees.
type Star struct {
	Name      string
	RA, Dec   float64
	Magnitude float64
}

var catalogue = map[string]Star{}

func init() {
	for _, s := range []Star{
		{"Sirius", 101.287155, -16.716116, -1.46},
		{"Canopus", 95.987958, -52.695661, -0.74},
		{"Arcturus", 213.915300, 19.182409, -0.05},
		{"Vega", 279.234735, 38.783689, 0.03},
		{"Capella", 79.172328, 45.997991, 0.08},
		{"Rigel", 78.634467, -8.201638, 0.13},
		{"Procyon", 114.825493, 5.224993, 0.37},
		{"Betelgeuse", 88.792939, 7.407064, 0.42},
		{"Achernar", 24.428523, -57.236753, 0.46},
		{"Altair", 297.695827, 8.868321, 0.76},
		{"Aldebaran", 68.980163, 16.509302, 0.86},
		{"Antares", 247.351915, -26.432003, 0.96},
		{"Spica", 201.298247, -11.161319, 0.97},
		{"Pollux", 116.328958, 28.026199, 1.14},
		{"Fomalhaut", 344.412693, -29.622237, 1.16},
		{"Deneb", 310.357980, 45.280339, 1.25},
		{"Regulus", 152.092962, 11.967209, 1.35},
		{"Castor", 113.649428, 31.888276, 1.58},
		{"Bellatrix", 81.282764, 6.349703, 1.64},
		{"Alnilam", 84.053389, -1.201919, 1.69},
		{"Polaris", 37.954561, 89.264109, 1.98},
		{"Alcyone", 56.871152, 24.105136, 2.87},
	} {
		catalogue[strings.ToLower(s.Name)] = s
	}
}

// Lookup finds a star by name, ignoring case and surrounding space.
func Lookup(name string) (Star, bool) {
	s, ok := catalogue[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Names returns the catalogue names in sorted order.
func Names() []string {
	out := make([]string, 0, len(catalogue))
	for _, s := range catalogue {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// Precess returns the position of s referred to the mean equinox of Julian
// day jd (Meeus 21.2).
func (s Star) Precess(jd float64) (ra, dec float64) {
	T := timeutil.JulianCenturies(jd)

	zeta := timeutil.Deg2Rad((2306.2181*T + 0.30188*T*T + 0.017998*T*T*T) / 3600)
	z := (2306.2181*T + 1.09468*T*T + 0.018203*T*T*T) / 3600
	theta := timeutil.Deg2Rad((2004.3109*T - 0.42665*T*T - 0.041833*T*T*T) / 3600)

	a0 := timeutil.Deg2Rad(s.RA)
	d0 := timeutil.Deg2Rad(s.Dec)

	A := math.Cos(d0) * math.Sin(a0+zeta)
	B := math.Cos(theta)*math.Cos(d0)*math.Cos(a0+zeta) - math.Sin(theta)*math.Sin(d0)
	C := math.Sin(theta)*math.Cos(d0)*math.Cos(a0+zeta) + math.Cos(theta)*math.Sin(d0)

	ra = timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(A, B)) + z)
	dec = timeutil.Rad2Deg(math.Asin(C))
	return ra, dec
}
