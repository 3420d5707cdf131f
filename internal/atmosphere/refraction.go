package atmosphere

import (
	"math"

	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

// TopoAltFromAppAlt removes refraction from an apparent altitude (deg)
// using Sinclair's formula scaled for temperature and pressure at eye height.
// Below LowestAppAlt the input is returned unchanged.
func TopoAltFromAppAlt(appAlt, tempE, presE float64) float64 {
	if appAlt < LowestAppAlt {
		return appAlt
	}

	var r float64
	if appAlt > 17.904104638432 {
		r = 0.97 / timeutil.TanD(appAlt)
	} else {
		r = (34.46 + 4.23*appAlt + 0.004*appAlt*appAlt) /
			(1 + 0.505*appAlt + 0.0845*appAlt*appAlt)
	}
	r = (presE - 80) / 930 / (1 + 0.00008*(r+39)*(tempE-10)) * r

	return appAlt - r/60
}

// AppAltFromTopoAlt inverts TopoAltFromAppAlt with a secant iteration: three
// passes, or six under high precision. Results below LowestAppAlt fall back
// to the topocentric altitude.
func AppAltFromTopoAlt(topoAlt, tempE, presE float64, highPrecision bool) float64 {
	nloop := 2
	if highPrecision {
		nloop = 5
	}

	newApp := topoAlt
	newTopo := 0.0
	oldApp := newApp
	oldTopo := newTopo

	for i := 0; i <= nloop; i++ {
		newTopo = newApp - TopoAltFromAppAlt(newApp, tempE, presE)
		diff := newApp - oldApp
		oldApp = newTopo - oldTopo - diff
		if diff != 0 && oldApp != 0 {
			diff = newApp - diff*(topoAlt+newTopo-newApp)/oldApp
		} else {
			diff = topoAlt + newTopo
		}
		oldApp = newApp
		oldTopo = newTopo
		newApp = diff
	}

	ret := topoAlt + newTopo
	if ret < LowestAppAlt || math.IsNaN(ret) {
		return topoAlt
	}
	return ret
}
