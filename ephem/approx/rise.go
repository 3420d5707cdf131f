package approx

import (
	"context"
	"errors"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/solver"
	"github.com/thurmanmarka/heliacal/internal/timeutil"
)

const (
	// horizonRefraction is the standard refraction at the horizon, degrees.
	horizonRefraction = 34.5 / 60

	riseWindow = 2.0 // days
	riseSteps  = 289 // 10 minute sampling
	riseTol    = 1e-6
)

// RiseTransit implements ephem.RiseTransiter by scanning the topocentric
// altitude (or hour angle for transits) over the next two days and
// bisecting the first crossing.
func (p *Provider) RiseTransit(ctx context.Context, jdUT float64, obj ephem.Object, kind ephem.RiseKind, site ephem.Site, pressure, temperature float64, discCenter bool) (float64, error) {
	topo := ephem.Options{Topocentric: true, Equatorial: true}
	equatorial := func(jd float64) (ephem.Position, error) {
		return p.position(jd+p.DeltaT(jd)/86400, obj, site, topo)
	}

	var (
		f      solver.Func
		target float64
		dir    = solver.CrossingUp
	)

	switch kind {
	case ephem.Rise, ephem.Set:
		start, err := equatorial(jdUT)
		if err != nil {
			return 0, err
		}
		target = -horizonRefraction * refractionScale(pressure, temperature, site.Height)
		if !discCenter {
			target -= semidiameter(obj, start.Dist)
		}
		if kind == ephem.Set {
			dir = solver.CrossingDown
		}
		f = func(jd float64) (float64, error) {
			pos, err := equatorial(jd)
			if err != nil {
				return 0, err
			}
			return p.EquatorialToHorizon(jd, site, pressure, temperature, pos.Lon, pos.Lat).TrueAltitude, nil
		}

	case ephem.UpperTransit, ephem.LowerTransit:
		offset := 0.0
		if kind == ephem.LowerTransit {
			offset = 180
		}
		f = func(jd float64) (float64, error) {
			pos, err := equatorial(jd)
			if err != nil {
				return 0, err
			}
			return timeutil.Normalize180(siderealTime(jd, site.Lon) - pos.Lon - offset), nil
		}

	default:
		return 0, errors.New("approx: unknown rise kind")
	}

	t, err := solver.FindCrossing(ctx, f, jdUT, jdUT+riseWindow, target, dir, riseSteps, riseTol)
	if errors.Is(err, solver.ErrNoBracket) {
		return 0, ephem.ErrCircumpolar
	}
	return t, err
}
