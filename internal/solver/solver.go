// Package solver holds the one-dimensional search primitives shared by the
// event searches: bracket-then-bisect root finding, a derivative-test
// minimum search and a three-point parabola vertex.
package solver

import (
	"context"
	"errors"
	"math"
)

// Func evaluates a scalar function of one variable (a Julian day, an
// altitude, an arc). Evaluators may fail when they call out to an ephemeris.
type Func func(x float64) (float64, error)

// Direction restricts the sign changes a search accepts.
type Direction int

const (
	AnyCrossing  Direction = iota
	CrossingUp             // from below the target to at or above it
	CrossingDown           // from above the target to at or below it
)

// between reports whether offsets y0 then y1 from the target straddle it
// the way d requires. A zero offset counts as reached.
func (d Direction) between(y0, y1 float64) bool {
	switch d {
	case CrossingUp:
		return y0 < 0 && y1 >= 0
	case CrossingDown:
		return y0 > 0 && y1 <= 0
	}
	return y0*y1 <= 0
}

var (
	// ErrNoBracket is returned when the function does not cross the target
	// inside the searched interval.
	ErrNoBracket = errors.New("solver: no crossing in interval")

	// ErrMaxIterations is returned when a search exceeds its iteration cap.
	ErrMaxIterations = errors.New("solver: iteration limit exceeded")
)

// Bracket is an interval known to contain a crossing. FLo and FHi are the
// function values minus the target at Lo and Hi.
type Bracket struct {
	Lo, Hi   float64
	FLo, FHi float64
}

// Width returns the absolute width of the bracket.
func (b Bracket) Width() float64 {
	return math.Abs(b.Hi - b.Lo)
}

// Mid returns the bracket midpoint.
func (b Bracket) Mid() float64 {
	return (b.Lo + b.Hi) / 2
}

// Scan samples f across [start, end] in steps-1 equal intervals and returns
// the first sub-interval where f crosses target in the requested direction.
func Scan(ctx context.Context, f Func, start, end, target float64, dir Direction, steps int) (Bracket, error) {
	if steps < 2 {
		steps = 2
	}
	interval := (end - start) / float64(steps-1)

	prevX := start
	prevY, err := f(prevX)
	if err != nil {
		return Bracket{}, err
	}
	prevY -= target

	for i := 1; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return Bracket{}, err
		}
		x := start + float64(i)*interval
		y, err := f(x)
		if err != nil {
			return Bracket{}, err
		}
		y -= target

		if dir.between(prevY, y) {
			return Bracket{Lo: prevX, Hi: x, FLo: prevY, FHi: y}, nil
		}
		prevX, prevY = x, y
	}

	return Bracket{}, ErrNoBracket
}

// Bisect narrows b until its width is at most tol and returns the final
// bracket. The crossing stays inside [Lo, Hi] throughout.
func Bisect(ctx context.Context, f Func, b Bracket, target float64, dir Direction, tol float64, maxIter int) (Bracket, error) {
	if !dir.between(b.FLo, b.FHi) {
		return b, ErrNoBracket
	}

	for i := 0; b.Width() > tol; i++ {
		if maxIter > 0 && i >= maxIter {
			return b, ErrMaxIterations
		}
		if err := ctx.Err(); err != nil {
			return b, err
		}

		mid := b.Mid()
		y, err := f(mid)
		if err != nil {
			return b, err
		}
		y -= target

		if dir.between(b.FLo, y) {
			b.Hi, b.FHi = mid, y
		} else {
			b.Lo, b.FLo = mid, y
		}
	}

	return b, nil
}

// FindCrossing searches [start, end] for a crossing of target using a simple
// bracket-then-bisect strategy and returns its midpoint estimate.
func FindCrossing(ctx context.Context, f Func, start, end, target float64, dir Direction, steps int, tol float64) (float64, error) {
	if !(start < end) {
		return 0, ErrNoBracket
	}

	b, err := Scan(ctx, f, start, end, target, dir, steps)
	if err != nil {
		return 0, err
	}
	b, err = Bisect(ctx, f, b, target, dir, tol, 0)
	if err != nil {
		return 0, err
	}
	return b.Mid(), nil
}

// Minimum refines a local minimum of f inside [lo, hi] by bisection on the
// sign of the forward difference f(x) - f(x+h). It stops once the interval
// is no wider than tol and returns the midpoint together with the mean of
// the two endpoint values.
func Minimum(ctx context.Context, f Func, lo, hi, h, tol float64, maxIter int) (x, fx float64, err error) {
	ylo, err := f(lo)
	if err != nil {
		return 0, 0, err
	}
	yhi, err := f(hi)
	if err != nil {
		return 0, 0, err
	}

	for i := 0; math.Abs(hi-lo) > tol; i++ {
		if maxIter > 0 && i >= maxIter {
			return 0, 0, ErrMaxIterations
		}
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		mid := (lo + hi) / 2
		ym, err := f(mid)
		if err != nil {
			return 0, 0, err
		}
		ymd, err := f(mid + h)
		if err != nil {
			return 0, 0, err
		}

		// Still descending at mid: the minimum lies to the right.
		if ym >= ymd {
			lo, ylo = mid, ym
		} else {
			hi, yhi = mid, ym
		}
	}

	return (lo + hi) / 2, (ylo + yhi) / 2, nil
}

// ParabolaVertex returns the abscissa of the vertex of the parabola through
// three equally spaced samples given newest first: a=f(1), b=f(0), c=f(-1).
// The result is in units of the sample spacing, and 0 when the samples are
// collinear.
func ParabolaVertex(a, b, c float64) float64 {
	term := a + c - 2*b
	if term == 0 {
		return 0
	}
	return -(a - c) / 2 / term
}
