package timeutil

import (
	"math"
	"time"
)

// J2000 is the Julian day of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// j2000 is the J2000.0 epoch: 2000-01-01 12:00:00 UTC.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// DaysSinceJ2000 returns the number of (UTC) days since the J2000.0 epoch.
func DaysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

// JulianDay converts a time to a Julian day number on the Gregorian calendar.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	year, month, day := u.Date()
	hour := float64(u.Hour()) +
		float64(u.Minute())/60.0 +
		float64(u.Second())/3600.0 +
		float64(u.Nanosecond())/(3600.0*1e9)

	return JulianDayFromCalendar(year, int(month), day, hour)
}

// JulianDayFromCalendar converts a Gregorian calendar date and fractional
// hour (UT) to a Julian day number.
func JulianDayFromCalendar(year, month, day int, hour float64) float64 {
	y := year
	m := month

	if m <= 2 {
		y -= 1
		m += 12
	}

	A := y / 100
	if y < 0 && y%100 != 0 {
		A--
	}
	B := 2 - A + A/4

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(B) - 1524.5 +
		hour/24.0
}

// Calendar returns the Gregorian year, month, day and fractional hour of a
// Julian day number (Meeus, Astronomical Algorithms ch. 7).
func Calendar(jd float64) (year, month, day int, hour float64) {
	z := math.Floor(jd + 0.5)
	f := jd + 0.5 - z

	alpha := math.Floor((z - 1867216.25) / 36524.25)
	a := z + 1 + alpha - math.Floor(alpha/4)

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day = int(b - d - math.Floor(30.6001*e))
	if e < 14 {
		month = int(e - 1)
	} else {
		month = int(e - 13)
	}
	if month > 2 {
		year = int(c - 4716)
	} else {
		year = int(c - 4715)
	}

	return year, month, day, f * 24
}

// TimeFromJulianDay converts a Julian day number (UT) to a UTC time rounded
// to the nearest millisecond.
func TimeFromJulianDay(jd float64) time.Time {
	ms := math.Round((jd - J2000) * 86400e3)
	return j2000.Add(time.Duration(ms) * time.Millisecond)
}

// JulianCenturies returns Julian centuries since J2000.0 for a Julian day.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// AsinD returns asin(x) in degrees, clamping x into [-1, 1].
func AsinD(x float64) float64 {
	return Rad2Deg(math.Asin(Clamp(x, -1, 1)))
}

// AcosD returns acos(x) in degrees, clamping x into [-1, 1].
func AcosD(x float64) float64 {
	return Rad2Deg(math.Acos(Clamp(x, -1, 1)))
}

func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// Normalize180 maps an angle into (-180, 180].
func Normalize180(d float64) float64 {
	d = Normalize360(d)
	if d > 180 {
		d -= 360
	}
	return d
}

func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Sgn returns -1 for negative x and 1 otherwise, including zero.
func Sgn(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
