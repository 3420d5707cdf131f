package heliacal

import (
	"errors"
	"fmt"

	"github.com/thurmanmarka/heliacal/ephem"
)

// Status classifies the outcome of a search.
type Status int

const (
	StatusOK Status = iota
	// StatusNotFound means no event was found in the searched period.
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}

var (
	// ErrValidation is returned for inputs the engine refuses to search.
	ErrValidation = errors.New("heliacal: invalid request")

	// ErrNotFound is returned when an event does not occur in the searched
	// period.
	ErrNotFound = errors.New("heliacal: event not found")

	// ErrLoopGuard is returned when an iterative search fails to converge.
	ErrLoopGuard = errors.New("heliacal: search did not converge")

	// ErrCircumpolar is returned when the object never crosses the horizon.
	ErrCircumpolar = ephem.ErrCircumpolar

	// ErrBelowHorizon is returned when a limiting magnitude is asked for an
	// object below the horizon.
	ErrBelowHorizon = errors.New("heliacal: object is below local horizon")
)

// Error describes a failed evaluation.
type Error struct {
	Op     string // operation, e.g. "heliacal event"
	Status Status
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Op + ": " + e.Msg
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Status.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(op, format string, args ...any) error {
	return &Error{Op: op, Status: StatusError, Msg: fmt.Sprintf(format, args...), Err: ErrValidation}
}

func notFound(op, format string, args ...any) error {
	return &Error{Op: op, Status: StatusNotFound, Msg: fmt.Sprintf(format, args...), Err: ErrNotFound}
}

func loopGuard(op, msg string) error {
	return &Error{Op: op, Status: StatusError, Msg: msg, Err: ErrLoopGuard}
}

// isNotFound reports whether err only means "try another period".
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCircumpolar)
}

// statusOf maps an error to the status reported to callers.
func statusOf(err error) Status {
	var herr *Error
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &herr):
		return herr.Status
	case isNotFound(err):
		return StatusNotFound
	default:
		return StatusError
	}
}

func validateHeight(op string, loc Location) error {
	if loc.Height < GeoAltMin || loc.Height > GeoAltMax {
		return validationError(op, "location for heliacal events must be between %.0f and %.0f m above sea", GeoAltMin, GeoAltMax)
	}
	return nil
}
