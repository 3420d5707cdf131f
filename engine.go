package heliacal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/thurmanmarka/heliacal/ephem"
	"github.com/thurmanmarka/heliacal/internal/atmosphere"
	"github.com/thurmanmarka/heliacal/internal/config"
	"github.com/thurmanmarka/heliacal/internal/logging"
	"github.com/thurmanmarka/heliacal/internal/vision"
)

// Engine runs heliacal searches against an ephemeris provider. An Engine
// is immutable after construction and safe for concurrent use.
type Engine struct {
	provider ephem.Provider
	logger   *slog.Logger
	clock    clockwork.Clock
	metrics  *Metrics

	workers     int
	periods     int
	longPeriods int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the clock used to time searches.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithMetrics sets the metrics updated by the engine. Without it the
// engine updates a private, unregistered set.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithWorkers bounds the concurrency of HeliacalEvents.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSynodicPeriods sets how many synodic periods a search covers, with
// and without LongSearch.
func WithSynodicPeriods(normal, long int) Option {
	return func(e *Engine) {
		if normal > 0 {
			e.periods = normal
		}
		if long > 0 {
			e.longPeriods = long
		}
	}
}

// New returns an Engine using provider for all positions.
func New(provider ephem.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:    provider,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:       clockwork.NewRealClock(),
		metrics:     NewMetricsForTesting(),
		workers:     4,
		periods:     maxSynodicPeriods,
		longPeriods: maxSynodicPeriodsLong,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig loads the engine configuration from path (an empty path
// reads the environment only) and returns an Engine logging to stderr at
// the configured level. Options are applied last.
func NewFromConfig(path string, provider ephem.Provider, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	base := []Option{
		WithLogger(logger),
		WithWorkers(cfg.Workers),
		WithSynodicPeriods(cfg.MaxSynodicPeriods, cfg.LongSearchPeriods),
	}
	return New(provider, append(base, opts...)...), nil
}

// evaluation owns everything one public call needs: the normalised
// inputs, the request-scoped caches and a logger tagged with an id.
// It is never shared between calls.
type evaluation struct {
	ctx      context.Context
	provider ephem.Provider
	log      *slog.Logger
	metrics  *Metrics

	loc      Location
	site     ephem.Site
	cond     atmosphere.Conditions
	observer vision.Observer
	flags    Flags
	atm      *atmosphere.Model

	sunRAMemo struct {
		jd, ra float64
		ok     bool
	}
}

func (e *Engine) newEvaluation(ctx context.Context, op string, loc Location, atm Atmosphere, obs Observer, flags Flags) *evaluation {
	cond := vision.DefaultConditions(atm.conditions(), loc.Height)
	return &evaluation{
		ctx:      ctx,
		provider: e.provider,
		log:      e.logger.With("eval", uuid.NewString(), "op", op),
		metrics:  e.metrics,
		loc:      loc,
		site:     ephem.Site{Lon: loc.Lon, Lat: loc.Lat, Height: loc.Height},
		cond:     cond,
		observer: obs.vision().WithDefaults(flags.Has(OpticalParams)),
		flags:    flags,
		atm:      atmosphere.NewModel(cond, loc.Lat, loc.Height, flags.Has(HighPrecision)),
	}
}

// withFlags returns an evaluation sharing the inputs of ev but searching
// with different flags. A change of precision gets its own atmosphere
// caches.
func (ev *evaluation) withFlags(flags Flags) *evaluation {
	out := *ev
	out.flags = flags
	if flags.Has(HighPrecision) != ev.flags.Has(HighPrecision) {
		out.atm = atmosphere.NewModel(ev.cond, ev.loc.Lat, ev.loc.Height, flags.Has(HighPrecision))
	}
	return &out
}

// reportWarnings logs the atmosphere consistency warnings raised during
// the evaluation.
func (ev *evaluation) reportWarnings() {
	for _, w := range ev.atm.Warnings() {
		ev.log.Warn("atmosphere", "warning", w)
	}
}

func (ev *evaluation) checkContext() error {
	if err := ev.ctx.Err(); err != nil {
		return fmt.Errorf("heliacal search canceled: %w", err)
	}
	return nil
}
