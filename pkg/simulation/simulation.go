// Package simulation drives an epidemic hour by hour over a city grid.
//
// Every hour runs in two phases. First, every citizen's routine runs on a
// copy of the citizen, in parallel, against a frozen snapshot of the
// previous hour: the read buffer. Second, the proposed moves are committed
// in arena order into the write buffer. A citizen whose cell was taken by
// a citizen earlier in the arena stays where it was. Counts are then
// recomputed from scratch and interventions run single-threaded before the
// buffers swap.
package simulation

import (
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/intervention"
	"github.com/ChicagoDave/episim/pkg/layout"
	"github.com/ChicagoDave/episim/pkg/listeners"
	"github.com/ChicagoDave/episim/pkg/random"
)

var (
	// ErrEmptyPopulation is returned when the population source yields
	// no citizens.
	ErrEmptyPopulation = errors.New("population is empty")
	// ErrPopulationNotConserved reports broken bookkeeping: the counts or
	// the grid no longer cover every citizen.
	ErrPopulationNotConserved = errors.New("population not conserved")
)

// Simulation is one run of the epidemic.
type Simulation struct {
	cfg     *config.Config
	disease disease.Disease
	city    *layout.City

	// citizens and cells are the read buffer; next and nextCells the write
	// buffer. cells[i] is where citizens[i] stands.
	citizens  []agent.Citizen
	next      []agent.Citizen
	cells     []geo.Point
	nextCells []geo.Point
	proposed  []geo.Point
	read      *grid.Grid
	write     *grid.Grid

	counts        events.Counts
	interventions *intervention.Engine
	listener      listeners.Listener
	logger        *slog.Logger
	clock         func() time.Time

	workers       int
	streams       []*random.Stream
	seed          uint64
	publishStates bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithWorkers sets the number of goroutines citizens are updated on.
// Values below one use every available CPU.
func WithWorkers(n int) Option {
	return func(s *Simulation) { s.workers = n }
}

// WithSeed overrides the configured seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.seed = seed }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithListener sets the receiver of simulation notifications.
func WithListener(l listeners.Listener) Option {
	return func(s *Simulation) { s.listener = l }
}

// WithCitizenStates turns per-citizen state notifications on or off.
func WithCitizenStates(enabled bool) Option {
	return func(s *Simulation) { s.publishStates = enabled }
}

// WithClock replaces the wall clock used for throughput logging.
func WithClock(now func() time.Time) Option {
	return func(s *Simulation) { s.clock = now }
}

// New lays out the city, generates and places the population and seeds
// the starting infections. Population preconditions that cannot be met
// are returned as errors wrapping geo.ErrNotEnoughCells,
// agent.ErrTooManyInfections or census.ErrMissingCensusData.
func New(cfg *config.Config, d disease.Disease, opts ...Option) (*Simulation, error) {
	s := &Simulation{
		cfg:           cfg,
		disease:       d,
		listener:      listeners.Nop{},
		logger:        slog.Default(),
		clock:         time.Now,
		workers:       cfg.Workers,
		seed:          cfg.Seed,
		publishStates: cfg.EnableCitizenStateMessages,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	s.logger = s.logger.With("component", "simulation")

	start := s.clock()
	if err := s.setup(); err != nil {
		return nil, err
	}
	s.logger.Info("initialization completed",
		"citizens", len(s.citizens),
		"workers", s.workers,
		"hospital", s.city.HospitalArea.String(),
		"elapsed", s.clock().Sub(start))
	return s, nil
}

// Counts returns the counts of the last completed hour.
func (s *Simulation) Counts() events.Counts { return s.counts }

// City returns the current city layout.
func (s *Simulation) City() *layout.City { return s.city }

// Population returns the number of citizens.
func (s *Simulation) Population() int { return len(s.citizens) }

// Citizens returns the citizens as of the last completed hour. The slice
// is owned by the simulation and must not be modified.
func (s *Simulation) Citizens() []agent.Citizen { return s.citizens }

// Cells returns where each citizen stands, indexed like Citizens.
func (s *Simulation) Cells() []geo.Point { return s.cells }
