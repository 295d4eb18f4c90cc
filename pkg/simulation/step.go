package simulation

import (
	"context"
	"fmt"
	"sync"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/random"
)

// throughputEvery is how often, in hours, progress is logged.
const throughputEvery = 100

// snapshot is the read buffer as seen by citizens during an hour.
type snapshot struct {
	grid     *grid.Grid
	citizens []agent.Citizen
}

func (s snapshot) IsPointInGrid(p geo.Point) bool { return s.grid.IsPointInGrid(p) }
func (s snapshot) IsCellVacant(p geo.Point) bool  { return s.grid.IsCellVacant(p) }

func (s snapshot) CitizenAt(p geo.Point) (*agent.Citizen, bool) {
	idx, ok := s.grid.AgentFor(p)
	if !ok {
		return nil, false
	}
	return &s.citizens[idx], true
}

func (s snapshot) Move(from, to geo.Point) geo.Point {
	return s.grid.Destination(from, to)
}

// Run simulates hours 1 to hours-1. It stops early once nobody is
// exposed, infected or hospitalized, or when ctx is cancelled, and
// returns the last hour's counts.
func (s *Simulation) Run(ctx context.Context) (events.Counts, error) {
	defer s.listener.SimulationEnded()

	start := s.clock()
	s.listener.GridUpdated(s.city)
	s.listener.CountsUpdated(s.counts)

	for hour := 1; hour < s.cfg.Hours; hour++ {
		if err := s.Step(ctx, hour); err != nil {
			return s.counts, err
		}
		if s.counts.Active() == 0 {
			s.logger.Info("finished early", "hour", hour, "counts", s.counts.String())
			break
		}
		if hour%throughputEvery == 0 {
			elapsed := s.clock().Sub(start).Seconds()
			if elapsed > 0 {
				s.logger.Info("throughput",
					"hours_per_sec", float64(hour)/elapsed,
					"hour", hour,
					"of", s.cfg.Hours)
			}
		}
	}

	s.logger.Info("simulation ended",
		"hours", s.counts.Hour,
		"elapsed", s.clock().Sub(start),
		"counts", s.counts.String())
	return s.counts, nil
}

// Step advances the simulation by one hour.
func (s *Simulation) Step(ctx context.Context, hour int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.updateCitizens(hour)
	if err := s.commit(hour); err != nil {
		return err
	}
	s.recount(hour)
	if total := s.counts.Total(); total != len(s.next) || s.write.Population() != len(s.next) {
		return fmt.Errorf("hour %d: %d counted, %d on the grid, %d citizens: %w",
			hour, total, s.write.Population(), len(s.next), ErrPopulationNotConserved)
	}
	s.listener.CountsUpdated(s.counts)

	s.interventions.Process(s.counts, s.next, s.city,
		random.ForPhase(s.seed, hour, random.PhaseInterventions), s.listener)

	s.citizens, s.next = s.next, s.citizens
	s.cells, s.nextCells = s.nextCells, s.cells
	s.read, s.write = s.write, s.read
	return nil
}

// updateCitizens runs every citizen's routine on a copy against the read
// buffer. Workers own contiguous ranges of the arena and write only to
// their own slots of next and proposed.
func (s *Simulation) updateCitizens(hour int) {
	snap := snapshot{grid: s.read, citizens: s.citizens}
	n := len(s.citizens)
	workers := min(s.workers, n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(stream *random.Stream, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				stream.Reset(s.seed, hour, i)
				s.next[i] = s.citizens[i]
				s.proposed[i] = s.next[i].PerformOperation(s.cells[i], hour, s.city, snap, stream, &s.disease)
			}
		}(s.streams[w], lo, hi)
	}
	wg.Wait()
}

// commit places citizens into the write buffer in arena order. Proposed
// cells were vacant in the read buffer, so the only contention is between
// citizens heading for the same cell; the later one keeps its old cell,
// which nobody else can have claimed.
func (s *Simulation) commit(hour int) error {
	s.write.Clear()
	for i := range s.next {
		c := &s.next[i]
		cell := s.proposed[i]
		if !s.write.IsCellVacant(cell) {
			cell = s.cells[i]
			c.UndoAdmission(&s.citizens[i])
		}
		if err := s.write.Place(cell, i); err != nil {
			return fmt.Errorf("hour %d: %w", hour, err)
		}
		s.nextCells[i] = cell

		if !s.citizens[i].Health.IsInfected() && c.Health.IsInfected() {
			s.listener.CitizenGotInfected(hour, cell)
		}
		if s.publishStates {
			s.listener.CitizenStateUpdated(hour, c, cell)
		}
	}
	return nil
}

func (s *Simulation) recount(hour int) {
	s.counts.Reset(hour)
	for i := range s.next {
		s.counts.Record(s.next[i].Health.State(), s.next[i].IsHospitalized())
	}
}
