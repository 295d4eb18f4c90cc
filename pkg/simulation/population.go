package simulation

import (
	"fmt"
	"math"
	"os"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/census"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/intervention"
	"github.com/ChicagoDave/episim/pkg/layout"
	"github.com/ChicagoDave/episim/pkg/random"
)

func (s *Simulation) setup() error {
	s.city = layout.Define(s.cfg.GridSize)
	if len(s.city.Houses) == 0 || len(s.city.Offices) == 0 {
		return fmt.Errorf("grid of size %d has %d houses and %d offices: %w",
			s.cfg.GridSize, len(s.city.Houses), len(s.city.Offices), geo.ErrNotEnoughCells)
	}
	r := random.New(s.seed)

	citizens, err := s.generatePopulation(r)
	if err != nil {
		return err
	}
	if len(citizens) == 0 {
		return ErrEmptyPopulation
	}
	if err := agent.SetStartingInfections(citizens, s.cfg.StartingInfections, r); err != nil {
		return err
	}
	if s.cfg.StartingInfections.Total() == 0 {
		s.logger.Warn("simulation configured to start without any infected agents")
	}
	cells, err := placeAtHome(citizens, r)
	if err != nil {
		return err
	}

	n := len(citizens)
	if !s.city.ResizeHospital(n, layout.StaffPercentage, s.cfg.Geography.HospitalBedsPercentage) {
		s.logger.Warn("hospital left at full size",
			"beds", layout.HospitalBeds(n, layout.StaffPercentage, s.cfg.Geography.HospitalBedsPercentage),
			"cells", s.city.HospitalArea.Cells())
	}

	s.interventions = intervention.NewEngine(s.cfg.Interventions, s.logger)
	s.interventions.AssignEssentialWorkers(citizens, r)

	s.read = grid.New(s.city.Bounds())
	s.write = grid.New(s.city.Bounds())
	for i, p := range cells {
		if err := s.read.Place(p, i); err != nil {
			return fmt.Errorf("placing citizens: %w", err)
		}
	}

	s.citizens = citizens
	s.cells = cells
	s.next = make([]agent.Citizen, n)
	s.nextCells = make([]geo.Point, n)
	s.proposed = make([]geo.Point, n)
	s.streams = make([]*random.Stream, s.workers)
	for i := range s.streams {
		s.streams[i] = random.NewStream()
	}
	s.counts = events.AtStart(n, s.cfg.StartingInfections)
	return nil
}

func (s *Simulation) generatePopulation(r random.Source) ([]agent.Citizen, error) {
	pop := s.cfg.Population
	switch {
	case pop.Auto != nil:
		a := pop.Auto
		// Stops are sized for the working commuters with some slack.
		stops := int(math.Ceil(float64(a.NumberOfAgents) * (a.PublicTransportPercentage + 0.1) * (a.WorkingPercentage + 0.1)))
		transport, err := s.city.TransportArea.RandomPoints(stops, r)
		if err != nil {
			return nil, fmt.Errorf("transport locations for %d agents: %w", a.NumberOfAgents, err)
		}
		return agent.Factory(a.NumberOfAgents, s.city.Houses, s.city.Offices, transport,
			a.PublicTransportPercentage, a.WorkingPercentage, r), nil

	case pop.CSV != nil:
		f, err := os.Open(s.cfg.Resolve(pop.CSV.File))
		if err != nil {
			return nil, fmt.Errorf("opening population file: %w", err)
		}
		defer f.Close()
		records, err := agent.ReadRecords(f)
		if err != nil {
			return nil, err
		}
		return agent.FromRecords(records, s.city.Houses, s.city.Offices, layout.HouseCapacity(), r)

	case pop.Census != nil:
		c := pop.Census
		boundaries, err := census.LoadGeography(s.cfg.Resolve(c.GeographyFile))
		if err != nil {
			return nil, err
		}
		table, err := census.LoadTable(s.cfg.Resolve(c.CensusFile))
		if err != nil {
			return nil, err
		}
		areas, err := census.BuildOutputAreas(boundaries, table)
		if err != nil {
			return nil, err
		}
		s.logger.Info("census loaded", "output_areas", len(areas))
		return agent.FromHouseholds(census.HouseholdSizes(areas), s.city.Houses, s.city.Offices,
			layout.HouseCapacity(), c.WorkingPercentage, r)
	}
	return nil, fmt.Errorf("no population source configured")
}

// placeAtHome gives every citizen a distinct starting cell inside its
// home. Houses are filled in the order they first appear in the arena.
func placeAtHome(citizens []agent.Citizen, r random.Source) ([]geo.Point, error) {
	var order []geo.Area
	byHome := make(map[geo.Area][]int)
	for i := range citizens {
		h := citizens[i].Home
		if _, ok := byHome[h]; !ok {
			order = append(order, h)
		}
		byHome[h] = append(byHome[h], i)
	}

	cells := make([]geo.Point, len(citizens))
	for _, home := range order {
		residents := byHome[home]
		pts, err := home.RandomPoints(len(residents), r)
		if err != nil {
			return nil, fmt.Errorf("%d citizens in house %s: %w", len(residents), home, err)
		}
		for k, idx := range residents {
			cells[idx] = pts[k]
		}
	}
	return cells, nil
}
