package simulation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/layout"
	"github.com/ChicagoDave/episim/pkg/listeners"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func covid(t *testing.T) disease.Disease {
	t.Helper()
	catalog, err := disease.LoadCatalog("../../config/diseases.yaml")
	require.NoError(t, err)
	d, err := catalog.Get("covid")
	require.NoError(t, err)
	return d
}

func testConfig() *config.Config {
	return &config.Config{
		Disease:  "covid",
		GridSize: 100,
		Hours:    200,
		Seed:     42,
		Workers:  2,
		Population: config.Population{Auto: &config.AutoPopulation{
			NumberOfAgents:            200,
			PublicTransportPercentage: 0.2,
			WorkingPercentage:         0.7,
		}},
		StartingInfections: config.StartingInfections{InfectedMildSymptomatic: 2, Exposed: 3},
		Geography:          config.GeographyParameters{HospitalBedsPercentage: 0.05},
	}
}

func newSim(t *testing.T, cfg *config.Config, opts ...Option) *Simulation {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(cfg, covid(t), opts...)
	require.NoError(t, err)
	return s
}

// recorder remembers which notifications it received.
type recorder struct {
	listeners.History
	grids  int
	states int
	ended  bool
}

func (r *recorder) GridUpdated(*layout.City) { r.grids++ }
func (r *recorder) CitizenStateUpdated(int, *agent.Citizen, geo.Point) {
	r.states++
}
func (r *recorder) SimulationEnded() { r.ended = true }

func assertOneCitizenPerCell(t *testing.T, s *Simulation) {
	t.Helper()
	seen := make(map[geo.Point]int, len(s.Cells()))
	for i, p := range s.Cells() {
		prev, dup := seen[p]
		require.Falsef(t, dup, "citizens %d and %d share %s", prev, i, p)
		seen[p] = i
		assert.True(t, s.City().Bounds().Contains(p))
	}
}

func TestNewPlacesCitizensAtHome(t *testing.T) {
	s := newSim(t, testConfig())

	require.Equal(t, 200, s.Population())
	for i, c := range s.Citizens() {
		assert.Truef(t, c.Home.Contains(s.Cells()[i]), "citizen %d at %s, home %s", i, s.Cells()[i], c.Home)
	}
	assertOneCitizenPerCell(t, s)

	counts := s.Counts()
	assert.Equal(t, 0, counts.Hour)
	assert.Equal(t, uint32(195), counts.Susceptible)
	assert.Equal(t, uint32(3), counts.Exposed)
	assert.Equal(t, uint32(2), counts.Infected)
}

func TestNewShrinksHospital(t *testing.T) {
	s := newSim(t, testConfig())
	// 200 * (0.05 + 0.002) needs 11 beds: two rows of a 10 wide strip.
	assert.Equal(t, 20, s.City().HospitalArea.Cells())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"too many infections", func(c *config.Config) {
			c.StartingInfections = config.StartingInfections{Exposed: 201}
		}, agent.ErrTooManyInfections},
		{"negative infections", func(c *config.Config) {
			c.StartingInfections = config.StartingInfections{Exposed: 10, InfectedSevere: -3}
		}, agent.ErrNegativeInfections},
		{"negative infections summing to zero", func(c *config.Config) {
			c.StartingInfections = config.StartingInfections{Exposed: 2, InfectedMildAsymptomatic: -2}
		}, agent.ErrNegativeInfections},
		{"no offices", func(c *config.Config) { c.GridSize = 20 }, geo.ErrNotEnoughCells},
		{"houses overflow", func(c *config.Config) {
			c.Population.Auto.NumberOfAgents = 5000
			c.Population.Auto.PublicTransportPercentage = 0
		}, geo.ErrNotEnoughCells},
		{"empty population", func(c *config.Config) {
			c.Population.Auto.NumberOfAgents = 0
			c.StartingInfections = config.StartingInfections{}
		}, ErrEmptyPopulation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := New(cfg, covid(t), WithLogger(quietLogger()))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewWarnsWithoutInfections(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.StartingInfections = config.StartingInfections{}

	_, err := New(cfg, covid(t), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "without any infected agents")
}

func TestStepConservesPopulation(t *testing.T) {
	s := newSim(t, testConfig())
	ctx := context.Background()

	for hour := 1; hour <= 48; hour++ {
		require.NoError(t, s.Step(ctx, hour))
		counts := s.Counts()
		require.Equal(t, hour, counts.Hour)
		require.Equal(t, 200, counts.Total())
		assertOneCitizenPerCell(t, s)
	}
}

func TestCitizensSleepAtHome(t *testing.T) {
	s := newSim(t, testConfig())
	ctx := context.Background()
	for hour := 1; hour <= agent.SleepStartTime+agent.HoursInADay; hour++ {
		require.NoError(t, s.Step(ctx, hour))
	}
	for i, c := range s.Citizens() {
		if c.IsHospitalized() || c.IsHospitalStaff() {
			continue
		}
		assert.Equalf(t, c.Home, c.CurrentArea(), "citizen %d", i)
	}
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	one := newSim(t, testConfig(), WithWorkers(1))
	four := newSim(t, testConfig(), WithWorkers(4))

	for hour := 1; hour <= 72; hour++ {
		require.NoError(t, one.Step(ctx, hour))
		require.NoError(t, four.Step(ctx, hour))
		require.Equalf(t, one.Counts(), four.Counts(), "hour %d", hour)
	}
	assert.Equal(t, one.Cells(), four.Cells())
}

func TestSeedChangesRun(t *testing.T) {
	a := newSim(t, testConfig())
	b := newSim(t, testConfig(), WithSeed(43))
	assert.NotEqual(t, a.Cells(), b.Cells())
}

func TestRunStopsWithoutInfections(t *testing.T) {
	cfg := testConfig()
	cfg.StartingInfections = config.StartingInfections{}
	rec := &recorder{}
	s := newSim(t, cfg, WithListener(rec))

	counts, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Hour)
	assert.Equal(t, uint32(200), counts.Susceptible)
	assert.True(t, rec.ended)
	assert.Equal(t, 1, rec.grids)
	// Hour zero and hour one.
	assert.Len(t, rec.Counts, 2)
}

func TestRunCancelled(t *testing.T) {
	rec := &recorder{}
	s := newSim(t, testConfig(), WithListener(rec))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, rec.ended)
}

func TestRunCompletes(t *testing.T) {
	cfg := testConfig()
	cfg.Hours = 100
	rec := &recorder{}
	s := newSim(t, cfg, WithListener(rec))

	counts, err := s.Run(context.Background())
	require.NoError(t, err)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, counts, last)
	assert.LessOrEqual(t, counts.Hour, 99)
	for _, c := range rec.Counts {
		assert.Equal(t, 200, c.Total())
	}
}

func TestHospitalExpansionDuringRun(t *testing.T) {
	// Seeded severe cases reach their high transmission window, and so the
	// hospital, at the first midnight.
	d := covid(t)
	d.RegularTransmissionStartDay = -10
	d.HighTransmissionStartDay = -5

	cfg := testConfig()
	cfg.Hours = 48
	cfg.StartingInfections = config.StartingInfections{InfectedSevere: 2}
	cfg.Interventions.BuildNewHospital = &config.BuildNewHospitalConfig{CapacityFraction: 0.05}

	rec := &recorder{}
	s, err := New(cfg, d, WithLogger(quietLogger()), WithListener(rec))
	require.NoError(t, err)
	require.Equal(t, 20, s.City().HospitalArea.Cells())

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.Interventions, 1)
	got := rec.Interventions[0]
	assert.Equal(t, events.HospitalExpansion, got.Name)
	assert.Equal(t, agent.HoursInADay, got.Hour)
	assert.Equal(t, 2, rec.grids, "initial grid and the expanded hospital")

	city := s.City()
	assert.Equal(t, geo.NewArea(geo.Pt(70, 0), geo.Pt(99, 99)), city.HospitalArea)
	assert.Equal(t, city.HospitalArea, got.Detail["hospital_area"])
	assert.True(t, city.Bounds().Contains(city.HospitalArea.Start))
	assert.True(t, city.Bounds().Contains(city.HospitalArea.End))
	assert.True(t, s.read.IsPointInGrid(city.HospitalArea.End))
	assert.True(t, s.write.IsPointInGrid(city.HospitalArea.End))

	assertOneCitizenPerCell(t, s)
	hospitalized := 0
	for i, c := range s.Citizens() {
		if c.IsHospitalized() {
			hospitalized++
			assert.Truef(t, city.HospitalArea.Contains(s.Cells()[i]), "patient %d at %s", i, s.Cells()[i])
		}
	}
	assert.Positive(t, hospitalized)
}

func TestCitizenStates(t *testing.T) {
	rec := &recorder{}
	s := newSim(t, testConfig(), WithListener(rec), WithCitizenStates(true))
	require.NoError(t, s.Step(context.Background(), 1))
	assert.Equal(t, 200, rec.states)

	rec = &recorder{}
	s = newSim(t, testConfig(), WithListener(rec))
	require.NoError(t, s.Step(context.Background(), 1))
	assert.Zero(t, rec.states)
}

func TestLockdownIsolatesCitizens(t *testing.T) {
	cfg := testConfig()
	cfg.StartingInfections = config.StartingInfections{InfectedMildAsymptomatic: 3}
	cfg.Interventions.Lockdown = &config.LockdownConfig{
		AtNumberOfInfections: 1,
		LiftAfterDays:        21,
	}
	rec := &recorder{}
	s := newSim(t, cfg, WithListener(rec))

	require.NoError(t, s.Step(context.Background(), 1))
	require.Len(t, rec.Interventions, 1)
	assert.Equal(t, events.Lockdown, rec.Interventions[0].Name)
	assert.Equal(t, "locked_down", rec.Interventions[0].Detail["status"])
	for i, c := range s.Citizens() {
		assert.Truef(t, c.IsIsolated(), "citizen %d", i)
	}
}

func TestCSVPopulation(t *testing.T) {
	dir := t.TempDir()
	data := "ind,age,working,pub_transport\n" +
		"1,20-29,True,False\n" +
		"2,30-39,False,False\n" +
		"3,60-69,True,True\n" +
		"4,0-9,False,False\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.csv"), []byte(data), 0o644))

	cfg := testConfig()
	cfg.Dir = dir
	cfg.Population = config.Population{CSV: &config.CSVPopulation{File: "people.csv"}}
	cfg.StartingInfections = config.StartingInfections{Exposed: 1}
	s := newSim(t, cfg)

	require.Equal(t, 4, s.Population())
	assert.True(t, s.Citizens()[0].Working)
	assert.False(t, s.Citizens()[1].Working)
	assert.True(t, s.Citizens()[2].UsesPublicTransport)
	assertOneCitizenPerCell(t, s)
}

func TestCensusPopulation(t *testing.T) {
	cfg, err := config.LoadProject("../../examples/census-sim")
	require.NoError(t, err)
	cfg.Hours = 100
	catalog, err := disease.LoadCatalog(cfg.Resolve(cfg.DiseaseFile))
	require.NoError(t, err)
	d, err := catalog.Get(cfg.Disease)
	require.NoError(t, err)

	s, err := New(cfg, d, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Equal(t, 21, s.Population())

	// Seven households of at most four, one house each.
	perHouse := make(map[geo.Area]int)
	for _, c := range s.Citizens() {
		perHouse[c.Home]++
	}
	assert.Len(t, perHouse, 7)
	for _, n := range perHouse {
		assert.LessOrEqual(t, n, 4)
	}

	counts, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, counts.Total())
}
