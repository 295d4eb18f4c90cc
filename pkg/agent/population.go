package agent

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/random"
)

var (
	// ErrTooManyInfections is returned when more agents are seeded than exist.
	ErrTooManyInfections = errors.New("more starting infections than citizens")
	// ErrNegativeInfections is returned when a starting infection count is
	// below zero.
	ErrNegativeInfections = errors.New("negative starting infections")
)

// Factory builds n citizens for an automatically generated population.
// Homes and offices are handed out round robin. Only working citizens can
// use public transport, and only the first len(transport) of them get a
// stop; everyone else commutes from home.
func Factory(n int, homes, offices []geo.Area, transport []geo.Point,
	publicTransportPct, workingPct float64, r random.Source) []Citizen {
	citizens := make([]Citizen, 0, n)
	for i := 0; i < n; i++ {
		working := random.Bernoulli(r, workingPct)
		home := homes[i%len(homes)]
		office := offices[i%len(offices)]

		usesTransport := random.Bernoulli(r, publicTransportPct) && working && i < len(transport)
		stop := home.RandomPoint(r)
		if usesTransport {
			stop = transport[i]
		}
		if !working {
			office = home
		}

		citizens = append(citizens, New(home, office, stop, usesTransport, working, deriveWorkStatus(working, r), r))
	}
	return citizens
}

// Record is one row of a population CSV.
type Record struct {
	Ind             int
	Age             string
	Working         bool
	PublicTransport bool
}

var recordColumns = []string{"ind", "age", "working", "pub_transport"}

// ReadRecords parses a population CSV with the header
// ind,age,working,pub_transport. Booleans are written True or False.
func ReadRecords(in io.Reader) ([]Record, error) {
	cr := csv.NewReader(in)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading population header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range recordColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("population CSV missing column %q", name)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading population line %d: %w", line, err)
		}

		var rec Record
		if rec.Ind, err = strconv.Atoi(row[col["ind"]]); err != nil {
			return nil, fmt.Errorf("population line %d: ind: %w", line, err)
		}
		rec.Age = row[col["age"]]
		if rec.Working, err = parseBool(row[col["working"]]); err != nil {
			return nil, fmt.Errorf("population line %d: working: %w", line, err)
		}
		if rec.PublicTransport, err = parseBool(row[col["pub_transport"]]); err != nil {
			return nil, fmt.Errorf("population line %d: pub_transport: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q, expected True or False", s)
	}
}

// FromRecords builds one citizen per record, cycling through homes and
// offices. Fails with geo.ErrNotEnoughCells when the homes cannot hold
// everyone.
func FromRecords(records []Record, homes, offices []geo.Area, houseCapacity int, r random.Source) ([]Citizen, error) {
	if capacity := houseCapacity * len(homes); len(records) > capacity {
		return nil, fmt.Errorf("%d citizens but %d home cells: %w", len(records), capacity, geo.ErrNotEnoughCells)
	}

	citizens := make([]Citizen, 0, len(records))
	for i, rec := range records {
		home := homes[i%len(homes)]
		office := offices[i%len(offices)]
		citizens = append(citizens, New(home, office, home.RandomPoint(r), rec.PublicTransport,
			rec.Working, deriveWorkStatus(rec.Working, r), r))
	}
	return citizens, nil
}

// FromHouseholds builds the members of each household into a house of
// their own. Fails with geo.ErrNotEnoughCells when there are more
// households than houses or a household does not fit in one.
func FromHouseholds(sizes []int, homes, offices []geo.Area, houseCapacity int,
	workingPct float64, r random.Source) ([]Citizen, error) {
	if len(sizes) > len(homes) {
		return nil, fmt.Errorf("%d households but %d houses: %w", len(sizes), len(homes), geo.ErrNotEnoughCells)
	}

	var citizens []Citizen
	worker := 0
	for h, size := range sizes {
		if size > houseCapacity {
			return nil, fmt.Errorf("household %d has %d members, house holds %d: %w",
				h, size, houseCapacity, geo.ErrNotEnoughCells)
		}
		home := homes[h]
		for m := 0; m < size; m++ {
			working := random.Bernoulli(r, workingPct)
			office := home
			if working {
				office = offices[worker%len(offices)]
				worker++
			}
			citizens = append(citizens, New(home, office, home.RandomPoint(r), false,
				working, deriveWorkStatus(working, r), r))
		}
	}
	return citizens, nil
}

// SetStartingInfections seeds a random subset of citizens with the
// configured exposures and infections. Every count must be zero or more.
func SetStartingInfections(citizens []Citizen, start config.StartingInfections, r random.Source) error {
	for _, f := range []struct {
		name string
		n    int
	}{
		{"exposed", start.Exposed},
		{"infected_mild_asymptomatic", start.InfectedMildAsymptomatic},
		{"infected_mild_symptomatic", start.InfectedMildSymptomatic},
		{"infected_severe", start.InfectedSevere},
	} {
		if f.n < 0 {
			return fmt.Errorf("%s is %d: %w", f.name, f.n, ErrNegativeInfections)
		}
	}
	total := start.Total()
	if total > len(citizens) {
		return fmt.Errorf("%d to infect, %d citizens: %w", total, len(citizens), ErrTooManyInfections)
	}
	if total == 0 {
		return nil
	}

	order := make([]int, len(citizens))
	for i := range order {
		order[i] = i
	}
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	next := 0
	seed := func(n int, apply func(*Citizen)) {
		for ; n > 0; n-- {
			apply(&citizens[order[next]])
			next++
		}
	}
	seed(start.Exposed, func(c *Citizen) { c.Health.Expose(0) })
	seed(start.InfectedMildAsymptomatic, func(c *Citizen) { c.Health.SetMildAsymptomatic() })
	seed(start.InfectedMildSymptomatic, func(c *Citizen) { c.Health.SetMildSymptomatic() })
	seed(start.InfectedSevere, func(c *Citizen) { c.Health.SetSevere() })
	return nil
}
