// Package events defines what the simulation reports to its listeners:
// hourly state counts and intervention descriptors.
package events

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/disease"
)

// Counts tallies the population by clinical state for one hour.
// Hospitalized agents are infected agents counted apart.
type Counts struct {
	Hour         int    `json:"hour"`
	Susceptible  uint32 `json:"susceptible"`
	Exposed      uint32 `json:"exposed"`
	Infected     uint32 `json:"infected"`
	Hospitalized uint32 `json:"hospitalized"`
	Recovered    uint32 `json:"recovered"`
	Deceased     uint32 `json:"deceased"`
}

// AtStart returns the hour 0 counts for a freshly seeded population.
func AtStart(population int, start config.StartingInfections) Counts {
	c := Counts{}
	c.UpdateSusceptible(population - start.Total())
	c.UpdateExposed(start.Exposed)
	c.UpdateInfected(start.TotalInfected())
	return c
}

// Header is the CSV column order of Row.
var Header = []string{"hour", "susceptible", "exposed", "infected", "hospitalized", "recovered", "deceased"}

// Row renders the counts in Header order.
func (c Counts) Row() []string {
	return []string{
		fmt.Sprint(c.Hour),
		fmt.Sprint(c.Susceptible),
		fmt.Sprint(c.Exposed),
		fmt.Sprint(c.Infected),
		fmt.Sprint(c.Hospitalized),
		fmt.Sprint(c.Recovered),
		fmt.Sprint(c.Deceased),
	}
}

// Total is the population covered by the counts.
func (c Counts) Total() int {
	return int(c.Susceptible) + int(c.Exposed) + int(c.Infected) +
		int(c.Hospitalized) + int(c.Recovered) + int(c.Deceased)
}

// Active is the number of agents still carrying the disease.
func (c Counts) Active() int {
	return int(c.Exposed) + int(c.Infected) + int(c.Hospitalized)
}

// Reset zeroes every tally and moves to the given hour.
func (c *Counts) Reset(hour int) {
	*c = Counts{Hour: hour}
}

// Record adds one agent in the given state.
func (c *Counts) Record(state disease.State, hospitalized bool) {
	switch state {
	case disease.Susceptible:
		c.UpdateSusceptible(1)
	case disease.Exposed:
		c.UpdateExposed(1)
	case disease.Infected:
		if hospitalized {
			c.UpdateHospitalized(1)
		} else {
			c.UpdateInfected(1)
		}
	case disease.Recovered:
		c.UpdateRecovered(1)
	case disease.Deceased:
		c.UpdateDeceased(1)
	}
}

func (c *Counts) UpdateSusceptible(delta int)  { c.Susceptible = apply("susceptible", c.Susceptible, delta) }
func (c *Counts) UpdateExposed(delta int)      { c.Exposed = apply("exposed", c.Exposed, delta) }
func (c *Counts) UpdateInfected(delta int)     { c.Infected = apply("infected", c.Infected, delta) }
func (c *Counts) UpdateHospitalized(delta int) { c.Hospitalized = apply("hospitalized", c.Hospitalized, delta) }
func (c *Counts) UpdateRecovered(delta int)    { c.Recovered = apply("recovered", c.Recovered, delta) }
func (c *Counts) UpdateDeceased(delta int)     { c.Deceased = apply("deceased", c.Deceased, delta) }

// apply adds delta to a tally. Going below zero or past the tally's range
// means the bookkeeping is broken, so it panics.
func apply(field string, v uint32, delta int) uint32 {
	n := int64(v) + int64(delta)
	if n < 0 || n > math.MaxUint32 {
		panic(fmt.Sprintf("events: %s count out of range: %d %+d", field, v, delta))
	}
	return uint32(n)
}

func (c Counts) String() string {
	return fmt.Sprintf("hour %d: S=%d E=%d I=%d H=%d R=%d D=%d",
		c.Hour, c.Susceptible, c.Exposed, c.Infected, c.Hospitalized, c.Recovered, c.Deceased)
}
