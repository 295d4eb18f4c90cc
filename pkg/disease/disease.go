// Package disease holds epidemiological parameters and the per-agent
// clinical progression built on them.
package disease

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/episim/pkg/random"
)

// ErrUnknownDisease is returned when a catalog has no entry for a name.
var ErrUnknownDisease = errors.New("unknown disease")

// Disease is the immutable parameter set of one disease. Days are counted
// from the start of infection.
type Disease struct {
	RegularTransmissionStartDay        int     `yaml:"regular_transmission_start_day" json:"regular_transmission_start_day"`
	HighTransmissionStartDay           int     `yaml:"high_transmission_start_day" json:"high_transmission_start_day"`
	LastDay                            int     `yaml:"last_day" json:"last_day"`
	AsymptomaticLastDay                int     `yaml:"asymptomatic_last_day" json:"asymptomatic_last_day"`
	MildInfectedLastDay                int     `yaml:"mild_infected_last_day" json:"mild_infected_last_day"`
	RegularTransmissionRate            float64 `yaml:"regular_transmission_rate" json:"regular_transmission_rate"`
	HighTransmissionRate               float64 `yaml:"high_transmission_rate" json:"high_transmission_rate"`
	DeathRate                          float64 `yaml:"death_rate" json:"death_rate"`
	PercentageAsymptomaticPopulation   float64 `yaml:"percentage_asymptomatic_population" json:"percentage_asymptomatic_population"`
	PercentageSevereInfectedPopulation float64 `yaml:"percentage_severe_infected_population" json:"percentage_severe_infected_population"`
	// ExposedDuration and PreSymptomaticDuration are in hours.
	ExposedDuration        int `yaml:"exposed_duration" json:"exposed_duration"`
	PreSymptomaticDuration int `yaml:"pre_symptomatic_duration" json:"pre_symptomatic_duration"`
}

// CurrentTransmissionRate returns the chance of passing the infection on,
// per neighbour per hour, on the given infection day.
func (d *Disease) CurrentTransmissionRate(day int) float64 {
	switch {
	case d.RegularTransmissionStartDay < day && day <= d.HighTransmissionStartDay:
		return d.RegularTransmissionRate
	case d.HighTransmissionStartDay < day && day <= d.LastDay:
		return d.HighTransmissionRate
	}
	return 0
}

// ToBeHospitalized reports whether the infection has reached its high
// transmission window on the given day.
func (d *Disease) ToBeHospitalized(day int) bool {
	rate := d.CurrentTransmissionRate(day)
	return rate > 0 && rate >= d.HighTransmissionRate
}

// ToBeDeceased draws whether a patient at the end of the disease dies.
func (d *Disease) ToBeDeceased(r random.Source) bool {
	return random.Bernoulli(r, d.DeathRate)
}

// Catalog maps disease names to their parameters.
type Catalog map[string]Disease

// LoadCatalog reads a YAML disease catalog.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading disease catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML disease catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing disease catalog YAML: %w", err)
	}
	return c, nil
}

// Get returns the named disease.
func (c Catalog) Get(name string) (Disease, error) {
	d, ok := c[name]
	if !ok {
		return Disease{}, fmt.Errorf("%w: %q", ErrUnknownDisease, name)
	}
	return d, nil
}

// Names returns the catalog entries in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
