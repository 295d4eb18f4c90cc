package intervention

import "github.com/ChicagoDave/episim/pkg/config"

// Vaccination vaccinates a share of the susceptible population at
// scheduled hours.
type Vaccination struct {
	schedule map[int]float64
}

// NewVaccination builds the schedule. A later entry for the same hour
// replaces an earlier one.
func NewVaccination(entries []config.VaccinateConfig) *Vaccination {
	v := &Vaccination{schedule: make(map[int]float64, len(entries))}
	for _, e := range entries {
		v.schedule[e.AtHour] = e.Percent
	}
	return v
}

// PercentageAt returns the share to vaccinate at hour, if any.
func (v *Vaccination) PercentageAt(hour int) (float64, bool) {
	p, ok := v.schedule[hour]
	return p, ok
}
