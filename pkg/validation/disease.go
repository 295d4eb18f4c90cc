package validation

import (
	"fmt"

	"github.com/ChicagoDave/episim/pkg/disease"
)

// ValidateDisease checks that a disease's day thresholds are ordered and
// its rates are probabilities.
func ValidateDisease(name string, d disease.Disease) *Report {
	r := NewReport()

	days := []struct {
		field string
		value int
	}{
		{"regular_transmission_start_day", d.RegularTransmissionStartDay},
		{"high_transmission_start_day", d.HighTransmissionStartDay},
		{"last_day", d.LastDay},
	}
	for i := 1; i < len(days); i++ {
		if days[i].value < days[i-1].value {
			r.AddError(Finding{
				Stage:   StageDisease,
				Message: fmt.Sprintf("%s must not come before %s", days[i].field, days[i-1].field),
				Key:     DiseaseKey(name, days[i].field),
				Got:     days[i].value,
				Want:    fmt.Sprintf(">= %d", days[i-1].value),
				Related: DiseaseKey(name, days[i-1].field),
			})
		}
	}
	if d.LastDay <= 0 {
		r.AddError(Finding{
			Stage:   StageDisease,
			Message: "last_day must be greater than 0",
			Key:     DiseaseKey(name, "last_day"),
			Got:     d.LastDay,
			Want:    "> 0",
		})
	}
	for _, f := range []struct {
		field string
		value int
	}{
		{"asymptomatic_last_day", d.AsymptomaticLastDay},
		{"mild_infected_last_day", d.MildInfectedLastDay},
	} {
		if f.value > d.LastDay {
			r.AddWarning(Finding{
				Stage:   StageDisease,
				Message: fmt.Sprintf("%s is after last_day", f.field),
				Key:     DiseaseKey(name, f.field),
				Got:     f.value,
				Want:    fmt.Sprintf("<= %d", d.LastDay),
				Related: DiseaseKey(name, "last_day"),
			})
		}
	}

	for _, p := range []struct {
		field string
		value float64
	}{
		{"regular_transmission_rate", d.RegularTransmissionRate},
		{"high_transmission_rate", d.HighTransmissionRate},
		{"death_rate", d.DeathRate},
		{"percentage_asymptomatic_population", d.PercentageAsymptomaticPopulation},
		{"percentage_severe_infected_population", d.PercentageSevereInfectedPopulation},
	} {
		checkFraction(r, StageDisease, DiseaseKey(name, p.field), p.value)
	}

	if split := d.PercentageAsymptomaticPopulation + d.PercentageSevereInfectedPopulation; split > 1 {
		r.AddError(Finding{
			Stage:   StageDisease,
			Message: fmt.Sprintf("asymptomatic and severe shares exceed 1.0 (got %.4f)", split),
			Key:     DiseaseKey(name, ""),
			Got:     split,
			Want:    "<= 1.0",
			Fixes:   []string{"Lower percentage_severe_infected_population"},
		})
	}
	if d.HighTransmissionRate < d.RegularTransmissionRate {
		r.AddWarning(Finding{
			Stage:   StageDisease,
			Message: "high_transmission_rate is below regular_transmission_rate",
			Key:     DiseaseKey(name, "high_transmission_rate"),
			Got:     d.HighTransmissionRate,
			Related: DiseaseKey(name, "regular_transmission_rate"),
		})
	}
	if d.ExposedDuration < 0 || d.PreSymptomaticDuration < 0 {
		r.AddError(Finding{
			Stage:   StageDisease,
			Message: "durations must not be negative",
			Key:     DiseaseKey(name, ""),
			Want:    "exposed_duration and pre_symptomatic_duration >= 0",
		})
	}

	return r
}
