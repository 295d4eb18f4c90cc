package validation

import (
	"fmt"

	"github.com/ChicagoDave/episim/pkg/config"
)

// ValidateConfig checks the fields of a parsed simulation.yaml before the
// population is generated.
func ValidateConfig(c *config.Config) *Report {
	r := NewReport()

	validateRun(c, r)
	validatePopulation(c, r)
	validateStartingInfections(c, r)
	validateGeography(c, r)
	validateInterventions(c, r)

	return r
}

func validateRun(c *config.Config, r *Report) {
	if c.Disease == "" {
		r.AddError(Finding{
			Stage:   StageConfig,
			Message: "disease must name an entry of the disease catalog",
			Key:     "disease",
			Want:    "non-empty",
		})
	}
	if c.GridSize <= 0 {
		r.AddError(Finding{
			Stage:   StageConfig,
			Message: "grid_size must be greater than 0",
			Key:     "grid_size",
			Got:     c.GridSize,
			Want:    "> 0",
		})
	}
	if c.Hours <= 0 {
		r.AddError(Finding{
			Stage:   StageConfig,
			Message: "hours must be greater than 0",
			Key:     "hours",
			Got:     c.Hours,
			Want:    "> 0",
		})
	}
	if c.Workers < 0 {
		r.AddError(Finding{
			Stage:   StageConfig,
			Message: "workers must not be negative",
			Key:     "workers",
			Got:     c.Workers,
			Want:    ">= 0 (0 uses every CPU)",
		})
	}
}

func validatePopulation(c *config.Config, r *Report) {
	p := c.Population
	if n := p.Sources(); n != 1 {
		r.AddError(Finding{
			Stage:   StageConfig,
			Message: fmt.Sprintf("population must have exactly one source (got %d)", n),
			Key:     "population",
			Got:     n,
			Want:    "one of auto, csv, census",
		})
		return
	}

	switch {
	case p.Auto != nil:
		if p.Auto.NumberOfAgents <= 0 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "number_of_agents must be greater than 0",
				Key:     "population.auto.number_of_agents",
				Got:     p.Auto.NumberOfAgents,
				Want:    "> 0",
			})
		}
		checkFraction(r, StageConfig, "population.auto.public_transport_percentage", p.Auto.PublicTransportPercentage)
		checkFraction(r, StageConfig, "population.auto.working_percentage", p.Auto.WorkingPercentage)
	case p.CSV != nil:
		if p.CSV.File == "" {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "csv population needs a file",
				Key:     "population.csv.file",
				Want:    "path to a CSV file",
			})
		}
	case p.Census != nil:
		if p.Census.GeographyFile == "" || p.Census.CensusFile == "" {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "census population needs both geography_file and census_file",
				Key:     "population.census",
				Want:    "two file paths",
			})
		}
		checkFraction(r, StageConfig, "population.census.working_percentage", p.Census.WorkingPercentage)
	}
}

func validateStartingInfections(c *config.Config, r *Report) {
	s := c.StartingInfections
	counts := []struct {
		path  string
		value int
	}{
		{"starting_infections.infected_mild_asymptomatic", s.InfectedMildAsymptomatic},
		{"starting_infections.infected_mild_symptomatic", s.InfectedMildSymptomatic},
		{"starting_infections.infected_severe", s.InfectedSevere},
		{"starting_infections.exposed", s.Exposed},
	}
	for _, cnt := range counts {
		if cnt.value < 0 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: fmt.Sprintf("%s must not be negative", cnt.path),
				Key:     cnt.path,
				Got:     cnt.value,
				Want:    ">= 0",
			})
		}
	}
	if s.Total() == 0 {
		r.AddWarning(Finding{
			Stage:   StageConfig,
			Message: "no starting infections, the run ends after the first hour",
			Key:     "starting_infections",
			Fixes:   []string{"Seed at least one exposed or infected agent"},
		})
	}
}

func validateGeography(c *config.Config, r *Report) {
	checkFraction(r, StageConfig, "geography.hospital_beds_percentage", c.Geography.HospitalBedsPercentage)
}

func validateInterventions(c *config.Config, r *Report) {
	iv := c.Interventions
	for i, v := range iv.Vaccinate {
		path := fmt.Sprintf("interventions.vaccinate[%d]", i)
		if v.AtHour < 1 || (c.Hours > 0 && v.AtHour >= c.Hours) {
			r.AddWarning(Finding{
				Stage:   StageConfig,
				Message: "vaccination hour falls outside the simulated hours",
				Key:     path + ".at_hour",
				Got:     v.AtHour,
				Want:    fmt.Sprintf("1..%d", c.Hours-1),
			})
		}
		checkFraction(r, StageConfig, path+".percent", v.Percent)
	}

	if l := iv.Lockdown; l != nil {
		if l.AtNumberOfInfections <= 0 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "lockdown threshold must be greater than 0",
				Key:     "interventions.lockdown.at_number_of_infections",
				Got:     l.AtNumberOfInfections,
				Want:    "> 0",
			})
		}
		checkFraction(r, StageConfig, "interventions.lockdown.essential_workers_population", l.EssentialWorkersPopulation)
		if l.LiftAfterDays <= 0 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "lift_after_days must be greater than 0",
				Key:     "interventions.lockdown.lift_after_days",
				Got:     l.LiftAfterDays,
				Want:    "> 0",
			})
		}
		if l.CooldownDays < 0 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "cooldown_days must not be negative",
				Key:     "interventions.lockdown.cooldown_days",
				Got:     l.CooldownDays,
				Want:    ">= 0",
			})
		}
	}

	if h := iv.BuildNewHospital; h != nil {
		if h.CapacityFraction <= 0 || h.CapacityFraction > 1 {
			r.AddError(Finding{
				Stage:   StageConfig,
				Message: "capacity_fraction must be in (0, 1]",
				Key:     "interventions.build_new_hospital.capacity_fraction",
				Got:     h.CapacityFraction,
				Want:    "(0, 1]",
			})
		}
	}
}

func checkFraction(r *Report, stage Stage, path string, v float64) {
	if v < 0 || v > 1 {
		r.AddError(Finding{
			Stage:   stage,
			Message: fmt.Sprintf("%s must be a fraction", path),
			Key:     path,
			Got:     v,
			Want:    "0.0 - 1.0",
		})
	}
}
