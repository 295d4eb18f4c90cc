package config

// Config is the top-level description of one simulation run.
type Config struct {
	Disease                    string              `yaml:"disease" json:"disease"`
	DiseaseFile                string              `yaml:"disease_file" json:"disease_file"`
	GridSize                   int                 `yaml:"grid_size" json:"grid_size"`
	Hours                      int                 `yaml:"hours" json:"hours"`
	Seed                       uint64              `yaml:"seed" json:"seed"`
	Workers                    int                 `yaml:"workers" json:"workers"`
	EnableCitizenStateMessages bool                `yaml:"enable_citizen_state_messages" json:"enable_citizen_state_messages"`
	OutputFile                 string              `yaml:"output_file" json:"output_file"`
	Population                 Population          `yaml:"population" json:"population"`
	StartingInfections         StartingInfections  `yaml:"starting_infections" json:"starting_infections"`
	Geography                  GeographyParameters `yaml:"geography" json:"geography"`
	Interventions              Interventions       `yaml:"interventions" json:"interventions"`

	// Dir is the directory relative file references are resolved against.
	Dir string `yaml:"-" json:"-"`
}

// Population selects how agents are generated. Exactly one source is set.
type Population struct {
	Auto   *AutoPopulation   `yaml:"auto,omitempty" json:"auto,omitempty"`
	CSV    *CSVPopulation    `yaml:"csv,omitempty" json:"csv,omitempty"`
	Census *CensusPopulation `yaml:"census,omitempty" json:"census,omitempty"`
}

// Sources returns the number of population sources configured.
func (p Population) Sources() int {
	n := 0
	if p.Auto != nil {
		n++
	}
	if p.CSV != nil {
		n++
	}
	if p.Census != nil {
		n++
	}
	return n
}

// AutoPopulation generates agents from percentages.
type AutoPopulation struct {
	NumberOfAgents            int     `yaml:"number_of_agents" json:"number_of_agents"`
	PublicTransportPercentage float64 `yaml:"public_transport_percentage" json:"public_transport_percentage"`
	WorkingPercentage         float64 `yaml:"working_percentage" json:"working_percentage"`
}

// CSVPopulation reads one agent per CSV row.
type CSVPopulation struct {
	File string `yaml:"file" json:"file"`
}

// CensusPopulation builds households from census output areas.
type CensusPopulation struct {
	GeographyFile     string  `yaml:"geography_file" json:"geography_file"`
	CensusFile        string  `yaml:"census_file" json:"census_file"`
	WorkingPercentage float64 `yaml:"working_percentage" json:"working_percentage"`
}

// StartingInfections is the number of agents seeded in each state at hour 0.
type StartingInfections struct {
	InfectedMildAsymptomatic int `yaml:"infected_mild_asymptomatic" json:"infected_mild_asymptomatic"`
	InfectedMildSymptomatic  int `yaml:"infected_mild_symptomatic" json:"infected_mild_symptomatic"`
	InfectedSevere           int `yaml:"infected_severe" json:"infected_severe"`
	Exposed                  int `yaml:"exposed" json:"exposed"`
}

// Total returns every seeded agent.
func (s StartingInfections) Total() int {
	return s.TotalInfected() + s.Exposed
}

// TotalInfected returns the seeded agents that start infected.
func (s StartingInfections) TotalInfected() int {
	return s.InfectedMildAsymptomatic + s.InfectedMildSymptomatic + s.InfectedSevere
}

// GeographyParameters tunes the city layout.
type GeographyParameters struct {
	HospitalBedsPercentage float64 `yaml:"hospital_beds_percentage" json:"hospital_beds_percentage"`
}

// Interventions configures the policy responses. Absent entries are disabled.
type Interventions struct {
	Vaccinate        []VaccinateConfig       `yaml:"vaccinate,omitempty" json:"vaccinate,omitempty"`
	Lockdown         *LockdownConfig         `yaml:"lockdown,omitempty" json:"lockdown,omitempty"`
	BuildNewHospital *BuildNewHospitalConfig `yaml:"build_new_hospital,omitempty" json:"build_new_hospital,omitempty"`
}

type VaccinateConfig struct {
	AtHour  int     `yaml:"at_hour" json:"at_hour"`
	Percent float64 `yaml:"percent" json:"percent"`
}

type LockdownConfig struct {
	AtNumberOfInfections       int     `yaml:"at_number_of_infections" json:"at_number_of_infections"`
	EssentialWorkersPopulation float64 `yaml:"essential_workers_population" json:"essential_workers_population"`
	LiftAfterDays              int     `yaml:"lift_after_days" json:"lift_after_days"`
	CooldownDays               int     `yaml:"cooldown_days" json:"cooldown_days"`
}

type BuildNewHospitalConfig struct {
	CapacityFraction float64 `yaml:"capacity_fraction" json:"capacity_fraction"`
}
