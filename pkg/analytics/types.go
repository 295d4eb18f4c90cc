package analytics

import "github.com/ChicagoDave/episim/pkg/events"

// Peak is the highest value of a count and the first hour it was reached.
type Peak struct {
	Value int `json:"value"`
	Hour  int `json:"hour"`
}

// InterventionCount is how often one intervention fired.
type InterventionCount struct {
	Name      string `json:"intervention"`
	Count     int    `json:"count"`
	FirstHour int    `json:"first_hour"`
}

// Summary condenses a run into its headline figures.
type Summary struct {
	Hours      int `json:"hours"`
	Days       int `json:"days"`
	Population int `json:"population"`

	PeakActive       Peak `json:"peak_active"`
	PeakInfected     Peak `json:"peak_infected"`
	PeakHospitalized Peak `json:"peak_hospitalized"`

	// EverInfected counts every citizen that left the susceptible state.
	EverInfected     int     `json:"ever_infected"`
	AttackRate       float64 `json:"attack_rate"`
	CaseFatalityRate float64 `json:"case_fatality_rate"`

	Final         events.Counts       `json:"final"`
	Interventions []InterventionCount `json:"interventions"`
}
