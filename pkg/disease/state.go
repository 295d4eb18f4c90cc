package disease

import (
	"math"

	"github.com/ChicagoDave/episim/pkg/random"
)

// State is the top-level clinical state of an agent.
type State uint8

const (
	Susceptible State = iota
	Exposed
	Infected
	Recovered
	Deceased
)

func (s State) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Exposed:
		return "exposed"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	case Deceased:
		return "deceased"
	}
	return "unknown"
}

// Severity is how an infection presents.
type Severity uint8

const (
	Asymptomatic Severity = iota
	MildSymptomatic
	Severe
)

func (s Severity) String() string {
	switch s {
	case Asymptomatic:
		return "asymptomatic"
	case MildSymptomatic:
		return "mild"
	case Severe:
		return "severe"
	}
	return "unknown"
}

// Outcome is the result of an end-of-day decease check.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeDeceased
	OutcomeRecovered
)

// StateMachine tracks one agent's progression through the disease.
// The zero value is a susceptible agent.
//
// Fields other than state are only meaningful in the variant that owns them:
// exposedAt in Exposed; severity, infectionDay and the pre-symptomatic onset
// in Infected.
type StateMachine struct {
	state          State
	exposedAt      int
	severity       Severity
	preSymptomatic bool
	onsetAt        int
	infectionDay   int
}

// State returns the current top-level state.
func (m *StateMachine) State() State { return m.state }

// Severity returns the presentation of a current infection.
func (m *StateMachine) Severity() Severity { return m.severity }

// InfectionDay returns the number of days since infection.
func (m *StateMachine) InfectionDay() int { return m.infectionDay }

// ExposedAt returns the hour of exposure.
func (m *StateMachine) ExposedAt() int { return m.exposedAt }

// IsSusceptible reports whether the agent has never been exposed.
func (m *StateMachine) IsSusceptible() bool { return m.state == Susceptible }

// IsExposed reports whether the agent carries the disease without being
// infectious yet.
func (m *StateMachine) IsExposed() bool { return m.state == Exposed }

// IsInfected reports a current infection of any severity.
func (m *StateMachine) IsInfected() bool { return m.state == Infected }

// IsRecovered reports whether an infection ended in recovery.
func (m *StateMachine) IsRecovered() bool { return m.state == Recovered }

// IsDeceased reports whether an infection ended in death.
func (m *StateMachine) IsDeceased() bool { return m.state == Deceased }

// IsPreSymptomatic reports an infection whose symptoms have not presented yet.
func (m *StateMachine) IsPreSymptomatic() bool {
	return m.state == Infected && m.preSymptomatic
}

// IsSymptomatic reports an infection with presented symptoms.
func (m *StateMachine) IsSymptomatic() bool {
	return m.state == Infected && !m.preSymptomatic && m.severity != Asymptomatic
}

// IsMildAsymptomatic reports an infection that never presents symptoms.
func (m *StateMachine) IsMildAsymptomatic() bool {
	return m.state == Infected && m.severity == Asymptomatic
}

// IsMildSymptomatic reports a mild infection, whether or not its symptoms
// have presented yet.
func (m *StateMachine) IsMildSymptomatic() bool {
	return m.state == Infected && m.severity == MildSymptomatic
}

// IsInfectedSevere reports a severe infection, the only kind that is
// admitted to hospital.
func (m *StateMachine) IsInfectedSevere() bool {
	return m.state == Infected && m.severity == Severe
}

// Expose moves a susceptible agent to Exposed at the given hour.
func (m *StateMachine) Expose(hour int) {
	if m.state != Susceptible {
		return
	}
	m.state = Exposed
	m.exposedAt = hour
}

// Infect turns an exposure into an infection once the exposed duration has
// elapsed. Asymptomatic cases are drawn here; symptomatic cases start
// pre-symptomatic. Reports whether the agent became infected.
func (m *StateMachine) Infect(r random.Source, hour int, d *Disease) bool {
	if m.state != Exposed || hour-m.exposedAt < d.ExposedDuration {
		return false
	}
	m.state = Infected
	m.infectionDay = 0
	if random.Bernoulli(r, d.PercentageAsymptomaticPopulation) {
		m.severity = Asymptomatic
		return true
	}
	m.severity = MildSymptomatic
	m.preSymptomatic = true
	m.onsetAt = hour
	if d.PreSymptomaticDuration <= 0 {
		m.presentSymptoms(r, d)
	}
	return true
}

// ChangeInfectionSeverity presents the symptoms of a pre-symptomatic
// infection once the pre-symptomatic duration has elapsed, escalating it to
// Severe with the disease's severe share of symptomatic cases.
func (m *StateMachine) ChangeInfectionSeverity(hour int, r random.Source, d *Disease) {
	if !m.IsPreSymptomatic() || hour-m.onsetAt < d.PreSymptomaticDuration {
		return
	}
	m.presentSymptoms(r, d)
}

func (m *StateMachine) presentSymptoms(r random.Source, d *Disease) {
	m.preSymptomatic = false
	m.severity = MildSymptomatic
	if random.Bernoulli(r, severeShareOfSymptomatic(d)) {
		m.severity = Severe
	}
}

// severeShareOfSymptomatic converts the population-wide severe fraction
// into a probability conditional on being symptomatic.
func severeShareOfSymptomatic(d *Disease) float64 {
	symptomatic := 1 - d.PercentageAsymptomaticPopulation
	if symptomatic <= 0 {
		return 0
	}
	return math.Min(1, d.PercentageSevereInfectedPopulation/symptomatic)
}

// Hospitalize reports whether a severe infection needs a hospital bed today.
func (m *StateMachine) Hospitalize(d *Disease, immunity int) bool {
	return m.IsInfectedSevere() && d.ToBeHospitalized(m.infectionDay+immunity)
}

// Decease ends an infection that has run its course. Severe cases die with
// the disease's death rate; every other case recovers.
func (m *StateMachine) Decease(r random.Source, d *Disease) Outcome {
	if m.state != Infected {
		return OutcomeNone
	}
	last := d.AsymptomaticLastDay
	switch m.severity {
	case Severe:
		last = d.LastDay
	case MildSymptomatic:
		last = d.MildInfectedLastDay
	}
	if m.infectionDay < last {
		return OutcomeNone
	}
	if m.severity == Severe && d.ToBeDeceased(r) {
		m.state = Deceased
		return OutcomeDeceased
	}
	m.state = Recovered
	return OutcomeRecovered
}

// IncrementInfectionDay advances a current infection by one day.
func (m *StateMachine) IncrementInfectionDay() {
	if m.state == Infected {
		m.infectionDay++
	}
}

// SetMildAsymptomatic seeds an asymptomatic infection.
func (m *StateMachine) SetMildAsymptomatic() { m.seed(Asymptomatic) }

// SetMildSymptomatic seeds a mild symptomatic infection.
func (m *StateMachine) SetMildSymptomatic() { m.seed(MildSymptomatic) }

// SetSevere seeds a severe infection.
func (m *StateMachine) SetSevere() { m.seed(Severe) }

func (m *StateMachine) seed(s Severity) {
	if m.state == Deceased {
		return
	}
	m.state = Infected
	m.severity = s
	m.preSymptomatic = false
	m.infectionDay = 0
}
