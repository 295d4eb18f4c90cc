// Package intervention implements the policy responses evaluated after
// every simulated hour: vaccination, lockdown and hospital expansion.
package intervention

import (
	"log/slog"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/layout"
	"github.com/ChicagoDave/episim/pkg/random"
)

// Notifier receives the effects of interventions.
type Notifier interface {
	InterventionApplied(hour int, iv events.Intervention)
	GridUpdated(city *layout.City)
}

// Engine holds the configured interventions. Absent interventions are nil
// and never fire.
type Engine struct {
	vaccination *Vaccination
	lockdown    *Lockdown
	hospital    *HospitalExpansion
	logger      *slog.Logger
}

// NewEngine builds the interventions named in cfg.
func NewEngine(cfg config.Interventions, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{logger: logger.With("component", "interventions")}
	if len(cfg.Vaccinate) > 0 {
		e.vaccination = NewVaccination(cfg.Vaccinate)
	}
	if cfg.Lockdown != nil {
		e.lockdown = NewLockdown(*cfg.Lockdown)
	}
	if cfg.BuildNewHospital != nil {
		e.hospital = NewHospitalExpansion(*cfg.BuildNewHospital)
	}
	return e
}

// Lockdown returns the lockdown intervention, or nil when not configured.
func (e *Engine) Lockdown() *Lockdown { return e.lockdown }

// AssignEssentialWorkers marks the lockdown-exempt workers. It runs once
// when the population is generated.
func (e *Engine) AssignEssentialWorkers(citizens []agent.Citizen, r random.Source) {
	if e.lockdown == nil {
		return
	}
	pct := e.lockdown.EssentialWorkersPercentage()
	for i := range citizens {
		citizens[i].AssignEssentialWorker(pct, r)
	}
}

// Process evaluates every intervention against the hour's counts. It must
// run after all citizens have been updated for the hour. Vaccination goes
// first, then lockdown, then hospital expansion.
func (e *Engine) Process(counts events.Counts, citizens []agent.Citizen, city *layout.City,
	r random.Source, n Notifier) {
	hour := counts.Hour

	if e.vaccination != nil {
		if pct, ok := e.vaccination.PercentageAt(hour); ok {
			vaccinated := vaccinate(citizens, pct, r)
			e.logger.Info("vaccination", "hour", hour, "percent", pct, "vaccinated", vaccinated)
			n.InterventionApplied(hour, events.Intervention{
				Name:   events.Vaccination,
				Hour:   hour,
				Detail: map[string]any{"percent": pct, "vaccinated": vaccinated},
			})
		}
	}

	if l := e.lockdown; l != nil {
		if l.ShouldApply(counts) {
			l.Apply(hour, citizens)
			e.logger.Info("locking the city", "hour", hour, "infected", counts.Infected, "hospitalized", counts.Hospitalized)
			n.InterventionApplied(hour, events.Intervention{
				Name:   events.Lockdown,
				Hour:   hour,
				Detail: map[string]any{"status": "locked_down"},
			})
		}
		if l.ShouldUnlock(counts) {
			l.Unapply(hour, citizens)
			e.logger.Info("unlocking the city", "hour", hour)
			n.InterventionApplied(hour, events.Intervention{
				Name:   events.Lockdown,
				Hour:   hour,
				Detail: map[string]any{"status": "lockdown_revoked"},
			})
		}
	}

	if h := e.hospital; h != nil && h.ShouldApply(counts, city) {
		h.Apply(city)
		e.logger.Info("increasing the hospital size", "hour", hour, "hospital", city.HospitalArea.String())
		n.GridUpdated(city)
		n.InterventionApplied(hour, events.Intervention{
			Name:   events.HospitalExpansion,
			Hour:   hour,
			Detail: map[string]any{"hospital_area": city.HospitalArea},
		})
	}
}

func vaccinate(citizens []agent.Citizen, pct float64, r random.Source) int {
	n := 0
	for i := range citizens {
		if citizens[i].Health.IsSusceptible() && !citizens[i].IsVaccinated() && random.Bernoulli(r, pct) {
			citizens[i].SetVaccination(true)
			n++
		}
	}
	return n
}
