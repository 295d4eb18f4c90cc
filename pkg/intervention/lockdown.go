package intervention

import (
	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/events"
)

// Lockdown isolates every non-essential citizen once the number of sick
// agents reaches a threshold, and lifts the isolation after a fixed number
// of days. A lifted lockdown can come back after its cooldown.
type Lockdown struct {
	cfg        config.LockdownConfig
	active     bool
	lockedAt   int
	unlockedAt int
	lifted     bool
}

func NewLockdown(cfg config.LockdownConfig) *Lockdown {
	return &Lockdown{cfg: cfg}
}

// Active reports whether the city is locked down.
func (l *Lockdown) Active() bool { return l.active }

// EssentialWorkersPercentage is the share of normal workers exempt from
// the lockdown.
func (l *Lockdown) EssentialWorkersPercentage() float64 {
	return l.cfg.EssentialWorkersPopulation
}

// ShouldApply reports whether the lockdown starts at this hour.
func (l *Lockdown) ShouldApply(c events.Counts) bool {
	if l.active || l.coolingDown(c.Hour) {
		return false
	}
	return int(c.Infected)+int(c.Hospitalized) >= l.cfg.AtNumberOfInfections
}

// ShouldUnlock reports whether an active lockdown has run its course.
func (l *Lockdown) ShouldUnlock(c events.Counts) bool {
	return l.active && c.Hour-l.lockedAt >= l.cfg.LiftAfterDays*agent.HoursInADay
}

func (l *Lockdown) coolingDown(hour int) bool {
	return l.lifted && hour-l.unlockedAt < l.cfg.CooldownDays*agent.HoursInADay
}

// Apply locks the city.
func (l *Lockdown) Apply(hour int, citizens []agent.Citizen) {
	l.active = true
	l.lockedAt = hour
	for i := range citizens {
		if !citizens[i].IsEssentialWorker() {
			citizens[i].SetIsolation(true)
		}
	}
}

// Unapply lifts the isolation of every isolated citizen.
func (l *Lockdown) Unapply(hour int, citizens []agent.Citizen) {
	l.active = false
	l.lifted = true
	l.unlockedAt = hour
	for i := range citizens {
		if citizens[i].IsIsolated() {
			citizens[i].SetIsolation(false)
		}
	}
}
