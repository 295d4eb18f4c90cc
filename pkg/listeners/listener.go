// Package listeners consumes the notifications a simulation emits. All
// notifications are fire-and-forget: listeners log their own failures and
// never hand errors back to the simulation.
package listeners

import (
	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/layout"
)

// Listener receives simulation notifications. Calls are made from the
// simulation's goroutine, one at a time.
type Listener interface {
	CountsUpdated(c events.Counts)
	CitizenGotInfected(hour int, cell geo.Point)
	CitizenStateUpdated(hour int, c *agent.Citizen, cell geo.Point)
	InterventionApplied(hour int, iv events.Intervention)
	GridUpdated(city *layout.City)
	SimulationEnded()
}

// Nop ignores every notification. Embed it to implement only some methods.
type Nop struct{}

func (Nop) CountsUpdated(events.Counts)                        {}
func (Nop) CitizenGotInfected(int, geo.Point)                  {}
func (Nop) CitizenStateUpdated(int, *agent.Citizen, geo.Point) {}
func (Nop) InterventionApplied(int, events.Intervention)       {}
func (Nop) GridUpdated(*layout.City)                           {}
func (Nop) SimulationEnded()                                   {}

// Multi fans every notification out to its listeners in order.
type Multi []Listener

func (m Multi) CountsUpdated(c events.Counts) {
	for _, l := range m {
		l.CountsUpdated(c)
	}
}

func (m Multi) CitizenGotInfected(hour int, cell geo.Point) {
	for _, l := range m {
		l.CitizenGotInfected(hour, cell)
	}
}

func (m Multi) CitizenStateUpdated(hour int, c *agent.Citizen, cell geo.Point) {
	for _, l := range m {
		l.CitizenStateUpdated(hour, c, cell)
	}
}

func (m Multi) InterventionApplied(hour int, iv events.Intervention) {
	for _, l := range m {
		l.InterventionApplied(hour, iv)
	}
}

func (m Multi) GridUpdated(city *layout.City) {
	for _, l := range m {
		l.GridUpdated(city)
	}
}

func (m Multi) SimulationEnded() {
	for _, l := range m {
		l.SimulationEnded()
	}
}
