// Package analytics derives the headline figures of a finished run from
// its hourly counts.
package analytics

import (
	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/listeners"
	"github.com/ChicagoDave/episim/pkg/validation"
)

// Summarize condenses the history of a run. hospitalCells is the size of
// the hospital at the end of the run and is only used for the analytical
// checks in the returned report.
func Summarize(h *listeners.History, hospitalCells int) (*Summary, *validation.Report) {
	report := validation.NewReport()
	s := &Summary{Interventions: []InterventionCount{}}

	final, ok := h.Last()
	if !ok {
		report.AddWarning(validation.Finding{
			Stage:   validation.StageOutcome,
			Message: "no hours were recorded",
			Key:     "hours",
		})
		return s, report
	}

	// 1. Peaks
	for _, c := range h.Counts {
		updatePeak(&s.PeakActive, c.Active(), c.Hour)
		updatePeak(&s.PeakInfected, int(c.Infected), c.Hour)
		updatePeak(&s.PeakHospitalized, int(c.Hospitalized), c.Hour)
	}

	// 2. Outcome
	s.Final = final
	s.Hours = final.Hour
	s.Days = final.Hour / agent.HoursInADay
	s.Population = final.Total()
	s.EverInfected = s.Population - int(final.Susceptible)
	if s.Population > 0 {
		s.AttackRate = float64(s.EverInfected) / float64(s.Population)
	}
	if closed := int(final.Recovered) + int(final.Deceased); closed > 0 {
		s.CaseFatalityRate = float64(final.Deceased) / float64(closed)
	}

	// 3. Interventions, in the order they first fired
	index := make(map[string]int)
	for _, iv := range h.Interventions {
		i, seen := index[iv.Name]
		if !seen {
			i = len(s.Interventions)
			index[iv.Name] = i
			s.Interventions = append(s.Interventions, InterventionCount{Name: iv.Name, FirstHour: iv.Hour})
		}
		s.Interventions[i].Count++
	}

	// 4. Analytical validation
	validateAnalytical(h, s, hospitalCells, report)

	return s, report
}

func updatePeak(p *Peak, v, hour int) {
	if v > p.Value {
		p.Value = v
		p.Hour = hour
	}
}

// Starting returns the counts of the first recorded hour.
func Starting(h *listeners.History) (events.Counts, bool) {
	if len(h.Counts) == 0 {
		return events.Counts{}, false
	}
	return h.Counts[0], true
}
