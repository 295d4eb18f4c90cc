package listeners

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/layout"
)

// History keeps every hour's counts and every intervention in memory.
type History struct {
	Nop
	Counts        []events.Counts
	Interventions []events.Intervention
}

func (h *History) CountsUpdated(c events.Counts) {
	h.Counts = append(h.Counts, c)
}

func (h *History) InterventionApplied(_ int, iv events.Intervention) {
	h.Interventions = append(h.Interventions, iv)
}

// Last returns the most recent counts.
func (h *History) Last() (events.Counts, bool) {
	if len(h.Counts) == 0 {
		return events.Counts{}, false
	}
	return h.Counts[len(h.Counts)-1], true
}

// Hotspots counts where new infections happen.
type Hotspots struct {
	Nop
	cells map[geo.Point]int
}

func NewHotspots() *Hotspots {
	return &Hotspots{cells: make(map[geo.Point]int)}
}

func (h *Hotspots) CitizenGotInfected(_ int, cell geo.Point) {
	h.cells[cell]++
}

// Hotspot is a cell and the number of infections seen there.
type Hotspot struct {
	Cell       geo.Point `json:"cell"`
	Infections int       `json:"infections"`
}

// Top returns the n cells with the most infections, busiest first. Ties are
// broken by position so the order is stable.
func (h *Hotspots) Top(n int) []Hotspot {
	out := make([]Hotspot, 0, len(h.cells))
	for c, k := range h.cells {
		out = append(out, Hotspot{Cell: c, Infections: k})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Infections != b.Infections {
			return a.Infections > b.Infections
		}
		if a.Cell.Y != b.Cell.Y {
			return a.Cell.Y < b.Cell.Y
		}
		return a.Cell.X < b.Cell.X
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Logger reports progress through slog.
type Logger struct {
	Nop
	logger *slog.Logger
	every  int
}

// NewLogger logs the counts every n hours at info level and every hour at
// debug level.
func NewLogger(logger *slog.Logger, every int) *Logger {
	return &Logger{logger: logger.With("component", "simulation"), every: every}
}

func (l *Logger) CountsUpdated(c events.Counts) {
	level := slog.LevelDebug
	if l.every > 0 && c.Hour%l.every == 0 {
		level = slog.LevelInfo
	}
	l.logger.Log(context.Background(), level, "counts",
		"hour", c.Hour,
		"susceptible", c.Susceptible,
		"exposed", c.Exposed,
		"infected", c.Infected,
		"hospitalized", c.Hospitalized,
		"recovered", c.Recovered,
		"deceased", c.Deceased,
	)
}

func (l *Logger) InterventionApplied(hour int, iv events.Intervention) {
	l.logger.Info("intervention applied", "hour", hour, "intervention", iv.Name)
}

func (l *Logger) GridUpdated(city *layout.City) {
	l.logger.Info("grid updated", "hospital", city.HospitalArea.String())
}
