package listeners

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/ChicagoDave/episim/pkg/events"
)

// InterventionReporter collects intervention events and writes them as
// one JSON array when the simulation ends.
type InterventionReporter struct {
	Nop
	w       io.Writer
	logger  *slog.Logger
	applied []events.Intervention
}

func NewInterventionReporter(w io.Writer, logger *slog.Logger) *InterventionReporter {
	return &InterventionReporter{
		w:       w,
		logger:  logger.With("component", "intervention_reporter"),
		applied: []events.Intervention{},
	}
}

func (l *InterventionReporter) InterventionApplied(_ int, iv events.Intervention) {
	l.applied = append(l.applied, iv)
}

func (l *InterventionReporter) SimulationEnded() {
	enc := json.NewEncoder(l.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.applied); err != nil {
		l.logger.Error("writing interventions", "error", err)
	}
}
