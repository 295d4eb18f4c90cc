package listeners

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/geo"
)

// CSVCounts writes one row of counts per hour.
type CSVCounts struct {
	Nop
	w      *csv.Writer
	logger *slog.Logger
	header bool
	failed bool
}

func NewCSVCounts(w io.Writer, logger *slog.Logger) *CSVCounts {
	return &CSVCounts{w: csv.NewWriter(w), logger: logger.With("component", "csv_counts")}
}

func (l *CSVCounts) CountsUpdated(c events.Counts) {
	if !l.header {
		l.write(events.Header)
		l.header = true
	}
	l.write(c.Row())
}

func (l *CSVCounts) SimulationEnded() {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.logger.Error("flushing counts", "error", err)
	}
}

func (l *CSVCounts) write(row []string) {
	if l.failed {
		return
	}
	if err := l.w.Write(row); err != nil {
		l.failed = true
		l.logger.Error("writing counts, further rows dropped", "error", err)
	}
}

var citizenStateHeader = []string{"hour", "citizen_id", "x", "y", "state", "hospitalized", "isolated", "vaccinated"}

// CitizenStates writes the position and state of every citizen every hour.
type CitizenStates struct {
	Nop
	w      *csv.Writer
	logger *slog.Logger
	header bool
	failed bool
}

func NewCitizenStates(w io.Writer, logger *slog.Logger) *CitizenStates {
	return &CitizenStates{w: csv.NewWriter(w), logger: logger.With("component", "citizen_states")}
}

func (l *CitizenStates) CitizenStateUpdated(hour int, c *agent.Citizen, cell geo.Point) {
	if l.failed {
		return
	}
	if !l.header {
		l.header = true
		if err := l.w.Write(citizenStateHeader); err != nil {
			l.fail(err)
			return
		}
	}
	row := []string{
		strconv.Itoa(hour),
		c.ID.String(),
		strconv.Itoa(cell.X),
		strconv.Itoa(cell.Y),
		c.Health.State().String(),
		strconv.FormatBool(c.IsHospitalized()),
		strconv.FormatBool(c.IsIsolated()),
		strconv.FormatBool(c.IsVaccinated()),
	}
	if err := l.w.Write(row); err != nil {
		l.fail(err)
	}
}

func (l *CitizenStates) SimulationEnded() {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.logger.Error("flushing citizen states", "error", err)
	}
}

func (l *CitizenStates) fail(err error) {
	l.failed = true
	l.logger.Error("writing citizen states, further rows dropped", "error", err)
}
