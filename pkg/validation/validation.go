// Package validation checks simulation projects before a run, and run
// outcomes after it, and collects the findings into a report.
package validation

import (
	"encoding/json"
	"fmt"
)

// Stage names the check that raised a finding.
type Stage string

const (
	// StageConfig checks the fields of simulation.yaml.
	StageConfig Stage = "config"
	// StageDisease checks a disease catalog entry.
	StageDisease Stage = "disease"
	// StageCapacity checks the laid out city against the population.
	StageCapacity Stage = "capacity"
	// StageOutcome checks the history of a finished run.
	StageOutcome Stage = "outcome"
)

// Severity indicates how critical a finding is. Only errors stop a run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one problem or note about a project.
//
// Key is the dotted simulation.yaml key the finding is about, such as
// "population.auto.number_of_agents", or "diseases.<name>.<field>" for a
// disease parameter. Related names a second key the value conflicts with.
type Finding struct {
	Stage    Stage    `json:"stage"`
	Severity Severity `json:"severity"`
	Key      string   `json:"key"`
	Message  string   `json:"message"`
	Got      any      `json:"got,omitempty"`
	Want     string   `json:"want,omitempty"`
	Related  string   `json:"related,omitempty"`
	Fixes    []string `json:"fixes,omitempty"`
}

// DiseaseKey returns the key of a disease catalog field.
func DiseaseKey(disease, field string) string {
	if field == "" {
		return "diseases." + disease
	}
	return "diseases." + disease + "." + field
}

// Report collects findings in the order they were raised.
type Report struct {
	findings []Finding
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

func (r *Report) add(sev Severity, f Finding) {
	f.Severity = sev
	r.findings = append(r.findings, f)
}

// AddError records a finding that makes the project unrunnable.
func (r *Report) AddError(f Finding) { r.add(SeverityError, f) }

// AddWarning records a finding the run can go ahead with.
func (r *Report) AddWarning(f Finding) { r.add(SeverityWarning, f) }

// AddInfo records a note.
func (r *Report) AddInfo(f Finding) { r.add(SeverityInfo, f) }

// Merge appends the findings of other.
func (r *Report) Merge(other *Report) {
	r.findings = append(r.findings, other.findings...)
}

// Findings returns every finding, errors first, each severity in the order
// raised.
func (r *Report) Findings() []Finding {
	out := make([]Finding, 0, len(r.findings))
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		out = append(out, r.bySeverity(sev)...)
	}
	return out
}

// Errors returns the findings that stop a run.
func (r *Report) Errors() []Finding { return r.bySeverity(SeverityError) }

// Warnings returns the findings a run can go ahead with.
func (r *Report) Warnings() []Finding { return r.bySeverity(SeverityWarning) }

// Notes returns the informational findings.
func (r *Report) Notes() []Finding { return r.bySeverity(SeverityInfo) }

// Stage returns the findings raised by one stage.
func (r *Report) Stage(s Stage) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Stage == s {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) bySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// Valid reports whether the report holds no errors.
func (r *Report) Valid() bool { return len(r.Errors()) == 0 }

// Empty reports whether the report holds no findings at all.
func (r *Report) Empty() bool { return len(r.findings) == 0 }

// Summary counts the findings by severity.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d errors, %d warnings, %d notes",
		len(r.Errors()), len(r.Warnings()), len(r.Notes()))
}

// Err returns nil for a valid report and an error naming the first
// problem otherwise.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	if len(errs) == 1 {
		return fmt.Errorf("%s: invalid %s: %s", first.Stage, first.Key, first.Message)
	}
	return fmt.Errorf("%s: invalid %s: %s (and %d more errors)", first.Stage, first.Key, first.Message, len(errs)-1)
}

// MarshalJSON encodes the report with its verdict and ordered findings.
func (r *Report) MarshalJSON() ([]byte, error) {
	findings := r.Findings()
	return json.Marshal(struct {
		Valid    bool      `json:"valid"`
		Summary  string    `json:"summary"`
		Findings []Finding `json:"findings"`
	}{r.Valid(), r.Summary(), findings})
}
