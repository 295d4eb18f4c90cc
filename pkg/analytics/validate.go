package analytics

import (
	"fmt"

	"github.com/ChicagoDave/episim/pkg/listeners"
	"github.com/ChicagoDave/episim/pkg/validation"
)

// validateAnalytical flags runs whose outcome is probably an artefact of
// the configuration rather than of the disease.
func validateAnalytical(h *listeners.History, s *Summary, hospitalCells int, report *validation.Report) {
	validateFinished(s, report)
	validateSpread(h, s, report)
	validateHospitalLoad(s, hospitalCells, report)
}

func validateFinished(s *Summary, report *validation.Report) {
	if active := s.Final.Active(); active > 0 {
		report.AddWarning(validation.Finding{
			Stage:   validation.StageOutcome,
			Message: fmt.Sprintf("run stopped at hour %d with %d active cases", s.Hours, active),
			Key:     "hours",
			Got:     s.Hours,
			Fixes:   []string{"Increase hours to let the epidemic run its course"},
		})
	}
}

func validateSpread(h *listeners.History, s *Summary, report *validation.Report) {
	start, ok := Starting(h)
	if !ok {
		return
	}
	seeded := s.Population - int(start.Susceptible)
	if seeded > 0 && s.EverInfected == seeded {
		report.AddInfo(validation.Finding{
			Stage:   validation.StageOutcome,
			Message: fmt.Sprintf("the infection never spread beyond the %d seeded citizens", seeded),
			Key:     "starting_infections",
			Got:     seeded,
		})
	}
}

func validateHospitalLoad(s *Summary, hospitalCells int, report *validation.Report) {
	if hospitalCells <= 0 || s.PeakHospitalized.Value < hospitalCells {
		return
	}
	report.AddWarning(validation.Finding{
		Stage:   validation.StageOutcome,
		Message: fmt.Sprintf("hospital was full at hour %d with %d patients", s.PeakHospitalized.Hour, s.PeakHospitalized.Value),
		Key:     "geography.hospital_beds_percentage",
		Got:     s.PeakHospitalized.Value,
		Want:    fmt.Sprintf("< %d", hospitalCells),
		Fixes:   []string{
			"Increase hospital_beds_percentage",
			"Configure interventions.build_new_hospital",
		},
	})
}
