package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ChicagoDave/episim/pkg/analytics"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/listeners"
	"github.com/ChicagoDave/episim/pkg/validation"
)

// printReport lists findings one per row, errors first, followed by the
// verdict.
func printReport(w io.Writer, r *validation.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if findings := r.Findings(); len(findings) > 0 {
		fmt.Fprintln(tw, "SEVERITY\tSTAGE\tKEY\tFINDING")
		for _, f := range findings {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Severity, f.Stage, f.Key, describe(f))
			if f.Related != "" {
				fmt.Fprintf(tw, "\t\t\tconflicts with %s\n", f.Related)
			}
			for _, fix := range f.Fixes {
				fmt.Fprintf(tw, "\t\t\tfix: %s\n", fix)
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	verdict := "valid"
	if !r.Valid() {
		verdict = "invalid"
	}
	fmt.Fprintf(w, "%s (%s)\n", verdict, r.Summary())
}

func describe(f validation.Finding) string {
	switch {
	case f.Got != nil && f.Want != "":
		return fmt.Sprintf("%s (got %v, want %s)", f.Message, f.Got, f.Want)
	case f.Got != nil:
		return fmt.Sprintf("%s (got %v)", f.Message, f.Got)
	case f.Want != "":
		return fmt.Sprintf("%s (want %s)", f.Message, f.Want)
	}
	return f.Message
}

func printSummary(s *analytics.Summary, hotspots []listeners.Hotspot) {
	fmt.Println("Run Summary")
	fmt.Println("===========")
	fmt.Println()
	fmt.Printf("  Hours simulated:     %d (%d days)\n", s.Hours, s.Days)
	fmt.Printf("  Population:          %d\n", s.Population)
	fmt.Printf("  Peak active:         %d at hour %d\n", s.PeakActive.Value, s.PeakActive.Hour)
	fmt.Printf("  Peak hospitalized:   %d at hour %d\n", s.PeakHospitalized.Value, s.PeakHospitalized.Hour)
	fmt.Printf("  Attack rate:         %.1f%%\n", s.AttackRate*100)
	fmt.Printf("  Case fatality rate:  %.1f%%\n", s.CaseFatalityRate*100)

	fmt.Println()
	fmt.Printf("%-14s %10s %10s %10s %12s %10s %10s\n",
		"", "Suscept.", "Exposed", "Infected", "Hospitalized", "Recovered", "Deceased")
	f := s.Final
	fmt.Printf("%-14s %10d %10d %10d %12d %10d %10d\n",
		"Final", f.Susceptible, f.Exposed, f.Infected, f.Hospitalized, f.Recovered, f.Deceased)

	if len(s.Interventions) > 0 {
		fmt.Println()
		fmt.Println("Interventions")
		fmt.Println("-------------")
		for _, iv := range s.Interventions {
			fmt.Printf("  %-20s x%d, first at hour %d\n", iv.Name, iv.Count, iv.FirstHour)
		}
	}

	if len(hotspots) > 0 {
		fmt.Println()
		fmt.Println("Infection hotspots")
		fmt.Println("------------------")
		for _, h := range hotspots {
			fmt.Printf("  %-12s %d\n", h.Cell, h.Infections)
		}
	}
}

func printDisease(name string, d disease.Disease) {
	fmt.Println(name)
	fmt.Printf("  transmission:  %.3f from day %d, %.3f from day %d, until day %d\n",
		d.RegularTransmissionRate, d.RegularTransmissionStartDay,
		d.HighTransmissionRate, d.HighTransmissionStartDay, d.LastDay)
	fmt.Printf("  recovery:      asymptomatic by day %d, mild by day %d\n",
		d.AsymptomaticLastDay, d.MildInfectedLastDay)
	fmt.Printf("  presentation:  %.0f%% asymptomatic, %.0f%% severe\n",
		d.PercentageAsymptomaticPopulation*100, d.PercentageSevereInfectedPopulation*100)
	fmt.Printf("  death rate:    %.1f%% of severe cases\n", d.DeathRate*100)
	fmt.Printf("  incubation:    %dh exposed, %dh pre-symptomatic\n", d.ExposedDuration, d.PreSymptomaticDuration)
}
