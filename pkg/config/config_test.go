package config

import (
	"path/filepath"
	"testing"
)

func TestLoadProject(t *testing.T) {
	c, err := LoadProject("../../examples/default-sim")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if c.Disease != "small_pox" {
		t.Errorf("disease = %q, want %q", c.Disease, "small_pox")
	}
	if c.GridSize != 250 {
		t.Errorf("grid_size = %d, want 250", c.GridSize)
	}
	if c.Hours != 10000 {
		t.Errorf("hours = %d, want 10000", c.Hours)
	}
	if c.Seed != 20200401 {
		t.Errorf("seed = %d, want 20200401", c.Seed)
	}

	// Population
	if c.Population.Sources() != 1 || c.Population.Auto == nil {
		t.Fatalf("expected a single auto population, got %+v", c.Population)
	}
	if c.Population.Auto.NumberOfAgents != 10000 {
		t.Errorf("number_of_agents = %d, want 10000", c.Population.Auto.NumberOfAgents)
	}
	if c.StartingInfections.Total() != 1 || c.StartingInfections.Exposed != 1 {
		t.Errorf("starting infections = %+v", c.StartingInfections)
	}

	// Interventions
	iv := c.Interventions
	if len(iv.Vaccinate) != 1 || iv.Vaccinate[0].AtHour != 5000 || iv.Vaccinate[0].Percent != 0.2 {
		t.Errorf("vaccinate = %+v", iv.Vaccinate)
	}
	if iv.Lockdown == nil || iv.Lockdown.AtNumberOfInfections != 100 {
		t.Fatalf("lockdown = %+v", iv.Lockdown)
	}
	if iv.Lockdown.EssentialWorkersPopulation != 0.1 {
		t.Errorf("essential_workers_population = %v, want 0.1", iv.Lockdown.EssentialWorkersPopulation)
	}
	if iv.BuildNewHospital == nil || iv.BuildNewHospital.CapacityFraction != 0.8 {
		t.Errorf("build_new_hospital = %+v", iv.BuildNewHospital)
	}

	want := filepath.Join("../../examples/default-sim", "../../config/diseases.yaml")
	if got := c.Resolve(c.DiseaseFile); got != want {
		t.Errorf("Resolve(disease_file) = %q, want %q", got, want)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("disease: covid\ninterventions:\n  lockdown:\n    at_number_of_infections: 5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.DiseaseFile != "diseases.yaml" {
		t.Errorf("disease_file = %q, want default", c.DiseaseFile)
	}
	if c.Interventions.Lockdown.LiftAfterDays != 21 {
		t.Errorf("lift_after_days = %d, want 21", c.Interventions.Lockdown.LiftAfterDays)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("grid_size: [1, 2")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestStartingInfectionsTotals(t *testing.T) {
	s := StartingInfections{InfectedMildAsymptomatic: 2, InfectedMildSymptomatic: 3, InfectedSevere: 4, Exposed: 5}
	if s.Total() != 14 {
		t.Errorf("Total = %d, want 14", s.Total())
	}
	if s.TotalInfected() != 9 {
		t.Errorf("TotalInfected = %d, want 9", s.TotalInfected())
	}
}
