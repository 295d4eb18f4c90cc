package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/analytics"
	"github.com/ChicagoDave/episim/pkg/census"
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/listeners"
	"github.com/ChicagoDave/episim/pkg/simulation"
	"github.com/ChicagoDave/episim/pkg/validation"
)

type runOptions struct {
	workers       int
	seed          uint64
	hours         int
	outputDir     string
	citizenStates bool
	logEvery      int
	jsonSummary   bool
}

// loadAndValidate loads the project and its disease and runs schema
// validation on both.
func loadAndValidate(projectPath string) (*config.Config, disease.Disease, *validation.Report, error) {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return nil, disease.Disease{}, nil, fmt.Errorf("loading project: %w", err)
	}
	report := validation.ValidateConfig(cfg)

	catalog, err := disease.LoadCatalog(cfg.Resolve(cfg.DiseaseFile))
	if err != nil {
		return nil, disease.Disease{}, nil, fmt.Errorf("loading disease catalog: %w", err)
	}
	d, err := catalog.Get(cfg.Disease)
	if err != nil {
		return nil, disease.Disease{}, nil, err
	}
	report.Merge(validation.ValidateDisease(cfg.Disease, d))
	return cfg, d, report, nil
}

func runValidate(projectPath string) error {
	cfg, _, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	if report.Valid() {
		agents, err := populationSize(cfg)
		if err != nil {
			return err
		}
		report.Merge(validation.ValidateCapacity(cfg, agents))
	}

	printReport(os.Stdout, report)

	if !report.Valid() {
		os.Exit(1)
	}
	return nil
}

// populationSize counts the citizens a population source will produce
// without building them.
func populationSize(cfg *config.Config) (int, error) {
	pop := cfg.Population
	switch {
	case pop.Auto != nil:
		return pop.Auto.NumberOfAgents, nil
	case pop.CSV != nil:
		f, err := os.Open(cfg.Resolve(pop.CSV.File))
		if err != nil {
			return 0, fmt.Errorf("opening population file: %w", err)
		}
		defer f.Close()
		records, err := agent.ReadRecords(f)
		if err != nil {
			return 0, err
		}
		return len(records), nil
	case pop.Census != nil:
		boundaries, err := census.LoadGeography(cfg.Resolve(pop.Census.GeographyFile))
		if err != nil {
			return 0, err
		}
		table, err := census.LoadTable(cfg.Resolve(pop.Census.CensusFile))
		if err != nil {
			return 0, err
		}
		areas, err := census.BuildOutputAreas(boundaries, table)
		if err != nil {
			return 0, err
		}
		n := 0
		for _, size := range census.HouseholdSizes(areas) {
			n += size
		}
		return n, nil
	}
	return 0, nil
}

func runSimulation(ctx context.Context, projectPath string, opts runOptions) error {
	cfg, d, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid() {
		printReport(os.Stdout, report)
		return fmt.Errorf("project has validation errors")
	}
	if opts.hours > 0 {
		cfg.Hours = opts.hours
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = cfg.Dir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	stamp := time.Now().Format("2006-01-02T15-04-05")
	base := filepath.Join(outputDir, fmt.Sprintf("%s_%s", cfg.OutputFile, stamp))

	var outputs []*os.File
	defer func() {
		for _, f := range outputs {
			if err := f.Close(); err != nil {
				slog.Error("closing output", "file", f.Name(), "error", err)
			}
		}
	}()
	create := func(path string) (*os.File, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating output: %w", err)
		}
		outputs = append(outputs, f)
		return f, nil
	}

	logger := slog.Default()
	countsFile, err := create(base + ".csv")
	if err != nil {
		return err
	}
	reportFile, err := create(base + "_interventions.json")
	if err != nil {
		return err
	}

	history := &listeners.History{}
	hotspots := listeners.NewHotspots()
	fanout := listeners.Multi{
		listeners.NewCSVCounts(countsFile, logger),
		listeners.NewInterventionReporter(reportFile, logger),
		listeners.NewLogger(logger, opts.logEvery),
		history,
		hotspots,
	}

	simOpts := []simulation.Option{simulation.WithLogger(logger)}
	if opts.citizenStates || cfg.EnableCitizenStateMessages {
		statesFile, err := create(base + "_citizens.csv")
		if err != nil {
			return err
		}
		fanout = append(fanout, listeners.NewCitizenStates(statesFile, logger))
		simOpts = append(simOpts, simulation.WithCitizenStates(true))
	}
	simOpts = append(simOpts, simulation.WithListener(fanout))
	if opts.workers >= 0 {
		simOpts = append(simOpts, simulation.WithWorkers(opts.workers))
	}
	if opts.seed != 0 {
		simOpts = append(simOpts, simulation.WithSeed(opts.seed))
	}

	sim, err := simulation.New(cfg, d, simOpts...)
	if err != nil {
		return fmt.Errorf("setting up simulation: %w", err)
	}
	_, runErr := sim.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("running simulation: %w", runErr)
	}
	if runErr != nil {
		logger.Warn("simulation interrupted", "hour", sim.Counts().Hour)
	}

	summary, analyticsReport := analytics.Summarize(history, sim.City().HospitalArea.Cells())
	if opts.jsonSummary {
		output := map[string]any{
			"summary":    summary,
			"hotspots":   hotspots.Top(10),
			"validation": analyticsReport,
			"outputs":    outputNames(outputs),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	printSummary(summary, hotspots.Top(5))
	if !analyticsReport.Empty() {
		fmt.Println()
		printReport(os.Stdout, analyticsReport)
	}
	fmt.Println()
	for _, name := range outputNames(outputs) {
		fmt.Printf("wrote %s\n", name)
	}
	return nil
}

func outputNames(files []*os.File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name()
	}
	return names
}

func runDiseases(catalogPath string) error {
	catalog, err := disease.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	for _, name := range catalog.Names() {
		printDisease(name, catalog[name])
		if r := validation.ValidateDisease(name, catalog[name]); !r.Valid() || len(r.Warnings()) > 0 {
			printReport(os.Stdout, r)
		}
		fmt.Println()
	}
	return nil
}
