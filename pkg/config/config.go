// Package config loads simulation run descriptions from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the configuration file looked up by LoadProject.
const ProjectFile = "simulation.yaml"

const (
	defaultDiseaseFile   = "diseases.yaml"
	defaultLiftAfterDays = 21
)

// Load reads a simulation config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a simulation config and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadProject loads a simulation config from a project directory.
// It looks for simulation.yaml in the given directory.
func LoadProject(projectDir string) (*Config, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// Resolve returns path relative to the config's directory unless it is
// already absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

func (c *Config) applyDefaults() {
	if c.DiseaseFile == "" {
		c.DiseaseFile = defaultDiseaseFile
	}
	if c.OutputFile == "" {
		c.OutputFile = "simulation"
	}
	if l := c.Interventions.Lockdown; l != nil && l.LiftAfterDays == 0 {
		l.LiftAfterDays = defaultLiftAfterDays
	}
}
