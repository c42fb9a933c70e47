package sched

import (
	"fmt"
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// PolicyAll selects every policy, one run each.
const PolicyAll = "all"

// Config mirrors config.yml
type Config struct {
	Policy         string `yaml:"policy"`          // rms, edf, dm or all
	Horizon        int64  `yaml:"horizon"`         // 0 = hyperperiod of all periods
	ReportOverruns bool   `yaml:"report_overruns"` // emit Overrun events
	Tasks          []Task `yaml:"tasks"`
}

// If no config file is given, we simulate the classic two-task example under every policy
func defaultConfig() Config {
	return Config{
		Policy: PolicyAll,
		Tasks: []Task{
			NewTask(1, 5, 3),
			NewTask(2, 8, 3),
		},
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(file.Tasks) > 0 {
		cfg.Tasks = file.Tasks
	}
	cfg.Policy = file.Policy
	cfg.Horizon = file.Horizon
	cfg.ReportOverruns = file.ReportOverruns

	// sanity clamps
	cfg.Policy = strings.ToLower(strings.TrimSpace(cfg.Policy))
	if cfg.Policy == "" {
		cfg.Policy = PolicyAll
	}
	if cfg.Horizon < 0 {
		cfg.Horizon = 0
	}

	return cfg, nil
}

// SelectedPolicies resolves the configured policy name.
func (c Config) SelectedPolicies() ([]Policy, error) {
	if c.Policy == PolicyAll {
		return Policies(), nil
	}
	p, err := ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return []Policy{p}, nil
}

// Options converts the run-wide settings into scheduler options.
func (c Config) Options() Options {
	return Options{
		Horizon:        c.Horizon,
		ReportOverruns: c.ReportOverruns,
	}
}
