package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rtsched/internal/report"
	"rtsched/internal/sched"
)

var (
	configPath string // YAML task set; empty = built-in example
	policyName string // overrides the config policy when set
	horizon    int64  // overrides the config horizon when > 0
	logLevel   string // log verbosity level
	csvPath    string // write the event log here as CSV
	showGantt  bool   // print an ASCII Gantt chart per run
	showTable  bool   // print the per-task summary table per run
	quiet      bool   // skip the line-by-line trace
	overruns   bool   // report releases that discard unfinished work
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "rtsched",
	Short:         "Preemptive RMS / EDF scheduling simulator for periodic tasks",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd simulates the task set under the selected policies
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the task set tick by tick",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		policies, err := cfg.SelectedPolicies()
		if err != nil {
			return err
		}

		var csvLog *report.CSVLog
		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if csvLog, err = report.NewCSVLog(f); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for _, p := range policies {
			s, err := sched.New(cfg.Tasks, p, cfg.Options())
			if err != nil {
				return err
			}
			res := s.Run()
			if err := render(out, res, csvLog); err != nil {
				return err
			}
		}
		logrus.Info("Simulation complete.")
		return nil
	},
}

// horizonCmd prints the hyperperiod of the task set
var horizonCmd = &cobra.Command{
	Use:   "horizon",
	Short: "Print the hyperperiod (lcm of all periods) of the task set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		h, err := sched.TaskHorizon(cfg.Tasks)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), h)
		return err
	},
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (sched.Config, error) {
	cfg, err := sched.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("policy") {
		cfg.Policy = strings.ToLower(policyName)
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("overruns") {
		cfg.ReportOverruns = overruns
	}
	logrus.Debugf("Loaded config: %+v", cfg)
	return cfg, nil
}

func render(w io.Writer, res sched.Result, csvLog *report.CSVLog) error {
	if !quiet {
		report.WriteTrace(w, res)
	}
	if showGantt {
		report.WriteGantt(w, res)
	}
	if showTable {
		report.WriteSummary(w, report.Summarize(res))
	}
	if csvLog != nil {
		return csvLog.Write(res)
	}
	return nil
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML task set (default: built-in two-task example)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&policyName, "policy", sched.PolicyAll, "Scheduling policy (rms, edf, dm, all)")
	runCmd.Flags().Int64Var(&horizon, "horizon", 0, "Time units to simulate (0 = hyperperiod)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write the event log to this CSV file")
	runCmd.Flags().BoolVar(&showGantt, "gantt", false, "Print an ASCII Gantt chart")
	runCmd.Flags().BoolVar(&showTable, "summary", false, "Print a per-task summary table")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print the event trace")
	runCmd.Flags().BoolVar(&overruns, "overruns", false, "Report releases that discard unfinished work")

	rootCmd.AddCommand(runCmd, horizonCmd)
}
