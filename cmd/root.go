package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/report"
	"github.com/inference-sim/restaurant-sim/sim/scenario"
	"github.com/inference-sim/restaurant-sim/sim/telemetry"
	"github.com/inference-sim/restaurant-sim/sim/trace"
)

var (
	// CLI flags for the run command
	logLevel     string // Log verbosity level
	traceLevel   string // Decision trace level
	reportFormat string // text or json
	outputPath   string // Report destination, stdout when empty
	metricsPath  string // Prometheus text dump destination, disabled when empty
	logTicks     bool   // Log a summary line per tick at debug level

	// Scenario overrides, applied only when the flag is set
	seed              int64   // Seed for the injury model and workload generation
	maxTicks          int64   // Stop after this tick
	breakAfter        int     // Orders served before a break
	autoPromoteAfter  int64   // Wait ticks before a Normal order becomes VIP
	overloadThreshold int     // Waiting VIP orders at which breaks are skipped
	injuryModel       string  // none, bernoulli or hash
	injuryProbability float64 // Per cook per tick
	priorityPolicy    string  // weighted or oldest-first
	sortBySpeed       bool    // Fastest cooks first within each type
	strict            bool    // Check invariants after every tick
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "restaurant-sim",
	Short: "Tick-stepped simulator for a restaurant kitchen",
}

// runOptions is everything the run command needs, decoupled from cobra.
type runOptions struct {
	scenarioPath string
	traceLevel   string
	reportFormat string
	outputPath   string
	metricsPath  string
	logTicks     bool
	strict       bool

	// overrides; nil or empty means keep the scenario's value
	seed              *int64
	maxTicks          *int64
	breakAfter        *int
	autoPromoteAfter  *int64
	overloadThreshold *int
	injuryModel       string
	injuryProbability *float64
	priorityPolicy    string
	sortBySpeed       *bool
}

// apply overrides the scenario's fields with the options that were set.
func (o *runOptions) apply(sc *scenario.Scenario) {
	if o.seed != nil {
		sc.Seed = *o.seed
		if sc.Workload != nil {
			sc.Workload.Seed = *o.seed
		}
	}
	if o.maxTicks != nil {
		sc.MaxTicks = *o.maxTicks
	}
	if o.breakAfter != nil {
		sc.BreakAfter = *o.breakAfter
	}
	if o.autoPromoteAfter != nil {
		sc.AutoPromoteAfter = o.autoPromoteAfter
	}
	if o.overloadThreshold != nil {
		sc.OverloadThreshold = o.overloadThreshold
	}
	if o.injuryModel != "" {
		sc.InjuryModel = o.injuryModel
	}
	if o.injuryProbability != nil {
		sc.InjuryProbability = o.injuryProbability
	}
	if o.priorityPolicy != "" {
		sc.PriorityPolicy = o.priorityPolicy
	}
	if o.sortBySpeed != nil {
		sc.SortCooksBySpeed = *o.sortBySpeed
	}
}

// runSimulation loads, runs and reports one scenario. The report goes to
// stdout unless an output path is set.
func runSimulation(o runOptions, stdout io.Writer) error {
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("unknown trace level %q", o.traceLevel)
	}
	if o.reportFormat != "text" && o.reportFormat != "json" {
		return fmt.Errorf("unknown report format %q, expected text or json", o.reportFormat)
	}

	sc, err := scenario.Load(o.scenarioPath)
	if err != nil {
		return err
	}
	o.apply(sc)

	var opts []sim.Option
	var sinks sim.MultiSink
	var collector *telemetry.Collector
	if o.metricsPath != "" {
		collector = telemetry.NewCollector()
		sinks = append(sinks, collector)
	}
	if o.logTicks {
		sinks = append(sinks, sim.LogSink{})
	}
	if o.strict {
		opts = append(opts, sim.WithStrictInvariants())
	}
	if len(sinks) > 0 {
		opts = append(opts, sim.WithSink(sinks))
	}
	if o.traceLevel != "" && o.traceLevel != string(trace.TraceLevelNone) {
		opts = append(opts, sim.WithTrace(trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(o.traceLevel)})))
	}

	cfg := sc.SimConfig()
	logrus.Infof("Starting simulation with %d cooks [normal=%d vegan=%d vip=%d], break after %d, auto-promote after %d, injury model %s",
		cfg.Roster.TotalCooks(), cfg.Roster.Normal.Count, cfg.Roster.Vegan.Count, cfg.Roster.VIP.Count,
		cfg.BreakAfter, cfg.AutoPromoteAfter, cfg.InjuryModel)

	s, err := sc.Build(opts...)
	if err != nil {
		return err
	}
	startTime := time.Now()
	s.Run()
	logrus.Infof("Simulation complete in %v", time.Since(startTime))

	r := report.Build(s)
	if err := writeReport(r, o.reportFormat, o.outputPath, stdout); err != nil {
		return err
	}
	if collector != nil {
		if err := writeFile(o.metricsPath, collector.WriteText); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logrus.Infof("Metrics written to: %s", o.metricsPath)
	}
	return nil
}

func writeReport(r *report.Report, format, path string, stdout io.Writer) error {
	write := r.WriteText
	if format == "json" {
		write = r.WriteJSON
	}
	if path == "" {
		return write(stdout)
	}
	if err := writeFile(path, write); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logrus.Infof("Report written to: %s", path)
	return nil
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// setupLogging applies the --log level; an unknown level is fatal.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run SCENARIO",
	Short: "Run a restaurant scenario and print the report",
	Long:  "Run a scenario file (YAML, or the legacy text format for any other extension) until every order is resolved.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		o := runOptions{
			scenarioPath: args[0],
			traceLevel:   traceLevel,
			reportFormat: reportFormat,
			outputPath:   outputPath,
			metricsPath:  metricsPath,
			logTicks:     logTicks,
			strict:       strict,
		}
		flags := cmd.Flags()
		if flags.Changed("seed") {
			o.seed = &seed
		}
		if flags.Changed("max-ticks") {
			o.maxTicks = &maxTicks
		}
		if flags.Changed("break-after") {
			o.breakAfter = &breakAfter
		}
		if flags.Changed("auto-promote-after") {
			o.autoPromoteAfter = &autoPromoteAfter
		}
		if flags.Changed("overload-threshold") {
			o.overloadThreshold = &overloadThreshold
		}
		if flags.Changed("injury-model") {
			o.injuryModel = injuryModel
		}
		if flags.Changed("injury-probability") {
			o.injuryProbability = &injuryProbability
		}
		if flags.Changed("priority-policy") {
			o.priorityPolicy = priorityPolicy
		}
		if flags.Changed("sort-by-speed") {
			o.sortBySpeed = &sortBySpeed
		}

		if err := runSimulation(o, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&reportFormat, "report-format", "text", "Report format (text, json)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to this file instead of stdout")
	runCmd.Flags().StringVar(&metricsPath, "metrics-out", "", "Write Prometheus metrics in text format to this file")
	runCmd.Flags().BoolVar(&logTicks, "log-ticks", false, "Log a summary of every tick (needs --log debug)")
	runCmd.Flags().BoolVar(&strict, "strict", false, "Check state invariants after every tick and abort on violation")

	// Scenario overrides
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the injury model and workload generation")
	runCmd.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Stop after this tick even with work left (0 = unlimited)")
	runCmd.Flags().IntVar(&breakAfter, "break-after", 0, "Orders served before a cook takes a break (0 = never)")
	runCmd.Flags().Int64Var(&autoPromoteAfter, "auto-promote-after", -1, "Wait ticks before a Normal order is promoted to VIP (< 0 = never)")
	runCmd.Flags().IntVar(&overloadThreshold, "overload-threshold", 5, "Waiting VIP orders at which breaks are skipped")
	runCmd.Flags().StringVar(&injuryModel, "injury-model", "bernoulli", "Injury model (none, bernoulli, hash)")
	runCmd.Flags().Float64Var(&injuryProbability, "injury-probability", 0.001, "Injury probability per cook per tick (bernoulli)")
	runCmd.Flags().StringVar(&priorityPolicy, "priority-policy", "weighted", "VIP priority policy (weighted, oldest-first)")
	runCmd.Flags().BoolVar(&sortBySpeed, "sort-by-speed", false, "Serve with the fastest cooks first within each type")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
