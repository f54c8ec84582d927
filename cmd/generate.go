package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/scenario"
	"github.com/inference-sim/restaurant-sim/sim/workload"
)

// generateOptions describes the roster wrapped around a generated workload.
type generateOptions struct {
	workloadPath  string
	format        string // yaml or legacy
	seed          *int64
	cooks         [3]int // normal, vegan, vip
	speed         int
	breakAfter    int
	breakDuration int64
	autoPromote   int64
}

// generateScenario expands a workload spec into explicit events and wraps
// them in a scenario with a uniform roster.
func generateScenario(o generateOptions) (*scenario.Scenario, error) {
	spec, err := workload.LoadWorkloadSpec(o.workloadPath)
	if err != nil {
		return nil, err
	}
	if o.seed != nil {
		spec.Seed = *o.seed
	}
	events, err := workload.GenerateEvents(spec)
	if err != nil {
		return nil, err
	}

	cfg := sim.DefaultSimConfig()
	cook := func(n int) sim.CookSpec {
		return sim.CookSpec{Count: n, Speed: o.speed, BreakDuration: o.breakDuration}
	}
	cfg.Roster = sim.RosterConfig{Normal: cook(o.cooks[0]), Vegan: cook(o.cooks[1]), VIP: cook(o.cooks[2])}
	cfg.BreakAfter = o.breakAfter
	cfg.AutoPromoteAfter = o.autoPromote
	cfg.Seed = spec.Seed

	sc := scenario.FromConfig(cfg, events)
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("generated scenario is invalid: %w", err)
	}
	logrus.Infof("Generated %d events from %d clients", len(events), len(spec.Clients))
	return sc, nil
}

func writeScenario(sc *scenario.Scenario, format string, w io.Writer) error {
	switch format {
	case "yaml":
		return sc.WriteYAML(w)
	case "legacy":
		return sc.WriteLegacy(w)
	default:
		return fmt.Errorf("unknown scenario format %q, expected yaml or legacy", format)
	}
}

var (
	genWorkloadPath  string
	genFormat        string
	genSeed          int64
	genNormalCooks   int
	genVeganCooks    int
	genVIPCooks      int
	genSpeed         int
	genBreakAfter    int
	genBreakDuration int64
	genAutoPromote   int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Expand a workload spec into a scenario file",
	Long:  "Load a cron-driven workload spec, generate its events and write a complete scenario to stdout, as YAML or in the legacy text format.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		o := generateOptions{
			workloadPath:  genWorkloadPath,
			format:        genFormat,
			cooks:         [3]int{genNormalCooks, genVeganCooks, genVIPCooks},
			speed:         genSpeed,
			breakAfter:    genBreakAfter,
			breakDuration: genBreakDuration,
			autoPromote:   genAutoPromote,
		}
		if cmd.Flags().Changed("seed") {
			o.seed = &genSeed
		}
		sc, err := generateScenario(o)
		if err != nil {
			logrus.Fatalf("Generate failed: %v", err)
		}
		if err := writeScenario(sc, o.format, os.Stdout); err != nil {
			logrus.Fatalf("Failed to write scenario: %v", err)
		}
	},
}

func init() {
	generateCmd.Flags().StringVar(&genWorkloadPath, "from", "", "Path to a workload spec YAML file")
	_ = generateCmd.MarkFlagRequired("from")
	generateCmd.Flags().StringVar(&genFormat, "format", "yaml", "Output format (yaml, legacy)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the workload seed")
	generateCmd.Flags().IntVar(&genNormalCooks, "normal-cooks", 1, "Number of Normal cooks")
	generateCmd.Flags().IntVar(&genVeganCooks, "vegan-cooks", 1, "Number of Vegan cooks")
	generateCmd.Flags().IntVar(&genVIPCooks, "vip-cooks", 1, "Number of VIP cooks")
	generateCmd.Flags().IntVar(&genSpeed, "speed", 1, "Dishes per tick for every cook")
	generateCmd.Flags().IntVar(&genBreakAfter, "break-after", 0, "Orders served before a break (0 = never)")
	generateCmd.Flags().Int64Var(&genBreakDuration, "break-duration", 0, "Break length in ticks for every cook")
	generateCmd.Flags().Int64Var(&genAutoPromote, "auto-promote-after", -1, "Wait ticks before a Normal order is promoted (< 0 = never)")

	rootCmd.AddCommand(generateCmd)
}
