package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/restaurant-sim/sim/scenario"
)

// validateScenarios checks each file and reports one line per file.
// It returns the number of invalid files.
func validateScenarios(paths []string, w io.Writer) int {
	failed := 0
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err == nil {
			err = sc.Validate()
		}
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%d events)\n", path, len(sc.Events))
	}
	return failed
}

var validateCmd = &cobra.Command{
	Use:   "validate SCENARIO...",
	Short: "Check scenario files without running them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if failed := validateScenarios(args, os.Stdout); failed > 0 {
			logrus.Fatalf("%d of %d scenarios are invalid", failed, len(args))
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
