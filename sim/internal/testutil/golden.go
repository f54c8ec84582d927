// Package testutil provides shared test infrastructure for the restaurant
// simulator. It consolidates golden dataset types and assertion helpers used
// across the sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single test case from the golden dataset.
type GoldenTestCase struct {
	Name     string        `json:"name"`
	Scenario string        `json:"scenario"`         // path relative to testdata/
	Report   string        `json:"report,omitempty"` // expected text report, relative to testdata/
	Metrics  GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Finished      int   `json:"finished"`
	Late          int   `json:"late"`
	AutoPromoted  int   `json:"auto_promoted"`
	Preemptions   int   `json:"preemptions"`
	BreaksTaken   int   `json:"breaks_taken"`
	SimEndedTick  int64 `json:"sim_ended_tick"`
	FinishedOrder []int `json:"finished_order"`

	// Deterministic floating-point metrics
	AvgWait       float64 `json:"avg_wait"`
	AvgService    float64 `json:"avg_service"`
	AvgTurnaround float64 `json:"avg_turnaround"`
}

// TestdataPath resolves name inside the repository's testdata/ directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, "goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// ReadGoldenFile returns the contents of a file in testdata/.
func ReadGoldenFile(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", name, err)
	}
	return string(data)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
