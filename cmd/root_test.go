package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/restaurant-sim/sim/report"
	"github.com/inference-sim/restaurant-sim/sim/scenario"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func testdata(name string) string {
	return filepath.Join("..", "testdata", name)
}

func defaultRunOptions(path string) runOptions {
	return runOptions{scenarioPath: path, traceLevel: "none", reportFormat: "text"}
}

func TestRunSimulation_TextReportToStdout(t *testing.T) {
	// GIVEN the preemption scenario and default options
	var out bytes.Buffer

	// WHEN it runs
	require.NoError(t, runSimulation(defaultRunOptions(testdata("scenarios/preemption.yaml")), &out))

	// THEN stdout carries the classic text report
	want, err := os.ReadFile(testdata("preemption.report.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(want), out.String())
}

func TestRunSimulation_JSONReportToFile(t *testing.T) {
	dir := t.TempDir()
	o := defaultRunOptions(testdata("scenarios/breaks.yaml"))
	o.reportFormat = "json"
	o.outputPath = filepath.Join(dir, "report.json")

	var out bytes.Buffer
	require.NoError(t, runSimulation(o, &out))
	assert.Empty(t, out.String(), "report must go to the file, not stdout")

	data, err := os.ReadFile(o.outputPath)
	require.NoError(t, err)
	var r report.Report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, 2, r.BreaksTaken)
	assert.Equal(t, int64(6), r.SimEnded)
}

func TestRunSimulation_MetricsFile(t *testing.T) {
	o := defaultRunOptions(testdata("scenarios/preemption.yaml"))
	o.metricsPath = filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, runSimulation(o, &bytes.Buffer{}))

	data, err := os.ReadFile(o.metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restaurant_preemptions_total 1")
}

func TestRunSimulation_OverridesScenarioValues(t *testing.T) {
	// GIVEN the preemption scenario capped at tick 3 from the command line
	o := defaultRunOptions(testdata("scenarios/preemption.yaml"))
	o.reportFormat = "json"
	o.traceLevel = "decisions"
	maxTicks := int64(3)
	o.maxTicks = &maxTicks

	var out bytes.Buffer
	require.NoError(t, runSimulation(o, &out))

	// THEN the run stops early with the trace summary attached
	var r report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, int64(3), r.SimEnded)
	assert.Greater(t, r.Unfinished, 0)
	require.NotNil(t, r.Trace)
}

func TestRunOptions_Apply_OnlySetFields(t *testing.T) {
	autoP := int64(9)
	sc := &scenario.Scenario{BreakAfter: 3, AutoPromoteAfter: &autoP, PriorityPolicy: "weighted"}
	seed := int64(77)
	threshold := 2
	o := runOptions{seed: &seed, overloadThreshold: &threshold, injuryModel: "none"}

	o.apply(sc)

	assert.Equal(t, int64(77), sc.Seed)
	assert.Equal(t, 2, *sc.OverloadThreshold)
	assert.Equal(t, "none", sc.InjuryModel)
	assert.Equal(t, 3, sc.BreakAfter)
	assert.Equal(t, int64(9), *sc.AutoPromoteAfter)
	assert.Equal(t, "weighted", sc.PriorityPolicy)
}

func TestRunSimulation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runOptions)
		errSub string
	}{
		{"bad trace level", func(o *runOptions) { o.traceLevel = "verbose" }, "unknown trace level"},
		{"bad report format", func(o *runOptions) { o.reportFormat = "csv" }, "unknown report format"},
		{"missing scenario", func(o *runOptions) { o.scenarioPath = testdata("nope.yaml") }, "reading scenario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultRunOptions(testdata("scenarios/preemption.yaml"))
			tt.mutate(&o)
			err := runSimulation(o, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}
