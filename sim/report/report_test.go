package report

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/internal/testutil"
	"github.com/inference-sim/restaurant-sim/sim/scenario"
	"github.com/inference-sim/restaurant-sim/sim/trace"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func runScenario(t *testing.T, path string, opts ...sim.Option) *sim.Simulator {
	t.Helper()
	sc, err := scenario.Load(path)
	require.NoError(t, err)
	s, err := sc.Build(opts...)
	require.NoError(t, err)
	s.Run()
	return s
}

func TestGoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			s := runScenario(t, testutil.TestdataPath(t, tc.Scenario))
			r := Build(s)

			want := tc.Metrics
			assert.Equal(t, want.Finished, len(r.Orders))
			assert.Equal(t, want.Late, r.Late)
			assert.Equal(t, want.AutoPromoted, r.AutoPromoted)
			assert.Equal(t, want.Preemptions, r.Preemptions)
			assert.Equal(t, want.BreaksTaken, r.BreaksTaken)
			assert.Equal(t, want.SimEndedTick, r.SimEnded)
			ids := make([]int, len(r.Orders))
			for i, o := range r.Orders {
				ids[i] = o.ID
			}
			assert.Equal(t, want.FinishedOrder, ids)
			testutil.AssertFloat64Equal(t, "avg_wait", want.AvgWait, r.AvgWait, 1e-9)
			testutil.AssertFloat64Equal(t, "avg_service", want.AvgService, r.AvgService, 1e-9)
			testutil.AssertFloat64Equal(t, "avg_turnaround", want.AvgTurnaround, r.AvgTurnaround, 1e-9)

			if tc.Report != "" {
				var buf bytes.Buffer
				require.NoError(t, r.WriteText(&buf))
				assert.Equal(t, testutil.ReadGoldenFile(t, tc.Report), buf.String())
			}
		})
	}
}

func TestBuild_RunIDAndCookOrder(t *testing.T) {
	// GIVEN a roster of every type with speeds sorted fastest first
	cfg := sim.DefaultSimConfig()
	cfg.InjuryModel = "none"
	cfg.SortCooksBySpeed = true
	cfg.Roster = sim.RosterConfig{
		Normal: sim.CookSpec{Count: 2, Speeds: []int{1, 3}},
		Vegan:  sim.CookSpec{Count: 1, Speed: 2},
		VIP:    sim.CookSpec{Count: 1, Speed: 1},
	}
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	require.NoError(t, s.LoadEvents([]sim.Event{sim.NewArrivalEvent(1, 1, sim.OrderNormal, 3, 0)}))
	s.Run()

	// WHEN the report is built twice
	a, b := Build(s), Build(s)

	// THEN each has its own run ID
	_, err = uuid.Parse(a.RunID)
	assert.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)

	// AND cooks are grouped by type in serving preference order
	labels := make([]string, len(a.Cooks))
	for i, c := range a.Cooks {
		labels[i] = c.Label
	}
	assert.Equal(t, []string{"N2", "N1", "G3", "V4"}, labels)
	assert.Equal(t, TypeCounts{Normal: 2, Vegan: 1, VIP: 1}, a.CooksByType)
	// the fast cook took the order
	assert.Equal(t, 1, a.Cooks[0].Served.Normal)
	assert.Equal(t, 2, a.Orders[0].ServedBy)
	assert.Nil(t, a.Trace)
}

func TestBuild_UnfinishedAndTrace(t *testing.T) {
	cfg := sim.DefaultSimConfig()
	cfg.InjuryModel = "none"
	cfg.MaxTicks = 3
	cfg.Roster.Normal = sim.CookSpec{Count: 1, Speed: 1}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	s, err := sim.NewSimulator(cfg, sim.WithTrace(st))
	require.NoError(t, err)
	require.NoError(t, s.LoadEvents([]sim.Event{
		sim.NewArrivalEvent(1, 1, sim.OrderNormal, 10, 0),
		sim.NewArrivalEvent(1, 2, sim.OrderNormal, 1, 0),
		sim.NewCancellationEvent(2, 2),
		sim.NewArrivalEvent(2, 3, sim.OrderVIP, 1, 0),
	}))
	s.Run()

	r := Build(s)

	// order 3 preempted order 1 at tick 2 and finished at 3; order 1 is back in service
	assert.Equal(t, int64(3), r.SimEnded)
	assert.Equal(t, 3, r.Arrived)
	assert.Equal(t, 1, r.Cancelled)
	assert.Equal(t, 1, r.Unfinished)
	require.Len(t, r.Orders, 1)
	assert.Equal(t, 3, r.Orders[0].ID)
	require.NotNil(t, r.Trace)
	assert.Equal(t, 1, r.Trace.Preemptions)
	assert.Equal(t, 1, r.Trace.CancelsApplied)
}

func TestWriteJSON(t *testing.T) {
	s := runScenario(t, testutil.TestdataPath(t, "scenarios/preemption.yaml"))
	r := Build(s)

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Equal(t, 6.0, decoded["arrived"])
	assert.Equal(t, 1.0, decoded["preemptions"])
	assert.Equal(t, 3.0, decoded["late"])
	assert.NotContains(t, decoded, "trace")

	orders := decoded["orders"].([]any)
	require.Len(t, orders, 6)
	last := orders[5].(map[string]any)
	assert.Equal(t, 1.0, last["id"])
	assert.Equal(t, 8.0, last["size"])
	assert.Equal(t, 10.0, last["original_size"])
	assert.Equal(t, 1.0, last["preemptions"])

	cooks := decoded["cooks"].([]any)
	require.Len(t, cooks, 1)
	assert.Equal(t, "N1", cooks[0].(map[string]any)["label"])
}

func TestWriteText_EmptyRun(t *testing.T) {
	cfg := sim.DefaultSimConfig()
	cfg.InjuryModel = "none"
	cfg.Roster.Vegan = sim.CookSpec{Count: 1, Speed: 1}
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	s.Run()

	var buf bytes.Buffer
	require.NoError(t, Build(s).WriteText(&buf))

	assert.Equal(t, "FT\tID\tAT\tWT\tST\n\n"+
		"Orders: 0 [Norm:0, Veg:0, VIP:0]\n"+
		"Cooks: 1 [Norm:0, Veg:1, VIP:0]\n"+
		"Avg Wait = 0.00, Avg Serv = 0.00\n"+
		"Auto-promoted: 0\n"+
		"Late Orders: 0\n"+
		"Cook G1: Orders [Norm:0, Veg:0, VIP:0], Busy: 0, Idle: 0, Break/Injury: 0, Utilization: 0.0%\n",
		buf.String())
}
