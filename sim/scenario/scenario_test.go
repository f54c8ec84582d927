package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/workload"
)

const sampleYAML = `
roster:
  normal: {count: 2, speed: 2, break_duration: 3}
  vegan: {count: 1, speed: 1, break_duration: 2}
  vip: {count: 1, speed: 3, break_duration: 1}
break_after: 4
auto_promote_after: 6
injury_model: none
seed: 11
events:
  - {kind: arrival, time: 1, id: 1, type: normal, size: 4, money: 120}
  - {kind: arrival, time: 1, id: 2, type: vegan, size: 2, money: 40}
  - {kind: arrival, time: 2, id: 3, type: vip, size: 3, money: 300}
  - {kind: cancel, time: 3, id: 1}
  - {kind: promote, time: 3, id: 2, bonus: 15}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	s, err := Load(writeFile(t, "dinner.yaml", sampleYAML))
	require.NoError(t, err)

	cfg := s.SimConfig()
	assert.Equal(t, sim.CookSpec{Count: 2, Speed: 2, BreakDuration: 3}, cfg.Roster.Normal)
	assert.Equal(t, 3, cfg.Roster.VIP.Speed)
	assert.Equal(t, 4, cfg.BreakAfter)
	assert.Equal(t, int64(6), cfg.AutoPromoteAfter)
	assert.Equal(t, "none", cfg.InjuryModel)
	assert.Equal(t, int64(11), cfg.Seed)
	// unset fields keep their defaults
	assert.Equal(t, 5, cfg.OverloadThreshold)
	assert.Equal(t, 0.95, cfg.FatigueFactor)
	assert.Equal(t, "weighted", cfg.PriorityPolicy)

	events, err := s.SimEvents()
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, sim.NewArrivalEvent(2, 3, sim.OrderVIP, 3, 300), events[2])
	assert.Equal(t, sim.NewCancellationEvent(3, 1), events[3])
	assert.Equal(t, sim.NewPromotionEvent(3, 2, 15), events[4])
	assert.NoError(t, s.Validate())
}

func TestLoad_YAMLRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeFile(t, "typo.yml", "roster:\n  normal: {count: 1, sped: 2}\n"))
	assert.ErrorContains(t, err, "parsing scenario")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading scenario")
}

func TestLoad_OtherExtensionsAreLegacy(t *testing.T) {
	s, err := Load(writeFile(t, "input.txt", "1 0 0\n1 1 1\n0 0 0 0\n1\nR N 1 1 1 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Roster.Normal.Count)
	assert.Len(t, s.Events, 1)
}

func TestEventSpec_UnknownKind(t *testing.T) {
	_, err := EventSpec{Kind: "refund", Time: 1, ID: 1}.Event()
	assert.ErrorContains(t, err, "unknown event kind")

	_, err = EventSpec{Kind: "arrival", Time: 1, ID: 1, Type: "dessert"}.Event()
	assert.ErrorContains(t, err, "unknown order type")
}

func TestScenario_ValidateReportsBadEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []EventSpec
		want   string
	}{
		{"duplicate id", []EventSpec{
			{Kind: "arrival", Time: 1, ID: 5, Type: "normal", Size: 1},
			{Kind: "arrival", Time: 2, ID: 5, Type: "normal", Size: 1},
		}, "duplicate arrival"},
		{"id out of range", []EventSpec{{Kind: "arrival", Time: 1, ID: 1000, Type: "normal", Size: 1}}, "out of range"},
		{"tick zero", []EventSpec{{Kind: "cancel", Time: 0, ID: 1}}, "not after the current tick"},
		{"no vegan cook", []EventSpec{{Kind: "arrival", Time: 1, ID: 1, Type: "vegan", Size: 1}}, "no cook can serve vegan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{
				Roster: sim.RosterConfig{Normal: sim.CookSpec{Count: 1, Speed: 1}},
				Events: tt.events,
			}
			assert.ErrorContains(t, s.Validate(), tt.want)
		})
	}
}

func TestScenario_ValidateReportsBadConfig(t *testing.T) {
	s := &Scenario{}
	assert.ErrorContains(t, s.Validate(), "roster has no cooks")
}

func TestScenario_WorkloadIDsFollowExplicitEvents(t *testing.T) {
	// GIVEN explicit orders up to id 7 and a workload with no first_id
	s := &Scenario{
		Roster: sim.RosterConfig{Normal: sim.CookSpec{Count: 1, Speed: 1}},
		Events: []EventSpec{
			{Kind: "arrival", Time: 1, ID: 7, Type: "normal", Size: 1},
			{Kind: "arrival", Time: 1, ID: 2, Type: "normal", Size: 1},
		},
		Workload: &workload.WorkloadSpec{
			Seed:    1,
			Horizon: 3,
			Clients: []workload.ClientSpec{{
				Type: "normal", Schedule: "* * * * *",
				Size: workload.RangeSpec{Min: 1}, Money: workload.RangeSpec{Min: 5},
			}},
		},
	}

	// WHEN events are built
	events, err := s.SimEvents()
	require.NoError(t, err)

	// THEN generated ids start at 8 and the whole timeline loads
	require.Len(t, events, 5)
	assert.Equal(t, []int{7, 2, 8, 9, 10}, []int{
		events[0].OrderID, events[1].OrderID, events[2].OrderID, events[3].OrderID, events[4].OrderID,
	})
	assert.NoError(t, s.Validate())
}

func TestScenario_BuildAndRun(t *testing.T) {
	s, err := DecodeYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	simulator, err := s.Build()
	require.NoError(t, err)
	simulator.Run()

	// order 1 started at tick 1, so the cancellation is ignored
	assert.Equal(t, 3, simulator.Metrics.Finished)
	assert.Equal(t, 0, simulator.Metrics.Cancelled)
	assert.Equal(t, 2, simulator.Metrics.IgnoredEvents)
}

func TestFromConfig_RoundTripsThroughYAML(t *testing.T) {
	cfg := sim.DefaultSimConfig()
	cfg.Roster.Normal = sim.CookSpec{Count: 2, Speed: 3, BreakDuration: 1}
	cfg.Roster.VIP = sim.CookSpec{Count: 1, Speed: 1, Speeds: []int{4}}
	cfg.AutoPromoteAfter = 0
	cfg.OverloadThreshold = 2
	cfg.Seed = 99
	events := []sim.Event{
		sim.NewArrivalEvent(1, 1, sim.OrderNormal, 2, 12.5),
		sim.NewPromotionEvent(2, 1, 3),
		sim.NewCancellationEvent(3, 1),
	}

	var buf bytes.Buffer
	require.NoError(t, FromConfig(cfg, events).WriteYAML(&buf))
	back, err := DecodeYAML(&buf)
	require.NoError(t, err)

	assert.Equal(t, cfg, back.SimConfig())
	got, err := back.SimEvents()
	require.NoError(t, err)
	assert.Equal(t, events, got)
}
