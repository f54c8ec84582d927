package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testConfig returns a config with the given cook counts at speed 1, no
// injuries, no breaks, no auto-promotion and strict invariant checking.
func testConfig(normal, vegan, vip int) SimConfig {
	cfg := DefaultSimConfig()
	cfg.Roster = RosterConfig{
		Normal: CookSpec{Count: normal, Speed: 1},
		Vegan:  CookSpec{Count: vegan, Speed: 1},
		VIP:    CookSpec{Count: vip, Speed: 1},
	}
	cfg.InjuryModel = "none"
	cfg.StrictInvariants = true
	return cfg
}

// newTestSimulator builds a simulator and loads events, failing the test on error.
func newTestSimulator(t *testing.T, cfg SimConfig, events []Event, opts ...Option) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, s.LoadEvents(events))
	return s
}

// stepN advances the simulator by n ticks.
func stepN(s *Simulator, n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

func mustOrder(t *testing.T, s *Simulator, id int) *Order {
	t.Helper()
	o, ok := s.Order(id)
	require.True(t, ok, "order %d not found", id)
	return o
}

func mustCook(t *testing.T, s *Simulator, id int) *Cook {
	t.Helper()
	c, ok := s.Cook(id)
	require.True(t, ok, "cook %d not found", id)
	return c
}

func orderIDs(orders []*Order) []int {
	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

// recordingSink keeps every snapshot it receives.
type recordingSink struct {
	snaps []*Snapshot
}

func (r *recordingSink) OnTick(s *Snapshot) { r.snaps = append(r.snaps, s) }
