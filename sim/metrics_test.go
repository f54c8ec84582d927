package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Averages_EmptyIsZero(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 0.0, m.AvgWait())
	assert.Equal(t, 0.0, m.AvgService())
	assert.Equal(t, 0.0, m.AvgTurnaround())
}

func TestMetrics_RecordCompletion(t *testing.T) {
	m := NewMetrics()
	a := NewOrder(1, OrderNormal, 2, 0, 1)
	a.ServiceStartTime, a.FinishTime = 3, 5
	b := NewOrder(2, OrderVIP, 2, 0, 2)
	b.ServiceStartTime, b.FinishTime, b.Late = 2, 6, true

	m.recordCompletion(a)
	m.recordCompletion(b)

	assert.Equal(t, 2, m.Finished)
	assert.Equal(t, 1, m.FinishedByType[OrderNormal])
	assert.Equal(t, 1, m.FinishedByType[OrderVIP])
	assert.Equal(t, 1, m.Late)
	assert.InDelta(t, 1.0, m.AvgWait(), 1e-9)       // (2 + 0) / 2
	assert.InDelta(t, 3.0, m.AvgService(), 1e-9)    // (2 + 4) / 2
	assert.InDelta(t, 4.0, m.AvgTurnaround(), 1e-9) // (4 + 4) / 2
}

func TestSimulator_CookStats(t *testing.T) {
	s := newTestSimulator(t, testConfig(1, 1, 0), []Event{
		NewArrivalEvent(1, 1, OrderNormal, 2, 0),
		NewArrivalEvent(1, 2, OrderVegan, 1, 0),
	})
	s.Run()

	stats := s.CookStats()

	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].ID)
	assert.Equal(t, CookNormal, stats[0].Type)
	assert.Equal(t, 1, stats[0].Served[OrderNormal])
	assert.Equal(t, 1, stats[0].Total())
	assert.Equal(t, int64(2), stats[0].BusyTicks)
	assert.Equal(t, int64(1), stats[0].IdleTicks)
	assert.InDelta(t, 200.0/3.0, stats[0].Utilization, 1e-9)

	assert.Equal(t, 1, stats[1].Served[OrderVegan])
	assert.Equal(t, int64(1), stats[1].BusyTicks)
	assert.Equal(t, int64(2), stats[1].IdleTicks)
}
