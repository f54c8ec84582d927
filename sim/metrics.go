// Tracks simulation-wide counters and per-cook statistics for final reporting.

package sim

// Metrics aggregates statistics about the simulation
// for final reporting. Time totals accumulate only when an order completes.
type Metrics struct {
	Arrived        int                // orders created by arrival events
	ArrivedByType  [numOrderTypes]int // keyed by the type at arrival
	Finished       int                // orders completed
	FinishedByType [numOrderTypes]int // keyed by the type at completion
	Late           int                // completed after their deadline

	TotalWait       int64 // sum of (service start - arrival)
	TotalService    int64 // sum of (finish - service start)
	TotalTurnaround int64 // sum of (finish - arrival)

	AutoPromoted    int // promoted by the wait threshold
	Promoted        int // promoted by promotion events
	Cancelled       int // removed by cancellation events
	IgnoredEvents   int // cancellations/promotions whose order was not waiting as Normal
	Preemptions     int // Normal orders taken off a cook for a VIP order
	Interruptions   int // orders taken off a cook by an injury
	Injuries        int
	BreaksTaken     int
	BreaksSkipped   int
	PeakVIPQueueLen int

	SimEndedTime int64
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordCompletion(o *Order) {
	m.Finished++
	m.FinishedByType[o.Type]++
	if o.Late {
		m.Late++
	}
	m.TotalWait += o.WaitTime()
	m.TotalService += o.ServiceTime()
	m.TotalTurnaround += o.Turnaround()
}

// AvgWait is the mean wait in ticks over completed orders, 0 when none.
func (m *Metrics) AvgWait() float64 {
	if m.Finished == 0 {
		return 0
	}
	return float64(m.TotalWait) / float64(m.Finished)
}

// AvgService is the mean service time in ticks over completed orders.
func (m *Metrics) AvgService() float64 {
	if m.Finished == 0 {
		return 0
	}
	return float64(m.TotalService) / float64(m.Finished)
}

// AvgTurnaround is the mean turnaround in ticks over completed orders.
func (m *Metrics) AvgTurnaround() float64 {
	if m.Finished == 0 {
		return 0
	}
	return float64(m.TotalTurnaround) / float64(m.Finished)
}

// CookStat is the end-of-run view of one cook.
type CookStat struct {
	ID          int
	Type        CookType
	BaseSpeed   int
	Speed       int
	Served      [numOrderTypes]int // completed orders by order type
	BusyTicks   int64
	IdleTicks   int64
	BreakTicks  int64 // on break or injured
	Utilization float64
}

// Total is the number of orders the cook completed.
func (s CookStat) Total() int {
	return s.Served[OrderNormal] + s.Served[OrderVegan] + s.Served[OrderVIP]
}

func newCookStat(c *Cook) CookStat {
	return CookStat{
		ID:          c.ID,
		Type:        c.Type,
		BaseSpeed:   c.BaseSpeed,
		Speed:       c.Speed,
		Served:      c.Served,
		BusyTicks:   c.BusyTicks,
		IdleTicks:   c.IdleTicks,
		BreakTicks:  c.BreakTicks,
		Utilization: c.Utilization(),
	}
}
