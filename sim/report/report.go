// Package report turns a finished simulation into the end-of-run report,
// written either in the classic tab-separated text layout or as JSON.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/trace"
)

// TypeCounts counts by order or cook type.
type TypeCounts struct {
	Normal int `json:"normal"`
	Vegan  int `json:"vegan"`
	VIP    int `json:"vip"`
}

// Total is the sum over the three types.
func (c TypeCounts) Total() int { return c.Normal + c.Vegan + c.VIP }

func countsOf(a [3]int) TypeCounts {
	return TypeCounts{Normal: a[sim.OrderNormal], Vegan: a[sim.OrderVegan], VIP: a[sim.OrderVIP]}
}

// OrderRecord is one finished order.
type OrderRecord struct {
	ID           int     `json:"id"`
	Type         string  `json:"type"`
	ArrivalTime  int64   `json:"arrival_time"`
	ServiceStart int64   `json:"service_start"`
	FinishTime   int64   `json:"finish_time"`
	Wait         int64   `json:"wait"`
	Service      int64   `json:"service"`
	Turnaround   int64   `json:"turnaround"`
	Size         int     `json:"size"`
	OriginalSize int     `json:"original_size"`
	Money        float64 `json:"money"`
	Deadline     int64   `json:"deadline"`
	Late         bool    `json:"late"`
	ServedBy     int     `json:"served_by"`
	Preemptions  int     `json:"preemptions,omitempty"`
	AutoPromoted bool    `json:"auto_promoted,omitempty"`
	Promoted     bool    `json:"promoted,omitempty"`
}

// CookRecord is the end-of-run view of one cook.
type CookRecord struct {
	Label       string     `json:"label"` // type letter and ID, e.g. "N1"
	ID          int        `json:"id"`
	Type        string     `json:"type"`
	BaseSpeed   int        `json:"base_speed"`
	FinalSpeed  int        `json:"final_speed"`
	Served      TypeCounts `json:"served"`
	Busy        int64      `json:"busy_ticks"`
	Idle        int64      `json:"idle_ticks"`
	BreakInjury int64      `json:"break_injury_ticks"`
	Utilization float64    `json:"utilization_pct"`
}

// Report is the end-of-run summary of a simulation.
type Report struct {
	RunID    string `json:"run_id"`
	SimEnded int64  `json:"sim_ended_tick"`

	Orders       []OrderRecord `json:"orders"` // by finish time, then service start, then ID
	OrdersByType TypeCounts    `json:"orders_by_type"`
	CooksByType  TypeCounts    `json:"cooks_by_type"`
	Arrived      int           `json:"arrived"`
	Unfinished   int           `json:"unfinished"` // waiting or in service when the run stopped

	AvgWait       float64 `json:"avg_wait"`
	AvgService    float64 `json:"avg_service"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	WaitP50       float64 `json:"wait_p50"`
	WaitP95       float64 `json:"wait_p95"`
	TurnaroundP50 float64 `json:"turnaround_p50"`
	TurnaroundP95 float64 `json:"turnaround_p95"`

	AutoPromoted    int `json:"auto_promoted"`
	Promoted        int `json:"promoted"`
	Cancelled       int `json:"cancelled"`
	IgnoredEvents   int `json:"ignored_events"`
	Late            int `json:"late"`
	Preemptions     int `json:"preemptions"`
	Interruptions   int `json:"interruptions"`
	Injuries        int `json:"injuries"`
	BreaksTaken     int `json:"breaks_taken"`
	BreaksSkipped   int `json:"breaks_skipped"`
	PeakVIPQueueLen int `json:"peak_vip_queue"`

	Cooks []CookRecord `json:"cooks"` // Normal, Vegan, then VIP, each in serving preference order

	Trace *trace.TraceSummary `json:"trace,omitempty"`
}

// Build assembles the report of a simulation after Run, under a fresh run ID.
func Build(s *sim.Simulator) *Report {
	m := s.Metrics
	finished := s.FinishedOrders()
	dist := sim.NewTickDistribution(finished)
	r := &Report{
		RunID:           uuid.NewString(),
		SimEnded:        m.SimEndedTime,
		Orders:          make([]OrderRecord, 0, len(finished)),
		OrdersByType:    countsOf(m.FinishedByType),
		Arrived:         m.Arrived,
		Unfinished:      s.WaitingCount() + len(s.InService()),
		AvgWait:         m.AvgWait(),
		AvgService:      m.AvgService(),
		AvgTurnaround:   m.AvgTurnaround(),
		WaitP50:         sim.CalculatePercentile(dist.Wait, 50),
		WaitP95:         sim.CalculatePercentile(dist.Wait, 95),
		TurnaroundP50:   sim.CalculatePercentile(dist.Turnaround, 50),
		TurnaroundP95:   sim.CalculatePercentile(dist.Turnaround, 95),
		AutoPromoted:    m.AutoPromoted,
		Promoted:        m.Promoted,
		Cancelled:       m.Cancelled,
		IgnoredEvents:   m.IgnoredEvents,
		Late:            m.Late,
		Preemptions:     m.Preemptions,
		Interruptions:   m.Interruptions,
		Injuries:        m.Injuries,
		BreaksTaken:     m.BreaksTaken,
		BreaksSkipped:   m.BreaksSkipped,
		PeakVIPQueueLen: m.PeakVIPQueueLen,
	}
	for _, o := range finished {
		r.Orders = append(r.Orders, OrderRecord{
			ID:           o.ID,
			Type:         o.Type.String(),
			ArrivalTime:  o.ArrivalTime,
			ServiceStart: o.ServiceStartTime,
			FinishTime:   o.FinishTime,
			Wait:         o.WaitTime(),
			Service:      o.ServiceTime(),
			Turnaround:   o.Turnaround(),
			Size:         o.Size,
			OriginalSize: o.OriginalSize,
			Money:        o.Money,
			Deadline:     o.Deadline,
			Late:         o.Late,
			ServedBy:     o.ServedBy,
			Preemptions:  o.Preemptions,
			AutoPromoted: o.AutoPromoted,
			Promoted:     o.Promoted,
		})
	}
	var cookCounts [3]int
	for _, t := range sim.CookTypes {
		for _, c := range s.CooksOfType(t) {
			cookCounts[t]++
			r.Cooks = append(r.Cooks, CookRecord{
				Label:       fmt.Sprintf("%s%d", c.Type.Letter(), c.ID),
				ID:          c.ID,
				Type:        c.Type.String(),
				BaseSpeed:   c.BaseSpeed,
				FinalSpeed:  c.Speed,
				Served:      countsOf(c.Served),
				Busy:        c.BusyTicks,
				Idle:        c.IdleTicks,
				BreakInjury: c.BreakTicks,
				Utilization: c.Utilization(),
			})
		}
	}
	r.CooksByType = TypeCounts{Normal: cookCounts[sim.CookNormal], Vegan: cookCounts[sim.CookVegan], VIP: cookCounts[sim.CookVIP]}
	if st := s.Trace(); st.Enabled() {
		r.Trace = trace.Summarize(st)
	}
	return r
}

// WriteText writes the classic report: one FT/ID/AT/WT/ST line per finished
// order, then totals and per-cook statistics.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "FT\tID\tAT\tWT\tST\n")
	for _, o := range r.Orders {
		fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\n", o.FinishTime, o.ID, o.ArrivalTime, o.Wait, o.Service)
	}
	fmt.Fprintf(bw, "\nOrders: %d [Norm:%d, Veg:%d, VIP:%d]\n",
		r.OrdersByType.Total(), r.OrdersByType.Normal, r.OrdersByType.Vegan, r.OrdersByType.VIP)
	fmt.Fprintf(bw, "Cooks: %d [Norm:%d, Veg:%d, VIP:%d]\n",
		r.CooksByType.Total(), r.CooksByType.Normal, r.CooksByType.Vegan, r.CooksByType.VIP)
	fmt.Fprintf(bw, "Avg Wait = %.2f, Avg Serv = %.2f\n", r.AvgWait, r.AvgService)
	fmt.Fprintf(bw, "Auto-promoted: %d\n", r.AutoPromoted)
	fmt.Fprintf(bw, "Late Orders: %d\n", r.Late)
	for _, c := range r.Cooks {
		fmt.Fprintf(bw, "Cook %s: Orders [Norm:%d, Veg:%d, VIP:%d], Busy: %d, Idle: %d, Break/Injury: %d, Utilization: %.1f%%\n",
			c.Label, c.Served.Normal, c.Served.Vegan, c.Served.VIP, c.Busy, c.Idle, c.BreakInjury, c.Utilization)
	}
	return bw.Flush()
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
