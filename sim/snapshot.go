package sim

import (
	"github.com/sirupsen/logrus"
)

// OrderView is a read-only copy of an order's observable state.
type OrderView struct {
	ID           int
	Type         OrderType
	Status       OrderStatus
	Size         int
	Money        float64
	ArrivalTime  int64
	ServiceStart int64 // most recent assignment, 0 if never assigned
	CookID       int
	Priority     int
	FinishTime   int64
	Late         bool
}

func newOrderView(o *Order) OrderView {
	return OrderView{
		ID:           o.ID,
		Type:         o.Type,
		Status:       o.Status,
		Size:         o.Size,
		Money:        o.Money,
		ArrivalTime:  o.ArrivalTime,
		ServiceStart: o.ServiceStartTime,
		CookID:       o.CookID,
		Priority:     o.Priority,
		FinishTime:   o.FinishTime,
		Late:         o.Late,
	}
}

func viewsOf(orders []*Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	return views
}

// CookView is a read-only copy of a cook's observable state.
type CookView struct {
	ID      int
	Type    CookType
	Status  CookStatus
	Speed   int
	OrderID int // 0 unless busy
}

// Snapshot is the end-of-tick state handed to a Sink. It owns its slices;
// sinks may retain it.
type Snapshot struct {
	Clock int64

	WaitingNormal []OrderView // front first
	WaitingVegan  []OrderView // front first
	WaitingVIP    []OrderView // dequeue order
	InService     []OrderView
	Finished      []OrderView // completion order

	// CompletedThisTick lists the orders finished during this tick.
	CompletedThisTick []OrderView

	Cooks   []CookView // ID order
	Metrics Metrics    // cumulative counters as of the end of the tick
}

// Orders returns every order in the snapshot, waiting pools first.
func (s *Snapshot) Orders() []OrderView {
	all := make([]OrderView, 0, len(s.WaitingNormal)+len(s.WaitingVegan)+len(s.WaitingVIP)+len(s.InService)+len(s.Finished))
	all = append(all, s.WaitingNormal...)
	all = append(all, s.WaitingVegan...)
	all = append(all, s.WaitingVIP...)
	all = append(all, s.InService...)
	all = append(all, s.Finished...)
	return all
}

// CookCount returns the number of cooks in the given status.
func (s *Snapshot) CookCount(status CookStatus) int {
	n := 0
	for _, c := range s.Cooks {
		if c.Status == status {
			n++
		}
	}
	return n
}

// Sink receives a snapshot once per tick. Sinks are observers: they MUST NOT
// influence scheduling.
type Sink interface {
	OnTick(s *Snapshot)
}

// MultiSink fans a snapshot out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) OnTick(s *Snapshot) {
	for _, sink := range m {
		sink.OnTick(s)
	}
}

// LogSink writes a one-line tick summary at debug level.
type LogSink struct{}

func (LogSink) OnTick(s *Snapshot) {
	logrus.Debugf("[tick %06d] waiting normal=%d vegan=%d vip=%d | in-service=%d finished=%d | cooks busy=%d break=%d injured=%d",
		s.Clock, len(s.WaitingNormal), len(s.WaitingVegan), len(s.WaitingVIP),
		len(s.InService), len(s.Finished),
		s.CookCount(CookBusy), s.CookCount(CookOnBreak), s.CookCount(CookInjured))
}

// snapshot copies the current state. Only called when a sink is attached.
func (sim *Simulator) snapshot() *Snapshot {
	snap := &Snapshot{
		Clock:             sim.Clock,
		WaitingNormal:     viewsOf(sim.normal.Orders()),
		WaitingVegan:      viewsOf(sim.vegan.Orders()),
		WaitingVIP:        viewsOf(sim.vip.Orders()),
		InService:         viewsOf(sim.inService),
		Finished:          viewsOf(sim.finished),
		CompletedThisTick: viewsOf(sim.completedThisTick),
		Cooks:             make([]CookView, 0, len(sim.allCooks)),
		Metrics:           *sim.Metrics,
	}
	for _, c := range sim.allCooks {
		view := CookView{ID: c.ID, Type: c.Type, Status: c.Status, Speed: c.Speed}
		if o := c.CurrentOrder(); o != nil {
			view.OrderID = o.ID
		}
		snap.Cooks = append(snap.Cooks, view)
	}
	return snap
}
