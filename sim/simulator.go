// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/restaurant-sim/sim/trace"
)

// Simulator is the restaurant controller: it owns the clock, the event queue,
// the waiting pools, the in-service and finished sets, and the cook roster.
// It is single-threaded; every mutation happens inside Step.
type Simulator struct {
	Clock int64

	config SimConfig

	events   EventQueue
	eventSeq int64
	// arrivalIDs holds the IDs of every scheduled arrival, fired or not.
	arrivalIDs map[int]bool

	normal *NormalPool
	vegan  *VeganQueue
	vip    *VIPQueue

	// inService is ordered by assignment.
	inService []*Order
	// finished is ordered by completion.
	finished          []*Order
	completedThisTick []*Order
	// orders indexes every live order (waiting, in service or finished) by ID.
	orders map[int]*Order

	// cooks holds the roster per type in serving preference order.
	cooks    [numCookTypes][]*Cook
	allCooks []*Cook // ID order
	cookByID map[int]*Cook

	priority PriorityPolicy
	injury   InjuryModel
	sink     Sink
	trace    *trace.SimulationTrace
	rng      *PartitionedRNG

	Metrics *Metrics
}

// Option customizes a Simulator at construction.
type Option func(*Simulator)

// WithSink attaches a per-tick observer.
func WithSink(s Sink) Option {
	return func(sim *Simulator) { sim.sink = s }
}

// WithInjuryModel overrides the injury model named in the config.
func WithInjuryModel(m InjuryModel) Option {
	return func(sim *Simulator) { sim.injury = m }
}

// WithPriorityPolicy overrides the priority policy named in the config.
func WithPriorityPolicy(p PriorityPolicy) Option {
	return func(sim *Simulator) { sim.priority = p }
}

// WithTrace records scheduling decisions into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(sim *Simulator) { sim.trace = st }
}

// WithStrictInvariants checks invariants after every tick and panics on
// the first violation.
func WithStrictInvariants() Option {
	return func(sim *Simulator) { sim.config.StrictInvariants = true }
}

// NewSimulator validates cfg and builds the cook roster. Cook IDs are assigned
// globally from 1: Normal cooks first, then Vegan, then VIP.
func NewSimulator(cfg SimConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	sim := &Simulator{
		config:     cfg,
		events:     make(EventQueue, 0),
		arrivalIDs: make(map[int]bool),
		normal:     &NormalPool{},
		vegan:      &VeganQueue{},
		vip:        &VIPQueue{},
		orders:     make(map[int]*Order),
		cookByID:   make(map[int]*Cook),
		priority:   NewPriorityPolicy(cfg.PriorityPolicy),
		injury:     NewInjuryModel(cfg.InjuryModel, cfg.InjuryProbability, rng),
		rng:        rng,
		Metrics:    NewMetrics(),
	}
	nextID := 1
	for _, t := range CookTypes {
		spec := cfg.Roster.Spec(t)
		for i := 0; i < spec.Count; i++ {
			c := NewCook(nextID, t, spec.SpeedOf(i), cfg.BreakAfter, spec.BreakDuration, cfg.FatigueFactor)
			sim.cooks[t] = append(sim.cooks[t], c)
			sim.allCooks = append(sim.allCooks, c)
			sim.cookByID[c.ID] = c
			nextID++
		}
		if cfg.SortCooksBySpeed {
			sort.SliceStable(sim.cooks[t], func(i, j int) bool {
				return sim.cooks[t][i].BaseSpeed > sim.cooks[t][j].BaseSpeed
			})
		}
	}
	for _, opt := range opts {
		opt(sim)
	}
	return sim, nil
}

// Config returns the validated configuration.
func (sim *Simulator) Config() SimConfig { return sim.config }

// Trace returns the attached decision trace, nil when tracing is off.
func (sim *Simulator) Trace() *trace.SimulationTrace { return sim.trace }

// Schedule queues an event. Events with the same tick fire in the order
// they were scheduled.
func (sim *Simulator) Schedule(ev Event) error {
	if err := sim.validateEvent(ev); err != nil {
		return err
	}
	if ev.Kind == EventArrival {
		sim.arrivalIDs[ev.OrderID] = true
	}
	sim.eventSeq++
	heap.Push(&sim.events, eventEntry{event: ev, seqID: sim.eventSeq})
	return nil
}

// LoadEvents schedules events in order and stops at the first invalid one.
func (sim *Simulator) LoadEvents(events []Event) error {
	for i, ev := range events {
		if err := sim.Schedule(ev); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

func (sim *Simulator) validateEvent(ev Event) error {
	if ev.Time <= sim.Clock {
		return fmt.Errorf("%s for order %d at tick %d is not after the current tick %d", ev.Kind, ev.OrderID, ev.Time, sim.Clock)
	}
	if ev.OrderID < 1 || ev.OrderID > MaxOrderID {
		return fmt.Errorf("order id %d out of range 1..%d", ev.OrderID, MaxOrderID)
	}
	switch ev.Kind {
	case EventArrival:
		if sim.arrivalIDs[ev.OrderID] {
			return fmt.Errorf("duplicate arrival for order %d", ev.OrderID)
		}
		if ev.OrderType < OrderNormal || ev.OrderType > OrderVIP {
			return fmt.Errorf("order %d: unknown order type %d", ev.OrderID, int(ev.OrderType))
		}
		if ev.Size < 1 {
			return fmt.Errorf("order %d: size must be >= 1, got %d", ev.OrderID, ev.Size)
		}
		if ev.Money < 0 {
			return fmt.Errorf("order %d: money must be >= 0, got %v", ev.OrderID, ev.Money)
		}
		if !sim.config.Roster.CanServe(ev.OrderType) {
			return fmt.Errorf("order %d: no cook can serve %s orders", ev.OrderID, ev.OrderType)
		}
	case EventCancellation:
	case EventPromotion:
		if ev.Bonus < 0 {
			return fmt.Errorf("promotion of order %d: bonus must be >= 0, got %v", ev.OrderID, ev.Bonus)
		}
	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	return nil
}

// PendingEvents is the number of events not yet fired.
func (sim *Simulator) PendingEvents() int { return sim.events.Len() }

// Finished reports whether the run is over: every pool and the in-service
// set are empty and no event remains.
func (sim *Simulator) Finished() bool {
	return sim.normal.Len() == 0 && sim.vegan.Len() == 0 && sim.vip.Len() == 0 &&
		len(sim.inService) == 0 && sim.events.Len() == 0
}

// Step advances the clock by one tick and runs the pipeline:
// events, auto-promotion, completions, VIP, Normal and Vegan assignment,
// cook updates.
func (sim *Simulator) Step() {
	sim.Clock++
	now := sim.Clock
	sim.completedThisTick = sim.completedThisTick[:0]

	sim.fireEvents(now)
	sim.autoPromote(now)
	sim.completeOrders(now)
	sim.assignVIP(now)
	sim.assignNormal(now)
	sim.assignVegan(now)
	sim.updateCooks(now)

	if n := sim.vip.Len(); n > sim.Metrics.PeakVIPQueueLen {
		sim.Metrics.PeakVIPQueueLen = n
	}
	if sim.config.StrictInvariants {
		if err := sim.CheckInvariants(); err != nil {
			panic(fmt.Sprintf("tick %d: %v", now, err))
		}
	}
	if sim.sink != nil {
		sim.sink.OnTick(sim.snapshot())
	}
}

// Run steps until Finished or until MaxTicks is reached.
func (sim *Simulator) Run() {
	for !sim.Finished() {
		if sim.config.MaxTicks > 0 && sim.Clock >= sim.config.MaxTicks {
			logrus.Warnf("[tick %06d] Stopping at max ticks with %d waiting, %d in service, %d events pending",
				sim.Clock, sim.WaitingCount(), len(sim.inService), sim.events.Len())
			break
		}
		sim.Step()
	}
	sim.Metrics.SimEndedTime = sim.Clock
	logrus.Infof("[tick %06d] Simulation ended: %d orders finished", sim.Clock, sim.Metrics.Finished)
}

// WaitingCount is the number of orders across the three pools.
func (sim *Simulator) WaitingCount() int {
	return sim.normal.Len() + sim.vegan.Len() + sim.vip.Len()
}

func (sim *Simulator) fireEvents(now int64) {
	for _, ev := range sim.events.popDue(now) {
		sim.dispatch(ev, now)
	}
}

func (sim *Simulator) dispatch(ev Event, now int64) {
	switch ev.Kind {
	case EventArrival:
		sim.arrive(ev, now)
	case EventCancellation:
		sim.cancel(ev.OrderID, now)
	case EventPromotion:
		sim.promoteByEvent(ev.OrderID, ev.Bonus, now)
	default:
		panic(fmt.Sprintf("dispatch: unknown event kind %d", int(ev.Kind)))
	}
}

func (sim *Simulator) arrive(ev Event, now int64) {
	o := NewOrder(ev.OrderID, ev.OrderType, ev.Size, ev.Money, now)
	sim.orders[o.ID] = o
	sim.Metrics.Arrived++
	sim.Metrics.ArrivedByType[o.Type]++
	logrus.Infof("<< Arrival: order %d (%s, size %d) at tick %d", o.ID, o.Type, o.Size, now)
	sim.enqueue(o)
}

// enqueue inserts a waiting order into the pool of its type.
func (sim *Simulator) enqueue(o *Order) {
	o.Status = StatusWaiting
	switch o.Type {
	case OrderNormal:
		sim.normal.Push(o)
	case OrderVegan:
		sim.vegan.Push(o)
	case OrderVIP:
		o.Priority = sim.priority.Compute(o)
		sim.vip.Push(o)
	default:
		panic(fmt.Sprintf("enqueue: order %d has unknown type %d", o.ID, int(o.Type)))
	}
}

// Order looks up a live order by ID.
func (sim *Simulator) Order(id int) (*Order, bool) {
	o, ok := sim.orders[id]
	return o, ok
}

// Cook looks up a cook by ID.
func (sim *Simulator) Cook(id int) (*Cook, bool) {
	c, ok := sim.cookByID[id]
	return c, ok
}

// Cooks returns every cook in ID order.
func (sim *Simulator) Cooks() []*Cook { return sim.allCooks }

// CooksOfType returns the cooks of type t in serving preference order.
func (sim *Simulator) CooksOfType(t CookType) []*Cook { return sim.cooks[t] }

func (sim *Simulator) NormalPool() *NormalPool { return sim.normal }
func (sim *Simulator) VeganQueue() *VeganQueue { return sim.vegan }
func (sim *Simulator) VIPQueue() *VIPQueue     { return sim.vip }

// InService returns the orders being cooked, in assignment order.
func (sim *Simulator) InService() []*Order { return sim.inService }

// FinishedOrders returns the completed orders sorted by finish time, then
// service start time, then ID.
func (sim *Simulator) FinishedOrders() []*Order {
	out := make([]*Order, len(sim.finished))
	copy(out, sim.finished)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinishTime != out[j].FinishTime {
			return out[i].FinishTime < out[j].FinishTime
		}
		if out[i].ServiceStartTime != out[j].ServiceStartTime {
			return out[i].ServiceStartTime < out[j].ServiceStartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CookStats returns the end-of-run statistics of every cook in ID order.
func (sim *Simulator) CookStats() []CookStat {
	stats := make([]CookStat, len(sim.allCooks))
	for i, c := range sim.allCooks {
		stats[i] = newCookStat(c)
	}
	return stats
}

// Snapshot returns a copy of the current state.
func (sim *Simulator) Snapshot() *Snapshot { return sim.snapshot() }
