package sim

import (
	"container/heap"
	"fmt"
)

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventArrival EventKind = iota
	EventCancellation
	EventPromotion
)

func (k EventKind) String() string {
	switch k {
	case EventArrival:
		return "arrival"
	case EventCancellation:
		return "cancellation"
	case EventPromotion:
		return "promotion"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a timestamped action applied once to the restaurant state.
// Only the fields of its Kind are meaningful:
//   - Arrival: OrderType, Size, Money
//   - Cancellation: none
//   - Promotion: Bonus
type Event struct {
	Kind    EventKind
	Time    int64 // Tick the event fires at (>= 1)
	OrderID int

	OrderType OrderType
	Size      int
	Money     float64

	Bonus float64
}

// NewArrivalEvent creates an Arrival event.
func NewArrivalEvent(time int64, id int, typ OrderType, size int, money float64) Event {
	return Event{Kind: EventArrival, Time: time, OrderID: id, OrderType: typ, Size: size, Money: money}
}

// NewCancellationEvent creates a Cancellation event.
func NewCancellationEvent(time int64, id int) Event {
	return Event{Kind: EventCancellation, Time: time, OrderID: id}
}

// NewPromotionEvent creates a Promotion event carrying a money bonus.
func NewPromotionEvent(time int64, id int, bonus float64) Event {
	return Event{Kind: EventPromotion, Time: time, OrderID: id, Bonus: bonus}
}

// Timestamp returns the tick of the event.
func (e Event) Timestamp() int64 {
	return e.Time
}

func (e Event) String() string {
	switch e.Kind {
	case EventArrival:
		return fmt.Sprintf("Arrival(t=%d, id=%d, type=%s, size=%d, money=%.2f)", e.Time, e.OrderID, e.OrderType, e.Size, e.Money)
	case EventPromotion:
		return fmt.Sprintf("Promotion(t=%d, id=%d, bonus=%.2f)", e.Time, e.OrderID, e.Bonus)
	default:
		return fmt.Sprintf("%s(t=%d, id=%d)", e.Kind, e.Time, e.OrderID)
	}
}

// eventEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking between events of the same tick.
type eventEntry struct {
	event Event
	seqID int64
}

// EventQueue is a min-heap ordered by (Time, seqID).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []eventEntry

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].event.Time != eq[j].event.Time {
		return eq[i].event.Time < eq[j].event.Time
	}
	return eq[i].seqID < eq[j].seqID
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// PeekTime returns the tick of the earliest event; ok is false when empty.
func (eq EventQueue) PeekTime() (int64, bool) {
	if len(eq) == 0 {
		return 0, false
	}
	return eq[0].event.Time, true
}

// popDue removes and returns every event with Time <= now, in firing order.
func (eq *EventQueue) popDue(now int64) []Event {
	var due []Event
	for eq.Len() > 0 && (*eq)[0].event.Time <= now {
		due = append(due, heap.Pop(eq).(eventEntry).event)
	}
	return due
}
