// Defines the Order struct that models a single customer order in the simulation.
// Tracks arrival, service start and finish ticks, remaining dishes and lateness.

package sim

import (
	"fmt"
	"strings"
)

// MaxOrderID is the largest order ID accepted by the loaders.
const MaxOrderID = 999

// OrderType is the order category. It also selects the waiting pool.
type OrderType int

const (
	OrderNormal OrderType = iota
	OrderVegan
	OrderVIP

	numOrderTypes = 3
)

// OrderTypes lists every order type in reporting order.
var OrderTypes = []OrderType{OrderNormal, OrderVegan, OrderVIP}

func (t OrderType) String() string {
	switch t {
	case OrderNormal:
		return "normal"
	case OrderVegan:
		return "vegan"
	case OrderVIP:
		return "vip"
	default:
		return fmt.Sprintf("OrderType(%d)", int(t))
	}
}

// Letter is the legacy single-letter code ("N", "G", "V").
func (t OrderType) Letter() string {
	switch t {
	case OrderNormal:
		return "N"
	case OrderVegan:
		return "G"
	case OrderVIP:
		return "V"
	default:
		return "?"
	}
}

// ParseOrderType accepts the long names ("normal", "vegan", "vip") and the
// single-letter codes of the legacy input format ("N", "G", "V").
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "n":
		return OrderNormal, nil
	case "vegan", "g":
		return OrderVegan, nil
	case "vip", "v":
		return OrderVIP, nil
	}
	return 0, fmt.Errorf("unknown order type %q", s)
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus int

const (
	StatusWaiting OrderStatus = iota
	StatusInService
	StatusDone
)

func (s OrderStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusInService:
		return "in-service"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
}

// Order is owned by exactly one of: a waiting pool, the in-service set or the
// finished set. A cook serving it holds a non-owning pointer; CookID is the
// back-reference.
type Order struct {
	ID     int         // Unique identifier (1..MaxOrderID)
	Type   OrderType   // Current category; promotion rewrites it to OrderVIP
	Status OrderStatus // Must match the structure that holds the order

	Size         int     // Dishes still to cook; shrinks on preemption
	OriginalSize int     // Dishes requested at arrival
	Money        float64 // Total order money, including promotion bonuses

	ArrivalTime      int64 // Tick the order arrived; preserved across preemption
	ServiceStartTime int64 // Tick of the most recent assignment to a cook
	FinishTime       int64 // Tick the order was completed
	Deadline         int64 // Computed at completion
	Late             bool  // FinishTime > Deadline

	CookID   int // Cook currently serving the order, 0 when none
	ServedBy int // Cook that completed the order

	Priority     int  // VIP priority key, computed when the order enters the VIP pool
	AutoPromoted bool // Promoted because it waited too long
	Promoted     bool // Promoted by an explicit promotion event
	Preemptions  int  // Times the order was taken away from a cook
}

// NewOrder creates a waiting order.
func NewOrder(id int, typ OrderType, size int, money float64, arrival int64) *Order {
	return &Order{
		ID:           id,
		Type:         typ,
		Status:       StatusWaiting,
		Size:         size,
		OriginalSize: size,
		Money:        money,
		ArrivalTime:  arrival,
	}
}

// WaitTime is the number of ticks between arrival and the final service start.
func (o *Order) WaitTime() int64 {
	return o.ServiceStartTime - o.ArrivalTime
}

// ServiceTime is the number of ticks of the final service.
func (o *Order) ServiceTime() int64 {
	return o.FinishTime - o.ServiceStartTime
}

// Turnaround is the number of ticks between arrival and completion.
func (o *Order) Turnaround() int64 {
	return o.FinishTime - o.ArrivalTime
}

// ComputeDeadline returns arrival + size*2 + money/50, truncated to a tick.
// The current (possibly shrunk) size is used.
func (o *Order) ComputeDeadline() int64 {
	return o.ArrivalTime + int64(float64(o.Size)*2.0+o.Money/50.0)
}

// String returns a human-readable representation of an Order.
func (o Order) String() string {
	return fmt.Sprintf("Order: (ID: %d, Type: %s, Status: %s, Size: %d, ArrivalTime: %d)",
		o.ID, o.Type, o.Status, o.Size, o.ArrivalTime)
}
