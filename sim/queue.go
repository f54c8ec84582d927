// Implements the three waiting pools. Orders are enqueued on arrival,
// promotion, preemption and injury interruption.

package sim

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"
)

// WaitingPool is the capability shared by the three waiting structures.
// Each keeps its own ordering policy: the Normal pool and the Vegan queue are
// FIFO, the VIP pool is ordered by priority key.
type WaitingPool interface {
	Len() int
	// Peek returns the next order by the pool's policy without removing it.
	Peek() *Order
	// Push inserts an order. The VIP pool reads Order.Priority.
	Push(o *Order)
	// Pop removes and returns the next order, nil when empty.
	Pop() *Order
	// Remove deletes the order with the given ID; nil when absent.
	Remove(id int) *Order
	// Orders returns the waiting orders in service order.
	Orders() []*Order
}

func ordersString(orders []*Order) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, o := range orders {
		sb.WriteString(fmt.Sprint(o.ID))
		if i < len(orders)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// === NormalPool ===

// NormalPool is the insertion-ordered list of waiting Normal orders.
// Supports O(1) peek/pop of the oldest entry and O(n) removal by ID.
type NormalPool struct {
	queue []*Order
}

func (p *NormalPool) Len() int { return len(p.queue) }

// Push appends an order to the back of the pool.
func (p *NormalPool) Push(o *Order) {
	if o == nil {
		panic("NormalPool.Push: order must not be nil")
	}
	p.queue = append(p.queue, o)
}

// Peek returns the order at the front of the pool, nil when empty.
func (p *NormalPool) Peek() *Order {
	if len(p.queue) == 0 {
		return nil
	}
	return p.queue[0]
}

// Pop removes the order at the front of the pool.
func (p *NormalPool) Pop() *Order {
	if len(p.queue) == 0 {
		return nil
	}
	o := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return o
}

// Remove deletes the order with the given ID, preserving the order of the rest.
func (p *NormalPool) Remove(id int) *Order {
	for i, o := range p.queue {
		if o.ID == id {
			p.queue = append(p.queue[:i:i], p.queue[i+1:]...)
			return o
		}
	}
	return nil
}

// Find returns the waiting order with the given ID without removing it.
func (p *NormalPool) Find(id int) *Order {
	for _, o := range p.queue {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Orders returns the pool's internal storage, front first.
// Callers MUST NOT append to or reslice it.
func (p *NormalPool) Orders() []*Order { return p.queue }

func (p *NormalPool) String() string { return ordersString(p.queue) }

// === VeganQueue ===

// VeganQueue is a strict FIFO of waiting Vegan orders.
type VeganQueue struct {
	queue []*Order
}

func (q *VeganQueue) Len() int { return len(q.queue) }

// Push enqueues an order at the back.
func (q *VeganQueue) Push(o *Order) {
	if o == nil {
		panic("VeganQueue.Push: order must not be nil")
	}
	q.queue = append(q.queue, o)
}

// Peek returns the front order, nil when empty.
func (q *VeganQueue) Peek() *Order {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[0]
}

// Pop dequeues the front order.
func (q *VeganQueue) Pop() *Order {
	if len(q.queue) == 0 {
		return nil
	}
	o := q.queue[0]
	q.queue[0] = nil
	q.queue = q.queue[1:]
	return o
}

// Remove is not used by the scheduler; it exists to satisfy WaitingPool.
func (q *VeganQueue) Remove(id int) *Order {
	for i, o := range q.queue {
		if o.ID == id {
			q.queue = append(q.queue[:i:i], q.queue[i+1:]...)
			return o
		}
	}
	return nil
}

// Orders returns the queue contents, front first. Callers MUST NOT modify it.
func (q *VeganQueue) Orders() []*Order { return q.queue }

func (q *VeganQueue) String() string { return ordersString(q.queue) }

// === VIPQueue ===

type vipEntry struct {
	order *Order
	seqID int64
	index int
}

// vipHeap orders by priority (descending), then arrival time (ascending),
// then insertion sequence (ascending) for determinism.
type vipHeap []*vipEntry

func (h vipHeap) Len() int { return len(h) }
func (h vipHeap) Less(i, j int) bool {
	a, b := h[i].order, h[j].order
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return h[i].seqID < h[j].seqID
}
func (h vipHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *vipHeap) Push(x any) {
	e := x.(*vipEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *vipHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[0 : n-1]
	return e
}

// VIPQueue is the priority queue of waiting VIP orders keyed by Order.Priority.
type VIPQueue struct {
	entries vipHeap
	nextSeq int64
}

func (q *VIPQueue) Len() int { return len(q.entries) }

// Push inserts an order using its current Priority.
func (q *VIPQueue) Push(o *Order) {
	if o == nil {
		panic("VIPQueue.Push: order must not be nil")
	}
	q.nextSeq++
	heap.Push(&q.entries, &vipEntry{order: o, seqID: q.nextSeq})
}

// Peek returns the highest-priority order, nil when empty.
func (q *VIPQueue) Peek() *Order {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0].order
}

// Pop removes the highest-priority order.
func (q *VIPQueue) Pop() *Order {
	if len(q.entries) == 0 {
		return nil
	}
	return heap.Pop(&q.entries).(*vipEntry).order
}

// Remove deletes the order with the given ID.
func (q *VIPQueue) Remove(id int) *Order {
	for _, e := range q.entries {
		if e.order.ID == id {
			heap.Remove(&q.entries, e.index)
			return e.order
		}
	}
	return nil
}

// Orders returns a copy of the waiting orders in dequeue order.
// Used for presentation only; O(n log n).
func (q *VIPQueue) Orders() []*Order {
	sorted := make(vipHeap, len(q.entries))
	copy(sorted, q.entries)
	sort.SliceStable(sorted, func(i, j int) bool { return vipHeap(sorted).Less(i, j) })
	out := make([]*Order, len(sorted))
	for i, e := range sorted {
		out[i] = e.order
	}
	return out
}

// At returns the i-th order in dequeue order, or nil when out of range.
func (q *VIPQueue) At(i int) *Order {
	if i < 0 || i >= len(q.entries) {
		return nil
	}
	return q.Orders()[i]
}

func (q *VIPQueue) String() string { return ordersString(q.Orders()) }
