// Implements the order-moving phases of a tick: auto-promotion, completion,
// VIP assignment with preemption, Normal and Vegan assignment, and the
// cancellation and promotion events.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/restaurant-sim/sim/trace"
)

// autoPromote moves Normal orders that waited longer than the threshold into
// the VIP pool, scanning from the front and stopping at the first order that
// has not waited long enough.
func (sim *Simulator) autoPromote(now int64) {
	threshold := sim.config.AutoPromoteAfter
	if threshold < 0 {
		return
	}
	for sim.normal.Len() > 0 {
		o := sim.normal.Peek()
		waited := now - o.ArrivalTime
		if waited <= threshold {
			break
		}
		sim.normal.Pop()
		o.AutoPromoted = true
		sim.Metrics.AutoPromoted++
		sim.promote(o, 0)
		logrus.Infof("[tick %06d] Auto-promoted order %d after waiting %d ticks (priority %d)", now, o.ID, waited, o.Priority)
		if sim.trace.Enabled() {
			sim.trace.RecordPromotion(trace.PromotionRecord{
				Clock: now, OrderID: o.ID, Auto: true, Priority: o.Priority, Waited: waited,
			})
		}
	}
}

// promote converts a waiting Normal order to VIP and inserts it in the VIP pool.
func (sim *Simulator) promote(o *Order, bonus float64) {
	o.Type = OrderVIP
	o.Money += bonus
	sim.enqueue(o)
}

// promoteByEvent applies a promotion event. Orders not waiting in the Normal
// pool are left untouched.
func (sim *Simulator) promoteByEvent(id int, bonus float64, now int64) {
	o := sim.normal.Remove(id)
	if o == nil {
		sim.Metrics.IgnoredEvents++
		logrus.Debugf("[tick %06d] Promotion of order %d ignored: not waiting as normal", now, id)
		return
	}
	o.Promoted = true
	sim.Metrics.Promoted++
	sim.promote(o, bonus)
	logrus.Infof("<< Promotion: order %d at tick %d (+%.2f, priority %d)", id, now, bonus, o.Priority)
	if sim.trace.Enabled() {
		sim.trace.RecordPromotion(trace.PromotionRecord{
			Clock: now, OrderID: id, Bonus: bonus, Priority: o.Priority, Waited: now - o.ArrivalTime,
		})
	}
}

// cancel applies a cancellation event. Only orders waiting in the Normal pool
// can be cancelled; the order is forgotten entirely.
func (sim *Simulator) cancel(id int, now int64) {
	o := sim.normal.Remove(id)
	if sim.trace.Enabled() {
		sim.trace.RecordCancellation(trace.CancellationRecord{Clock: now, OrderID: id, Applied: o != nil})
	}
	if o == nil {
		sim.Metrics.IgnoredEvents++
		logrus.Debugf("[tick %06d] Cancellation of order %d ignored: not waiting as normal", now, id)
		return
	}
	delete(sim.orders, id)
	sim.Metrics.Cancelled++
	logrus.Infof("<< Cancellation: order %d at tick %d", id, now)
}

// completeOrders finishes every in-service order whose service duration has
// elapsed at the cook's current speed.
func (sim *Simulator) completeOrders(now int64) {
	remaining := sim.inService[:0]
	for _, o := range sim.inService {
		c := sim.cookServing(o)
		if now-o.ServiceStartTime < c.ServiceDuration(o.Size) {
			remaining = append(remaining, o)
			continue
		}
		c.FinishOrder()
		o.Status = StatusDone
		o.FinishTime = now
		o.Deadline = o.ComputeDeadline()
		o.Late = o.FinishTime > o.Deadline
		sim.finished = append(sim.finished, o)
		sim.completedThisTick = append(sim.completedThisTick, o)
		sim.Metrics.recordCompletion(o)
		logrus.Infof("[tick %06d] Order %d (%s) finished by cook %d, late=%v", now, o.ID, o.Type, o.ServedBy, o.Late)
	}
	for i := len(remaining); i < len(sim.inService); i++ {
		sim.inService[i] = nil
	}
	sim.inService = remaining
}

func (sim *Simulator) cookServing(o *Order) *Cook {
	c, ok := sim.cookByID[o.CookID]
	if !ok || c.CurrentOrder() != o {
		panic(fmt.Sprintf("order %d is in service but cook %d does not hold it", o.ID, o.CookID))
	}
	return c
}

// startService assigns a waiting order, already removed from its pool, to an
// available cook.
func (sim *Simulator) startService(c *Cook, o *Order, now int64) {
	c.AssignOrder(o, now)
	sim.inService = append(sim.inService, o)
	logrus.Debugf("[tick %06d] Cook %s%d starts order %d (%s, size %d)", now, c.Type.Letter(), c.ID, o.ID, o.Type, o.Size)
}

// removeInService drops o from the in-service set.
func (sim *Simulator) removeInService(o *Order) {
	for i, x := range sim.inService {
		if x == o {
			sim.inService = append(sim.inService[:i], sim.inService[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("removeInService: order %d not in service", o.ID))
}

// interrupt takes the cook off its order and credits the dishes already
// cooked: completed = min(elapsed*speed, size). The order keeps its arrival
// time and waits again with the remaining size.
func (sim *Simulator) interrupt(c *Cook, now int64) (o *Order, elapsed int64, completed int) {
	o = c.ReleaseOrder()
	sim.removeInService(o)
	elapsed = now - o.ServiceStartTime
	completed = min(int(elapsed)*c.Speed, o.Size)
	o.Size -= completed
	o.Preemptions++
	return o, elapsed, completed
}

// availableCooks returns the available cooks of type t in preference order.
func (sim *Simulator) availableCooks(t CookType) []*Cook {
	var out []*Cook
	for _, c := range sim.cooks[t] {
		if c.IsAvailable() {
			out = append(out, c)
		}
	}
	return out
}

func (sim *Simulator) firstAvailable(t CookType) *Cook {
	for _, c := range sim.cooks[t] {
		if c.IsAvailable() {
			return c
		}
	}
	return nil
}

// assignVIP serves VIP orders in priority order with any cook, preferring
// VIP cooks, then Normal, then Vegan. When no cook is free it preempts a
// Normal cook serving a Normal order.
func (sim *Simulator) assignVIP(now int64) {
	if sim.vip.Len() == 0 {
		return
	}
	snapshots := [][]*Cook{
		sim.availableCooks(CookVIP),
		sim.availableCooks(CookNormal),
		sim.availableCooks(CookVegan),
	}
	next := func() *Cook {
		for i := range snapshots {
			if len(snapshots[i]) > 0 {
				c := snapshots[i][0]
				snapshots[i] = snapshots[i][1:]
				return c
			}
		}
		return nil
	}

	for sim.vip.Len() > 0 {
		o := sim.vip.Peek()
		c := next()
		if c == nil {
			c = sim.preemptFor(o, now)
		}
		if c == nil {
			return
		}
		sim.vip.Pop()
		sim.startService(c, o, now)
	}
}

// preemptionCandidate returns the busy Normal cook serving a Normal order
// with the smallest elapsed service time. Ties go to the earliest cook in
// preference order.
func (sim *Simulator) preemptionCandidate(now int64) *Cook {
	var best *Cook
	var bestElapsed int64
	for _, c := range sim.cooks[CookNormal] {
		o := c.CurrentOrder()
		if !c.IsBusy() || o == nil || o.Type != OrderNormal {
			continue
		}
		elapsed := now - o.ServiceStartTime
		if best == nil || elapsed < bestElapsed {
			best, bestElapsed = c, elapsed
		}
	}
	return best
}

// preemptFor frees a cook for the VIP order vip, returning nil when nothing
// can be preempted. The preempted order goes to the back of the Normal pool.
func (sim *Simulator) preemptFor(vip *Order, now int64) *Cook {
	c := sim.preemptionCandidate(now)
	if c == nil {
		return nil
	}
	o, elapsed, completed := sim.interrupt(c, now)
	o.Status = StatusWaiting
	sim.normal.Push(o)
	sim.Metrics.Preemptions++
	logrus.Warnf("[tick %06d] Preempted order %d on cook %s%d for VIP order %d: %d dishes done, %d left",
		now, o.ID, c.Type.Letter(), c.ID, vip.ID, completed, o.Size)
	if sim.trace.Enabled() {
		sim.trace.RecordPreemption(trace.PreemptionRecord{
			Clock:           now,
			CookID:          c.ID,
			PreemptedOrder:  o.ID,
			VIPOrder:        vip.ID,
			ElapsedTicks:    elapsed,
			DishesCompleted: completed,
			RemainingSize:   o.Size,
		})
	}
	return c
}

// assignNormal serves the Normal pool front first with a Normal cook, falling
// back to a VIP cook. It stops at the first order no cook can take, so later
// orders never overtake earlier ones.
func (sim *Simulator) assignNormal(now int64) {
	for sim.normal.Len() > 0 {
		c := sim.firstAvailable(CookNormal)
		if c == nil {
			c = sim.firstAvailable(CookVIP)
		}
		if c == nil {
			return
		}
		sim.startService(c, sim.normal.Pop(), now)
	}
}

// assignVegan serves the Vegan queue in FIFO order with Vegan cooks only.
func (sim *Simulator) assignVegan(now int64) {
	for sim.vegan.Len() > 0 {
		c := sim.firstAvailable(CookVegan)
		if c == nil {
			return
		}
		sim.startService(c, sim.vegan.Pop(), now)
	}
}
