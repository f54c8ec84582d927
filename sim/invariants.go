package sim

import "fmt"

type location int

const (
	locNormal location = iota
	locVegan
	locVIP
	locInService
	locFinished
)

func (l location) String() string {
	return [...]string{"normal pool", "vegan queue", "vip pool", "in-service set", "finished set"}[l]
}

func (l location) status() OrderStatus {
	switch l {
	case locInService:
		return StatusInService
	case locFinished:
		return StatusDone
	default:
		return StatusWaiting
	}
}

// CheckInvariants verifies the structural invariants of the restaurant state
// and returns the first violation found:
//   - every live order sits in exactly one pool or set, with a matching status
//   - each waiting pool only holds orders of its own type
//   - a cook is busy iff it holds an order, and the order points back to it
//   - no two cooks hold the same order
//   - unfinished orders have size >= 1 and cooks have 1 <= speed <= base speed
func (sim *Simulator) CheckInvariants() error {
	seen := make(map[int]location, len(sim.orders))
	place := func(orders []*Order, loc location) error {
		for _, o := range orders {
			if prev, dup := seen[o.ID]; dup {
				return fmt.Errorf("order %d is in both the %s and the %s", o.ID, prev, loc)
			}
			seen[o.ID] = loc
			if registered, ok := sim.orders[o.ID]; !ok || registered != o {
				return fmt.Errorf("order %d in the %s is not registered", o.ID, loc)
			}
			if o.Status != loc.status() {
				return fmt.Errorf("order %d in the %s has status %s", o.ID, loc, o.Status)
			}
			if loc != locFinished && o.Size < 1 {
				return fmt.Errorf("order %d in the %s has size %d", o.ID, loc, o.Size)
			}
		}
		return nil
	}
	for _, p := range []struct {
		orders []*Order
		loc    location
		typ    OrderType
	}{
		{sim.normal.Orders(), locNormal, OrderNormal},
		{sim.vegan.Orders(), locVegan, OrderVegan},
		{sim.vip.Orders(), locVIP, OrderVIP},
	} {
		if err := place(p.orders, p.loc); err != nil {
			return err
		}
		for _, o := range p.orders {
			if o.Type != p.typ {
				return fmt.Errorf("%s order %d is in the %s", o.Type, o.ID, p.loc)
			}
			if o.CookID != 0 {
				return fmt.Errorf("waiting order %d references cook %d", o.ID, o.CookID)
			}
		}
	}
	if err := place(sim.inService, locInService); err != nil {
		return err
	}
	if err := place(sim.finished, locFinished); err != nil {
		return err
	}
	if len(seen) != len(sim.orders) {
		for id := range sim.orders {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("order %d is registered but not held anywhere", id)
			}
		}
	}

	holder := make(map[int]int)
	for _, c := range sim.allCooks {
		o := c.CurrentOrder()
		if c.IsBusy() != (o != nil) {
			return fmt.Errorf("cook %d is %s but current order is %v", c.ID, c.Status, o != nil)
		}
		if c.Speed < 1 || c.Speed > c.BaseSpeed {
			return fmt.Errorf("cook %d speed %d outside [1, %d]", c.ID, c.Speed, c.BaseSpeed)
		}
		if o == nil {
			continue
		}
		if other, dup := holder[o.ID]; dup {
			return fmt.Errorf("order %d is held by cooks %d and %d", o.ID, other, c.ID)
		}
		holder[o.ID] = c.ID
		if o.CookID != c.ID {
			return fmt.Errorf("cook %d holds order %d which references cook %d", c.ID, o.ID, o.CookID)
		}
		if seen[o.ID] != locInService {
			return fmt.Errorf("cook %d holds order %d which is not in service", c.ID, o.ID)
		}
	}
	if len(holder) != len(sim.inService) {
		return fmt.Errorf("%d orders in service but %d held by cooks", len(sim.inService), len(holder))
	}
	return nil
}
