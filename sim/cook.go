package sim

import (
	"fmt"
	"math"
)

// CookType is the skill a cook was hired for.
type CookType int

const (
	CookNormal CookType = iota
	CookVegan
	CookVIP

	numCookTypes = 3
)

// CookTypes lists every cook type in roster order.
var CookTypes = []CookType{CookNormal, CookVegan, CookVIP}

func (t CookType) String() string {
	switch t {
	case CookNormal:
		return "normal"
	case CookVegan:
		return "vegan"
	case CookVIP:
		return "vip"
	default:
		return fmt.Sprintf("CookType(%d)", int(t))
	}
}

// Letter is the single-letter prefix used in reports ("N", "G", "V").
func (t CookType) Letter() string {
	switch t {
	case CookNormal:
		return "N"
	case CookVegan:
		return "G"
	case CookVIP:
		return "V"
	default:
		return "?"
	}
}

// CookStatus is the state of the cook state machine.
type CookStatus int

const (
	CookAvailable CookStatus = iota
	CookBusy
	CookOnBreak
	CookInjured
)

func (s CookStatus) String() string {
	switch s {
	case CookAvailable:
		return "available"
	case CookBusy:
		return "busy"
	case CookOnBreak:
		return "on-break"
	case CookInjured:
		return "injured"
	default:
		return fmt.Sprintf("CookStatus(%d)", int(s))
	}
}

// Cook models a single cook. Transitions:
//
//	Available → Busy → Available
//	Available → OnBreak → Available
//	Available/Busy → Injured → Available
//
// A cook references its order iff it is Busy.
type Cook struct {
	ID   int
	Type CookType

	BaseSpeed int // dishes per tick from the roster
	Speed     int // current speed, >= 1, reduced by fatigue

	Status  CookStatus
	current *Order

	BreakAfter       int   // orders served before a break is due; 0 disables breaks
	BreakDuration    int64 // ticks
	ordersSinceBreak int
	breakEnd         int64
	injuryEnd        int64

	fatigueFactor float64

	Served     [numOrderTypes]int // completed orders by order type
	BusyTicks  int64
	IdleTicks  int64
	BreakTicks int64 // ticks spent on break or injured
}

// NewCook creates an available cook at full speed.
// Panics if speed < 1: rosters are validated before cooks are built.
func NewCook(id int, typ CookType, speed, breakAfter int, breakDuration int64, fatigueFactor float64) *Cook {
	if speed < 1 {
		panic(fmt.Sprintf("NewCook: cook %d speed must be >= 1, got %d", id, speed))
	}
	return &Cook{
		ID:            id,
		Type:          typ,
		BaseSpeed:     speed,
		Speed:         speed,
		Status:        CookAvailable,
		BreakAfter:    breakAfter,
		BreakDuration: breakDuration,
		fatigueFactor: fatigueFactor,
	}
}

// CurrentOrder returns the order being cooked, nil unless Busy.
func (c *Cook) CurrentOrder() *Order { return c.current }

func (c *Cook) IsAvailable() bool { return c.Status == CookAvailable }
func (c *Cook) IsBusy() bool      { return c.Status == CookBusy }
func (c *Cook) IsOnBreak() bool   { return c.Status == CookOnBreak }
func (c *Cook) IsInjured() bool   { return c.Status == CookInjured }

// OrdersSinceBreak is the number of orders completed since the last break.
func (c *Cook) OrdersSinceBreak() int { return c.ordersSinceBreak }

// BreakEnd is the tick the current break ends.
func (c *Cook) BreakEnd() int64 { return c.breakEnd }

// InjuryEnd is the tick the current injury heals.
func (c *Cook) InjuryEnd() int64 { return c.injuryEnd }

// ServiceDuration returns ceil(size / speed) in ticks.
func (c *Cook) ServiceDuration(size int) int64 {
	return int64((size + c.Speed - 1) / c.Speed)
}

// AssignOrder links the cook and the order and starts service at now.
func (c *Cook) AssignOrder(o *Order, now int64) {
	if o == nil {
		panic("AssignOrder: order must not be nil")
	}
	if c.Status != CookAvailable {
		panic(fmt.Sprintf("AssignOrder: cook %d is %s, not available", c.ID, c.Status))
	}
	c.Status = CookBusy
	c.current = o
	o.Status = StatusInService
	o.ServiceStartTime = now
	o.CookID = c.ID
}

// FinishOrder completes the current order, counts it and applies fatigue.
func (c *Cook) FinishOrder() *Order {
	if c.Status != CookBusy || c.current == nil {
		panic(fmt.Sprintf("FinishOrder: cook %d is %s with no order", c.ID, c.Status))
	}
	o := c.current
	c.Served[o.Type]++
	c.ordersSinceBreak++
	o.ServedBy = c.ID
	c.unlink()
	c.ApplyFatigue()
	return o
}

// ReleaseOrder drops the current order without counting it as served.
// Used when service is interrupted by preemption or injury.
func (c *Cook) ReleaseOrder() *Order {
	if c.Status != CookBusy || c.current == nil {
		panic(fmt.Sprintf("ReleaseOrder: cook %d is %s with no order", c.ID, c.Status))
	}
	o := c.current
	c.unlink()
	return o
}

func (c *Cook) unlink() {
	c.current.CookID = 0
	c.current = nil
	c.Status = CookAvailable
}

// ApplyFatigue sets speed = max(1, floor(speed * factor)).
func (c *Cook) ApplyFatigue() {
	c.Speed = max(1, int(math.Floor(float64(c.Speed)*c.fatigueFactor)))
}

// RestoreSpeed resets speed to the base speed.
func (c *Cook) RestoreSpeed() {
	c.Speed = c.BaseSpeed
}

// NeedsBreak reports whether enough orders were served since the last break.
func (c *Cook) NeedsBreak() bool {
	return c.BreakAfter > 0 && c.ordersSinceBreak >= c.BreakAfter
}

// StartBreak moves an available cook on break until now + BreakDuration.
// A zero-length break only restores speed and resets the counter.
func (c *Cook) StartBreak(now int64) {
	if c.Status != CookAvailable {
		panic(fmt.Sprintf("StartBreak: cook %d is %s, not available", c.ID, c.Status))
	}
	c.RestoreSpeed()
	c.ordersSinceBreak = 0
	if c.BreakDuration <= 0 {
		return
	}
	c.Status = CookOnBreak
	c.breakEnd = now + c.BreakDuration
}

// SkipBreak is overtime: the break is skipped and an extra fatigue penalty applies.
func (c *Cook) SkipBreak() {
	c.ordersSinceBreak = 0
	c.ApplyFatigue()
}

// EndBreak returns the cook to Available.
func (c *Cook) EndBreak() {
	if c.Status != CookOnBreak {
		panic(fmt.Sprintf("EndBreak: cook %d is %s, not on break", c.ID, c.Status))
	}
	c.Status = CookAvailable
	c.breakEnd = 0
}

// SetInjured puts the cook out of service until now + recovery.
// A busy cook must release its order first.
func (c *Cook) SetInjured(now, recovery int64) {
	if c.current != nil {
		panic(fmt.Sprintf("SetInjured: cook %d still holds order %d", c.ID, c.current.ID))
	}
	if c.Status != CookAvailable {
		panic(fmt.Sprintf("SetInjured: cook %d is %s", c.ID, c.Status))
	}
	c.Status = CookInjured
	c.injuryEnd = now + recovery
}

// Recover returns an injured cook to Available.
func (c *Cook) Recover() {
	if c.Status != CookInjured {
		panic(fmt.Sprintf("Recover: cook %d is %s, not injured", c.ID, c.Status))
	}
	c.Status = CookAvailable
	c.injuryEnd = 0
}

// UpdateStatus accounts this tick to the busy/idle/break counters, then
// expires break and injury timers that are due at now.
func (c *Cook) UpdateStatus(now int64) {
	switch c.Status {
	case CookBusy:
		c.BusyTicks++
	case CookAvailable:
		c.IdleTicks++
	case CookOnBreak, CookInjured:
		c.BreakTicks++
	}
	if c.Status == CookOnBreak && now >= c.breakEnd {
		c.EndBreak()
	}
	if c.Status == CookInjured && now >= c.injuryEnd {
		c.Recover()
	}
}

// TotalServed is the number of orders this cook completed.
func (c *Cook) TotalServed() int {
	total := 0
	for _, n := range c.Served {
		total += n
	}
	return total
}

// Utilization is busy / (busy + idle + break) as a percentage.
func (c *Cook) Utilization() float64 {
	total := c.BusyTicks + c.IdleTicks + c.BreakTicks
	if total == 0 {
		return 0
	}
	return float64(c.BusyTicks) / float64(total) * 100
}

func (c Cook) String() string {
	return fmt.Sprintf("Cook: (ID: %s%d, Status: %s, Speed: %d/%d)", c.Type.Letter(), c.ID, c.Status, c.Speed, c.BaseSpeed)
}
