package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/restaurant-sim/sim/trace"
)

// Overloaded reports whether the VIP pool is long enough to suppress breaks.
func (sim *Simulator) Overloaded() bool {
	return sim.vip.Len() >= sim.config.OverloadThreshold
}

// updateCooks runs the end-of-tick cook bookkeeping in ID order: tick
// accounting and timer expiry, then break decisions, then injuries.
func (sim *Simulator) updateCooks(now int64) {
	overloaded := sim.Overloaded()
	for _, c := range sim.allCooks {
		c.UpdateStatus(now)
		sim.triggerBreak(c, now, overloaded)
		sim.triggerInjury(c, now)
	}
}

// triggerBreak sends an available cook that is due a break on break, or
// makes it work overtime with an extra fatigue penalty while overloaded.
func (sim *Simulator) triggerBreak(c *Cook, now int64, overloaded bool) {
	if !c.IsAvailable() || !c.NeedsBreak() {
		return
	}
	if overloaded {
		c.SkipBreak()
		sim.Metrics.BreaksSkipped++
		logrus.Warnf("[tick %06d] Cook %s%d skips break under overload, speed now %d", now, c.Type.Letter(), c.ID, c.Speed)
		if sim.trace.Enabled() {
			sim.trace.RecordBreak(trace.BreakRecord{Clock: now, CookID: c.ID, Skipped: true})
		}
		return
	}
	c.StartBreak(now)
	sim.Metrics.BreaksTaken++
	logrus.Infof("[tick %06d] Cook %s%d on break until tick %d", now, c.Type.Letter(), c.ID, c.BreakEnd())
	if sim.trace.Enabled() {
		sim.trace.RecordBreak(trace.BreakRecord{Clock: now, CookID: c.ID, EndsAt: c.BreakEnd()})
	}
}

// triggerInjury asks the injury model about an available or busy cook. A busy
// cook's order is interrupted with partial-work credit and returned to the
// pool of its type.
func (sim *Simulator) triggerInjury(c *Cook, now int64) {
	if !c.IsAvailable() && !c.IsBusy() {
		return
	}
	if !sim.injury.Injured(now, c) {
		return
	}
	interrupted := 0
	if c.IsBusy() {
		o, _, completed := sim.interrupt(c, now)
		interrupted = o.ID
		sim.enqueue(o)
		sim.Metrics.Interruptions++
		logrus.Warnf("[tick %06d] Order %d returned to the %s pool: %d dishes done, %d left", now, o.ID, o.Type, completed, o.Size)
	}
	c.SetInjured(now, sim.config.InjuryRecoveryTicks)
	sim.Metrics.Injuries++
	logrus.Warnf("[tick %06d] Cook %s%d injured until tick %d", now, c.Type.Letter(), c.ID, c.InjuryEnd())
	if sim.trace.Enabled() {
		sim.trace.RecordInjury(trace.InjuryRecord{
			Clock: now, CookID: c.ID, InterruptedOrder: interrupted, RecoversAt: c.InjuryEnd(),
		})
	}
}
