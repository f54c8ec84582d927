package workload

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/restaurant-sim/sim"
)

// draft is an order before its ID is known.
type draft struct {
	time  int64
	typ   sim.OrderType
	size  int
	money float64

	react      sim.EventKind // EventArrival means no follow-up event
	reactAfter int64
	bonus      float64
}

// GenerateEvents creates an event list from a WorkloadSpec.
// Deterministic given the same spec and seed.
// Arrivals are sorted by tick (client order breaks ties) and get sequential IDs
// starting at FirstID. Follow-up cancellations and promotions fire strictly
// after their order's arrival. The returned events are sorted by tick.
func GenerateEvents(spec *WorkloadSpec) ([]sim.Event, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	workloadRNG := rng.ForSubsystem(sim.SubsystemWorkload)

	var drafts []draft
	for i := range spec.Clients {
		client := &spec.Clients[i]
		// Per-client RNG derived from the workload stream for isolation
		clientRNG := newRandFromSeed(workloadRNG.Int63())
		ticks, err := scheduleTicks(client.Schedule, spec.Horizon)
		if err != nil {
			return nil, fmt.Errorf("client %q: %w", client.ID, err)
		}
		drafts = append(drafts, clientDrafts(client, ticks, clientRNG)...)
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].time < drafts[j].time
	})

	firstID := spec.FirstID
	if firstID == 0 {
		firstID = 1
	}
	limit := sim.MaxOrderID - firstID + 1
	if spec.MaxOrders > 0 && spec.MaxOrders < limit {
		limit = spec.MaxOrders
	}
	if len(drafts) > limit {
		logrus.Warnf("workload: %d arrivals generated, keeping the first %d (ids %d..%d)",
			len(drafts), limit, firstID, firstID+limit-1)
		drafts = drafts[:limit]
	}

	events := make([]sim.Event, 0, len(drafts))
	var followUps []sim.Event
	for i, d := range drafts {
		id := firstID + i
		events = append(events, sim.NewArrivalEvent(d.time, id, d.typ, d.size, d.money))
		switch d.react {
		case sim.EventCancellation:
			followUps = append(followUps, sim.NewCancellationEvent(d.time+d.reactAfter, id))
		case sim.EventPromotion:
			followUps = append(followUps, sim.NewPromotionEvent(d.time+d.reactAfter, id, d.bonus))
		}
	}
	events = append(events, followUps...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events, nil
}

// scheduleTicks returns every tick in [1, horizon] at which the cron schedule
// fires, with tick t at Epoch + t minutes.
func scheduleTicks(expr string, horizon int64) ([]int64, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", expr, err)
	}
	end := Epoch.Add(time.Duration(horizon) * time.Minute)
	var ticks []int64
	for next := schedule.Next(Epoch); !next.IsZero() && !next.After(end); next = schedule.Next(next) {
		ticks = append(ticks, int64(next.Sub(Epoch)/time.Minute))
	}
	return ticks, nil
}

func clientDrafts(c *ClientSpec, ticks []int64, rng *rand.Rand) []draft {
	typ, err := sim.ParseOrderType(c.Type)
	if err != nil {
		panic(fmt.Sprintf("clientDrafts: unvalidated client type %q", c.Type))
	}
	sizes := newIntSampler(c.Size)
	money := newMoneySampler(c.Money)
	bonus := newMoneySampler(c.PromoteBonus)
	reactRange := c.ReactAfter
	if reactRange == (RangeSpec{}) {
		reactRange = defaultReactAfter
	}
	react := newIntSampler(reactRange)

	drafts := make([]draft, 0, len(ticks))
	for _, t := range ticks {
		d := draft{time: t, typ: typ, size: sizes.Sample(rng), money: money.Sample(rng), react: sim.EventArrival}
		if c.CancelFraction > 0 || c.PromoteFraction > 0 {
			u := rng.Float64()
			switch {
			case u < c.CancelFraction:
				d.react = sim.EventCancellation
				d.reactAfter = int64(react.Sample(rng))
			case u < c.CancelFraction+c.PromoteFraction:
				d.react = sim.EventPromotion
				d.reactAfter = int64(react.Sample(rng))
				d.bonus = bonus.Sample(rng)
			}
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// newRandFromSeed creates a new *rand.Rand from a seed (avoids importing math/rand in callers).
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
