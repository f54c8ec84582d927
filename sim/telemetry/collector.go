// Package telemetry exposes the simulation as Prometheus metrics. The
// Collector is a sim.Sink: it observes snapshots and never touches the
// simulator.
package telemetry

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/inference-sim/restaurant-sim/sim"
)

const namespace = "restaurant"

// Collector keeps per-tick gauges and cumulative counters in its own registry.
type Collector struct {
	registry *prometheus.Registry

	clock      prometheus.Gauge
	poolDepth  *prometheus.GaugeVec // pool
	cookStatus *prometheus.GaugeVec // cook_type, status

	arrived       *prometheus.CounterVec // type
	finished      *prometheus.CounterVec // type
	late          prometheus.Counter
	promotions    *prometheus.CounterVec // trigger
	cancellations prometheus.Counter
	ignored       prometheus.Counter
	preemptions   prometheus.Counter
	interruptions prometheus.Counter
	injuries      prometheus.Counter
	breaks        *prometheus.CounterVec // outcome

	turnaround *prometheus.HistogramVec // type
	wait       *prometheus.HistogramVec // type

	last sim.Metrics
}

// NewCollector creates a collector with every metric registered.
func NewCollector() *Collector {
	tickBuckets := prometheus.ExponentialBuckets(1, 2, 10) // 1..512 ticks
	c := &Collector{
		registry: prometheus.NewRegistry(),
		clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "clock_ticks",
			Help: "Current simulation tick",
		}),
		poolDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "waiting_orders",
			Help: "Orders waiting per pool at the end of the tick",
		}, []string{"pool"}),
		cookStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cooks",
			Help: "Cooks per type and status at the end of the tick",
		}, []string{"cook_type", "status"}),
		arrived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_arrived_total",
			Help: "Orders created by arrival events, by type at arrival",
		}, []string{"type"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_finished_total",
			Help: "Orders completed, by type at completion",
		}, []string{"type"}),
		late: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_late_total",
			Help: "Orders completed after their deadline",
		}),
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "promotions_total",
			Help: "Normal orders promoted to VIP",
		}, []string{"trigger"}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cancellations_total",
			Help: "Waiting Normal orders cancelled",
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ignored_events_total",
			Help: "Cancellation and promotion events that matched no waiting Normal order",
		}),
		preemptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "preemptions_total",
			Help: "Normal orders taken off a cook for a VIP order",
		}),
		interruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "injury_interruptions_total",
			Help: "Orders returned to their pool because the cook was injured",
		}),
		injuries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "injuries_total",
			Help: "Cook injuries",
		}),
		breaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "breaks_total",
			Help: "Break decisions for cooks that were due a break",
		}, []string{"outcome"}),
		turnaround: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "order_turnaround_ticks",
			Help:    "Ticks from arrival to completion",
			Buckets: tickBuckets,
		}, []string{"type"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "order_wait_ticks",
			Help:    "Ticks from arrival to the final service start",
			Buckets: tickBuckets,
		}, []string{"type"}),
	}
	c.registry.MustRegister(
		c.clock, c.poolDepth, c.cookStatus,
		c.arrived, c.finished, c.late, c.promotions, c.cancellations, c.ignored,
		c.preemptions, c.interruptions, c.injuries, c.breaks,
		c.turnaround, c.wait,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// OnTick implements sim.Sink.
func (c *Collector) OnTick(s *sim.Snapshot) {
	c.clock.Set(float64(s.Clock))
	c.poolDepth.WithLabelValues("normal").Set(float64(len(s.WaitingNormal)))
	c.poolDepth.WithLabelValues("vegan").Set(float64(len(s.WaitingVegan)))
	c.poolDepth.WithLabelValues("vip").Set(float64(len(s.WaitingVIP)))
	c.poolDepth.WithLabelValues("in_service").Set(float64(len(s.InService)))

	var counts [3][4]int
	for _, cook := range s.Cooks {
		counts[cook.Type][cook.Status]++
	}
	for _, t := range sim.CookTypes {
		for _, st := range []sim.CookStatus{sim.CookAvailable, sim.CookBusy, sim.CookOnBreak, sim.CookInjured} {
			c.cookStatus.WithLabelValues(t.String(), st.String()).Set(float64(counts[t][st]))
		}
	}

	for _, o := range s.CompletedThisTick {
		c.turnaround.WithLabelValues(o.Type.String()).Observe(float64(o.FinishTime - o.ArrivalTime))
		c.wait.WithLabelValues(o.Type.String()).Observe(float64(o.ServiceStart - o.ArrivalTime))
	}

	m := s.Metrics
	for _, t := range sim.OrderTypes {
		addDelta(c.arrived.WithLabelValues(t.String()), m.ArrivedByType[t], c.last.ArrivedByType[t])
		addDelta(c.finished.WithLabelValues(t.String()), m.FinishedByType[t], c.last.FinishedByType[t])
	}
	addDelta(c.late, m.Late, c.last.Late)
	addDelta(c.promotions.WithLabelValues("auto"), m.AutoPromoted, c.last.AutoPromoted)
	addDelta(c.promotions.WithLabelValues("event"), m.Promoted, c.last.Promoted)
	addDelta(c.cancellations, m.Cancelled, c.last.Cancelled)
	addDelta(c.ignored, m.IgnoredEvents, c.last.IgnoredEvents)
	addDelta(c.preemptions, m.Preemptions, c.last.Preemptions)
	addDelta(c.interruptions, m.Interruptions, c.last.Interruptions)
	addDelta(c.injuries, m.Injuries, c.last.Injuries)
	addDelta(c.breaks.WithLabelValues("taken"), m.BreaksTaken, c.last.BreaksTaken)
	addDelta(c.breaks.WithLabelValues("skipped"), m.BreaksSkipped, c.last.BreaksSkipped)
	c.last = m
}

func addDelta(counter prometheus.Counter, now, before int) {
	if d := now - before; d > 0 {
		counter.Add(float64(d))
	}
}

// WriteText writes every metric in the Prometheus text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
