// Package sim provides the tick-stepped simulation engine for the restaurant.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - order.go: Order lifecycle (waiting → in service → done)
//   - cook.go: Cook state machine (available/busy/on-break/injured) with fatigue
//   - event.go: Arrival, Cancellation and Promotion events and the event queue
//   - simulator.go: the per-tick pipeline and the termination test
//   - assign.go: VIP/Normal/Vegan assignment, preemption and auto-promotion
//
// # Per-tick pipeline
//
// Every tick runs these phases in this exact order:
//  1. fire due events
//  2. auto-promote aged Normal orders
//  3. complete in-service orders whose service duration elapsed
//  4. assign VIP orders (preempting Normal work when no cook is free)
//  5. assign Normal orders
//  6. assign Vegan orders
//  7. update cook timers, breaks and injuries
//
// The Simulator is the only mutator of orders, cooks and pools. It is not
// safe for concurrent use.
//
// # Architecture
//
// The sim package defines the core types; collaborators live in sub-packages:
//   - sim/scenario/: YAML and legacy text input loaders
//   - sim/workload/: cron-driven synthetic arrival generation
//   - sim/report/: end-of-run text and JSON reports
//   - sim/telemetry/: Prometheus sink fed by per-tick snapshots
//   - sim/trace/: decision-trace recording
//
// # Key Interfaces
//   - WaitingPool: the capability shared by the three waiting structures
//   - PriorityPolicy: VIP priority key computed at enqueue time
//   - InjuryModel: per-tick injury probability source
//   - Sink: read-only per-tick snapshot consumer
package sim
