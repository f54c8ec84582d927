// Package scenario loads restaurant scenarios: the cook roster, the
// simulation constants and the event timeline. Two formats are accepted,
// strict YAML and the legacy whitespace-separated text format.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/restaurant-sim/sim"
	"github.com/inference-sim/restaurant-sim/sim/workload"
)

// Scenario is a complete simulation input.
// Nil pointer fields mean "not set" and keep the sim.DefaultSimConfig value.
type Scenario struct {
	Roster sim.RosterConfig `yaml:"roster"`

	BreakAfter          int      `yaml:"break_after,omitempty"`
	AutoPromoteAfter    *int64   `yaml:"auto_promote_after,omitempty"`
	OverloadThreshold   *int     `yaml:"overload_threshold,omitempty"`
	InjuryRecoveryTicks *int64   `yaml:"injury_recovery_ticks,omitempty"`
	FatigueFactor       *float64 `yaml:"fatigue_factor,omitempty"`

	PriorityPolicy    string   `yaml:"priority_policy,omitempty"`
	InjuryModel       string   `yaml:"injury_model,omitempty"`
	InjuryProbability *float64 `yaml:"injury_probability,omitempty"`

	Seed             int64 `yaml:"seed,omitempty"`
	SortCooksBySpeed bool  `yaml:"sort_cooks_by_speed,omitempty"`
	MaxTicks         int64 `yaml:"max_ticks,omitempty"`

	Events   []EventSpec            `yaml:"events,omitempty"`
	Workload *workload.WorkloadSpec `yaml:"workload,omitempty"`
}

// EventSpec is one timeline entry as written in a scenario file.
type EventSpec struct {
	Kind  string  `yaml:"kind"` // arrival, cancel or promote
	Time  int64   `yaml:"time"`
	ID    int     `yaml:"id"`
	Type  string  `yaml:"type,omitempty"`  // arrival only
	Size  int     `yaml:"size,omitempty"`  // arrival only
	Money float64 `yaml:"money,omitempty"` // arrival only
	Bonus float64 `yaml:"bonus,omitempty"` // promote only
}

// Event converts the entry to a sim.Event.
func (e EventSpec) Event() (sim.Event, error) {
	switch strings.ToLower(e.Kind) {
	case "arrival", "r":
		typ, err := sim.ParseOrderType(e.Type)
		if err != nil {
			return sim.Event{}, err
		}
		return sim.NewArrivalEvent(e.Time, e.ID, typ, e.Size, e.Money), nil
	case "cancel", "cancellation", "x":
		return sim.NewCancellationEvent(e.Time, e.ID), nil
	case "promote", "promotion", "p":
		return sim.NewPromotionEvent(e.Time, e.ID, e.Bonus), nil
	}
	return sim.Event{}, fmt.Errorf("unknown event kind %q", e.Kind)
}

// NewEventSpec converts a sim.Event back to its file form.
func NewEventSpec(ev sim.Event) EventSpec {
	switch ev.Kind {
	case sim.EventArrival:
		return EventSpec{Kind: "arrival", Time: ev.Time, ID: ev.OrderID, Type: ev.OrderType.String(), Size: ev.Size, Money: ev.Money}
	case sim.EventCancellation:
		return EventSpec{Kind: "cancel", Time: ev.Time, ID: ev.OrderID}
	case sim.EventPromotion:
		return EventSpec{Kind: "promote", Time: ev.Time, ID: ev.OrderID, Bonus: ev.Bonus}
	default:
		panic(fmt.Sprintf("NewEventSpec: unknown event kind %d", int(ev.Kind)))
	}
}

// FromConfig builds a scenario that reproduces cfg and events exactly.
func FromConfig(cfg sim.SimConfig, events []sim.Event) *Scenario {
	s := &Scenario{
		Roster:              cfg.Roster,
		BreakAfter:          cfg.BreakAfter,
		AutoPromoteAfter:    &cfg.AutoPromoteAfter,
		OverloadThreshold:   &cfg.OverloadThreshold,
		InjuryRecoveryTicks: &cfg.InjuryRecoveryTicks,
		FatigueFactor:       &cfg.FatigueFactor,
		PriorityPolicy:      cfg.PriorityPolicy,
		InjuryModel:         cfg.InjuryModel,
		InjuryProbability:   &cfg.InjuryProbability,
		Seed:                cfg.Seed,
		SortCooksBySpeed:    cfg.SortCooksBySpeed,
		MaxTicks:            cfg.MaxTicks,
	}
	for _, ev := range events {
		s.Events = append(s.Events, NewEventSpec(ev))
	}
	return s
}

// Load reads a scenario file. Files ending in .yaml or .yml are parsed as
// YAML; anything else as the legacy text format.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(bytes.NewReader(data))
	default:
		return ParseLegacy(bytes.NewReader(data))
	}
}

// DecodeYAML parses a YAML scenario.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func DecodeYAML(r io.Reader) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// WriteYAML encodes the scenario as YAML.
func (s *Scenario) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return enc.Close()
}

// SimConfig returns the simulation config: defaults overridden by every
// field set in the scenario.
func (s *Scenario) SimConfig() sim.SimConfig {
	cfg := sim.DefaultSimConfig()
	cfg.Roster = s.Roster
	cfg.BreakAfter = s.BreakAfter
	if s.AutoPromoteAfter != nil {
		cfg.AutoPromoteAfter = *s.AutoPromoteAfter
	}
	if s.OverloadThreshold != nil {
		cfg.OverloadThreshold = *s.OverloadThreshold
	}
	if s.InjuryRecoveryTicks != nil {
		cfg.InjuryRecoveryTicks = *s.InjuryRecoveryTicks
	}
	if s.FatigueFactor != nil {
		cfg.FatigueFactor = *s.FatigueFactor
	}
	if s.PriorityPolicy != "" {
		cfg.PriorityPolicy = s.PriorityPolicy
	}
	if s.InjuryModel != "" {
		cfg.InjuryModel = s.InjuryModel
	}
	if s.InjuryProbability != nil {
		cfg.InjuryProbability = *s.InjuryProbability
	}
	cfg.Seed = s.Seed
	cfg.SortCooksBySpeed = s.SortCooksBySpeed
	cfg.MaxTicks = s.MaxTicks
	return cfg
}

// SimEvents returns the explicit events followed by the generated workload.
// Unless the workload sets first_id, its IDs start after the largest
// explicit ID.
func (s *Scenario) SimEvents() ([]sim.Event, error) {
	events := make([]sim.Event, 0, len(s.Events))
	maxID := 0
	for i, spec := range s.Events {
		ev, err := spec.Event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		maxID = max(maxID, ev.OrderID)
		events = append(events, ev)
	}
	if s.Workload == nil {
		return events, nil
	}
	wl := *s.Workload
	if wl.FirstID == 0 {
		wl.FirstID = maxID + 1
	}
	generated, err := workload.GenerateEvents(&wl)
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}
	return append(events, generated...), nil
}

// Build creates a simulator with the scenario's config and events loaded.
func (s *Scenario) Build(opts ...sim.Option) (*sim.Simulator, error) {
	events, err := s.SimEvents()
	if err != nil {
		return nil, err
	}
	simulator, err := sim.NewSimulator(s.SimConfig(), opts...)
	if err != nil {
		return nil, err
	}
	if err := simulator.LoadEvents(events); err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return simulator, nil
}

// Validate checks the config and every event without running anything.
func (s *Scenario) Validate() error {
	_, err := s.Build()
	return err
}
