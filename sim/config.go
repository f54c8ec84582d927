package sim

import (
	"errors"
	"fmt"
	"math"
)

// CookSpec groups the roster parameters of one cook type.
type CookSpec struct {
	Count         int   `yaml:"count" json:"count"`                       // number of cooks (>= 0)
	Speed         int   `yaml:"speed" json:"speed"`                       // dishes per tick (>= 1 when Count > 0)
	BreakDuration int64 `yaml:"break_duration" json:"break_duration"`     // ticks (>= 0; 0 = speed reset only)
	Speeds        []int `yaml:"speeds,omitempty" json:"speeds,omitempty"` // optional per-cook speeds; overrides Speed
}

// SpeedOf returns the base speed of the i-th cook of this spec.
func (s CookSpec) SpeedOf(i int) int {
	if len(s.Speeds) > 0 {
		return s.Speeds[i]
	}
	return s.Speed
}

// RosterConfig holds the per-type cook specs.
type RosterConfig struct {
	Normal CookSpec `yaml:"normal" json:"normal"`
	Vegan  CookSpec `yaml:"vegan" json:"vegan"`
	VIP    CookSpec `yaml:"vip" json:"vip"`
}

// Spec returns the spec of the given cook type.
func (r RosterConfig) Spec(t CookType) CookSpec {
	switch t {
	case CookNormal:
		return r.Normal
	case CookVegan:
		return r.Vegan
	case CookVIP:
		return r.VIP
	default:
		panic(fmt.Sprintf("RosterConfig.Spec: unknown cook type %d", int(t)))
	}
}

// TotalCooks is the number of cooks across all types.
func (r RosterConfig) TotalCooks() int {
	return r.Normal.Count + r.Vegan.Count + r.VIP.Count
}

// CanServe reports whether at least one cook is eligible for orders of type t.
// Normal orders use Normal or VIP cooks, Vegan orders only Vegan cooks,
// VIP orders any cook.
func (r RosterConfig) CanServe(t OrderType) bool {
	switch t {
	case OrderNormal:
		return r.Normal.Count > 0 || r.VIP.Count > 0
	case OrderVegan:
		return r.Vegan.Count > 0
	case OrderVIP:
		return r.TotalCooks() > 0
	default:
		return false
	}
}

// SimConfig holds all parameters needed to build a Simulator.
type SimConfig struct {
	Roster RosterConfig

	BreakAfter          int     // orders served before a break; 0 disables breaks
	AutoPromoteAfter    int64   // wait ticks before a Normal order is promoted; < 0 disables
	OverloadThreshold   int     // waiting VIP orders at which breaks are skipped (default 5)
	InjuryRecoveryTicks int64   // length of an injury (default 10)
	FatigueFactor       float64 // speed multiplier per completed order, in (0, 1]

	PriorityPolicy    string  // "weighted" (default) or "oldest-first"
	InjuryModel       string  // "none", "bernoulli" (default) or "hash"
	InjuryProbability float64 // per cook per tick, bernoulli model only

	Seed             int64
	SortCooksBySpeed bool  // serve with the fastest cooks first within each type
	StrictInvariants bool  // check invariants after every tick and panic on violation
	MaxTicks         int64 // stop after this tick even with work left; 0 = unlimited
}

// DefaultSimConfig returns a config with the restaurant's standard constants
// and an empty roster.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		BreakAfter:          0,
		AutoPromoteAfter:    -1,
		OverloadThreshold:   5,
		InjuryRecoveryTicks: 10,
		FatigueFactor:       0.95,
		PriorityPolicy:      "weighted",
		InjuryModel:         "bernoulli",
		InjuryProbability:   0.001,
	}
}

// Validate checks parameter ranges and policy names.
func (c SimConfig) Validate() error {
	for _, t := range CookTypes {
		spec := c.Roster.Spec(t)
		if spec.Count < 0 {
			return fmt.Errorf("%s cook count must be >= 0, got %d", t, spec.Count)
		}
		if len(spec.Speeds) > 0 {
			if len(spec.Speeds) != spec.Count {
				return fmt.Errorf("%s cook speeds: %d values for %d cooks", t, len(spec.Speeds), spec.Count)
			}
			for i, sp := range spec.Speeds {
				if sp < 1 {
					return fmt.Errorf("%s cook %d speed must be >= 1, got %d", t, i+1, sp)
				}
			}
		} else if spec.Count > 0 && spec.Speed < 1 {
			return fmt.Errorf("%s cook speed must be >= 1, got %d", t, spec.Speed)
		}
		if spec.BreakDuration < 0 {
			return fmt.Errorf("%s cook break duration must be >= 0, got %d", t, spec.BreakDuration)
		}
	}
	if c.Roster.TotalCooks() == 0 {
		return errors.New("roster has no cooks")
	}
	if c.BreakAfter < 0 {
		return fmt.Errorf("break-after must be >= 0, got %d", c.BreakAfter)
	}
	if c.OverloadThreshold < 1 {
		return fmt.Errorf("overload threshold must be >= 1, got %d", c.OverloadThreshold)
	}
	if c.InjuryRecoveryTicks < 1 {
		return fmt.Errorf("injury recovery must be >= 1 tick, got %d", c.InjuryRecoveryTicks)
	}
	if c.FatigueFactor <= 0 || c.FatigueFactor > 1 || math.IsNaN(c.FatigueFactor) {
		return fmt.Errorf("fatigue factor must be in (0, 1], got %v", c.FatigueFactor)
	}
	if !IsValidPriorityPolicy(c.PriorityPolicy) {
		return fmt.Errorf("unknown priority policy %q", c.PriorityPolicy)
	}
	if !IsValidInjuryModel(c.InjuryModel) {
		return fmt.Errorf("unknown injury model %q", c.InjuryModel)
	}
	if c.InjuryProbability < 0 || c.InjuryProbability > 1 || math.IsNaN(c.InjuryProbability) {
		return fmt.Errorf("injury probability must be in [0, 1], got %v", c.InjuryProbability)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max ticks must be >= 0, got %d", c.MaxTicks)
	}
	return nil
}
