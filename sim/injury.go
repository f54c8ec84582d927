package sim

import (
	"fmt"
	"math/rand"
)

// InjuryModel decides, once per tick for every available or busy cook,
// whether the cook gets injured.
type InjuryModel interface {
	Injured(now int64, c *Cook) bool
}

// NoInjury never injures anyone.
type NoInjury struct{}

func (NoInjury) Injured(_ int64, _ *Cook) bool { return false }

// BernoulliInjury injures with a fixed per-tick probability drawn from a
// seeded stream.
type BernoulliInjury struct {
	Probability float64
	rng         *rand.Rand
}

// NewBernoulliInjury creates a BernoulliInjury drawing from rng.
func NewBernoulliInjury(p float64, rng *rand.Rand) *BernoulliInjury {
	if rng == nil {
		panic("NewBernoulliInjury: rng must not be nil")
	}
	return &BernoulliInjury{Probability: p, rng: rng}
}

func (b *BernoulliInjury) Injured(_ int64, _ *Cook) bool {
	if b.Probability <= 0 {
		return false
	}
	return b.rng.Float64() < b.Probability
}

// HashInjury is a deterministic pseudo-random model: a cook is injured
// when (now*7 + id*13) % 1000 == 0, roughly one tick in a thousand.
type HashInjury struct{}

func (HashInjury) Injured(now int64, c *Cook) bool {
	return (now*7+int64(c.ID)*13)%1000 == 0
}

// ScriptedInjury injures the listed cooks at the listed ticks. Useful for
// reproducing a specific incident.
type ScriptedInjury map[int64][]int

func (s ScriptedInjury) Injured(now int64, c *Cook) bool {
	for _, id := range s[now] {
		if id == c.ID {
			return true
		}
	}
	return false
}

// validInjuryModels is the set of recognized injury model names.
var validInjuryModels = map[string]bool{"": true, "none": true, "bernoulli": true, "hash": true}

// IsValidInjuryModel returns true if name is a recognized injury model.
func IsValidInjuryModel(name string) bool {
	return validInjuryModels[name]
}

// NewInjuryModel creates an InjuryModel by name.
// Empty string defaults to "bernoulli" using the SubsystemInjury stream of rng.
// Panics on unrecognized names.
func NewInjuryModel(name string, probability float64, rng *PartitionedRNG) InjuryModel {
	if !IsValidInjuryModel(name) {
		panic(fmt.Sprintf("unknown injury model %q", name))
	}
	switch name {
	case "none":
		return NoInjury{}
	case "", "bernoulli":
		return NewBernoulliInjury(probability, rng.ForSubsystem(SubsystemInjury))
	case "hash":
		return HashInjury{}
	default:
		panic(fmt.Sprintf("unhandled injury model %q", name))
	}
}
