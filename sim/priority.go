package sim

import "fmt"

// PriorityPolicy computes the VIP priority key of an order.
// Higher keys are served first. The key is computed when the order enters
// the VIP pool and is not refreshed while it waits.
// Implementations MUST NOT modify the order; only the return value is used.
type PriorityPolicy interface {
	Compute(o *Order) int
}

// WeightedPriority combines arrival time, money and size linearly:
//
//	priority = TimeWeight*arrival + MoneyWeight*(money/100) + SizeWeight*size
//
// The result is truncated toward zero. With the default weights
// (2.0, 0.5, -0.3) higher-paying and smaller orders score higher, and the
// time term grows with the arrival tick.
type WeightedPriority struct {
	TimeWeight  float64
	MoneyWeight float64
	SizeWeight  float64
}

func (w *WeightedPriority) Compute(o *Order) int {
	score := w.TimeWeight*float64(o.ArrivalTime) +
		w.MoneyWeight*(o.Money/100.0) +
		w.SizeWeight*float64(o.Size)
	return int(score)
}

// OldestFirstPriority serves VIP orders strictly by arrival time.
type OldestFirstPriority struct{}

func (p *OldestFirstPriority) Compute(o *Order) int {
	return -int(o.ArrivalTime)
}

// DefaultWeightedPriority returns the weights used by the "weighted" policy.
func DefaultWeightedPriority() *WeightedPriority {
	return &WeightedPriority{TimeWeight: 2.0, MoneyWeight: 0.5, SizeWeight: -0.3}
}

// validPriorityPolicies is the set of recognized priority policy names.
var validPriorityPolicies = map[string]bool{"": true, "weighted": true, "oldest-first": true}

// IsValidPriorityPolicy returns true if name is a recognized priority policy.
func IsValidPriorityPolicy(name string) bool {
	return validPriorityPolicies[name]
}

// NewPriorityPolicy creates a PriorityPolicy by name.
// Empty string defaults to "weighted" (for CLI flag default compatibility).
// Panics on unrecognized names.
func NewPriorityPolicy(name string) PriorityPolicy {
	if !IsValidPriorityPolicy(name) {
		panic(fmt.Sprintf("unknown priority policy %q", name))
	}
	switch name {
	case "", "weighted":
		return DefaultWeightedPriority()
	case "oldest-first":
		return &OldestFirstPriority{}
	default:
		panic(fmt.Sprintf("unhandled priority policy %q", name))
	}
}
