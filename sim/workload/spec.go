package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/restaurant-sim/sim"
)

// Epoch is the wall-clock instant of tick 0. Cron schedules are evaluated
// against it with one tick per minute.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// WorkloadSpec is the top-level synthetic workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path) or embedded in a scenario.
type WorkloadSpec struct {
	Seed      int64        `yaml:"seed"`
	Horizon   int64        `yaml:"horizon"`              // last tick an arrival may fire at
	FirstID   int          `yaml:"first_id,omitempty"`   // first order ID to assign (default 1)
	MaxOrders int          `yaml:"max_orders,omitempty"` // 0 = as many IDs as remain up to sim.MaxOrderID
	Clients   []ClientSpec `yaml:"clients"`
}

// ClientSpec defines one stream of customers.
type ClientSpec struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`     // normal, vegan or vip
	Schedule string `yaml:"schedule"` // standard cron expression or descriptor such as "@every 5m"

	Size  RangeSpec `yaml:"size"`  // dishes per order, inclusive integer range
	Money RangeSpec `yaml:"money"` // order money, rounded to cents

	// Normal clients only: the fraction of orders later cancelled or promoted.
	CancelFraction  float64   `yaml:"cancel_fraction,omitempty"`
	PromoteFraction float64   `yaml:"promote_fraction,omitempty"`
	PromoteBonus    RangeSpec `yaml:"promote_bonus,omitempty"`
	ReactAfter      RangeSpec `yaml:"react_after,omitempty"` // ticks after arrival, default 1..5
}

// RangeSpec is a closed interval. Max == 0 means Max = Min.
type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max,omitempty"`
}

func (r RangeSpec) upper() float64 {
	if r.Max == 0 {
		return r.Min
	}
	return r.Max
}

var defaultReactAfter = RangeSpec{Min: 1, Max: 5}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if s.Horizon < 1 {
		return fmt.Errorf("horizon must be >= 1 tick, got %d", s.Horizon)
	}
	if s.FirstID < 0 || s.FirstID > sim.MaxOrderID {
		return fmt.Errorf("first_id must be in 1..%d, got %d", sim.MaxOrderID, s.FirstID)
	}
	if s.MaxOrders < 0 {
		return fmt.Errorf("max_orders must be non-negative, got %d", s.MaxOrders)
	}
	if len(s.Clients) == 0 {
		return fmt.Errorf("at least one client required")
	}
	for i := range s.Clients {
		if err := validateClient(&s.Clients[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateClient(c *ClientSpec, idx int) error {
	prefix := fmt.Sprintf("client[%d]", idx)
	if c.ID != "" {
		prefix = fmt.Sprintf("client %q", c.ID)
	}
	typ, err := sim.ParseOrderType(c.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", prefix, c.Schedule, err)
	}
	if err := validateRange(prefix+".size", c.Size, 1); err != nil {
		return err
	}
	if c.Size.Min != math.Trunc(c.Size.Min) || c.Size.upper() != math.Trunc(c.Size.upper()) {
		return fmt.Errorf("%s.size: bounds must be whole dishes", prefix)
	}
	if err := validateRange(prefix+".money", c.Money, 0); err != nil {
		return err
	}
	if c.CancelFraction < 0 || c.PromoteFraction < 0 || c.CancelFraction+c.PromoteFraction > 1 {
		return fmt.Errorf("%s: cancel_fraction and promote_fraction must be non-negative and sum to at most 1", prefix)
	}
	if typ != sim.OrderNormal && (c.CancelFraction > 0 || c.PromoteFraction > 0) {
		return fmt.Errorf("%s: only normal orders can be cancelled or promoted", prefix)
	}
	if err := validateRange(prefix+".promote_bonus", c.PromoteBonus, 0); err != nil {
		return err
	}
	if c.ReactAfter != (RangeSpec{}) {
		if err := validateRange(prefix+".react_after", c.ReactAfter, 1); err != nil {
			return err
		}
	}
	return nil
}

func validateRange(name string, r RangeSpec, floor float64) error {
	lo, hi := r.Min, r.upper()
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return fmt.Errorf("%s must be finite, got [%v, %v]", name, lo, hi)
	}
	if lo < floor {
		return fmt.Errorf("%s.min must be >= %v, got %v", name, floor, lo)
	}
	if hi < lo {
		return fmt.Errorf("%s.max must be >= min, got [%v, %v]", name, lo, hi)
	}
	return nil
}
