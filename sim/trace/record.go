// Package trace provides decision-trace recording for scheduling analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// PreemptionRecord captures a cook being taken off a Normal order to serve a VIP order.
type PreemptionRecord struct {
	Clock           int64
	CookID          int
	PreemptedOrder  int
	VIPOrder        int
	ElapsedTicks    int64
	DishesCompleted int
	RemainingSize   int
}

// PromotionRecord captures a Normal order moved into the VIP pool.
type PromotionRecord struct {
	Clock    int64
	OrderID  int
	Auto     bool    // true for wait-threshold promotion, false for a promotion event
	Bonus    float64 // money added by a promotion event
	Priority int     // priority key computed at promotion
	Waited   int64   // ticks waited before promotion
}

// CancellationRecord captures a cancellation event and whether it took effect.
type CancellationRecord struct {
	Clock   int64
	OrderID int
	Applied bool // false when the order was not waiting in the Normal pool
}

// InjuryRecord captures a cook injury.
type InjuryRecord struct {
	Clock            int64
	CookID           int
	InterruptedOrder int // 0 when the cook was idle
	RecoversAt       int64
}

// BreakRecord captures a break decision.
type BreakRecord struct {
	Clock   int64
	CookID  int
	Skipped bool // true when overload forced overtime
	EndsAt  int64
}
