package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Preemptions       int
	PartialDishes     int // dishes cooked before preemption, credited to the order
	MeanPreemptAge    float64
	AutoPromotions    int
	EventPromotions   int
	CancelsApplied    int
	CancelsIgnored    int
	Injuries          int
	InterruptedByHurt int
	BreaksTaken       int
	BreaksSkipped     int
	PreemptionsByCook map[int]int // cook ID → times preempted
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PreemptionsByCook: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.Preemptions = len(st.Preemptions)
	if len(st.Preemptions) > 0 {
		var totalAge int64
		for _, p := range st.Preemptions {
			summary.PreemptionsByCook[p.CookID]++
			summary.PartialDishes += p.DishesCompleted
			totalAge += p.ElapsedTicks
		}
		summary.MeanPreemptAge = float64(totalAge) / float64(len(st.Preemptions))
	}

	for _, p := range st.Promotions {
		if p.Auto {
			summary.AutoPromotions++
		} else {
			summary.EventPromotions++
		}
	}

	for _, c := range st.Cancellations {
		if c.Applied {
			summary.CancelsApplied++
		} else {
			summary.CancelsIgnored++
		}
	}

	summary.Injuries = len(st.Injuries)
	for _, in := range st.Injuries {
		if in.InterruptedOrder != 0 {
			summary.InterruptedByHurt++
		}
	}

	for _, b := range st.Breaks {
		if b.Skipped {
			summary.BreaksSkipped++
		} else {
			summary.BreaksTaken++
		}
	}

	return summary
}
