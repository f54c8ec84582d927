// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculatePercentile is a util function that calculates the p-th percentile
// of a data list with linear interpolation between closest ranks.
// data must be sorted ascending; an empty list yields 0.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return float64(data[n-1])
	}
	if lowerIdx == upperIdx {
		return float64(data[lowerIdx])
	}
	lowerVal := float64(data[lowerIdx])
	upperVal := float64(data[upperIdx])
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// CalculateMean is a util function that calculates the mean of a data list.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}
	return sum / float64(len(numbers))
}

// TickDistribution collects per-order tick values of the finished orders,
// sorted ascending for percentile queries.
type TickDistribution struct {
	Wait       []int64
	Service    []int64
	Turnaround []int64
}

// NewTickDistribution extracts the wait, service and turnaround ticks of orders.
func NewTickDistribution(orders []*Order) TickDistribution {
	d := TickDistribution{
		Wait:       make([]int64, len(orders)),
		Service:    make([]int64, len(orders)),
		Turnaround: make([]int64, len(orders)),
	}
	for i, o := range orders {
		d.Wait[i] = o.WaitTime()
		d.Service[i] = o.ServiceTime()
		d.Turnaround[i] = o.Turnaround()
	}
	for _, s := range [][]int64{d.Wait, d.Service, d.Turnaround} {
		sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	}
	return d
}
