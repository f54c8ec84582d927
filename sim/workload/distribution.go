package workload

import (
	"math"
	"math/rand"
)

// intSampler draws whole numbers uniformly from [min, max].
type intSampler struct {
	min, max int
}

func newIntSampler(r RangeSpec) intSampler {
	return intSampler{min: int(r.Min), max: int(r.upper())}
}

func (s intSampler) Sample(rng *rand.Rand) int {
	if s.min == s.max {
		return s.min
	}
	return s.min + rng.Intn(s.max-s.min+1)
}

// moneySampler draws amounts uniformly from [min, max], rounded to cents.
type moneySampler struct {
	min, max float64
}

func newMoneySampler(r RangeSpec) moneySampler {
	return moneySampler{min: r.Min, max: r.upper()}
}

func (s moneySampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	val := s.min + rng.Float64()*(s.max-s.min)
	return math.Min(s.max, math.Round(val*100)/100)
}
