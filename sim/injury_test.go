package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashInjury_Formula(t *testing.T) {
	m := HashInjury{}
	c := NewCook(1, CookNormal, 1, 0, 0, 0.95)

	// (now*7 + 13) % 1000 == 0 → now*7 ≡ 987 (mod 1000) → now = 141
	assert.True(t, m.Injured(141, c))
	assert.False(t, m.Injured(140, c))
	assert.False(t, m.Injured(142, c))
}

func TestBernoulliInjury_Extremes(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))
	c := NewCook(1, CookNormal, 1, 0, 0, 0.95)

	never := NewBernoulliInjury(0, rng.ForSubsystem(SubsystemInjury))
	always := NewBernoulliInjury(1, rng.ForSubsystem(SubsystemInjury))
	for now := int64(1); now <= 100; now++ {
		assert.False(t, never.Injured(now, c))
		assert.True(t, always.Injured(now, c))
	}
}

func TestBernoulliInjury_SameSeedSameDraws(t *testing.T) {
	c := NewCook(1, CookNormal, 1, 0, 0, 0.95)
	a := NewInjuryModel("bernoulli", 0.3, NewPartitionedRNG(NewSimulationKey(99)))
	b := NewInjuryModel("bernoulli", 0.3, NewPartitionedRNG(NewSimulationKey(99)))
	for now := int64(1); now <= 200; now++ {
		assert.Equal(t, a.Injured(now, c), b.Injured(now, c), "tick %d", now)
	}
}

func TestScriptedInjury(t *testing.T) {
	m := ScriptedInjury{5: {2, 3}}
	assert.True(t, m.Injured(5, &Cook{ID: 2}))
	assert.True(t, m.Injured(5, &Cook{ID: 3}))
	assert.False(t, m.Injured(5, &Cook{ID: 1}))
	assert.False(t, m.Injured(6, &Cook{ID: 2}))
}

func TestNewInjuryModel_Names(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))
	assert.IsType(t, NoInjury{}, NewInjuryModel("none", 0.5, rng))
	assert.IsType(t, HashInjury{}, NewInjuryModel("hash", 0, rng))
	assert.IsType(t, &BernoulliInjury{}, NewInjuryModel("", 0.001, rng))
	assert.Panics(t, func() { NewInjuryModel("meteor", 0, rng) })
}
