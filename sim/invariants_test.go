package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busySimulator(t *testing.T) *Simulator {
	t.Helper()
	cfg := testConfig(1, 0, 0)
	cfg.StrictInvariants = false
	s := newTestSimulator(t, cfg, []Event{
		NewArrivalEvent(1, 1, OrderNormal, 5, 0),
		NewArrivalEvent(1, 2, OrderNormal, 5, 0),
	})
	s.Step()
	require.NoError(t, s.CheckInvariants())
	return s
}

func TestCheckInvariants_BusyCookWithoutOrder(t *testing.T) {
	s := busySimulator(t)
	s.cookByID[1].current = nil

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "cook 1 is busy")
	}
}

func TestCheckInvariants_OrderInTwoPlaces(t *testing.T) {
	s := busySimulator(t)
	s.finished = append(s.finished, mustOrder(t, s, 2))

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "order 2 is in both")
	}
}

func TestCheckInvariants_StatusMismatch(t *testing.T) {
	s := busySimulator(t)
	mustOrder(t, s, 2).Status = StatusDone

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "has status done")
	}
}

func TestCheckInvariants_WrongPoolType(t *testing.T) {
	s := busySimulator(t)
	mustOrder(t, s, 2).Type = OrderVegan

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "vegan order 2 is in the normal pool")
	}
}

func TestCheckInvariants_OrderLost(t *testing.T) {
	s := busySimulator(t)
	s.normal.Pop()

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "not held anywhere")
	}
}

func TestCheckInvariants_BackReferenceMismatch(t *testing.T) {
	s := busySimulator(t)
	mustOrder(t, s, 1).CookID = 7

	err := s.CheckInvariants()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "references cook 7")
	}
}

func TestStrictInvariants_PanicsOnViolation(t *testing.T) {
	// GIVEN a strict simulator with one busy cook and one waiting order
	cfg := testConfig(1, 0, 0)
	s := newTestSimulator(t, cfg, []Event{
		NewArrivalEvent(1, 1, OrderNormal, 5, 0),
		NewArrivalEvent(1, 2, OrderNormal, 5, 0),
	})
	s.Step()

	// WHEN the waiting order is corrupted to point at a cook
	mustOrder(t, s, 2).CookID = 9

	// THEN the next tick panics
	assert.PanicsWithValue(t, "tick 2: waiting order 2 references cook 9", func() { s.Step() })
}
