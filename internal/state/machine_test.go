package state_test

import (
	"errors"
	"testing"

	"telenovela/internal/state"
)

type testState string

const (
	statePending    testState = "pending"
	stateGenerating testState = "generating"
	stateGenerated  testState = "generated"
	stateApproved   testState = "approved"
)

func newTestMachine() state.Machine[testState] {
	return state.New("TestEntity", state.Table[testState]{
		statePending:    {stateGenerating},
		stateGenerating: {stateGenerated, statePending},
		stateGenerated:  {stateApproved},
		stateApproved:   {stateGenerated},
	})
}

func TestTransitionFollowsTable(t *testing.T) {
	m := newTestMachine()
	states := []testState{statePending, stateGenerating, stateGenerated, stateApproved}

	allowed := map[[2]testState]bool{
		{statePending, stateGenerating}:    true,
		{stateGenerating, stateGenerated}:  true,
		{stateGenerating, statePending}:    true,
		{stateGenerated, stateApproved}:    true,
		{stateApproved, stateGenerated}:    true,
	}

	for _, from := range states {
		for _, to := range states {
			got, err := m.Transition(from, to)
			if allowed[[2]testState{from, to}] {
				if err != nil {
					t.Fatalf("%s -> %s: unexpected error: %v", from, to, err)
				}
				if got != to {
					t.Fatalf("%s -> %s: expected new state %s, got %s", from, to, to, got)
				}
				continue
			}
			if err == nil {
				t.Fatalf("%s -> %s: expected error", from, to)
			}
			if got != from {
				t.Fatalf("%s -> %s: state changed on failed transition: %s", from, to, got)
			}
		}
	}
}

func TestTransitionErrorDetails(t *testing.T) {
	m := newTestMachine()
	_, err := m.Transition(statePending, stateApproved)
	var invalid *state.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if invalid.Entity != "TestEntity" || invalid.Current != "pending" || invalid.Target != "approved" {
		t.Fatalf("unexpected error details: %#v", invalid)
	}
}

func TestCanMirrorsTransition(t *testing.T) {
	m := newTestMachine()
	if !m.Can(statePending, stateGenerating) {
		t.Fatal("expected pending -> generating to be legal")
	}
	if m.Can(stateApproved, statePending) {
		t.Fatal("expected approved -> pending to be illegal")
	}
}

func TestTerminalStateHasNoTransitions(t *testing.T) {
	m := state.New("Idea", state.Table[testState]{
		statePending: {stateApproved},
	})
	if m.Can(stateApproved, statePending) {
		t.Fatal("terminal state must not allow transitions")
	}
}
