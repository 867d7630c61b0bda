package state

import "fmt"

// InvalidTransitionError reports an attempt to move an entity outside its
// legal transition graph. The daemon maps it to HTTP 409.
type InvalidTransitionError struct {
	Entity  string
	Current string
	Target  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %q to %q", e.Entity, e.Current, e.Target)
}

// Table maps each state to the set of states it may legally move to.
// States absent from the table are terminal.
type Table[S ~string] map[S][]S

// Machine validates transitions for one entity family against its table.
// The zero value is unusable; construct with New.
type Machine[S ~string] struct {
	entity string
	table  Table[S]
}

// New builds a machine for the named entity family.
func New[S ~string](entity string, table Table[S]) Machine[S] {
	return Machine[S]{entity: entity, table: table}
}

// Can reports whether current -> target is a legal transition. It never
// mutates anything; gate and UI logic use it to probe without side effects.
func (m Machine[S]) Can(current, target S) bool {
	for _, allowed := range m.table[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition validates current -> target and returns the new state, or an
// *InvalidTransitionError carrying the entity family and both states.
func (m Machine[S]) Transition(current, target S) (S, error) {
	if !m.Can(current, target) {
		return current, &InvalidTransitionError{
			Entity:  m.entity,
			Current: string(current),
			Target:  string(target),
		}
	}
	return target, nil
}

// Entity returns the family name the machine validates for.
func (m Machine[S]) Entity() string {
	return m.entity
}
