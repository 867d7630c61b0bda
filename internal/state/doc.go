// Package state provides the validated-transition primitive shared by every
// stateful pipeline entity.
//
// Each entity family declares a Table describing its legal transition graph
// and wraps it in a Machine. All state changes flow through
// Machine.Transition; writing a state field directly bypasses validation and
// is a correctness violation. Machine.Can mirrors the check without side
// effects for gate and presentation logic.
package state
