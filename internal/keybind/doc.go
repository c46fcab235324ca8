// Package keybind owns keyboard shortcut registration and dispatch.
//
// A screen (or the whole program) registers an ordered list of bindings and gets
// back a Subscription that stays attached until it is closed. Every key event is
// offered to every active subscription in activation order, and within one
// subscription to every binding in declaration order. Matching is not exclusive:
// all matching bindings fire and no event is ever consumed.
//
// Bindings carry a structured Condition next to their executable predicate so
// that on-screen hints can be derived without inspecting behaviour.
//
// The package is not safe for concurrent use. Dispatch, Register, Replace and
// Close are expected to run on the bubbletea update goroutine.
package keybind
