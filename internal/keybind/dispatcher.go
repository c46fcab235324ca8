package keybind

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Dispatcher fans key events out to every active subscription.
type Dispatcher struct {
	// subs is replaced, never modified in place, so a dispatch in progress
	// keeps iterating the set that was active when the event arrived.
	subs []*Subscription
}

// Subscription is one attached scope. It is returned by Register and stays
// attached until Close.
type Subscription struct {
	d        *Dispatcher
	name     string
	bindings []Binding
	// gen changes on every Replace so an in-flight dispatch can tell that the
	// bindings it started with are stale.
	gen    uint64
	active bool
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Register attaches a scope. The bindings are copied; later changes to the
// caller's slice have no effect.
func (d *Dispatcher) Register(name string, bindings []Binding) *Subscription {
	s := &Subscription{
		d:        d,
		name:     name,
		bindings: slices.Clone(bindings),
		active:   true,
	}
	d.subs = append(slices.Clone(d.subs), s)
	return s
}

// Dispatch offers ev to every active scope in activation order and, within a
// scope, to every binding in declaration order. All matching actions fire.
// It reports whether any binding matched; each predicate runs at most once.
// Panics from predicates or actions are not recovered here.
func (d *Dispatcher) Dispatch(ev Event) (tea.Cmd, bool) {
	var cmds []tea.Cmd
	var matched bool
	for _, s := range d.subs {
		gen, bindings := s.gen, s.bindings
		for _, b := range bindings {
			// An earlier action may have closed or replaced this scope.
			if !s.active || s.gen != gen {
				break
			}
			if b.Action == nil || !b.Matches(ev) {
				continue
			}
			matched = true
			if cmd := b.Action(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...), matched
}

// Lookup returns the first binding with the given identifier across active
// scopes, in activation order.
func (d *Dispatcher) Lookup(id string) (Binding, bool) {
	for _, s := range d.subs {
		if b, ok := Find(s.bindings, id); ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Scopes lists the names of the active scopes in activation order.
func (d *Dispatcher) Scopes() []string {
	out := make([]string, 0, len(d.subs))
	for _, s := range d.subs {
		out = append(out, s.name)
	}
	return out
}

func (d *Dispatcher) detach(target *Subscription) {
	d.subs = slices.DeleteFunc(slices.Clone(d.subs), func(s *Subscription) bool {
		return s == target
	})
}

// Active reports whether the scope is still attached.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Bindings returns a copy of the current bindings.
func (s *Subscription) Bindings() []Binding {
	if s == nil {
		return nil
	}
	return slices.Clone(s.bindings)
}

// Lookup returns the scope's binding with the given identifier.
func (s *Subscription) Lookup(id string) (Binding, bool) {
	if s == nil {
		return Binding{}, false
	}
	return Find(s.bindings, id)
}

// Replace swaps the scope's bindings for a fresh list. The old list never
// fires again, even later within the event currently being dispatched.
// Replacing a closed subscription is a no-op.
func (s *Subscription) Replace(bindings []Binding) {
	if !s.Active() {
		return
	}
	s.bindings = slices.Clone(bindings)
	s.gen++
}

// Close detaches the scope. It is safe to call more than once.
func (s *Subscription) Close() {
	if !s.Active() {
		return
	}
	s.active = false
	s.d.detach(s)
}
