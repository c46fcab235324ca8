package keybind

import tea "github.com/charmbracelet/bubbletea"

// Action runs when its binding matches. The returned command, if any, is
// handed back to bubbletea and runs asynchronously.
type Action func() tea.Cmd

// Binding is one shortcut: a predicate over key events and the action it
// triggers.
type Binding struct {
	// ID lets other UI elements find the binding by purpose, e.g. "form.submit".
	ID string
	// Cond describes the binding for hints and overrides. When Predicate is nil
	// it is also what gets evaluated.
	Cond      Condition
	Predicate func(Event) bool
	Action    Action
	Help      string
}

// On binds a structured condition.
func On(cond Condition, action Action) Binding {
	return Binding{Cond: cond, Action: action}
}

// When binds a free-form predicate. Such bindings never get a hint.
func When(pred func(Event) bool, action Action) Binding {
	return Binding{Predicate: pred, Action: action}
}

// Named sets the binding identifier.
func (b Binding) Named(id string) Binding {
	b.ID = id
	return b
}

// WithHelp sets the short description shown in the footer.
func (b Binding) WithHelp(desc string) Binding {
	b.Help = desc
	return b
}

// Matches evaluates the binding's predicate against ev.
func (b Binding) Matches(ev Event) bool {
	if b.Predicate != nil {
		return b.Predicate(ev)
	}
	return b.Cond.Matches(ev)
}

// Find returns the first binding with the given identifier.
func Find(bindings []Binding, id string) (Binding, bool) {
	if id == "" {
		return Binding{}, false
	}
	for _, b := range bindings {
		if b.ID == id {
			return b, true
		}
	}
	return Binding{}, false
}
