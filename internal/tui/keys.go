package tui

import (
	"log"
	"strings"

	"github.com/jask/worklog/internal/keybind"
)

// keyScope owns one dispatcher subscription. build is called whenever the
// scope is opened or refreshed, so the bindings always close over the owner's
// current state.
type keyScope struct {
	d         *keybind.Dispatcher
	name      string
	build     func() []keybind.Binding
	overrides []keybind.Override
	sub       *keybind.Subscription
}

func newKeyScope(d *keybind.Dispatcher, name string, overrides []keybind.Override, build func() []keybind.Binding) *keyScope {
	return &keyScope{d: d, name: name, build: build, overrides: overrides}
}

func (k *keyScope) bindings() []keybind.Binding {
	defaults := k.build()
	bs, err := keybind.ApplyOverrides(defaults, k.overrides)
	if err != nil {
		log.Printf("keys %s: %v", k.name, err)
		return defaults
	}
	return bs
}

// open registers the scope unless it is already attached.
func (k *keyScope) open() {
	if k.sub.Active() {
		return
	}
	bs := k.bindings()
	for _, c := range keybind.Conflicts(bs) {
		log.Printf("keys %s: %s is bound by %s", k.name, c.Key, strings.Join(c.IDs, ", "))
	}
	k.sub = k.d.Register(k.name, bs)
}

// refresh swaps in bindings built from the current state. Closed scopes stay closed.
func (k *keyScope) refresh() {
	k.sub.Replace(k.bindings())
}

func (k *keyScope) close() {
	k.sub.Close()
}

// current returns the live bindings, or the ones open would register.
func (k *keyScope) current() []keybind.Binding {
	if k.sub.Active() {
		return k.sub.Bindings()
	}
	return k.bindings()
}

func (k *keyScope) lookup(id string) (keybind.Binding, bool) {
	if k.sub.Active() {
		return k.sub.Lookup(id)
	}
	return keybind.Find(k.bindings(), id)
}
