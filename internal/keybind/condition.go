package keybind

import (
	"fmt"
	"slices"
	"strings"
)

// Condition is the structured form of a key predicate: a set of alternative
// keys plus the modifiers that must be held. Extra modifiers do not prevent a
// match, the same way a browser predicate like key === 'Escape' ignores them.
type Condition struct {
	Keys []string
	// Mods must all be held.
	Mods Modifier
	// AnyMods, when non-zero, requires at least one of its modifiers.
	AnyMods Modifier
}

// Key builds a single-key condition.
func Key(name string, mods ...Modifier) Condition {
	c := Condition{Keys: []string{normalizeKeyName(name)}}
	for _, m := range mods {
		c.Mods |= m
	}
	return c
}

// AnyKey builds a condition matching any of the named keys.
func AnyKey(names ...string) Condition {
	c := Condition{Keys: make([]string, 0, len(names))}
	for _, n := range names {
		if k := normalizeKeyName(n); k != "" && !slices.Contains(c.Keys, k) {
			c.Keys = append(c.Keys, k)
		}
	}
	return c
}

// OrMods returns a copy that also requires one of mods, e.g. meta-or-ctrl.
func (c Condition) OrMods(mods ...Modifier) Condition {
	c.Keys = slices.Clone(c.Keys)
	for _, m := range mods {
		c.AnyMods |= m
	}
	return c
}

// IsZero reports whether the condition names no key.
func (c Condition) IsZero() bool { return len(c.Keys) == 0 }

// Matches reports whether ev satisfies the condition.
func (c Condition) Matches(ev Event) bool {
	if c.IsZero() || !ev.Mods.Has(c.Mods) {
		return false
	}
	if c.AnyMods != ModNone && !ev.Mods.HasAny(c.AnyMods) {
		return false
	}
	return slices.Contains(c.Keys, ev.Key)
}

// String renders the condition in config notation. Alternative keys are
// joined with "/" and alternative modifiers with "|", e.g. "alt|meta+enter".
func (c Condition) String() string {
	keys := make([]string, 0, len(c.Keys))
	for _, k := range c.Keys {
		keys = append(keys, notationKey(k))
	}
	prefix := c.Mods.String()
	if c.AnyMods != ModNone {
		alt := strings.ReplaceAll(c.AnyMods.String(), "+", "|")
		if prefix != "" {
			prefix += "+"
		}
		prefix += alt
	}
	if prefix == "" {
		return strings.Join(keys, "/")
	}
	return prefix + "+" + strings.Join(keys, "/")
}

// ParseCondition decodes notation such as "alt+enter", "ctrl+r" or "esc".
// The last "+"-separated part is the key; a trailing "+" binds the plus key.
// It accepts everything String produces: "down/j" for alternative keys and
// one "|" group such as "alt|meta+enter" for alternative modifiers.
func ParseCondition(s string) (Condition, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Condition{}, fmt.Errorf("parse key %q: empty", s)
	}

	var keyPart string
	var modParts []string
	switch {
	case raw == "+":
		keyPart = "+"
	case strings.HasSuffix(raw, "++"):
		keyPart = "+"
		modParts = strings.Split(strings.TrimSuffix(raw, "++"), "+")
	default:
		parts := strings.Split(raw, "+")
		keyPart = parts[len(parts)-1]
		modParts = parts[:len(parts)-1]
	}

	var c Condition
	for _, p := range modParts {
		names := strings.Split(p, "|")
		var group Modifier
		for _, n := range names {
			mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(n))]
			if !ok {
				return Condition{}, fmt.Errorf("parse key %q: unknown modifier %q", s, n)
			}
			group |= mod
		}
		if len(names) == 1 {
			c.Mods |= group
			continue
		}
		if c.AnyMods != ModNone {
			return Condition{}, fmt.Errorf("parse key %q: more than one alternative modifier group", s)
		}
		c.AnyMods = group
	}

	names := []string{keyPart}
	if keyPart != "/" && strings.Contains(keyPart, "/") {
		names = strings.Split(keyPart, "/")
	}
	for _, n := range names {
		k := normalizeKeyName(n)
		if k == "" {
			return Condition{}, fmt.Errorf("parse key %q: missing key", s)
		}
		if !slices.Contains(c.Keys, k) {
			c.Keys = append(c.Keys, k)
		}
	}
	return c, nil
}
