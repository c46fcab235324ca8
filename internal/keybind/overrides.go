package keybind

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Override rebinds the binding with the given identifier to new keys.
// Several keys are alternatives and must share their modifiers. Keys use the
// notation of ParseCondition, so "alt|meta+enter" rebinds to either modifier.
type Override struct {
	ID   string   `mapstructure:"id"`
	Keys []string `mapstructure:"keys"`
}

// ApplyOverrides returns a copy of bindings with the matching overrides
// applied. Overrides naming an identifier not present in bindings are ignored,
// since they usually target another scope.
func ApplyOverrides(bindings []Binding, overrides []Override) ([]Binding, error) {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	if len(overrides) == 0 {
		return out, nil
	}

	seen := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		id := strings.TrimSpace(o.ID)
		if id == "" {
			return nil, fmt.Errorf("key override: id is required")
		}
		if seen[id] {
			return nil, fmt.Errorf("key override id=%q: duplicated override entry", id)
		}
		seen[id] = true
		cond, err := parseAlternatives(o.Keys)
		if err != nil {
			return nil, fmt.Errorf("key override id=%q: %w", id, err)
		}
		for i := range out {
			if out[i].ID != id {
				continue
			}
			out[i].Cond = cond
			out[i].Predicate = nil
		}
	}
	return out, nil
}

func parseAlternatives(keys []string) (Condition, error) {
	if len(keys) == 0 {
		return Condition{}, fmt.Errorf("keys are required")
	}
	var out Condition
	for i, k := range keys {
		c, err := ParseCondition(k)
		if err != nil {
			return Condition{}, err
		}
		if i == 0 {
			out.Mods, out.AnyMods = c.Mods, c.AnyMods
		} else if c.Mods != out.Mods || c.AnyMods != out.AnyMods {
			return Condition{}, fmt.Errorf("keys %q: alternatives must share modifiers", keys)
		}
		for _, k := range c.Keys {
			if !slices.Contains(out.Keys, k) {
				out.Keys = append(out.Keys, k)
			}
		}
	}
	return out, nil
}

// Conflict is a key combination claimed by more than one binding in a scope.
type Conflict struct {
	Key string
	IDs []string
}

// Conflicts lists keys bound more than once within bindings. All of them
// will fire, which is allowed but usually unintended.
func Conflicts(bindings []Binding) []Conflict {
	owners := make(map[string][]string)
	for _, b := range bindings {
		if b.Cond.AnyMods != ModNone {
			continue
		}
		for _, k := range b.Cond.Keys {
			combo := Event{Key: k, Mods: b.Cond.Mods}.String()
			owners[combo] = append(owners[combo], b.ID)
		}
	}
	var out []Conflict
	for combo, ids := range owners {
		if len(ids) > 1 {
			out = append(out, Conflict{Key: combo, IDs: ids})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
