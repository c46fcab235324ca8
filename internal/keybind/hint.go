package keybind

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Modifier glyphs, in display order.
const (
	GlyphCtrl  = "⌃"
	GlyphAlt   = "⌥"
	GlyphShift = "⇧"
	GlyphMeta  = "⌘"
)

var modifierGlyphs = map[Modifier]string{
	ModCtrl:  GlyphCtrl,
	ModAlt:   GlyphAlt,
	ModShift: GlyphShift,
	ModMeta:  GlyphMeta,
}

var keyGlyphs = map[string]string{
	KeyEscape:     "ESC",
	KeyEnter:      "↵",
	KeyBackspace:  "⌫",
	KeyTab:        "⇥",
	KeySpace:      "␣",
	KeyDelete:     "⌦",
	KeyInsert:     "INS",
	KeyArrowUp:    "↑",
	KeyArrowDown:  "↓",
	KeyArrowLeft:  "←",
	KeyArrowRight: "→",
	KeyHome:       "↖",
	KeyEnd:        "↘",
	KeyPageUp:     "⇞",
	KeyPageDown:   "⇟",
}

// KeyGlyph renders one key name for display.
func KeyGlyph(k string) string {
	if g, ok := keyGlyphs[k]; ok {
		return g
	}
	return strings.ToUpper(k)
}

// Glyphs returns the modifier glyphs followed by the key glyph. ok is false
// when the binding has no single literal key: free-form predicates and key
// alternatives ("ArrowDown or j") get no hint.
func Glyphs(b Binding) (glyphs []string, ok bool) {
	if len(b.Cond.Keys) != 1 {
		return nil, false
	}
	for _, mod := range modifierOrder {
		if b.Cond.Mods.Has(mod) {
			glyphs = append(glyphs, modifierGlyphs[mod])
		}
	}
	if b.Cond.AnyMods != ModNone {
		var alts []string
		for _, mod := range modifierOrder {
			if b.Cond.AnyMods.Has(mod) && !b.Cond.Mods.Has(mod) {
				alts = append(alts, modifierGlyphs[mod])
			}
		}
		if len(alts) > 0 {
			glyphs = append(glyphs, strings.Join(alts, "/"))
		}
	}
	return append(glyphs, KeyGlyph(b.Cond.Keys[0])), true
}

// Describe returns a compact label such as "⌥↵", or ok == false when the
// binding cannot be summarised.
func Describe(b Binding) (label string, ok bool) {
	glyphs, ok := Glyphs(b)
	if !ok {
		return "", false
	}
	return strings.Join(glyphs, ""), true
}

// Preview renders each glyph in its own box, joined horizontally. It returns
// "" for bindings without a hint.
func Preview(b Binding, box lipgloss.Style) string {
	glyphs, ok := Glyphs(b)
	if !ok {
		return ""
	}
	cells := make([]string, 0, len(glyphs)*2)
	for i, g := range glyphs {
		if i > 0 {
			cells = append(cells, " ")
		}
		cells = append(cells, box.Render(g))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}

// HelpBindings adapts a scope for the bubbles help view. Bindings without a
// Help text are skipped.
func HelpBindings(bindings []Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Help == "" {
			continue
		}
		label, ok := Describe(b)
		if !ok {
			if b.Cond.IsZero() {
				continue
			}
			alts := make([]string, 0, len(b.Cond.Keys))
			for _, k := range b.Cond.Keys {
				alts = append(alts, KeyGlyph(k))
			}
			label = strings.Join(alts, "/")
		}
		out = append(out, key.NewBinding(
			key.WithKeys(b.Cond.String()),
			key.WithHelp(label, b.Help),
		))
	}
	return out
}
