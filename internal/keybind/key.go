package keybind

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	// ModMeta is Cmd on macOS and Super/Win elsewhere.
	ModMeta
)

// Has reports whether all of mod are set.
func (m Modifier) Has(mod Modifier) bool { return m&mod == mod }

// HasAny reports whether at least one of mod is set.
func (m Modifier) HasAny(mod Modifier) bool { return m&mod != 0 }

// String returns the modifiers in notation order, e.g. "ctrl+alt".
func (m Modifier) String() string {
	var parts []string
	for _, mod := range modifierOrder {
		if m.Has(mod) {
			parts = append(parts, modifierNotation[mod])
		}
	}
	return strings.Join(parts, "+")
}

var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModMeta}

var modifierNotation = map[Modifier]string{
	ModCtrl:  "ctrl",
	ModAlt:   "alt",
	ModShift: "shift",
	ModMeta:  "meta",
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"ctl":     ModCtrl,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
}

// Canonical names for non-printable keys.
const (
	KeyEscape     = "Escape"
	KeyEnter      = "Enter"
	KeyBackspace  = "Backspace"
	KeyTab        = "Tab"
	KeySpace      = "Space"
	KeyDelete     = "Delete"
	KeyInsert     = "Insert"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
)

var keyAliases = map[string]string{
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"tab":        KeyTab,
	"space":      KeySpace,
	"spacebar":   KeySpace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"up":         KeyArrowUp,
	"arrowup":    KeyArrowUp,
	"down":       KeyArrowDown,
	"arrowdown":  KeyArrowDown,
	"left":       KeyArrowLeft,
	"arrowleft":  KeyArrowLeft,
	"right":      KeyArrowRight,
	"arrowright": KeyArrowRight,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdown":     KeyPageDown,
}

// Event is one key press as seen by predicates.
type Event struct {
	// Key is a canonical key name (KeyEscape, KeyArrowDown, ...) or a single
	// printable character. Characters keep their case.
	Key  string
	Mods Modifier
}

// NewEvent builds an event, normalising the key name.
func NewEvent(key string, mods ...Modifier) Event {
	ev := Event{Key: normalizeKeyName(key)}
	for _, m := range mods {
		ev.Mods |= m
	}
	return ev
}

// String returns the event in config notation, e.g. "alt+enter".
func (e Event) String() string {
	if e.Mods == ModNone {
		return notationKey(e.Key)
	}
	return e.Mods.String() + "+" + notationKey(e.Key)
}

// FromKeyMsg decodes a bubbletea key message.
func FromKeyMsg(msg tea.KeyMsg) Event {
	var ev Event
	if msg.Alt {
		ev.Mods |= ModAlt
	}

	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			r := msg.Runes[0]
			if r == ' ' {
				ev.Key = KeySpace
				return ev
			}
			if unicode.IsUpper(r) {
				ev.Mods |= ModShift
			}
		}
		ev.Key = string(msg.Runes)
		return ev
	case tea.KeySpace:
		ev.Key = KeySpace
	case tea.KeyEsc:
		ev.Key = KeyEscape
	case tea.KeyEnter:
		ev.Key = KeyEnter
	case tea.KeyBackspace:
		ev.Key = KeyBackspace
	case tea.KeyCtrlH:
		// Most terminals send ^H for ctrl+backspace.
		ev.Key = KeyBackspace
		ev.Mods |= ModCtrl
	case tea.KeyTab:
		ev.Key = KeyTab
	case tea.KeyShiftTab:
		ev.Key = KeyTab
		ev.Mods |= ModShift
	case tea.KeyDelete:
		ev.Key = KeyDelete
	case tea.KeyInsert:
		ev.Key = KeyInsert
	case tea.KeyUp:
		ev.Key = KeyArrowUp
	case tea.KeyDown:
		ev.Key = KeyArrowDown
	case tea.KeyLeft:
		ev.Key = KeyArrowLeft
	case tea.KeyRight:
		ev.Key = KeyArrowRight
	case tea.KeyShiftUp:
		ev.Key, ev.Mods = KeyArrowUp, ev.Mods|ModShift
	case tea.KeyShiftDown:
		ev.Key, ev.Mods = KeyArrowDown, ev.Mods|ModShift
	case tea.KeyShiftLeft:
		ev.Key, ev.Mods = KeyArrowLeft, ev.Mods|ModShift
	case tea.KeyShiftRight:
		ev.Key, ev.Mods = KeyArrowRight, ev.Mods|ModShift
	case tea.KeyCtrlUp:
		ev.Key, ev.Mods = KeyArrowUp, ev.Mods|ModCtrl
	case tea.KeyCtrlDown:
		ev.Key, ev.Mods = KeyArrowDown, ev.Mods|ModCtrl
	case tea.KeyCtrlLeft:
		ev.Key, ev.Mods = KeyArrowLeft, ev.Mods|ModCtrl
	case tea.KeyCtrlRight:
		ev.Key, ev.Mods = KeyArrowRight, ev.Mods|ModCtrl
	case tea.KeyHome:
		ev.Key = KeyHome
	case tea.KeyEnd:
		ev.Key = KeyEnd
	case tea.KeyPgUp:
		ev.Key = KeyPageUp
	case tea.KeyPgDown:
		ev.Key = KeyPageDown
	default:
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			ev.Key = string(rune('a' + int(msg.Type-tea.KeyCtrlA)))
			ev.Mods |= ModCtrl
			return ev
		}
		// Fall back to bubbletea's own name so unknown keys stay distinguishable.
		ev.Key = msg.String()
	}
	return ev
}

// normalizeKeyName maps aliases to canonical names. Single characters keep
// their case so "n" and "N" can be bound separately.
func normalizeKeyName(k string) string {
	if k == " " {
		return KeySpace
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if utf8.RuneCountInString(trimmed) == 1 {
		return trimmed
	}
	s := strings.ToLower(strings.ReplaceAll(trimmed, " ", ""))
	if canonical, ok := keyAliases[s]; ok {
		return canonical
	}
	return trimmed
}

// notationKey is the inverse of normalizeKeyName for config notation.
func notationKey(k string) string {
	switch k {
	case KeyEscape:
		return "esc"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	}
	if utf8.RuneCountInString(k) == 1 {
		return k
	}
	return strings.ToLower(k)
}
