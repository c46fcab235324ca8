package keybind

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFromKeyMsg(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want Event
	}{
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, Event{Key: KeyEscape}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, Event{Key: KeyEnter}},
		{"alt enter", tea.KeyMsg{Type: tea.KeyEnter, Alt: true}, Event{Key: KeyEnter, Mods: ModAlt}},
		{"alt backspace", tea.KeyMsg{Type: tea.KeyBackspace, Alt: true}, Event{Key: KeyBackspace, Mods: ModAlt}},
		{"ctrl h is ctrl backspace", tea.KeyMsg{Type: tea.KeyCtrlH}, Event{Key: KeyBackspace, Mods: ModCtrl}},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, Event{Key: KeyArrowDown}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, Event{Key: KeyTab, Mods: ModShift}},
		{"ctrl r", tea.KeyMsg{Type: tea.KeyCtrlR}, Event{Key: "r", Mods: ModCtrl}},
		{"ctrl c", tea.KeyMsg{Type: tea.KeyCtrlC}, Event{Key: "c", Mods: ModCtrl}},
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, Event{Key: "j"}},
		{"upper rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}}, Event{Key: "N", Mods: ModShift}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}, Alt: true}, Event{Key: ".", Mods: ModAlt}},
		{"space rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}, Event{Key: KeySpace}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromKeyMsg(tc.msg)
			if got != tc.want {
				t.Fatalf("FromKeyMsg = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	cases := map[string]Event{
		"esc":            {Key: KeyEscape},
		"alt+enter":      {Key: KeyEnter, Mods: ModAlt},
		"ctrl+r":         {Key: "r", Mods: ModCtrl},
		"ctrl+shift+up":  {Key: KeyArrowUp, Mods: ModCtrl | ModShift},
		"meta+backspace": {Key: KeyBackspace, Mods: ModMeta},
	}
	for want, ev := range cases {
		if got := ev.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}

func TestConditionMatches(t *testing.T) {
	metaOrCtrlBackspace := Key(KeyBackspace).OrMods(ModMeta, ModCtrl)
	cases := []struct {
		name string
		cond Condition
		ev   Event
		want bool
	}{
		{"plain key", Key(KeyEscape), NewEvent(KeyEscape), true},
		{"extra modifiers allowed", Key(KeyEscape), NewEvent(KeyEscape, ModShift), true},
		{"missing modifier", Key("n", ModMeta), NewEvent("n"), false},
		{"required modifier", Key("n", ModMeta), NewEvent("n", ModMeta), true},
		{"case sensitive", Key("n", ModMeta), NewEvent("N", ModMeta), false},
		{"alternatives", AnyKey(KeyArrowDown, "j"), NewEvent("j"), true},
		{"alternatives miss", AnyKey(KeyArrowDown, "j"), NewEvent("k"), false},
		{"any mod meta", metaOrCtrlBackspace, NewEvent(KeyBackspace, ModMeta), true},
		{"any mod ctrl", metaOrCtrlBackspace, NewEvent(KeyBackspace, ModCtrl), true},
		{"any mod none", metaOrCtrlBackspace, NewEvent(KeyBackspace), false},
		{"zero condition", Condition{}, NewEvent("a"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Matches(tc.ev); got != tc.want {
				t.Fatalf("Matches(%v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}

func TestParseCondition(t *testing.T) {
	cases := []struct {
		in   string
		keys []string
		mods Modifier
	}{
		{"esc", []string{KeyEscape}, ModNone},
		{"alt+enter", []string{KeyEnter}, ModAlt},
		{"Ctrl+R", []string{"R"}, ModCtrl},
		{"cmd+shift+n", []string{"n"}, ModMeta | ModShift},
		{"option+.", []string{"."}, ModAlt},
		{"ctrl++", []string{"+"}, ModCtrl},
		{"+", []string{"+"}, ModNone},
		{"return", []string{KeyEnter}, ModNone},
		{"ctrl+bs", []string{KeyBackspace}, ModCtrl},
	}
	for _, tc := range cases {
		c, err := ParseCondition(tc.in)
		if err != nil {
			t.Fatalf("ParseCondition(%q) error: %v", tc.in, err)
		}
		if len(c.Keys) != 1 || c.Keys[0] != tc.keys[0] {
			t.Fatalf("ParseCondition(%q) keys = %v, want %v", tc.in, c.Keys, tc.keys)
		}
		if c.Mods != tc.mods {
			t.Fatalf("ParseCondition(%q) mods = %v, want %v", tc.in, c.Mods, tc.mods)
		}
	}

	for _, bad := range []string{"", "hyper+a", "ctrl+", "alt|hyper+a", "ctrl|alt+meta|shift+a", "a/"} {
		if _, err := ParseCondition(bad); err == nil {
			t.Fatalf("ParseCondition(%q) expected error", bad)
		}
	}
}

func TestConditionStringRoundTrip(t *testing.T) {
	for _, in := range []string{
		"alt+enter", "ctrl+r", "esc", "alt+.",
		"alt|meta+enter", "ctrl|alt+backspace", "ctrl+alt|meta+x", "down/j", "ctrl+/",
	} {
		c, err := ParseCondition(in)
		if err != nil {
			t.Fatalf("ParseCondition(%q): %v", in, err)
		}
		if got := c.String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
	if got := AnyKey("down", "j").String(); got != "down/j" {
		t.Fatalf("alternatives String() = %q, want %q", got, "down/j")
	}
}

func TestParseConditionAlternatives(t *testing.T) {
	c, err := ParseCondition("alt|meta+enter")
	if err != nil {
		t.Fatalf("ParseCondition: %v", err)
	}
	if c.Mods != ModNone || c.AnyMods != ModAlt|ModMeta {
		t.Fatalf("mods = %v, any = %v", c.Mods, c.AnyMods)
	}
	for _, ev := range []Event{NewEvent(KeyEnter, ModAlt), NewEvent(KeyEnter, ModMeta)} {
		if !c.Matches(ev) {
			t.Fatalf("%s should match", ev)
		}
	}
	if c.Matches(NewEvent(KeyEnter)) {
		t.Fatal("bare enter should not match")
	}

	submit := Key(KeyEnter).OrMods(ModAlt, ModMeta)
	back, err := ParseCondition(submit.String())
	if err != nil {
		t.Fatalf("ParseCondition(%q): %v", submit.String(), err)
	}
	if !reflect.DeepEqual(back, submit) {
		t.Fatalf("round trip = %+v, want %+v", back, submit)
	}

	keys, err := ParseCondition("down/j")
	if err != nil {
		t.Fatalf("ParseCondition: %v", err)
	}
	if !reflect.DeepEqual(keys.Keys, []string{KeyArrowDown, "j"}) {
		t.Fatalf("keys = %v", keys.Keys)
	}
}
