package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/keybind"
)

type homeScreen struct {
	app      *App
	keys     *keyScope
	greeting string
}

type greetedMsg struct {
	from *homeScreen
	text string
}

func newHomeScreen(a *App) *homeScreen {
	s := &homeScreen{app: a}
	s.keys = newKeyScope(a.keys, string(routeHome), a.cfg.Keys, s.bindings)
	return s
}

func (s *homeScreen) bindings() []keybind.Binding {
	return []keybind.Binding{
		keybind.On(keybind.Key("n", keybind.ModAlt), func() tea.Cmd {
			return s.app.navigate(routeNewTask)
		}).Named("home.new").WithHelp("new task"),
		keybind.On(keybind.Key("l", keybind.ModAlt), func() tea.Cmd {
			return s.app.navigate(routeTasks)
		}).Named("home.list").WithHelp("view tasks"),
	}
}

func (s *homeScreen) scope() *keyScope { return s.keys }

func (s *homeScreen) init() tea.Cmd {
	return s.app.invoke(backend.CmdGreet, map[string]any{"name": s.app.user}, func(r backend.Result, err error) tea.Msg {
		if err != nil {
			return greetedMsg{from: s}
		}
		return greetedMsg{from: s, text: r.String()}
	})
}

func (s *homeScreen) update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(greetedMsg); ok && m.from == s {
		s.greeting = m.text
	}
	return nil
}

func (s *homeScreen) leave() {}

func (s *homeScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to Worklog"))
	b.WriteString("\n")
	if s.greeting != "" {
		b.WriteString(subtitleStyle.Render(s.greeting))
	} else {
		b.WriteString(subtitleStyle.Render("Keep a running log of what you work on."))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
		s.button("New task", "home.new"),
		s.button("View tasks", "home.list"),
	))
	return b.String()
}

// button renders a label with the boxed shortcut of the binding it triggers.
// Bindings without a single literal key get no hint.
func (s *homeScreen) button(label, id string) string {
	btn := buttonStyle.Render(label)
	b, ok := s.keys.lookup(id)
	if !ok {
		return btn
	}
	hint := keybind.Preview(b, hintBoxStyle)
	if hint == "" {
		return btn
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, btn, "  ", hint)
}
