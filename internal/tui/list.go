package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/database/repository"
	"github.com/jask/worklog/internal/keybind"
)

type listScreen struct {
	app      *App
	keys     *keyScope
	tasks    []repository.Task
	selected int
	loading  bool
}

type tasksLoadedMsg struct {
	from  *listScreen
	tasks []repository.Task
	err   error
}

func newListScreen(a *App) *listScreen {
	s := &listScreen{app: a}
	s.keys = newKeyScope(a.keys, string(routeTasks), a.cfg.Keys, s.bindings)
	return s
}

// bindings close over a snapshot of the selection; selectRow rebuilds them
// whenever it changes.
func (s *listScreen) bindings() []keybind.Binding {
	n, sel := len(s.tasks), s.selected
	back := func() tea.Cmd { return s.app.navigate(routeHome) }
	return []keybind.Binding{
		keybind.On(keybind.Key(keybind.KeyBackspace).OrMods(keybind.ModAlt, keybind.ModCtrl), back).
			Named("list.back").WithHelp("back"),
		keybind.On(keybind.Key(keybind.KeyEscape), back).Named("list.escape"),
		keybind.On(keybind.AnyKey(keybind.KeyArrowDown, "j"), func() tea.Cmd {
			if n > 0 {
				s.selectRow(min(sel+1, n-1))
			}
			return nil
		}).Named("list.down").WithHelp("down"),
		keybind.On(keybind.AnyKey(keybind.KeyArrowUp, "k"), func() tea.Cmd {
			if n > 0 {
				s.selectRow(max(sel-1, 0))
			}
			return nil
		}).Named("list.up").WithHelp("up"),
		keybind.On(keybind.Key(keybind.KeyEnter).OrMods(keybind.ModAlt, keybind.ModMeta), func() tea.Cmd {
			return s.app.navigate(routeNewTask)
		}).Named("list.new").WithHelp("new task"),
		keybind.On(keybind.Key("r").OrMods(keybind.ModCtrl, keybind.ModAlt), s.load).
			Named("list.refresh").WithHelp("refresh"),
	}
}

func (s *listScreen) selectRow(i int) {
	if i == s.selected {
		return
	}
	s.selected = i
	s.keys.refresh()
}

func (s *listScreen) scope() *keyScope { return s.keys }

func (s *listScreen) init() tea.Cmd { return s.load() }

func (s *listScreen) load() tea.Cmd {
	s.loading = true
	return s.app.invoke(backend.CmdGetTasks, nil, func(r backend.Result, err error) tea.Msg {
		if err != nil {
			return tasksLoadedMsg{from: s, err: err}
		}
		var tasks []repository.Task
		if err := r.Decode(&tasks); err != nil {
			return tasksLoadedMsg{from: s, err: err}
		}
		return tasksLoadedMsg{from: s, tasks: tasks}
	})
}

func (s *listScreen) update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(tasksLoadedMsg)
	if !ok || m.from != s {
		return nil
	}
	s.loading = false
	if m.err != nil {
		return nil
	}
	s.tasks = m.tasks
	s.selected = max(min(s.selected, len(s.tasks)-1), 0)
	s.keys.refresh()
	return nil
}

func (s *listScreen) leave() {}

func (s *listScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")
	switch {
	case s.loading && len(s.tasks) == 0:
		b.WriteString(mutedStyle.Render("Loading tasks..."))
		return b.String()
	case len(s.tasks) == 0:
		b.WriteString(mutedStyle.Render("No tasks yet."))
		return b.String()
	}

	limit := s.app.cfg.UI.Truncate
	width := s.app.contentWidth()
	for i, t := range s.tasks {
		date := t.CreatedAt.Local().Format("2006-01-02 15:04")
		desc := truncate(t.Description, limit)
		var row string
		if i == s.selected {
			row = selectedRowStyle.Render(fmt.Sprintf("› %s  %s", date, desc))
		} else {
			row = "  " + dateStyle.Render(date) + "  " + rowStyle.Render(desc)
		}
		if width > 0 {
			row = ansi.Truncate(row, width, "…")
		}
		b.WriteString(row + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate cuts s to limit runes and appends "..." when anything was cut.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
