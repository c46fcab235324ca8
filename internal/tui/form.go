package tui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/keybind"
	"github.com/jask/worklog/internal/prefs"
)

type formScreen struct {
	app    *App
	keys   *keyScope
	input  textarea.Model
	saving bool
}

type taskSavedMsg struct {
	from   *formScreen
	task   string
	result string
	err    error
}

func newFormScreen(a *App) *formScreen {
	ta := textarea.New()
	ta.Placeholder = "What are you working on?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetWidth(60)
	ta.SetHeight(4)

	s := &formScreen{app: a, input: ta}
	s.keys = newKeyScope(a.keys, string(routeNewTask), a.cfg.Keys, s.bindings)
	return s
}

func (s *formScreen) bindings() []keybind.Binding {
	saving := s.saving
	back := func() tea.Cmd { return s.app.navigate(routeHome) }
	return []keybind.Binding{
		keybind.On(keybind.Key(keybind.KeyEnter).OrMods(keybind.ModAlt, keybind.ModMeta), func() tea.Cmd {
			if saving {
				return nil
			}
			return s.submit()
		}).Named("form.submit").WithHelp("save"),
		keybind.On(keybind.Key(keybind.KeyBackspace).OrMods(keybind.ModAlt, keybind.ModCtrl), back).
			Named("form.cancel").WithHelp("cancel"),
		keybind.On(keybind.Key(keybind.KeyEscape), back).Named("form.back"),
	}
}

func (s *formScreen) scope() *keyScope { return s.keys }

func (s *formScreen) init() tea.Cmd {
	if s.app.drafts != nil {
		d, err := s.app.drafts.LoadDraft()
		if err != nil {
			log.Printf("load draft: %v", err)
		} else if d.Text != "" {
			s.input.SetValue(d.Text)
		}
	}
	return s.input.Focus()
}

func (s *formScreen) submit() tea.Cmd {
	task := s.input.Value()
	s.setSaving(true)
	return s.app.invoke(backend.CmdSaveTask, map[string]any{"task": task}, func(r backend.Result, err error) tea.Msg {
		msg := taskSavedMsg{from: s, task: strings.TrimSpace(task), err: err}
		if err == nil {
			msg.result = r.String()
		}
		return msg
	})
}

func (s *formScreen) setSaving(v bool) {
	s.saving = v
	s.keys.refresh()
}

func (s *formScreen) update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(taskSavedMsg); ok {
		if m.from != s {
			// A form the user left finished saving what this one restored
			// from the draft.
			if m.err == nil && strings.TrimSpace(s.input.Value()) == m.task {
				s.input.Reset()
			}
			return nil
		}
		s.setSaving(false)
		if m.err != nil {
			return nil
		}
		s.input.Reset()
		if s.app.drafts != nil {
			if err := s.app.drafts.ClearDraft(); err != nil {
				log.Printf("clear draft: %v", err)
			}
		}
		return s.input.Focus()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// leave keeps the text as a draft, even while a save is in flight: the result
// of that save only reaches the app once this form is gone.
func (s *formScreen) leave() {
	if s.app.drafts == nil {
		return
	}
	d := prefs.Draft{Text: s.input.Value(), UpdatedAt: s.app.now().UTC()}
	if err := s.app.drafts.SaveDraft(d); err != nil {
		log.Printf("save draft: %v", err)
	}
}

func (s *formScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")
	if s.saving {
		b.WriteString(mutedStyle.Render("Saving..."))
	}
	return b.String()
}
