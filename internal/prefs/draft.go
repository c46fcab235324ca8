// Package prefs keeps small pieces of UI state between runs in the user's
// config directory.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const draftFile = "draft.json"

// Draft is the unsent text of the task form.
type Draft struct {
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store reads and writes prefs files under Dir.
type Store struct {
	Dir string
}

// DefaultStore uses <user config dir>/worklog.
func DefaultStore() (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: filepath.Join(dir, "worklog")}, nil
}

func (s Store) draftPath() string {
	return filepath.Join(s.Dir, draftFile)
}

// SaveDraft persists d. A blank draft removes the file instead.
func (s Store) SaveDraft(d Draft) error {
	if strings.TrimSpace(d.Text) == "" {
		return s.ClearDraft()
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	path := s.draftPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadDraft returns the saved draft, or the zero Draft if there is none.
func (s Store) LoadDraft() (Draft, error) {
	data, err := os.ReadFile(s.draftPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Draft{}, nil
		}
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s Store) ClearDraft() error {
	err := os.Remove(s.draftPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
