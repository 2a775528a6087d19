package prefs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jask/daybook/internal/settings"
)

const settingsFile = "settings.json"

// DefaultPath is settings.json in the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daybook", settingsFile), nil
}

// FileStore keeps the aggregate as one JSON document. It implements
// settings.Store.
type FileStore struct {
	Path string
}

// Load returns the defaults when the file does not exist yet.
func (s FileStore) Load(_ context.Context) (settings.Settings, error) {
	out := settings.Defaults()
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return settings.Settings{}, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return settings.Settings{}, err
	}
	return out, nil
}

// Save replaces the file atomically.
func (s FileStore) Save(_ context.Context, v settings.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
