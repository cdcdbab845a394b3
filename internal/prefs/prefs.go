package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"otterWizard/internal/logger"
)

// CurrentVersion is written to every saved preferences file.
const CurrentVersion = 1

// ErrCorrupt reports a preferences file that exists but cannot be parsed.
// Load still returns usable defaults alongside it.
var ErrCorrupt = errors.New("preferences file is corrupt")

// DefaultUsers are the built-in user names used when no preferences exist.
var DefaultUsers = []string{"Casey", "Darvis", "Otter"}

// Preferences is the persisted user list and completion-sound setting.
type Preferences struct {
	Version                    int      `json:"version"`
	Users                      []string `json:"users"`
	DefaultUser                string   `json:"default_user"`
	CompleteSoundPath          string   `json:"complete_sound_path"`
	PlayCompleteSoundOnSuccess bool     `json:"play_complete_sound_on_success"`
}

// document mirrors Preferences with pointer fields so absent keys can be
// told apart from zero values.
type document struct {
	Version                    int      `json:"version"`
	Users                      []string `json:"users"`
	DefaultUser                *string  `json:"default_user"`
	CompleteSoundPath          *string  `json:"complete_sound_path"`
	PlayCompleteSoundOnSuccess *bool    `json:"play_complete_sound_on_success"`
}

// Default returns the preferences used on first run.
func Default() *Preferences {
	users := slices.Clone(DefaultUsers)
	return &Preferences{
		Version:                    CurrentVersion,
		Users:                      users,
		DefaultUser:                users[0],
		CompleteSoundPath:          "",
		PlayCompleteSoundOnSuccess: true,
	}
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	c := *p
	c.Users = slices.Clone(p.Users)
	return &c
}

// Load reads the preferences file at path. A missing file yields Default().
// A file that cannot be parsed yields Default() together with an error
// wrapping ErrCorrupt.
func Load(path string) (*Preferences, error) {
	data, err := readFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("Preferences file not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Error("Failed to parse preferences", "path", path, "error", err)
		return Default(), fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	return fromDocument(doc), nil
}

func fromDocument(doc document) *Preferences {
	p := Default()

	if len(doc.Users) > 0 {
		p.Users = slices.Clone(doc.Users)
	}
	p.DefaultUser = p.Users[0]
	if doc.DefaultUser != nil && *doc.DefaultUser != "" {
		p.DefaultUser = *doc.DefaultUser
	}
	if doc.CompleteSoundPath != nil {
		p.CompleteSoundPath = *doc.CompleteSoundPath
	}
	if doc.PlayCompleteSoundOnSuccess != nil {
		p.PlayCompleteSoundOnSuccess = *doc.PlayCompleteSoundOnSuccess
	}

	// The default user must always be selectable.
	if !slices.Contains(p.Users, p.DefaultUser) {
		logger.Warn("Default user missing from user list, restoring it", "user", p.DefaultUser)
		p.Users = append([]string{p.DefaultUser}, p.Users...)
	}

	return p
}

// Save writes p to path, replacing the previous file only once the new
// content is fully on disk.
func Save(path string, p *Preferences) error {
	out := p.Clone()
	out.Version = CurrentVersion

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := writeToFile(path, data); err != nil {
		return fmt.Errorf("failed to save preferences %s: %w", path, err)
	}
	return nil
}

// Reset overwrites the preferences file with defaults.
func Reset(path string) (*Preferences, error) {
	p := Default()
	if err := Save(path, p); err != nil {
		return nil, err
	}
	logger.Warn("Preferences reset to defaults", "path", path)
	return p, nil
}

// Store binds preferences to a file path.
type Store struct {
	Path string
}

// Save persists p to the store's path.
func (s Store) Save(p *Preferences) error {
	return Save(s.Path, p)
}

func writeToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func readFromFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
