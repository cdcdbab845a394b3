package users

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"otterWizard/internal/logger"
	"otterWizard/internal/prefs"
)

var (
	ErrDefaultUser = errors.New("cannot remove default user")
	ErrNotFound    = errors.New("user not found")
)

// Saver persists preferences after every mutation.
type Saver interface {
	Save(p *prefs.Preferences) error
}

// Directory is the ordered user list plus the currently selected user.
// It owns the preferences value it was built from.
type Directory struct {
	prefs    *prefs.Preferences
	saver    Saver
	selected string
}

func New(p *prefs.Preferences, saver Saver) *Directory {
	return &Directory{
		prefs:    p,
		saver:    saver,
		selected: p.DefaultUser,
	}
}

// Users returns a copy of the user list in order.
func (d *Directory) Users() []string {
	return slices.Clone(d.prefs.Users)
}

func (d *Directory) Default() string {
	return d.prefs.DefaultUser
}

func (d *Directory) Selected() string {
	return d.selected
}

// Select makes name the current user. Unknown names are still accepted so
// a typed-in name can be made default or added later.
func (d *Directory) Select(name string) {
	d.selected = name
}

// Preferences returns a copy of the current preferences.
func (d *Directory) Preferences() *prefs.Preferences {
	return d.prefs.Clone()
}

// Add appends name and selects it. It reports false without saving when the
// name is blank or already present.
func (d *Directory) Add(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(d.prefs.Users, name) {
		return false, nil
	}

	by := d.selected
	d.prefs.Users = append(d.prefs.Users, name)
	d.selected = name

	logger.Info(fmt.Sprintf("User '%s' added by %s.", name, by))
	return true, d.save()
}

// Remove deletes name from the list and selects the first remaining user.
func (d *Directory) Remove(name string) error {
	if name == d.prefs.DefaultUser {
		return fmt.Errorf("%w: %s", ErrDefaultUser, name)
	}

	idx := slices.Index(d.prefs.Users, name)
	if idx < 0 {
		return fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}

	by := d.selected
	d.prefs.Users = slices.Delete(d.prefs.Users, idx, idx+1)
	d.selected = ""
	if len(d.prefs.Users) > 0 {
		d.selected = d.prefs.Users[0]
	}

	logger.Info(fmt.Sprintf("User '%s' removed by %s.", name, by))
	return d.save()
}

// SetDefault makes the selected user the default.
func (d *Directory) SetDefault() error {
	if !slices.Contains(d.prefs.Users, d.selected) {
		return fmt.Errorf("%w: '%s'", ErrNotFound, d.selected)
	}

	d.prefs.DefaultUser = d.selected
	logger.Info(fmt.Sprintf("Default user set to: %s by %s.", d.selected, d.selected))
	return d.save()
}

// SetSound stores the completion sound path.
func (d *Directory) SetSound(path string) error {
	d.prefs.CompleteSoundPath = path
	logger.Info("Complete sound selected", "path", path, "user", d.selected)
	return d.save()
}

// SetPlaySound toggles playing the completion sound after a successful run.
func (d *Directory) SetPlaySound(enabled bool) error {
	d.prefs.PlayCompleteSoundOnSuccess = enabled
	return d.save()
}

func (d *Directory) save() error {
	if d.saver == nil {
		return nil
	}
	if err := d.saver.Save(d.prefs); err != nil {
		logger.Error("Failed to save preferences", "error", err)
		return err
	}
	return nil
}
