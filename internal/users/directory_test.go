package users

import (
	"errors"
	"path/filepath"
	"testing"

	"otterWizard/internal/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saved []*prefs.Preferences
	err   error
}

func (s *recordingSaver) Save(p *prefs.Preferences) error {
	s.saved = append(s.saved, p.Clone())
	return s.err
}

func newDirectory() (*Directory, *recordingSaver) {
	saver := &recordingSaver{}
	return New(prefs.Default(), saver), saver
}

func TestNew_SelectsDefault(t *testing.T) {
	d, _ := newDirectory()
	assert.Equal(t, "Casey", d.Selected())
	assert.Equal(t, "Casey", d.Default())
}

func TestAdd_AppendsSelectsAndPersists(t *testing.T) {
	d, saver := newDirectory()

	added, err := d.Add("Ann")
	require.NoError(t, err)

	assert.True(t, added)
	assert.Equal(t, []string{"Casey", "Darvis", "Otter", "Ann"}, d.Users())
	assert.Equal(t, "Ann", d.Selected())
	require.Len(t, saver.saved, 1)
	assert.Equal(t, d.Users(), saver.saved[0].Users)
}

func TestAdd_IgnoresEmptyAndDuplicates(t *testing.T) {
	testCases := map[string]string{
		"empty":      "",
		"blank":      "   ",
		"duplicate":  "Darvis",
		"padded dup": " Otter ",
	}

	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			d, saver := newDirectory()

			added, err := d.Add(input)
			require.NoError(t, err)

			assert.False(t, added)
			assert.Equal(t, prefs.DefaultUsers, d.Users())
			assert.Equal(t, "Casey", d.Selected())
			assert.Empty(t, saver.saved)
		})
	}
}

func TestAdd_IsCaseSensitive(t *testing.T) {
	d, _ := newDirectory()

	added, err := d.Add("casey")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Contains(t, d.Users(), "casey")
}

func TestAddThenRemove_RestoresList(t *testing.T) {
	d, _ := newDirectory()
	before := d.Users()

	_, err := d.Add("Ann")
	require.NoError(t, err)
	require.NoError(t, d.Remove("Ann"))

	assert.Equal(t, before, d.Users())
	assert.Equal(t, "Casey", d.Selected(), "first remaining user is selected")
}

func TestRemove_DefaultIsRefused(t *testing.T) {
	d, saver := newDirectory()
	d.Select("Otter")

	err := d.Remove("Casey")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDefaultUser))
	assert.Equal(t, prefs.DefaultUsers, d.Users())
	assert.Equal(t, "Casey", d.Default())
	assert.Equal(t, "Otter", d.Selected())
	assert.Empty(t, saver.saved)
}

func TestRemove_UnknownUser(t *testing.T) {
	d, saver := newDirectory()

	err := d.Remove("Nobody")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "'Nobody'")
	assert.Empty(t, saver.saved)
}

func TestRemove_LastNonDefaultSelectsFirst(t *testing.T) {
	p := &prefs.Preferences{Users: []string{"Ann", "Bob"}, DefaultUser: "Ann"}
	d := New(p, nil)
	d.Select("Bob")

	require.NoError(t, d.Remove("Bob"))
	assert.Equal(t, []string{"Ann"}, d.Users())
	assert.Equal(t, "Ann", d.Selected())
}

func TestSetDefault_UsesSelection(t *testing.T) {
	d, saver := newDirectory()
	d.Select("Otter")

	require.NoError(t, d.SetDefault())

	assert.Equal(t, "Otter", d.Default())
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "Otter", saver.saved[0].DefaultUser)

	// the old default can now be removed
	require.NoError(t, d.Remove("Casey"))
	assert.Equal(t, []string{"Darvis", "Otter"}, d.Users())
}

func TestSetDefault_UnknownSelection(t *testing.T) {
	d, saver := newDirectory()
	d.Select("Ghost")

	err := d.SetDefault()
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Casey", d.Default())
	assert.Empty(t, saver.saved)
}

func TestSoundSettingsPersist(t *testing.T) {
	d, saver := newDirectory()

	require.NoError(t, d.SetSound("/sounds/done.mp3"))
	require.NoError(t, d.SetPlaySound(false))

	require.Len(t, saver.saved, 2)
	assert.Equal(t, "/sounds/done.mp3", saver.saved[1].CompleteSoundPath)
	assert.False(t, saver.saved[1].PlayCompleteSoundOnSuccess)
}

func TestSaveErrorIsReturned(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	d := New(prefs.Default(), saver)

	_, err := d.Add("Ann")
	assert.EqualError(t, err, "disk full")
}

func TestDirectoryWithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := New(prefs.Default(), prefs.Store{Path: path})

	_, err := d.Add("Ann")
	require.NoError(t, err)
	require.NoError(t, d.SetDefault())

	loaded, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Casey", "Darvis", "Otter", "Ann"}, loaded.Users)
	assert.Equal(t, "Ann", loaded.DefaultUser)
}
