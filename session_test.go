package mdecho_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fibnas/mdecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DirtyTracksLastSaved(t *testing.T) {
	t.Parallel()

	s := mdecho.NewSession()
	assert.False(t, s.Dirty(), "new session starts clean")

	s.Edit("hello")
	assert.True(t, s.Dirty())

	// Editing back to the saved snapshot clears dirtiness.
	s.Edit("")
	assert.False(t, s.Dirty())

	path := filepath.Join(t.TempDir(), "a.md")
	s.Edit("hello")
	require.NoError(t, s.SaveAs(path))
	assert.False(t, s.Dirty())

	s.Edit("hello world")
	assert.True(t, s.Dirty())
	s.Edit("hello")
	assert.False(t, s.Dirty(), "buffer equals last saved again")
}

func TestSession_SaveWithoutPath(t *testing.T) {
	t.Parallel()

	s := mdecho.NewSession()
	s.Edit("content")

	err := s.Save()
	assert.ErrorIs(t, err, mdecho.ErrNoPath)
	assert.Equal(t, "content", s.Buffer(), "failed save must not mutate the buffer")
	assert.True(t, s.Dirty())
}

func TestSession_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.md")
	s := mdecho.NewSession()
	s.Edit("# Title\n\nBody")
	require.NoError(t, s.SaveAs(path))
	assert.Equal(t, path, s.Path())
	assert.False(t, s.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", string(data))

	reopened := mdecho.NewSession()
	require.NoError(t, reopened.Open(path))
	assert.Equal(t, "# Title\n\nBody", reopened.Buffer())
	assert.False(t, reopened.Dirty())
}

func TestSession_SaveAfterSaveAsReusesPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.md")
	s := mdecho.NewSession()
	s.Edit("one")
	require.NoError(t, s.SaveAs(path))

	s.Edit("two")
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestSession_Open(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		s := mdecho.NewSession()
		s.Edit("kept")
		err := s.Open(filepath.Join(t.TempDir(), "nope.md"))

		var ioErr *mdecho.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Op)
		assert.Equal(t, "kept", s.Buffer(), "failed open leaves the session untouched")
	})

	t.Run("not UTF-8", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bin")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644))

		s := mdecho.NewSession()
		err := s.Open(path)
		assert.ErrorIs(t, err, mdecho.ErrNotText)
	})
}

func TestSession_Reset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.md")
	s := mdecho.NewSession()
	s.Edit("text")
	require.NoError(t, s.SaveAs(path))

	s.Reset()
	assert.Empty(t, s.Path())
	assert.Empty(t, s.Buffer())
	assert.False(t, s.Dirty())
}

func TestNewSessionAt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "new.md")
	s := mdecho.NewSessionAt(path)
	assert.Equal(t, path, s.Path())
	assert.False(t, s.Dirty())

	// Plain Save writes to the pre-set path without prompting.
	s.Edit("drafted")
	require.NoError(t, s.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "drafted", string(data))
}

func TestSession_CharacterCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "ascii", text: "hello", want: 5},
		{name: "multibyte", text: "héllo", want: 5},
		{name: "combining grapheme", text: "é", want: 1},
		{name: "emoji with modifier", text: "👍🏽", want: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := mdecho.NewSession()
			s.Edit(tt.text)
			assert.Equal(t, tt.want, s.CharacterCount())
		})
	}
}

func TestSession_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := mdecho.NewSession()
	s.Edit("content")
	require.NoError(t, s.SaveAs(filepath.Join(dir, "x.md")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.md", entries[0].Name())
}

func TestSession_SaveToUnwritableDir(t *testing.T) {
	t.Parallel()

	s := mdecho.NewSession()
	s.Edit("content")
	err := s.SaveAs(filepath.Join(t.TempDir(), "missing", "x.md"))

	var ioErr *mdecho.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.True(t, s.Dirty(), "failed save leaves the session dirty")
	assert.Empty(t, s.Path(), "failed save-as must not adopt the path")
	assert.False(t, errors.Is(err, mdecho.ErrNoPath))
}
