package mdecho

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Session is the document being edited: an optional file path, the
// in-memory buffer, and a snapshot of the last saved contents. The dirty
// state is derived from the snapshot rather than stored, so it cannot
// drift out of sync with the buffer.
type Session struct {
	path      string
	buffer    string
	lastSaved string
}

// NewSession creates an empty, clean session with no path.
func NewSession() *Session {
	return &Session{}
}

// NewSessionAt creates an empty session with path pre-set, so a plain
// Save writes there without prompting. Nothing is read from disk.
func NewSessionAt(path string) *Session {
	return &Session{path: path}
}

// Path returns the session's file path, or "" for a never-saved session.
func (s *Session) Path() string { return s.path }

// Buffer returns the current buffer contents.
func (s *Session) Buffer() string { return s.buffer }

// Dirty reports whether the buffer differs from the last saved contents.
func (s *Session) Dirty() bool { return s.buffer != s.lastSaved }

// Reset discards the buffer and path, returning the session to the
// never-saved empty state. Confirmation when dirty is the caller's job.
func (s *Session) Reset() {
	*s = Session{}
}

// Open reads path into the buffer and marks the session clean. The
// previous contents are untouched on failure.
func (s *Session) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return &IOError{Op: "read", Path: path, Err: ErrNotText}
	}
	s.path = path
	s.buffer = string(data)
	s.lastSaved = s.buffer
	return nil
}

// Edit replaces the buffer. Dirtiness follows from whether the new text
// matches the last saved snapshot.
func (s *Session) Edit(text string) {
	s.buffer = text
}

// Save writes the buffer to the session's path. Returns ErrNoPath when no
// path is set; the caller should prompt for one and use SaveAs.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the buffer to path and adopts it as the session's path.
// The write goes through a temp file in the destination directory and a
// rename, so a crash mid-write never leaves a truncated file.
func (s *Session) SaveAs(path string) error {
	if err := writeFileAtomic(path, []byte(s.buffer)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	s.path = path
	s.lastSaved = s.buffer
	return nil
}

// CharacterCount returns the buffer length in user-perceived characters
// (grapheme clusters), for status display.
func (s *Session) CharacterCount() int {
	return uniseg.GraphemeClusterCount(s.buffer)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mdecho-save-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
