// Package fs scans the working directory for markdown files, feeding the
// quick-open switcher.
package fs

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan walks root and returns the relative paths of markdown files,
// sorted, skipping anything matched by the ignore patterns (doublestar
// syntax, matched against the slash-separated relative path). Ignored
// directories are pruned without descending. Unreadable subdirectories
// are skipped, not fatal.
func Scan(root string, ignore []string) ([]string, error) {
	patterns := make([]string, 0, len(ignore))
	for _, p := range ignore {
		if doublestar.ValidatePattern(p) {
			patterns = append(patterns, p)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if ignored(rel, d.IsDir(), patterns) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isMarkdown(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func ignored(rel string, isDir bool, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		// A pattern like ".git/**" should also prune the ".git"
		// directory itself.
		if isDir {
			if ok, _ := doublestar.Match(p, rel+"/"); ok {
				return true
			}
			if strings.HasSuffix(p, "/**") {
				if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/**"), rel); ok {
					return true
				}
			}
		}
	}
	return false
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
