package vault

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Names returns the logical name of every entry below root, sorted.
// Archived entries, and entries inside archived directories, are left out
// unless includeArchived is set.
func Names(root string, exts []string, includeArchived bool) ([]string, error) {
	var names []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if d.Name() == GitDir || (hidden && !includeArchived) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || (hidden && !includeArchived) {
			return nil
		}

		ext, ok := knownExtension(d.Name(), exts)
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, DisplayName(filepath.ToSlash(rel), ext))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Match filters names by pattern. Patterns containing glob characters are
// matched with doublestar against the whole name, so "mail/**" and
// "**/*.com" work; anything else is a substring search.
func Match(names []string, pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		var out []string
		for _, n := range names {
			if strings.Contains(n, pattern) {
				out = append(out, n)
			}
		}
		return out, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	var out []string
	for _, n := range names {
		ok, err := doublestar.Match(pattern, n)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}
