package library

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/Faultbox/ldrawkit/internal/cache"
	"github.com/Faultbox/ldrawkit/pkg/encoding"
)

// Library resolves LDraw references against an ordered list of folders.
// Lookups are case-insensitive on every path element.
type Library struct {
	root  string
	paths []string

	// directory -> lower-cased entry name -> real entry name
	dirs *cache.Cache[string, map[string]string]
}

// New creates a library searching paths in order.
func New(root string, paths []string) *Library {
	return &Library{
		root:  root,
		paths: paths,
		dirs:  cache.New[string, map[string]string](),
	}
}

// Root returns the install directory.
func (l *Library) Root() string {
	return l.root
}

// Paths returns the search folders in order.
func (l *Library) Paths() []string {
	return l.paths
}

// Locate finds filename in the search folders, then in parentDir.
func (l *Library) Locate(filename, parentDir string) (string, error) {
	name := filepath.FromSlash(encoding.ToSlash(filename))
	if expanded, err := homedir.Expand(name); err == nil {
		name = expanded
	}

	if filepath.IsAbs(name) {
		if p, ok := l.resolve(name); ok {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
	}

	roots := l.paths
	if parentDir != "" && !slices.Contains(roots, parentDir) {
		roots = append(slices.Clone(roots), parentDir)
	}
	for _, root := range roots {
		if p, ok := l.resolve(filepath.Join(root, name)); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// resolve returns the real path for p, matching each element without
// regard to case when the exact path does not exist.
func (l *Library) resolve(p string) (string, bool) {
	if _, err := os.Stat(p); err == nil {
		return p, true
	}

	dir, base := filepath.Split(filepath.Clean(p))
	dir = filepath.Clean(dir)
	if base == "" || dir == p {
		return "", false
	}
	realDir, ok := l.resolve(dir)
	if !ok {
		return "", false
	}

	entries := l.listing(realDir)
	real, ok := entries[strings.ToLower(base)]
	if !ok {
		return "", false
	}
	return filepath.Join(realDir, real), true
}

func (l *Library) listing(dir string) map[string]string {
	if entries, ok := l.dirs.Get(dir); ok {
		return entries
	}

	entries := make(map[string]string)
	if list, err := os.ReadDir(dir); err == nil {
		for _, e := range list {
			entries[strings.ToLower(e.Name())] = e.Name()
		}
	}
	l.dirs.Set(dir, entries)
	return entries
}

// DirStats returns hit and miss counts of the directory listing cache.
func (l *Library) DirStats() (hits, misses int) {
	return l.dirs.Stats()
}

// Reset forgets cached directory listings.
func (l *Library) Reset() {
	l.dirs.Clear()
}

// ReadLines reads a text file, detecting its encoding, and splits it into lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	text, _ := encoding.DecodeText(data)
	return encoding.SplitLines(text), nil
}
