package load

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Tree is an order-preserving map from source path to parsed File.
// Insertion order drives generation order, and lookup by path is needed
// too, so it keeps an ordered key slice next to the index.
type Tree struct {
	paths []string
	files map[string]*File
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{files: make(map[string]*File)}
}

// Add inserts f under path. Re-adding a known path replaces the file in
// place and keeps its original position.
func (t *Tree) Add(path string, f *File) {
	if _, ok := t.files[path]; !ok {
		t.paths = append(t.paths, path)
	}
	t.files[path] = f
}

// Get returns the file loaded from path, or nil.
func (t *Tree) Get(path string) *File {
	return t.files[path]
}

// Len reports the number of loaded files.
func (t *Tree) Len() int { return len(t.paths) }

// Paths returns the source paths in first-seen order. The returned slice
// is shared; callers must not mutate it.
func (t *Tree) Paths() []string { return t.paths }

// Each calls fn for every (path, file) pair in first-seen order.
func (t *Tree) Each(fn func(path string, f *File)) {
	for _, p := range t.paths {
		fn(p, t.files[p])
	}
}

// Loader walks directory trees and parses API definition files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader returns a loader reporting diagnostics through log.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFile parses a single file.
func (l *Loader) LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	return ParseFile(path, data)
}

// LoadTree recursively loads every parseable file under root, keyed by
// full path in directory-walk order. A file that fails to parse is logged
// and skipped; one malformed file never blocks the rest of the corpus.
// Only an unreadable directory is fatal.
func (l *Loader) LoadTree(root string) (*Tree, error) {
	t := NewTree()
	if err := l.walk(root, t); err != nil {
		return nil, err
	}
	l.log.Info().Int("files", t.Len()).Str("root", root).Msg("loaded api definition files")
	return t, nil
}

func (l *Loader) walk(dir string, t *Tree) error {
	l.log.Trace().Str("dir", dir).Msg("scanning")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("load: read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := l.walk(path, t); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		f, err := l.LoadFile(path)
		if err != nil {
			l.log.Warn().Str("path", path).Err(err).Msg("skipping file")
			continue
		}
		t.Add(path, f)
	}
	return nil
}
