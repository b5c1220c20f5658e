package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Filename parsing utilities.
//
// A file contributes two guesses: the show it belongs to and a noisy label
// that should resemble the canonical episode title. Three strategies are
// tried in order: an explicit show override, a separator inside the stem,
// and finally the parent directory name.

// Entry is one input file with the episode label derived from its name.
type Entry struct {
	Label string
	Path  string
}

// ParseOptions controls how show names and labels are derived.
type ParseOptions struct {
	// Show overrides the show guess for every file when non-empty.
	Show string
	// Separator splits "Show<sep>Episode" stems. Must not be empty.
	Separator string
}

// Parse derives the show guess and episode label for path. It does not touch
// the file system beyond resolving the absolute path of relative inputs.
func Parse(path string, opts ParseOptions) (Entry, string) {
	stem := Stem(filepath.Base(path))
	entry := Entry{Label: stem, Path: path}

	if opts.Show != "" {
		return entry, opts.Show
	}

	if opts.Separator != "" {
		if show, label, ok := strings.Cut(stem, opts.Separator); ok {
			entry.Label = label
			return entry, show
		}
	}

	return entry, strings.ReplaceAll(parentName(path), "_", " ")
}

// parentName returns the name of the directory containing path.
func parentName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dir := filepath.Dir(path)
	name := filepath.Base(dir)
	if name == string(filepath.Separator) || name == "." {
		return ""
	}
	return name
}

// Ext returns the final suffix of a base name including the dot. A name made
// of a single leading dot segment (".hidden") or ending in a dot has none.
func Ext(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Stem returns the base name without its final suffix.
func Stem(name string) string {
	return strings.TrimSuffix(name, Ext(name))
}

// ShowBatch groups entries by show guess. Shows keep first-seen order and
// entries keep argument order. The batch is immutable once built.
type ShowBatch struct {
	order   []string
	entries map[string][]Entry
}

// Shows returns the show guesses in first-seen order.
func (b *ShowBatch) Shows() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.order...)
}

// Entries returns the files grouped under show, in argument order.
func (b *ShowBatch) Entries(show string) []Entry {
	if b == nil {
		return nil
	}
	return append([]Entry(nil), b.entries[show]...)
}

// Len returns the total number of entries across all shows.
func (b *ShowBatch) Len() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, e := range b.entries {
		n += len(e)
	}
	return n
}

// ErrNotRegular is reported for inputs that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// BuildBatch parses every path into a ShowBatch. Paths that are not regular
// files (after following symlinks) are passed to skip and left out. skip may
// be nil.
func BuildBatch(paths []string, opts ParseOptions, skip func(path string, err error)) *ShowBatch {
	batch := &ShowBatch{entries: make(map[string][]Entry)}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil && !info.Mode().IsRegular() {
			err = ErrNotRegular
		}
		if err != nil {
			if skip != nil {
				skip(path, err)
			}
			continue
		}

		entry, show := Parse(path, opts)
		if _, seen := batch.entries[show]; !seen {
			batch.order = append(batch.order, show)
		}
		batch.entries[show] = append(batch.entries[show], entry)
	}

	return batch
}
