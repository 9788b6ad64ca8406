package locale

import (
	"bufio"
	"io"
	"iter"
	"slices"
	"strings"
)

// DefaultCategory receives entries that appear before any section header.
const DefaultCategory = "default"

// Index maps categories to keys to localized strings.
//
// An Index is filled while loading and is read-only afterwards; concurrent
// reads are safe once loading is done.
type Index struct {
	sections map[string]map[string]string
	order    []string
}

// New returns an empty Index.
func New() *Index {
	return &Index{sections: map[string]map[string]string{}}
}

// Set stores value under category and key, replacing any earlier value.
func (ix *Index) Set(category, key, value string) {
	if ix.sections == nil {
		ix.sections = map[string]map[string]string{}
	}

	sec, ok := ix.sections[category]
	if !ok {
		sec = map[string]string{}
		ix.sections[category] = sec
		ix.order = append(ix.order, category)
	}

	sec[key] = value
}

// Get returns the string stored under category and key.
func (ix *Index) Get(category, key string) (string, bool) {
	if ix == nil {
		return "", false
	}

	v, ok := ix.sections[category][key]

	return v, ok
}

// Has reports whether category contains key.
func (ix *Index) Has(category, key string) bool {
	_, ok := ix.Get(category, key)

	return ok
}

// Categories yields the category names in the order they were first seen.
func (ix *Index) Categories() iter.Seq[string] {
	return func(yield func(string) bool) {
		if ix == nil {
			return
		}

		for _, c := range ix.order {
			if !yield(c) {
				return
			}
		}
	}
}

// Keys returns the keys of category in sorted order.
func (ix *Index) Keys(category string) []string {
	if ix == nil {
		return nil
	}

	keys := make([]string, 0, len(ix.sections[category]))
	for k := range ix.sections[category] {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Len returns the total number of entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}

	n := 0
	for _, sec := range ix.sections {
		n += len(sec)
	}

	return n
}

// FindCategoryByKey returns the first category, in the order categories were
// first seen, that contains key.
func (ix *Index) FindCategoryByKey(key string) (string, bool) {
	for c := range ix.Categories() {
		if ix.Has(c, key) {
			return c, true
		}
	}

	return "", false
}

// FindInCategoriesByKey returns the first of categories that contains key.
func (ix *Index) FindInCategoriesByKey(key string, categories ...string) (string, bool) {
	for _, c := range categories {
		if ix.Has(c, key) {
			return c, true
		}
	}

	return "", false
}

// Merge copies every entry of o into ix. Entries of o win.
func (ix *Index) Merge(o *Index) {
	for c := range o.Categories() {
		for k, v := range o.sections[c] {
			ix.Set(c, k, v)
		}
	}
}

// Read adds the entries of a locale file to ix and returns how many entries
// were read.
//
// The format is line based: "[name]" starts a section, "key=value" adds an
// entry to the current section, and lines starting with ';' or '#' are
// comments. Keys and section names are trimmed of surrounding space; values
// are kept as written. Entries before the first section go to
// [DefaultCategory]. Other lines are ignored.
func (ix *Index) Read(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	category := DefaultCategory
	n := 0
	first := true

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")

		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", trimmed[0] == ';', trimmed[0] == '#':
			continue

		case trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']':
			category = strings.TrimSpace(trimmed[1 : len(trimmed)-1])

			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		ix.Set(category, key, value)
		n++
	}

	if err := sc.Err(); err != nil {
		return n, ErrRead.Wrap(err)
	}

	return n, nil
}
