package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/protofix/value"
)

// FieldMove names a field to move and the key it takes at its destination.
type FieldMove struct {
	From string
	To   string
}

// Fields returns moves that keep each field's name.
func Fields(names ...string) []FieldMove {
	moves := make([]FieldMove, len(names))
	for i, n := range names {
		moves[i] = FieldMove{From: n, To: n}
	}

	return moves
}

// Path splits a dotted path such as "graphics_set.beam".
func Path(dotted string) []string {
	if dotted == "" {
		return nil
	}

	return strings.Split(dotted, ".")
}

// Move moves the fields of t named by moves into the nested table at path,
// in the order given, and reports whether any field was moved.
//
// Tables along path are created as needed; a new table takes the position
// of the first field moved. Existing tables along path are extended. Move
// returns an [ErrAction] error, and leaves t unchanged, if a field on path
// exists but is not a table, or if a destination key is already taken.
func Move(t *value.Table, path []string, moves ...FieldMove) (bool, error) {
	if len(path) == 0 {
		return false, ErrAction.Wrap(errors.New("empty path"))
	}

	first := -1

	var present []FieldMove

	for _, m := range moves {
		if pos, ok := t.IndexOf(m.From); ok {
			present = append(present, m)

			if first < 0 || pos < first {
				first = pos
			}
		}
	}

	if len(present) == 0 {
		return false, nil
	}

	dst, err := lookupPath(t, path)
	if err != nil {
		return false, err
	}

	for _, m := range present {
		if dst != nil && dst.ContainsKey(m.To) {
			field := strings.Join(path, ".") + "." + m.To

			return false, ErrAction.Wrap(fmt.Errorf("%s already exists", field)).
				With(slog.String("field", field))
		}
	}

	type moved struct {
		key string
		val any
	}

	items := make([]moved, 0, len(present))

	for _, m := range present {
		x, _ := t.Remove(m.From)
		items = append(items, moved{key: m.To, val: x})
	}

	place(t, first, path, func(dst *value.Table) {
		for _, it := range items {
			dst.Insert(it.key, it.val)
		}
	})

	return true, nil
}

// Edit applies fn to the existing nested table at path and writes the
// result back into t if fn reports a change. An empty path edits t itself.
func Edit(t *value.Table, path []string, fn func(*value.Table) (bool, error)) (bool, error) {
	if len(path) == 0 {
		return fn(t)
	}

	pos, ok := t.IndexOf(path[0])
	if !ok {
		return false, nil
	}

	sub, ok := value.GetAt[*value.Table](t, pos)
	if !ok {
		return false, notTable(path[0])
	}

	changed, err := Edit(sub, path[1:], fn)
	if err != nil || !changed {
		return false, err
	}

	t.SetAt(pos, sub)

	return true, nil
}

// lookupPath returns the existing table at path, or nil if some table
// along it is missing.
func lookupPath(t *value.Table, path []string) (*value.Table, error) {
	cur := t

	for _, key := range path {
		if !cur.ContainsKey(key) {
			return nil, nil
		}

		sub, ok := value.Get[*value.Table](cur, key)
		if !ok {
			return nil, notTable(key)
		}

		cur = sub
	}

	return cur, nil
}

// place rebuilds the tables along path with fill applied to the innermost.
// Missing tables are inserted at pos.
func place(t *value.Table, pos int, path []string, fill func(*value.Table)) {
	key := path[0]

	i, exists := t.IndexOf(key)

	sub := value.NewTable(nil)
	if exists {
		sub, _ = value.GetAt[*value.Table](t, i)
	}

	if len(path) == 1 {
		fill(sub)
	} else {
		place(sub, sub.Len(), path[1:], fill)
	}

	if exists {
		t.SetAt(i, sub)
	} else {
		t.InsertAt(min(pos, t.Len()), key, sub)
	}
}

func notTable(key string) error {
	return ErrAction.Wrap(fmt.Errorf("%s is not a table", key)).
		With(slog.String("field", key))
}
