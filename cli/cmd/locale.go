package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/pkg"
)

// maxSuggestions is the number of similar keys suggested for an unknown key.
const maxSuggestions = 3

// Locale looks up keys in the locale files.
type Locale struct {
	Locales localeFlags `embed:""`

	Category string `help:"Look keys up in this category only." short:"c"`

	Keys []string `arg:"" help:"Keys to look up. Without keys, the categories are listed." optional:""`
}

// Run executes the locale command.
func (l *Locale) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ix, err := l.Locales.load(ctx, log.Default())
	if err != nil {
		return err
	}

	out := stdoutFrom(ctx)

	if len(l.Keys) == 0 {
		for cat := range ix.Categories() {
			fmt.Fprintf(out, "%s %s\n",
				labelStyle.Render(cat), countStyle.Render(fmt.Sprint(len(ix.Keys(cat)))))
		}

		return nil
	}

	var errs []error

	for _, key := range l.Keys {
		cat, ok := l.Category, true
		if cat == "" {
			cat, ok = ix.FindCategoryByKey(key)
		}

		if ok {
			var val string
			if val, ok = ix.Get(cat, key); ok {
				fmt.Fprintf(out, "%s.%s = %s\n", labelStyle.Render(cat), key, val)

				continue
			}
		}

		errs = append(errs, unknownKey(ix, l.Category, key))
	}

	return errors.Join(errs...)
}

// unknownKey returns an [ErrUnknownKey] error suggesting similar keys.
func unknownKey(ix *locale.Index, category, key string) error {
	var keys []string

	for cat := range ix.Categories() {
		if category == "" || cat == category {
			keys = append(keys, ix.Keys(cat)...)
		}
	}

	slices.Sort(keys)
	keys = slices.Compact(keys)

	similar := pkg.Suggest(key, keys, maxSuggestions)

	attrs := []slog.Attr{slog.String("key", key)}
	if category != "" {
		attrs = append(attrs, slog.String("category", category))
	}

	if len(similar) == 0 {
		return ErrUnknownKey.Wrap(errors.New(key)).With(attrs...)
	}

	return ErrUnknownKey.
		Wrap(fmt.Errorf("%s (did you mean %s?)", key, strings.Join(similar, ", "))).
		With(attrs...)
}
