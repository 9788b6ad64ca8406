package rule

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/value"
)

// Context describes the table a rule is looking at.
type Context struct {
	// Mod is the name of the mod being processed, or empty.
	Mod string
	// File is the path of the source file.
	File string
	// Type is the value of the table's "type" field, empty for [None] kinds.
	Type string
	// Prototype is the value of the table's "name" field, or [NoneType].
	Prototype string
	// Locales is the locale index; it may be nil.
	Locales *locale.Index
	// Logger is the engine's logger. The zero Logger discards.
	Logger log.Logger
}

// Attrs returns the context as log attributes, omitting empty fields.
func (c Context) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	for _, kv := range [...][2]string{
		{"mod", c.Mod}, {"file", c.File}, {"type", c.Type}, {"prototype", c.Prototype},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}

	return attrs
}

// Rule rewrites tables of the prototype types selected by its [Kind].
//
// Match is a cheap shape test. Apply performs the edit and must check
// every prerequisite before its first destructive change, so that a
// [Failed] result leaves the table as it was.
type Rule interface {
	Name() string
	Kind() Kind
	Match(Context, *value.Table) bool
	Apply(Context, *value.Table) Result
}

// Outcome is the kind of a [Result].
type Outcome int

const (
	NotApplicable Outcome = iota // the table did not need the rule
	Applied                      // the table was changed
	Failed                       // the rule could not be applied
)

func (o Outcome) String() string {
	switch o {
	case NotApplicable:
		return "skipped"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what a rule reports after Apply.
type Result struct {
	Outcome Outcome
	Reason  string
}

// Skip reports that the rule did not apply.
func Skip() Result { return Result{Outcome: NotApplicable} }

// Done reports that the table was changed.
func Done() Result { return Result{Outcome: Applied} }

// Fail reports that the rule was rejected for reason.
func Fail(reason string) Result { return Result{Outcome: Failed, Reason: reason} }

// Failf is [Fail] with a formatted reason.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

func (r Result) String() string {
	if r.Reason == "" {
		return r.Outcome.String()
	}

	return r.Outcome.String() + ": " + r.Reason
}

// MatchFunc is the Match method of a rule made by [New].
type MatchFunc func(Context, *value.Table) bool

// ApplyFunc is the Apply method of a rule made by [New].
type ApplyFunc func(Context, *value.Table) Result

type funcRule struct {
	name  string
	kind  Kind
	match MatchFunc
	apply ApplyFunc
}

// New returns a rule built from functions. A nil match accepts every table.
func New(name string, kind Kind, match MatchFunc, apply ApplyFunc) Rule {
	return funcRule{name: name, kind: kind, match: match, apply: apply}
}

func (r funcRule) Name() string { return r.name }
func (r funcRule) Kind() Kind   { return r.kind }

func (r funcRule) Match(c Context, t *value.Table) bool {
	return r.match == nil || r.match(c, t)
}

func (r funcRule) Apply(c Context, t *value.Table) Result {
	return r.apply(c, t)
}
