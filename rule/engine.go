package rule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/value"
)

// Event is reported to observers for every rule that was applied or
// failed.
type Event struct {
	Context
	Rule    string
	Outcome Outcome
	Reason  string
}

// Observer receives engine events.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Counts tallies the results of one [Engine.Apply].
type Counts struct {
	Applied int
	Failed  int
}

// Add returns the sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{Applied: c.Applied + o.Applied, Failed: c.Failed + o.Failed}
}

// Engine runs the enabled rules of a catalog against tables.
type Engine struct {
	catalog   Catalog
	logger    log.Logger
	observers []Observer
}

// Option applies a configuration option to an [Engine].
type Option func(*Engine)

// WithLogger sets the logger that reports applied and failed rules.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver adds an observer of engine events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// NewEngine returns an engine for catalog c.
func NewEngine(c Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: c}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() Catalog { return e.catalog }

// Apply runs every enabled, matching rule against t in catalog order.
//
// Rules see the table as left by the rules before them. A rule that does
// not apply or fails does not stop the rules after it. Tables whose "type"
// or "name" field is missing or not a string are only seen by rules of a
// [None] kind. The base context supplies the mod, file and locales.
//
// Apply returns an [ErrPanic] error, and stops, if a rule panics; t may
// then be partially edited.
func (e *Engine) Apply(ctx context.Context, base Context, t *value.Table) (counts Counts, err error) {
	typ, typeOK := value.Get[string](t, "type")
	name, nameOK := value.Get[string](t, "name")

	base.Logger = e.logger

	for r := range e.catalog.Enabled() {
		c := base

		if r.Kind().IsNone() {
			c.Type, c.Prototype = "", NoneType
		} else {
			if !typeOK || !nameOK || !r.Kind().Matches(typ) {
				continue
			}

			c.Type, c.Prototype = typ, name
		}

		res, err := e.run(r, c, t)
		if err != nil {
			return counts, err
		}

		switch res.Outcome {
		case Applied:
			counts.Applied++

			e.logger.InfoContext(ctx, "fixed",
				append(c.Attrs(), slog.String("rule", r.Name()))...)

		case Failed:
			counts.Failed++

			e.logger.WarnContext(ctx, "failed",
				append(c.Attrs(),
					slog.String("rule", r.Name()),
					slog.String("reason", res.Reason))...)

		default:
			continue
		}

		// A rule may have changed the type or name.
		typ, typeOK = value.Get[string](t, "type")
		name, nameOK = value.Get[string](t, "name")

		e.notify(Event{Context: c, Rule: r.Name(), Outcome: res.Outcome, Reason: res.Reason})
	}

	return counts, nil
}

func (e *Engine) run(r Rule, c Context, t *value.Table) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = ErrPanic.Wrap(fmt.Errorf("%v", p)).
				With(append(c.Attrs(), slog.String("rule", r.Name()))...)
		}
	}()

	if !r.Match(c, t) {
		return Skip(), nil
	}

	return r.Apply(c, t), nil
}

func (e *Engine) notify(ev Event) {
	for _, o := range e.observers {
		o.Observe(ev)
	}
}
