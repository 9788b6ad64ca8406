package fixes

import (
	"slices"
	"strings"

	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

// RecipeCategory is the locale category of recipe names.
const RecipeCategory = "recipe-name"

// Recipe gives recipes without a localised name the name of their product.
//
// The product is the main_product field, or else the only entry of results,
// or else the legacy result field. Its name is looked up in Categories, in
// order, and the first category that has it supplies the localised name,
// inserted right after the name field.
type Recipe struct {
	// Categories are the locale categories searched for the product.
	Categories []string
	// Reject lists substrings of product names that are never localised.
	Reject []string
}

// NewRecipe returns the recipe rule with its default settings.
func NewRecipe() *Recipe {
	return &Recipe{
		Categories: []string{"item-name", "fluid-name", "entity-name"},
		Reject:     []string{"void", "slag"},
	}
}

func (*Recipe) Name() string    { return NameRecipe }
func (*Recipe) Kind() rule.Kind { return rule.Single("recipe") }

func (*Recipe) Match(c rule.Context, t *value.Table) bool {
	if cat, ok := c.Locales.FindCategoryByKey(c.Prototype); ok && cat == RecipeCategory {
		return false
	}

	return (t.ContainsKey("main_product") || t.ContainsKey("results") || t.ContainsKey("result")) &&
		!t.ContainsKey("localised_name")
}

func (r *Recipe) Apply(c rule.Context, t *value.Table) rule.Result {
	name, res, ok := product(t)
	if !ok {
		return res
	}

	if name == c.Prototype {
		if cat, ok := c.Locales.FindCategoryByKey(c.Prototype); ok && cat == RecipeCategory {
			return rule.Skip()
		}
	}

	if i := slices.IndexFunc(r.Reject, func(s string) bool {
		return strings.Contains(name, s)
	}); i >= 0 {
		return rule.Failf("product %s is a %s", name, r.Reject[i])
	}

	cat, ok := c.Locales.FindInCategoriesByKey(name, r.Categories...)
	if !ok {
		return rule.Failf("there is no category for %s", name)
	}

	pos, ok := t.IndexOf("name")
	if !ok {
		return rule.Skip()
	}

	t.InsertAfter(pos, "localised_name", []string{cat + "." + name})

	return rule.Done()
}

// product returns the name of the recipe's product. If there is none, the
// result to report is returned instead.
func product(t *value.Table) (string, rule.Result, bool) {
	if name, ok := value.Get[string](t, "main_product"); ok && name != "" {
		return name, rule.Result{}, true
	}

	if results, ok := value.Get[*value.Table](t, "results"); ok {
		if results.Len() != 1 {
			return "", rule.Fail("results contain more than 1 element"), false
		}

		result, ok := value.GetAt[*value.Table](results, 0)
		if !ok {
			return "", rule.Skip(), false
		}

		if name, ok := value.Get[string](result, "name"); ok {
			return name, rule.Result{}, true
		}

		if name, ok := value.GetAt[string](result, 0); ok {
			return name, rule.Result{}, true
		}

		return "", rule.Skip(), false
	}

	if name, ok := value.Get[string](t, "result"); ok {
		return name, rule.Result{}, true
	}

	return "", rule.Skip(), false
}
