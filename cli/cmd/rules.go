package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/protofix/rule"
)

var (
	enabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)
	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Rules lists the rule catalog with the effect of the rule flags applied.
type Rules struct {
	Select ruleFlags `embed:""`
}

// Run executes the rules command.
func (r *Rules) Run(ctx context.Context) error {
	c, err := r.Select.catalog()
	if err != nil {
		return err
	}

	fmt.Fprint(stdoutFrom(ctx), listRules(c))

	return nil
}

// listRules renders one line per rule: state, name and the prototype
// types it applies to.
func listRules(c rule.Catalog) string {
	width := 0
	for _, name := range c.Names() {
		width = max(width, lipgloss.Width(name))
	}

	nameStyle := labelStyle.Width(width + 2)

	var s string

	for _, e := range c {
		state := disabledStyle.Render("-")
		if e.Enabled {
			state = enabledStyle.Render("+")
		}

		s += fmt.Sprintf("%s %s%s\n", state, nameStyle.Render(e.Rule.Name()), dimStyle.Render(e.Rule.Kind().String()))
	}

	return s
}
