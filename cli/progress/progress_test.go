package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/rule"
)

func TestModel_Update(t *testing.T) {
	var m tea.Model = New(4)

	results := []fixer.FileResult{
		{Path: "a/data.lua"},
		{Path: "a/pump.lua", Changed: true, Written: true, Counts: rule.Counts{Applied: 2}},
		{Path: "a/bad.lua", Err: errors.New("parse")},
	}

	for _, r := range results {
		m, _ = m.Update(fileMsg(r))
	}

	got := m.(Model)
	want := fixer.Summary{Files: 3, Changed: 1, Written: 1, Skipped: 1, Counts: rule.Counts{Applied: 2}}

	if got.Summary() != want {
		t.Errorf("expected %+v, got %+v", want, got.Summary())
	}

	if got.Percent() != 0.75 {
		t.Errorf("expected 75%%, got %v", got.Percent())
	}

	view := got.View()
	for _, s := range []string{"3/4 files", "2 fixed", "1 skipped", "bad.lua"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q:\n%s", s, view)
		}
	}

	final := fixer.Summary{Files: 4, Written: 1}

	m, cmd := m.Update(doneMsg{sum: final})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}

	if got := m.(Model); !got.Finished() || got.Summary() != final {
		t.Errorf("unexpected final model %+v", got)
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_Empty(t *testing.T) {
	if p := New(0).Percent(); p != 1 {
		t.Errorf("expected an empty run to be complete, got %v", p)
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer

	work := func(ctx context.Context, report func(fixer.FileResult)) (fixer.Summary, error) {
		var sum fixer.Summary

		for _, r := range []fixer.FileResult{{Path: "a.lua"}, {Path: "b.lua", Changed: true}} {
			report(r)
			sum.Merge(summarize(r))
		}

		return sum, nil
	}

	sum, err := Run(context.Background(), 2, work,
		tea.WithInput(nil), tea.WithOutput(&out), tea.WithoutRenderer(), tea.WithoutSignalHandler())
	if err != nil {
		t.Fatal(err)
	}

	if sum.Files != 2 || sum.Changed != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestRun_WorkError(t *testing.T) {
	boom := errors.New("boom")

	work := func(context.Context, func(fixer.FileResult)) (fixer.Summary, error) {
		return fixer.Summary{}, boom
	}

	_, err := Run(context.Background(), 0, work,
		tea.WithInput(nil), tea.WithOutput(&bytes.Buffer{}), tea.WithoutRenderer(), tea.WithoutSignalHandler())
	if !errors.Is(err, boom) {
		t.Errorf("expected work error, got %v", err)
	}
}
