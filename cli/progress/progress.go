package progress

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/pkg"
)

// ErrUI is returned when the terminal interface fails.
var ErrUI = pkg.NewError("progress display failed")

const (
	padding  = 2
	maxWidth = 80
)

var (
	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	appliedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)
	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)
)

type (
	fileMsg fixer.FileResult
	doneMsg struct {
		err error
		sum fixer.Summary
	}
)

// Model displays a progress bar over the files of a run.
type Model struct {
	err      error
	current  string
	bar      progress.Model
	spin     spinner.Model
	sum      fixer.Summary
	total    int
	finished bool
}

// New returns a model for a run over total files.
func New(total int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth-padding)),
		spin:  s,
		total: total,
	}
}

// Summary returns the tallies received so far, or the final summary once
// the run finished.
func (m Model) Summary() fixer.Summary { return m.sum }

// Finished reports whether the run completed.
func (m Model) Finished() bool { return m.finished }

// Percent returns the fraction of files processed.
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 1
	}

	return min(1, float64(m.sum.Files)/float64(m.total))
}

func (m Model) Init() tea.Cmd { return m.spin.Tick }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2, maxWidth)

	case fileMsg:
		m.current = msg.Path
		m.sum.Merge(summarize(fixer.FileResult(msg)))

	case doneMsg:
		m.finished = true
		m.sum = msg.sum
		m.err = msg.err

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spin, cmd = m.spin.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	pad := strings.Repeat(" ", padding)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(pad + m.bar.ViewAs(m.Percent()) + "\n")

	status := fmt.Sprintf("%d/%d files  %s  %s  %s",
		m.sum.Files, m.total,
		appliedStyle.Render(fmt.Sprintf("%d fixed", m.sum.Counts.Applied)),
		failedStyle.Render(fmt.Sprintf("%d failed", m.sum.Counts.Failed)),
		skippedStyle.Render(fmt.Sprintf("%d skipped", m.sum.Skipped)))
	b.WriteString(pad + status + "\n")

	if !m.finished && m.current != "" {
		b.WriteString(pad + m.spin.View() + " " + fileStyle.Render(filepath.Base(m.current)) + "\n")
	}

	return b.String()
}

func summarize(r fixer.FileResult) fixer.Summary {
	s := fixer.Summary{Files: 1, Counts: r.Counts}

	if r.Changed {
		s.Changed = 1
	}

	if r.Written {
		s.Written = 1
	}

	if r.Err != nil {
		s.Skipped = 1
	}

	return s
}

// Work is a run that reports every processed file.
type Work func(ctx context.Context, report func(fixer.FileResult)) (fixer.Summary, error)

// Run runs work while displaying its progress over total files.
//
// Quitting the display cancels the context passed to work; Run then
// waits for work to return.
func Run(ctx context.Context, total int, work Work, opts ...tea.ProgramOption) (fixer.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(total), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	result := make(chan doneMsg, 1)

	go func() {
		sum, err := work(ctx, func(r fixer.FileResult) { p.Send(fileMsg(r)) })

		d := doneMsg{sum: sum, err: err}
		result <- d

		p.Send(d)
	}()

	_, err := p.Run()

	cancel()

	d := <-result

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return d.sum, ErrUI.Wrap(err)
	}

	return d.sum, d.err
}
