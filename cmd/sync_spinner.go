package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type spinnerRunner func(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error

type syncDoneMsg struct {
	err error
}

type syncSpinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	started time.Time
	now     func() time.Time
	err     error
	done    bool
}

func newSyncSpinnerModel(label string, work tea.Cmd, now func() time.Time) syncSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return syncSpinnerModel{
		spinner: s,
		label:   label,
		work:    work,
		started: now(),
		now:     now,
	}
}

func (m syncSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m syncSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case syncDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m syncSpinnerModel) View() string {
	if m.done {
		return ""
	}

	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.label, elapsed)
}

// runSyncSpinner shows a spinner until work returns. The program is not bound
// to ctx: work owns the interpreter session and must finish its teardown
// before the spinner may quit.
func runSyncSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return syncDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newSyncSpinnerModel(label, workCmd, time.Now),
		tea.WithInput(nil),
		tea.WithOutput(output),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(syncSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

// runSyncSpinnerOnTerminal falls back to running work directly when output
// is not a terminal, keeping redirected stderr free of escape sequences.
func runSyncSpinnerOnTerminal(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	if file, ok := output.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return runSyncSpinner(ctx, output, label, work)
	}

	return work(ctx)
}
