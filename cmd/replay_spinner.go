package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/cashier-cli/internal/adapters/events/journal"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const replayProgressInterval = 100 * time.Millisecond

type replayProgressMsg struct {
	stats journal.Stats
}

type replayDoneMsg struct {
	stats journal.Stats
	err   error
}

// replaySpinnerModel shows a spinner with the running line counts of a
// journal replay.
type replaySpinnerModel struct {
	spinner  spinner.Model
	journal  string
	progress func() journal.Stats
	replay   tea.Cmd
	stats    journal.Stats
	err      error
	done     bool
}

func newReplaySpinnerModel(journalName string, progress func() journal.Stats, replay tea.Cmd) replaySpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return replaySpinnerModel{
		spinner:  s,
		journal:  journalName,
		progress: progress,
		replay:   replay,
	}
}

func (m replaySpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.replay, m.poll())
}

func (m replaySpinnerModel) poll() tea.Cmd {
	return tea.Tick(replayProgressInterval, func(time.Time) tea.Msg {
		return replayProgressMsg{stats: m.progress()}
	})
}

func (m replaySpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case replayProgressMsg:
		if m.done {
			return m, nil
		}
		m.stats = msg.stats
		return m, m.poll()
	case replayDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m replaySpinnerModel) View() string {
	if m.done {
		return ""
	}

	if m.stats.Lines == 0 {
		return fmt.Sprintf("%s Replaying %s...", m.spinner.View(), m.journal)
	}

	return fmt.Sprintf("%s Replaying %s: %d lines, %d applied, %d ignored", m.spinner.View(), m.journal, m.stats.Lines, m.stats.Applied, m.stats.Ignored)
}

// runReplaySpinner replays on a background command while output shows the
// replayer's progress, and returns the final counts.
func runReplaySpinner(ctx context.Context, output io.Writer, journalName string, replayer *journal.Replayer, replay func(context.Context) error) (journal.Stats, error) {
	replayCmd := func() tea.Msg {
		err := replay(ctx)
		return replayDoneMsg{stats: replayer.Stats(), err: err}
	}

	p := tea.NewProgram(
		newReplaySpinnerModel(journalName, replayer.Stats, replayCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return replayer.Stats(), err
	}

	result, ok := finalModel.(replaySpinnerModel)
	if !ok {
		return replayer.Stats(), fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.stats, result.err
}
