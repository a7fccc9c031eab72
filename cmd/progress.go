package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

type progressMsg services.ExportProgress

type progressDoneMsg struct{}

// exportProgressModel shows a spinner while assets are exported
type exportProgressModel struct {
	spinner  spinner.Model
	updates  <-chan services.ExportProgress
	cancel   context.CancelFunc
	current  int
	total    int
	last     string
	finished bool
}

func newExportProgressModel(updates <-chan services.ExportProgress, cancel context.CancelFunc) exportProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.StylePrimary
	return exportProgressModel{
		spinner: s,
		updates: updates,
		cancel:  cancel,
	}
}

func waitForProgress(updates <-chan services.ExportProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return progressDoneMsg{}
		}
		return progressMsg(p)
	}
}

func (m exportProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.updates))
}

func (m exportProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancel()
			return m, tea.Quit
		}
	case progressMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.last = msg.Asset
		return m, waitForProgress(m.updates)
	case progressDoneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m exportProgressModel) View() string {
	if m.finished {
		return ""
	}
	if m.total == 0 {
		return fmt.Sprintf("%s Preparing export...\n", m.spinner.View())
	}
	percentage := float64(m.current) / float64(m.total) * 100
	return fmt.Sprintf("%s %s [%d/%d] %s\n",
		m.spinner.View(),
		createProgressBar(percentage, 30),
		m.current,
		m.total,
		ui.FormatMuted(truncate(m.last, 30)),
	)
}

// runExportWithSpinner runs the export while a bubbletea program renders progress
func runExportWithSpinner(ctx context.Context, cancel context.CancelFunc, req services.ExportRequest) (*services.ExportResponse, error) {
	progressChan := make(chan services.ExportProgress)

	type outcome struct {
		resp *services.ExportResponse
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		resp, err := exportService.ExecuteWithProgress(ctx, req, progressChan)
		done <- outcome{resp: resp, err: err}
	}()

	p := tea.NewProgram(newExportProgressModel(progressChan, cancel), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		cancel()
	}

	// the program may quit early; keep draining so workers never block
	go func() {
		for range progressChan {
		}
	}()

	out := <-done
	return out.resp, out.err
}
