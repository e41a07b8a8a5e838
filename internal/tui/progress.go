// ABOUTME: Interactive progress display for batch analysis runs
// ABOUTME: A minimal bubbletea program fed one message per completed VM

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var vmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

// ProgressMsg reports one completed VM evaluation.
type ProgressMsg struct {
	Completed int
	Total     int
	VM        string
}

// DoneMsg ends the program once the batch is finished.
type DoneMsg struct{}

type progressModel struct {
	bar       progress.Model
	completed int
	total     int
	vm        string
}

// NewProgressProgram builds a progress display writing to out. The caller
// runs it in a goroutine and feeds it with Send.
func NewProgressProgram(total int, out io.Writer) *tea.Program {
	m := progressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
	return tea.NewProgram(m,
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.completed = msg.Completed
		m.vm = msg.VM
		cmd := m.bar.SetPercent(float64(msg.Completed) / float64(m.total))
		return m, cmd

	case DoneMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	return fmt.Sprintf("Analyzing VMs %d/%d %s\n%s\n",
		m.completed, m.total, vmStyle.Render(m.vm), m.bar.View())
}
