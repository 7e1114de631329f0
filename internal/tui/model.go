// Package tui displays the progress of a paint run.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/graffiti/internal/calendar"
	"github.com/verte-zerg/graffiti/internal/git"
	"github.com/verte-zerg/graffiti/internal/runner"
)

const maxBarWidth = 60

var (
	paintedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type stepMsg runner.Step

type doneMsg struct {
	result runner.Result
	err    error
}

// RunFunc performs the walk, reporting each day to reporter.
type RunFunc func(ctx context.Context, reporter runner.Reporter) (runner.Result, error)

// Model implements the Bubble Tea progress view. It paints each visited
// cell of the grid as the walk moves forward.
type Model struct {
	header  []string
	window  calendar.Window
	width   int
	visited [][]bool
	on      [][]bool
	bar     progress.Model

	last    runner.Step
	started bool
	commits int

	done   bool
	result runner.Result
	err    error
	cancel context.CancelFunc
}

// NewModel constructs a progress model for a grid of the given width.
func NewModel(window calendar.Window, gridWidth int, header []string) *Model {
	m := &Model{
		header: header,
		window: window,
		width:  gridWidth,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	m.visited = make([][]bool, 7)
	m.on = make([][]bool, 7)
	for r := range m.visited {
		m.visited[r] = make([]bool, gridWidth)
		m.on[r] = make([]bool, gridWidth)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 30
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case stepMsg:
		m.paint(runner.Step(msg))
		return m, nil
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) paint(step runner.Step) {
	m.last = step
	m.started = true
	m.commits += step.Commits
	day := step.Day
	if day.Row < len(m.visited) && day.Col < m.width {
		m.visited[day.Row][day.Col] = true
		m.on[day.Row][day.Col] = day.On
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	for _, line := range m.header {
		b.WriteString(headerStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderGrid())
	b.WriteByte('\n')

	percent := 0.0
	date := m.window.Start
	if m.started {
		percent = m.last.Progress.Percent()
		date = m.last.Progress.Date
	}
	if m.done && m.err == nil {
		percent = 100
	}
	fmt.Fprintf(&b, "%s %s  %d commits", git.FormatTimestamp(date), m.bar.ViewAs(percent/100), m.commits)
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) renderGrid() string {
	rows := make([]string, len(m.visited))
	for r := range m.visited {
		var line strings.Builder
		for c := 0; c < m.width; c++ {
			switch {
			case !m.visited[r][c]:
				line.WriteByte(' ')
			case m.on[r][c]:
				line.WriteString(paintedStyle.Render("#"))
			default:
				line.WriteString(skippedStyle.Render("."))
			}
		}
		rows[r] = line.String()
	}
	return strings.Join(rows, "\n")
}

// Run executes run inside a Bubble Tea program writing to out. Ctrl+C
// cancels the walk; commits already created are kept.
func Run(ctx context.Context, out io.Writer, m *Model, run RunFunc) (runner.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel
	m.bar.Width = min(maxBarWidth, max(10, terminalWidth(out)-30))

	program := tea.NewProgram(m, tea.WithOutput(out))
	go func() {
		result, err := run(ctx, runner.ReporterFunc(func(step runner.Step) {
			program.Send(stepMsg(step))
		}))
		program.Send(doneMsg{result: result, err: err})
	}()

	if _, err := program.Run(); err != nil && !m.done {
		return m.result, fmt.Errorf("failed to run progress TUI: %w", err)
	}
	return m.result, m.err
}
