// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghopnik/ghop/internal/progress"
)

const (
	minStatusBarAvailableHeight = 10
	taskDurationRounding        = 100 * time.Millisecond
	tickInterval                = 500 * time.Millisecond
	maxTabWidth                 = 28
	chromeHeight                = 7 // title, tabs, border and footer
	minViewportHeight           = 1
	ellipsis                    = "…"
)

// EventMsg wraps a progress event for the tea framework.
type EventMsg struct {
	Event progress.Event
}

// tickMsg drives the elapsed-time display while tasks are running.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// The viewport handles scrolling keys itself.
	m.viewport, cmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.refreshViewport()

		return m, cmd

	case EventMsg:
		m.processEvent(msg.Event)

		return m, cmd

	case tickMsg:
		if m.completed {
			return m, cmd
		}

		return m, tea.Batch(cmd, tickCmd())

	case tea.QuitMsg:
		m.quitting = true

		return m, tea.Quit
	}

	return m, cmd
}

// handleKeyPress processes keyboard input not handled by the viewport.
func (m *Model) handleKeyPress(msg tea.KeyMsg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true

		return m, tea.Quit
	case "right", "tab":
		m.selectPane(m.selected + 1)
	case "left", "shift+tab":
		m.selectPane(m.selected - 1)
	}

	return m, cmd
}

// resizeViewport sizes the viewport to the window, leaving room for the
// tab bar and footer.
func (m *Model) resizeViewport() {
	width := m.width - 2 // border
	if width < 1 {
		width = 1
	}

	height := m.height - chromeHeight
	if height < minViewportHeight {
		height = minViewportHeight
	}

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true

		return
	}

	m.viewport.Width = width
	m.viewport.Height = height
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	if !m.ready {
		return "Starting...\n"
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("ghop"))
	view.WriteString("\n")
	view.WriteString(m.renderTabs())
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))
	view.WriteString("\n")
	view.WriteString(m.renderStatusBar())

	if m.height > minStatusBarAvailableHeight {
		helpText := "←/→ or tab to switch tasks, ↑/↓ to scroll, 'q' to quit"
		if m.completed {
			helpText = "all tasks finished, 'q' to quit"
		}

		view.WriteString("\n")
		view.WriteString(m.styles.Help.Render(helpText))
	}

	return view.String()
}

// renderTabs renders one tab per task, highlighting the selected one.
func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.panes))

	for i, p := range m.panes {
		label := truncate(fmt.Sprintf("%d: %s", p.spec.ID, p.spec.Command), maxTabWidth)
		label = fmt.Sprintf("%s %s", statusIcon(p.getStatus()), label)

		style := m.styles.Tab
		if i == m.selected {
			style = m.styles.TabSelected
		}

		tabs = append(tabs, style.Render(label))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderStatusBar summarises task states, and once everything is done shows
// the aggregate exit code.
func (m *Model) renderStatusBar() string {
	var pending, running, succeeded, failed int

	for _, p := range m.panes {
		switch p.getStatus() {
		case StatusPending:
			pending++
		case StatusRunning:
			running++
		case StatusSuccess:
			succeeded++
		case StatusFailed:
			failed++
		}
	}

	elapsed := time.Since(m.start)
	if m.completed && !m.end.IsZero() {
		elapsed = m.end.Sub(m.start)
	}

	counts := fmt.Sprintf("%d running, %d ok, %d failed, %d pending | %s",
		running, succeeded, failed, pending, elapsed.Round(taskDurationRounding))

	if !m.completed {
		return m.styles.Status.Render(counts)
	}

	banner := m.styles.Success.Render(fmt.Sprintf("✅ all tasks finished (exit code %d)", m.exitCode))
	if m.exitCode != 0 {
		banner = m.styles.Failed.Render(fmt.Sprintf("❌ tasks finished with failures (exit code %d)", m.exitCode))
	}

	return banner + "\n" + m.styles.Status.Render(counts)
}

func statusIcon(status TaskStatus) string {
	switch status {
	case StatusPending:
		return "⏳"
	case StatusRunning:
		return "⚡"
	case StatusSuccess:
		return "✅"
	case StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}

// truncate shortens s to at most width runes, ending with an ellipsis when
// something was cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= 1 {
		return ellipsis
	}

	return string(runes[:width-1]) + ellipsis
}
