// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghopnik/ghop/internal/progress"
	"github.com/ghopnik/ghop/internal/runset"
)

// TaskStatus represents the current state of a task in the TUI.
type TaskStatus int

const (
	// StatusPending means the task has not started yet.
	StatusPending TaskStatus = iota
	// StatusRunning means the task process is running.
	StatusRunning
	// StatusSuccess means the task exited cleanly.
	StatusSuccess
	// StatusFailed means the task failed, timed out or was terminated.
	StatusFailed
)

// String returns a string representation of the task status.
func (s TaskStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	// paneMaxLines caps the per-task scrollback. When a pane exceeds the
	// cap, the oldest lines are dropped down to paneKeepLines.
	paneMaxLines  = 10000
	paneKeepLines = 5000
)

// pane accumulates the output of one task.
type pane struct {
	spec     runset.TaskSpec
	lines    []string
	status   TaskStatus
	start    time.Time
	end      time.Time
	exitCode int
	errMsg   string
	mutex    sync.RWMutex
}

func newPane(spec runset.TaskSpec) *pane {
	return &pane{
		spec:   spec,
		status: StatusPending,
	}
}

// appendLine adds one output line, marking stderr lines, and trims the
// scrollback once it exceeds the cap.
func (p *pane) appendLine(line string, stream progress.StreamKind) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if stream == progress.StreamStderr {
		line = "[err] " + line
	}

	p.lines = append(p.lines, line)

	if len(p.lines) > paneMaxLines {
		kept := make([]string, paneKeepLines)
		copy(kept, p.lines[len(p.lines)-paneKeepLines:])
		p.lines = kept
	}
}

// content returns the pane's scrollback as a single string.
func (p *pane) content() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return strings.Join(p.lines, "\n")
}

func (p *pane) lineCount() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return len(p.lines)
}

func (p *pane) lastLine() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if len(p.lines) == 0 {
		return ""
	}

	return p.lines[len(p.lines)-1]
}

// setStatus updates the status and stamps start and end times on the first
// transition into a running or terminal state.
func (p *pane) setStatus(status TaskStatus) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.status = status
	now := time.Now()

	switch status {
	case StatusRunning:
		if p.start.IsZero() {
			p.start = now
		}
	case StatusSuccess, StatusFailed:
		if p.end.IsZero() {
			p.end = now
		}
	case StatusPending:
	}
}

func (p *pane) getStatus() TaskStatus {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.status
}

func (p *pane) setResult(exitCode int, errMsg string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.exitCode = exitCode
	p.errMsg = errMsg
}

func (p *pane) elapsed() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.start.IsZero() {
		return 0
	}

	if p.end.IsZero() {
		return time.Since(p.start)
	}

	return p.end.Sub(p.start)
}

// Model is the bubbletea model: one tab per task above a viewport showing
// the selected task's scrollback.
type Model struct {
	specs     []runset.TaskSpec
	panes     []*pane
	index     map[int]int // task ID to pane position
	selected  int
	width     int
	height    int
	viewport  viewport.Model
	ready     bool
	completed bool
	exitCode  int
	start     time.Time
	end       time.Time
	quitting  bool
	styles    *Styles
}

// Styles contains the styling for the TUI.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	TabSelected lipgloss.Style
	Border      lipgloss.Style
	Pending     lipgloss.Style
	Running     lipgloss.Style
	Success     lipgloss.Style
	Failed      lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1),
		TabSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// NewModel creates the TUI model for the given task specs.
func NewModel(specs []runset.TaskSpec) *Model {
	panes := make([]*pane, 0, len(specs))
	index := make(map[int]int, len(specs))

	for i, spec := range specs {
		panes = append(panes, newPane(spec))
		index[spec.ID] = i
	}

	return &Model{
		specs:  specs,
		panes:  panes,
		index:  index,
		start:  time.Now(),
		styles: NewStyles(),
	}
}

// selectPane switches to the given tab position, wrapping around the ends,
// and jumps the viewport to the most recent output.
func (m *Model) selectPane(i int) {
	if len(m.panes) == 0 {
		return
	}

	m.selected = ((i % len(m.panes)) + len(m.panes)) % len(m.panes)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// refreshViewport loads the selected pane's scrollback into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready || len(m.panes) == 0 {
		return
	}

	m.viewport.SetContent(m.panes[m.selected].content())
}

// processEvent folds one progress event into the model state.
func (m *Model) processEvent(event progress.Event) {
	if event.Type == progress.EventSessionDone {
		m.completed = true
		m.exitCode = event.Data.ExitCode
		m.end = time.Now()

		return
	}

	pos, ok := m.index[event.TaskID]
	if !ok {
		return
	}

	p := m.panes[pos]

	switch event.Type {
	case progress.EventTaskStarted:
		p.setStatus(StatusRunning)

	case progress.EventLine:
		p.appendLine(event.Data.Line, event.Data.Stream)

		if pos == m.selected {
			follow := m.viewport.AtBottom()
			m.refreshViewport()

			if follow {
				m.viewport.GotoBottom()
			}
		}

	case progress.EventTaskFinished:
		status := StatusSuccess
		if event.Data.Error != nil || event.Data.ExitCode != 0 {
			status = StatusFailed
		}

		p.setStatus(status)

		var errMsg string
		if event.Data.Error != nil {
			errMsg = event.Data.Error.Error()
		}

		p.setResult(event.Data.ExitCode, errMsg)

	case progress.EventSessionDone:
	}
}
