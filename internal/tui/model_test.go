// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghopnik/ghop/internal/progress"
	"github.com/ghopnik/ghop/internal/runset"
)

func testSpecs() []runset.TaskSpec {
	return []runset.TaskSpec{
		{ID: 1, Command: "echo one"},
		{ID: 2, Command: "echo two"},
		{ID: 3, Command: "echo three"},
	}
}

func sizedModel(t *testing.T) *Model {
	t.Helper()

	m := NewModel(testSpecs())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	sized, ok := updated.(*Model)
	require.True(t, ok)
	require.True(t, sized.ready, "a window size message should initialise the viewport")

	return sized
}

func TestTaskStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", TaskStatus(42).String())
}

func TestPaneAppendLineMarksStderr(t *testing.T) {
	p := newPane(runset.TaskSpec{ID: 1, Command: "echo hi"})

	p.appendLine("plain", progress.StreamStdout)
	p.appendLine("oops", progress.StreamStderr)

	assert.Equal(t, "plain\n[err] oops", p.content())
}

func TestPaneScrollbackCap(t *testing.T) {
	p := newPane(runset.TaskSpec{ID: 1, Command: "yes"})

	for i := 0; i <= paneMaxLines; i++ {
		p.appendLine(fmt.Sprintf("line-%d", i), progress.StreamStdout)
	}

	assert.Equal(t, paneKeepLines, p.lineCount(), "the scrollback should be trimmed once it exceeds the cap")
	assert.Equal(t, fmt.Sprintf("line-%d", paneMaxLines), p.lastLine(), "the most recent line must survive the trim")
}

func TestPaneStatusTransitions(t *testing.T) {
	p := newPane(runset.TaskSpec{ID: 1, Command: "echo hi"})

	require.Equal(t, StatusPending, p.getStatus())
	assert.Zero(t, p.elapsed())

	p.setStatus(StatusRunning)
	assert.Equal(t, StatusRunning, p.getStatus())
	assert.False(t, p.start.IsZero())
	assert.True(t, p.end.IsZero())

	p.setStatus(StatusSuccess)
	assert.Equal(t, StatusSuccess, p.getStatus())
	assert.False(t, p.end.IsZero())
}

func TestModelProcessEventLifecycle(t *testing.T) {
	m := sizedModel(t)

	m.processEvent(progress.Event{TaskID: 1, Type: progress.EventTaskStarted})
	assert.Equal(t, StatusRunning, m.panes[0].getStatus())

	m.processEvent(progress.Event{
		TaskID: 1,
		Type:   progress.EventLine,
		Data:   progress.EventData{Line: "hello", Stream: progress.StreamStdout, Sequence: 1},
	})
	assert.Equal(t, "hello", m.panes[0].lastLine())

	m.processEvent(progress.Event{
		TaskID: 1,
		Type:   progress.EventTaskFinished,
		Data:   progress.EventData{ExitCode: 0},
	})
	assert.Equal(t, StatusSuccess, m.panes[0].getStatus())

	m.processEvent(progress.Event{
		TaskID: 2,
		Type:   progress.EventTaskFinished,
		Data:   progress.EventData{ExitCode: 5, Error: errors.New("command exited with code 5")},
	})
	assert.Equal(t, StatusFailed, m.panes[1].getStatus())
	assert.Equal(t, 5, m.panes[1].exitCode)

	m.processEvent(progress.Event{
		Type: progress.EventSessionDone,
		Data: progress.EventData{ExitCode: 5},
	})
	assert.True(t, m.completed)
	assert.Equal(t, 5, m.exitCode)
}

func TestModelIgnoresEventsForUnknownTasks(t *testing.T) {
	m := sizedModel(t)

	m.processEvent(progress.Event{TaskID: 99, Type: progress.EventTaskStarted})

	for _, p := range m.panes {
		assert.Equal(t, StatusPending, p.getStatus())
	}
}

func TestModelSelectPaneWrapsAround(t *testing.T) {
	m := sizedModel(t)

	require.Equal(t, 0, m.selected)

	m.selectPane(1)
	assert.Equal(t, 1, m.selected)

	m.selectPane(3)
	assert.Equal(t, 0, m.selected, "selection should wrap past the last tab")

	m.selectPane(-1)
	assert.Equal(t, 2, m.selected, "selection should wrap before the first tab")
}

func TestModelTabKeysSwitchPanes(t *testing.T) {
	m := sizedModel(t)

	updated, _ := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyTab}))
	m = updated.(*Model)
	assert.Equal(t, 1, m.selected)

	updated, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyShiftTab}))
	m = updated.(*Model)
	assert.Equal(t, 0, m.selected)

	updated, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyRight}))
	m = updated.(*Model)
	assert.Equal(t, 1, m.selected)

	updated, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyLeft}))
	m = updated.(*Model)
	assert.Equal(t, 0, m.selected)
}

func TestModelQuitKeys(t *testing.T) {
	for _, key := range []tea.Key{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := sizedModel(t)

		updated, cmd := m.Update(tea.KeyMsg(key))
		m = updated.(*Model)

		assert.True(t, m.quitting)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestModelViewShowsTabsAndOutput(t *testing.T) {
	m := sizedModel(t)

	m.processEvent(progress.Event{TaskID: 1, Type: progress.EventTaskStarted})
	m.processEvent(progress.Event{
		TaskID: 1,
		Type:   progress.EventLine,
		Data:   progress.EventData{Line: "build output", Stream: progress.StreamStdout, Sequence: 1},
	})

	view := m.View()
	assert.Contains(t, view, "1: echo one")
	assert.Contains(t, view, "2: echo two")
	assert.Contains(t, view, "build output")
}

func TestModelViewShowsCompletionBanner(t *testing.T) {
	m := sizedModel(t)

	m.processEvent(progress.Event{
		Type: progress.EventSessionDone,
		Data: progress.EventData{ExitCode: 3},
	})

	view := m.View()
	assert.Contains(t, view, "exit code 3")
	assert.Contains(t, view, "'q' to quit")
}

func TestModelTickStopsWhenCompleted(t *testing.T) {
	m := sizedModel(t)

	_, cmd := m.Update(tickMsg(time.Time{}))
	assert.NotNil(t, cmd, "the tick should reschedule while tasks run")

	m.processEvent(progress.Event{Type: progress.EventSessionDone})

	_, _ = m.Update(tickMsg(time.Time{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "long"+ellipsis, truncate("longer", 5))
	assert.Equal(t, ellipsis, truncate("anything", 1))
}

func TestReporterAfterCloseDropsEvents(t *testing.T) {
	reporter := NewReporter(nil)

	// Must not panic with no program attached.
	reporter.Report(progress.Event{Type: progress.EventLine})

	reporter.Close()
	reporter.Report(progress.Event{Type: progress.EventLine})
}
