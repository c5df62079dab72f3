// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghopnik/ghop/internal/progress"
	"github.com/ghopnik/ghop/internal/runset"
)

// Reporter implements progress.Reporter and forwards events into the
// bubbletea program. It never blocks the producing task.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a progress reporter feeding the TUI.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.Report.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(EventMsg{Event: event})
}

// Close implements progress.Reporter.Close.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	tr.closed = true
}

// Runner couples a task session with the TUI lifecycle.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	specs    []runset.TaskSpec
	grace    time.Duration
	mutex    sync.Mutex
}

// NewRunner creates a TUI runner for the given task specs.
func NewRunner(specs []runset.TaskSpec, grace time.Duration) *Runner {
	model := NewModel(specs)
	program := tea.NewProgram(model, tea.WithAltScreen())

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewReporter(program),
		specs:    specs,
		grace:    grace,
	}
}

// Run starts the TUI and executes the tasks, returning when both have
// finished. After the last task completes, the interface stays open for
// inspection until the user quits. Quitting while tasks are still running
// cancels them and waits for the wind-down.
func (r *Runner) Run(ctx context.Context) (*runset.SessionResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	taskCtx, cancelTasks := context.WithCancel(ctx)
	defer cancelTasks()

	sup := &runset.Supervisor{
		Reporter: r.reporter,
		Grace:    r.grace,
	}

	resultChan := make(chan *runset.SessionResult, 1)

	go func() {
		defer close(resultChan)

		resultChan <- sup.Run(taskCtx, r.specs)
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var (
		result *runset.SessionResult
		uiErr  error
	)

	select {
	case result = <-resultChan:
		// Tasks finished; leave the interface up until the user quits or
		// an outside signal arrives.
		select {
		case uiErr = <-tuiDone:
		case <-ctx.Done():
			r.program.Quit()
			uiErr = <-tuiDone
		}

		r.reporter.Close()

	case uiErr = <-tuiDone:
		// User quit early; stop the tasks and collect what they produced.
		r.reporter.Close()
		cancelTasks()
		result = <-resultChan

	case <-ctx.Done():
		r.reporter.Close()
		r.program.Quit()
		result = <-resultChan
		<-tuiDone
	}

	return result, uiErr
}
