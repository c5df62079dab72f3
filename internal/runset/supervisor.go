// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/progress"
)

// DefaultGrace is how long a terminated task may keep running before it is
// forcefully killed.
const DefaultGrace = 5 * time.Second

// Supervisor runs task sets to completion. The zero value runs without
// progress reporting and with the default grace period.
type Supervisor struct {
	// Reporter receives progress events during the run. Nil disables
	// reporting. The supervisor never closes the reporter; by the time Run
	// returns, no further events will be reported.
	Reporter progress.Reporter

	// Grace is how long a task has to exit after a termination request
	// before it is killed. Zero or negative means DefaultGrace.
	Grace time.Duration
}

func (s *Supervisor) reporter() progress.Reporter {
	if s.Reporter == nil {
		return progress.NewNullReporter()
	}

	return s.Reporter
}

func (s *Supervisor) grace() time.Duration {
	if s.Grace <= 0 {
		return DefaultGrace
	}

	return s.Grace
}

// Run executes every task concurrently and blocks until all of them have
// finished, including tasks still winding down after a cancellation. The
// returned result lists one outcome per task, in task order.
func (s *Supervisor) Run(ctx context.Context, specs []TaskSpec) *SessionResult {
	start := time.Now()
	result := &SessionResult{}

	if len(specs) == 0 {
		result.Duration = time.Since(start)

		return result
	}

	pos := make(map[int]int, len(specs))
	for i, spec := range specs {
		pos[spec.ID] = i
	}

	var wg sync.WaitGroup

	outCh := make(chan Outcome, len(specs))

	for _, spec := range specs {
		wg.Add(1)

		go func(ts TaskSpec) {
			defer wg.Done()

			outCh <- s.runTask(ctx, ts)
		}(spec)
	}

	wg.Wait()
	close(outCh)

	result.Outcomes = make([]Outcome, len(specs))
	for outcome := range outCh {
		result.Outcomes[pos[outcome.TaskID]] = outcome
	}

	result.Duration = time.Since(start)

	s.reporter().Report(progress.Event{
		Type:      progress.EventSessionDone,
		Message:   "all tasks finished",
		Timestamp: time.Now(),
		Data: progress.EventData{
			ExitCode: result.ExitCode(),
			Error:    result.Err(),
			Duration: result.Duration,
		},
	})

	return result
}

// runTask launches a single task and supervises it to its outcome. The
// watchdog goroutine owns timeout and cancellation handling; the natural
// exit path only records its outcome when the watchdog has not already
// decided the task's fate.
func (s *Supervisor) runTask(ctx context.Context, spec TaskSpec) Outcome {
	reporter := s.reporter()
	start := time.Now()

	if ctx.Err() != nil {
		// Cancelled before the task could spawn.
		outcome := Outcome{
			TaskID:   spec.ID,
			Kind:     KindSignaled,
			ExitCode: -1,
			Err:      errors.Join(ErrSessionCancelled, context.Cause(ctx)),
			Duration: time.Since(start),
		}
		reportFinished(reporter, spec, outcome)

		return outcome
	}

	reporter.Report(progress.Event{
		TaskID:    spec.ID,
		Type:      progress.EventTaskStarted,
		Message:   spec.Command,
		Timestamp: time.Now(),
		Data:      progress.EventData{Command: spec.Command},
	})

	proc, err := launch(ctx, spec)
	if err != nil {
		ctxlog.Error(ctx, "failed to start task", "task", spec.ID, "command", spec.Command, "error", err)

		outcome := Outcome{
			TaskID:   spec.ID,
			Kind:     KindSpawnFailed,
			ExitCode: -1,
			Err:      err,
			Duration: time.Since(start),
		}
		reportFinished(reporter, spec, outcome)

		return outcome
	}

	var (
		cell outcomeCell
		seq  atomic.Uint64
		wg   sync.WaitGroup
	)

	done := make(chan struct{})

	var timeoutC <-chan time.Time

	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()

		timeoutC = timer.C
	}

	go func() {
		select {
		case <-timeoutC:
			// The process may have exited in the instant the timer fired.
			select {
			case <-done:
				return
			default:
			}

			won := cell.record(Outcome{
				TaskID:   spec.ID,
				Kind:     KindTimedOut,
				ExitCode: TimeoutExitCode,
				Err:      fmt.Errorf("%w after %s", ErrTimeoutExceeded, spec.Timeout),
				Duration: time.Since(start),
			})
			if won {
				ctxlog.Warn(ctx, "task timed out", "task", spec.ID, "timeout", spec.Timeout)
				// Surface the timeout on the task's own stderr stream so it
				// interleaves with the command's output.
				fmt.Fprintf(proc.stderrW, "command timed out after %gs\n", spec.Timeout.Seconds()) //nolint:errcheck
				proc.Terminate(ctx, s.grace())
			}

			<-done
		case <-ctx.Done():
			ctxlog.Debug(ctx, "terminating task after cancellation", "task", spec.ID)
			proc.Terminate(ctx, s.grace())
			<-done
		case <-done:
		}
	}()

	wg.Add(2)

	go func() {
		defer wg.Done()

		drainStream(ctx, spec.ID, progress.StreamStdout, proc.stdoutR, &seq, reporter)
	}()

	go func() {
		defer wg.Done()

		drainStream(ctx, spec.ID, progress.StreamStderr, proc.stderrR, &seq, reporter)
	}()

	code, waitErr := proc.Wait()
	close(done)
	wg.Wait()
	closeFiles(proc.stdoutR, proc.stderrR)

	natural := Outcome{
		TaskID:   spec.ID,
		Duration: time.Since(start),
	}

	if code < 0 {
		natural.Kind = KindSignaled
		natural.ExitCode = -1

		errs := []error{ErrSignalReceived}
		if ctx.Err() != nil {
			errs = append(errs, errors.Join(ErrSessionCancelled, context.Cause(ctx)))
		}

		if waitErr != nil {
			errs = append(errs, waitErr)
		}

		natural.Err = errors.Join(errs...)
	} else {
		natural.Kind = KindExited
		natural.ExitCode = code

		if code != 0 {
			natural.Err = fmt.Errorf("command exited with code %d", code)
		}
	}

	cell.record(natural)
	outcome := *cell.get()

	reportFinished(reporter, spec, outcome)

	return outcome
}

// reportFinished publishes the task's terminal event.
func reportFinished(reporter progress.Reporter, spec TaskSpec, outcome Outcome) {
	reporter.Report(progress.Event{
		TaskID:    spec.ID,
		Type:      progress.EventTaskFinished,
		Message:   outcome.String(),
		Timestamp: time.Now(),
		Data: progress.EventData{
			Command:  spec.Command,
			ExitCode: outcome.ExitCode,
			Error:    outcome.Err,
			Duration: outcome.Duration,
		},
	})
}
