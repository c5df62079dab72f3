// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Static errors for task outcomes.
var (
	// ErrCouldNotStartProcess indicates the task process could not be spawned.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe indicates an output pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrTimeoutExceeded indicates the task ran past its timeout.
	ErrTimeoutExceeded = errors.New("command timed out")
	// ErrSignalReceived indicates the task was terminated by a signal.
	ErrSignalReceived = errors.New("process terminated by signal")
	// ErrSessionCancelled indicates the session was cancelled before or
	// while the task was running.
	ErrSessionCancelled = errors.New("session cancelled")
)

// TimeoutExitCode is the exit code recorded for tasks that exceed their
// timeout, matching the convention of the timeout(1) utility.
const TimeoutExitCode = 124

// OutcomeKind classifies how a task finished.
type OutcomeKind int

const (
	// KindExited means the process ran to completion and returned an exit code.
	KindExited OutcomeKind = iota
	// KindSignaled means the process was terminated by a signal.
	KindSignaled
	// KindTimedOut means the task exceeded its timeout and was terminated.
	KindTimedOut
	// KindSpawnFailed means the process never started.
	KindSpawnFailed
)

// String implements the Stringer interface for OutcomeKind.
func (k OutcomeKind) String() string {
	switch k {
	case KindExited:
		return "exited"
	case KindSignaled:
		return "signaled"
	case KindTimedOut:
		return "timed out"
	case KindSpawnFailed:
		return "spawn failed"
	default:
		return "unknown"
	}
}

// Outcome records how a single task finished.
type Outcome struct {
	// TaskID is the 1-based ordinal of the task.
	TaskID int
	// Kind classifies the outcome.
	Kind OutcomeKind
	// ExitCode is the code contributed to the aggregate: the process exit
	// code for KindExited, TimeoutExitCode for KindTimedOut, and -1 for
	// KindSignaled and KindSpawnFailed.
	ExitCode int
	// Err carries the failure cause, nil for a clean exit.
	Err error
	// Duration is how long the task ran.
	Duration time.Duration
}

// Failed reports whether the outcome counts as a failure.
func (o *Outcome) Failed() bool {
	return o.Kind != KindExited || o.ExitCode != 0
}

// String implements the Stringer interface for Outcome.
func (o *Outcome) String() string {
	if o.Kind == KindExited {
		return fmt.Sprintf("task %d %s with code %d", o.TaskID, o.Kind, o.ExitCode)
	}

	return fmt.Sprintf("task %d %s (exit code %d)", o.TaskID, o.Kind, o.ExitCode)
}

// outcomeCell holds a task's outcome with first-write-wins semantics, so a
// timeout recorded by the watchdog is not overwritten by the natural exit
// that follows the kill.
type outcomeCell struct {
	mu sync.Mutex
	o  *Outcome
}

// record stores the outcome if none has been stored yet and reports whether
// this call won.
func (c *outcomeCell) record(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.o != nil {
		return false
	}

	c.o = &o

	return true
}

// get returns the recorded outcome, or nil if none was recorded.
func (c *outcomeCell) get() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.o
}
