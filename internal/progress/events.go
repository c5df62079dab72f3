// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a real-time update from a running task or the session.
// Events are emitted throughout the task lifecycle to provide feedback for
// the stream printer, the TUI and other monitoring sinks.
type Event struct {
	TaskID    int       // 1-based task ordinal; 0 for session-level events
	Type      EventType // Event type indicating what happened
	Message   string    // Human-readable status message
	Timestamp time.Time // When the event occurred
	Data      EventData // Type-specific data
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventTaskStarted indicates a task process has been spawned.
	EventTaskStarted EventType = iota
	// EventLine indicates a complete output line is available.
	EventLine
	// EventTaskFinished indicates a task has an outcome.
	EventTaskFinished
	// EventSessionDone indicates every task has finished and the session result is final.
	EventSessionDone
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventTaskStarted:
		return "task-started"
	case EventLine:
		return "line"
	case EventTaskFinished:
		return "task-finished"
	case EventSessionDone:
		return "session-done"
	default:
		return "unknown"
	}
}

// StreamKind identifies which output stream a line came from.
type StreamKind int

const (
	// StreamStdout is the standard output stream of a task.
	StreamStdout StreamKind = iota
	// StreamStderr is the standard error stream of a task.
	StreamStderr
)

// String implements the Stringer interface for StreamKind.
func (sk StreamKind) String() string {
	if sk == StreamStderr {
		return "stderr"
	}

	return "stdout"
}

// EventData contains type-specific information for progress events.
type EventData struct {
	// For EventTaskStarted
	Command string // The shell command being run

	// For EventLine
	Line     string     // The output line, without the trailing newline
	Stream   StreamKind // Which stream the line came from
	Sequence uint64     // Per-task sequence number, monotonic across both streams

	// For EventTaskFinished and EventSessionDone
	ExitCode int           // Task exit code, or the session's aggregate code
	Error    error         // Error if the task or session failed
	Duration time.Duration // How long the task or session ran
}

// Reporter is the interface for sending progress events.
// The engine emits events through this during execution.
type Reporter interface {
	// Report delivers an event to the sink. Implementations may block to
	// apply backpressure; they must not drop line events.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives progress events from the engine.
// Sinks such as the stream printer implement this interface.
type Listener interface {
	// OnEvent is called for each event, always from a single goroutine,
	// in the order the events were reported.
	OnEvent(event Event)
}

// NullReporter is a no-op implementation of Reporter.
// Used when progress reporting is not needed.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(_ Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
