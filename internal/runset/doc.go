// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runset runs a set of shell commands concurrently and multiplexes
// their output into a single ordered stream of line events.
//
// Each task is spawned through the platform shell and supervised by its own
// goroutine. Both output streams of a task are drained line by line and
// published as progress events carrying the task's ordinal, the stream of
// origin and a per-task sequence number that is monotonic across stdout and
// stderr. A task that exceeds its timeout is terminated and recorded as
// timed out regardless of how the process exits afterwards. Cancelling the
// session context terminates every running task gracefully, escalating to a
// kill after a grace period.
//
// The session result aggregates per-task outcomes in task order and derives
// a single exit code suitable for passing to os.Exit.
package runset
