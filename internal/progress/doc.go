// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries real-time events from running tasks to output sinks.
// The engine emits lifecycle and output-line events through a Reporter; sinks
// such as the stream printer and the TUI consume them. Line events are never
// dropped: the channel reporter blocks the producing task when the sink is
// slow, which stalls the child process on its pipe instead of losing output.
package progress
