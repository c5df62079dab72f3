// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time terminal interface for watching tasks
// run. Each task gets a tab with its own scrollback pane; line events fill
// the panes as they arrive, stderr lines marked with an "[err] " prefix.
// The interface stays open after the last task finishes so the output can
// be inspected, and quitting early cancels the tasks that are still
// running.
package tui
