// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"time"
)

// TaskSpec describes a single shell command to run as part of a session.
type TaskSpec struct {
	// ID is the 1-based ordinal of the task within the session. It prefixes
	// every output line and identifies the task in progress events.
	ID int

	// Command is the shell command line, passed verbatim to the platform
	// shell. It is never tokenized by the engine.
	Command string

	// Timeout is the maximum wall-clock run time for the task. Zero means
	// no timeout.
	Timeout time.Duration

	// Env holds additional environment variables for the task, merged over
	// the parent environment.
	Env map[string]string

	// Cwd is the working directory for the task. Empty means inherit.
	Cwd string

	// shell overrides the platform shell lookup. Tests use this to force
	// spawn failures without touching the process environment.
	shell string
}

// SpecsFromCommands builds task specs from raw command lines, assigning
// 1-based IDs in argument order. Commands carry no timeout.
func SpecsFromCommands(commands []string) []TaskSpec {
	specs := make([]TaskSpec, 0, len(commands))

	for i, command := range commands {
		specs = append(specs, TaskSpec{
			ID:      i + 1,
			Command: command,
		})
	}

	return specs
}
