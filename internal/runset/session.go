// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// SessionResult aggregates the outcomes of every task in a session, in task
// order.
type SessionResult struct {
	// Outcomes holds one entry per task, ordered by task ID.
	Outcomes []Outcome
	// Duration is the wall-clock time from first spawn to last exit.
	Duration time.Duration
}

// ExitCode derives the session's aggregate exit code: the exit code of the
// last task in task order that did not exit cleanly, or zero when every task
// exited with code zero. Synthetic negative codes map to one so the result
// is always a valid process exit status.
func (r *SessionResult) ExitCode() int {
	code := 0

	for i := range r.Outcomes {
		if r.Outcomes[i].Failed() {
			code = r.Outcomes[i].ExitCode
		}
	}

	if code < 0 {
		return 1
	}

	return code
}

// HasError reports whether any task failed.
func (r *SessionResult) HasError() bool {
	for i := range r.Outcomes {
		if r.Outcomes[i].Failed() {
			return true
		}
	}

	return false
}

// Err collects the errors of every failed task into a single multierror,
// or nil when the session succeeded.
func (r *SessionResult) Err() error {
	var result *multierror.Error

	for i := range r.Outcomes {
		if r.Outcomes[i].Failed() && r.Outcomes[i].Err != nil {
			result = multierror.Append(result, r.Outcomes[i].Err)
		}
	}

	return result.ErrorOrNil()
}
