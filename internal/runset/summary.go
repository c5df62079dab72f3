// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ghopnik/ghop/internal/color"
)

// WriteSummary writes a per-task report of the session to w, one line per
// task in task order, with failure causes indented beneath the task they
// belong to.
func WriteSummary(w io.Writer, specs []TaskSpec, result *SessionResult) {
	commands := make(map[int]string, len(specs))
	for _, spec := range specs {
		commands[spec.ID] = spec.Command
	}

	failed := 0

	for i := range result.Outcomes {
		outcome := &result.Outcomes[i]

		marker := color.Colorize("✓", color.FgGreen)
		if outcome.Failed() {
			marker = color.Colorize("✗", color.FgRed)
			failed++
		}

		label := fmt.Sprintf("[%d] %s", outcome.TaskID, commands[outcome.TaskID])

		fmt.Fprintf(w, "%s %s (%s, exit code: %d, %s)\n",
			marker,
			color.Colorize(label, color.Bold),
			outcome.Kind,
			outcome.ExitCode,
			outcome.Duration.Round(time.Millisecond),
		)

		if outcome.Err != nil {
			for _, line := range strings.Split(outcome.Err.Error(), "\n") {
				fmt.Fprintf(w, "    %s %s\n", color.Colorize("➜", color.FgRed), line)
			}
		}
	}

	fmt.Fprintf(w, "\n%d tasks, %d failed, total time %s\n",
		len(result.Outcomes), failed, result.Duration.Round(time.Millisecond))
}
