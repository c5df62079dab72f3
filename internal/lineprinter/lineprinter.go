// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lineprinter renders line events as labelled plain-text output,
// the default sink for non-interactive runs.
package lineprinter

import (
	"context"
	"fmt"
	"io"

	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/progress"
)

// Printer writes each line event to the writer matching its stream of
// origin. Stdout lines are labelled "[N]", stderr lines "[N][err]", where N
// is the task's 1-based ordinal. Events arrive in report order, so the
// printed interleaving matches what the tasks produced.
type Printer struct {
	ctx context.Context
	out io.Writer
	err io.Writer
}

// New creates a Printer writing stdout lines to out and stderr lines to
// errOut.
func New(ctx context.Context, out, errOut io.Writer) *Printer {
	return &Printer{
		ctx: ctx,
		out: out,
		err: errOut,
	}
}

// OnEvent implements progress.Listener. Events other than lines are logged
// at debug level and otherwise ignored.
func (p *Printer) OnEvent(event progress.Event) {
	if event.Type != progress.EventLine {
		ctxlog.Debug(p.ctx, "progress event", "type", event.Type.String(), "task", event.TaskID, "message", event.Message)

		return
	}

	if event.Data.Stream == progress.StreamStderr {
		fmt.Fprintf(p.err, "[%d][err] %s\n", event.TaskID, event.Data.Line) //nolint:errcheck

		return
	}

	fmt.Fprintf(p.out, "[%d] %s\n", event.TaskID, event.Data.Line) //nolint:errcheck
}
