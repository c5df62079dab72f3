// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/progress"
)

// drainStream reads one output stream of a task line by line and reports
// each line as a progress event. Both streams of a task share the sequence
// counter, so event order reflects read order across the pair. A final line
// without a trailing newline is still reported. Reporting may block for
// backpressure, which stalls the child on its pipe instead of dropping
// output. drainStream returns when the stream reaches EOF or fails.
func drainStream(ctx context.Context, taskID int, stream progress.StreamKind, r io.Reader, seq *atomic.Uint64, reporter progress.Reporter) {
	reader := bufio.NewReader(r)

	for {
		chunk, err := reader.ReadString('\n')

		if chunk != "" {
			reportLine(ctx, taskID, stream, chunk, seq, reporter)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				ctxlog.Debug(ctx, "stream read failed", "task", taskID, "stream", stream.String(), "error", err)
			}

			return
		}
	}
}

// reportLine strips the line terminator, repairs invalid UTF-8 and
// publishes the line under the next sequence number. Everything else,
// including ANSI escape sequences, passes through untouched.
func reportLine(ctx context.Context, taskID int, stream progress.StreamKind, chunk string, seq *atomic.Uint64, reporter progress.Reporter) {
	text := strings.TrimSuffix(chunk, "\n")
	text = strings.TrimSuffix(text, "\r")

	if !utf8.ValidString(text) {
		ctxlog.Debug(ctx, "replacing invalid UTF-8 in output", "task", taskID, "stream", stream.String())
		text = strings.ToValidUTF8(text, "�")
	}

	reporter.Report(progress.Event{
		TaskID:    taskID,
		Type:      progress.EventLine,
		Timestamp: time.Now(),
		Data: progress.EventData{
			Line:     text,
			Stream:   stream,
			Sequence: seq.Add(1),
		},
	})
}
