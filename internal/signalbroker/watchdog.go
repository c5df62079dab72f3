// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/ghopnik/ghop/internal/ctxlog"
)

// Watch monitors the signal channel and cancels the context on the first
// signal received. Cancellation is idempotent: repeated signals are logged
// no-ops while the tasks terminate. Watch returns when the signal channel is
// closed.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	cancelled := false

	for sig := range sigCh {
		if cancelled {
			ctxlog.Info(ctx, "still shutting down, ignoring signal", "signal", sig.String())

			continue
		}

		ctxlog.Info(ctx, "received signal, terminating running tasks", "signal", sig.String())
		cancel()

		cancelled = true
	}
}
