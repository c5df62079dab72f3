// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns OS termination signals into session
// cancellation. The default set is os.Interrupt, SIGINT, SIGTERM and SIGHUP,
// so closing the terminal tears the session down the same way Ctrl-C does.
// SIGQUIT is left alone to keep the runtime's goroutine dump available.
//
// Watch cancels the given context on the first signal received; further
// signals are logged and ignored while the running tasks shut down.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghopnik/ghop/internal/ctxlog"
)

var defaultSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
}

// New returns a channel receiving the signals that should end the session.
// With no arguments it subscribes to the default termination set.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		sigs = defaultSignals
	}

	ch := make(chan os.Signal, len(sigs))
	signal.Notify(ch, sigs...)
	ctxlog.Debug(ctx, "watching for termination signals", "signals", sigs)

	return ch
}
