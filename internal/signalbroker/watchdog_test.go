// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/ghopnik/ghop/internal/ctxlog"
)

func TestWatch_FirstSignalCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	sigCh := make(chan os.Signal, 1)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel)
	}()
	sigCh <- os.Interrupt

	select {
	case <-ctx.Done():
		// ok
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after the first signal")
	}

	close(sigCh)
	wg.Wait()
}

func TestWatch_RepeatSignalsAreNoOps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	sigCh := make(chan os.Signal, 3)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel)
	}()
	sigCh <- os.Interrupt
	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM

	select {
	case <-ctx.Done():
		// ok, and Watch must keep draining without panicking
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled")
	}

	close(sigCh)
	wg.Wait()
}

func TestWatch_ReturnsWhenChannelClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	sigCh := make(chan os.Signal)

	done := make(chan struct{})

	go func() {
		Watch(ctx, sigCh, cancel)
		close(done)
	}()

	close(sigCh)

	select {
	case <-done:
		// ok
	case <-time.After(time.Second):
		t.Fatal("Watch should return once the signal channel is closed")
	}
}
