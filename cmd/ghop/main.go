// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the ghop command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ghopnik/ghop"
	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.FromEnv())

	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", ghop.Version, ghop.Commit)

	err := rootCmd.Run(ctx, os.Args) // ExitCoder errors are handled by the cli framework

	// A cancelled session must never exit zero, even when every task
	// managed a clean exit during the wind-down.
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("terminated by cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("invalid usage", "error", err)
		os.Exit(2)
	}
}
