// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/ghopnik/ghop/internal/config"
	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/lineprinter"
	"github.com/ghopnik/ghop/internal/progress"
	"github.com/ghopnik/ghop/internal/runset"
	"github.com/ghopnik/ghop/internal/tui"
)

const (
	tuiFlag     = "tui"
	fileFlag    = "file"
	graceFlag   = "grace"
	summaryFlag = "summary"
	cliExitStr  = ""

	reporterBufferSize = 1024
)

// rootCmd is the ghop command itself; there are no subcommands.
var rootCmd = &cli.Command{
	Name:      "ghop",
	Usage:     "run shell commands concurrently with labelled output",
	ArgsUsage: "<command1> [command2] ... | <set>",
	Description: `Ghop runs each command in its own shell and multiplexes the output line by
line, prefixing stdout lines with [N] and stderr lines with [N][err], where
N is the command's position on the command line, starting at 1. The exit
code is the last non-zero task exit code in task order, or zero when every
command succeeds.

Command sets can be kept in a YAML file:

   build:
     - go build ./...
     - command: go test ./...
       timeout: 600
   lint:
     - golangci-lint run

Run a set with "ghop --file ghop.yml build", or just "ghop build" when a
ghop.yml exists in the current directory.

Config file URLs use Hashicorp's go-getter syntax, so sets can be fetched
from git, http or s3 sources. See https://github.com/hashicorp/go-getter.`,
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Copyright: "Copyright (c) ghopnik 2025. All rights reserved.",
	Authors: []any{
		"ghopnik",
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        tuiFlag,
			Aliases:     []string{"t"},
			Usage:       "Run with the interactive terminal interface showing one tab per task",
			Value:       false,
			DefaultText: "false",
			TakesFile:   false,
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Load the commands from a set in the given YAML file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.DurationFlag{
			Name:  graceFlag,
			Usage: "How long a task may keep running after a termination request before it is killed",
			Value: runset.DefaultGrace,
		},
		&cli.BoolFlag{
			Name:        summaryFlag,
			Aliases:     []string{"s"},
			Usage:       "Print a per-task summary after the run",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	},
	EnableShellCompletion: true,
	Action:                runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	specs, err := resolveSpecs(ctx, cmd.String(fileFlag), cmd.Args().Slice())
	if err != nil {
		return err
	}

	grace := cmd.Duration(graceFlag)

	var (
		result *runset.SessionResult
		uiErr  error
	)

	if cmd.Bool(tuiFlag) {
		result, uiErr = runWithTUI(ctx, cmd, specs, grace)
	} else {
		result = runWithPrinter(ctx, cmd, specs, grace)
	}

	if uiErr != nil {
		ctxlog.Error(ctx, "terminal interface failed", "error", uiErr)
	}

	if cmd.Bool(summaryFlag) {
		runset.WriteSummary(cmd.Writer, specs, result)
	}

	if code := result.ExitCode(); code != 0 {
		return cli.Exit(cliExitStr, code)
	}

	return nil
}

// resolveSpecs turns the CLI invocation into task specs: an explicit config
// set, a set-name shorthand against ./ghop.yml, or raw commands.
func resolveSpecs(ctx context.Context, file string, args []string) ([]runset.TaskSpec, error) {
	if file != "" {
		if len(args) == 0 {
			return nil, cli.Exit("when using --file, you must specify the set name to run", 1)
		}

		if len(args) > 1 {
			return nil, cli.Exit("specify exactly one set name when using --file", 1)
		}

		specs, err := config.Load(ctx, file, args[0])
		if err != nil {
			return nil, cli.Exit(err.Error(), 1)
		}

		return specs, nil
	}

	// A single argument naming a set in ./ghop.yml runs that set. Anything
	// that does not resolve to a set runs as a plain command.
	if len(args) == 1 {
		if ok, _ := afero.Exists(config.FS, config.DefaultFileName); ok {
			specs, err := config.Load(ctx, config.DefaultFileName, args[0])
			if err == nil {
				return specs, nil
			}

			if errors.Is(err, config.ErrEmptySet) {
				return nil, cli.Exit(err.Error(), 1)
			}

			ctxlog.Debug(ctx, "argument did not resolve to a set, running it as a command", "error", err)
		}
	}

	if len(args) == 0 {
		return nil, cli.Exit("No commands provided. Use -h for help.", 1)
	}

	return runset.SpecsFromCommands(args), nil
}

// runWithPrinter streams labelled lines to stdout and stderr as the tasks
// produce them.
func runWithPrinter(ctx context.Context, cmd *cli.Command, specs []runset.TaskSpec, grace time.Duration) *runset.SessionResult {
	reporter := progress.NewChannelReporter(reporterBufferSize)
	reporter.Listen(lineprinter.New(ctx, cmd.Writer, cmd.ErrWriter))

	sup := &runset.Supervisor{
		Reporter: reporter,
		Grace:    grace,
	}

	result := sup.Run(ctx, specs)
	reporter.Close()

	return result
}

// runWithTUI runs the tasks behind the interactive interface, buffering log
// output until the alternate screen is torn down.
func runWithTUI(ctx context.Context, cmd *cli.Command, specs []runset.TaskSpec, grace time.Duration) (*runset.SessionResult, error) {
	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewForTUI(ctx, buf)

	runner := tui.NewRunner(specs, grace)
	result, err := runner.Run(tuiCtx)

	buf.WriteTo(cmd.ErrWriter) //nolint:errcheck

	return result, err
}
