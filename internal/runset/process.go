// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ghopnik/ghop/internal/ctxlog"
)

// process wraps a spawned shell child together with the pipes that carry
// its output back to the supervisor.
type process struct {
	ps       *os.Process
	stdoutR  *os.File
	stdoutW  *os.File
	stderrR  *os.File
	stderrW  *os.File
	waitDone chan struct{}
	termOnce sync.Once
}

// resolveShell returns the shell executable and the switch that makes it
// execute a command line. On Windows this is cmd.exe with /C, elsewhere the
// user's shell (or /bin/sh) with -c.
func resolveShell(override string) (string, string) {
	if runtime.GOOS == "windows" {
		shell := override
		if shell == "" {
			shell = filepath.Join(os.Getenv("SystemRoot"), "System32", "cmd.exe")
		}

		return shell, "/C"
	}

	shell := override
	if shell == "" {
		shell = os.Getenv("SHELL")
	}

	if shell == "" {
		shell = "/bin/sh"
	}

	return shell, "-c"
}

// launch spawns the task's command through the platform shell with stdout
// and stderr connected to fresh pipes. The command line is passed to the
// shell verbatim, never tokenized here.
func launch(ctx context.Context, spec TaskSpec) (*process, error) {
	shell, commandSwitch := resolveShell(spec.shell)

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeFiles(rOut, wOut)

		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	env := os.Environ()
	for key, value := range spec.Env {
		env = append(env, key+"="+value)
	}

	ps, err := os.StartProcess(shell, []string{filepath.Base(shell), commandSwitch, spec.Command}, &os.ProcAttr{
		Dir:   spec.Cwd,
		Env:   env,
		Files: []*os.File{os.Stdin, wOut, wErr},
	})
	if err != nil {
		closeFiles(rOut, wOut, rErr, wErr)

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	ctxlog.Debug(ctx, "process started", "pid", ps.Pid, "command", spec.Command)

	return &process{
		ps:       ps,
		stdoutR:  rOut,
		stdoutW:  wOut,
		stderrR:  rErr,
		stderrW:  wErr,
		waitDone: make(chan struct{}),
	}, nil
}

// Wait blocks until the process exits, then closes the parent's write ends
// of the output pipes so the stream drains observe EOF once the child's
// copies are gone. The returned code is -1 when the process was terminated
// by a signal.
func (p *process) Wait() (int, error) {
	state, err := p.ps.Wait()

	closeFiles(p.stdoutW, p.stderrW)
	close(p.waitDone)

	if state == nil {
		return -1, err
	}

	return state.ExitCode(), err
}

// Terminate asks the process to exit and escalates to a kill when it is
// still running after the grace period. Only the first call acts; repeat
// calls from other goroutines are no-ops.
func (p *process) Terminate(ctx context.Context, grace time.Duration) {
	p.termOnce.Do(func() {
		err := p.ps.Signal(syscall.SIGTERM)
		if err != nil {
			if errors.Is(err, os.ErrProcessDone) {
				ctxlog.Debug(ctx, "process already finished", "pid", p.ps.Pid)

				return
			}

			// Some platforms cannot deliver termination signals, so skip
			// straight to the kill.
			ctxlog.Debug(ctx, "could not signal process, killing it", "pid", p.ps.Pid, "error", err)
			p.kill(ctx)

			return
		}

		go func() {
			select {
			case <-p.waitDone:
			case <-time.After(grace):
				ctxlog.Debug(ctx, "process still running after grace period, killing it", "pid", p.ps.Pid, "grace", grace)
				p.kill(ctx)
			}
		}()
	})
}

// kill force-terminates the process, tolerating one that has already exited.
func (p *process) kill(ctx context.Context) {
	err := p.ps.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		ctxlog.Warn(ctx, "failed to kill process", "pid", p.ps.Pid, "error", err)
	}
}

func closeFiles(files ...*os.File) {
	for _, file := range files {
		_ = file.Close()
	}
}
