// Package shell runs external commands such as terraform and captures what they print.
package shell

import (
	"context"
	"io"
	"strings"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/os/exec"
	"github.com/gruntwork-io/casper/pkg/log"
)

// RunOptions contains the configuration needed to run shell commands.
type RunOptions struct {
	// Writer and ErrWriter receive a copy of the command output when set.
	Writer    io.Writer
	ErrWriter io.Writer

	// Env is added to the environment of the current process.
	Env map[string]string

	WorkingDir string
}

// RunCommandWithOutput runs the specified shell command with the specified arguments and returns what it printed.
// The command is executed in workingDir, or in runOpts.WorkingDir when workingDir is empty.
// The output is returned even when the command fails.
func RunCommandWithOutput(
	ctx context.Context,
	l log.Logger,
	runOpts *RunOptions,
	workingDir string,
	command string,
	args ...string,
) (*CmdOutput, error) {
	var (
		output     = new(CmdOutput)
		commandDir = workingDir
	)

	if commandDir == "" {
		commandDir = runOpts.WorkingDir
	}

	l.Debugf("Running command: %s %s", command, strings.Join(args, " "))

	var (
		cmdStdout io.Writer = &output.Stdout
		cmdStderr io.Writer = &output.Stderr
	)

	if runOpts.Writer != nil {
		cmdStdout = io.MultiWriter(runOpts.Writer, &output.Stdout)
	}

	if runOpts.ErrWriter != nil {
		cmdStderr = io.MultiWriter(runOpts.ErrWriter, &output.Stderr)
	}

	cmd := exec.Command(ctx, command, args...)
	cmd.Dir = commandDir
	cmd.Stdout = cmdStdout
	cmd.Stderr = cmdStderr
	cmd.Configure(
		exec.WithLogger(l),
		exec.WithEnv(runOpts.Env),
	)

	if err := cmd.Run(); err != nil {
		return output, errors.New(ProcessExecutionError{
			Err:        err,
			Args:       args,
			Command:    command,
			Output:     *output,
			WorkingDir: commandDir,
		})
	}

	return output, nil
}
